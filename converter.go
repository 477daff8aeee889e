package docchat

// Converter renders extracted HTML as document text.
type Converter interface {
	// Convert transforms HTML content into text suitable for chunking,
	// either plain text or Markdown depending on the implementation.
	Convert(html string) (string, error)
}
