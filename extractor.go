package docchat

// ExtractResult holds the extracted content of a fetched page.
type ExtractResult struct {
	// Title is the page title extracted from metadata.
	Title string

	// ContentHTML is the content to convert into document text.
	ContentHTML string

	// Text is set when the page was already reduced to plain text
	// (e.g. a PDF). Conversion is skipped when Text is non-empty.
	Text string
}

// Extractor extracts the content of a fetched page.
type Extractor interface {
	// Extract processes a raw page body and returns its content.
	Extract(body string) (*ExtractResult, error)
}
