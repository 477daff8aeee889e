package docchat

import "strings"

// ContextSeparator separates retrieved chunks in the prompt context.
const ContextSeparator = "\n\n"

const promptTemplate = `You are an assistant. Answer the question based only on the following context. Do not add the context and question in your response:

{context}

Question: {question}
Answer:`

// FormatContext joins the retrieved chunks in order. No results give an
// empty context.
func FormatContext(results []*SearchResult) string {
	parts := make([]string, 0, len(results))
	for _, r := range results {
		parts = append(parts, r.Chunk.Content)
	}
	return strings.Join(parts, ContextSeparator)
}

// BuildPrompt fills the instruction template with context and question.
func BuildPrompt(context, question string) string {
	// Single pass so placeholders inside the context are left alone.
	r := strings.NewReplacer("{context}", context, "{question}", question)
	return r.Replace(promptTemplate)
}
