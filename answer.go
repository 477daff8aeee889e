package docchat

import "strings"

// AnswerMarker precedes the answer in generated text.
const AnswerMarker = "Answer:"

// ExtractAnswer returns the trimmed text after the last AnswerMarker in
// raw. Without a marker it returns the whole output, trimmed.
func ExtractAnswer(raw string) string {
	if i := strings.LastIndex(raw, AnswerMarker); i >= 0 {
		raw = raw[i+len(AnswerMarker):]
	}
	return strings.TrimSpace(raw)
}
