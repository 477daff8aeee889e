package gemini

// NewTokenCounterWith exposes the tokenizer loader to tests.
var NewTokenCounterWith = newTokenCounter
