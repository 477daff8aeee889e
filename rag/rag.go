// Package rag wires the domain components into the retrieval-augmented
// generation pipeline: building the index once and answering questions
// from it.
package rag
