// Package docchat answers questions about crawled documentation sites.
// It crawls a fixed set of seed URLs, splits the pages into overlapping
// chunks, embeds them into a persisted vector index, and answers questions
// by retrieving the closest chunks and handing them to a generation model.
//
// This package contains domain types, interfaces and pure functions.
// Implementations live in subdirectories named after their primary
// dependency (e.g., sqlite/, gemini/, gin/).
package docchat
