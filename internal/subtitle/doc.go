// Package subtitle provides the time-coded entry model, an in-memory
// collection of entries, and markup providers used to measure text with
// tags stripped.
//
// Every entry carries two text documents, the main text and its
// translation, selected by a Document value.
package subtitle
