// Package normalisers turns raw input files into domain documents.
// Each normaliser knows how to extract text from one kind of file.
package normalisers
