package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

// IDSize is the length of every primary key the store generates.
const IDSize = 32

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NewID returns an IDSize character alphanumeric nanoid.
func NewID() string {
	return NewIDOfSize(IDSize)
}

// NewIDOfSize returns a nanoid of size characters, or IDSize when size is
// not positive.
func NewIDOfSize(size int) string {
	if size <= 0 {
		size = IDSize
	}

	return gonanoid.MustGenerate(idAlphabet, size)
}
