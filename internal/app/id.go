package app

import gonanoid "github.com/matoous/go-nanoid/v2"

const (
	idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	idSize     = 21
)

// newID produces a short URL-safe identifier.
// Isolated here so the ID strategy can evolve independently.
func newID() string {
	return gonanoid.MustGenerate(idAlphabet, idSize)
}
