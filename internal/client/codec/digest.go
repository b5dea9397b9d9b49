package codec

import (
	"fmt"

	"github.com/zeebo/xxh3"
)

// Digest returns a cheap deterministic fingerprint of text content. It is
// for equality comparison only, not tamper detection.
func Digest(text string) string {
	return fmt.Sprintf("%016x", xxh3.HashString(text))
}
