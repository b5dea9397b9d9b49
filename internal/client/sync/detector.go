package sync

import (
	"os"

	"github.com/syncpress/syncpress/internal/client/codec"
)

// ChangeDetector wraps the codec digest with the comparison rules used by
// the reconciler. Two contents are equal iff their digests are equal.
type ChangeDetector struct{}

func (ChangeDetector) Digest(text string) string {
	return codec.Digest(text)
}

// FileDigest returns the digest of the file at absPath. readable is false
// when the file is missing or unreadable, which the reconciler treats as
// "deleted underneath tracking".
func (d ChangeDetector) FileDigest(absPath string) (digest string, readable bool) {
	data, err := os.ReadFile(absPath)
	if err != nil {
		return "", false
	}
	return codec.Digest(string(data)), true
}
