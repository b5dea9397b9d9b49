package sync

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// itemPath and slugFromPath must be inverses, including for slugs with
// slashes, or the poller and the create pipeline would disagree on where
// an item lives.
func TestPathSlugRoundTrip(t *testing.T) {
	cases := []struct {
		prefix string
		slug   string
		path   string
	}{
		{"pages/", "about", "pages/about.md"},
		{"posts/", "deep/hello", "posts/deep/hello.md"},
		{"posts/notes/", "a", "posts/notes/a.md"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.path, itemPath(tc.prefix, tc.slug))
		assert.Equal(t, tc.slug, slugFromPath(tc.prefix, tc.path))
	}
}
