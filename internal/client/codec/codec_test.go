package codec

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/syncpress/syncpress/internal/cmssdk"
)

func testItem() *cmssdk.Item {
	return &cmssdk.Item{
		ID:        "itm_123",
		Type:      "page",
		Slug:      "about",
		Fields:    map[string]any{"title": "About Us", "draft": false},
		Body:      "# About\n\nHello.\n",
		UpdatedAt: time.Unix(0, 0),
	}
}

func TestToTextCanonical(t *testing.T) {
	item := testItem()

	a, err := ToText(item)
	require.NoError(t, err)
	b, err := ToText(item)
	require.NoError(t, err)

	assert.Equal(t, a, b, "same item must render identically")
	assert.Equal(t, Digest(a), Digest(b))
}

func TestRoundTrip(t *testing.T) {
	text, err := ToText(testItem())
	require.NoError(t, err)

	payload, err := ToPayload(text)
	require.NoError(t, err)

	assert.Equal(t, "itm_123", payload.ID)
	assert.Equal(t, "page", payload.Type)
	assert.Equal(t, "about", payload.Slug)
	assert.Equal(t, "About Us", payload.Fields["title"])
	assert.Equal(t, "# About\n\nHello.\n", payload.Body)
}

func TestToPayloadNoID(t *testing.T) {
	text := "---\ntype: post\nslug: hello\n---\n\nBody text.\n"

	payload, err := ToPayload(text)
	require.NoError(t, err)
	assert.Empty(t, payload.ID)
	assert.Equal(t, "post", payload.Type)
	assert.Equal(t, "Body text.\n", payload.Body)
}

func TestToPayloadErrors(t *testing.T) {
	cases := []struct {
		name string
		text string
	}{
		{"no front matter", "just a plain file\n"},
		{"unterminated", "---\ntype: page\nslug: x\n"},
		{"bad yaml", "---\n\t: [\n---\n\nbody\n"},
		{"missing type", "---\nslug: x\n---\n\nbody\n"},
		{"missing slug", "---\ntype: page\n---\n\nbody\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ToPayload(tc.text)
			require.Error(t, err)
			var perr *ParseError
			assert.ErrorAs(t, err, &perr)
		})
	}
}

func TestDigest(t *testing.T) {
	assert.Equal(t, Digest("hello"), Digest("hello"))
	assert.NotEqual(t, Digest("hello"), Digest("hello "))
	assert.Len(t, Digest("anything"), 16)
}
