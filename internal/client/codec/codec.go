// Package codec renders CMS items to and from their on-disk textual form:
// a YAML front matter block followed by the markdown body.
package codec

import (
	"fmt"
	"strings"

	"github.com/syncpress/syncpress/internal/cmssdk"
	"gopkg.in/yaml.v3"
)

const frontMatterDelim = "---"

// ParseError indicates a local file whose front matter could not be decoded.
// Such files are excluded from the sync run that hit them.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("codec: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("codec: %s", e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

// frontMatter is the YAML header carried at the top of every content file.
// Field order is fixed so the rendering is canonical.
type frontMatter struct {
	ID     string         `yaml:"id,omitempty"`
	Type   string         `yaml:"type"`
	Slug   string         `yaml:"slug"`
	Fields map[string]any `yaml:"fields,omitempty"`
}

// ToText renders an item into its canonical textual form. The same item
// always renders to the same text, so digests of renderings are comparable.
func ToText(item *cmssdk.Item) (string, error) {
	fm := frontMatter{
		ID:     item.ID,
		Type:   item.Type,
		Slug:   item.Slug,
		Fields: item.Fields,
	}

	head, err := yaml.Marshal(&fm)
	if err != nil {
		return "", fmt.Errorf("codec: marshal front matter: %w", err)
	}

	var b strings.Builder
	b.WriteString(frontMatterDelim)
	b.WriteByte('\n')
	b.Write(head)
	b.WriteString(frontMatterDelim)
	b.WriteString("\n\n")
	b.WriteString(strings.TrimLeft(item.Body, "\n"))
	return b.String(), nil
}

// ToPayload parses a content file back into the write-side payload for the
// remote API. A missing or malformed front matter block is a *ParseError.
func ToPayload(text string) (*cmssdk.ItemPayload, error) {
	head, body, err := splitFrontMatter(text)
	if err != nil {
		return nil, err
	}

	var fm frontMatter
	if err := yaml.Unmarshal([]byte(head), &fm); err != nil {
		return nil, &ParseError{Reason: "invalid front matter yaml", Err: err}
	}
	if fm.Type == "" {
		return nil, &ParseError{Reason: "front matter missing type"}
	}
	if fm.Slug == "" {
		return nil, &ParseError{Reason: "front matter missing slug"}
	}

	return &cmssdk.ItemPayload{
		ID:     fm.ID,
		Type:   fm.Type,
		Slug:   fm.Slug,
		Fields: fm.Fields,
		Body:   strings.TrimLeft(body, "\n"),
	}, nil
}

func splitFrontMatter(text string) (head string, body string, err error) {
	if !strings.HasPrefix(text, frontMatterDelim+"\n") {
		return "", "", &ParseError{Reason: "missing front matter block"}
	}

	rest := text[len(frontMatterDelim)+1:]
	end := strings.Index(rest, "\n"+frontMatterDelim)
	if end < 0 {
		return "", "", &ParseError{Reason: "unterminated front matter block"}
	}

	head = rest[:end+1]
	body = rest[end+1+len(frontMatterDelim):]
	if strings.HasPrefix(body, "\n") {
		body = body[1:]
	}
	return head, body, nil
}
