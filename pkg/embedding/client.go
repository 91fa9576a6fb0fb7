package embedding

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

var (
	htmlTagPattern    = regexp.MustCompile(`<[^>]*>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// Client turns note text into embedding vectors through a Provider.
// It is stateless; retry policy belongs to the caller.
type Client struct {
	provider Provider
}

func NewClient(provider Provider) *Client {
	return &Client{provider: provider}
}

func (c *Client) Dimensions() int {
	return c.provider.Dimensions()
}

// Embed generates an embedding for arbitrary text. Blank input returns a zero
// vector of the configured dimension without calling the provider: empty
// payloads waste quota and some providers reject them outright.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return make([]float32, c.provider.Dimensions()), nil
	}
	return c.provider.Generate(ctx, text)
}

// EmbedForNote embeds a note's title and content. Content is stored as HTML,
// which pollutes the embedding with structural noise, so tags are stripped and
// whitespace collapsed before the labeled text is sent to the provider.
func (c *Client) EmbedForNote(ctx context.Context, title, content string) ([]float32, error) {
	cleanTitle := strings.TrimSpace(title)
	cleanContent := strings.TrimSpace(StripHTML(content))

	// A note with no text still gets a (zero) embedding so that "has embedding"
	// remains a reliable guard for search eligibility.
	if cleanTitle == "" && cleanContent == "" {
		return make([]float32, c.provider.Dimensions()), nil
	}

	combined := fmt.Sprintf("Title: %s\n\nContent: %s", cleanTitle, cleanContent)
	return c.Embed(ctx, combined)
}

// StripHTML replaces tags with single spaces, normalizes common entities and
// collapses whitespace.
func StripHTML(html string) string {
	if html == "" {
		return ""
	}
	text := htmlTagPattern.ReplaceAllString(html, " ")
	text = strings.NewReplacer(
		"&nbsp;", " ",
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
	).Replace(text)
	text = whitespacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
