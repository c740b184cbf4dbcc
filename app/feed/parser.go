package feed

import (
	"bytes"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mmcdole/gofeed"
)

type Parser struct {
	gofeedParser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
	}
}

// Run parses RSS 2.0 or Atom 1.0 bytes into normalized items. Structurally
// broken documents return a *ParseError; missing optional elements never do.
func (p *Parser) Run(data []byte) ([]Item, error) {
	parsed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	fetchedAt := time.Now().UTC()
	items := make([]Item, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		items = append(items, p.normalizeItem(item, fetchedAt))
	}

	return items, nil
}

func (p *Parser) normalizeItem(item *gofeed.Item, fetchedAt time.Time) Item {
	normalized := Item{
		ID:        uuid.NewString(),
		Title:     strings.TrimSpace(item.Title),
		Link:      strings.TrimSpace(item.Link),
		FetchedAt: fetchedAt,
	}

	if item.PublishedParsed != nil {
		normalized.Published = item.PublishedParsed
	} else if item.UpdatedParsed != nil {
		normalized.Published = item.UpdatedParsed
	}

	normalized.Summary = optional(item.Description)
	normalized.Content = optional(item.Content)
	normalized.Author = optional(p.extractAuthor(item))

	return normalized
}

func (p *Parser) extractAuthor(item *gofeed.Item) string {
	if len(item.Authors) > 0 && item.Authors[0] != nil {
		return p.formatAuthor(item.Authors[0].Name, item.Authors[0].Email)
	}
	if item.Author != nil {
		return p.formatAuthor(item.Author.Name, item.Author.Email)
	}
	return ""
}

func (p *Parser) formatAuthor(name, email string) string {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	if name != "" && email != "" {
		return email + " (" + name + ")"
	} else if name != "" {
		return name
	}
	return email
}

// optional converts gofeed's empty-string absence convention to nil.
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
