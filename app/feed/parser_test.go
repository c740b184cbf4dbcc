package feed

import (
	"errors"
	"testing"
)

func TestParseRSS2(t *testing.T) {
	rssData := `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>Test Feed</title>
    <link>https://example.com</link>
    <description>Test Description</description>
    <item>
      <title>Test Item 1</title>
      <link>https://example.com/item1</link>
      <description>Test Item 1 Description</description>
      <guid>item-1</guid>
      <pubDate>Mon, 03 Jul 2023 10:00:00 GMT</pubDate>
      <author>test@example.com (Test Author)</author>
    </item>
    <item>
      <title>Test Item 2</title>
      <link>https://example.com/item2</link>
      <description>Test Item 2 Description</description>
      <guid>item-2</guid>
      <pubDate>Mon, 03 Jul 2023 11:00:00 GMT</pubDate>
    </item>
  </channel>
</rss>`

	parser := NewParser()
	items, err := parser.Run([]byte(rssData))

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("Expected 2 items, got: %d", len(items))
	}

	item1 := items[0]
	if item1.Title != "Test Item 1" {
		t.Errorf("Expected title 'Test Item 1', got: %s", item1.Title)
	}
	if item1.Link != "https://example.com/item1" {
		t.Errorf("Expected link 'https://example.com/item1', got: %s", item1.Link)
	}
	if item1.Author == nil {
		t.Fatal("Expected author to be set on first item")
	}
	if *item1.Author != "test@example.com (Test Author)" {
		t.Errorf("Expected author 'test@example.com (Test Author)', got: %s", *item1.Author)
	}
	if item1.Published == nil {
		t.Error("Expected published date to be set")
	}
	if item1.Summary == nil || *item1.Summary != "Test Item 1 Description" {
		t.Errorf("Expected summary to be set, got: %v", item1.Summary)
	}

	item2 := items[1]
	if item2.Author != nil {
		t.Errorf("Expected nil author on second item, got: %s", *item2.Author)
	}
	if item2.Content != nil {
		t.Errorf("Expected nil content on second item, got: %s", *item2.Content)
	}
}

func TestParseAtom(t *testing.T) {
	atomData := `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Test Atom Feed</title>
  <link href="https://example.com"/>
  <updated>2023-07-03T12:00:00Z</updated>
  <id>urn:uuid:1234567890</id>
  <entry>
    <title>Test Entry</title>
    <link href="https://example.com/entry1"/>
    <id>urn:uuid:entry-1</id>
    <updated>2023-07-03T10:00:00Z</updated>
    <author>
      <name>Atom Author</name>
    </author>
    <content type="html">Test content</content>
  </entry>
</feed>`

	parser := NewParser()
	items, err := parser.Run([]byte(atomData))

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("Expected 1 item, got: %d", len(items))
	}

	item := items[0]
	if item.Title != "Test Entry" {
		t.Errorf("Expected title 'Test Entry', got: %s", item.Title)
	}
	if item.Link != "https://example.com/entry1" {
		t.Errorf("Expected link 'https://example.com/entry1', got: %s", item.Link)
	}
	if item.Author == nil || *item.Author != "Atom Author" {
		t.Errorf("Expected author 'Atom Author', got: %v", item.Author)
	}
	if item.Content == nil || *item.Content != "Test content" {
		t.Errorf("Expected content 'Test content', got: %v", item.Content)
	}
}

func TestParseGeneratesUniqueIDs(t *testing.T) {
	rssData := `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>Test Feed</title>
    <item><title>A</title><link>https://example.com/a</link></item>
    <item><title>B</title><link>https://example.com/b</link></item>
    <item><title>C</title><link>https://example.com/c</link></item>
  </channel>
</rss>`

	parser := NewParser()
	items, err := parser.Run([]byte(rssData))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	seen := make(map[string]bool)
	for _, item := range items {
		if item.ID == "" {
			t.Error("Expected non-empty item ID")
		}
		if seen[item.ID] {
			t.Errorf("Duplicate item ID: %s", item.ID)
		}
		seen[item.ID] = true
		if item.FetchedAt.IsZero() {
			t.Error("Expected FetchedAt to be stamped")
		}
	}
}

func TestParseInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty bytes", ""},
		{"plain text", "just some text"},
		{"JSON", `{"title": "not a feed"}`},
		{"broken XML", "<rss><channel><item></rss>"},
	}

	parser := NewParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.Run([]byte(tt.data))
			if err == nil {
				t.Fatal("Expected parse error")
			}

			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Errorf("Expected *ParseError, got: %T", err)
			}
		})
	}
}
