package sources

import (
	"testing"
)

const testFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
<title>Startup News</title>
<link>https://example.com</link>
<item>
<title>Acme raises Series A</title>
<link>https://example.com/acme-series-a</link>
<description>Acme Corp closed a five million dollar round.</description>
<pubDate>Mon, 15 Jan 2024 10:00:00 GMT</pubDate>
<category>funding</category>
<category>ai</category>
</item>
<item>
<title>Widget Co launches</title>
<link>https://example.com/widget-launch</link>
<description>Widget Co shipped its first product.</description>
</item>
</channel>
</rss>`

func TestParserRun(t *testing.T) {
	parser := NewParser()

	items, err := parser.Run([]byte(testFeed))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(items))
	}

	first := items[0]
	if first.Title != "Acme raises Series A" {
		t.Errorf("Expected title 'Acme raises Series A', got '%s'", first.Title)
	}
	if first.Link != "https://example.com/acme-series-a" {
		t.Errorf("Expected link preserved, got '%s'", first.Link)
	}
	if first.PublishedAt == nil {
		t.Error("Expected published date parsed")
	}
	if len(first.Categories) != 2 || first.Categories[0] != "funding" {
		t.Errorf("Expected categories parsed, got %v", first.Categories)
	}

	second := items[1]
	if second.PublishedAt != nil {
		t.Errorf("Expected nil published date for item without pubDate, got %v", second.PublishedAt)
	}
}

func TestParserRunInvalidData(t *testing.T) {
	parser := NewParser()

	if _, err := parser.Run([]byte("not a feed")); err == nil {
		t.Error("Expected an error for invalid feed data")
	}
}
