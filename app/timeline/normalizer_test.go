package timeline

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/dmaksimov/startup-pulse/app/database"
)

func floatPtr(v float64) *float64 {
	return &v
}

func TestNormalizer_FundingEntry(t *testing.T) {
	normalizer := NewNormalizer()

	round := database.FundingRound{
		ID:            "round-1",
		RoundType:     "series-a",
		AmountRaised:  floatPtr(5_000_000),
		Currency:      "USD",
		AnnouncedDate: "2024-01-10",
		Investors:     []string{"Example Ventures"},
		SourceURL:     "https://example.com/funding",
		Description:   "Led by Example Ventures",
	}

	entry := normalizer.FundingEntry(round)

	if entry.Type != EntryTypeFunding {
		t.Errorf("Expected type 'funding', got '%s'", entry.Type)
	}
	if entry.Title != "Series A Round" {
		t.Errorf("Expected title 'Series A Round', got '%s'", entry.Title)
	}
	if entry.Description != "Raised $5.0M" {
		t.Errorf("Expected description 'Raised $5.0M', got '%s'", entry.Description)
	}
	if entry.Date != "2024-01-10" {
		t.Errorf("Expected date '2024-01-10', got '%s'", entry.Date)
	}
	if entry.Amount == nil || *entry.Amount != 5_000_000 {
		t.Errorf("Expected amount 5000000, got %v", entry.Amount)
	}
	if entry.Metadata["round_type"] != "series-a" {
		t.Errorf("Expected metadata round_type 'series-a', got '%v'", entry.Metadata["round_type"])
	}
	if entry.Metadata["description"] != "Led by Example Ventures" {
		t.Errorf("Expected original description in metadata, got '%v'", entry.Metadata["description"])
	}
}

func TestNormalizer_FundingEntry_UndisclosedAmount(t *testing.T) {
	normalizer := NewNormalizer()

	round := database.FundingRound{
		ID:            "round-2",
		RoundType:     "seed",
		AnnouncedDate: "2023-06-01",
	}

	entry := normalizer.FundingEntry(round)

	if entry.Title != "Seed Round" {
		t.Errorf("Expected title 'Seed Round', got '%s'", entry.Title)
	}
	if entry.Description != "Seed funding round" {
		t.Errorf("Expected fallback description 'Seed funding round', got '%s'", entry.Description)
	}
	if entry.Amount != nil {
		t.Errorf("Expected nil amount, got %v", entry.Amount)
	}
}

func TestNormalizer_FundingEntry_ZeroAmountFallsBack(t *testing.T) {
	normalizer := NewNormalizer()

	round := database.FundingRound{
		ID:           "round-3",
		RoundType:    "series-a",
		AmountRaised: floatPtr(0),
	}

	entry := normalizer.FundingEntry(round)

	if entry.Description != "Series-A funding round" {
		t.Errorf("Expected 'Series-A funding round', got '%s'", entry.Description)
	}
}

func TestNormalizer_EventEntry(t *testing.T) {
	normalizer := NewNormalizer()

	event := database.CompanyEvent{
		ID:          "event-1",
		EventType:   "acquisition",
		Title:       "Acquired Widget Co",
		Description: "Strategic acquisition",
		EventDate:   "2024-02-01",
		Amount:      floatPtr(10_000_000),
		SourceURL:   "https://example.com/news",
		Metadata:    map[string]any{"deal_size": "large"},
	}

	entry := normalizer.EventEntry(event)

	if entry.Type != EntryTypeEvent {
		t.Errorf("Expected type 'event', got '%s'", entry.Type)
	}
	if entry.Title != "Acquired Widget Co" {
		t.Errorf("Expected title copied through, got '%s'", entry.Title)
	}
	if entry.Metadata["event_type"] != "acquisition" {
		t.Errorf("Expected metadata event_type 'acquisition', got '%v'", entry.Metadata["event_type"])
	}
	if entry.Metadata["deal_size"] != "large" {
		t.Errorf("Expected event metadata to be merged, got '%v'", entry.Metadata["deal_size"])
	}
}

func TestNormalizer_EventEntry_EventTypeWinsOverMetadataKey(t *testing.T) {
	normalizer := NewNormalizer()

	event := database.CompanyEvent{
		ID:        "event-2",
		EventType: "launch",
		Title:     "Launched v2",
		Metadata:  map[string]any{"event_type": "should-not-survive"},
	}

	entry := normalizer.EventEntry(event)

	if entry.Metadata["event_type"] != "launch" {
		t.Errorf("event_type must win over a same-named metadata key, got '%v'", entry.Metadata["event_type"])
	}
	// The source metadata map must stay untouched
	if event.Metadata["event_type"] != "should-not-survive" {
		t.Errorf("Source event metadata was mutated: %v", event.Metadata["event_type"])
	}
}

func TestNormalizer_StoryEntry_DateExtraction(t *testing.T) {
	normalizer := NewNormalizer()

	story := database.Story{
		ID:            "story-1",
		Title:         "Acme raises Series A",
		Summary:       "Short summary",
		Category:      "funding",
		Tags:          []string{"ai", "funding"},
		PublishedDate: "2024-01-15T10:00:00Z",
		Likes:         3,
		Views:         42,
	}

	entry := normalizer.StoryEntry(story)

	if entry.Type != EntryTypeStory {
		t.Errorf("Expected type 'story', got '%s'", entry.Type)
	}
	if entry.Date != "2024-01-15" {
		t.Errorf("Expected date portion '2024-01-15', got '%s'", entry.Date)
	}
	if entry.Metadata["category"] != "funding" {
		t.Errorf("Expected metadata category 'funding', got '%v'", entry.Metadata["category"])
	}
	if entry.Metadata["likes"] != 3 {
		t.Errorf("Expected metadata likes 3, got '%v'", entry.Metadata["likes"])
	}
	if entry.Metadata["full_summary"] != "Short summary" {
		t.Errorf("Expected untruncated summary in metadata, got '%v'", entry.Metadata["full_summary"])
	}
	if entry.Amount != nil {
		t.Errorf("Stories must not carry an amount, got %v", entry.Amount)
	}
}

func TestNormalizer_StoryEntry_BareDateIsNoOp(t *testing.T) {
	normalizer := NewNormalizer()

	entry := normalizer.StoryEntry(database.Story{ID: "story-2", Title: "t", PublishedDate: "2024-03-01"})
	if entry.Date != "2024-03-01" {
		t.Errorf("Expected bare date unchanged, got '%s'", entry.Date)
	}

	entry = normalizer.StoryEntry(database.Story{ID: "story-3", Title: "t"})
	if entry.Date != "" {
		t.Errorf("Expected empty date sentinel, got '%s'", entry.Date)
	}
}

func TestNormalizer_StoryEntry_SummaryTruncation(t *testing.T) {
	normalizer := NewNormalizer()

	long := strings.Repeat("a", 200)
	entry := normalizer.StoryEntry(database.Story{ID: "story-4", Title: "t", Summary: long})

	if len(entry.Description) != 150 {
		t.Errorf("Expected truncated description of exactly 150 chars, got %d", len(entry.Description))
	}
	if !strings.HasSuffix(entry.Description, "...") {
		t.Errorf("Expected truncated description to end in '...', got '%s'", entry.Description[140:])
	}
	if entry.Metadata["full_summary"] != long {
		t.Error("Expected metadata full_summary to keep the untruncated text")
	}

	short := strings.Repeat("b", 100)
	entry = normalizer.StoryEntry(database.Story{ID: "story-5", Title: "t", Summary: short})
	if entry.Description != short {
		t.Errorf("Expected 100-char summary unchanged, got %d chars", len(entry.Description))
	}
}

func TestTruncateText_CountsCharactersNotBytes(t *testing.T) {
	// 100 characters but 300 bytes; must pass through unchanged
	short := strings.Repeat("—", 100)
	if got := TruncateText(short, 150); got != short {
		t.Errorf("Expected 100-character summary unchanged, got %d characters", len([]rune(got)))
	}

	long := strings.Repeat("é", 200)
	got := TruncateText(long, 150)
	if n := len([]rune(got)); n != 150 {
		t.Errorf("Expected exactly 150 characters, got %d", n)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("Expected truncated text to end in '...', got '%s'", got[len(got)-9:])
	}
	if !utf8.ValidString(got) {
		t.Error("Truncated text is not valid UTF-8")
	}
	if string([]rune(got)[:147]) != strings.Repeat("é", 147) {
		t.Error("Expected the first 147 characters to be preserved")
	}
}

func TestTruncateText_ExactBoundary(t *testing.T) {
	exact := strings.Repeat("c", 150)
	if got := TruncateText(exact, 150); got != exact {
		t.Errorf("Expected 150-char text unchanged, got %d chars", len(got))
	}

	over := strings.Repeat("c", 151)
	got := TruncateText(over, 150)
	if len(got) != 150 {
		t.Errorf("Expected 150 chars, got %d", len(got))
	}
	if got[:147] != over[:147] {
		t.Error("Expected the first 147 characters to be preserved")
	}
}

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		amount   float64
		expected string
	}{
		{2_500_000_000, "$2.5B"},
		{1_000_000_000, "$1.0B"},
		{5_000_000, "$5.0M"},
		{750_000, "$750K"},
		{1_000, "$1K"},
		{500, "$500"},
		{999, "$999"},
		{0, "Undisclosed"},
	}

	for _, c := range cases {
		if got := FormatAmount(c.amount); got != c.expected {
			t.Errorf("FormatAmount(%v): expected '%s', got '%s'", c.amount, c.expected, got)
		}
	}
}
