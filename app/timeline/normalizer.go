package timeline

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dmaksimov/startup-pulse/app/database"
)

const summaryMaxLength = 150

// Normalizer maps the three source record shapes into the unified Entry
// representation.
type Normalizer struct {
	titleCaser cases.Caser
}

func NewNormalizer() *Normalizer {
	return &Normalizer{
		titleCaser: cases.Title(language.English),
	}
}

func (n *Normalizer) FundingEntry(round database.FundingRound) Entry {
	label := n.titleCaser.String(strings.ReplaceAll(round.RoundType, "-", " "))

	var description string
	if round.AmountRaised != nil && *round.AmountRaised != 0 {
		description = "Raised " + FormatAmount(*round.AmountRaised)
	} else {
		description = n.titleCaser.String(round.RoundType) + " funding round"
	}

	return Entry{
		ID:          round.ID,
		Type:        EntryTypeFunding,
		Date:        round.AnnouncedDate,
		Title:       label + " Round",
		Description: description,
		Amount:      round.AmountRaised,
		Currency:    round.Currency,
		Investors:   round.Investors,
		Valuation:   round.Valuation,
		SourceURL:   round.SourceURL,
		Metadata: map[string]any{
			"round_type":  round.RoundType,
			"description": round.Description,
		},
	}
}

func (n *Normalizer) EventEntry(event database.CompanyEvent) Entry {
	metadata := make(map[string]any, len(event.Metadata)+1)
	for k, v := range event.Metadata {
		metadata[k] = v
	}
	// event_type always wins over a same-named metadata key
	metadata["event_type"] = event.EventType

	return Entry{
		ID:          event.ID,
		Type:        EntryTypeEvent,
		Date:        event.EventDate,
		Title:       event.Title,
		Description: event.Description,
		Amount:      event.Amount,
		SourceURL:   event.SourceURL,
		Metadata:    metadata,
	}
}

func (n *Normalizer) StoryEntry(story database.Story) Entry {
	// published_date may carry a full timestamp; only the date portion orders
	// the timeline
	date := story.PublishedDate
	if len(date) > 10 {
		date = date[:10]
	}

	return Entry{
		ID:          story.ID,
		Type:        EntryTypeStory,
		Date:        date,
		Title:       story.Title,
		Description: TruncateText(story.Summary, summaryMaxLength),
		SourceURL:   story.SourceURL,
		Metadata: map[string]any{
			"category":     story.Category,
			"tags":         story.Tags,
			"likes":        story.Likes,
			"views":        story.Views,
			"full_summary": story.Summary,
		},
	}
}

// FormatAmount renders a monetary amount in the compact display form used
// across the service: $2.5B, $5.0M, $750K, $500.
func FormatAmount(amount float64) string {
	if amount == 0 {
		return "Undisclosed"
	}

	switch {
	case amount >= 1_000_000_000:
		return fmt.Sprintf("$%.1fB", amount/1_000_000_000)
	case amount >= 1_000_000:
		return fmt.Sprintf("$%.1fM", amount/1_000_000)
	case amount >= 1_000:
		return fmt.Sprintf("$%.0fK", amount/1_000)
	default:
		return fmt.Sprintf("$%.0f", amount)
	}
}

// TruncateText shortens text to maxLength characters, replacing the tail with
// "..." so the result is exactly maxLength characters long when truncated.
// Lengths are counted in runes, not bytes, so multi-byte text is never cut
// mid-character.
func TruncateText(text string, maxLength int) string {
	runes := []rune(text)
	if len(runes) <= maxLength {
		return text
	}
	return string(runes[:maxLength-3]) + "..."
}
