package timeline

import (
	"github.com/dmaksimov/startup-pulse/app/database"
)

type EntryType string

const (
	EntryTypeFunding EntryType = "funding"
	EntryTypeEvent   EntryType = "event"
	EntryTypeStory   EntryType = "story"
)

// Entry is the unified, type-discriminated timeline representation derived
// from one funding round, company event or story. Type and Title are always
// set; Date is an ISO date string, empty when the source date is unknown, so
// that string ordering stays total.
type Entry struct {
	ID          string         `json:"id"`
	Type        EntryType      `json:"type"`
	Date        string         `json:"date"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Amount      *float64       `json:"amount,omitempty"`
	Currency    string         `json:"currency,omitempty"`
	Investors   []string       `json:"investors,omitempty"`
	Valuation   *float64       `json:"valuation,omitempty"`
	SourceURL   string         `json:"source_url,omitempty"`
	Metadata    map[string]any `json:"metadata"`
}

// LastRound is the compact shape of a company's most recent funding round.
type LastRound struct {
	Type   string   `json:"type"`
	Amount *float64 `json:"amount"`
	Date   string   `json:"date"`
}

// FundingSummary aggregates a company's funding rounds. TotalRaised is 0, not
// null, when the company has no rounds; LastRound is nil in that case.
type FundingSummary struct {
	TotalRaised float64    `json:"total_raised"`
	LastRound   *LastRound `json:"last_round"`
}

type Stats struct {
	TotalEvents    int        `json:"total_events"`
	FundingRounds  int        `json:"funding_rounds"`
	CompanyEvents  int        `json:"company_events"`
	RelatedStories int        `json:"related_stories"`
	TotalFunding   float64    `json:"total_funding"`
	LastFunding    *LastRound `json:"last_funding"`
}

// Result is the full timeline response for one company.
type Result struct {
	Company  *database.Company `json:"company"`
	Timeline []Entry           `json:"timeline"`
	Stats    Stats             `json:"stats"`
}
