package timeline

import (
	"context"
	"errors"
	"testing"

	"github.com/dmaksimov/startup-pulse/app/database"
)

type fakeFetcher struct {
	company *database.Company
	rounds  []database.FundingRound
	events  []database.CompanyEvent
	links   []database.StoryLink

	companyErr error
	roundsErr  error
	eventsErr  error
	linksErr   error
}

func (f *fakeFetcher) CompanyBySlug(ctx context.Context, slug string) (*database.Company, error) {
	return f.company, f.companyErr
}

func (f *fakeFetcher) FundingRounds(ctx context.Context, companyID string) ([]database.FundingRound, error) {
	return f.rounds, f.roundsErr
}

func (f *fakeFetcher) CompanyEvents(ctx context.Context, companyID string) ([]database.CompanyEvent, error) {
	return f.events, f.eventsErr
}

func (f *fakeFetcher) StoryLinks(ctx context.Context, companyID string) ([]database.StoryLink, error) {
	return f.links, f.linksErr
}

func TestEngine_GetCompanyTimeline(t *testing.T) {
	fetcher := &fakeFetcher{
		company: &database.Company{ID: "c1", Name: "Acme", Slug: "acme"},
		rounds: []database.FundingRound{
			{ID: "f1", CompanyID: "c1", RoundType: "series-a", AmountRaised: floatPtr(5_000_000), AnnouncedDate: "2024-01-10"},
		},
		events: []database.CompanyEvent{
			{ID: "e1", CompanyID: "c1", EventType: "launch", Title: "Product launch", EventDate: "2024-02-01"},
		},
		links: []database.StoryLink{
			{ID: "l1", StoryID: "s1", CompanyID: "c1", Story: &database.Story{
				ID: "s1", Title: "Acme in the news", Summary: "Summary", PublishedDate: "2024-03-01T00:00:00Z",
			}},
		},
	}

	engine := NewEngine(fetcher)
	result, err := engine.GetCompanyTimeline(context.Background(), "acme")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if result.Company.Slug != "acme" {
		t.Errorf("Expected company 'acme', got '%s'", result.Company.Slug)
	}

	if len(result.Timeline) != 3 {
		t.Fatalf("Expected 3 timeline entries, got %d", len(result.Timeline))
	}

	// Newest first: story (2024-03-01), event (2024-02-01), funding (2024-01-10)
	if result.Timeline[0].Type != EntryTypeStory || result.Timeline[0].Date != "2024-03-01" {
		t.Errorf("Expected story entry first, got %s (%s)", result.Timeline[0].Type, result.Timeline[0].Date)
	}
	if result.Timeline[1].Type != EntryTypeEvent || result.Timeline[1].Date != "2024-02-01" {
		t.Errorf("Expected event entry second, got %s (%s)", result.Timeline[1].Type, result.Timeline[1].Date)
	}
	if result.Timeline[2].Type != EntryTypeFunding || result.Timeline[2].Date != "2024-01-10" {
		t.Errorf("Expected funding entry last, got %s (%s)", result.Timeline[2].Type, result.Timeline[2].Date)
	}

	if result.Stats.TotalEvents != 3 {
		t.Errorf("Expected total_events 3, got %d", result.Stats.TotalEvents)
	}
	if result.Stats.FundingRounds != 1 {
		t.Errorf("Expected funding_rounds 1, got %d", result.Stats.FundingRounds)
	}
	if result.Stats.CompanyEvents != 1 {
		t.Errorf("Expected company_events 1, got %d", result.Stats.CompanyEvents)
	}
	if result.Stats.RelatedStories != 1 {
		t.Errorf("Expected related_stories 1, got %d", result.Stats.RelatedStories)
	}
	if result.Stats.TotalFunding != 5_000_000 {
		t.Errorf("Expected total_funding 5000000, got %v", result.Stats.TotalFunding)
	}
	if result.Stats.LastFunding == nil || result.Stats.LastFunding.Type != "series-a" {
		t.Errorf("Expected last_funding 'series-a', got %+v", result.Stats.LastFunding)
	}
}

func TestEngine_GetCompanyTimeline_CompanyNotFound(t *testing.T) {
	engine := NewEngine(&fakeFetcher{company: nil})

	_, err := engine.GetCompanyTimeline(context.Background(), "nope")
	if err == nil {
		t.Fatal("Expected an error for unknown slug")
	}
	if !errors.Is(err, ErrCompanyNotFound) {
		t.Errorf("Expected ErrCompanyNotFound, got %v", err)
	}
}

func TestEngine_GetCompanyTimeline_BrokenStoryLinkSkipped(t *testing.T) {
	fetcher := &fakeFetcher{
		company: &database.Company{ID: "c1", Slug: "acme"},
		links: []database.StoryLink{
			{ID: "l1", StoryID: "gone", CompanyID: "c1", Story: nil},
			{ID: "l2", StoryID: "s2", CompanyID: "c1", Story: &database.Story{
				ID: "s2", Title: "Still here", Summary: "ok", PublishedDate: "2024-01-01",
			}},
		},
	}

	engine := NewEngine(fetcher)
	result, err := engine.GetCompanyTimeline(context.Background(), "acme")
	if err != nil {
		t.Fatalf("Broken link must not fail the request: %v", err)
	}

	if len(result.Timeline) != 1 {
		t.Fatalf("Expected 1 timeline entry, got %d", len(result.Timeline))
	}
	if result.Timeline[0].ID != "s2" {
		t.Errorf("Expected surviving story 's2', got '%s'", result.Timeline[0].ID)
	}
	if result.Stats.RelatedStories != 1 {
		t.Errorf("Expected related_stories to exclude the broken link, got %d", result.Stats.RelatedStories)
	}
	if result.Stats.TotalEvents != 1 {
		t.Errorf("Expected total_events 1, got %d", result.Stats.TotalEvents)
	}
}

func TestEngine_GetCompanyTimeline_FetchFailureFailsRequest(t *testing.T) {
	fetchErr := errors.New("store unavailable")
	fetcher := &fakeFetcher{
		company:   &database.Company{ID: "c1", Slug: "acme"},
		eventsErr: fetchErr,
		links: []database.StoryLink{
			{ID: "l1", StoryID: "s1", CompanyID: "c1", Story: &database.Story{ID: "s1", Title: "t"}},
		},
	}

	engine := NewEngine(fetcher)
	_, err := engine.GetCompanyTimeline(context.Background(), "acme")
	if err == nil {
		t.Fatal("Expected a fetch failure to fail the whole request")
	}
	if !errors.Is(err, fetchErr) {
		t.Errorf("Expected wrapped fetch error, got %v", err)
	}
}

func TestEngine_GetCompanyTimeline_NoRecords(t *testing.T) {
	engine := NewEngine(&fakeFetcher{company: &database.Company{ID: "c1", Slug: "quiet"}})

	result, err := engine.GetCompanyTimeline(context.Background(), "quiet")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(result.Timeline) != 0 {
		t.Errorf("Expected empty timeline, got %d entries", len(result.Timeline))
	}
	if result.Stats.TotalFunding != 0 {
		t.Errorf("Expected total_funding 0, got %v", result.Stats.TotalFunding)
	}
	if result.Stats.LastFunding != nil {
		t.Errorf("Expected nil last_funding, got %+v", result.Stats.LastFunding)
	}
}

func TestSortEntries_DescendingWithEmptyDatesLast(t *testing.T) {
	entries := []Entry{
		{ID: "a", Date: ""},
		{ID: "b", Date: "2024-02-01"},
		{ID: "c", Date: "2023-12-31"},
		{ID: "d", Date: ""},
		{ID: "e", Date: "2024-06-15"},
	}

	SortEntries(entries)

	for i := 0; i < len(entries)-1; i++ {
		if entries[i].Date < entries[i+1].Date {
			t.Errorf("Entries out of order at %d: '%s' before '%s'", i, entries[i].Date, entries[i+1].Date)
		}
	}

	if entries[0].ID != "e" || entries[1].ID != "b" || entries[2].ID != "c" {
		t.Errorf("Unexpected order: %s, %s, %s", entries[0].ID, entries[1].ID, entries[2].ID)
	}
	if entries[3].Date != "" || entries[4].Date != "" {
		t.Error("Expected entries with empty dates to sort last")
	}
}
