package timeline

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/dmaksimov/startup-pulse/app/database"
)

// ErrCompanyNotFound is returned when no company matches the requested slug.
var ErrCompanyNotFound = errors.New("company not found")

// Engine assembles a company's timeline: it resolves the company, fetches the
// three record sets, normalizes them into entries, orders them and derives
// aggregate statistics. It holds no state across requests.
type Engine struct {
	fetcher    Fetcher
	normalizer *Normalizer
}

func NewEngine(fetcher Fetcher) *Engine {
	return &Engine{
		fetcher:    fetcher,
		normalizer: NewNormalizer(),
	}
}

// GetCompanyTimeline builds the full timeline response for the company with
// the given slug. A failure on any of the three fetches fails the whole
// request; no partial timeline is returned.
func (e *Engine) GetCompanyTimeline(ctx context.Context, slug string) (*Result, error) {
	company, err := e.fetcher.CompanyBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve company: %w", err)
	}
	if company == nil {
		return nil, fmt.Errorf("%w: %s", ErrCompanyNotFound, slug)
	}

	var (
		rounds []database.FundingRound
		events []database.CompanyEvent
		links  []database.StoryLink
	)

	// The three fetches are independent once the company id is known
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rounds, err = e.fetcher.FundingRounds(gctx, company.ID)
		return err
	})
	g.Go(func() error {
		var err error
		events, err = e.fetcher.CompanyEvents(gctx, company.ID)
		return err
	})
	g.Go(func() error {
		var err error
		links, err = e.fetcher.StoryLinks(gctx, company.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to fetch timeline records: %w", err)
	}

	entries := make([]Entry, 0, len(rounds)+len(events)+len(links))
	for _, round := range rounds {
		entries = append(entries, e.normalizer.FundingEntry(round))
	}
	for _, event := range events {
		entries = append(entries, e.normalizer.EventEntry(event))
	}

	// Links whose story is gone are expected data-quality noise, not errors
	relatedStories := 0
	for _, link := range links {
		if link.Story == nil {
			continue
		}
		entries = append(entries, e.normalizer.StoryEntry(*link.Story))
		relatedStories++
	}

	SortEntries(entries)

	summary := Summarize(rounds)

	return &Result{
		Company:  company,
		Timeline: entries,
		Stats: Stats{
			TotalEvents:    len(entries),
			FundingRounds:  len(rounds),
			CompanyEvents:  len(events),
			RelatedStories: relatedStories,
			TotalFunding:   summary.TotalRaised,
			LastFunding:    summary.LastRound,
		},
	}, nil
}

// SortEntries orders entries newest first by plain string comparison of the
// ISO dates. Entries with an empty date compare smallest, so the descending
// order naturally pushes them to the end.
func SortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Date > entries[j].Date
	})
}
