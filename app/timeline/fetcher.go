package timeline

import (
	"context"

	"github.com/dmaksimov/startup-pulse/app/database"
)

// Fetcher is the read contract the engine needs from the record store. The
// SQL repositories satisfy it in production; tests inject an in-memory fake.
type Fetcher interface {
	CompanyBySlug(ctx context.Context, slug string) (*database.Company, error)
	FundingRounds(ctx context.Context, companyID string) ([]database.FundingRound, error)
	CompanyEvents(ctx context.Context, companyID string) ([]database.CompanyEvent, error)
	StoryLinks(ctx context.Context, companyID string) ([]database.StoryLink, error)
}

var _ Fetcher = (*StoreFetcher)(nil)

// StoreFetcher adapts the database repositories to the engine's Fetcher
// contract.
type StoreFetcher struct {
	companies database.CompanyRepository
	funding   database.FundingRepository
	events    database.EventRepository
	stories   database.StoryRepository
}

func NewStoreFetcher(companies database.CompanyRepository, funding database.FundingRepository,
	events database.EventRepository, stories database.StoryRepository) *StoreFetcher {
	return &StoreFetcher{
		companies: companies,
		funding:   funding,
		events:    events,
		stories:   stories,
	}
}

func (f *StoreFetcher) CompanyBySlug(ctx context.Context, slug string) (*database.Company, error) {
	return f.companies.GetBySlug(ctx, slug)
}

func (f *StoreFetcher) FundingRounds(ctx context.Context, companyID string) ([]database.FundingRound, error) {
	return f.funding.GetByCompany(ctx, companyID)
}

func (f *StoreFetcher) CompanyEvents(ctx context.Context, companyID string) ([]database.CompanyEvent, error) {
	return f.events.GetByCompany(ctx, companyID)
}

func (f *StoreFetcher) StoryLinks(ctx context.Context, companyID string) ([]database.StoryLink, error) {
	return f.stories.GetLinksForCompany(ctx, companyID)
}
