package database

import "context"

type CompanyFilter struct {
	Industry    string
	CompanyType string
	Location    string
	Search      string
	Sort        string // name, founded_date or updated_at
	Limit       int
	Offset      int
}

type StoryFilter struct {
	Category    string
	Search      string
	CompanySlug string
	Status      string
	Limit       int
	Offset      int
}

type StoryUpdate struct {
	Title     *string
	Summary   *string
	Content   *string
	Category  *string
	Tags      []string
	SourceURL *string
	ImageURL  *string
	Status    *string
}

type CompanyRepository interface {
	GetBySlug(ctx context.Context, slug string) (*Company, error)
	GetByID(ctx context.Context, id string) (*Company, error)
	List(ctx context.Context, filter CompanyFilter) ([]Company, error)
	Create(ctx context.Context, company Company) (string, error)
	GetCount(ctx context.Context) (int, error)
}

type FundingRepository interface {
	GetByCompany(ctx context.Context, companyID string) ([]FundingRound, error)
}

type EventRepository interface {
	GetByCompany(ctx context.Context, companyID string) ([]CompanyEvent, error)
}

type StoryRepository interface {
	GetByID(ctx context.Context, id string) (*Story, error)
	GetBySourceURL(ctx context.Context, sourceURL string) (*Story, error)
	List(ctx context.Context, filter StoryFilter) ([]Story, error)
	Trending(ctx context.Context, since string, limit int) ([]Story, error)
	Create(ctx context.Context, story Story) (string, error)
	Update(ctx context.Context, id string, update StoryUpdate) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	IncrementLikes(ctx context.Context, id string) (int, error)
	IncrementViews(ctx context.Context, id string) (int, error)
	GetCount(ctx context.Context) (int, error)

	GetLinksForCompany(ctx context.Context, companyID string) ([]StoryLink, error)
	GetCompaniesForStory(ctx context.Context, storyID string) ([]CompanyRef, error)
	CountLinkedStories(ctx context.Context, companyID string) (int, error)
	LinkToCompany(ctx context.Context, storyID, companyID string, relevance float64) error
	UnlinkAll(ctx context.Context, storyID string) error

	GetNeedingSummary(ctx context.Context, limit int) ([]Story, error)
	UpdateSummary(ctx context.Context, id, summary string) error
}

type SubmissionRepository interface {
	Create(ctx context.Context, submission Submission) (*Submission, error)
	GetByID(ctx context.Context, id string) (*Submission, error)
	List(ctx context.Context, status string, limit, offset int) ([]Submission, error)
	MarkApproved(ctx context.Context, id, reviewedBy string) (bool, error)
	MarkRejected(ctx context.Context, id, reason, reviewedBy string) (bool, error)
}

type LookupRepository interface {
	GetCategories(ctx context.Context) ([]Lookup, error)
	GetIndustries(ctx context.Context) ([]Lookup, error)
}
