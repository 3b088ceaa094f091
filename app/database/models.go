package database

// Date and timestamp columns are stored as ISO 8601 strings. An empty string
// means the value is unknown; it is never surfaced as null in timeline output.

type Company struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
	Industry    string `json:"industry,omitempty"`
	Location    string `json:"location,omitempty"`
	CompanyType string `json:"company_type"`
	FoundedDate string `json:"founded_date,omitempty"`
	WebsiteURL  string `json:"website_url,omitempty"`
	LogoURL     string `json:"logo_url,omitempty"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

type FundingRound struct {
	ID            string   `json:"id"`
	CompanyID     string   `json:"company_id"`
	RoundType     string   `json:"round_type"`
	AmountRaised  *float64 `json:"amount_raised"`
	Currency      string   `json:"currency"`
	AnnouncedDate string   `json:"announced_date"`
	Investors     []string `json:"investors"`
	Valuation     *float64 `json:"valuation,omitempty"`
	SourceURL     string   `json:"source_url,omitempty"`
	Description   string   `json:"description,omitempty"`
	CreatedAt     string   `json:"created_at"`
}

type CompanyEvent struct {
	ID          string         `json:"id"`
	CompanyID   string         `json:"company_id"`
	EventType   string         `json:"event_type"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	EventDate   string         `json:"event_date"`
	Amount      *float64       `json:"amount"`
	SourceURL   string         `json:"source_url,omitempty"`
	Metadata    map[string]any `json:"metadata"`
	CreatedAt   string         `json:"created_at"`
}

type Story struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Summary       string   `json:"summary"`
	Content       string   `json:"content,omitempty"`
	Category      string   `json:"category"`
	Tags          []string `json:"tags"`
	SourceURL     string   `json:"source_url,omitempty"`
	ImageURL      string   `json:"image_url,omitempty"`
	PublishedDate string   `json:"published_date"`
	Status        string   `json:"status"`
	CreatedBy     string   `json:"created_by"`
	Likes         int      `json:"likes"`
	Views         int      `json:"views"`
	CreatedAt     string   `json:"created_at"`
	UpdatedAt     string   `json:"updated_at"`
}

// StoryLink joins a story to a company. Story is nil when the join points at a
// story that no longer exists; callers are expected to skip those rows.
type StoryLink struct {
	ID             string  `json:"id"`
	StoryID        string  `json:"story_id"`
	CompanyID      string  `json:"company_id"`
	RelevanceScore float64 `json:"relevance_score"`
	Story          *Story  `json:"story,omitempty"`
}

// CompanyRef is the compact company shape embedded in story listings.
type CompanyRef struct {
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Industry string `json:"industry,omitempty"`
	LogoURL  string `json:"logo_url,omitempty"`
}

type Submission struct {
	ID               string   `json:"id"`
	FounderName      string   `json:"founder_name"`
	FounderEmail     string   `json:"founder_email"`
	CompanyName      string   `json:"company_name"`
	CompanyWebsite   string   `json:"company_website,omitempty"`
	ProposedTitle    string   `json:"proposed_title"`
	ProposedSummary  string   `json:"proposed_summary"`
	ProposedCategory string   `json:"proposed_category"`
	ProposedTags     []string `json:"proposed_tags"`
	Status           string   `json:"status"`
	AdminNotes       string   `json:"admin_notes,omitempty"`
	ReviewedBy       string   `json:"reviewed_by,omitempty"`
	ReviewedAt       string   `json:"reviewed_at,omitempty"`
	SubmittedAt      string   `json:"submitted_at"`
}

type Lookup struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	SortOrder int    `json:"sort_order"`
}
