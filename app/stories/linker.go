package stories

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dmaksimov/startup-pulse/app/database"
)

// Linker associates stories with companies by slug, creating bare company
// records for slugs that do not exist yet.
type Linker struct {
	companies  database.CompanyRepository
	stories    database.StoryRepository
	titleCaser cases.Caser
}

func NewLinker(companies database.CompanyRepository, stories database.StoryRepository) *Linker {
	return &Linker{
		companies:  companies,
		stories:    stories,
		titleCaser: cases.Title(language.English),
	}
}

// Run links the story to the companies behind companySlugs. When no slugs are
// given but a fallback company name is, the company is resolved (or created)
// from the name. Linking is best-effort: failures are logged and never abort
// the caller's write.
func (l *Linker) Run(ctx context.Context, storyID string, companySlugs []string, fallbackName string) {
	slugs := companySlugs
	if len(slugs) == 0 && fallbackName != "" {
		slugs = []string{GenerateSlug(fallbackName)}
	}

	for _, slug := range slugs {
		if slug == "" {
			continue
		}

		companyID, err := l.resolveCompany(ctx, slug, fallbackName)
		if err != nil {
			slog.Warn("Failed to resolve company for story link", "story_id", storyID, "slug", slug, "error", err)
			continue
		}

		if err := l.stories.LinkToCompany(ctx, storyID, companyID, 1.0); err != nil {
			slog.Warn("Failed to link story to company", "story_id", storyID, "slug", slug, "error", err)
		}
	}
}

func (l *Linker) resolveCompany(ctx context.Context, slug, fallbackName string) (string, error) {
	company, err := l.companies.GetBySlug(ctx, slug)
	if err != nil {
		return "", err
	}
	if company != nil {
		return company.ID, nil
	}

	name := fallbackName
	if name == "" || GenerateSlug(name) != slug {
		name = l.titleCaser.String(strings.ReplaceAll(slug, "-", " "))
	}

	return l.companies.Create(ctx, database.Company{
		Name:        name,
		Slug:        slug,
		CompanyType: "startup",
		Status:      "active",
	})
}

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSeparators   = regexp.MustCompile(`[\s-]+`)
)

// GenerateSlug derives a URL-safe slug from a company name.
func GenerateSlug(name string) string {
	slug := strings.ToLower(name)
	slug = slugInvalidChars.ReplaceAllString(slug, "")
	slug = slugSeparators.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
