package database

import (
	"context"
	"database/sql"
	"fmt"
)

var _ StoryRepository = (*StoryRepo)(nil)

// StoryRepo handles database operations for stories and their company links
type StoryRepo struct {
	db *DB
}

func NewStoryRepository(db *DB) *StoryRepo {
	return &StoryRepo{db: db}
}

const storyColumns = `id, title, summary, COALESCE(content, ''), category, tags,
	       COALESCE(source_url, ''), COALESCE(image_url, ''), COALESCE(published_date, ''),
	       status, created_by, COALESCE(likes, 0), COALESCE(views, 0), created_at, updated_at`

func (r *StoryRepo) scanStory(row interface{ Scan(...any) error }) (*Story, error) {
	var s Story
	var tags string
	err := row.Scan(
		&s.ID, &s.Title, &s.Summary, &s.Content, &s.Category, &tags,
		&s.SourceURL, &s.ImageURL, &s.PublishedDate,
		&s.Status, &s.CreatedBy, &s.Likes, &s.Views, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.Tags = unmarshalStrings(tags)
	return &s, nil
}

func (r *StoryRepo) GetByID(ctx context.Context, id string) (*Story, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+storyColumns+` FROM stories WHERE id = ?`, id)

	story, err := r.scanStory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get story by ID: %w", err)
	}

	return story, nil
}

func (r *StoryRepo) GetBySourceURL(ctx context.Context, sourceURL string) (*Story, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+storyColumns+` FROM stories WHERE source_url = ? LIMIT 1`, sourceURL)

	story, err := r.scanStory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get story by source URL: %w", err)
	}

	return story, nil
}

// List returns stories matching the filter ordered by published date, newest
// first. An empty Status matches any status.
func (r *StoryRepo) List(ctx context.Context, filter StoryFilter) ([]Story, error) {
	query := `
		SELECT ` + storyColumns + `
		FROM stories
		WHERE 1 = 1`
	var args []any

	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, filter.Status)
	}
	if filter.Category != "" && filter.Category != "all" {
		query += " AND category = ?"
		args = append(args, filter.Category)
	}
	if filter.Search != "" {
		query += " AND title LIKE ? COLLATE NOCASE"
		args = append(args, "%"+filter.Search+"%")
	}
	if filter.CompanySlug != "" {
		query += ` AND id IN (
			SELECT sc.story_id FROM story_companies sc
			JOIN companies c ON c.id = sc.company_id
			WHERE c.slug = ?
		)`
		args = append(args, filter.CompanySlug)
	}

	query += " ORDER BY published_date DESC LIMIT ? OFFSET ?"
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list stories: %w", err)
	}
	defer rows.Close()

	return r.collectStories(rows)
}

// Trending returns published stories since the given date ordered by
// engagement (likes, then views).
func (r *StoryRepo) Trending(ctx context.Context, since string, limit int) ([]Story, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+storyColumns+`
		FROM stories
		WHERE status = 'published'
		  AND published_date >= ?
		ORDER BY likes DESC, views DESC
		LIMIT ?
	`, since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get trending stories: %w", err)
	}
	defer rows.Close()

	return r.collectStories(rows)
}

func (r *StoryRepo) collectStories(rows *sql.Rows) ([]Story, error) {
	var stories []Story
	for rows.Next() {
		story, err := r.scanStory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan story row: %w", err)
		}
		stories = append(stories, *story)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating story rows: %w", err)
	}

	return stories, nil
}

func (r *StoryRepo) Create(ctx context.Context, story Story) (string, error) {
	var id string
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO stories (title, summary, content, category, tags, source_url, image_url, published_date, status, created_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`, story.Title, story.Summary, story.Content, nonEmpty(story.Category, "general"),
		marshalJSON(story.Tags), story.SourceURL, story.ImageURL, story.PublishedDate,
		nonEmpty(story.Status, "published"), nonEmpty(story.CreatedBy, "admin")).Scan(&id)

	if err != nil {
		return "", fmt.Errorf("failed to create story: %w", err)
	}

	return id, nil
}

// Update applies the non-nil fields of the update and reports whether a story
// with the given id existed.
func (r *StoryRepo) Update(ctx context.Context, id string, update StoryUpdate) (bool, error) {
	query := "UPDATE stories SET updated_at = strftime('%Y-%m-%dT%H:%M:%SZ', 'now')"
	var args []any

	if update.Title != nil {
		query += ", title = ?"
		args = append(args, *update.Title)
	}
	if update.Summary != nil {
		query += ", summary = ?"
		args = append(args, *update.Summary)
	}
	if update.Content != nil {
		query += ", content = ?"
		args = append(args, *update.Content)
	}
	if update.Category != nil {
		query += ", category = ?"
		args = append(args, *update.Category)
	}
	if update.Tags != nil {
		query += ", tags = ?"
		args = append(args, marshalJSON(update.Tags))
	}
	if update.SourceURL != nil {
		query += ", source_url = ?"
		args = append(args, *update.SourceURL)
	}
	if update.ImageURL != nil {
		query += ", image_url = ?"
		args = append(args, *update.ImageURL)
	}
	if update.Status != nil {
		query += ", status = ?"
		args = append(args, *update.Status)
	}

	query += " WHERE id = ?"
	args = append(args, id)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to update story: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return affected > 0, nil
}

func (r *StoryRepo) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM stories WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete story: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return affected > 0, nil
}

func (r *StoryRepo) IncrementLikes(ctx context.Context, id string) (int, error) {
	var likes int
	err := r.db.QueryRowContext(ctx, `
		UPDATE stories SET likes = COALESCE(likes, 0) + 1 WHERE id = ? RETURNING likes
	`, id).Scan(&likes)
	if err != nil {
		return 0, fmt.Errorf("failed to increment likes: %w", err)
	}
	return likes, nil
}

func (r *StoryRepo) IncrementViews(ctx context.Context, id string) (int, error) {
	var views int
	err := r.db.QueryRowContext(ctx, `
		UPDATE stories SET views = COALESCE(views, 0) + 1 WHERE id = ? RETURNING views
	`, id).Scan(&views)
	if err != nil {
		return 0, fmt.Errorf("failed to increment views: %w", err)
	}
	return views, nil
}

func (r *StoryRepo) GetCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM stories").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get story count: %w", err)
	}
	return count, nil
}

// GetLinksForCompany returns all story links for a company with the joined
// story eagerly loaded. Links whose story is gone come back with a nil Story
// rather than an error.
func (r *StoryRepo) GetLinksForCompany(ctx context.Context, companyID string) ([]StoryLink, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT sc.id, sc.story_id, sc.company_id, sc.relevance_score,
		       s.id, s.title, s.summary, COALESCE(s.content, ''), s.category, s.tags,
		       COALESCE(s.source_url, ''), COALESCE(s.image_url, ''), COALESCE(s.published_date, ''),
		       s.status, s.created_by, COALESCE(s.likes, 0), COALESCE(s.views, 0), s.created_at, s.updated_at
		FROM story_companies sc
		LEFT JOIN stories s ON s.id = sc.story_id
		WHERE sc.company_id = ?
	`, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get story links: %w", err)
	}
	defer rows.Close()

	var links []StoryLink
	for rows.Next() {
		var link StoryLink
		var storyID, title, summary, content, category, tags sql.NullString
		var sourceURL, imageURL, publishedDate, status, createdBy sql.NullString
		var likes, views sql.NullInt64
		var createdAt, updatedAt sql.NullString

		err := rows.Scan(
			&link.ID, &link.StoryID, &link.CompanyID, &link.RelevanceScore,
			&storyID, &title, &summary, &content, &category, &tags,
			&sourceURL, &imageURL, &publishedDate,
			&status, &createdBy, &likes, &views, &createdAt, &updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan story link row: %w", err)
		}

		if storyID.Valid {
			link.Story = &Story{
				ID:            storyID.String,
				Title:         title.String,
				Summary:       summary.String,
				Content:       content.String,
				Category:      category.String,
				Tags:          unmarshalStrings(tags.String),
				SourceURL:     sourceURL.String,
				ImageURL:      imageURL.String,
				PublishedDate: publishedDate.String,
				Status:        status.String,
				CreatedBy:     createdBy.String,
				Likes:         int(likes.Int64),
				Views:         int(views.Int64),
				CreatedAt:     createdAt.String,
				UpdatedAt:     updatedAt.String,
			}
		}

		links = append(links, link)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating story link rows: %w", err)
	}

	return links, nil
}

func (r *StoryRepo) GetCompaniesForStory(ctx context.Context, storyID string) ([]CompanyRef, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.name, c.slug, COALESCE(c.industry, ''), COALESCE(c.logo_url, '')
		FROM story_companies sc
		JOIN companies c ON c.id = sc.company_id
		WHERE sc.story_id = ?
		ORDER BY sc.relevance_score DESC
	`, storyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get companies for story: %w", err)
	}
	defer rows.Close()

	var refs []CompanyRef
	for rows.Next() {
		var ref CompanyRef
		if err := rows.Scan(&ref.Name, &ref.Slug, &ref.Industry, &ref.LogoURL); err != nil {
			return nil, fmt.Errorf("failed to scan company ref row: %w", err)
		}
		refs = append(refs, ref)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating company ref rows: %w", err)
	}

	return refs, nil
}

// CountLinkedStories counts links for a company whose story still exists.
func (r *StoryRepo) CountLinkedStories(ctx context.Context, companyID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM story_companies sc
		JOIN stories s ON s.id = sc.story_id
		WHERE sc.company_id = ?
	`, companyID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count linked stories: %w", err)
	}
	return count, nil
}

func (r *StoryRepo) LinkToCompany(ctx context.Context, storyID, companyID string, relevance float64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO story_companies (story_id, company_id, relevance_score)
		VALUES (?, ?, ?)
		ON CONFLICT (story_id, company_id) DO UPDATE SET relevance_score = excluded.relevance_score
	`, storyID, companyID, relevance)
	if err != nil {
		return fmt.Errorf("failed to link story to company: %w", err)
	}
	return nil
}

func (r *StoryRepo) UnlinkAll(ctx context.Context, storyID string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM story_companies WHERE story_id = ?", storyID)
	if err != nil {
		return fmt.Errorf("failed to unlink story: %w", err)
	}
	return nil
}

// GetNeedingSummary returns published stories that have a source URL but no
// summary yet, oldest first.
func (r *StoryRepo) GetNeedingSummary(ctx context.Context, limit int) ([]Story, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+storyColumns+`
		FROM stories
		WHERE status = 'published'
		  AND COALESCE(summary, '') = ''
		  AND COALESCE(source_url, '') != ''
		ORDER BY created_at ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get stories needing summary: %w", err)
	}
	defer rows.Close()

	return r.collectStories(rows)
}

func (r *StoryRepo) UpdateSummary(ctx context.Context, id, summary string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE stories
		SET summary = ?, updated_at = strftime('%Y-%m-%dT%H:%M:%SZ', 'now')
		WHERE id = ?
	`, summary, id)
	if err != nil {
		return fmt.Errorf("failed to update story summary: %w", err)
	}
	return nil
}
