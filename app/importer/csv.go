package importer

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// StoryRow is one parsed CSV row, ready to be saved as a story.
type StoryRow struct {
	Title         string   `json:"title"`
	Summary       string   `json:"summary"`
	Content       string   `json:"content"`
	Category      string   `json:"category"`
	Tags          []string `json:"tags"`
	SourceURL     string   `json:"source_url"`
	ImageURL      string   `json:"image_url"`
	PublishedDate string   `json:"published_date"`
	Status        string   `json:"status"`
	CompanySlugs  []string `json:"company_slugs"`
}

// Result carries the rows that parsed cleanly plus per-row error messages for
// the ones that did not.
type Result struct {
	Rows   []StoryRow `json:"rows"`
	Errors []string   `json:"errors"`
}

// RequiredColumns must all be present in the CSV header.
var RequiredColumns = []string{"title", "summary", "category"}

// ParseStories reads a stories CSV export. Rows missing a title or summary are
// reported in Result.Errors (numbered from 2, matching spreadsheet rows) and
// skipped; the rest of the file is still processed.
func ParseStories(r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	columns := map[string]int{}
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var missing []string
	for _, name := range RequiredColumns {
		if _, ok := columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	result := &Result{}
	rowNumber := 1

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowNumber++
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNumber, err))
			continue
		}

		field := func(name string) string {
			idx, ok := columns[name]
			if !ok || idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}

		title := field("title")
		summary := field("summary")
		if title == "" || summary == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: title and summary are required", rowNumber))
			continue
		}

		row := StoryRow{
			Title:         title,
			Summary:       summary,
			Content:       field("content"),
			Category:      field("category"),
			Tags:          parseTags(field("tags")),
			SourceURL:     field("source_url"),
			ImageURL:      field("image_url"),
			PublishedDate: parsePublishedDate(field("published_date")),
			Status:        field("status"),
			CompanySlugs:  parseSlugs(field("company_slugs")),
		}
		if row.Category == "" {
			row.Category = "general"
		}
		if row.Status == "" {
			row.Status = "published"
		}

		result.Rows = append(result.Rows, row)
	}

	return result, nil
}

// parseTags accepts either a JSON array or a comma-separated list.
func parseTags(value string) []string {
	if value == "" {
		return nil
	}

	if strings.HasPrefix(value, "[") {
		var tags []string
		if err := json.Unmarshal([]byte(value), &tags); err == nil {
			return tags
		}
	}

	var tags []string
	for _, tag := range strings.Split(value, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

func parseSlugs(value string) []string {
	if value == "" {
		return nil
	}

	var slugs []string
	for _, slug := range strings.Split(value, ",") {
		if slug = strings.TrimSpace(slug); slug != "" {
			slugs = append(slugs, slug)
		}
	}
	return slugs
}

// parsePublishedDate accepts RFC 3339 timestamps or bare dates; anything else
// falls back to the current time.
func parsePublishedDate(value string) string {
	if value != "" {
		for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
			if parsed, err := time.Parse(layout, value); err == nil {
				return parsed.UTC().Format("2006-01-02T15:04:05Z")
			}
		}
	}

	return time.Now().UTC().Format("2006-01-02T15:04:05Z")
}
