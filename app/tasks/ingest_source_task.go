package tasks

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmaksimov/startup-pulse/app/database"
	"github.com/dmaksimov/startup-pulse/app/sources"
	"github.com/dmaksimov/startup-pulse/app/stories"
)

type IngestSourceTask struct {
	Task
	SourceConfig *sources.Config
	httpClient   *http.Client
	parser       *sources.Parser
	storyRepo    database.StoryRepository
	linker       *stories.Linker
	userAgent    string
}

func NewIngestSourceTask(sourceName string, sourceConfig *sources.Config, httpClient *http.Client, parser *sources.Parser, storyRepo database.StoryRepository, linker *stories.Linker, userAgent string) *IngestSourceTask {
	return &IngestSourceTask{
		Task:         NewTask(TaskTypeIngestSource, sourceName),
		SourceConfig: sourceConfig,
		httpClient:   httpClient,
		parser:       parser,
		storyRepo:    storyRepo,
		linker:       linker,
		userAgent:    userAgent,
	}
}

func (t *IngestSourceTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !t.SourceConfig.Settings.Enabled {
		slog.Debug("Source disabled, skipping", "source", t.SourceName)
		return nil
	}

	data, err := t.fetchSource(ctx, t.SourceConfig.URL)
	if err != nil {
		return fmt.Errorf("failed to fetch source: %w", err)
	}

	items, err := t.parser.Run(data)
	if err != nil {
		return fmt.Errorf("failed to parse source feed: %w", err)
	}

	if len(items) > t.SourceConfig.Settings.MaxItems {
		items = items[:t.SourceConfig.Settings.MaxItems]
	}

	skippedCount := 0
	newCount := 0

	for _, item := range items {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if item.Link == "" || item.Title == "" {
			skippedCount++
			continue
		}

		existing, err := t.storyRepo.GetBySourceURL(ctx, item.Link)
		if err != nil {
			return fmt.Errorf("failed to check for existing story: %w", err)
		}
		if existing != nil {
			skippedCount++
			continue
		}

		storyID, err := t.storeStory(ctx, item)
		if err != nil {
			return fmt.Errorf("failed to store story: %w", err)
		}

		t.linker.Run(ctx, storyID, t.SourceConfig.CompanySlugs, "")
		newCount++
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"source", t.SourceName,
		"duration", t.GetDuration(),
		"total", len(items),
		"skipped", skippedCount,
		"new", newCount)

	return nil
}

func (t *IngestSourceTask) storeStory(ctx context.Context, item sources.Item) (string, error) {
	publishedDate := ""
	if item.PublishedAt != nil {
		publishedDate = item.PublishedAt.UTC().Format("2006-01-02T15:04:05Z")
	}

	story := database.Story{
		Title:         item.Title,
		Summary:       item.Description,
		Content:       item.Content,
		Category:      t.SourceConfig.Category,
		Tags:          item.Categories,
		SourceURL:     item.Link,
		ImageURL:      item.ImageURL,
		PublishedDate: publishedDate,
		Status:        "published",
		CreatedBy:     "source:" + t.SourceName,
	}

	return t.storyRepo.Create(ctx, story)
}

func (t *IngestSourceTask) fetchSource(ctx context.Context, url string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, time.Duration(t.SourceConfig.Settings.Timeout)*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", t.userAgent)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch source: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}
