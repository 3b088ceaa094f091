package tasks

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dmaksimov/startup-pulse/app/database"
	"github.com/dmaksimov/startup-pulse/app/stories"
)

// extractBatchSize limits how many stories one task run will process.
const extractBatchSize = 20

type ExtractSummaryTask struct {
	Task
	httpClient       *http.Client
	summaryExtractor *stories.SummaryExtractor
	storyRepo        database.StoryRepository
	userAgent        string
	timeout          time.Duration
}

func NewExtractSummaryTask(httpClient *http.Client, summaryExtractor *stories.SummaryExtractor, storyRepo database.StoryRepository, userAgent string, timeout time.Duration) *ExtractSummaryTask {
	return &ExtractSummaryTask{
		Task:             NewTask(TaskTypeExtractSummary, "stories"),
		httpClient:       httpClient,
		summaryExtractor: summaryExtractor,
		storyRepo:        storyRepo,
		userAgent:        userAgent,
		timeout:          timeout,
	}
}

func (t *ExtractSummaryTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	pending, err := t.storyRepo.GetNeedingSummary(ctx, extractBatchSize)
	if err != nil {
		return fmt.Errorf("failed to get stories needing summaries: %w", err)
	}

	if len(pending) == 0 {
		slog.Debug("No stories need summary extraction")
		return nil
	}

	successCount := 0
	errorCount := 0

	for _, story := range pending {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		extractCtx, cancel := context.WithTimeout(ctx, t.timeout)
		err := t.extractSummaryForStory(extractCtx, story)
		cancel()

		if err != nil {
			slog.Error("Failed to extract summary for story", "story_id", story.ID, "url", story.SourceURL, "error", err)
			errorCount++
		} else {
			successCount++
		}
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"duration", t.GetDuration(),
		"success", successCount,
		"errors", errorCount)

	return nil
}

func (t *ExtractSummaryTask) extractSummaryForStory(ctx context.Context, story database.Story) error {
	if story.SourceURL == "" {
		return fmt.Errorf("story has no source URL")
	}

	data, err := t.fetchArticle(ctx, story.SourceURL)
	if err != nil {
		return fmt.Errorf("failed to fetch article: %w", err)
	}

	summary, err := t.summaryExtractor.Run(data)
	if err != nil {
		return fmt.Errorf("failed to extract summary: %w", err)
	}

	if err := t.storyRepo.UpdateSummary(ctx, story.ID, summary); err != nil {
		return fmt.Errorf("failed to update story summary: %w", err)
	}

	slog.Debug("Summary extracted successfully", "story_id", story.ID, "url", story.SourceURL, "summary_length", len(summary))
	return nil
}

func (t *ExtractSummaryTask) fetchArticle(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", t.userAgent)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(strings.ToLower(contentType), "text/html") {
		return nil, fmt.Errorf("content type is not HTML: %s", contentType)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}
