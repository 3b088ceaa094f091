package stories

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"

	readability "codeberg.org/readeck/go-readability"

	"github.com/dmaksimov/startup-pulse/app/timeline"
)

// summaryMaxLength caps extracted article text stored as a story summary.
const summaryMaxLength = 500

type SummaryExtractor struct{}

func NewSummaryExtractor() *SummaryExtractor {
	return &SummaryExtractor{}
}

// Run extracts readable article text from raw HTML and condenses it into a
// story summary.
func (e *SummaryExtractor) Run(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("HTML data is empty")
	}

	article, err := readability.FromReader(bytes.NewReader(data), nil)
	if err != nil {
		return "", fmt.Errorf("failed to extract article: %w", err)
	}

	text := strings.Join(strings.Fields(article.TextContent), " ")
	if text == "" {
		return "", fmt.Errorf("no text extracted from HTML data")
	}

	summary := timeline.TruncateText(text, summaryMaxLength)

	slog.Debug("Summary extracted successfully",
		"title", article.Title,
		"summary_length", len(summary))

	return summary, nil
}
