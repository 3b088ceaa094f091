package stories

import (
	"strings"
	"testing"
)

func TestSummaryExtractorRun(t *testing.T) {
	html := `<!DOCTYPE html>
<html>
<head><title>Acme raises Series A</title></head>
<body>
<article>
<h1>Acme raises Series A</h1>
<p>Acme Corp announced today that it has closed a five million dollar Series A
round led by Example Ventures. The company plans to use the funding to expand
its engineering team and accelerate product development across its core
platform offerings for enterprise customers worldwide.</p>
<p>Founded in 2021, Acme has grown quickly in the infrastructure tooling
market and now serves several hundred paying customers.</p>
</article>
</body>
</html>`

	extractor := NewSummaryExtractor()
	summary, err := extractor.Run([]byte(html))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if summary == "" {
		t.Fatal("Expected a non-empty summary")
	}
	if len(summary) > summaryMaxLength {
		t.Errorf("Expected summary capped at %d chars, got %d", summaryMaxLength, len(summary))
	}
	if !strings.Contains(summary, "Acme") {
		t.Errorf("Expected article text in summary, got '%s'", summary)
	}
	if strings.Contains(summary, "<p>") {
		t.Error("Expected HTML tags stripped from summary")
	}
	if strings.Contains(summary, "\n") {
		t.Error("Expected whitespace collapsed in summary")
	}
}

func TestSummaryExtractorEmptyInput(t *testing.T) {
	extractor := NewSummaryExtractor()
	if _, err := extractor.Run(nil); err == nil {
		t.Error("Expected an error for empty input")
	}
}
