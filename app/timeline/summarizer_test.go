package timeline

import (
	"testing"

	"github.com/dmaksimov/startup-pulse/app/database"
)

func TestSummarize_EmptyRounds(t *testing.T) {
	summary := Summarize(nil)

	if summary.TotalRaised != 0 {
		t.Errorf("Expected total raised 0 for no rounds, got %v", summary.TotalRaised)
	}
	if summary.LastRound != nil {
		t.Errorf("Expected nil last round for no rounds, got %+v", summary.LastRound)
	}
}

func TestSummarize_TotalTreatsMissingAmountAsZero(t *testing.T) {
	rounds := []database.FundingRound{
		{RoundType: "series-b", AmountRaised: floatPtr(20_000_000), AnnouncedDate: "2024-05-01"},
		{RoundType: "series-a", AmountRaised: nil, AnnouncedDate: "2023-01-01"},
		{RoundType: "seed", AmountRaised: floatPtr(1_500_000), AnnouncedDate: "2022-03-15"},
	}

	summary := Summarize(rounds)

	if summary.TotalRaised != 21_500_000 {
		t.Errorf("Expected total 21500000, got %v", summary.TotalRaised)
	}
	if summary.LastRound == nil {
		t.Fatal("Expected a last round")
	}
	if summary.LastRound.Type != "series-b" {
		t.Errorf("Expected last round 'series-b', got '%s'", summary.LastRound.Type)
	}
	if summary.LastRound.Date != "2024-05-01" {
		t.Errorf("Expected last round date '2024-05-01', got '%s'", summary.LastRound.Date)
	}
}

func TestSummarize_LastRoundIsMaxDate(t *testing.T) {
	// Store ordering is newest first; the max must still win regardless of
	// input position
	rounds := []database.FundingRound{
		{RoundType: "seed", AnnouncedDate: "2022-03-15"},
		{RoundType: "series-a", AnnouncedDate: "2024-01-10"},
		{RoundType: "bridge", AnnouncedDate: "2023-07-01"},
	}

	summary := Summarize(rounds)

	if summary.LastRound == nil {
		t.Fatal("Expected a last round")
	}
	if summary.LastRound.Type != "series-a" {
		t.Errorf("Expected last round 'series-a', got '%s'", summary.LastRound.Type)
	}
}

func TestSummarize_TieBrokenByLastEncountered(t *testing.T) {
	rounds := []database.FundingRound{
		{RoundType: "series-a", AmountRaised: floatPtr(5_000_000), AnnouncedDate: "2024-01-10"},
		{RoundType: "series-a-extension", AmountRaised: floatPtr(2_000_000), AnnouncedDate: "2024-01-10"},
	}

	summary := Summarize(rounds)

	if summary.LastRound == nil {
		t.Fatal("Expected a last round")
	}
	if summary.LastRound.Type != "series-a-extension" {
		t.Errorf("Expected the last encountered round to win the tie, got '%s'", summary.LastRound.Type)
	}
	if summary.TotalRaised != 7_000_000 {
		t.Errorf("Expected total 7000000, got %v", summary.TotalRaised)
	}
}

func TestSummarize_SingleRoundWithoutDate(t *testing.T) {
	rounds := []database.FundingRound{
		{RoundType: "seed", AmountRaised: floatPtr(500_000), AnnouncedDate: ""},
	}

	summary := Summarize(rounds)

	if summary.TotalRaised != 500_000 {
		t.Errorf("Expected total 500000, got %v", summary.TotalRaised)
	}
	if summary.LastRound == nil {
		t.Fatal("Expected a last round even without a date")
	}
	if summary.LastRound.Date != "" {
		t.Errorf("Expected empty date carried through, got '%s'", summary.LastRound.Date)
	}
}
