package timeline

import (
	"github.com/dmaksimov/startup-pulse/app/database"
)

// Summarize reduces a company's funding rounds to aggregate statistics.
// Rounds without an amount count as zero. When several rounds share the
// maximum announced date, the last one in the supplied ordering wins; the
// store orders only by date, so the winner among exact ties follows store
// iteration order.
func Summarize(rounds []database.FundingRound) FundingSummary {
	if len(rounds) == 0 {
		return FundingSummary{TotalRaised: 0, LastRound: nil}
	}

	var total float64
	var last database.FundingRound
	for i, round := range rounds {
		if round.AmountRaised != nil {
			total += *round.AmountRaised
		}
		if i == 0 || round.AnnouncedDate >= last.AnnouncedDate {
			last = round
		}
	}

	return FundingSummary{
		TotalRaised: total,
		LastRound: &LastRound{
			Type:   last.RoundType,
			Amount: last.AmountRaised,
			Date:   last.AnnouncedDate,
		},
	}
}
