package database

import (
	"context"
	"fmt"
)

var _ FundingRepository = (*FundingRepo)(nil)

// FundingRepo handles database operations for funding rounds
type FundingRepo struct {
	db *DB
}

func NewFundingRepository(db *DB) *FundingRepo {
	return &FundingRepo{db: db}
}

// GetByCompany returns all funding rounds for a company ordered by announced
// date, newest first. Rounds without an announced date sort last.
func (r *FundingRepo) GetByCompany(ctx context.Context, companyID string) ([]FundingRound, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, company_id, round_type, amount_raised, COALESCE(currency, 'USD'),
		       COALESCE(announced_date, ''), investors, valuation,
		       COALESCE(source_url, ''), COALESCE(description, ''), created_at
		FROM funding_rounds
		WHERE company_id = ?
		ORDER BY announced_date DESC
	`, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get funding rounds: %w", err)
	}
	defer rows.Close()

	var rounds []FundingRound
	for rows.Next() {
		var round FundingRound
		var investors string
		err := rows.Scan(
			&round.ID, &round.CompanyID, &round.RoundType, &round.AmountRaised, &round.Currency,
			&round.AnnouncedDate, &investors, &round.Valuation,
			&round.SourceURL, &round.Description, &round.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan funding round row: %w", err)
		}
		round.Investors = unmarshalStrings(investors)
		rounds = append(rounds, round)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating funding round rows: %w", err)
	}

	return rounds, nil
}
