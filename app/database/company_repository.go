package database

import (
	"context"
	"database/sql"
	"fmt"
)

var _ CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo handles database operations for companies
type CompanyRepo struct {
	db *DB
}

func NewCompanyRepository(db *DB) *CompanyRepo {
	return &CompanyRepo{db: db}
}

const companyColumns = `id, name, slug, COALESCE(description, ''), COALESCE(industry, ''),
	       COALESCE(location, ''), company_type, COALESCE(founded_date, ''),
	       COALESCE(website_url, ''), COALESCE(logo_url, ''), status, created_at, updated_at`

func (r *CompanyRepo) scanCompany(row interface{ Scan(...any) error }) (*Company, error) {
	var c Company
	err := row.Scan(
		&c.ID, &c.Name, &c.Slug, &c.Description, &c.Industry,
		&c.Location, &c.CompanyType, &c.FoundedDate,
		&c.WebsiteURL, &c.LogoURL, &c.Status, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetBySlug retrieves a company by its URL slug. Returns nil when no company
// has that slug.
func (r *CompanyRepo) GetBySlug(ctx context.Context, slug string) (*Company, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+companyColumns+`
		FROM companies
		WHERE slug = ?
	`, slug)

	company, err := r.scanCompany(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get company by slug: %w", err)
	}

	return company, nil
}

func (r *CompanyRepo) GetByID(ctx context.Context, id string) (*Company, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+companyColumns+`
		FROM companies
		WHERE id = ?
	`, id)

	company, err := r.scanCompany(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get company by ID: %w", err)
	}

	return company, nil
}

// List returns active companies matching the filter, paginated.
func (r *CompanyRepo) List(ctx context.Context, filter CompanyFilter) ([]Company, error) {
	query := `
		SELECT ` + companyColumns + `
		FROM companies
		WHERE status = 'active'`
	var args []any

	if filter.Industry != "" {
		query += " AND industry = ?"
		args = append(args, filter.Industry)
	}
	if filter.CompanyType != "" {
		query += " AND company_type = ?"
		args = append(args, filter.CompanyType)
	}
	if filter.Location != "" {
		query += " AND location LIKE ? COLLATE NOCASE"
		args = append(args, "%"+filter.Location+"%")
	}
	if filter.Search != "" {
		query += " AND name LIKE ? COLLATE NOCASE"
		args = append(args, "%"+filter.Search+"%")
	}

	switch filter.Sort {
	case "founded_date":
		query += " ORDER BY founded_date DESC"
	case "updated_at":
		query += " ORDER BY updated_at DESC"
	default:
		query += " ORDER BY name ASC"
	}

	query += " LIMIT ? OFFSET ?"
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	defer rows.Close()

	var companies []Company
	for rows.Next() {
		company, err := r.scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan company row: %w", err)
		}
		companies = append(companies, *company)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating company rows: %w", err)
	}

	return companies, nil
}

// Create inserts a new company and returns its generated id.
func (r *CompanyRepo) Create(ctx context.Context, company Company) (string, error) {
	var id string
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO companies (name, slug, description, industry, location, company_type, founded_date, website_url, logo_url, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`, company.Name, company.Slug, company.Description, company.Industry, company.Location,
		nonEmpty(company.CompanyType, "startup"), company.FoundedDate,
		company.WebsiteURL, company.LogoURL, nonEmpty(company.Status, "active")).Scan(&id)

	if err != nil {
		return "", fmt.Errorf("failed to create company: %w", err)
	}

	return id, nil
}

func (r *CompanyRepo) GetCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM companies").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get company count: %w", err)
	}
	return count, nil
}

func nonEmpty(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
