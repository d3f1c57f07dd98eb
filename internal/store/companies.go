package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/nborstad/outreach/internal/prospect"
)

// UpsertCompanies inserts or refreshes companies keyed by registry
// identifier. Name, municipality, industry code, source and last_seen are
// always overwritten; website and email coalesce to the existing value
// when the incoming record has none, so a fresher fetch can never erase
// previously discovered data.
func (s *Store) UpsertCompanies(ctx context.Context, companies []prospect.Company) error {
	const q = `
INSERT INTO companies (orgnr, name, municipality, nace, website, email, source, last_seen)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(orgnr) DO UPDATE SET
  name = excluded.name,
  municipality = excluded.municipality,
  nace = excluded.nace,
  website = COALESCE(excluded.website, companies.website),
  email = COALESCE(excluded.email, companies.email),
  source = excluded.source,
  last_seen = excluded.last_seen`

	for _, c := range companies {
		if c.OrgNr == "" {
			continue
		}
		last := c.LastSeen
		if last.IsZero() {
			last = s.now()
		}
		_, err := s.db.ExecContext(ctx, q,
			c.OrgNr, c.Name, c.Municipality, c.NACE,
			nullable(c.Website), nullable(strings.ToLower(c.Email)),
			c.Source, last.UTC().Unix(),
		)
		if err != nil {
			return fmt.Errorf("upsert company %s: %w", c.OrgNr, err)
		}
	}
	return nil
}

// SetEmail records a discovered contact email for the company.
func (s *Store) SetEmail(ctx context.Context, orgnr, email string) error {
	email = foldEmail(email)
	if email == "" {
		return fmt.Errorf("set email for %s: empty email", orgnr)
	}
	if _, err := s.db.ExecContext(ctx,
		`UPDATE companies SET email = ? WHERE orgnr = ?`, email, orgnr,
	); err != nil {
		return fmt.Errorf("set email for %s: %w", orgnr, err)
	}
	return nil
}

// CompaniesMissingEmail returns the enrichment worklist: companies with a
// website but no email yet.
func (s *Store) CompaniesMissingEmail(ctx context.Context) ([]prospect.Company, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT orgnr, COALESCE(website, '') FROM companies
		 WHERE email IS NULL AND website IS NOT NULL
		 ORDER BY orgnr`,
	)
	if err != nil {
		return nil, fmt.Errorf("query enrichment worklist: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var out []prospect.Company
	for rows.Next() {
		var c prospect.Company
		if err := rows.Scan(&c.OrgNr, &c.Website); err != nil {
			return nil, fmt.Errorf("scan enrichment row: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate enrichment rows: %w", err)
	}
	return out, nil
}

// SelectSendable returns up to limit companies that have an email and no
// sent record. The join is case-folded so the sent ledger matches
// regardless of how the email was stored.
func (s *Store) SelectSendable(ctx context.Context, limit int) ([]prospect.Company, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT c.orgnr, c.name, c.municipality, c.nace, COALESCE(c.website, ''), c.email
FROM companies c
LEFT JOIN sent s ON lower(c.email) = s.email
WHERE c.email IS NOT NULL AND s.email IS NULL
ORDER BY c.name ASC
LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query sendable: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var out []prospect.Company
	for rows.Next() {
		var c prospect.Company
		if err := rows.Scan(&c.OrgNr, &c.Name, &c.Municipality, &c.NACE, &c.Website, &c.Email); err != nil {
			return nil, fmt.Errorf("scan sendable row: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sendable rows: %w", err)
	}
	return out, nil
}

// ExportRow is one line of a CSV export.
type ExportRow struct {
	OrgNr        string
	Name         string
	Municipality string
	NACE         string
	Website      string
	Email        string
}

// ExportRows returns company rows for the prospects export, optionally
// restricted to rows with a known email.
func (s *Store) ExportRows(ctx context.Context, includeWithoutEmail bool) ([]ExportRow, error) {
	q := `SELECT orgnr, name, municipality, nace, COALESCE(website, ''), COALESCE(email, '')
	      FROM companies`
	if !includeWithoutEmail {
		q += ` WHERE email IS NOT NULL`
	}
	return s.queryExportRows(ctx, q)
}

// NameRows returns all companies ordered by name ascending for the
// name-only export. Email is intentionally left empty.
func (s *Store) NameRows(ctx context.Context) ([]ExportRow, error) {
	return s.queryExportRows(ctx,
		`SELECT orgnr, name, municipality, nace, COALESCE(website, ''), ''
		 FROM companies ORDER BY name ASC`,
	)
}

func (s *Store) queryExportRows(ctx context.Context, q string) ([]ExportRow, error) {
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query export rows: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var out []ExportRow
	for rows.Next() {
		var r ExportRow
		if err := rows.Scan(&r.OrgNr, &r.Name, &r.Municipality, &r.NACE, &r.Website, &r.Email); err != nil {
			return nil, fmt.Errorf("scan export row: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate export rows: %w", err)
	}
	return out, nil
}

// companyCount reports the number of stored companies.
func (s *Store) companyCount(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM companies`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count companies: %w", err)
	}
	return n, nil
}

// companyByOrgNr is a test helper shared with the package tests.
func (s *Store) companyByOrgNr(ctx context.Context, orgnr string) (prospect.Company, error) {
	var (
		c              prospect.Company
		website, email sql.NullString
		lastSeen       int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT orgnr, name, municipality, nace, website, email, source, last_seen
		 FROM companies WHERE orgnr = ?`, orgnr,
	).Scan(&c.OrgNr, &c.Name, &c.Municipality, &c.NACE, &website, &email, &c.Source, &lastSeen)
	if err != nil {
		return prospect.Company{}, fmt.Errorf("query company %s: %w", orgnr, err)
	}
	c.Website = website.String
	c.Email = email.String
	c.LastSeen = timeFromUnix(lastSeen)
	return c, nil
}
