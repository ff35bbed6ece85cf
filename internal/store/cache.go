package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/baxromumarov/jobscout/internal/teamlyzer"
)

// SlugEntry is a cached company resolution. Misses are cached with Found false; Pages is the
// directory budget the search covered.
type SlugEntry struct {
	NameKey   string
	Slug      string
	Found     bool
	Pages     int
	CheckedAt time.Time
}

// LookupSlug returns the cached resolution for nameKey if it is younger than ttl.
// A ttl of zero or less never expires.
func (s *Store) LookupSlug(ctx context.Context, nameKey string, ttl time.Duration) (SlugEntry, bool, error) {
	var (
		slug      sql.NullString
		pages     int
		checkedAt string
	)
	err := s.db.QueryRowContext(ctx, s.rebind(`
SELECT slug, pages, checked_at FROM company_slugs WHERE name_key = ?
`), nameKey).Scan(&slug, &pages, &checkedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return SlugEntry{}, false, nil
	}
	if err != nil {
		return SlugEntry{}, false, fmt.Errorf("lookup slug %q: %w", nameKey, err)
	}

	entry := SlugEntry{
		NameKey:   nameKey,
		Slug:      slug.String,
		Found:     slug.Valid && slug.String != "",
		Pages:     pages,
		CheckedAt: parseStamp(checkedAt),
	}
	if s.expired(entry.CheckedAt, ttl) {
		return entry, false, nil
	}
	return entry, true, nil
}

func (s *Store) SaveSlug(ctx context.Context, nameKey, slug string, found bool, pages int) error {
	var value sql.NullString
	if found && slug != "" {
		value = sql.NullString{String: slug, Valid: true}
	}
	_, err := s.db.ExecContext(ctx, s.rebind(`
INSERT INTO company_slugs (name_key, slug, pages, checked_at)
VALUES (?, ?, ?, ?)
ON CONFLICT (name_key) DO UPDATE SET
    slug = excluded.slug,
    pages = excluded.pages,
    checked_at = excluded.checked_at
`), nameKey, value, pages, stamp(s.now()))
	if err != nil {
		return fmt.Errorf("save slug %q: %w", nameKey, err)
	}
	return nil
}

// LookupProfile returns the cached profile for slug if it is younger than ttl.
func (s *Store) LookupProfile(ctx context.Context, slug string, ttl time.Duration) (teamlyzer.CompanyProfile, bool, error) {
	var (
		rating, description, salary sql.NullString
		benefits, fetchedAt         string
	)
	err := s.db.QueryRowContext(ctx, s.rebind(`
SELECT rating, description, salary_range, benefits, fetched_at
FROM company_profiles
WHERE slug = ?
`), slug).Scan(&rating, &description, &salary, &benefits, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return teamlyzer.EmptyProfile(), false, nil
	}
	if err != nil {
		return teamlyzer.EmptyProfile(), false, fmt.Errorf("lookup profile %q: %w", slug, err)
	}
	if s.expired(parseStamp(fetchedAt), ttl) {
		return teamlyzer.EmptyProfile(), false, nil
	}

	profile := teamlyzer.EmptyProfile()
	profile.Slug = &slug
	if rating.Valid {
		profile.Rating = teamlyzer.NewRating(rating.String)
	}
	profile.Description = nullable(description)
	profile.SalaryRange = nullable(salary)
	if err := json.Unmarshal([]byte(benefits), &profile.Benefits); err != nil {
		return teamlyzer.EmptyProfile(), false, fmt.Errorf("decode benefits for %q: %w", slug, err)
	}
	if profile.Benefits == nil {
		profile.Benefits = []string{}
	}
	return profile, true, nil
}

// SaveProfile stores p under its slug. Profiles without a slug are ignored.
func (s *Store) SaveProfile(ctx context.Context, p teamlyzer.CompanyProfile) error {
	if p.Slug == nil || *p.Slug == "" {
		return nil
	}
	benefits := p.Benefits
	if benefits == nil {
		benefits = []string{}
	}
	encoded, err := json.Marshal(benefits)
	if err != nil {
		return err
	}
	var rating sql.NullString
	if p.Rating != nil {
		rating = sql.NullString{String: p.Rating.Raw, Valid: true}
	}

	_, err = s.db.ExecContext(ctx, s.rebind(`
INSERT INTO company_profiles (slug, rating, description, salary_range, benefits, fetched_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (slug) DO UPDATE SET
    rating = excluded.rating,
    description = excluded.description,
    salary_range = excluded.salary_range,
    benefits = excluded.benefits,
    fetched_at = excluded.fetched_at
`), *p.Slug, rating, toNull(p.Description), toNull(p.SalaryRange), string(encoded), stamp(s.now()))
	if err != nil {
		return fmt.Errorf("save profile %q: %w", *p.Slug, err)
	}
	return nil
}

func (s *Store) expired(at time.Time, ttl time.Duration) bool {
	if ttl <= 0 {
		return false
	}
	return s.now().Sub(at) > ttl
}

func nullable(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func toNull(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
