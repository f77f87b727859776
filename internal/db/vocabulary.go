package db

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"
)

// Vocabulary tables
const (
	TableSkills    = "skill_vocabulary"
	TableCompanies = "companies"
)

const vocabularySchema = `
CREATE TABLE IF NOT EXISTS skill_vocabulary (
	id SERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	name_normalized TEXT NOT NULL UNIQUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE TABLE IF NOT EXISTS companies (
	id SERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	name_normalized TEXT NOT NULL UNIQUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9+#]`)

// NormalizeName lowercases a vocabulary entry and strips everything but letters,
// digits, '+' and '#', so "Node.js" and "nodejs" share a row while "C++" and "C#" stay distinct.
func NormalizeName(name string) string {
	return nonAlphanumeric.ReplaceAllString(strings.ToLower(name), "")
}

// EnsureVocabularySchema creates the vocabulary tables when missing
func (db *DB) EnsureVocabularySchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, vocabularySchema); err != nil {
		return fmt.Errorf("failed to create vocabulary schema: %w", err)
	}
	return nil
}

// ListSkills returns the skill vocabulary in insertion order
func (db *DB) ListSkills(ctx context.Context) ([]string, error) {
	return db.listNames(ctx, `SELECT name FROM skill_vocabulary ORDER BY id`)
}

// ListCompanies returns the company vocabulary in insertion order
func (db *DB) ListCompanies(ctx context.Context) ([]string, error) {
	return db.listNames(ctx, `SELECT name FROM companies ORDER BY id`)
}

func (db *DB) listNames(ctx context.Context, query string) ([]string, error) {
	rows, err := db.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query vocabulary: %w", err)
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan vocabulary: %w", err)
	}
	return names, nil
}

// ImportVocabulary inserts skills and companies in one transaction, skipping entries
// whose normalized name already exists. It returns the number of rows inserted.
func (db *DB) ImportVocabulary(ctx context.Context, skills, companies []string) (int, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	batch := &pgx.Batch{}
	queue := func(table string, names []string) {
		for _, name := range names {
			name = strings.TrimSpace(name)
			normalized := NormalizeName(name)
			if normalized == "" {
				continue
			}
			batch.Queue(
				`INSERT INTO `+table+` (name, name_normalized) VALUES ($1, $2)
				 ON CONFLICT (name_normalized) DO NOTHING`,
				name, normalized,
			)
		}
	}
	queue(TableSkills, skills)
	queue(TableCompanies, companies)

	results := tx.SendBatch(ctx, batch)
	inserted := 0
	for i := 0; i < batch.Len(); i++ {
		tag, err := results.Exec()
		if err != nil {
			_ = results.Close()
			return 0, fmt.Errorf("failed to import vocabulary entry: %w", err)
		}
		inserted += int(tag.RowsAffected())
	}
	if err := results.Close(); err != nil {
		return 0, fmt.Errorf("failed to import vocabulary: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit vocabulary import: %w", err)
	}
	return inserted, nil
}
