package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/fieldops/po-tracker/internal/infrastructure/persistence/sqlite"
)

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullStringValue(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullTimeValue(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func nullFloatValue(nf sql.NullFloat64) *float64 {
	if !nf.Valid {
		return nil
	}
	f := nf.Float64
	return &f
}

// placeholders returns "?, ?, ..." for an IN clause of n values.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// nextNumber atomically allocates the next value of a per-day counter and
// formats it as PREFIX-YYYYMMDD-NNNN. The UPSERT runs inside the caller's
// transaction, so two concurrent submissions can never draw the same number.
func nextNumber(ctx context.Context, db *sql.DB, prefix string, at time.Time) (string, error) {
	key := fmt.Sprintf("%s-%s", prefix, at.UTC().Format("20060102"))

	var n int
	err := sqlite.GetExecutor(ctx, db).QueryRowContext(ctx, `
		INSERT INTO number_sequences (prefix, next_value) VALUES (?, 1)
		ON CONFLICT(prefix) DO UPDATE SET next_value = next_value + 1
		RETURNING next_value
	`, key).Scan(&n)
	if err != nil {
		return "", fmt.Errorf("failed to allocate number for %s: %w", key, err)
	}

	return fmt.Sprintf("%s-%04d", key, n), nil
}
