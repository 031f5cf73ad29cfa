package store

import (
	"context"
	"fmt"
	"time"

	"github.com/codemarcinu/steward/internal/database"
	"github.com/codemarcinu/steward/internal/types"
)

// SpendingEntry is one expense. Amounts are integer cents so summaries
// never accumulate floating point error.
type SpendingEntry struct {
	ID          types.ID  `db:"id" json:"id"`
	AmountCents int64     `db:"amount_cents" json:"amount_cents"`
	Currency    string    `db:"currency" json:"currency"`
	Category    string    `db:"category" json:"category,omitempty"`
	Description string    `db:"description" json:"description,omitempty"`
	SpentAt     time.Time `db:"spent_at" json:"spent_at"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// CategoryTotal is the aggregated spend for one category.
type CategoryTotal struct {
	Category   string `json:"category"`
	TotalCents int64  `json:"total_cents"`
	Count      int    `json:"count"`
}

// SpendingSummary aggregates entries over a time range.
type SpendingSummary struct {
	From       time.Time       `json:"from"`
	To         time.Time       `json:"to"`
	Currency   string          `json:"currency"`
	TotalCents int64           `json:"total_cents"`
	Count      int             `json:"count"`
	ByCategory []CategoryTotal `json:"by_category,omitempty"`
}

// SpendingDAO persists and aggregates spending entries.
type SpendingDAO interface {
	Create(ctx context.Context, entry *SpendingEntry) error
	// Summarize aggregates entries with from <= spent_at < to. When
	// category is non-empty only that category is counted; otherwise
	// the summary includes per-category totals, largest first.
	Summarize(ctx context.Context, from, to time.Time, category string) (*SpendingSummary, error)
}

type spendingDAO struct {
	db *database.DB
}

// NewSpendingDAO creates a SpendingDAO backed by db.
func NewSpendingDAO(db *database.DB) SpendingDAO {
	return &spendingDAO{db: db}
}

func (d *spendingDAO) Create(ctx context.Context, entry *SpendingEntry) error {
	if entry.ID.IsZero() {
		entry.ID = types.NewID()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if entry.SpentAt.IsZero() {
		entry.SpentAt = entry.CreatedAt
	}
	if entry.Currency == "" {
		entry.Currency = "PLN"
	}

	query := `
		INSERT INTO spending_entries (id, amount_cents, currency, category, description, spent_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	if _, err := d.db.ExecContext(ctx, query,
		entry.ID.String(), entry.AmountCents, entry.Currency, entry.Category,
		entry.Description, entry.SpentAt, entry.CreatedAt); err != nil {
		return fmt.Errorf("failed to create spending entry: %w", err)
	}
	return nil
}

func (d *spendingDAO) Summarize(ctx context.Context, from, to time.Time, category string) (*SpendingSummary, error) {
	summary := &SpendingSummary{From: from, To: to, Currency: "PLN"}

	query := `
		SELECT category, COALESCE(SUM(amount_cents), 0), COUNT(*), COALESCE(MAX(currency), 'PLN')
		FROM spending_entries
		WHERE spent_at >= ? AND spent_at < ?
	`
	args := []any{from, to}
	if category != "" {
		query += " AND category = ?"
		args = append(args, category)
	}
	query += " GROUP BY category ORDER BY SUM(amount_cents) DESC"

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize spending: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ct CategoryTotal
		var currency string
		if err := rows.Scan(&ct.Category, &ct.TotalCents, &ct.Count, &currency); err != nil {
			return nil, fmt.Errorf("failed to scan spending row: %w", err)
		}
		summary.TotalCents += ct.TotalCents
		summary.Count += ct.Count
		summary.Currency = currency
		summary.ByCategory = append(summary.ByCategory, ct)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate spending rows: %w", err)
	}
	return summary, nil
}
