package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/codemarcinu/steward/internal/database"
)

// PantryItem is a tracked pantry entry. Names are stored normalized
// (lowercase, trimmed) so "Mleko" and "mleko" are the same item.
type PantryItem struct {
	Name      string    `db:"name" json:"name"`
	Quantity  float64   `db:"quantity" json:"quantity"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// PantryDAO tracks pantry item quantities.
type PantryDAO interface {
	// Add increases the quantity of item by qty, creating it when
	// missing, and returns the new quantity.
	Add(ctx context.Context, item string, qty float64) (float64, error)
	// Remove decreases the quantity of item by qty. The row is deleted
	// when the quantity reaches zero. found is false when the item is
	// not in the pantry.
	Remove(ctx context.Context, item string, qty float64) (remaining float64, found bool, err error)
	Get(ctx context.Context, item string) (*PantryItem, error)
	List(ctx context.Context) ([]PantryItem, error)
}

type pantryDAO struct {
	db *database.DB
}

// NewPantryDAO creates a PantryDAO backed by db.
func NewPantryDAO(db *database.DB) PantryDAO {
	return &pantryDAO{db: db}
}

func normalizeItem(item string) string {
	return strings.ToLower(strings.TrimSpace(item))
}

func (d *pantryDAO) Add(ctx context.Context, item string, qty float64) (float64, error) {
	name := normalizeItem(item)
	if name == "" {
		return 0, fmt.Errorf("pantry item name is empty")
	}
	if qty <= 0 {
		qty = 1
	}

	query := `
		INSERT INTO pantry_items (name, quantity, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			quantity = quantity + excluded.quantity,
			updated_at = excluded.updated_at
	`
	if _, err := d.db.ExecContext(ctx, query, name, qty, time.Now().UTC()); err != nil {
		return 0, fmt.Errorf("failed to add pantry item %q: %w", name, err)
	}

	var newQty float64
	err := d.db.QueryRowContext(ctx,
		"SELECT quantity FROM pantry_items WHERE name = ?", name).Scan(&newQty)
	if err != nil {
		return 0, fmt.Errorf("failed to read pantry item %q: %w", name, err)
	}
	return newQty, nil
}

func (d *pantryDAO) Remove(ctx context.Context, item string, qty float64) (float64, bool, error) {
	name := normalizeItem(item)
	if name == "" {
		return 0, false, fmt.Errorf("pantry item name is empty")
	}
	if qty <= 0 {
		qty = 1
	}

	var remaining float64
	found := false

	err := d.db.WithTx(ctx, func(tx *sql.Tx) error {
		var current float64
		err := tx.QueryRowContext(ctx,
			"SELECT quantity FROM pantry_items WHERE name = ?", name).Scan(&current)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read pantry item %q: %w", name, err)
		}

		found = true
		remaining = current - qty
		if remaining <= 0 {
			remaining = 0
			if _, err := tx.ExecContext(ctx,
				"DELETE FROM pantry_items WHERE name = ?", name); err != nil {
				return fmt.Errorf("failed to delete pantry item %q: %w", name, err)
			}
			return nil
		}

		if _, err := tx.ExecContext(ctx,
			"UPDATE pantry_items SET quantity = ?, updated_at = ? WHERE name = ?",
			remaining, time.Now().UTC(), name); err != nil {
			return fmt.Errorf("failed to update pantry item %q: %w", name, err)
		}
		return nil
	})
	if err != nil {
		return 0, false, err
	}
	return remaining, found, nil
}

func (d *pantryDAO) Get(ctx context.Context, item string) (*PantryItem, error) {
	name := normalizeItem(item)

	var pi PantryItem
	err := d.db.QueryRowContext(ctx,
		"SELECT name, quantity, updated_at FROM pantry_items WHERE name = ?", name).
		Scan(&pi.Name, &pi.Quantity, &pi.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get pantry item %q: %w", name, err)
	}
	return &pi, nil
}

func (d *pantryDAO) List(ctx context.Context) ([]PantryItem, error) {
	rows, err := d.db.QueryContext(ctx,
		"SELECT name, quantity, updated_at FROM pantry_items ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to list pantry items: %w", err)
	}
	defer rows.Close()

	var items []PantryItem
	for rows.Next() {
		var pi PantryItem
		if err := rows.Scan(&pi.Name, &pi.Quantity, &pi.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan pantry row: %w", err)
		}
		items = append(items, pi)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pantry rows: %w", err)
	}
	return items, nil
}
