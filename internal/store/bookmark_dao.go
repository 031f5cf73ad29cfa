package store

import (
	"context"
	"fmt"
	"time"

	"github.com/codemarcinu/steward/internal/database"
	"github.com/codemarcinu/steward/internal/types"
)

// Bookmark is a saved URL with optional title and tags.
type Bookmark struct {
	ID        types.ID  `db:"id" json:"id"`
	URL       string    `db:"url" json:"url"`
	Title     string    `db:"title" json:"title,omitempty"`
	Tags      []string  `db:"tags" json:"tags,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// BookmarkDAO persists bookmarks.
type BookmarkDAO interface {
	Create(ctx context.Context, bookmark *Bookmark) error
	List(ctx context.Context, limit int) ([]Bookmark, error)
}

type bookmarkDAO struct {
	db *database.DB
}

// NewBookmarkDAO creates a BookmarkDAO backed by db.
func NewBookmarkDAO(db *database.DB) BookmarkDAO {
	return &bookmarkDAO{db: db}
}

func (d *bookmarkDAO) Create(ctx context.Context, bookmark *Bookmark) error {
	if bookmark.ID.IsZero() {
		bookmark.ID = types.NewID()
	}
	if bookmark.CreatedAt.IsZero() {
		bookmark.CreatedAt = time.Now().UTC()
	}

	tagsJSON, err := encodeTags(bookmark.Tags)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO bookmarks (id, url, title, tags, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	if _, err := d.db.ExecContext(ctx, query,
		bookmark.ID.String(), bookmark.URL, bookmark.Title, tagsJSON, bookmark.CreatedAt); err != nil {
		return fmt.Errorf("failed to create bookmark: %w", err)
	}
	return nil
}

func (d *bookmarkDAO) List(ctx context.Context, limit int) ([]Bookmark, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, url, title, tags, created_at
		FROM bookmarks
		ORDER BY created_at DESC
		LIMIT ?
	`
	rows, err := d.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarks: %w", err)
	}
	defer rows.Close()

	var bookmarks []Bookmark
	for rows.Next() {
		var bookmark Bookmark
		var idStr, tagsJSON string
		if err := rows.Scan(&idStr, &bookmark.URL, &bookmark.Title, &tagsJSON, &bookmark.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan bookmark row: %w", err)
		}
		bookmark.ID = types.ID(idStr)
		if bookmark.Tags, err = decodeTags(tagsJSON); err != nil {
			return nil, err
		}
		bookmarks = append(bookmarks, bookmark)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bookmark rows: %w", err)
	}
	return bookmarks, nil
}
