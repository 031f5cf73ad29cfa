package store

import (
	"context"
	"fmt"
	"time"

	"github.com/codemarcinu/steward/internal/database"
	"github.com/codemarcinu/steward/internal/types"
)

// Note is a persisted user note.
type Note struct {
	ID        types.ID  `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Content   string    `db:"content" json:"content"`
	Tags      []string  `db:"tags" json:"tags,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// NoteDAO persists notes.
type NoteDAO interface {
	Create(ctx context.Context, note *Note) error
	Get(ctx context.Context, id types.ID) (*Note, error)
	List(ctx context.Context, limit int) ([]Note, error)
}

type noteDAO struct {
	db *database.DB
}

// NewNoteDAO creates a NoteDAO backed by db.
func NewNoteDAO(db *database.DB) NoteDAO {
	return &noteDAO{db: db}
}

func (d *noteDAO) Create(ctx context.Context, note *Note) error {
	if note.ID.IsZero() {
		note.ID = types.NewID()
	}
	if note.CreatedAt.IsZero() {
		note.CreatedAt = time.Now().UTC()
	}

	tagsJSON, err := encodeTags(note.Tags)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO notes (id, title, content, tags, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	if _, err := d.db.ExecContext(ctx, query,
		note.ID.String(), note.Title, note.Content, tagsJSON, note.CreatedAt); err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}
	return nil
}

func (d *noteDAO) Get(ctx context.Context, id types.ID) (*Note, error) {
	query := `
		SELECT id, title, content, tags, created_at
		FROM notes
		WHERE id = ?
	`

	var note Note
	var idStr, tagsJSON string
	err := d.db.QueryRowContext(ctx, query, id.String()).Scan(
		&idStr, &note.Title, &note.Content, &tagsJSON, &note.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get note %s: %w", id, err)
	}

	note.ID = types.ID(idStr)
	if note.Tags, err = decodeTags(tagsJSON); err != nil {
		return nil, err
	}
	return &note, nil
}

func (d *noteDAO) List(ctx context.Context, limit int) ([]Note, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, title, content, tags, created_at
		FROM notes
		ORDER BY created_at DESC
		LIMIT ?
	`
	rows, err := d.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	var notes []Note
	for rows.Next() {
		var note Note
		var idStr, tagsJSON string
		if err := rows.Scan(&idStr, &note.Title, &note.Content, &tagsJSON, &note.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan note row: %w", err)
		}
		note.ID = types.ID(idStr)
		if note.Tags, err = decodeTags(tagsJSON); err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate note rows: %w", err)
	}
	return notes, nil
}
