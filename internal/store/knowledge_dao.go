package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/codemarcinu/steward/internal/database"
	"github.com/codemarcinu/steward/internal/types"
)

// KnowledgeChunk is one stored piece of reference text.
type KnowledgeChunk struct {
	ID        types.ID  `db:"id" json:"id"`
	Source    string    `db:"source" json:"source,omitempty"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// KnowledgeHit is one scored search result.
type KnowledgeHit struct {
	Chunk KnowledgeChunk `json:"chunk"`
	Score int            `json:"score"`
}

// KnowledgeDAO stores and searches knowledge chunks.
type KnowledgeDAO interface {
	Create(ctx context.Context, chunk *KnowledgeChunk) error
	// Search matches chunks containing any query term and ranks them by
	// total term frequency, highest first.
	Search(ctx context.Context, query string, limit int) ([]KnowledgeHit, error)
}

type knowledgeDAO struct {
	db *database.DB
}

// NewKnowledgeDAO creates a KnowledgeDAO backed by db.
func NewKnowledgeDAO(db *database.DB) KnowledgeDAO {
	return &knowledgeDAO{db: db}
}

func (d *knowledgeDAO) Create(ctx context.Context, chunk *KnowledgeChunk) error {
	if chunk.ID.IsZero() {
		chunk.ID = types.NewID()
	}
	if chunk.CreatedAt.IsZero() {
		chunk.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO knowledge_chunks (id, source, content, created_at)
		VALUES (?, ?, ?, ?)
	`
	if _, err := d.db.ExecContext(ctx, query,
		chunk.ID.String(), chunk.Source, chunk.Content, chunk.CreatedAt); err != nil {
		return fmt.Errorf("failed to create knowledge chunk: %w", err)
	}
	return nil
}

func (d *knowledgeDAO) Search(ctx context.Context, query string, limit int) ([]KnowledgeHit, error) {
	terms := searchTerms(query)
	if len(terms) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = 5
	}

	conditions := make([]string, len(terms))
	args := make([]any, len(terms))
	for i, term := range terms {
		conditions[i] = `content LIKE ? ESCAPE '\'`
		args[i] = "%" + escapeLike(term) + "%"
	}

	sqlQuery := fmt.Sprintf(`
		SELECT id, source, content, created_at
		FROM knowledge_chunks
		WHERE %s
	`, strings.Join(conditions, " OR "))

	rows, err := d.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search knowledge chunks: %w", err)
	}
	defer rows.Close()

	var hits []KnowledgeHit
	for rows.Next() {
		var chunk KnowledgeChunk
		var idStr string
		if err := rows.Scan(&idStr, &chunk.Source, &chunk.Content, &chunk.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan knowledge row: %w", err)
		}
		chunk.ID = types.ID(idStr)

		content := strings.ToLower(chunk.Content)
		score := 0
		for _, term := range terms {
			score += strings.Count(content, term)
		}
		hits = append(hits, KnowledgeHit{Chunk: chunk, Score: score})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate knowledge rows: %w", err)
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// searchTerms lowercases and splits the query, dropping single-letter
// noise tokens.
func searchTerms(query string) []string {
	var terms []string
	for _, field := range strings.Fields(strings.ToLower(query)) {
		if len([]rune(field)) < 2 {
			continue
		}
		terms = append(terms, field)
	}
	return terms
}
