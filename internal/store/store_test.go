package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codemarcinu/steward/internal/database"
)

func testDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.Open(filepath.Join(t.TempDir(), "steward.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.InitSchema(context.Background()))
	return db
}

func TestNoteDAO_CreateAndGet(t *testing.T) {
	dao := NewNoteDAO(testDB(t))
	ctx := context.Background()

	note := &Note{Title: "zakupy", Content: "kupić mleko", Tags: []string{"dom", "jedzenie"}}
	require.NoError(t, dao.Create(ctx, note))
	require.False(t, note.ID.IsZero())

	got, err := dao.Get(ctx, note.ID)
	require.NoError(t, err)
	assert.Equal(t, "zakupy", got.Title)
	assert.Equal(t, "kupić mleko", got.Content)
	assert.Equal(t, []string{"dom", "jedzenie"}, got.Tags)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestNoteDAO_List(t *testing.T) {
	dao := NewNoteDAO(testDB(t))
	ctx := context.Background()

	for i, title := range []string{"first", "second", "third"} {
		note := &Note{Title: title, Content: "body", CreatedAt: time.Now().UTC().Add(time.Duration(i) * time.Second)}
		require.NoError(t, dao.Create(ctx, note))
	}

	notes, err := dao.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "third", notes[0].Title)
	assert.Equal(t, "second", notes[1].Title)
}

func TestNoteDAO_EmptyTags(t *testing.T) {
	dao := NewNoteDAO(testDB(t))
	ctx := context.Background()

	note := &Note{Title: "untagged", Content: "body"}
	require.NoError(t, dao.Create(ctx, note))

	got, err := dao.Get(ctx, note.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Tags)
}

func TestBookmarkDAO_CreateAndList(t *testing.T) {
	dao := NewBookmarkDAO(testDB(t))
	ctx := context.Background()

	bookmark := &Bookmark{URL: "https://go.dev/blog", Title: "Go Blog", Tags: []string{"go"}}
	require.NoError(t, dao.Create(ctx, bookmark))

	bookmarks, err := dao.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, bookmarks, 1)
	assert.Equal(t, "https://go.dev/blog", bookmarks[0].URL)
	assert.Equal(t, "Go Blog", bookmarks[0].Title)
	assert.Equal(t, []string{"go"}, bookmarks[0].Tags)
}

func TestPantryDAO_AddAccumulates(t *testing.T) {
	dao := NewPantryDAO(testDB(t))
	ctx := context.Background()

	qty, err := dao.Add(ctx, "Mleko", 2)
	require.NoError(t, err)
	assert.Equal(t, 2.0, qty)

	qty, err = dao.Add(ctx, "mleko ", 3)
	require.NoError(t, err)
	assert.Equal(t, 5.0, qty)

	item, err := dao.Get(ctx, "MLEKO")
	require.NoError(t, err)
	assert.Equal(t, "mleko", item.Name)
	assert.Equal(t, 5.0, item.Quantity)
}

func TestPantryDAO_AddDefaultsQuantity(t *testing.T) {
	dao := NewPantryDAO(testDB(t))

	qty, err := dao.Add(context.Background(), "jajka", 0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, qty)
}

func TestPantryDAO_Remove(t *testing.T) {
	dao := NewPantryDAO(testDB(t))
	ctx := context.Background()

	_, err := dao.Add(ctx, "chleb", 3)
	require.NoError(t, err)

	remaining, found, err := dao.Remove(ctx, "chleb", 1)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 2.0, remaining)

	remaining, found, err = dao.Remove(ctx, "chleb", 5)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 0.0, remaining)

	items, err := dao.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestPantryDAO_RemoveMissing(t *testing.T) {
	dao := NewPantryDAO(testDB(t))

	_, found, err := dao.Remove(context.Background(), "kawa", 1)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSpendingDAO_Summarize(t *testing.T) {
	dao := NewSpendingDAO(testDB(t))
	ctx := context.Background()

	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	entries := []*SpendingEntry{
		{AmountCents: 4550, Category: "groceries", SpentAt: base},
		{AmountCents: 1200, Category: "groceries", SpentAt: base.Add(24 * time.Hour)},
		{AmountCents: 8000, Category: "transport", SpentAt: base.Add(48 * time.Hour)},
		{AmountCents: 9999, Category: "groceries", SpentAt: base.AddDate(0, 1, 0)}, // outside range
	}
	for _, e := range entries {
		require.NoError(t, dao.Create(ctx, e))
	}

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	summary, err := dao.Summarize(ctx, from, to, "")
	require.NoError(t, err)
	assert.Equal(t, int64(13750), summary.TotalCents)
	assert.Equal(t, 3, summary.Count)
	require.Len(t, summary.ByCategory, 2)
	assert.Equal(t, "transport", summary.ByCategory[0].Category)
	assert.Equal(t, int64(8000), summary.ByCategory[0].TotalCents)
	assert.Equal(t, "groceries", summary.ByCategory[1].Category)
	assert.Equal(t, int64(5750), summary.ByCategory[1].TotalCents)
}

func TestSpendingDAO_SummarizeByCategory(t *testing.T) {
	dao := NewSpendingDAO(testDB(t))
	ctx := context.Background()

	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	require.NoError(t, dao.Create(ctx, &SpendingEntry{AmountCents: 4550, Category: "groceries", SpentAt: base}))
	require.NoError(t, dao.Create(ctx, &SpendingEntry{AmountCents: 8000, Category: "transport", SpentAt: base}))

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	summary, err := dao.Summarize(ctx, from, from.AddDate(0, 1, 0), "groceries")
	require.NoError(t, err)
	assert.Equal(t, int64(4550), summary.TotalCents)
	assert.Equal(t, 1, summary.Count)
	require.Len(t, summary.ByCategory, 1)
	assert.Equal(t, "groceries", summary.ByCategory[0].Category)
}

func TestSpendingDAO_SummarizeEmpty(t *testing.T) {
	dao := NewSpendingDAO(testDB(t))

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	summary, err := dao.Summarize(context.Background(), from, from.AddDate(0, 1, 0), "")
	require.NoError(t, err)
	assert.Zero(t, summary.TotalCents)
	assert.Zero(t, summary.Count)
	assert.Empty(t, summary.ByCategory)
}

func TestKnowledgeDAO_SearchRanksByFrequency(t *testing.T) {
	dao := NewKnowledgeDAO(testDB(t))
	ctx := context.Background()

	chunks := []*KnowledgeChunk{
		{Source: "router.md", Content: "Router admin password is on the sticker. The router reboots nightly."},
		{Source: "wifi.md", Content: "Guest wifi password rotates monthly."},
		{Source: "garden.md", Content: "Tomatoes need watering twice a week."},
	}
	for _, c := range chunks {
		require.NoError(t, dao.Create(ctx, c))
	}

	hits, err := dao.Search(ctx, "router password", 5)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "router.md", hits[0].Chunk.Source)
	assert.Equal(t, 3, hits[0].Score)
	assert.Equal(t, "wifi.md", hits[1].Chunk.Source)
	assert.Equal(t, 1, hits[1].Score)
}

func TestKnowledgeDAO_SearchLimit(t *testing.T) {
	dao := NewKnowledgeDAO(testDB(t))
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		require.NoError(t, dao.Create(ctx, &KnowledgeChunk{Content: "water the plants"}))
	}

	hits, err := dao.Search(ctx, "water", 2)
	require.NoError(t, err)
	assert.Len(t, hits, 2)
}

func TestKnowledgeDAO_SearchEmptyQuery(t *testing.T) {
	dao := NewKnowledgeDAO(testDB(t))

	hits, err := dao.Search(context.Background(), "  a ", 5)
	require.NoError(t, err)
	assert.Nil(t, hits)
}

func TestKnowledgeDAO_SearchEscapesWildcards(t *testing.T) {
	dao := NewKnowledgeDAO(testDB(t))
	ctx := context.Background()

	require.NoError(t, dao.Create(ctx, &KnowledgeChunk{Content: "discount is 50% off"}))
	require.NoError(t, dao.Create(ctx, &KnowledgeChunk{Content: "plain text without percent"}))

	hits, err := dao.Search(ctx, "50%", 5)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Contains(t, hits[0].Chunk.Content, "50% off")
}
