// Package builtin implements steward's built-in tool handlers. Each
// handler pairs a Definition (what the model sees) with an Execute
// method (what actually happens). Arguments arrive already validated
// and type-normalized; handlers decode them into typed structs and act.
package builtin

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/codemarcinu/steward/internal/store"
	"github.com/codemarcinu/steward/internal/tool"
	"github.com/codemarcinu/steward/internal/web"
)

// Deps carries the stores and clients the handlers act on.
type Deps struct {
	Notes      store.NoteDAO
	Bookmarks  store.BookmarkDAO
	Pantry     store.PantryDAO
	Spending   store.SpendingDAO
	Knowledge  store.KnowledgeDAO
	Weather    *web.WeatherClient
	Summarizer *web.Summarizer

	// Now supplies the current time for period resolution. Nil uses
	// time.Now.
	Now func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// Handlers returns all built-in tool handlers wired to deps.
func Handlers(deps Deps) []tool.Handler {
	return []tool.Handler{
		NewCreateNoteHandler(deps.Notes),
		NewAddBookmarkHandler(deps.Bookmarks),
		NewUpdatePantryHandler(deps.Pantry),
		NewSpendingSummaryHandler(deps.Spending, deps.now),
		NewSearchKnowledgeHandler(deps.Knowledge),
		NewWeatherHandler(deps.Weather),
		NewSummarizeURLHandler(deps.Summarizer),
		NewAnswerDirectlyHandler(),
	}
}

// decodeArgs decodes a validated argument map into a typed struct.
func decodeArgs(args map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  out,
		TagName: "mapstructure",
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(args); err != nil {
		return fmt.Errorf("failed to decode arguments: %w", err)
	}
	return nil
}
