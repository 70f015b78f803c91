package app

import (
	"strings"
	"sync"

	"github.com/thenoetrevino/tablo/internal/models"
	"github.com/thenoetrevino/tablo/internal/query"
	taskservice "github.com/thenoetrevino/tablo/internal/services/task"
)

// View holds the current search text and filters and derives the visible
// board from them. The projection is recomputed only when the board
// revision, the search text or the filters change.
type View struct {
	store  taskservice.Service
	engine *query.Engine

	mu      sync.Mutex
	query   string
	filters models.FilterOptions

	cached   *models.Board
	cacheKey viewKey
	hasCache bool
}

type viewKey struct {
	revision uint64
	query    string
	filters  models.FilterOptions
}

// NewView creates a view with no search and no filters
func NewView(store taskservice.Service, engine *query.Engine) *View {
	if engine == nil {
		engine = query.New()
	}
	return &View{store: store, engine: engine}
}

func (v *View) SetSearchQuery(q string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.query = q
}

func (v *View) SearchQuery() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.query
}

func (v *View) SetFilterOptions(f models.FilterOptions) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.filters = models.FilterOptions{
		Assignee: strings.TrimSpace(f.Assignee),
		Label:    strings.TrimSpace(f.Label),
		DueDate:  strings.TrimSpace(f.DueDate),
	}
}

func (v *View) FilterOptions() models.FilterOptions {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.filters
}

// IsFiltering reports whether the visible board is a filtered copy. While
// filtering, positional edits such as drag reordering should be disabled.
func (v *View) IsFiltering() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return query.IsFiltering(v.query, v.filters)
}

// Read calls fn with the visible board while the store is read-locked. When
// nothing is filtered the visible board is the store's own board.
func (v *View) Read(fn func(visible *models.Board)) {
	v.store.Read(func(board *models.Board, revision uint64) {
		fn(v.visible(board, revision))
	})
}

// VisibleColumns returns the columns of the visible board. Without filters
// these are the live columns of the store; walk them only while no mutation
// runs, or use Read.
func (v *View) VisibleColumns() []*models.Column {
	var columns []*models.Column
	v.Read(func(visible *models.Board) {
		columns = visible.Columns
	})
	return columns
}

func (v *View) visible(board *models.Board, revision uint64) *models.Board {
	v.mu.Lock()
	defer v.mu.Unlock()

	key := viewKey{revision: revision, query: v.query, filters: v.filters}
	if v.hasCache && key == v.cacheKey {
		return v.cached
	}
	v.cached = v.engine.Visible(board, v.query, v.filters)
	v.cacheKey = key
	v.hasCache = true
	return v.cached
}
