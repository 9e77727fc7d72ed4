// Package session owns the mutable state behind one interactive analysis:
// the uploaded rows, the active SKU filter, the view mode and the search
// term. Every action replaces its piece of state under a single lock and
// views are re-derived from scratch on request.
package session

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/KaramelBytes/orderlens/internal/analysis"
	"github.com/KaramelBytes/orderlens/internal/columns"
	"github.com/KaramelBytes/orderlens/internal/store"
)

type Session struct {
	mu     sync.Mutex
	frags  columns.Fragments
	logger *slog.Logger

	store  *store.Store
	filter analysis.SkuSet
	mode   analysis.ViewMode
	search string
}

// New creates an empty session resolving columns with frags.
func New(frags columns.Fragments, logger *slog.Logger) *Session {
	if frags == nil {
		frags = columns.DefaultFragments()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		frags:  frags,
		logger: logger,
		store:  store.Empty(),
		filter: analysis.NewSkuSet(),
	}
}

// Upload replaces the row store with the content of paths. The active
// filter, view and search are left as they are.
func (s *Session) Upload(paths []string) *store.Store {
	st := store.Load(paths, s.logger)
	s.mu.Lock()
	s.store = st
	s.mu.Unlock()
	s.logger.Info("reports loaded", "files", len(paths), "rows", st.Len(), "failed", len(st.Failed()))
	return st
}

// Reset drops every row and clears the filter.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store = store.Empty()
	s.filter = analysis.NewSkuSet()
}

// ToggleSku flips one variant id in the filter and reports whether it is now
// selected.
func (s *Session) ToggleSku(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.filter.Clone()
	on := next.Toggle(id)
	s.filter = next
	return on
}

// ToggleProduct deselects every variant of p when all are selected, and
// selects all of them otherwise.
func (s *Session) ToggleProduct(p analysis.ProductAggregate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.filter.Clone()
	ids := p.VariantIDs()
	if p.AllVariantsSelected(next) {
		for _, id := range ids {
			delete(next, id)
		}
	} else {
		for _, id := range ids {
			next[id] = struct{}{}
		}
	}
	s.filter = next
}

// ToggleProductByName toggles the named product. The product is looked up
// over every loaded row so its full variant list is known even when the
// current filter hides it.
func (s *Session) ToggleProductByName(name string) error {
	s.mu.Lock()
	st, frags := s.store, s.frags
	s.mu.Unlock()
	v := analysis.DeriveViews(st.Rows, st.Headers, frags, analysis.Query{Mode: analysis.ViewProduct})
	p, ok := v.FindProduct(name)
	if !ok {
		return fmt.Errorf("product %q not found", name)
	}
	s.ToggleProduct(p)
	return nil
}

// ClearFilters empties the active SKU set.
func (s *Session) ClearFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = analysis.NewSkuSet()
}

func (s *Session) SetViewMode(m analysis.ViewMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = m
}

func (s *Session) SetSearchTerm(term string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.search = term
}

// ActiveFilter returns the selected SKU ids, sorted.
func (s *Session) ActiveFilter() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter.Sorted()
}

// Store returns the current row store.
func (s *Session) Store() *store.Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store
}

// Views derives the presentation state from the current snapshot.
func (s *Session) Views() *analysis.Views {
	s.mu.Lock()
	st, q := s.store, analysis.Query{Filter: s.filter.Clone(), Mode: s.mode, Search: s.search}
	frags := s.frags
	s.mu.Unlock()
	v := analysis.DeriveViews(st.Rows, st.Headers, frags, q)
	v.Sources = st.Sources
	return v
}
