// Package query derives the visible projection of a board from a free-text
// search and structured filters. It never mutates the board it is given.
package query

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/thenoetrevino/tablo/internal/models"
)

// Engine evaluates searches against a board. The zero value is not usable;
// construct with New.
type Engine struct {
	locales []locale
}

// New creates an engine that matches due dates in the written forms of the
// given locales. With no tags it uses Indonesian and English.
func New(tags ...language.Tag) *Engine {
	if len(tags) == 0 {
		tags = DefaultLocales()
	}
	return &Engine{locales: resolveLocales(tags)}
}

// DefaultLocales returns the locales date search uses when none are configured
func DefaultLocales() []language.Tag {
	return []language.Tag{language.Indonesian, language.English}
}

// IsFiltering reports whether a trimmed query or any filter field is set.
func IsFiltering(query string, filters models.FilterOptions) bool {
	return strings.TrimSpace(query) != "" ||
		strings.TrimSpace(filters.Label) != "" ||
		strings.TrimSpace(filters.DueDate) != "" ||
		strings.TrimSpace(filters.Assignee) != ""
}

// Visible returns board itself when nothing is being filtered. Otherwise it
// returns a new board whose columns hold only the tasks passing every
// predicate, in their original order. Task values are shared, not copied.
func (e *Engine) Visible(board *models.Board, query string, filters models.FilterOptions) *models.Board {
	if board == nil || !IsFiltering(query, filters) {
		return board
	}

	m := e.newMatcher(query, filters)
	out := &models.Board{Columns: make([]*models.Column, 0, len(board.Columns))}
	for _, c := range board.Columns {
		nc := &models.Column{ID: c.ID, Title: c.Title, Tasks: make([]*models.Task, 0, len(c.Tasks))}
		for _, t := range c.Tasks {
			if m.match(t) {
				nc.Tasks = append(nc.Tasks, t)
			}
		}
		out.Columns = append(out.Columns, nc)
	}
	return out
}

// Match reports whether a single task passes the search and filters
func (e *Engine) Match(t *models.Task, query string, filters models.FilterOptions) bool {
	return e.newMatcher(query, filters).match(t)
}

// matcher holds the folded inputs of one evaluation. A cases.Caser is not
// safe for concurrent use, so each evaluation gets its own.
type matcher struct {
	engine   *Engine
	fold     cases.Caser
	query    string
	label    string
	assignee string
	dueDate  string
}

func (e *Engine) newMatcher(query string, filters models.FilterOptions) *matcher {
	m := &matcher{
		engine:  e,
		fold:    cases.Fold(),
		label:   strings.TrimSpace(filters.Label),
		dueDate: strings.TrimSpace(filters.DueDate),
	}
	m.query = m.fold.String(strings.TrimSpace(query))
	m.assignee = m.fold.String(strings.TrimSpace(filters.Assignee))
	return m
}

func (m *matcher) match(t *models.Task) bool {
	return m.matchSearch(t) && m.matchLabel(t) && m.matchDueDate(t) && m.matchAssignee(t)
}

func (m *matcher) contains(field string) bool {
	return field != "" && strings.Contains(m.fold.String(field), m.query)
}

func (m *matcher) matchSearch(t *models.Task) bool {
	if m.query == "" {
		return true
	}
	if m.contains(t.Title) || m.contains(t.Description) || m.contains(string(t.Label)) || m.contains(string(t.Priority)) {
		return true
	}
	for _, a := range t.Assignee {
		if m.contains(a) {
			return true
		}
	}
	for _, v := range m.engine.DateVariants(t.DueDate) {
		if m.contains(v) {
			return true
		}
	}
	return false
}

func (m *matcher) matchLabel(t *models.Task) bool {
	return m.label == "" || strings.EqualFold(string(t.Label), m.label)
}

func (m *matcher) matchDueDate(t *models.Task) bool {
	if m.dueDate == "" {
		return true
	}
	want, ok := parseDate(m.dueDate)
	if !ok {
		return false
	}
	got, ok := parseDate(t.DueDate)
	if !ok {
		return false
	}
	return sameDay(got, want)
}

func (m *matcher) matchAssignee(t *models.Task) bool {
	if m.assignee == "" {
		return true
	}
	for _, a := range t.Assignee {
		if strings.Contains(m.fold.String(a), m.assignee) {
			return true
		}
	}
	return false
}

// parseDate accepts a calendar date, or a full timestamp whose calendar day
// is taken as written.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if d, err := time.Parse(models.DateLayout, s); err == nil {
		return d, true
	}
	if d, err := time.Parse(time.RFC3339, s); err == nil {
		return d, true
	}
	return time.Time{}, false
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
