package datatable

import (
	"context"
	"html/template"
	"sort"
	"strconv"
	"strings"
	"sync"

	"dataportal/domain/dataset"
	"dataportal/internal/errors"
)

type gridRow struct {
	id  string
	rec dataset.Record
}

// Grid is an in-memory View rendered server-side. Row IDs are the
// positions of the records in the fetched array.
type Grid struct {
	mu         sync.RWMutex
	columns    []dataset.ColumnSpec
	sortColumn int
	sortDir    dataset.SortDirection
	pageLength int

	rows    []gridRow
	order   []int
	byID    map[string]int
	details map[string]template.HTML
	shown   map[string]bool
	handler ToggleHandler
	loadErr error
}

// NewGrid returns an empty grid with a page length of 10
func NewGrid() *Grid {
	return &Grid{
		sortDir:    dataset.SortAsc,
		pageLength: 10,
		byID:       make(map[string]int),
		details:    make(map[string]template.HTML),
		shown:      make(map[string]bool),
	}
}

// Bind replaces the grid rows with the records from src. The fetch runs
// without holding the grid lock.
func (g *Grid) Bind(ctx context.Context, src DataSource) error {
	records, err := src.Fetch(ctx)

	g.mu.Lock()
	defer g.mu.Unlock()

	g.rows = g.rows[:0]
	g.byID = make(map[string]int, len(records))
	g.details = make(map[string]template.HTML)
	g.shown = make(map[string]bool)
	g.loadErr = err
	if err != nil {
		g.order = nil
		return err
	}

	for i, rec := range records {
		id := strconv.Itoa(i)
		g.rows = append(g.rows, gridRow{id: id, rec: rec})
		g.byID[id] = i
	}
	g.resort()
	return nil
}

func (g *Grid) SetColumns(cols []dataset.ColumnSpec) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.columns = append([]dataset.ColumnSpec(nil), cols...)
}

func (g *Grid) SetDefaultSort(column int, dir dataset.SortDirection) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sortColumn = column
	g.sortDir = dir
	g.resort()
}

func (g *Grid) SetPageLength(n int) {
	if n <= 0 {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pageLength = n
}

func (g *Grid) OnRowExpandToggle(handler ToggleHandler) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.handler = handler
}

func (g *Grid) ShowRowDetail(rowID string, content template.HTML) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.byID[rowID]; !ok {
		return errors.NotFound("row " + rowID)
	}
	g.details[rowID] = content
	g.shown[rowID] = true
	return nil
}

func (g *Grid) HideRowDetail(rowID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.byID[rowID]; !ok {
		return errors.NotFound("row " + rowID)
	}
	g.shown[rowID] = false
	return nil
}

func (g *Grid) Row(rowID string) (dataset.Record, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	i, ok := g.byID[rowID]
	if !ok {
		return dataset.Record{}, false
	}
	return g.rows[i].rec, true
}

// Click dispatches a click on a row's expand control to the toggle handler.
func (g *Grid) Click(rowID string) error {
	g.mu.RLock()
	_, ok := g.byID[rowID]
	handler := g.handler
	g.mu.RUnlock()

	if !ok {
		return errors.NotFound("row " + rowID)
	}
	if handler == nil {
		return nil
	}
	return handler(rowID)
}

// Sort orders the rows by a sortable column. Ties keep their fetch order.
func (g *Grid) Sort(column int, dir dataset.SortDirection) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if column < 0 || column >= len(g.columns) || !g.columns[column].Sortable {
		return errors.InvalidInput("column " + strconv.Itoa(column) + " is not sortable")
	}
	g.sortColumn = column
	g.sortDir = dir
	g.resort()
	return nil
}

// resort rebuilds the display order; callers hold the write lock.
func (g *Grid) resort() {
	g.order = make([]int, len(g.rows))
	for i := range g.order {
		g.order[i] = i
	}
	if g.sortColumn < 0 || g.sortColumn >= len(g.columns) || g.columns[g.sortColumn].Control {
		return
	}

	field := g.columns[g.sortColumn].Field
	desc := g.sortDir == dataset.SortDesc
	sort.SliceStable(g.order, func(a, b int) bool {
		c := compareField(g.rows[g.order[a]].rec, g.rows[g.order[b]].rec, field)
		if desc {
			return c > 0
		}
		return c < 0
	})
}

func compareField(a, b dataset.Record, field string) int {
	if ca, ok := a.FieldCount(field); ok {
		cb, _ := b.FieldCount(field)
		switch {
		case ca.Valid != cb.Valid:
			if ca.Valid {
				return 1
			}
			return -1
		case ca.Int64 < cb.Int64:
			return -1
		case ca.Int64 > cb.Int64:
			return 1
		}
		return 0
	}

	ta, tb := a.FieldText(field), b.FieldText(field)
	fa, errA := strconv.ParseFloat(ta, 64)
	fb, errB := strconv.ParseFloat(tb, 64)
	if errA == nil && errB == nil {
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	}
	return strings.Compare(ta, tb)
}

// Len returns the number of rows across all pages
func (g *Grid) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.rows)
}

// PageCount returns the number of pages, at least 1
func (g *Grid) PageCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.pageCount()
}

func (g *Grid) pageCount() int {
	if len(g.rows) == 0 {
		return 1
	}
	return (len(g.rows) + g.pageLength - 1) / g.pageLength
}

// CellView is one rendered cell
type CellView struct {
	Text     string
	Centered bool
	Control  bool
	Glyph    string
}

// RowView is one rendered row and its detail panel
type RowView struct {
	ID     string
	Cells  []CellView
	Shown  bool
	Detail template.HTML
}

// Class returns the row's CSS class
func (r RowView) Class() string {
	if r.Shown {
		return "shown"
	}
	return ""
}

// PageView is a snapshot of one page of the grid
type PageView struct {
	Columns    []dataset.ColumnSpec
	Rows       []RowView
	Page       int
	PageCount  int
	PageLength int
	Total      int
	Start      int
	End        int
	SortColumn int
	SortDir    dataset.SortDirection
	LoadError  string
}

// HasPrev reports whether a previous page exists
func (p PageView) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a next page exists
func (p PageView) HasNext() bool { return p.Page < p.PageCount }

// Page returns page n (1-based), clamped to the existing pages.
func (g *Grid) Page(n int) PageView {
	g.mu.RLock()
	defer g.mu.RUnlock()

	pages := g.pageCount()
	if n < 1 {
		n = 1
	}
	if n > pages {
		n = pages
	}

	view := PageView{
		Columns:    g.columns,
		Page:       n,
		PageCount:  pages,
		PageLength: g.pageLength,
		Total:      len(g.rows),
		SortColumn: g.sortColumn,
		SortDir:    g.sortDir,
	}
	if g.loadErr != nil {
		view.LoadError = g.loadErr.Error()
	}

	start := (n - 1) * g.pageLength
	end := start + g.pageLength
	if end > len(g.order) {
		end = len(g.order)
	}
	for _, idx := range g.order[start:end] {
		view.Rows = append(view.Rows, g.rowView(g.rows[idx]))
	}
	if len(view.Rows) > 0 {
		view.Start = start + 1
		view.End = end
	}
	return view
}

// RowView returns the rendered form of one row
func (g *Grid) RowView(rowID string) (RowView, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	i, ok := g.byID[rowID]
	if !ok {
		return RowView{}, false
	}
	return g.rowView(g.rows[i]), true
}

func (g *Grid) rowView(row gridRow) RowView {
	rv := RowView{
		ID:    row.id,
		Shown: g.shown[row.id],
		Cells: make([]CellView, len(g.columns)),
	}
	if rv.Shown {
		rv.Detail = g.details[row.id]
	}
	for i, col := range g.columns {
		cell := CellView{Centered: col.Centered, Control: col.Control}
		if col.Control {
			cell.Glyph = col.DefaultGlyph
			if rv.Shown {
				cell.Glyph = dataset.GlyphMinus
			}
		} else {
			cell.Text = row.rec.FieldText(col.Field)
		}
		rv.Cells[i] = cell
	}
	return rv
}
