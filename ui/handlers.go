package ui

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"dataportal/domain/dataset"
	"dataportal/internal/errors"
)

func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/datasets", http.StatusFound)
}

// handleDatasets opens a new table view and renders the full page
func (a *App) handleDatasets(w http.ResponseWriter, r *http.Request) {
	v := a.newTableView(r.Context())
	a.renderTemplate(w, "datasets.html", pageData{
		Title: "Datasets",
		Table: newTableData(v.id, v.grid.Page(1)),
	})
}

// handleDatasetTable re-renders the table of a view, optionally sorting it first
func (a *App) handleDatasetTable(w http.ResponseWriter, r *http.Request) {
	v, ok := a.lookupView(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	if order := q.Get("order"); order != "" {
		col, err := strconv.Atoi(order)
		if err != nil {
			writeError(w, errors.InvalidInput("order must be a column index"))
			return
		}
		if err := v.grid.Sort(col, dataset.ParseSortDirection(q.Get("dir"))); err != nil {
			writeError(w, err)
			return
		}
	}

	page := 1
	if p := q.Get("page"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			writeError(w, errors.InvalidInput("page must be a number"))
			return
		}
		page = n
	}

	a.renderTemplate(w, "dataset_table", newTableData(v.id, v.grid.Page(page)))
}

// handleToggleRow clicks a row's control cell and renders the row again
func (a *App) handleToggleRow(w http.ResponseWriter, r *http.Request) {
	v, ok := a.lookupView(w, r)
	if !ok {
		return
	}

	rowID := chi.URLParam(r, "row")
	if err := v.grid.Click(rowID); err != nil {
		writeError(w, err)
		return
	}
	row, ok := v.grid.RowView(rowID)
	if !ok {
		writeError(w, errors.NotFound("row "+rowID))
		return
	}
	a.renderTemplate(w, "dataset_row", rowData{ViewID: v.id, Row: row})
}

func (a *App) lookupView(w http.ResponseWriter, r *http.Request) (*tableView, bool) {
	id := chi.URLParam(r, "view")
	v, ok := a.views.get(id)
	if !ok {
		writeError(w, errors.NotFound("table view "+id))
		return nil, false
	}
	return v, true
}
