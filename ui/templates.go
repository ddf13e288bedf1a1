package ui

import (
	"bytes"
	"fmt"
	"net/http"

	"dataportal/domain/dataset"
	"dataportal/internal/errors"
	"dataportal/ui/datatable"
)

type headerView struct {
	Title    string
	Centered bool
	Control  bool
	// SortURL is empty for columns that cannot be sorted.
	SortURL string
	Sorted  dataset.SortDirection
}

type tableData struct {
	ViewID  string
	Headers []headerView
	Page    datatable.PageView
	PrevURL string
	NextURL string
}

type rowData struct {
	ViewID string
	Row    datatable.RowView
}

type pageData struct {
	Title string
	Table tableData
}

func tableURL(viewID string, page int) string {
	return fmt.Sprintf("/datasets/%s/table?page=%d", viewID, page)
}

// newTableData builds the template data for one page of a view. Clicking a
// header sorts ascending, or flips the direction of the current sort column.
func newTableData(viewID string, page datatable.PageView) tableData {
	data := tableData{
		ViewID:  viewID,
		Page:    page,
		Headers: make([]headerView, len(page.Columns)),
	}
	for i, col := range page.Columns {
		h := headerView{Title: col.Title, Centered: col.Centered, Control: col.Control}
		if col.Sortable {
			next := dataset.SortAsc
			if i == page.SortColumn {
				h.Sorted = page.SortDir
				if page.SortDir == dataset.SortAsc {
					next = dataset.SortDesc
				}
			}
			h.SortURL = fmt.Sprintf("%s&order=%d&dir=%s", tableURL(viewID, 1), i, next)
		}
		data.Headers[i] = h
	}
	if page.HasPrev() {
		data.PrevURL = tableURL(viewID, page.Page-1)
	}
	if page.HasNext() {
		data.NextURL = tableURL(viewID, page.Page+1)
	}
	return data
}

// renderTemplate executes a template into a buffer before writing, so a
// template error still produces a clean 500.
func (a *App) renderTemplate(w http.ResponseWriter, name string, data interface{}) {
	var buf bytes.Buffer
	if err := a.templates.ExecuteTemplate(&buf, name, data); err != nil {
		logger.Error("template %s: %v (data %T)", name, err, data)
		http.Error(w, "template rendering failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		logger.Warn("writing %s response: %v", name, err)
	}
}

func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.CodeNotFound:
		return http.StatusNotFound
	case errors.CodeInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed: %v", err)
	}
	http.Error(w, err.Error(), status)
}
