package datatable

import (
	"context"
	"net/http"
	"sync"

	"dataportal/domain/dataset"
	"dataportal/internal/errors"
)

// Config holds what the controller needs from its page
type Config struct {
	// ScriptRoot is the base URL of the content API.
	ScriptRoot string
	// Client performs the fetch; http.DefaultClient when nil.
	Client *http.Client
	// Source, when set, replaces the HTTP fetch from ScriptRoot.
	Source DataSource
}

// Controller configures a View for the dataset table and owns the
// expanded state of its rows.
type Controller struct {
	view View

	mu       sync.Mutex
	expanded map[string]bool
}

// InitDatasetTable configures view with the dataset columns, default sort and
// page length, then binds it to the dataset list. A fetch error comes back
// from the view unchanged and leaves the view empty.
func InitDatasetTable(ctx context.Context, view View, cfg Config) (*Controller, error) {
	c := &Controller{
		view:     view,
		expanded: make(map[string]bool),
	}

	view.SetColumns(dataset.DatasetColumns())
	view.SetDefaultSort(dataset.DefaultSortColumn, dataset.DefaultSortDirection)
	view.SetPageLength(dataset.PageLength)
	view.OnRowExpandToggle(c.Toggle)

	src := cfg.Source
	if src == nil {
		src = NewRemoteSource(cfg.ScriptRoot, cfg.Client)
	}
	if err := view.Bind(ctx, src); err != nil {
		return c, err
	}
	return c, nil
}

// Toggle flips the detail panel of a row. It is the view's expand handler.
func (c *Controller) Toggle(rowID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.expanded[rowID] {
		if err := c.view.HideRowDetail(rowID); err != nil {
			return err
		}
		delete(c.expanded, rowID)
		return nil
	}

	rec, ok := c.view.Row(rowID)
	if !ok {
		return errors.NotFound("row " + rowID)
	}
	if err := c.view.ShowRowDetail(rowID, Format(rec)); err != nil {
		return err
	}
	c.expanded[rowID] = true
	return nil
}

// IsExpanded reports whether a row currently shows its detail panel
func (c *Controller) IsExpanded(rowID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.expanded[rowID]
}

// ExpandedRows returns the number of rows showing a detail panel
func (c *Controller) ExpandedRows() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.expanded)
}
