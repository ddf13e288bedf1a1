package ui

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru"

	"dataportal/internal/errors"
	"dataportal/ui/datatable"
)

const defaultViewCacheSize = 1000

// tableView is one browser page's table: its grid and the controller that
// owns the grid's expanded rows.
type tableView struct {
	id   string
	grid *datatable.Grid
	ctrl *datatable.Controller
}

// viewRegistry holds live table views, evicting the least recently used.
type viewRegistry struct {
	cache *lru.Cache
}

func newViewRegistry(size int) (*viewRegistry, error) {
	if size <= 0 {
		size = defaultViewCacheSize
	}
	cache, err := lru.New(size)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create view cache")
	}
	return &viewRegistry{cache: cache}, nil
}

func (r *viewRegistry) add(v *tableView) {
	r.cache.Add(v.id, v)
}

func (r *viewRegistry) get(id string) (*tableView, bool) {
	v, ok := r.cache.Get(id)
	if !ok {
		return nil, false
	}
	return v.(*tableView), true
}

func (r *viewRegistry) len() int {
	return r.cache.Len()
}

// newTableView builds a grid, initializes the dataset table on it and
// registers the result. A failed fetch still yields a registered view whose
// grid reports the load error.
func (a *App) newTableView(ctx context.Context) *tableView {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.FetchTimeout)
	defer cancel()

	grid := datatable.NewGrid()
	tc := datatable.Config{ScriptRoot: a.cfg.ScriptRoot}
	if a.cfg.ScriptRoot == "" {
		tc.Source = a.cfg.Source
	} else {
		tc.Client = &http.Client{Timeout: a.cfg.FetchTimeout}
	}

	ctrl, err := datatable.InitDatasetTable(ctx, grid, tc)
	if err != nil {
		logger.Warn("dataset table load failed: %v", err)
	}

	v := &tableView{
		id:   uuid.NewString(),
		grid: grid,
		ctrl: ctrl,
	}
	a.views.add(v)
	return v
}
