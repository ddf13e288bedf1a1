package ui

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"dataportal/domain/dataset"
	"dataportal/internal/api"
	"dataportal/internal/catalog"
	"dataportal/ui/datatable"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var viewIDPattern = regexp.MustCompile(`/datasets/([0-9a-f-]{36})/`)

func sampleRecords(n int) []dataset.Record {
	records := make([]dataset.Record, n)
	for i := range records {
		records[i] = dataset.Record{
			DatasetName:       fmt.Sprintf("CEMBA_%02d", i),
			Sex:               "M",
			ABARegionsAcronym: "MOp",
			Slice:             dataset.Text(fmt.Sprint(i%12 + 1)),
			DateAdded:         fmt.Sprintf("2018-%02d-%02d", i/28+1, i%28+1),
			Description:       fmt.Sprintf("Region of sample %d", i),
		}
	}
	return records
}

type sliceSource []dataset.Record

func (s sliceSource) ListDatasets(ctx context.Context) ([]dataset.Record, error) {
	return s, nil
}

func newTestApp(t *testing.T, cfg Config) *App {
	t.Helper()
	app, err := NewApp(cfg)
	require.NoError(t, err)
	return app
}

func do(app http.Handler, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

// openView loads the datasets page and returns the body and view ID
func openView(t *testing.T, app http.Handler) (string, string) {
	t.Helper()
	resp := do(app, http.MethodGet, "/datasets")
	require.Equal(t, http.StatusOK, resp.Code)
	body := resp.Body.String()
	m := viewIDPattern.FindStringSubmatch(body)
	require.NotNil(t, m, "page should reference its view")
	return body, m[1]
}

func TestNewAppRequiresASource(t *testing.T) {
	_, err := NewApp(Config{})
	assert.Error(t, err)
}

func TestIndexRedirectsToDatasets(t *testing.T) {
	app := newTestApp(t, Config{Source: datatable.FromDatasetSource(sliceSource(nil))})

	resp := do(app, http.MethodGet, "/")

	assert.Equal(t, http.StatusFound, resp.Code)
	assert.Equal(t, "/datasets", resp.Header().Get("Location"))
}

func TestDatasetsPageShowsNewestFirst(t *testing.T) {
	app := newTestApp(t, Config{Source: datatable.FromDatasetSource(sliceSource(sampleRecords(60)))})

	body, _ := openView(t, app)

	assert.Contains(t, body, `id="dataset-table"`)
	assert.Equal(t, 25, strings.Count(body, `<tbody id="row-`))
	assert.Contains(t, body, "glyphicon-plus")
	assert.NotContains(t, body, "glyphicon-minus")
	assert.Contains(t, body, "Showing 1 to 25 of 60 entries")
	assert.Less(t, strings.Index(body, "CEMBA_59"), strings.Index(body, "CEMBA_58"))
	assert.NotContains(t, body, "CEMBA_34")
}

func TestDatasetTablePagingAndSorting(t *testing.T) {
	app := newTestApp(t, Config{Source: datatable.FromDatasetSource(sliceSource(sampleRecords(60)))})
	_, id := openView(t, app)

	resp := do(app, http.MethodGet, "/datasets/"+id+"/table?page=3")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, 10, strings.Count(resp.Body.String(), `<tbody id="row-`))
	assert.Contains(t, resp.Body.String(), "Showing 51 to 60 of 60 entries")

	resp = do(app, http.MethodGet, "/datasets/"+id+"/table?page=1&order=1&dir=asc")
	require.Equal(t, http.StatusOK, resp.Code)
	body := resp.Body.String()
	assert.Less(t, strings.Index(body, "CEMBA_00"), strings.Index(body, "CEMBA_01"))
	assert.Contains(t, body, "sorted-asc")

	assert.Equal(t, http.StatusBadRequest, do(app, http.MethodGet, "/datasets/"+id+"/table?order=0").Code)
	assert.Equal(t, http.StatusBadRequest, do(app, http.MethodGet, "/datasets/"+id+"/table?order=date").Code)
	assert.Equal(t, http.StatusBadRequest, do(app, http.MethodGet, "/datasets/"+id+"/table?page=last").Code)
}

func TestToggleRowShowsAndHidesDetail(t *testing.T) {
	app := newTestApp(t, Config{Source: datatable.FromDatasetSource(sliceSource(sampleRecords(3)))})
	_, id := openView(t, app)
	path := "/datasets/" + id + "/rows/2/toggle"

	resp := do(app, http.MethodPost, path)
	require.Equal(t, http.StatusOK, resp.Code)
	body := resp.Body.String()
	assert.Contains(t, body, `class="shown"`)
	assert.Contains(t, body, "glyphicon-minus")
	assert.Contains(t, body, "Region of sample 2")
	assert.Contains(t, body, "snATAC dataset(s):")

	v, ok := app.views.get(id)
	require.True(t, ok)
	assert.True(t, v.ctrl.IsExpanded("2"))

	resp = do(app, http.MethodPost, path)
	require.Equal(t, http.StatusOK, resp.Code)
	body = resp.Body.String()
	assert.NotContains(t, body, "shown")
	assert.Contains(t, body, "glyphicon-plus")
	assert.NotContains(t, body, "Region of sample 2")
	assert.False(t, v.ctrl.IsExpanded("2"))
}

func TestUnknownViewOrRow(t *testing.T) {
	app := newTestApp(t, Config{Source: datatable.FromDatasetSource(sliceSource(sampleRecords(3)))})
	_, id := openView(t, app)

	assert.Equal(t, http.StatusNotFound, do(app, http.MethodGet, "/datasets/00000000-0000-0000-0000-000000000000/table").Code)
	assert.Equal(t, http.StatusNotFound, do(app, http.MethodPost, "/datasets/"+id+"/rows/99/toggle").Code)
}

func TestViewsAreEvicted(t *testing.T) {
	app := newTestApp(t, Config{
		Source:        datatable.FromDatasetSource(sliceSource(sampleRecords(1))),
		ViewCacheSize: 2,
	})
	_, first := openView(t, app)
	openView(t, app)
	openView(t, app)

	assert.Equal(t, 2, app.views.len())
	assert.Equal(t, http.StatusNotFound, do(app, http.MethodGet, "/datasets/"+first+"/table").Code)
}

func TestDatasetsPageWhenLoadFails(t *testing.T) {
	failing := datatable.SourceFunc(func(ctx context.Context) ([]dataset.Record, error) {
		return nil, fmt.Errorf("content service unavailable")
	})
	app := newTestApp(t, Config{Source: failing})

	body, _ := openView(t, app)

	assert.Contains(t, body, "Unable to load datasets")
	assert.NotContains(t, body, `<tbody id="row-`)
}

func TestDatasetsPageFetchesFromScriptRoot(t *testing.T) {
	content := api.NewRouter(api.NewContentHandler(catalog.New(sliceSource(sampleRecords(4)), time.Minute), nil, nil), gin.TestMode)
	srv := httptest.NewServer(content)
	defer srv.Close()

	app := newTestApp(t, Config{ScriptRoot: srv.URL, Content: content})

	body, _ := openView(t, app)
	assert.Equal(t, 4, strings.Count(body, `<tbody id="row-`))

	resp := do(app, http.MethodGet, "/content/datasets/rs1")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"dataset_name":"CEMBA_03"`)

	assert.Equal(t, http.StatusOK, do(app, http.MethodGet, "/healthcheck").Code)
}

func TestStaticStylesheet(t *testing.T) {
	app := newTestApp(t, Config{Source: datatable.FromDatasetSource(sliceSource(nil))})

	resp := do(app, http.MethodGet, "/static/css/datasets.css")

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "details-control")
}
