// Package api serves the content resources read by the dataset table.
package api

import (
	"net/http"

	"dataportal/domain/dataset"
	"dataportal/internal/catalog"
	"dataportal/internal/errors"
	"dataportal/internal/logging"
	"dataportal/ports"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/chi/v5/middleware"
)

var logger = logging.Default.With("api")

// ContentHandler handles the /content resources
type ContentHandler struct {
	catalog   *catalog.Catalog
	metadata  ports.MetadataReader
	ensembles ports.EnsembleLister
}

// NewContentHandler creates a new content handler
func NewContentHandler(c *catalog.Catalog, metadata ports.MetadataReader, ensembles ports.EnsembleLister) *ContentHandler {
	return &ContentHandler{catalog: c, metadata: metadata, ensembles: ensembles}
}

// NewRouter returns a gin engine serving the content API and a health check
func NewRouter(h *ContentHandler, mode string) *gin.Engine {
	if mode != "" {
		gin.SetMode(mode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthcheck", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	h.Register(router.Group("/content"))
	return router
}

// Register adds the content routes to a router group
func (h *ContentHandler) Register(group *gin.RouterGroup) {
	group.GET("/datasets/rs1", h.ListDatasets)
	group.GET("/datasets/summary", h.DatasetSummary)
	group.GET("/metadata/:dataset", h.GetMetadata)
	group.GET("/ensemble_list", h.ListEnsembles)
}

// ListDatasets returns every dataset record as a bare JSON array
func (h *ContentHandler) ListDatasets(c *gin.Context) {
	records, err := h.catalog.ListDatasets(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if records == nil {
		records = []dataset.Record{}
	}
	c.JSON(http.StatusOK, records)
}

// DatasetSummary returns cell-count totals over the catalog
func (h *ContentHandler) DatasetSummary(c *gin.Context) {
	summary, err := h.catalog.Summary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetMetadata returns {"data": rows} for a dataset, or {"data": null} when
// the dataset has no metadata file.
func (h *ContentHandler) GetMetadata(c *gin.Context) {
	rows, err := h.metadata.ReadMetadata(c.Request.Context(), c.Param("dataset"))
	if err != nil {
		respondError(c, err)
		return
	}
	if rows == nil {
		c.JSON(http.StatusOK, gin.H{"data": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows})
}

// ListEnsembles returns {"data": [...]} with one entry per ensemble
func (h *ContentHandler) ListEnsembles(c *gin.Context) {
	ensembles, err := h.ensembles.ListEnsembles(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if ensembles == nil {
		ensembles = []map[string]string{}
	}
	c.JSON(http.StatusOK, gin.H{"data": ensembles})
}

// Compressed gzips responses for clients that accept it
func Compressed(router http.Handler) http.Handler {
	return middleware.Compress(5)(router)
}

func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.CodeNotFound:
		status = http.StatusNotFound
	case errors.CodeInvalidInput:
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		logger.Error("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, gin.H{"error": err.Error(), "code": errors.GetCode(err)})
}
