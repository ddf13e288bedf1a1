package container

import (
	"context"
	"fmt"

	"dataportal/adapters/excel"
	"dataportal/adapters/sqlstore"
	"dataportal/internal/api"
	"dataportal/internal/catalog"
	"dataportal/internal/config"
	"dataportal/internal/errors"
	"dataportal/internal/logging"
	"dataportal/ports"

	"github.com/jmoiron/sqlx"
)

var logger = logging.Default.With("container")

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config

	// Infrastructure; nil when datasets come from a file
	DB *sqlx.DB

	// Store is the writable dataset store; nil for the file source
	Store     ports.DatasetStore
	Source    ports.DatasetSource
	Metadata  ports.MetadataReader
	Ensembles ports.EnsembleLister
	Catalog   *catalog.Catalog
}

// New creates a container wired to the dataset source named in cfg
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	c := &Container{
		Config:    cfg,
		Metadata:  excel.NewMetadataDir(cfg.Data.Dir),
		Ensembles: excel.NewEnsembleDir(cfg.Data.Dir),
	}

	if err := c.initSource(ctx); err != nil {
		c.Shutdown()
		return nil, err
	}
	c.Catalog = catalog.New(c.Source, cfg.Cache.TTL)

	logger.Info("container initialized with %s dataset source", cfg.Data.Source)
	return c, nil
}

// initSource opens the configured dataset source
func (c *Container) initSource(ctx context.Context) error {
	var err error
	switch c.Config.Data.Source {
	case config.SourceFile:
		c.Source = excel.NewFileSource(c.Config.Data.File)
		return nil
	case config.SourcePostgres:
		c.DB, err = sqlstore.OpenPostgres(ctx, c.Config.Data.DatabaseURL)
	case config.SourceSQLite:
		c.DB, err = sqlstore.OpenSQLite(ctx, c.Config.Data.SQLitePath)
	default:
		return errors.ConfigInvalid("unknown dataset source " + c.Config.Data.Source)
	}
	if err != nil {
		return errors.Wrap(err, "failed to open dataset store")
	}

	c.Store = sqlstore.NewDatasetRepository(c.DB)
	c.Source = c.Store
	return nil
}

// ContentHandler returns the content API handler over the catalog
func (c *Container) ContentHandler() *api.ContentHandler {
	return api.NewContentHandler(c.Catalog, c.Metadata, c.Ensembles)
}

// Shutdown releases the database connection, if any
func (c *Container) Shutdown() {
	if c.DB == nil {
		return
	}
	if err := c.DB.Close(); err != nil {
		logger.Warn("closing database: %v", err)
	}
}
