package catalog

import (
	"context"
	"log/slog"
)

// InitResult reports how the catalog was populated at startup
type InitResult struct {
	FromStore bool
	Count     int
}

// Initializer populates the catalog at startup: from the stored snapshot
// when there is one, otherwise from one batch fetch of the seed IDs.
type Initializer struct {
	catalog  *Catalog
	commands *Commands
	seeds    []string
	logger   *slog.Logger
}

// NewInitializer creates an Initializer for the given seed IDs
func NewInitializer(catalog *Catalog, commands *Commands, seeds []string, logger *slog.Logger) *Initializer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Initializer{
		catalog:  catalog,
		commands: commands,
		seeds:    append([]string(nil), seeds...),
		logger:   logger,
	}
}

// Run performs the initial load
func (i *Initializer) Run(ctx context.Context) (InitResult, error) {
	if i.catalog.Load() {
		return InitResult{FromStore: true, Count: i.catalog.Len()}, nil
	}

	i.logger.Info("no stored catalog, bootstrapping from seeds", "seeds", len(i.seeds))
	if _, err := i.commands.FetchBatch(ctx, i.seeds); err != nil {
		return InitResult{}, err
	}
	return InitResult{Count: i.catalog.Len()}, nil
}
