// Package bootstrap builds the long-lived collaborators the API needs at process start.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/CameronXie/gts-marketplace-api/internal/config"
	"github.com/CameronXie/gts-marketplace-api/internal/credentials"
	"github.com/CameronXie/gts-marketplace-api/internal/docstore"
	"github.com/CameronXie/gts-marketplace-api/internal/docstore/firestore"
	"github.com/CameronXie/gts-marketplace-api/internal/docstore/mongo"
	"github.com/CameronXie/gts-marketplace-api/internal/docstore/sqldoc"
)

// Opener constructs a backend from its configuration.
type Opener func(ctx context.Context, cfg config.Store) (docstore.Store, error)

// Openers maps every supported store.driver value to its constructor.
var Openers = map[string]Opener{
	"firestore": openFirestore,
	"mongo":     openMongo,
	"mongodb":   openMongo,
	"sqlite":    openSQL,
	"sqlite3":   openSQL,
	"mysql":     openSQL,
	"postgres":  openSQL,
	"memory":    openMemory,
}

// OpenStore opens and pings the configured document store. It never fails: any
// error is logged and a nil Store is returned, which the handlers report as
// service unavailable.
func OpenStore(ctx context.Context, cfg config.Store, logger *slog.Logger) docstore.Store {
	logger = logger.With("driver", cfg.Driver)

	store, err := openStore(ctx, cfg)
	if err != nil {
		logger.ErrorContext(ctx, "docstore_open_failed", "error", err)
		return nil
	}

	if err := store.Ping(ctx); err != nil {
		_ = store.Close()
		logger.ErrorContext(ctx, "docstore_open_failed", "error", fmt.Errorf("ping: %w", err))
		return nil
	}

	logger.InfoContext(ctx, "docstore_opened")
	return store
}

func openStore(ctx context.Context, cfg config.Store) (docstore.Store, error) {
	open, ok := Openers[cfg.Driver]
	if !ok {
		return nil, fmt.Errorf("%w: %q", docstore.ErrUnknownDriver, cfg.Driver)
	}

	return open(ctx, cfg)
}

func openFirestore(ctx context.Context, cfg config.Store) (docstore.Store, error) {
	fsCfg := firestore.Config{ProjectID: cfg.ProjectID}

	source := credentialsSource(cfg)
	if source != nil {
		sa, err := source.ServiceAccount()
		if err != nil {
			return nil, fmt.Errorf("load_credentials: %w", err)
		}

		fsCfg.CredentialsJSON = sa.JSON
		if fsCfg.ProjectID == "" {
			fsCfg.ProjectID = sa.ProjectID
		}
	}

	return firestore.New(ctx, fsCfg)
}

// credentialsSource picks the configured service account key, or nil for application default credentials.
func credentialsSource(cfg config.Store) credentials.Source {
	switch {
	case cfg.CredentialsBase64 != "":
		return credentials.FromBase64(cfg.CredentialsBase64)
	case cfg.CredentialsFile != "":
		return credentials.FromFile(cfg.CredentialsFile)
	default:
		return nil
	}
}

func openMongo(ctx context.Context, cfg config.Store) (docstore.Store, error) {
	return mongo.New(ctx, cfg.URI, cfg.Database)
}

func openSQL(_ context.Context, cfg config.Store) (docstore.Store, error) {
	dialect, ok := sqldoc.DialectFor(cfg.Driver)
	if !ok {
		return nil, fmt.Errorf("%w: %q", docstore.ErrUnknownDriver, cfg.Driver)
	}

	return sqldoc.Open(dialect, cfg.URI)
}

func openMemory(context.Context, config.Store) (docstore.Store, error) {
	return docstore.NewMemoryStore(), nil
}
