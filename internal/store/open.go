package store

import (
	"context"
	"fmt"

	"blueblog/internal/config"
	"blueblog/internal/gql"
	"blueblog/internal/posts"
	"blueblog/internal/store/firestoredb"
	"blueblog/internal/store/graphqlstore"
	"blueblog/internal/store/postgres"
	"go.uber.org/zap"
)

// Open connects the document store selected by cfg.Store. The returned close
// function releases the backend's connections.
func Open(ctx context.Context, cfg config.Config, logger *zap.Logger) (posts.Store, func() error, error) {
	switch cfg.Store {
	case config.StoreFirestore:
		fs, err := firestoredb.Open(ctx, firestoredb.Config{
			ProjectID:       cfg.FirestoreProjectID,
			Collection:      cfg.FirestoreCollection,
			CredentialsFile: cfg.FirestoreCredentialsFile,
		})
		if err != nil {
			return nil, nil, err
		}
		logger.Info("document store ready",
			zap.String("store", cfg.Store),
			zap.String("collection", cfg.FirestoreCollection),
		)
		return fs, fs.Close, nil

	case config.StoreGraphQL:
		logger.Info("document store ready",
			zap.String("store", cfg.Store),
			zap.String("endpoint", cfg.GraphQLEndpoint),
		)
		return graphqlstore.New(gql.NewClient(cfg)), func() error { return nil }, nil

	case config.StorePostgres:
		db, err := postgres.OpenDB(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		if cfg.Database.Migrate {
			if err := postgres.EnsureMigrated(ctx, db, logger); err != nil {
				_ = db.Close()
				return nil, nil, err
			}
		}
		logger.Info("document store ready", zap.String("store", cfg.Store))
		return postgres.New(db), db.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown document store %q (want %s, %s or %s)",
			cfg.Store, config.StoreFirestore, config.StoreGraphQL, config.StorePostgres)
	}
}
