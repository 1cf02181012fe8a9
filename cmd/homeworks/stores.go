package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/kuroneko-hornet/homeworks/internal/api/handler"
	"github.com/kuroneko-hornet/homeworks/internal/core/ports"
	"github.com/kuroneko-hornet/homeworks/internal/infrastructure/db/memory"
	mongostore "github.com/kuroneko-hornet/homeworks/internal/infrastructure/db/mongo"
	redisstore "github.com/kuroneko-hornet/homeworks/internal/infrastructure/db/redis"
	"github.com/kuroneko-hornet/homeworks/internal/pkg/config"
)

// stores is the repository set selected by STORE_BACKEND.
type stores struct {
	taxonomy   ports.TaxonomyRepository
	history    ports.HistoryRepository
	profiles   ports.ProfileRepository
	identities ports.IdentityRepository
	revoker    ports.TokenRevoker
	readiness  map[string]handler.Pinger
	closers    []func(context.Context) error
}

func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*stores, error) {
	st := &stores{readiness: make(map[string]handler.Pinger)}

	switch cfg.StoreBackend {
	case config.BackendMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			AppName:  "homeworks",
		})
		if err != nil {
			return nil, err
		}
		st.closers = append(st.closers, client.Disconnect)
		st.readiness["mongodb"] = func(ctx context.Context) error { return client.Ping(ctx, nil) }

		history := mongostore.NewHistoryRepository(db)
		identities := mongostore.NewIdentityRepository(db)
		if err := mongostore.EnsureIndexes(ctx, history, identities); err != nil {
			st.close(log)
			return nil, err
		}
		st.history = history
		st.identities = identities
		st.taxonomy = mongostore.NewTaxonomyRepository(db)
		st.profiles = mongostore.NewProfileRepository(db)
	default:
		st.history = memory.NewHistoryRepository(nil)
		st.identities = memory.NewIdentityRepository()
		st.taxonomy = memory.NewTaxonomyRepository()
		st.profiles = memory.NewProfileRepository()
		log.Warn().Msg("using in-memory store; data is lost on restart")
	}

	if cfg.Redis.Enabled {
		rdb, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			st.close(log)
			return nil, err
		}
		st.closers = append(st.closers, func(context.Context) error { return rdb.Close() })
		st.readiness["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		st.revoker = redisstore.NewSessionRevoker(rdb)
	} else {
		st.revoker = memory.NewTokenRevoker()
	}

	return st, nil
}

func (s *stores) close(log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](ctx); err != nil {
			log.Warn().Err(fmt.Errorf("close store: %w", err)).Msg("store close failed")
		}
	}
}
