package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Ivaan2/studio/internal/config"
	"github.com/Ivaan2/studio/internal/db"
	"github.com/Ivaan2/studio/internal/logger"
	"github.com/Ivaan2/studio/internal/redis"

	_ "github.com/lib/pq"
)

type Infra struct {
	DB    *db.DB
	Redis *redis.Client
}

// setupInfra dials only the store the configured driver needs.
func setupInfra(ctx context.Context, cfg config.Config) (*Infra, error) {

	switch cfg.StoreDriver {

	case "postgres":
		sqlDB, err := sql.Open("postgres", cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}

		if err := sqlDB.PingContext(ctx); err != nil {
			return nil, err
		}

		if err := db.RunSchemaMigration(ctx, sqlDB); err != nil {
			return nil, err
		}

		logger.Info("database ready", nil)

		return &Infra{DB: &db.DB{DB: sqlDB}}, nil

	case "redis":
		redisClient, err := redis.New(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return nil, err
		}

		logger.Info("redis ready", nil)

		return &Infra{Redis: redisClient}, nil

	default:
		return nil, fmt.Errorf("unknown store driver: %q", cfg.StoreDriver)
	}
}

func (i *Infra) Close() error {
	if i.DB != nil {
		return i.DB.Close()
	}
	if i.Redis != nil {
		return i.Redis.Close()
	}
	return nil
}
