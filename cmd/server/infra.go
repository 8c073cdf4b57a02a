package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	"patentdesk/internal/platform/config"
	"patentdesk/internal/platform/kafka"
	"patentdesk/internal/platform/postgres"
	"patentdesk/internal/platform/redis"
)

// infra holds the optional backing services. Each nil field selects the
// in-memory implementation of the components that use it.
type infra struct {
	db    *sql.DB
	redis *redis.Client
	kafka *kgo.Client
}

func openInfra(ctx context.Context, cfg config.Config, log *slog.Logger) (*infra, error) {
	in := &infra{}

	db, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	in.db = db
	if db != nil && cfg.Database.Migrate {
		if err := postgres.Migrate(ctx, db); err != nil {
			in.Close()
			return nil, fmt.Errorf("migrate database: %w", err)
		}
		log.Info("database schema applied")
	}

	rc, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		in.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	in.redis = rc

	kc, err := kafka.New(cfg.Kafka)
	if err != nil {
		in.Close()
		return nil, fmt.Errorf("connect kafka: %w", err)
	}
	in.kafka = kc
	if kc != nil && cfg.Kafka.CreateTopic {
		if err := kafka.EnsureTopic(ctx, kc, cfg.Kafka.EmailTopic); err != nil {
			in.Close()
			return nil, fmt.Errorf("create email topic: %w", err)
		}
	}
	return in, nil
}

func (in *infra) backend() string {
	if in.db != nil {
		return "postgres"
	}
	return "memory"
}

// Health checks every configured backing service.
func (in *infra) Health(ctx context.Context) map[string]string {
	status := map[string]string{}
	check := func(name string, err error) {
		if err != nil {
			status[name] = "down"
			return
		}
		status[name] = "up"
	}
	if in.db != nil {
		check("postgres", in.db.PingContext(ctx))
	}
	if in.redis != nil {
		check("redis", in.redis.Health(ctx))
	}
	if in.kafka != nil {
		check("kafka", kafka.Health(ctx, in.kafka))
	}
	return status
}

func (in *infra) Close() {
	if in.kafka != nil {
		in.kafka.Close()
	}
	if in.redis != nil {
		_ = in.redis.Close()
	}
	if in.db != nil {
		_ = in.db.Close()
	}
}
