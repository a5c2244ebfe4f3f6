package connectors

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // golang postgres driver
	"github.com/jmoiron/sqlx"

	"iris_api/pkg/logx"
)

type Postgres struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	PingTimeout     time.Duration

	once  sync.Once
	value *sqlx.DB
	err   error
}

func (p *Postgres) Enabled() bool {
	return p.DSN != ""
}

// Connect opens the pool on first use and returns the same pool (or the
// same error) afterwards.
func (p *Postgres) Connect(ctx context.Context) (*sqlx.DB, error) {
	p.once.Do(func() {
		pingCtx, cancel := context.WithTimeout(ctx, cmp.Or(p.PingTimeout, defaultPingTimeout))
		defer cancel()

		db, err := sqlx.ConnectContext(pingCtx, "pgx", p.DSN)
		if err != nil {
			p.err = fmt.Errorf("postgres %s: %w", p.database(), err)

			return
		}

		db.SetMaxOpenConns(p.MaxOpenConns)
		db.SetMaxIdleConns(p.MaxIdleConns)
		db.SetConnMaxLifetime(p.ConnMaxLifetime)

		p.value = db

		logger(ctx).Info("postgres connected", slog.String("database", p.database()))
	})

	return p.value, p.err
}

func (p *Postgres) Close(ctx context.Context) {
	if p.value == nil {
		return
	}

	if err := p.value.Close(); err != nil {
		logger(ctx).Error("postgresClient.Close", logx.Error(err))
	}

	logger(ctx).Info("postgres disconnected", slog.String("database", p.database()))
}

// database keeps credentials out of the logs.
func (p *Postgres) database() string {
	u, err := url.Parse(p.DSN)
	if err != nil || u.Host == "" {
		return "unknown"
	}

	return u.Host + u.Path
}
