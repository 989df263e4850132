package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX はpgxpool.Poolとpgx.Txの共通部分を抽象化します。
// リポジトリはこのインターフェース越しにSQLを発行します。
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ConnectionParams はデータベース接続パラメータ
type ConnectionParams struct {
	DSN             string
	MaxConns        int32
	ConnectTimeout  time.Duration
	HealthCheckWait time.Duration
}

// Database は接続プールを保持します
type Database struct {
	Pool *pgxpool.Pool
}

// New は接続プールを作成し、疎通確認を行います
func New(ctx context.Context, params ConnectionParams) (*Database, error) {
	poolCfg, err := pgxpool.ParseConfig(params.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	if params.MaxConns > 0 {
		poolCfg.MaxConns = params.MaxConns
	}
	if params.ConnectTimeout > 0 {
		poolCfg.ConnConfig.ConnectTimeout = params.ConnectTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	pingCtx := ctx
	if params.HealthCheckWait > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, params.HealthCheckWait)
		defer cancel()
	}
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Database{Pool: pool}, nil
}

// Close は接続プールを閉じます
func (d *Database) Close() {
	if d.Pool != nil {
		d.Pool.Close()
	}
}
