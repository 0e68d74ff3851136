package repositories

import (
	"context"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX 是连接池与事务共有的最小查询接口。
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// conn 在事务会话存在时返回事务，否则回落到连接池。
func conn(db *pgxpool.Pool, sess txmanager.Session) DBTX {
	if sess != nil {
		if tx := sess.Tx(); tx != nil {
			return tx
		}
	}
	return db
}
