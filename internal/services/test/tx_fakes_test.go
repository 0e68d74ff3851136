package services_test

import (
	"context"
	"sync"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/jackc/pgx/v5"
)

// txLog 记录内存事务的提交与回滚次数，用于断言失败路径不会留下部分写入。
type txLog struct {
	mu        sync.Mutex
	commits   int
	rollbacks int
}

func (l *txLog) record(err error) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		l.rollbacks++
		return
	}
	l.commits++
}

func (l *txLog) counts() (commits, rollbacks int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.commits, l.rollbacks
}

// fakeTxManager 直接在当前 goroutine 执行回调，零值可用。
type fakeTxManager struct {
	log *txLog
}

type fakeSession struct{ ctx context.Context }

func (m fakeTxManager) WithinTx(ctx context.Context, _ txmanager.TxOptions, fn func(context.Context, txmanager.Session) error) error {
	err := fn(ctx, fakeSession{ctx: ctx})
	m.log.record(err)
	return err
}

func (m fakeTxManager) WithinReadOnlyTx(ctx context.Context, opts txmanager.TxOptions, fn func(context.Context, txmanager.Session) error) error {
	return m.WithinTx(ctx, opts, fn)
}

func (fakeSession) Tx() pgx.Tx { return nil }

func (s fakeSession) Context() context.Context { return s.ctx }

func ptrString(v string) *string { return &v }
