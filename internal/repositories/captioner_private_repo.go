package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/bionicotaku/lingo-services-captions/internal/models/po"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrCaptionerPrivateNotFound 表示私有档案不存在。
var ErrCaptionerPrivateNotFound = errors.New("captioner private data not found")

// CaptionerPrivateRepository 提供访问 captions.captioner_private 的接口。
type CaptionerPrivateRepository struct {
	db  *pgxpool.Pool
	log *log.Helper
}

// NewCaptionerPrivateRepository 构造仓储实例。
func NewCaptionerPrivateRepository(db *pgxpool.Pool, logger log.Logger) *CaptionerPrivateRepository {
	return &CaptionerPrivateRepository{db: db, log: log.NewHelper(logger)}
}

// Upsert 写入私有档案。
func (r *CaptionerPrivateRepository) Upsert(ctx context.Context, sess txmanager.Session, captionerID uuid.UUID, email string) error {
	_, err := conn(r.db, sess).Exec(ctx, `INSERT INTO captions.captioner_private (captioner_id, email)
VALUES ($1, $2)
ON CONFLICT (captioner_id) DO UPDATE SET email = EXCLUDED.email`, captionerID, email)
	if err != nil {
		r.log.WithContext(ctx).Errorf("upsert captioner private failed: captioner=%s err=%v", captionerID, err)
		return fmt.Errorf("upsert captioner private: %w", err)
	}
	return nil
}

// Get 返回私有档案。
func (r *CaptionerPrivateRepository) Get(ctx context.Context, sess txmanager.Session, captionerID uuid.UUID) (*po.CaptionerPrivate, error) {
	return r.getOne(ctx, sess, `SELECT captioner_id, email, created_at, updated_at FROM captions.captioner_private WHERE captioner_id = $1`, captionerID)
}

// FindByEmail 按邮箱查询私有档案。
func (r *CaptionerPrivateRepository) FindByEmail(ctx context.Context, sess txmanager.Session, email string) (*po.CaptionerPrivate, error) {
	return r.getOne(ctx, sess, `SELECT captioner_id, email, created_at, updated_at FROM captions.captioner_private WHERE email = $1 ORDER BY created_at LIMIT 1`, email)
}

func (r *CaptionerPrivateRepository) getOne(ctx context.Context, sess txmanager.Session, query string, arg any) (*po.CaptionerPrivate, error) {
	var private po.CaptionerPrivate
	err := conn(r.db, sess).QueryRow(ctx, query, arg).Scan(&private.CaptionerID, &private.Email, &private.CreatedAt, &private.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCaptionerPrivateNotFound
		}
		return nil, fmt.Errorf("get captioner private: %w", err)
	}
	return &private, nil
}
