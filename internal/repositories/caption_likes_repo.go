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

// CaptionLikesRepository 提供访问 captions.caption_likes 的接口。
type CaptionLikesRepository struct {
	db  *pgxpool.Pool
	log *log.Helper
}

// NewCaptionLikesRepository 构造仓储实例。
func NewCaptionLikesRepository(db *pgxpool.Pool, logger log.Logger) *CaptionLikesRepository {
	return &CaptionLikesRepository{db: db, log: log.NewHelper(logger)}
}

// Get 返回用户的赞踩记录，不存在时返回空记录。
func (r *CaptionLikesRepository) Get(ctx context.Context, sess txmanager.Session, userID uuid.UUID) (*po.CaptionLikes, error) {
	likes, err := r.scan(conn(r.db, sess).QueryRow(ctx,
		`SELECT user_id, likes, dislikes FROM captions.caption_likes WHERE user_id = $1`, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &po.CaptionLikes{UserID: userID}, nil
		}
		return nil, fmt.Errorf("get caption likes: %w", err)
	}
	return likes, nil
}

// GetOrCreateForUpdate 按需创建并锁定用户的赞踩记录。
func (r *CaptionLikesRepository) GetOrCreateForUpdate(ctx context.Context, sess txmanager.Session, userID uuid.UUID) (*po.CaptionLikes, error) {
	db := conn(r.db, sess)
	if _, err := db.Exec(ctx, `INSERT INTO captions.caption_likes (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`, userID); err != nil {
		r.log.WithContext(ctx).Errorf("create caption likes failed: user=%s err=%v", userID, err)
		return nil, fmt.Errorf("create caption likes: %w", err)
	}
	likes, err := r.scan(db.QueryRow(ctx,
		`SELECT user_id, likes, dislikes FROM captions.caption_likes WHERE user_id = $1 FOR UPDATE`, userID))
	if err != nil {
		return nil, fmt.Errorf("lock caption likes: %w", err)
	}
	return likes, nil
}

// Save 写回赞踩列表。
func (r *CaptionLikesRepository) Save(ctx context.Context, sess txmanager.Session, likes *po.CaptionLikes) error {
	liked := likes.Likes
	if liked == nil {
		liked = []uuid.UUID{}
	}
	disliked := likes.Dislikes
	if disliked == nil {
		disliked = []uuid.UUID{}
	}
	_, err := conn(r.db, sess).Exec(ctx,
		`UPDATE captions.caption_likes SET likes = $2, dislikes = $3 WHERE user_id = $1`, likes.UserID, liked, disliked)
	if err != nil {
		r.log.WithContext(ctx).Errorf("save caption likes failed: user=%s err=%v", likes.UserID, err)
		return fmt.Errorf("save caption likes: %w", err)
	}
	return nil
}

func (r *CaptionLikesRepository) scan(row rowScanner) (*po.CaptionLikes, error) {
	var likes po.CaptionLikes
	if err := row.Scan(&likes.UserID, &likes.Likes, &likes.Dislikes); err != nil {
		return nil, err
	}
	return &likes, nil
}
