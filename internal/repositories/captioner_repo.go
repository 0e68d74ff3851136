package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bionicotaku/lingo-services-captions/internal/models/po"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrCaptionerNotFound 表示作者档案不存在。
var ErrCaptionerNotFound = errors.New("captioner not found")

const captionerColumns = `id, user_id, name, name_tag, caption_count, verified, banned, last_submission_time,
	donation_link, profile_message, languages, caption_tags, created_at, updated_at`

// CaptionerRepository 提供访问 captions.captioners 的接口。
type CaptionerRepository struct {
	db  *pgxpool.Pool
	log *log.Helper
}

// NewCaptionerRepository 构造仓储实例。
func NewCaptionerRepository(db *pgxpool.Pool, logger log.Logger) *CaptionerRepository {
	return &CaptionerRepository{db: db, log: log.NewHelper(logger)}
}

// CreateCaptionerInput 描述作者档案写入参数。
type CreateCaptionerInput struct {
	ID      uuid.UUID
	UserID  *uuid.UUID
	Name    string
	NameTag int32
}

// UpdateCaptionerProfileInput 描述可由本人编辑的档案字段。
type UpdateCaptionerProfileInput struct {
	DonationLink   string
	ProfileMessage string
	Languages      []string
}

// Create 创建作者档案；同一 user_id 已存在时返回既有记录且 created=false。
func (r *CaptionerRepository) Create(ctx context.Context, sess txmanager.Session, input CreateCaptionerInput) (captioner *po.Captioner, created bool, err error) {
	id := input.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	captioner, err = scanCaptioner(conn(r.db, sess).QueryRow(ctx, `INSERT INTO captions.captioners (id, user_id, name, name_tag)
VALUES ($1, $2, $3, $4)
ON CONFLICT (user_id) WHERE user_id IS NOT NULL DO NOTHING
RETURNING `+captionerColumns, id, input.UserID, input.Name, input.NameTag))
	if err == nil {
		return captioner, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) || input.UserID == nil {
		r.log.WithContext(ctx).Errorf("create captioner failed: id=%s err=%v", id, err)
		return nil, false, fmt.Errorf("create captioner: %w", err)
	}
	captioner, err = r.GetByUserID(ctx, sess, *input.UserID)
	if err != nil {
		return nil, false, err
	}
	return captioner, false, nil
}

// GetByUserID 按账号 ID 查询作者档案。
func (r *CaptionerRepository) GetByUserID(ctx context.Context, sess txmanager.Session, userID uuid.UUID) (*po.Captioner, error) {
	return r.getOne(ctx, sess, `SELECT `+captionerColumns+` FROM captions.captioners WHERE user_id = $1`, userID)
}

// GetByID 按档案 ID 查询。
func (r *CaptionerRepository) GetByID(ctx context.Context, sess txmanager.Session, id uuid.UUID) (*po.Captioner, error) {
	return r.getOne(ctx, sess, `SELECT `+captionerColumns+` FROM captions.captioners WHERE id = $1`, id)
}

func (r *CaptionerRepository) getOne(ctx context.Context, sess txmanager.Session, query string, arg any) (*po.Captioner, error) {
	captioner, err := scanCaptioner(conn(r.db, sess).QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCaptionerNotFound
		}
		return nil, fmt.Errorf("get captioner: %w", err)
	}
	return captioner, nil
}

// UpdateProfile 更新档案的可编辑字段。
func (r *CaptionerRepository) UpdateProfile(ctx context.Context, sess txmanager.Session, userID uuid.UUID, input UpdateCaptionerProfileInput) (*po.Captioner, error) {
	languages := input.Languages
	if languages == nil {
		languages = []string{}
	}
	payload, err := json.Marshal(languages)
	if err != nil {
		return nil, fmt.Errorf("marshal captioner languages: %w", err)
	}
	captioner, err := scanCaptioner(conn(r.db, sess).QueryRow(ctx, `UPDATE captions.captioners
SET donation_link = $2, profile_message = $3, languages = $4::jsonb
WHERE user_id = $1
RETURNING `+captionerColumns, userID, input.DonationLink, input.ProfileMessage, payload))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCaptionerNotFound
		}
		r.log.WithContext(ctx).Errorf("update captioner profile failed: user=%s err=%v", userID, err)
		return nil, fmt.Errorf("update captioner profile: %w", err)
	}
	return captioner, nil
}

// NameTagTaken 判断 (name, nameTag) 是否已被其他账号占用。
func (r *CaptionerRepository) NameTagTaken(ctx context.Context, sess txmanager.Session, name string, nameTag int32, exclude uuid.UUID) (bool, error) {
	var taken bool
	err := conn(r.db, sess).QueryRow(ctx, `SELECT EXISTS (
	SELECT 1 FROM captions.captioners
	WHERE name = $1 AND name_tag = $2 AND user_id IS DISTINCT FROM $3
)`, name, nameTag, exclude).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("check captioner name tag: %w", err)
	}
	return taken, nil
}

// SetName 设置昵称与 nameTag。
func (r *CaptionerRepository) SetName(ctx context.Context, sess txmanager.Session, userID uuid.UUID, name string, nameTag int32) error {
	return r.execOne(ctx, sess, `UPDATE captions.captioners SET name = $2, name_tag = $3 WHERE user_id = $1`, userID, name, nameTag)
}

// SetVerified 设置作者认证标记。
func (r *CaptionerRepository) SetVerified(ctx context.Context, sess txmanager.Session, userID uuid.UUID, verified bool) error {
	return r.execOne(ctx, sess, `UPDATE captions.captioners SET verified = $2 WHERE user_id = $1`, userID, verified)
}

// SetBanned 设置封禁标记。
func (r *CaptionerRepository) SetBanned(ctx context.Context, sess txmanager.Session, userID uuid.UUID, banned bool) error {
	return r.execOne(ctx, sess, `UPDATE captions.captioners SET banned = $2 WHERE user_id = $1`, userID, banned)
}

// TouchLastSubmission 记录最近一次提交时间；档案不存在时 found=false。
func (r *CaptionerRepository) TouchLastSubmission(ctx context.Context, sess txmanager.Session, userID uuid.UUID, at time.Time) (bool, error) {
	tag, err := conn(r.db, sess).Exec(ctx,
		`UPDATE captions.captioners SET last_submission_time = $2 WHERE user_id = $1`, userID, at.UTC())
	if err != nil {
		return false, fmt.Errorf("touch captioner last submission: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// AdjustCaptionCount 原子调整作者字幕数（下限 0）；档案不存在时 found=false。
// 迁移导入的作者没有 user_id，其字幕的 creator_id 即档案 ID。
func (r *CaptionerRepository) AdjustCaptionCount(ctx context.Context, sess txmanager.Session, userID uuid.UUID, delta int32) (bool, error) {
	tag, err := conn(r.db, sess).Exec(ctx, `UPDATE captions.captioners SET caption_count = GREATEST(caption_count + $2, 0)
WHERE user_id = $1 OR (user_id IS NULL AND id = $1)`, userID, delta)
	if err != nil {
		return false, fmt.Errorf("adjust captioner caption count: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// AppendCaptionTags 将新标签追加到作者标签词表末尾。
func (r *CaptionerRepository) AppendCaptionTags(ctx context.Context, sess txmanager.Session, userID uuid.UUID, tags []string) error {
	if len(tags) == 0 {
		return nil
	}
	_, err := conn(r.db, sess).Exec(ctx,
		`UPDATE captions.captioners SET caption_tags = caption_tags || $2::text[] WHERE user_id = $1`, userID, tags)
	if err != nil {
		return fmt.Errorf("append captioner tags: %w", err)
	}
	return nil
}

// SetCaptionTags 覆盖作者标签词表。
func (r *CaptionerRepository) SetCaptionTags(ctx context.Context, sess txmanager.Session, userID uuid.UUID, tags []string) error {
	if tags == nil {
		tags = []string{}
	}
	return r.execOne(ctx, sess, `UPDATE captions.captioners SET caption_tags = $2 WHERE user_id = $1`, userID, tags)
}

func (r *CaptionerRepository) execOne(ctx context.Context, sess txmanager.Session, query string, args ...any) error {
	tag, err := conn(r.db, sess).Exec(ctx, query, args...)
	if err != nil {
		r.log.WithContext(ctx).Errorf("update captioner failed: err=%v", err)
		return fmt.Errorf("update captioner: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCaptionerNotFound
	}
	return nil
}

func scanCaptioner(row rowScanner) (*po.Captioner, error) {
	var (
		captioner po.Captioner
		languages []byte
	)
	if err := row.Scan(&captioner.ID, &captioner.UserID, &captioner.Name, &captioner.NameTag, &captioner.CaptionCount,
		&captioner.Verified, &captioner.Banned, &captioner.LastSubmissionTime, &captioner.DonationLink,
		&captioner.ProfileMessage, &languages, &captioner.CaptionTags, &captioner.CreatedAt, &captioner.UpdatedAt); err != nil {
		return nil, err
	}
	if len(languages) > 0 {
		if err := json.Unmarshal(languages, &captioner.Languages); err != nil {
			return nil, fmt.Errorf("decode captioner languages: %w", err)
		}
	}
	return &captioner, nil
}
