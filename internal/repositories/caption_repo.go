package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bionicotaku/lingo-services-captions/internal/captionquery"
	"github.com/bionicotaku/lingo-services-captions/internal/models/po"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrCaptionNotFound 表示字幕不存在。
var ErrCaptionNotFound = errors.New("caption not found")

const captionColumns = `c.id, c.creator_id, c.video_id, c.video_source, c.language, c.content,
	c.raw_file, c.raw_content, c.translated_title, c.tags, c.privacy, c.verified, c.rejected,
	c.views, c.likes, c.dislikes, c.has_audio_description, c.review_history, c.created_at, c.updated_at`

const captionJoins = `
LEFT JOIN LATERAL (
	SELECT v.name, v.language FROM captions.videos v
	WHERE v.source_id = c.video_id AND v.source = c.video_source
	LIMIT 1
) vj ON true
LEFT JOIN LATERAL (
	SELECT cp.name FROM captions.captioners cp
	WHERE cp.user_id = c.creator_id
	LIMIT 1
) cj ON true`

// CaptionRepository 提供访问 captions.captions 的接口。
type CaptionRepository struct {
	db  *pgxpool.Pool
	log *log.Helper
}

// NewCaptionRepository 构造仓储实例。
func NewCaptionRepository(db *pgxpool.Pool, logger log.Logger) *CaptionRepository {
	return &CaptionRepository{db: db, log: log.NewHelper(logger)}
}

// CreateCaptionInput 描述新字幕的写入参数。
type CreateCaptionInput struct {
	ID                  uuid.UUID // 为空时由数据库生成
	CreatorID           uuid.UUID
	VideoID             string
	VideoSource         string
	Language            string
	Content             string
	RawFile             *string
	RawContent          *string
	TranslatedTitle     string
	Tags                []string
	Privacy             po.CaptionPrivacy
	HasAudioDescription bool
	Verified            bool
	CreatedAt           *time.Time
}

// UpdateCaptionInput 描述字幕可编辑字段的整体写回。
type UpdateCaptionInput struct {
	Content             string
	RawFile             *string
	RawContent          *string
	TranslatedTitle     string
	Tags                []string
	Privacy             *po.CaptionPrivacy
	HasAudioDescription bool
}

// Create 插入字幕并返回完整记录。
func (r *CaptionRepository) Create(ctx context.Context, sess txmanager.Session, input CreateCaptionInput) (*po.Caption, error) {
	id := input.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}
	createdAt := time.Now().UTC()
	if input.CreatedAt != nil {
		createdAt = input.CreatedAt.UTC()
	}
	query := `INSERT INTO captions.captions AS c (
	id, creator_id, video_id, video_source, language, content, raw_file, raw_content,
	translated_title, tags, privacy, has_audio_description, verified, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $14)
RETURNING ` + captionColumns
	row := conn(r.db, sess).QueryRow(ctx, query,
		id, input.CreatorID, input.VideoID, input.VideoSource, input.Language, input.Content,
		input.RawFile, input.RawContent, input.TranslatedTitle, tags, int16(input.Privacy),
		input.HasAudioDescription, input.Verified, createdAt,
	)
	caption, err := scanCaption(row)
	if err != nil {
		r.log.WithContext(ctx).Errorf("create caption failed: creator=%s video=%s err=%v", input.CreatorID, input.VideoID, err)
		return nil, fmt.Errorf("create caption: %w", err)
	}
	return caption, nil
}

// Get 返回字幕记录。
func (r *CaptionRepository) Get(ctx context.Context, sess txmanager.Session, id uuid.UUID) (*po.Caption, error) {
	return r.get(ctx, sess, id, false)
}

// GetForUpdate 在事务内锁定并返回字幕记录。
func (r *CaptionRepository) GetForUpdate(ctx context.Context, sess txmanager.Session, id uuid.UUID) (*po.Caption, error) {
	return r.get(ctx, sess, id, true)
}

func (r *CaptionRepository) get(ctx context.Context, sess txmanager.Session, id uuid.UUID, lock bool) (*po.Caption, error) {
	query := `SELECT ` + captionColumns + ` FROM captions.captions c WHERE c.id = $1`
	if lock {
		query += ` FOR UPDATE`
	}
	caption, err := scanCaption(conn(r.db, sess).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCaptionNotFound
		}
		return nil, fmt.Errorf("get caption: %w", err)
	}
	return caption, nil
}

// CountForCreatorLanguage 统计作者在同一视频同一语言下的字幕数。
func (r *CaptionRepository) CountForCreatorLanguage(ctx context.Context, sess txmanager.Session, creatorID uuid.UUID, videoID, videoSource, language string) (int, error) {
	var count int
	err := conn(r.db, sess).QueryRow(ctx, `SELECT count(*) FROM captions.captions
WHERE creator_id = $1 AND video_id = $2 AND video_source = $3 AND language = $4`,
		creatorID, videoID, videoSource, language).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count captions for creator language: %w", err)
	}
	return count, nil
}

// List 按 Plan 查询字幕列表，返回值包含哨兵行，由调用方截断。
func (r *CaptionRepository) List(ctx context.Context, sess txmanager.Session, plan captionquery.Plan) ([]po.CaptionWithJoins, error) {
	if plan.CountOnly {
		return nil, errors.New("list captions: plan is count-only")
	}
	page, args := plan.Page()
	query := `SELECT ` + captionColumns + `, vj.name, vj.language, cj.name
FROM captions.captions c` + captionJoins + `
` + plan.Where() + `
ORDER BY ` + plan.OrderBy + `
` + page

	rows, err := conn(r.db, sess).Query(ctx, query, args...)
	if err != nil {
		r.log.WithContext(ctx).Errorf("list captions failed: err=%v", err)
		return nil, fmt.Errorf("list captions: %w", err)
	}
	defer rows.Close()

	result := make([]po.CaptionWithJoins, 0, plan.Limit)
	for rows.Next() {
		var joined po.CaptionWithJoins
		caption, err := scanCaptionWith(rows, &joined.VideoName, &joined.VideoLanguage, &joined.CreatorName)
		if err != nil {
			return nil, fmt.Errorf("scan caption row: %w", err)
		}
		joined.Caption = *caption
		result = append(result, joined)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate captions: %w", err)
	}
	return result, nil
}

// Count 返回满足 Plan 条件的字幕数量，不做 JOIN。
func (r *CaptionRepository) Count(ctx context.Context, sess txmanager.Session, plan captionquery.Plan) (int64, error) {
	var count int64
	query := `SELECT count(*) FROM captions.captions c ` + plan.Where()
	if err := conn(r.db, sess).QueryRow(ctx, query, plan.Args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count captions: %w", err)
	}
	return count, nil
}

// IncrementViews 浏览数加一。
func (r *CaptionRepository) IncrementViews(ctx context.Context, sess txmanager.Session, id uuid.UUID) error {
	tag, err := conn(r.db, sess).Exec(ctx, `UPDATE captions.captions SET views = views + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment caption views: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCaptionNotFound
	}
	return nil
}

// Update 写回可编辑字段并返回更新后的记录。
func (r *CaptionRepository) Update(ctx context.Context, sess txmanager.Session, id uuid.UUID, input UpdateCaptionInput) (*po.Caption, error) {
	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}
	var privacy *int16
	if input.Privacy != nil {
		p := int16(*input.Privacy)
		privacy = &p
	}
	query := `UPDATE captions.captions AS c SET
	content = $2, raw_file = $3, raw_content = $4, translated_title = $5,
	tags = $6, privacy = $7, has_audio_description = $8
WHERE c.id = $1
RETURNING ` + captionColumns
	caption, err := scanCaption(conn(r.db, sess).QueryRow(ctx, query,
		id, input.Content, input.RawFile, input.RawContent, input.TranslatedTitle, tags, privacy, input.HasAudioDescription))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCaptionNotFound
		}
		r.log.WithContext(ctx).Errorf("update caption failed: id=%s err=%v", id, err)
		return nil, fmt.Errorf("update caption: %w", err)
	}
	return caption, nil
}

// AdjustVotes 原子地调整赞踩计数，结果不低于 0。
func (r *CaptionRepository) AdjustVotes(ctx context.Context, sess txmanager.Session, id uuid.UUID, likesDelta, dislikesDelta int32) (likes, dislikes int32, err error) {
	err = conn(r.db, sess).QueryRow(ctx, `UPDATE captions.captions
SET likes = GREATEST(likes + $2, 0), dislikes = GREATEST(dislikes + $3, 0)
WHERE id = $1
RETURNING likes, dislikes`, id, likesDelta, dislikesDelta).Scan(&likes, &dislikes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, 0, ErrCaptionNotFound
		}
		return 0, 0, fmt.Errorf("adjust caption votes: %w", err)
	}
	return likes, dislikes, nil
}

// ApplyReview 设置审核状态并追加一条审核历史。
func (r *CaptionRepository) ApplyReview(ctx context.Context, sess txmanager.Session, id uuid.UUID, verified bool, rejected bool, entry po.ReviewEntry) (*po.Caption, error) {
	payload, err := json.Marshal([]po.ReviewEntry{entry})
	if err != nil {
		return nil, fmt.Errorf("marshal review entry: %w", err)
	}
	query := `UPDATE captions.captions AS c
SET verified = $2, rejected = $3, review_history = c.review_history || $4::jsonb
WHERE c.id = $1
RETURNING ` + captionColumns
	caption, err := scanCaption(conn(r.db, sess).QueryRow(ctx, query, id, verified, rejected, payload))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCaptionNotFound
		}
		r.log.WithContext(ctx).Errorf("apply review failed: id=%s state=%s err=%v", id, entry.NewState, err)
		return nil, fmt.Errorf("apply caption review: %w", err)
	}
	return caption, nil
}

// Delete 删除字幕。
func (r *CaptionRepository) Delete(ctx context.Context, sess txmanager.Session, id uuid.UUID) error {
	tag, err := conn(r.db, sess).Exec(ctx, `DELETE FROM captions.captions WHERE id = $1`, id)
	if err != nil {
		r.log.WithContext(ctx).Errorf("delete caption failed: id=%s err=%v", id, err)
		return fmt.Errorf("delete caption: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCaptionNotFound
	}
	return nil
}

// RemoveTagsMatching 从作者的全部字幕中移除匹配正则的标签，返回受影响行数。
func (r *CaptionRepository) RemoveTagsMatching(ctx context.Context, sess txmanager.Session, creatorID uuid.UUID, pattern string) (int64, error) {
	tag, err := conn(r.db, sess).Exec(ctx, `UPDATE captions.captions
SET tags = ARRAY(SELECT t FROM unnest(tags) AS t WHERE t !~ $2)
WHERE creator_id = $1 AND EXISTS (SELECT 1 FROM unnest(tags) AS t WHERE t ~ $2)`, creatorID, pattern)
	if err != nil {
		return 0, fmt.Errorf("remove caption tags: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanCaption(row rowScanner) (*po.Caption, error) {
	return scanCaptionWith(row)
}

func scanCaptionWith(row rowScanner, extra ...any) (*po.Caption, error) {
	var (
		caption po.Caption
		privacy *int16
		history []byte
	)
	dest := []any{
		&caption.ID, &caption.CreatorID, &caption.VideoID, &caption.VideoSource, &caption.Language, &caption.Content,
		&caption.RawFile, &caption.RawContent, &caption.TranslatedTitle, &caption.Tags, &privacy, &caption.Verified, &caption.Rejected,
		&caption.Views, &caption.Likes, &caption.Dislikes, &caption.HasAudioDescription, &history, &caption.CreatedAt, &caption.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	if privacy != nil {
		p := po.CaptionPrivacy(*privacy)
		caption.Privacy = &p
	}
	if len(history) > 0 {
		if err := json.Unmarshal(history, &caption.ReviewHistory); err != nil {
			return nil, fmt.Errorf("decode review history: %w", err)
		}
	}
	return &caption, nil
}
