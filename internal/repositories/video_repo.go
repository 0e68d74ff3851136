package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/bionicotaku/lingo-services-captions/internal/captionquery"
	"github.com/bionicotaku/lingo-services-captions/internal/models/po"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrVideoNotFound 表示视频不存在。
var ErrVideoNotFound = errors.New("video not found")

const videoColumns = `v.id, v.source_id, v.source, v.name, v.language, v.caption_count, v.captions, v.created_at, v.updated_at`

// VideoRepository 提供访问 captions.videos 的接口。
type VideoRepository struct {
	db  *pgxpool.Pool
	log *log.Helper
}

// NewVideoRepository 构造仓储实例。
func NewVideoRepository(db *pgxpool.Pool, logger log.Logger) *VideoRepository {
	return &VideoRepository{db: db, log: log.NewHelper(logger)}
}

// CreateVideoInput 描述新视频的写入参数。
type CreateVideoInput struct {
	SourceID string
	Source   string
	Name     string
	Language string
}

// Get 按 (sourceId, source) 查询视频。
func (r *VideoRepository) Get(ctx context.Context, sess txmanager.Session, sourceID, source string) (*po.Video, error) {
	video, err := scanVideo(conn(r.db, sess).QueryRow(ctx,
		`SELECT `+videoColumns+` FROM captions.videos v WHERE v.source_id = $1 AND v.source = $2`, sourceID, source))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrVideoNotFound
		}
		return nil, fmt.Errorf("get video: %w", err)
	}
	return video, nil
}

// Create 插入视频；(sourceId, source) 已存在时返回既有记录且 created=false。
func (r *VideoRepository) Create(ctx context.Context, sess txmanager.Session, input CreateVideoInput) (video *po.Video, created bool, err error) {
	language := input.Language
	if language == "" {
		language = captionquery.UnknownLanguage
	}
	video, err = scanVideo(conn(r.db, sess).QueryRow(ctx, `INSERT INTO captions.videos AS v (source_id, source, name, language)
VALUES ($1, $2, $3, $4)
ON CONFLICT (source_id, source) DO NOTHING
RETURNING `+videoColumns, input.SourceID, input.Source, input.Name, language))
	if err == nil {
		return video, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		r.log.WithContext(ctx).Errorf("create video failed: source_id=%s source=%s err=%v", input.SourceID, input.Source, err)
		return nil, false, fmt.Errorf("create video: %w", err)
	}
	video, err = r.Get(ctx, sess, input.SourceID, input.Source)
	if err != nil {
		return nil, false, err
	}
	return video, false, nil
}

// CreateBatch 批量插入视频，已存在的跳过，返回新增数量。
func (r *VideoRepository) CreateBatch(ctx context.Context, sess txmanager.Session, inputs []CreateVideoInput) (int, error) {
	if len(inputs) == 0 {
		return 0, nil
	}
	batch := &pgx.Batch{}
	for _, input := range inputs {
		language := input.Language
		if language == "" {
			language = captionquery.UnknownLanguage
		}
		batch.Queue(`INSERT INTO captions.videos (source_id, source, name, language)
VALUES ($1, $2, $3, $4) ON CONFLICT (source_id, source) DO NOTHING`,
			input.SourceID, input.Source, input.Name, language)
	}
	results := conn(r.db, sess).SendBatch(ctx, batch)
	defer results.Close()

	added := 0
	for range inputs {
		tag, err := results.Exec()
		if err != nil {
			r.log.WithContext(ctx).Errorf("create video batch failed: size=%d err=%v", len(inputs), err)
			return added, fmt.Errorf("create video batch: %w", err)
		}
		added += int(tag.RowsAffected())
	}
	return added, nil
}

// IncrementCaptionCount 总数与语言计数各加一；视频不存在时 found=false。
func (r *VideoRepository) IncrementCaptionCount(ctx context.Context, sess txmanager.Session, sourceID, source, language string) (bool, error) {
	tag, err := conn(r.db, sess).Exec(ctx, `UPDATE captions.videos
SET caption_count = caption_count + 1,
    captions = jsonb_set(captions, ARRAY[$3::text], to_jsonb(COALESCE((captions ->> $3::text)::int, 0) + 1))
WHERE source_id = $1 AND source = $2`, sourceID, source, language)
	if err != nil {
		return false, fmt.Errorf("increment video caption count: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// DecrementCaptionCount 语言计数减一（下限 0，归零时删除键），总数随之减一。
func (r *VideoRepository) DecrementCaptionCount(ctx context.Context, sess txmanager.Session, sourceID, source, language string) (bool, error) {
	tag, err := conn(r.db, sess).Exec(ctx, `UPDATE captions.videos
SET caption_count = GREATEST(caption_count - CASE WHEN COALESCE((captions ->> $3::text)::int, 0) > 0 THEN 1 ELSE 0 END, 0),
    captions = CASE
      WHEN COALESCE((captions ->> $3::text)::int, 0) <= 1 THEN captions - $3::text
      ELSE jsonb_set(captions, ARRAY[$3::text], to_jsonb((captions ->> $3::text)::int - 1))
    END
WHERE source_id = $1 AND source = $2`, sourceID, source, language)
	if err != nil {
		return false, fmt.Errorf("decrement video caption count: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Search 执行三路搜索计划，返回值包含哨兵行。
func (r *VideoRepository) Search(ctx context.Context, sess txmanager.Session, plan captionquery.SearchPlan) ([]po.Video, error) {
	query, args := plan.SQL(videoColumns)
	rows, err := conn(r.db, sess).Query(ctx, query, args...)
	if err != nil {
		r.log.WithContext(ctx).Errorf("search videos failed: err=%v", err)
		return nil, fmt.Errorf("search videos: %w", err)
	}
	defer rows.Close()

	videos := make([]po.Video, 0, plan.Limit)
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan video row: %w", err)
		}
		videos = append(videos, *video)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate videos: %w", err)
	}
	return videos, nil
}

func scanVideo(row rowScanner) (*po.Video, error) {
	var (
		video    po.Video
		captions []byte
	)
	if err := row.Scan(&video.ID, &video.SourceID, &video.Source, &video.Name, &video.Language,
		&video.CaptionCount, &captions, &video.CreatedAt, &video.UpdatedAt); err != nil {
		return nil, err
	}
	video.Captions = map[string]int32{}
	if len(captions) > 0 {
		if err := json.Unmarshal(captions, &video.Captions); err != nil {
			return nil, fmt.Errorf("decode video captions: %w", err)
		}
	}
	return &video, nil
}
