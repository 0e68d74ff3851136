package repositories

import (
	"context"
	"fmt"

	"github.com/bionicotaku/lingo-services-captions/internal/models/po"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/jackc/pgx/v5/pgxpool"
)

// StatsRepository 提供全站聚合统计查询，均为只读。
type StatsRepository struct {
	db  *pgxpool.Pool
	log *log.Helper
}

// NewStatsRepository 构造仓储实例。
func NewStatsRepository(db *pgxpool.Pool, logger log.Logger) *StatsRepository {
	return &StatsRepository{db: db, log: log.NewHelper(logger)}
}

// TotalViews 返回全部字幕浏览数之和。
func (r *StatsRepository) TotalViews(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COALESCE(sum(views), 0)::bigint FROM captions.captions`).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum caption views: %w", err)
	}
	return total, nil
}

// TotalCaptions 返回字幕总数。
func (r *StatsRepository) TotalCaptions(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM captions.captions`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count captions: %w", err)
	}
	return total, nil
}

// ViewsPerLanguage 返回各语言浏览数（仅 >0），按浏览数降序。
func (r *StatsRepository) ViewsPerLanguage(ctx context.Context) ([]po.LanguageTotal, error) {
	return r.languageTotals(ctx, `SELECT language, sum(views)::bigint AS total FROM captions.captions
GROUP BY language HAVING sum(views) > 0 ORDER BY total DESC, language`)
}

// CaptionsPerLanguage 返回各语言字幕数，按数量降序。
func (r *StatsRepository) CaptionsPerLanguage(ctx context.Context) ([]po.LanguageTotal, error) {
	return r.languageTotals(ctx, `SELECT language, count(*) AS total FROM captions.captions
GROUP BY language ORDER BY total DESC, language`)
}

func (r *StatsRepository) languageTotals(ctx context.Context, query string) ([]po.LanguageTotal, error) {
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.WithContext(ctx).Errorf("language totals failed: err=%v", err)
		return nil, fmt.Errorf("language totals: %w", err)
	}
	defer rows.Close()
	totals := make([]po.LanguageTotal, 0, 16)
	for rows.Next() {
		var total po.LanguageTotal
		if err := rows.Scan(&total.Language, &total.Total); err != nil {
			return nil, fmt.Errorf("scan language total: %w", err)
		}
		totals = append(totals, total)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate language totals: %w", err)
	}
	return totals, nil
}
