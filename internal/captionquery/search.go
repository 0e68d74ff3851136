package captionquery

import (
	"fmt"
	"strings"
)

// SearchPlan 是三路搜索（视频标题 / 字幕译名 / 来源 ID）的联合查询。
// 各分支以别名 v 引用 videos 表，以别名 c 引用 captions 表。
type SearchPlan struct {
	Branches []string
	Args     []any
	Limit    int // 已包含哨兵行
	Offset   int
}

// BuildSearchPlan 构造搜索计划。videoLanguage / captionLanguage 为 ""、"any" 或 "unk" 时不加限制。
func BuildSearchPlan(title, videoLanguage, captionLanguage string, limit, offset int) SearchPlan {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	plan := SearchPlan{Limit: limit + 1, Offset: offset}
	bind := func(value any) string {
		plan.Args = append(plan.Args, value)
		return fmt.Sprintf("$%d", len(plan.Args))
	}

	titleArg := bind(EscapeRegex(title))

	var videoLangCond string
	if !IsAnyLanguage(videoLanguage) {
		if strings.Contains(videoLanguage, "_") {
			videoLangCond = "v.language = " + bind(videoLanguage)
		} else {
			videoLangCond = "v.language ~* " + bind(LanguageFamilyPattern(videoLanguage))
		}
	}

	// (a) 视频标题
	titleConds := []string{"v.name ~* " + titleArg, "v.caption_count > 0"}
	if !IsAnyLanguage(captionLanguage) {
		if strings.Contains(captionLanguage, "_") {
			titleConds = append(titleConds,
				fmt.Sprintf("COALESCE((v.captions ->> %s)::int, 0) > 0", bind(captionLanguage)))
		} else {
			titleConds = append(titleConds, fmt.Sprintf(
				"EXISTS (SELECT 1 FROM jsonb_each_text(v.captions) AS l(code, n) WHERE l.code = ANY(%s) AND l.n::int > 0)",
				bind(RelatedLanguageCodes(captionLanguage))))
		}
	}
	if videoLangCond != "" {
		titleConds = append(titleConds, videoLangCond)
	}
	plan.Branches = append(plan.Branches,
		"SELECT v.id FROM captions.videos v WHERE "+strings.Join(titleConds, " AND "))

	// (b) 字幕译名
	captionConds := []string{"c.translated_title ~* " + titleArg}
	if !IsAnyLanguage(captionLanguage) {
		captionConds = append(captionConds, "c.language ~* "+bind(LanguageFamilyPattern(captionLanguage)))
	}
	if videoLangCond != "" {
		captionConds = append(captionConds, videoLangCond)
	}
	plan.Branches = append(plan.Branches,
		"SELECT v.id FROM captions.videos v JOIN captions.captions c ON c.video_id = v.source_id AND c.video_source = v.source WHERE "+
			strings.Join(captionConds, " AND "))

	// (c) 来源 ID
	sourceConds := []string{"v.source_id ~* " + titleArg, "v.caption_count > 0"}
	if videoLangCond != "" {
		sourceConds = append(sourceConds, videoLangCond)
	}
	plan.Branches = append(plan.Branches,
		"SELECT v.id FROM captions.videos v WHERE "+strings.Join(sourceConds, " AND "))

	return plan
}

// SQL 返回完整查询，columns 为 videos 表（别名 v）的投影列。
func (p SearchPlan) SQL(columns string) (string, []any) {
	args := append([]any(nil), p.Args...)
	next := len(args) + 1
	query := fmt.Sprintf(`WITH matched AS (
%s
)
SELECT %s
FROM captions.videos v
JOIN matched m ON m.id = v.id
ORDER BY v.updated_at DESC
LIMIT $%d OFFSET $%d`, strings.Join(p.Branches, "\nUNION\n"), columns, next, next+1)
	args = append(args, p.Limit, p.Offset)
	return query, args
}
