// Package captionquery 构造字幕列表与搜索所需的 SQL 谓词。
// 本包不访问数据库，只产出 WHERE 片段与位置参数，便于独立测试。
package captionquery

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultMaxTags 是单次查询参与匹配的标签名上限。
const DefaultMaxTags = 5

// Order 指定列表排序。
type Order int

// 排序方式。
const (
	OrderCreatedDesc Order = iota
	OrderLikesDesc
	OrderViewsDesc
)

// Filter 描述一次字幕列表查询。
type Filter struct {
	Limit         int // 负数表示仅计数
	Offset        int
	CaptionerID   uuid.UUID
	UserID        uuid.UUID
	GetRejected   bool
	LanguageCodes []string
	Tags          []string // 分组标签名（不含 g: 前缀）

	VideoID      string
	VideoSource  string
	PublicOnly   bool // 即使 UserID == CaptionerID 也只看公开字幕
	AnyPrivacy   bool // 不加可见性谓词，由调用方逐行判断
	MinLikes     int32
	CreatedAfter *time.Time
	Order        Order
}

// Plan 是 Filter 编译后的 SQL 片段。谓词均以别名 c 引用 captions 表。
type Plan struct {
	Conditions    []string
	Args          []any
	OrderBy       string
	Limit         int // 已包含哨兵行；CountOnly 时为 0
	Offset        int
	CountOnly     bool
	TagsTruncated bool
}

// Build 将 Filter 编译为 Plan。maxTags <= 0 时使用 DefaultMaxTags。
func Build(f Filter, maxTags int) Plan {
	if maxTags <= 0 {
		maxTags = DefaultMaxTags
	}
	var (
		plan   Plan
		argIdx = 1
	)
	add := func(format string, value any) {
		plan.Conditions = append(plan.Conditions, fmt.Sprintf(format, argIdx))
		plan.Args = append(plan.Args, value)
		argIdx++
	}

	if f.CaptionerID != uuid.Nil {
		add("c.creator_id = $%d", f.CaptionerID)
	}
	ownerView := f.CaptionerID != uuid.Nil && f.UserID == f.CaptionerID
	if !f.AnyPrivacy && (f.PublicOnly || !ownerView) {
		plan.Conditions = append(plan.Conditions, "(c.privacy IS NULL OR c.privacy = 0)")
	}
	if !f.GetRejected {
		plan.Conditions = append(plan.Conditions, "c.rejected IS NOT TRUE")
	}
	if len(f.LanguageCodes) > 0 {
		add("c.language = ANY($%d)", f.LanguageCodes)
	}
	if pattern, truncated := TagNamePattern(f.Tags, maxTags); pattern != "" {
		add("EXISTS (SELECT 1 FROM unnest(c.tags) AS t(tag) WHERE t.tag ~ $%d)", pattern)
		plan.TagsTruncated = truncated
	}
	if f.VideoID != "" {
		add("c.video_id = $%d", f.VideoID)
	}
	if f.VideoSource != "" {
		add("c.video_source = $%d", f.VideoSource)
	}
	if f.MinLikes > 0 {
		add("c.likes >= $%d", f.MinLikes)
	}
	if f.CreatedAfter != nil {
		add("c.created_at >= $%d", *f.CreatedAfter)
	}

	if f.Limit < 0 {
		plan.CountOnly = true
		return plan
	}
	switch f.Order {
	case OrderLikesDesc:
		plan.OrderBy = "c.likes DESC, c.created_at DESC"
	case OrderViewsDesc:
		plan.OrderBy = "c.views DESC, c.created_at DESC"
	default:
		plan.OrderBy = "c.created_at DESC"
	}
	plan.Limit = f.Limit + 1
	if f.Offset > 0 {
		plan.Offset = f.Offset
	}
	return plan
}

// Where 返回 WHERE 子句，无条件时返回空串。
func (p Plan) Where() string {
	if len(p.Conditions) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(p.Conditions, " AND ")
}

// Page 返回 LIMIT/OFFSET 子句及追加后的完整参数列表。
func (p Plan) Page() (string, []any) {
	args := append([]any(nil), p.Args...)
	next := len(args) + 1
	clause := fmt.Sprintf("LIMIT $%d OFFSET $%d", next, next+1)
	args = append(args, p.Limit, p.Offset)
	return clause, args
}

// TrimSentinel 截掉哨兵行并返回是否还有更多结果。limit <= 0 时原样返回。
func TrimSentinel[T any](rows []T, limit int) ([]T, bool) {
	if limit <= 0 || len(rows) <= limit {
		return rows, false
	}
	return rows[:limit], true
}
