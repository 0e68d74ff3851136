package vo

// LanguageCount 是按语言聚合的计数。
type LanguageCount struct {
	Language string `json:"language"`
	Count    int64  `json:"count"`
}

// GlobalStats 是全站统计快照。
type GlobalStats struct {
	TotalViews           int64               `json:"totalViews"`
	TotalCaptions        int64               `json:"totalCaptions"`
	ViewsPerLanguage     []LanguageCount     `json:"viewsPerLanguage"`
	CaptionsPerLanguage  []LanguageCount     `json:"captionsPerLanguage"`
	PopularCaptions      []CaptionListFields `json:"popularCaptions"`
	PopularCaptionsMonth []CaptionListFields `json:"popularCaptionsThisMonth"`
	GeneratedAt          int64               `json:"generatedAt"`
}
