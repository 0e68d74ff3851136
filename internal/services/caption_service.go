package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bionicotaku/lingo-services-captions/internal/captionquery"
	"github.com/bionicotaku/lingo-services-captions/internal/infrastructure/configloader"
	"github.com/bionicotaku/lingo-services-captions/internal/metadata"
	outboxevents "github.com/bionicotaku/lingo-services-captions/internal/models/outbox_events"
	"github.com/bionicotaku/lingo-services-captions/internal/models/po"
	"github.com/bionicotaku/lingo-services-captions/internal/models/vo"
	"github.com/bionicotaku/lingo-services-captions/internal/repositories"
	"github.com/bionicotaku/lingo-services-captions/internal/subtitle"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"golang.org/x/sync/errgroup"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	// 同一作者在同一视频同一语言下最多持有的字幕数。
	maxCaptionsPerLanguage = 2
	maxVideoIDLength       = 256
	maxVideoSourceLength   = 2
	maxLanguageLength      = 20
	maxFallbackVideoName   = 100
	findCaptionsLimit      = 100
	rawFileExtension       = "ass"
	rawFileContentType     = "text/plain; charset=utf-8"
	emptyTracksContent     = `{"tracks":[]}`
	unknownCaptionerName   = "Unknown"
)

// RawCaptionInput 是客户端上传的原始高级字幕，Data 为 lz-string base64 压缩文本。
type RawCaptionInput struct {
	Type string
	Data string
}

// rawCaptionMeta 是存入 raw_content 的元数据，数据本体只存在于对象存储中。
type rawCaptionMeta struct {
	Type string `json:"type"`
	Data string `json:"data"`
}

// SubmitCaptionInput 描述 submitCaption 的参数。
type SubmitCaptionInput struct {
	VideoID             string
	VideoSource         string
	Language            string
	TranslatedTitle     string
	Content             string // caption.data 的 JSON 文本
	RawCaption          *RawCaptionInput
	VideoName           string
	VideoLanguage       string
	HasAudioDescription bool
	Privacy             *po.CaptionPrivacy
}

// UpdateCaptionInput 描述 updateCaption 的参数，nil 字段表示不修改。
type UpdateCaptionInput struct {
	CaptionID           string
	RawCaption          *RawCaptionInput
	Content             *string
	HasAudioDescription *bool
	TranslatedTitle     *string
	// SelectedTags 为 nil 表示保留现有标签，空切片表示清空。
	SelectedTags *[]string
	Privacy      *po.CaptionPrivacy
}

// CaptionService 处理字幕的提交、编辑、删除与读取。
type CaptionService struct {
	captions   CaptionStore
	videos     VideoStore
	captioners CaptionerStore
	likes      CaptionLikesStore
	profiles   *ProfileResolver
	hooks      *CounterHooks
	files      RawFileStore
	titles     TitleFetcher
	events     *eventWriter
	txManager  txmanager.Manager
	limits     configloader.LimitsConfig
	log        *log.Helper
}

// NewCaptionService 构造 CaptionService。
func NewCaptionService(
	captions CaptionStore,
	videos VideoStore,
	captioners CaptionerStore,
	likes CaptionLikesStore,
	profiles *ProfileResolver,
	hooks *CounterHooks,
	files RawFileStore,
	titles TitleFetcher,
	outbox OutboxEnqueuer,
	tx txmanager.Manager,
	limits configloader.LimitsConfig,
	logger log.Logger,
) *CaptionService {
	helper := log.NewHelper(logger)
	return &CaptionService{
		captions:   captions,
		videos:     videos,
		captioners: captioners,
		likes:      likes,
		profiles:   profiles,
		hooks:      hooks,
		files:      files,
		titles:     titles,
		events:     newEventWriter(outbox, "caption", helper),
		txManager:  tx,
		limits:     limits,
		log:        helper,
	}
}

// Submit 创建新字幕，必要时先创建其所属视频。返回新字幕 ID。
func (s *CaptionService) Submit(ctx context.Context, auth metadata.AuthContext, input SubmitCaptionInput) (string, error) {
	if !auth.Authenticated() {
		return "", errNotLoggedIn()
	}
	captioner, err := s.profiles.Captioner(ctx, nil, auth.UserID)
	if err != nil {
		return "", err
	}
	if captioner == nil {
		captioner = &po.Captioner{}
	}
	if captioner.Banned {
		return "", errDenied(MsgBanned)
	}
	if captioner.Name == "" {
		return "", errValidation(MsgProfileIncomplete)
	}
	now := time.Now().UTC()
	if !captioner.Verified && captioner.LastSubmissionTime != nil &&
		now.Sub(*captioner.LastSubmissionTime) < s.limits.SubmissionCooldown {
		return "", errRateLimited(MsgCooldown)
	}

	rawData := rawCaptionData(input.RawCaption)
	if rawData != "" && !captioner.Verified {
		if err := subtitle.ValidateCompressedASS(rawData); err != nil {
			s.log.WithContext(ctx).Infof("reject raw caption: user=%s err=%v", auth.UserID, err)
			return "", errValidation(MsgInvalidFile)
		}
	}
	if s.exceedsSize(input.Content, rawData, captioner.Verified) {
		return "", errValidation(MsgSizeLimit)
	}
	if input.TranslatedTitle == "" || input.VideoLanguage == "" || input.Language == "" ||
		input.VideoID == "" || input.VideoSource == "" {
		return "", errValidation(MsgMissingInformation)
	}

	videoID := truncate(input.VideoID, maxVideoIDLength)
	source := truncate(input.VideoSource, maxVideoSourceLength)
	language := truncate(input.Language, maxLanguageLength)
	title := truncate(input.TranslatedTitle, s.limits.MaxVideoTitleLength)
	videoLanguage := truncate(input.VideoLanguage, maxLanguageLength)

	video, err := s.videos.Get(ctx, nil, videoID, source)
	if err != nil && !errors.Is(err, repositories.ErrVideoNotFound) {
		return "", fmt.Errorf("load video: %w", err)
	}
	var newVideo *repositories.CreateVideoInput
	if video == nil {
		newVideo = &repositories.CreateVideoInput{
			SourceID: videoID,
			Source:   source,
			Name:     s.videoName(ctx, source, videoID, input.VideoName),
			Language: videoLanguage,
		}
	}

	tags := []string{}
	if input.HasAudioDescription {
		tags = append(tags, captionquery.AudioDescribedTag)
	}
	privacy := po.PrivacyPublic
	if input.Privacy != nil && input.Privacy.Valid() {
		privacy = *input.Privacy
	}

	var rawFile, rawContent *string
	if rawData != "" {
		meta, err := encodeRawMeta(input.RawCaption.Type)
		if err != nil {
			return "", err
		}
		if rawFile, err = s.storeRaw(ctx, auth.UserID, rawData); err != nil {
			return "", err
		}
		rawContent = &meta
	}

	var created *po.Caption
	err = s.txManager.WithinTx(ctx, txmanager.TxOptions{}, func(txCtx context.Context, sess txmanager.Session) error {
		count, err := s.captions.CountForCreatorLanguage(txCtx, sess, auth.UserID, videoID, source, language)
		if err != nil {
			return err
		}
		if count >= maxCaptionsPerLanguage {
			return errValidation(MsgDuplicateLanguage)
		}
		if newVideo != nil {
			if _, _, err := s.videos.Create(txCtx, sess, *newVideo); err != nil {
				return err
			}
		}
		created, err = s.captions.Create(txCtx, sess, repositories.CreateCaptionInput{
			CreatorID:           auth.UserID,
			VideoID:             videoID,
			VideoSource:         source,
			Language:            language,
			Content:             input.Content,
			RawFile:             rawFile,
			RawContent:          rawContent,
			TranslatedTitle:     title,
			Tags:                tags,
			Privacy:             privacy,
			HasAudioDescription: input.HasAudioDescription,
		})
		if err != nil {
			return err
		}
		s.hooks.OnCaptionCreated(txCtx, sess, created, now)
		evt, buildErr := outboxevents.NewCaptionSubmittedEvent(created, uuid.New(), now)
		return s.events.enqueue(txCtx, sess, evt, buildErr)
	})
	if err != nil {
		s.discardRaw(ctx, rawFile)
		return "", err
	}

	s.log.WithContext(ctx).Infof("caption submitted: id=%s user=%s video=%s/%s lang=%s", created.ID, auth.UserID, source, videoID, language)
	return created.ID.String(), nil
}

// Update 修改作者本人的字幕。
func (s *CaptionService) Update(ctx context.Context, auth metadata.AuthContext, input UpdateCaptionInput) error {
	if !auth.Authenticated() {
		return errNotLoggedIn()
	}
	captioner, err := s.profiles.Captioner(ctx, nil, auth.UserID)
	if err != nil {
		return err
	}
	if captioner == nil {
		captioner = &po.Captioner{}
	}
	if captioner.Banned {
		return errDenied(MsgBanned)
	}
	if input.CaptionID == "" {
		return errValidation(MsgMissingCaptionID)
	}
	if input.RawCaption == nil && input.Content == nil && input.HasAudioDescription == nil &&
		input.TranslatedTitle == nil && input.Privacy == nil && input.SelectedTags == nil {
		return errValidation(MsgNothingToUpdate)
	}
	if input.RawCaption != nil && input.Content != nil {
		return errValidation(MsgTooManyCaptionTypes)
	}
	captionID, ok := parseID(input.CaptionID)
	if !ok {
		return errNotFound(MsgNoSuchCaption)
	}
	existing, err := s.getCaption(ctx, nil, captionID)
	if err != nil {
		return err
	}
	if existing == nil || existing.CreatorID != auth.UserID {
		return errNotFound(MsgNoSuchCaption)
	}

	rawData := rawCaptionData(input.RawCaption)
	if rawData != "" && !captioner.Verified {
		if err := subtitle.ValidateCompressedASS(rawData); err != nil {
			s.log.WithContext(ctx).Infof("reject raw caption: caption=%s err=%v", captionID, err)
			return errValidation(MsgInvalidFile)
		}
	}
	newContent := "{}"
	if input.Content != nil {
		newContent = *input.Content
	}
	if s.exceedsSize(newContent, rawData, captioner.Verified) {
		return errValidation(MsgSizeLimit)
	}

	hasAudioDescription := existing.HasAudioDescription
	if input.HasAudioDescription != nil {
		hasAudioDescription = *input.HasAudioDescription
	}
	var selected, missingTags []string
	if input.SelectedTags != nil {
		selected = s.sanitizeTags(*input.SelectedTags, captioner.CaptionTags)
		missingTags = captionquery.MissingTags(captioner.CaptionTags, selected)
	}

	var newRawFile, newRawContent *string
	if rawData != "" {
		meta, err := encodeRawMeta(input.RawCaption.Type)
		if err != nil {
			return err
		}
		if newRawFile, err = s.storeRaw(ctx, auth.UserID, rawData); err != nil {
			return err
		}
		newRawContent = &meta
	}

	var (
		released *string
		now      = time.Now().UTC()
	)
	err = s.txManager.WithinTx(ctx, txmanager.TxOptions{}, func(txCtx context.Context, sess txmanager.Session) error {
		before, err := s.getCaption(txCtx, sess, captionID)
		if err != nil {
			return err
		}
		if before == nil || before.CreatorID != auth.UserID {
			return errNotFound(MsgNoSuchCaption)
		}
		tags := selected
		if input.SelectedTags == nil {
			tags = withoutTag(before.Tags, captionquery.AudioDescribedTag)
		}
		if hasAudioDescription {
			tags = append([]string{captionquery.AudioDescribedTag}, tags...)
		}
		update := repositories.UpdateCaptionInput{
			Content:             before.Content,
			RawFile:             before.RawFile,
			RawContent:          before.RawContent,
			TranslatedTitle:     before.TranslatedTitle,
			Tags:                tags,
			Privacy:             before.Privacy,
			HasAudioDescription: hasAudioDescription,
		}
		// 旧原始文件只在新内容已落地时才释放。
		if before.RawFile != nil && (newRawFile != nil || input.Content != nil) {
			released = before.RawFile
			update.RawFile = nil
			update.RawContent = nil
		}
		if newRawFile != nil {
			update.Content = emptyTracksContent
			update.RawFile = newRawFile
			update.RawContent = newRawContent
		}
		if input.TranslatedTitle != nil && *input.TranslatedTitle != "" {
			update.TranslatedTitle = truncate(*input.TranslatedTitle, s.limits.MaxVideoTitleLength)
		}
		if input.Privacy != nil && input.Privacy.Valid() {
			privacy := *input.Privacy
			update.Privacy = &privacy
		}
		if input.Content != nil {
			update.Content = *input.Content
		}

		after, err := s.captions.Update(txCtx, sess, captionID, update)
		if err != nil {
			return err
		}
		if len(missingTags) > 0 {
			if err := s.captioners.AppendCaptionTags(txCtx, sess, auth.UserID, missingTags); err != nil &&
				!errors.Is(err, repositories.ErrCaptionerNotFound) {
				return err
			}
		}
		s.hooks.OnCaptionPrivacyChanged(txCtx, sess, before, after)
		evt, buildErr := outboxevents.NewCaptionUpdatedEvent(before, after, uuid.New(), now)
		return s.events.enqueue(txCtx, sess, evt, buildErr)
	})
	if err != nil {
		s.discardRaw(ctx, newRawFile)
		return err
	}
	s.hooks.ReleaseRawFile(ctx, released)

	s.log.WithContext(ctx).Infof("caption updated: id=%s user=%s", captionID, auth.UserID)
	return nil
}

// Delete 删除字幕，仅作者本人或管理员可操作。
func (s *CaptionService) Delete(ctx context.Context, auth metadata.AuthContext, rawCaptionID string) error {
	if !auth.Authenticated() {
		return errNotLoggedIn()
	}
	captionID, ok := parseID(rawCaptionID)
	if !ok {
		return errNotFound(MsgUnknownCaption)
	}

	var deleted *po.Caption
	now := time.Now().UTC()
	err := s.txManager.WithinTx(ctx, txmanager.TxOptions{}, func(txCtx context.Context, sess txmanager.Session) error {
		caption, err := s.getCaption(txCtx, sess, captionID)
		if err != nil {
			return err
		}
		if caption == nil {
			return errNotFound(MsgUnknownCaption)
		}
		if !auth.Roles.Admin && caption.CreatorID != auth.UserID {
			return errDenied(MsgNotAuthorized)
		}
		if err := s.captions.Delete(txCtx, sess, captionID); err != nil {
			if isCaptionNotFound(err) {
				return errNotFound(MsgUnknownCaption)
			}
			return err
		}
		s.hooks.OnCaptionDeleted(txCtx, sess, caption)
		deleted = caption
		evt, buildErr := outboxevents.NewCaptionDeletedEvent(caption, auth.UserID, uuid.New(), now)
		return s.events.enqueue(txCtx, sess, evt, buildErr)
	})
	if err != nil {
		return err
	}
	s.hooks.ReleaseRawFile(ctx, deleted.RawFile)

	s.log.WithContext(ctx).Infof("caption deleted: id=%s by=%s", captionID, auth.UserID)
	return nil
}

// Load 返回单条字幕详情并累加浏览数。
func (s *CaptionService) Load(ctx context.Context, auth metadata.AuthContext, rawCaptionID string) (*vo.LoadedCaption, error) {
	captionID, ok := parseID(rawCaptionID)
	if !ok {
		return nil, errNotFound(MsgNoSuchCaption)
	}
	caption, err := s.getCaption(ctx, nil, captionID)
	if err != nil {
		return nil, err
	}
	if caption == nil {
		return nil, errNotFound(MsgNoSuchCaption)
	}

	var (
		video     *po.Video
		captioner *po.Captioner
		votes     *po.CaptionLikes
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.captions.IncrementViews(gctx, nil, captionID); err != nil {
			s.log.WithContext(gctx).Warnf("increment caption views failed: id=%s err=%v", captionID, err)
			return nil
		}
		caption.Views++
		return nil
	})
	g.Go(func() error {
		var err error
		video, err = s.lookupVideo(gctx, caption.VideoID, caption.VideoSource)
		return err
	})
	g.Go(func() error {
		var err error
		captioner, err = s.profiles.Captioner(gctx, nil, caption.CreatorID)
		return err
	})
	if auth.Authenticated() {
		g.Go(func() error {
			var err error
			votes, err = s.likes.Get(gctx, nil, auth.UserID)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	loaded := &vo.LoadedCaption{
		Caption:       vo.NewCaptionDetail(caption),
		RawCaptionURL: s.rawCaptionURL(ctx, caption),
		CaptionerName: unknownCaptionerName,
	}
	if video != nil {
		loaded.OriginalTitle = video.Name
	}
	if captioner != nil {
		loaded.CaptionerName = captioner.Name
	}
	if votes != nil {
		loaded.UserLike = containsID(votes.Likes, captionID)
		loaded.UserDislike = containsID(votes.Dislikes, captionID)
	}
	return loaded, nil
}

// LoadForReview 为审核员返回字幕、作者档案与视频名。
func (s *CaptionService) LoadForReview(ctx context.Context, auth metadata.AuthContext, rawCaptionID string) (*vo.ReviewCaption, error) {
	if !auth.Authenticated() {
		return nil, errNotLoggedIn()
	}
	if !auth.Roles.CanReview() {
		return nil, errDenied(MsgNotAuthorized)
	}
	captionID, ok := parseID(rawCaptionID)
	if !ok {
		return nil, errNotFound(MsgNoSuchCaption)
	}
	caption, err := s.getCaption(ctx, nil, captionID)
	if err != nil {
		return nil, err
	}
	if caption == nil {
		return nil, errNotFound(MsgNoSuchCaption)
	}
	profile, err := s.profiles.Profile(ctx, nil, caption.CreatorID)
	if err != nil {
		return nil, err
	}
	video, err := s.lookupVideo(ctx, caption.VideoID, caption.VideoSource)
	if err != nil {
		return nil, err
	}
	result := &vo.ReviewCaption{Caption: vo.NewCaptionDetail(caption), Captioner: profile}
	if video != nil {
		result.VideoName = video.Name
	}
	return result, nil
}

// Find 返回视频下调用方可见的未驳回字幕。
func (s *CaptionService) Find(ctx context.Context, auth metadata.AuthContext, videoID, videoSource string) ([]vo.FoundCaption, error) {
	if videoID == "" || videoSource == "" {
		return []vo.FoundCaption{}, nil
	}
	rows, err := s.captions.List(ctx, nil, captionquery.Build(captionquery.Filter{
		Limit:       findCaptionsLimit,
		VideoID:     videoID,
		VideoSource: videoSource,
		AnyPrivacy:  true,
	}, s.limits.MaxSearchTags))
	if err != nil {
		return nil, fmt.Errorf("find captions: %w", err)
	}
	rows, _ = captionquery.TrimSentinel(rows, findCaptionsLimit)
	result := make([]vo.FoundCaption, 0, len(rows))
	for _, row := range rows {
		if !vo.CanViewCaption(&row.Caption, auth.UserID) {
			continue
		}
		result = append(result, vo.NewFoundCaption(row))
	}
	return result, nil
}

func (s *CaptionService) getCaption(ctx context.Context, sess txmanager.Session, id uuid.UUID) (*po.Caption, error) {
	var (
		caption *po.Caption
		err     error
	)
	if sess != nil {
		caption, err = s.captions.GetForUpdate(ctx, sess, id)
	} else {
		caption, err = s.captions.Get(ctx, nil, id)
	}
	if err != nil {
		if isCaptionNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("load caption: %w", err)
	}
	return caption, nil
}

func (s *CaptionService) lookupVideo(ctx context.Context, sourceID, source string) (*po.Video, error) {
	video, err := s.videos.Get(ctx, nil, sourceID, source)
	if err != nil {
		if errors.Is(err, repositories.ErrVideoNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load video: %w", err)
	}
	return video, nil
}

// videoName 优先使用外部平台标题，查询失败时回退到客户端提供的名称。
func (s *CaptionService) videoName(ctx context.Context, source, videoID, fallback string) string {
	if s.titles != nil {
		title, err := s.titles.FetchTitle(ctx, source, videoID)
		if err != nil {
			s.log.WithContext(ctx).Warnf("fetch video title failed: source=%s id=%s err=%v", source, videoID, err)
		}
		if title != "" {
			return title
		}
	}
	return truncate(fallback, maxFallbackVideoName)
}

func (s *CaptionService) exceedsSize(content, rawData string, verified bool) bool {
	allowed := s.limits.MaxCaptionBytes
	if verified {
		allowed = s.limits.MaxVerifiedCaptionBytes
	}
	if allowed <= 0 {
		return false
	}
	// 原始数据按 JSON 字符串计算，包含两侧引号。
	return len(content) > allowed || len(rawData)+2 > allowed
}

func (s *CaptionService) storeRaw(ctx context.Context, creatorID uuid.UUID, data string) (*string, error) {
	if s.files == nil {
		return nil, errRawStoreUnavailable
	}
	name := s.files.NewObjectName(creatorID, rawFileExtension)
	if err := s.files.Put(ctx, name, []byte(data), rawFileContentType); err != nil {
		return nil, fmt.Errorf("store raw caption: %w", err)
	}
	return &name, nil
}

func (s *CaptionService) sanitizeTags(raw, vocabulary []string) []string {
	if s.limits.MaxTagCount > 0 && len(raw) > s.limits.MaxTagCount {
		raw = raw[:s.limits.MaxTagCount]
	}
	tags := make([]string, 0, len(raw))
	for _, tag := range raw {
		if clean := captionquery.SanitizeTag(tag, vocabulary, s.limits.MaxTagNameLength); clean != "" {
			tags = append(tags, clean)
		}
	}
	return tags
}

func (s *CaptionService) discardRaw(ctx context.Context, name *string) {
	if name == nil || s.files == nil {
		return
	}
	if err := s.files.Delete(ctx, *name); err != nil {
		s.log.WithContext(ctx).Warnf("discard raw caption failed: object=%s err=%v", *name, err)
	}
}

// rawCaptionURL 仅为 ASS/SSA 字幕签发原始文件链接。
func (s *CaptionService) rawCaptionURL(ctx context.Context, caption *po.Caption) string {
	if caption.RawFile == nil || caption.RawContent == nil || s.files == nil {
		return ""
	}
	var meta rawCaptionMeta
	if err := json.Unmarshal([]byte(*caption.RawContent), &meta); err != nil {
		s.log.WithContext(ctx).Warnf("decode raw caption meta failed: id=%s err=%v", caption.ID, err)
		return ""
	}
	if !subtitle.IsASS(meta.Type) {
		return ""
	}
	url, err := s.files.SignedURL(ctx, *caption.RawFile)
	if err != nil {
		s.log.WithContext(ctx).Warnf("sign raw caption url failed: id=%s err=%v", caption.ID, err)
		return ""
	}
	return url
}

func rawCaptionData(raw *RawCaptionInput) string {
	if raw == nil || raw.Data == "" || !subtitle.IsASS(raw.Type) {
		return ""
	}
	return raw.Data
}

func encodeRawMeta(rawType string) (string, error) {
	data, err := json.Marshal(rawCaptionMeta{Type: rawType})
	if err != nil {
		return "", fmt.Errorf("encode raw caption meta: %w", err)
	}
	return string(data), nil
}

func parseID(raw string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

func truncate(s string, n int) string {
	if n <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func withoutTag(tags []string, drop string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag != drop {
			out = append(out, tag)
		}
	}
	return out
}
