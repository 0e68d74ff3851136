package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bionicotaku/lingo-services-captions/internal/infrastructure/configloader"
	"github.com/bionicotaku/lingo-services-captions/internal/metadata"
	"github.com/bionicotaku/lingo-services-captions/internal/models/po"
	"github.com/bionicotaku/lingo-services-captions/internal/models/vo"
	"github.com/bionicotaku/lingo-services-captions/internal/repositories"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
)

const (
	importedCaptionTitle = "Imported from YTExternalCC"
	importedCaptionTag   = "ytExCC"
)

// CreateVideoInput 描述 createVideo 的参数。
type CreateVideoInput struct {
	VideoID     string
	VideoSource string
	NameMap     map[string]string
}

// ImportCaptionInput 描述 migrationCreateCaption 的参数。
// UserID 为空时按 Email 查找迁移导入的作者。
type ImportCaptionInput struct {
	Content      string
	VideoID      string
	LanguageCode string
	CreatedDate  string
	Email        string
	UserID       string
}

// MigrationService 提供旧站数据导入接口，仅管理员在维护模式下可用。
// 不满足条件时一律返回 status=failed，而不是错误。
type MigrationService struct {
	captions   CaptionStore
	videos     VideoStore
	captioners CaptionerStore
	privates   CaptionerPrivateStore
	profiles   *ProfileResolver
	hooks      *CounterHooks
	titles     TitleFetcher
	txManager  txmanager.Manager
	batchSize  int
	log        *log.Helper
}

// NewMigrationService 构造 MigrationService。
func NewMigrationService(
	captions CaptionStore,
	videos VideoStore,
	captioners CaptionerStore,
	privates CaptionerPrivateStore,
	profiles *ProfileResolver,
	hooks *CounterHooks,
	titles TitleFetcher,
	tx txmanager.Manager,
	limits configloader.LimitsConfig,
	logger log.Logger,
) *MigrationService {
	batch := limits.MigrationBatchSize
	if batch <= 0 {
		batch = 100
	}
	return &MigrationService{
		captions:   captions,
		videos:     videos,
		captioners: captioners,
		privates:   privates,
		profiles:   profiles,
		hooks:      hooks,
		titles:     titles,
		txManager:  tx,
		batchSize:  batch,
		log:        log.NewHelper(logger),
	}
}

func failed() *vo.MigrationResult {
	return &vo.MigrationResult{Status: vo.MigrationStatusFailed}
}

func allowMigration(auth metadata.AuthContext, mode vo.OperationalMode) bool {
	return auth.Authenticated() && auth.Roles.Admin && mode == vo.ModeMaintenance
}

// CreateVideo 创建单个视频；已存在时返回 skipped。名称优先取 NameMap，其次查询外部平台。
func (s *MigrationService) CreateVideo(ctx context.Context, auth metadata.AuthContext, mode vo.OperationalMode, input CreateVideoInput) (*vo.MigrationResult, error) {
	if !allowMigration(auth, mode) {
		return failed(), nil
	}
	existing, err := s.videos.Get(ctx, nil, input.VideoID, input.VideoSource)
	if err == nil && existing != nil {
		return &vo.MigrationResult{Status: vo.MigrationStatusSkipped}, nil
	}
	if err != nil && !errors.Is(err, repositories.ErrVideoNotFound) {
		return nil, fmt.Errorf("load video: %w", err)
	}

	name := input.NameMap[input.VideoID]
	if name == "" && s.titles != nil {
		title, err := s.titles.FetchTitle(ctx, input.VideoSource, input.VideoID)
		if err != nil {
			s.log.WithContext(ctx).Warnf("fetch video title failed: source=%s id=%s err=%v", input.VideoSource, input.VideoID, err)
		}
		name = title
	}
	_, created, err := s.videos.Create(ctx, nil, repositories.CreateVideoInput{
		SourceID: input.VideoID,
		Source:   input.VideoSource,
		Name:     name,
	})
	if err != nil {
		return nil, err
	}
	if !created {
		return &vo.MigrationResult{Status: vo.MigrationStatusSkipped}, nil
	}
	return &vo.MigrationResult{Status: vo.MigrationStatusAdded, Name: name}, nil
}

// CreateBatchYoutubeVideos 顺序处理 YouTube 视频 ID，按批写入；任一批失败即中止。
func (s *MigrationService) CreateBatchYoutubeVideos(ctx context.Context, auth metadata.AuthContext, mode vo.OperationalMode, videoIDs []string, nameMap map[string]string) (*vo.MigrationResult, error) {
	if !allowMigration(auth, mode) {
		return failed(), nil
	}
	result := &vo.MigrationResult{Status: vo.MigrationStatusAdded}
	pending := make([]repositories.CreateVideoInput, 0, s.batchSize)
	flush := func(processed int) error {
		if len(pending) == 0 {
			return nil
		}
		var added int
		err := s.txManager.WithinTx(ctx, txmanager.TxOptions{}, func(txCtx context.Context, sess txmanager.Session) error {
			n, err := s.videos.CreateBatch(txCtx, sess, pending)
			added = n
			return err
		})
		if err != nil {
			return err
		}
		result.Added += added
		result.Skipped += len(pending) - added
		pending = pending[:0]
		s.log.WithContext(ctx).Infof("video batch processed: %d/%d", processed, len(videoIDs))
		return nil
	}

	for i, id := range videoIDs {
		if id == "" {
			continue
		}
		pending = append(pending, repositories.CreateVideoInput{
			SourceID: id,
			Source:   po.VideoSourceYoutube,
			Name:     nameMap[id],
		})
		if len(pending) == s.batchSize {
			if err := flush(i + 1); err != nil {
				return nil, err
			}
		}
	}
	if err := flush(len(videoIDs)); err != nil {
		return nil, err
	}
	return result, nil
}

// CreateCaptionerWithoutUser 创建未关联账号的作者，其私有资料以档案 ID 为键，便于日后关联。
func (s *MigrationService) CreateCaptionerWithoutUser(ctx context.Context, auth metadata.AuthContext, mode vo.OperationalMode, name, email string) (*vo.MigrationResult, error) {
	if !allowMigration(auth, mode) {
		return failed(), nil
	}
	var captionerID uuid.UUID
	err := s.txManager.WithinTx(ctx, txmanager.TxOptions{}, func(txCtx context.Context, sess txmanager.Session) error {
		captioner, _, err := s.captioners.Create(txCtx, sess, repositories.CreateCaptionerInput{
			Name:    name,
			NameTag: po.PlaceholderNameTag,
		})
		if err != nil {
			return err
		}
		captionerID = captioner.ID
		return s.privates.Upsert(txCtx, sess, captioner.ID, email)
	})
	if err != nil {
		return nil, err
	}
	return &vo.MigrationResult{Status: vo.MigrationStatusAdded, ID: captionerID.String()}, nil
}

// CreateCaption 导入一条 YouTube 字幕并累加作者与视频计数。
func (s *MigrationService) CreateCaption(ctx context.Context, auth metadata.AuthContext, mode vo.OperationalMode, input ImportCaptionInput) (*vo.MigrationResult, error) {
	if !allowMigration(auth, mode) {
		return failed(), nil
	}
	var result *vo.MigrationResult
	err := s.txManager.WithinTx(ctx, txmanager.TxOptions{}, func(txCtx context.Context, sess txmanager.Session) error {
		creatorID, ok, err := s.importCreator(txCtx, sess, input)
		if err != nil {
			return err
		}
		if !ok {
			result = failed()
			return nil
		}
		caption, err := s.captions.Create(txCtx, sess, repositories.CreateCaptionInput{
			CreatorID:       creatorID,
			VideoID:         input.VideoID,
			VideoSource:     po.VideoSourceYoutube,
			Language:        input.LanguageCode,
			Content:         input.Content,
			TranslatedTitle: importedCaptionTitle,
			Tags:            []string{importedCaptionTag},
			Privacy:         po.PrivacyPublic,
			CreatedAt:       parseCreatedDate(input.CreatedDate),
		})
		if err != nil {
			return err
		}
		s.hooks.OnCaptionImported(txCtx, sess, caption)
		result = &vo.MigrationResult{Status: vo.MigrationStatusAdded, ID: caption.ID.String()}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// importCreator 解析导入字幕的作者：指定 UserID 时要求该账号已有作者档案，否则按邮箱查找私有资料。
func (s *MigrationService) importCreator(ctx context.Context, sess txmanager.Session, input ImportCaptionInput) (uuid.UUID, bool, error) {
	if input.UserID != "" {
		userID, ok := parseID(input.UserID)
		if !ok {
			return uuid.Nil, false, nil
		}
		captioner, err := s.profiles.Captioner(ctx, sess, userID)
		if err != nil {
			return uuid.Nil, false, err
		}
		if captioner == nil {
			s.log.WithContext(ctx).Infof("import caption skipped: user %s does not exist", userID)
			return uuid.Nil, false, nil
		}
		return userID, true, nil
	}
	private, err := s.privates.FindByEmail(ctx, sess, input.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrCaptionerPrivateNotFound) {
			return uuid.Nil, false, nil
		}
		return uuid.Nil, false, err
	}
	return private.CaptionerID, true, nil
}

func parseCreatedDate(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}
