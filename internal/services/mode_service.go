package services

import (
	"context"
	"fmt"
	"time"

	"github.com/bionicotaku/lingo-services-captions/internal/infrastructure/configloader"
	"github.com/bionicotaku/lingo-services-captions/internal/models/vo"
	"github.com/bionicotaku/lingo-services-captions/internal/repositories"

	"github.com/go-kratos/kratos/v2/log"
)

const flagCachePrefix = "flag:"

// ModeService 读取 app_config 中的运行开关，配置了缓存时先读缓存。
type ModeService struct {
	store AppConfigStore
	cache JSONCache
	ttl   time.Duration
	log   *log.Helper
}

// NewModeService 构造 ModeService。
func NewModeService(store AppConfigStore, cache JSONCache, cfg configloader.RedisConfig, logger log.Logger) *ModeService {
	return &ModeService{
		store: store,
		cache: cache,
		ttl:   cfg.FlagTTL,
		log:   log.NewHelper(logger),
	}
}

// Mode 返回当前运行模式。
func (s *ModeService) Mode(ctx context.Context) (vo.OperationalMode, error) {
	on, err := s.flag(ctx, repositories.ConfigKeyMaintenance)
	if err != nil {
		return vo.ModeNormal, err
	}
	return vo.ModeFromFlag(on), nil
}

// AutoCaptioningEnabled 返回是否允许列出平台自动字幕。
func (s *ModeService) AutoCaptioningEnabled(ctx context.Context) (bool, error) {
	return s.flag(ctx, repositories.ConfigKeyAllowAutoCaptioning)
}

// SetMaintenance 切换维护模式并使缓存失效。
func (s *ModeService) SetMaintenance(ctx context.Context, on bool) error {
	if err := s.store.SetBool(ctx, repositories.ConfigKeyMaintenance, on); err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.Delete(ctx, flagCachePrefix+repositories.ConfigKeyMaintenance); err != nil {
			s.log.WithContext(ctx).Warnf("invalidate maintenance flag failed: err=%v", err)
		}
	}
	return nil
}

func (s *ModeService) flag(ctx context.Context, key string) (bool, error) {
	cacheKey := flagCachePrefix + key
	if s.cache != nil {
		var cached bool
		hit, err := s.cache.GetJSON(ctx, cacheKey, &cached)
		if err != nil {
			s.log.WithContext(ctx).Warnf("read flag cache failed: key=%s err=%v", key, err)
		} else if hit {
			return cached, nil
		}
	}
	value, err := s.store.GetBool(ctx, key)
	if err != nil {
		return false, fmt.Errorf("load flag %s: %w", key, err)
	}
	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, cacheKey, value, s.ttl); err != nil {
			s.log.WithContext(ctx).Warnf("write flag cache failed: key=%s err=%v", key, err)
		}
	}
	return value, nil
}
