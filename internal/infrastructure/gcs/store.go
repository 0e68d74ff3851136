package gcs

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"

	"github.com/bionicotaku/lingo-services-captions/internal/infrastructure/configloader"
)

// ErrStoreDisabled 表示未配置 bucket。
var ErrStoreDisabled = errors.New("gcs: raw caption storage not configured")

// Store 管理原始字幕文件（lz-string 压缩后的 ASS/SSA 文本）。
type Store struct {
	client *storage.Client
	bucket string
	prefix string
	ttl    time.Duration
	signer *URLSigner
	log    *log.Helper
}

// NewStore 构造 Store。signer 为空时退回 BucketHandle.SignedURL 的凭据自动探测。
func NewStore(client *storage.Client, cfg configloader.StorageConfig, signer *URLSigner, logger log.Logger) *Store {
	return &Store{
		client: client,
		bucket: cfg.Bucket,
		prefix: strings.Trim(cfg.ObjectPrefix, "/"),
		ttl:    cfg.SignedURLTTL,
		signer: signer,
		log:    log.NewHelper(logger),
	}
}

// ProvideStore 供 Wire 注入使用。未配置 bucket 时返回 nil。
func ProvideStore(ctx context.Context, cfg configloader.StorageConfig, logger log.Logger) (*Store, func(), error) {
	helper := log.NewHelper(logger)
	if cfg.Bucket == "" {
		helper.Warn("gcs store disabled: storage.bucket not configured")
		return nil, func() {}, nil
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("init gcs client: %w", err)
	}
	signer, err := NewURLSigner(ctx, cfg.SignerServiceAccount, logger)
	if err != nil {
		helper.Warnf("gcs signer unavailable, falling back to client signing: %v", err)
		signer = nil
	}
	cleanup := func() {
		if cerr := client.Close(); cerr != nil {
			helper.Warnf("close gcs client: %v", cerr)
		}
	}
	return NewStore(client, cfg, signer, logger), cleanup, nil
}

// ObjectName 为作者生成新的对象名，格式为 <prefix>/<creator>/<uuid>.<ext>。
func ObjectName(prefix string, creatorID uuid.UUID, ext string) string {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	if ext == "" {
		ext = "txt"
	}
	return path.Join(strings.Trim(prefix, "/"), creatorID.String(), uuid.NewString()+"."+ext)
}

// NewObjectName 基于当前 Store 的前缀生成对象名。
func (s *Store) NewObjectName(creatorID uuid.UUID, ext string) string {
	if s == nil {
		return ObjectName("", creatorID, ext)
	}
	return ObjectName(s.prefix, creatorID, ext)
}

// Put 写入对象。
func (s *Store) Put(ctx context.Context, name string, data []byte, contentType string) error {
	if s == nil || s.client == nil {
		return ErrStoreDisabled
	}
	w := s.client.Bucket(s.bucket).Object(name).NewWriter(ctx)
	if contentType != "" {
		w.ContentType = contentType
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		s.log.WithContext(ctx).Errorf("write gcs object failed: bucket=%s object=%s err=%v", s.bucket, name, err)
		return fmt.Errorf("write object: %w", err)
	}
	if err := w.Close(); err != nil {
		s.log.WithContext(ctx).Errorf("finalize gcs object failed: bucket=%s object=%s err=%v", s.bucket, name, err)
		return fmt.Errorf("close object writer: %w", err)
	}
	return nil
}

// Delete 删除对象，对象不存在视为成功。
func (s *Store) Delete(ctx context.Context, name string) error {
	if s == nil || s.client == nil {
		return ErrStoreDisabled
	}
	err := s.client.Bucket(s.bucket).Object(name).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}

// SignedURL 生成对象的只读链接。
func (s *Store) SignedURL(ctx context.Context, name string) (string, error) {
	if s == nil || s.client == nil {
		return "", ErrStoreDisabled
	}
	if s.signer != nil {
		url, _, err := s.signer.SignedReadURL(ctx, s.bucket, name, s.ttl)
		return url, err
	}
	url, err := s.client.Bucket(s.bucket).SignedURL(name, &storage.SignedURLOptions{
		Scheme:  storage.SigningSchemeV4,
		Method:  "GET",
		Expires: time.Now().Add(s.ttl),
	})
	if err != nil {
		return "", fmt.Errorf("signed url: %w", err)
	}
	return url, nil
}
