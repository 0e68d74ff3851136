// Package gcs 提供与 Google Cloud Storage 交互的基础设施封装。
package gcs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"cloud.google.com/go/storage"
	"github.com/go-kratos/kratos/v2/log"
	jsoniter "github.com/json-iterator/go"
	"golang.org/x/oauth2/google"
)

// URLSigner 负责为原始字幕文件生成只读的 V4 Signed URL。
type URLSigner struct {
	googleAccessID string
	privateKey     []byte
	now            func() time.Time
	log            *log.Helper
}

// Option 定义可选配置。
type Option func(*URLSigner)

// WithClock 覆盖时间获取函数，便于测试。
func WithClock(clock func() time.Time) Option {
	return func(s *URLSigner) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithServiceAccountKey 允许直接注入访问 ID 与私钥（测试友好）。
func WithServiceAccountKey(accessID string, privateKey []byte) Option {
	return func(s *URLSigner) {
		if accessID != "" {
			s.googleAccessID = accessID
		}
		if len(privateKey) > 0 {
			s.privateKey = append([]byte(nil), privateKey...)
		}
	}
}

// NewURLSigner 创建 URLSigner，要求默认凭据中包含 service account 私钥。
func NewURLSigner(ctx context.Context, accessID string, logger log.Logger, opts ...Option) (*URLSigner, error) {
	signer := &URLSigner{
		googleAccessID: accessID,
		now:            time.Now,
		log:            log.NewHelper(logger),
	}

	for _, opt := range opts {
		opt(signer)
	}

	if len(signer.privateKey) == 0 {
		privKey, detectedAccessID, err := loadServiceAccountKey(ctx)
		if err != nil {
			return nil, fmt.Errorf("init gcs signer: %w", err)
		}
		signer.privateKey = privKey
		if signer.googleAccessID == "" {
			signer.googleAccessID = detectedAccessID
		} else if detectedAccessID != "" && detectedAccessID != signer.googleAccessID {
			signer.log.WithContext(ctx).Warnf("gcs signer access id mismatch: config=%s credentials=%s", signer.googleAccessID, detectedAccessID)
		}
	}

	if signer.googleAccessID == "" {
		return nil, errors.New("gcs signer: google access id is required")
	}
	if len(signer.privateKey) == 0 {
		return nil, errors.New("gcs signer: private key is required")
	}

	return signer, nil
}

// SignedReadURL 生成 GET 方法的 Signed URL。
func (s *URLSigner) SignedReadURL(ctx context.Context, bucket, objectName string, ttl time.Duration) (signedURL string, expires time.Time, err error) {
	if bucket == "" {
		return "", time.Time{}, errors.New("bucket is required")
	}
	if objectName == "" {
		return "", time.Time{}, errors.New("object name is required")
	}
	if ttl <= 0 {
		return "", time.Time{}, errors.New("ttl must be positive")
	}

	expires = s.now().Add(ttl)
	opts := &storage.SignedURLOptions{
		Scheme:         storage.SigningSchemeV4,
		Method:         http.MethodGet,
		Expires:        expires,
		GoogleAccessID: s.googleAccessID,
		PrivateKey:     s.privateKey,
	}

	url, signErr := storage.SignedURL(bucket, objectName, opts)
	if signErr != nil {
		s.log.WithContext(ctx).Errorf("generate signed read url failed: bucket=%s object=%s err=%v", bucket, objectName, signErr)
		return "", time.Time{}, fmt.Errorf("signed url: %w", signErr)
	}
	return url, expires, nil
}

type serviceAccountKey struct {
	PrivateKey  string `json:"private_key"`
	ClientEmail string `json:"client_email"`
}

func loadServiceAccountKey(ctx context.Context) ([]byte, string, error) {
	creds, err := google.FindDefaultCredentials(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("find default credentials: %w", err)
	}
	if len(creds.JSON) == 0 {
		return nil, "", errors.New("service account JSON not found in default credentials")
	}

	var key serviceAccountKey
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(creds.JSON, &key); err != nil {
		return nil, "", fmt.Errorf("parse service account json: %w", err)
	}
	if key.PrivateKey == "" {
		return nil, "", errors.New("service account private key is empty; use a service account JSON credential")
	}
	return []byte(key.PrivateKey), key.ClientEmail, nil
}
