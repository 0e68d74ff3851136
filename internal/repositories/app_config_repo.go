package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// 运行时开关键名。
const (
	ConfigKeyMaintenance         = "maintenance"
	ConfigKeyAllowAutoCaptioning = "allowAutoCaptioning"
)

// AppConfigRepository 提供访问 captions.app_config 的接口。
type AppConfigRepository struct {
	db  *pgxpool.Pool
	log *log.Helper
}

// NewAppConfigRepository 构造仓储实例。
func NewAppConfigRepository(db *pgxpool.Pool, logger log.Logger) *AppConfigRepository {
	return &AppConfigRepository{db: db, log: log.NewHelper(logger)}
}

// GetBool 读取布尔开关，键不存在时返回 false。
func (r *AppConfigRepository) GetBool(ctx context.Context, key string) (bool, error) {
	var raw []byte
	err := r.db.QueryRow(ctx, `SELECT value FROM captions.app_config WHERE key = $1`, key).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("get app config %s: %w", key, err)
	}
	var value bool
	if err := json.Unmarshal(raw, &value); err != nil {
		r.log.WithContext(ctx).Warnf("app config value is not a bool: key=%s value=%s", key, string(raw))
		return false, nil
	}
	return value, nil
}

// SetBool 写入布尔开关。
func (r *AppConfigRepository) SetBool(ctx context.Context, key string, value bool) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal app config value: %w", err)
	}
	_, err = r.db.Exec(ctx, `INSERT INTO captions.app_config (key, value, updated_at) VALUES ($1, $2::jsonb, now())
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`, key, payload)
	if err != nil {
		return fmt.Errorf("set app config %s: %w", key, err)
	}
	return nil
}
