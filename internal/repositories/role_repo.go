package repositories

import (
	"context"
	"fmt"

	"github.com/bionicotaku/lingo-services-captions/internal/models/po"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RoleRepository 提供访问 captions.user_roles 的接口。
type RoleRepository struct {
	db  *pgxpool.Pool
	log *log.Helper
}

// NewRoleRepository 构造仓储实例。
func NewRoleRepository(db *pgxpool.Pool, logger log.Logger) *RoleRepository {
	return &RoleRepository{db: db, log: log.NewHelper(logger)}
}

// ListRoles 返回用户直接持有的角色。
func (r *RoleRepository) ListRoles(ctx context.Context, sess txmanager.Session, userID uuid.UUID) ([]string, error) {
	rows, err := conn(r.db, sess).Query(ctx, `SELECT role FROM captions.user_roles WHERE user_id = $1 ORDER BY role`, userID)
	if err != nil {
		return nil, fmt.Errorf("list user roles: %w", err)
	}
	defer rows.Close()
	var roles []string
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return nil, fmt.Errorf("scan user role: %w", err)
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user roles: %w", err)
	}
	return roles, nil
}

// HasRole 判断用户是否直接持有指定角色。
func (r *RoleRepository) HasRole(ctx context.Context, sess txmanager.Session, userID uuid.UUID, role po.Role) (bool, error) {
	var exists bool
	err := conn(r.db, sess).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM captions.user_roles WHERE user_id = $1 AND role = $2)`, userID, string(role)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check user role: %w", err)
	}
	return exists, nil
}

// Grant 授予角色，已持有时无操作。
func (r *RoleRepository) Grant(ctx context.Context, sess txmanager.Session, userID uuid.UUID, role po.Role) error {
	_, err := conn(r.db, sess).Exec(ctx,
		`INSERT INTO captions.user_roles (user_id, role) VALUES ($1, $2) ON CONFLICT DO NOTHING`, userID, string(role))
	if err != nil {
		r.log.WithContext(ctx).Errorf("grant role failed: user=%s role=%s err=%v", userID, role, err)
		return fmt.Errorf("grant role: %w", err)
	}
	return nil
}

// Revoke 撤销角色。
func (r *RoleRepository) Revoke(ctx context.Context, sess txmanager.Session, userID uuid.UUID, role po.Role) error {
	_, err := conn(r.db, sess).Exec(ctx,
		`DELETE FROM captions.user_roles WHERE user_id = $1 AND role = $2`, userID, string(role))
	if err != nil {
		r.log.WithContext(ctx).Errorf("revoke role failed: user=%s role=%s err=%v", userID, role, err)
		return fmt.Errorf("revoke role: %w", err)
	}
	return nil
}
