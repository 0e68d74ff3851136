// Package vo 定义对外展示的值对象（View Objects），由 Service 层组装、Controller 层直接序列化。
package vo

import "github.com/bionicotaku/lingo-services-captions/internal/models/po"

// RoleSet 是按角色层级展开后的有效权限集合。
type RoleSet struct {
	SuperAdmin      bool
	Admin           bool
	ReviewerManager bool
	Reviewer        bool
}

// ResolveRoles 将原始角色列表展开为有效权限：superadmin 蕴含 admin，reviewerManager 蕴含 reviewer。
// 未知角色被忽略。
func ResolveRoles(raw []string) RoleSet {
	var set RoleSet
	for _, r := range raw {
		switch po.Role(r) {
		case po.RoleSuperAdmin:
			set.SuperAdmin = true
			set.Admin = true
		case po.RoleAdmin:
			set.Admin = true
		case po.RoleReviewerManager:
			set.ReviewerManager = true
			set.Reviewer = true
		case po.RoleReviewer:
			set.Reviewer = true
		}
	}
	return set
}

// CanReview 判断是否可执行审核操作（reviewer 或 admin）。
func (r RoleSet) CanReview() bool {
	return r.Reviewer || r.Admin
}

// CanManageReviewers 判断是否可授予 reviewer 角色。
func (r RoleSet) CanManageReviewers() bool {
	return r.Admin || r.ReviewerManager
}

// PrivateProfile 是仅本人可见的角色标记。
type PrivateProfile struct {
	IsReviewer        bool `json:"isReviewer"`
	IsReviewerManager bool `json:"isReviewerManager"`
	IsAdmin           bool `json:"isAdmin"`
}

// PrivateProfileFromRoles 从有效权限派生 PrivateProfile。
func PrivateProfileFromRoles(r RoleSet) PrivateProfile {
	return PrivateProfile{
		IsReviewer:        r.Reviewer,
		IsReviewerManager: r.ReviewerManager,
		IsAdmin:           r.Admin,
	}
}
