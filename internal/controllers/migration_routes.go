package controllers

import (
	"context"

	"github.com/bionicotaku/lingo-services-captions/internal/controllers/dto"
)

// 迁移接口的权限与模式判断在服务层完成，不满足时返回 status=failed。

func (r *Router) createVideo(ctx context.Context, scope requestScope, req *dto.CreateVideoRequest) (any, error) {
	res, err := r.uc.Migration.CreateVideo(ctx, scope.auth, scope.mode, req.ToInput())
	if err != nil {
		return nil, err
	}
	return dto.MigrationResponse{MigrationResult: res}, nil
}

func (r *Router) createBatchYoutubeVideos(ctx context.Context, scope requestScope, req *dto.BatchVideosRequest) (any, error) {
	res, err := r.uc.Migration.CreateBatchYoutubeVideos(ctx, scope.auth, scope.mode, req.VideoIDs, req.NameMap)
	if err != nil {
		return nil, err
	}
	return dto.MigrationResponse{MigrationResult: res}, nil
}

func (r *Router) migrationCreateCaptionerWithoutUser(ctx context.Context, scope requestScope, req *dto.CaptionerWithoutUserRequest) (any, error) {
	res, err := r.uc.Migration.CreateCaptionerWithoutUser(ctx, scope.auth, scope.mode, req.Name, req.Email)
	if err != nil {
		return nil, err
	}
	return dto.MigrationResponse{MigrationResult: res}, nil
}

func (r *Router) migrationCreateCaption(ctx context.Context, scope requestScope, req *dto.ImportCaptionRequest) (any, error) {
	res, err := r.uc.Migration.CreateCaption(ctx, scope.auth, scope.mode, req.ToInput())
	if err != nil {
		return nil, err
	}
	return dto.MigrationResponse{MigrationResult: res}, nil
}
