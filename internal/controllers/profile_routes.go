package controllers

import (
	"context"

	"github.com/bionicotaku/lingo-services-captions/internal/controllers/dto"
)

func (r *Router) loadProfile(ctx context.Context, scope requestScope, req *dto.LoadProfileRequest) (any, error) {
	view, err := r.uc.Profiles.LoadProfile(ctx, scope.auth, req.ProfileID, withCaptions(req.WithCaptions))
	if err != nil {
		return nil, err
	}
	return dto.ProfileResponse{Success: dto.OK(), ProfileView: view}, nil
}

func (r *Router) loadPrivateCaptionerData(ctx context.Context, scope requestScope, req *dto.LoadPrivateDataRequest) (any, error) {
	data, err := r.uc.Profiles.LoadPrivateCaptionerData(ctx, scope.auth, withCaptions(req.WithCaptions))
	if err != nil {
		return nil, err
	}
	return dto.PrivateDataResponse{Success: dto.OK(), PrivateCaptionerData: data}, nil
}

func (r *Router) loadUserCaptions(ctx context.Context, scope requestScope, req *dto.LoadUserCaptionsRequest) (any, error) {
	page, err := r.uc.Profiles.LoadUserCaptions(ctx, scope.auth, req.ToInput())
	if err != nil {
		return nil, err
	}
	return dto.CaptionPageResponse{Success: dto.OK(), CaptionPage: page}, nil
}

func (r *Router) updateCaptionerProfile(ctx context.Context, scope requestScope, req *dto.UpdateProfileRequest) (any, error) {
	updated, err := r.uc.Profiles.UpdateCaptionerProfile(ctx, scope.auth, req.ToInput())
	if err != nil {
		return nil, err
	}
	return dto.UpdatedProfileResponse{Success: dto.OK(), UpdatedProfile: updated}, nil
}

func (r *Router) assignReviewerRole(ctx context.Context, scope requestScope, req *dto.TargetUserRequest) (any, error) {
	if err := r.uc.Roles.AssignReviewer(ctx, scope.auth, req.TargetUserID); err != nil {
		return nil, err
	}
	return dto.OK(), nil
}

func (r *Router) assignReviewerManagerRole(ctx context.Context, scope requestScope, req *dto.TargetUserRequest) (any, error) {
	if err := r.uc.Roles.AssignReviewerManager(ctx, scope.auth, req.TargetUserID); err != nil {
		return nil, err
	}
	return dto.OK(), nil
}

func (r *Router) verifyCaptioner(ctx context.Context, scope requestScope, req *dto.TargetUserRequest) (any, error) {
	if err := r.uc.Roles.VerifyCaptioner(ctx, scope.auth, req.TargetUserID); err != nil {
		return nil, err
	}
	return dto.OK(), nil
}

func (r *Router) banCaptioner(ctx context.Context, scope requestScope, req *dto.TargetUserRequest) (any, error) {
	if err := r.uc.Roles.BanCaptioner(ctx, scope.auth, req.TargetUserID); err != nil {
		return nil, err
	}
	return dto.OK(), nil
}

func (r *Router) getOwnProfileTags(ctx context.Context, scope requestScope, _ *dto.Empty) (any, error) {
	tags, err := r.uc.Tags.OwnProfileTags(ctx, scope.auth)
	if err != nil {
		return nil, err
	}
	return dto.ProfileTagsResponse{Success: dto.OK(), Tags: tags}, nil
}

func (r *Router) deleteProfileTag(ctx context.Context, scope requestScope, req *dto.DeleteProfileTagRequest) (any, error) {
	if err := r.uc.Tags.DeleteProfileTag(ctx, scope.auth, req.TagName); err != nil {
		return nil, err
	}
	return dto.OK(), nil
}

func withCaptions(v *bool) bool {
	return v == nil || *v
}
