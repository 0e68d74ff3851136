package controllers

import (
	"context"

	"github.com/bionicotaku/lingo-services-captions/internal/controllers/dto"
)

func (r *Router) findCaptions(ctx context.Context, scope requestScope, req *dto.FindCaptionsRequest) (any, error) {
	captions, err := r.uc.Captions.Find(ctx, scope.auth, req.VideoID, req.VideoSource.String())
	if err != nil {
		return nil, err
	}
	return dto.FindCaptionsResponse{Success: dto.OK(), Captions: captions}, nil
}

func (r *Router) loadCaption(ctx context.Context, scope requestScope, req *dto.CaptionIDRequest) (any, error) {
	loaded, err := r.uc.Captions.Load(ctx, scope.auth, req.CaptionID)
	if err != nil {
		return nil, err
	}
	return dto.LoadCaptionResponse{Success: dto.OK(), LoadedCaption: loaded}, nil
}

func (r *Router) loadCaptionForReview(ctx context.Context, scope requestScope, req *dto.CaptionIDRequest) (any, error) {
	review, err := r.uc.Captions.LoadForReview(ctx, scope.auth, req.CaptionID)
	if err != nil {
		return nil, err
	}
	return dto.ReviewCaptionResponse{Success: dto.OK(), ReviewCaption: review}, nil
}

func (r *Router) submitCaption(ctx context.Context, scope requestScope, req *dto.SubmitCaptionRequest) (any, error) {
	id, err := r.uc.Captions.Submit(ctx, scope.auth, req.ToInput())
	if err != nil {
		return nil, err
	}
	return dto.SubmitCaptionResponse{Success: dto.OK(), CaptionID: id}, nil
}

func (r *Router) updateCaption(ctx context.Context, scope requestScope, req *dto.UpdateCaptionRequest) (any, error) {
	if err := r.uc.Captions.Update(ctx, scope.auth, req.ToInput()); err != nil {
		return nil, err
	}
	return dto.OK(), nil
}

func (r *Router) deleteCaption(ctx context.Context, scope requestScope, req *dto.CaptionIDRequest) (any, error) {
	if err := r.uc.Captions.Delete(ctx, scope.auth, req.CaptionID); err != nil {
		return nil, err
	}
	return dto.OK(), nil
}

func (r *Router) likeCaption(ctx context.Context, scope requestScope, req *dto.CaptionIDRequest) (any, error) {
	res, err := r.uc.Votes.Like(ctx, scope.auth, req.CaptionID)
	if err != nil {
		return nil, err
	}
	return dto.VoteResponse{Success: dto.OK(), VoteResult: res}, nil
}

func (r *Router) dislikeCaption(ctx context.Context, scope requestScope, req *dto.CaptionIDRequest) (any, error) {
	res, err := r.uc.Votes.Dislike(ctx, scope.auth, req.CaptionID)
	if err != nil {
		return nil, err
	}
	return dto.VoteResponse{Success: dto.OK(), VoteResult: res}, nil
}

func (r *Router) rejectCaption(ctx context.Context, scope requestScope, req *dto.ReviewRequest) (any, error) {
	res, err := r.uc.Reviews.Reject(ctx, scope.auth, req.CaptionID, req.Reason)
	if err != nil {
		return nil, err
	}
	return dto.ReviewResponse{Success: dto.OK(), ReviewResult: res}, nil
}

func (r *Router) verifyCaption(ctx context.Context, scope requestScope, req *dto.ReviewRequest) (any, error) {
	res, err := r.uc.Reviews.Verify(ctx, scope.auth, req.CaptionID, req.Reason)
	if err != nil {
		return nil, err
	}
	return dto.ReviewResponse{Success: dto.OK(), ReviewResult: res}, nil
}
