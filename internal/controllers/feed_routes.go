package controllers

import (
	"context"

	"github.com/bionicotaku/lingo-services-captions/internal/controllers/dto"
)

func (r *Router) loadLatestCaptions(ctx context.Context, _ requestScope, _ *dto.Empty) (any, error) {
	page, err := r.uc.Discovery.Latest(ctx)
	if err != nil {
		return nil, err
	}
	return dto.CaptionPageResponse{Success: dto.OK(), CaptionPage: page}, nil
}

func (r *Router) loadLatestLanguageCaptions(ctx context.Context, _ requestScope, req *dto.LanguageRequest) (any, error) {
	page, err := r.uc.Discovery.LatestLanguage(ctx, req.LanguageCode)
	if err != nil {
		return nil, err
	}
	return dto.CaptionPageResponse{Success: dto.OK(), CaptionPage: page}, nil
}

func (r *Router) loadPopularCaptions(ctx context.Context, scope requestScope, _ *dto.Empty) (any, error) {
	page, err := r.uc.Discovery.Popular(ctx, scope.auth)
	if err != nil {
		return nil, err
	}
	return dto.CaptionPageResponse{Success: dto.OK(), CaptionPage: page}, nil
}

func (r *Router) browse(ctx context.Context, _ requestScope, req *dto.BrowseRequest) (any, error) {
	res, err := r.uc.Discovery.Browse(ctx, req.Limit, req.Offset)
	if err != nil {
		return nil, err
	}
	return dto.BrowseResponse{Success: dto.OK(), BrowseResult: res}, nil
}

func (r *Router) search(ctx context.Context, _ requestScope, req *dto.SearchRequest) (any, error) {
	res, err := r.uc.Search.Search(ctx, req.ToInput())
	if err != nil {
		return nil, err
	}
	return dto.SearchResponse{Success: dto.OK(), SearchResult: res}, nil
}

func (r *Router) globalStats(ctx context.Context, _ requestScope, _ *dto.Empty) (any, error) {
	stats, err := r.uc.Stats.Global(ctx)
	if err != nil {
		return nil, err
	}
	return dto.StatsResponse{Success: dto.OK(), GlobalStats: stats}, nil
}

func (r *Router) getAutoCaptionList(ctx context.Context, _ requestScope, req *dto.AutoCaptionRequest) (any, error) {
	captions, err := r.uc.AutoCaption.List(ctx, req.VideoID, req.VideoSource.String())
	if err != nil {
		return nil, err
	}
	return dto.AutoCaptionResponse{Success: dto.OK(), Captions: captions}, nil
}
