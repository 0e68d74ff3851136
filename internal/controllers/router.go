package controllers

import (
	"bytes"
	"context"
	"io"
	stdhttp "net/http"

	"github.com/bionicotaku/lingo-services-captions/internal/controllers/dto"
	"github.com/bionicotaku/lingo-services-captions/internal/metadata"
	"github.com/bionicotaku/lingo-services-captions/internal/models/vo"
	"github.com/bionicotaku/lingo-services-captions/internal/services"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	khttp "github.com/go-kratos/kratos/v2/transport/http"
	"github.com/go-playground/validator/v10"
)

const (
	operationPrefix = "/captions.v1/"
	maxBodyBytes    = 16 << 20
)

// MsgInvalidRequest 是请求体无法解析或校验失败时的文案。
const MsgInvalidRequest = "Invalid request"

// routeKind 决定路由在进入服务前执行的闸门。
type routeKind int

const (
	// routeQuery 不做闸门检查，由服务自行判断身份。
	routeQuery routeKind = iota
	// routeCommand 先要求登录，再拒绝维护模式。
	routeCommand
	// routeMigration 只解析运行模式并透传给迁移服务。
	routeMigration
)

func (k routeKind) handlerType() HandlerType {
	if k == routeQuery {
		return HandlerTypeQuery
	}
	return HandlerTypeCommand
}

// requestScope 是路由层为单个请求解析出的身份与运行模式。
type requestScope struct {
	auth metadata.AuthContext
	mode vo.OperationalMode
}

// Router 把全部 POST /v1/<name> 接口挂到 Kratos HTTP Server 上。
// 所有响应的 HTTP 状态码都是 200，错误以 {status:"error"} 信封返回。
type Router struct {
	*BaseHandler
	uc       UseCases
	auth     AuthResolver
	mode     ModeReader
	validate *validator.Validate
	log      *log.Helper
}

// NewRouter 构造 Router。
func NewRouter(base *BaseHandler, uc UseCases, auth AuthResolver, mode ModeReader, logger log.Logger) *Router {
	if base == nil {
		base = NewBaseHandler(HandlerTimeouts{})
	}
	return &Router{
		BaseHandler: base,
		uc:          uc,
		auth:        auth,
		mode:        mode,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		log:         log.NewHelper(log.With(logger, "component", "controllers.router")),
	}
}

type namedRoute struct {
	name    string
	handler khttp.HandlerFunc
}

// Register 实现 httpserver.RouteRegistrar。
func (r *Router) Register(srv *khttp.Server) {
	v1 := srv.Route("/v1")
	for _, rt := range r.routes() {
		v1.POST("/"+rt.name, rt.handler)
	}
}

func (r *Router) routes() []namedRoute {
	return []namedRoute{
		{"findCaptions", route(r, "findCaptions", routeQuery, r.findCaptions)},
		{"loadCaption", route(r, "loadCaption", routeQuery, r.loadCaption)},
		{"loadCaptionForReview", route(r, "loadCaptionForReview", routeQuery, r.loadCaptionForReview)},
		{"submitCaption", route(r, "submitCaption", routeCommand, r.submitCaption)},
		{"updateCaption", route(r, "updateCaption", routeCommand, r.updateCaption)},
		{"deleteCaption", route(r, "deleteCaption", routeCommand, r.deleteCaption)},
		{"likeCaption", route(r, "likeCaption", routeCommand, r.likeCaption)},
		{"dislikeCaption", route(r, "dislikeCaption", routeCommand, r.dislikeCaption)},
		{"rejectCaption", route(r, "rejectCaption", routeCommand, r.rejectCaption)},
		{"verifyCaption", route(r, "verifyCaption", routeCommand, r.verifyCaption)},

		{"loadLatestCaptions", route(r, "loadLatestCaptions", routeQuery, r.loadLatestCaptions)},
		{"loadLatestLanguageCaptions", route(r, "loadLatestLanguageCaptions", routeQuery, r.loadLatestLanguageCaptions)},
		{"loadPopularCaptions", route(r, "loadPopularCaptions", routeQuery, r.loadPopularCaptions)},
		{"browse", route(r, "browse", routeQuery, r.browse)},
		{"search", route(r, "search", routeQuery, r.search)},
		{"globalStats", route(r, "globalStats", routeQuery, r.globalStats)},
		{"getAutoCaptionList", route(r, "getAutoCaptionList", routeQuery, r.getAutoCaptionList)},

		{"loadProfile", route(r, "loadProfile", routeQuery, r.loadProfile)},
		{"loadPrivateCaptionerData", route(r, "loadPrivateCaptionerData", routeQuery, r.loadPrivateCaptionerData)},
		{"loadUserCaptions", route(r, "loadUserCaptions", routeQuery, r.loadUserCaptions)},
		{"updateCaptionerProfile", route(r, "updateCaptionerProfile", routeCommand, r.updateCaptionerProfile)},
		{"assignReviewerRole", route(r, "assignReviewerRole", routeCommand, r.assignReviewerRole)},
		{"assignReviewerManagerRole", route(r, "assignReviewerManagerRole", routeCommand, r.assignReviewerManagerRole)},
		{"verifyCaptioner", route(r, "verifyCaptioner", routeCommand, r.verifyCaptioner)},
		{"banCaptioner", route(r, "banCaptioner", routeCommand, r.banCaptioner)},
		{"getOwnProfileTags", route(r, "getOwnProfileTags", routeQuery, r.getOwnProfileTags)},
		{"deleteProfileTag", route(r, "deleteProfileTag", routeCommand, r.deleteProfileTag)},

		{"createVideo", route(r, "createVideo", routeMigration, r.createVideo)},
		{"createBatchYoutubeVideos", route(r, "createBatchYoutubeVideos", routeMigration, r.createBatchYoutubeVideos)},
		{"migrationCreateCaptionerWithoutUser", route(r, "migrationCreateCaptionerWithoutUser", routeMigration, r.migrationCreateCaptionerWithoutUser)},
		{"migrationCreateCaption", route(r, "migrationCreateCaption", routeMigration, r.migrationCreateCaption)},
	}
}

// route 生成单个接口的 Kratos Handler：解码与校验请求体，经中间件链执行闸门与用例，
// 最后把结果或错误写成 JSON 信封。
func route[Req any](r *Router, name string, kind routeKind, fn func(context.Context, requestScope, *Req) (any, error)) khttp.HandlerFunc {
	operation := operationPrefix + name
	return func(hctx khttp.Context) error {
		var in Req
		if err := decodeBody(hctx.Request(), &in); err != nil {
			return r.writeError(hctx, operation, err)
		}
		if err := r.validate.Struct(&in); err != nil {
			r.log.WithContext(hctx).Debugf("%s: invalid request: %v", operation, err)
			return r.writeError(hctx, operation, errInvalidRequest())
		}

		khttp.SetOperation(hctx, operation)
		h := hctx.Middleware(func(ctx context.Context, req any) (any, error) {
			meta := r.ExtractMetadata(ctx)
			scope, err := r.scope(ctx, kind, meta)
			if err != nil {
				return nil, err
			}
			timeoutCtx, cancel := r.WithTimeout(ctx, kind.handlerType())
			defer cancel()
			timeoutCtx = InjectRequestMetadata(timeoutCtx, meta)
			timeoutCtx = metadata.WithAuth(timeoutCtx, scope.auth)
			return fn(timeoutCtx, scope, req.(*Req))
		})
		out, err := h(hctx, &in)
		if err != nil {
			return r.writeError(hctx, operation, err)
		}
		return writeJSON(hctx, out)
	}
}

// scope 解析身份并执行闸门：命令接口先检查登录再检查维护模式。
func (r *Router) scope(ctx context.Context, kind routeKind, meta metadata.RequestMetadata) (requestScope, error) {
	auth, err := r.resolveAuth(ctx, meta)
	if err != nil {
		return requestScope{}, err
	}
	scope := requestScope{auth: auth, mode: vo.ModeNormal}
	switch kind {
	case routeCommand:
		if !auth.Authenticated() {
			return scope, services.ErrNotLoggedIn()
		}
		mode, err := r.mode.Mode(ctx)
		if err != nil {
			return scope, err
		}
		if mode == vo.ModeMaintenance {
			return scope, services.ErrMaintenance()
		}
		scope.mode = mode
	case routeMigration:
		mode, err := r.mode.Mode(ctx)
		if err != nil {
			return scope, err
		}
		scope.mode = mode
	}
	return scope, nil
}

func (r *Router) resolveAuth(ctx context.Context, meta metadata.RequestMetadata) (metadata.AuthContext, error) {
	if meta.InvalidUserInfo {
		r.log.WithContext(ctx).Warn("invalid user info header, treating request as anonymous")
		return metadata.Anonymous(), nil
	}
	userID, ok := meta.UserUUID()
	if !ok || r.auth == nil {
		return metadata.Anonymous(), nil
	}
	return r.auth.Resolve(ctx, userID, meta.SessionToken)
}

// writeError 把业务错误写成信封；其它错误记录日志后统一返回 Internal。
func (r *Router) writeError(hctx khttp.Context, operation string, err error) error {
	if kerr, ok := services.AsKindError(err); ok {
		return writeJSON(hctx, dto.NewErrorResponse(kerr.Reason, kerr.Message))
	}
	r.log.WithContext(hctx).Errorf("%s failed: %v", operation, err)
	return writeJSON(hctx, dto.NewErrorResponse(services.ReasonInternal, services.MsgGeneric))
}

func writeJSON(hctx khttp.Context, v any) error {
	data, err := dto.JSON.Marshal(v)
	if err != nil {
		return err
	}
	return hctx.Blob(stdhttp.StatusOK, "application/json", data)
}

func decodeBody(req *stdhttp.Request, v any) error {
	if req == nil || req.Body == nil {
		return nil
	}
	data, err := io.ReadAll(io.LimitReader(req.Body, maxBodyBytes+1))
	if err != nil {
		return errInvalidRequest()
	}
	if len(data) > maxBodyBytes {
		return errors.BadRequest(services.ReasonValidationFailed, services.MsgSizeLimit)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := dto.JSON.Unmarshal(data, v); err != nil {
		return errInvalidRequest()
	}
	return nil
}

func errInvalidRequest() error {
	return errors.BadRequest(services.ReasonValidationFailed, MsgInvalidRequest)
}
