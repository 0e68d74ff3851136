package services

import (
	stdErrors "errors"
	"net/http"

	"github.com/bionicotaku/lingo-services-captions/internal/repositories"

	"github.com/go-kratos/kratos/v2/errors"
)

// errRawStoreUnavailable 表示未配置原始字幕对象存储，按 Internal 处理。
var errRawStoreUnavailable = stdErrors.New("raw caption store not configured")

// isCaptionNotFound 统一识别仓储层的字幕不存在错误。
func isCaptionNotFound(err error) bool {
	return stdErrors.Is(err, repositories.ErrCaptionNotFound)
}

// 错误种类，作为 kratos Error 的 Reason 返回给调用方。
const (
	ReasonAuthenticationRequired = "AuthenticationRequired"
	ReasonAuthorizationDenied    = "AuthorizationDenied"
	ReasonValidationFailed       = "ValidationFailed"
	ReasonNotFound               = "NotFound"
	ReasonMaintenanceModeActive  = "MaintenanceModeActive"
	ReasonRateLimited            = "RateLimited"
	ReasonInternal               = "Internal"
)

// 面向用户的错误文案。
const (
	MsgNotLoggedIn         = "Not authorized! Please login"
	MsgMaintenance         = "Sorry, we are in maintenance mode. Please try again later."
	MsgBanned              = "Not authorized! You are banned!"
	MsgProfileIncomplete   = "Complete your profile by opening the extension in your browser before submitting a caption!"
	MsgCooldown            = "You cannot submit another caption yet. Please wait at least 5 minutes after a submission before submitting again."
	MsgInvalidFile         = "Invalid file"
	MsgSizeLimit           = "Captions exceed size limit!"
	MsgMissingInformation  = "Missing information in submitted caption!"
	MsgDuplicateLanguage   = "You already have 2 captions of the same language for this video!"
	MsgMissingCaptionID    = "Missing caption id!"
	MsgNothingToUpdate     = "Nothing to update"
	MsgTooManyCaptionTypes = "Too many caption types supplied"
	MsgNoSuchCaption       = "No such caption"
	MsgUnknownCaption      = "Unknown caption"
	MsgNotAuthorized       = "Not authorized!"
	MsgSelfLike            = "Can't like your own caption!"
	MsgSelfDislike         = "Can't dislike your own caption!"
	MsgTargetUserNotFound  = "Target user not found!"
	MsgNameCollision       = "Too many users with the same name!"
	MsgMissingPrivateData  = "Could not query profile data"
	MsgUnsupportedSource   = "Unsupported video source"
	MsgGeneric             = "Something went wrong. Please try again later."
)

func errNotLoggedIn() error {
	return errors.Unauthorized(ReasonAuthenticationRequired, MsgNotLoggedIn)
}

func errMaintenance() error {
	return errors.ServiceUnavailable(ReasonMaintenanceModeActive, MsgMaintenance)
}

func errDenied(message string) error {
	return errors.Forbidden(ReasonAuthorizationDenied, message)
}

func errValidation(message string) error {
	return errors.BadRequest(ReasonValidationFailed, message)
}

func errNotFound(message string) error {
	return errors.NotFound(ReasonNotFound, message)
}

func errRateLimited(message string) error {
	return errors.New(http.StatusTooManyRequests, ReasonRateLimited, message)
}

// ErrNotLoggedIn 供路由层在进入服务前拒绝匿名命令请求。
func ErrNotLoggedIn() error { return errNotLoggedIn() }

// ErrMaintenance 供路由层拒绝维护期间的命令请求。
func ErrMaintenance() error { return errMaintenance() }

// AsKindError 判断 err 是否为业务错误；否则调用方应将其视为 Internal。
func AsKindError(err error) (*errors.Error, bool) {
	if err == nil {
		return nil, false
	}
	var kerr *errors.Error
	if !stdErrors.As(err, &kerr) {
		return nil, false
	}
	switch kerr.Reason {
	case ReasonAuthenticationRequired, ReasonAuthorizationDenied, ReasonValidationFailed,
		ReasonNotFound, ReasonMaintenanceModeActive, ReasonRateLimited:
		return kerr, true
	default:
		return nil, false
	}
}
