// Package dto 定义 HTTP 接口的请求与响应结构，以及到服务层输入的转换。
package dto

import (
	"bytes"
	"fmt"
	"strconv"

	jsoniter "github.com/json-iterator/go"
)

// JSON 是请求解码与响应编码共用的编解码器。
var JSON = jsoniter.ConfigCompatibleWithStandardLibrary

// 响应状态。
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Success 内嵌在所有成功响应中。
type Success struct {
	Status string `json:"status"`
}

// OK 返回 status=success 的响应头。
func OK() Success {
	return Success{Status: StatusSuccess}
}

// ErrorResponse 是统一的错误响应，HTTP 状态码始终为 200。
type ErrorResponse struct {
	Status    string `json:"status"`
	Error     string `json:"error"`
	ErrorKind string `json:"errorKind"`
}

// NewErrorResponse 构造错误响应。
func NewErrorResponse(kind, message string) ErrorResponse {
	return ErrorResponse{Status: StatusError, Error: message, ErrorKind: kind}
}

// FlexString 兼容客户端以数字或字符串传递的标识（如 videoSource）。
type FlexString string

// UnmarshalJSON 接受 JSON 字符串、数字或 null。
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := JSON.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	if _, err := strconv.ParseFloat(string(data), 64); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*f = FlexString(data)
	return nil
}

// String 返回字符串值。
func (f FlexString) String() string {
	return string(f)
}
