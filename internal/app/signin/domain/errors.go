package domain

import (
	"encoding/json"

	"tsu-signin/internal/pkg/xerrors"
)

// Error 是返回给调用方的错误载荷。
// 只由错误码和参数名组成，可以直接用 == 比较。
type Error struct {
	Code  xerrors.ErrorCode
	Param string
}

// MissingParam 缺少必填参数
func MissingParam(param string) Error {
	return Error{Code: xerrors.CodeMissingParam, Param: param}
}

// InvalidParam 参数存在但格式不正确
func InvalidParam(param string) Error {
	return Error{Code: xerrors.CodeInvalidParam, Param: param}
}

// Unauthorized 凭据校验未通过
func Unauthorized() Error {
	return Error{Code: xerrors.CodeAuthenticationFailed}
}

// ServerError 任何内部故障的统一载荷，不携带诊断信息
func ServerError() Error {
	return Error{Code: xerrors.CodeInternalError}
}

// Name 错误种类名称
func (e Error) Name() string {
	switch e.Code {
	case xerrors.CodeMissingParam:
		return "MissingParamError"
	case xerrors.CodeInvalidParam:
		return "InvalidParamError"
	case xerrors.CodeAuthenticationFailed:
		return "UnauthorizedError"
	default:
		return "ServerError"
	}
}

// Message 人类可读的消息，如 "Missing param: email"
func (e Error) Message() string {
	switch e.Code {
	case xerrors.CodeMissingParam, xerrors.CodeInvalidParam:
		return e.Code.Message() + ": " + e.Param
	case xerrors.CodeAuthenticationFailed:
		return e.Code.Message()
	default:
		return xerrors.CodeInternalError.Message()
	}
}

// StatusCode 错误对应的 HTTP 状态码
func (e Error) StatusCode() int {
	return xerrors.GetHTTPStatus(e.Code)
}

func (e Error) Error() string {
	return e.Message()
}

func (Error) payload() {}

// MarshalJSON 输出 {"error","message","code","param"}
func (e Error) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		Code    int    `json:"code"`
		Param   string `json:"param,omitempty"`
	}{
		Error:   e.Name(),
		Message: e.Message(),
		Code:    int(e.Code),
		Param:   e.Param,
	})
}
