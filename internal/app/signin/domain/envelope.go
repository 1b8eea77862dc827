package domain

import (
	"net/http"

	"tsu-signin/internal/pkg/xerrors"
)

// Payload 响应体，只有 Error 和 Success 两种实现。
type Payload interface {
	payload()
}

// Success 登录成功的响应体
type Success struct {
	AccessToken string `json:"accessToken"`
}

func (Success) payload() {}

// Envelope 登录处理的唯一返回值：状态码 + 响应体。
type Envelope struct {
	StatusCode int
	Body       Payload
}

// OK 200，携带访问令牌
func OK(accessToken string) Envelope {
	return Envelope{StatusCode: http.StatusOK, Body: Success{AccessToken: accessToken}}
}

// BadRequest 400，参数缺失或格式错误
func BadRequest(err Error) Envelope {
	return Envelope{StatusCode: http.StatusBadRequest, Body: err}
}

// UnauthorizedResponse 401
func UnauthorizedResponse() Envelope {
	return Envelope{StatusCode: http.StatusUnauthorized, Body: Unauthorized()}
}

// ServerErrorResponse 500
func ServerErrorResponse() Envelope {
	return Envelope{StatusCode: http.StatusInternalServerError, Body: ServerError()}
}

// Outcome 用于指标和事件的结果标签
func (e Envelope) Outcome() string {
	switch body := e.Body.(type) {
	case Success:
		return "success"
	case Error:
		switch body.Code {
		case xerrors.CodeMissingParam, xerrors.CodeInvalidParam:
			return "bad_request"
		case xerrors.CodeAuthenticationFailed:
			return "unauthorized"
		default:
			return "server_error"
		}
	default:
		return "server_error"
	}
}
