package controller

import (
	"fmt"

	"tsu-signin/internal/app/signin/domain"
	"tsu-signin/internal/pkg/xerrors"
)

// errMalformedRequest 请求或请求体缺失，连校验的前提都不满足
var errMalformedRequest = xerrors.New(xerrors.CodeInvalidRequest, "malformed request: missing body")

// credentials 通过校验后的登录参数
type credentials struct {
	email    string
	password string
}

// validateRequest 按固定顺序校验请求，第一个失败的检查决定结果：
// body 存在 → email 存在 → email 格式 → password 存在。
//
// 参数问题返回 domain.Error；其它返回值都是内部故障。
func validateRequest(req *domain.Request, checker domain.EmailFormatChecker) (credentials, error) {
	if req == nil || req.Body == nil {
		return credentials{}, errMalformedRequest
	}

	email, password := req.Body.Email, req.Body.Password

	if email == "" {
		return credentials{}, domain.MissingParam("email")
	}

	valid, err := checker.IsValid(email)
	if err != nil {
		return credentials{}, fmt.Errorf("email format checker: %w", err)
	}
	if !valid {
		return credentials{}, domain.InvalidParam("email")
	}

	if password == "" {
		return credentials{}, domain.MissingParam("password")
	}

	return credentials{email: email, password: password}, nil
}
