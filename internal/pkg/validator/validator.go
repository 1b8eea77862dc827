package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// emailTag 邮箱规则：RFC 5321 长度上限 + go-playground 的 email 格式
const emailTag = "max=254,email"

// Validator wraps go-playground validator for struct validation
type Validator struct {
	validate *validator.Validate
}

// New creates a new validator instance
func New() *Validator {
	return &Validator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

// Struct 校验结构体，失败时返回可读的错误信息
func (v *Validator) Struct(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return errors.New(Describe(err))
	}
	return nil
}

// EmailChecker 邮箱格式校验器
type EmailChecker struct {
	validate *validator.Validate
}

// NewEmailChecker 创建邮箱格式校验器
func NewEmailChecker() *EmailChecker {
	return &EmailChecker{validate: validator.New()}
}

// IsValid 邮箱格式正确返回 true；只有校验器本身出错时才返回 error
func (c *EmailChecker) IsValid(email string) (bool, error) {
	err := c.validate.Var(email, emailTag)
	if err == nil {
		return true, nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return false, nil
	}
	return false, fmt.Errorf("email check: %w", err)
}

// Describe 把 ValidationErrors 转换为 "Field: tag=param" 形式的字符串
func Describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Namespace(), rule))
	}
	return strings.Join(parts, "; ")
}
