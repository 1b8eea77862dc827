package controller

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"

	"tsu-signin/internal/app/signin/domain"
	"tsu-signin/internal/pkg/contextkeys"
	"tsu-signin/internal/pkg/log"
	"tsu-signin/internal/pkg/metrics"
	"tsu-signin/internal/pkg/xerrors"
)

var (
	// ErrAuthenticatorRequired 构造时未提供 Authenticator
	ErrAuthenticatorRequired = errors.New("signin: authenticator is required")
	// ErrEmailCheckerRequired 构造时未提供 EmailFormatChecker
	ErrEmailCheckerRequired = errors.New("signin: email format checker is required")

	errCollaboratorMissing = errors.New("signin controller is missing a collaborator")
)

// SigninController 编排登录流程：校验请求、委托凭据校验、把所有结果映射为 Envelope。
// 只持有不可变的依赖引用，依赖本身并发安全时可以被多个请求同时调用。
type SigninController struct {
	auth    domain.Authenticator
	checker domain.EmailFormatChecker
	logger  log.Logger
	metrics *metrics.SigninMetrics
	now     func() time.Time
}

// Option 可选配置
type Option func(*SigninController)

// WithLogger 指定 logger，默认使用全局 logger
func WithLogger(logger log.Logger) Option {
	return func(c *SigninController) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics 指定指标收集器，nil 表示不记录
func WithMetrics(m *metrics.SigninMetrics) Option {
	return func(c *SigninController) {
		c.metrics = m
	}
}

// NewSigninController 是 SigninController 的构造函数，缺少依赖时立即失败
func NewSigninController(auth domain.Authenticator, checker domain.EmailFormatChecker, opts ...Option) (*SigninController, error) {
	if isNil(auth) {
		return nil, ErrAuthenticatorRequired
	}
	if isNil(checker) {
		return nil, ErrEmailCheckerRequired
	}

	c := &SigninController{
		auth:    auth,
		checker: checker,
		logger:  log.GetLogger(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "signin_controller")
	return c, nil
}

// Handle 处理一次登录请求。永远返回 Envelope，不会 panic，也不会把内部错误透出给调用方。
func (c *SigninController) Handle(ctx context.Context, req *domain.Request) (resp domain.Envelope) {
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()
	if c != nil && c.now != nil {
		start = c.now()
	}

	// 唯一的兜底边界：依赖缺失、依赖返回错误、依赖 panic 都在这里转换为 ServerError
	defer func() {
		if r := recover(); r != nil {
			resp = c.serverError(ctx, fmt.Errorf("panic: %v", r))
		}
		c.observe(resp, start)
	}()

	resp, err := c.handle(ctx, req)
	if err != nil {
		return c.serverError(ctx, err)
	}
	return resp
}

func (c *SigninController) handle(ctx context.Context, req *domain.Request) (domain.Envelope, error) {
	if c == nil || isNil(c.auth) || isNil(c.checker) {
		return domain.Envelope{}, errCollaboratorMissing
	}

	creds, err := validateRequest(req, c.checker)
	if err != nil {
		var paramErr domain.Error
		if errors.As(err, &paramErr) {
			return domain.BadRequest(paramErr), nil
		}
		return domain.Envelope{}, err
	}

	accessToken, err := c.auth.Auth(ctx, creds.email, creds.password)
	if err != nil {
		return domain.Envelope{}, fmt.Errorf("authenticator: %w", err)
	}
	if accessToken == "" {
		return domain.UnauthorizedResponse(), nil
	}

	return domain.OK(accessToken), nil
}

// serverError 记录真实原因，对外只返回通用的 ServerError
func (c *SigninController) serverError(ctx context.Context, cause error) domain.Envelope {
	// 每次新建 AppError：cause 可能是依赖返回的共享错误，只读不写
	appErr := xerrors.NewWithError(xerrors.CodeInternalError, "signin failed", cause).
		WithService("signin", "handle").
		WithMetadata("cause_code", int(xerrors.CodeOf(cause)))
	var causeErr *xerrors.AppError
	if errors.As(cause, &causeErr) {
		appErr.Retryable = causeErr.IsRetryable()
		if causeErr.IsCritical() {
			appErr.Level = xerrors.LevelCritical
		}
	}
	if traceID, ok := contextkeys.GetTraceID(ctx); ok {
		appErr.WithTraceID(traceID)
	}

	var logger log.Logger
	if c != nil {
		logger = c.logger
	}
	log.LogAppError(ctx, logger, "signin failed with internal error", appErr)

	return domain.ServerErrorResponse()
}

func (c *SigninController) observe(resp domain.Envelope, start time.Time) {
	if c == nil || c.metrics == nil {
		return
	}
	end := time.Now()
	if c.now != nil {
		end = c.now()
	}
	c.metrics.ObserveOutcome(resp.Outcome(), end.Sub(start))
}

// isNil 同时识别 nil 接口和带类型的 nil 指针
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}
