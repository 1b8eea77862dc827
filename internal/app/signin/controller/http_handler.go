package controller

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"tsu-signin/internal/app/signin/domain"
	"tsu-signin/internal/pkg/contextkeys"
	"tsu-signin/internal/pkg/log"
	"tsu-signin/internal/pkg/response"

	"github.com/labstack/echo/v4"
)

// maxBodyBytes 登录请求体上限
const maxBodyBytes = 64 << 10

// Handler 登录处理的抽象，HTTPHandler 只依赖这个接口
type Handler interface {
	Handle(ctx context.Context, req *domain.Request) domain.Envelope
}

// HTTPHandler 把 HTTP 请求转换为 domain.Request，并把 Envelope 写回 HTTP 响应
type HTTPHandler struct {
	signin      Handler
	events      EventPublisher
	logger      log.Logger
	authTimeout time.Duration
}

// NewHTTPHandler 创建 HTTP 适配器。events 可以为 nil；authTimeout <= 0 表示不设置超时
func NewHTTPHandler(signin Handler, events EventPublisher, authTimeout time.Duration, logger log.Logger) *HTTPHandler {
	if logger == nil {
		logger = log.GetLogger()
	}
	return &HTTPHandler{
		signin:      signin,
		events:      events,
		logger:      logger.With("component", "signin_http"),
		authTimeout: authTimeout,
	}
}

// Signin 是处理 POST /auth/signin 的 Handler
func (h *HTTPHandler) Signin(c echo.Context) error {
	ctx := c.Request().Context()

	req, email := h.decodeRequest(c)

	if h.authTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.authTimeout)
		defer cancel()
	}

	resp := h.signin.Handle(ctx, req)
	if resp.Body == nil {
		resp = domain.ServerErrorResponse()
	}

	h.publish(c.Request().Context(), resp, email)
	return response.EchoJSON(c, resp.StatusCode, resp.Body)
}

// healthReporter 能报告自身连接状态的依赖
type healthReporter interface {
	Healthy() bool
}

// HealthCheck 健康检查。启用了事件发布且发布者能报告状态时附带 events 字段；
// 事件发布是尽力而为的，断开不影响 status
func (h *HTTPHandler) HealthCheck(c echo.Context) error {
	body := map[string]string{"status": "ok"}
	if reporter, ok := h.events.(healthReporter); ok {
		body["events"] = "down"
		if reporter.Healthy() {
			body["events"] = "up"
		}
	}
	return c.JSON(http.StatusOK, body)
}

// decodeRequest 解析 JSON 请求体。空 body、null、无法解析或带多余数据的 body 都得到 Body == nil 的请求
func (h *HTTPHandler) decodeRequest(c echo.Context) (*domain.Request, string) {
	ctx := c.Request().Context()
	if c.Request().Body == nil {
		return &domain.Request{}, ""
	}

	var body *domain.Body
	dec := json.NewDecoder(io.LimitReader(c.Request().Body, maxBodyBytes))
	if err := dec.Decode(&body); err != nil {
		if !errors.Is(err, io.EOF) {
			h.logger.WarnContext(ctx, "解析登录请求体失败", log.Any("error", err))
		}
		return &domain.Request{}, ""
	}
	// body 必须恰好是一个 JSON 值
	var trailing json.RawMessage
	if err := dec.Decode(&trailing); !errors.Is(err, io.EOF) {
		h.logger.WarnContext(ctx, "登录请求体包含多余数据", log.Any("error", err))
		return &domain.Request{}, ""
	}
	if body == nil {
		return &domain.Request{}, ""
	}
	return &domain.Request{Body: body}, body.Email
}

// publish 尽力发布登录事件，失败只记录日志，不影响响应
func (h *HTTPHandler) publish(ctx context.Context, resp domain.Envelope, email string) {
	if h.events == nil {
		return
	}

	event := SigninEvent{
		Outcome:    resp.Outcome(),
		StatusCode: resp.StatusCode,
		EmailHash:  hashEmail(email),
		OccurredAt: time.Now().UTC(),
	}
	if traceID, ok := contextkeys.GetTraceID(ctx); ok {
		event.TraceID = traceID
	}

	if err := h.events.PublishSigninEvent(ctx, event); err != nil {
		h.logger.WarnContext(ctx, "发布登录事件失败", log.Any("error", err), log.String("outcome", event.Outcome))
	}
}
