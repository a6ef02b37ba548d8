package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nafijninja/genx/internal/adapters/http/dto"
	"github.com/nafijninja/genx/internal/adapters/http/utils"
	"github.com/nafijninja/genx/internal/domain"
	"github.com/nafijninja/genx/internal/observability"
)

func AddRequestID() gin.HandlerFunc {

	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-Id")
		if requestID == "" {
			requestID = uuid.New().String()

		}
		c.Writer.Header().Set("X-Request-Id", requestID)
		c.Set("RequestID", requestID)
		ctx := observability.WithRequestID(c.Request.Context(), requestID)
		c.Request = c.Request.WithContext(observability.WithRequestStartTime(ctx, time.Now()))
		c.Next()
	}
}

// CheckContentBody binds a JSON body of type T, validates it and stores it
// under "payload". Every rejection is answered with invalid.
func CheckContentBody[T any](maxsize int, invalid dto.HttpError, logger domain.LoggingRepository) gin.HandlerFunc {
	validate, err := utils.NewValidator()
	if err != nil {
		panic(err)
	}

	return func(c *gin.Context) {
		log := logger.With("http.request.id", c.GetString("RequestID"), "url.path", c.FullPath())

		contentType := c.GetHeader("Content-Type")
		parts := strings.Split(contentType, ";")
		if strings.TrimSpace(strings.ToLower(parts[0])) != "application/json" {
			log.Warn("request rejected", "reason", "unexpected_content_type", "http.request.content_type", contentType)
			c.AbortWithStatusJSON(invalid.StatusCode, invalid)
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, int64(maxsize))

		var u T

		err := c.ShouldBindBodyWithJSON(&u)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				log.Warn("request rejected", "reason", "body_too_large", "limit", maxsize)
				httpErr := dto.HttpError{Message: fmt.Sprintf("body must not be larger than %d bytes", maxsize), Code: domain.ErrCodeInvalidRequest, StatusCode: http.StatusRequestEntityTooLarge}
				c.AbortWithStatusJSON(httpErr.StatusCode, httpErr)
				return
			}
			log.Warn("request rejected", "reason", "malformed_body", "error.message", err.Error())
			c.AbortWithStatusJSON(invalid.StatusCode, invalid)
			return
		}

		body, _ := c.Get(gin.BodyBytesKey)
		if raw, _ := body.([]byte); !singleJSONValue(raw) {
			log.Warn("request rejected", "reason", "trailing_data")
			c.AbortWithStatusJSON(invalid.StatusCode, invalid)
			return
		}

		err = validate.Struct(u)
		if err != nil {
			log.Warn("request rejected", "reason", "validation_failed", "error.message", err.Error())
			c.AbortWithStatusJSON(invalid.StatusCode, invalid)
			return
		}
		c.Set("payload", u)
		c.Next()

	}
}

// singleJSONValue reports whether body holds exactly one JSON value,
// ignoring surrounding whitespace.
func singleJSONValue(body []byte) bool {
	dec := json.NewDecoder(bytes.NewReader(body))
	var first json.RawMessage
	if err := dec.Decode(&first); err != nil {
		return false
	}
	return dec.Decode(&struct{}{}) == io.EOF
}

func RateLimiterMiddelware(ipratelimiter *IPRateLimiter, capacity, fillrate float64, logger domain.LoggingRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		log := logger.With("service.component", "rate_limiter", "http.request.id", c.GetString("RequestID"))
		if ip == "" {
			log.Warn("extract_user_ip", "reason", "invalid_user_ip")
			httpErr := dto.HttpError{Message: "invalid ip", Code: domain.ErrCodeInvalidRequest, StatusCode: http.StatusBadRequest}
			c.AbortWithStatusJSON(httpErr.StatusCode, httpErr)
			return
		}
		rateLimiter := ipratelimiter.RequestRateLimiter(ip, capacity, fillrate)

		if !rateLimiter.AllowRequest() {
			log.Warn("rate_limit_check", "reason", "rate_limit_exceeded", "client.ip", ip)
			httpErr := dto.HttpError{Message: "Rate Limit Exceeded", Code: "RATE_LIMITED", StatusCode: http.StatusTooManyRequests}
			c.AbortWithStatusJSON(httpErr.StatusCode, httpErr)
			return
		}
		c.Next()
	}
}

func LoggingRequestMiddleware(logger domain.LoggingRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.With(
			"http.request.id", c.GetString("RequestID"),
			"http.request.method", c.Request.Method,
			"url.path", c.Request.URL.Path)

		log.Info("http_request_start", "user_agent.original", c.Request.UserAgent())

		c.Next()

		elapsed, _ := observability.Elapsed(c.Request.Context())
		log.Info("http_request_end",
			"http.response.status_code", c.Writer.Status(),
			"event.duration", elapsed.Nanoseconds())
	}
}

func PanicRecoveryMiddleware(logger domain.LoggingRepository) gin.HandlerFunc {
	return func(c *gin.Context) {

		defer func() {
			if r := recover(); r != nil {
				logger.Error("internal server error",
					"http.request.id", c.GetString("RequestID"),
					"http.request.method", c.Request.Method,
					"url.path", c.FullPath(),
					"reason", fmt.Sprintf("%v", r),
					"stack", string(debug.Stack()),
				)

				httpErr := dto.HttpError{Message: "internal server error", Details: fmt.Sprintf("%v", r), Code: domain.ErrCodeInternal, StatusCode: http.StatusInternalServerError}
				c.AbortWithStatusJSON(httpErr.StatusCode, httpErr)
			}
		}()

		c.Next()
	}
}
