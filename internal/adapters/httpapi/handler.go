package httpapi

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mikey/llm-rss-gen/internal/core"
	"github.com/mikey/llm-rss-gen/internal/ports"
	"go.uber.org/zap"
)

// RequestObserver records finished requests
type RequestObserver interface {
	ObserveRequest(code int, d time.Duration)
}

// Handler serves GET requests for generated feeds
type Handler struct {
	generator ports.FeedGenerator
	observer  RequestObserver
	logger    *zap.Logger
}

// NewHandler creates a new feed handler. observer may be nil.
func NewHandler(generator ports.FeedGenerator, observer RequestObserver, logger *zap.Logger) *Handler {
	return &Handler{
		generator: generator,
		observer:  observer,
		logger:    logger,
	}
}

// ServeHTTP implements http.Handler
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var result *core.PipelineResult
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		result = core.ErrorResult(http.StatusMethodNotAllowed, core.MsgMethodNotAllowed)
	} else if raw, ok := targetParam(r.URL.RawQuery); !ok {
		result = core.ErrorResult(http.StatusBadRequest, core.MsgInvalidURL)
	} else {
		result = h.generator.Generate(r.Context(), core.FeedRequest{RawURL: raw})
	}

	h.write(w, result)

	if h.observer != nil {
		h.observer.ObserveRequest(result.StatusCode, time.Since(start))
	}
	h.logger.Debug("Served feed request",
		zap.String("method", r.Method),
		zap.Int("status_code", result.StatusCode),
		zap.String("cache", string(result.CacheDisposition)),
		zap.Duration("duration", time.Since(start)))
}

func (h *Handler) write(w http.ResponseWriter, result *core.PipelineResult) {
	w.Header().Set("Content-Type", result.ContentType)
	if result.CacheDisposition != core.CacheNone {
		w.Header().Set("X-Cache", string(result.CacheDisposition))
	}
	w.WriteHeader(result.StatusCode)
	if _, err := w.Write([]byte(result.Body)); err != nil {
		h.logger.Debug("Failed to write response", zap.Error(err))
	}
}

// targetParam returns the first url query value decoded once. An absent
// parameter yields an empty string; a value with a broken escape is
// reported as not ok.
func targetParam(rawQuery string) (string, bool) {
	for _, pair := range strings.Split(rawQuery, "&") {
		key, value, _ := strings.Cut(pair, "=")
		if k, err := url.QueryUnescape(key); err != nil || k != "url" {
			continue
		}
		decoded, err := url.QueryUnescape(value)
		if err != nil {
			return "", false
		}
		return decoded, true
	}
	return "", true
}
