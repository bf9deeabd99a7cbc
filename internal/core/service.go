package core

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ServiceConfig holds the pipeline policy knobs
type ServiceConfig struct {
	CacheEnabled bool
	FetchTimeout time.Duration
	// ModelTimeout bounds the model call; zero leaves it unbounded
	ModelTimeout time.Duration
}

// FeedService is the core service turning webpages into feeds
type FeedService struct {
	fetcher   Fetcher
	llmClient LLMClient
	cache     FeedCache
	recorder  Recorder
	logger    *zap.Logger
	cfg       ServiceConfig
}

// NewFeedService creates a new feed service
func NewFeedService(
	fetcher Fetcher,
	llmClient LLMClient,
	cache FeedCache,
	recorder Recorder,
	logger *zap.Logger,
	cfg ServiceConfig,
) *FeedService {
	return &FeedService{
		fetcher:   fetcher,
		llmClient: llmClient,
		cache:     cache,
		recorder:  recorder,
		logger:    logger,
		cfg:       cfg,
	}
}

// Generate runs one request through validation, cache, fetch, model and
// classification. Every failure is folded into the returned result.
func (s *FeedService) Generate(ctx context.Context, req FeedRequest) *PipelineResult {
	start := time.Now()

	target, err := ParseTarget(req.RawURL)
	if err != nil {
		s.logger.Debug("Rejected feed request", zap.String("url", req.RawURL), zap.Error(err))
		return errorResult(err)
	}

	logger := s.logger.With(zap.String("url", target.Key))

	cacheOn := s.cfg.CacheEnabled && s.cache != nil
	if cacheOn {
		if body, ok := s.cache.Lookup(ctx, target.Key); ok {
			s.cacheHit()
			logger.Debug("Cache hit for feed")
			return feedResult(body, CacheHit)
		}
		s.cacheMiss()
	}

	html, err := s.fetch(ctx, target.Key)
	if err != nil {
		logger.Warn("Failed to fetch page", zap.Error(err))
		return errorResult(err)
	}

	prompt := BuildPrompt(target.Key, target.Origin, html)

	raw, err := s.invoke(ctx, prompt)
	if err != nil {
		if errors.Is(err, ErrModelConfiguration) {
			logger.Error("LLM client is not configured", zap.Error(err))
		} else {
			logger.Error("Failed to generate feed", zap.Error(err), zap.String("model", s.llmClient.ModelName()))
		}
		return errorResult(err)
	}

	classified, err := Classify(raw)
	if err != nil {
		logger.Error("Model returned no content", zap.String("model", s.llmClient.ModelName()))
		return errorResult(err)
	}
	s.classified(classified.Kind)

	switch classified.Kind {
	case KindValidFeed:
		disposition := CacheNone
		if cacheOn {
			disposition = CacheMiss
			if err := s.cache.Store(ctx, target.Key, classified.Text); err != nil {
				logger.Error("Failed to update cache", zap.Error(err))
			}
		}
		logger.Info("Generated feed",
			zap.Int("html_size", len(html)),
			zap.Int("feed_size", len(classified.Text)),
			zap.Duration("duration", time.Since(start)))
		return feedResult(classified.Text, disposition)

	case KindStructuredError:
		logger.Info("Model found no articles", zap.Duration("duration", time.Since(start)))
		return &PipelineResult{
			StatusCode:       http.StatusOK,
			ContentType:      ContentTypeXML,
			Body:             classified.Text,
			CacheDisposition: CacheNone,
		}

	default:
		logger.Error("AI response did not conform to the expected XML format",
			zap.String("response", classified.Text))
		return ErrorResult(http.StatusInternalServerError, MsgMalformed)
	}
}

// fetch runs the fetcher under the fetch deadline
func (s *FeedService) fetch(ctx context.Context, url string) (string, error) {
	if s.cfg.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.FetchTimeout)
		defer cancel()
	}

	html, err := s.fetcher.Fetch(ctx, url)
	if err == nil {
		return html, nil
	}

	var httpErr *FetchHTTPError
	switch {
	case errors.As(err, &httpErr):
		s.fetchFailed("http_status")
	case errors.Is(err, ErrFetchTimeout):
		s.fetchFailed("timeout")
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		s.fetchFailed("timeout")
		err = fmt.Errorf("%w: %v", ErrFetchTimeout, err)
	case errors.Is(err, ErrFetchNetwork):
		s.fetchFailed("network")
	default:
		s.fetchFailed("network")
		err = fmt.Errorf("%w: %v", ErrFetchNetwork, err)
	}
	return "", err
}

// invoke runs the model under the model deadline
func (s *FeedService) invoke(ctx context.Context, prompt string) (string, error) {
	if s.cfg.ModelTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.ModelTimeout)
		defer cancel()
	}

	raw, err := s.llmClient.Generate(ctx, prompt)
	if err == nil {
		return raw, nil
	}

	switch {
	case errors.Is(err, ErrModelConfiguration), errors.Is(err, ErrModelTimeout):
		return "", err
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return "", fmt.Errorf("%w: %v", ErrModelTimeout, err)
	case errors.Is(err, ErrModelUnavailable):
		return "", err
	default:
		return "", fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
}

func (s *FeedService) cacheHit() {
	if s.recorder != nil {
		s.recorder.CacheHit()
	}
}

func (s *FeedService) cacheMiss() {
	if s.recorder != nil {
		s.recorder.CacheMiss()
	}
}

func (s *FeedService) classified(kind ResponseKind) {
	if s.recorder != nil {
		s.recorder.Classified(kind)
	}
}

func (s *FeedService) fetchFailed(reason string) {
	if s.recorder != nil {
		s.recorder.FetchFailed(reason)
	}
}

func feedResult(body string, disposition CacheDisposition) *PipelineResult {
	return &PipelineResult{
		StatusCode:       http.StatusOK,
		ContentType:      ContentTypeXML,
		Body:             body,
		CacheDisposition: disposition,
	}
}

// errorResult maps a pipeline error onto its status and sanitized message
func errorResult(err error) *PipelineResult {
	var httpErr *FetchHTTPError
	switch {
	case errors.Is(err, ErrMissingURL):
		return ErrorResult(http.StatusBadRequest, MsgMissingURL)
	case errors.Is(err, ErrInvalidURL):
		return ErrorResult(http.StatusBadRequest, MsgInvalidURL)
	case errors.As(err, &httpErr):
		return ErrorResult(http.StatusBadGateway, fmt.Sprintf(MsgFetchStatus, httpErr.StatusCode))
	case errors.Is(err, ErrFetchTimeout):
		return ErrorResult(http.StatusBadGateway, MsgFetchTimeout)
	case errors.Is(err, ErrFetchNetwork):
		return ErrorResult(http.StatusBadGateway, MsgFetchNetwork)
	case errors.Is(err, ErrModelConfiguration):
		return ErrorResult(http.StatusInternalServerError, MsgConfiguration)
	case errors.Is(err, ErrModelTimeout):
		return ErrorResult(http.StatusInternalServerError, MsgModelTimeout)
	case errors.Is(err, ErrModelUnavailable):
		return ErrorResult(http.StatusInternalServerError, MsgModelUnavailable)
	case errors.Is(err, ErrEmptyModelResponse):
		return ErrorResult(http.StatusInternalServerError, MsgEmptyResponse)
	default:
		return ErrorResult(http.StatusInternalServerError, MsgUnknown)
	}
}

// ErrorResult builds an <error><message>...</message></error> result
func ErrorResult(statusCode int, message string) *PipelineResult {
	return &PipelineResult{
		StatusCode:       statusCode,
		ContentType:      ContentTypeXML,
		Body:             ErrorBody(message),
		CacheDisposition: CacheNone,
	}
}

// ErrorBody renders message as an error document
func ErrorBody(message string) string {
	var sb strings.Builder
	sb.WriteString("<error><message>")
	_ = xml.EscapeText(&sb, []byte(message))
	sb.WriteString("</message></error>")
	return sb.String()
}
