package llm

import (
	"context"
	"time"

	"github.com/Kiko915/techterview-mainapp-sub001/internal/domain"
	"github.com/Kiko915/techterview-mainapp-sub001/internal/logger"
	"github.com/Kiko915/techterview-mainapp-sub001/internal/store"
)

// loggingProvider records every request in the LLM request log and emits a
// structured log line. A failed log write never fails the request.
type loggingProvider struct {
	inner Provider
	repo  store.LLMRequestRepo
	log   *logger.Logger
}

// WithLogging wraps p with request logging.
func WithLogging(p Provider, repo store.LLMRequestRepo, log *logger.Logger) Provider {
	return &loggingProvider{inner: p, repo: repo, log: log.With("component", "llm")}
}

func (l *loggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	purpose := PurposeFrom(ctx)

	resp, err := l.inner.Generate(ctx, req)
	latency := time.Since(start)

	rec := &domain.LLMRequestLog{
		Provider:  l.inner.ModelID(),
		Model:     l.inner.ModelID(),
		Purpose:   purpose,
		LatencyMs: latency.Milliseconds(),
		Success:   err == nil,
	}
	if resp != nil {
		rec.Model = resp.Model
		rec.InputTokens = resp.Usage.InputTokens
		rec.OutputTokens = resp.Usage.OutputTokens
	}
	if err != nil {
		rec.ErrorMessage = err.Error()
		l.log.Warn("generation failed", "purpose", purpose, "latency", latency, "error", err)
	} else {
		l.log.Debug("generation ok", "purpose", purpose, "latency", latency,
			"inputTokens", rec.InputTokens, "outputTokens", rec.OutputTokens)
	}

	if l.repo != nil {
		if logErr := l.repo.Append(ctx, rec); logErr != nil {
			l.log.Warn("request log write failed", "error", logErr)
		}
	}

	return resp, err
}

func (l *loggingProvider) ModelID() string {
	return l.inner.ModelID()
}
