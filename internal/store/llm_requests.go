package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Kiko915/techterview-mainapp-sub001/internal/domain"
)

// PurposeUsage aggregates request-log rows for one purpose.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int
}

type LLMRequestRepo interface {
	Append(ctx context.Context, rec *domain.LLMRequestLog) error
	List(ctx context.Context, limit int) ([]*domain.LLMRequestLog, error)
	UsageByPurpose(ctx context.Context) ([]PurposeUsage, error)
}

type llmRequestRepo struct {
	db *gorm.DB
}

func (r *llmRequestRepo) Append(ctx context.Context, rec *domain.LLMRequestLog) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *llmRequestRepo) List(ctx context.Context, limit int) ([]*domain.LLMRequestLog, error) {
	if limit <= 0 {
		limit = 20
	}
	var out []*domain.LLMRequestLog
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *llmRequestRepo) UsageByPurpose(ctx context.Context) ([]PurposeUsage, error) {
	var out []PurposeUsage
	err := r.db.WithContext(ctx).
		Model(&domain.LLMRequestLog{}).
		Select("purpose, COUNT(*) AS calls, SUM(input_tokens) AS input_tokens, SUM(output_tokens) AS output_tokens, CAST(AVG(latency_ms) AS INTEGER) AS avg_latency_ms").
		Group("purpose").
		Order("purpose ASC").
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
