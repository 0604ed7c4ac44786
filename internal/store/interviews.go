package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Kiko915/techterview-mainapp-sub001/internal/domain"
	"github.com/Kiko915/techterview-mainapp-sub001/internal/logger"
)

type InterviewRepo interface {
	Create(ctx context.Context, iv *domain.Interview) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Interview, error)
	Update(ctx context.Context, iv *domain.Interview) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Interview, error)
}

type interviewRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func (r *interviewRepo) Create(ctx context.Context, iv *domain.Interview) error {
	if iv.ID == uuid.Nil {
		iv.ID = uuid.New()
	}
	if iv.Transcript == nil {
		iv.Transcript = []domain.Turn{}
	}
	return r.db.WithContext(ctx).Create(iv).Error
}

func (r *interviewRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Interview, error) {
	var iv domain.Interview
	if err := r.db.WithContext(ctx).First(&iv, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &iv, nil
}

func (r *interviewRepo) Update(ctx context.Context, iv *domain.Interview) error {
	return r.db.WithContext(ctx).Save(iv).Error
}

func (r *interviewRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Interview, error) {
	var out []*domain.Interview
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
