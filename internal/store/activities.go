package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Kiko915/techterview-mainapp-sub001/internal/domain"
	"github.com/Kiko915/techterview-mainapp-sub001/internal/logger"
)

type ActivityRepo interface {
	Append(ctx context.Context, a *domain.Activity) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Activity, error)
}

type activityRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func (r *activityRepo) Append(ctx context.Context, a *domain.Activity) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *activityRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Activity, error) {
	if limit <= 0 {
		limit = 50
	}
	var out []*domain.Activity
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
