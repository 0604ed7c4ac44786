package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Kiko915/techterview-mainapp-sub001/internal/domain"
	"github.com/Kiko915/techterview-mainapp-sub001/internal/logger"
)

type EnrollmentRepo interface {
	// CreateIfAbsent inserts an enrollment for the pair unless one already
	// exists, then returns the stored row. Safe under duplicate joins.
	CreateIfAbsent(ctx context.Context, userID uuid.UUID, trackID string) (*domain.Enrollment, error)
	GetByPair(ctx context.Context, userID uuid.UUID, trackID string) (*domain.Enrollment, error)
	Update(ctx context.Context, e *domain.Enrollment) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Enrollment, error)
}

type enrollmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func (r *enrollmentRepo) CreateIfAbsent(ctx context.Context, userID uuid.UUID, trackID string) (*domain.Enrollment, error) {
	e := &domain.Enrollment{
		ID:               uuid.New(),
		UserID:           userID,
		TrackID:          trackID,
		CompletedLessons: []string{},
		LastAccessedAt:   time.Now().UTC(),
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "track_id"}},
			DoNothing: true,
		}).
		Create(e).Error
	if err != nil {
		return nil, err
	}
	return r.GetByPair(ctx, userID, trackID)
}

func (r *enrollmentRepo) GetByPair(ctx context.Context, userID uuid.UUID, trackID string) (*domain.Enrollment, error) {
	var e domain.Enrollment
	err := r.db.WithContext(ctx).
		First(&e, "user_id = ? AND track_id = ?", userID, trackID).Error
	if err != nil {
		return nil, translate(err)
	}
	return &e, nil
}

func (r *enrollmentRepo) Update(ctx context.Context, e *domain.Enrollment) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *enrollmentRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Enrollment, error) {
	var out []*domain.Enrollment
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("last_accessed_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
