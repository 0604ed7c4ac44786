package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Kiko915/techterview-mainapp-sub001/internal/domain"
	"github.com/Kiko915/techterview-mainapp-sub001/internal/logger"
)

type CertificateRepo interface {
	// CreateIfAbsent inserts the certificate unless one already exists for
	// its (user, track) pair, then returns the stored row. Because the id is
	// deterministic for the pair, concurrent duplicate creates collide on
	// the primary key instead of duplicating.
	CreateIfAbsent(ctx context.Context, cert *domain.Certificate) (*domain.Certificate, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Certificate, error)
	GetByPair(ctx context.Context, userID uuid.UUID, trackID string) (*domain.Certificate, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Certificate, error)
	CountByPair(ctx context.Context, userID uuid.UUID, trackID string) (int64, error)
}

type certificateRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func (r *certificateRepo) CreateIfAbsent(ctx context.Context, cert *domain.Certificate) (*domain.Certificate, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(cert).Error
	if err != nil {
		return nil, err
	}
	// Read back so callers always see the stored snapshot, not their input.
	return r.GetByPair(ctx, cert.UserID, cert.TrackID)
}

func (r *certificateRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Certificate, error) {
	var cert domain.Certificate
	if err := r.db.WithContext(ctx).First(&cert, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &cert, nil
}

func (r *certificateRepo) GetByPair(ctx context.Context, userID uuid.UUID, trackID string) (*domain.Certificate, error) {
	var cert domain.Certificate
	err := r.db.WithContext(ctx).
		First(&cert, "user_id = ? AND track_id = ?", userID, trackID).Error
	if err != nil {
		return nil, translate(err)
	}
	return &cert, nil
}

func (r *certificateRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Certificate, error) {
	var out []*domain.Certificate
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("issued_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *certificateRepo) CountByPair(ctx context.Context, userID uuid.UUID, trackID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&domain.Certificate{}).
		Where("user_id = ? AND track_id = ?", userID, trackID).
		Count(&n).Error
	return n, err
}
