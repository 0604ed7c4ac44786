package store

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Kiko915/techterview-mainapp-sub001/internal/domain"
	"github.com/Kiko915/techterview-mainapp-sub001/internal/logger"
)

type TrackRepo interface {
	Upsert(ctx context.Context, track *domain.Track) error
	GetByID(ctx context.Context, id string) (*domain.Track, error)
	List(ctx context.Context) ([]*domain.Track, error)
	// LessonIDs returns every lesson id in the track, in curriculum order.
	LessonIDs(ctx context.Context, trackID string) ([]string, error)
}

type trackRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

// Upsert writes a track with its modules and lessons. Used by the operator
// seed command; learner-facing paths are read-only.
func (r *trackRepo) Upsert(ctx context.Context, track *domain.Track) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Create(track).Error
}

func (r *trackRepo) GetByID(ctx context.Context, id string) (*domain.Track, error) {
	var track domain.Track
	err := r.db.WithContext(ctx).
		Preload("Modules", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Modules.Lessons", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&track, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &track, nil
}

func (r *trackRepo) List(ctx context.Context) ([]*domain.Track, error) {
	var tracks []*domain.Track
	err := r.db.WithContext(ctx).
		Order("position ASC").
		Find(&tracks).Error
	if err != nil {
		return nil, err
	}
	return tracks, nil
}

func (r *trackRepo) LessonIDs(ctx context.Context, trackID string) ([]string, error) {
	track, err := r.GetByID(ctx, trackID)
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, m := range track.Modules {
		for _, l := range m.Lessons {
			ids = append(ids, l.ID)
		}
	}
	return ids, nil
}
