package progress

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Kiko915/techterview-mainapp-sub001/internal/certificates"
	"github.com/Kiko915/techterview-mainapp-sub001/internal/domain"
	"github.com/Kiko915/techterview-mainapp-sub001/internal/logger"
	"github.com/Kiko915/techterview-mainapp-sub001/internal/notify"
	"github.com/Kiko915/techterview-mainapp-sub001/internal/store"
)

// Service tracks per-user, per-track completion state. Lesson completion is
// an idempotent set union, so duplicate gate triggers (page re-mounts,
// retried requests, a second tab) collapse to a single logical completion.
type Service struct {
	enrollments store.EnrollmentRepo
	tracks      store.TrackRepo
	users       store.UserRepo
	activities  store.ActivityRepo
	certs       *certificates.Service
	bus         notify.Publisher
	log         *logger.Logger
}

func NewService(
	enrollments store.EnrollmentRepo,
	tracks store.TrackRepo,
	users store.UserRepo,
	activities store.ActivityRepo,
	certs *certificates.Service,
	bus notify.Publisher,
	log *logger.Logger,
) *Service {
	return &Service{
		enrollments: enrollments,
		tracks:      tracks,
		users:       users,
		activities:  activities,
		certs:       certs,
		bus:         bus,
		log:         log.With("service", "progress"),
	}
}

// JoinTrack enrolls the user. Joining an already-joined track returns the
// existing enrollment.
func (s *Service) JoinTrack(ctx context.Context, userID uuid.UUID, trackID string) (*domain.Enrollment, error) {
	if _, err := s.tracks.GetByID(ctx, trackID); err != nil {
		return nil, err
	}
	return s.enrollments.CreateIfAbsent(ctx, userID, trackID)
}

// GetEnrollment returns the user's enrollment for the track.
func (s *Service) GetEnrollment(ctx context.Context, userID uuid.UUID, trackID string) (*domain.Enrollment, error) {
	return s.enrollments.GetByPair(ctx, userID, trackID)
}

// ListEnrollments returns all of the user's enrollments, most recently
// touched first.
func (s *Service) ListEnrollments(ctx context.Context, userID uuid.UUID) ([]*domain.Enrollment, error) {
	return s.enrollments.ListByUser(ctx, userID)
}

// CompleteLesson records the activity and merges the lesson into the
// completed set. When the merge makes the set cover the track's full lesson
// list it issues the completion certificate. Issue is idempotent, so the
// transition check may fire any number of times and still yield one
// certificate.
func (s *Service) CompleteLesson(ctx context.Context, userID uuid.UUID, trackID, lessonID, label string) (*domain.Enrollment, error) {
	lessonIDs, err := s.tracks.LessonIDs(ctx, trackID)
	if err != nil {
		return nil, err
	}
	if !contains(lessonIDs, lessonID) {
		return nil, fmt.Errorf("lesson %q is not part of track %q", lessonID, trackID)
	}

	if err := s.activities.Append(ctx, &domain.Activity{
		UserID:   userID,
		Kind:     domain.ActivityLessonCompleted,
		TrackID:  trackID,
		LessonID: lessonID,
		Label:    label,
	}); err != nil {
		return nil, fmt.Errorf("record activity: %w", err)
	}

	enrollment, err := s.enrollments.GetByPair(ctx, userID, trackID)
	if errors.Is(err, store.ErrNotFound) {
		enrollment, err = s.enrollments.CreateIfAbsent(ctx, userID, trackID)
	}
	if err != nil {
		return nil, err
	}

	if !enrollment.HasLesson(lessonID) {
		enrollment.CompletedLessons = append(enrollment.CompletedLessons, lessonID)
	}
	enrollment.LastAccessedAt = time.Now().UTC()
	if err := s.enrollments.Update(ctx, enrollment); err != nil {
		return nil, fmt.Errorf("update enrollment: %w", err)
	}

	s.publish(ctx, notify.Event{
		Kind:    notify.ProgressUpdated,
		UserID:  userID.String(),
		TrackID: trackID,
	})

	if coversAll(enrollment.CompletedLessons, lessonIDs) {
		if err := s.issueCertificate(ctx, userID, trackID); err != nil {
			return nil, err
		}
	}

	return enrollment, nil
}

func (s *Service) issueCertificate(ctx context.Context, userID uuid.UUID, trackID string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("load user for certificate: %w", err)
	}
	track, err := s.tracks.GetByID(ctx, trackID)
	if err != nil {
		return fmt.Errorf("load track for certificate: %w", err)
	}

	cert, err := s.certs.Issue(ctx, userID, trackID, track.Title, user.DisplayName)
	if err != nil {
		return fmt.Errorf("issue certificate: %w", err)
	}

	if err := s.activities.Append(ctx, &domain.Activity{
		UserID:  userID,
		Kind:    domain.ActivityCertificateIssued,
		TrackID: trackID,
		Label:   "Completed " + track.Title,
	}); err != nil {
		s.log.Warn("certificate activity write failed", "error", err)
	}

	s.publish(ctx, notify.Event{
		Kind:          notify.CertificateIssued,
		UserID:        userID.String(),
		TrackID:       trackID,
		CertificateID: cert.ID.String(),
	})
	return nil
}

func (s *Service) publish(ctx context.Context, ev notify.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, ev); err != nil {
		s.log.Warn("event publish failed", "kind", ev.Kind, "error", err)
	}
}

// coversAll reports whether completed contains every id in required.
// Size alone is not enough; membership is checked.
func coversAll(completed, required []string) bool {
	if len(required) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(completed))
	for _, id := range completed {
		set[id] = struct{}{}
	}
	for _, id := range required {
		if _, ok := set[id]; !ok {
			return false
		}
	}
	return true
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
