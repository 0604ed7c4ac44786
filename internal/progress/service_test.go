package progress

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kiko915/techterview-mainapp-sub001/internal/certificates"
	"github.com/Kiko915/techterview-mainapp-sub001/internal/domain"
	"github.com/Kiko915/techterview-mainapp-sub001/internal/logger"
	"github.com/Kiko915/techterview-mainapp-sub001/internal/notify"
	"github.com/Kiko915/techterview-mainapp-sub001/internal/store"
)

// captureBus records published events for assertions.
type captureBus struct {
	mu     sync.Mutex
	events []notify.Event
}

func (b *captureBus) Publish(_ context.Context, ev notify.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, ev)
	return nil
}

func (b *captureBus) Close() error { return nil }

func (b *captureBus) countKind(kind string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, ev := range b.events {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

type fixture struct {
	svc    *Service
	store  *store.Store
	bus    *captureBus
	userID uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st, err := store.OpenTest()
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	ctx := context.Background()
	user := &domain.User{
		ID:           uuid.New(),
		Email:        "ada@example.com",
		PasswordHash: "x",
		DisplayName:  "Ada Lovelace",
		Role:         domain.RoleCandidate,
	}
	require.NoError(t, st.Users().Create(ctx, user))

	track := &domain.Track{
		ID:    "backend-101",
		Title: "Backend Engineering",
		Modules: []domain.Module{
			{
				ID:    "m1",
				Title: "Fundamentals",
				Lessons: []domain.Lesson{
					{ID: "l1", Title: "HTTP Basics", Position: 0},
					{ID: "l2", Title: "Databases", Position: 1},
					{ID: "l3", Title: "Final Gate", Position: 2},
				},
			},
		},
	}
	require.NoError(t, st.Tracks().Upsert(ctx, track))

	bus := &captureBus{}
	log := logger.NewNop()
	certSvc := certificates.NewService(st.Certificates(), "http://localhost:3000", log)
	svc := NewService(st.Enrollments(), st.Tracks(), st.Users(), st.Activities(), certSvc, bus, log)

	return &fixture{svc: svc, store: st, bus: bus, userID: user.ID}
}

func TestJoinTrackIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.JoinTrack(ctx, f.userID, "backend-101")
	require.NoError(t, err)
	second, err := f.svc.JoinTrack(ctx, f.userID, "backend-101")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
}

func TestJoinUnknownTrack(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.JoinTrack(context.Background(), f.userID, "no-such-track")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCompleteLessonUnion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	e, err := f.svc.CompleteLesson(ctx, f.userID, "backend-101", "l1", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"l1"}, e.CompletedLessons)

	// Repeats collapse into the existing set.
	e, err = f.svc.CompleteLesson(ctx, f.userID, "backend-101", "l1", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"l1"}, e.CompletedLessons)

	e, err = f.svc.CompleteLesson(ctx, f.userID, "backend-101", "l2", "")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"l1", "l2"}, e.CompletedLessons)
}

func TestCompleteLessonRejectsForeignLesson(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CompleteLesson(context.Background(), f.userID, "backend-101", "not-a-lesson", "")
	assert.Error(t, err)
}

func TestCompleteLessonEnrollsOnDemand(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// No JoinTrack call first; completing a lesson creates the enrollment.
	e, err := f.svc.CompleteLesson(ctx, f.userID, "backend-101", "l1", "")
	require.NoError(t, err)
	assert.Equal(t, f.userID, e.UserID)
	assert.Equal(t, []string{"l1"}, e.CompletedLessons)
}

func TestFullCompletionIssuesOneCertificate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CompleteLesson(ctx, f.userID, "backend-101", "l1", "")
	require.NoError(t, err)
	_, err = f.svc.CompleteLesson(ctx, f.userID, "backend-101", "l2", "")
	require.NoError(t, err)

	// Not complete yet.
	n, err := f.store.Certificates().CountByPair(ctx, f.userID, "backend-101")
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	// Final lesson crosses the threshold.
	_, err = f.svc.CompleteLesson(ctx, f.userID, "backend-101", "l3", "")
	require.NoError(t, err)

	n, err = f.store.Certificates().CountByPair(ctx, f.userID, "backend-101")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	cert, err := f.store.Certificates().GetByPair(ctx, f.userID, "backend-101")
	require.NoError(t, err)
	assert.Equal(t, "Backend Engineering", cert.TrackTitle)
	assert.Equal(t, "Ada Lovelace", cert.UserName)

	// Re-completing the final lesson does not issue again.
	_, err = f.svc.CompleteLesson(ctx, f.userID, "backend-101", "l3", "")
	require.NoError(t, err)

	n, err = f.store.Certificates().CountByPair(ctx, f.userID, "backend-101")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	assert.Equal(t, 1, f.bus.countKind(notify.CertificateIssued))
}

func TestProgressEventsPublished(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CompleteLesson(context.Background(), f.userID, "backend-101", "l1", "")
	require.NoError(t, err)

	assert.Equal(t, 1, f.bus.countKind(notify.ProgressUpdated))
}

func TestCoversAll(t *testing.T) {
	assert.False(t, coversAll(nil, nil))
	assert.False(t, coversAll([]string{"l1"}, nil))
	assert.False(t, coversAll([]string{"l1"}, []string{"l1", "l2"}))
	assert.True(t, coversAll([]string{"l2", "l1"}, []string{"l1", "l2"}))
	// Extra members do not matter.
	assert.True(t, coversAll([]string{"l1", "l2", "stale"}, []string{"l1", "l2"}))
}
