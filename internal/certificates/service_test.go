package certificates

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kiko915/techterview-mainapp-sub001/internal/logger"
	"github.com/Kiko915/techterview-mainapp-sub001/internal/store"
)

func newTestService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	st, err := store.OpenTest()
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return NewService(st.Certificates(), "http://localhost:3000", logger.NewNop()), st
}

func TestIssueIsIdempotent(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	first, err := svc.Issue(ctx, userID, "backend-101", "Backend Engineering", "Ada Lovelace")
	require.NoError(t, err)

	second, err := svc.Issue(ctx, userID, "backend-101", "Backend Engineering", "Ada Lovelace")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.True(t, first.IssuedAt.Equal(second.IssuedAt))

	n, err := st.Certificates().CountByPair(ctx, userID, "backend-101")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestIssueFreezesSnapshots(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	first, err := svc.Issue(ctx, userID, "backend-101", "Backend Engineering", "Ada Lovelace")
	require.NoError(t, err)

	// A later attempt with renamed track and user still returns the original
	// snapshots.
	again, err := svc.Issue(ctx, userID, "backend-101", "Backend Engineering v2", "A. Lovelace")
	require.NoError(t, err)

	assert.Equal(t, first.TrackTitle, again.TrackTitle)
	assert.Equal(t, "Backend Engineering", again.TrackTitle)
	assert.Equal(t, "Ada Lovelace", again.UserName)
}

func TestIssueConcurrent(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	const workers = 8
	ids := make([]uuid.UUID, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cert, err := svc.Issue(ctx, userID, "algo-201", "Algorithms", "Grace Hopper")
			if err != nil {
				errs[i] = err
				return
			}
			ids[i] = cert.ID
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}

	n, err := st.Certificates().CountByPair(ctx, userID, "algo-201")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestIDForIsDeterministic(t *testing.T) {
	userID := uuid.New()
	assert.Equal(t, IDFor(userID, "t1"), IDFor(userID, "t1"))
	assert.NotEqual(t, IDFor(userID, "t1"), IDFor(userID, "t2"))
	assert.NotEqual(t, IDFor(uuid.New(), "t1"), IDFor(userID, "t1"))
}

func TestVerify(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	cert, err := svc.Issue(ctx, userID, "backend-101", "Backend Engineering", "Ada Lovelace")
	require.NoError(t, err)

	got, err := svc.Verify(ctx, cert.ID)
	require.NoError(t, err)
	assert.Equal(t, cert.ID, got.ID)
	assert.Equal(t, "Backend Engineering", got.TrackTitle)
	assert.Equal(t, "Ada Lovelace", got.UserName)

	_, err = svc.Verify(ctx, uuid.New())
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestGetEnforcesOwnership(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	owner := uuid.New()

	cert, err := svc.Issue(ctx, owner, "backend-101", "Backend Engineering", "Ada Lovelace")
	require.NoError(t, err)

	got, err := svc.Get(ctx, owner, cert.ID)
	require.NoError(t, err)
	assert.Equal(t, cert.ID, got.ID)

	// Another user cannot tell this certificate apart from a missing one.
	_, err = svc.Get(ctx, uuid.New(), cert.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestListForUser(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	_, err := svc.Issue(ctx, userID, "t1", "Track One", "Ada")
	require.NoError(t, err)
	_, err = svc.Issue(ctx, userID, "t2", "Track Two", "Ada")
	require.NoError(t, err)
	_, err = svc.Issue(ctx, uuid.New(), "t1", "Track One", "Grace")
	require.NoError(t, err)

	certs, err := svc.ListForUser(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, certs, 2)
	for _, c := range certs {
		assert.Equal(t, userID, c.UserID)
	}
}

func TestVerificationURL(t *testing.T) {
	svc := NewService(nil, "http://localhost:3000/", logger.NewNop())
	id := uuid.MustParse("7c9e6679-7425-40de-944b-e07fc1f90ae7")
	assert.Equal(t, "http://localhost:3000/verify/7c9e6679-7425-40de-944b-e07fc1f90ae7", svc.VerificationURL(id))
}
