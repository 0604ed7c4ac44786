package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kiko915/techterview-mainapp-sub001/internal/auth"
	"github.com/Kiko915/techterview-mainapp-sub001/internal/certificates"
	"github.com/Kiko915/techterview-mainapp-sub001/internal/config"
	"github.com/Kiko915/techterview-mainapp-sub001/internal/domain"
	"github.com/Kiko915/techterview-mainapp-sub001/internal/interview"
	"github.com/Kiko915/techterview-mainapp-sub001/internal/judge"
	"github.com/Kiko915/techterview-mainapp-sub001/internal/llm"
	"github.com/Kiko915/techterview-mainapp-sub001/internal/logger"
	"github.com/Kiko915/techterview-mainapp-sub001/internal/notify"
	"github.com/Kiko915/techterview-mainapp-sub001/internal/progress"
	"github.com/Kiko915/techterview-mainapp-sub001/internal/scrape"
	"github.com/Kiko915/techterview-mainapp-sub001/internal/speech"
	"github.com/Kiko915/techterview-mainapp-sub001/internal/store"
)

type testEnv struct {
	router *gin.Engine
	store  *store.Store
	mock   *llm.MockProvider
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st, err := store.OpenTest()
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	cfg := config.Config{
		Mode:         "dev",
		PublicOrigin: "http://localhost:3000",
		Auth:         config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTL: time.Hour},
		Judge:        config.JudgeConfig{BaseURL: "http://127.0.0.1:0", Timeout: time.Second},
	}

	log := logger.NewNop()
	mock := llm.NewMockProvider()
	bus := notify.NopPublisher{}

	certSvc := certificates.NewService(st.Certificates(), cfg.PublicOrigin, log)
	progressSvc := progress.NewService(st.Enrollments(), st.Tracks(), st.Users(), st.Activities(), certSvc, bus, log)
	interviewSvc := interview.NewService(st.Interviews(), mock, progressSvc, interview.DefaultConfig(), log)
	authSvc := auth.NewService(st.Users(), bus, cfg.Auth, log)

	srv := New(
		cfg, log,
		authSvc, progressSvc, interviewSvc, certSvc,
		st.Tracks(), st.Activities(),
		judge.NewClient(cfg.Judge, log),
		speech.NewMinter(cfg.Speech, log),
		scrape.NewFetcher(),
	)

	return &testEnv{router: srv.Router(), store: st, mock: mock}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) register(t *testing.T, email string) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":       email,
		"password":    "correcthorse",
		"displayName": "Ada Lovelace",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func (e *testEnv) seedTrack(t *testing.T) {
	t.Helper()
	track := &domain.Track{
		ID:    "backend-101",
		Title: "Backend Engineering",
		Modules: []domain.Module{
			{
				ID:    "m1",
				Title: "Fundamentals",
				Lessons: []domain.Lesson{
					{ID: "l1", Title: "HTTP Basics"},
					{ID: "l2", Title: "Final Gate", Position: 1},
				},
			},
		},
	}
	require.NoError(t, e.store.Tracks().Upsert(context.Background(), track))
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthRequired(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodGet, "/api/me", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterLoginMe(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "ada@example.com")

	w := env.do(t, http.MethodGet, "/api/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var user domain.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
	assert.Equal(t, "ada@example.com", user.Email)

	w = env.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "ada@example.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"email": "ada@example.com", "password": "correcthorse", "displayName": "Twin",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestVerifyUnknownCertificate(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/verify/"+uuid.NewString(), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body["error"])

	w = env.do(t, http.MethodGet, "/api/verify/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCompletionFlowOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	env.seedTrack(t)
	token := env.register(t, "ada@example.com")

	w := env.do(t, http.MethodPost, "/api/tracks/backend-101/join", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(t, http.MethodPost, "/api/tracks/backend-101/lessons/l1/complete", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// No certificate until the track is fully covered.
	w = env.do(t, http.MethodGet, "/api/certificates", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Certificates []domain.Certificate `json:"certificates"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Empty(t, list.Certificates)

	w = env.do(t, http.MethodPost, "/api/tracks/backend-101/lessons/l2/complete", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(t, http.MethodGet, "/api/certificates", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Certificates, 1)
	cert := list.Certificates[0]
	assert.Equal(t, "Backend Engineering", cert.TrackTitle)

	// Public verification needs no token.
	w = env.do(t, http.MethodGet, "/api/verify/"+cert.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var verify struct {
		Valid bool `json:"valid"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &verify))
	assert.True(t, verify.Valid)

	// The rendered image is only served to the owner.
	w = env.do(t, http.MethodGet, "/api/certificates/"+cert.ID.String()+"/image", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))

	other := env.register(t, "eve@example.com")
	w = env.do(t, http.MethodGet, "/api/certificates/"+cert.ID.String()+"/image", other, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestInterviewFeedbackOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "ada@example.com")

	w := env.do(t, http.MethodPost, "/api/interviews", token, gin.H{"targetRole": "Backend Engineer"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var iv domain.Interview
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &iv))

	w = env.do(t, http.MethodPost, "/api/interviews/"+iv.ID.String()+"/turns", token, gin.H{"text": "I would shard by user id."})
	require.Equal(t, http.StatusOK, w.Code)

	// Feedback before the session ends conflicts.
	w = env.do(t, http.MethodPost, "/api/interviews/"+iv.ID.String()+"/feedback", token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(t, http.MethodPost, "/api/interviews/"+iv.ID.String()+"/end", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	env.mock.AddResponse(llm.MockResponse{Content: json.RawMessage(`{
		"score": 72,
		"summary": "Solid fundamentals.",
		"strengths": ["a", "b", "c"],
		"improvements": ["x", "y", "z"]
	}`)})

	w = env.do(t, http.MethodPost, "/api/interviews/"+iv.ID.String()+"/feedback", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var fb domain.Feedback
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fb))
	assert.Equal(t, 72, fb.Score)

	// Second request reuses the stored feedback; the empty mock queue would
	// fail if another model call happened.
	w = env.do(t, http.MethodPost, "/api/interviews/"+iv.ID.String()+"/feedback", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, env.mock.CallCount())

	// Another user cannot touch the interview.
	other := env.register(t, "eve@example.com")
	w = env.do(t, http.MethodGet, "/api/interviews/"+iv.ID.String(), other, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSpeechTokenUnconfigured(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "ada@example.com")

	w := env.do(t, http.MethodPost, "/api/speech/token", token, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
