package interview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Kiko915/techterview-mainapp-sub001/internal/domain"
	"github.com/Kiko915/techterview-mainapp-sub001/internal/llm"
	"github.com/Kiko915/techterview-mainapp-sub001/internal/logger"
	"github.com/Kiko915/techterview-mainapp-sub001/internal/store"
)

var (
	// ErrUnauthorized means the acting user does not own the interview. It
	// short-circuits before any of the record's content is returned.
	ErrUnauthorized = errors.New("interview does not belong to this user")

	// ErrNotEnded means feedback was requested before the session finished.
	ErrNotEnded = errors.New("interview has not ended")

	// ErrEnded means a transcript mutation arrived after the session ended.
	ErrEnded = errors.New("interview has already ended")
)

// GateApplier receives validated feedback for gate interviews. Implemented
// by the progress package; injected to keep the dependency one-way.
type GateApplier interface {
	ApplyInterviewResult(ctx context.Context, iv *domain.Interview, fb *domain.Feedback) error
}

// Config bounds the evaluator's generation calls.
type Config struct {
	FeedbackMaxTokens int
	TurnMaxTokens     int
	Temperature       float64
}

func DefaultConfig() Config {
	return Config{
		FeedbackMaxTokens: 1024,
		TurnMaxTokens:     512,
		Temperature:       0.3,
	}
}

// Service owns interview sessions: transcript building, the mock
// interviewer, and feedback evaluation.
type Service struct {
	interviews store.InterviewRepo
	provider   llm.Provider
	gate       GateApplier
	cfg        Config
	log        *logger.Logger
}

func NewService(interviews store.InterviewRepo, provider llm.Provider, gate GateApplier, cfg Config, log *logger.Logger) *Service {
	return &Service{
		interviews: interviews,
		provider:   provider,
		gate:       gate,
		cfg:        cfg,
		log:        log.With("service", "interview"),
	}
}

// StartInput describes a new session. Gate linkage fields are only honored
// for the track_interview kind.
type StartInput struct {
	TargetRole string
	Kind       domain.InterviewKind
	TrackID    string
	ModuleID   string
	LessonID   string
}

// Start creates a new interview session owned by userID.
func (s *Service) Start(ctx context.Context, userID uuid.UUID, in StartInput) (*domain.Interview, error) {
	if in.TargetRole == "" {
		return nil, fmt.Errorf("target role is required")
	}
	kind := in.Kind
	if kind == "" {
		kind = domain.InterviewPractice
	}

	iv := &domain.Interview{
		ID:         uuid.New(),
		UserID:     userID,
		TargetRole: in.TargetRole,
		Kind:       kind,
		Transcript: []domain.Turn{},
	}
	if kind == domain.InterviewTrack {
		iv.TrackID = in.TrackID
		iv.ModuleID = in.ModuleID
		iv.LessonID = in.LessonID
	}

	if err := s.interviews.Create(ctx, iv); err != nil {
		return nil, fmt.Errorf("create interview: %w", err)
	}
	return iv, nil
}

// Get returns the interview after an ownership check.
func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*domain.Interview, error) {
	return s.owned(ctx, userID, id)
}

// ListForUser returns the user's interviews, newest first.
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Interview, error) {
	return s.interviews.ListByUser(ctx, userID)
}

// AppendTurn adds one candidate utterance to a running session.
func (s *Service) AppendTurn(ctx context.Context, userID, id uuid.UUID, text string) (*domain.Interview, error) {
	iv, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if iv.Ended() {
		return nil, ErrEnded
	}

	iv.Transcript = append(iv.Transcript, domain.Turn{Role: domain.TurnCandidate, Text: text})
	if err := s.interviews.Update(ctx, iv); err != nil {
		return nil, fmt.Errorf("append turn: %w", err)
	}
	return iv, nil
}

// NextInterviewerTurn asks the model for the interviewer's next utterance
// and appends it to the transcript.
func (s *Service) NextInterviewerTurn(ctx context.Context, userID, id uuid.UUID) (*domain.Interview, error) {
	iv, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if iv.Ended() {
		return nil, ErrEnded
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeInterviewer)
	resp, err := s.provider.Generate(ctx, llm.Request{
		System:      interviewerSystemPrompt + "\n\nTarget role: " + iv.TargetRole,
		Messages:    transcriptMessages(iv.Transcript),
		MaxTokens:   s.cfg.TurnMaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("interviewer turn: %w", err)
	}

	iv.Transcript = append(iv.Transcript, domain.Turn{Role: domain.TurnInterviewer, Text: resp.Text()})
	if err := s.interviews.Update(ctx, iv); err != nil {
		return nil, fmt.Errorf("store interviewer turn: %w", err)
	}
	return iv, nil
}

// End marks the session finished. Feedback generation requires this.
func (s *Service) End(ctx context.Context, userID, id uuid.UUID) (*domain.Interview, error) {
	iv, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if iv.Ended() {
		return iv, nil
	}

	now := time.Now().UTC()
	iv.EndedAt = &now
	if err := s.interviews.Update(ctx, iv); err != nil {
		return nil, fmt.Errorf("end interview: %w", err)
	}
	return iv, nil
}

// GenerateFeedback evaluates a finished interview. Stored feedback is
// returned as-is without another model call; otherwise the full transcript
// is sent for evaluation and the result is persisted only after the whole
// object validates. On failure nothing is written and the caller may retry.
func (s *Service) GenerateFeedback(ctx context.Context, userID, id uuid.UUID) (*domain.Feedback, error) {
	iv, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if !iv.Ended() {
		return nil, ErrNotEnded
	}
	if iv.Feedback != nil {
		return iv.Feedback, nil
	}

	userMsg, err := buildFeedbackMessage(iv)
	if err != nil {
		return nil, fmt.Errorf("build feedback prompt: %w", err)
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeFeedback)
	resp, err := s.provider.Generate(ctx, llm.Request{
		System:      feedbackSystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: userMsg}},
		Schema:      FeedbackSchema,
		MaxTokens:   s.cfg.FeedbackMaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("feedback generation: %w", err)
	}

	fb, err := parseFeedback(resp.Content)
	if err != nil {
		return nil, err
	}

	iv.Feedback = fb
	if err := s.interviews.Update(ctx, iv); err != nil {
		return nil, fmt.Errorf("store feedback: %w", err)
	}

	if s.gate != nil && iv.IsGate() {
		if err := s.gate.ApplyInterviewResult(ctx, iv, fb); err != nil {
			// Feedback is already durable; gate application failing must not
			// lose it. Surface the error so the client can retry the gate.
			return fb, fmt.Errorf("apply gate result: %w", err)
		}
	}

	return fb, nil
}

// MentorReply answers one mentor-chat exchange given the prior history.
func (s *Service) MentorReply(ctx context.Context, history []llm.Message) (string, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeMentor)
	resp, err := s.provider.Generate(ctx, llm.Request{
		System:      mentorSystemPrompt,
		Messages:    history,
		MaxTokens:   s.cfg.TurnMaxTokens,
		Temperature: 0.5,
	})
	if err != nil {
		return "", fmt.Errorf("mentor reply: %w", err)
	}
	return resp.Text(), nil
}

func (s *Service) owned(ctx context.Context, userID, id uuid.UUID) (*domain.Interview, error) {
	iv, err := s.interviews.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if iv.UserID != userID {
		return nil, ErrUnauthorized
	}
	return iv, nil
}

// parseFeedback decodes and re-checks the model output. The provider already
// validates against FeedbackSchema, but the mock path and defense in depth
// both want the bounds enforced here too.
func parseFeedback(raw json.RawMessage) (*domain.Feedback, error) {
	var fb domain.Feedback
	if err := json.Unmarshal(raw, &fb); err != nil {
		return nil, &llm.ErrInvalidResponse{Content: raw, Err: fmt.Errorf("parse feedback: %w", err)}
	}
	if fb.Score < 0 || fb.Score > 100 {
		return nil, &llm.ErrInvalidResponse{Content: raw, Err: fmt.Errorf("score %d out of range", fb.Score)}
	}
	if fb.Summary == "" {
		return nil, &llm.ErrInvalidResponse{Content: raw, Err: fmt.Errorf("missing summary")}
	}
	if len(fb.Strengths) < 3 || len(fb.Strengths) > 5 {
		return nil, &llm.ErrInvalidResponse{Content: raw, Err: fmt.Errorf("strengths count %d outside 3..5", len(fb.Strengths))}
	}
	if len(fb.Improvements) < 3 || len(fb.Improvements) > 5 {
		return nil, &llm.ErrInvalidResponse{Content: raw, Err: fmt.Errorf("improvements count %d outside 3..5", len(fb.Improvements))}
	}
	return &fb, nil
}

func transcriptMessages(transcript []domain.Turn) []llm.Message {
	if len(transcript) == 0 {
		return []llm.Message{{Role: llm.RoleUser, Content: "Begin the interview with your first question."}}
	}
	out := make([]llm.Message, len(transcript))
	for i, t := range transcript {
		role := llm.RoleUser
		if t.Role == domain.TurnInterviewer {
			role = llm.RoleAssistant
		}
		out[i] = llm.Message{Role: role, Content: t.Text}
	}
	return out
}
