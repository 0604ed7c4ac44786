package progress

import (
	"context"
	"fmt"

	"github.com/Kiko915/techterview-mainapp-sub001/internal/domain"
)

// PassingScore is the inclusive gate threshold: a score of exactly 50
// passes. Retakes below it are unlimited, with no cool-down.
const PassingScore = 50

// Passed reports whether score clears the gate.
func Passed(score int) bool {
	return score >= PassingScore
}

// ApplyInterviewResult advances progress for a passed gate interview.
// Failing scores mutate nothing. Implements the interview package's
// GateApplier.
func (s *Service) ApplyInterviewResult(ctx context.Context, iv *domain.Interview, fb *domain.Feedback) error {
	if !iv.IsGate() || fb == nil {
		return nil
	}
	if !Passed(fb.Score) {
		return nil
	}

	label := fmt.Sprintf("Passed gate interview for %s (score %d)", iv.TargetRole, fb.Score)
	if err := s.activities.Append(ctx, &domain.Activity{
		UserID:   iv.UserID,
		Kind:     domain.ActivityGatePassed,
		TrackID:  iv.TrackID,
		LessonID: iv.LessonID,
		Label:    label,
	}); err != nil {
		return fmt.Errorf("record gate pass: %w", err)
	}

	_, err := s.CompleteLesson(ctx, iv.UserID, iv.TrackID, iv.LessonID, label)
	return err
}
