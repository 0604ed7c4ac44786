package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role is a user's account role.
type Role string

const (
	RoleCandidate Role = "candidate"
	RoleRecruiter Role = "recruiter"
)

// User is an account record. Users are never hard-deleted; account removal
// is a manual support process outside the API.
type User struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email               string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash        string    `gorm:"not null" json:"-"`
	DisplayName         string    `gorm:"not null" json:"displayName"`
	Role                Role      `gorm:"not null;default:'candidate'" json:"role"`
	OnboardingCompleted bool      `gorm:"not null;default:false" json:"onboardingCompleted"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// Track is a named curriculum path. Content is operator-seeded and read-only
// through the API.
type Track struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description"`
	Position    int       `gorm:"not null;default:0" json:"position"`
	Modules     []Module  `gorm:"constraint:OnDelete:CASCADE" json:"modules,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Module is an ordered unit within a track.
type Module struct {
	ID       string   `gorm:"primaryKey" json:"id"`
	TrackID  string   `gorm:"index;not null" json:"trackId"`
	Title    string   `gorm:"not null" json:"title"`
	Position int      `gorm:"not null;default:0" json:"position"`
	Lessons  []Lesson `gorm:"constraint:OnDelete:CASCADE" json:"lessons,omitempty"`
}

// Lesson is the atomic curriculum unit a learner completes.
type Lesson struct {
	ID       string `gorm:"primaryKey" json:"id"`
	ModuleID string `gorm:"index;not null" json:"moduleId"`
	Title    string `gorm:"not null" json:"title"`
	Content  string `json:"content"`
	Position int    `gorm:"not null;default:0" json:"position"`
}

// Enrollment joins a user to a track. At most one row exists per
// (user, track) pair. CompletedLessons has set semantics: membership
// matters, order does not, and re-adding a member is a no-op.
type Enrollment struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           uuid.UUID `gorm:"type:uuid;index:idx_enrollment_pair,unique;not null" json:"userId"`
	TrackID          string    `gorm:"index:idx_enrollment_pair,unique;not null" json:"trackId"`
	CompletedLessons []string  `gorm:"serializer:json" json:"completedLessons"`
	LastAccessedAt   time.Time `json:"lastAccessedAt"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// HasLesson reports whether lessonID is already in the completed set.
func (e *Enrollment) HasLesson(lessonID string) bool {
	for _, id := range e.CompletedLessons {
		if id == lessonID {
			return true
		}
	}
	return false
}

// TurnRole tags a transcript turn speaker.
type TurnRole string

const (
	TurnInterviewer TurnRole = "interviewer"
	TurnCandidate   TurnRole = "candidate"
)

// Turn is one utterance in an interview transcript.
type Turn struct {
	Role TurnRole `json:"role"`
	Text string   `json:"text"`
}

// InterviewKind distinguishes free-practice sessions from lesson gates.
type InterviewKind string

const (
	InterviewPractice InterviewKind = "practice"
	InterviewTrack    InterviewKind = "track_interview"
)

// Feedback is the structured evaluation of a finished interview. It is
// written at most once; later reads reuse the stored value.
type Feedback struct {
	Score        int      `json:"score"`
	Summary      string   `json:"summary"`
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
}

// Interview is one mock-interview session. The transcript is append-only
// while the session runs; after EndedAt is set only Feedback may be written,
// and only once.
type Interview struct {
	ID         uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID     `gorm:"type:uuid;index;not null" json:"userId"`
	TargetRole string        `gorm:"not null" json:"targetRole"`
	Kind       InterviewKind `gorm:"not null;default:'practice'" json:"kind"`
	TrackID    string        `json:"trackId,omitempty"`
	ModuleID   string        `json:"moduleId,omitempty"`
	LessonID   string        `json:"lessonId,omitempty"`
	Transcript []Turn        `gorm:"serializer:json" json:"transcript"`
	Feedback   *Feedback     `gorm:"serializer:json" json:"feedback,omitempty"`
	EndedAt    *time.Time    `json:"endedAt,omitempty"`
	CreatedAt  time.Time     `json:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt"`
}

// Ended reports whether the session has logically finished.
func (i *Interview) Ended() bool {
	return i.EndedAt != nil
}

// IsGate reports whether this interview gates a track lesson.
func (i *Interview) IsGate() bool {
	return i.Kind == InterviewTrack && i.TrackID != "" && i.LessonID != ""
}

// Certificate is an immutable, publicly verifiable proof of track
// completion. TrackTitle and UserName are snapshots frozen at issuance; a
// certificate never reflects later renames. Exactly one exists per
// (user, track) pair.
type Certificate struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;index:idx_certificate_pair,unique;not null" json:"userId"`
	TrackID    string    `gorm:"index:idx_certificate_pair,unique;not null" json:"trackId"`
	TrackTitle string    `gorm:"not null" json:"trackTitle"`
	UserName   string    `gorm:"not null" json:"userName"`
	IssuedAt   time.Time `gorm:"not null" json:"issuedAt"`
}

// Activity is one row of the append-only learner activity log.
type Activity struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null" json:"userId"`
	Kind      string    `gorm:"not null" json:"kind"`
	TrackID   string    `json:"trackId,omitempty"`
	LessonID  string    `json:"lessonId,omitempty"`
	Label     string    `json:"label"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

// Activity kinds.
const (
	ActivityLessonCompleted   = "lesson_completed"
	ActivityGatePassed        = "gate_passed"
	ActivityCertificateIssued = "certificate_issued"
)

// LLMRequestLog records one call to a text-generation provider. Populated by
// the llm logging decorator; failures to write it never fail the request.
type LLMRequestLog struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Provider     string    `json:"provider"`
	Model        string    `json:"model"`
	Purpose      string    `gorm:"index" json:"purpose"`
	LatencyMs    int64     `json:"latencyMs"`
	InputTokens  int       `json:"inputTokens"`
	OutputTokens int       `json:"outputTokens"`
	Success      bool      `json:"success"`
	ErrorMessage string    `json:"errorMessage,omitempty"`
	CreatedAt    time.Time `gorm:"index" json:"createdAt"`
}
