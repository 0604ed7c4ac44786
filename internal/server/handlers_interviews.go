package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Kiko915/techterview-mainapp-sub001/internal/domain"
	"github.com/Kiko915/techterview-mainapp-sub001/internal/interview"
	"github.com/Kiko915/techterview-mainapp-sub001/internal/llm"
)

type startInterviewRequest struct {
	TargetRole string `json:"targetRole" binding:"required"`
	Kind       string `json:"kind"`
	TrackID    string `json:"trackId"`
	ModuleID   string `json:"moduleId"`
	LessonID   string `json:"lessonId"`
}

func (s *Server) handleStartInterview(c *gin.Context) {
	var req startInterviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "targetRole is required")
		return
	}

	iv, err := s.interviews.Start(c.Request.Context(), currentUserID(c), interview.StartInput{
		TargetRole: req.TargetRole,
		Kind:       domain.InterviewKind(req.Kind),
		TrackID:    req.TrackID,
		ModuleID:   req.ModuleID,
		LessonID:   req.LessonID,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, iv)
}

func (s *Server) handleListInterviews(c *gin.Context) {
	items, err := s.interviews.ListForUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"interviews": items})
}

func interviewID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid interview id")
		return uuid.Nil, false
	}
	return id, true
}

func (s *Server) handleGetInterview(c *gin.Context) {
	id, ok := interviewID(c)
	if !ok {
		return
	}
	iv, err := s.interviews.Get(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, iv)
}

type appendTurnRequest struct {
	Text string `json:"text" binding:"required"`
}

func (s *Server) handleAppendTurn(c *gin.Context) {
	id, ok := interviewID(c)
	if !ok {
		return
	}
	var req appendTurnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "text is required")
		return
	}

	iv, err := s.interviews.AppendTurn(c.Request.Context(), currentUserID(c), id, req.Text)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, iv)
}

func (s *Server) handleNextTurn(c *gin.Context) {
	id, ok := interviewID(c)
	if !ok {
		return
	}
	iv, err := s.interviews.NextInterviewerTurn(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, iv)
}

func (s *Server) handleEndInterview(c *gin.Context) {
	id, ok := interviewID(c)
	if !ok {
		return
	}
	iv, err := s.interviews.End(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, iv)
}

func (s *Server) handleGenerateFeedback(c *gin.Context) {
	id, ok := interviewID(c)
	if !ok {
		return
	}
	fb, err := s.interviews.GenerateFeedback(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, fb)
}

type mentorChatRequest struct {
	Messages []struct {
		Role string `json:"role" binding:"required"`
		Text string `json:"text" binding:"required"`
	} `json:"messages" binding:"required,min=1"`
}

func (s *Server) handleMentorChat(c *gin.Context) {
	var req mentorChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "messages are required")
		return
	}

	history := make([]llm.Message, 0, len(req.Messages))
	for _, m := range req.Messages {
		role := llm.RoleUser
		if m.Role == "assistant" {
			role = llm.RoleAssistant
		}
		history = append(history, llm.Message{Role: role, Content: m.Text})
	}

	reply, err := s.interviews.MentorReply(c.Request.Context(), history)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
