package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleListTracks(c *gin.Context) {
	tracks, err := s.tracks.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tracks": tracks})
}

func (s *Server) handleGetTrack(c *gin.Context) {
	track, err := s.tracks.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, track)
}

func (s *Server) handleJoinTrack(c *gin.Context) {
	enrollment, err := s.progress.JoinTrack(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, enrollment)
}

func (s *Server) handleListEnrollments(c *gin.Context) {
	enrollments, err := s.progress.ListEnrollments(c.Request.Context(), currentUserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"enrollments": enrollments})
}

func (s *Server) handleGetEnrollment(c *gin.Context) {
	enrollment, err := s.progress.GetEnrollment(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, enrollment)
}

type completeLessonRequest struct {
	Label string `json:"label"`
}

func (s *Server) handleCompleteLesson(c *gin.Context) {
	var req completeLessonRequest
	// The body is optional; a bare POST completes with an empty label.
	_ = c.ShouldBindJSON(&req)

	enrollment, err := s.progress.CompleteLesson(
		c.Request.Context(),
		currentUserID(c),
		c.Param("id"),
		c.Param("lessonId"),
		req.Label,
	)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, enrollment)
}
