package server

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Kiko915/techterview-mainapp-sub001/internal/judge"
	"github.com/Kiko915/techterview-mainapp-sub001/internal/resume"
)

type judgeRunRequest struct {
	Language string `json:"language" binding:"required"`
	Version  string `json:"version"`
	Code     string `json:"code" binding:"required"`
	Stdin    string `json:"stdin"`
}

func (s *Server) handleJudgeRun(c *gin.Context) {
	var req judgeRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "language and code are required")
		return
	}

	result, err := s.judge.Run(c.Request.Context(), judge.RunInput{
		Language: req.Language,
		Version:  req.Version,
		Code:     req.Code,
		Stdin:    req.Stdin,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type judgeCheckRequest struct {
	judgeRunRequest
	Marker string `json:"marker" binding:"required"`
}

func (s *Server) handleJudgeCheck(c *gin.Context) {
	var req judgeCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "language, code, and marker are required")
		return
	}

	passed, result, err := s.judge.CheckSolution(c.Request.Context(), judge.RunInput{
		Language: req.Language,
		Version:  req.Version,
		Code:     req.Code,
		Stdin:    req.Stdin,
	}, req.Marker)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"passed": passed, "result": result})
}

func (s *Server) handleResumeExtract(c *gin.Context) {
	file, _, err := c.Request.FormFile("resume")
	if err != nil {
		badRequest(c, "multipart field 'resume' is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, resume.MaxUploadBytes+1))
	if err != nil {
		fail(c, err)
		return
	}

	text, err := resume.ExtractText(data)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": text})
}

type fetchPostingRequest struct {
	URL string `json:"url" binding:"required"`
}

func (s *Server) handleFetchPosting(c *gin.Context) {
	var req fetchPostingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "url is required")
		return
	}

	posting, err := s.postings.Fetch(c.Request.Context(), req.URL)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, posting)
}

func (s *Server) handleSpeechToken(c *gin.Context) {
	token, err := s.speech.Mint(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, token)
}
