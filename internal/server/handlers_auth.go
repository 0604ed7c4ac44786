package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Kiko915/techterview-mainapp-sub001/internal/auth"
	"github.com/Kiko915/techterview-mainapp-sub001/internal/domain"
)

type registerRequest struct {
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"displayName" binding:"required"`
	Role        string `json:"role"`
}

type sessionResponse struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

func (s *Server) handleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "email, password, and displayName are required")
		return
	}

	user, token, err := s.auth.Register(c.Request.Context(), auth.RegisterInput{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		Role:        domain.Role(req.Role),
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, sessionResponse{User: user, Token: token})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "email and password are required")
		return
	}

	user, token, err := s.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse{User: user, Token: token})
}

func (s *Server) handleMe(c *gin.Context) {
	user, err := s.auth.GetUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

type updateProfileRequest struct {
	DisplayName         *string `json:"displayName"`
	OnboardingCompleted *bool   `json:"onboardingCompleted"`
}

func (s *Server) handleUpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid profile payload")
		return
	}

	user, err := s.auth.UpdateProfile(c.Request.Context(), currentUserID(c), auth.UpdateProfileInput{
		DisplayName:         req.DisplayName,
		OnboardingCompleted: req.OnboardingCompleted,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (s *Server) handleListActivity(c *gin.Context) {
	items, err := s.activities.ListByUser(c.Request.Context(), currentUserID(c), 50)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"activities": items})
}
