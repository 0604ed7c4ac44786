// Package server is the HTTP surface. Handlers stay thin: bind, call a
// service, map the result through the shared error envelope.
package server

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Kiko915/techterview-mainapp-sub001/internal/auth"
	"github.com/Kiko915/techterview-mainapp-sub001/internal/certificates"
	"github.com/Kiko915/techterview-mainapp-sub001/internal/config"
	"github.com/Kiko915/techterview-mainapp-sub001/internal/interview"
	"github.com/Kiko915/techterview-mainapp-sub001/internal/judge"
	"github.com/Kiko915/techterview-mainapp-sub001/internal/logger"
	"github.com/Kiko915/techterview-mainapp-sub001/internal/progress"
	"github.com/Kiko915/techterview-mainapp-sub001/internal/scrape"
	"github.com/Kiko915/techterview-mainapp-sub001/internal/speech"
	"github.com/Kiko915/techterview-mainapp-sub001/internal/store"
)

// Server bundles the services behind the HTTP handlers.
type Server struct {
	cfg config.Config
	log *logger.Logger

	auth       *auth.Service
	progress   *progress.Service
	interviews *interview.Service
	certs      *certificates.Service
	tracks     store.TrackRepo
	activities store.ActivityRepo
	judge      *judge.Client
	speech     *speech.Minter
	postings   *scrape.Fetcher
}

func New(
	cfg config.Config,
	log *logger.Logger,
	authSvc *auth.Service,
	progressSvc *progress.Service,
	interviewSvc *interview.Service,
	certSvc *certificates.Service,
	tracks store.TrackRepo,
	activities store.ActivityRepo,
	judgeClient *judge.Client,
	minter *speech.Minter,
	postings *scrape.Fetcher,
) *Server {
	return &Server{
		cfg:        cfg,
		log:        log.With("component", "server"),
		auth:       authSvc,
		progress:   progressSvc,
		interviews: interviewSvc,
		certs:      certSvc,
		tracks:     tracks,
		activities: activities,
		judge:      judgeClient,
		speech:     minter,
		postings:   postings,
	}
}

// Router builds the gin engine with the full route table.
func (s *Server) Router() *gin.Engine {
	if s.cfg.Mode == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.requestLog())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{s.cfg.PublicOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/healthz", s.handleHealthz)

	api := r.Group("/api")
	{
		api.POST("/auth/register", s.handleRegister)
		api.POST("/auth/login", s.handleLogin)

		// Certificate verification is public: the id is the capability
		// and anyone holding the link may check it.
		api.GET("/verify/:id", s.handleVerifyCertificate)

		authed := api.Group("", s.requireAuth())
		{
			authed.GET("/me", s.handleMe)
			authed.PATCH("/me", s.handleUpdateProfile)
			authed.GET("/me/activity", s.handleListActivity)

			authed.GET("/tracks", s.handleListTracks)
			authed.GET("/tracks/:id", s.handleGetTrack)

			authed.POST("/tracks/:id/join", s.handleJoinTrack)
			authed.GET("/enrollments", s.handleListEnrollments)
			authed.GET("/tracks/:id/enrollment", s.handleGetEnrollment)
			authed.POST("/tracks/:id/lessons/:lessonId/complete", s.handleCompleteLesson)

			authed.POST("/interviews", s.handleStartInterview)
			authed.GET("/interviews", s.handleListInterviews)
			authed.GET("/interviews/:id", s.handleGetInterview)
			authed.POST("/interviews/:id/turns", s.handleAppendTurn)
			authed.POST("/interviews/:id/next", s.handleNextTurn)
			authed.POST("/interviews/:id/end", s.handleEndInterview)
			authed.POST("/interviews/:id/feedback", s.handleGenerateFeedback)

			authed.POST("/mentor/chat", s.handleMentorChat)

			authed.POST("/judge/run", s.handleJudgeRun)
			authed.POST("/judge/check", s.handleJudgeCheck)

			authed.POST("/resume/extract", s.handleResumeExtract)
			authed.POST("/postings/fetch", s.handleFetchPosting)
			authed.POST("/speech/token", s.handleSpeechToken)

			authed.GET("/certificates", s.handleListCertificates)
			authed.GET("/certificates/:id/image", s.handleCertificateImage)
			authed.GET("/certificates/:id/download", s.handleCertificateDownload)
		}
	}

	return r
}

func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"latencyMs", time.Since(start).Milliseconds(),
		)
	}
}

func (s *Server) handleHealthz(c *gin.Context) {
	c.JSON(200, gin.H{"status": "ok"})
}
