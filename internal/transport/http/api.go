package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"live-quiz-service/internal/app"
	"live-quiz-service/internal/domain"
)

// API serves the request/response side of the quiz service.
type API struct {
	service *app.QuizService
	log     zerolog.Logger
}

func NewAPI(service *app.QuizService, log zerolog.Logger) *API {
	return &API{
		service: service,
		log:     log.With().Str("component", "api").Logger(),
	}
}

type createQuizRequest struct {
	Title     string            `json:"title"`
	Questions []domain.Question `json:"questions"`
}

type createQuizResponse struct {
	QuizID  string `json:"quizId"`
	PinCode string `json:"pinCode"`
}

type createSessionRequest struct {
	QuizID string `json:"quizId" binding:"required"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// RouterConfig carries the handlers and settings mounted by NewRouter.
type RouterConfig struct {
	API            *API
	WS             *WSHandler
	Metrics        http.Handler
	AllowedOrigins []string
	Log            zerolog.Logger
}

// NewRouter builds the gin engine with the API, websocket and operational routes.
func NewRouter(c RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(c.Log), corsMiddleware(c.AllowedOrigins))

	r.GET("/healthz", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, "ok")
	})
	if c.Metrics != nil {
		r.GET("/metrics", gin.WrapH(c.Metrics))
	}
	if c.WS != nil {
		r.GET("/ws", gin.WrapF(c.WS.ServeWS))
	}

	api := r.Group("/api")
	api.GET("/quizzes", c.API.ListQuizzes)
	api.POST("/quizzes", c.API.CreateQuiz)
	api.POST("/sessions", c.API.CreateSession)
	api.GET("/sessions/:pin", c.API.GetSession)
	return r
}

func (a *API) ListQuizzes(c *gin.Context) {
	quizzes, err := a.service.ListQuizzes(c.Request.Context())
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, quizzes)
}

// CreateQuiz stores a quiz and opens a session for it.
func (a *API) CreateQuiz(c *gin.Context) {
	var req createQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: domain.UserMessage(domain.ErrInvalidQuizData)})
		return
	}
	quizID, pin, err := a.service.HostQuiz(c.Request.Context(), req.Title, req.Questions)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, createQuizResponse{QuizID: quizID, PinCode: pin})
}

// CreateSession opens another session for an existing quiz.
func (a *API) CreateSession(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: domain.UserMessage(domain.ErrInvalidPayload)})
		return
	}
	pin, err := a.service.CreateSession(c.Request.Context(), req.QuizID)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, createQuizResponse{QuizID: req.QuizID, PinCode: pin})
}

func (a *API) GetSession(c *gin.Context) {
	snapshot, err := a.service.Snapshot(c.Request.Context(), c.Param("pin"))
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func (a *API) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		a.log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	}
	c.JSON(status, errorResponse{Error: domain.UserMessage(err)})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidQuizData):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrQuizNotFound), errors.Is(err, domain.ErrInvalidPin):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrPinSpaceExhausted):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}
	if len(allowedOrigins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = allowedOrigins
	}
	return cors.New(cfg)
}

func requestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("http request")
	}
}
