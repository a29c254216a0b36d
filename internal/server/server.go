package server

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agenthands/confirm/internal/authapi"
	"github.com/agenthands/confirm/internal/config"
	"github.com/agenthands/confirm/internal/confirm"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type Server struct {
	Config        *config.Config
	Confirmations *confirm.Registry
	Logger        *zap.SugaredLogger

	// RequestID generates IDs for requests that arrive without one.
	RequestID func() string
}

func NewServer(cfg *config.Config, confirmer authapi.Confirmer, logger *zap.SugaredLogger) *Server {
	return &Server{
		Config:        cfg,
		Confirmations: confirm.NewRegistry(confirmer, logger),
		Logger:        logger,
		RequestID:     uuid.NewString,
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.New()
	r.UseRawPath = true
	r.UnescapePathValues = true
	r.SetHTMLTemplate(pages)

	r.Use(requestID(s.RequestID))
	r.Use(requestLogger(s.Logger))
	r.Use(gin.Recovery())

	r.GET("/confirm/:token", s.ConfirmPage)
	r.POST("/confirm/:token", s.Confirm)
	r.GET("/success", s.SuccessPage)
	r.GET("/error", s.ErrorPage)
	r.GET("/health", s.Health)

	return r
}

// Run serves until ctx is cancelled, then drains in-flight requests for
// at most the configured shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	// No WriteTimeout: a confirmation waits on the authentication service
	// for as long as it takes.
	srv := &http.Server{
		Addr:              s.Config.Server.Addr,
		Handler:           s.SetupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		s.Logger.Infow("server has started", "addr", s.Config.Server.Addr, "auth_api", s.Config.AuthAPI.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.Logger.Infow("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.Config.ShutdownTimeout())
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.Logger.Infow("server stopped")
	return nil
}

type pageData struct {
	Title   string
	Action  string
	Loading bool
}

func confirmPath(token string) string {
	return "/confirm/" + url.PathEscape(token)
}

func (s *Server) ConfirmPage(c *gin.Context) {
	token := c.Param("token")
	c.HTML(http.StatusOK, "confirm.html", pageData{
		Title:   "Confirm Your Account",
		Action:  confirmPath(token),
		Loading: s.Confirmations.Loading(token),
	})
}

// Confirm is the action behind the Confirm button. The attempt is
// detached from the client connection so leaving the page does not abort
// it.
func (s *Server) Confirm(c *gin.Context) {
	token := c.Param("token")
	ctx := context.WithoutCancel(c.Request.Context())

	route, ok := s.Confirmations.Trigger(ctx, token)
	if !ok {
		c.Redirect(http.StatusSeeOther, confirmPath(token))
		return
	}
	c.Redirect(http.StatusSeeOther, string(route))
}

func (s *Server) SuccessPage(c *gin.Context) {
	c.HTML(http.StatusOK, "success.html", pageData{Title: "Account Validated"})
}

func (s *Server) ErrorPage(c *gin.Context) {
	c.HTML(http.StatusOK, "error.html", pageData{Title: "Account Validation Error"})
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"env":     s.Config.Server.Env,
		"version": s.Config.Server.Version,
	})
}
