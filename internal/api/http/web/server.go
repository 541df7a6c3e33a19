package web

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"

	domain "github.com/oshokin/thermo-slots/internal/domain/thermostat"
	"github.com/oshokin/thermo-slots/internal/logger"
	"github.com/oshokin/thermo-slots/internal/metrics"
	"github.com/oshokin/thermo-slots/internal/service/session"
)

const (
	// CookieName is the name of the browser session cookie.
	CookieName = "thermo-slots"

	// sessionIDKey is the cookie value key holding the thermostat session id.
	sessionIDKey = "sid"
)

// Service abstracts the session operations the web renderer depends on.
type Service interface {
	CreateSession(ctx context.Context) (string, domain.State, error)
	GetSnapshot(ctx context.Context, sessionID string) (domain.State, error)
	Dispatch(ctx context.Context, sessionID string, action domain.Action) (domain.State, domain.Notice, error)
}

// Server serves the panel, the JSON API and the metrics endpoint.
type Server struct {
	// service provides the session operations.
	service Service
	// store keeps the browser-to-session binding in a signed cookie.
	store sessions.Store
	// engine routes requests.
	engine *gin.Engine
}

// NewCookieStore returns a signed cookie store for the session binding.
// maxAge of zero makes the cookie last for the browser session only.
func NewCookieStore(secret []byte, maxAge time.Duration) *sessions.CookieStore {
	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(maxAge / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	return store
}

// NewServer wires service and store into a gin engine.
func NewServer(ctx context.Context, service Service, store sessions.Store) *Server {
	s := &Server{
		service: service,
		store:   store,
		engine:  gin.New(),
	}

	s.engine.Use(gin.Recovery(), accessLog(logger.WithName(ctx, "web")))
	s.engine.SetHTMLTemplate(pageTemplate)

	s.engine.GET("/", s.index)
	s.engine.POST("/actions/:action", s.formAction)
	s.engine.GET("/api/snapshot", s.apiSnapshot)
	s.engine.POST("/api/actions/:action", s.apiAction)
	s.engine.GET("/metrics", gin.WrapH(metrics.Handler()))
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	return s
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// index renders the panel and consumes pending notices.
func (s *Server) index(c *gin.Context) {
	sess, id, state, err := s.bind(c)
	if err != nil {
		s.fail(c, err)

		return
	}

	notices := fromFlashes(sess.Flashes())

	if err := sess.Save(c.Request, c.Writer); err != nil {
		s.fail(c, err)

		return
	}

	logger.DebugKV(c.Request.Context(), "Panel rendered", "session_id", id, "notices", len(notices))
	c.HTML(http.StatusOK, pageTemplateName, newPageView(state, notices))
}

// formAction applies a posted action and redirects back to the panel.
func (s *Server) formAction(c *gin.Context) {
	action, err := domain.ParseAction(c.Param("action"), c.PostForm("slot"))
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())

		return
	}

	sess, id, _, err := s.bind(c)
	if err != nil {
		s.fail(c, err)

		return
	}

	_, notice, err := s.service.Dispatch(c.Request.Context(), id, action)
	if err != nil && !errors.Is(err, session.ErrSessionNotFound) {
		s.fail(c, err)

		return
	}

	if !notice.Empty() {
		sess.AddFlash(toFlash(notice))
	}

	if err := sess.Save(c.Request, c.Writer); err != nil {
		s.fail(c, err)

		return
	}

	c.Redirect(http.StatusSeeOther, "/")
}

// snapshotResponse is the JSON form of a session snapshot.
type snapshotResponse struct {
	SessionID  string            `json:"session_id"`
	Current    int               `json:"current"`
	SavingMode bool              `json:"saving_mode"`
	Mode       string            `json:"mode"`
	Slots      map[string]*int   `json:"slots"`
	Labels     map[string]string `json:"labels"`
}

// noticeResponse is the JSON form of a notice.
type noticeResponse struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// actionResponse is the reply of the JSON action endpoint.
type actionResponse struct {
	Snapshot snapshotResponse `json:"snapshot"`
	Notice   *noticeResponse  `json:"notice,omitempty"`
}

// actionRequest is the optional body of the JSON action endpoint.
type actionRequest struct {
	Slot string `json:"slot"`
}

// apiSnapshot returns the bound session as JSON.
func (s *Server) apiSnapshot(c *gin.Context) {
	sess, id, state, err := s.bind(c)
	if err != nil {
		s.fail(c, err)

		return
	}

	if err := sess.Save(c.Request, c.Writer); err != nil {
		s.fail(c, err)

		return
	}

	c.JSON(http.StatusOK, newSnapshotResponse(id, state))
}

// apiAction applies an action and returns the new snapshot and notice as JSON.
func (s *Server) apiAction(c *gin.Context) {
	var body actionRequest
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	action, err := domain.ParseAction(c.Param("action"), body.Slot)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	sess, id, _, err := s.bind(c)
	if err != nil {
		s.fail(c, err)

		return
	}

	state, notice, err := s.service.Dispatch(c.Request.Context(), id, action)
	if err != nil {
		s.fail(c, err)

		return
	}

	if err := sess.Save(c.Request, c.Writer); err != nil {
		s.fail(c, err)

		return
	}

	response := actionResponse{Snapshot: newSnapshotResponse(id, state)}
	if !notice.Empty() {
		response.Notice = &noticeResponse{Kind: string(notice.Kind), Message: notice.Message}
	}

	c.JSON(http.StatusOK, response)
}

// bind returns the cookie session and its thermostat session, creating a
// new thermostat session when the cookie is missing, invalid or expired.
func (s *Server) bind(c *gin.Context) (*sessions.Session, string, domain.State, error) {
	ctx := c.Request.Context()

	sess, err := s.store.Get(c.Request, CookieName)
	if err != nil {
		// An undecodable cookie still yields a fresh session.
		logger.DebugKV(ctx, "Discarding session cookie", "error", err)
	}

	if sess == nil {
		sess = sessions.NewSession(s.store, CookieName)
	}

	if id, ok := sess.Values[sessionIDKey].(string); ok && id != "" {
		state, err := s.service.GetSnapshot(ctx, id)
		if err == nil {
			return sess, id, state, nil
		}

		if !errors.Is(err, session.ErrSessionNotFound) {
			return nil, "", domain.State{}, err
		}
	}

	id, state, err := s.service.CreateSession(ctx)
	if err != nil {
		return nil, "", domain.State{}, err
	}

	sess.Values[sessionIDKey] = id

	return sess, id, state, nil
}

// fail writes an error reply matching the request kind.
func (s *Server) fail(c *gin.Context, err error) {
	code := http.StatusInternalServerError
	message := "internal error"

	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		code, message = http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrUnknownAction), errors.Is(err, domain.ErrUnknownSlot):
		code, message = http.StatusBadRequest, err.Error()
	default:
		logger.ErrorKV(c.Request.Context(), "Web request failed", "path", c.FullPath(), "error", err)
	}

	c.JSON(code, gin.H{"error": message})
}

// newSnapshotResponse converts a state for the JSON API.
func newSnapshotResponse(id string, s domain.State) snapshotResponse {
	response := snapshotResponse{
		SessionID:  id,
		Current:    s.Current,
		SavingMode: s.SavingMode,
		Mode:       string(s.Mode()),
		Slots:      make(map[string]*int, len(domain.Slots())),
		Labels:     make(map[string]string, len(domain.Slots())),
	}

	for _, slotID := range domain.Slots() {
		var value *int
		if v, ok := s.Slot(slotID); ok {
			value = &v
		}

		response.Slots[string(slotID)] = value
		response.Labels[string(slotID)] = domain.Label(s, slotID)
	}

	return response
}

// accessLog logs every request through the context logger.
func accessLog(ctx context.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()

		c.Next()

		logger.DebugKV(
			ctx,
			"HTTP request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(started),
		)
	}
}
