package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/alimikegami/point-of-sales/storefront-service/internal/session"
	"github.com/alimikegami/point-of-sales/storefront-service/pkg/errs"
	"github.com/alimikegami/point-of-sales/storefront-service/pkg/response"
	"github.com/alimikegami/point-of-sales/storefront-service/pkg/utils"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

const (
	SessionTokenHeader = "X-Session-Token"
	SessionCookieName  = "storefront_session"

	sessionContextKey = "session"
)

// SessionManager binds requests to a storefront session. A request without a
// token gets a fresh session; a request carrying a bad or expired token is
// rejected.
type SessionManager struct {
	registry  *session.Registry
	jwtSecret string
	ttl       time.Duration
}

func CreateSessionManager(registry *session.Registry, jwtSecret string, ttl time.Duration) *SessionManager {
	return &SessionManager{
		registry:  registry,
		jwtSecret: jwtSecret,
		ttl:       ttl,
	}
}

func (m *SessionManager) Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := requestToken(c)
		if token == "" {
			if _, _, err := m.Issue(c); err != nil {
				log.Ctx(c.Request().Context()).Error().Err(err).Str("component", "SessionManager").Msg("")
				return response.WriteErrorResponse(c, errs.ErrInternalServer, nil)
			}

			return next(c)
		}

		sessionID, err := utils.ParseSessionToken(token, m.jwtSecret)
		if err != nil {
			log.Ctx(c.Request().Context()).Warn().Err(err).Str("component", "SessionManager").Msg("rejected session token")
			return response.WriteErrorResponse(c, errs.ErrInvalidSession, nil)
		}

		c.Set(sessionContextKey, m.registry.Get(sessionID))

		return next(c)
	}
}

// Issue starts a new session, attaches it to the request and hands its token to
// the client through both the response header and a cookie.
func (m *SessionManager) Issue(c echo.Context) (*session.Session, string, error) {
	s := m.registry.NewSession()

	token, err := utils.CreateSessionToken(s.ID, m.ttl, m.jwtSecret)
	if err != nil {
		return nil, "", err
	}

	c.Response().Header().Set(SessionTokenHeader, token)
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	c.Set(sessionContextKey, s)

	return s, token, nil
}

func (m *SessionManager) TTL() time.Duration {
	return m.ttl
}

// FromContext returns the session bound by SessionManager.Middleware.
func FromContext(c echo.Context) *session.Session {
	s, _ := c.Get(sessionContextKey).(*session.Session)
	return s
}

func requestToken(c echo.Context) string {
	if token := strings.TrimSpace(c.Request().Header.Get(SessionTokenHeader)); token != "" {
		return strings.TrimPrefix(token, "Bearer ")
	}

	if cookie, err := c.Cookie(SessionCookieName); err == nil {
		return cookie.Value
	}

	return ""
}
