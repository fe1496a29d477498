package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alimikegami/point-of-sales/storefront-service/internal/domain"
	"github.com/alimikegami/point-of-sales/storefront-service/internal/dto"
	"github.com/alimikegami/point-of-sales/storefront-service/internal/service"
	"github.com/alimikegami/point-of-sales/storefront-service/internal/session"
	"github.com/alimikegami/point-of-sales/storefront-service/pkg/utils"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type nopOrders struct{}

func (nopOrders) CreateOrder(context.Context, dto.OrderRequest) (domain.Order, error) {
	return domain.Order{}, nil
}
func (nopOrders) GetOrder(context.Context, string) (*domain.Order, error) { return nil, nil }
func (nopOrders) SubscribeToOrder(context.Context, string, func(*domain.Order)) func() {
	return func() {}
}
func (nopOrders) Close() {}

func newManager() (*SessionManager, *session.Registry) {
	registry := session.CreateRegistry(time.Minute, func(string) service.OrderService { return nopOrders{} })
	return CreateSessionManager(registry, testSecret, time.Minute), registry
}

func serve(m *SessionManager, req *http.Request) (*httptest.ResponseRecorder, *session.Session) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var bound *session.Session
	handler := m.Middleware(func(c echo.Context) error {
		bound = FromContext(c)
		return c.NoContent(http.StatusNoContent)
	})
	_ = handler(c)

	return rec, bound
}

func TestSessionMiddleware_IssuesSessionWithoutToken(t *testing.T) {
	m, registry := newManager()

	rec, bound := serve(m, httptest.NewRequest(http.MethodGet, "/cart", nil))
	require.NotNil(t, bound)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 1, registry.Len())

	token := rec.Header().Get(SessionTokenHeader)
	require.NotEmpty(t, token)
	sessionID, err := utils.ParseSessionToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, bound.ID, sessionID)
	assert.Contains(t, rec.Header().Get("Set-Cookie"), SessionCookieName+"="+token)
}

func TestSessionMiddleware_ReusesSessionFromHeaderAndCookie(t *testing.T) {
	m, registry := newManager()

	rec, first := serve(m, httptest.NewRequest(http.MethodGet, "/cart", nil))
	token := rec.Header().Get(SessionTokenHeader)

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set(SessionTokenHeader, token)
	_, second := serve(m, req)
	assert.Same(t, first, second)

	req = httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	_, third := serve(m, req)
	assert.Same(t, first, third)

	assert.Equal(t, 1, registry.Len())
}

func TestSessionMiddleware_RejectsBadToken(t *testing.T) {
	m, _ := newManager()

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set(SessionTokenHeader, "not-a-token")
	rec, bound := serve(m, req)

	assert.Nil(t, bound)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	foreign, err := utils.CreateSessionToken("abc", time.Minute, "other-secret")
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set(SessionTokenHeader, foreign)
	rec, _ = serve(m, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
