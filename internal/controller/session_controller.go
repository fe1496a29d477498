package controller

import (
	"github.com/alimikegami/point-of-sales/storefront-service/internal/dto"
	"github.com/alimikegami/point-of-sales/storefront-service/internal/middleware"
	"github.com/alimikegami/point-of-sales/storefront-service/pkg/errs"
	"github.com/alimikegami/point-of-sales/storefront-service/pkg/response"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

type SessionController struct {
	manager *middleware.SessionManager
}

func CreateSessionController(e *echo.Group, manager *middleware.SessionManager) {
	c := SessionController{
		manager: manager,
	}

	e.POST("/sessions", c.CreateSession)
}

func (c *SessionController) CreateSession(e echo.Context) error {
	s, token, err := c.manager.Issue(e)
	if err != nil {
		log.Ctx(e.Request().Context()).Error().Err(err).Str("component", "CreateSession").Msg("")
		return response.WriteErrorResponse(e, errs.ErrInternalServer, nil)
	}

	return response.WriteCreatedResponse(e, "session created", dto.SessionResponse{
		SessionID: s.ID,
		Token:     token,
		ExpiresIn: int64(c.manager.TTL().Seconds()),
	})
}
