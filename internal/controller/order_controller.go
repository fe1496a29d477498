package controller

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/alimikegami/point-of-sales/storefront-service/internal/domain"
	"github.com/alimikegami/point-of-sales/storefront-service/internal/dto"
	"github.com/alimikegami/point-of-sales/storefront-service/internal/middleware"
	"github.com/alimikegami/point-of-sales/storefront-service/pkg/errs"
	"github.com/alimikegami/point-of-sales/storefront-service/pkg/response"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

type OrderController struct{}

func CreateOrderController(e *echo.Group, withSession echo.MiddlewareFunc) {
	c := OrderController{}

	e.POST("/checkout", c.Checkout, withSession)
	e.POST("/orders", c.AddOrder, withSession)
	e.GET("/orders/:id", c.GetOrder, withSession)
	e.GET("/orders/:id/events", c.StreamOrder, withSession)
}

func (c *OrderController) AddOrder(e echo.Context) error {
	payload := dto.OrderRequest{}
	err := e.Bind(&payload)
	if err != nil {
		log.Ctx(e.Request().Context()).Error().Err(err).Str("component", "AddOrder").Msg("")
		return response.WriteErrorResponse(e, errs.ErrClient, nil)
	}

	s := middleware.FromContext(e)
	order, err := s.Orders.CreateOrder(e.Request().Context(), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteCreatedResponse(e, "order created", toOrderResponse(order))
}

// Checkout turns the session cart into an order for its total and empties the
// cart once the order exists.
func (c *OrderController) Checkout(e echo.Context) error {
	payload := dto.CheckoutRequest{}
	err := e.Bind(&payload)
	if err != nil {
		log.Ctx(e.Request().Context()).Error().Err(err).Str("component", "Checkout").Msg("")
		return response.WriteErrorResponse(e, errs.ErrClient, nil)
	}

	s := middleware.FromContext(e)
	total := s.Cart.Total()
	if total <= 0 {
		return response.WriteErrorResponse(e, errs.ErrEmptyCart, nil)
	}

	order, err := s.Orders.CreateOrder(e.Request().Context(), dto.OrderRequest{
		PaymentMethod: payload.PaymentMethod,
		Amount:        total,
		Name:          payload.Name,
		Phone:         payload.Phone,
	})
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	s.Cart.Clear()

	return response.WriteCreatedResponse(e, "order created", toOrderResponse(order))
}

func (c *OrderController) GetOrder(e echo.Context) error {
	s := middleware.FromContext(e)
	order, err := s.Orders.GetOrder(e.Request().Context(), e.Param("id"))
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	if order == nil {
		return response.WriteErrorResponse(e, errs.ErrOrderNotFound, nil)
	}

	return response.WriteSuccessResponse(e, "", toOrderResponse(*order))
}

// StreamOrder pushes every poll result as a server-sent event until the order is
// paid or the client goes away. An unknown id is reported as a null payload.
func (c *OrderController) StreamOrder(e echo.Context) error {
	ctx := e.Request().Context()
	s := middleware.FromContext(e)

	updates := make(chan *domain.Order)
	done := make(chan struct{})

	unsubscribe := s.Orders.SubscribeToOrder(ctx, e.Param("id"), func(order *domain.Order) {
		select {
		case updates <- order:
		case <-done:
		}
	})
	// release a blocked callback before unsubscribe waits for it
	defer func() {
		close(done)
		unsubscribe()
	}()

	res := e.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.WriteHeader(http.StatusOK)
	res.Flush()

	for {
		select {
		case <-ctx.Done():
			return nil
		case order := <-updates:
			var payload interface{}
			if order != nil {
				payload = toOrderResponse(*order)
			}

			if err := writeEvent(res, "order", payload); err != nil {
				log.Ctx(ctx).Error().Err(err).Str("component", "StreamOrder").Msg("")
				return nil
			}

			if order != nil && order.Status == domain.OrderStatusPaid {
				return nil
			}
		}
	}
}

func writeEvent(res *echo.Response, event string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(res, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	res.Flush()

	return nil
}
