package controller

import (
	"github.com/alimikegami/point-of-sales/storefront-service/internal/catalog"
	"github.com/alimikegami/point-of-sales/storefront-service/internal/dto"
	"github.com/alimikegami/point-of-sales/storefront-service/internal/middleware"
	"github.com/alimikegami/point-of-sales/storefront-service/pkg/errs"
	"github.com/alimikegami/point-of-sales/storefront-service/pkg/response"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

type CartController struct {
	catalog *catalog.Catalog
}

func CreateCartController(e *echo.Group, catalog *catalog.Catalog, withSession echo.MiddlewareFunc) {
	c := CartController{
		catalog: catalog,
	}

	e.GET("/cart", c.GetCart, withSession)
	e.DELETE("/cart", c.ClearCart, withSession)
	e.POST("/cart/items", c.AddCartItem, withSession)
	e.PUT("/cart/items/:id", c.UpdateCartItem, withSession)
	e.DELETE("/cart/items/:id", c.RemoveCartItem, withSession)
}

func (c *CartController) GetCart(e echo.Context) error {
	s := middleware.FromContext(e)

	return response.WriteSuccessResponse(e, "", toCartResponse(s.Cart.Summary()))
}

func (c *CartController) AddCartItem(e echo.Context) error {
	payload := dto.CartItemRequest{}
	err := e.Bind(&payload)
	if err != nil {
		log.Ctx(e.Request().Context()).Error().Err(err).Str("component", "AddCartItem").Msg("")
		return response.WriteErrorResponse(e, errs.ErrClient, nil)
	}

	item, ok := c.catalog.Get(payload.ItemID)
	if !ok {
		return response.WriteErrorResponse(e, errs.ErrMenuItemNotFound, nil)
	}

	qty := int64(1)
	if payload.Quantity != nil {
		qty = *payload.Quantity
	}

	s := middleware.FromContext(e)
	if err := s.Cart.Add(item, qty); err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "item added to cart", toCartResponse(s.Cart.Summary()))
}

func (c *CartController) UpdateCartItem(e echo.Context) error {
	payload := dto.CartQuantityRequest{}
	err := e.Bind(&payload)
	if err != nil {
		log.Ctx(e.Request().Context()).Error().Err(err).Str("component", "UpdateCartItem").Msg("")
		return response.WriteErrorResponse(e, errs.ErrClient, nil)
	}

	itemID := e.Param("id")
	if _, ok := c.catalog.Get(itemID); !ok {
		return response.WriteErrorResponse(e, errs.ErrMenuItemNotFound, nil)
	}

	s := middleware.FromContext(e)
	s.Cart.SetQuantity(itemID, payload.Quantity)

	return response.WriteSuccessResponse(e, "cart updated", toCartResponse(s.Cart.Summary()))
}

func (c *CartController) RemoveCartItem(e echo.Context) error {
	s := middleware.FromContext(e)
	s.Cart.Remove(e.Param("id"))

	return response.WriteSuccessResponse(e, "item removed from cart", toCartResponse(s.Cart.Summary()))
}

func (c *CartController) ClearCart(e echo.Context) error {
	s := middleware.FromContext(e)
	s.Cart.Clear()

	return response.WriteSuccessResponse(e, "cart cleared", toCartResponse(s.Cart.Summary()))
}
