package controller

import (
	"github.com/alimikegami/point-of-sales/storefront-service/internal/catalog"
	"github.com/alimikegami/point-of-sales/storefront-service/pkg/dto"
	"github.com/alimikegami/point-of-sales/storefront-service/pkg/errs"
	"github.com/alimikegami/point-of-sales/storefront-service/pkg/response"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

type MenuController struct {
	catalog *catalog.Catalog
}

func CreateMenuController(e *echo.Group, catalog *catalog.Catalog) {
	c := MenuController{
		catalog: catalog,
	}

	e.GET("/menu", c.GetMenu)
	e.GET("/menu/:id", c.GetMenuItem)
}

func (c *MenuController) GetMenu(e echo.Context) error {
	filter := dto.Filter{}
	err := e.Bind(&filter)
	if err != nil {
		log.Ctx(e.Request().Context()).Error().Err(err).Str("component", "GetMenu").Msg("")
		return response.WriteErrorResponse(e, errs.ErrClient, nil)
	}

	return response.WriteSuccessResponse(e, "successfully retrieved menu", c.catalog.List(filter))
}

func (c *MenuController) GetMenuItem(e echo.Context) error {
	item, ok := c.catalog.Get(e.Param("id"))
	if !ok {
		return response.WriteErrorResponse(e, errs.ErrMenuItemNotFound, nil)
	}

	return response.WriteSuccessResponse(e, "successfully retrieved menu item", item)
}
