package controller

import (
	"github.com/alimikegami/point-of-sales/storefront-service/internal/domain"
	"github.com/alimikegami/point-of-sales/storefront-service/internal/dto"
	"github.com/alimikegami/point-of-sales/storefront-service/pkg/response"
	"github.com/labstack/echo/v4"
)

type BankAccountLister interface {
	BankAccounts() []domain.VirtualAccount
}

type PaymentController struct {
	accounts BankAccountLister
}

func CreatePaymentController(e *echo.Group, accounts BankAccountLister) {
	c := PaymentController{
		accounts: accounts,
	}

	e.GET("/payment-methods", c.GetPaymentMethods)
}

func (c *PaymentController) GetPaymentMethods(e echo.Context) error {
	methods := []dto.PaymentMethodResponse{
		{Method: domain.PaymentMethodQRIS, Label: "QRIS"},
		{Method: domain.PaymentMethodBank, Label: "Bank Transfer", BankAccounts: c.accounts.BankAccounts()},
	}

	return response.WriteSuccessResponse(e, "", methods)
}
