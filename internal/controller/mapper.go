package controller

import (
	"github.com/alimikegami/point-of-sales/storefront-service/internal/cart"
	"github.com/alimikegami/point-of-sales/storefront-service/internal/domain"
	"github.com/alimikegami/point-of-sales/storefront-service/internal/dto"
	"github.com/alimikegami/point-of-sales/storefront-service/pkg/utils"
)

func toOrderResponse(order domain.Order) dto.OrderResponse {
	return dto.OrderResponse{
		ID:              order.ID,
		Amount:          order.Amount,
		AmountFormatted: utils.FormatIDR(order.Amount),
		Method:          order.Method,
		Status:          order.Status,
		Payment:         order.Payment,
		Meta:            order.Meta,
		CreatedAt:       order.CreatedAt,
		CreatedAtWIB:    utils.ConvertUnixMilliToHumanReadableFormat(order.CreatedAt),
		PaidAt:          order.PaidAt,
	}
}

func toCartResponse(summary cart.Summary) dto.CartResponse {
	lines := make([]dto.CartLineResponse, 0, len(summary.Lines))
	for _, line := range summary.Lines {
		lineTotal := line.Item.Price * line.Quantity
		lines = append(lines, dto.CartLineResponse{
			Item:               *line.Item,
			Quantity:           line.Quantity,
			LineTotal:          lineTotal,
			LineTotalFormatted: utils.FormatIDR(lineTotal),
		})
	}

	return dto.CartResponse{
		Lines:             lines,
		Subtotal:          summary.Subtotal,
		Fee:               summary.Fee,
		Total:             summary.Total,
		Count:             summary.Count,
		SubtotalFormatted: utils.FormatIDR(summary.Subtotal),
		FeeFormatted:      utils.FormatIDR(summary.Fee),
		TotalFormatted:    utils.FormatIDR(summary.Total),
	}
}
