package service

import (
	"context"

	"github.com/alimikegami/point-of-sales/storefront-service/internal/domain"
	"github.com/alimikegami/point-of-sales/storefront-service/internal/dto"
)

type OrderService interface {
	// CreateOrder persists a pending order, arms its settlement and returns it
	// after the simulated network latency.
	CreateOrder(ctx context.Context, req dto.OrderRequest) (domain.Order, error)
	// GetOrder returns nil without error for an unknown id.
	GetOrder(ctx context.Context, orderID string) (*domain.Order, error)
	// SubscribeToOrder polls GetOrder immediately and then on every poll interval
	// until the returned function is called or ctx ends.
	SubscribeToOrder(ctx context.Context, orderID string, onUpdate func(*domain.Order)) (unsubscribe func())
	// Close drops settlements that have not fired yet. Used when a session ends.
	Close()
}

type PaymentGateway interface {
	Charge(ctx context.Context, order domain.Order) (domain.PaymentDetails, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, key string, msg dto.KafkaMessage) error
}
