package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/alimikegami/point-of-sales/storefront-service/config"
	"github.com/alimikegami/point-of-sales/storefront-service/internal/domain"
	"github.com/alimikegami/point-of-sales/storefront-service/internal/dto"
	"github.com/alimikegami/point-of-sales/storefront-service/internal/infrastructure/metrics"
	"github.com/alimikegami/point-of-sales/storefront-service/internal/repository"
	"github.com/alimikegami/point-of-sales/storefront-service/pkg/errs"
	"github.com/alimikegami/point-of-sales/storefront-service/pkg/utils"
	"github.com/go-co-op/gocron/v2"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	EventOrderCreated = "order_created"
	EventOrderPaid    = "order_paid"

	maxOrderIDAttempts = 10
)

var tracer = otel.Tracer("storefront-service/service")

type OrderServiceImpl struct {
	table     repository.OrderTable
	scheduler gocron.Scheduler
	gateway   PaymentGateway
	publisher EventPublisher
	timings   config.OrderConfig
	sessionID string

	// serializes load-modify-save cycles issued by this service
	mu     sync.Mutex
	now    func() time.Time
	nextID func() (string, error)
}

func CreateOrderService(table repository.OrderTable, scheduler gocron.Scheduler, gateway PaymentGateway, publisher EventPublisher, timings config.OrderConfig, sessionID string) OrderService {
	return &OrderServiceImpl{
		table:     table,
		scheduler: scheduler,
		gateway:   gateway,
		publisher: publisher,
		timings:   timings,
		sessionID: sessionID,
		now:       time.Now,
		nextID:    utils.GenerateOrderID,
	}
}

func (s *OrderServiceImpl) CreateOrder(ctx context.Context, req dto.OrderRequest) (domain.Order, error) {
	ctx, span := tracer.Start(ctx, "OrderService.CreateOrder")
	defer span.End()

	method := domain.PaymentMethod(strings.ToLower(strings.TrimSpace(req.PaymentMethod)))
	if !method.Valid() {
		return domain.Order{}, errs.ErrInvalidPaymentMethod
	}

	if req.Amount < 0 {
		return domain.Order{}, errs.ErrInvalidAmount
	}

	s.mu.Lock()
	orders := s.loadOrders(ctx)

	orderID, err := s.generateOrderID(orders)
	if err != nil {
		s.mu.Unlock()
		log.Ctx(ctx).Error().Err(err).Str("component", "CreateOrder").Msg("")
		return domain.Order{}, errs.ErrInternalServer
	}

	order := domain.Order{
		ID:        orderID,
		Amount:    req.Amount,
		Method:    method,
		Status:    domain.OrderStatusPending,
		CreatedAt: s.now().UnixMilli(),
	}

	name, phone := strings.TrimSpace(req.Name), strings.TrimSpace(req.Phone)
	if name != "" || phone != "" {
		order.Meta = &domain.CustomerMeta{Name: name, Phone: phone}
	}

	order.Payment, err = s.gateway.Charge(ctx, order)
	if err != nil {
		s.mu.Unlock()
		log.Ctx(ctx).Error().Err(err).Str("component", "CreateOrder").Msg("")
		return domain.Order{}, err
	}

	orders[orderID] = order
	s.saveOrders(ctx, orders)
	s.mu.Unlock()

	if err := s.scheduleSettlement(orderID); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "CreateOrder").Str("order_id", orderID).Msg("settlement not scheduled")
	}

	span.SetAttributes(
		attribute.String("order.id", orderID),
		attribute.String("order.method", string(method)),
		attribute.Int64("order.amount", order.Amount),
	)
	metrics.OrdersCreated.WithLabelValues(string(method)).Inc()
	metrics.OrderAmount.Observe(float64(order.Amount))
	s.publish(ctx, EventOrderCreated, order)

	log.Ctx(ctx).Info().Str("component", "CreateOrder").Str("order_id", orderID).Str("method", string(method)).Int64("amount", order.Amount).Msg("order created")

	if err := wait(ctx, s.timings.CreateLatency); err != nil {
		return domain.Order{}, err
	}

	return order, nil
}

func (s *OrderServiceImpl) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	ctx, span := tracer.Start(ctx, "OrderService.GetOrder")
	defer span.End()

	orders := s.loadOrders(ctx)

	if err := wait(ctx, s.timings.LookupLatency); err != nil {
		return nil, err
	}

	order, ok := orders[normalizeOrderID(orderID)]
	if !ok {
		return nil, nil
	}

	return &order, nil
}

// subscription delivers poll results until stopped. Delivery and stop share a
// lock, so no callback runs once stop has returned.
type subscription struct {
	mu       sync.Mutex
	stopped  bool
	onUpdate func(*domain.Order)
}

func (sub *subscription) deliver(order *domain.Order) {
	sub.mu.Lock()
	defer sub.mu.Unlock()

	if sub.stopped {
		return
	}

	sub.onUpdate(order)
}

func (sub *subscription) stop() {
	sub.mu.Lock()
	sub.stopped = true
	sub.mu.Unlock()
}

func (s *OrderServiceImpl) SubscribeToOrder(ctx context.Context, orderID string, onUpdate func(*domain.Order)) func() {
	ctx, cancel := context.WithCancel(ctx)
	sub := &subscription{onUpdate: onUpdate}

	interval := s.timings.PollInterval
	if interval <= 0 {
		interval = config.DefaultOrderConfig().PollInterval
	}

	metrics.ActiveSubscriptions.Inc()
	go func() {
		defer metrics.ActiveSubscriptions.Dec()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		s.poll(ctx, orderID, sub)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.poll(ctx, orderID, sub)
			}
		}
	}()

	return func() {
		sub.stop()
		cancel()
	}
}

func (s *OrderServiceImpl) Close() {
	s.scheduler.RemoveByTags(s.sessionTag())
}

func (s *OrderServiceImpl) poll(ctx context.Context, orderID string, sub *subscription) {
	order, err := s.GetOrder(ctx, orderID)
	if err != nil || ctx.Err() != nil {
		return
	}

	sub.deliver(order)
}

// settleOrder is the one-shot settlement job. It is a no-op unless the order is
// still present and pending.
func (s *OrderServiceImpl) settleOrder(orderID string) {
	ctx, span := tracer.Start(context.Background(), "OrderService.settleOrder",
		trace.WithAttributes(attribute.String("order.id", orderID)),
	)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	orders, err := s.table.Load(ctx)
	if err != nil {
		metrics.StoreFallbacks.WithLabelValues("settle").Inc()
		log.Error().Err(err).Str("component", "settleOrder").Str("order_id", orderID).Msg("")
		return
	}

	order, ok := orders[orderID]
	if !ok || !order.IsPending() {
		return
	}

	paidAt := s.now().UnixMilli()
	order.Status = domain.OrderStatusPaid
	order.PaidAt = &paidAt
	orders[orderID] = order
	s.saveOrders(ctx, orders)

	metrics.OrdersPaid.WithLabelValues(string(order.Method)).Inc()
	s.publish(ctx, EventOrderPaid, order)

	log.Info().Str("component", "settleOrder").Str("order_id", orderID).Msg("order paid")
}

func (s *OrderServiceImpl) scheduleSettlement(orderID string) error {
	startAt := gocron.OneTimeJobStartImmediately()
	if s.timings.SettleDelay > 0 {
		startAt = gocron.OneTimeJobStartDateTime(s.now().Add(s.timings.SettleDelay))
	}

	_, err := s.scheduler.NewJob(
		gocron.OneTimeJob(startAt),
		gocron.NewTask(s.settleOrder, orderID),
		gocron.WithName(fmt.Sprintf("settle-order:%s", orderID)),
		gocron.WithTags(s.sessionTag(), s.orderTag(orderID)),
	)

	return err
}

// loadOrders never fails: an unavailable store reads as an empty table.
func (s *OrderServiceImpl) loadOrders(ctx context.Context) map[string]domain.Order {
	orders, err := s.table.Load(ctx)
	if err != nil {
		metrics.StoreFallbacks.WithLabelValues("load").Inc()
		log.Ctx(ctx).Warn().Err(err).Str("component", "loadOrders").Msg("order storage unavailable, using empty view")
		return make(map[string]domain.Order)
	}

	return orders
}

// saveOrders never fails: an unavailable store silently skips persistence.
func (s *OrderServiceImpl) saveOrders(ctx context.Context, orders map[string]domain.Order) {
	if err := s.table.Save(ctx, orders); err != nil {
		metrics.StoreFallbacks.WithLabelValues("save").Inc()
		log.Ctx(ctx).Warn().Err(err).Str("component", "saveOrders").Msg("order storage unavailable, order not persisted")
	}
}

func (s *OrderServiceImpl) generateOrderID(orders map[string]domain.Order) (string, error) {
	for i := 0; i < maxOrderIDAttempts; i++ {
		id, err := s.nextID()
		if err != nil {
			return "", err
		}

		if _, taken := orders[id]; !taken {
			return id, nil
		}
	}

	return "", fmt.Errorf("no free order id after %d attempts", maxOrderIDAttempts)
}

func (s *OrderServiceImpl) publish(ctx context.Context, eventType string, order domain.Order) {
	if s.publisher == nil {
		return
	}

	msg := dto.KafkaMessage{
		EventID:    ulid.Make().String(),
		EventType:  eventType,
		OccurredAt: s.now().UnixMilli(),
		Data: dto.OrderEvent{
			OrderID:   order.ID,
			SessionID: s.sessionID,
			Amount:    order.Amount,
			Method:    string(order.Method),
			Status:    string(order.Status),
		},
	}

	if err := s.publisher.Publish(ctx, order.ID, msg); err != nil {
		log.Error().Err(err).Str("component", "publish").Str("event_type", eventType).Msg("")
	}
}

func (s *OrderServiceImpl) sessionTag() string {
	return "session:" + s.sessionID
}

func (s *OrderServiceImpl) orderTag(orderID string) string {
	return fmt.Sprintf("order:%s:%s", s.sessionID, orderID)
}

func normalizeOrderID(orderID string) string {
	return strings.ToUpper(strings.TrimSpace(orderID))
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

var _ OrderService = (*OrderServiceImpl)(nil)
