package app

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alimikegami/point-of-sales/storefront-service/config"
	"github.com/alimikegami/point-of-sales/storefront-service/internal/domain"
	"github.com/alimikegami/point-of-sales/storefront-service/internal/dto"
	localmiddleware "github.com/alimikegami/point-of-sales/storefront-service/internal/middleware"
	"github.com/stretchr/testify/suite"
)

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type IntegrationTestSuite struct {
	suite.Suite
	app    App
	server *httptest.Server
}

func setupTestConfig() *config.Config {
	return &config.Config{
		ServicePort: "0",
		Environment: "test",
		StoreDriver: config.StoreDriverMemory,
		SessionConfig: config.SessionConfig{
			JWTSecret: "integration-secret",
			TTL:       time.Hour,
		},
		OrderConfig: config.OrderConfig{
			CreateLatency: 10 * time.Millisecond,
			LookupLatency: 5 * time.Millisecond,
			SettleDelay:   300 * time.Millisecond,
			PollInterval:  50 * time.Millisecond,
		},
	}
}

func (s *IntegrationTestSuite) SetupSuite() {
	s.app.Config = setupTestConfig()

	s.Require().NoError(s.app.NewServer())
	s.app.Scheduler.Start()

	s.server = httptest.NewServer(s.app.Handler())
}

func (s *IntegrationTestSuite) TearDownSuite() {
	s.server.Close()

	s.Require().NoError(s.app.StopServer())
}

func (s *IntegrationTestSuite) newSession() string {
	status, env, header := s.do(http.MethodPost, "/sessions", "", nil)
	s.Require().Equal(http.StatusCreated, status)

	var session dto.SessionResponse
	s.Require().NoError(json.Unmarshal(env.Data, &session))
	s.Require().NotEmpty(session.Token)
	s.Require().Equal(session.Token, header.Get(localmiddleware.SessionTokenHeader))

	return session.Token
}

func (s *IntegrationTestSuite) do(method, path, token string, body interface{}) (int, envelope, http.Header) {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, s.server.URL+"/api/v1"+path, reader)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(localmiddleware.SessionTokenHeader, token)
	}

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	var env envelope
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&env))

	return resp.StatusCode, env, resp.Header
}

func (s *IntegrationTestSuite) decodeCart(env envelope) dto.CartResponse {
	var cart dto.CartResponse
	s.Require().NoError(json.Unmarshal(env.Data, &cart))
	return cart
}

func (s *IntegrationTestSuite) decodeOrder(env envelope) dto.OrderResponse {
	var order dto.OrderResponse
	s.Require().NoError(json.Unmarshal(env.Data, &order))
	return order
}

func (s *IntegrationTestSuite) Test_Ping() {
	status, env, _ := s.do(http.MethodGet, "/ping", "", nil)
	s.Equal(http.StatusOK, status)
	s.Equal("success", env.Status)
}

func (s *IntegrationTestSuite) Test_Menu() {
	type TestCase struct {
		Name          string
		Query         string
		ExpectedNames []string
	}

	testCases := []TestCase{
		{Name: "Whole menu", Query: "", ExpectedNames: []string{"Nasi Goreng", "Mie Goreng", "Es Teh Manis", "Kopi Susu"}},
		{Name: "Drinks only", Query: "?category=drink", ExpectedNames: []string{"Es Teh Manis", "Kopi Susu"}},
		{Name: "Search", Query: "?q=goreng", ExpectedNames: []string{"Nasi Goreng", "Mie Goreng"}},
		{Name: "No match", Query: "?q=pizza", ExpectedNames: []string{}},
	}

	for _, tc := range testCases {
		s.Run(tc.Name, func() {
			status, env, _ := s.do(http.MethodGet, "/menu"+tc.Query, "", nil)
			s.Require().Equal(http.StatusOK, status)

			var items []domain.MenuItem
			s.Require().NoError(json.Unmarshal(env.Data, &items))

			names := make([]string, 0, len(items))
			for _, item := range items {
				names = append(names, item.Name)
			}
			s.Equal(tc.ExpectedNames, names)
		})
	}

	status, _, _ := s.do(http.MethodGet, "/menu/f1", "", nil)
	s.Equal(http.StatusOK, status)

	status, _, _ = s.do(http.MethodGet, "/menu/zz", "", nil)
	s.Equal(http.StatusNotFound, status)
}

func (s *IntegrationTestSuite) Test_CartLifecycle() {
	token := s.newSession()

	status, env, _ := s.do(http.MethodPost, "/cart/items", token, map[string]interface{}{"item_id": "f1"})
	s.Require().Equal(http.StatusOK, status)
	s.Equal(int64(1), s.decodeCart(env).Count)

	status, env, _ = s.do(http.MethodPost, "/cart/items", token, map[string]interface{}{"item_id": "d1", "quantity": 2})
	s.Require().Equal(http.StatusOK, status)

	cart := s.decodeCart(env)
	s.Equal(int64(41000), cart.Subtotal)
	s.Equal(int64(2050), cart.Fee)
	s.Equal(int64(43050), cart.Total)
	s.Equal(int64(3), cart.Count)
	s.Equal("Rp 43.050", cart.TotalFormatted)
	s.Require().Len(cart.Lines, 2)
	s.Equal("f1", cart.Lines[0].Item.ID)
	s.Equal("d1", cart.Lines[1].Item.ID)

	status, env, _ = s.do(http.MethodPut, "/cart/items/d1", token, map[string]interface{}{"quantity": 5})
	s.Require().Equal(http.StatusOK, status)
	s.Equal(int64(5), s.decodeCart(env).Lines[1].Quantity)

	status, env, _ = s.do(http.MethodPut, "/cart/items/d1", token, map[string]interface{}{"quantity": 0})
	s.Require().Equal(http.StatusOK, status)
	s.Len(s.decodeCart(env).Lines, 1)

	status, env, _ = s.do(http.MethodDelete, "/cart/items/f1", token, nil)
	s.Require().Equal(http.StatusOK, status)
	s.Empty(s.decodeCart(env).Lines)

	status, _, _ = s.do(http.MethodPost, "/cart/items", token, map[string]interface{}{"item_id": "nope"})
	s.Equal(http.StatusNotFound, status)

	status, _, _ = s.do(http.MethodPost, "/cart/items", token, map[string]interface{}{"item_id": "f1", "quantity": 0})
	s.Equal(http.StatusBadRequest, status)

	status, env, _ = s.do(http.MethodDelete, "/cart", token, nil)
	s.Require().Equal(http.StatusOK, status)
	s.Zero(s.decodeCart(env).Total)
}

func (s *IntegrationTestSuite) Test_SessionsAreIsolated() {
	first := s.newSession()
	second := s.newSession()

	status, _, _ := s.do(http.MethodPost, "/cart/items", first, map[string]interface{}{"item_id": "d2"})
	s.Require().Equal(http.StatusOK, status)

	_, env, _ := s.do(http.MethodGet, "/cart", second, nil)
	s.Zero(s.decodeCart(env).Count)

	status, env, _ = s.do(http.MethodPost, "/orders", first, dto.OrderRequest{PaymentMethod: "qris", Amount: 100})
	s.Require().Equal(http.StatusCreated, status)
	order := s.decodeOrder(env)

	status, _, _ = s.do(http.MethodGet, "/orders/"+order.ID, second, nil)
	s.Equal(http.StatusNotFound, status)
}

func (s *IntegrationTestSuite) Test_InvalidSessionToken() {
	status, env, _ := s.do(http.MethodGet, "/cart", "garbage", nil)
	s.Equal(http.StatusUnauthorized, status)
	s.Equal("error", env.Status)
}

func (s *IntegrationTestSuite) Test_CheckoutFlow() {
	token := s.newSession()

	status, _, _ := s.do(http.MethodPost, "/checkout", token, dto.CheckoutRequest{PaymentMethod: "bank"})
	s.Equal(http.StatusUnprocessableEntity, status)

	s.do(http.MethodPost, "/cart/items", token, map[string]interface{}{"item_id": "f1"})
	s.do(http.MethodPost, "/cart/items", token, map[string]interface{}{"item_id": "d1", "quantity": 2})

	status, _, _ = s.do(http.MethodPost, "/checkout", token, dto.CheckoutRequest{PaymentMethod: "cash"})
	s.Equal(http.StatusBadRequest, status)

	status, env, _ := s.do(http.MethodPost, "/checkout", token, dto.CheckoutRequest{PaymentMethod: "bank", Name: "Budi", Phone: "0812"})
	s.Require().Equal(http.StatusCreated, status)

	order := s.decodeOrder(env)
	s.Regexp(`^[0-9A-Z]{6}$`, order.ID)
	s.Equal(int64(43050), order.Amount)
	s.Equal("Rp 43.050", order.AmountFormatted)
	s.Equal(domain.OrderStatusPending, order.Status)
	s.Require().NotNil(order.Payment.VA)
	s.Equal("1234567890", order.Payment.VA.VA)
	s.Require().NotNil(order.Meta)
	s.Equal("Budi", order.Meta.Name)

	_, env, _ = s.do(http.MethodGet, "/cart", token, nil)
	s.Zero(s.decodeCart(env).Count)

	status, env, _ = s.do(http.MethodGet, "/orders/"+strings.ToLower(order.ID), token, nil)
	s.Require().Equal(http.StatusOK, status)
	s.Equal(domain.OrderStatusPending, s.decodeOrder(env).Status)

	s.Eventually(func() bool {
		status, env, _ := s.do(http.MethodGet, "/orders/"+order.ID, token, nil)
		return status == http.StatusOK && s.decodeOrder(env).Status == domain.OrderStatusPaid
	}, 3*time.Second, 50*time.Millisecond)
}

func (s *IntegrationTestSuite) Test_CreateOrder() {
	token := s.newSession()

	type TestCase struct {
		Name           string
		Request        dto.OrderRequest
		ExpectedStatus int
	}

	testCases := []TestCase{
		{Name: "QRIS", Request: dto.OrderRequest{PaymentMethod: "qris", Amount: 15000}, ExpectedStatus: http.StatusCreated},
		{Name: "Zero amount", Request: dto.OrderRequest{PaymentMethod: "bank", Amount: 0}, ExpectedStatus: http.StatusCreated},
		{Name: "Negative amount", Request: dto.OrderRequest{PaymentMethod: "qris", Amount: -5}, ExpectedStatus: http.StatusBadRequest},
		{Name: "Unknown method", Request: dto.OrderRequest{PaymentMethod: "card", Amount: 5}, ExpectedStatus: http.StatusBadRequest},
	}

	for _, tc := range testCases {
		s.Run(tc.Name, func() {
			status, _, _ := s.do(http.MethodPost, "/orders", token, tc.Request)
			s.Equal(tc.ExpectedStatus, status)
		})
	}
}

func (s *IntegrationTestSuite) Test_OrderEvents() {
	token := s.newSession()

	status, env, _ := s.do(http.MethodPost, "/orders", token, dto.OrderRequest{PaymentMethod: "qris", Amount: 8000})
	s.Require().Equal(http.StatusCreated, status)
	order := s.decodeOrder(env)

	req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("%s/api/v1/orders/%s/events", s.server.URL, order.ID), nil)
	s.Require().NoError(err)
	req.Header.Set(localmiddleware.SessionTokenHeader, token)

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal("text/event-stream", resp.Header.Get("Content-Type"))

	var events []dto.OrderResponse
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}

		var event dto.OrderResponse
		s.Require().NoError(json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &event))
		events = append(events, event)
	}

	s.Require().NotEmpty(events)
	s.Equal(order.ID, events[0].ID)
	s.Equal(domain.OrderStatusPending, events[0].Status)
	s.Equal(domain.OrderStatusPaid, events[len(events)-1].Status)
	s.NotNil(events[len(events)-1].PaidAt)
}

func (s *IntegrationTestSuite) Test_PaymentMethods() {
	status, env, _ := s.do(http.MethodGet, "/payment-methods", "", nil)
	s.Require().Equal(http.StatusOK, status)

	var methods []dto.PaymentMethodResponse
	s.Require().NoError(json.Unmarshal(env.Data, &methods))
	s.Require().Len(methods, 2)
	s.Equal(domain.PaymentMethodQRIS, methods[0].Method)
	s.Equal(domain.PaymentMethodBank, methods[1].Method)
	s.Len(methods[1].BankAccounts, 2)
}

func TestIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(IntegrationTestSuite))
}
