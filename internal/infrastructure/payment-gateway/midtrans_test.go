package paymentgateway

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/alimikegami/point-of-sales/storefront-service/internal/domain"
	"github.com/alimikegami/point-of-sales/storefront-service/pkg/errs"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCharge_QRIS(t *testing.T) {
	g := CreateSimulatedGateway()

	details, err := g.Charge(context.Background(), domain.Order{ID: "ABC123", Amount: 27300, Method: domain.PaymentMethodQRIS})
	require.NoError(t, err)

	assert.Nil(t, details.VA)
	require.True(t, strings.HasPrefix(details.QRISURL, "data:image/svg+xml;utf8,"))

	decoded, err := url.PathUnescape(strings.TrimPrefix(details.QRISURL, "data:image/svg+xml;utf8,"))
	require.NoError(t, err)
	assert.Contains(t, decoded, "QRIS ABC123")
}

func TestCharge_QRISPayloadDiffersPerOrder(t *testing.T) {
	g := CreateSimulatedGateway()

	a, err := g.Charge(context.Background(), domain.Order{ID: "AAAAAA", Method: domain.PaymentMethodQRIS})
	require.NoError(t, err)
	b, err := g.Charge(context.Background(), domain.Order{ID: "BBBBBB", Method: domain.PaymentMethodQRIS})
	require.NoError(t, err)

	assert.NotEqual(t, a.QRISURL, b.QRISURL)
}

func TestCharge_Bank(t *testing.T) {
	g := CreateSimulatedGateway()

	details, err := g.Charge(context.Background(), domain.Order{ID: "XYZ789", Amount: 43050, Method: domain.PaymentMethodBank})
	require.NoError(t, err)

	assert.Empty(t, details.QRISURL)
	require.NotNil(t, details.VA)
	assert.Equal(t, domain.VirtualAccount{Bank: "BCA", VA: "1234567890", Name: "PT Kopi Kuy"}, *details.VA)
}

func TestCharge_UnknownMethod(t *testing.T) {
	_, err := CreateSimulatedGateway().Charge(context.Background(), domain.Order{ID: "X", Method: "cash"})
	assert.ErrorIs(t, err, errs.ErrInvalidPaymentMethod)
}

func TestBuildChargeRequest(t *testing.T) {
	req, err := buildChargeRequest(domain.Order{
		ID:     "XYZ789",
		Amount: 43050,
		Method: domain.PaymentMethodBank,
		Meta:   &domain.CustomerMeta{Name: "Sari", Phone: "081234567890"},
	})
	require.NoError(t, err)

	assert.Equal(t, coreapi.PaymentTypeBankTransfer, req.PaymentType)
	assert.Equal(t, "XYZ789", req.TransactionDetails.OrderID)
	assert.Equal(t, int64(43050), req.TransactionDetails.GrossAmt)
	require.NotNil(t, req.BankTransfer)
	assert.Equal(t, midtrans.BankBca, req.BankTransfer.Bank)
	require.NotNil(t, req.CustomerDetails)
	assert.Equal(t, "Sari", req.CustomerDetails.FName)
}

func TestBankAccounts(t *testing.T) {
	accounts := CreateSimulatedGateway().BankAccounts()

	require.Len(t, accounts, 2)
	assert.Equal(t, "BCA", accounts[0].Bank)
	assert.Equal(t, "BNI", accounts[1].Bank)
	assert.Equal(t, "880812345678", accounts[1].VA)

	accounts[0].VA = "changed"
	assert.Equal(t, "1234567890", CreateSimulatedGateway().BankAccounts()[0].VA)
}
