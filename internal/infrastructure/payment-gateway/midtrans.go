package paymentgateway

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/alimikegami/point-of-sales/storefront-service/internal/domain"
	"github.com/alimikegami/point-of-sales/storefront-service/pkg/errs"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog/log"
)

const beneficiaryName = "PT Kopi Kuy"

// DemoBankAccounts are the demonstration virtual accounts shown for bank transfer.
// The first one is attached to every bank order.
var DemoBankAccounts = []domain.VirtualAccount{
	{Bank: "BCA", VA: "1234567890", Name: beneficiaryName},
	{Bank: "BNI", VA: "880812345678", Name: beneficiaryName},
}

// SimulatedMidtransGateway builds the Core API charge request a real integration
// would send and answers it locally with a fabricated pending response. No
// network call is ever made.
type SimulatedMidtransGateway struct {
	accounts []domain.VirtualAccount
}

func CreateSimulatedGateway() *SimulatedMidtransGateway {
	return &SimulatedMidtransGateway{accounts: DemoBankAccounts}
}

func (g *SimulatedMidtransGateway) BankAccounts() []domain.VirtualAccount {
	out := make([]domain.VirtualAccount, len(g.accounts))
	copy(out, g.accounts)

	return out
}

func (g *SimulatedMidtransGateway) Charge(ctx context.Context, order domain.Order) (domain.PaymentDetails, error) {
	chargeReq, err := buildChargeRequest(order)
	if err != nil {
		return domain.PaymentDetails{}, err
	}

	response := g.fabricateResponse(chargeReq)
	if response.StatusCode != "201" {
		return domain.PaymentDetails{}, fmt.Errorf("payment gateway returned non-201 status: %s", response.StatusCode)
	}

	log.Ctx(ctx).Info().
		Str("component", "Charge").
		Str("order_id", response.OrderID).
		Str("transaction_id", response.TransactionID).
		Str("payment_type", response.PaymentType).
		Msg("simulated charge accepted")

	return toPaymentDetails(response)
}

func buildChargeRequest(order domain.Order) (*coreapi.ChargeReq, error) {
	chargeReq := &coreapi.ChargeReq{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  order.ID,
			GrossAmt: order.Amount,
		},
	}

	if order.Meta != nil {
		chargeReq.CustomerDetails = &midtrans.CustomerDetails{
			FName: order.Meta.Name,
			Phone: order.Meta.Phone,
		}
	}

	switch order.Method {
	case domain.PaymentMethodQRIS:
		chargeReq.PaymentType = coreapi.PaymentTypeQris
	case domain.PaymentMethodBank:
		chargeReq.PaymentType = coreapi.PaymentTypeBankTransfer
		chargeReq.BankTransfer = &coreapi.BankTransferDetails{
			Bank: midtrans.BankBca,
		}
	default:
		return nil, errs.ErrInvalidPaymentMethod
	}

	return chargeReq, nil
}

func (g *SimulatedMidtransGateway) fabricateResponse(chargeReq *coreapi.ChargeReq) *coreapi.ChargeResponse {
	response := &coreapi.ChargeResponse{
		TransactionID:     ulid.Make().String(),
		OrderID:           chargeReq.TransactionDetails.OrderID,
		GrossAmount:       strconv.FormatInt(chargeReq.TransactionDetails.GrossAmt, 10) + ".00",
		PaymentType:       string(chargeReq.PaymentType),
		TransactionStatus: "pending",
		StatusCode:        "201",
		Currency:          "IDR",
	}

	switch chargeReq.PaymentType {
	case coreapi.PaymentTypeQris:
		response.QRString = "QRIS " + chargeReq.TransactionDetails.OrderID
	case coreapi.PaymentTypeBankTransfer:
		primary := g.accounts[0]
		response.VaNumbers = []coreapi.VANumber{
			{Bank: strings.ToLower(primary.Bank), VANumber: primary.VA},
		}
	}

	return response
}

func toPaymentDetails(response *coreapi.ChargeResponse) (domain.PaymentDetails, error) {
	if response.QRString != "" {
		return domain.PaymentDetails{QRISURL: QRPlaceholder(response.QRString)}, nil
	}

	if len(response.VaNumbers) > 0 {
		va := response.VaNumbers[0]
		return domain.PaymentDetails{
			VA: &domain.VirtualAccount{
				Bank: strings.ToUpper(va.Bank),
				VA:   va.VANumber,
				Name: beneficiaryName,
			},
		}, nil
	}

	return domain.PaymentDetails{}, fmt.Errorf("payment gateway response for %s carries no payment instructions", response.OrderID)
}

// QRPlaceholder renders text into an SVG data URI standing in for a QRIS image.
func QRPlaceholder(text string) string {
	svg := fmt.Sprintf(`<svg xmlns='http://www.w3.org/2000/svg' width='172' height='172'>`+
		`<rect width='100%%' height='100%%' fill='white'/>`+
		`<rect x='8' y='8' width='156' height='156' fill='black' opacity='0.05'/>`+
		`<text x='50%%' y='50%%' text-anchor='middle' dominant-baseline='middle' font-size='12' fill='#111'>%s</text>`+
		`</svg>`, text)

	return "data:image/svg+xml;utf8," + url.PathEscape(svg)
}
