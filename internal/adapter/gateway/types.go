package gateway

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/erick-ssouza/Elatho-Semijoias-sub000/internal/usecase"
)

// Wire shapes for the provider's REST API. Parsed at the boundary;
// nothing loosely-typed leaks past this package.

type customerSearchResponse struct {
	Results []customerResponse `json:"results"`
}

type customerResponse struct {
	ID string `json:"id"`
}

type createCustomerRequest struct {
	Email          string `json:"email"`
	FirstName      string `json:"first_name"`
	Phone          string `json:"phone,omitempty"`
	Identification struct {
		Type   string `json:"type"`
		Number string `json:"number"`
	} `json:"identification"`
}

type paymentPayer struct {
	ID string `json:"id,omitempty"`
}

type createPaymentRequest struct {
	TransactionAmount float64      `json:"transaction_amount"`
	Description       string       `json:"description,omitempty"`
	PaymentMethodID   string       `json:"payment_method_id,omitempty"`
	ExternalReference string       `json:"external_reference,omitempty"`
	DateOfExpiration  string       `json:"date_of_expiration,omitempty"`
	Token             string       `json:"token,omitempty"`
	Installments      int          `json:"installments,omitempty"`
	Payer             paymentPayer `json:"payer"`
}

type paymentResponse struct {
	ID                 json.Number `json:"id"`
	Status             string      `json:"status"`
	ExternalReference  string      `json:"external_reference"`
	TransactionAmount  float64     `json:"transaction_amount"`
	DateOfExpiration   string      `json:"date_of_expiration"`
	PointOfInteraction struct {
		TransactionData struct {
			QRCode       string `json:"qr_code"`
			QRCodeBase64 string `json:"qr_code_base64"`
		} `json:"transaction_data"`
	} `json:"point_of_interaction"`
}

func (p *paymentResponse) toPaymentInfo() (*usecase.PaymentInfo, error) {
	if p.ID.String() == "" {
		return nil, fmt.Errorf("payment response missing id")
	}
	if p.Status == "" {
		return nil, fmt.Errorf("payment %s missing status", p.ID)
	}
	return &usecase.PaymentInfo{
		PaymentID:         p.ID.String(),
		Status:            p.Status,
		ExternalReference: p.ExternalReference,
		Amount:            decimal.NewFromFloat(p.TransactionAmount).Round(2),
	}, nil
}
