// Package gateway implements the outbound REST contract with the
// payment provider: customer upsert, PIX and card payment creation, and
// the authoritative payment lookup used by the webhook reconciler.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	domain "github.com/erick-ssouza/Elatho-Semijoias-sub000/internal/entity"
	"github.com/erick-ssouza/Elatho-Semijoias-sub000/internal/usecase"
)

// pixExpiration is how long a PIX charge stays payable.
const pixExpiration = 15 * time.Minute

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

// EnsureCustomer finds a gateway customer by email/taxId or creates one.
func (c *Client) EnsureCustomer(ctx context.Context, cust domain.Customer) (string, error) {
	var found customerSearchResponse
	q := url.Values{"email": {cust.Email}}
	if err := c.do(ctx, http.MethodGet, "/v1/customers/search?"+q.Encode(), nil, &found); err != nil {
		return "", &domain.GatewayError{Op: "search customer", Cause: err}
	}
	if len(found.Results) > 0 {
		return found.Results[0].ID, nil
	}

	req := createCustomerRequest{
		Email:     cust.Email,
		FirstName: cust.Name,
		Phone:     cust.Phone,
	}
	req.Identification.Type = "CPF"
	req.Identification.Number = cust.TaxID

	var created customerResponse
	if err := c.do(ctx, http.MethodPost, "/v1/customers", req, &created); err != nil {
		return "", &domain.GatewayError{Op: "create customer", Cause: err}
	}
	return created.ID, nil
}

func (c *Client) CreatePixPayment(ctx context.Context, in usecase.CreatePixInput) (*usecase.PixCharge, error) {
	amount, _ := in.Amount.Round(2).Float64()
	req := createPaymentRequest{
		TransactionAmount: amount,
		Description:       in.Description,
		PaymentMethodID:   "pix",
		ExternalReference: in.ExternalReference,
		DateOfExpiration:  time.Now().Add(pixExpiration).UTC().Format(time.RFC3339),
		Payer:             paymentPayer{ID: in.CustomerID},
	}

	var resp paymentResponse
	if err := c.do(ctx, http.MethodPost, "/v1/payments", req, &resp); err != nil {
		return nil, &domain.GatewayError{Op: "create pix payment", Cause: err}
	}

	expires, _ := time.Parse(time.RFC3339, resp.DateOfExpiration)
	return &usecase.PixCharge{
		PaymentID:       resp.ID.String(),
		QRCodeImage:     resp.PointOfInteraction.TransactionData.QRCodeBase64,
		QRCodeCopyPaste: resp.PointOfInteraction.TransactionData.QRCode,
		ExpiresAt:       expires,
		RawStatus:       resp.Status,
	}, nil
}

func (c *Client) CreateCardPayment(ctx context.Context, in usecase.CreateCardInput) (*usecase.CardCharge, error) {
	amount, _ := in.Amount.Round(2).Float64()
	req := createPaymentRequest{
		TransactionAmount: amount,
		Description:       in.Description,
		ExternalReference: in.ExternalReference,
		Token:             in.CardToken,
		Installments:      in.Installments,
		Payer:             paymentPayer{ID: in.CustomerID},
	}

	var resp paymentResponse
	if err := c.do(ctx, http.MethodPost, "/v1/payments", req, &resp); err != nil {
		return nil, &domain.GatewayError{Op: "create card payment", Cause: err}
	}
	return &usecase.CardCharge{
		PaymentID: resp.ID.String(),
		Approved:  resp.Status == "approved",
		RawStatus: resp.Status,
	}, nil
}

func (c *Client) GetPayment(ctx context.Context, paymentID string) (*usecase.PaymentInfo, error) {
	var resp paymentResponse
	if err := c.do(ctx, http.MethodGet, "/v1/payments/"+url.PathEscape(paymentID), nil, &resp); err != nil {
		return nil, &domain.GatewayError{Op: "get payment", Cause: err}
	}
	info, err := resp.toPaymentInfo()
	if err != nil {
		return nil, &domain.GatewayError{Op: "get payment", Cause: err}
	}
	return info, nil
}

// do performs one JSON round trip. No retry here: callers own retry and
// backoff policy.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
		// Gateway-side dedupe for create calls.
		req.Header.Set("X-Idempotency-Key", uuid.NewString())
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, truncate(raw, 512))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

var _ usecase.PaymentGateway = (*Client)(nil)
