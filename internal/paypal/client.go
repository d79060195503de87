package paypal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	sandboxBaseURL = "https://api.sandbox.paypal.com"
	liveBaseURL    = "https://api.paypal.com"
)

// ErrAlreadyExecuted reports that the provider refused an execute call
// because the payment was completed by an earlier call.
var ErrAlreadyExecuted = errors.New("payment already executed")

// APIError is a decoded PayPal error response.
type APIError struct {
	Name    string `json:"name"`
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("paypal: %s (status %d)", e.Name, e.Status)
	}
	return fmt.Sprintf("paypal: %s: %s", e.Name, e.Message)
}

// Client calls the PayPal REST payments API.
type Client struct {
	clientID     string
	clientSecret string
	baseURL      string
	httpClient   *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewClient builds a client for the given mode ("sandbox" or "live").
func NewClient(clientID, clientSecret, mode string, timeout time.Duration) *Client {
	baseURL := sandboxBaseURL
	if mode == "live" {
		baseURL = liveBaseURL
	}
	return &Client{
		clientID:     clientID,
		clientSecret: clientSecret,
		baseURL:      baseURL,
		httpClient:   &http.Client{Timeout: timeout},
	}
}

// NewClientWithBaseURL is intended for tests against a stub server.
func NewClientWithBaseURL(clientID, clientSecret, baseURL string, timeout time.Duration) *Client {
	c := NewClient(clientID, clientSecret, "sandbox", timeout)
	c.baseURL = baseURL
	return c
}

type Amount struct {
	Currency string `json:"currency"`
	Total    string `json:"total"`
}

type Transaction struct {
	Amount        Amount `json:"amount"`
	Description   string `json:"description,omitempty"`
	Custom        string `json:"custom,omitempty"`
	InvoiceNumber string `json:"invoice_number,omitempty"`
}

type Payer struct {
	PaymentMethod string    `json:"payment_method,omitempty"`
	PayerInfo     PayerInfo `json:"payer_info,omitempty"`
}

type PayerInfo struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type RedirectURLs struct {
	ReturnURL string `json:"return_url"`
	CancelURL string `json:"cancel_url"`
}

type Link struct {
	Href   string `json:"href"`
	Rel    string `json:"rel"`
	Method string `json:"method"`
}

// Payment is the provider-side payment resource.
type Payment struct {
	ID           string        `json:"id,omitempty"`
	Intent       string        `json:"intent,omitempty"`
	State        string        `json:"state,omitempty"`
	Payer        Payer         `json:"payer,omitempty"`
	Transactions []Transaction `json:"transactions,omitempty"`
	RedirectURLs *RedirectURLs `json:"redirect_urls,omitempty"`
	Links        []Link        `json:"links,omitempty"`
}

// Approved reports whether the payment reached the approved state.
func (p Payment) Approved() bool {
	return p.State == "approved"
}

// ApprovalURL returns the href of the approval_url link, matching the
// relation case-insensitively. The second return is false when absent.
func (p Payment) ApprovalURL() (string, bool) {
	for _, link := range p.Links {
		if strings.EqualFold(link.Rel, "approval_url") {
			return link.Href, true
		}
	}
	return "", false
}

type CreatePaymentRequest struct {
	Amount        Amount
	Description   string
	Custom        string
	InvoiceNumber string
	ReturnURL     string
	CancelURL     string
}

// CreatePayment creates a provider-side payment awaiting buyer approval.
func (c *Client) CreatePayment(ctx context.Context, req CreatePaymentRequest) (Payment, error) {
	body := Payment{
		Intent: "sale",
		Payer:  Payer{PaymentMethod: "paypal"},
		Transactions: []Transaction{{
			Amount:        req.Amount,
			Description:   req.Description,
			Custom:        req.Custom,
			InvoiceNumber: req.InvoiceNumber,
		}},
		RedirectURLs: &RedirectURLs{
			ReturnURL: req.ReturnURL,
			CancelURL: req.CancelURL,
		},
	}

	var created Payment
	if err := c.doJSON(ctx, http.MethodPost, "/v1/payments/payment", body, &created); err != nil {
		return Payment{}, err
	}
	return created, nil
}

// ExecutePayment finalizes an approved payment. A provider refusal caused
// by a previous successful execution maps to ErrAlreadyExecuted.
func (c *Client) ExecutePayment(ctx context.Context, paymentID, payerID string) (Payment, error) {
	body := struct {
		PayerID string `json:"payer_id"`
	}{PayerID: payerID}

	var executed Payment
	path := "/v1/payments/payment/" + url.PathEscape(paymentID) + "/execute"
	if err := c.doJSON(ctx, http.MethodPost, path, body, &executed); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && isAlreadyDone(apiErr) {
			return Payment{}, fmt.Errorf("%w: %s", ErrAlreadyExecuted, apiErr.Message)
		}
		return Payment{}, err
	}
	return executed, nil
}

// GetPayment fetches the current payment state without executing it.
func (c *Client) GetPayment(ctx context.Context, paymentID string) (Payment, error) {
	var payment Payment
	path := "/v1/payments/payment/" + url.PathEscape(paymentID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &payment); err != nil {
		return Payment{}, err
	}
	return payment, nil
}

// isAlreadyDone keeps the provider's duplicate-execution signaling in one
// place; callers only ever see ErrAlreadyExecuted.
func isAlreadyDone(e *APIError) bool {
	if e.Name == "PAYMENT_ALREADY_DONE" {
		return true
	}
	return strings.Contains(strings.ToLower(e.Message), "already executed")
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	token, err := c.token(ctx)
	if err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("paypal request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		if jsonErr := json.Unmarshal(data, apiErr); jsonErr != nil || (apiErr.Name == "" && apiErr.Message == "") {
			apiErr.Name = "UNKNOWN_ERROR"
			apiErr.Message = strings.TrimSpace(string(data))
		}
		return apiErr
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}
	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch token: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read token response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", &APIError{Name: "OAUTH_ERROR", Message: strings.TrimSpace(string(data)), Status: resp.StatusCode}
	}

	var tok tokenResponse
	if err := json.Unmarshal(data, &tok); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if tok.AccessToken == "" {
		return "", &APIError{Name: "OAUTH_ERROR", Message: "empty access token", Status: resp.StatusCode}
	}

	c.accessToken = tok.AccessToken
	// Renew a minute early to avoid using a token at the expiry boundary.
	c.tokenExpiry = time.Now().Add(time.Duration(tok.ExpiresIn)*time.Second - time.Minute)
	return c.accessToken, nil
}
