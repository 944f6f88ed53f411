package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"naayee/internal/metrics"
	"naayee/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// TokenSource supplies the current session credential. An empty token means
// the request goes out unauthenticated.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Client is the HTTP client for the salon booking API. One call, one HTTP
// round trip: no retries, no caching.
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     zerolog.Logger
}

// Option configures optional client behavior.
type Option func(*Client)

// WithRateLimit caps outbound request rate. Zero rps disables the limiter.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		}
	}
}

// WithTimeout overrides the default request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient constructs a client for baseURL. tokens may be nil for a client
// that only ever calls signup/login.
func NewClient(baseURL string, tokens TokenSource, logger zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		tokens:     tokens,
		httpClient: &http.Client{Timeout: models.DefaultRequestTimeout * time.Second},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Signup creates an account and returns the issued session token.
func (c *Client) Signup(ctx context.Context, req models.SignupRequest) (string, error) {
	var resp tokenResponse
	if err := c.doPost(ctx, "signup", "/customer/signup", req, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	body := map[string]string{"email": email, "password": password}
	var resp tokenResponse
	if err := c.doPost(ctx, "login", "/customer/login", body, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

// GetProfile fetches the customer profile.
func (c *Client) GetProfile(ctx context.Context) (*models.Profile, error) {
	var profile models.Profile
	if err := c.doGet(ctx, "profile.get", "/customer/profile", &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateProfile replaces the profile wholesale and returns the server's copy,
// which may differ from what was submitted.
func (c *Client) UpdateProfile(ctx context.Context, profile models.Profile) (*models.Profile, error) {
	var saved models.Profile
	if err := c.doPut(ctx, "profile.update", "/customer/profile", profile, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

// ListSalons returns the salon directory.
func (c *Client) ListSalons(ctx context.Context) ([]models.Salon, error) {
	var salons []models.Salon
	if err := c.doGet(ctx, "salons.list", "/customer/salons", &salons); err != nil {
		return nil, err
	}
	return salons, nil
}

// ListServices returns the services offered by a salon. An unknown id is the
// server's to reject; it comes back as ErrServer.
func (c *Client) ListServices(ctx context.Context, salonID int64) ([]models.Service, error) {
	var services []models.Service
	endpoint := fmt.Sprintf("/customer/salons/%d/services", salonID)
	if err := c.doGet(ctx, "services.list", endpoint, &services); err != nil {
		return nil, err
	}
	return services, nil
}

// ListStaff returns the staff of a salon.
func (c *Client) ListStaff(ctx context.Context, salonID int64) ([]models.Staff, error) {
	var staff []models.Staff
	endpoint := fmt.Sprintf("/customer/salons/%d/staff", salonID)
	if err := c.doGet(ctx, "staff.list", endpoint, &staff); err != nil {
		return nil, err
	}
	return staff, nil
}

type createOrderResponse struct {
	Success bool                 `json:"success"`
	Order   *models.PaymentOrder `json:"order"`
}

// CreateOrder submits a validated booking draft. Any response other than
// success:true with an order is ErrOrderRejected; there is no retry.
func (c *Client) CreateOrder(ctx context.Context, draft models.BookingDraft) (*models.PaymentOrder, error) {
	var resp createOrderResponse
	if err := c.doPost(ctx, "order.create", "/create-order", draft, &resp); err != nil {
		return nil, err
	}
	if !resp.Success || resp.Order == nil || resp.Order.ID == "" {
		return nil, ErrOrderRejected
	}
	if resp.Order.Currency == "" {
		resp.Order.Currency = models.DefaultCurrency
	}
	return resp.Order, nil
}

type verifyResponse struct {
	Success bool `json:"success"`
}

// VerifyPayment submits a payment receipt for server-side verification.
func (c *Client) VerifyPayment(ctx context.Context, receipt models.PaymentReceipt) error {
	var resp verifyResponse
	if err := c.doPost(ctx, "payment.verify", "/verify-payment", receipt, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return ErrVerificationRejected
	}
	return nil
}

func (c *Client) doGet(ctx context.Context, name, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	return c.do(req, name, out)
}

func (c *Client) doPost(ctx context.Context, name, endpoint string, body, out any) error {
	return c.doJSON(ctx, http.MethodPost, name, endpoint, body, out)
}

func (c *Client) doPut(ctx context.Context, name, endpoint string, body, out any) error {
	return c.doJSON(ctx, http.MethodPut, name, endpoint, body, out)
}

func (c *Client) doJSON(ctx context.Context, method, name, endpoint string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%w: encode request: %v", ErrNetwork, err)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, name, out)
}

func (c *Client) do(req *http.Request, name string, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(req.Context()); err != nil {
			return fmt.Errorf("%w: %v", ErrNetwork, err)
		}
	}

	requestID := uuid.NewString()
	req.Header.Set(models.RequestIDHeader, requestID)
	c.addAuthHeader(req)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.IncAPIRequest(name, "network_error")
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("request_id", requestID).
		Str("method", req.Method).
		Str("endpoint", name).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("api request")

	if resp.StatusCode == http.StatusUnauthorized {
		metrics.IncAPIRequest(name, "auth_error")
		return ErrAuth
	}
	if resp.StatusCode >= 300 {
		metrics.IncAPIRequest(name, "server_error")
		return fmt.Errorf("%w: status %d: %s", ErrServer, resp.StatusCode, serverMessage(resp))
	}

	metrics.IncAPIRequest(name, "ok")
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrServer, err)
	}
	return nil
}

// addAuthHeader attaches the stored credential if one is present. Absent or
// unreadable credential means the request goes out without the header; the
// server answers 401 for endpoints that need it.
func (c *Client) addAuthHeader(req *http.Request) {
	if c.tokens == nil {
		return
	}
	token, err := c.tokens.Token(req.Context())
	if err != nil || token == "" {
		return
	}
	req.Header.Set(models.AuthHeader, token)
}

// serverMessage extracts the server's msg field, falling back to the status
// text when the body is not the expected shape.
func serverMessage(resp *http.Response) string {
	var body struct {
		Msg string `json:"msg"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Msg != "" {
		return body.Msg
	}
	return http.StatusText(resp.StatusCode)
}
