package exotel

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/acme/voice-call-gateway/internal/config"
	apperrors "github.com/acme/voice-call-gateway/pkg/errors"
)

// Client is a minimal Exotel REST API client.
type Client struct {
	apiKey     string
	apiToken   string
	accountSID string
	baseURL    string
	httpClient *http.Client
}

// NewClient builds an Exotel client from config.
func NewClient(cfg config.ExotelConfig) *Client {
	return &Client{
		apiKey:     cfg.APIKey,
		apiToken:   cfg.APIToken,
		accountSID: cfg.AccountSID,
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
	}
}

// Call is the Exotel call resource subset this service reads.
type Call struct {
	Sid       string `json:"Sid"`
	To        string `json:"To"`
	From      string `json:"From"`
	Status    string `json:"Status"`
	Direction string `json:"Direction"`
	Duration  string `json:"Duration"`
	StartTime string `json:"StartTime"`
	EndTime   string `json:"EndTime"`
}

type callEnvelope struct {
	Call Call `json:"Call"`
}

// ConnectCallParams are the parameters for a callback-driven call.
type ConnectCallParams struct {
	From     string
	CallerID string
	FlowURL  string
}

// ConnectCall asks the provider to dial out and fetch the call-flow
// document from FlowURL once answered.
func (c *Client) ConnectCall(ctx context.Context, params ConnectCallParams) (*Call, error) {
	endpoint := fmt.Sprintf("%s/%s/Calls/connect.json", c.baseURL, c.accountSID)

	data := url.Values{}
	data.Set("From", params.From)
	data.Set("CallerId", params.CallerID)
	data.Set("Url", params.FlowURL)
	data.Set("CallType", "trans")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("exotel: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var envelope callEnvelope
	if err := c.do(req, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Call, nil
}

// GetCall retrieves call details by SID.
func (c *Client) GetCall(ctx context.Context, callSID string) (*Call, error) {
	endpoint := fmt.Sprintf("%s/%s/Calls/%s.json", c.baseURL, c.accountSID, callSID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("exotel: build request: %w", err)
	}

	var envelope callEnvelope
	if err := c.do(req, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Call, nil
}

// VerifyAccount performs a lightweight authenticated read of the account
// resource.
func (c *Client) VerifyAccount(ctx context.Context) error {
	endpoint := fmt.Sprintf("%s/%s.json", c.baseURL, c.accountSID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("exotel: build request: %w", err)
	}
	return c.do(req, nil)
}

func (c *Client) do(req *http.Request, result any) error {
	req.SetBasicAuth(c.apiKey, c.apiToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: exotel request: %v", apperrors.ErrProvider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: exotel call", apperrors.ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: exotel status %d: %s", apperrors.ErrProvider, resp.StatusCode, body)
	}

	if result == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%w: decode exotel response: %v", apperrors.ErrProvider, err)
	}
	return nil
}
