package twilio

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/acme/voice-call-gateway/internal/config"
	apperrors "github.com/acme/voice-call-gateway/pkg/errors"
)

// Client is a minimal Twilio REST API client.
type Client struct {
	accountSID string
	authToken  string
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a Twilio client from config.
func NewClient(cfg config.TwilioConfig) *Client {
	return &Client{
		accountSID: cfg.AccountSID,
		authToken:  cfg.AuthToken,
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
	}
}

// Call is the Twilio call resource subset this service reads.
type Call struct {
	SID       string `json:"sid"`
	To        string `json:"to"`
	From      string `json:"from"`
	Status    string `json:"status"`
	Direction string `json:"direction"`
	Duration  string `json:"duration"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// DurationSeconds parses the provider's string duration field.
func (c *Call) DurationSeconds() (int, bool) {
	if c.Duration == "" {
		return 0, false
	}
	n, err := strconv.Atoi(c.Duration)
	if err != nil {
		return 0, false
	}
	return n, true
}

// MakeCallParams are the parameters for originating a call.
type MakeCallParams struct {
	To               string
	From             string
	Twiml            string
	URL              string
	Timeout          int
	Record           bool
	MachineDetection string
}

// MakeCall originates an outbound call.
func (c *Client) MakeCall(ctx context.Context, params MakeCallParams) (*Call, error) {
	endpoint := fmt.Sprintf("%s/Accounts/%s/Calls.json", c.baseURL, c.accountSID)

	data := url.Values{}
	data.Set("To", params.To)
	data.Set("From", params.From)
	if params.Twiml != "" {
		data.Set("Twiml", params.Twiml)
	}
	if params.URL != "" {
		data.Set("Url", params.URL)
	}
	if params.Timeout > 0 {
		data.Set("Timeout", strconv.Itoa(params.Timeout))
	}
	data.Set("Record", strconv.FormatBool(params.Record))
	if params.MachineDetection != "" {
		data.Set("MachineDetection", params.MachineDetection)
	}

	var call Call
	if err := c.postForm(ctx, endpoint, data, &call); err != nil {
		return nil, err
	}
	return &call, nil
}

// GetCall retrieves a call resource by SID.
func (c *Client) GetCall(ctx context.Context, callSID string) (*Call, error) {
	endpoint := fmt.Sprintf("%s/Accounts/%s/Calls/%s.json", c.baseURL, c.accountSID, callSID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("twilio: build request: %w", err)
	}

	var call Call
	if err := c.do(req, &call); err != nil {
		return nil, err
	}
	return &call, nil
}

func (c *Client) postForm(ctx context.Context, endpoint string, data url.Values, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(data.Encode()))
	if err != nil {
		return fmt.Errorf("twilio: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, result)
}

func (c *Client) do(req *http.Request, result any) error {
	req.SetBasicAuth(c.accountSID, c.authToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: twilio request: %v", apperrors.ErrProvider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: twilio call", apperrors.ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: twilio status %d: %s", apperrors.ErrProvider, resp.StatusCode, body)
	}

	if result == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%w: decode twilio response: %v", apperrors.ErrProvider, err)
	}
	return nil
}
