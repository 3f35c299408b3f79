package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ZiinaService talks to the Ziina payment gateway. Amounts cross this
// boundary in fils (integer subunits), never decimal AED.
type ZiinaService struct {
	baseURL  string
	apiKey   string
	testMode bool
	client   *http.Client
}

// NewZiinaService constructs a gateway client.
func NewZiinaService(baseURL, apiKey string, testMode bool) *ZiinaService {
	return &ZiinaService{
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiKey:   apiKey,
		testMode: testMode,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

// GatewayError is a structured gateway failure, surfaced to the client
// verbatim so the UI can show the provider's reason instead of a generic 500.
type GatewayError struct {
	Provider string `json:"provider"`
	Status   int    `json:"status,omitempty"`
	Code     string `json:"code,omitempty"`
	Message  string `json:"message"`
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("%s: %s (code=%s status=%d)", e.Provider, e.Message, e.Code, e.Status)
}

// PaymentIntent is the gateway's view of a payment request.
type PaymentIntent struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency_code"`
	RedirectURL string `json:"redirect_url"`
	Message     string `json:"message"`
}

// Completed reports whether the intent reached the terminal paid state.
func (p *PaymentIntent) Completed() bool {
	return p.Status == "completed"
}

// Terminal reports whether the intent can no longer complete.
func (p *PaymentIntent) Terminal() bool {
	return p.Status == "failed" || p.Status == "canceled"
}

type createIntentRequest struct {
	Amount       int64  `json:"amount"`
	CurrencyCode string `json:"currency_code"`
	Message      string `json:"message,omitempty"`
	SuccessURL   string `json:"success_url"`
	CancelURL    string `json:"cancel_url"`
	Test         bool   `json:"test"`
}

// CreatePaymentIntent registers a payment of amountFils with the gateway and
// returns the intent carrying the customer redirect URL.
func (s *ZiinaService) CreatePaymentIntent(amountFils int64, message, successURL, cancelURL string) (*PaymentIntent, *GatewayError) {
	payload, _ := json.Marshal(createIntentRequest{
		Amount:       amountFils,
		CurrencyCode: "AED",
		Message:      message,
		SuccessURL:   successURL,
		CancelURL:    cancelURL,
		Test:         s.testMode,
	})

	return s.doIntentRequest(http.MethodPost, "/payment_intent", bytes.NewReader(payload))
}

// GetPaymentIntent fetches the current state of an intent by id.
func (s *ZiinaService) GetPaymentIntent(intentID string) (*PaymentIntent, *GatewayError) {
	return s.doIntentRequest(http.MethodGet, "/payment_intent/"+intentID, nil)
}

func (s *ZiinaService) doIntentRequest(method, path string, body io.Reader) (*PaymentIntent, *GatewayError) {
	req, err := http.NewRequest(method, s.baseURL+path, body)
	if err != nil {
		return nil, &GatewayError{Provider: "ziina", Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &GatewayError{Provider: "ziina", Message: err.Error()}
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, parseGatewayError(resp.StatusCode, respBody)
	}

	var intent PaymentIntent
	if err := json.Unmarshal(respBody, &intent); err != nil {
		return nil, &GatewayError{Provider: "ziina", Status: resp.StatusCode, Message: "unreadable gateway response"}
	}
	if intent.ID == "" {
		return nil, &GatewayError{Provider: "ziina", Status: resp.StatusCode, Message: "gateway response missing intent id"}
	}

	return &intent, nil
}

func parseGatewayError(status int, body []byte) *GatewayError {
	var payload struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Error   struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	_ = json.Unmarshal(body, &payload)

	ge := &GatewayError{Provider: "ziina", Status: status, Code: payload.Code, Message: payload.Message}
	if ge.Code == "" {
		ge.Code = payload.Error.Code
	}
	if ge.Message == "" {
		ge.Message = payload.Error.Message
	}
	if ge.Message == "" {
		ge.Message = strings.TrimSpace(string(body))
	}
	if ge.Message == "" {
		ge.Message = http.StatusText(status)
	}
	return ge
}
