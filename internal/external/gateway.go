package external

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// GatewayClient talks to the payment gateway that executes refunds.
// Money never moves through this service directly.
type GatewayClient struct {
	baseURL      string
	merchantSlug string
	password     string
	httpClient   *http.Client
}

type GatewayConfig struct {
	BaseURL      string
	MerchantSlug string
	Password     string
	Timeout      time.Duration
}

type RefundInitRequest struct {
	MerchantSlug string `json:"merchantSlug"`
	Token        string `json:"token"`
	Amount       string `json:"amount"`
	RequestID    string `json:"requestId"`
	Currency     string `json:"currency"`
	Description  string `json:"description,omitempty"`
}

type RefundInitResponse struct {
	Success   bool   `json:"success"`
	RefundID  string `json:"refundId"`
	RequestID string `json:"requestId"`
	Status    string `json:"status"`
}

type RefundStatusResponse struct {
	Success  bool   `json:"success"`
	RefundID string `json:"refundId"`
	Status   string `json:"status"`
}

// Gateway refund statuses
const (
	GatewayRefundPending   = "PENDING"
	GatewayRefundCompleted = "COMPLETED"
	GatewayRefundFailed    = "FAILED"
)

func NewGatewayClient(cfg GatewayConfig) *GatewayClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &GatewayClient{
		baseURL:      cfg.BaseURL,
		merchantSlug: cfg.MerchantSlug,
		password:     cfg.Password,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// generateToken signs a request: parameter values concatenated in key order,
// hashed with SHA-256. The merchant slug and password always participate.
func (gc *GatewayClient) generateToken(params map[string]string) string {
	params["MerchantSlug"] = gc.merchantSlug
	params["Password"] = gc.password

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var tokenString string
	for _, key := range keys {
		tokenString += params[key]
	}

	hash := sha256.Sum256([]byte(tokenString))
	return hex.EncodeToString(hash[:])
}

// InitRefund asks the gateway to move money back to the cardholder
func (gc *GatewayClient) InitRefund(amount decimal.Decimal, requestID, currency, description string) (*RefundInitResponse, error) {
	params := map[string]string{
		"Amount":    amount.String(),
		"Currency":  currency,
		"RequestId": requestID,
	}
	token := gc.generateToken(params)

	req := RefundInitRequest{
		MerchantSlug: gc.merchantSlug,
		Token:        token,
		Amount:       amount.String(),
		RequestID:    requestID,
		Currency:     currency,
		Description:  description,
	}

	jsonBody, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := gc.httpClient.Post(gc.baseURL+"/api/v1/RefundInit/init", "application/json", bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to init refund: %w", err)
	}
	defer resp.Body.Close()

	var result RefundInitResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if !result.Success {
		return nil, fmt.Errorf("refund init failed")
	}

	return &result, nil
}

// CheckRefund reports the gateway-side status of the refund opened for a
// request id. The gateway assigns its own refund id once the money moves.
func (gc *GatewayClient) CheckRefund(requestID string) (*RefundStatusResponse, error) {
	params := map[string]string{
		"RequestId": requestID,
	}
	token := gc.generateToken(params)

	reqData := map[string]any{
		"merchantSlug": gc.merchantSlug,
		"token":        token,
		"requestId":    requestID,
	}

	jsonBody, err := json.Marshal(reqData)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := gc.httpClient.Post(gc.baseURL+"/api/v1/RefundCheck/check", "application/json", bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to check refund: %w", err)
	}
	defer resp.Body.Close()

	var result RefundStatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result, nil
}
