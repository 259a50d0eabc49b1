package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// HTTPGateway calls the external services mock (or a real provider)
// over HTTP. Non-2xx answers map to ErrRejected; transport failures and
// timeouts map to ErrUnavailable.
type HTTPGateway struct {
	baseURL string
	client  *http.Client
}

func NewHTTPGateway(baseURL string, timeout time.Duration) *HTTPGateway {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &HTTPGateway{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type externalRequest struct {
	Amount             float64 `json:"amount"`
	ExternalWalletInfo string  `json:"external_wallet_info"`
}

type externalResponse struct {
	Status        string `json:"status"`
	Message       string `json:"message"`
	TransactionID string `json:"transaction_id"`
}

func (g *HTTPGateway) RequestTopUp(ctx context.Context, amount float64, externalWalletInfo string) (string, error) {
	return g.post(ctx, "/external/topup/request", amount, externalWalletInfo)
}

func (g *HTTPGateway) RequestDebit(ctx context.Context, amount float64, externalWalletInfo string) (string, error) {
	return g.post(ctx, "/external/debin/request", amount, externalWalletInfo)
}

func (g *HTTPGateway) post(ctx context.Context, path string, amount float64, externalWalletInfo string) (string, error) {
	body, err := json.Marshal(externalRequest{
		Amount:             amount,
		ExternalWalletInfo: externalWalletInfo,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal gateway request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	var parsed externalResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("%w: malformed response", ErrUnavailable)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || parsed.Status != "success" {
		return "", fmt.Errorf("%w: %s", ErrRejected, parsed.Message)
	}
	return parsed.TransactionID, nil
}
