package explorer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/vriveraPeersyst/xrplevm-faucet/internal/config"
)

const zeroAddress = "0x0000000000000000000000000000000000000000"

type HttpClient struct {
	cfg        *config.DestinationConfig
	httpClient *http.Client
}

func NewHttpClient(cfg *config.DestinationConfig) *HttpClient {
	httpClient := &http.Client{
		Timeout: time.Duration(cfg.RequestTimeout) * time.Millisecond,
	}
	return &HttpClient{
		cfg:        cfg,
		httpClient: httpClient,
	}
}

type tokenTransfersResponse struct {
	Items []TokenTransfer `json:"items"`
}

// TokenTransfers fetches the inbound ERC-20 transfer list for the address,
// filtered to the bridged-XRP token contract. The explorer returns 404 for
// addresses it has not indexed yet; that means "no transfers yet", not an error.
func (c *HttpClient) TokenTransfers(ctx context.Context, destinationAddress string) ([]TokenTransfer, error) {
	query := url.Values{}
	query.Set("type", "ERC-20")
	query.Set("filter", fmt.Sprintf("%s | %s", destinationAddress, zeroAddress))
	query.Set("token", c.cfg.TokenAddress)

	requestUrl := fmt.Sprintf(
		"%s/addresses/%s/token-transfers?%s",
		c.cfg.ExplorerApiUrl, destinationAddress, query.Encode(),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestUrl, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to perform HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("explorer returned status %d", resp.StatusCode)
	}

	var output tokenTransfersResponse
	if err := json.NewDecoder(resp.Body).Decode(&output); err != nil {
		return nil, fmt.Errorf("failed to decode explorer response: %w", err)
	}

	return output.Items, nil
}

var _ Client = (*HttpClient)(nil)
