package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	baseclient "github.com/vriveraPeersyst/xrplevm-faucet/internal/clients/base"
	"github.com/vriveraPeersyst/xrplevm-faucet/internal/config"
	"github.com/vriveraPeersyst/xrplevm-faucet/internal/utils"
)

// RpcDialer creates connections to an XRPL JSON-RPC endpoint. Every Dial
// returns a connection with its own transport so that Close releases the
// underlying sockets held for a poll loop.
type RpcDialer struct {
	cfg *config.SourceConfig
}

func NewRpcDialer(cfg *config.SourceConfig) *RpcDialer {
	return &RpcDialer{cfg: cfg}
}

func (d *RpcDialer) Dial(_ context.Context) (Conn, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	return &rpcConn{
		cfg:       d.cfg,
		transport: transport,
		httpClient: &http.Client{
			Transport: transport,
		},
	}, nil
}

type rpcConn struct {
	cfg        *config.SourceConfig
	transport  *http.Transport
	httpClient *http.Client
}

func (c *rpcConn) GetBaseURL() string {
	return c.cfg.RpcUrl
}

func (c *rpcConn) GetDefaultRequestTimeout() int {
	return c.cfg.RequestTimeout
}

func (c *rpcConn) GetHttpClient() *http.Client {
	return c.httpClient
}

func (c *rpcConn) Close() {
	c.transport.CloseIdleConnections()
}

type txRequest struct {
	Method string    `json:"method"`
	Params []txParam `json:"params"`
}

type txParam struct {
	Transaction string `json:"transaction"`
	Binary      bool   `json:"binary"`
}

type txResponse struct {
	Result txResult `json:"result"`
}

type txResult struct {
	Status       string          `json:"status"`
	Error        string          `json:"error"`
	Validated    bool            `json:"validated"`
	CloseTimeIso string          `json:"close_time_iso"`
	Meta         json.RawMessage `json:"meta"`
}

type txMeta struct {
	TransactionResult string `json:"TransactionResult"`
}

const errTxnNotFound = "txnNotFound"

// TransactionStatus queries the ledger for the result of txHash via the
// JSON-RPC `tx` method. A transaction the ledger has not seen yet is not an
// error: it returns a zero TxStatus and the caller keeps polling.
func (c *rpcConn) TransactionStatus(ctx context.Context, txHash string) (*TxStatus, error) {
	request := txRequest{
		Method: "tx",
		Params: []txParam{{Transaction: txHash, Binary: false}},
	}
	opts := &baseclient.BaseClientOptions{
		Path:    "",
		Headers: map[string]string{"Content-Type": "application/json"},
	}
	response, clientErr := baseclient.SendRequest[txRequest, txResponse](ctx, c, http.MethodPost, opts, &request)
	if clientErr != nil {
		return nil, clientErr
	}

	result := response.Result
	if result.Status == "error" {
		if result.Error == errTxnNotFound {
			// Not yet in a validated ledger, keep polling
			return &TxStatus{}, nil
		}
		return nil, fmt.Errorf("ledger rpc error: %s", result.Error)
	}

	status := &TxStatus{Validated: result.Validated}
	if !result.Validated {
		return status, nil
	}

	if len(result.Meta) > 0 {
		var meta txMeta
		// Meta is a string rather than an object for binary responses; we
		// always request decoded transactions so a decode failure is real.
		if err := json.Unmarshal(result.Meta, &meta); err != nil {
			return nil, fmt.Errorf("failed to decode transaction meta: %w", err)
		}
		status.ResultCode = meta.TransactionResult
	}

	if status.ResultCode == ResultSuccess {
		closeTime, err := utils.ParseTimestamp(result.CloseTimeIso)
		if err != nil {
			return nil, fmt.Errorf("failed to parse ledger close time %q: %w", result.CloseTimeIso, err)
		}
		status.CloseTime = closeTime
	}

	return status, nil
}

var _ Conn = (*rpcConn)(nil)
var _ baseclient.BaseClient = (*rpcConn)(nil)
