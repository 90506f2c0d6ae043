package ledger

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vriveraPeersyst/xrplevm-faucet/internal/config"
)

const testTxHash = "A1B2C3D4E5F6A7B8C9D0A1B2C3D4E5F6A7B8C9D0A1B2C3D4E5F6A7B8C9D0A1B2"

func dialTestConn(t *testing.T, serverUrl string) Conn {
	dialer := NewRpcDialer(&config.SourceConfig{
		RpcUrl:         serverUrl,
		RequestTimeout: 1000,
	})
	conn, err := dialer.Dial(context.Background())
	require.NoError(t, err)
	return conn
}

func rpcServer(t *testing.T, result map[string]interface{}) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)

		var request map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&request))
		assert.Equal(t, "tx", request["method"])
		params := request["params"].([]interface{})
		require.Len(t, params, 1)
		assert.Equal(t, testTxHash, params[0].(map[string]interface{})["transaction"])

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"result": result})
	}))
}

func TestTransactionStatusSettled(t *testing.T) {
	server := rpcServer(t, map[string]interface{}{
		"status":         "success",
		"validated":      true,
		"close_time_iso": "2024-05-01T12:00:00Z",
		"meta":           map[string]interface{}{"TransactionResult": "tesSUCCESS"},
	})
	defer server.Close()

	conn := dialTestConn(t, server.URL)
	defer conn.Close()

	status, err := conn.TransactionStatus(context.Background(), testTxHash)
	require.NoError(t, err)
	assert.True(t, status.Settled())
	assert.False(t, status.DefinitiveFailure())
	assert.Equal(t, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), status.CloseTime.UTC())
}

func TestTransactionStatusDefinitiveFailure(t *testing.T) {
	server := rpcServer(t, map[string]interface{}{
		"status":    "success",
		"validated": true,
		"meta":      map[string]interface{}{"TransactionResult": "tecUNFUNDED_PAYMENT"},
	})
	defer server.Close()

	conn := dialTestConn(t, server.URL)
	defer conn.Close()

	status, err := conn.TransactionStatus(context.Background(), testTxHash)
	require.NoError(t, err)
	assert.False(t, status.Settled())
	assert.True(t, status.DefinitiveFailure())
	assert.Equal(t, "tecUNFUNDED_PAYMENT", status.ResultCode)
}

func TestTransactionStatusNotYetValidated(t *testing.T) {
	server := rpcServer(t, map[string]interface{}{
		"status":    "success",
		"validated": false,
	})
	defer server.Close()

	conn := dialTestConn(t, server.URL)
	defer conn.Close()

	status, err := conn.TransactionStatus(context.Background(), testTxHash)
	require.NoError(t, err)
	assert.False(t, status.Settled())
	assert.False(t, status.DefinitiveFailure())
}

func TestTransactionStatusNotFoundIsNotAnError(t *testing.T) {
	server := rpcServer(t, map[string]interface{}{
		"status": "error",
		"error":  "txnNotFound",
	})
	defer server.Close()

	conn := dialTestConn(t, server.URL)
	defer conn.Close()

	status, err := conn.TransactionStatus(context.Background(), testTxHash)
	require.NoError(t, err)
	assert.False(t, status.Validated)
	assert.Empty(t, status.ResultCode)
}

func TestTransactionStatusRpcError(t *testing.T) {
	server := rpcServer(t, map[string]interface{}{
		"status": "error",
		"error":  "amendmentBlocked",
	})
	defer server.Close()

	conn := dialTestConn(t, server.URL)
	defer conn.Close()

	_, err := conn.TransactionStatus(context.Background(), testTxHash)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "amendmentBlocked")
}
