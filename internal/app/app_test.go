package app

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fetchoracle/telliot-core-alt/client/core/directory"
	"github.com/fetchoracle/telliot-core-alt/pkg/types"
)

func chainServer(t *testing.T, chainID string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     json.RawMessage `json:"id"`
			Method string          `json:"method"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		resp := map[string]any{"jsonrpc": "2.0", "id": req.ID}
		if req.Method == "eth_chainId" {
			resp["result"] = chainID
		} else {
			resp["error"] = map[string]any{"code": -32601, "message": "method not found"}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(endpoint string) *types.AppConfig {
	chainID := int64(4)
	return &types.AppConfig{
		Chain: &types.UserChainConfig{ChainID: &chainID, Endpoint: &endpoint, PrivateKeyEnv: types.StringPtr("TELLIOT_TEST_UNSET_KEY")},
		Log:   &types.UserLogConfig{ToConsole: types.BoolPtr(false)},
	}
}

func TestRunAssemblesServices(t *testing.T) {
	srv := chainServer(t, "0x4")

	err := Run(context.Background(), func(_ context.Context, svc Services) error {
		require.NotNil(t, svc.Master)
		require.NotNil(t, svc.Oracle)
		require.NotNil(t, svc.Gas)
		assert.Nil(t, svc.Client.Signer())

		entry, ok := svc.Directory.Lookup(4, directory.Master)
		require.True(t, ok)
		assert.Equal(t, entry.Address, svc.Master.Address())
		return nil
	}, WithAppConfig(testConfig(srv.URL)))
	require.NoError(t, err)
}

func TestRunWithPrivateKey(t *testing.T) {
	srv := chainServer(t, "0x4")
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	err = Run(context.Background(), func(_ context.Context, svc Services) error {
		require.NotNil(t, svc.Client.Signer())
		assert.Equal(t, crypto.PubkeyToAddress(key.PublicKey), svc.Client.Signer().Address())
		return nil
	}, WithAppConfig(testConfig(srv.URL)), WithPrivateKey("0x"+hex.EncodeToString(crypto.FromECDSA(key))))
	require.NoError(t, err)
}

func TestRunRejectsChainMismatch(t *testing.T) {
	srv := chainServer(t, "0x1")

	called := false
	err := Run(context.Background(), func(context.Context, Services) error {
		called = true
		return nil
	}, WithAppConfig(testConfig(srv.URL)))
	require.Error(t, err)
	assert.False(t, called)
}

func TestRunToleratesUnreachableEndpoint(t *testing.T) {
	srv := chainServer(t, "0x4")
	url := srv.URL
	srv.Close()

	err := Run(context.Background(), func(context.Context, Services) error { return nil }, WithAppConfig(testConfig(url)))
	require.NoError(t, err)
}

func TestRunRejectsInvalidKey(t *testing.T) {
	srv := chainServer(t, "0x4")
	err := Run(context.Background(), func(context.Context, Services) error { return nil },
		WithAppConfig(testConfig(srv.URL)), WithPrivateKey("not-a-key"))
	require.Error(t, err)
}
