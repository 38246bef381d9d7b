package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fetchoracle/telliot-core-alt/client/core/directory"
)

// execute 运行一次命令，返回 stdout
func execute(t *testing.T, c *cli, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	c.out, c.errOut = &out, &errOut
	if c.readPassword == nil {
		c.readPassword = func(string) (string, error) { return "", errors.New("no terminal") }
	}
	root := c.rootCmd()
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func decodeOutput(t *testing.T, out string) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &m), out)
	return m
}

// writeConfig 写入测试配置文件，返回路径
func writeConfig(t *testing.T, endpoint, gasURL string) string {
	t.Helper()
	cfg := map[string]any{
		"chain": map[string]any{
			"chain_id":        4,
			"endpoint":        endpoint,
			"private_key_env": "TELLIOT_TEST_KEY_UNSET",
		},
		"feed": map[string]any{
			"gas_price_url": gasURL,
			"max_attempts":  1,
		},
		"api": map[string]any{"http_enabled": false},
		"log": map[string]any{"to_console": false},
	}
	raw, err := json.Marshal(cfg)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, raw, 0o600))
	return path
}

// nodeServer 应答 eth_chainId 与 eth_call
func nodeServer(t *testing.T, callResult []byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     json.RawMessage `json:"id"`
			Method string          `json:"method"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		resp := map[string]any{"jsonrpc": "2.0", "id": req.ID}
		switch req.Method {
		case "eth_chainId":
			resp["result"] = "0x4"
		case "eth_call":
			resp["result"] = hexutil.Encode(callResult)
		default:
			resp["error"] = map[string]any{"code": -32601, "message": "method not found"}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestValueEncodeDecode(t *testing.T) {
	out, err := execute(t, &cli{}, "value", "encode", "--type", "uint256", "42")
	require.NoError(t, err)
	encoded := decodeOutput(t, out)["encoded"].(string)
	assert.Equal(t, "0x"+fmt.Sprintf("%064x", 42), encoded)

	out, err = execute(t, &cli{}, "value", "decode", "--type", "uint256", encoded)
	require.NoError(t, err)
	assert.Equal(t, "42", decodeOutput(t, out)["value"])
}

func TestValueTuple(t *testing.T) {
	out, err := execute(t, &cli{}, "value", "encode", "--type", "(uint256,string)", `[7,"hi"]`)
	require.NoError(t, err)
	encoded := decodeOutput(t, out)["encoded"].(string)

	out, err = execute(t, &cli{}, "value", "decode", "--type", "(uint256,string)", encoded)
	require.NoError(t, err)
	assert.Equal(t, []any{"7", "hi"}, decodeOutput(t, out)["value"])
}

func TestValuePacked(t *testing.T) {
	out, err := execute(t, &cli{}, "value", "encode", "--type", "uint8", "--packed", "7")
	require.NoError(t, err)
	assert.Equal(t, "0x07", decodeOutput(t, out)["encoded"])

	_, err = execute(t, &cli{}, "value", "decode", "--type", "uint8", "--packed", "0x07")
	assert.Error(t, err)
}

func TestValueRejectsBadInput(t *testing.T) {
	_, err := execute(t, &cli{}, "value", "encode", "--type", "uint8", "300")
	assert.Error(t, err)

	_, err = execute(t, &cli{}, "value", "encode", "--type", "fixed128x18", "1")
	assert.Error(t, err)

	_, err = execute(t, &cli{}, "value", "decode", "--type", "uint256", "zz")
	assert.Error(t, err)
}

func TestParseValueArg(t *testing.T) {
	assert.Equal(t, big.NewInt(42), parseValueArg("42"))
	assert.Equal(t, true, parseValueArg("true"))
	assert.Equal(t, "hello", parseValueArg("hello"))
	assert.Equal(t, "0x00000000000000000000000000000000000000a1", parseValueArg("0x00000000000000000000000000000000000000a1"))
	assert.Equal(t, []any{big.NewInt(1), "x"}, parseValueArg(`[1,"x"]`))
}

func TestUnknownOutputFormat(t *testing.T) {
	_, err := execute(t, &cli{}, "--output", "yaml", "value", "encode", "--type", "uint256", "1")
	assert.Error(t, err)
}

func TestStakerCommand(t *testing.T) {
	dir, err := directory.Builtin()
	require.NoError(t, err)
	entry, ok := dir.Lookup(4, directory.Master)
	require.True(t, ok)
	packed, err := entry.ABI.Methods["getStakerInfo"].Outputs.Pack(big.NewInt(1), big.NewInt(1_600_000_000))
	require.NoError(t, err)

	node := nodeServer(t, packed)
	cfg := writeConfig(t, node.URL, "http://127.0.0.1:1")

	out, err := execute(t, &cli{}, "--config", cfg, "staker", "0x00000000000000000000000000000000000000a1")
	require.NoError(t, err)
	assert.Equal(t, "Staked", decodeOutput(t, out)["status"])

	_, err = execute(t, &cli{}, "--config", cfg, "staker", "nope")
	assert.Error(t, err)
}

func TestDisputeNotFound(t *testing.T) {
	node := nodeServer(t, make([]byte, 8*32))
	cfg := writeConfig(t, node.URL, "http://127.0.0.1:1")

	_, err := execute(t, &cli{}, "--config", cfg, "dispute", "3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestDisputeRejectsOutOfRangeID(t *testing.T) {
	cfg := writeConfig(t, "http://127.0.0.1:1", "http://127.0.0.1:1")

	_, err := execute(t, &cli{}, "--config", cfg, "dispute", new(big.Int).Lsh(big.NewInt(1), 256).String())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dispute id")
}

func TestGasPriceCommand(t *testing.T) {
	gas := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"fast": 420.0, "safeLow": 199}`))
	}))
	defer gas.Close()
	cfg := writeConfig(t, "http://127.0.0.1:1", gas.URL)

	out, err := execute(t, &cli{}, "--config", cfg, "gas-price", "--style", "safeLow")
	require.NoError(t, err)
	view := decodeOutput(t, out)
	assert.Equal(t, "safeLow", view["style"])
	assert.Equal(t, float64(19), view["gwei"])

	_, err = execute(t, &cli{}, "--config", cfg, "gas-price", "--style", "instant")
	assert.Error(t, err)
}

func TestStakeWithoutKey(t *testing.T) {
	cfg := writeConfig(t, "http://127.0.0.1:1", "http://127.0.0.1:1")
	_, err := execute(t, &cli{}, "--config", cfg, "stake", "deposit")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no terminal")
}
