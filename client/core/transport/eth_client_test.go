package transport

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fetchoracle/telliot-core-alt/internal/core/infrastructure/log"
)

const testABI = `[
	{"type":"function","name":"getUintVar","stateMutability":"view","inputs":[{"name":"data","type":"bytes32"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"depositStake","stateMutability":"nonpayable","inputs":[],"outputs":[]}
]`

var contractAddr = common.HexToAddress("0x88dF592F8eb5D7Bd38bFeF7dEb0fBc02cf3778a0")

func parsedABI(t *testing.T) *abi.ABI {
	t.Helper()
	parsed, err := abi.JSON(strings.NewReader(testABI))
	require.NoError(t, err)
	return &parsed
}

// rpcServer 按方法名返回预设响应的 JSON-RPC 服务
func rpcServer(t *testing.T, status int, handle func(method string) (result any, rpcErr map[string]any)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			http.Error(w, http.StatusText(status), status)
			return
		}
		var req struct {
			ID     json.RawMessage `json:"id"`
			Method string          `json:"method"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		result, rpcErr := handle(req.Method)
		resp := map[string]any{"jsonrpc": "2.0", "id": req.ID}
		if rpcErr != nil {
			resp["error"] = rpcErr
		} else {
			resp["result"] = result
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dialTest(t *testing.T, url string) *EthClient {
	t.Helper()
	c, err := Dial(context.Background(), ClientConfig{Endpoint: url, ChainID: 4, Timeout: 2 * time.Second}, log.NewNop())
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func callReq(t *testing.T) *CallRequest {
	return &CallRequest{ChainID: 4, Address: contractAddr, Interface: parsedABI(t), Operation: "getUintVar", Calldata: []byte{0x61, 0x2c, 0x84, 0x80}}
}

func TestEthClientCallOverHTTP(t *testing.T) {
	word := "0x000000000000000000000000000000000000000000000000000000000000002a"
	srv := rpcServer(t, http.StatusOK, func(method string) (any, map[string]any) {
		assert.Equal(t, "eth_call", method)
		return word, nil
	})

	out, err := dialTest(t, srv.URL).Call(context.Background(), callReq(t))
	require.NoError(t, err)
	require.Len(t, out, 32)
	assert.Equal(t, byte(42), out[31])
}

func TestEthClientCallFailures(t *testing.T) {
	cases := []struct {
		name   string
		status int
		rpcErr map[string]any
		want   Kind
	}{
		{"unauthorized", http.StatusUnauthorized, nil, KindAuth},
		{"unavailable", http.StatusServiceUnavailable, nil, KindNetwork},
		{"method not found", http.StatusOK, map[string]any{"code": -32601, "message": "the method eth_call does not exist"}, KindUnsupported},
		{"revert", http.StatusOK, map[string]any{"code": 3, "message": "execution reverted"}, KindRejected},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := rpcServer(t, tc.status, func(string) (any, map[string]any) { return nil, tc.rpcErr })
			_, err := dialTest(t, srv.URL).Call(context.Background(), callReq(t))
			require.Error(t, err)
			assert.Equal(t, tc.want, KindOf(err), "err: %v", err)
		})
	}
}

func TestEthClientMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("garbage"))
	}))
	defer srv.Close()

	_, err := dialTest(t, srv.URL).Call(context.Background(), callReq(t))
	require.Error(t, err)
	assert.Equal(t, KindMalformed, KindOf(err), "err: %v", err)
}

func TestEthClientUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := dialTest(t, url).Call(context.Background(), callReq(t))
	require.Error(t, err)
	assert.Equal(t, KindNetwork, KindOf(err), "err: %v", err)
}

func TestEthClientNoCode(t *testing.T) {
	srv := rpcServer(t, http.StatusOK, func(method string) (any, map[string]any) {
		return "0x", nil // eth_call 与 eth_getCode 都返回空
	})

	_, err := dialTest(t, srv.URL).Call(context.Background(), callReq(t))
	require.Error(t, err)
	assert.Equal(t, KindRejected, KindOf(err))
	assert.ErrorIs(t, err, bind.ErrNoCode)
}

type fakeBackend struct {
	bind.ContractBackend

	nonce   uint64
	chainID int64
	sent    []*types.Transaction
	sendErr error
}

func (f *fakeBackend) HeaderByNumber(context.Context, *big.Int) (*types.Header, error) {
	return &types.Header{Number: big.NewInt(1)}, nil
}

func (f *fakeBackend) SuggestGasPrice(context.Context) (*big.Int, error) {
	return big.NewInt(1_000_000_000), nil
}

func (f *fakeBackend) PendingNonceAt(context.Context, common.Address) (uint64, error) {
	return f.nonce, nil
}

func (f *fakeBackend) PendingCodeAt(context.Context, common.Address) ([]byte, error) {
	return []byte{0x60, 0x80}, nil
}

func (f *fakeBackend) EstimateGas(context.Context, ethereum.CallMsg) (uint64, error) {
	return 60_000, nil
}

func (f *fakeBackend) SendTransaction(_ context.Context, tx *types.Transaction) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, tx)
	return nil
}

func (f *fakeBackend) CallContract(context.Context, ethereum.CallMsg, *big.Int) ([]byte, error) {
	return make([]byte, 32), nil
}

func (f *fakeBackend) ChainID(context.Context) (*big.Int, error) {
	return big.NewInt(f.chainID), nil
}

func testSigner(t *testing.T) *Signer {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	s, err := NewSignerFromKey(key, 4)
	require.NoError(t, err)
	assert.Equal(t, crypto.PubkeyToAddress(key.PublicKey), s.Address())
	return s
}

func sendReq(t *testing.T) *CallRequest {
	return &CallRequest{ChainID: 4, Address: contractAddr, Interface: parsedABI(t), Operation: "depositStake", Calldata: []byte{0x0d, 0x2d, 0x76, 0xa2}}
}

func TestEthClientSend(t *testing.T) {
	backend := &fakeBackend{nonce: 7, chainID: 4}
	c := NewEthClient(backend, log.NewNop(), WithSigner(testSigner(t)))

	ref, err := c.Send(context.Background(), sendReq(t))
	require.NoError(t, err)
	require.Len(t, backend.sent, 1)
	assert.Equal(t, backend.sent[0].Hash(), ref.Hash)
	assert.Equal(t, uint64(7), ref.Nonce)
	assert.Equal(t, contractAddr, ref.To)
	assert.Equal(t, []byte{0x0d, 0x2d, 0x76, 0xa2}, backend.sent[0].Data())
}

func TestEthClientSendWithoutSigner(t *testing.T) {
	c := NewEthClient(&fakeBackend{chainID: 4}, log.NewNop())
	_, err := c.Send(context.Background(), sendReq(t))
	assert.Equal(t, KindAuth, KindOf(err))
	assert.ErrorIs(t, err, ErrNoSigner)
}

func TestEthClientSendRejected(t *testing.T) {
	backend := &fakeBackend{chainID: 4, sendErr: errors.New("nonce too low")}
	c := NewEthClient(backend, log.NewNop(), WithSigner(testSigner(t)))
	_, err := c.Send(context.Background(), sendReq(t))
	assert.Equal(t, KindRejected, KindOf(err))
}

func TestNewSignerInvalidKey(t *testing.T) {
	_, err := NewSigner("0xnot-a-key", 4)
	assert.Equal(t, KindAuth, KindOf(err))
}

func TestEthClientRateLimitHonoursContext(t *testing.T) {
	c := NewEthClient(&fakeBackend{chainID: 4}, log.NewNop(), WithRateLimit(0.001, 1))
	_, err := c.Call(context.Background(), callReq(t))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = c.Call(ctx, callReq(t))
	assert.Equal(t, KindNetwork, KindOf(err))
}

func TestEthClientCheckChainID(t *testing.T) {
	c := NewEthClient(&fakeBackend{chainID: 4}, log.NewNop())
	assert.NoError(t, c.CheckChainID(context.Background(), 4))
	err := c.CheckChainID(context.Background(), 1)
	assert.Equal(t, KindRejected, KindOf(err))
}
