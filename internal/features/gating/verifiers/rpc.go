package verifiers

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/crypto/sha3"
)

// rpcClient is a minimal JSON-RPC 2.0 client for EVM-style chains. It
// rotates across the configured endpoints on failure, bounded to one
// attempt per endpoint, and reports the last error once rotation is
// exhausted.
type rpcClient struct {
	endpoints  []string
	httpClient *http.Client
	next       uint32
}

func newRPCClient(endpoints []string) *rpcClient {
	return &rpcClient{
		endpoints:  endpoints,
		httpClient: &http.Client{Timeout: 12 * time.Second},
	}
}

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
	ID      int           `json:"id"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

func (c *rpcClient) call(ctx context.Context, method string, params ...interface{}) (json.RawMessage, error) {
	if len(c.endpoints) == 0 {
		return nil, fmt.Errorf("no rpc endpoints configured")
	}

	body, err := json.Marshal(rpcRequest{JSONRPC: "2.0", Method: method, Params: params, ID: 1})
	if err != nil {
		return nil, err
	}

	start := atomic.AddUint32(&c.next, 1)
	var lastErr error
	for i := 0; i < len(c.endpoints); i++ {
		endpoint := c.endpoints[(int(start)+i)%len(c.endpoints)]

		result, err := c.post(ctx, endpoint, body)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	return nil, lastErr
}

func (c *rpcClient) post(ctx context.Context, endpoint string, body []byte) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rpc http %d", resp.StatusCode)
	}

	var out rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	if out.Error != nil {
		return nil, fmt.Errorf("rpc error %d: %s", out.Error.Code, out.Error.Message)
	}
	return out.Result, nil
}

// ethCall performs a read-only eth_call against a contract and returns the
// raw hex result.
func (c *rpcClient) ethCall(ctx context.Context, to, data string) (string, error) {
	raw, err := c.call(ctx, "eth_call", map[string]string{"to": to, "data": data}, "latest")
	if err != nil {
		return "", err
	}
	var result string
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", fmt.Errorf("invalid eth_call result: %w", err)
	}
	return result, nil
}

// balanceAt returns the native balance of an address in wei.
func (c *rpcClient) balanceAt(ctx context.Context, address string) (*big.Int, error) {
	raw, err := c.call(ctx, "eth_getBalance", address, "latest")
	if err != nil {
		return nil, err
	}
	var result string
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("invalid eth_getBalance result: %w", err)
	}
	return parseHexUint(result)
}

// --- ABI helpers ---

func keccak(data []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	return h.Sum(nil)
}

// selector returns the 4-byte function selector for a signature, 0x-prefixed.
func selector(signature string) string {
	return "0x" + fmt.Sprintf("%x", keccak([]byte(signature))[:4])
}

// padAddress left-pads a 20-byte hex address to a 32-byte ABI word.
func padAddress(address string) string {
	return strings.Repeat("0", 24) + strings.ToLower(strings.TrimPrefix(address, "0x"))
}

// padUint encodes a big integer as a 32-byte ABI word.
func padUint(n *big.Int) string {
	return fmt.Sprintf("%064x", n)
}

// parseHexUint parses a 0x-prefixed hex quantity.
func parseHexUint(s string) (*big.Int, error) {
	s = strings.TrimPrefix(s, "0x")
	if s == "" {
		return big.NewInt(0), nil
	}
	n, ok := new(big.Int).SetString(s, 16)
	if !ok {
		return nil, fmt.Errorf("invalid hex quantity: %s", s)
	}
	return n, nil
}

// wordAt extracts the i-th 32-byte word from a hex call result.
func wordAt(result string, i int) (string, error) {
	data := strings.TrimPrefix(result, "0x")
	if len(data) < (i+1)*64 {
		return "", fmt.Errorf("short call result")
	}
	return data[i*64 : (i+1)*64], nil
}

// addressFromWord extracts the 20-byte address from a 32-byte ABI word.
func addressFromWord(word string) string {
	return "0x" + word[24:]
}

// decodeABIString decodes a dynamically-encoded string return value.
func decodeABIString(result string) (string, error) {
	data := strings.TrimPrefix(result, "0x")
	if len(data) < 128 {
		return "", fmt.Errorf("short string result")
	}
	length, err := parseHexUint("0x" + data[64:128])
	if err != nil {
		return "", err
	}
	if !length.IsInt64() || length.Int64() < 0 || length.Int64() > int64((len(data)-128)/2) {
		return "", fmt.Errorf("string length %s exceeds payload", length)
	}
	n := int(length.Int64())
	out, err := hex.DecodeString(data[128 : 128+n*2])
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// namehash implements the ENS name hashing algorithm.
func namehash(name string) string {
	node := make([]byte, 32)
	if name != "" {
		labels := strings.Split(name, ".")
		for i := len(labels) - 1; i >= 0; i-- {
			node = keccak(append(node, keccak([]byte(labels[i]))...))
		}
	}
	return "0x" + fmt.Sprintf("%x", node)
}
