package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ruteri/rwa-id-gateway/api"
	"github.com/ruteri/rwa-id-gateway/ccip"
	"github.com/ruteri/rwa-id-gateway/names"
	"github.com/stretchr/testify/mock"
)

// GatewayClient implements ResolutionProvider over HTTP against a running gateway.
type GatewayClient struct {
	// ServerAddr is the base URL of the gateway, e.g. http://127.0.0.1:8080
	ServerAddr string

	// HTTPClient is used for requests; http.DefaultClient when nil
	HTTPClient *http.Client

	// UsePost sends CCIP-Read callbacks as POST /ccip instead of the GET form
	UsePost bool
}

// Signer fetches the gateway's signing address.
func (c *GatewayClient) Signer(ctx context.Context) (*api.SignerResponse, error) {
	var resp api.SignerResponse
	if err := c.getJSON(ctx, c.url("/signer"), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Health fetches the gateway's health report.
func (c *GatewayClient) Health(ctx context.Context) (*api.HealthResponse, error) {
	var resp api.HealthResponse
	if err := c.getJSON(ctx, c.url("/health"), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Resolve requests a direct signed resolution of name.
func (c *GatewayClient) Resolve(ctx context.Context, name string) (*api.ResolveResponse, error) {
	var resp api.ResolveResponse
	if err := c.getJSON(ctx, c.url("/resolve")+"?name="+url.QueryEscape(name), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CCIPRead encodes name the way a resolver contract would and performs the
// EIP-3668 callback. The answer is decoded but not verified; see
// api.CCIPReadResult.Verify.
func (c *GatewayClient) CCIPRead(ctx context.Context, sender string, name string) (*api.CCIPReadResult, error) {
	wire, err := names.EncodeDNSWire(name)
	if err != nil {
		return nil, err
	}
	request, err := ccip.EncodeRequest(wire, nil)
	if err != nil {
		return nil, fmt.Errorf("could not encode request: %w", err)
	}

	var resp api.CCIPResponse
	if c.UsePost {
		body, err := json.Marshal(api.CCIPRequest{Sender: sender, Data: hexutil.Encode(request)})
		if err != nil {
			return nil, err
		}
		err = c.do(ctx, http.MethodPost, c.url("/ccip"), bytes.NewReader(body), &resp)
		if err != nil {
			return nil, err
		}
	} else {
		// EIP-3668 clients substitute {data} without the 0x prefix
		target := c.url(fmt.Sprintf("/%s/%x.json", sender, request))
		if err := c.getJSON(ctx, target, &resp); err != nil {
			return nil, err
		}
	}

	data, err := hexutil.Decode(resp.Data)
	if err != nil {
		return nil, fmt.Errorf("could not decode response data: %w", err)
	}
	decoded, err := ccip.DecodeResponse(data)
	if err != nil {
		return nil, err
	}

	return &api.CCIPReadResult{Request: request, Response: decoded}, nil
}

func (c *GatewayClient) url(path string) string {
	return strings.TrimSuffix(c.ServerAddr, "/") + path
}

func (c *GatewayClient) getJSON(ctx context.Context, target string, out any) error {
	return c.do(ctx, http.MethodGet, target, nil, out)
}

func (c *GatewayClient) do(ctx context.Context, method string, target string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("could not request %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp api.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil || errResp.Error == "" {
			return &StatusError{StatusCode: resp.StatusCode}
		}
		return &StatusError{StatusCode: resp.StatusCode, Message: errResp.Error}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("could not parse response: %w", err)
	}
	return nil
}

// StatusError is returned for non-200 gateway responses.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("gateway returned non-200 response: %d", e.StatusCode)
	}
	return fmt.Sprintf("gateway returned error %d: %s", e.StatusCode, e.Message)
}

// MockResolutionProvider implements a mock ResolutionProvider for testing.
type MockResolutionProvider struct {
	mock.Mock
}

func (m *MockResolutionProvider) Signer(ctx context.Context) (*api.SignerResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.SignerResponse), args.Error(1)
}

func (m *MockResolutionProvider) Resolve(ctx context.Context, name string) (*api.ResolveResponse, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.ResolveResponse), args.Error(1)
}

func (m *MockResolutionProvider) CCIPRead(ctx context.Context, sender string, name string) (*api.CCIPReadResult, error) {
	args := m.Called(ctx, sender, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.CCIPReadResult), args.Error(1)
}

var (
	_ api.ResolutionProvider = (*GatewayClient)(nil)
	_ api.ResolutionProvider = (*MockResolutionProvider)(nil)
)
