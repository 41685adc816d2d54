package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	// ErrStoreWrite is returned when the key-value store rejects a write.
	ErrStoreWrite = errors.New("failed to store payment status")
	// ErrStoreUnavailable is returned when a read gets no usable answer.
	ErrStoreUnavailable = errors.New("payment status store unavailable")
)

// KVStore talks to a REST key-value store (Upstash / Vercel KV wire format).
type KVStore struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

func NewKVStore(baseURL string, token string, timeout time.Duration) *KVStore {
	return &KVStore{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Token:      token,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

func (kv *KVStore) SetStatus(ctx context.Context, conversationID, status string) error {
	endpoint := fmt.Sprintf("%s/set/%s/%s", kv.BaseURL, url.PathEscape(conversationID), url.PathEscape(status))

	resp, err := kv.do(ctx, http.MethodPut, endpoint)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStoreWrite, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status code: %d", ErrStoreWrite, resp.StatusCode)
	}
	return nil
}

// GetStatus reports found=false for a null result. A non-200 answer or a
// transport failure is an ErrStoreUnavailable; callers decide how to read it.
func (kv *KVStore) GetStatus(ctx context.Context, conversationID string) (string, bool, error) {
	endpoint := fmt.Sprintf("%s/get/%s", kv.BaseURL, url.PathEscape(conversationID))

	resp, err := kv.do(ctx, http.MethodGet, endpoint)
	if err != nil {
		return "", false, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", false, fmt.Errorf("%w: unexpected status code: %d", ErrStoreUnavailable, resp.StatusCode)
	}

	var apiResp struct {
		Result json.RawMessage `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return "", false, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(apiResp.Result) == 0 || string(apiResp.Result) == "null" {
		return "", false, nil
	}

	var value string
	if err := json.Unmarshal(apiResp.Result, &value); err != nil {
		// non-string values are kept as their JSON text
		return string(apiResp.Result), true, nil
	}
	return value, true, nil
}

func (kv *KVStore) do(ctx context.Context, method, endpoint string) (*http.Response, error) {
	client := kv.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+kv.Token)

	return client.Do(httpReq)
}
