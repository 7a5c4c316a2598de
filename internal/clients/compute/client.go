package compute

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/slateline/slateline-backend/internal/logger"
)

// Client invokes named remote compute endpoints ("edge functions") with a
// JSON body and decodes a JSON result. Each endpoint is opaque: this layer
// supplies inputs and consumes the response shape, but never validates the
// remote computation itself. No retries here; failures surface to callers.
type Options struct {
	BaseURL string
	APIKey  string

	Timeout    time.Duration
	HTTPClient *http.Client
}

type Client struct {
	log      *logger.Logger
	baseURL  string
	apiKey   string
	registry *Registry

	timeout    time.Duration
	httpClient *http.Client
}

// FunctionError is the structured error a compute endpoint returns in place
// of a result.
type FunctionError struct {
	Function string `json:"function"`
	Code     string `json:"code"`
	Message  string `json:"message"`
}

func (e *FunctionError) Error() string {
	return fmt.Sprintf("compute %s: %s (%s)", e.Function, e.Message, e.Code)
}

func New(log *logger.Logger, registry *Registry, opts Options) (*Client, error) {
	if log == nil {
		return nil, errors.New("logger required")
	}
	if registry == nil {
		return nil, errors.New("endpoint registry required")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("baseURL required")
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		log:        log.With("service", "ComputeClient"),
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(opts.APIKey),
		registry:   registry,
		timeout:    timeout,
		httpClient: httpClient,
	}, nil
}

// Invoke calls the named function with the given request body and decodes the
// response into out.
func (c *Client) Invoke(ctx context.Context, name string, reqBody any, out any) error {
	path, ok := c.registry.Lookup(name)
	if !ok {
		return fmt.Errorf("compute function %q not registered", name)
	}

	raw, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", name, err)
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("build %s request: %w", name, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("invoke %s: %w", name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", name, err)
	}
	c.log.Debug("compute function invoked", "function", name, "status", resp.StatusCode, "elapsed", time.Since(started))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		fnErr := &FunctionError{Function: name, Code: fmt.Sprintf("http_%d", resp.StatusCode), Message: strings.TrimSpace(string(body))}
		var envelope struct {
			Error FunctionError `json:"error"`
		}
		if jsonErr := json.Unmarshal(body, &envelope); jsonErr == nil && envelope.Error.Message != "" {
			fnErr.Code = envelope.Error.Code
			fnErr.Message = envelope.Error.Message
		}
		return fnErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s response: %w", name, err)
	}
	return nil
}
