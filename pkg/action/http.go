package action

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
)

// HTTPExecutor posts JSON arguments to {BaseURL}/{operation}. 2xx responses
// decode into the payload; other statuses decode into a *Failure using either
// an {"errors":[{code,field,message}]} body or a field -> messages map.
type HTTPExecutor struct {
	baseURL string
	client  *http.Client
	headers http.Header
	logger  *zap.Logger
}

// HTTPOption configures an HTTPExecutor.
type HTTPOption func(*HTTPExecutor)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(e *HTTPExecutor) {
		if client != nil {
			e.client = client
		}
	}
}

// WithHeader adds a header sent with every request.
func WithHeader(key, value string) HTTPOption {
	return func(e *HTTPExecutor) {
		e.headers.Add(key, value)
	}
}

// WithHTTPLogger attaches a logger.
func WithHTTPLogger(logger *zap.Logger) HTTPOption {
	return func(e *HTTPExecutor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewHTTPExecutor constructs an executor rooted at baseURL.
func NewHTTPExecutor(baseURL string, options ...HTTPOption) (*HTTPExecutor, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errors.New("action: http executor base url is required")
	}
	e := &HTTPExecutor{
		baseURL: trimmed,
		client:  &http.Client{Timeout: 30 * time.Second},
		headers: make(http.Header),
		logger:  zap.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(e)
		}
	}
	return e, nil
}

var _ Executor = (*HTTPExecutor)(nil)

// Execute implements Executor.
func (e *HTTPExecutor) Execute(ctx context.Context, operation string, args map[string]any) (any, error) {
	body, err := json.Marshal(args)
	if err != nil {
		return nil, Fail(CodeInvalidArgument, fmt.Sprintf("encode arguments: %v", err))
	}
	endpoint := e.baseURL + "/" + strings.TrimLeft(operation, "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("action: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for key, values := range e.headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	resp, err := e.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ErrCanceled
		}
		e.logger.Warn("operation transport error", zap.String("operation", operation), zap.Error(err))
		return nil, Fail(CodeTransport, err.Error())
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ErrCanceled
		}
		return nil, Fail(CodeTransport, fmt.Sprintf("read response: %v", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		e.logger.Debug("operation rejected",
			zap.String("operation", operation),
			zap.Int("status", resp.StatusCode))
		return nil, decodeFailure(resp.StatusCode, raw)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, Fail(CodeInternal, fmt.Sprintf("decode response: %v", err))
	}
	return payload, nil
}

func decodeFailure(status int, raw []byte) *Failure {
	code := CodeRejected
	if status >= 500 {
		code = CodeInternal
	}

	var envelope struct {
		Errors []Reason `json:"errors"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Errors) > 0 {
		out := &Failure{Reasons: envelope.Errors}
		for i := range out.Reasons {
			if out.Reasons[i].Code == "" {
				out.Reasons[i].Code = code
			}
		}
		return out
	}

	var byField map[string][]string
	if err := json.Unmarshal(raw, &byField); err == nil && len(byField) > 0 {
		keys := make([]string, 0, len(byField))
		for k := range byField {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := &Failure{}
		for _, k := range keys {
			for _, msg := range byField[k] {
				out.Reasons = append(out.Reasons, Reason{Code: code, Field: k, Message: msg})
			}
		}
		return out
	}

	msg := strings.TrimSpace(string(raw))
	if msg == "" {
		msg = http.StatusText(status)
	}
	return Fail(code, msg)
}
