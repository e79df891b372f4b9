// Package client talks to the two external collaborators of the
// workspace core: the trace-producing visualizer service and the
// progress/dashboard service. Both are consumed as plain request/response
// contracts; every call is bounded by a timeout and failures fall into
// the transport / timeout / service-level taxonomy below.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultUnaryTimeout = 45 * time.Second

// ErrTimeout marks a request that exceeded its deadline. Callers match
// it with errors.Is; a timed-out operation is retryable by re-invoking.
var ErrTimeout = errors.New("request timeout")

// RequestError is a transport- or HTTP-level failure.
type RequestError struct {
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string {
	if e == nil {
		return ""
	}
	message := strings.TrimSpace(e.Message)
	if message != "" {
		if e.StatusCode > 0 {
			return fmt.Sprintf("http %d: %s", e.StatusCode, message)
		}
		return message
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("http %d", e.StatusCode)
	}
	return "http error"
}

func (e *RequestError) Retryable() bool {
	if e == nil {
		return false
	}
	if e.StatusCode == http.StatusTooManyRequests || e.StatusCode == http.StatusRequestTimeout {
		return true
	}
	return e.StatusCode >= 500
}

// ServiceError is a service-level failure: the transport succeeded but
// the service reported success=false. Message carries the server-
// provided reason when there was one.
type ServiceError struct {
	Message string
}

func (e *ServiceError) Error() string {
	if e == nil || e.Message == "" {
		return "service failure"
	}
	return e.Message
}

type base struct {
	baseURL      string
	client       *http.Client
	unaryTimeout time.Duration
}

func newBase(baseURL string, client *http.Client) base {
	if client == nil {
		client = &http.Client{}
	}
	return base{
		baseURL:      strings.TrimRight(baseURL, "/"),
		client:       client,
		unaryTimeout: defaultUnaryTimeout,
	}
}

// request issues one JSON round trip. A deadline-exceeded failure comes
// back wrapped in ErrTimeout so callers can present it distinctly from
// an unreachable server.
func (b base) request(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	u := b.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	reqCtx := ctx
	if b.unaryTimeout > 0 {
		if deadline, ok := ctx.Deadline(); !ok || time.Until(deadline) > b.unaryTimeout {
			var cancel context.CancelFunc
			reqCtx, cancel = context.WithTimeout(ctx, b.unaryTimeout)
			defer cancel()
		}
	}
	var reqBody io.Reader
	if body != nil {
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(body); err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reqBody = buf
	}
	req, err := http.NewRequestWithContext(reqCtx, method, u, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := b.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: server took too long to respond", ErrTimeout)
		}
		return nil, fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response %s: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &RequestError{StatusCode: resp.StatusCode, Message: errorMessage(payload)}
	}
	return payload, nil
}

func errorMessage(payload []byte) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return ""
	}
	if body.Error != "" {
		return body.Error
	}
	return body.Message
}
