package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/justcode-dev/justcode/model"
)

// VisualizerClient produces execution traces for source code via the
// remote visualizer service.
type VisualizerClient struct {
	base
}

func NewVisualizerClient(baseURL string, httpClient *http.Client) *VisualizerClient {
	return &VisualizerClient{base: newBase(baseURL, httpClient)}
}

// WithUnaryTimeout returns a copy of the client whose calls are bounded
// by timeout instead of the default.
func (c *VisualizerClient) WithUnaryTimeout(timeout time.Duration) *VisualizerClient {
	if c == nil {
		return nil
	}
	clone := *c
	clone.unaryTimeout = timeout
	return &clone
}

type visualizeRequest struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}

type visualizeResponse struct {
	Success   bool                  `json:"success"`
	Execution []model.ExecutionStep `json:"execution"`
	Error     string                `json:"error"`
}

// GenerateTrace asks the service to trace the given source. A success
// response yields the ordered step list; a success=false response comes
// back as *ServiceError. On any failure the caller's current trace, if
// it holds one, stays as it was.
func (c *VisualizerClient) GenerateTrace(ctx context.Context, code, language string) ([]model.ExecutionStep, error) {
	payload, err := c.request(ctx, http.MethodPost, "/api/visualizer/visualize", nil, visualizeRequest{
		Code:     code,
		Language: language,
	})
	if err != nil {
		return nil, err
	}
	var resp visualizeResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, fmt.Errorf("decode visualize response: %w", err)
	}
	if !resp.Success {
		message := resp.Error
		if message == "" {
			message = fmt.Sprintf("visualization is not supported for %s", language)
		}
		return nil, &ServiceError{Message: message}
	}
	return resp.Execution, nil
}
