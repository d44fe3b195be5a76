package pose

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/fitmotion/form-analyzer/internal/video"
)

// Client talks to the pose estimator sidecar over HTTP. A single frame is
// posted as base64-packed RGB and the sidecar answers with its detections.
type Client struct {
	baseURL string
	client  *http.Client
}

var _ Estimator = (*Client)(nil)

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type detectRequest struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Pixels string `json:"pixels"`
}

type detectResponse struct {
	Detections []Detection `json:"detections"`
}

func (c *Client) Detect(ctx context.Context, frame *video.Frame) ([]Detection, error) {
	payload, err := json.Marshal(detectRequest{
		Width:  frame.Width,
		Height: frame.Height,
		Pixels: base64.StdEncoding.EncodeToString(frame.RGB),
	})
	if err != nil {
		return nil, errors.Wrap(err, "encoding detect request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/detect", bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(err, "building detect request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "calling pose estimator")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("pose estimator returned status %d", resp.StatusCode)
	}

	var body detectResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding detect response: %w", err)
	}
	return body.Detections, nil
}
