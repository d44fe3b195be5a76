package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

// Client is an HTTP Predictor backed by the model-serving sidecar.
// Load probes the model once; after a successful load the client is
// read-only and safe for concurrent use.
type Client struct {
	baseURL  string
	client   *http.Client
	features int
	classes  []string
}

var _ Predictor = (*Client)(nil)

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type modelInfo struct {
	FeatureCount int      `json:"feature_count"`
	Classes      []string `json:"classes"`
}

type predictRequest struct {
	Features []float64 `json:"features"`
}

type predictResponse struct {
	Label string `json:"label"`
}

// Load fetches the model metadata and records the expected feature arity.
// Must be called once before serving; failure means the model is absent.
func (c *Client) Load(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/model", nil)
	if err != nil {
		return errors.Wrap(ErrUnavailable, err.Error())
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return errors.Wrapf(ErrUnavailable, "probing model at %s: %v", c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Wrapf(ErrUnavailable, "model probe returned status %d", resp.StatusCode)
	}

	var info modelInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return errors.Wrapf(ErrUnavailable, "decoding model metadata: %v", err)
	}
	if info.FeatureCount <= 0 {
		return errors.Wrapf(ErrUnavailable, "model reports feature count %d", info.FeatureCount)
	}

	c.features = info.FeatureCount
	c.classes = info.Classes
	return nil
}

func (c *Client) ExpectedFeatures() int {
	return c.features
}

// Classes lists the labels the model can emit. Empty until Load succeeds.
func (c *Client) Classes() []string {
	return c.classes
}

func (c *Client) Predict(ctx context.Context, features []float64) (string, error) {
	payload, err := json.Marshal(predictRequest{Features: features})
	if err != nil {
		return "", errors.Wrap(err, "encoding predict request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(payload))
	if err != nil {
		return "", errors.Wrap(err, "building predict request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "calling classifier")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("classifier returned status %d", resp.StatusCode)
	}

	var body predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", errors.Wrap(err, "decoding predict response")
	}
	return body.Label, nil
}
