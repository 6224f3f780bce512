package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/joao-fontenele/coffeeshop/internal/domain"
)

// BaristaClient sends brew requests to the barista service. The underlying
// http.Client is shared by every dispatch worker.
type BaristaClient struct {
	baseURL string
	client  *http.Client
}

func NewBaristaClient(baseURL string, client *http.Client) *BaristaClient {
	return &BaristaClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

// StartBrew returns nil on any 2xx answer and a *Failure otherwise.
func (c *BaristaClient) StartBrew(ctx context.Context, coffeeType domain.CoffeeType) error {
	data, err := json.Marshal(domain.NewBrewRequest(coffeeType))
	if err != nil {
		return &Failure{Reason: ReasonTransport, Err: fmt.Errorf("marshal brew request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/brews", bytes.NewReader(data))
	if err != nil {
		return &Failure{Reason: ReasonTransport, Err: fmt.Errorf("create brew request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return &Failure{Reason: classify(err), Err: err}
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Failure{Reason: ReasonStatus, StatusCode: resp.StatusCode}
	}

	return nil
}

func classify(err error) Reason {
	if errors.Is(err, context.DeadlineExceeded) {
		return ReasonTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ReasonTimeout
	}
	return ReasonTransport
}
