package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"proximity-analysis-service/internal/domain"
)

// MatrixClient queries an external distance-matrix service for the real
// travel distance between two coordinate pairs.
//
// The client is safe for concurrent use. Transient failures (429/5xx,
// network errors) are retried with exponential backoff inside the request
// timeout budget.
type MatrixClient struct {
	session *http.Client
	apiKey  string
	baseURL string
}

// Travel distance and duration reported by the routing service.
type RouteMetrics struct {
	DistanceKm      float64
	DurationSeconds int
}

func NewMatrixClient(apiKey, baseURL string, timeout time.Duration) (*MatrixClient, error) {
	if apiKey == "" {
		return nil, errors.New("matrix client: api key is empty")
	}
	if baseURL == "" {
		return nil, errors.New("matrix client: base url is empty")
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &MatrixClient{
		session: &http.Client{Timeout: timeout},
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

type matrixResponse struct {
	Status string `json:"status"`
	Rows   []struct {
		Elements []struct {
			Status   string `json:"status"`
			Distance struct {
				Value float64 `json:"value"` // meters
			} `json:"distance"`
			Duration struct {
				Value float64 `json:"value"` // seconds
			} `json:"duration"`
		} `json:"elements"`
	} `json:"rows"`
}

// Distance fetches the travel distance from origin to destination.
// Any non-success status, malformed payload, or transport error is returned
// as an error; the caller decides how to degrade.
func (m *MatrixClient) Distance(ctx context.Context, origin, destination domain.Location) (RouteMetrics, error) {
	endpoint := m.baseURL + "/distancematrix/json"

	resp, err := m.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		q := req.URL.Query()
		q.Set("origins", coordPair(origin))
		q.Set("destinations", coordPair(destination))
		q.Set("key", m.apiKey)
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return RouteMetrics{}, fmt.Errorf("matrix request: %w", err)
	}
	defer resp.Body.Close()

	var mr matrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return RouteMetrics{}, fmt.Errorf("decode matrix response: %w", err)
	}

	if mr.Status != "OK" {
		return RouteMetrics{}, fmt.Errorf("matrix service status %q", mr.Status)
	}
	if len(mr.Rows) == 0 || len(mr.Rows[0].Elements) == 0 {
		return RouteMetrics{}, errors.New("matrix response has no elements")
	}

	el := mr.Rows[0].Elements[0]
	if el.Status != "OK" {
		return RouteMetrics{}, fmt.Errorf("no route: element status %q", el.Status)
	}
	if el.Distance.Value < 0 {
		return RouteMetrics{}, fmt.Errorf("negative distance %v", el.Distance.Value)
	}

	return RouteMetrics{
		DistanceKm:      el.Distance.Value / 1000,
		DurationSeconds: int(el.Duration.Value),
	}, nil
}

// coordPair formats a location as "lat,lng" the way matrix services expect.
func coordPair(l domain.Location) string {
	return strconv.FormatFloat(l.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(l.Lon, 'f', -1, 64)
}

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("Code %d: %s", e.Code, e.Body)
}

func (m *MatrixClient) do(req *http.Request) (*http.Response, error) {
	resp, err := m.session.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, &httpStatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(b)),
		}
	}
	return resp, nil
}

// doWithRetry retries transient failures (network errors, 429/5xx responses)
// using exponential backoff while respecting context cancellation.
func (m *MatrixClient) doWithRetry(
	ctx context.Context,
	makeReq func() (*http.Request, error),
) (*http.Response, error) {
	const maxAttempts = 3
	backoff := 200 * time.Millisecond

	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := makeReq()
		if err != nil {
			return nil, fmt.Errorf("make request: %w", err)
		}

		resp, err := m.do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		retry := false
		var he *httpStatusError
		if errors.As(err, &he) {
			switch he.Code {
			case 429, 500, 502, 503, 504:
				retry = true
			}
		}

		var netErr net.Error
		if !retry && errors.As(err, &netErr) {
			retry = true
		}

		if !retry || attempt == maxAttempts {
			return nil, lastErr
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}

		backoff *= 2
	}

	return nil, lastErr
}
