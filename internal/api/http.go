package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/fitsyncapp/fitsync/internal/models"
)

// HTTPClient is the production Client backed by net/http.
type HTTPClient struct {
	baseURL string
	hc      *http.Client

	mu    sync.RWMutex
	token string
}

// NewHTTPClient returns an HTTPClient for the given base URL. Every request
// is bounded by timeout; a timed-out call is reported as ErrUnavailable.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *HTTPClient) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// do sends one JSON request and decodes the reply into out (when non-nil).
func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		// Timeouts and unreachable hosts both land here.
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if err := mapStatus(resp.StatusCode); err != nil {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: %s %s: %s", err, method, path, strings.TrimSpace(string(b)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// mapStatus converts HTTP statuses to the client's sentinel errors.
func mapStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusUnauthorized:
		return ErrUnauthorized
	case code >= 500:
		return ErrUnavailable
	default:
		return fmt.Errorf("unexpected status %d", code)
	}
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*Session, error) {
	var resp authResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", authRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return nil, err
	}
	c.SetToken(resp.Token)
	return &Session{Token: resp.Token, User: resp.User}, nil
}

func (c *HTTPClient) Register(ctx context.Context, name, email, password string) (*Session, error) {
	var resp authResponse
	err := c.do(ctx, http.MethodPost, "/auth/register", authRequest{Name: name, Email: email, Password: password}, &resp)
	if err != nil {
		return nil, err
	}
	c.SetToken(resp.Token)
	return &Session{Token: resp.Token, User: resp.User}, nil
}

func (c *HTTPClient) Me(ctx context.Context) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) GetWorkouts(ctx context.Context) ([]models.Workout, error) {
	var out []models.Workout
	if err := c.do(ctx, http.MethodGet, "/workouts", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) CreateWorkout(ctx context.Context, w *models.Workout) error {
	return c.do(ctx, http.MethodPost, "/workouts", w, nil)
}

func (c *HTTPClient) DeleteWorkout(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/workouts/"+url.PathEscape(id), nil, nil)
}

func (c *HTTPClient) GetLogs(ctx context.Context) ([]models.WorkoutLog, error) {
	var out []models.WorkoutLog
	if err := c.do(ctx, http.MethodGet, "/workouts/logs", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) CreateLog(ctx context.Context, l *models.WorkoutLog) error {
	return c.do(ctx, http.MethodPost, "/workouts/logs", l, nil)
}

func (c *HTTPClient) GetScheduled(ctx context.Context) ([]models.ScheduledWorkout, error) {
	var out []models.ScheduledWorkout
	if err := c.do(ctx, http.MethodGet, "/workouts/scheduled", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) CreateScheduled(ctx context.Context, s *models.ScheduledWorkout) error {
	return c.do(ctx, http.MethodPost, "/workouts/scheduled", s, nil)
}

func (c *HTTPClient) DeleteScheduled(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/workouts/scheduled/"+url.PathEscape(id), nil, nil)
}

func (c *HTTPClient) GetExercises(ctx context.Context) ([]models.Exercise, error) {
	var out []models.Exercise
	if err := c.do(ctx, http.MethodGet, "/exercises", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) Sync(ctx context.Context, req SyncRequest) (*SyncResponse, error) {
	var resp SyncResponse
	if err := c.do(ctx, http.MethodPost, "/workouts/sync", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
