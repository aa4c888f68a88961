// Package client provides an HTTP client for the showmarks server.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/raphaelgruber/showmarks/internal/api"
	"github.com/raphaelgruber/showmarks/internal/models"
	"github.com/raphaelgruber/showmarks/internal/service"
)

// ErrNotFound is returned when the server answers 404.
var ErrNotFound = errors.New("not found")

// Client talks to the showmarks REST and websocket API.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// New creates a new client.
// If endpoint is empty, uses SHOWMARKS_SERVER_URL env var or defaults to localhost:8484.
// Timeout can be configured via SHOWMARKS_CLIENT_TIMEOUT env var (default 30s).
func New(endpoint string) *Client {
	if endpoint == "" {
		endpoint = os.Getenv("SHOWMARKS_SERVER_URL")
	}
	if endpoint == "" {
		endpoint = "http://localhost:8484"
	}

	timeout := 30 * time.Second
	if t := os.Getenv("SHOWMARKS_CLIENT_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil {
			timeout = d
		}
	}

	return &Client{
		endpoint: strings.TrimSuffix(endpoint, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// errorBody is the JSON body of a failed request.
type errorBody struct {
	Message string `json:"message"`
}

// get sends a GET request for path with params and decodes the JSON response into result.
func (c *Client) get(ctx context.Context, path string, params url.Values, result any) error {
	u := c.endpoint + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := strings.TrimSpace(string(body))
		var eb errorBody
		if json.Unmarshal(body, &eb) == nil && eb.Message != "" {
			msg = eb.Message
		}
		if resp.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%w: %s", ErrNotFound, msg)
		}
		return fmt.Errorf("server error: %s - %s", resp.Status, msg)
	}

	if result != nil {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}

// BrowseOptions configures a remote browse.
type BrowseOptions struct {
	Query string
	Sort  models.SortMode
	Limit int
}

// Browse searches the server catalog.
func (c *Client) Browse(ctx context.Context, opts BrowseOptions) (*api.PageView, error) {
	params := url.Values{}
	if opts.Query != "" {
		params.Set("q", opts.Query)
	}
	if opts.Sort != "" {
		params.Set("sort", string(opts.Sort))
	}
	if opts.Limit > 0 {
		params.Set("limit", strconv.Itoa(opts.Limit))
	}

	var page api.PageView
	if err := c.get(ctx, "/api/v1/episodes", params, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Episode fetches one episode by number.
func (c *Client) Episode(ctx context.Context, number int) (*api.EpisodeView, error) {
	var ep api.EpisodeView
	if err := c.get(ctx, "/api/v1/episodes/"+strconv.Itoa(number), nil, &ep); err != nil {
		return nil, err
	}
	return &ep, nil
}

// Stats fetches catalog counts and server metrics.
func (c *Client) Stats(ctx context.Context) (*service.Stats, error) {
	var stats service.Stats
	if err := c.get(ctx, "/api/v1/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// LiveSession is an open live search connection.
// Send and Next may be called from different goroutines.
type LiveSession struct {
	conn    *websocket.Conn
	id      string
	writeMu sync.Mutex

	closeOnce sync.Once
	done      chan struct{}
}

// LiveSearch opens a websocket live search session.
// The session closes when ctx is cancelled or Close is called.
func (c *Client) LiveSearch(ctx context.Context) (*LiveSession, error) {
	wsEndpoint := c.endpoint
	wsEndpoint = strings.Replace(wsEndpoint, "http://", "ws://", 1)
	wsEndpoint = strings.Replace(wsEndpoint, "https://", "wss://", 1)

	u, err := url.Parse(wsEndpoint + "/ws")
	if err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}
	conn, _, err := dialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("websocket connect: %w", err)
	}

	var hello api.LiveResponse
	if err := conn.ReadJSON(&hello); err != nil {
		conn.Close()
		return nil, fmt.Errorf("read greeting: %w", err)
	}

	s := &LiveSession{conn: conn, id: hello.Session, done: make(chan struct{})}
	go func() {
		select {
		case <-ctx.Done():
			s.Close()
		case <-s.done:
		}
	}()
	return s, nil
}

// ID returns the server-assigned session id.
func (s *LiveSession) ID() string {
	return s.id
}

// Send submits a query. The answer arrives through Next.
func (s *LiveSession) Send(query string, sort models.SortMode) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.WriteJSON(api.LiveRequest{Query: query, Sort: string(sort)}); err != nil {
		return fmt.Errorf("send query: %w", err)
	}
	return nil
}

// Next blocks until the next page arrives. A server-side error for a single
// query is returned as an error while the session stays open.
func (s *LiveSession) Next() (*api.PageView, error) {
	var resp api.LiveResponse
	if err := s.conn.ReadJSON(&resp); err != nil {
		return nil, fmt.Errorf("read message: %w", err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("live search: %s", resp.Error)
	}
	return resp.Page, nil
}

// Close ends the session.
func (s *LiveSession) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		s.writeMu.Lock()
		_ = s.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		s.writeMu.Unlock()
		err = s.conn.Close()
	})
	return err
}
