// Package dummyjson implements service.RemoteSource with a single HTTP GET
// against a dummyjson-style todos endpoint.
package dummyjson

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"google.golang.org/api/googleapi"

	"todo/internal/service"
)

const (
	// DefaultURL is the seed list endpoint.
	DefaultURL = "https://dummyjson.com/todos"

	// DefaultTimeout bounds the whole fetch.
	DefaultTimeout = 10 * time.Second
)

// Client fetches the seed list.
type Client struct {
	url     string
	http    *http.Client
	timeout time.Duration
}

// New creates a client with an instrumented transport.
func New(url string, timeout time.Duration) *Client {
	return NewWithHTTPClient(url, &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}, timeout)
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(url string, httpClient *http.Client, timeout time.Duration) *Client {
	if url == "" {
		url = DefaultURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{url: url, http: httpClient, timeout: timeout}
}

// wireList mirrors service.RemoteList with pointers so that missing fields
// can be told apart from zero values.
type wireList struct {
	Todos *[]wireTask `json:"todos"`
	Total *int        `json:"total"`
	Skip  int         `json:"skip"`
	Limit int         `json:"limit"`
}

type wireTask struct {
	ID        *int32  `json:"id"`
	Todo      *string `json:"todo"`
	Completed bool    `json:"completed"`
	UserID    int64   `json:"userId"`
}

// FetchInitialTasks performs one GET. Any failure, including a partial or
// malformed body, is reported as service.ErrFetchUnavailable.
func (c *Client) FetchInitialTasks(ctx context.Context) (service.RemoteList, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return service.RemoteList{}, unavailable(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return service.RemoteList{}, unavailable(err)
	}
	defer resp.Body.Close()

	if err := googleapi.CheckResponse(resp); err != nil {
		return service.RemoteList{}, unavailable(err)
	}

	var wire wireList
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return service.RemoteList{}, unavailable(fmt.Errorf("decode response: %w", err))
	}
	return wire.toList()
}

func (w wireList) toList() (service.RemoteList, error) {
	if w.Todos == nil {
		return service.RemoteList{}, unavailable(errors.New("response has no todos"))
	}
	if w.Total == nil {
		return service.RemoteList{}, unavailable(errors.New("response has no total"))
	}

	list := service.RemoteList{
		Todos: make([]service.RemoteTask, 0, len(*w.Todos)),
		Total: *w.Total,
		Skip:  w.Skip,
		Limit: w.Limit,
	}
	for i, t := range *w.Todos {
		if t.ID == nil || t.Todo == nil || *t.Todo == "" {
			return service.RemoteList{}, unavailable(fmt.Errorf("todo %d: missing id or title", i))
		}
		list.Todos = append(list.Todos, service.RemoteTask{
			ID:        *t.ID,
			Todo:      *t.Todo,
			Completed: t.Completed,
			UserID:    t.UserID,
		})
	}
	return list, nil
}

func unavailable(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: request timed out", service.ErrFetchUnavailable)
	}
	return fmt.Errorf("%w: %v", service.ErrFetchUnavailable, err)
}
