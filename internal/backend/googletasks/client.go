// Package googletasks implements service.RemoteSource by reading the user's
// default Google Tasks list once.
package googletasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"todo/internal/config"
	"todo/internal/service"
)

const (
	// DefaultListID is the special ID for the default list.
	DefaultListID = "@default"

	// PageSize is the number of tasks requested per page.
	PageSize = 100

	// APITimeout bounds the whole import.
	APITimeout = 10 * time.Second

	// Scope is the read-only Google Tasks scope.
	Scope = tasks.TasksReadonlyScope
)

// Client reads the default task list.
type Client struct {
	svc     *tasks.Service
	timeout time.Duration
}

// New creates a client from the OAuth files in the config directory.
// Requires oauth_client.json and token.json to exist.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	oauthConfig, err := OAuthConfig(cfg)
	if err != nil {
		return nil, err
	}

	token, err := LoadToken(cfg.TokenPath())
	if err != nil {
		return nil, err
	}

	httpClient := oauth2.NewClient(ctx, oauthConfig.TokenSource(ctx, token))
	svc, err := tasks.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}
	return &Client{svc: svc, timeout: cfg.Settings.Remote.Timeout}, nil
}

// NewWithHTTPClient creates a client against endpoint with a custom HTTP client (for testing).
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, endpoint string) (*Client, error) {
	opts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}
	svc, err := tasks.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{svc: svc}, nil
}

// OAuthConfig reads oauth_client.json for the read-only tasks scope.
func OAuthConfig(cfg *config.Config) (*oauth2.Config, error) {
	clientJSON, err := os.ReadFile(cfg.OAuthClientPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth_client.json: %w", err)
	}
	oauthConfig, err := google.ConfigFromJSON(clientJSON, Scope)
	if err != nil {
		return nil, fmt.Errorf("invalid oauth_client.json: %w", err)
	}
	return oauthConfig, nil
}

// LoadToken reads a stored OAuth token.
func LoadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read token.json: %w", err)
	}
	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("invalid token.json: %w", err)
	}
	return &token, nil
}

// SaveToken writes an OAuth token with mode 0600.
func SaveToken(path string, token *oauth2.Token) error {
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// FetchInitialTasks returns every task of the default list in API order.
// Google task IDs are opaque strings, so records are numbered 1..n.
func (c *Client) FetchInitialTasks(ctx context.Context) (service.RemoteList, error) {
	timeout := c.timeout
	if timeout <= 0 {
		timeout = APITimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var todos []service.RemoteTask
	err := c.svc.Tasks.List(DefaultListID).
		MaxResults(PageSize).
		ShowCompleted(true).
		ShowHidden(true).
		ShowDeleted(false).
		Pages(ctx, func(resp *tasks.Tasks) error {
			for _, t := range resp.Items {
				if t.Title == "" {
					continue
				}
				todos = append(todos, service.RemoteTask{
					ID:        int32(len(todos) + 1),
					Todo:      t.Title,
					Completed: t.Status == "completed",
				})
			}
			return nil
		})
	if err != nil {
		return service.RemoteList{}, wrapError(err)
	}

	if todos == nil {
		todos = []service.RemoteTask{}
	}
	return service.RemoteList{Todos: todos, Total: len(todos), Limit: len(todos)}, nil
}

// wrapError maps API errors to service.ErrFetchUnavailable with a readable reason.
func wrapError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: request timed out", service.ErrFetchUnavailable)
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: token expired or revoked (run: todo login)", service.ErrFetchUnavailable)
		case http.StatusNotFound:
			return fmt.Errorf("%w: default list not found", service.ErrFetchUnavailable)
		}
	}
	return fmt.Errorf("%w: %v", service.ErrFetchUnavailable, err)
}
