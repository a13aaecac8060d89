// Package github fetches a user's public repositories for the profile
// import endpoint. The client adds a bounded timeout and simple retries on
// top of net/http.
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"log/slog"

	"github.com/garnizeh/devconnect/internal/config"
)

// ErrNoProfile reports that GitHub has no repositories for the username
// (or the username does not exist).
var ErrNoProfile = errors.New("github: no profile found")

// package-level logger for pkg/github; can be replaced by callers
var logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

// SetLogger sets the logger used by pkg/github. Passing nil is a no-op.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}

// Repo is the subset of the GitHub repository payload the profile page uses.
type Repo struct {
	Name        string `json:"name"`
	HTMLURL     string `json:"html_url"`
	Description string `json:"description"`
	Stargazers  int    `json:"stargazers_count"`
	Watchers    int    `json:"watchers_count"`
	Forks       int    `json:"forks_count"`
}

type Client struct {
	cfg    config.GitHubConfig
	client *http.Client
}

func NewClient(cfg config.GitHubConfig, httpClient *http.Client) (*Client, error) {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if _, err := url.ParseRequestURI(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}

	return &Client{cfg: cfg, client: httpClient}, nil
}

// ListRepos returns up to five of the user's most recently created public
// repositories. A non-200 answer from GitHub maps to ErrNoProfile so the
// handler can report a missing profile without leaking upstream detail.
func (c *Client) ListRepos(ctx context.Context, username string) ([]Repo, error) {
	endpoint := fmt.Sprintf("%s/users/%s/repos", c.cfg.BaseURL, url.PathEscape(username))

	q := url.Values{}
	q.Set("per_page", "5")
	q.Set("sort", "created:asc")
	if c.cfg.ClientID != "" {
		q.Set("client_id", c.cfg.ClientID)
		q.Set("client_secret", c.cfg.ClientSecret)
	}

	var lastErr error
	attempts := c.cfg.Retries + 1
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.cfg.Backoff):
			}
		}

		repos, retriable, err := c.fetch(ctx, endpoint+"?"+q.Encode())
		if err == nil {
			return repos, nil
		}
		if !retriable {
			return nil, err
		}
		lastErr = err
		logger.Warn("github: request failed",
			slog.String("username", username),
			slog.Int("attempt", attempt+1),
			slog.Any("err", err),
		)
	}

	return nil, lastErr
}

func (c *Client) fetch(ctx context.Context, endpoint string) (repos []Repo, retriable bool, err error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("User-Agent", "devconnect")
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		if resp.StatusCode >= 500 {
			return nil, true, fmt.Errorf("github: status %d", resp.StatusCode)
		}
		return nil, false, ErrNoProfile
	}

	if err := json.NewDecoder(resp.Body).Decode(&repos); err != nil {
		return nil, false, fmt.Errorf("github: decode response: %w", err)
	}

	return repos, false, nil
}

// Close releases idle connections on the underlying transport. Safe to call
// multiple times.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	if tr, ok := c.client.Transport.(interface{ CloseIdleConnections() }); ok {
		tr.CloseIdleConnections()
	}
	return nil
}
