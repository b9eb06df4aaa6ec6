// Package stashapi talks to the Path of Exile stash API on behalf of a user.
package stashapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"divicards/internal/models"
	"divicards/internal/ninja"
	"divicards/internal/stash"
	"divicards/pkg/core"
	"divicards/pkg/logger"
)

const DefaultAPIURL = "https://api.pathofexile.com"

// Loader fetches stash tabs with a bearer token and exposes the price
// lookups of the embedded ninja client.
type Loader struct {
	*ninja.Client

	apiURL     string
	userAgent  string
	httpClient *http.Client
	log        core.Logger
}

type Option func(*loaderOptions)

type loaderOptions struct {
	apiURL string
	base   *http.Client
	log    core.Logger
	prices *ninja.Client
}

func WithAPIURL(u string) Option {
	return func(o *loaderOptions) { o.apiURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient sets the client whose transport carries the requests. The
// bearer token is layered on top of it.
func WithHTTPClient(h *http.Client) Option {
	return func(o *loaderOptions) { o.base = h }
}

func WithLogger(l core.Logger) Option {
	return func(o *loaderOptions) { o.log = l }
}

// WithPrices replaces the default poe.ninja client.
func WithPrices(c *ninja.Client) Option {
	return func(o *loaderOptions) { o.prices = c }
}

// UserAgent formats the identification string the API requires from OAuth
// clients.
func UserAgent(appName, appVersion, contactEmail string) string {
	return fmt.Sprintf("OAuth %s/%s (contact: %s)", appName, appVersion, contactEmail)
}

// NewLoader creates a loader for one access token.
func NewLoader(appName, appVersion, contactEmail, accessToken string, opts ...Option) *Loader {
	o := loaderOptions{
		apiURL: DefaultAPIURL,
		base:   &http.Client{Timeout: 30 * time.Second},
		log:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	ua := UserAgent(appName, appVersion, contactEmail)

	// oauth2.Transport adds "Authorization: Bearer <token>" to every request.
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, o.base)
	httpClient := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}))
	httpClient.Timeout = o.base.Timeout

	prices := o.prices
	if prices == nil {
		prices = ninja.New(ninja.WithUserAgent(ua), ninja.WithLogger(o.log))
	}

	return &Loader{
		Client:     prices,
		apiURL:     o.apiURL,
		userAgent:  ua,
		httpClient: httpClient,
		log:        o.log,
	}
}

// Tabs lists the stash tabs of a league, folders flattened.
func (l *Loader) Tabs(ctx context.Context, league string) ([]models.StashTab, error) {
	var body struct {
		Stashes []models.StashTab `json:"stashes"`
	}
	if err := l.get(ctx, &body, "stash", league); err != nil {
		return nil, err
	}
	l.log.Debug("Fetched stash tabs", "league", league, "count", len(body.Stashes))
	return stash.Flatten(body.Stashes), nil
}

// Tab fetches one tab with its items. subtabID is optional.
func (l *Loader) Tab(ctx context.Context, league, tabID, subtabID string) (models.StashTab, error) {
	parts := []string{"stash", league, tabID}
	if subtabID != "" {
		parts = append(parts, subtabID)
	}

	var body struct {
		Stash models.StashTab `json:"stash"`
	}
	if err := l.get(ctx, &body, parts...); err != nil {
		return models.StashTab{}, err
	}
	l.log.Debug("Fetched stash tab", "league", league, "tab_id", tabID, "subtab_id", subtabID, "items", len(body.Stash.Items))
	return body.Stash, nil
}

// TabFromBadge fetches the tab behind an entry of Tabs. Lifted children are
// addressed through their parent.
func (l *Loader) TabFromBadge(ctx context.Context, league string, badge models.StashTab) (models.StashTab, error) {
	if badge.Parent != "" {
		return l.Tab(ctx, league, badge.Parent, badge.ID)
	}
	return l.Tab(ctx, league, badge.ID, "")
}

func (l *Loader) get(ctx context.Context, v interface{}, parts ...string) error {
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = url.PathEscape(p)
	}
	u := l.apiURL + "/" + strings.Join(escaped, "/")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to build stash request: %w", err)
	}
	req.Header.Set("User-Agent", l.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		l.log.Error("Stash request failed", err, "url", u)
		return fmt.Errorf("failed to request %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		l.log.Warn("Stash API rejected token", "url", u)
		return ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode stash response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}

	var body errorBody
	if err := json.Unmarshal(data, &body); err == nil && body.Error.Message != "" {
		apiErr.Message = body.Error.Message
	}
	return apiErr
}
