// Package ninja reads price overviews from the poe.ninja aggregator.
package ninja

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"divicards/internal/models"
	"divicards/pkg/core"
	"divicards/pkg/logger"
)

const DefaultBaseURL = "https://poe.ninja/api/data"

// Error is a non-2xx answer from the aggregator.
type Error struct {
	Status int
	URL    string
	Body   string
}

func (e *Error) Error() string {
	body := truncate(strings.TrimSpace(e.Body), maxErrorBody)
	if body == "" {
		return fmt.Sprintf("price request %s failed: %d %s", e.URL, e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("price request %s failed: %d %s", e.URL, e.Status, body)
}

const maxErrorBody = 200

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	log        core.Logger
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

func WithLogger(l core.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New creates a poe.ninja client.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type currencyOverview struct {
	Lines []struct {
		CurrencyTypeName string   `json:"currencyTypeName"`
		ChaosEquivalent  *float64 `json:"chaosEquivalent"`
	} `json:"lines"`
}

type itemOverview struct {
	Lines []itemLine `json:"lines"`
}

type itemLine struct {
	Name       string   `json:"name"`
	BaseType   string   `json:"baseType"`
	Variant    *string  `json:"variant"`
	MapTier    int      `json:"mapTier"`
	GemLevel   int      `json:"gemLevel"`
	GemQuality int      `json:"gemQuality"`
	Corrupted  bool     `json:"corrupted"`
	ChaosValue *float64 `json:"chaosValue"`
}

func (c *Client) CurrencyPrices(ctx context.Context, league string) ([]models.PriceRow, error) {
	return c.currency(ctx, league, "Currency")
}

func (c *Client) FragmentPrices(ctx context.Context, league string) ([]models.PriceRow, error) {
	return c.currency(ctx, league, "Fragment")
}

func (c *Client) EssencePrices(ctx context.Context, league string) ([]models.PriceRow, error) {
	return c.items(ctx, league, "Essence")
}

func (c *Client) OilPrices(ctx context.Context, league string) ([]models.PriceRow, error) {
	return c.items(ctx, league, "Oil")
}

func (c *Client) IncubatorPrices(ctx context.Context, league string) ([]models.PriceRow, error) {
	return c.items(ctx, league, "Incubator")
}

func (c *Client) FossilPrices(ctx context.Context, league string) ([]models.PriceRow, error) {
	return c.items(ctx, league, "Fossil")
}

func (c *Client) ResonatorPrices(ctx context.Context, league string) ([]models.PriceRow, error) {
	return c.items(ctx, league, "Resonator")
}

func (c *Client) DeliriumOrbPrices(ctx context.Context, league string) ([]models.PriceRow, error) {
	return c.items(ctx, league, "DeliriumOrb")
}

func (c *Client) VialPrices(ctx context.Context, league string) ([]models.PriceRow, error) {
	return c.items(ctx, league, "Vial")
}

func (c *Client) DivinationCardPrices(ctx context.Context, league string) ([]models.PriceRow, error) {
	return c.items(ctx, league, "DivinationCard")
}

func (c *Client) MapPrices(ctx context.Context, league string) ([]models.MapPrice, error) {
	var overview itemOverview
	if err := c.get(ctx, "itemoverview", league, "Map", &overview); err != nil {
		return nil, err
	}
	out := make([]models.MapPrice, 0, len(overview.Lines))
	for _, line := range overview.Lines {
		name := line.BaseType
		if name == "" {
			name = line.Name
		}
		out = append(out, models.MapPrice{Name: name, Tier: line.MapTier, ChaosValue: line.ChaosValue})
	}
	return out, nil
}

func (c *Client) GemPrices(ctx context.Context, league string) ([]models.GemPrice, error) {
	var overview itemOverview
	if err := c.get(ctx, "itemoverview", league, "SkillGem", &overview); err != nil {
		return nil, err
	}
	out := make([]models.GemPrice, 0, len(overview.Lines))
	for _, line := range overview.Lines {
		out = append(out, models.GemPrice{
			Name:       line.Name,
			Level:      line.GemLevel,
			Quality:    line.GemQuality,
			Corrupted:  line.Corrupted,
			ChaosValue: line.ChaosValue,
		})
	}
	return out, nil
}

func (c *Client) currency(ctx context.Context, league, typ string) ([]models.PriceRow, error) {
	var overview currencyOverview
	if err := c.get(ctx, "currencyoverview", league, typ, &overview); err != nil {
		return nil, err
	}
	out := make([]models.PriceRow, 0, len(overview.Lines))
	for _, line := range overview.Lines {
		out = append(out, models.PriceRow{Name: line.CurrencyTypeName, ChaosValue: line.ChaosEquivalent})
	}
	return out, nil
}

func (c *Client) items(ctx context.Context, league, typ string) ([]models.PriceRow, error) {
	var overview itemOverview
	if err := c.get(ctx, "itemoverview", league, typ, &overview); err != nil {
		return nil, err
	}
	out := make([]models.PriceRow, 0, len(overview.Lines))
	for _, line := range overview.Lines {
		row := models.PriceRow{Name: line.Name, ChaosValue: line.ChaosValue}
		if line.Variant != nil {
			row.Variant = *line.Variant
		}
		out = append(out, row)
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, endpoint, league, typ string, v interface{}) error {
	q := url.Values{}
	q.Set("league", league)
	q.Set("type", typ)
	u := c.baseURL + "/" + endpoint + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to build price request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	c.log.Debug("Fetching prices", "league", league, "type", typ)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch %s prices: %w", typ, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &Error{Status: resp.StatusCode, URL: u, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode %s prices: %w", typ, err)
	}
	return nil
}
