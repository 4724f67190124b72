package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/smallbiznis/tenantsync/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module provides the upstream feed client.
var Module = fx.Module("feed",
	fx.Provide(NewClient),
)

const defaultPageDelay = 100 * time.Millisecond

type pageResponse struct {
	TotalRecord int      `json:"totalRecord"`
	Page        int      `json:"page"`
	Limit       int      `json:"limit"`
	TotalPages  int      `json:"totalPages"`
	Data        []Record `json:"data"`
}

// PageError records a failed page fetch. It ends pagination but keeps the
// pages fetched before it.
type PageError struct {
	Page int
	Err  error
}

func (e *PageError) Error() string {
	return fmt.Sprintf("page %d: %v", e.Page, e.Err)
}

func (e *PageError) Unwrap() error { return e.Err }

// Result is the outcome of a full pagination pass.
type Result struct {
	Records           []Record
	TotalPages        int
	LastPage          int
	RequestCount      int
	TotalResponseTime time.Duration
	PageError         *PageError
}

// AvgResponseTime returns the mean upstream response time across requests.
func (r *Result) AvgResponseTime() time.Duration {
	if r.RequestCount == 0 {
		return 0
	}
	return r.TotalResponseTime / time.Duration(r.RequestCount)
}

// Client paginates the upstream directory API.
type Client struct {
	httpClient     *http.Client
	log            *zap.Logger
	baseURL        string
	appCode        string
	cookies        string
	forwardCookies bool
	pageLimit      int
	pageDelay      time.Duration
}

func NewClient(cfg config.Config, log *zap.Logger) *Client {
	return &Client{
		httpClient:     &http.Client{Timeout: 30 * time.Second},
		log:            log.Named("feed"),
		baseURL:        cfg.ExternalAPIURL,
		appCode:        cfg.ExternalAPIAppCode,
		cookies:        cfg.ExternalAPICookies,
		forwardCookies: cfg.IsProduction(),
		pageLimit:      cfg.SyncPageLimit,
		pageDelay:      defaultPageDelay,
	}
}

// FetchAll walks the feed page by page until the reported last page. A page
// failure stops pagination; records fetched so far are kept and the failure
// is surfaced on the result rather than as an error.
func (c *Client) FetchAll(ctx context.Context) (*Result, error) {
	result := &Result{}

	currentPage := 1
	totalPages := 1
	for currentPage <= totalPages {
		start := time.Now()
		page, err := c.fetchPage(ctx, currentPage)
		elapsed := time.Since(start)

		result.RequestCount++
		result.TotalResponseTime += elapsed

		if err != nil {
			c.log.Error("page fetch failed",
				zap.Int("page", currentPage),
				zap.Error(err),
			)
			result.PageError = &PageError{Page: currentPage, Err: err}
			break
		}

		result.Records = append(result.Records, page.Data...)
		result.TotalPages = page.TotalPages
		result.LastPage = currentPage
		totalPages = page.TotalPages
		currentPage++

		c.log.Info("fetched page",
			zap.Int("page", currentPage-1),
			zap.Int("records", len(page.Data)),
			zap.Duration("response_time", elapsed),
		)

		if currentPage <= totalPages {
			// Fixed inter-page delay to bound request rate.
			select {
			case <-ctx.Done():
				result.PageError = &PageError{Page: currentPage, Err: ctx.Err()}
				return result, nil
			case <-time.After(c.pageDelay):
			}
		}
	}

	c.log.Info("fetch complete",
		zap.Int("total_records", len(result.Records)),
		zap.Int("pages", result.LastPage),
	)
	return result, nil
}

func (c *Client) fetchPage(ctx context.Context, page int) (*pageResponse, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse feed url: %w", err)
	}
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(c.pageLimit))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.appCode != "" {
		req.Header.Set("X-Apig-AppCode", c.appCode)
	}
	if c.forwardCookies && c.cookies != "" {
		req.Header.Set("Cookie", c.cookies)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var body pageResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode page %d: %w", page, err)
	}
	return &body, nil
}
