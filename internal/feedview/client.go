package feedview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"backend-memepool/internal/feed"
	"backend-memepool/internal/like"
)

var (
	// ErrTransient wraps transport failures; safe to retry after rollback.
	ErrTransient    = errors.New("network error")
	ErrUnauthorized = errors.New("unauthorized")
)

// Client implements API against the backend's HTTP surface.
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{BaseURL: baseURL, Token: token, HTTP: http.DefaultClient}
}

func (c *Client) FetchPage(ctx context.Context, cursor string, size int) (feed.Page, error) {
	q := url.Values{}
	if cursor != "" {
		q.Set("cursor", cursor)
	}
	if size > 0 {
		q.Set("page_size", strconv.Itoa(size))
	}
	endpoint := c.BaseURL + "/feed"
	if enc := q.Encode(); enc != "" {
		endpoint += "?" + enc
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return feed.Page{}, err
	}
	c.authorize(req)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return feed.Page{}, fmt.Errorf("%w: %v", ErrTransient, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return feed.Page{}, fmt.Errorf("feed fetch failed: status %d", resp.StatusCode)
	}
	var page feed.Page
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return feed.Page{}, fmt.Errorf("%w: %v", ErrTransient, err)
	}
	return page, nil
}

func (c *Client) ToggleLike(ctx context.Context, memeID string) (like.Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/memes/"+memeID+"/like", nil)
	if err != nil {
		return like.Result{}, err
	}
	c.authorize(req)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return like.Result{}, fmt.Errorf("%w: %v", ErrTransient, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		var res like.Result
		if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
			return like.Result{}, fmt.Errorf("%w: %v", ErrTransient, err)
		}
		return res, nil
	}

	var body struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	switch body.Error {
	case "self_like":
		return like.Result{}, like.ErrSelfLike
	case "not_found":
		return like.Result{}, like.ErrNotFound
	case "unauthorized":
		return like.Result{}, ErrUnauthorized
	}
	return like.Result{}, fmt.Errorf("toggle failed: status %d", resp.StatusCode)
}

func (c *Client) authorize(req *http.Request) {
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
}
