package service

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"

	"github.com/HyunWoo9930/AutoTrade/internal/modules/config"
	"github.com/HyunWoo9930/AutoTrade/pkg/logger"
)

// minInterval throttles outgoing calls; KIS allows ~5 req/s but the paper
// endpoint is stricter in practice.
const minInterval = 500 * time.Millisecond

// Client talks to the KIS OpenAPI (domestic cash account). One instance
// per account; safe for the single-threaded decision loop.
type Client struct {
	http      *http.Client
	baseURL   string
	appKey    string
	appSecret string
	accountNo string

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
	lastCall    time.Time
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		http:      &http.Client{Timeout: 15 * time.Second},
		baseURL:   cfg.KIS.BaseURL,
		appKey:    cfg.KIS.AppKey,
		appSecret: cfg.KIS.AppSecret,
		accountNo: cfg.KIS.AccountNo,
	}
}

func (c *Client) rateLimit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if wait := minInterval - time.Since(c.lastCall); wait > 0 {
		time.Sleep(wait)
	}
	c.lastCall = time.Now()
}

// ensureToken issues (or reuses) the OAuth access token.
func (c *Client) ensureToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		tok := c.token
		c.mu.Unlock()
		return tok, nil
	}
	c.mu.Unlock()

	body, err := sonic.Marshal(map[string]string{
		"grant_type": "client_credentials",
		"appkey":     c.appKey,
		"appsecret":  c.appSecret,
	})
	if err != nil {
		return "", errors.Wrap(err, "marshal token request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/oauth2/tokenP", bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "build token request")
	}
	req.Header.Set("content-type", "application/json")

	c.rateLimit()
	resp, err := c.http.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "token request")
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("token http %d: %s", resp.StatusCode, string(raw))
	}

	var tr tokenResponse
	if err := sonic.Unmarshal(raw, &tr); err != nil {
		return "", errors.Wrap(err, "decode token response")
	}
	if tr.AccessToken == "" {
		return "", errors.New("empty access token")
	}

	c.mu.Lock()
	c.token = tr.AccessToken
	// Refresh a bit before the server-side expiry.
	c.tokenExpiry = time.Now().Add(time.Duration(tr.ExpiresIn)*time.Second - 10*time.Minute)
	c.mu.Unlock()

	logger.Info("KIS access token issued, expires in %ds", tr.ExpiresIn)
	return tr.AccessToken, nil
}

// call performs one authorized request and returns the raw body.
func (c *Client) call(ctx context.Context, method, path, trID string, params map[string]string, body any) ([]byte, error) {
	token, err := c.ensureToken(ctx)
	if err != nil {
		return nil, err
	}

	var reader io.Reader
	if body != nil {
		data, err := sonic.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "marshal body")
		}
		reader = bytes.NewReader(data)
	}

	u := c.baseURL + path
	if len(params) > 0 {
		var sb strings.Builder
		sb.WriteString(u)
		sb.WriteByte('?')
		first := true
		for k, v := range params {
			if !first {
				sb.WriteByte('&')
			}
			first = false
			sb.WriteString(k)
			sb.WriteByte('=')
			sb.WriteString(v)
		}
		u = sb.String()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("content-type", "application/json")
	req.Header.Set("authorization", "Bearer "+token)
	req.Header.Set("appkey", c.appKey)
	req.Header.Set("appsecret", c.appSecret)
	req.Header.Set("tr_id", trID)

	c.rateLimit()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "do %s %s", method, path)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("http %d on %s: %s", resp.StatusCode, path, string(raw))
	}
	return raw, nil
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return v
}

func parseInt(s string) int {
	v, _ := strconv.Atoi(strings.TrimSpace(s))
	return v
}
