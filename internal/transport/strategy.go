package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"quiz-client/internal/domain"
)

const maxBodyBytes = 8 << 20

// envelope flattens the action tag and params into one JSON object.
func envelope(req Request) map[string]any {
	body := make(map[string]any, len(req.Params)+1)
	for k, v := range req.Params {
		body[k] = v
	}
	body["action"] = string(req.Action)
	return body
}

// decode accepts a body only if it is JSON with an explicit success flag.
func decode(body []byte) (domain.Response, error) {
	var resp domain.Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return domain.Response{}, fmt.Errorf("%w: invalid JSON response: %v", domain.ErrTransport, err)
	}
	resp.Raw = append(json.RawMessage(nil), body...)
	if !resp.Success {
		msg := resp.Error
		if msg == "" {
			msg = "success flag not set"
		}
		return resp, fmt.Errorf("%w: remote reported failure: %s", domain.ErrTransport, msg)
	}
	return resp, nil
}

func setHeaders(r *http.Request) {
	r.Header.Set("Accept", "application/json, text/plain, */*")
	r.Header.Set("Cache-Control", "no-cache, no-store, must-revalidate")
	r.Header.Set("Pragma", "no-cache")
}

func readResponse(resp *http.Response) (domain.Response, error) {
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return domain.Response{}, fmt.Errorf("%w: read body: %v", domain.ErrTransport, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.Response{}, fmt.Errorf("%w: http status %d", domain.ErrTransport, resp.StatusCode)
	}
	return decode(body)
}

// PostStrategy sends the request as a JSON body.
type PostStrategy struct {
	url    string
	client *http.Client
}

func NewPostStrategy(url string, client *http.Client) *PostStrategy {
	return &PostStrategy{url: url, client: client}
}

func (s *PostStrategy) Name() string { return "post" }

func (s *PostStrategy) Send(ctx context.Context, req Request) Result {
	res := Result{Strategy: s.Name()}
	payload, err := json.Marshal(envelope(req))
	if err != nil {
		res.Err = fmt.Errorf("%w: encode body: %v", domain.ErrTransport, err)
		return res
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		res.Err = fmt.Errorf("%w: build request: %v", domain.ErrTransport, err)
		return res
	}
	setHeaders(httpReq)
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := s.client.Do(httpReq)
	if err != nil {
		res.Err = fmt.Errorf("%w: %v", domain.ErrTransport, err)
		return res
	}
	res.Response, res.Err = readResponse(httpResp)
	return res
}

// GetStrategy sends the request as query parameters. Non-string params are JSON-encoded.
type GetStrategy struct {
	url    string
	client *http.Client
	now    func() time.Time
}

func NewGetStrategy(url string, client *http.Client, now func() time.Time) *GetStrategy {
	return &GetStrategy{url: url, client: client, now: now}
}

func (s *GetStrategy) Name() string { return "get" }

func (s *GetStrategy) Send(ctx context.Context, req Request) Result {
	res := Result{Strategy: s.Name()}
	target, err := EncodeQuery(s.url, req, s.now())
	if err != nil {
		res.Err = fmt.Errorf("%w: %v", domain.ErrTransport, err)
		return res
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		res.Err = fmt.Errorf("%w: build request: %v", domain.ErrTransport, err)
		return res
	}
	setHeaders(httpReq)

	httpResp, err := s.client.Do(httpReq)
	if err != nil {
		res.Err = fmt.Errorf("%w: %v", domain.ErrTransport, err)
		return res
	}
	res.Response, res.Err = readResponse(httpResp)
	return res
}

// EncodeQuery builds the GET form of req against base. t is a cache buster.
func EncodeQuery(base string, req Request, now time.Time) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	q := u.Query()
	for k, v := range req.Params {
		if s, ok := v.(string); ok {
			q.Set(k, s)
			continue
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("encode %s: %w", k, err)
		}
		q.Set(k, string(raw))
	}
	q.Set("action", string(req.Action))
	q.Set("t", strconv.FormatInt(now.UnixMilli(), 10))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// WSStrategy makes a single request over a websocket connection: one message
// out, one message back. It exists for clients behind proxies that mangle
// plain HTTP bodies.
type WSStrategy struct {
	url    string
	dialer *websocket.Dialer
}

func NewWSStrategy(url string) *WSStrategy {
	return &WSStrategy{url: url, dialer: websocket.DefaultDialer}
}

func (s *WSStrategy) Name() string { return "ws" }

func (s *WSStrategy) Send(ctx context.Context, req Request) Result {
	res := Result{Strategy: s.Name()}
	conn, _, err := s.dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		res.Err = fmt.Errorf("%w: dial: %v", domain.ErrTransport, err)
		return res
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetWriteDeadline(deadline)
		_ = conn.SetReadDeadline(deadline)
	}
	if err := conn.WriteJSON(envelope(req)); err != nil {
		res.Err = fmt.Errorf("%w: write: %v", domain.ErrTransport, err)
		return res
	}
	_, data, err := conn.ReadMessage()
	if err != nil {
		res.Err = fmt.Errorf("%w: read: %v", domain.ErrTransport, err)
		return res
	}
	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	res.Response, res.Err = decode(data)
	return res
}

// wsURL returns the configured websocket endpoint, or derives /ws from the HTTP URL.
func wsURL(cfg Config) string {
	if cfg.WSURL != "" {
		return cfg.WSURL
	}
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return ""
	}
	switch strings.ToLower(u.Scheme) {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = "/ws"
	u.RawQuery = ""
	return u.String()
}
