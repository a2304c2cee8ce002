package viewer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ezlaw/ezlaw/internal/chat"
	"github.com/ezlaw/ezlaw/internal/jsonvalue"
)

// Backend is the server the controller talks to.
type Backend interface {
	GetLaws(ctx context.Context) (jsonvalue.Value, error)
	Chat(ctx context.Context, sessionID, message string) (*chat.Response, error)
}

// Client calls an ezlaw server over HTTP. Failures are *Error.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the server at baseURL. A nil h uses
// http.DefaultClient.
func NewClient(baseURL string, h *http.Client) *Client {
	if h == nil {
		h = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: h}
}

// GetLaws calls GET /api/get-laws and returns the response body with its
// member order intact.
func (c *Client) GetLaws(ctx context.Context) (jsonvalue.Value, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/get-laws", nil)
	if err != nil {
		return jsonvalue.Value{}, networkError(err)
	}
	status, body, err := c.do(req)
	if err != nil {
		return jsonvalue.Value{}, err
	}

	v, perr := jsonvalue.Parse(body)
	if !ok(status) {
		if msg := errorField(v, perr); msg != "" {
			return jsonvalue.Value{}, applicationError(msg)
		}
		return jsonvalue.Value{}, httpStatusError(status)
	}
	if perr != nil {
		return jsonvalue.Value{}, &Error{Kind: KindApplication, Message: fmt.Sprintf("invalid response: %v", perr), Err: perr}
	}
	if s, _ := v.Get("success"); !s.Bool() {
		if msg := errorField(v, nil); msg != "" {
			return jsonvalue.Value{}, applicationError(msg)
		}
		return jsonvalue.Value{}, applicationError("Unknown error occurred")
	}
	return v, nil
}

// Chat calls POST /api/chatbot.
func (c *Client) Chat(ctx context.Context, sessionID, message string) (*chat.Response, error) {
	payload, err := json.Marshal(chat.Request{Message: message, SessionID: sessionID})
	if err != nil {
		return nil, &Error{Kind: KindApplication, Message: err.Error(), Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chatbot", bytes.NewReader(payload))
	if err != nil {
		return nil, networkError(err)
	}
	req.Header.Set("Content-Type", "application/json")

	status, body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var resp chat.Response
	perr := json.Unmarshal(body, &resp)
	if !ok(status) {
		if perr == nil && resp.Error != "" {
			return nil, applicationError(resp.Error)
		}
		return nil, httpStatusError(status)
	}
	if perr != nil {
		return nil, &Error{Kind: KindApplication, Message: fmt.Sprintf("invalid response: %v", perr), Err: perr}
	}
	if !resp.Success {
		if resp.Error != "" {
			return nil, applicationError(resp.Error)
		}
		return nil, applicationError("Unknown error occurred")
	}
	return &resp, nil
}

func (c *Client) do(req *http.Request) (int, []byte, error) {
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, networkError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, networkError(err)
	}
	return resp.StatusCode, body, nil
}

func ok(status int) bool {
	return status >= 200 && status <= 299
}

// errorField returns the "error" string of a parsed body, if any.
func errorField(v jsonvalue.Value, parseErr error) string {
	if parseErr != nil {
		return ""
	}
	e, _ := v.Get("error")
	if e.Kind() != jsonvalue.String {
		return ""
	}
	return e.Str()
}
