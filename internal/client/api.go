// Package client 是聊天界面的终端实现：调用 /chat 并维护本地对话记录。
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/zhouzirui/yaros-chat/backend/internal/model/chat"
)

// ServerError is a non-2xx answer from the chat endpoint. Message holds the
// server's "error" field and may be empty.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("chat request failed with status %d", e.Status)
	}
	return fmt.Sprintf("chat request failed with status %d: %s", e.Status, e.Message)
}

// API posts prompts to a running chat backend.
type API struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPI returns a client for the backend at baseURL, e.g. http://localhost:5001.
func NewAPI(baseURL string, timeout time.Duration) *API {
	return &API{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Chat sends prompt as-is and decodes the composite reply.
func (a *API) Chat(ctx context.Context, prompt string) (*chat.Reply, error) {
	body, err := json.Marshal(chat.Request{Prompt: prompt})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/chat", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send chat request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read chat response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		serverErr := &ServerError{Status: resp.StatusCode}
		if gjson.ValidBytes(data) {
			serverErr.Message = gjson.GetBytes(data, "error").String()
		}
		return nil, serverErr
	}

	var reply chat.Reply
	if err := json.Unmarshal(data, &reply); err != nil {
		return nil, fmt.Errorf("decode chat response: %w", err)
	}
	return &reply, nil
}
