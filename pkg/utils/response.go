package utils

import (
	"encoding/json"
	"net/http"
)

// RespondJSON 发送JSON响应，返回写出时的编码错误。
func RespondJSON(w http.ResponseWriter, status int, payload any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(payload)
}

// RespondError 发送 {"error": message} 错误响应
func RespondError(w http.ResponseWriter, status int, message string) error {
	return RespondJSON(w, status, ErrorBody{Error: message})
}

// 对外暴露的错误文案，所有传输方式共用。
const (
	MsgNoInput         = "No input provided"
	MsgAssistantFailed = "Failed to interact with the assistant"
)

// ErrorBody is the error payload shared by every endpoint.
type ErrorBody struct {
	Error string `json:"error"`
}
