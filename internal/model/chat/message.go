package chat

import (
	"time"

	"github.com/zhouzirui/yaros-chat/backend/internal/model/sentiment"
)

// Request is the inbound body of POST /chat.
type Request struct {
	Prompt string `json:"prompt"`
}

// Reply is the composite result returned to the UI.
type Reply struct {
	AssistantResponse string           `json:"assistant_response"`
	Sentiment         sentiment.Result `json:"sentiment"`
	GifURL            *string          `json:"gifUrl"`
}

// Turn is one transcript entry kept by the chat client.
type Turn struct {
	User      string    `json:"user"`
	Assistant string    `json:"assistant"`
	Gif       *string   `json:"gif"`
	At        time.Time `json:"-"`
}

// Stage names a step of the chat workflow reported to observers.
type Stage string

const (
	StageSentiment Stage = "sentiment"
	StageGif       Stage = "gif"
	StageThread    Stage = "thread"
	StageMessage   Stage = "message"
	StageRun       Stage = "run"
	StageReply     Stage = "reply"
)

// Event 描述一次工作流进度，用于流式推送。
type Event struct {
	Stage  Stage  `json:"stage"`
	Status string `json:"status,omitempty"`
	Detail any    `json:"detail,omitempty"`
}
