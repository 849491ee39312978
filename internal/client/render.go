package client

import (
	"fmt"
	"io"

	"github.com/zhouzirui/yaros-chat/backend/internal/model/chat"
)

// AssistantName 是助手在对话中的显示名。
const AssistantName = "Professor Yaros"

// Renderer writes the transcript to a terminal, newest turn last.
type Renderer struct {
	w io.Writer
}

// NewRenderer returns a renderer over w.
func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{w: w}
}

// Prompt shows the input marker.
func (r *Renderer) Prompt() {
	fmt.Fprint(r.w, "> ")
}

// Sending shows the busy indicator.
func (r *Renderer) Sending() {
	fmt.Fprintln(r.w, "Sending...")
}

// Turn prints one exchange.
func (r *Renderer) Turn(turn chat.Turn) {
	fmt.Fprintf(r.w, "%s: %s\n", AssistantName, turn.Assistant)
	if turn.Gif != nil && *turn.Gif != "" {
		fmt.Fprintf(r.w, "[gif] %s\n", *turn.Gif)
	}
	fmt.Fprintf(r.w, "You: %s\n\n", turn.User)
}

// Error prints the failure line.
func (r *Renderer) Error(message string) {
	fmt.Fprintf(r.w, "Error: %s\n", message)
}
