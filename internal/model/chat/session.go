package chat

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Conversation 表示一个与助手服务共享的对话上下文。
// ThreadID 由助手服务签发，首次使用时才创建。
type Conversation struct {
	ID        string
	CreatedAt time.Time

	mu       sync.Mutex
	threadID string
}

// NewConversation returns an empty conversation with a fresh local id.
func NewConversation() *Conversation {
	return &Conversation{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
	}
}

// ThreadID returns the cached assistant thread id, or "" before provisioning.
func (c *Conversation) ThreadID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.threadID
}

// Provision returns the cached thread id, calling create exactly once when none is held.
// The lock is held across create so concurrent first callers share one thread.
func (c *Conversation) Provision(create func() (string, error)) (id string, created bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.threadID != "" {
		return c.threadID, false, nil
	}

	id, err = create()
	if err != nil {
		return "", false, err
	}
	c.threadID = id
	return id, true, nil
}
