package genapi

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"modeltron/internal/logging"
	"modeltron/internal/types"
)

// ErrChatReset is returned by Send when the conversation was reset while the
// provider call was in flight. The reply is not recorded.
var ErrChatReset = errors.New("chat was reset")

// ChatSession is a running conversation with a fixed system prompt.
type ChatSession interface {
	Send(ctx context.Context, content string) (string, error)
	Messages() []Turn
	Reset()
}

// Chat keeps history and forwards the whole conversation on every Send.
type Chat struct {
	mu      sync.Mutex
	gen     TextGenerator
	system  string
	opts    TextOptions
	history []Turn
	epoch   uint64
}

// NewChat creates a chat seeded with the system prompt.
func NewChat(gen TextGenerator, system string, opts TextOptions) *Chat {
	c := &Chat{gen: gen, system: system, opts: opts}
	c.Reset()
	return c
}

// Send appends the user message, asks the provider and records the reply.
// On failure the user message is rolled back so history stays paired.
// A Reset during the call discards the result and returns ErrChatReset.
func (c *Chat) Send(ctx context.Context, content string) (string, error) {
	c.mu.Lock()
	epoch := c.epoch
	c.history = append(c.history, Turn{Role: types.RoleUser, Content: content})
	turns := append([]Turn(nil), c.history...)
	c.mu.Unlock()

	logging.APIDebug("chat send via %s: %d turns", c.gen.Name(), len(turns))
	reply, err := c.gen.Complete(ctx, turns, c.opts)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch {
		logging.APIDebug("chat reply dropped: conversation reset mid-flight")
		return "", ErrChatReset
	}
	if err != nil {
		c.dropUserTurn(content)
		return "", fmt.Errorf("chat failed: %w", err)
	}
	c.history = append(c.history, Turn{Role: types.RoleAssistant, Content: reply})
	return reply, nil
}

// Messages returns a copy of the conversation including the system prompt.
func (c *Chat) Messages() []Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Turn(nil), c.history...)
}

// Reset drops everything but the system prompt. Sends still in flight are
// detached from the new conversation.
func (c *Chat) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.epoch++
	c.history = nil
	if c.system != "" {
		c.history = append(c.history, Turn{Role: types.RoleSystem, Content: c.system})
	}
}

// dropUserTurn removes the most recent user turn carrying content.
func (c *Chat) dropUserTurn(content string) {
	for i := len(c.history) - 1; i >= 0; i-- {
		if c.history[i].Role == types.RoleUser && c.history[i].Content == content {
			c.history = append(c.history[:i], c.history[i+1:]...)
			return
		}
	}
}
