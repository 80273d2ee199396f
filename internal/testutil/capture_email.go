package testutil

import (
	"context"
	"sync"

	"github.com/billforge/billforge/internal/email"
)

var _ email.Client = (*CaptureEmailClient)(nil)

// CaptureEmailClient records every message instead of sending it
type CaptureEmailClient struct {
	mu       sync.Mutex
	messages []*email.Message
}

// NewCaptureEmailClient creates an email client that captures sent messages
func NewCaptureEmailClient() *CaptureEmailClient {
	return &CaptureEmailClient{}
}

func (c *CaptureEmailClient) Send(ctx context.Context, msg *email.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, msg)
	return nil
}

// Messages returns a copy of everything sent so far
func (c *CaptureEmailClient) Messages() []*email.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*email.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Clear drops all captured messages
func (c *CaptureEmailClient) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = nil
}
