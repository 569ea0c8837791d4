package feed_test

import (
	"sync"

	"childguard/backend/internal/models"
)

type MockClient struct {
	id          string
	RecvChannel chan models.ReportNotice

	mu     sync.Mutex
	closed bool
}

func newMockClient(id string, buffer int) *MockClient {
	return &MockClient{id: id, RecvChannel: make(chan models.ReportNotice, buffer)}
}

func (c *MockClient) GetID() string                              { return c.id }
func (c *MockClient) GetSendChannel() chan<- models.ReportNotice { return c.RecvChannel }
func (c *MockClient) Run()                                       {}

func (c *MockClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *MockClient) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
