package mq

import (
	"context"
	"errors"
	"strconv"
	"sync"
)

// Memory is an in-process backend that keeps published messages per channel.
// Subscribe replays what was published and then waits for new messages.
type Memory struct {
	mu       sync.Mutex
	messages map[string][]Message
	notify   chan struct{}
	closed   bool
	seq      int
}

func NewMemory() *Memory {
	return &Memory{
		messages: make(map[string][]Message),
		notify:   make(chan struct{}),
	}
}

func (m *Memory) Publish(_ context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return "", errors.New("memory backend closed")
	}
	m.seq++
	id := strconv.Itoa(m.seq)
	m.messages[channel] = append(m.messages[channel], Message{ID: id, Data: data, Attributes: attrs})
	close(m.notify)
	m.notify = make(chan struct{})
	return id, nil
}

func (m *Memory) Subscribe(ctx context.Context, channel string, handler Handler) error {
	next := 0
	for {
		m.mu.Lock()
		pending := m.messages[channel][next:]
		notify, closed := m.notify, m.closed
		m.mu.Unlock()

		for _, msg := range pending {
			if err := handler(ctx, msg); err != nil {
				return err
			}
			next++
		}
		if closed {
			return nil
		}
		if len(pending) > 0 {
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-notify:
		}
	}
}

// Messages returns a copy of everything published to channel.
func (m *Memory) Messages(channel string) []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Message(nil), m.messages[channel]...)
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.closed {
		m.closed = true
		close(m.notify)
	}
	return nil
}
