package testutil

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/cloudwego/eino/schema"
)

// FakeProvider implements gateway.Provider for tests.
type FakeProvider struct {
	ProviderName string
	Chunks       []string
	// OpenErr fails the request before a stream is returned.
	OpenErr error
	// MidErr is delivered through the stream after Chunks.
	MidErr error

	mu    sync.Mutex
	calls [][]*schema.Message
}

func (f *FakeProvider) Name() string { return f.ProviderName }

// Stream records the call and replays Chunks.
func (f *FakeProvider) Stream(_ context.Context, messages []*schema.Message) (*schema.StreamReader[*schema.Message], error) {
	f.mu.Lock()
	f.calls = append(f.calls, messages)
	f.mu.Unlock()

	if f.OpenErr != nil {
		return nil, f.OpenErr
	}

	sr, sw := schema.Pipe[*schema.Message](len(f.Chunks) + 1)
	go func() {
		defer sw.Close()
		for _, c := range f.Chunks {
			if closed := sw.Send(schema.AssistantMessage(c, nil), nil); closed {
				return
			}
		}
		if f.MidErr != nil {
			sw.Send(nil, f.MidErr)
		}
	}()
	return sr, nil
}

// Calls returns how many times Stream was invoked.
func (f *FakeProvider) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// Received returns the messages passed to the i-th Stream call.
func (f *FakeProvider) Received(i int) []*schema.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[i]
}

// Drain concatenates every chunk of sr until EOF and returns the first non-EOF error.
func Drain(sr *schema.StreamReader[*schema.Message]) (string, error) {
	defer sr.Close()

	var b strings.Builder
	for {
		msg, err := sr.Recv()
		if errors.Is(err, io.EOF) {
			return b.String(), nil
		}
		if err != nil {
			return b.String(), err
		}
		if msg != nil {
			b.WriteString(msg.Content)
		}
	}
}
