package server

import (
	"context"
	"sync"

	"github.com/agenthands/confirm/internal/authapi"
)

type confirmCall struct {
	Token       string
	RequestID   string
	Cancellable bool
}

type MockConfirmer struct {
	Result  authapi.Result
	Started chan struct{}
	Release chan struct{}

	mu    sync.Mutex
	calls []confirmCall
}

func (m *MockConfirmer) Confirm(ctx context.Context, token string) authapi.Result {
	m.mu.Lock()
	m.calls = append(m.calls, confirmCall{
		Token:       token,
		RequestID:   authapi.RequestID(ctx),
		Cancellable: ctx.Done() != nil,
	})
	m.mu.Unlock()

	if m.Release != nil {
		m.Started <- struct{}{}
		<-m.Release
	}
	return m.Result
}

func (m *MockConfirmer) Calls() []confirmCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]confirmCall(nil), m.calls...)
}
