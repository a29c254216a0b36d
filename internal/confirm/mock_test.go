package confirm

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/agenthands/confirm/internal/authapi"
)

// MockConfirmer resolves every call to Result. When Release is non-nil it
// signals Started and blocks until Release is closed.
type MockConfirmer struct {
	Result  authapi.Result
	Panic   any
	Started chan struct{}
	Release chan struct{}

	calls  atomic.Int32
	tokens []string
}

func (m *MockConfirmer) Confirm(ctx context.Context, token string) authapi.Result {
	m.calls.Add(1)
	m.tokens = append(m.tokens, token)
	if m.Release != nil {
		m.Started <- struct{}{}
		<-m.Release
	}
	if m.Panic != nil {
		panic(m.Panic)
	}
	return m.Result
}

func (m *MockConfirmer) Calls() int {
	return int(m.calls.Load())
}

func newBlockingConfirmer(res authapi.Result) *MockConfirmer {
	return &MockConfirmer{
		Result:  res,
		Started: make(chan struct{}, 1),
		Release: make(chan struct{}),
	}
}

func observedLogger() (*zap.SugaredLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.InfoLevel)
	return zap.New(core).Sugar(), logs
}
