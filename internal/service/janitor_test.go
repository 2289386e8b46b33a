package service_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/kakaenen/internal/service"
)

type sweeperStub struct {
	calls atomic.Int32
	ttl   atomic.Int64
}

func (s *sweeperStub) Sweep(ttl time.Duration) int {
	s.calls.Add(1)
	s.ttl.Store(int64(ttl))
	return 1
}

func TestNewSessionJanitorRejectsBadSchedule(t *testing.T) {
	if _, err := service.NewSessionJanitor(&sweeperStub{}, time.Hour, "every now and then", zap.NewNop()); err == nil {
		t.Fatalf("expected schedule parse error")
	}
}

func TestSessionJanitorSweep(t *testing.T) {
	stub := &sweeperStub{}
	j, err := service.NewSessionJanitor(stub, 2*time.Hour, "@every 10m", zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionJanitor() error = %v", err)
	}

	j.Sweep()

	if stub.calls.Load() != 1 || time.Duration(stub.ttl.Load()) != 2*time.Hour {
		t.Fatalf("unexpected sweep calls=%d ttl=%v", stub.calls.Load(), time.Duration(stub.ttl.Load()))
	}
}

func TestSessionJanitorStartStopsOnCancel(t *testing.T) {
	j, err := service.NewSessionJanitor(&sweeperStub{}, time.Hour, "@every 1h", zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionJanitor() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		j.Start(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("janitor did not stop after cancel")
	}
}
