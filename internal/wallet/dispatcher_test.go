package wallet

import (
	"context"
	"errors"
	"testing"
	"time"
)

type channelSender struct {
	got chan PayoutRequest
	err error
}

func (s *channelSender) Payout(ctx context.Context, req PayoutRequest) error {
	s.got <- req
	return s.err
}

func TestDispatcherDeliversInBackground(t *testing.T) {
	sender := &channelSender{got: make(chan PayoutRequest, 1)}
	d := NewDispatcher(sender)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.Enqueue(PayoutRequest{MatchID: "m1", WinnerID: "alice", BetAmount: 500})

	select {
	case req := <-sender.got:
		if req.MatchID != "m1" || req.WinnerID != "alice" {
			t.Errorf("Delivered request mismatch: %+v", req)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Payout never reached the sender")
	}
}

func TestDispatcherSwallowsSenderFailure(t *testing.T) {
	sender := &channelSender{got: make(chan PayoutRequest, 2), err: errors.New("wallet down")}
	d := NewDispatcher(sender)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	// Both requests are attempted; the first failure must not stop the
	// worker.
	d.Enqueue(PayoutRequest{MatchID: "m1"})
	d.Enqueue(PayoutRequest{MatchID: "m2"})

	for _, want := range []string{"m1", "m2"} {
		select {
		case req := <-sender.got:
			if req.MatchID != want {
				t.Errorf("Expected %s, got %s", want, req.MatchID)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("Request %s never attempted", want)
		}
	}
}

func TestDispatcherNilSafety(t *testing.T) {
	var d *Dispatcher
	d.Enqueue(PayoutRequest{MatchID: "m1"})
	d.Start(context.Background())
}
