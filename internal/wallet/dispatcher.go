package wallet

import (
	"context"
	"log"
	"time"
)

// PayoutSender is the outbound side the dispatcher drains to. Satisfied by
// *Client; tests substitute a recorder.
type PayoutSender interface {
	Payout(ctx context.Context, req PayoutRequest) error
}

// Dispatcher decouples payout delivery from game-state transitions. A
// terminal move enqueues here and returns immediately; the worker owns
// retries and logging. A payout failure never reaches game state.
type Dispatcher struct {
	sender  PayoutSender
	queue   chan PayoutRequest
	timeout time.Duration
}

// NewDispatcher creates a payout dispatcher draining to sender.
func NewDispatcher(sender PayoutSender) *Dispatcher {
	return &Dispatcher{
		sender:  sender,
		queue:   make(chan PayoutRequest, 256),
		timeout: 30 * time.Second,
	}
}

// Enqueue hands a payout to the background worker. Never blocks: if the
// queue is full the request is dropped and logged for operational
// reconciliation, matching the fire-and-forget contract.
func (d *Dispatcher) Enqueue(req PayoutRequest) {
	if d == nil {
		return
	}
	select {
	case d.queue <- req:
	default:
		log.Printf("[PAYOUT] Queue full, dropping payout for match %s (requires manual reconciliation)", req.MatchID)
	}
}

// Start runs the worker until ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	if d == nil {
		return
	}
	go func() {
		log.Printf("[PAYOUT] Dispatcher started")
		for {
			select {
			case <-ctx.Done():
				log.Printf("[PAYOUT] Dispatcher stopped")
				return
			case req := <-d.queue:
				d.deliver(ctx, req)
			}
		}
	}()
}

func (d *Dispatcher) deliver(ctx context.Context, req PayoutRequest) {
	if d.sender == nil {
		log.Printf("[PAYOUT] No wallet client configured - payout for match %s not sent", req.MatchID)
		return
	}

	callCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	if err := d.sender.Payout(callCtx, req); err != nil {
		// Logged only: the match is already finished and stays finished.
		log.Printf("[PAYOUT] Payout failed for match %s: %v", req.MatchID, err)
		return
	}
	log.Printf("[PAYOUT] Payout dispatched for match %s (winner=%s draw=%v)", req.MatchID, req.WinnerID, req.IsDraw)
}
