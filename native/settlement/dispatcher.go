package settlement

import (
	"context"
	"log/slog"
	"sync"

	"artledger/core/events"
	"artledger/observability"
)

// Call is one queued cross-ledger invocation. The sender is the ledger
// identity the call is delivered under, so peer-only entry points on the
// target ledger authorize against it.
type Call struct {
	Sender string
	Target string
	Method string
	do     func() error
}

// Dispatcher is the in-process model of the platform's asynchronous
// cross-contract calls. Dispatching enqueues and returns immediately; a
// delivery loop invokes the target ledger later. A failed delivery is logged
// and counted but never retried, and never rolls back the local leg the
// sender already committed.
type Dispatcher struct {
	mu      sync.Mutex
	queue   []Call
	wake    chan struct{}
	log     *slog.Logger
	emitter events.Emitter
}

// NewDispatcher constructs an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		wake:    make(chan struct{}, 1),
		log:     slog.Default(),
		emitter: events.NoopEmitter{},
	}
}

// SetLogger overrides the dispatcher logger.
func (d *Dispatcher) SetLogger(log *slog.Logger) {
	if log != nil {
		d.log = log
	}
}

// SetEmitter configures the event emitter. Passing nil resets it to a no-op.
func (d *Dispatcher) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		d.emitter = events.NoopEmitter{}
		return
	}
	d.emitter = emitter
}

func (d *Dispatcher) enqueue(call Call) {
	d.mu.Lock()
	d.queue = append(d.queue, call)
	d.mu.Unlock()
	d.emitter.Emit(events.SettlementDispatched{Sender: call.Sender, Target: call.Target, Method: call.Method})
	observability.Settlement().Dispatched(call.Target, call.Method)
	select {
	case d.wake <- struct{}{}:
	default:
	}
}

func (d *Dispatcher) next() (Call, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.queue) == 0 {
		return Call{}, false
	}
	call := d.queue[0]
	d.queue = d.queue[1:]
	return call, true
}

// Pending returns the number of queued, undelivered calls.
func (d *Dispatcher) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.queue)
}

// Drain delivers every queued call, including calls enqueued by the
// deliveries themselves, and returns the number delivered. Tests use it to
// settle all flows deterministically.
func (d *Dispatcher) Drain() int {
	delivered := 0
	for {
		call, ok := d.next()
		if !ok {
			return delivered
		}
		d.deliver(call)
		delivered++
	}
}

// Run delivers queued calls until the context is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	for {
		d.Drain()
		select {
		case <-ctx.Done():
			return
		case <-d.wake:
		}
	}
}

func (d *Dispatcher) deliver(call Call) {
	err := call.do()
	observability.Settlement().Delivered(call.Target, call.Method, err)
	if err != nil {
		// The sender's local mutation stays applied; the failure is
		// surfaced through events and metrics only.
		d.log.Error("settlement delivery failed",
			"sender", call.Sender, "target", call.Target, "method", call.Method, "err", err)
		d.emitter.Emit(events.SettlementFailed{
			Sender: call.Sender, Target: call.Target, Method: call.Method, Reason: err.Error(),
		})
	}
}
