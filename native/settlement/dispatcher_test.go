package settlement

import (
	"errors"
	"math/big"
	"testing"

	"artledger/core/events"
)

// recordingStable captures delivered calls with the caller identity they
// arrived under.
type recordingStable struct {
	callers []string
	methods []string
	fail    error
}

func (r *recordingStable) record(caller, method string) error {
	r.callers = append(r.callers, caller)
	r.methods = append(r.methods, method)
	return r.fail
}

func (r *recordingStable) Mint(caller, account string, amount *big.Int) (*big.Int, error) {
	return amount, r.record(caller, "mint")
}

func (r *recordingStable) BurnToUnstake(caller, account string, burnAmount, unstakeAmount *big.Int) error {
	return r.record(caller, "burn_to_unstake")
}

func (r *recordingStable) BurnToBuyAsset(caller, account string, burnAmount *big.Int, asset string, assetAmount *big.Int) error {
	return r.record(caller, "burn_to_buy_asset")
}

func (r *recordingStable) BuyAUSD(caller, account string, amount *big.Int) error {
	return r.record(caller, "buy_ausd")
}

func (r *recordingStable) SellAUSD(caller, account string, amount *big.Int) error {
	return r.record(caller, "sell_ausd")
}

type captureEmitter struct {
	events []events.Event
}

func (c *captureEmitter) Emit(event events.Event) {
	c.events = append(c.events, event)
}

func TestDispatchIsQueuedNotImmediate(t *testing.T) {
	d := NewDispatcher()
	ledger := &recordingStable{}
	peer := NewAsyncStable(d, "art", "ausd", ledger)

	peer.Mint("alice", big.NewInt(100))
	if len(ledger.methods) != 0 {
		t.Fatalf("call delivered synchronously")
	}
	if d.Pending() != 1 {
		t.Fatalf("pending: got %d want 1", d.Pending())
	}
	if n := d.Drain(); n != 1 {
		t.Fatalf("drained: got %d want 1", n)
	}
	if d.Pending() != 0 {
		t.Fatalf("queue not empty after drain")
	}
	if len(ledger.methods) != 1 || ledger.methods[0] != "mint" {
		t.Fatalf("delivered: %v", ledger.methods)
	}
}

func TestDeliveryOrderIsFIFO(t *testing.T) {
	d := NewDispatcher()
	ledger := &recordingStable{}
	peer := NewAsyncStable(d, "art", "ausd", ledger)

	peer.Mint("alice", big.NewInt(1))
	peer.BuyAUSD("bob", big.NewInt(2))
	peer.SellAUSD("carol", big.NewInt(3))
	d.Drain()

	want := []string{"mint", "buy_ausd", "sell_ausd"}
	if len(ledger.methods) != len(want) {
		t.Fatalf("delivered %v", ledger.methods)
	}
	for i, m := range want {
		if ledger.methods[i] != m {
			t.Fatalf("position %d: got %s want %s", i, ledger.methods[i], m)
		}
	}
}

func TestDeliveryCarriesSenderIdentity(t *testing.T) {
	d := NewDispatcher()
	ledger := &recordingStable{}
	peer := NewAsyncStable(d, "art", "ausd", ledger)

	peer.BurnToUnstake("alice", big.NewInt(10), big.NewInt(2))
	d.Drain()
	if len(ledger.callers) != 1 || ledger.callers[0] != "art" {
		t.Fatalf("caller identity: %v", ledger.callers)
	}
}

func TestFailedDeliveryIsNotRetried(t *testing.T) {
	d := NewDispatcher()
	emitter := &captureEmitter{}
	d.SetEmitter(emitter)
	ledger := &recordingStable{fail: errors.New("insufficient balance")}
	peer := NewAsyncStable(d, "art", "ausd", ledger)

	peer.Mint("alice", big.NewInt(100))
	if n := d.Drain(); n != 1 {
		t.Fatalf("drained: got %d want 1", n)
	}
	if d.Pending() != 0 {
		t.Fatalf("failed call requeued")
	}
	if len(ledger.methods) != 1 {
		t.Fatalf("failed call delivered %d times", len(ledger.methods))
	}

	var failed *events.SettlementFailed
	for _, ev := range emitter.events {
		if f, ok := ev.(events.SettlementFailed); ok {
			failed = &f
		}
	}
	if failed == nil {
		t.Fatalf("no failure event emitted")
	}
	if failed.Sender != "art" || failed.Target != "ausd" || failed.Method != "mint" {
		t.Fatalf("failure event: %+v", failed)
	}
}

func TestAmountsAreClonedAtDispatch(t *testing.T) {
	d := NewDispatcher()
	var got *big.Int
	ledger := &recordingStable{}
	peer := NewAsyncStable(d, "art", "ausd", &captureAmount{inner: ledger, out: &got})

	amount := big.NewInt(100)
	peer.Mint("alice", amount)
	amount.SetInt64(7) // mutate after dispatch
	d.Drain()
	if got == nil || got.Int64() != 100 {
		t.Fatalf("dispatched amount aliased the caller's value: %v", got)
	}
}

type captureAmount struct {
	inner *recordingStable
	out   **big.Int
}

func (c *captureAmount) Mint(caller, account string, amount *big.Int) (*big.Int, error) {
	*c.out = amount
	return c.inner.Mint(caller, account, amount)
}

func (c *captureAmount) BurnToUnstake(caller, account string, burnAmount, unstakeAmount *big.Int) error {
	return c.inner.BurnToUnstake(caller, account, burnAmount, unstakeAmount)
}

func (c *captureAmount) BurnToBuyAsset(caller, account string, burnAmount *big.Int, asset string, assetAmount *big.Int) error {
	return c.inner.BurnToBuyAsset(caller, account, burnAmount, asset, assetAmount)
}

func (c *captureAmount) BuyAUSD(caller, account string, amount *big.Int) error {
	return c.inner.BuyAUSD(caller, account, amount)
}

func (c *captureAmount) SellAUSD(caller, account string, amount *big.Int) error {
	return c.inner.SellAUSD(caller, account, amount)
}
