package stable

import (
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"sync"

	"artledger/core/events"
)

var (
	errNilState = errors.New("stable engine: state not configured")
	errNilPeer  = errors.New("stable engine: collateral peer not configured")
)

// CollateralDispatch is the asynchronous capability the stablecoin ledger
// uses to finalize settlement flows on the collateral ledger. Calls are
// queued and delivered under the stablecoin ledger's identity.
type CollateralDispatch interface {
	Unstake(account string, amount *big.Int)
	BuyAssetCallback(account, asset string, amount *big.Int)
}

// Engine implements the stablecoin ledger. Supply only changes through the
// peer-restricted mint and burn entry points; users can merely transfer.
type Engine struct {
	mu      sync.Mutex
	store   *Store
	peer    CollateralDispatch
	emitter events.Emitter
	log     *slog.Logger
}

// NewEngine creates a stablecoin engine with a no-op emitter.
func NewEngine(store *Store) *Engine {
	return &Engine{
		store:   store,
		emitter: events.NoopEmitter{},
		log:     slog.Default(),
	}
}

// SetPeer configures the collateral dispatch capability.
func (e *Engine) SetPeer(peer CollateralDispatch) { e.peer = peer }

// SetEmitter configures the event emitter. Passing nil resets it to a no-op.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

// SetLogger overrides the engine logger.
func (e *Engine) SetLogger(log *slog.Logger) {
	if log != nil {
		e.log = log
	}
}

func (e *Engine) emit(event events.Event) {
	if e.emitter != nil {
		e.emitter.Emit(event)
	}
}

// Initialize creates the ledger metadata. The stablecoin ledger starts with
// zero supply; all issuance flows through the collateral ledger.
func (e *Engine) Initialize(owner, peer string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.store == nil {
		return errNilState
	}
	ok, err := e.store.Initialized()
	if err != nil {
		return err
	}
	if ok {
		return ErrAlreadyInitialized
	}
	return e.store.PutMeta(&Meta{Owner: owner, Peer: peer, TotalSupply: big.NewInt(0)})
}

// Mint credits freshly issued stablecoin to the account. Restricted to the
// paired collateral ledger; returns the minted amount.
func (e *Engine) Mint(caller, account string, amount *big.Int) (*big.Int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	meta, err := e.requirePeer(caller)
	if err != nil {
		return nil, err
	}
	if err := e.credit(meta, account, amount); err != nil {
		return nil, err
	}
	e.emit(events.StableMinted{Account: account, Amount: clone(amount)})
	return clone(amount), nil
}

// BurnToUnstake burns the stablecoin backing an unstake and, once the burn
// succeeds, dispatches the unstake callback to the collateral ledger. An
// insufficient balance aborts before any mutation so the collateral stays
// locked.
func (e *Engine) BurnToUnstake(caller, account string, burnAmount, unstakeAmount *big.Int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.peer == nil {
		return errNilPeer
	}
	meta, err := e.requirePeer(caller)
	if err != nil {
		return err
	}
	if err := e.debit(meta, account, burnAmount); err != nil {
		return err
	}
	e.emit(events.StableBurned{Account: account, Amount: clone(burnAmount)})
	e.log.Info("burned for unstake", "account", account, "burn", burnAmount.String(), "unstake", unstakeAmount.String())
	e.peer.Unstake(account, clone(unstakeAmount))
	return nil
}

// BurnToBuyAsset burns stablecoin in exchange for a synthetic asset and
// dispatches the asset credit callback to the collateral ledger.
func (e *Engine) BurnToBuyAsset(caller, account string, burnAmount *big.Int, asset string, assetAmount *big.Int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.peer == nil {
		return errNilPeer
	}
	meta, err := e.requirePeer(caller)
	if err != nil {
		return err
	}
	if err := e.debit(meta, account, burnAmount); err != nil {
		return err
	}
	e.emit(events.StableBurned{Account: account, Amount: clone(burnAmount)})
	e.peer.BuyAssetCallback(account, asset, clone(assetAmount))
	return nil
}

// BuyAUSD mints stablecoin sold to the account through one of the collateral
// ledger's exchange or native deposit flows.
func (e *Engine) BuyAUSD(caller, account string, amount *big.Int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	meta, err := e.requirePeer(caller)
	if err != nil {
		return err
	}
	if err := e.credit(meta, account, amount); err != nil {
		return err
	}
	e.emit(events.StableMinted{Account: account, Amount: clone(amount)})
	return nil
}

// SellAUSD burns stablecoin the account sold back through the collateral
// ledger's exchange flow.
func (e *Engine) SellAUSD(caller, account string, amount *big.Int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	meta, err := e.requirePeer(caller)
	if err != nil {
		return err
	}
	if err := e.debit(meta, account, amount); err != nil {
		return err
	}
	e.emit(events.StableBurned{Account: account, Amount: clone(amount)})
	return nil
}

// Transfer moves stablecoin between accounts.
func (e *Engine) Transfer(caller, to string, amount *big.Int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.store == nil {
		return errNilState
	}
	if err := checkRange(amount); err != nil {
		return err
	}
	if amount.Sign() == 0 {
		return fmt.Errorf("%w: can't transfer 0 tokens", ErrZeroAmount)
	}
	if caller == to {
		return ErrSelfTransfer
	}
	balance, err := e.store.Balance(caller)
	if err != nil {
		return err
	}
	if balance.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	recipient, err := e.store.Balance(to)
	if err != nil {
		return err
	}
	newRecipient := new(big.Int).Add(recipient, amount)
	if err := checkRange(newRecipient); err != nil {
		return err
	}
	if err := e.store.PutBalance(caller, new(big.Int).Sub(balance, amount)); err != nil {
		return err
	}
	return e.store.PutBalance(to, newRecipient)
}

// TotalSupply returns the circulating stablecoin supply.
func (e *Engine) TotalSupply() (*big.Int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.store == nil {
		return nil, errNilState
	}
	meta, err := e.store.Meta()
	if err != nil {
		return nil, err
	}
	return meta.TotalSupply, nil
}

// BalanceOf returns the stablecoin balance of the account.
func (e *Engine) BalanceOf(id string) (*big.Int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.store == nil {
		return nil, errNilState
	}
	return e.store.Balance(id)
}

// --- helpers ---

func (e *Engine) requirePeer(caller string) (*Meta, error) {
	if e.store == nil {
		return nil, errNilState
	}
	meta, err := e.store.Meta()
	if err != nil {
		return nil, err
	}
	if caller != meta.Peer {
		return nil, fmt.Errorf("%w: only the collateral ledger may mint or burn", ErrUnauthorized)
	}
	return meta, nil
}

func (e *Engine) credit(meta *Meta, account string, amount *big.Int) error {
	if err := checkRange(amount); err != nil {
		return err
	}
	balance, err := e.store.Balance(account)
	if err != nil {
		return err
	}
	newBalance := new(big.Int).Add(balance, amount)
	newSupply := new(big.Int).Add(meta.TotalSupply, amount)
	if err := checkRange(newBalance); err != nil {
		return err
	}
	if err := checkRange(newSupply); err != nil {
		return err
	}
	if err := e.store.PutBalance(account, newBalance); err != nil {
		return err
	}
	meta.TotalSupply = newSupply
	return e.store.PutMeta(meta)
}

func (e *Engine) debit(meta *Meta, account string, amount *big.Int) error {
	if err := checkRange(amount); err != nil {
		return err
	}
	balance, err := e.store.Balance(account)
	if err != nil {
		return err
	}
	if balance.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	newSupply := new(big.Int).Sub(meta.TotalSupply, amount)
	if newSupply.Sign() < 0 {
		return ErrAmountOverflow
	}
	if err := e.store.PutBalance(account, new(big.Int).Sub(balance, amount)); err != nil {
		return err
	}
	meta.TotalSupply = newSupply
	return e.store.PutMeta(meta)
}

func checkRange(value *big.Int) error {
	if value == nil || value.Sign() < 0 || value.Cmp(maxUint128) > 0 {
		return ErrAmountOverflow
	}
	return nil
}

func clone(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(v)
}
