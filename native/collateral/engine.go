package collateral

import (
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"sync"
	"time"

	"artledger/core/events"
)

// NativeAssetName is the oracle symbol used to price deposits made in the
// host chain's native currency.
const NativeAssetName = "aNEAR"

var (
	// priceScale is the implied fixed-point denominator of oracle prices:
	// a price of 2_000_000_000 means 20 USD per token.
	priceScale = big.NewInt(100_000_000)
	// collateralRatio: each 5 units of staked collateral back priceScale
	// worth of stablecoin.
	collateralRatio = big.NewInt(5)
	// exchangeFeeNum/exchangeFeeDen apply the 0.3% fee charged on direct
	// collateral<->stablecoin exchanges against the owner inventory.
	exchangeFeeNum = big.NewInt(997)
	exchangeFeeDen = big.NewInt(1000)
)

var (
	errNilState = errors.New("collateral engine: state not configured")
	errNilPeer  = errors.New("collateral engine: stablecoin peer not configured")
)

// StableDispatch is the asynchronous capability the engine uses to reach the
// paired stablecoin ledger. Dispatching never blocks and never reports the
// remote outcome back to the caller: the remote leg settles, or fails, on its
// own. Implementations queue the call for delivery under the collateral
// ledger's identity.
type StableDispatch interface {
	Mint(account string, amount *big.Int)
	BurnToUnstake(account string, burnAmount, unstakeAmount *big.Int)
	BurnToBuyAsset(account string, burnAmount *big.Int, asset string, assetAmount *big.Int)
	BuyAUSD(account string, amount *big.Int)
	SellAUSD(account string, amount *big.Int)
}

// Engine implements the collateral-token ledger: balances, staking, the
// oracle price feed and the local legs of the cross-ledger settlement flows.
// Each exported method is one ledger call; calls are serialized so all state
// reads and writes within one call are linearizable.
type Engine struct {
	mu      sync.Mutex
	store   *Store
	peer    StableDispatch
	emitter events.Emitter
	log     *slog.Logger
	nowFn   func() uint64
}

// NewEngine creates a collateral engine with a no-op emitter and the system
// clock. Callers wire the store, peer dispatch and emitter via the setters.
func NewEngine(store *Store) *Engine {
	return &Engine{
		store:   store,
		emitter: events.NoopEmitter{},
		log:     slog.Default(),
		nowFn:   func() uint64 { return uint64(time.Now().Unix()) },
	}
}

// SetPeer configures the stablecoin dispatch capability.
func (e *Engine) SetPeer(peer StableDispatch) { e.peer = peer }

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

// SetNowFunc overrides the time source. Primarily intended for tests.
func (e *Engine) SetNowFunc(now func() uint64) {
	if now == nil {
		e.nowFn = func() uint64 { return uint64(time.Now().Unix()) }
		return
	}
	e.nowFn = now
}

func (e *Engine) emit(event events.Event) {
	if e.emitter != nil {
		e.emitter.Emit(event)
	}
}

// Initialize creates the ledger metadata and credits the owner account with
// the full initial supply. It fails when the ledger already exists.
func (e *Engine) Initialize(owner, peer string, totalSupply *big.Int) error {
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
	if err := checkRange(totalSupply); err != nil {
		return err
	}
	meta := &Meta{
		Owner:                owner,
		Peer:                 peer,
		TotalSupply:          cloneAmount(totalSupply),
		TotalStaked:          big.NewInt(0),
		Price:                big.NewInt(0),
		StakingRewardEnabled: e.nowFn(),
	}
	account := NewAccount()
	account.Balance = cloneAmount(totalSupply)
	if err := e.store.PutAccount(owner, account); err != nil {
		return err
	}
	return e.store.PutMeta(meta)
}

// --- Oracle ---

// SubmitPrice overwrites the collateral token price. Only the owner may
// submit; the value is trusted without staleness or bounds checks.
func (e *Engine) SubmitPrice(caller string, price *big.Int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	meta, err := e.loadMeta()
	if err != nil {
		return err
	}
	if caller != meta.Owner {
		return fmt.Errorf("%w: only owner can submit price data", ErrUnauthorized)
	}
	if err := checkRange(price); err != nil {
		return err
	}
	meta.Price = cloneAmount(price)
	if err := e.store.PutMeta(meta); err != nil {
		return err
	}
	e.emit(events.PriceSubmitted{Price: cloneAmount(price)})
	return nil
}

// SubmitAssetPrice upserts the price of one named asset.
func (e *Engine) SubmitAssetPrice(caller, asset string, price *big.Int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	meta, err := e.loadMeta()
	if err != nil {
		return err
	}
	if caller != meta.Owner {
		return fmt.Errorf("%w: only owner can submit price data", ErrUnauthorized)
	}
	if err := checkRange(price); err != nil {
		return err
	}
	if err := e.store.PutAssetPrice(asset, price); err != nil {
		return err
	}
	e.emit(events.AssetPriceSubmitted{Asset: asset, Price: cloneAmount(price)})
	return nil
}

// --- Staking reward ---

// RefreshReward compounds the pending staking reward for the caller. It
// returns false when nothing was staked or less than a whole day elapsed
// since the last checkpoint.
func (e *Engine) RefreshReward(caller string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	meta, err := e.loadMeta()
	if err != nil {
		return false, err
	}
	return e.refreshReward(meta, caller)
}

// refreshReward advances the reward checkpoint and credits the compounded
// increase to the account's staked balance and the supply counters. The
// account, checkpoint and meta are all persisted here, so an operation that
// aborts after refreshing leaves exactly the state of a bare RefreshReward.
func (e *Engine) refreshReward(meta *Meta, id string) (bool, error) {
	account, err := e.store.Account(id)
	if err != nil {
		return false, err
	}
	if account.StakedBalance.Sign() == 0 {
		return false, nil
	}
	paidAt, err := e.store.RewardPaidAt(id)
	if err != nil {
		return false, err
	}
	newStaked, newPaidAt, ok := accrue(account.StakedBalance, paidAt, e.nowFn())
	if !ok {
		return false, nil
	}
	reward := new(big.Int).Sub(newStaked, account.StakedBalance)
	newSupply, err := checkedAdd(meta.TotalSupply, reward)
	if err != nil {
		return false, err
	}
	newTotalStaked, err := checkedAdd(meta.TotalStaked, reward)
	if err != nil {
		return false, err
	}
	account.StakedBalance = newStaked
	meta.TotalSupply = newSupply
	meta.TotalStaked = newTotalStaked
	if err := e.store.PutAccount(id, account); err != nil {
		return false, err
	}
	if err := e.store.PutRewardPaidAt(id, newPaidAt); err != nil {
		return false, err
	}
	if err := e.store.PutMeta(meta); err != nil {
		return false, err
	}
	e.log.Info("staking reward accrued", "account", id, "reward", reward.String(), "paidAt", newPaidAt)
	e.emit(events.RewardAccrued{Account: id, Reward: reward, NewStaked: cloneAmount(newStaked), PaidAt: newPaidAt})
	return true, nil
}

// --- Staking & settlement ---

// stake moves amount from the caller's free balance to the staked balance.
// The pending reward is compounded first so newly staked funds do not earn
// the already-elapsed interval, and the checkpoint restarts at the current
// time.
func (e *Engine) stake(meta *Meta, caller string, amount *big.Int) error {
	if err := checkRange(amount); err != nil {
		return err
	}
	if amount.Sign() == 0 {
		return fmt.Errorf("%w: can't stake 0 tokens", ErrZeroAmount)
	}
	account, err := e.store.Account(caller)
	if err != nil {
		return err
	}
	if account.Balance.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	if _, err := e.refreshReward(meta, caller); err != nil {
		return err
	}
	// Reload: the refresh may have rewritten the record.
	account, err = e.store.Account(caller)
	if err != nil {
		return err
	}
	newBalance, err := checkedSub(account.Balance, amount, ErrInsufficientBalance)
	if err != nil {
		return err
	}
	newStaked, err := checkedAdd(account.StakedBalance, amount)
	if err != nil {
		return err
	}
	newTotalStaked, err := checkedAdd(meta.TotalStaked, amount)
	if err != nil {
		return err
	}
	account.Balance = newBalance
	account.StakedBalance = newStaked
	meta.TotalStaked = newTotalStaked
	if err := e.store.PutAccount(caller, account); err != nil {
		return err
	}
	if err := e.store.PutRewardPaidAt(caller, e.nowFn()); err != nil {
		return err
	}
	e.emit(events.Staked{Account: caller, Amount: cloneAmount(amount), Staked: cloneAmount(newStaked)})
	return nil
}

// StakeAndMint locks stakeAmount as collateral and dispatches a mint of
// floor(stakeAmount * price / (5 * priceScale)) stablecoin to the peer
// ledger. The local stake commits before the remote call and is not rolled
// back when the remote leg fails.
func (e *Engine) StakeAndMint(caller string, stakeAmount *big.Int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.peer == nil {
		return errNilPeer
	}
	meta, err := e.loadMeta()
	if err != nil {
		return err
	}
	if err := requirePrice(meta.Price); err != nil {
		return err
	}
	if err := e.stake(meta, caller, stakeAmount); err != nil {
		return err
	}
	if err := e.store.PutMeta(meta); err != nil {
		return err
	}
	mintAmount := new(big.Int).Mul(stakeAmount, meta.Price)
	mintAmount.Quo(mintAmount, new(big.Int).Mul(collateralRatio, priceScale))
	e.log.Info("stake and mint", "account", caller, "stake", stakeAmount.String(), "mint", mintAmount.String())
	e.peer.Mint(caller, mintAmount)
	return nil
}

// BurnToUnstake dispatches the burn leg of the unstake protocol. No local
// state changes until the peer ledger burns the stablecoin and calls back
// Unstake, so an insufficient stablecoin balance aborts with no mutation.
func (e *Engine) BurnToUnstake(caller string, unstakeAmount *big.Int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.peer == nil {
		return errNilPeer
	}
	meta, err := e.loadMeta()
	if err != nil {
		return err
	}
	if err := requirePrice(meta.Price); err != nil {
		return err
	}
	if err := checkRange(unstakeAmount); err != nil {
		return err
	}
	if unstakeAmount.Sign() == 0 {
		return fmt.Errorf("%w: can't unstake 0 tokens", ErrZeroAmount)
	}
	burnAmount := new(big.Int).Mul(unstakeAmount, meta.Price)
	burnAmount.Quo(burnAmount, new(big.Int).Mul(collateralRatio, priceScale))
	e.log.Info("burn to unstake dispatched", "account", caller, "burn", burnAmount.String(), "unstake", unstakeAmount.String())
	e.peer.BurnToUnstake(caller, burnAmount, unstakeAmount)
	return nil
}

// Unstake releases staked collateral back to the free balance. It is the
// settlement callback of the burn-to-unstake flow and may only be invoked by
// the paired stablecoin ledger.
func (e *Engine) Unstake(caller, account string, amount *big.Int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	meta, err := e.loadMeta()
	if err != nil {
		return err
	}
	if caller != meta.Peer {
		return fmt.Errorf("%w: only the stablecoin ledger may unstake", ErrUnauthorized)
	}
	if err := checkRange(amount); err != nil {
		return err
	}
	if amount.Sign() == 0 {
		return fmt.Errorf("%w: can't unstake 0 tokens", ErrZeroAmount)
	}
	if _, err := e.refreshReward(meta, account); err != nil {
		return err
	}
	acct, err := e.store.Account(account)
	if err != nil {
		return err
	}
	newStaked, err := checkedSub(acct.StakedBalance, amount, ErrInsufficientStake)
	if err != nil {
		return err
	}
	newBalance, err := checkedAdd(acct.Balance, amount)
	if err != nil {
		return err
	}
	newTotalStaked, err := checkedSub(meta.TotalStaked, amount, ErrInsufficientStake)
	if err != nil {
		return err
	}
	acct.StakedBalance = newStaked
	acct.Balance = newBalance
	meta.TotalStaked = newTotalStaked
	if err := e.store.PutAccount(account, acct); err != nil {
		return err
	}
	if err := e.store.PutMeta(meta); err != nil {
		return err
	}
	e.emit(events.Unstaked{Account: account, Amount: cloneAmount(amount), Staked: cloneAmount(newStaked)})
	return nil
}

// --- Transfers & allowances ---

// Transfer moves amount of free balance from the caller to the recipient.
func (e *Engine) Transfer(caller, to string, amount *big.Int) error {
	return e.TransferFrom(caller, caller, to, amount)
}

// TransferFrom moves amount of free balance from owner to the recipient.
// When the caller is not the owner it spends the escrow allowance the owner
// granted. Staked balances never move through transfers.
func (e *Engine) TransferFrom(caller, owner, to string, amount *big.Int) error {
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
	account, err := e.store.Account(owner)
	if err != nil {
		return err
	}
	newBalance, err := checkedSub(account.Balance, amount, ErrInsufficientBalance)
	if err != nil {
		return err
	}
	escrow := ""
	if caller != owner {
		allowance := account.Allowance(caller)
		if allowance.Cmp(amount) < 0 {
			return ErrInsufficientAllowance
		}
		account.SetAllowance(caller, new(big.Int).Sub(allowance, amount))
		escrow = caller
	}
	account.Balance = newBalance
	if err := e.store.PutAccount(owner, account); err != nil {
		return err
	}
	recipient, err := e.store.Account(to)
	if err != nil {
		return err
	}
	recipient.Balance, err = checkedAdd(recipient.Balance, amount)
	if err != nil {
		return err
	}
	if err := e.store.PutAccount(to, recipient); err != nil {
		return err
	}
	e.emit(events.Transferred{From: owner, To: to, Escrow: escrow, Amount: cloneAmount(amount)})
	return nil
}

// SetAllowance grants the escrow account a spending limit over the caller's
// free balance. A zero allowance removes the entry.
func (e *Engine) SetAllowance(caller, escrow string, allowance *big.Int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.store == nil {
		return errNilState
	}
	if escrow == caller {
		return ErrSelfAllowance
	}
	if err := checkRange(allowance); err != nil {
		return err
	}
	account, err := e.store.Account(caller)
	if err != nil {
		return err
	}
	account.SetAllowance(escrow, allowance)
	return e.store.PutAccount(caller, account)
}

// --- Synthetic assets ---

// SellAssetToAUSD debits the caller's synthetic asset balance and dispatches
// a stablecoin mint of floor(assetAmount * assetPrice / priceScale). The
// local debit commits before the remote call.
func (e *Engine) SellAssetToAUSD(caller, asset string, assetAmount *big.Int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.peer == nil {
		return errNilPeer
	}
	assetPrice, err := e.assetPrice(asset)
	if err != nil {
		return err
	}
	if err := checkRange(assetAmount); err != nil {
		return err
	}
	account, err := e.store.Account(caller)
	if err != nil {
		return err
	}
	balance := account.AssetBalance(asset)
	newBalance, err := checkedSub(balance, assetAmount, ErrInsufficientBalance)
	if err != nil {
		return err
	}
	account.SetAssetBalance(asset, newBalance)
	if err := e.store.PutAccount(caller, account); err != nil {
		return err
	}
	e.emit(events.AssetDebited{Account: caller, Asset: asset, Amount: cloneAmount(assetAmount)})
	mintAmount := new(big.Int).Mul(assetAmount, assetPrice)
	mintAmount.Quo(mintAmount, priceScale)
	e.peer.Mint(caller, mintAmount)
	return nil
}

// BuyAssetWithAUSD dispatches a stablecoin burn worth the asset amount at the
// oracle price. The asset is credited only when the peer ledger confirms the
// burn through BuyAssetCallback.
func (e *Engine) BuyAssetWithAUSD(caller, asset string, assetAmount *big.Int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.peer == nil {
		return errNilPeer
	}
	assetPrice, err := e.assetPrice(asset)
	if err != nil {
		return err
	}
	if err := checkRange(assetAmount); err != nil {
		return err
	}
	burnAmount := new(big.Int).Mul(assetAmount, assetPrice)
	burnAmount.Quo(burnAmount, priceScale)
	e.peer.BurnToBuyAsset(caller, burnAmount, asset, assetAmount)
	return nil
}

// BuyAssetCallback credits a synthetic asset purchase. It is the settlement
// callback of the burn-to-buy-asset flow, restricted to the paired ledger.
func (e *Engine) BuyAssetCallback(caller, account, asset string, assetAmount *big.Int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	meta, err := e.loadMeta()
	if err != nil {
		return err
	}
	if caller != meta.Peer {
		return fmt.Errorf("%w: only the stablecoin ledger may credit assets", ErrUnauthorized)
	}
	if err := checkRange(assetAmount); err != nil {
		return err
	}
	acct, err := e.store.Account(account)
	if err != nil {
		return err
	}
	newBalance, err := checkedAdd(acct.AssetBalance(asset), assetAmount)
	if err != nil {
		return err
	}
	acct.SetAssetBalance(asset, newBalance)
	if err := e.store.PutAccount(account, acct); err != nil {
		return err
	}
	e.emit(events.AssetCredited{Account: account, Asset: asset, Amount: cloneAmount(assetAmount)})
	return nil
}

// --- Native currency deposits ---

// BuyCollateralWithNative converts a native currency deposit into collateral
// tokens at the oracle cross rate, served from the owner's free balance.
func (e *Engine) BuyCollateralWithNative(caller string, deposit *big.Int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := checkRange(deposit); err != nil {
		return err
	}
	if deposit.Sign() == 0 {
		return fmt.Errorf("%w: can't buy with a 0 deposit", ErrZeroAmount)
	}
	meta, err := e.loadMeta()
	if err != nil {
		return err
	}
	nativePrice, err := e.assetPrice(NativeAssetName)
	if err != nil {
		return err
	}
	if err := requirePrice(meta.Price); err != nil {
		return err
	}
	amount := new(big.Int).Mul(deposit, nativePrice)
	amount.Quo(amount, meta.Price)
	return e.moveFromOwner(meta.Owner, caller, amount)
}

// BuyStableWithNative converts a native currency deposit into stablecoin by
// dispatching a mint at the native asset's oracle price.
func (e *Engine) BuyStableWithNative(caller string, deposit *big.Int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.peer == nil {
		return errNilPeer
	}
	if err := checkRange(deposit); err != nil {
		return err
	}
	if deposit.Sign() == 0 {
		return fmt.Errorf("%w: can't buy with a 0 deposit", ErrZeroAmount)
	}
	nativePrice, err := e.assetPrice(NativeAssetName)
	if err != nil {
		return err
	}
	amount := new(big.Int).Mul(deposit, nativePrice)
	amount.Quo(amount, priceScale)
	e.peer.BuyAUSD(caller, amount)
	return nil
}

// --- Owner-inventory exchange ---

// ExchangeCollateralToAUSD sells collateral into the owner inventory at the
// oracle price, charging the exchange fee, and dispatches the stablecoin
// credit. The collateral moves before the remote call.
func (e *Engine) ExchangeCollateralToAUSD(caller string, amount *big.Int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.peer == nil {
		return errNilPeer
	}
	meta, err := e.loadMeta()
	if err != nil {
		return err
	}
	if err := requirePrice(meta.Price); err != nil {
		return err
	}
	if err := checkRange(amount); err != nil {
		return err
	}
	if caller != meta.Owner {
		account, err := e.store.Account(caller)
		if err != nil {
			return err
		}
		newBalance, err := checkedSub(account.Balance, amount, ErrInsufficientBalance)
		if err != nil {
			return err
		}
		owner, err := e.store.Account(meta.Owner)
		if err != nil {
			return err
		}
		owner.Balance, err = checkedAdd(owner.Balance, amount)
		if err != nil {
			return err
		}
		account.Balance = newBalance
		if err := e.store.PutAccount(caller, account); err != nil {
			return err
		}
		if err := e.store.PutAccount(meta.Owner, owner); err != nil {
			return err
		}
		e.emit(events.Transferred{From: caller, To: meta.Owner, Amount: cloneAmount(amount)})
	}
	ausdAmount := new(big.Int).Mul(amount, meta.Price)
	ausdAmount.Mul(ausdAmount, exchangeFeeNum)
	ausdAmount.Quo(ausdAmount, new(big.Int).Mul(priceScale, exchangeFeeDen))
	e.peer.BuyAUSD(caller, ausdAmount)
	return nil
}

// ExchangeAUSDToCollateral buys collateral from the owner inventory with
// stablecoin at the oracle price, charging the exchange fee. The collateral
// credit commits locally before the stablecoin burn is dispatched.
func (e *Engine) ExchangeAUSDToCollateral(caller string, ausdAmount *big.Int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.peer == nil {
		return errNilPeer
	}
	meta, err := e.loadMeta()
	if err != nil {
		return err
	}
	if err := requirePrice(meta.Price); err != nil {
		return err
	}
	if err := checkRange(ausdAmount); err != nil {
		return err
	}
	amount := new(big.Int).Mul(ausdAmount, exchangeFeeNum)
	amount.Mul(amount, priceScale)
	amount.Quo(amount, new(big.Int).Mul(exchangeFeeDen, meta.Price))
	if err := e.moveFromOwner(meta.Owner, caller, amount); err != nil {
		return err
	}
	e.peer.SellAUSD(caller, cloneAmount(ausdAmount))
	return nil
}

// --- Account lifecycle ---

// RegisterAccount creates an empty account record.
func (e *Engine) RegisterAccount(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.store == nil {
		return errNilState
	}
	ok, err := e.store.HasAccount(id)
	if err != nil {
		return err
	}
	if ok {
		return fmt.Errorf("collateral: account %s already registered", id)
	}
	return e.store.PutAccount(id, NewAccount())
}

// UnregisterAccount removes the caller's account. An account holding tokens
// may only be removed with force; the remaining balance is deducted from the
// total supply.
func (e *Engine) UnregisterAccount(caller string, force bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	meta, err := e.loadMeta()
	if err != nil {
		return err
	}
	ok, err := e.store.HasAccount(caller)
	if err != nil {
		return err
	}
	if !ok {
		e.log.Info("account not registered", "account", caller)
		return nil
	}
	account, err := e.store.Account(caller)
	if err != nil {
		return err
	}
	total := account.TotalBalance()
	if total.Sign() > 0 && !force {
		return ErrAccountBalancePositive
	}
	meta.TotalSupply, err = checkedSub(meta.TotalSupply, total, ErrAmountOverflow)
	if err != nil {
		return err
	}
	meta.TotalStaked, err = checkedSub(meta.TotalStaked, account.StakedBalance, ErrAmountOverflow)
	if err != nil {
		return err
	}
	if err := e.store.RemoveAccount(caller); err != nil {
		return err
	}
	return e.store.PutMeta(meta)
}

// --- Queries ---

// TotalSupply returns the collateral token supply.
func (e *Engine) TotalSupply() (*big.Int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	meta, err := e.loadMeta()
	if err != nil {
		return nil, err
	}
	return meta.TotalSupply, nil
}

// TotalStaked returns the sum of all staked balances.
func (e *Engine) TotalStaked() (*big.Int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	meta, err := e.loadMeta()
	if err != nil {
		return nil, err
	}
	return meta.TotalStaked, nil
}

// FreeBalance returns the unstaked balance of the account.
func (e *Engine) FreeBalance(id string) (*big.Int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	account, err := e.store.Account(id)
	if err != nil {
		return nil, err
	}
	return account.Balance, nil
}

// StakedBalance returns the staked balance of the account.
func (e *Engine) StakedBalance(id string) (*big.Int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	account, err := e.store.Account(id)
	if err != nil {
		return nil, err
	}
	return account.StakedBalance, nil
}

// TotalBalance returns free plus staked balance of the account.
func (e *Engine) TotalBalance(id string) (*big.Int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	account, err := e.store.Account(id)
	if err != nil {
		return nil, err
	}
	return account.TotalBalance(), nil
}

// Allowance returns the allowance owner granted to escrow.
func (e *Engine) Allowance(owner, escrow string) (*big.Int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	account, err := e.store.Account(owner)
	if err != nil {
		return nil, err
	}
	return account.Allowance(escrow), nil
}

// Price returns the current oracle price, zero when never submitted.
func (e *Engine) Price() (*big.Int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	meta, err := e.loadMeta()
	if err != nil {
		return nil, err
	}
	return meta.Price, nil
}

// AssetPrice returns the oracle price of the named asset, zero when unset.
func (e *Engine) AssetPrice(asset string) (*big.Int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.AssetPrice(asset)
}

// AssetBalance returns the synthetic asset balance of the account.
func (e *Engine) AssetBalance(id, asset string) (*big.Int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	account, err := e.store.Account(id)
	if err != nil {
		return nil, err
	}
	return account.AssetBalance(asset), nil
}

// RewardPaidAt returns the account's reward checkpoint.
func (e *Engine) RewardPaidAt(id string) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.RewardPaidAt(id)
}

// Owner returns the ledger owner account identifier.
func (e *Engine) Owner() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	meta, err := e.loadMeta()
	if err != nil {
		return "", err
	}
	return meta.Owner, nil
}

// --- helpers ---

func (e *Engine) loadMeta() (*Meta, error) {
	if e.store == nil {
		return nil, errNilState
	}
	return e.store.Meta()
}

func (e *Engine) assetPrice(asset string) (*big.Int, error) {
	if e.store == nil {
		return nil, errNilState
	}
	price, err := e.store.AssetPrice(asset)
	if err != nil {
		return nil, err
	}
	if err := requirePrice(price); err != nil {
		return nil, fmt.Errorf("%w: asset %s", ErrPriceMissing, asset)
	}
	return price, nil
}

func (e *Engine) moveFromOwner(owner, to string, amount *big.Int) error {
	if owner == to {
		return nil
	}
	ownerAcct, err := e.store.Account(owner)
	if err != nil {
		return err
	}
	newOwnerBalance, err := checkedSub(ownerAcct.Balance, amount, ErrInsufficientBalance)
	if err != nil {
		return err
	}
	recipient, err := e.store.Account(to)
	if err != nil {
		return err
	}
	newBalance, err := checkedAdd(recipient.Balance, amount)
	if err != nil {
		return err
	}
	ownerAcct.Balance = newOwnerBalance
	recipient.Balance = newBalance
	if err := e.store.PutAccount(owner, ownerAcct); err != nil {
		return err
	}
	if err := e.store.PutAccount(to, recipient); err != nil {
		return err
	}
	e.emit(events.Transferred{From: owner, To: to, Amount: cloneAmount(amount)})
	return nil
}

func requirePrice(price *big.Int) error {
	if price == nil || price.Sign() == 0 {
		return ErrPriceMissing
	}
	return nil
}
