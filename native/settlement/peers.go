package settlement

import "math/big"

// StableLedger is the synchronous call surface the stablecoin ledger exposes
// to settlement. The concrete implementation may be the in-process engine or
// a transport stub; the dispatcher depends only on this interface.
type StableLedger interface {
	Mint(caller, account string, amount *big.Int) (*big.Int, error)
	BurnToUnstake(caller, account string, burnAmount, unstakeAmount *big.Int) error
	BurnToBuyAsset(caller, account string, burnAmount *big.Int, asset string, assetAmount *big.Int) error
	BuyAUSD(caller, account string, amount *big.Int) error
	SellAUSD(caller, account string, amount *big.Int) error
}

// CollateralLedger is the synchronous callback surface of the collateral
// ledger consumed by the stablecoin side of the protocol.
type CollateralLedger interface {
	Unstake(caller, account string, amount *big.Int) error
	BuyAssetCallback(caller, account, asset string, amount *big.Int) error
}

// AsyncStable queues calls to the stablecoin ledger under the collateral
// ledger's identity. It satisfies the collateral engine's dispatch
// capability.
type AsyncStable struct {
	d      *Dispatcher
	sender string
	target string
	ledger StableLedger
}

// NewAsyncStable binds the stablecoin ledger behind the dispatcher. sender is
// the collateral ledger identity calls are delivered under; target names the
// stablecoin ledger in logs and metrics.
func NewAsyncStable(d *Dispatcher, sender, target string, ledger StableLedger) *AsyncStable {
	return &AsyncStable{d: d, sender: sender, target: target, ledger: ledger}
}

func (a *AsyncStable) Mint(account string, amount *big.Int) {
	amt := clone(amount)
	a.d.enqueue(Call{Sender: a.sender, Target: a.target, Method: "mint", do: func() error {
		_, err := a.ledger.Mint(a.sender, account, amt)
		return err
	}})
}

func (a *AsyncStable) BurnToUnstake(account string, burnAmount, unstakeAmount *big.Int) {
	burn, unstake := clone(burnAmount), clone(unstakeAmount)
	a.d.enqueue(Call{Sender: a.sender, Target: a.target, Method: "burn_to_unstake", do: func() error {
		return a.ledger.BurnToUnstake(a.sender, account, burn, unstake)
	}})
}

func (a *AsyncStable) BurnToBuyAsset(account string, burnAmount *big.Int, asset string, assetAmount *big.Int) {
	burn, amt := clone(burnAmount), clone(assetAmount)
	a.d.enqueue(Call{Sender: a.sender, Target: a.target, Method: "burn_to_buy_asset", do: func() error {
		return a.ledger.BurnToBuyAsset(a.sender, account, burn, asset, amt)
	}})
}

func (a *AsyncStable) BuyAUSD(account string, amount *big.Int) {
	amt := clone(amount)
	a.d.enqueue(Call{Sender: a.sender, Target: a.target, Method: "buy_ausd", do: func() error {
		return a.ledger.BuyAUSD(a.sender, account, amt)
	}})
}

func (a *AsyncStable) SellAUSD(account string, amount *big.Int) {
	amt := clone(amount)
	a.d.enqueue(Call{Sender: a.sender, Target: a.target, Method: "sell_ausd", do: func() error {
		return a.ledger.SellAUSD(a.sender, account, amt)
	}})
}

// AsyncCollateral queues callbacks to the collateral ledger under the
// stablecoin ledger's identity. It satisfies the stablecoin engine's dispatch
// capability.
type AsyncCollateral struct {
	d      *Dispatcher
	sender string
	target string
	ledger CollateralLedger
}

// NewAsyncCollateral binds the collateral ledger behind the dispatcher.
func NewAsyncCollateral(d *Dispatcher, sender, target string, ledger CollateralLedger) *AsyncCollateral {
	return &AsyncCollateral{d: d, sender: sender, target: target, ledger: ledger}
}

func (a *AsyncCollateral) Unstake(account string, amount *big.Int) {
	amt := clone(amount)
	a.d.enqueue(Call{Sender: a.sender, Target: a.target, Method: "unstake", do: func() error {
		return a.ledger.Unstake(a.sender, account, amt)
	}})
}

func (a *AsyncCollateral) BuyAssetCallback(account, asset string, amount *big.Int) {
	amt := clone(amount)
	a.d.enqueue(Call{Sender: a.sender, Target: a.target, Method: "buy_asset_callback", do: func() error {
		return a.ledger.BuyAssetCallback(a.sender, account, asset, amt)
	}})
}

func clone(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(v)
}
