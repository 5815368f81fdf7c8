package collateral

import "math/big"

// Account holds the per-account ledger record. Balance is freely transferable;
// StakedBalance backs minted stablecoin and never moves through transfers.
type Account struct {
	Balance       *big.Int
	StakedBalance *big.Int
	Allowances    map[string]*big.Int
	Assets        map[string]*big.Int
}

// NewAccount returns an empty account with zeroed balances. Accounts are
// created lazily the first time an operation references them.
func NewAccount() *Account {
	return &Account{
		Balance:       big.NewInt(0),
		StakedBalance: big.NewInt(0),
		Allowances:    make(map[string]*big.Int),
		Assets:        make(map[string]*big.Int),
	}
}

func ensureAccountDefaults(a *Account) *Account {
	if a == nil {
		return NewAccount()
	}
	if a.Balance == nil {
		a.Balance = big.NewInt(0)
	}
	if a.StakedBalance == nil {
		a.StakedBalance = big.NewInt(0)
	}
	if a.Allowances == nil {
		a.Allowances = make(map[string]*big.Int)
	}
	if a.Assets == nil {
		a.Assets = make(map[string]*big.Int)
	}
	return a
}

// SetAllowance stores the escrow allowance, keeping the map sparse: a zero
// allowance removes the entry instead of storing an explicit zero.
func (a *Account) SetAllowance(escrow string, allowance *big.Int) {
	if allowance != nil && allowance.Sign() > 0 {
		a.Allowances[escrow] = cloneAmount(allowance)
	} else {
		delete(a.Allowances, escrow)
	}
}

// Allowance returns the allowance granted to the escrow account, zero when no
// entry exists.
func (a *Account) Allowance(escrow string) *big.Int {
	if v, ok := a.Allowances[escrow]; ok {
		return cloneAmount(v)
	}
	return big.NewInt(0)
}

// SetAssetBalance stores a synthetic asset balance, removing zero entries.
func (a *Account) SetAssetBalance(asset string, balance *big.Int) {
	if balance != nil && balance.Sign() > 0 {
		a.Assets[asset] = cloneAmount(balance)
	} else {
		delete(a.Assets, asset)
	}
}

// AssetBalance returns the balance held for the named synthetic asset.
func (a *Account) AssetBalance(asset string) *big.Int {
	if v, ok := a.Assets[asset]; ok {
		return cloneAmount(v)
	}
	return big.NewInt(0)
}

// TotalBalance is the sum of the free and staked balances.
func (a *Account) TotalBalance() *big.Int {
	return new(big.Int).Add(a.Balance, a.StakedBalance)
}
