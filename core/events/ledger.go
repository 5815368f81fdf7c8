package events

import "math/big"

const (
	// TypePriceSubmitted is emitted when the oracle owner overwrites the
	// collateral token price.
	TypePriceSubmitted = "oracle.priceSubmitted"
	// TypeAssetPriceSubmitted is emitted when a named asset price is upserted.
	TypeAssetPriceSubmitted = "oracle.assetPriceSubmitted"
	// TypeStaked captures collateral moving from the free to the staked balance.
	TypeStaked = "collateral.staked"
	// TypeUnstaked captures collateral unlocked by a settlement callback.
	TypeUnstaked = "collateral.unstaked"
	// TypeRewardAccrued is emitted when compounded staking reward is credited.
	TypeRewardAccrued = "collateral.rewardAccrued"
	// TypeTransferred captures a free-balance transfer between accounts.
	TypeTransferred = "collateral.transferred"
	// TypeAssetCredited is emitted when a synthetic asset purchase settles.
	TypeAssetCredited = "collateral.assetCredited"
	// TypeAssetDebited is emitted when a synthetic asset is sold for stablecoin.
	TypeAssetDebited = "collateral.assetDebited"
	// TypeStableMinted is emitted by the stablecoin ledger on every mint.
	TypeStableMinted = "stable.minted"
	// TypeStableBurned is emitted by the stablecoin ledger on every burn.
	TypeStableBurned = "stable.burned"
	// TypeSettlementDispatched marks a cross-ledger call entering the queue.
	TypeSettlementDispatched = "settlement.dispatched"
	// TypeSettlementFailed marks a cross-ledger call whose remote leg failed.
	// The local leg, when already applied, stays applied.
	TypeSettlementFailed = "settlement.failed"
)

// PriceSubmitted records an oracle price overwrite.
type PriceSubmitted struct {
	Price *big.Int
}

func (PriceSubmitted) EventType() string { return TypePriceSubmitted }

// AssetPriceSubmitted records a named asset price upsert.
type AssetPriceSubmitted struct {
	Asset string
	Price *big.Int
}

func (AssetPriceSubmitted) EventType() string { return TypeAssetPriceSubmitted }

// Staked captures the balance movement performed by a stake.
type Staked struct {
	Account string
	Amount  *big.Int
	Staked  *big.Int
}

func (Staked) EventType() string { return TypeStaked }

// Unstaked captures collateral released back to the free balance.
type Unstaked struct {
	Account string
	Amount  *big.Int
	Staked  *big.Int
}

func (Unstaked) EventType() string { return TypeUnstaked }

// RewardAccrued captures an inflationary staking reward issuance.
type RewardAccrued struct {
	Account   string
	Reward    *big.Int
	NewStaked *big.Int
	PaidAt    uint64
}

func (RewardAccrued) EventType() string { return TypeRewardAccrued }

// Transferred captures a free-balance transfer, escrowed or direct.
type Transferred struct {
	From   string
	To     string
	Escrow string
	Amount *big.Int
}

func (Transferred) EventType() string { return TypeTransferred }

// AssetCredited records a synthetic asset balance increase.
type AssetCredited struct {
	Account string
	Asset   string
	Amount  *big.Int
}

func (AssetCredited) EventType() string { return TypeAssetCredited }

// AssetDebited records a synthetic asset balance decrease.
type AssetDebited struct {
	Account string
	Asset   string
	Amount  *big.Int
}

func (AssetDebited) EventType() string { return TypeAssetDebited }

// StableMinted records stablecoin supply entering circulation.
type StableMinted struct {
	Account string
	Amount  *big.Int
}

func (StableMinted) EventType() string { return TypeStableMinted }

// StableBurned records stablecoin supply leaving circulation.
type StableBurned struct {
	Account string
	Amount  *big.Int
}

func (StableBurned) EventType() string { return TypeStableBurned }

// SettlementDispatched marks a queued cross-ledger call.
type SettlementDispatched struct {
	Sender string
	Target string
	Method string
}

func (SettlementDispatched) EventType() string { return TypeSettlementDispatched }

// SettlementFailed marks a cross-ledger call whose delivery returned an error.
type SettlementFailed struct {
	Sender string
	Target string
	Method string
	Reason string
}

func (SettlementFailed) EventType() string { return TypeSettlementFailed }
