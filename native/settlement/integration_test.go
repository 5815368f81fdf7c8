package settlement

import (
	"math/big"
	"testing"

	"artledger/native/collateral"
	"artledger/native/stable"
	"artledger/storage"
)

const (
	owner          = "owner"
	collateralName = "art"
	stableName     = "ausd"
)

// wireLedgers builds both engines over one database and binds them through a
// dispatcher, mirroring the daemon wiring.
func wireLedgers(t *testing.T) (*collateral.Engine, *stable.Engine, *Dispatcher, *uint64) {
	t.Helper()
	db := storage.NewMemDB()
	collateralEngine := collateral.NewEngine(collateral.NewStore(db))
	stableEngine := stable.NewEngine(stable.NewStore(db))

	d := NewDispatcher()
	collateralEngine.SetPeer(NewAsyncStable(d, collateralName, stableName, stableEngine))
	stableEngine.SetPeer(NewAsyncCollateral(d, stableName, collateralName, collateralEngine))

	now := new(uint64)
	*now = 1_700_000_000
	collateralEngine.SetNowFunc(func() uint64 { return *now })

	if err := collateralEngine.Initialize(owner, stableName, big.NewInt(1_000_000_000)); err != nil {
		t.Fatalf("initialize collateral: %v", err)
	}
	if err := stableEngine.Initialize(owner, collateralName); err != nil {
		t.Fatalf("initialize stable: %v", err)
	}
	if err := collateralEngine.SubmitPrice(owner, big.NewInt(2_000_000_000)); err != nil {
		t.Fatalf("submit price: %v", err)
	}
	return collateralEngine, stableEngine, d, now
}

func TestStakeMintBurnRoundTrip(t *testing.T) {
	collateralEngine, stableEngine, d, _ := wireLedgers(t)
	if err := collateralEngine.Transfer(owner, "alice", big.NewInt(50_000)); err != nil {
		t.Fatalf("fund: %v", err)
	}

	if err := collateralEngine.StakeAndMint("alice", big.NewInt(50_000)); err != nil {
		t.Fatalf("stake and mint: %v", err)
	}
	d.Drain()

	ausd, err := stableEngine.BalanceOf("alice")
	if err != nil {
		t.Fatalf("stable balance: %v", err)
	}
	if ausd.Int64() != 200_000 {
		t.Fatalf("minted: got %s want 200000", ausd)
	}

	// Burn everything back; the unstake callback releases the stake.
	if err := collateralEngine.BurnToUnstake("alice", big.NewInt(50_000)); err != nil {
		t.Fatalf("burn to unstake: %v", err)
	}
	d.Drain()

	ausd, _ = stableEngine.BalanceOf("alice")
	if ausd.Sign() != 0 {
		t.Fatalf("stablecoin not fully burned: %s", ausd)
	}
	supply, _ := stableEngine.TotalSupply()
	if supply.Sign() != 0 {
		t.Fatalf("stable supply: got %s want 0", supply)
	}
	stakedBalance, err := collateralEngine.StakedBalance("alice")
	if err != nil {
		t.Fatalf("staked balance: %v", err)
	}
	if stakedBalance.Sign() != 0 {
		t.Fatalf("stake not released: %s", stakedBalance)
	}
	free, _ := collateralEngine.FreeBalance("alice")
	if free.Int64() != 50_000 {
		t.Fatalf("free balance: got %s want 50000", free)
	}
}

func TestFailedBurnLeavesStakeLocked(t *testing.T) {
	collateralEngine, stableEngine, d, _ := wireLedgers(t)
	if err := collateralEngine.Transfer(owner, "alice", big.NewInt(50_000)); err != nil {
		t.Fatalf("fund: %v", err)
	}
	if err := collateralEngine.StakeAndMint("alice", big.NewInt(50_000)); err != nil {
		t.Fatalf("stake and mint: %v", err)
	}
	d.Drain()

	// Give away the minted stablecoin so the burn cannot cover the unstake.
	if err := stableEngine.Transfer("alice", "bob", big.NewInt(150_000)); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if err := collateralEngine.BurnToUnstake("alice", big.NewInt(50_000)); err != nil {
		t.Fatalf("burn to unstake dispatch: %v", err)
	}
	d.Drain()

	// The delivery failed on the stablecoin side: no burn, no unstake.
	ausd, _ := stableEngine.BalanceOf("alice")
	if ausd.Int64() != 50_000 {
		t.Fatalf("alice stablecoin: got %s want 50000", ausd)
	}
	stakedBalance, _ := collateralEngine.StakedBalance("alice")
	if stakedBalance.Int64() != 50_000 {
		t.Fatalf("stake must stay locked: got %s", stakedBalance)
	}
}

func TestAssetPurchaseSettlesThroughBothLedgers(t *testing.T) {
	collateralEngine, stableEngine, d, _ := wireLedgers(t)
	if err := collateralEngine.SubmitAssetPrice(owner, "aBTC", big.NewInt(3_000_000_000_000)); err != nil {
		t.Fatalf("asset price: %v", err)
	}
	if err := collateralEngine.Transfer(owner, "alice", big.NewInt(50_000)); err != nil {
		t.Fatalf("fund: %v", err)
	}
	if err := collateralEngine.StakeAndMint("alice", big.NewInt(50_000)); err != nil {
		t.Fatalf("stake and mint: %v", err)
	}
	d.Drain()

	if err := collateralEngine.BuyAssetWithAUSD("alice", "aBTC", big.NewInt(2)); err != nil {
		t.Fatalf("buy asset: %v", err)
	}
	d.Drain()

	held, err := collateralEngine.AssetBalance("alice", "aBTC")
	if err != nil {
		t.Fatalf("asset balance: %v", err)
	}
	if held.Int64() != 2 {
		t.Fatalf("aBTC: got %s want 2", held)
	}
	ausd, _ := stableEngine.BalanceOf("alice")
	if ausd.Int64() != 140_000 {
		t.Fatalf("stablecoin after purchase: got %s want 140000", ausd)
	}

	if err := collateralEngine.SellAssetToAUSD("alice", "aBTC", big.NewInt(2)); err != nil {
		t.Fatalf("sell asset: %v", err)
	}
	d.Drain()

	held, _ = collateralEngine.AssetBalance("alice", "aBTC")
	if held.Sign() != 0 {
		t.Fatalf("aBTC after sale: got %s want 0", held)
	}
	ausd, _ = stableEngine.BalanceOf("alice")
	if ausd.Int64() != 200_000 {
		t.Fatalf("stablecoin after sale: got %s want 200000", ausd)
	}
}

func TestExchangeFlowsSettle(t *testing.T) {
	collateralEngine, stableEngine, d, _ := wireLedgers(t)
	if err := collateralEngine.Transfer(owner, "alice", big.NewInt(1000)); err != nil {
		t.Fatalf("fund: %v", err)
	}
	if err := collateralEngine.ExchangeCollateralToAUSD("alice", big.NewInt(1000)); err != nil {
		t.Fatalf("exchange: %v", err)
	}
	d.Drain()

	ausd, _ := stableEngine.BalanceOf("alice")
	if ausd.Int64() != 19_940 {
		t.Fatalf("stablecoin: got %s want 19940", ausd)
	}

	if err := collateralEngine.ExchangeAUSDToCollateral("alice", big.NewInt(19_940)); err != nil {
		t.Fatalf("exchange back: %v", err)
	}
	d.Drain()

	ausd, _ = stableEngine.BalanceOf("alice")
	if ausd.Sign() != 0 {
		t.Fatalf("stablecoin after round trip: got %s want 0", ausd)
	}
	free, _ := collateralEngine.FreeBalance("alice")
	// 19940 * 997 / (1000 * 20) = 994 collateral back after both fee legs.
	if free.Int64() != 994 {
		t.Fatalf("collateral after round trip: got %s want 994", free)
	}
}
