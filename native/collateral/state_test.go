package collateral

import (
	"math/big"
	"testing"

	"artledger/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(storage.NewMemDB())
}

func TestMetaRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ok, err := store.Initialized()
	if err != nil {
		t.Fatalf("initialized: %v", err)
	}
	if ok {
		t.Fatalf("fresh store must not be initialized")
	}
	if _, err := store.Meta(); err != ErrNotInitialized {
		t.Fatalf("meta on fresh store: got %v want %v", err, ErrNotInitialized)
	}
	meta := &Meta{
		Owner:                "owner",
		Peer:                 "ausd",
		TotalSupply:          big.NewInt(1_000_000),
		TotalStaked:          big.NewInt(42),
		Price:                big.NewInt(2_000_000_000),
		StakingRewardEnabled: 1_700_000_000,
	}
	if err := store.PutMeta(meta); err != nil {
		t.Fatalf("put meta: %v", err)
	}
	loaded, err := store.Meta()
	if err != nil {
		t.Fatalf("meta: %v", err)
	}
	if loaded.Owner != meta.Owner || loaded.Peer != meta.Peer {
		t.Fatalf("authorities: got %s/%s", loaded.Owner, loaded.Peer)
	}
	if loaded.TotalSupply.Cmp(meta.TotalSupply) != 0 || loaded.TotalStaked.Cmp(meta.TotalStaked) != 0 {
		t.Fatalf("counters: got %s/%s", loaded.TotalSupply, loaded.TotalStaked)
	}
	if loaded.Price.Cmp(meta.Price) != 0 || loaded.StakingRewardEnabled != meta.StakingRewardEnabled {
		t.Fatalf("price/epoch: got %s/%d", loaded.Price, loaded.StakingRewardEnabled)
	}
}

func TestAccountRoundTripKeepsSparseMaps(t *testing.T) {
	store := newTestStore(t)
	account := NewAccount()
	account.Balance = big.NewInt(500)
	account.StakedBalance = big.NewInt(250)
	account.SetAllowance("broker", big.NewInt(100))
	account.SetAllowance("other", big.NewInt(7))
	account.SetAssetBalance("aBTC", big.NewInt(3))
	if err := store.PutAccount("alice", account); err != nil {
		t.Fatalf("put account: %v", err)
	}
	loaded, err := store.Account("alice")
	if err != nil {
		t.Fatalf("account: %v", err)
	}
	if loaded.Balance.Int64() != 500 || loaded.StakedBalance.Int64() != 250 {
		t.Fatalf("balances: got %s/%s", loaded.Balance, loaded.StakedBalance)
	}
	if loaded.Allowance("broker").Int64() != 100 || loaded.Allowance("other").Int64() != 7 {
		t.Fatalf("allowances: got %s/%s", loaded.Allowance("broker"), loaded.Allowance("other"))
	}
	if loaded.AssetBalance("aBTC").Int64() != 3 {
		t.Fatalf("asset: got %s", loaded.AssetBalance("aBTC"))
	}

	// Dropping an allowance to zero removes the entry from the stored form.
	loaded.SetAllowance("broker", big.NewInt(0))
	if err := store.PutAccount("alice", loaded); err != nil {
		t.Fatalf("put account: %v", err)
	}
	reloaded, err := store.Account("alice")
	if err != nil {
		t.Fatalf("account: %v", err)
	}
	if _, ok := reloaded.Allowances["broker"]; ok {
		t.Fatalf("zero allowance must not persist")
	}
	if reloaded.Allowance("broker").Sign() != 0 {
		t.Fatalf("missing allowance must read as zero")
	}
}

func TestAccountMissingReadsAsZeroed(t *testing.T) {
	store := newTestStore(t)
	account, err := store.Account("nobody")
	if err != nil {
		t.Fatalf("account: %v", err)
	}
	if account.Balance.Sign() != 0 || account.StakedBalance.Sign() != 0 {
		t.Fatalf("zeroed account expected, got %s/%s", account.Balance, account.StakedBalance)
	}
	ok, err := store.HasAccount("nobody")
	if err != nil {
		t.Fatalf("has account: %v", err)
	}
	if ok {
		t.Fatalf("reading must not create the record")
	}
}

func TestRewardCheckpointDefaultsToEnableEpoch(t *testing.T) {
	store := newTestStore(t)
	meta := &Meta{
		Owner:                "owner",
		Peer:                 "ausd",
		TotalSupply:          big.NewInt(0),
		TotalStaked:          big.NewInt(0),
		Price:                big.NewInt(0),
		StakingRewardEnabled: 1_600_000_000,
	}
	if err := store.PutMeta(meta); err != nil {
		t.Fatalf("put meta: %v", err)
	}
	paidAt, err := store.RewardPaidAt("alice")
	if err != nil {
		t.Fatalf("reward paid at: %v", err)
	}
	if paidAt != 1_600_000_000 {
		t.Fatalf("default checkpoint: got %d", paidAt)
	}
	if err := store.PutRewardPaidAt("alice", 1_600_086_400); err != nil {
		t.Fatalf("put checkpoint: %v", err)
	}
	paidAt, err = store.RewardPaidAt("alice")
	if err != nil {
		t.Fatalf("reward paid at: %v", err)
	}
	if paidAt != 1_600_086_400 {
		t.Fatalf("checkpoint: got %d", paidAt)
	}
}

func TestRemoveAccountDropsCheckpoint(t *testing.T) {
	store := newTestStore(t)
	meta := &Meta{Owner: "owner", Peer: "ausd", TotalSupply: big.NewInt(0), TotalStaked: big.NewInt(0), Price: big.NewInt(0), StakingRewardEnabled: 100}
	if err := store.PutMeta(meta); err != nil {
		t.Fatalf("put meta: %v", err)
	}
	if err := store.PutAccount("alice", NewAccount()); err != nil {
		t.Fatalf("put account: %v", err)
	}
	if err := store.PutRewardPaidAt("alice", 999); err != nil {
		t.Fatalf("put checkpoint: %v", err)
	}
	if err := store.RemoveAccount("alice"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	ok, err := store.HasAccount("alice")
	if err != nil {
		t.Fatalf("has account: %v", err)
	}
	if ok {
		t.Fatalf("account record must be gone")
	}
	paidAt, err := store.RewardPaidAt("alice")
	if err != nil {
		t.Fatalf("reward paid at: %v", err)
	}
	if paidAt != 100 {
		t.Fatalf("checkpoint must fall back to the enable epoch, got %d", paidAt)
	}
}

func TestParseAmount(t *testing.T) {
	amount, err := ParseAmount("340282366920938463463374607431768211455")
	if err != nil {
		t.Fatalf("max value: %v", err)
	}
	if amount.Cmp(maxUint128) != 0 {
		t.Fatalf("max value mismatch: %s", amount)
	}
	if _, err := ParseAmount("340282366920938463463374607431768211456"); err == nil {
		t.Fatalf("2^128 must be rejected")
	}
	if _, err := ParseAmount("-1"); err == nil {
		t.Fatalf("negative must be rejected")
	}
	if _, err := ParseAmount("12abc"); err == nil {
		t.Fatalf("garbage must be rejected")
	}
	if _, err := ParseAmount(""); err == nil {
		t.Fatalf("empty must be rejected")
	}
}
