package collateral

import (
	"fmt"
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum/rlp"

	"artledger/storage"
)

var (
	metaKey            = []byte("collateral/meta")
	accountPrefix      = []byte("collateral/account/")
	assetPricePrefix   = []byte("collateral/asset-price/")
	rewardPaidAtPrefix = []byte("collateral/reward-paid-at/")
)

// Meta is the singleton ledger record: authorities, supply counters and the
// oracle price. It is rewritten on every mutating call so the durable state
// always reflects the last committed operation.
type Meta struct {
	Owner                string
	Peer                 string
	TotalSupply          *big.Int
	TotalStaked          *big.Int
	Price                *big.Int
	StakingRewardEnabled uint64
}

type storedMeta struct {
	Owner                string
	Peer                 string
	TotalSupply          *big.Int
	TotalStaked          *big.Int
	Price                *big.Int
	StakingRewardEnabled uint64
}

// balanceEntry is the serialized form of one sparse-map entry. Entries are
// sorted by key before encoding so the stored bytes are deterministic.
type balanceEntry struct {
	Key    string
	Amount *big.Int
}

type storedAccount struct {
	Balance       *big.Int
	StakedBalance *big.Int
	Allowances    []balanceEntry
	Assets        []balanceEntry
}

// Store persists the collateral ledger state in the underlying key-value
// database. All records are RLP encoded; the layout is append-compatible so
// future fields can be added without migrating existing entries.
type Store struct {
	db storage.Database
}

// NewStore constructs a store bound to the provided database.
func NewStore(db storage.Database) *Store {
	return &Store{db: db}
}

func accountKey(id string) []byte {
	return append(append([]byte{}, accountPrefix...), id...)
}

func assetPriceKey(asset string) []byte {
	return append(append([]byte{}, assetPricePrefix...), asset...)
}

func rewardPaidAtKey(id string) []byte {
	return append(append([]byte{}, rewardPaidAtPrefix...), id...)
}

// Initialized reports whether the ledger metadata record exists.
func (s *Store) Initialized() (bool, error) {
	return s.db.Has(metaKey)
}

// Meta loads the ledger metadata record.
func (s *Store) Meta() (*Meta, error) {
	data, err := s.db.Get(metaKey)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrNotInitialized
	}
	var stored storedMeta
	if err := rlp.DecodeBytes(data, &stored); err != nil {
		return nil, fmt.Errorf("collateral: decode meta: %w", err)
	}
	return &Meta{
		Owner:                stored.Owner,
		Peer:                 stored.Peer,
		TotalSupply:          cloneAmount(stored.TotalSupply),
		TotalStaked:          cloneAmount(stored.TotalStaked),
		Price:                cloneAmount(stored.Price),
		StakingRewardEnabled: stored.StakingRewardEnabled,
	}, nil
}

// PutMeta persists the ledger metadata record.
func (s *Store) PutMeta(meta *Meta) error {
	if meta == nil {
		return fmt.Errorf("collateral: nil meta")
	}
	stored := storedMeta{
		Owner:                meta.Owner,
		Peer:                 meta.Peer,
		TotalSupply:          cloneAmount(meta.TotalSupply),
		TotalStaked:          cloneAmount(meta.TotalStaked),
		Price:                cloneAmount(meta.Price),
		StakingRewardEnabled: meta.StakingRewardEnabled,
	}
	encoded, err := rlp.EncodeToBytes(&stored)
	if err != nil {
		return fmt.Errorf("collateral: encode meta: %w", err)
	}
	return s.db.Put(metaKey, encoded)
}

// Account loads the account record for the given identifier, returning a
// fresh zeroed account when none is stored yet.
func (s *Store) Account(id string) (*Account, error) {
	data, err := s.db.Get(accountKey(id))
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return NewAccount(), nil
	}
	var stored storedAccount
	if err := rlp.DecodeBytes(data, &stored); err != nil {
		return nil, fmt.Errorf("collateral: decode account %s: %w", id, err)
	}
	account := ensureAccountDefaults(&Account{
		Balance:       cloneAmount(stored.Balance),
		StakedBalance: cloneAmount(stored.StakedBalance),
	})
	for _, entry := range stored.Allowances {
		account.Allowances[entry.Key] = cloneAmount(entry.Amount)
	}
	for _, entry := range stored.Assets {
		account.Assets[entry.Key] = cloneAmount(entry.Amount)
	}
	return account, nil
}

// HasAccount reports whether an account record is stored for the identifier.
func (s *Store) HasAccount(id string) (bool, error) {
	return s.db.Has(accountKey(id))
}

// PutAccount persists the account record.
func (s *Store) PutAccount(id string, account *Account) error {
	if account == nil {
		return fmt.Errorf("collateral: nil account")
	}
	ensureAccountDefaults(account)
	stored := storedAccount{
		Balance:       cloneAmount(account.Balance),
		StakedBalance: cloneAmount(account.StakedBalance),
		Allowances:    sortedEntries(account.Allowances),
		Assets:        sortedEntries(account.Assets),
	}
	encoded, err := rlp.EncodeToBytes(&stored)
	if err != nil {
		return fmt.Errorf("collateral: encode account %s: %w", id, err)
	}
	return s.db.Put(accountKey(id), encoded)
}

// RemoveAccount deletes the account record and its reward checkpoint.
func (s *Store) RemoveAccount(id string) error {
	if err := s.db.Delete(accountKey(id)); err != nil {
		return err
	}
	return s.db.Delete(rewardPaidAtKey(id))
}

// AssetPrice returns the oracle price for the named asset, zero when unset.
func (s *Store) AssetPrice(asset string) (*big.Int, error) {
	data, err := s.db.Get(assetPriceKey(asset))
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return big.NewInt(0), nil
	}
	price := new(big.Int)
	if err := rlp.DecodeBytes(data, price); err != nil {
		return nil, fmt.Errorf("collateral: decode asset price %s: %w", asset, err)
	}
	return price, nil
}

// PutAssetPrice upserts the oracle price for the named asset.
func (s *Store) PutAssetPrice(asset string, price *big.Int) error {
	encoded, err := rlp.EncodeToBytes(cloneAmount(price))
	if err != nil {
		return fmt.Errorf("collateral: encode asset price %s: %w", asset, err)
	}
	return s.db.Put(assetPriceKey(asset), encoded)
}

// RewardPaidAt returns the reward checkpoint for the account, falling back to
// the protocol-wide staking reward epoch recorded at initialization.
func (s *Store) RewardPaidAt(id string) (uint64, error) {
	data, err := s.db.Get(rewardPaidAtKey(id))
	if err != nil {
		return 0, err
	}
	if len(data) == 0 {
		meta, err := s.Meta()
		if err != nil {
			return 0, err
		}
		return meta.StakingRewardEnabled, nil
	}
	var ts uint64
	if err := rlp.DecodeBytes(data, &ts); err != nil {
		return 0, fmt.Errorf("collateral: decode reward checkpoint %s: %w", id, err)
	}
	return ts, nil
}

// PutRewardPaidAt persists the reward checkpoint for the account.
func (s *Store) PutRewardPaidAt(id string, ts uint64) error {
	encoded, err := rlp.EncodeToBytes(ts)
	if err != nil {
		return fmt.Errorf("collateral: encode reward checkpoint %s: %w", id, err)
	}
	return s.db.Put(rewardPaidAtKey(id), encoded)
}

func sortedEntries(m map[string]*big.Int) []balanceEntry {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	entries := make([]balanceEntry, 0, len(keys))
	for _, k := range keys {
		entries = append(entries, balanceEntry{Key: k, Amount: cloneAmount(m[k])})
	}
	return entries
}
