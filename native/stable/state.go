package stable

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"artledger/storage"
)

var (
	metaKey       = []byte("stable/meta")
	balancePrefix = []byte("stable/balance/")
)

var maxUint128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

// Meta is the singleton stablecoin ledger record.
type Meta struct {
	Owner       string
	Peer        string
	TotalSupply *big.Int
}

// Store persists stablecoin balances and supply in the underlying key-value
// database using RLP-encoded records.
type Store struct {
	db storage.Database
}

// NewStore constructs a store bound to the provided database.
func NewStore(db storage.Database) *Store {
	return &Store{db: db}
}

func balanceKey(id string) []byte {
	return append(append([]byte{}, balancePrefix...), id...)
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
	meta := new(Meta)
	if err := rlp.DecodeBytes(data, meta); err != nil {
		return nil, fmt.Errorf("stable: decode meta: %w", err)
	}
	if meta.TotalSupply == nil {
		meta.TotalSupply = big.NewInt(0)
	}
	return meta, nil
}

// PutMeta persists the ledger metadata record.
func (s *Store) PutMeta(meta *Meta) error {
	if meta == nil {
		return fmt.Errorf("stable: nil meta")
	}
	if meta.TotalSupply == nil {
		meta.TotalSupply = big.NewInt(0)
	}
	encoded, err := rlp.EncodeToBytes(meta)
	if err != nil {
		return fmt.Errorf("stable: encode meta: %w", err)
	}
	return s.db.Put(metaKey, encoded)
}

// Balance returns the stablecoin balance of the account, zero when absent.
func (s *Store) Balance(id string) (*big.Int, error) {
	data, err := s.db.Get(balanceKey(id))
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return big.NewInt(0), nil
	}
	balance := new(big.Int)
	if err := rlp.DecodeBytes(data, balance); err != nil {
		return nil, fmt.Errorf("stable: decode balance %s: %w", id, err)
	}
	return balance, nil
}

// PutBalance persists the stablecoin balance of the account. Zero balances
// keep their record so registered accounts stay enumerable.
func (s *Store) PutBalance(id string, balance *big.Int) error {
	if balance == nil {
		balance = big.NewInt(0)
	}
	encoded, err := rlp.EncodeToBytes(balance)
	if err != nil {
		return fmt.Errorf("stable: encode balance %s: %w", id, err)
	}
	return s.db.Put(balanceKey(id), encoded)
}
