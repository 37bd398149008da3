package tx

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownTransactionType is returned when a transaction type is unknown
var ErrUnknownTransactionType = errors.New("unknown transaction type")

var (
	registryMu sync.RWMutex
	registry   = make(map[Type]func() Transaction)
)

// Register makes a transaction type available to FromJSON. Sub-packages call
// it from init; registering a type twice panics.
func Register(t Type, factory func() Transaction) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[t]; exists {
		panic(fmt.Sprintf("transaction type %s registered twice", t))
	}
	registry[t] = factory
}

// NewFromType creates a new, empty transaction of the given type
func NewFromType(txType Type) (Transaction, error) {
	registryMu.RLock()
	factory, ok := registry[txType]
	registryMu.RUnlock()

	if !ok {
		return nil, ErrUnknownTransactionType
	}
	return factory(), nil
}

// FromJSON creates a Transaction from a JSON object
func FromJSON(data []byte) (Transaction, error) {
	// First, unmarshal to get the TransactionType
	var raw struct {
		TransactionType string `json:"TransactionType"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	txType, ok := TypeFromName(raw.TransactionType)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTransactionType, raw.TransactionType)
	}

	tx, err := NewFromType(txType)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(data, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// ToJSON converts a Transaction to JSON
func ToJSON(tx Transaction) ([]byte, error) {
	return json.Marshal(tx)
}

// SupportedTypes returns all registered transaction types in code order
func SupportedTypes() []Type {
	registryMu.RLock()
	defer registryMu.RUnlock()

	out := make([]Type, 0, len(registry))
	for t := range registry {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
