package tx

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/LeJamon/goEscrowd/internal/core/ledger/keylet"
	"github.com/LeJamon/goEscrowd/internal/core/types"
	lru "github.com/hashicorp/golang-lru/v2"
	log "github.com/sirupsen/logrus"
)

const logModule = "engine"

// Validation constants
const (
	// MaxMemoSize is the maximum size of the Memo field (in bytes)
	MaxMemoSize = 1024

	// DefaultBaseFee is charged per signature when Fee is absent
	DefaultBaseFee = 5000

	// DefaultMaxFee bounds the Fee field (1 SOL-sized unit)
	DefaultMaxFee = 1_000_000_000

	// DefaultDedupeWindow is how many recent transaction hashes are
	// remembered. Older replays are caught by the payer's Sequence.
	DefaultDedupeWindow = 4096
)

// EngineConfig holds configuration for the transaction engine
type EngineConfig struct {
	// BaseFee is charged per signature, in lamports
	BaseFee uint64

	// MaxFee is the largest Fee accepted
	MaxFee uint64

	// Rent sets the rent-exempt minimum for new accounts
	Rent Rent

	// Program ids. The escrow id may be overridden per deployment.
	SystemProgramID types.Address
	TokenProgramID  types.Address
	EscrowProgramID types.Address

	// SkipSignatureVerification trusts listed public keys without checking
	// signatures (for testing/standalone)
	SkipSignatureVerification bool

	// DedupeWindow is the number of applied hashes kept to reject replays
	DedupeWindow int

	// Assets and System are the collaborators transactors call into
	Assets AssetSubsystem
	System SystemSubsystem
}

// DefaultEngineConfig returns a config with default fees, rent and program
// ids. Assets and System must still be set by the caller.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		BaseFee:         DefaultBaseFee,
		MaxFee:          DefaultMaxFee,
		Rent:            DefaultRent(),
		SystemProgramID: SystemProgramID,
		TokenProgramID:  TokenProgramID,
		EscrowProgramID: DefaultEscrowProgramID,
		DedupeWindow:    DefaultDedupeWindow,
	}
}

// LedgerView provides read/write access to account state
type LedgerView interface {
	// Read reads an entry; a missing entry yields nil data and no error
	Read(k keylet.Keylet) ([]byte, error)

	// Exists checks if an entry exists
	Exists(k keylet.Keylet) (bool, error)

	// Insert adds a new entry
	Insert(k keylet.Keylet, data []byte) error

	// Update modifies an existing entry
	Update(k keylet.Keylet, data []byte) error

	// Erase removes an entry
	Erase(k keylet.Keylet) error

	// ForEach iterates over all state entries
	// If fn returns false, iteration stops early
	ForEach(fn func(key [32]byte, data []byte) bool) error
}

// Change is one write produced by a transaction.
type Change struct {
	Key   [32]byte
	Data  []byte
	Erase bool
}

// Committer is implemented by views that can apply a set of changes
// atomically.
type Committer interface {
	Commit(changes []Change) error
}

// ApplyResult contains the result of applying a transaction
type ApplyResult struct {
	// Result is the transaction result code
	Result Result

	// Applied indicates if the transaction changed state
	Applied bool

	// Hash identifies the transaction
	Hash [32]byte

	// Fee is the fee charged (in lamports); zero unless applied
	Fee uint64

	// Metadata contains the changes made by the transaction
	Metadata *Metadata

	// Message is a human-readable result message
	Message string
}

// Node types in metadata
const (
	NodeCreated  = "CreatedNode"
	NodeModified = "ModifiedNode"
	NodeDeleted  = "DeletedNode"
)

// Metadata tracks changes made by a transaction
type Metadata struct {
	AffectedNodes     []AffectedNode `json:"AffectedNodes"`
	TransactionResult Result         `json:"-"`
}

// AffectedNode describes one account touched by a transaction.
type AffectedNode struct {
	NodeType         string        `json:"NodeType"`
	LedgerEntryType  string        `json:"LedgerEntryType"`
	LedgerIndex      string        `json:"LedgerIndex"`
	Address          types.Address `json:"Address"`
	Owner            types.Address `json:"Owner"`
	PreviousLamports *uint64       `json:"PreviousLamports,omitempty"`
	FinalLamports    *uint64       `json:"FinalLamports,omitempty"`
}

// MarshalJSON adds the result token next to the nodes
func (m Metadata) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"AffectedNodes":     m.AffectedNodes,
		"TransactionResult": m.TransactionResult.String(),
	})
}

// Engine processes transactions against an account store
type Engine struct {
	view   LedgerView
	config EngineConfig
	locks  *AccountLocks
	recent *lru.Cache[[32]byte, struct{}]
}

// NewEngine creates a new transaction engine
func NewEngine(view LedgerView, config EngineConfig) *Engine {
	window := config.DedupeWindow
	if window <= 0 {
		window = DefaultDedupeWindow
	}
	recent, err := lru.New[[32]byte, struct{}](window)
	if err != nil {
		// only fails for a non-positive size
		panic(err)
	}
	if config.MaxFee == 0 {
		config.MaxFee = DefaultMaxFee
	}
	if config.Rent.LamportsPerByteYear == 0 {
		config.Rent = DefaultRent()
	}
	return &Engine{
		view:   view,
		config: config,
		locks:  NewAccountLocks(),
		recent: recent,
	}
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() EngineConfig {
	return e.config
}

// View returns the base view the engine commits to.
func (e *Engine) View() LedgerView {
	return e.view
}

// Apply verifies, applies and commits one transaction. Only tesSUCCESS
// changes state.
func (e *Engine) Apply(tx Transaction) ApplyResult {
	// Step 1: Preflight checks (syntax and signatures)
	signers, result := e.preflight(tx)
	if !result.IsSuccess() {
		return e.reject(tx, [32]byte{}, result)
	}

	txHash, err := TransactionHash(tx)
	if err != nil {
		return e.reject(tx, txHash, TefINTERNAL)
	}

	// Step 2: Exclusive access to every account the transaction names
	accounts := append(tx.Accounts(), tx.GetCommon().Account)
	unlock := e.locks.Lock(accounts)
	defer unlock()

	if e.recent.Contains(txHash) {
		return e.reject(tx, txHash, TefALREADY)
	}

	// Step 3: Preclaim checks against current state
	fee := e.calculateFee(tx)
	if result := e.preclaim(tx, fee); !result.IsSuccess() {
		return e.reject(tx, txHash, result)
	}

	// Step 4: Apply against a private state table and commit on success
	metadata, result := e.doApply(tx, txHash, signers, fee)
	if !result.IsSuccess() {
		return e.reject(tx, txHash, result)
	}

	e.recent.Add(txHash, struct{}{})
	log.WithFields(log.Fields{
		"module":  logModule,
		"tx_type": tx.TxType().String(),
		"hash":    fmt.Sprintf("%X", txHash),
		"nodes":   len(metadata.AffectedNodes),
	}).Debug("transaction applied")

	return ApplyResult{
		Result:   result,
		Applied:  true,
		Hash:     txHash,
		Fee:      fee,
		Metadata: metadata,
		Message:  result.Message(),
	}
}

func (e *Engine) reject(tx Transaction, txHash [32]byte, result Result) ApplyResult {
	log.WithFields(log.Fields{
		"module":  logModule,
		"tx_type": tx.TxType().String(),
		"hash":    fmt.Sprintf("%X", txHash),
		"result":  result.String(),
	}).Info("transaction rejected")

	return ApplyResult{
		Result:  result,
		Hash:    txHash,
		Message: result.Message(),
	}
}

// preflight performs validation that needs no account state
func (e *Engine) preflight(tx Transaction) (map[types.Address]struct{}, Result) {
	common := tx.GetCommon()

	if common.Account.IsZero() {
		return nil, TemBAD_SRC_ACCOUNT
	}
	if common.TransactionType != tx.TxType().String() {
		return nil, TemINVALID
	}
	if common.Sequence == 0 {
		return nil, TemBAD_SEQUENCE
	}

	if result := e.validateFee(tx); result != TesSUCCESS {
		return nil, result
	}

	if len(common.Memo) > MaxMemoSize {
		return nil, TemMEMO_TOO_LARGE
	}

	// Transaction-specific validation
	if err := tx.Validate(); err != nil {
		return nil, parseValidationError(err)
	}

	signers, err := VerifySignatures(tx, e.config.SkipSignatureVerification)
	if err != nil {
		switch {
		case errors.Is(err, ErrMalformedSigner), errors.Is(err, ErrDuplicateSigner):
			return nil, TemBAD_SIGNATURE
		default:
			return nil, TefBAD_SIGNATURE
		}
	}

	if _, ok := signers[common.Account]; !ok {
		return nil, TefNO_FEE_PAYER_SIGNATURE
	}
	return signers, TesSUCCESS
}

// parseValidationError extracts a result code from a validation error message.
// If the error message starts with a known code prefix (e.g., "temMALFORMED:"),
// it returns the corresponding Result. Otherwise, it returns TemINVALID.
func parseValidationError(err error) Result {
	msg := err.Error()

	code := msg
	if i := strings.IndexAny(msg, ": "); i >= 0 {
		code = msg[:i]
	}
	if r, ok := ResultFromName(code); ok && r.IsTem() {
		return r
	}
	return TemINVALID
}

// validateFee validates the Fee field
func (e *Engine) validateFee(tx Transaction) Result {
	fee, present, err := tx.GetCommon().FeeValue()
	if !present {
		return TesSUCCESS
	}
	if err != nil {
		return TemBAD_FEE
	}
	if fee < e.calculateMinimumFee(tx) || fee > e.config.MaxFee {
		return TemBAD_FEE
	}
	return TesSUCCESS
}

// preclaim validates the fee payer against current state
func (e *Engine) preclaim(tx Transaction, fee uint64) Result {
	common := tx.GetCommon()
	payer, result := ReadAccount(e.view, common.Account)
	if result == TecNO_ENTRY {
		return TerNO_ACCOUNT
	}
	if !result.IsSuccess() {
		return result
	}
	if payer.Owner != e.config.SystemProgramID || len(payer.Data) != 0 {
		return TefBAD_AUTH
	}
	if common.Sequence < payer.Sequence {
		return TefPAST_SEQ
	}
	if common.Sequence > payer.Sequence {
		return TerPRE_SEQ
	}
	if payer.Lamports < fee {
		return TerINSUF_FEE_B
	}
	return TesSUCCESS
}

// doApply charges the fee and runs the transactor inside one state table.
// Nothing is written to the base view unless the transactor succeeds.
func (e *Engine) doApply(tx Transaction, txHash [32]byte, signers map[types.Address]struct{}, fee uint64) (*Metadata, Result) {
	table := NewApplyStateTable(e.view, &e.config)
	common := tx.GetCommon()

	entry := log.WithFields(log.Fields{
		"module":  logModule,
		"tx_type": tx.TxType().String(),
		"hash":    hex.EncodeToString(txHash[:]),
	})
	ctx := &ApplyContext{
		View:     table,
		Config:   &e.config,
		TxHash:   txHash,
		Program:  tx.ProgramID(&e.config),
		FeePayer: common.Account,
		Log:      entry,
		signers:  signers,
	}

	// Charge the fee and consume the sequence first; both are discarded with
	// the table on failure
	payer, result := ctx.ReadAccount(common.Account)
	if !result.IsSuccess() {
		return nil, result
	}
	payer.Lamports -= fee
	payer.Sequence = common.Sequence + 1
	if result := ctx.UpdateAccount(payer); !result.IsSuccess() {
		return nil, result
	}

	appliable, ok := tx.(Appliable)
	if !ok {
		return nil, TemUNKNOWN
	}
	result = appliable.Apply(ctx)
	if !result.IsSuccess() {
		return nil, result
	}

	metadata, err := table.Apply()
	if err != nil {
		entry.WithError(err).Error("commit failed")
		return nil, TefINTERNAL
	}
	metadata.TransactionResult = result
	return metadata, result
}

// calculateFee returns Fee when present, otherwise the minimum fee
func (e *Engine) calculateFee(tx Transaction) uint64 {
	if fee, present, err := tx.GetCommon().FeeValue(); present && err == nil {
		return fee
	}
	return e.calculateMinimumFee(tx)
}

// calculateMinimumFee charges the base fee once per signature
func (e *Engine) calculateMinimumFee(tx Transaction) uint64 {
	n := uint64(len(tx.GetCommon().Signers))
	if n == 0 {
		n = 1
	}
	return e.config.BaseFee * n
}
