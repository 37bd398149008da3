package service

import (
	"context"
	"fmt"
	"time"

	"github.com/LeJamon/goEscrowd/internal/core/tx"
	"github.com/LeJamon/goEscrowd/internal/core/tx/escrow"
	"github.com/LeJamon/goEscrowd/internal/core/tx/sle"
	"github.com/LeJamon/goEscrowd/internal/core/types"
	"github.com/LeJamon/goEscrowd/internal/storage/relationaldb"
)

// AccountInfo describes one account. Token, Mint and Escrow are set when the
// account holds that kind of data.
type AccountInfo struct {
	Address  types.Address
	Lamports uint64
	Owner    types.Address
	Sequence uint64
	DataLen  int

	Token  *sle.TokenAccount
	Mint   *sle.Mint
	Escrow *sle.EscrowRecord
}

// OfferInfo is one active escrow.
type OfferInfo struct {
	Address  types.Address
	Lamports uint64
	Record   *sle.EscrowRecord
}

// ServerInfo summarizes the running service.
type ServerInfo struct {
	StartedAt      time.Time
	Uptime         time.Duration
	StateHash      [32]byte
	Accounts       int
	BaseFee        uint64
	EscrowProgram  types.Address
	TokenProgram   types.Address
	HistoryEnabled bool
}

// GetAccountInfo reads one account and decodes its data when a known
// program owns it.
func (s *Service) GetAccountInfo(addr types.Address) (*AccountInfo, error) {
	acct, res := tx.ReadAccount(s.store, addr)
	switch {
	case res == tx.TecNO_ENTRY:
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, addr)
	case !res.IsSuccess():
		return nil, fmt.Errorf("read %s: %s", addr, res)
	}

	info := &AccountInfo{
		Address:  acct.Address,
		Lamports: acct.Lamports,
		Owner:    acct.Owner,
		Sequence: acct.Sequence,
		DataLen:  len(acct.Data),
	}

	cfg := s.engine.Config()
	switch {
	case acct.Owner == cfg.TokenProgramID && len(acct.Data) == sle.TokenAccountSize:
		if ta, err := sle.DecodeTokenAccount(acct.Data); err == nil {
			info.Token = ta
		}
	case acct.Owner == cfg.TokenProgramID && len(acct.Data) == sle.MintSize:
		if m, err := sle.DecodeMint(acct.Data); err == nil {
			info.Mint = m
		}
	case acct.Owner == cfg.EscrowProgramID && len(acct.Data) == sle.EscrowRecordSize:
		if rec, err := sle.DecodeEscrowRecord(acct.Data); err == nil {
			info.Escrow = rec
		}
	}
	return info, nil
}

// DeriveEscrow computes the escrow address and bump for offer and tag under
// the configured escrow program.
func (s *Service) DeriveEscrow(offer sle.OfferDescriptor, tag types.Tag) (escrow.Authority, error) {
	return escrow.DeriveAuthority(offer, tag, s.engine.Config().EscrowProgramID)
}

// GetOffer returns the escrow record stored at addr.
func (s *Service) GetOffer(addr types.Address) (*OfferInfo, error) {
	acct, res := tx.ReadAccount(s.store, addr)
	if res == tx.TecNO_ENTRY {
		return nil, fmt.Errorf("%w: %s", ErrOfferNotFound, addr)
	}
	if !res.IsSuccess() {
		return nil, fmt.Errorf("read %s: %s", addr, res)
	}

	rec, res := escrow.RecordAt(s.store, addr, s.engine.Config().EscrowProgramID)
	if !res.IsSuccess() {
		return nil, fmt.Errorf("%w: %s", ErrOfferNotFound, addr)
	}
	return &OfferInfo{Address: addr, Lamports: acct.Lamports, Record: rec}, nil
}

// FindOffer derives the escrow address of offer and tag and returns the
// record there. A record for different terms counts as not found.
func (s *Service) FindOffer(offer sle.OfferDescriptor, tag types.Tag) (*OfferInfo, error) {
	auth, err := s.DeriveEscrow(offer, tag)
	if err != nil {
		return nil, err
	}
	info, err := s.GetOffer(auth.Address)
	if err != nil {
		return nil, err
	}
	if info.Record.Offer != offer {
		return nil, fmt.Errorf("%w: %s", ErrOfferNotFound, auth.Address)
	}
	return info, nil
}

// ListEscrows scans the store for every active escrow record.
func (s *Service) ListEscrows() ([]OfferInfo, error) {
	program := s.engine.Config().EscrowProgramID

	var (
		out     []OfferInfo
		scanErr error
	)
	err := s.store.ForEach(func(_ [32]byte, data []byte) bool {
		acct, err := sle.DecodeAccountRoot(data)
		if err != nil {
			scanErr = err
			return false
		}
		if acct.Owner != program || len(acct.Data) != sle.EscrowRecordSize {
			return true
		}
		rec, err := sle.DecodeEscrowRecord(acct.Data)
		if err != nil {
			return true
		}
		out = append(out, OfferInfo{Address: acct.Address, Lamports: acct.Lamports, Record: rec})
		return true
	})
	if err == nil {
		err = scanErr
	}
	if err != nil {
		return nil, fmt.Errorf("list escrows: %w", err)
	}
	return out, nil
}

// GetTransaction looks an applied transaction up in history.
func (s *Service) GetTransaction(ctx context.Context, hash [32]byte) (*relationaldb.TransactionRecord, error) {
	if s.history == nil {
		return nil, ErrHistoryDisabled
	}
	return s.history.GetTransaction(ctx, relationaldb.Hash(hash))
}

// GetAccountTransactions returns one page of an account's history.
func (s *Service) GetAccountTransactions(ctx context.Context, options relationaldb.AccountTxOptions) (*relationaldb.AccountTxResult, error) {
	if s.history == nil {
		return nil, ErrHistoryDisabled
	}
	return s.history.GetAccountTransactions(ctx, options)
}

// GetServerInfo summarizes the service state.
func (s *Service) GetServerInfo() (*ServerInfo, error) {
	hash, err := s.store.Hash()
	if err != nil {
		return nil, fmt.Errorf("state hash: %w", err)
	}
	count, err := s.store.Count()
	if err != nil {
		return nil, fmt.Errorf("account count: %w", err)
	}

	s.mu.RLock()
	startedAt := s.startedAt
	s.mu.RUnlock()

	cfg := s.engine.Config()
	info := &ServerInfo{
		StartedAt:      startedAt,
		StateHash:      hash,
		Accounts:       count,
		BaseFee:        cfg.BaseFee,
		EscrowProgram:  cfg.EscrowProgramID,
		TokenProgram:   cfg.TokenProgramID,
		HistoryEnabled: s.history != nil,
	}
	if !startedAt.IsZero() {
		info.Uptime = time.Since(startedAt)
	}
	return info, nil
}
