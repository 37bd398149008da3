package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/LeJamon/goEscrowd/internal/core/ledger/keylet"
	"github.com/LeJamon/goEscrowd/internal/core/tx"
	"github.com/LeJamon/goEscrowd/internal/core/tx/sle"
	"github.com/LeJamon/goEscrowd/internal/core/types"
)

// genesisMeta marks a store whose genesis accounts were written.
const genesisMeta = "genesis"

// GenesisAccount is a wallet funded when a store is first started
type GenesisAccount struct {
	Address  types.Address `json:"address" mapstructure:"address"`
	Lamports uint64        `json:"lamports" mapstructure:"lamports"`
}

// applyGenesis writes the genesis wallets in one batch, once per store.
// Accounts that already exist are left alone.
func (s *Service) applyGenesis(ctx context.Context) error {
	if _, done, err := s.store.GetMeta(genesisMeta); err != nil {
		return fmt.Errorf("read genesis marker: %w", err)
	} else if done {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	owner := s.engine.Config().SystemProgramID
	changes := make([]tx.Change, 0, len(s.genesis))
	seen := make(map[types.Address]struct{}, len(s.genesis))
	for _, g := range s.genesis {
		if g.Address.IsZero() {
			return fmt.Errorf("genesis: zero address")
		}
		if _, dup := seen[g.Address]; dup {
			return fmt.Errorf("genesis: %s listed twice", g.Address)
		}
		seen[g.Address] = struct{}{}

		k := keylet.Account(g.Address)
		exists, err := s.store.Exists(k)
		if err != nil {
			return fmt.Errorf("genesis: %w", err)
		}
		if exists {
			continue
		}
		acct := &sle.AccountRoot{Address: g.Address, Lamports: g.Lamports, Owner: owner, Sequence: sle.FirstSequence}
		changes = append(changes, tx.Change{Key: k.Key, Data: acct.Encode()})
	}

	if len(changes) > 0 {
		if err := s.store.Commit(changes); err != nil {
			return fmt.Errorf("genesis: %w", err)
		}
	}
	if err := s.store.PutMeta(genesisMeta, []byte(strconv.FormatInt(time.Now().Unix(), 10))); err != nil {
		return fmt.Errorf("write genesis marker: %w", err)
	}

	s.log.WithField("accounts", len(changes)).Info("genesis accounts funded")
	return nil
}
