package escrow

import (
	"github.com/LeJamon/goEscrowd/internal/core/tx"
	"github.com/LeJamon/goEscrowd/internal/core/tx/sle"
	"github.com/LeJamon/goEscrowd/internal/core/types"
)

// checkPrograms rejects references to anything but the configured system and
// token programs.
func checkPrograms(ctx *tx.ApplyContext, system, token types.Address) tx.Result {
	if system != ctx.Config.SystemProgramID || token != ctx.Config.TokenProgramID {
		return tx.TemBAD_PROGRAM_ID
	}
	return tx.TesSUCCESS
}

// loadRecord reads the escrow record at addr and checks that tag re-derives
// addr from the recorded offer.
func loadRecord(ctx *tx.ApplyContext, addr types.Address, tag types.Tag) (*sle.EscrowRecord, Authority, tx.Result) {
	acct, res := ctx.ReadAccount(addr)
	switch {
	case res == tx.TecNO_ENTRY:
		return nil, Authority{}, tx.TecOFFER_NOT_FOUND
	case !res.IsSuccess():
		return nil, Authority{}, res
	}
	rec, auth, ok := decodeRecord(acct, tag, ctx.Program)
	if !ok {
		return nil, Authority{}, tx.TecOFFER_NOT_FOUND
	}
	return rec, auth, tx.TesSUCCESS
}

// decodeRecord decodes an escrow account owned by program and verifies that
// tag re-derives its address.
func decodeRecord(acct *sle.AccountRoot, tag types.Tag, program types.Address) (*sle.EscrowRecord, Authority, bool) {
	if acct.Owner != program || len(acct.Data) != sle.EscrowRecordSize {
		return nil, Authority{}, false
	}
	rec, err := sle.DecodeEscrowRecord(acct.Data)
	if err != nil || rec.Validate() != nil {
		return nil, Authority{}, false
	}
	auth, err := DeriveAuthority(rec.Offer, tag, program)
	if err != nil || auth.Address != acct.Address {
		return nil, Authority{}, false
	}
	return rec, auth, true
}

// RecordAt returns the escrow record stored at addr, if any. It does not
// check the tag.
func RecordAt(view tx.LedgerView, addr, program types.Address) (*sle.EscrowRecord, tx.Result) {
	acct, res := tx.ReadAccount(view, addr)
	if !res.IsSuccess() {
		return nil, res
	}
	if acct.Owner != program || len(acct.Data) != sle.EscrowRecordSize {
		return nil, tx.TecOFFER_NOT_FOUND
	}
	rec, err := sle.DecodeEscrowRecord(acct.Data)
	if err != nil || rec.Validate() != nil {
		return nil, tx.TecOFFER_NOT_FOUND
	}
	return rec, tx.TesSUCCESS
}

// checkSellerAccounts compares the caller-supplied seller addresses against
// the record.
func checkSellerAccounts(rec *sle.EscrowRecord, seller, temp, receive types.Address) tx.Result {
	switch {
	case seller != rec.SellerMain:
		return tx.TecSELLER_MISMATCH
	case temp != rec.SellerTemp:
		return tx.TecSELLER_TEMP_MISMATCH
	case receive != rec.SellerReceive:
		return tx.TecSELLER_RECEIVE_MISMATCH
	}
	return tx.TesSUCCESS
}
