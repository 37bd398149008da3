package tx

import "fmt"

// Result represents a transaction result code
type Result int

// Transaction result codes, organized by category: tes, tec, tef, tem, ter.
// Only tesSUCCESS changes state. Every other code leaves the account store
// exactly as it was and charges no fee.
const (
	// tesSUCCESS (0)
	TesSUCCESS Result = 0

	// tec codes (100-199): the transaction was well formed and authorized
	// but the current state does not allow it.
	TecUNFUNDED_PAYMENT        Result = 104
	TecUNFUNDED                Result = 129
	TecNO_AUTH                 Result = 134
	TecFROZEN                  Result = 137
	TecNO_PERMISSION           Result = 139
	TecNO_ENTRY                Result = 140
	TecINTERNAL                Result = 144
	TecINSUFFICIENT_PAYMENT    Result = 161
	TecALREADY_INITIALIZED     Result = 174
	TecOFFER_NOT_FOUND         Result = 175
	TecTEMP_ASSET_MISMATCH     Result = 176
	TecTEMP_BALANCE_MISMATCH   Result = 177
	TecRECEIVE_ASSET_MISMATCH  Result = 178
	TecPAYMENT_ASSET_MISMATCH  Result = 179
	TecBUYER_RECEIVE_MISMATCH  Result = 180
	TecSELLER_MISMATCH         Result = 181
	TecSELLER_TEMP_MISMATCH    Result = 182
	TecSELLER_RECEIVE_MISMATCH Result = 183
	TecNOT_TOKEN_ACCOUNT       Result = 184
	TecACCOUNT_NOT_EMPTY       Result = 185
	TecMINT_MISMATCH           Result = 186
	TecOVERFLOW                Result = 187
	TecINSUFFICIENT_RENT       Result = 188
	TecACCOUNT_EXISTS          Result = 189
	TecNOT_MINT                Result = 190

	// tef codes (-199 to -100): the transaction cannot be applied as signed.
	TefFAILURE                Result = -199
	TefALREADY                Result = -198
	TefBAD_AUTH               Result = -196
	TefPAST_SEQ               Result = -190
	TefINTERNAL               Result = -192
	TefBAD_SIGNATURE          Result = -186
	TefMISSING_SIGNATURE      Result = -178
	TefNO_FEE_PAYER_SIGNATURE Result = -177

	// tem codes (-299 to -200): the transaction is malformed.
	TemMALFORMED          Result = -299
	TemBAD_AMOUNT         Result = -298
	TemBAD_FEE            Result = -295
	TemBAD_SEQUENCE       Result = -283
	TemBAD_SIGNATURE      Result = -282
	TemBAD_SRC_ACCOUNT    Result = -281
	TemDST_IS_SRC         Result = -279
	TemINVALID            Result = -277
	TemUNKNOWN            Result = -264
	TemBAD_PROGRAM_ID     Result = -251
	TemBAD_ESCROW_ADDRESS Result = -250
	TemMEMO_TOO_LARGE     Result = -249

	// ter codes (-99 to -1): may succeed later.
	TerINSUF_FEE_B Result = -97
	TerNO_ACCOUNT  Result = -96
	TerPRE_SEQ     Result = -92
)

var resultNames = map[Result]string{
	TesSUCCESS: "tesSUCCESS",

	TecUNFUNDED_PAYMENT:        "tecUNFUNDED_PAYMENT",
	TecUNFUNDED:                "tecUNFUNDED",
	TecNO_AUTH:                 "tecNO_AUTH",
	TecFROZEN:                  "tecFROZEN",
	TecNO_PERMISSION:           "tecNO_PERMISSION",
	TecNO_ENTRY:                "tecNO_ENTRY",
	TecINTERNAL:                "tecINTERNAL",
	TecINSUFFICIENT_PAYMENT:    "tecINSUFFICIENT_PAYMENT",
	TecALREADY_INITIALIZED:     "tecALREADY_INITIALIZED",
	TecOFFER_NOT_FOUND:         "tecOFFER_NOT_FOUND",
	TecTEMP_ASSET_MISMATCH:     "tecTEMP_ASSET_MISMATCH",
	TecTEMP_BALANCE_MISMATCH:   "tecTEMP_BALANCE_MISMATCH",
	TecRECEIVE_ASSET_MISMATCH:  "tecRECEIVE_ASSET_MISMATCH",
	TecPAYMENT_ASSET_MISMATCH:  "tecPAYMENT_ASSET_MISMATCH",
	TecBUYER_RECEIVE_MISMATCH:  "tecBUYER_RECEIVE_MISMATCH",
	TecSELLER_MISMATCH:         "tecSELLER_MISMATCH",
	TecSELLER_TEMP_MISMATCH:    "tecSELLER_TEMP_MISMATCH",
	TecSELLER_RECEIVE_MISMATCH: "tecSELLER_RECEIVE_MISMATCH",
	TecNOT_TOKEN_ACCOUNT:       "tecNOT_TOKEN_ACCOUNT",
	TecACCOUNT_NOT_EMPTY:       "tecACCOUNT_NOT_EMPTY",
	TecMINT_MISMATCH:           "tecMINT_MISMATCH",
	TecOVERFLOW:                "tecOVERFLOW",
	TecINSUFFICIENT_RENT:       "tecINSUFFICIENT_RENT",
	TecACCOUNT_EXISTS:          "tecACCOUNT_EXISTS",
	TecNOT_MINT:                "tecNOT_MINT",

	TefFAILURE:                "tefFAILURE",
	TefALREADY:                "tefALREADY",
	TefBAD_AUTH:               "tefBAD_AUTH",
	TefPAST_SEQ:               "tefPAST_SEQ",
	TefINTERNAL:               "tefINTERNAL",
	TefBAD_SIGNATURE:          "tefBAD_SIGNATURE",
	TefMISSING_SIGNATURE:      "tefMISSING_SIGNATURE",
	TefNO_FEE_PAYER_SIGNATURE: "tefNO_FEE_PAYER_SIGNATURE",

	TemMALFORMED:          "temMALFORMED",
	TemBAD_AMOUNT:         "temBAD_AMOUNT",
	TemBAD_FEE:            "temBAD_FEE",
	TemBAD_SEQUENCE:       "temBAD_SEQUENCE",
	TemBAD_SIGNATURE:      "temBAD_SIGNATURE",
	TemBAD_SRC_ACCOUNT:    "temBAD_SRC_ACCOUNT",
	TemDST_IS_SRC:         "temDST_IS_SRC",
	TemINVALID:            "temINVALID",
	TemUNKNOWN:            "temUNKNOWN",
	TemBAD_PROGRAM_ID:     "temBAD_PROGRAM_ID",
	TemBAD_ESCROW_ADDRESS: "temBAD_ESCROW_ADDRESS",
	TemMEMO_TOO_LARGE:     "temMEMO_TOO_LARGE",

	TerINSUF_FEE_B: "terINSUF_FEE_B",
	TerNO_ACCOUNT:  "terNO_ACCOUNT",
	TerPRE_SEQ:     "terPRE_SEQ",
}

var resultsByName = func() map[string]Result {
	m := make(map[string]Result, len(resultNames))
	for r, name := range resultNames {
		m[name] = r
	}
	return m
}()

// String returns the string representation of the result code
func (r Result) String() string {
	if name, ok := resultNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", int(r))
}

// ResultFromName looks up a code by its token, e.g. "tecOFFER_NOT_FOUND".
func ResultFromName(name string) (Result, bool) {
	r, ok := resultsByName[name]
	return r, ok
}

// IsSuccess returns true if the result indicates success
func (r Result) IsSuccess() bool {
	return r == TesSUCCESS
}

// IsTec returns true if this is a tec (state) code
func (r Result) IsTec() bool {
	return r >= 100 && r < 200
}

// IsTef returns true if this is a tef (failure) code
func (r Result) IsTef() bool {
	return r >= -199 && r <= -100
}

// IsTem returns true if this is a tem (malformed) code
func (r Result) IsTem() bool {
	return r >= -299 && r <= -200
}

// IsTer returns true if this is a ter (retry) code
func (r Result) IsTer() bool {
	return r >= -99 && r <= -1
}

// ShouldRetry returns true if the transaction could succeed later unchanged
func (r Result) ShouldRetry() bool {
	return r.IsTer()
}

// IsApplied reports whether the transaction changed state.
func (r Result) IsApplied() bool {
	return r.IsSuccess()
}

// Message returns a human-readable message for the result
func (r Result) Message() string {
	switch r {
	case TesSUCCESS:
		return "The transaction was applied."
	case TecUNFUNDED_PAYMENT:
		return "Insufficient lamports to send."
	case TecUNFUNDED:
		return "Insufficient token balance."
	case TecNO_AUTH:
		return "The signing identity is not the authority of the account."
	case TecFROZEN:
		return "The token account is frozen."
	case TecNO_PERMISSION:
		return "The account is not owned by the program that tried to change it."
	case TecNO_ENTRY:
		return "The referenced account does not exist."
	case TecINSUFFICIENT_PAYMENT:
		return "The buyer's payment balance is below the quantity demanded."
	case TecALREADY_INITIALIZED:
		return "The escrow address already holds an account."
	case TecOFFER_NOT_FOUND:
		return "No active offer exists for this escrow address and tag."
	case TecTEMP_ASSET_MISMATCH:
		return "The locked account does not hold the offered asset."
	case TecTEMP_BALANCE_MISMATCH:
		return "The locked account's balance differs from the quantity offered."
	case TecRECEIVE_ASSET_MISMATCH:
		return "The seller's receive account does not hold the demanded asset."
	case TecPAYMENT_ASSET_MISMATCH:
		return "The buyer's payment account does not hold the demanded asset."
	case TecBUYER_RECEIVE_MISMATCH:
		return "The buyer's receive account does not hold the offered asset."
	case TecSELLER_MISMATCH:
		return "The seller does not match the offer."
	case TecSELLER_TEMP_MISMATCH:
		return "The seller's locked account does not match the offer."
	case TecSELLER_RECEIVE_MISMATCH:
		return "The seller's receive account does not match the offer."
	case TecNOT_TOKEN_ACCOUNT:
		return "The account is not a token account."
	case TecACCOUNT_NOT_EMPTY:
		return "Only token accounts with a zero balance can be closed."
	case TecMINT_MISMATCH:
		return "Source and destination hold different mints."
	case TecOVERFLOW:
		return "The operation would overflow a balance."
	case TecINSUFFICIENT_RENT:
		return "The payer cannot fund the rent-exempt minimum."
	case TecACCOUNT_EXISTS:
		return "An account already exists at the target address."
	case TecNOT_MINT:
		return "The account is not a mint."
	case TefALREADY:
		return "The exact transaction was already applied."
	case TefBAD_AUTH:
		return "The fee payer is not a wallet account."
	case TefPAST_SEQ:
		return "This sequence number has already passed."
	case TefINTERNAL:
		return "Internal error while applying the transaction."
	case TefBAD_SIGNATURE:
		return "Invalid signature."
	case TefMISSING_SIGNATURE:
		return "A required party did not sign the transaction."
	case TefNO_FEE_PAYER_SIGNATURE:
		return "The fee payer did not sign the transaction."
	case TemMALFORMED:
		return "Malformed transaction."
	case TemBAD_AMOUNT:
		return "Invalid amount."
	case TemBAD_FEE:
		return "Invalid fee, below the base fee for the signature count."
	case TemBAD_SEQUENCE:
		return "Malformed: Sequence is not set."
	case TemBAD_SIGNATURE:
		return "Malformed signature entry."
	case TemBAD_SRC_ACCOUNT:
		return "The fee payer is missing."
	case TemDST_IS_SRC:
		return "Destination may not be source."
	case TemINVALID:
		return "The transaction is ill-formed."
	case TemUNKNOWN:
		return "Unknown transaction type."
	case TemBAD_PROGRAM_ID:
		return "A referenced program id is not the real one."
	case TemBAD_ESCROW_ADDRESS:
		return "The escrow address is not the one derived from the offer and tag."
	case TemMEMO_TOO_LARGE:
		return "The memo exceeds the maximum size."
	case TerINSUF_FEE_B:
		return "Fee payer balance can't pay fee."
	case TerNO_ACCOUNT:
		return "The fee payer account does not exist."
	case TerPRE_SEQ:
		return "Missing/inapplicable prior transaction."
	default:
		return r.String()
	}
}
