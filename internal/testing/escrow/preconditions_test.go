package escrow_test

import (
	"testing"

	"github.com/LeJamon/goEscrowd/internal/core/tx"
	"github.com/LeJamon/goEscrowd/internal/core/tx/sle"
	"github.com/LeJamon/goEscrowd/internal/core/types"
	jtx "github.com/LeJamon/goEscrowd/internal/testing"
	"github.com/LeJamon/goEscrowd/internal/testing/escrow"
)

// rejection is one precondition violation. Several cases break more than
// one precondition so that the first check in order must win.
type rejection struct {
	name    string
	amounts *escrow.Amounts
	// created submits the seller's OfferCreate before the case runs
	created bool
	build   func(t *testing.T, s *escrow.Scenario, relayer *jtx.Account) (tx.Transaction, []*jtx.Account)
	want    string
}

func runRejections(t *testing.T, cases []rejection) {
	t.Helper()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := jtx.NewTestEnv(t)
			amounts := escrow.Amounts{SellerTemp: 5, BuyerPayment: 5}
			if tc.amounts != nil {
				amounts = *tc.amounts
			}
			s := escrow.NewScenarioWith(t, env, sle.OfferDescriptor{QtyOffered: 5, QtyDemanded: 5}, amounts, "preconditions")
			if tc.created {
				s.MustCreate(t)
			}
			relayer := jtx.NewAccount("relayer")
			env.Fund(relayer)

			txn, signers := tc.build(t, s, relayer)
			jtx.RequireUnchanged(t, env, func() {
				jtx.RequireTxFail(t, env.Submit(txn, signers...), tc.want)
			})
		})
	}
}

func strangerAddress() types.Address {
	return jtx.NewAccount("stranger").Address
}

func TestOfferCreate_Rejections(t *testing.T) {
	runRejections(t, []rejection{
		{
			name: "unknown token program",
			build: func(t *testing.T, s *escrow.Scenario, r *jtx.Account) (tx.Transaction, []*jtx.Account) {
				o := s.Create()
				o.TokenProgram = strangerAddress()
				o.Escrow = strangerAddress()
				return o, []*jtx.Account{s.Seller}
			},
			want: "temBAD_PROGRAM_ID",
		},
		{
			name: "unknown system program",
			build: func(t *testing.T, s *escrow.Scenario, r *jtx.Account) (tx.Transaction, []*jtx.Account) {
				o := s.Create()
				o.SystemProgram = s.Env.Config().TokenProgramID
				return o, []*jtx.Account{s.Seller}
			},
			want: "temBAD_PROGRAM_ID",
		},
		{
			name: "seller did not sign",
			build: func(t *testing.T, s *escrow.Scenario, r *jtx.Account) (tx.Transaction, []*jtx.Account) {
				o := s.Create()
				o.Account = r.Address
				o.Escrow = strangerAddress()
				return o, []*jtx.Account{r}
			},
			want: "tefMISSING_SIGNATURE",
		},
		{
			name:    "escrow already initialized",
			created: true,
			build: func(t *testing.T, s *escrow.Scenario, r *jtx.Account) (tx.Transaction, []*jtx.Account) {
				return s.Create(), []*jtx.Account{s.Seller}
			},
			want: "tecALREADY_INITIALIZED",
		},
		{
			name: "escrow address not derived from offer and tag",
			build: func(t *testing.T, s *escrow.Scenario, r *jtx.Account) (tx.Transaction, []*jtx.Account) {
				o := s.Create()
				o.Escrow = strangerAddress()
				o.SellerTemp = s.SellerReceive
				return o, []*jtx.Account{s.Seller}
			},
			want: "temBAD_ESCROW_ADDRESS",
		},
		{
			name: "escrow derived with another tag",
			build: func(t *testing.T, s *escrow.Scenario, r *jtx.Account) (tx.Transaction, []*jtx.Account) {
				o := s.Create()
				o.Tag[27] ^= 1
				return o, []*jtx.Account{s.Seller}
			},
			want: "temBAD_ESCROW_ADDRESS",
		},
		{
			name: "temp is not a token account",
			build: func(t *testing.T, s *escrow.Scenario, r *jtx.Account) (tx.Transaction, []*jtx.Account) {
				o := s.Create()
				o.SellerTemp = s.Seller.Address
				return o, []*jtx.Account{s.Seller}
			},
			want: "tecNOT_TOKEN_ACCOUNT",
		},
		{
			name: "temp holds the demanded asset",
			build: func(t *testing.T, s *escrow.Scenario, r *jtx.Account) (tx.Transaction, []*jtx.Account) {
				o := s.Create()
				o.SellerTemp, o.SellerReceive = s.SellerReceive, s.SellerTemp
				return o, []*jtx.Account{s.Seller}
			},
			want: "tecTEMP_ASSET_MISMATCH",
		},
		{
			name:    "temp balance short",
			amounts: &escrow.Amounts{SellerTemp: 4, BuyerPayment: 5},
			build: func(t *testing.T, s *escrow.Scenario, r *jtx.Account) (tx.Transaction, []*jtx.Account) {
				o := s.Create()
				o.SellerReceive = s.BuyerReceive
				return o, []*jtx.Account{s.Seller}
			},
			want: "tecTEMP_BALANCE_MISMATCH",
		},
		{
			name: "receive account holds the offered asset",
			build: func(t *testing.T, s *escrow.Scenario, r *jtx.Account) (tx.Transaction, []*jtx.Account) {
				o := s.Create()
				o.SellerReceive = s.BuyerReceive
				return o, []*jtx.Account{s.Seller}
			},
			want: "tecRECEIVE_ASSET_MISMATCH",
		},
		{
			name: "temp not controlled by seller",
			build: func(t *testing.T, s *escrow.Scenario, r *jtx.Account) (tx.Transaction, []*jtx.Account) {
				temp := s.Env.CreateTokenAccount(s.Buyer, s.MintX)
				s.Env.MintTo(s.Issuer, s.MintX, temp, 5)
				o := s.Create()
				o.SellerTemp = temp
				return o, []*jtx.Account{s.Seller}
			},
			want: "tecNO_AUTH",
		},
	})
}

func TestOfferAccept_Rejections(t *testing.T) {
	runRejections(t, []rejection{
		{
			name:    "unknown token program",
			created: true,
			build: func(t *testing.T, s *escrow.Scenario, r *jtx.Account) (tx.Transaction, []*jtx.Account) {
				o := s.Accept()
				o.TokenProgram = strangerAddress()
				o.Seller = s.Buyer.Address
				return o, []*jtx.Account{s.Buyer}
			},
			want: "temBAD_PROGRAM_ID",
		},
		{
			name:    "buyer did not sign",
			created: true,
			build: func(t *testing.T, s *escrow.Scenario, r *jtx.Account) (tx.Transaction, []*jtx.Account) {
				o := s.Accept()
				o.Account = r.Address
				o.Escrow = strangerAddress()
				return o, []*jtx.Account{r}
			},
			want: "tefMISSING_SIGNATURE",
		},
		{
			name: "no offer at escrow address",
			build: func(t *testing.T, s *escrow.Scenario, r *jtx.Account) (tx.Transaction, []*jtx.Account) {
				o := s.Accept()
				o.BuyerPayment = s.BuyerReceive
				return o, []*jtx.Account{s.Buyer}
			},
			want: "tecOFFER_NOT_FOUND",
		},
		{
			name:    "escrow is someone else's account",
			created: true,
			build: func(t *testing.T, s *escrow.Scenario, r *jtx.Account) (tx.Transaction, []*jtx.Account) {
				o := s.Accept()
				o.Escrow = s.SellerReceive
				return o, []*jtx.Account{s.Buyer}
			},
			want: "tecOFFER_NOT_FOUND",
		},
		{
			name:    "wrong tag",
			created: true,
			build: func(t *testing.T, s *escrow.Scenario, r *jtx.Account) (tx.Transaction, []*jtx.Account) {
				o := s.Accept()
				o.Tag[0] ^= 1
				return o, []*jtx.Account{s.Buyer}
			},
			want: "tecOFFER_NOT_FOUND",
		},
		{
			name:    "payment in the offered asset",
			created: true,
			build: func(t *testing.T, s *escrow.Scenario, r *jtx.Account) (tx.Transaction, []*jtx.Account) {
				o := s.Accept()
				o.BuyerPayment = s.BuyerReceive
				o.Seller = s.Buyer.Address
				return o, []*jtx.Account{s.Buyer}
			},
			want: "tecPAYMENT_ASSET_MISMATCH",
		},
		{
			name:    "payment short",
			created: true,
			amounts: &escrow.Amounts{SellerTemp: 5, BuyerPayment: 4},
			build: func(t *testing.T, s *escrow.Scenario, r *jtx.Account) (tx.Transaction, []*jtx.Account) {
				o := s.Accept()
				o.BuyerReceive = s.BuyerPayment
				return o, []*jtx.Account{s.Buyer}
			},
			want: "tecINSUFFICIENT_PAYMENT",
		},
		{
			name:    "buyer receive holds the demanded asset",
			created: true,
			build: func(t *testing.T, s *escrow.Scenario, r *jtx.Account) (tx.Transaction, []*jtx.Account) {
				o := s.Accept()
				o.BuyerReceive = s.SellerReceive
				o.SellerTemp = s.BuyerReceive
				return o, []*jtx.Account{s.Buyer}
			},
			want: "tecBUYER_RECEIVE_MISMATCH",
		},
		{
			name:    "seller mismatch",
			created: true,
			build: func(t *testing.T, s *escrow.Scenario, r *jtx.Account) (tx.Transaction, []*jtx.Account) {
				o := s.Accept()
				o.Seller = s.Buyer.Address
				o.SellerTemp = s.BuyerReceive
				return o, []*jtx.Account{s.Buyer}
			},
			want: "tecSELLER_MISMATCH",
		},
		{
			name:    "seller temp mismatch",
			created: true,
			build: func(t *testing.T, s *escrow.Scenario, r *jtx.Account) (tx.Transaction, []*jtx.Account) {
				o := s.Accept()
				o.SellerTemp = s.BuyerReceive
				o.SellerReceive = s.BuyerPayment
				return o, []*jtx.Account{s.Buyer}
			},
			want: "tecSELLER_TEMP_MISMATCH",
		},
		{
			name:    "seller receive mismatch",
			created: true,
			build: func(t *testing.T, s *escrow.Scenario, r *jtx.Account) (tx.Transaction, []*jtx.Account) {
				o := s.Accept()
				o.SellerReceive = s.BuyerPayment
				return o, []*jtx.Account{s.Buyer}
			},
			want: "tecSELLER_RECEIVE_MISMATCH",
		},
	})
}

func TestOfferCancel_Rejections(t *testing.T) {
	runRejections(t, []rejection{
		{
			name:    "unknown system program",
			created: true,
			build: func(t *testing.T, s *escrow.Scenario, r *jtx.Account) (tx.Transaction, []*jtx.Account) {
				o := s.Cancel()
				o.SystemProgram = strangerAddress()
				o.Account = r.Address
				return o, []*jtx.Account{r}
			},
			want: "temBAD_PROGRAM_ID",
		},
		{
			name: "no offer at escrow address",
			build: func(t *testing.T, s *escrow.Scenario, r *jtx.Account) (tx.Transaction, []*jtx.Account) {
				o := s.Cancel()
				o.Account = r.Address
				return o, []*jtx.Account{r}
			},
			want: "tecOFFER_NOT_FOUND",
		},
		{
			name:    "wrong tag",
			created: true,
			build: func(t *testing.T, s *escrow.Scenario, r *jtx.Account) (tx.Transaction, []*jtx.Account) {
				o := s.Cancel()
				o.Tag[5] ^= 1
				return o, []*jtx.Account{s.Seller}
			},
			want: "tecOFFER_NOT_FOUND",
		},
		{
			name:    "cancelled by the buyer",
			created: true,
			build: func(t *testing.T, s *escrow.Scenario, r *jtx.Account) (tx.Transaction, []*jtx.Account) {
				o := s.Cancel()
				o.Account = s.Buyer.Address
				o.Seller = s.Buyer.Address
				return o, []*jtx.Account{s.Buyer}
			},
			want: "tecSELLER_MISMATCH",
		},
		{
			name:    "seller temp mismatch",
			created: true,
			build: func(t *testing.T, s *escrow.Scenario, r *jtx.Account) (tx.Transaction, []*jtx.Account) {
				o := s.Cancel()
				o.SellerTemp = s.BuyerReceive
				o.Account = r.Address
				return o, []*jtx.Account{r}
			},
			want: "tecSELLER_TEMP_MISMATCH",
		},
		{
			name:    "seller receive mismatch",
			created: true,
			build: func(t *testing.T, s *escrow.Scenario, r *jtx.Account) (tx.Transaction, []*jtx.Account) {
				o := s.Cancel()
				o.SellerReceive = s.BuyerPayment
				return o, []*jtx.Account{s.Seller}
			},
			want: "tecSELLER_RECEIVE_MISMATCH",
		},
		{
			name:    "seller did not sign",
			created: true,
			build: func(t *testing.T, s *escrow.Scenario, r *jtx.Account) (tx.Transaction, []*jtx.Account) {
				o := s.Cancel()
				o.Account = r.Address
				return o, []*jtx.Account{r}
			},
			want: "tefMISSING_SIGNATURE",
		},
	})
}
