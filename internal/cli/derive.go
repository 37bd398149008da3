package cli

import (
	"encoding/hex"
	"fmt"

	"github.com/LeJamon/goEscrowd/internal/codec/instruction"
	"github.com/LeJamon/goEscrowd/internal/core/tx/escrow"
	"github.com/LeJamon/goEscrowd/internal/core/tx/sle"
	"github.com/LeJamon/goEscrowd/internal/core/types"
	"github.com/spf13/cobra"
)

// offerFlags are the terms shared by derive and encode-offer
type offerFlags struct {
	offeredAsset  string
	offeredQty    uint64
	demandedAsset string
	demandedQty   uint64
	tag           string
}

func (f *offerFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.offeredAsset, "offered-asset", "", "mint of the offered asset")
	cmd.Flags().Uint64Var(&f.offeredQty, "offered-qty", 0, "quantity offered")
	cmd.Flags().StringVar(&f.demandedAsset, "demanded-asset", "", "mint of the demanded asset")
	cmd.Flags().Uint64Var(&f.demandedQty, "demanded-qty", 0, "quantity demanded")
	cmd.Flags().StringVar(&f.tag, "tag", "", "offer tag, hex, at most 28 bytes")
	_ = cmd.MarkFlagRequired("offered-asset")
	_ = cmd.MarkFlagRequired("demanded-asset")
}

func (f *offerFlags) parse() (sle.OfferDescriptor, types.Tag, error) {
	var offer sle.OfferDescriptor
	var err error
	if offer.AssetOffered, err = types.ParseAddress(f.offeredAsset); err != nil {
		return offer, types.Tag{}, fmt.Errorf("--offered-asset: %w", err)
	}
	if offer.AssetDemanded, err = types.ParseAddress(f.demandedAsset); err != nil {
		return offer, types.Tag{}, fmt.Errorf("--demanded-asset: %w", err)
	}
	offer.QtyOffered = f.offeredQty
	offer.QtyDemanded = f.demandedQty

	tag, err := types.ParseTag(f.tag)
	if err != nil {
		return offer, types.Tag{}, fmt.Errorf("--tag: %w", err)
	}
	return offer, tag, nil
}

var (
	deriveFlags offerFlags
	encodeFlags offerFlags
)

var deriveCmd = &cobra.Command{
	Use:   "derive",
	Short: "Print the escrow authority address for an offer",
	Long: `Derive the program-derived address that holds the seller's tokens for
the given offer terms and tag. The escrow program id comes from the
[engine] configuration.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		offer, tag, err := deriveFlags.parse()
		if err != nil {
			return err
		}
		engine, err := cfg.Engine.TxConfig()
		if err != nil {
			return err
		}
		auth, err := escrow.DeriveAuthority(offer, tag, engine.EscrowProgramID)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "program:   %s\n", engine.EscrowProgramID)
		fmt.Fprintf(out, "authority: %s\n", auth.Address)
		fmt.Fprintf(out, "bump:      %d\n", auth.Bump)
		return nil
	},
}

var encodeOfferCmd = &cobra.Command{
	Use:   "encode-offer",
	Short: "Print the hex instruction data that creates an offer",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		offer, tag, err := encodeFlags.parse()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(instruction.NewOffer(offer, tag).Encode()))
		return nil
	},
}

func init() {
	deriveFlags.register(deriveCmd)
	encodeFlags.register(encodeOfferCmd)
	rootCmd.AddCommand(deriveCmd)
	rootCmd.AddCommand(encodeOfferCmd)
}
