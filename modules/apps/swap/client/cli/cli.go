package cli

import (
	"github.com/spf13/cobra"

	"github.com/cosmos/cosmos-sdk/client"
)

// GetQueryCmd returns the query commands for IBC swap transfers
func GetQueryCmd() *cobra.Command {
	queryCmd := &cobra.Command{
		Use:                        "ics20-swap",
		Short:                      "IBC swap transfer query subcommands",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	queryCmd.AddCommand(
		GetCmdQueryEscrowAddress(),
		GetCmdQueryDenomHash(),
		GetCmdDecodeAcknowledgement(),
	)

	return queryCmd
}

// GetTxCmd returns the transaction commands for IBC swap transfers
func GetTxCmd() *cobra.Command {
	txCmd := &cobra.Command{
		Use:                        "ics20-swap",
		Short:                      "IBC swap transfer transaction subcommands",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	txCmd.AddCommand(
		NewPacketDataCmd(),
	)

	return txCmd
}
