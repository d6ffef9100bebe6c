package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cosmos/cosmos-sdk/version"

	channeltypes "github.com/cosmos/ibc-go/v10/modules/core/04-channel/types"

	"github.com/cosmos/ics20-swap/modules/apps/swap/types"
)

// GetCmdQueryEscrowAddress returns the command to get the escrow address of a channel
func GetCmdQueryEscrowAddress() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "escrow-address [port-id] [channel-id]",
		Short:   "Get the escrow address for a channel",
		Long:    "Get the escrow account address holding the tokens sent over a channel",
		Example: fmt.Sprintf("%s query ics20-swap escrow-address [port-id] [channel-id]", version.AppName),
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			port, channel := args[0], args[1]
			if !channeltypes.IsValidChannelID(channel) {
				return fmt.Errorf("invalid channel identifier %s", channel)
			}

			addr := types.GetEscrowAddress(port, channel)
			cmd.Println(addr.String())
			return nil
		},
	}

	return cmd
}

// GetCmdQueryDenomHash returns the command to compute the ibc denom of a denomination trace
func GetCmdQueryDenomHash() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "denom-hash [trace]",
		Short:   "Get the denom hash of a denomination trace",
		Long:    "Get the ibc/{hash} denomination vouchers of the given trace are minted under",
		Example: fmt.Sprintf("%s query ics20-swap denom-hash transfer/channel-0/uatom", version.AppName),
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			trace := types.ParseDenomTrace(args[0])
			if err := trace.Validate(); err != nil {
				return err
			}

			cmd.Println(trace.IBCDenom())
			return nil
		},
	}

	return cmd
}

// GetCmdDecodeAcknowledgement returns the command to decode the result of a swap packet
// acknowledgement
func GetCmdDecodeAcknowledgement() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode-ack [result]",
		Short: "Decode the result carried by a successful acknowledgement",
		Long: strings.TrimSpace(`Decode the JSON result body of a successful acknowledgement. Plain transfers are
acknowledged with the single byte 1 and carry no action result.`),
		Example: fmt.Sprintf(`%s query ics20-swap decode-ack '{"action":"swap","amount":"99","denom":"uosmo"}'`, version.AppName),
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := types.ParseActionResult([]byte(args[0]))
			if err != nil {
				return err
			}

			cmd.Println(string(result.GetBytes()))
			return nil
		},
	}

	return cmd
}
