package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cosmos/cosmos-sdk/version"

	"github.com/cosmos/ics20-swap/modules/apps/swap/types"
)

const (
	flagMemo           = "memo"
	flagSwapRoutes     = "swap-routes"
	flagMinOut         = "min-out"
	flagReturnToSender = "return-to-sender"
	flagJoinPool       = "join-pool"
	flagMinShares      = "min-shares"
	flagExitPool       = "exit-pool"
	flagLockDuration   = "lock-duration"
	flagUnlock         = "unlock"
)

// NewPacketDataCmd returns the command to build the packet data of a swap transfer
func NewPacketDataCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "packet-data [denom] [amount] [sender] [receiver]",
		Short: "Build the packet data of a swap transfer",
		Long: strings.TrimSpace(`Build and validate the JSON packet data of a swap transfer. Swap routes are given with the
{swap-routes} flag as a comma separated list of poolID/denom hops, the last denom being the swap output.
Instead of swapping, the tokens can join the pool given with the {join-pool} flag, or pool shares can be
redeemed for the denom given with the {exit-pool} flag.
The output can be locked on the receiving chain for the number of seconds given with the {lock-duration} flag.
A matured position is withdrawn by sending any token with the {unlock} flag set to the position id.`),
		Example: fmt.Sprintf("%s tx ics20-swap packet-data uatom 100 [sender] [receiver] --swap-routes 1/uosmo --min-out 90", version.AppName),
		Args:    cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			memo, err := cmd.Flags().GetString(flagMemo)
			if err != nil {
				return err
			}

			action, err := parseAction(cmd)
			if err != nil {
				return err
			}

			data := types.NewFungibleTokenPacketData(args[0], args[1], args[2], args[3], memo, action)
			if err := data.ValidateBasic(); err != nil {
				return err
			}

			cmd.Println(string(data.GetBytes()))
			return nil
		},
	}

	cmd.Flags().String(flagMemo, "", "Memo to be sent along with the packet.")
	cmd.Flags().String(flagSwapRoutes, "", "Swap routes in the form of a comma separated list of poolID/denom hops.")
	cmd.Flags().String(flagMinOut, "", "Minimum swap or exit pool output amount.")
	cmd.Flags().Bool(flagReturnToSender, false, "Send the swap output back to the sender.")
	cmd.Flags().Int64(flagJoinPool, -1, "Join the pool with the given id with the received tokens.")
	cmd.Flags().String(flagMinShares, "", "Minimum amount of pool shares when joining a pool.")
	cmd.Flags().String(flagExitPool, "", "Redeem the received pool shares for the given denom.")
	cmd.Flags().Uint64(flagLockDuration, 0, "Lock the received tokens for the given number of seconds.")
	cmd.Flags().Int64(flagUnlock, -1, "Withdraw the matured lockup position with the given id.")

	return cmd
}

// parseAction builds the packet action from the command flags or returns nil when no action flag is set.
func parseAction(cmd *cobra.Command) (*types.PacketAction, error) {
	var action types.PacketAction

	routes, err := parseSwapRoutes(cmd)
	if err != nil {
		return nil, err
	}
	if len(routes) > 0 {
		minOut, err := cmd.Flags().GetString(flagMinOut)
		if err != nil {
			return nil, err
		}

		returnToSender, err := cmd.Flags().GetBool(flagReturnToSender)
		if err != nil {
			return nil, err
		}

		action.Swap = &types.SwapAction{Routes: routes, TokenOutMinAmount: minOut, ReturnToSender: returnToSender}
	}

	joinPool, err := cmd.Flags().GetInt64(flagJoinPool)
	if err != nil {
		return nil, err
	}
	if joinPool >= 0 {
		minShares, err := cmd.Flags().GetString(flagMinShares)
		if err != nil {
			return nil, err
		}

		action.JoinPool = &types.JoinPoolAction{PoolID: uint64(joinPool), ShareOutMinAmount: minShares}
	}

	exitDenom, err := cmd.Flags().GetString(flagExitPool)
	if err != nil {
		return nil, err
	}
	if exitDenom != "" {
		minOut, err := cmd.Flags().GetString(flagMinOut)
		if err != nil {
			return nil, err
		}

		action.ExitPool = &types.ExitPoolAction{TokenOutDenom: exitDenom, TokenOutMinAmount: minOut}
	}

	duration, err := cmd.Flags().GetUint64(flagLockDuration)
	if err != nil {
		return nil, err
	}
	if duration > 0 {
		action.Lock = &types.LockAction{Duration: duration}
	}

	unlock, err := cmd.Flags().GetInt64(flagUnlock)
	if err != nil {
		return nil, err
	}
	if unlock >= 0 {
		action.Unlock = &types.UnlockAction{ID: uint64(unlock)}
	}

	if action == (types.PacketAction{}) {
		return nil, nil
	}

	return &action, nil
}

// parseSwapRoutes parses the swap routes flag. If the hops aren't in the poolID/denom format an error is returned.
func parseSwapRoutes(cmd *cobra.Command) ([]types.SwapRoute, error) {
	routesString, err := cmd.Flags().GetString(flagSwapRoutes)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(routesString) == "" {
		return nil, nil
	}

	var routes []types.SwapRoute
	for _, hop := range strings.Split(routesString, ",") {
		hopSplit := strings.SplitN(hop, "/", 2)
		if len(hopSplit) != 2 {
			return nil, fmt.Errorf("expected a poolID/denom pair, found %s", hop)
		}

		poolID, err := strconv.ParseUint(hopSplit[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid pool id in %s: %w", hop, err)
		}

		routes = append(routes, types.SwapRoute{PoolID: poolID, TokenOutDenom: hopSplit[1]})
	}

	return routes, nil
}
