package telemetry

import (
	"fmt"

	"github.com/hashicorp/go-metrics"

	sdkmath "cosmossdk.io/math"

	"github.com/cosmos/cosmos-sdk/telemetry"
	sdk "github.com/cosmos/cosmos-sdk/types"

	coremetrics "github.com/cosmos/ibc-go/v10/modules/core/metrics"

	"github.com/cosmos/ics20-swap/modules/apps/swap/types"
)

func ReportTransfer(sourcePort, sourceChannel, destinationPort, destinationChannel string, fullDenomPath string, amount sdkmath.Int) {
	labels := []metrics.Label{
		telemetry.NewLabel(coremetrics.LabelDestinationPort, destinationPort),
		telemetry.NewLabel(coremetrics.LabelDestinationChannel, destinationChannel),
	}

	if amount.IsInt64() {
		telemetry.SetGaugeWithLabels(
			[]string{"tx", "msg", "ibc", types.ModuleName},
			float32(amount.Int64()),
			[]metrics.Label{telemetry.NewLabel(coremetrics.LabelDenom, fullDenomPath)},
		)
	}

	labels = append(labels, telemetry.NewLabel(coremetrics.LabelSource, fmt.Sprintf("%t", types.SenderChainIsSource(sourcePort, sourceChannel, fullDenomPath))))

	telemetry.IncrCounterWithLabels(
		[]string{"ibc", types.ModuleName, "send"},
		1,
		labels,
	)
}

func ReportOnRecvPacket(sourcePort, sourceChannel string, data types.FungibleTokenPacketData) {
	labels := []metrics.Label{
		telemetry.NewLabel(coremetrics.LabelSourcePort, sourcePort),
		telemetry.NewLabel(coremetrics.LabelSourceChannel, sourceChannel),
	}

	// Transfer amount has already been parsed in caller.
	amount := data.GetAmount()
	if amount.IsInt64() {
		telemetry.SetGaugeWithLabels(
			[]string{"ibc", types.ModuleName, "packet", "receive"},
			float32(amount.Int64()),
			[]metrics.Label{telemetry.NewLabel(coremetrics.LabelDenom, data.Denom)},
		)
	}

	labels = append(labels, telemetry.NewLabel(coremetrics.LabelSource, fmt.Sprintf("%t", types.ReceiverChainIsSource(sourcePort, sourceChannel, data.Denom))))

	telemetry.IncrCounterWithLabels(
		[]string{"ibc", types.ModuleName, "receive"},
		1,
		labels,
	)
}

// ReportRefund counts reversals of failed or timed out sends.
func ReportRefund(sourcePort, sourceChannel, reason string) {
	telemetry.IncrCounterWithLabels(
		[]string{"ibc", types.ModuleName, "refund"},
		1,
		[]metrics.Label{
			telemetry.NewLabel(coremetrics.LabelSourcePort, sourcePort),
			telemetry.NewLabel(coremetrics.LabelSourceChannel, sourceChannel),
			telemetry.NewLabel("reason", reason),
		},
	)
}

// ReportActionDowngrade counts receive actions that failed and fell back to a plain credit.
func ReportActionDowngrade(action string) {
	telemetry.IncrCounterWithLabels(
		[]string{"ibc", types.ModuleName, "action", "downgrade"},
		1,
		[]metrics.Label{telemetry.NewLabel("action", action)},
	)
}

// ReportSwap records the output of a swap executed on receive.
func ReportSwap(tokenOut sdk.Coin) {
	if tokenOut.Amount.IsInt64() {
		telemetry.SetGaugeWithLabels(
			[]string{"ibc", types.ModuleName, "swap", "out"},
			float32(tokenOut.Amount.Int64()),
			[]metrics.Label{telemetry.NewLabel(coremetrics.LabelDenom, tokenOut.Denom)},
		)
	}
}

// ReportPoolAction records the output of a pool join or exit executed on receive.
func ReportPoolAction(action string, tokenOut sdk.Coin) {
	if tokenOut.Amount.IsInt64() {
		telemetry.SetGaugeWithLabels(
			[]string{"ibc", types.ModuleName, action, "out"},
			float32(tokenOut.Amount.Int64()),
			[]metrics.Label{telemetry.NewLabel(coremetrics.LabelDenom, tokenOut.Denom)},
		)
	}
}
