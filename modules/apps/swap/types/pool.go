package types

import (
	"fmt"
	"strconv"
	"strings"

	errorsmod "cosmossdk.io/errors"
)

// PoolSharePrefix prefixes the denomination of pool shares, followed by the pool id.
const PoolSharePrefix = "gamm/pool/"

// PoolShareDenom returns the denomination of the shares of pool poolID.
func PoolShareDenom(poolID uint64) string {
	return fmt.Sprintf("%s%d", PoolSharePrefix, poolID)
}

// ParsePoolShareDenom returns the pool id of a pool share denomination.
func ParsePoolShareDenom(denom string) (uint64, error) {
	id, found := strings.CutPrefix(denom, PoolSharePrefix)
	if !found {
		return 0, errorsmod.Wrapf(ErrInvalidPoolShares, "denom %s", denom)
	}

	poolID, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		return 0, errorsmod.Wrapf(ErrInvalidPoolShares, "denom %s: %s", denom, err)
	}

	return poolID, nil
}
