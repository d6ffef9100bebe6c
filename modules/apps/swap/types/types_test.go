package types_test

import (
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
)

var (
	sender   = authtypes.NewModuleAddress("sender").String()
	receiver = "osmo1remoteaccountaddress"
)
