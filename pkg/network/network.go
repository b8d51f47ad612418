// Package network maps EVM chain identifiers to canonical network names.
package network

const (
	ArbitrumOne = "ARBITRUM_ONE"
	Avalanche   = "AVALANCHE"
	Aurora      = "AURORA"
	Boba        = "BOBA"
	BSC         = "BSC"
	Celo        = "CELO"
	Fantom      = "FANTOM"
	Harmony     = "HARMONY"
	Mainnet     = "MAINNET"
	Matic       = "MATIC"
	Moonbeam    = "MOONBEAM"
	Moonriver   = "MOONRIVER"
	Optimism    = "OPTIMISM"
	XDai        = "XDAI"
	Unknown     = "UNKNOWN_NETWORK"
)

var byChainID = map[uint64]string{
	1:          Mainnet,
	10:         Optimism,
	56:         BSC,
	100:        XDai,
	137:        Matic,
	250:        Fantom,
	288:        Boba,
	1284:       Moonbeam,
	1285:       Moonriver,
	42161:      ArbitrumOne,
	42220:      Celo,
	43114:      Avalanche,
	1313161554: Aurora,
	1666600000: Harmony,
}

// FromChainID resolves a chain id to its canonical network name, returning
// Unknown for chains outside the table.
func FromChainID(chainID uint64) string {
	if name, ok := byChainID[chainID]; ok {
		return name
	}
	return Unknown
}

// Known reports whether the chain id maps to a canonical network name.
func Known(chainID uint64) bool {
	_, ok := byChainID[chainID]
	return ok
}
