package pkg

import (
	"encoding/hex"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
)

// OwnerAddress renders a hex-encoded public key as a mainnet pay-to-pubkey
// address for display purposes.
func OwnerAddress(pubKeyHex string) (string, error) {
	data, err := hex.DecodeString(pubKeyHex)
	if err != nil {
		return "", err
	}
	addr, err := btcutil.NewAddressPubKey(data, &chaincfg.MainNetParams)
	if err != nil {
		return "", err
	}
	return addr.EncodeAddress(), nil
}
