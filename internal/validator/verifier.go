package validator

import (
	"encoding/hex"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// Verifier answers whether a signature authenticates a message for a claimed
// owner identity. Malformed inputs verify false, they never raise.
type Verifier interface {
	Verify(message []byte, signature string, owner string) bool
}

// ECDSAVerifier checks hex-encoded DER secp256k1 signatures over the
// double-SHA256 of the message.
type ECDSAVerifier struct{}

func (ECDSAVerifier) Verify(message []byte, signature string, owner string) bool {
	pkb, err := hex.DecodeString(owner)
	if err != nil {
		return false
	}
	pub, err := btcec.ParsePubKey(pkb)
	if err != nil {
		return false
	}
	sigb, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	sig, err := ecdsa.ParseDERSignature(sigb)
	if err != nil {
		return false
	}
	return sig.Verify(chainhash.DoubleHashB(message), pub)
}
