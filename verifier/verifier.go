// Package verifier recovers the signing identity of an assessment
// digest. It is a pure function of (digest, signature): no state, no
// registry knowledge. Whether the recovered identity is allowed to
// authorize settlements is the engine's decision.
package verifier

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// ErrSignatureLength is returned for signatures that are not the
// canonical 65 bytes of r || s || v.
var ErrSignatureLength = errors.New("invalid signature length: want 65 bytes")

// RecoverSigner returns the address whose key produced sig over the
// assessment digest. The digest is wrapped in the standard
// "\x19Ethereum Signed Message:\n" envelope before recovery, matching
// what signing authorities apply on their side. A signature that does
// not verify does not necessarily error: recovery over a tampered
// digest yields some unrelated address, and it is up to the caller to
// find that address unregistered.
//
// The recovery id v is accepted both raw (0/1) and legacy-offset
// (27/28).
func RecoverSigner(digest common.Hash, sig []byte) (common.Address, error) {
	if len(sig) != crypto.SignatureLength {
		return common.Address{}, ErrSignatureLength
	}
	fixed := make([]byte, crypto.SignatureLength)
	copy(fixed, sig)
	if fixed[crypto.RecoveryIDOffset] >= 27 {
		fixed[crypto.RecoveryIDOffset] -= 27
	}

	pub, err := crypto.SigToPub(accounts.TextHash(digest.Bytes()), fixed)
	if err != nil {
		return common.Address{}, fmt.Errorf("signature recovery failed: %v", err)
	}
	return crypto.PubkeyToAddress(*pub), nil
}
