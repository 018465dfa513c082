// Package authoritypk handles fiscal authority public keys. A PubKey
// decouples the key type from the raw bytes so the registry and the
// genesis format stay usable if a second signature scheme is ever
// admitted.
package authoritypk

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// PubKey is a typed authority public key.
type PubKey struct {
	Type uint8
	Raw  []byte
}

// Types enumerates the supported key types.
var Types = struct {
	Secp256k1 uint8
}{
	Secp256k1: 0xc0,
}

// Empty reports whether the key is uninitialized.
func (pk PubKey) Empty() bool {
	return len(pk.Raw) == 0 && pk.Type == 0
}

func (pk PubKey) String() string {
	return "0x" + common.Bytes2Hex(pk.Bytes())
}

// Bytes returns [type byte] + [raw bytes].
func (pk PubKey) Bytes() []byte {
	return append([]byte{pk.Type}, pk.Raw...)
}

// Copy returns a deep copy.
func (pk PubKey) Copy() PubKey {
	return PubKey{
		Type: pk.Type,
		Raw:  common.CopyBytes(pk.Raw),
	}
}

// Address derives the address of a Secp256k1 key. The raw bytes must
// be the 65-byte uncompressed point.
func (pk PubKey) Address() (common.Address, error) {
	if pk.Type != Types.Secp256k1 {
		return common.Address{}, errors.New("unsupported pubkey type")
	}
	pub, err := crypto.UnmarshalPubkey(pk.Raw)
	if err != nil {
		return common.Address{}, err
	}
	return crypto.PubkeyToAddress(*pub), nil
}

// FromString parses a hex string, with or without the 0x prefix.
func FromString(str string) (PubKey, error) {
	return FromBytes(common.FromHex(str))
}

// FromBytes parses [type byte] + [raw bytes].
func FromBytes(b []byte) (PubKey, error) {
	if len(b) == 0 {
		return PubKey{}, errors.New("empty pubkey")
	}
	return PubKey{b[0], b[1:]}, nil
}

// MarshalText implements encoding.TextMarshaler.
func (pk *PubKey) MarshalText() ([]byte, error) {
	return []byte(pk.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (pk *PubKey) UnmarshalText(input []byte) error {
	res, err := FromString(string(input))
	if err != nil {
		return err
	}
	*pk = res
	return nil
}
