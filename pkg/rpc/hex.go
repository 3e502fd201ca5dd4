package rpc

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	encorecrypto "github.com/encoreprotocol/encore/pkg/crypto"
)

// decodeAddress parses a "0x"-prefixed 20-byte address via
// common.IsHexAddress.
func decodeAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("invalid address %q", s)
	}
	return common.HexToAddress(s), nil
}

// decodeHash32 parses a "0x"-prefixed 32-byte value into a fixed array,
// used for commitments, nullifier/ticket addresses and random seeds.
func decodeHash32(s string) ([32]byte, error) {
	var out [32]byte
	b, err := hexutil.Decode(s)
	if err != nil {
		return out, fmt.Errorf("invalid hex %q: %w", s, err)
	}
	if len(b) != 32 {
		return out, fmt.Errorf("expected 32 bytes, got %d for %q", len(b), s)
	}
	copy(out[:], b)
	return out, nil
}

func decodeEncoreHash(s string) (encorecrypto.Hash, error) {
	b, err := decodeHash32(s)
	return encorecrypto.Hash(b), err
}

func decodeSecret(s string) (encorecrypto.Secret, error) {
	b, err := decodeHash32(s)
	return encorecrypto.Secret(b), err
}

func encodeHash32(b [32]byte) string {
	return hexutil.Encode(b[:])
}

// decodeSignature parses a "0x"-prefixed 65-byte [R || S || V] signature,
// the format InstructionSigner.Verify expects.
func decodeSignature(s string) ([]byte, error) {
	b, err := hexutil.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("invalid signature %q: %w", s, err)
	}
	if len(b) != 65 {
		return nil, fmt.Errorf("expected 65-byte signature, got %d", len(b))
	}
	return b, nil
}
