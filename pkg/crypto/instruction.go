package crypto

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

// Domain is the EIP-712 domain separator for instruction signing. It
// prevents an instruction signed for one deployment (chain/contract) from
// being replayed against another.
type Domain struct {
	Name              string
	Version           string
	ChainID           *big.Int
	VerifyingContract common.Address
}

// DefaultDomain is the domain used by a single-deployment node.
func DefaultDomain() Domain {
	return Domain{
		Name:              "Encore",
		Version:           "1",
		ChainID:           big.NewInt(1),
		VerifyingContract: common.Address{},
	}
}

// Field describes one EIP-712 typed field of an instruction.
type Field struct {
	Name string
	Type string
}

// InstructionSchema describes the shape of one instruction type for
// typed-data hashing: its EIP-712 type name and ordered field list. Each
// signed instruction declares its own schema once (in pkg/rpc/schemas.go),
// and one
// generic hashing path serves all of them rather than special-casing
// individual instruction names.
type InstructionSchema struct {
	PrimaryType string
	Fields      []Field
}

// InstructionSigner hashes, signs and verifies any instruction matching an
// InstructionSchema under a single EIP-712 domain.
type InstructionSigner struct {
	domain Domain
}

// NewInstructionSigner creates a signer bound to domain.
func NewInstructionSigner(domain Domain) *InstructionSigner {
	return &InstructionSigner{domain: domain}
}

func (s *InstructionSigner) apiTypes(schema InstructionSchema) apitypes.Types {
	fields := make([]apitypes.Type, len(schema.Fields))
	for i, f := range schema.Fields {
		fields[i] = apitypes.Type{Name: f.Name, Type: f.Type}
	}
	return apitypes.Types{
		"EIP712Domain": []apitypes.Type{
			{Name: "name", Type: "string"},
			{Name: "version", Type: "string"},
			{Name: "chainId", Type: "uint256"},
			{Name: "verifyingContract", Type: "address"},
		},
		schema.PrimaryType: fields,
	}
}

// Hash computes the EIP-712 digest of message under schema:
// keccak256("\x19\x01" || domainSeparator || hashStruct(message)).
func (s *InstructionSigner) Hash(schema InstructionSchema, message apitypes.TypedDataMessage) ([]byte, error) {
	typedData := apitypes.TypedData{
		Types:       s.apiTypes(schema),
		PrimaryType: schema.PrimaryType,
		Domain: apitypes.TypedDataDomain{
			Name:              s.domain.Name,
			Version:           s.domain.Version,
			ChainId:           (*math.HexOrDecimal256)(s.domain.ChainID),
			VerifyingContract: s.domain.VerifyingContract.Hex(),
		},
		Message: message,
	}

	domainSeparator, err := typedData.HashStruct("EIP712Domain", typedData.Domain.Map())
	if err != nil {
		return nil, fmt.Errorf("hash domain: %w", err)
	}
	messageHash, err := typedData.HashStruct(schema.PrimaryType, typedData.Message)
	if err != nil {
		return nil, fmt.Errorf("hash message: %w", err)
	}

	rawData := append([]byte("\x19\x01"), domainSeparator...)
	rawData = append(rawData, messageHash...)
	digest := crypto.Keccak256Hash(rawData)
	return digest.Bytes(), nil
}

// Sign hashes message under schema and signs it with signer.
func (s *InstructionSigner) Sign(signer *Signer, schema InstructionSchema, message apitypes.TypedDataMessage) ([]byte, error) {
	hash, err := s.Hash(schema, message)
	if err != nil {
		return nil, fmt.Errorf("hash instruction: %w", err)
	}
	sig, err := signer.Sign(hash)
	if err != nil {
		return nil, fmt.Errorf("sign instruction: %w", err)
	}
	return sig, nil
}

// Verify checks that signature over message was produced by want.
func (s *InstructionSigner) Verify(schema InstructionSchema, message apitypes.TypedDataMessage, signature []byte, want common.Address) (bool, error) {
	hash, err := s.Hash(schema, message)
	if err != nil {
		return false, fmt.Errorf("hash instruction: %w", err)
	}
	recovered, err := RecoverAddress(hash, signature)
	if err != nil {
		return false, fmt.Errorf("recover signer: %w", err)
	}
	return recovered == want, nil
}

// RecoverSigner recovers the address that produced signature over message.
func (s *InstructionSigner) RecoverSigner(schema InstructionSchema, message apitypes.TypedDataMessage, signature []byte) (common.Address, error) {
	hash, err := s.Hash(schema, message)
	if err != nil {
		return common.Address{}, fmt.Errorf("hash instruction: %w", err)
	}
	return RecoverAddress(hash, signature)
}
