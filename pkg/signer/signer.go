// Package signer produces relay-compatible recoverable signatures over
// Safe transaction hashes.
package signer

import (
	"crypto/ecdsa"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/nlordell/safe-migrate/pkg/types"
)

// RecoverySigner signs Safe transaction hashes with a recovery key.
type RecoverySigner struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

func New(key *ecdsa.PrivateKey) (*RecoverySigner, error) {
	if key == nil {
		return nil, errors.New("signing key is required")
	}
	return &RecoverySigner{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
	}, nil
}

func (s *RecoverySigner) Address() common.Address {
	return s.address
}

// SignTransactionHash signs the 32-byte Safe transaction hash and
// returns the signature in electrum notation (v is 27 or 28). The
// signature is verified by recovering the signing address from it
// before it is returned; the Safe contract performs the identical
// recovery on-chain, so a mismatch here would mean certain rejection.
func (s *RecoverySigner) SignTransactionHash(hash [32]byte) (types.Signature, error) {
	raw, err := crypto.Sign(hash[:], s.key)
	if err != nil {
		return types.Signature{}, fmt.Errorf("sign transaction hash: %w", err)
	}

	recovered, err := crypto.SigToPub(hash[:], raw)
	if err != nil {
		return types.Signature{}, fmt.Errorf("%w: %v", types.ErrSigningIntegrity, err)
	}
	if crypto.PubkeyToAddress(*recovered) != s.address {
		return types.Signature{}, fmt.Errorf(
			"%w: recovered %s, want %s",
			types.ErrSigningIntegrity, crypto.PubkeyToAddress(*recovered).Hex(), s.address.Hex(),
		)
	}

	var sig types.Signature
	copy(sig.R[:], raw[0:32])
	copy(sig.S[:], raw[32:64])
	sig.V = raw[64] + 27
	return sig, nil
}

// RecoverAddress recovers the signing address from a transaction hash
// and signature.
func RecoverAddress(hash [32]byte, sig types.Signature) (common.Address, error) {
	if sig.V != 27 && sig.V != 28 {
		return common.Address{}, fmt.Errorf("invalid signature v: %d", sig.V)
	}

	raw := make([]byte, 65)
	copy(raw[0:32], sig.R[:])
	copy(raw[32:64], sig.S[:])
	raw[64] = sig.V - 27

	recovered, err := crypto.SigToPub(hash[:], raw)
	if err != nil {
		return common.Address{}, fmt.Errorf("recover address: %w", err)
	}
	return crypto.PubkeyToAddress(*recovered), nil
}
