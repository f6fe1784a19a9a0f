// Package hdwallet derives the legacy Safe recovery keys from a BIP-39
// seed phrase.
//
// The legacy mobile app generated two owner accounts from the recovery
// phrase using the standard Ethereum BIP-44 paths m/44'/60'/0'/0/0 and
// m/44'/60'/0'/0/1 with an empty BIP-39 passphrase. Both keys are
// derived here so ownership of the phrase can be verified against the
// Safe's owner list; only the first key signs.
package hdwallet

import (
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	bip39 "github.com/tyler-smith/go-bip39"

	"github.com/nlordell/safe-migrate/pkg/types"
)

const (
	purpose  = 44
	coinEth  = 60
	account  = 0
	external = 0
)

// KeyPair holds one derived recovery key and its address. Key material
// lives only for the duration of a migration run; call Zero once the
// key is no longer needed.
type KeyPair struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

func (k *KeyPair) Address() common.Address {
	return k.address
}

// PrivateKey returns the live signing key. Callers must not retain the
// returned pointer past the key pair's lifetime.
func (k *KeyPair) PrivateKey() *ecdsa.PrivateKey {
	return k.key
}

// Zero wipes the private scalar and detaches the key.
func (k *KeyPair) Zero() {
	if k.key == nil {
		return
	}
	bits := k.key.D.Bits()
	for i := range bits {
		bits[i] = 0
	}
	k.key.D.SetInt64(0)
	k.key = nil
}

// DeriveRecoveryKeys validates the seed phrase and derives both legacy
// recovery key pairs. Deterministic: the same phrase always yields the
// same two key pairs.
func DeriveRecoveryKeys(phrase string) (primary, secondary *KeyPair, err error) {
	phrase = normalizePhrase(phrase)
	if !bip39.IsMnemonicValid(phrase) {
		return nil, nil, types.ErrInvalidSeedPhrase
	}

	seed := bip39.NewSeed(phrase, "")
	defer zeroBytes(seed)

	master, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, nil, fmt.Errorf("derive master key: %w", err)
	}
	defer master.Zero()

	primary, err = deriveKey(master, 0)
	if err != nil {
		return nil, nil, err
	}
	secondary, err = deriveKey(master, 1)
	if err != nil {
		primary.Zero()
		return nil, nil, err
	}
	return primary, secondary, nil
}

// deriveKey walks m/44'/60'/0'/0/index from the master key.
func deriveKey(master *hdkeychain.ExtendedKey, index uint32) (*KeyPair, error) {
	steps := []uint32{
		hdkeychain.HardenedKeyStart + purpose,
		hdkeychain.HardenedKeyStart + coinEth,
		hdkeychain.HardenedKeyStart + account,
		external,
		index,
	}

	key := master
	for _, step := range steps {
		child, err := key.Derive(step)
		if err != nil {
			return nil, fmt.Errorf("derive key at index %d: %w", index, err)
		}
		if key != master {
			key.Zero()
		}
		key = child
	}
	defer key.Zero()

	privKey, err := key.ECPrivKey()
	if err != nil {
		return nil, fmt.Errorf("extract private key: %w", err)
	}
	secret := privKey.Serialize()
	defer zeroBytes(secret)

	ecdsaKey, err := crypto.ToECDSA(secret)
	if err != nil {
		return nil, fmt.Errorf("convert private key: %w", err)
	}

	return &KeyPair{
		key:     ecdsaKey,
		address: crypto.PubkeyToAddress(ecdsaKey.PublicKey),
	}, nil
}

func normalizePhrase(phrase string) string {
	return strings.Join(strings.Fields(phrase), " ")
}

func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
