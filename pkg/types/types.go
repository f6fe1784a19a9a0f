package types

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/nlordell/safe-migrate/internal/utils"
)

// Operation is a Safe transaction operation kind.
type Operation uint8

const (
	OperationCall Operation = 0
)

func (o Operation) String() string {
	switch o {
	case OperationCall:
		return "call"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(o))
	}
}

// BigInt is a non-negative integer that marshals as a JSON number and
// accepts either a number or a decimal string when unmarshaling. The
// relay service returns gas amounts as strings but expects them back
// as numbers.
type BigInt big.Int

func NewBigInt(value int64) *BigInt {
	return (*BigInt)(big.NewInt(value))
}

func (b *BigInt) Int() *big.Int {
	return (*big.Int)(b)
}

func (b *BigInt) String() string {
	return b.Int().String()
}

func (b *BigInt) MarshalJSON() ([]byte, error) {
	if b == nil {
		return []byte("null"), nil
	}
	return []byte(b.Int().String()), nil
}

func (b *BigInt) UnmarshalJSON(data []byte) error {
	value := strings.Trim(strings.TrimSpace(string(data)), `"`)
	parsed, err := utils.ParseBigInt(value)
	if err != nil {
		return err
	}
	b.Int().Set(parsed)
	return nil
}

// SafeInfo describes a Safe as reported by the relay service.
type SafeInfo struct {
	Nonce     uint64           `json:"nonce"`
	Threshold int              `json:"threshold"`
	Owners    []common.Address `json:"owners"`
	Version   string           `json:"version"`
}

// HasOwner reports whether the given address is a current Safe owner.
func (i *SafeInfo) HasOwner(address common.Address) bool {
	for _, owner := range i.Owners {
		if owner == address {
			return true
		}
	}
	return false
}

// EstimateRequest is the relay gas estimation request payload.
type EstimateRequest struct {
	Safe      common.Address  `json:"safe"`
	To        common.Address  `json:"to"`
	Value     uint64          `json:"value"`
	Data      string          `json:"data"`
	Operation Operation       `json:"operation"`
	GasToken  *common.Address `json:"gasToken,omitempty"`
}

// RelayEstimate is a gas estimate returned by the relay service. It is
// untrusted input and must pass Validate before its fields are folded
// into a transaction to be signed.
type RelayEstimate struct {
	SafeTxGas      *BigInt         `json:"safeTxGas"`
	BaseGas        *BigInt         `json:"baseGas"`
	GasPrice       *BigInt         `json:"gasPrice"`
	LastUsedNonce  *uint64         `json:"lastUsedNonce"`
	GasToken       *common.Address `json:"gasToken"`
	RefundReceiver *common.Address `json:"refundReceiver"`
}

// Validate range-checks the estimate. The Safe contract refunds the
// relayer based on these values, so a zero or negative gas amount can
// only be a service bug and must never be signed.
func (e *RelayEstimate) Validate() error {
	if e.SafeTxGas == nil || e.SafeTxGas.Int().Sign() <= 0 {
		return fmt.Errorf("%w: safeTxGas must be positive", ErrInvalidEstimate)
	}
	if e.GasPrice == nil || e.GasPrice.Int().Sign() <= 0 {
		return fmt.Errorf("%w: gasPrice must be positive", ErrInvalidEstimate)
	}
	if e.BaseGas == nil || e.BaseGas.Int().Sign() < 0 {
		return fmt.Errorf("%w: baseGas must not be negative", ErrInvalidEstimate)
	}
	return nil
}

// SafeTransaction is a fully assembled Safe transaction, ready to be
// hashed and signed.
type SafeTransaction struct {
	To             common.Address
	Value          *big.Int
	Data           []byte
	Operation      Operation
	SafeTxGas      *big.Int
	BaseGas        *big.Int
	GasPrice       *big.Int
	GasToken       *common.Address
	RefundReceiver *common.Address
	Nonce          uint64
}

// Signature is a recoverable secp256k1 signature in electrum notation
// (v is 27 or 28).
type Signature struct {
	V uint8
	R [32]byte
	S [32]byte
}

// MarshalJSON encodes r and s as arbitrary-precision decimal numbers,
// the encoding the relay service expects.
func (s Signature) MarshalJSON() ([]byte, error) {
	r := new(big.Int).SetBytes(s.R[:])
	v := new(big.Int).SetBytes(s.S[:])
	return json.Marshal(struct {
		V uint8           `json:"v"`
		R json.RawMessage `json:"r"`
		S json.RawMessage `json:"s"`
	}{
		V: s.V,
		R: json.RawMessage(r.String()),
		S: json.RawMessage(v.String()),
	})
}

func (s Signature) String() string {
	return fmt.Sprintf("0x%x%x%02x", s.R, s.S, s.V)
}

// SignedSafeTransaction is the relay submission payload. The base gas
// field is named dataGas on the wire for historical reasons.
type SignedSafeTransaction struct {
	Safe           common.Address  `json:"safe"`
	To             common.Address  `json:"to"`
	Value          *BigInt         `json:"value"`
	Data           string          `json:"data"`
	Operation      Operation       `json:"operation"`
	GasToken       *common.Address `json:"gasToken"`
	SafeTxGas      *BigInt         `json:"safeTxGas"`
	DataGas        *BigInt         `json:"dataGas"`
	GasPrice       *BigInt         `json:"gasPrice"`
	RefundReceiver *common.Address `json:"refundReceiver"`
	Nonce          uint64          `json:"nonce"`
	Signatures     []Signature     `json:"signatures"`
}
