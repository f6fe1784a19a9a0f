package builder

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	"github.com/nlordell/safe-migrate/pkg/types"
)

// NewSafeTransaction folds a validated relay estimate into an add-owner
// Safe transaction. The transaction is immutable once confirmed; a
// stale nonce means a fresh estimate, never a patched transaction.
func NewSafeTransaction(safe common.Address, data []byte, estimate *types.RelayEstimate, nonce uint64) *types.SafeTransaction {
	return &types.SafeTransaction{
		To:             safe,
		Value:          big.NewInt(0),
		Data:           data,
		Operation:      types.OperationCall,
		SafeTxGas:      estimate.SafeTxGas.Int(),
		BaseGas:        estimate.BaseGas.Int(),
		GasPrice:       estimate.GasPrice.Int(),
		GasToken:       estimate.GasToken,
		RefundReceiver: estimate.RefundReceiver,
		Nonce:          nonce,
	}
}

// SafeTransactionHash computes the EIP-712 signing hash the Safe
// contract itself computes in checkSignatures. The v1.1.1 contracts
// use a domain containing only the verifying contract address; the
// chain is bound through the Safe's deployed address.
func SafeTransactionHash(safe common.Address, tx *types.SafeTransaction) ([32]byte, error) {
	domain := apitypes.TypedDataDomain{
		VerifyingContract: safe.Hex(),
	}
	typesMap := apitypes.Types{
		"EIP712Domain": {
			{Name: "verifyingContract", Type: "address"},
		},
		"SafeTx": {
			{Name: "to", Type: "address"},
			{Name: "value", Type: "uint256"},
			{Name: "data", Type: "bytes"},
			{Name: "operation", Type: "uint8"},
			{Name: "safeTxGas", Type: "uint256"},
			{Name: "baseGas", Type: "uint256"},
			{Name: "gasPrice", Type: "uint256"},
			{Name: "gasToken", Type: "address"},
			{Name: "refundReceiver", Type: "address"},
			{Name: "nonce", Type: "uint256"},
		},
	}
	message := apitypes.TypedDataMessage{
		"to":             tx.To.Hex(),
		"value":          hexOrDecimal(tx.Value),
		"data":           hexutil.Encode(tx.Data),
		"operation":      hexOrDecimal(big.NewInt(int64(tx.Operation))),
		"safeTxGas":      hexOrDecimal(tx.SafeTxGas),
		"baseGas":        hexOrDecimal(tx.BaseGas),
		"gasPrice":       hexOrDecimal(tx.GasPrice),
		"gasToken":       addressOrZero(tx.GasToken).Hex(),
		"refundReceiver": addressOrZero(tx.RefundReceiver).Hex(),
		"nonce":          hexOrDecimal(new(big.Int).SetUint64(tx.Nonce)),
	}

	typedData := apitypes.TypedData{
		Types:       typesMap,
		PrimaryType: "SafeTx",
		Domain:      domain,
		Message:     message,
	}

	hash, _, err := apitypes.TypedDataAndHash(typedData)
	if err != nil {
		return [32]byte{}, fmt.Errorf("hash safe tx: %w", err)
	}

	var out [32]byte
	copy(out[:], hash)
	return out, nil
}

// BuildSubmitRequest assembles the relay submission payload for a
// signed transaction.
func BuildSubmitRequest(safe common.Address, tx *types.SafeTransaction, sig types.Signature) *types.SignedSafeTransaction {
	return &types.SignedSafeTransaction{
		Safe:           safe,
		To:             tx.To,
		Value:          (*types.BigInt)(tx.Value),
		Data:           hexutil.Encode(tx.Data),
		Operation:      tx.Operation,
		GasToken:       tx.GasToken,
		SafeTxGas:      (*types.BigInt)(tx.SafeTxGas),
		DataGas:        (*types.BigInt)(tx.BaseGas),
		GasPrice:       (*types.BigInt)(tx.GasPrice),
		RefundReceiver: tx.RefundReceiver,
		Nonce:          tx.Nonce,
		Signatures:     []types.Signature{sig},
	}
}

func hexOrDecimal(value *big.Int) *math.HexOrDecimal256 {
	if value == nil {
		value = big.NewInt(0)
	}
	return (*math.HexOrDecimal256)(value)
}

func addressOrZero(address *common.Address) common.Address {
	if address == nil {
		return common.Address{}
	}
	return *address
}
