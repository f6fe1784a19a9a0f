package encoder

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

var ownerManagerABI abi.ABI

func init() {
	const ownerManagerJSON = `[{"constant":false,"inputs":[{"name":"owner","type":"address"},{"name":"_threshold","type":"uint256"}],"name":"addOwnerWithThreshold","outputs":[],"payable":false,"stateMutability":"nonpayable","type":"function"}]`
	if err := json.Unmarshal([]byte(ownerManagerJSON), &ownerManagerABI); err != nil {
		panic(fmt.Sprintf("invalid owner manager abi: %v", err))
	}
}

// AddOwnerWithThreshold encodes the Safe OwnerManager call that adds
// an owner while keeping the given signature threshold. Selector
// 0x0d582f13. Pure function of its inputs; never touches the network.
func AddOwnerWithThreshold(owner common.Address, threshold *big.Int) ([]byte, error) {
	if threshold == nil || threshold.Sign() <= 0 {
		return nil, fmt.Errorf("invalid threshold: %v", threshold)
	}
	data, err := ownerManagerABI.Pack("addOwnerWithThreshold", owner, threshold)
	if err != nil {
		return nil, fmt.Errorf("pack addOwnerWithThreshold: %w", err)
	}
	return data, nil
}
