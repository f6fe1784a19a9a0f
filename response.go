package safemigrate

import "github.com/ethereum/go-ethereum/common"

// SubmitResponse is the relay's acknowledgement of a submitted
// transaction. The transaction hash is the terminal reference for this
// tool; confirmation tracking happens on a chain explorer.
type SubmitResponse struct {
	TxHash common.Hash `json:"txHash"`
}

// TransactionReference returns the relayed transaction's hash.
func (r *SubmitResponse) TransactionReference() string {
	return r.TxHash.Hex()
}

// ExplorerLink renders an explorer URL for the relayed transaction.
func (r *SubmitResponse) ExplorerLink(config NetworkConfig) string {
	return config.ExplorerURL + "/tx/" + r.TxHash.Hex()
}
