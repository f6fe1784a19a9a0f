package safemigrate

import (
	"context"
	"fmt"
	"io"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/nlordell/safe-migrate/internal/builder"
	"github.com/nlordell/safe-migrate/internal/encoder"
	"github.com/nlordell/safe-migrate/pkg/confirm"
	"github.com/nlordell/safe-migrate/pkg/hdwallet"
	"github.com/nlordell/safe-migrate/pkg/signer"
	"github.com/nlordell/safe-migrate/pkg/types"
)

// safeVersion is the only legacy contract version this tool migrates.
const safeVersion = "1.1.1"

// legacy Safes created by the mobile app have three owners (the
// device key plus the two recovery keys) and a threshold of one.
const (
	legacyOwnerCount = 3
	legacyThreshold  = 1
)

// Prompter supplies interactive user input for a migration run.
type Prompter interface {
	// ReadSecret reads a line without echoing it.
	ReadSecret(prompt string) (string, error)
	// Confirm asks for a confirmation and returns the raw response.
	Confirm(prompt string) (string, error)
}

// Migrator drives a single Safe ownership migration: derive the
// recovery keys, estimate gas through the relay, walk the confirmation
// gate, sign, and submit. Each run owns its key material exclusively
// and discards it on any exit path.
type Migrator struct {
	client  *Client
	config  NetworkConfig
	prompts Prompter
	out     io.Writer
}

func NewMigrator(network Network, prompts Prompter, out io.Writer) (*Migrator, error) {
	config, err := GetNetworkConfig(network)
	if err != nil {
		return nil, err
	}
	return &Migrator{
		client:  NewClient(config.RelayURL),
		config:  config,
		prompts: prompts,
		out:     out,
	}, nil
}

// SetClient allows overriding the relay client, e.g. to point at a
// non-standard relay URL.
func (m *Migrator) SetClient(client *Client) {
	if client != nil {
		m.client = client
	}
}

// Run executes the migration pipeline and returns the relay's
// acceptance. Any error aborts the entire run; nothing is ever
// submitted partially, and a rerun starts over from estimation.
func (m *Migrator) Run(ctx context.Context, safe, newOwner common.Address, gasToken *common.Address) (*SubmitResponse, error) {
	phrase, err := m.prompts.ReadSecret("Legacy Safe recovery phrase")
	if err != nil {
		return nil, fmt.Errorf("read recovery phrase: %w", err)
	}

	primary, secondary, err := hdwallet.DeriveRecoveryKeys(phrase)
	if err != nil {
		return nil, err
	}
	defer primary.Zero()
	defer secondary.Zero()

	fmt.Fprintf(m.out, "Using Safe %s\n", safe.Hex())
	fmt.Fprintf(m.out, "Using Recovery accounts:\n")
	fmt.Fprintf(m.out, "  - %s\n", primary.Address().Hex())
	fmt.Fprintf(m.out, "  - %s\n", secondary.Address().Hex())

	info, err := m.client.GetSafeInfo(ctx, safe)
	if err != nil {
		return nil, err
	}
	if err := verifySafe(info, primary.Address(), secondary.Address()); err != nil {
		return nil, err
	}

	data, err := encoder.AddOwnerWithThreshold(newOwner, big.NewInt(int64(info.Threshold)))
	if err != nil {
		return nil, err
	}

	estimate, err := m.client.EstimateTransaction(ctx, &types.EstimateRequest{
		Safe:      safe,
		To:        safe,
		Value:     0,
		Data:      hexutil.Encode(data),
		Operation: types.OperationCall,
		GasToken:  gasToken,
	})
	if err != nil {
		return nil, err
	}
	if estimate.LastUsedNonce != nil && *estimate.LastUsedNonce+1 != info.Nonce {
		return nil, fmt.Errorf(
			"%w: stale nonce (last used %d, Safe at %d)",
			types.ErrInvalidEstimate, *estimate.LastUsedNonce, info.Nonce,
		)
	}

	tx := builder.NewSafeTransaction(safe, data, estimate, info.Nonce)
	hash, err := builder.SafeTransactionHash(safe, tx)
	if err != nil {
		return nil, err
	}

	if err := m.confirmTransaction(safe, newOwner, tx, hash); err != nil {
		return nil, err
	}

	recoverySigner, err := signer.New(primary.PrivateKey())
	if err != nil {
		return nil, err
	}
	sig, err := recoverySigner.SignTransactionHash(hash)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(m.out, "Using signature %s\n", sig)

	resp, err := m.client.SubmitTransaction(ctx, builder.BuildSubmitRequest(safe, tx, sig))
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(m.out, "Transaction successfully relayed:\n")
	fmt.Fprintf(m.out, "%s\n", resp.ExplorerLink(m.config))
	return resp, nil
}

// confirmTransaction walks the full confirmation gate, displaying the
// assembled transaction before the fourth stage. Signing only happens
// once the gate is armed.
func (m *Migrator) confirmTransaction(safe, newOwner common.Address, tx *types.SafeTransaction, hash [32]byte) error {
	gate := confirm.NewGate()
	for !gate.Armed() {
		stage := gate.Pending()
		if stage == confirm.StateConfirmStillSure {
			m.displayTransaction(tx, hash)
		}

		response, err := m.prompts.Confirm(stagePrompt(stage, safe, newOwner))
		if err != nil {
			return fmt.Errorf("read confirmation: %w", err)
		}
		if _, err := gate.Confirm(response); err != nil {
			return err
		}
		if gate.Aborted() {
			return fmt.Errorf("%w at stage %q", types.ErrUserAborted, stage)
		}
	}
	return nil
}

func stagePrompt(stage confirm.State, safe, newOwner common.Address) string {
	switch stage {
	case confirm.StateConfirmOwnerAddition:
		return fmt.Sprintf("About to add %s as an owner (yes to continue)", newOwner.Hex())
	case confirm.StateConfirmSafeTarget:
		return fmt.Sprintf("Are you sure, this will add a new owner to the Safe %s", safe.Hex())
	case confirm.StateConfirmAbsolutely:
		return "Are you absolutely sure!"
	case confirm.StateConfirmStillSure:
		return "Are you still 100% sure"
	case confirm.StateConfirmPositively:
		return "Are absolutely positively undoubtedly sure"
	default:
		return stage.String()
	}
}

func (m *Migrator) displayTransaction(tx *types.SafeTransaction, hash [32]byte) {
	fmt.Fprintf(m.out, "  to: %s\n", tx.To.Hex())
	fmt.Fprintf(m.out, "  value: %s\n", tx.Value)
	fmt.Fprintf(m.out, "  data: %s\n", hexutil.Encode(tx.Data))
	fmt.Fprintf(m.out, "  operation: %s\n", tx.Operation)
	fmt.Fprintf(m.out, "  safe transaction gas: %s\n", tx.SafeTxGas)
	fmt.Fprintf(m.out, "  base gas: %s\n", tx.BaseGas)
	fmt.Fprintf(m.out, "  gas price: %s\n", tx.GasPrice)
	fmt.Fprintf(m.out, "  gas token: %s\n", displayAddress(tx.GasToken))
	fmt.Fprintf(m.out, "  refund receiver: %s\n", displayAddress(tx.RefundReceiver))
	fmt.Fprintf(m.out, "  nonce: %d\n", tx.Nonce)
	fmt.Fprintf(m.out, "  hash: %s\n", hexutil.Encode(hash[:]))
}

func verifySafe(info *types.SafeInfo, recoveryAddresses ...common.Address) error {
	if info.Version != safeVersion {
		return fmt.Errorf("%w: unsupported version %q", types.ErrUnsupportedSafe, info.Version)
	}
	if len(info.Owners) != legacyOwnerCount || info.Threshold != legacyThreshold {
		return fmt.Errorf(
			"%w: %d owners with threshold %d",
			types.ErrUnsupportedSafe, len(info.Owners), info.Threshold,
		)
	}
	for _, address := range recoveryAddresses {
		if !info.HasOwner(address) {
			return types.ErrWrongRecoveryPhrase
		}
	}
	return nil
}

func displayAddress(address *common.Address) string {
	if address == nil {
		return "-"
	}
	return address.Hex()
}
