package types

import "errors"

var (
	// ErrInvalidSeedPhrase indicates a recovery phrase that fails the
	// BIP-39 wordlist or checksum validation.
	ErrInvalidSeedPhrase = errors.New("invalid recovery seed phrase")

	// ErrRelayUnreachable indicates a transport-level failure talking to
	// the relay service. Safe to retry by re-running the migration.
	ErrRelayUnreachable = errors.New("relay service unreachable")

	// ErrRelayRejected indicates the relay service reported a semantic
	// failure (unknown Safe, stale nonce, unsupported gas token, bad
	// signature). The migration must restart from estimation.
	ErrRelayRejected = errors.New("relay service rejected the request")

	// ErrInvalidEstimate indicates a relay estimate that failed shape or
	// range validation and was discarded.
	ErrInvalidEstimate = errors.New("invalid relay estimate")

	// ErrSigningIntegrity indicates the produced signature did not
	// recover to the signing address. Never expected in normal operation.
	ErrSigningIntegrity = errors.New("signature integrity check failed")

	// ErrUserAborted indicates the user declined a confirmation stage.
	ErrUserAborted = errors.New("aborted")

	// ErrUnsupportedSafe indicates the target Safe is not a legacy
	// v1.1.1 Safe with the expected owner layout.
	ErrUnsupportedSafe = errors.New("unsupported Safe configuration")

	// ErrWrongRecoveryPhrase indicates the derived recovery addresses
	// are not owners of the target Safe.
	ErrWrongRecoveryPhrase = errors.New("recovery phrase is not for this Safe")

	// ErrUnsupportedNetwork indicates no relay service is configured for
	// the requested network.
	ErrUnsupportedNetwork = errors.New("network is not supported")
)
