package safemigrate

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Safe relay service endpoints.

func SafeInfoEndpoint(safe common.Address) string {
	return fmt.Sprintf("/v1/safes/%s/", endpointAddress(safe))
}

func EstimateEndpoint(safe common.Address) string {
	return fmt.Sprintf("/v2/safes/%s/transactions/estimate/", endpointAddress(safe))
}

func SubmitEndpoint(safe common.Address) string {
	return fmt.Sprintf("/v1/safes/%s/transactions/", endpointAddress(safe))
}

func endpointAddress(address common.Address) string {
	return strings.ToLower(address.Hex())
}
