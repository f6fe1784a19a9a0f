package utils

import (
	"fmt"
	"math/big"
	"strings"
)

func ParseBigInt(value string) (*big.Int, error) {
	if value == "" {
		return big.NewInt(0), nil
	}
	clean := strings.TrimSpace(value)
	base := 10
	if strings.HasPrefix(clean, "0x") || strings.HasPrefix(clean, "0X") {
		base = 0
	}
	v, ok := new(big.Int).SetString(clean, base)
	if !ok {
		return nil, fmt.Errorf("invalid integer: %s", value)
	}
	return v, nil
}
