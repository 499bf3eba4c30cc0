package fees

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// ErrInvalidAddress indicates a token address that is not a 20-byte hex string
// or whose mixed-case form fails the EIP-55 checksum.
var ErrInvalidAddress = errors.New("fees: invalid address")

// ParseAddress canonicalises a hex token address. All-lowercase and
// all-uppercase inputs are accepted as-is; mixed-case inputs must carry a valid
// checksum.
func ParseAddress(raw string) (common.Address, error) {
	trimmed := strings.TrimSpace(raw)
	if !common.IsHexAddress(trimmed) {
		return common.Address{}, fmt.Errorf("%w: %q", ErrInvalidAddress, raw)
	}
	addr := common.HexToAddress(trimmed)
	body := strings.TrimPrefix(strings.TrimPrefix(trimmed, "0x"), "0X")
	if body != strings.ToLower(body) && body != strings.ToUpper(body) {
		if addr.Hex()[2:] != body {
			return common.Address{}, fmt.Errorf("%w: checksum mismatch for %q", ErrInvalidAddress, raw)
		}
	}
	return addr, nil
}

// MustParseAddress is ParseAddress for compile-time constants.
func MustParseAddress(raw string) common.Address {
	addr, err := ParseAddress(raw)
	if err != nil {
		panic(err)
	}
	return addr
}
