package domain

import (
	"errors"
	"fmt"

	"github.com/mr-tron/base58"
)

// ErrInvalidAddress is returned for token addresses that are not
// well-formed base58-encoded 32-byte mints.
var ErrInvalidAddress = errors.New("invalid token address")

// ValidateTokenAddress checks that addr decodes as a 32-byte base58 mint.
func ValidateTokenAddress(addr string) error {
	if addr == "" {
		return fmt.Errorf("%w: empty", ErrInvalidAddress)
	}
	raw, err := base58.Decode(addr)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidAddress, addr)
	}
	if len(raw) != 32 {
		return fmt.Errorf("%w: %s (%d bytes)", ErrInvalidAddress, addr, len(raw))
	}
	return nil
}
