package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ComputeTradeID computes a deterministic trade_id using SHA256.
// Formula: SHA256(token_address|side|entry_time_ms)
// Returns hex-encoded hash (64 characters).
//
// A token can only have one open position at a time, so the entry
// timestamp disambiguates successive round trips on the same token.
func ComputeTradeID(tokenAddress, side string, entryTimeMs int64) string {
	data := fmt.Sprintf("%s|%s|%d", tokenAddress, side, entryTimeMs)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
