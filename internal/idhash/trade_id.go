package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ComputeTradeID computes a deterministic trade_id using SHA256.
// Formula: SHA256(source|instrument|executed_at|sequence)
// Returns hex-encoded hash (64 characters).
//
// Synthetic trades and live fills arriving without a platform-assigned ID
// both use this, so re-ingesting the same fill maps to the same key.
func ComputeTradeID(
	source string,
	instrument string,
	executedAt int64,
	sequence int,
) string {
	data := fmt.Sprintf("%s|%s|%d|%d",
		source,
		instrument,
		executedAt,
		sequence,
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
