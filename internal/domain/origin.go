package domain

// DataOrigin tags a projection with the provenance of the trade history
// its parameters were estimated from.
type DataOrigin string

const (
	// OriginRealData means parameters were estimated from actual account history.
	OriginRealData DataOrigin = "real_data"
	// OriginSyntheticFallback means the upstream history source was unavailable
	// and synthetic trades were substituted.
	OriginSyntheticFallback DataOrigin = "synthetic_fallback"
)

// String returns the string representation of DataOrigin.
func (o DataOrigin) String() string {
	return string(o)
}

// IsValid checks if the origin is a valid value.
func (o DataOrigin) IsValid() bool {
	return o == OriginRealData || o == OriginSyntheticFallback
}
