package idhash

import (
	"testing"
)

func TestComputeTradeID(t *testing.T) {
	tests := []struct {
		name       string
		source     string
		instrument string
		executedAt int64
		sequence   int
		wantLen    int // hash length should be 64
	}{
		{
			name:       "synthetic trade",
			source:     "synthetic",
			instrument: "SOL-PERP",
			executedAt: 1704067234567,
			sequence:   0,
			wantLen:    64,
		},
		{
			name:       "live fill without platform id",
			source:     "fill_feed",
			instrument: "ETH-PERP",
			executedAt: 1704067300000,
			sequence:   17,
			wantLen:    64,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTradeID(tt.source, tt.instrument, tt.executedAt, tt.sequence)

			if len(got) != tt.wantLen {
				t.Errorf("ComputeTradeID() length = %d, want %d", len(got), tt.wantLen)
			}

			// Verify determinism: same inputs should produce same output
			got2 := ComputeTradeID(tt.source, tt.instrument, tt.executedAt, tt.sequence)
			if got != got2 {
				t.Errorf("ComputeTradeID() not deterministic: %s != %s", got, got2)
			}
		})
	}
}

func TestComputeTradeID_Determinism(t *testing.T) {
	source := "synthetic"
	instrument := "SOL-PERP"
	executedAt := int64(1704067234567)
	sequence := 3

	// Compute multiple times
	results := make([]string, 10)
	for i := 0; i < 10; i++ {
		results[i] = ComputeTradeID(source, instrument, executedAt, sequence)
	}

	// All should be identical
	for i := 1; i < len(results); i++ {
		if results[i] != results[0] {
			t.Errorf("Determinism failed: results[%d]=%s != results[0]=%s", i, results[i], results[0])
		}
	}
}

func TestComputeTradeID_DifferentInputs(t *testing.T) {
	base := ComputeTradeID("synthetic", "SOL-PERP", 1000, 0)

	// Different source should produce different hash
	diffSource := ComputeTradeID("fill_feed", "SOL-PERP", 1000, 0)
	if base == diffSource {
		t.Error("Different source should produce different hash")
	}

	// Different instrument should produce different hash
	diffInstrument := ComputeTradeID("synthetic", "ETH-PERP", 1000, 0)
	if base == diffInstrument {
		t.Error("Different instrument should produce different hash")
	}

	// Different execution time should produce different hash
	diffTime := ComputeTradeID("synthetic", "SOL-PERP", 2000, 0)
	if base == diffTime {
		t.Error("Different execution time should produce different hash")
	}

	// Different sequence should produce different hash
	diffSeq := ComputeTradeID("synthetic", "SOL-PERP", 1000, 1)
	if base == diffSeq {
		t.Error("Different sequence should produce different hash")
	}
}
