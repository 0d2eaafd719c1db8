// Package render holds the small pure decision functions the rendering
// host consults: when to chunk a large document and how wide the reader
// column may be.
package render

import "math"

const (
	// ChunkHTMLThreshold is the HTML length above which rendering must
	// yield between chunks even outside performance mode.
	ChunkHTMLThreshold = 180000

	// ChunkNodesPerYield is the fixed chunk size when chunking is active.
	ChunkNodesPerYield = 24

	// MinReaderWidthCh is the floor for the derived reader column width.
	MinReaderWidthCh = 20
)

// ShouldChunk reports whether a render of htmlLength bytes must be split
// into interruptible chunks.
func ShouldChunk(performanceMode bool, htmlLength int) bool {
	return performanceMode || htmlLength > ChunkHTMLThreshold
}

// WidthMetrics are the measurements used to derive the maximum reader
// width in characters.
type WidthMetrics struct {
	AvailableWidthPx float64
	PaddingPx        float64
	CharWidthPx      float64
	FallbackMax      int
}

// DeriveWidthMax computes the widest reader column the viewport allows.
// Any non-finite or non-positive metric falls back to FallbackMax.
func DeriveWidthMax(m WidthMetrics) int {
	for _, v := range []float64{m.AvailableWidthPx, m.PaddingPx, m.CharWidthPx} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return m.FallbackMax
		}
	}
	derived := int(math.Floor((m.AvailableWidthPx - m.PaddingPx) / m.CharWidthPx))
	if derived < MinReaderWidthCh {
		return MinReaderWidthCh
	}
	return derived
}

// ReconcileOnMaxChange adjusts the current reader width when the maximum
// changes. A width pinned to the old maximum stays pinned to the new one
// when keepAtMax is requested; otherwise the width is clamped into range.
func ReconcileOnMaxChange(currentWidth, previousMax, nextMax int, keepAtMax bool) int {
	if keepAtMax && currentWidth == previousMax {
		return nextMax
	}
	if currentWidth > nextMax {
		return nextMax
	}
	return currentWidth
}
