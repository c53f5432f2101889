package tool

import (
	"sort"
	"sync"
)

// DefaultSizeIndex is the preset picked when nothing else is configured.
const DefaultSizeIndex = 2

var (
	sizesMu sync.RWMutex
	sizes   = []float64{4, 8, 16, 32, 64}
)

// Sizes returns a copy of the brush size presets.
func Sizes() []float64 {
	sizesMu.RLock()
	defer sizesMu.RUnlock()
	out := make([]float64, len(sizes))
	copy(out, sizes)
	return out
}

// SizeAt returns the preset at idx, clamped to the valid range.
func SizeAt(idx int) float64 {
	sizesMu.RLock()
	defer sizesMu.RUnlock()
	if len(sizes) == 0 {
		return 1
	}
	return sizes[clamp(idx, len(sizes))]
}

// ClampSizeIndex clamps idx into the preset range.
func ClampSizeIndex(idx int) int {
	sizesMu.RLock()
	defer sizesMu.RUnlock()
	return clamp(idx, len(sizes))
}

// EnsureSize adds size to the presets if needed and returns its index.
func EnsureSize(size float64) int {
	if size < 1 {
		size = 1
	}
	sizesMu.Lock()
	defer sizesMu.Unlock()
	for i, s := range sizes {
		if s == size {
			return i
		}
	}
	sizes = append(sizes, size)
	sort.Float64s(sizes)
	for i, s := range sizes {
		if s == size {
			return i
		}
	}
	return 0
}

func clamp(idx, n int) int {
	if n == 0 || idx < 0 {
		return 0
	}
	if idx >= n {
		return n - 1
	}
	return idx
}
