package utils

import (
	"bytes"
	"sort"
)

// SortBytes returns an ascending copy of the given byte-slice keys. The input
// is left untouched.
func SortBytes[K ~[]byte](keys []K) []K {
	out := make([]K, len(keys))
	copy(out, keys)
	sort.Slice(out, func(i, j int) bool {
		return bytes.Compare(out[i], out[j]) < 0
	})
	return out
}

// SortByReference permutes values so they follow the reordering that took
// original to sorted: the value attached to original[j] ends up at the
// position sorted places original[j] at. It is a permutation of one array by
// the sort order of another, not an independent sort.
func SortByReference[K ~[]byte, T any](sorted, original []K, values []T) []T {
	out := make([]T, len(values))
	for i := range sorted {
		out[i] = values[indexOfBytes(original, sorted[i])]
	}
	return out
}

func indexOfBytes[K ~[]byte](arr []K, target K) int {
	for i := range arr {
		if bytes.Equal(arr[i], target) {
			return i
		}
	}
	return -1
}
