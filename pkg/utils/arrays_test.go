package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortBytes(t *testing.T) {
	keys := [][]byte{{0x0b}, {0x0a}, {0x0c}}

	sorted := SortBytes(keys)
	assert.Equal(t, [][]byte{{0x0a}, {0x0b}, {0x0c}}, sorted)
	// Input untouched.
	assert.Equal(t, [][]byte{{0x0b}, {0x0a}, {0x0c}}, keys)
}

func TestSortByReference(t *testing.T) {
	original := [][]byte{{0x0b}, {0x0a}}
	values := []string{"attached-to-b", "attached-to-a"}

	sorted := SortBytes(original)
	out := SortByReference(sorted, original, values)

	// The value follows its key, it is not sorted on its own.
	assert.Equal(t, []string{"attached-to-a", "attached-to-b"}, out)
}

func TestSortByReferenceKeepsPairing(t *testing.T) {
	original := [][]byte{{0x03}, {0x01}, {0x02}}
	amounts := []int{30, 10, 20}
	usd := []float64{3.0, 1.0, 2.0}

	sorted := SortBytes(original)
	gotAmounts := SortByReference(sorted, original, amounts)
	gotUSD := SortByReference(sorted, original, usd)

	assert.Equal(t, []int{10, 20, 30}, gotAmounts)
	assert.Equal(t, []float64{1.0, 2.0, 3.0}, gotUSD)
}
