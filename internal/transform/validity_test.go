package transform

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

// TestCompressValidityPatternRoundTrip checks P6: decompressing a compressed
// pattern reproduces the exact input date set, for the section 8 scenario 4
// worked example.
func TestCompressValidityPatternRoundTrip(t *testing.T) {
	dates := []time.Time{
		mustDate("2020-01-06"), // Mon
		mustDate("2020-01-07"), // Tue
		mustDate("2020-01-13"), // Mon
		mustDate("2020-01-21"), // Tue
	}

	vp, err := CompressValidityPattern(dates)
	require.NoError(t, err)

	assert.True(t, vp.Start.Equal(mustDate("2020-01-06")))
	assert.True(t, vp.End.Equal(mustDate("2020-01-21")))

	got := Decompress(vp)
	require.Len(t, got, len(dates))
	for i, d := range dates {
		assert.True(t, got[i].Equal(d), "index %d: got %v, want %v", i, got[i], d)
	}
}

// TestCompressValidityPatternUnambiguousReference covers a single full week
// where the Hamming-minimizing mask is unambiguous, independent of the
// smaller-popcount tie-break rule.
func TestCompressValidityPatternUnambiguousReference(t *testing.T) {
	dates := []time.Time{
		mustDate("2021-03-01"), // Mon
		mustDate("2021-03-02"), // Tue
		mustDate("2021-03-03"), // Wed
	}
	vp, err := CompressValidityPattern(dates)
	require.NoError(t, err)
	assert.Equal(t, weekdayBit(mustDate("2021-03-01"))|weekdayBit(mustDate("2021-03-02"))|weekdayBit(mustDate("2021-03-03")), vp.Reference)
	assert.Empty(t, vp.Additions)
	assert.Empty(t, vp.Removals)
	assert.True(t, vp.Start.Equal(mustDate("2021-03-01")))
	assert.True(t, vp.End.Equal(mustDate("2021-03-03")))
}

// TestCompressValidityPatternClipsToDataRange guards against reintroducing
// the bug where additions/removals leaked outside [min(D), max(D)]: the
// reported window must never extend past the true first/last active date,
// even when that date isn't a Monday.
func TestCompressValidityPatternClipsToDataRange(t *testing.T) {
	dates := []time.Time{
		mustDate("2021-03-03"), // Wed
		mustDate("2021-03-17"), // Wed, two weeks later
	}
	vp, err := CompressValidityPattern(dates)
	require.NoError(t, err)
	assert.True(t, vp.Start.Equal(mustDate("2021-03-03")))
	assert.True(t, vp.End.Equal(mustDate("2021-03-17")))
	for _, d := range append(vp.Additions, vp.Removals...) {
		assert.False(t, d.Before(vp.Start), "exception %v precedes Start", d)
		assert.False(t, d.After(vp.End), "exception %v follows End", d)
	}

	got := Decompress(vp)
	require.Len(t, got, len(dates))
	for i, d := range dates {
		assert.True(t, got[i].Equal(d))
	}
}

func TestCompressValidityPatternEmptyInput(t *testing.T) {
	_, err := CompressValidityPattern(nil)
	assert.Error(t, err)
}
