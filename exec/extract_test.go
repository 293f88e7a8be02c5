package exec

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonwraymond/dotools/script"
)

func TestExtractRange_AllValidRanges(t *testing.T) {
	lines := script.Lines(twentyLines())
	n := len(lines)
	require.Equal(t, 20, n)

	for start := 1; start <= n; start++ {
		for end := start; end <= n; end++ {
			got, err := ExtractRange(lines, start, end)
			require.NoError(t, err)
			require.Len(t, got, end-start+1)

			for i, l := range got {
				assert.Equal(t, start+i, l.Number)
				assert.Equal(t, lines[start+i-1], l.Text)
			}
		}
	}
}

func TestExtractRange_Invalid(t *testing.T) {
	lines := script.Lines(twentyLines())

	tests := []struct {
		name       string
		start, end int
		reason     RangeReason
	}{
		{"start zero", 0, 5, ReasonStartBelowOne},
		{"start negative", -3, 5, ReasonStartBelowOne},
		{"start after end", 8, 5, ReasonStartAfterEnd},
		{"end past eof", 5, 21, ReasonEndPastEOF},
		{"both past eof", 21, 25, ReasonEndPastEOF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractRange(lines, tt.start, tt.end)
			assert.Nil(t, got, "no partial result")
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidRange)

			var rangeErr *RangeError
			require.True(t, errors.As(err, &rangeErr))
			assert.Equal(t, tt.reason, rangeErr.Reason)
		})
	}
}

func TestExtractRange_EmptyScript(t *testing.T) {
	_, err := ExtractRange(nil, 1, 1)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestRangeError_Messages(t *testing.T) {
	assert.Contains(t, (&RangeError{Start: 8, End: 5, Reason: ReasonStartAfterEnd}).Error(), "start line 8 is after end line 5")
	assert.Contains(t, (&RangeError{Start: 1, End: 30, Total: 20, Reason: ReasonEndPastEOF}).Error(), "exceeds file length of 20")
	assert.Contains(t, (&RangeError{Start: 0, End: 3, Reason: ReasonStartBelowOne}).Error(), "at least 1")
}
