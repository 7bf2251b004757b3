package compression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateBands(t *testing.T) {
	tests := []struct {
		name    string
		bands   []Band
		wantErr error
	}{
		{"empty", nil, nil},
		{"single", []Band{{Start: 0, End: 50, Level: LevelCompress}}, nil},
		{"adjacent", []Band{
			{Start: 0, End: 30, Level: LevelHeavyCompress},
			{Start: 30, End: 70, Level: LevelCompress},
		}, nil},
		{"unsorted adjacent", []Band{
			{Start: 50, End: 100, Level: LevelCompress},
			{Start: 0, End: 50, Level: LevelHeavyCompress},
		}, nil},
		{"start equals end", []Band{{Start: 40, End: 40, Level: LevelCompress}}, ErrInvalidBand},
		{"start above end", []Band{{Start: 60, End: 40, Level: LevelCompress}}, ErrInvalidBand},
		{"negative start", []Band{{Start: -1, End: 40, Level: LevelCompress}}, ErrInvalidBand},
		{"end above 100", []Band{{Start: 0, End: 101, Level: LevelCompress}}, ErrInvalidBand},
		{"bad level", []Band{{Start: 0, End: 50, Level: "squash"}}, ErrInvalidLevel},
		{"overlap", []Band{
			{Start: 0, End: 40, Level: LevelCompress},
			{Start: 30, End: 70, Level: LevelHeavyCompress},
		}, ErrOverlappingBand},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBands(tt.bands)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestMapTurnsToBands(t *testing.T) {
	levels, err := MapTurnsToBands(10, []Band{
		{Start: 0, End: 30, Level: LevelHeavyCompress},
		{Start: 30, End: 70, Level: LevelCompress},
	})
	require.NoError(t, err)

	want := []Level{
		LevelHeavyCompress, LevelHeavyCompress, LevelHeavyCompress,
		LevelCompress, LevelCompress, LevelCompress, LevelCompress,
		"", "", "",
	}
	assert.Equal(t, want, levels)
}

func TestMapTurnsToBandsSmallCount(t *testing.T) {
	// Floor arithmetic: 3 turns under a [0,50) band covers turn 0 only.
	levels, err := MapTurnsToBands(3, []Band{{Start: 0, End: 50, Level: LevelCompress}})
	require.NoError(t, err)
	assert.Equal(t, []Level{LevelCompress, "", ""}, levels)
}

func TestMapTurnsToBandsFullRange(t *testing.T) {
	levels, err := MapTurnsToBands(4, []Band{{Start: 0, End: 100, Level: LevelHeavyCompress}})
	require.NoError(t, err)
	for _, level := range levels {
		assert.Equal(t, LevelHeavyCompress, level)
	}
}

func TestMapTurnsToBandsZeroTurns(t *testing.T) {
	levels, err := MapTurnsToBands(0, []Band{{Start: 0, End: 100, Level: LevelCompress}})
	require.NoError(t, err)
	assert.Empty(t, levels)
}

func TestMapTurnsToBandsInvalid(t *testing.T) {
	_, err := MapTurnsToBands(10, []Band{{Start: 20, End: 10, Level: LevelCompress}})
	assert.ErrorIs(t, err, ErrInvalidBand)
}
