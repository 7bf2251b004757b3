package compression

import (
	"fmt"
	"sort"
)

// ValidateBands checks that every band has start < end within 0-100 and
// that bands are pairwise non-overlapping once sorted by start. Invalid
// configuration fails the whole operation before anything mutates.
func ValidateBands(bands []Band) error {
	for _, band := range bands {
		if band.Start < 0 || band.End > 100 || band.Start >= band.End {
			return fmt.Errorf("%w: [%d,%d)", ErrInvalidBand, band.Start, band.End)
		}
		if band.Level != LevelCompress && band.Level != LevelHeavyCompress {
			return fmt.Errorf("%w: %q", ErrInvalidLevel, band.Level)
		}
	}

	sorted := make([]Band, len(bands))
	copy(sorted, bands)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	for i := 1; i < len(sorted); i++ {
		if sorted[i].Start < sorted[i-1].End {
			return fmt.Errorf("%w: [%d,%d) and [%d,%d)",
				ErrOverlappingBand,
				sorted[i-1].Start, sorted[i-1].End,
				sorted[i].Start, sorted[i].End)
		}
	}
	return nil
}

// MapTurnsToBands converts percentage bands into per-turn levels. The
// returned slice has one element per turn; "" means the turn is in no
// band. Each band covers the inclusive-exclusive turn-index range
// [turnCount*start/100, turnCount*end/100).
func MapTurnsToBands(turnCount int, bands []Band) ([]Level, error) {
	if err := ValidateBands(bands); err != nil {
		return nil, err
	}

	levels := make([]Level, turnCount)
	for _, band := range bands {
		from := turnCount * band.Start / 100
		to := turnCount * band.End / 100
		for i := from; i < to && i < turnCount; i++ {
			levels[i] = band.Level
		}
	}
	return levels, nil
}
