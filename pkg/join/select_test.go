package join

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kasuganosora/autojoin/pkg/api"
	"github.com/kasuganosora/autojoin/pkg/types"
)

func TestDynamicThreshold(t *testing.T) {
	tests := []struct {
		name      string
		mainRows  int
		otherRows int
		want      float64
	}{
		{"equal sizes", 100, 100, 1.0},
		{"other half of main", 100, 50, 0.5},
		{"other third of main", 90, 30, 0.3},
		{"other larger than main", 50, 100, 1.0},
		{"rounded down to one decimal", 3, 2, 0.6},
		{"empty tables", 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, dynamicThreshold(tt.mainRows, tt.otherRows), 1e-9)
		})
	}
}

func TestSelectKeysBasic(t *testing.T) {
	s := testSession(t, Options{})
	scores := []types.CandidateScore{
		{LeftColumn: "a", RightColumn: "x", OverlapRatio: 0.3},
		{LeftColumn: "b", RightColumn: "y", OverlapRatio: 0.9},
	}

	// threshold = floor(50/100*10)/10 = 0.5, only b<->y passes
	plan, err := s.selectKeys(scores, 100, 50, false, "other")
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, plan.LeftKeys)
	assert.Equal(t, []string{"y"}, plan.RightKeys)
}

func TestSelectKeysNoCandidate(t *testing.T) {
	s := testSession(t, Options{})
	scores := []types.CandidateScore{
		{LeftColumn: "a", RightColumn: "x", OverlapRatio: 0.2},
	}

	_, err := s.selectKeys(scores, 100, 100, false, "other")
	require.Error(t, err)
	assert.True(t, api.IsKind(err, api.KindSchema))

	_, err = s.selectKeys(nil, 100, 100, false, "other")
	require.Error(t, err)
	assert.True(t, api.IsKind(err, api.KindSchema))
}

func TestSelectKeysGreedyUniqueAssignment(t *testing.T) {
	s := testSession(t, Options{})
	// Both left columns point at the same right column; only the better
	// one may claim it.
	scores := []types.CandidateScore{
		{LeftColumn: "a", RightColumn: "x", OverlapRatio: 1.0},
		{LeftColumn: "b", RightColumn: "x", OverlapRatio: 0.9},
	}

	plan, err := s.selectKeys(scores, 10, 10, false, "other")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, plan.LeftKeys)
	assert.Equal(t, []string{"x"}, plan.RightKeys)
}

func TestSelectKeysMultipleKeyPairs(t *testing.T) {
	s := testSession(t, Options{})
	scores := []types.CandidateScore{
		{LeftColumn: "id", RightColumn: "ref", OverlapRatio: 1.0},
		{LeftColumn: "date", RightColumn: "day", OverlapRatio: 1.0},
	}

	plan, err := s.selectKeys(scores, 10, 10, false, "other")
	require.NoError(t, err)
	assert.Equal(t, 2, plan.Len())
	assert.Equal(t, []string{"id", "date"}, plan.LeftKeys)
	assert.Equal(t, []string{"ref", "day"}, plan.RightKeys)
}

func TestSelectKeysEnumerationTieBreak(t *testing.T) {
	s := testSession(t, Options{})
	scores := []types.CandidateScore{
		{LeftColumn: "a", RightColumn: "x", OverlapRatio: 1.0},
		{LeftColumn: "a", RightColumn: "y", OverlapRatio: 1.0},
	}

	// Equal scores resolve by enumeration order, stable across runs
	plan, err := s.selectKeys(scores, 10, 10, false, "other")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, plan.LeftKeys)
	assert.Equal(t, []string{"x"}, plan.RightKeys)
}

func TestSelectKeysAugmentedKeepsMaxMatched(t *testing.T) {
	s := testSession(t, Options{})
	scores := []types.CandidateScore{
		{LeftColumn: "h1", RightColumn: "h1", OverlapRatio: 0.5, MatchedCount: 2},
		{LeftColumn: "h2", RightColumn: "h2", OverlapRatio: 0.9, MatchedCount: 5},
	}

	plan, err := s.selectKeys(scores, 10, 10, true, "other")
	require.NoError(t, err)
	assert.Equal(t, []string{"h2"}, plan.LeftKeys)
	assert.Equal(t, []string{"h2"}, plan.RightKeys)
}

func TestSelectKeysAugmentedZeroMatchesFails(t *testing.T) {
	s := testSession(t, Options{})
	scores := []types.CandidateScore{
		{LeftColumn: "h1", RightColumn: "h1", OverlapRatio: 0, MatchedCount: 0},
	}

	_, err := s.selectKeys(scores, 10, 10, true, "other")
	require.Error(t, err)
	assert.True(t, api.IsKind(err, api.KindSchema))
}
