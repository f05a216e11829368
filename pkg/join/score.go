package join

import (
	"context"
	"math"

	"github.com/kasuganosora/autojoin/pkg/types"
)

// columnPair is one entry of the cross-product enumeration. The index into
// the enumeration doubles as the deterministic tie-break when candidates
// end up with equal scores.
type columnPair struct {
	left  *types.Column
	right *types.Column
}

// scoreCandidates evaluates every eligible (main column x other column)
// pair and returns the candidates that pass the compatibility pre-filters,
// in enumeration order. In augmented mode only the similarity helper
// columns generated for matching column pairs are considered, and the
// overlap ratio is normalized by the smaller distinct-value set instead of
// the larger row count, because helper universes are derived data rather
// than raw row-aligned values.
func (s *session) scoreCandidates(ctx context.Context, main, other *types.Table, augmented bool) ([]types.CandidateScore, error) {
	pairs := s.enumeratePairs(main, other, augmented)
	if len(pairs) == 0 {
		return nil, nil
	}

	mainRows := main.RowCount()
	otherRows := other.RowCount()

	// Pair evaluations are independent; results land in a fixed slot per
	// pair, so aggregation order cannot affect the outcome.
	results := make([]*types.CandidateScore, len(pairs))
	err := s.pool.ForEach(ctx, len(pairs), func(ctx context.Context, i int) error {
		results[i] = scorePair(pairs[i], mainRows, otherRows, augmented)
		return nil
	})
	if err != nil {
		return nil, err
	}

	scores := make([]types.CandidateScore, 0, len(results))
	for _, r := range results {
		if r != nil {
			scores = append(scores, *r)
		}
	}
	return scores, nil
}

// enumeratePairs lists the column pairs to score, in a deterministic
// left-major order.
func (s *session) enumeratePairs(main, other *types.Table, augmented bool) []columnPair {
	var pairs []columnPair
	if !augmented {
		for _, lc := range main.Columns {
			if s.isHelper(lc.Name) {
				continue
			}
			for _, rc := range other.Columns {
				if s.isHelper(rc.Name) {
					continue
				}
				pairs = append(pairs, columnPair{left: lc, right: rc})
			}
		}
		return pairs
	}

	// Augmented re-scoring pairs up the helper columns the augmenter
	// produced on both sides for the same source column pair.
	for _, lc := range main.Columns {
		if !s.isHelper(lc.Name) {
			continue
		}
		base := s.helperBase(main.Label, lc.Name)
		for _, rc := range other.Columns {
			if !s.isHelper(rc.Name) {
				continue
			}
			if s.helperBase(other.Label, rc.Name) == base {
				pairs = append(pairs, columnPair{left: lc, right: rc})
			}
		}
	}
	return pairs
}

// scorePair applies the pre-filters and computes the overlap score for one
// column pair. Returns nil when the pair is skipped.
func scorePair(p columnPair, mainRows, otherRows int, augmented bool) *types.CandidateScore {
	leftNonNull := p.left.NonNullCount()
	rightNonNull := p.right.NonNullCount()
	if leftNonNull == 0 || rightNonNull == 0 {
		return nil
	}
	if p.left.Type != p.right.Type {
		return nil
	}
	// Representative length: columns whose typical value shapes differ
	// (5-digit codes vs 3-letter codes) cannot be the same key.
	if p.left.ModeLength() != p.right.ModeLength() {
		return nil
	}

	leftSet := p.left.DistinctKeys()
	rightSet := p.right.DistinctKeys()
	small, large := leftSet, rightSet
	if len(rightSet) < len(leftSet) {
		small, large = rightSet, leftSet
	}
	inter := 0
	for k := range small {
		if _, ok := large[k]; ok {
			inter++
		}
	}

	var denom int
	if augmented {
		denom = len(small)
	} else {
		denom = mainRows
		if otherRows > denom {
			denom = otherRows
		}
	}
	if denom == 0 {
		return nil
	}
	ratio := float64(inter) / float64(denom)

	minNonNull := leftNonNull
	if rightNonNull < minNonNull {
		minNonNull = rightNonNull
	}
	return &types.CandidateScore{
		LeftColumn:   p.left.Name,
		RightColumn:  p.right.Name,
		OverlapRatio: ratio,
		MatchedCount: int(math.Round(ratio * float64(minNonNull))),
	}
}
