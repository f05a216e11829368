package join

import (
	"math"
	"sort"

	"github.com/kasuganosora/autojoin/pkg/api"
	"github.com/kasuganosora/autojoin/pkg/types"
)

// dynamicThreshold derives the acceptance threshold from the relative
// table sizes: the proportionally smaller the joined table, the lower the
// bar, rounded down to one decimal.
func dynamicThreshold(mainRows, otherRows int) float64 {
	larger := mainRows
	if otherRows > larger {
		larger = otherRows
	}
	if larger == 0 {
		return 0
	}
	return math.Floor(float64(otherRows)/float64(larger)*10) / 10
}

// selectKeys filters and ranks the scored candidates and resolves them
// into a join-key plan.
//
// Two acceptance policies exist, one per scoring mode. Without
// augmentation the size-derived dynamic threshold filters by overlap
// ratio. After augmentation only the best-scoring candidates survive
// (ties retained): similarity matching has already filtered weak matches
// upstream, so anything below the maximum is noise.
//
// Ranked candidates resolve greedily into parallel key lists; a column
// already claimed on either side is skipped, and the plan is capped at
// min(distinct left, distinct right) so no column is left unpaired.
func (s *session) selectKeys(scores []types.CandidateScore, mainRows, otherRows int, augmented bool, otherLabel string) (types.JoinKeyPlan, error) {
	var kept []types.CandidateScore
	if augmented {
		maxCount := 0
		for _, sc := range scores {
			if sc.MatchedCount > maxCount {
				maxCount = sc.MatchedCount
			}
		}
		if maxCount > 0 {
			for _, sc := range scores {
				if sc.MatchedCount == maxCount {
					kept = append(kept, sc)
				}
			}
		}
		if s.opts.Verbose && maxCount > 0 {
			s.log.Info("%s | best augmented match quantity: %d", otherLabel, maxCount)
		}
	} else {
		threshold := dynamicThreshold(mainRows, otherRows)
		for _, sc := range scores {
			if sc.OverlapRatio >= threshold {
				kept = append(kept, sc)
			}
		}
		if s.opts.Verbose {
			s.log.Info("%s | dynamically calculated threshold: %v", otherLabel, threshold)
		}
	}

	if len(kept) == 0 {
		return types.JoinKeyPlan{}, api.NewSchemaError(otherLabel, "no possible join key found")
	}

	// Stable sort keeps the enumeration order as the tie-break, so equal
	// scores always resolve the same way.
	if augmented {
		sort.SliceStable(kept, func(i, j int) bool {
			return kept[i].MatchedCount > kept[j].MatchedCount
		})
	} else {
		sort.SliceStable(kept, func(i, j int) bool {
			return kept[i].OverlapRatio > kept[j].OverlapRatio
		})
	}

	distinctLeft := make(map[string]struct{})
	distinctRight := make(map[string]struct{})
	for _, sc := range kept {
		distinctLeft[sc.LeftColumn] = struct{}{}
		distinctRight[sc.RightColumn] = struct{}{}
	}
	limit := len(distinctLeft)
	if len(distinctRight) < limit {
		limit = len(distinctRight)
	}

	plan := types.JoinKeyPlan{}
	usedLeft := make(map[string]struct{})
	usedRight := make(map[string]struct{})
	for _, sc := range kept {
		if plan.Len() >= limit {
			break
		}
		if _, ok := usedLeft[sc.LeftColumn]; ok {
			continue
		}
		if _, ok := usedRight[sc.RightColumn]; ok {
			continue
		}
		usedLeft[sc.LeftColumn] = struct{}{}
		usedRight[sc.RightColumn] = struct{}{}
		plan.LeftKeys = append(plan.LeftKeys, sc.LeftColumn)
		plan.RightKeys = append(plan.RightKeys, sc.RightColumn)
	}

	return plan, nil
}
