package join

import (
	"context"
	"strings"

	"github.com/antzucaro/matchr"
	"github.com/texttheater/golang-levenshtein/levenshtein"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/kasuganosora/autojoin/pkg/types"
)

// augment builds canonical-match helper columns for every text column pair
// across the two tables. For each value the best fuzzy match in the
// opposite column is located; when its similarity clears the threshold,
// the aligned common substring sequence of the two strings is emitted as a
// canonical key value that the exact-match scorer can then treat like any
// other column. The process is mirrored so both tables gain a helper
// column per pair.
//
// Cost is O(rows1 x rows2) string comparisons per column pair. That is
// quadratic and dominates runtime on large inputs, which is why the
// per-value matching runs on the worker pool.
func (s *session) augment(ctx context.Context, df1, df2 *types.Table) error {
	cols1 := s.textColumns(df1)
	cols2 := s.textColumns(df2)
	if len(cols1) == 0 || len(cols2) == 0 {
		return nil
	}

	if s.opts.Verbose {
		s.log.Info("%s | augmenting %d x %d text column pairs with %s similarity",
			df2.Label, len(cols1), len(cols2), s.opts.Strategy)
	}

	for _, c1 := range cols1 {
		norm1 := normalizeStrings(c1.Values)
		for _, c2 := range cols2 {
			norm2 := normalizeStrings(c2.Values)

			helper1 := make([]types.Value, len(norm1))
			helper2 := make([]types.Value, len(norm2))

			// One task per value on either side; index < len(norm1)
			// addresses df1's values, the rest df2's.
			total := len(norm1) + len(norm2)
			err := s.pool.ForEach(ctx, total, func(ctx context.Context, i int) error {
				if i < len(norm1) {
					helper1[i] = s.bestMatch(norm1[i], norm2)
				} else {
					helper2[i-len(norm1)] = s.bestMatch(norm2[i-len(norm1)], norm1)
				}
				return nil
			})
			if err != nil {
				return err
			}

			base := c1.Name + "<->" + c2.Name
			s.addHelper(df1, s.helperName(df1.Label, base), helper1)
			s.addHelper(df2, s.helperName(df2.Label, base), helper2)
		}
	}
	return nil
}

// textColumns returns the table's text columns that are neither generated
// helpers nor consumed by a previous step.
func (s *session) textColumns(t *types.Table) []*types.Column {
	var cols []*types.Column
	for _, c := range t.Columns {
		if c.Type == types.TypeText && !s.isHelper(c.Name) {
			cols = append(cols, c)
		}
	}
	return cols
}

// addHelper attaches a generated column unless every value missed the
// threshold, in which case it carries no signal and is discarded.
func (s *session) addHelper(t *types.Table, name string, values []types.Value) {
	allNull := true
	for _, v := range values {
		if !v.IsNull() {
			allNull = false
			break
		}
	}
	if allNull {
		return
	}
	// Ignoring the error: helper names are run-unique by construction and
	// the value slice is built to the table's row count.
	_ = t.AddColumn(types.NewColumn(name, types.TypeText, values))
}

// bestMatch finds the candidate most similar to value and returns the
// canonical matched string, or null when nothing clears the threshold.
func (s *session) bestMatch(value string, candidates []string) types.Value {
	if value == "" {
		return types.Null()
	}
	bestScore := -1.0
	bestIdx := -1
	for i, cand := range candidates {
		if cand == "" {
			continue
		}
		score := s.similarity(value, cand)
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}
	if bestIdx < 0 || bestScore < s.opts.Threshold {
		return types.Null()
	}
	return types.Text(matchedString(value, candidates[bestIdx]))
}

// similarity computes the configured string-similarity measure in [0,1]
func (s *session) similarity(a, b string) float64 {
	if s.opts.Strategy == StrategyJaro {
		return matchr.Jaro(a, b)
	}
	return levenshtein.RatioForStrings([]rune(a), []rune(b), levenshtein.DefaultOptions)
}

// matchedString concatenates the matching blocks of the edit alignment of
// a against b, producing the canonical common form both sides agree on.
func matchedString(a, b string) string {
	source := []rune(a)
	target := []rune(b)
	script := levenshtein.EditScriptForStrings(source, target, levenshtein.DefaultOptions)

	var out strings.Builder
	i, j := 0, 0
	for _, op := range script {
		switch op {
		case levenshtein.Match:
			out.WriteRune(source[i])
			i++
			j++
		case levenshtein.Ins:
			j++
		case levenshtein.Del:
			i++
		default:
			i++
			j++
		}
	}
	return out.String()
}

// normalizeStrings prepares column values for similarity comparison:
// unicode NFKC normalization, punctuation runs collapsed to single
// spaces, whitespace runs collapsed, upper-cased and trimmed. Nulls map
// to the empty string.
func normalizeStrings(values []types.Value) []string {
	out := make([]string, len(values))
	for i, v := range values {
		if v.IsNull() {
			continue
		}
		out[i] = normalizeString(v.String())
	}
	return out
}

func normalizeString(s string) string {
	// cases.Caser carries internal state, so build one per call instead
	// of sharing across goroutines.
	upper := cases.Upper(language.Und)
	s = norm.NFKC.String(s)
	var b strings.Builder
	b.Grow(len(s))
	lastSpace := false
	for _, r := range s {
		switch r {
		case ';', '(', ')', '[', ']', '"', '\'', ' ', '\t', '\n', '\r':
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
		default:
			b.WriteRune(r)
			lastSpace = false
		}
	}
	return strings.TrimSpace(upper.String(b.String()))
}
