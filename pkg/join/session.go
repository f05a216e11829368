// Package join implements automatic join-key inference and sequential
// multi-table merging. Given two or more tables it normalizes column
// types, scores every column pair as a join-key candidate from value
// overlap, optionally synthesizes fuzzy-match key columns for text data,
// and folds the tables together one merge step at a time.
package join

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/kasuganosora/autojoin/pkg/api"
	"github.com/kasuganosora/autojoin/pkg/types"
	"github.com/kasuganosora/autojoin/pkg/workerpool"
)

// Strategy selects the string-similarity algorithm used when exact value
// overlap is not enough to find a key.
type Strategy int

const (
	StrategyNone Strategy = iota
	StrategyLevenshtein
	StrategyJaro
)

// String returns the strategy name
func (s Strategy) String() string {
	switch s {
	case StrategyLevenshtein:
		return "levenshtein"
	case StrategyJaro:
		return "jaro"
	case StrategyNone:
		return "none"
	default:
		return "unknown"
	}
}

// ParseStrategy parses a strategy name
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "", "none":
		return StrategyNone, nil
	case "levenshtein":
		return StrategyLevenshtein, nil
	case "jaro":
		return StrategyJaro, nil
	default:
		return StrategyNone, fmt.Errorf("unknown strategy: %q", s)
	}
}

// Options configure one Join invocation
type Options struct {
	// How is the join mode applied at every merge step
	How types.JoinType
	// Strategy enables similarity augmentation when exact overlap fails
	Strategy Strategy
	// Threshold is the minimum similarity in [0,1] for an augmented match
	Threshold float64
	// Verbose emits per-step progress messages
	Verbose bool
	// Logger receives progress output; defaults to a stdout logger
	Logger api.Logger
	// Workers bounds the scoring/similarity parallelism; 0 means GOMAXPROCS
	Workers int
}

// session carries the per-invocation state threaded through every
// component: the run-unique helper prefix, the logger and the worker pool.
// Nothing here is shared between invocations, so concurrent Join calls
// stay isolated.
type session struct {
	opts   Options
	prefix string
	log    api.Logger
	pool   *workerpool.Pool
}

func newSession(opts Options) (*session, error) {
	if opts.Threshold < 0 || opts.Threshold > 1 {
		return nil, api.NewConfigError("similarity threshold has to be between 0 and 1, got %v", opts.Threshold)
	}
	if opts.How != types.InnerJoin && opts.How != types.LeftJoin && opts.How != types.OuterJoin {
		return nil, api.NewConfigError("unknown join mode: %d", opts.How)
	}

	log := opts.Logger
	if log == nil {
		level := api.LogWarn
		if opts.Verbose {
			level = api.LogInfo
		}
		log = api.NewDefaultLogger(level)
	}

	pool, err := workerpool.New(workerpool.Config{Size: opts.Workers})
	if err != nil {
		return nil, api.WrapError(err, api.KindConfig, "invalid worker count")
	}

	return &session{
		opts:   opts,
		prefix: "joinkey_" + uuid.New().String()[:8] + "_",
		log:    log,
		pool:   pool,
	}, nil
}

// helperName builds a process-unique column name for a generated helper
// column, tagged with the owning table's label so it never collides with
// a user column and can be reliably stripped from output.
func (s *session) helperName(tableLabel, name string) string {
	return s.prefix + tableLabel + "_" + name
}

// isHelper reports whether a column name was generated by this run
func (s *session) isHelper(name string) bool {
	return strings.HasPrefix(name, s.prefix)
}

// helperBase returns the part of a helper column name after the table
// label, identifying which column (or column pair) it was derived from.
func (s *session) helperBase(tableLabel, name string) string {
	return strings.TrimPrefix(name, s.prefix+tableLabel+"_")
}
