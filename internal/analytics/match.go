package analytics

import (
	"github.com/sahilm/fuzzy"
)

type statsSource []Stats

func (s statsSource) String(i int) string { return s[i].Query }
func (s statsSource) Len() int            { return len(s) }

// MatchQueries keeps the stats whose query fuzzy-matches pattern, best match
// first. An empty pattern returns stats unchanged.
func MatchQueries(stats []Stats, pattern string) []Stats {
	if pattern == "" {
		return stats
	}

	matches := fuzzy.FindFrom(pattern, statsSource(stats))
	out := make([]Stats, 0, len(matches))
	for _, m := range matches {
		out = append(out, stats[m.Index])
	}
	return out
}
