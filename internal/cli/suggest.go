package cli

import (
	"strings"

	"github.com/spf13/pflag"
)

// maxSuggestDistance is the largest edit distance still offered as a correction.
const maxSuggestDistance = 3

// closest returns the candidate nearest to name, or "" when none is within
// maxSuggestDistance.
func closest(name string, candidates []string) string {
	best, bestDistance := "", maxSuggestDistance+1
	for _, candidate := range candidates {
		if d := levenshtein(name, candidate); d < bestDistance {
			best, bestDistance = candidate, d
		}
	}
	return best
}

func suggestCommand(name string, commands []*Command) string {
	names := make([]string, len(commands))
	for i, cmd := range commands {
		names[i] = cmd.Name
	}
	return closest(name, names)
}

// suggestFlag looks at the first flag in args that fs does not define and
// returns the nearest defined one as "--name".
func suggestFlag(args []string, fs *pflag.FlagSet) string {
	for _, arg := range args {
		if arg == "--" {
			break
		}
		name, ok := strings.CutPrefix(arg, "-")
		// "-" alone is stdin, "-1" a negative value.
		if !ok || name == "" || name[0] >= '0' && name[0] <= '9' {
			continue
		}
		name = strings.TrimPrefix(name, "-")
		name, _, _ = strings.Cut(name, "=")
		if fs.Lookup(name) != nil || len(name) == 1 && fs.ShorthandLookup(name) != nil {
			continue
		}

		var names []string
		fs.VisitAll(func(f *pflag.Flag) { names = append(names, f.Name) })
		if match := closest(name, names); match != "" {
			return "--" + match
		}
		return ""
	}
	return ""
}

// levenshtein is the edit distance between a and b, computed over two rows.
func levenshtein(a, b string) int {
	if len(a) > len(b) {
		a, b = b, a
	}
	prev := make([]int, len(a)+1)
	cur := make([]int, len(a)+1)
	for i := range prev {
		prev[i] = i
	}

	for j := 1; j <= len(b); j++ {
		cur[0] = j
		for i := 1; i <= len(a); i++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[i] = min(prev[i]+1, cur[i-1]+1, prev[i-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(a)]
}
