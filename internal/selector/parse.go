package selector

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
)

const keywordAll = "all"

// ParseSelection resolves a line of user text into 0-based channel indices.
// Accepted forms: comma-separated 1-based integers ("1,3,5"), inclusive
// ranges ("5-7"), and the keyword "all" (case-insensitive). Duplicates are
// collapsed and out-of-range indices dropped; if nothing valid remains the
// parse fails so the caller can re-prompt.
func ParseSelection(input string, n int) ([]int, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("empty selection")
	}
	if strings.EqualFold(input, keywordAll) {
		out := make([]int, n)
		for i := range out {
			out[i] = i
		}
		return out, nil
	}

	seen := make(map[int]bool)
	for _, raw := range strings.Split(input, ",") {
		token := strings.TrimSpace(raw)
		if token == "" {
			return nil, fmt.Errorf("empty token in selection")
		}
		if a, b, ok := strings.Cut(token, "-"); ok {
			start, err := strconv.Atoi(strings.TrimSpace(a))
			if err != nil {
				return nil, tokenError(token)
			}
			end, err := strconv.Atoi(strings.TrimSpace(b))
			if err != nil {
				return nil, tokenError(token)
			}
			if start > end {
				return nil, fmt.Errorf("invalid range %q: start exceeds end", token)
			}
			for k := start; k <= end; k++ {
				markIndex(seen, k, n)
			}
			continue
		}
		k, err := strconv.Atoi(token)
		if err != nil {
			return nil, tokenError(token)
		}
		markIndex(seen, k, n)
	}

	if len(seen) == 0 {
		return nil, fmt.Errorf("no valid channel numbers in selection")
	}
	out := make([]int, 0, len(seen))
	for i := range seen {
		out = append(out, i)
	}
	sort.Ints(out)
	return out, nil
}

// markIndex records the 1-based k if it falls inside [1, n].
func markIndex(seen map[int]bool, k, n int) {
	if k >= 1 && k <= n {
		seen[k-1] = true
	}
}

func tokenError(token string) error {
	if levenshtein.ComputeDistance(strings.ToLower(token), keywordAll) <= 1 {
		return fmt.Errorf("invalid token %q (did you mean %q?)", token, keywordAll)
	}
	return fmt.Errorf("invalid token %q: expected a number, a range like 1-5, or %q", token, keywordAll)
}
