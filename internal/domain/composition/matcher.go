package composition

import (
	"math"
	"sort"
)

// ScoreFloor is the minimum score a candidate must reach before it appears
// in similarity-search results.
const ScoreFloor = 40.0

// Result is the outcome of one pairwise comparison.
type Result struct {
	// Score is the weighted similarity in [0, 100].
	Score float64

	// MatchedElements lists the symbols whose difference stayed within
	// tolerance, sorted for deterministic output.
	MatchedElements []string
}

// Match scores the similarity of two composition vectors under the given
// percentage tolerance.  It returns false when the pair is incomparable:
// the reference lacks the anchor element (carbon), or no element is present
// in either vector.
//
// Scoring, per element present in either vector:
//   - absent in both: skipped entirely;
//   - absent in exactly one: full weight penalty; the weight joins the
//     denominator with zero contribution, so one-sided absence lowers the
//     score rather than being ignored;
//   - present in both: midpoint scalars are compared via
//     diff% = |a-b| / max(|a|,|b|) * 100 (two zeros compare as identical);
//     a match within tolerance contributes weight*(100-diff%)/100.
//
// The final score is 100 * numerator / denominator.  Dividing by the larger
// magnitude keeps diff% symmetric, so Match(a,b) == Match(b,a) whenever both
// directions are comparable.
func Match(ref, cand Vector, tolerancePct float64) (Result, bool) {
	if _, ok := ref[AnchorElement]; !ok {
		return Result{}, false
	}

	var num, den float64
	var matched []string

	for _, sym := range unionKeys(ref, cand) {
		rv, inRef := ref[sym]
		cv, inCand := cand[sym]
		w := WeightFor(sym)

		switch {
		case !inRef && !inCand:
			continue
		case inRef != inCand:
			den += w
		default:
			den += w
			diff := diffPercent(rv.Mid(), cv.Mid())
			if diff <= tolerancePct {
				num += w * (100 - diff) / 100
				matched = append(matched, sym)
			}
		}
	}

	if den == 0 {
		return Result{}, false
	}

	sort.Strings(matched)
	return Result{Score: 100 * num / den, MatchedElements: matched}, true
}

// diffPercent is the relative difference of two scalars against the larger
// magnitude, in percent.  Both-zero is a perfect match.
func diffPercent(a, b float64) float64 {
	larger := math.Max(math.Abs(a), math.Abs(b))
	if larger == 0 {
		return 0
	}
	return math.Abs(a-b) / larger * 100
}

func unionKeys(a, b Vector) []string {
	seen := make(map[string]bool, len(a)+len(b))
	var keys []string
	for k := range a {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	for k := range b {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
