package classify

import (
	"strings"

	"autofix/internal/textutil"
)

// Bundle is the content selected for one problem row.
type Bundle struct {
	Rule            string
	Causes          []string
	DiagnosticSteps []string
	Parts           []string
	FixSteps        []string
	RelatedQueries  []string
}

// Match returns the first rule accepting problem. ok is false when only the
// fallback applies.
func Match(problem string) (rule Rule, ok bool) {
	text := strings.ToLower(problem)
	for _, r := range rules {
		if r.When.Match(text) {
			return r, true
		}
	}
	return fallback, false
}

// Classify returns the bundle for problem. It never fails: unmatched text gets
// the general fallback. RelatedQueries is left empty; see ForVehicle.
func Classify(problem string) Bundle {
	rule, _ := Match(problem)
	return Bundle{
		Rule:            rule.Name,
		Causes:          clone(rule.Causes),
		DiagnosticSteps: clone(diagnosticChecklist),
		Parts:           clone(rule.Parts),
		FixSteps:        clone(rule.FixSteps),
	}
}

// ForVehicle classifies problem and fills in the vehicle's related queries.
func ForVehicle(year, carMake, model, problem string) Bundle {
	bundle := Classify(problem)
	bundle.RelatedQueries = RelatedQueries(year, carMake, model)
	return bundle
}

// RelatedQueries returns the fixed related-search phrases for a vehicle. They do
// not depend on the matched rule.
func RelatedQueries(year, carMake, model string) []string {
	vehicle := year + " " + carMake + " " + model
	out := make([]string, len(relatedTemplates))
	for i, tmpl := range relatedTemplates {
		out[i] = vehicle + " " + tmpl
	}
	return out
}

// Rules returns the ordered rule table followed by the fallback rule.
func Rules() []Rule {
	out := make([]Rule, 0, len(rules)+1)
	out = append(out, rules...)
	return append(out, fallback)
}

// Nearest returns the rule whose vocabulary is most similar to problem, with
// its cosine score. It is an operator hint for text that fell through to the
// fallback; it never changes what Classify selects.
func Nearest(problem string) (Rule, float64) {
	query := textutil.NewFingerprint(problem)
	best, bestScore := fallback, 0.0
	for _, r := range rules {
		vocab := r.Name + " " + r.When.String() + " " + strings.Join(r.Causes, " ") + " " + strings.Join(r.Parts, " ")
		score := textutil.CosineSimilarity(query, textutil.NewFingerprint(vocab))
		if score > bestScore {
			best, bestScore = r, score
		}
	}
	return best, bestScore
}

func clone(in []string) []string {
	return append([]string(nil), in...)
}
