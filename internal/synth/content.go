package synth

import "github.com/mark3labs/openapi2bind/internal/spec"

// ContentPreferences derives the operation's default accept list: every
// distinct documented response content type exactly once, ordered by first
// appearance across variants in declaration order.
func ContentPreferences(op spec.OperationModel) []string {
	var prefs []string
	seen := make(map[string]bool)
	for _, v := range op.Output.Variants {
		for _, c := range v.Content {
			if seen[c.ContentType] {
				continue
			}
			seen[c.ContentType] = true
			prefs = append(prefs, c.ContentType)
		}
	}
	return prefs
}
