package richtext

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

// sanitize strips everything outside the formatting subset the formatter
// understands. Rich-text editors emit exactly this subset, so well-formed
// input passes through unchanged; anything else (scripts, event handlers,
// unexpected elements) is removed rather than rejected.
func sanitize(fragment string) string {
	return fragmentPolicy().Sanitize(fragment)
}

func fragmentPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		p := bluemonday.NewPolicy()
		p.AllowElements("b", "strong", "i", "em", "u", "s", "strike", "del", "br", "p", "span")
		p.AllowAttrs("style").OnElements("span")
		p.AllowStyles("color", "background-color").OnElements("span")
		policy = p
	})
	return policy
}
