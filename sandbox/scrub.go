package sandbox

import "regexp"

// denylist names the identifiers commonly used to reach outside a JS
// runtime's sandbox (spec §4.2). goja itself never exposes any of
// these — there is no `require`, no `process`, no host filesystem or
// network object unless a Go program explicitly injects one, and this
// sandbox injects none. This scrub is pure defense-in-depth (spec §9:
// "not a security boundary"); the real boundary is that goja has
// nothing for these names to resolve to in the first place.
var denylist = []string{
	"require", "process", "import", "globalThis",
	"eval", "Function", "child_process",
	"fetch", "XMLHttpRequest", "WebSocket",
	"fs", "net", "http", "os", "exec", "spawn",
	"module", "__proto__", "constructor",
}

var denylistPattern = buildPattern()

func buildPattern() *regexp.Regexp {
	expr := ""
	for i, name := range denylist {
		if i > 0 {
			expr += "|"
		}
		expr += regexp.QuoteMeta(name)
	}
	return regexp.MustCompile(`\b(` + expr + `)\b`)
}

// Scrub rewrites every denylisted identifier occurrence to a comment,
// matching spec §4.2's "rewritten to a comment" wording literally.
func Scrub(source string) string {
	return denylistPattern.ReplaceAllString(source, "/*scrubbed*/")
}
