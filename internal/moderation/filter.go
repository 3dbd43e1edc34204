package moderation

import "strings"

// defaultBlacklist carries the banned fragments the store launched with.
// The list is Arabic because the marketplace is.
var defaultBlacklist = []string{
	"مخدرات",
	"سلاح",
	"قمار",
	"اباحي",
	"شتيمة",
}

type CheckResult struct {
	Clean       bool
	MatchedWord string
}

// Filter is the synchronous keyword gate run on titles before any remote
// moderation cost is incurred.
type Filter struct {
	blacklist []string
}

// NewFilter returns a Filter over the default blacklist plus any extra
// fragments.
func NewFilter(extra ...string) *Filter {
	blacklist := make([]string, 0, len(defaultBlacklist)+len(extra))
	blacklist = append(blacklist, defaultBlacklist...)
	blacklist = append(blacklist, extra...)
	return &Filter{blacklist: blacklist}
}

// Check flags the first whitespace-delimited token containing any
// blacklisted fragment. Substring matching is intentional: a banned fragment
// inside a longer unrelated word is still flagged, trading false positives
// for recall.
func (f *Filter) Check(text string) CheckResult {
	for _, word := range strings.Fields(strings.ToLower(text)) {
		for _, banned := range f.blacklist {
			if strings.Contains(word, banned) {
				return CheckResult{Clean: false, MatchedWord: word}
			}
		}
	}
	return CheckResult{Clean: true}
}
