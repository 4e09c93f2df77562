// Package abbrev expands common prescription shorthand in place so that
// downstream consumers see both the abbreviation and its meaning.
package abbrev

import (
	"regexp"
	"sort"
)

// expansions maps Latin prescription shorthand to plain English.
var expansions = map[string]string{
	"QD":  "once daily",
	"BID": "twice daily",
	"TID": "three times daily",
	"QID": "four times daily",
	"PRN": "as needed",
	"PO":  "by mouth",
	"SC":  "subcutaneous",
	"SQ":  "subcutaneous",
	"IM":  "intramuscular",
	"IV":  "intravenous",
	"AC":  "before meals",
	"PC":  "after meals",
	"HS":  "at bedtime",
	"OD":  "right eye",
	"OS":  "left eye",
	"OU":  "both eyes",
	"AD":  "right ear",
	"AS":  "left ear",
	"AU":  "both ears",
}

type rule struct {
	re        *regexp.Regexp
	expansion string
}

var rules []rule

func init() {
	// Deterministic order so repeated runs produce identical output.
	abbrs := make([]string, 0, len(expansions))
	for abbr := range expansions {
		abbrs = append(abbrs, abbr)
	}
	sort.Strings(abbrs)

	for _, abbr := range abbrs {
		// Matching is case insensitive, so handwritten lowercase
		// shorthand ("1 tab po bid") expands too. The leading group
		// refuses a "(" before the abbreviation so that words inside an
		// annotation, like the "as" of "PRN (as needed)", stay untouched.
		// The optional trailing group makes expansion idempotent: an
		// abbreviation already annotated with its meaning matches as a
		// whole and is left alone.
		re := regexp.MustCompile(`(?i)(^|[^\w(])(` + regexp.QuoteMeta(abbr) +
			`)\b(\s*\(` + regexp.QuoteMeta(expansions[abbr]) + `\))?`)
		rules = append(rules, rule{re: re, expansion: expansions[abbr]})
	}
}

// Expand annotates every recognised abbreviation with its plain English
// meaning, "QD" becoming "QD (once daily)". Already annotated occurrences
// are left untouched, so Expand(Expand(s)) == Expand(s).
func Expand(text string) string {
	for _, r := range rules {
		text = r.re.ReplaceAllStringFunc(text, func(m string) string {
			if r.re.FindStringSubmatch(m)[3] != "" {
				return m
			}
			return m + " (" + r.expansion + ")"
		})
	}
	return text
}
