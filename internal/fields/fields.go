// Package fields pulls structured prescription fields out of corrected OCR
// text with ordered regular expression cascades. Each cascade is
// winner-takes-first: the earliest pattern that matches decides the value
// and later patterns are not consulted.
package fields

import (
	"regexp"
	"strings"
)

// Patterns are matched against flattened text, so the newline classes in
// the alternatives only matter for callers that skip normalisation.

var patientPrimaryRe = regexp.MustCompile(`(?i)\(Patient's name\)\s*([\w\s\.,]+?)(?:,|$)`)

var patientFallbackRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Patient\s*(?:Name)?\s*:\s*([\w\s]+?)[,\n\.]`),
	regexp.MustCompile(`(?i)Name\s*:\s*([\w\s]+?)[,\n\.]`),
	regexp.MustCompile(`(?i)FOR\s*(?:\(.*\))?\s*([\w\s,]+?)[,\n\.]`),
	regexp.MustCompile(`(?i)(?:Pt|Patient):\s*([\w\s]+?)[,\n\.]`),
	regexp.MustCompile(`(?i)(?:Prescribed for|For):\s*([\w\s]+?)[,\n\.]`),
}

var doctorRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Dr\.?\s*([\w\s]+?)[,\n\.]`),
	regexp.MustCompile(`(?i)Doctor\s*:\s*([\w\s]+?)[,\n\.]`),
	regexp.MustCompile(`(?i)Physician\s*:\s*([\w\s]+?)[,\n\.]`),
	regexp.MustCompile(`(?i)(?:SIGNATURE|SIGNED BY)\s*([\w\s\.]+)(?:\n|$)`),
	regexp.MustCompile(`(?i)(?:Bottle|Dr\.?)\s*([\w\s\.]+)(?:\n|$)`),
}

// Date patterns are case sensitive: the labelled forms expect the printed
// DATE header, and the bare form is a last resort that grabs the first
// thing shaped like a date anywhere in the text.
var dateRes = []*regexp.Regexp{
	regexp.MustCompile(`DATE\s*:\s*(\d{1,2}[\/\-\s]*[A-Za-z]*[\/\-\s]*\d{2,4})`),
	regexp.MustCompile(`DATE\s+(\d{1,2}[\/\-\s]*[A-Za-z]*[\/\-\s]*\d{2,4})`),
	regexp.MustCompile(`(\d{1,2}[\/\-\s]*[A-Za-z]*[\/\-\s]*\d{2,4})`),
}

var hospitalRe = regexp.MustCompile(`(?i)([\w\s]+\s*Hospital|[\w\s]+\s*Clinic|[\w\s]+\s*Medical\s*Center|MEDICAL FACILITY)`)

var notesRe = regexp.MustCompile(`(?i)(?:Notes|Instructions|Directions|Signa):\s*([\w\s.,;]+)(?:\n|$)`)

var frequencyRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d+)\s*times?\s*(?:a|per)\s*day`),
	regexp.MustCompile(`(?i)every\s*(\d+)\s*hours?`),
	regexp.MustCompile(`(?i)once\s*daily`),
	regexp.MustCompile(`(?i)twice\s*daily`),
	regexp.MustCompile(`(?i)three\s*times\s*daily`),
	regexp.MustCompile(`(?i)four\s*times\s*daily`),
	regexp.MustCompile(`(?i)(morning|evening|night)`),
	regexp.MustCompile(`(?i)before\s*meals`),
	regexp.MustCompile(`(?i)after\s*meals`),
	regexp.MustCompile(`(?i)with\s*meals`),
	regexp.MustCompile(`(?i)TID`),
	regexp.MustCompile(`(?i)BID`),
	regexp.MustCompile(`(?i)QID`),
	regexp.MustCompile(`(?i)QD`),
	regexp.MustCompile(`(?i)Take\s*(?:once|twice|three|four)\s*(?:times)?\s*(?:a|per|each)?\s*day`),
}

// Patient returns the patient name, or "" when no pattern matches. The
// primary annotated form keeps only the text before the first comma so
// that trailing identifiers on the same line are dropped.
func Patient(text string) string {
	if m := patientPrimaryRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(strings.SplitN(m[1], ",", 2)[0])
	}
	return firstMatch(patientFallbackRes, text)
}

// Doctor returns the prescriber name, or "".
func Doctor(text string) string {
	return firstMatch(doctorRes, text)
}

// Date returns the prescription date as written, or "".
func Date(text string) string {
	return firstMatch(dateRes, text)
}

// Hospital returns the facility name, or "".
func Hospital(text string) string {
	if m := hospitalRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// Notes returns free-form instructions following a notes label, or "".
func Notes(text string) string {
	if m := notesRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// Frequencies returns every dosing frequency phrase found in text, in
// pattern order. A phrase matched by two patterns appears twice.
func Frequencies(text string) []string {
	var out []string
	for _, re := range frequencyRes {
		for _, m := range re.FindAllString(text, -1) {
			out = append(out, m)
		}
	}
	return out
}

// Frequency joins all frequency phrases found in text into a single
// comma separated value, or returns "" when none match.
func Frequency(text string) string {
	return strings.Join(Frequencies(text), ", ")
}

// DosageFor searches text for a dosage immediately following the named
// medication, returning for example "500 mg", or "".
func DosageFor(text, name string) string {
	re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(name) +
		`\s+(\d+(?:\.\d+)?)\s*(mg|ml|g|mcg|tablet|capsule|pill)`)
	if m := re.FindStringSubmatch(text); m != nil {
		return m[1] + " " + m[2]
	}
	return ""
}

func firstMatch(res []*regexp.Regexp, text string) string {
	for _, re := range res {
		if m := re.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}
