package plan

import (
	"strconv"
	"strings"
)

// Normalize converts an arbitrary decoded JSON object into a schema-valid
// Plan, substituting safe defaults for missing or invalid fields. It is total
// over all inputs including nil, pure, and idempotent: normalizing an
// already-valid plan returns it unchanged.
func Normalize(raw map[string]any, seed string) Plan {
	title := cleanString(raw["title"])
	if title == "" {
		title = DefaultTitle
	}

	summary := cleanString(raw["summary"])
	if summary == "" {
		summary = SummaryFor(seed)
	}

	sections := cleanSections(raw["sections"])
	if len(sections) == 0 {
		sections = []Section{{Heading: "Overview", Bullets: []string{summary}}}
	}

	claims := cleanStringList(raw["claims"])
	if len(claims) == 0 {
		claims = []string{DefaultClaim}
	}

	certificateNote := cleanString(raw["certificate_note"])
	if certificateNote == "" {
		certificateNote = DefaultCertificateNote
	}

	return Plan{
		Title:           title,
		Summary:         summary,
		Sections:        sections,
		Claims:          claims,
		CertificateNote: certificateNote,
	}
}

// cleanSections coerces the raw sections value into a cleaned slice. A section
// whose bullets are all empty after cleaning is removed rather than retained
// empty; a section that declares a heading without any bullets field gets the
// placeholder bullet instead.
func cleanSections(raw any) []Section {
	items, ok := raw.([]any)
	if !ok {
		return nil
	}

	var sections []Section
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}

		heading := cleanString(obj["heading"])
		bullets := cleanStringList(obj["bullets"])

		if len(bullets) == 0 {
			if _, declared := obj["bullets"]; declared || heading == "" {
				continue
			}
			bullets = []string{DefaultBullet}
		}
		if heading == "" {
			heading = DefaultHeading
		}

		sections = append(sections, Section{Heading: heading, Bullets: bullets})
	}

	return sections
}

// cleanStringList coerces a raw JSON value into a list of trimmed, non-empty
// strings. Numbers and booleans are stringified; entries of any other type or
// that become empty after trimming are dropped.
func cleanStringList(raw any) []string {
	items, ok := raw.([]any)
	if !ok {
		return nil
	}

	var out []string
	for _, item := range items {
		if s := cleanString(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// cleanString coerces a scalar JSON value to a trimmed string, or "" when the
// value has no sensible string form.
func cleanString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}
