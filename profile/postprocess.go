package profile

import (
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"time"
	"unicode/utf8"

	"github.com/c360studio/fdpharvest/vocabulary/fdp"
)

// Tag length bounds, in characters.
const (
	MinTagLength = 2
	MaxTagLength = 100
)

// DateLayout is the layout dates are normalised to.
const DateLayout = "2006-01-02 15:04:05"

var (
	illegalTagRe   = regexp.MustCompile(`[^A-Za-z0-9\- _.]`)
	wikidataWikiRe = regexp.MustCompile(`^https?://www\.wikidata\.org/wiki/([A-Z][0-9]+)$`)
	profileURIRe   = regexp.MustCompile(`(?i)^https?://.*/profile/`)
)

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006-01",
	"2006",
}

// dateFields are normalised at package and resource level.
var dateFields = []string{"issued", "modified"}

// SanitizeTags drops tags outside the length bounds and replaces every
// character other than letters, digits, space, hyphen, underscore and dot
// with a space.
func SanitizeTags(names []string, logger *slog.Logger) []string {
	if logger == nil {
		logger = slog.Default()
	}
	out := make([]string, 0, len(names))
	for _, name := range names {
		n := utf8.RuneCountInString(name)
		switch {
		case n < MinTagLength:
			logger.Warn("Tag shorter than minimum length, removing", "tag", name, "min", MinTagLength)
		case n > MaxTagLength:
			logger.Warn("Tag longer than maximum length, removing", "tag", name, "max", MaxTagLength)
		case illegalTagRe.MatchString(name):
			logger.Warn("Tag contains illegal characters, replacing with spaces", "tag", name)
			out = append(out, illegalTagRe.ReplaceAllString(name, " "))
		default:
			out = append(out, name)
		}
	}
	return out
}

// ValidateTags applies SanitizeTags to a list of {"name": tag} dictionaries.
func ValidateTags(tags []map[string]any) []map[string]any {
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		if name, ok := t["name"].(string); ok {
			names = append(names, name)
		}
	}
	return tagDicts(SanitizeTags(names, nil))
}

// SelectTags picks the tag list of defaultLang, falling back to the first
// non-empty list in order.
func SelectTags(translated map[string][]string, order []string, defaultLang string) []string {
	if tags := translated[defaultLang]; len(tags) > 0 {
		return tags
	}
	for _, lang := range order {
		if tags := translated[lang]; len(tags) > 0 {
			return tags
		}
	}
	return nil
}

// CanonicalWikidataURI rewrites a Wikidata wiki page URI to its entity URI.
// Other values are returned unchanged.
func CanonicalWikidataURI(uri string) string {
	m := wikidataWikiRe.FindStringSubmatch(uri)
	if m == nil {
		return uri
	}
	return fdp.WikidataEntityPrefix + m[1]
}

// FilterConformsTo removes profile URIs from the conforms_to field of m and
// deletes the field when nothing is left.
func FilterConformsTo(m map[string]any) {
	values, ok := m["conforms_to"]
	if !ok {
		return
	}
	var kept []string
	switch v := values.(type) {
	case []string:
		for _, s := range v {
			if !profileURIRe.MatchString(s) {
				kept = append(kept, s)
			}
		}
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && !profileURIRe.MatchString(s) {
				kept = append(kept, s)
			}
		}
	case string:
		if !profileURIRe.MatchString(v) {
			kept = append(kept, v)
		}
	}
	if len(kept) == 0 {
		delete(m, "conforms_to")
		return
	}
	m["conforms_to"] = kept
}

// NormaliseDate parses an ISO 8601 date or date-time and formats it with
// DateLayout. Zoned values are converted to UTC.
func NormaliseDate(value string) (string, error) {
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t.UTC().Format(DateLayout), nil
		}
	}
	return value, fmt.Errorf("unparseable date %q", value)
}

// PostProcess applies the FDP fixups to a package built elsewhere.
// Languages in tags_translated are tried in alphabetical order when the
// default language has no tags.
func (p *Profile) PostProcess(pkg Package) {
	var order []string
	if translated, ok := pkg["tags_translated"].(map[string][]string); ok {
		for lang := range translated {
			order = append(order, lang)
		}
		sort.Strings(order)
	}
	p.postProcess(pkg, order)
}

func (p *Profile) postProcess(pkg Package, order []string) {
	p.fixTags(pkg, order)
	p.fixNotes(pkg)

	p.fixDates(pkg)
	FilterConformsTo(pkg)
	for _, res := range asMaps(pkg["resources"]) {
		p.fixDates(res)
		FilterConformsTo(res)
		for _, svc := range asMaps(res["access_services"]) {
			FilterConformsTo(svc)
		}
	}

	for k, v := range pkg {
		pkg[k] = rewriteWikidata(v)
	}
}

func (p *Profile) fixTags(pkg Package, order []string) {
	if translated, ok := pkg["tags_translated"].(map[string][]string); ok {
		clean := make(map[string][]string, len(translated))
		for lang, tags := range translated {
			clean[lang] = SanitizeTags(tags, p.logger)
		}
		pkg["tags_translated"] = clean
		pkg["tags"] = tagDicts(SelectTags(clean, order, p.defaultLang))
		return
	}
	if tags, ok := pkg["tags"].([]map[string]any); ok {
		pkg["tags"] = ValidateTags(tags)
	}
}

func (p *Profile) fixNotes(pkg Package) {
	if notes, ok := pkg["notes"].(string); ok {
		pkg["notes"] = p.toMarkdown(notes)
	}
	if translated, ok := pkg["notes_translated"].(map[string]string); ok {
		for lang, notes := range translated {
			translated[lang] = p.toMarkdown(notes)
		}
	}
}

func (p *Profile) toMarkdown(text string) string {
	out, err := p.markdown.Convert(text)
	if err != nil {
		p.logger.Warn("Description could not be converted to Markdown", "error", err)
	}
	return out
}

func (p *Profile) fixDates(m map[string]any) {
	for _, field := range dateFields {
		v, ok := m[field].(string)
		if !ok {
			continue
		}
		normalised, err := NormaliseDate(v)
		if err != nil {
			p.logger.Error("Date field can not be parsed", "field", field, "value", v)
		}
		m[field] = normalised
	}
	for _, tc := range asMaps(m["temporal_coverage"]) {
		for _, field := range []string{"start", "end"} {
			if v, ok := tc[field].(string); ok && v != "" {
				if normalised, err := NormaliseDate(v); err == nil {
					tc[field] = normalised
				}
			}
		}
	}
}

// rewriteWikidata applies CanonicalWikidataURI to every string in v.
func rewriteWikidata(v any) any {
	switch val := v.(type) {
	case string:
		return CanonicalWikidataURI(val)
	case []string:
		for i, s := range val {
			val[i] = CanonicalWikidataURI(s)
		}
		return val
	case []any:
		for i, item := range val {
			val[i] = rewriteWikidata(item)
		}
		return val
	case map[string]any:
		for k, item := range val {
			val[k] = rewriteWikidata(item)
		}
		return val
	case []map[string]any:
		for _, item := range val {
			rewriteWikidata(item)
		}
		return val
	default:
		return v
	}
}

func tagDicts(names []string) []map[string]any {
	out := make([]map[string]any, 0, len(names))
	for _, n := range names {
		out = append(out, map[string]any{"name": n})
	}
	return out
}

func asMaps(v any) []map[string]any {
	switch list := v.(type) {
	case []map[string]any:
		return list
	case []any:
		out := make([]map[string]any, 0, len(list))
		for _, item := range list {
			if m, ok := item.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	default:
		return nil
	}
}
