package labels

import (
	"sort"

	"github.com/c360studio/fdpharvest/rdfgraph"
	"github.com/c360studio/fdpharvest/translation"
	"github.com/c360studio/fdpharvest/vocabulary/fdp"
)

// DefaultLanguage is assigned to labels without a language tag.
const DefaultLanguage = "en"

// labelPredicates in increasing precedence: a later predicate overwrites the
// label an earlier one produced for the same language.
var labelPredicates = []string{
	fdp.SchemaNameHTTP,
	fdp.SchemaName,
	fdp.RDFSLabel,
	fdp.SKOSPrefLabel,
}

// ExtractLabels collects the labels of subject keyed by language. Untagged
// literals get defaultLang. When languages is non-empty, other languages are
// dropped.
func ExtractLabels(g *rdfgraph.Graph, subject rdfgraph.Term, defaultLang string, languages []string) map[string]string {
	allowed := make(map[string]struct{}, len(languages))
	for _, l := range languages {
		allowed[l] = struct{}{}
	}

	out := make(map[string]string)
	for _, pred := range labelPredicates {
		for _, o := range g.Objects(subject, rdfgraph.IRI(pred)) {
			if !o.IsLiteral() || o.Value == "" {
				continue
			}
			lang := o.Lang
			if lang == "" {
				lang = defaultLang
			}
			if len(allowed) > 0 {
				if _, ok := allowed[lang]; !ok {
					continue
				}
			}
			out[lang] = o.Value
		}
	}
	return out
}

// toTranslations turns a label map into translation rows ordered by language.
func toTranslations(term string, labels map[string]string) []translation.Translation {
	langs := make([]string, 0, len(labels))
	for l := range labels {
		langs = append(langs, l)
	}
	sort.Strings(langs)

	out := make([]translation.Translation, 0, len(langs))
	for _, l := range langs {
		out = append(out, translation.Translation{Term: term, TermTranslation: labels[l], LangCode: l})
	}
	return out
}
