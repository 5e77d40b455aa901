package profile

import (
	"github.com/c360studio/fdpharvest/rdfgraph"
)

// reader reads property values of a subject with a fixed default language.
type reader struct {
	g    *rdfgraph.Graph
	lang string
}

func (r reader) objects(s rdfgraph.Term, pred string) []rdfgraph.Term {
	return r.g.Objects(s, rdfgraph.IRI(pred))
}

// node returns the first object of pred, whatever its kind.
func (r reader) node(s rdfgraph.Term, pred string) (rdfgraph.Term, bool) {
	return r.g.Object(s, rdfgraph.IRI(pred))
}

// value returns the first IRI or literal object as a string.
func (r reader) value(s rdfgraph.Term, pred string) string {
	for _, o := range r.objects(s, pred) {
		if o.IsIRI() || o.IsLiteral() {
			return o.Value
		}
	}
	return ""
}

// values returns every IRI and literal object as strings, deduplicated, in
// graph order.
func (r reader) values(s rdfgraph.Term, pred string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, o := range r.objects(s, pred) {
		if !(o.IsIRI() || o.IsLiteral()) || o.Value == "" {
			continue
		}
		if _, ok := seen[o.Value]; ok {
			continue
		}
		seen[o.Value] = struct{}{}
		out = append(out, o.Value)
	}
	return out
}

// text picks a literal in the default language, then an untagged literal,
// then whatever literal comes first.
func (r reader) text(s rdfgraph.Term, pred string) string {
	var untagged, first string
	for _, o := range r.objects(s, pred) {
		if !o.IsLiteral() {
			continue
		}
		switch {
		case o.Lang == r.lang:
			return o.Value
		case o.Lang == "" && untagged == "":
			untagged = o.Value
		case first == "":
			first = o.Value
		}
	}
	if untagged != "" {
		return untagged
	}
	return first
}

// translated returns the literals of pred keyed by language. Untagged
// literals are filed under the default language unless a tagged one exists.
func (r reader) translated(s rdfgraph.Term, pred string) map[string]string {
	out := make(map[string]string)
	for _, o := range r.objects(s, pred) {
		if !o.IsLiteral() {
			continue
		}
		lang := o.Lang
		if lang == "" {
			lang = r.lang
			if _, ok := out[lang]; ok {
				continue
			}
		}
		out[lang] = o.Value
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// keywords groups literal values of pred by language, keeping the order in
// which languages first appear.
func (r reader) keywords(s rdfgraph.Term, pred string) (map[string][]string, []string) {
	byLang := make(map[string][]string)
	var order []string
	for _, o := range r.objects(s, pred) {
		if !o.IsLiteral() || o.Value == "" {
			continue
		}
		lang := o.Lang
		if lang == "" {
			lang = r.lang
		}
		if _, ok := byLang[lang]; !ok {
			order = append(order, lang)
		}
		byLang[lang] = append(byLang[lang], o.Value)
	}
	return byLang, order
}
