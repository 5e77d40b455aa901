package rdfgraph

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/knakk/rdf"

	"github.com/c360studio/fdpharvest/vocabulary/fdp"
)

// DefaultPrefixes maps the prefixes used in Turtle output to their
// namespaces.
func DefaultPrefixes() map[string]string {
	return map[string]string{
		"rdf":   fdp.NamespaceRDF,
		"rdfs":  fdp.NamespaceRDFS,
		"xsd":   fdp.NamespaceXSD,
		"dcat":  fdp.NamespaceDCAT,
		"dct":   fdp.NamespaceDCT,
		"ldp":   fdp.NamespaceLDP,
		"vcard": fdp.NamespaceVCARD,
		"foaf":  fdp.NamespaceFOAF,
		"skos":  fdp.NamespaceSKOS,
	}
}

// Turtle serializes g with the default prefixes. Triples are grouped per
// subject, subjects in first-seen order.
func Turtle(g *Graph) string {
	var sb strings.Builder
	enc := rdf.NewTripleEncoder(&sb, rdf.Turtle)
	enc.GenerateNamespaces = false
	triples := groupBySubject(g)
	unsafe := unsafeNamespaces(triples)
	for prefix, ns := range DefaultPrefixes() {
		if !unsafe[ns] {
			enc.Namespaces[ns] = prefix
		}
	}

	conv := encodeScope{turtle: true, namespaces: enc.Namespaces}
	for _, t := range triples {
		if rt, ok := conv.triple(t); ok {
			// Writes go to a strings.Builder and cannot fail.
			_ = enc.Encode(rt)
		}
	}
	_ = enc.Close()
	if sb.Len() > 0 {
		sb.WriteString("\n")
	}
	return sb.String()
}

// NTriples serializes g as N-Triples in insertion order.
func NTriples(g *Graph) string {
	var sb strings.Builder
	enc := rdf.NewTripleEncoder(&sb, rdf.NTriples)
	conv := encodeScope{}
	for _, t := range g.All() {
		if rt, ok := conv.triple(t); ok {
			_ = enc.Encode(rt)
		}
	}
	_ = enc.Close()
	return sb.String()
}

func groupBySubject(g *Graph) []Triple {
	all := g.All()
	var order []Term
	bySubject := make(map[Term][]Triple)
	for _, t := range all {
		if _, ok := bySubject[t.S]; !ok {
			order = append(order, t.S)
		}
		bySubject[t.S] = append(bySubject[t.S], t)
	}
	out := make([]Triple, 0, len(all))
	for _, s := range order {
		out = append(out, bySubject[s]...)
	}
	return out
}

// pnLocal matches local names that are safe to write after a prefix.
var pnLocal = regexp.MustCompile(`^([A-Za-z0-9_]([A-Za-z0-9_.-]*[A-Za-z0-9_-])?)?$`)

// unsafeNamespaces returns the namespaces holding an IRI whose local name
// cannot be written as a prefixed name. The encoder does not escape local
// names, so those namespaces are written as full IRIs.
func unsafeNamespaces(triples []Triple) map[string]bool {
	out := make(map[string]bool)
	check := func(iri string) {
		ns, local := toIRI(iri).Split()
		if ns != "" && !pnLocal.MatchString(local) {
			out[ns] = true
		}
	}
	for _, t := range triples {
		for _, term := range []Term{t.S, t.P, t.O} {
			switch {
			case term.IsIRI():
				check(term.Value)
			case term.IsLiteral() && term.Datatype != "":
				check(term.Datatype)
			}
		}
	}
	return out
}

// encodeScope converts terms to knakk terms. The Turtle encoder writes some
// literals verbatim, so conversion rewrites those into forms it emits
// correctly.
type encodeScope struct {
	turtle bool
	// namespaces are the encoder's namespace -> prefix mappings.
	namespaces map[string]string
}

func (c encodeScope) triple(t Triple) (rdf.Triple, bool) {
	s, ok := c.term(t.S).(rdf.Subject)
	if !ok || t.S.IsLiteral() {
		return rdf.Triple{}, false
	}
	p, ok := c.term(t.P).(rdf.Predicate)
	if !ok || !t.P.IsIRI() {
		return rdf.Triple{}, false
	}
	o, ok := c.term(t.O).(rdf.Object)
	if !ok {
		return rdf.Triple{}, false
	}
	return rdf.Triple{Subj: s, Pred: p, Obj: o}, true
}

func (c encodeScope) term(t Term) rdf.Term {
	switch t.Kind {
	case KindIRI:
		return toIRI(t.Value)
	case KindBlank:
		label := t.Value
		if strings.TrimSpace(label) == "" {
			label = "b0"
		}
		b, _ := rdf.NewBlank(label)
		return b
	case KindLiteral:
		return c.literal(t)
	default:
		return nil
	}
}

func (c encodeScope) literal(t Term) rdf.Literal {
	if t.Lang != "" {
		if lit, ok := langLiteral(t.Value, t.Lang); ok {
			return lit
		}
		return plainLiteral(t.Value)
	}
	switch t.Datatype {
	case "", fdp.XSDString, fdp.RDFLangString:
		return plainLiteral(t.Value)
	}
	if !c.turtle {
		return rdf.NewTypedLiteral(t.Value, toIRI(t.Datatype))
	}
	switch t.Datatype {
	case fdp.XSDInteger, fdp.XSDDecimal, fdp.XSDDouble, fdp.XSDBoolean:
		// Written without quotes, so the lexical form must be a Turtle
		// number or boolean of the same type.
		if lexical, ok := turtleLexical(t.Datatype, t.Value); ok {
			return rdf.NewTypedLiteral(lexical, toIRI(t.Datatype))
		}
		return plainLiteral(t.Value)
	}

	dt := toIRI(t.Datatype)
	value := t.Value
	if c.verbatim(dt) {
		value = escapeQuoted(value)
	}
	return rdf.NewTypedLiteral(value, dt)
}

// verbatim reports whether the encoder writes values of datatype dt
// without escaping them.
func (c encodeScope) verbatim(dt rdf.IRI) bool {
	if !c.turtle {
		return false
	}
	if dt.String() == fdp.XSDDateTime {
		return true
	}
	ns, _ := dt.Split()
	_, mapped := c.namespaces[ns]
	return ns != "" && mapped
}

func plainLiteral(v string) rdf.Literal {
	lit, _ := rdf.NewLiteral(v)
	return lit
}

// langLiteral accepts the primary language and one subtag; longer tags are
// cut to that.
func langLiteral(v, lang string) (rdf.Literal, bool) {
	if lit, err := rdf.NewLangLiteral(v, lang); err == nil {
		return lit, true
	}
	parts := strings.SplitN(lang, "-", 3)
	if len(parts) < 3 {
		return rdf.Literal{}, false
	}
	lit, err := rdf.NewLangLiteral(v, parts[0]+"-"+parts[1])
	return lit, err == nil
}

// toIRI percent-encodes characters an IRI may not contain.
func toIRI(v string) rdf.IRI {
	if iri, err := rdf.NewIRI(v); err == nil {
		return iri
	}
	var sb strings.Builder
	for _, r := range v {
		if r <= 0x20 || strings.ContainsRune("<>\"{}|^`\\", r) {
			fmt.Fprintf(&sb, "%%%02X", r)
			continue
		}
		sb.WriteRune(r)
	}
	iri, err := rdf.NewIRI(sb.String())
	if err != nil {
		iri, _ = rdf.NewIRI("urn:invalid")
	}
	return iri
}

var (
	turtleInteger = regexp.MustCompile(`^[+-]?[0-9]+$`)
	turtleDecimal = regexp.MustCompile(`^[+-]?[0-9]*\.[0-9]+$`)
	turtleDouble  = regexp.MustCompile(`^[+-]?([0-9]+\.[0-9]*|\.[0-9]+|[0-9]+)[eE][+-]?[0-9]+$`)
	openDecimal   = regexp.MustCompile(`^[+-]?[0-9]+\.$`)
)

// turtleLexical returns the unquoted Turtle form of a numeric or boolean
// value that parses back to datatype. Equivalent lexical forms are used
// where the given one would read back as another type.
func turtleLexical(datatype, v string) (string, bool) {
	switch datatype {
	case fdp.XSDInteger:
		return v, turtleInteger.MatchString(v)
	case fdp.XSDDecimal:
		switch {
		case turtleDecimal.MatchString(v):
			return v, true
		case turtleInteger.MatchString(v):
			return v + ".0", true
		case openDecimal.MatchString(v):
			return v + "0", true
		}
	case fdp.XSDDouble:
		switch {
		case turtleDouble.MatchString(v):
			return v, true
		case turtleInteger.MatchString(v), turtleDecimal.MatchString(v), openDecimal.MatchString(v):
			return v + "e0", true
		}
	case fdp.XSDBoolean:
		switch v {
		case "true", "1":
			return "true", true
		case "false", "0":
			return "false", true
		}
	}
	return "", false
}

// escapeQuoted escapes v for a double-quoted Turtle string.
func escapeQuoted(v string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`).Replace(v)
}
