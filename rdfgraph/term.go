// Package rdfgraph provides the in-memory RDF graph used by the harvester:
// a small term model, an insertion-ordered triple store with pattern
// matching, parsers for the serializations FDP servers and label sources
// return, and a Turtle writer.
package rdfgraph

import (
	"strconv"
	"strings"
	"sync/atomic"
)

// Kind identifies the type of an RDF term.
type Kind uint8

const (
	// KindNone marks the zero Term, which acts as a wildcard in patterns.
	KindNone Kind = iota
	KindIRI
	KindBlank
	KindLiteral
)

// Term is an RDF term. Terms are comparable and can be used as map keys.
type Term struct {
	Kind     Kind
	Value    string
	Lang     string
	Datatype string
}

// IRI returns an IRI term.
func IRI(value string) Term {
	return Term{Kind: KindIRI, Value: value}
}

// Blank returns a blank node term with the given label.
func Blank(label string) Term {
	return Term{Kind: KindBlank, Value: label}
}

// Literal returns a plain string literal.
func Literal(value string) Term {
	return Term{Kind: KindLiteral, Value: value}
}

// LangLiteral returns a language-tagged literal. The tag is lower-cased.
func LangLiteral(value, lang string) Term {
	return Term{Kind: KindLiteral, Value: value, Lang: strings.ToLower(lang)}
}

// TypedLiteral returns a literal with an explicit datatype.
func TypedLiteral(value, datatype string) Term {
	return Term{Kind: KindLiteral, Value: value, Datatype: datatype}
}

var blankSeq atomic.Uint64

// NewBlank returns a blank node whose label is unique within the process.
// Parsers relabel every blank node through NewBlank, so graphs parsed from
// different documents can be merged without label collisions.
func NewBlank() Term {
	return Blank("b" + strconv.FormatUint(blankSeq.Add(1), 10))
}

// IsZero reports whether t is the wildcard term.
func (t Term) IsZero() bool { return t.Kind == KindNone }

// IsIRI reports whether t is an IRI.
func (t Term) IsIRI() bool { return t.Kind == KindIRI }

// IsBlank reports whether t is a blank node.
func (t Term) IsBlank() bool { return t.Kind == KindBlank }

// IsLiteral reports whether t is a literal.
func (t Term) IsLiteral() bool { return t.Kind == KindLiteral }

// String returns the N-Triples form of the term.
func (t Term) String() string {
	switch t.Kind {
	case KindIRI:
		return "<" + escapeIRI(t.Value) + ">"
	case KindBlank:
		return "_:" + t.Value
	case KindLiteral:
		s := `"` + escapeLiteral(t.Value) + `"`
		if t.Lang != "" {
			return s + "@" + t.Lang
		}
		if t.Datatype != "" {
			return s + "^^<" + escapeIRI(t.Datatype) + ">"
		}
		return s
	default:
		return "*"
	}
}

// matches reports whether t satisfies the pattern term p.
func (t Term) matches(p Term) bool {
	return p.IsZero() || t == p
}

// Triple is a subject-predicate-object statement.
type Triple struct {
	S, P, O Term
}

// String returns the N-Triples line for the triple, without the newline.
func (t Triple) String() string {
	return t.S.String() + " " + t.P.String() + " " + t.O.String() + " ."
}

func escapeLiteral(s string) string {
	if !strings.ContainsAny(s, "\\\"\n\r\t") {
		return s
	}
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// escapeIRI encodes characters that are not allowed inside an IRIREF.
func escapeIRI(s string) string {
	if !strings.ContainsAny(s, " <>\"{}|^`\\") {
		return s
	}
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case ' ', '<', '>', '"', '{', '}', '|', '^', '`', '\\':
			sb.WriteString(`\u00`)
			h := strconv.FormatInt(int64(r), 16)
			if len(h) < 2 {
				sb.WriteByte('0')
			}
			sb.WriteString(strings.ToUpper(h))
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
