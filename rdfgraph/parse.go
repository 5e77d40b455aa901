package rdfgraph

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/c360studio/fdpharvest/vocabulary/fdp"
	"github.com/knakk/rdf"
	"github.com/piprate/json-gold/ld"
)

// ErrUnsupportedFormat is returned for formats without a parser.
var ErrUnsupportedFormat = errors.New("unsupported RDF format")

// Parse decodes data in the given format into a new graph. Blank nodes are
// relabelled so the result never shares labels with previously parsed graphs.
// base is used to resolve relative references in JSON-LD documents.
func Parse(data []byte, format Format, base string, opts ...ParseOption) (*Graph, error) {
	switch format {
	case FormatTurtle:
		return decodeTriples(data, rdf.Turtle)
	case FormatNTriples:
		return decodeTriples(data, rdf.NTriples)
	case FormatRDFXML:
		return decodeTriples(data, rdf.RDFXML)
	case FormatJSONLD:
		return decodeJSONLD(data, base, buildParseOptions(opts))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// ParseAuto picks a format from the Content-Type header, falling back to
// sniffing the payload, and parses data with it.
func ParseAuto(data []byte, contentType, base string, opts ...ParseOption) (*Graph, error) {
	format, ok := FormatForContentType(contentType)
	if !ok {
		format = Sniff(data)
	}
	return Parse(data, format, base, opts...)
}

// ParseString parses Turtle text.
func ParseString(turtle string) (*Graph, error) {
	return Parse([]byte(turtle), FormatTurtle, "")
}

type blankScope map[string]Term

func (s blankScope) term(label string) Term {
	label = strings.TrimPrefix(label, "_:")
	if t, ok := s[label]; ok {
		return t
	}
	t := NewBlank()
	s[label] = t
	return t
}

func decodeTriples(data []byte, format rdf.Format) (g *Graph, err error) {
	// The decoders can panic on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			g, err = nil, fmt.Errorf("decode: %v", r)
		}
	}()

	dec := rdf.NewTripleDecoder(bytes.NewReader(data), format)
	g = New()
	scope := make(blankScope)
	for {
		t, derr := dec.Decode()
		if derr == io.EOF {
			break
		}
		if derr != nil {
			return nil, fmt.Errorf("decode: %w", derr)
		}
		g.Add(fromRDF(t.Subj, scope), fromRDF(t.Pred, scope), fromRDF(t.Obj, scope))
	}
	return g, nil
}

func fromRDF(term rdf.Term, scope blankScope) Term {
	switch v := term.(type) {
	case rdf.IRI:
		return IRI(v.String())
	case rdf.Blank:
		return scope.term(v.String())
	case rdf.Literal:
		if lang := v.Lang(); lang != "" {
			return LangLiteral(v.String(), lang)
		}
		return TypedLiteral(v.String(), normaliseDatatype(v.DataType.String()))
	default:
		return Literal(term.String())
	}
}

func decodeJSONLD(data []byte, base string, po parseOptions) (*Graph, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}

	proc := ld.NewJsonLdProcessor()
	opts := ld.NewJsonLdOptions(base)
	opts.DocumentLoader = po.loader
	out, err := proc.ToRDF(doc, opts)
	if err != nil {
		return nil, fmt.Errorf("json-ld to rdf: %w", err)
	}
	dataset, ok := out.(*ld.RDFDataset)
	if !ok {
		return nil, fmt.Errorf("json-ld to rdf: unexpected result %T", out)
	}

	g := New()
	scope := make(blankScope)
	for _, quads := range dataset.Graphs {
		for _, q := range quads {
			s, sok := fromLD(q.Subject, scope)
			p, pok := fromLD(q.Predicate, scope)
			o, ook := fromLD(q.Object, scope)
			if sok && pok && ook {
				g.Add(s, p, o)
			}
		}
	}
	return g, nil
}

func fromLD(node ld.Node, scope blankScope) (Term, bool) {
	switch v := node.(type) {
	case *ld.IRI:
		return IRI(v.Value), true
	case *ld.BlankNode:
		return scope.term(v.Attribute), true
	case *ld.Literal:
		if v.Language != "" {
			return LangLiteral(v.Value, v.Language), true
		}
		return TypedLiteral(v.Value, normaliseDatatype(v.Datatype)), true
	default:
		return Term{}, false
	}
}

// normaliseDatatype drops the implicit string datatypes so plain literals
// compare equal regardless of which parser produced them.
func normaliseDatatype(dt string) string {
	switch dt {
	case fdp.XSDString, fdp.RDFLangString:
		return ""
	}
	return dt
}
