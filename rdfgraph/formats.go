package rdfgraph

import (
	"bytes"
	"mime"
	"strings"
)

// Format is an RDF serialization.
type Format string

const (
	FormatTurtle   Format = "turtle"
	FormatNTriples Format = "ntriples"
	FormatRDFXML   Format = "rdfxml"
	FormatJSONLD   Format = "jsonld"
)

// mediaTypes lists the media types of each format, canonical type first.
// No media type belongs to two formats.
var mediaTypes = map[Format][]string{
	FormatTurtle:   {"text/turtle", "application/x-turtle", "text/n3", "text/rdf+n3"},
	FormatNTriples: {"application/n-triples"},
	FormatRDFXML:   {"application/rdf+xml", "application/xml", "text/xml"},
	FormatJSONLD:   {"application/ld+json", "application/json"},
}

// Accept headers used when fetching graphs.
const (
	// AcceptTurtle is sent to FDP servers.
	AcceptTurtle = "text/turtle"

	// AcceptAny is sent to arbitrary vocabulary hosts.
	AcceptAny = "text/turtle, application/rdf+xml;q=0.9, application/ld+json;q=0.8, " +
		"application/n-triples;q=0.7, text/n3;q=0.6, application/xml;q=0.5, */*;q=0.1"
)

// FormatForContentType maps a Content-Type header value to a format.
// Canonical types win over aliases.
func FormatForContentType(contentType string) (Format, bool) {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mt = strings.ToLower(strings.TrimSpace(contentType))
	}
	var alias Format
	for f, types := range mediaTypes {
		for i, t := range types {
			if t != mt {
				continue
			}
			if i == 0 {
				return f, true
			}
			alias = f
		}
	}
	return alias, alias != ""
}

// Sniff guesses the format of data from its leading bytes. It never fails;
// anything unrecognised is treated as Turtle.
func Sniff(data []byte) Format {
	trimmed := bytes.TrimLeft(data, " \t\r\n\ufeff")
	switch {
	case bytes.HasPrefix(trimmed, []byte("{")), bytes.HasPrefix(trimmed, []byte("[")):
		return FormatJSONLD
	case bytes.HasPrefix(trimmed, []byte("<?xml")), bytes.HasPrefix(trimmed, []byte("<rdf:RDF")):
		return FormatRDFXML
	default:
		return FormatTurtle
	}
}
