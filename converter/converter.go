// Package converter turns the Turtle of an assembled FDP record into a
// catalog package using a profile.
package converter

import (
	"fmt"
	"log/slog"

	"github.com/c360studio/fdpharvest/identifier"
	"github.com/c360studio/fdpharvest/profile"
	"github.com/c360studio/fdpharvest/rdfgraph"
	"github.com/c360studio/fdpharvest/vocabulary/fdp"
)

// ConversionError carries the record text that failed to convert.
type ConversionError struct {
	GUID   string
	Record string
	Err    error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("convert record %s: %v", e.GUID, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// Converter maps records to packages with a single profile.
type Converter struct {
	profile *profile.Profile
	logger  *slog.Logger
}

// New creates a converter for the named profile.
func New(profileName string, logger *slog.Logger, opts ...profile.Option) (*Converter, error) {
	if logger == nil {
		logger = slog.Default()
	}
	p, err := profile.New(profileName, append([]profile.Option{profile.WithLogger(logger)}, opts...)...)
	if err != nil {
		return nil, err
	}
	return &Converter{profile: p, logger: logger}, nil
}

// Profile returns the profile in use.
func (c *Converter) Profile() *profile.Profile {
	return c.profile
}

// Convert parses record and maps the subject matching the leaf type of guid.
// Catalog leaves map dcat:Catalog subjects, dataseries leaves map
// dcat:DatasetSeries subjects and everything else maps dcat:Dataset
// subjects. The subject equal to the leaf value wins over other candidates.
// A record without a matching subject yields a nil package and no error.
func (c *Converter) Convert(guid, record string, series profile.SeriesMapping) (profile.Package, error) {
	fail := func(err error) (profile.Package, error) {
		return nil, &ConversionError{GUID: guid, Record: record, Err: err}
	}

	id := identifier.New(guid)
	idType, err := id.Type()
	if err != nil {
		return fail(err)
	}
	value, err := id.Value()
	if err != nil {
		return fail(err)
	}

	g, err := rdfgraph.Parse([]byte(record), rdfgraph.FormatTurtle, "")
	if err != nil {
		return fail(fmt.Errorf("parse record: %w", err))
	}

	class := fdp.ClassDataset
	switch idType {
	case identifier.TypeCatalog:
		class = fdp.ClassCatalog
	case identifier.TypeDataSeries:
		class = fdp.ClassDatasetSeries
	}

	subject, ok := pickSubject(g.SubjectsOfType(class), value)
	if !ok {
		c.logger.Warn("No matching subject in record", "guid", guid, "class", class)
		return nil, nil
	}

	var pkg profile.Package
	if idType == identifier.TypeCatalog {
		pkg, err = c.profile.ParseCatalog(g, subject)
	} else {
		pkg, err = c.profile.ParseDataset(g, subject, series)
	}
	if err != nil {
		return fail(err)
	}
	return pkg, nil
}

func pickSubject(candidates []rdfgraph.Term, value string) (rdfgraph.Term, bool) {
	if len(candidates) == 0 {
		return rdfgraph.Term{}, false
	}
	for _, s := range candidates {
		if s.IsIRI() && s.Value == value {
			return s, true
		}
	}
	return candidates[0], true
}
