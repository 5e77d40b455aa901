package fdp

import (
	"context"
	"errors"
	"strings"

	"github.com/c360studio/fdpharvest/rdfgraph"
	"github.com/c360studio/fdpharvest/vocabulary/fdp"
)

type orcidPublicRecord struct {
	DisplayName string `json:"displayName"`
}

// ORCIDDisplayName looks up the public display name of an ORCID iD.
func ORCIDDisplayName(ctx context.Context, source Source, orcidURI string) (string, error) {
	var rec orcidPublicRecord
	if err := source.GetJSON(ctx, strings.TrimRight(orcidURI, "/")+"/public-record.json", &rec); err != nil {
		return "", err
	}
	if rec.DisplayName == "" {
		return "", errors.New("public record has no displayName")
	}
	return rec.DisplayName, nil
}

// contactPointToVCard replaces a bare contact point IRI with a vCard node
// carrying the IRI as hasUID and, when ORCID answers, the person's name.
func (p *RecordProvider) contactPointToVCard(ctx context.Context, g *rdfgraph.Graph, subject, contact rdfgraph.Term) {
	contactPoint := rdfgraph.IRI(fdp.DCATContactPoint)
	g.Remove(subject, contactPoint, contact)

	vcard := rdfgraph.NewBlank()
	g.Add(subject, contactPoint, vcard)
	g.Add(vcard, rdfgraph.IRI(fdp.RDFType), rdfgraph.IRI(fdp.VCARDKind))
	g.Add(vcard, rdfgraph.IRI(fdp.VCARDHasUID), contact)

	name, err := ORCIDDisplayName(ctx, p.source, contact.Value)
	if err != nil {
		p.logger.Error("Failed to get data from ORCID", "url", contact.Value, "error", err)
		return
	}
	g.Add(vcard, rdfgraph.IRI(fdp.VCARDFn), rdfgraph.Literal(name))
}
