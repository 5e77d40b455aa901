package profile

import (
	"strings"

	"github.com/c360studio/fdpharvest/rdfgraph"
	"github.com/c360studio/fdpharvest/vocabulary/fdp"
)

// contactDetails maps vCard contact points. The uri comes from the object
// itself when it is an IRI, otherwise from vcard:hasUID.
func contactDetails(r reader, s rdfgraph.Term, pred string) []map[string]any {
	var out []map[string]any
	for _, agent := range r.objects(s, pred) {
		if agent.IsLiteral() {
			continue
		}
		contact := map[string]any{
			"uri":   agent.Value,
			"name":  firstValue(r, agent, fdp.VCARDHasFN, fdp.VCARDFn),
			"email": strings.TrimPrefix(r.value(agent, fdp.VCARDHasEmail), "mailto:"),
			"phone": strings.TrimPrefix(r.value(agent, fdp.VCARDHasTelephone), "tel:"),
		}
		if agent.IsBlank() {
			contact["uri"] = r.value(agent, fdp.VCARDHasUID)
		}
		setString(contact, "url", r.value(agent, fdp.VCARDHasURL))
		out = append(out, contact)
	}
	return out
}

// agents maps FOAF agents such as publishers and creators.
func agents(r reader, s rdfgraph.Term, pred string) []map[string]any {
	var out []map[string]any
	for _, agent := range r.objects(s, pred) {
		if agent.IsLiteral() {
			out = append(out, map[string]any{"name": agent.Value})
			continue
		}
		item := map[string]any{
			"uri":        "",
			"name":       r.text(agent, fdp.FOAFName),
			"email":      strings.TrimPrefix(r.value(agent, fdp.FOAFMbox), "mailto:"),
			"url":        r.value(agent, fdp.FOAFHomepage),
			"type":       r.value(agent, fdp.DCTType),
			"identifier": r.value(agent, fdp.DCTIdentifier),
		}
		if agent.IsIRI() {
			item["uri"] = agent.Value
		}
		out = append(out, item)
	}
	return out
}

// fdpCreators maps dct:creator objects to creator_identifier/creator_name
// pairs. A creator IRI without a foaf:name doubles as both.
func fdpCreators(r reader, s rdfgraph.Term) []map[string]any {
	var out []map[string]any
	for _, ref := range r.objects(s, fdp.DCTCreator) {
		creator := map[string]any{}
		if id := r.value(ref, fdp.DCTIdentifier); id != "" {
			creator["creator_identifier"] = id
		}
		if name := r.text(ref, fdp.FOAFName); name != "" {
			creator["creator_name"] = name
		} else if ref.IsIRI() {
			creator["creator_identifier"] = ref.Value
			creator["creator_name"] = ref.Value
		} else {
			creator["creator_name"] = ref.Value
		}
		out = append(out, creator)
	}
	return out
}

func firstValue(r reader, s rdfgraph.Term, preds ...string) string {
	for _, pred := range preds {
		if v := r.value(s, pred); v != "" {
			return v
		}
	}
	return ""
}
