// Package fdp provides the IRI vocabulary used when crawling FAIR Data Points
// and mapping their records onto catalog packages.
//
// # Namespaces
//
// Terms are grouped per namespace and spelled out as full IRIs so they can be
// compared directly against parsed graph terms:
//   - DCAT and DCAT-AP: catalogs, datasets, dataset series, distributions, data services
//   - DCTERMS: descriptive metadata (title, description, conformsTo, accessRights, ...)
//   - LDP: containment links between FDP resources
//   - VCARD: contact points
//   - RDF, RDFS, SKOS, schema.org, FOAF: typing and labels
//   - ADMS, OWL, PROV, HealthDCAT-AP: secondary metadata used by the profiles
//
// # Ontology Alignment
//
// The FDP specification layers its own metadata on top of DCAT; only DCAT,
// DCTERMS and LDP terms are needed to walk the hierarchy. The remaining terms
// are consumed by the profile package when producing package dictionaries.
package fdp
