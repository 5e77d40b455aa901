package profile

import (
	"github.com/c360studio/fdpharvest/rdfgraph"
	"github.com/c360studio/fdpharvest/vocabulary/fdp"
)

// parseCommon maps the descriptive fields shared by catalogs, datasets and
// dataset series. It also returns the keyword languages in first-seen order.
func (p *Profile) parseCommon(r reader, s rdfgraph.Term) (Package, []string) {
	pkg := Package{
		"title": r.text(s, fdp.DCTTitle),
		"notes": r.text(s, fdp.DCTDescription),
	}
	if s.IsIRI() {
		pkg["uri"] = s.Value
	}
	if t := r.translated(s, fdp.DCTTitle); len(t) > 1 {
		pkg["title_translated"] = t
	}
	if t := r.translated(s, fdp.DCTDescription); len(t) > 1 {
		pkg["notes_translated"] = t
	}

	setString(pkg, "identifier", r.value(s, fdp.DCTIdentifier))
	setString(pkg, "issued", r.value(s, fdp.DCTIssued))
	setString(pkg, "modified", r.value(s, fdp.DCTModified))
	setString(pkg, "access_rights", r.value(s, fdp.DCTAccessRights))

	setList(pkg, "language", r.values(s, fdp.DCTLanguage))
	setList(pkg, "theme", r.values(s, fdp.DCATTheme))
	setList(pkg, "conforms_to", r.values(s, fdp.DCTConformsTo))

	if publishers := agents(r, s, fdp.DCTPublisher); len(publishers) > 0 {
		pkg["publisher"] = publishers
	}
	if contacts := contactDetails(r, s, fdp.DCATContactPoint); len(contacts) > 0 {
		pkg["contact"] = contacts
	}
	if p.config.AgentCreators {
		if creators := agents(r, s, fdp.DCTCreator); len(creators) > 0 {
			pkg["creator"] = creators
		}
	} else if creators := fdpCreators(r, s); len(creators) > 0 {
		pkg["creator"] = creators
	}

	byLang, order := r.keywords(s, fdp.DCATKeyword)
	if len(order) > 0 {
		pkg["tags_translated"] = byLang
	} else {
		pkg["tags"] = []map[string]any{}
	}
	return pkg, order
}

// parseDatasetFields maps the DCAT-AP 2 dataset properties.
func (p *Profile) parseDatasetFields(r reader, s rdfgraph.Term, pkg Package) {
	pkg["url"] = r.value(s, fdp.DCATLandingPage)
	pkg["license_id"] = r.value(s, fdp.DCTLicense)

	version := r.value(s, fdp.DCATVersion)
	if version == "" {
		version = r.value(s, fdp.OWLVersionInfo)
	}
	setString(pkg, "version", version)
	setString(pkg, "frequency", r.value(s, fdp.DCTAccrualPeriodicity))
	setString(pkg, "dcat_type", r.value(s, fdp.DCTType))
	setString(pkg, "status", r.value(s, fdp.ADMSStatus))
	setString(pkg, "spatial_resolution_in_meters", r.value(s, fdp.DCATSpatialResolution))
	setString(pkg, "temporal_resolution", r.value(s, fdp.DCATTemporalResolution))
	setString(pkg, "provenance", describedValue(r, s, fdp.DCTProvenance))

	setList(pkg, "is_referenced_by", r.values(s, fdp.DCTIsReferencedBy))
	setList(pkg, "has_version", r.values(s, fdp.DCTHasVersion))
	setList(pkg, "is_version_of", r.values(s, fdp.DCTIsVersionOf))
	setList(pkg, "source", r.values(s, fdp.DCTSource))
	setList(pkg, "related_resource", r.values(s, fdp.DCTRelation))
	setList(pkg, "sample", r.values(s, fdp.ADMSSample))
	setList(pkg, "documentation", r.values(s, fdp.FOAFPage))
	setList(pkg, "alternate_identifier", r.values(s, fdp.ADMSIdentifier))

	var spatial []map[string]any
	for _, o := range r.objects(s, fdp.DCTSpatial) {
		item := map[string]any{}
		if o.IsIRI() {
			item["uri"] = o.Value
		}
		setString(item, "geom", r.value(o, fdp.LOCNGeometry))
		if len(item) > 0 {
			spatial = append(spatial, item)
		}
	}
	if len(spatial) > 0 {
		pkg["spatial_coverage"] = spatial
	}

	var temporal []map[string]any
	for _, o := range r.objects(s, fdp.DCTTemporal) {
		start, end := r.value(o, fdp.DCATStartDate), r.value(o, fdp.DCATEndDate)
		if start == "" && end == "" {
			continue
		}
		temporal = append(temporal, map[string]any{"start": start, "end": end})
	}
	if len(temporal) > 0 {
		pkg["temporal_coverage"] = temporal
	}

	var relations []map[string]any
	for _, o := range r.objects(s, fdp.DCATQualifiedRelation) {
		rel := map[string]any{
			"uri":  r.value(o, fdp.DCTRelation),
			"role": r.value(o, fdp.DCATHadRole),
		}
		relations = append(relations, rel)
	}
	if len(relations) > 0 {
		pkg["qualified_relation"] = relations
	}

	var attributions []map[string]any
	for _, o := range r.objects(s, fdp.PROVQualifiedAttribution) {
		attr := map[string]any{"role": r.value(o, fdp.DCATHadRole)}
		if agent := agents(r, o, fdp.PROVAgent); len(agent) > 0 {
			attr["agent"] = agent
		}
		attributions = append(attributions, attr)
	}
	if len(attributions) > 0 {
		pkg["qualified_attribution"] = attributions
	}

	var annotations []map[string]any
	for _, o := range r.objects(s, fdp.DQVHasQualityAnnotation) {
		if body := r.value(o, fdp.OAHasBody); body != "" {
			annotations = append(annotations, map[string]any{"body": body})
		}
	}
	if len(annotations) > 0 {
		pkg["quality_annotation"] = annotations
	}
}

// parseDCATAP3 maps the properties DCAT-AP 3 introduced.
func (p *Profile) parseDCATAP3(r reader, s rdfgraph.Term, pkg Package, series SeriesMapping) {
	setList(pkg, "applicable_legislation", r.values(s, fdp.DCATAPApplicableLegislation))
	setList(pkg, "hvd_category", r.values(s, fdp.DCATAPHVDCategory))
	setString(pkg, "version_notes", r.text(s, fdp.ADMSVersionNotes))

	var inSeries []string
	for _, uri := range r.values(s, fdp.DCATInSeries) {
		id, ok := series[uri]
		if !ok {
			p.logger.Debug("Series not harvested, dropping in_series link", "series", uri)
			continue
		}
		inSeries = append(inSeries, id)
	}
	setList(pkg, "in_series", inSeries)
}

// describedValue returns the IRI or literal object of pred, or the label of
// a blank node object.
func describedValue(r reader, s rdfgraph.Term, pred string) string {
	o, ok := r.node(s, pred)
	if !ok {
		return ""
	}
	if !o.IsBlank() {
		return o.Value
	}
	return r.text(o, fdp.RDFSLabel)
}

func setString(m map[string]any, key, value string) {
	if value != "" {
		m[key] = value
	}
}

func setList(m map[string]any, key string, values []string) {
	if len(values) > 0 {
		m[key] = values
	}
}
