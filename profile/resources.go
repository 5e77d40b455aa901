package profile

import (
	"github.com/c360studio/fdpharvest/rdfgraph"
	"github.com/c360studio/fdpharvest/vocabulary/fdp"
)

// parseResources maps every dcat:distribution of s to a resource.
func (p *Profile) parseResources(r reader, s rdfgraph.Term) []map[string]any {
	resources := []map[string]any{}
	for _, dist := range r.objects(s, fdp.DCATDistribution) {
		if dist.IsLiteral() {
			continue
		}
		resources = append(resources, p.parseDistribution(r, dist))
	}
	return resources
}

func (p *Profile) parseDistribution(r reader, d rdfgraph.Term) map[string]any {
	res := map[string]any{
		"name":             r.text(d, fdp.DCTTitle),
		"description":      r.text(d, fdp.DCTDescription),
		"distribution_ref": d.Value,
	}
	if d.IsIRI() {
		res["uri"] = d.Value
	}

	accessURL := r.value(d, fdp.DCATAccessURL)
	downloadURL := r.value(d, fdp.DCATDownloadURL)
	setString(res, "access_url", accessURL)
	setString(res, "download_url", downloadURL)
	if downloadURL != "" {
		res["url"] = downloadURL
	} else {
		res["url"] = accessURL
	}

	setString(res, "license", r.value(d, fdp.DCTLicense))
	setString(res, "rights", describedValue(r, d, fdp.DCTRights))
	setString(res, "access_rights", r.value(d, fdp.DCTAccessRights))
	setString(res, "format", r.value(d, fdp.DCTFormat))
	setString(res, "mimetype", r.value(d, fdp.DCATMediaType))
	setString(res, "compress_format", r.value(d, fdp.DCATCompressFormat))
	setString(res, "package_format", r.value(d, fdp.DCATPackageFormat))
	setString(res, "size", r.value(d, fdp.DCATByteSize))
	setString(res, "issued", r.value(d, fdp.DCTIssued))
	setString(res, "modified", r.value(d, fdp.DCTModified))
	setString(res, "status", r.value(d, fdp.ADMSStatus))
	setList(res, "language", r.values(d, fdp.DCTLanguage))
	setList(res, "conforms_to", r.values(d, fdp.DCTConformsTo))
	setList(res, "documentation", r.values(d, fdp.FOAFPage))

	if checksum, ok := r.node(d, fdp.SPDXChecksum); ok {
		setString(res, "hash", r.value(checksum, fdp.SPDXChecksumValue))
		setString(res, "hash_algorithm", r.value(checksum, fdp.SPDXAlgorithm))
	}
	if p.config.IncludeDCATAP3 {
		setList(res, "applicable_legislation", r.values(d, fdp.DCATAPApplicableLegislation))
		setString(res, "availability", r.value(d, fdp.DCATAPAvailability))
	}
	if p.config.IncludeHealth {
		setString(res, "retention_period", r.value(d, fdp.HealthRetentionPeriod))
	}

	var services []map[string]any
	for _, svc := range r.objects(d, fdp.DCATAccessService) {
		if svc.IsLiteral() {
			continue
		}
		services = append(services, p.parseAccessService(r, svc))
	}
	if len(services) > 0 {
		res["access_services"] = services
	}
	return res
}

func (p *Profile) parseAccessService(r reader, s rdfgraph.Term) map[string]any {
	svc := map[string]any{
		"title": r.text(s, fdp.DCTTitle),
	}
	if s.IsIRI() {
		svc["uri"] = s.Value
	}
	setString(svc, "description", r.text(s, fdp.DCTDescription))
	setString(svc, "access_rights", r.value(s, fdp.DCTAccessRights))
	setString(svc, "license", r.value(s, fdp.DCTLicense))
	setList(svc, "endpoint_url", r.values(s, fdp.DCATEndpointURL))
	setList(svc, "endpoint_description", r.values(s, fdp.DCATEndpointDescription))
	setList(svc, "serves_dataset", r.values(s, fdp.DCATServesDataset))
	setList(svc, "conforms_to", r.values(s, fdp.DCTConformsTo))
	setList(svc, "format", r.values(s, fdp.DCTFormat))
	setList(svc, "language", r.values(s, fdp.DCTLanguage))
	setList(svc, "theme", r.values(s, fdp.DCATTheme))
	if creators := agents(r, s, fdp.DCTCreator); len(creators) > 0 {
		svc["creator"] = creators
	}
	if publishers := agents(r, s, fdp.DCTPublisher); len(publishers) > 0 {
		svc["publisher"] = publishers
	}
	if p.config.IncludeDCATAP3 {
		setList(svc, "applicable_legislation", r.values(s, fdp.DCATAPApplicableLegislation))
		setList(svc, "hvd_category", r.values(s, fdp.DCATAPHVDCategory))
	}
	return svc
}
