package fdp

import "github.com/c360studio/semstreams/vocabulary"

// Namespace IRIs.
const (
	NamespaceRDF          = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	NamespaceRDFS         = "http://www.w3.org/2000/01/rdf-schema#"
	NamespaceXSD          = "http://www.w3.org/2001/XMLSchema#"
	NamespaceOWL          = "http://www.w3.org/2002/07/owl#"
	NamespaceDCAT         = "http://www.w3.org/ns/dcat#"
	NamespaceDCT          = "http://purl.org/dc/terms/"
	NamespaceLDP          = "http://www.w3.org/ns/ldp#"
	NamespaceVCARD        = "http://www.w3.org/2006/vcard/ns#"
	NamespaceSKOS         = "http://www.w3.org/2004/02/skos/core#"
	NamespaceSchema       = "https://schema.org/"
	NamespaceFOAF         = "http://xmlns.com/foaf/0.1/"
	NamespaceADMS         = "http://www.w3.org/ns/adms#"
	NamespacePROV         = vocabulary.ProvNamespace
	NamespaceDCATAP       = "http://data.europa.eu/r5r/"
	NamespaceHealthDCATAP = "http://healthdataportal.eu/ns/health#"
	NamespaceSPDX         = "http://spdx.org/rdf/terms#"
	NamespaceDQV          = "http://www.w3.org/ns/dqv#"
	NamespaceOA           = "http://www.w3.org/ns/oa#"
	NamespaceLOCN         = "http://www.w3.org/ns/locn#"
)

// RDF, RDFS, XSD and OWL terms.
const (
	RDFType        = NamespaceRDF + "type"
	RDFLangString  = NamespaceRDF + "langString"
	RDFSLabel      = vocabulary.RdfsLabel
	RDFSSeeAlso    = vocabulary.RdfsSeeAlso
	XSDString      = NamespaceXSD + "string"
	XSDDate        = NamespaceXSD + "date"
	XSDDateTime    = NamespaceXSD + "dateTime"
	XSDInteger     = NamespaceXSD + "integer"
	XSDDecimal     = NamespaceXSD + "decimal"
	XSDDouble      = NamespaceXSD + "double"
	XSDBoolean     = NamespaceXSD + "boolean"
	OWLVersionInfo = NamespaceOWL + "versionInfo"
)

// DCAT classes.
const (
	ClassCatalog       = NamespaceDCAT + "Catalog"
	ClassDataset       = NamespaceDCAT + "Dataset"
	ClassDatasetSeries = NamespaceDCAT + "DatasetSeries"
	ClassDistribution  = NamespaceDCAT + "Distribution"
	ClassDataService   = NamespaceDCAT + "DataService"
	ClassRelationship  = NamespaceDCAT + "Relationship"
)

// DCAT properties.
const (
	DCATDataset             = NamespaceDCAT + "dataset"
	DCATCatalog             = NamespaceDCAT + "catalog"
	DCATService             = NamespaceDCAT + "service"
	DCATDistribution        = NamespaceDCAT + "distribution"
	DCATAccessService       = NamespaceDCAT + "accessService"
	DCATAccessURL           = NamespaceDCAT + "accessURL"
	DCATDownloadURL         = NamespaceDCAT + "downloadURL"
	DCATContactPoint        = NamespaceDCAT + "contactPoint"
	DCATKeyword             = NamespaceDCAT + "keyword"
	DCATTheme               = NamespaceDCAT + "theme"
	DCATLandingPage         = NamespaceDCAT + "landingPage"
	DCATMediaType           = NamespaceDCAT + "mediaType"
	DCATCompressFormat      = NamespaceDCAT + "compressFormat"
	DCATPackageFormat       = NamespaceDCAT + "packageFormat"
	DCATByteSize            = NamespaceDCAT + "byteSize"
	DCATInSeries            = NamespaceDCAT + "inSeries"
	DCATVersion             = NamespaceDCAT + "version"
	DCATQualifiedRelation   = NamespaceDCAT + "qualifiedRelation"
	DCATHadRole             = NamespaceDCAT + "hadRole"
	DCATEndpointURL         = NamespaceDCAT + "endpointURL"
	DCATEndpointDescription = NamespaceDCAT + "endpointDescription"
	DCATServesDataset       = NamespaceDCAT + "servesDataset"
	DCATSpatialResolution   = NamespaceDCAT + "spatialResolutionInMeters"
	DCATTemporalResolution  = NamespaceDCAT + "temporalResolution"
	DCATStartDate           = NamespaceDCAT + "startDate"
	DCATEndDate             = NamespaceDCAT + "endDate"
	DCATHasVersion          = NamespaceDCAT + "hasVersion"
	DCATFirst               = NamespaceDCAT + "first"
	DCATLast                = NamespaceDCAT + "last"
)

// DCTERMS properties.
const (
	DCTTitle              = vocabulary.DcTitle
	DCTDescription        = NamespaceDCT + "description"
	DCTIdentifier         = vocabulary.DcIdentifier
	DCTIssued             = NamespaceDCT + "issued"
	DCTModified           = NamespaceDCT + "modified"
	DCTLanguage           = NamespaceDCT + "language"
	DCTPublisher          = NamespaceDCT + "publisher"
	DCTCreator            = NamespaceDCT + "creator"
	DCTLicense            = NamespaceDCT + "license"
	DCTRights             = NamespaceDCT + "rights"
	DCTAccessRights       = NamespaceDCT + "accessRights"
	DCTConformsTo         = NamespaceDCT + "conformsTo"
	DCTFormat             = NamespaceDCT + "format"
	DCTType               = NamespaceDCT + "type"
	DCTSpatial            = NamespaceDCT + "spatial"
	DCTTemporal           = NamespaceDCT + "temporal"
	DCTAccrualPeriodicity = NamespaceDCT + "accrualPeriodicity"
	DCTProvenance         = NamespaceDCT + "provenance"
	DCTSource             = vocabulary.DcSource
	DCTRelation           = vocabulary.DcRelation
	DCTIsVersionOf        = NamespaceDCT + "isVersionOf"
	DCTHasVersion         = NamespaceDCT + "hasVersion"
	DCTIsReferencedBy     = vocabulary.DcIsReferencedBy
	DCTHasPart            = NamespaceDCT + "hasPart"
	DCTIsPartOf           = NamespaceDCT + "isPartOf"
)

// LDP properties.
const (
	LDPContains = NamespaceLDP + "contains"
)

// VCARD terms.
const (
	VCARDKind         = NamespaceVCARD + "Kind"
	VCARDHasUID       = NamespaceVCARD + "hasUID"
	VCARDFn           = NamespaceVCARD + "fn"
	VCARDHasFN        = NamespaceVCARD + "hasFN"
	VCARDHasEmail     = NamespaceVCARD + "hasEmail"
	VCARDHasTelephone = NamespaceVCARD + "hasTelephone"
	VCARDHasURL       = NamespaceVCARD + "hasURL"
)

// Label predicates, listed in resolution precedence order (later wins).
const (
	SchemaName     = vocabulary.SchemaName
	SchemaNameHTTP = "http://schema.org/name"
	SKOSPrefLabel  = vocabulary.SkosPrefLabel
)

// FOAF terms.
const (
	FOAFName     = vocabulary.FoafName
	FOAFMbox     = NamespaceFOAF + "mbox"
	FOAFHomepage = NamespaceFOAF + "homepage"
	FOAFPage     = NamespaceFOAF + "page"
)

// ADMS, PROV, DCAT-AP, SPDX, DQV, OA and LOCN properties.
const (
	ADMSStatus                  = NamespaceADMS + "status"
	ADMSIdentifier              = NamespaceADMS + "identifier"
	ADMSSample                  = NamespaceADMS + "sample"
	ADMSVersionNotes            = NamespaceADMS + "versionNotes"
	PROVQualifiedAttribution    = NamespacePROV + "qualifiedAttribution"
	PROVAgent                   = NamespacePROV + "agent"
	PROVWasGeneratedBy          = NamespacePROV + "wasGeneratedBy"
	DCATAPApplicableLegislation = NamespaceDCATAP + "applicableLegislation"
	DCATAPHVDCategory           = NamespaceDCATAP + "hvdCategory"
	DCATAPAvailability          = NamespaceDCATAP + "availability"
	SPDXChecksum                = NamespaceSPDX + "checksum"
	SPDXChecksumValue           = NamespaceSPDX + "checksumValue"
	SPDXAlgorithm               = NamespaceSPDX + "algorithm"
	DQVHasQualityAnnotation     = NamespaceDQV + "hasQualityAnnotation"
	OAHasBody                   = NamespaceOA + "hasBody"
	LOCNGeometry                = NamespaceLOCN + "geometry"
)

// HealthDCAT-AP properties.
const (
	HealthTheme                     = NamespaceHealthDCATAP + "healthTheme"
	HealthCategory                  = NamespaceHealthDCATAP + "healthCategory"
	HealthCodeValues                = NamespaceHealthDCATAP + "hasCodeValues"
	HealthCodingSystem              = NamespaceHealthDCATAP + "hasCodingSystem"
	HealthLegalBasis                = NamespaceHealthDCATAP + "hasLegalBasis"
	HealthPurpose                   = NamespaceHealthDCATAP + "hasPurpose"
	HealthPersonalData              = NamespaceHealthDCATAP + "hasPersonalData"
	HealthMinTypicalAge             = NamespaceHealthDCATAP + "minTypicalAge"
	HealthMaxTypicalAge             = NamespaceHealthDCATAP + "maxTypicalAge"
	HealthNumberOfRecords           = NamespaceHealthDCATAP + "numberOfRecords"
	HealthNumberOfUniqueIndividuals = NamespaceHealthDCATAP + "numberOfUniqueIndividuals"
	HealthPopulationCoverage        = NamespaceHealthDCATAP + "populationCoverage"
	HealthAnalytics                 = NamespaceHealthDCATAP + "analytics"
	HealthRetentionPeriod           = NamespaceHealthDCATAP + "retentionPeriod"
)

// Label source endpoints.
const (
	WikidataEntityPrefix = "http://www.wikidata.org/entity/"
	WikidataWikiPrefix   = "https://www.wikidata.org/wiki/"
	BioOntologyAPI       = "https://data.bioontology.org"
)
