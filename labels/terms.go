package labels

import (
	"net/url"
	"sort"
)

// Fields whose values are controlled-vocabulary URIs, per nesting level.
var (
	PackageFields = []string{
		"access_rights",
		"applicable_legislation",
		"code_values",
		"coding_system",
		"conforms_to",
		"dcat_type",
		"has_version",
		"health_category",
		"health_theme",
		"frequency",
		"language",
		"legal_basis",
		"personal_data",
		"publisher_type",
		"purpose",
		"qualified_attribution",
		"qualified_relation",
		"quality_annotation",
		"spatial_coverage",
		"status",
		"theme",
		"type",
	}
	ResourceFields = []string{
		"access_rights",
		"applicable_legislation",
		"compress_format",
		"conforms_to",
		"format",
		"hash_algorithm",
		"language",
		"license",
		"mimetype",
		"package_format",
		"status",
	}
	AccessServiceFields = []string{
		"access_rights",
		"applicable_legislation",
		"conforms_to",
		"creator",
		"format",
		"hvd_category",
		"language",
		"license",
		"publisher",
		"theme",
	}
)

// NestedFields maps object-valued fields to the keys inside them that hold
// the URI.
var NestedFields = map[string][]string{
	"qualified_relation":    {"role"},
	"qualified_attribution": {"role"},
	"quality_annotation":    {"body"},
	"spatial_coverage":      {"uri"},
	"creator":               {"publisher_type", "type"},
	"publisher":             {"publisher_type", "type"},
}

// IsAbsoluteURI reports whether v is a string holding an http or https URI
// with both a host and a path.
func IsAbsoluteURI(v any) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" && u.Path != ""
}

// TermsInPackage returns the distinct absolute URIs held by the vocabulary
// fields of pkg, its resources and their access services, sorted.
func TermsInPackage(pkg map[string]any) []string {
	var terms []string
	terms = collectFields(pkg, PackageFields, terms)

	for _, res := range asMaps(pkg["resources"]) {
		terms = collectFields(res, ResourceFields, terms)
		for _, svc := range asMaps(res["access_services"]) {
			terms = collectFields(svc, AccessServiceFields, terms)
		}
	}

	seen := make(map[string]struct{}, len(terms))
	var out []string
	for _, t := range terms {
		if !IsAbsoluteURI(t) {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func collectFields(item map[string]any, fields []string, terms []string) []string {
	for _, field := range fields {
		if v, ok := item[field]; ok {
			terms = collectValue(field, v, terms)
		}
	}
	return terms
}

func collectValue(field string, value any, terms []string) []string {
	nested := NestedFields[field]
	switch v := value.(type) {
	case nil:
		return terms
	case string:
		return append(terms, v)
	case []string:
		return append(terms, v...)
	case map[string]any:
		for _, key := range nested {
			if inner, ok := v[key]; ok {
				terms = collectValue(key, inner, terms)
			}
		}
		return terms
	case []map[string]any:
		for _, item := range v {
			terms = collectValue(field, item, terms)
		}
		return terms
	case []any:
		for _, item := range v {
			switch it := item.(type) {
			case string:
				terms = append(terms, it)
			case map[string]any:
				terms = collectValue(field, it, terms)
			}
		}
		return terms
	default:
		return terms
	}
}

func asMaps(v any) []map[string]any {
	switch list := v.(type) {
	case []map[string]any:
		return list
	case []any:
		out := make([]map[string]any, 0, len(list))
		for _, item := range list {
			if m, ok := item.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	default:
		return nil
	}
}
