package profile

import (
	"strconv"

	"github.com/c360studio/fdpharvest/rdfgraph"
	"github.com/c360studio/fdpharvest/vocabulary/fdp"
)

var healthLists = map[string]string{
	"health_theme":    fdp.HealthTheme,
	"health_category": fdp.HealthCategory,
	"code_values":     fdp.HealthCodeValues,
	"coding_system":   fdp.HealthCodingSystem,
	"legal_basis":     fdp.HealthLegalBasis,
	"purpose":         fdp.HealthPurpose,
	"analytics":       fdp.HealthAnalytics,
}

var healthNumbers = map[string]string{
	"min_typical_age":              fdp.HealthMinTypicalAge,
	"max_typical_age":              fdp.HealthMaxTypicalAge,
	"number_of_records":            fdp.HealthNumberOfRecords,
	"number_of_unique_individuals": fdp.HealthNumberOfUniqueIndividuals,
}

// parseHealth maps the HealthDCAT-AP dataset properties. Numeric properties
// become ints when their lexical form allows it.
func (p *Profile) parseHealth(r reader, s rdfgraph.Term, pkg Package) {
	for field, pred := range healthLists {
		setList(pkg, field, r.values(s, pred))
	}
	for field, pred := range healthNumbers {
		v := r.value(s, pred)
		if v == "" {
			continue
		}
		if n, err := strconv.Atoi(v); err == nil {
			pkg[field] = n
		} else {
			p.logger.Warn("Non-integer health property kept as text", "field", field, "value", v)
			pkg[field] = v
		}
	}
	setString(pkg, "personal_data", r.value(s, fdp.HealthPersonalData))
	setString(pkg, "population_coverage", r.text(s, fdp.HealthPopulationCoverage))
	setString(pkg, "retention_period", r.value(s, fdp.HealthRetentionPeriod))
}
