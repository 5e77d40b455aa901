// Package profile maps DCAT records held in an RDF graph onto catalog package
// dictionaries.
//
// A profile is selected by name from the registry. All registered profiles
// share the DCAT-AP 2 base mapping; newer profiles switch on DCAT-AP 3 and
// HealthDCAT-AP fields. After mapping, every profile applies the FDP fixups:
// tag sanitisation, multilingual tag selection, Wikidata URI canonicalisation,
// conforms_to profile filtering, UTC date normalisation and Markdown notes.
package profile

import (
	"errors"
	"fmt"
	"sort"
)

// Name identifies a registered profile.
type Name string

const (
	// ProfileFDPDCATAP is the FAIR Data Point flavour of DCAT-AP 2.
	ProfileFDPDCATAP Name = "fairdatapoint_dcat_ap"

	// ProfileDCATAP3 adds DCAT-AP 3 fields and agent-shaped creators.
	ProfileDCATAP3 Name = "fairdatapoint_dcat_ap_3"

	// ProfileHealthDCATAP adds HealthDCAT-AP fields on top of DCAT-AP 3.
	ProfileHealthDCATAP Name = "fairdatapoint_health_dcat_ap"
)

// ErrUnknownProfile is returned for names missing from the registry.
var ErrUnknownProfile = errors.New("unknown profile")

// Config contains the switches of a profile.
type Config struct {
	// Name is the profile identifier.
	Name Name

	// Description describes the profile.
	Description string

	// IncludeDCATAP3 maps the DCAT-AP 3 additions (applicable legislation,
	// HVD category, dataset series membership, version notes).
	IncludeDCATAP3 bool

	// IncludeHealth maps the HealthDCAT-AP properties.
	IncludeHealth bool

	// AgentCreators emits creators as agent dictionaries instead of
	// creator_identifier/creator_name pairs.
	AgentCreators bool
}

// Profiles contains the configuration for all registered profiles.
var Profiles = map[Name]Config{
	ProfileFDPDCATAP: {
		Name:        ProfileFDPDCATAP,
		Description: "DCAT-AP 2 with FAIR Data Point fixups",
	},
	ProfileDCATAP3: {
		Name:           ProfileDCATAP3,
		Description:    "DCAT-AP 3 with FAIR Data Point fixups",
		IncludeDCATAP3: true,
		AgentCreators:  true,
	},
	ProfileHealthDCATAP: {
		Name:           ProfileHealthDCATAP,
		Description:    "HealthDCAT-AP with FAIR Data Point fixups",
		IncludeDCATAP3: true,
		IncludeHealth:  true,
		AgentCreators:  true,
	},
}

// Lookup returns the configuration registered under name.
func Lookup(name string) (Config, error) {
	if cfg, ok := Profiles[Name(name)]; ok {
		return cfg, nil
	}
	return Config{}, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
}

// Names returns the registered profile names, sorted.
func Names() []string {
	names := make([]string, 0, len(Profiles))
	for n := range Profiles {
		names = append(names, string(n))
	}
	sort.Strings(names)
	return names
}
