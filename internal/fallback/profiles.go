package fallback

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Profiles supplies the candidate values the synthesizer draws from. The
// defaults cover a generic UK practice; a YAML file can override any list.
type Profiles struct {
	Doctors   []string `yaml:"doctors"`
	Locations []string `yaml:"locations"`
	Services  []string `yaml:"services"`
}

// DefaultProfiles returns the built-in synthesis profiles.
func DefaultProfiles() *Profiles {
	return &Profiles{
		Doctors: []string{
			"Dr. Sarah Mitchell", "Dr. James Whitfield", "Dr. Priya Sharma",
			"Dr. Thomas Beck", "Dr. Elena Rossi", "Dr. Michael Ogunleye",
		},
		Locations: []string{
			"12 Harley Street, London", "45 Queen's Road, Brighton",
			"8 Victoria Lane, Manchester", "23 Castle Street, Edinburgh",
			"67 Park Avenue, Bristol",
		},
		Services: []string{
			"General Consultations", "Preventive Care", "Cosmetic Treatments",
			"Teeth Whitening", "Facial Aesthetics",
		},
	}
}

// LoadProfiles reads synthesis profiles from a YAML file, filling any list
// the file omits from the defaults. An empty path returns the defaults.
func LoadProfiles(path string) (*Profiles, error) {
	defaults := DefaultProfiles()
	if path == "" {
		return defaults, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "fallback: read profiles")
	}

	var p Profiles
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, eris.Wrap(err, "fallback: parse profiles")
	}

	if len(p.Doctors) == 0 {
		p.Doctors = defaults.Doctors
	}
	if len(p.Locations) == 0 {
		p.Locations = defaults.Locations
	}
	if len(p.Services) == 0 {
		p.Services = defaults.Services
	}
	return &p, nil
}
