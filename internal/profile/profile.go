// Package profile holds the portfolio owner's data shown by the hero overlay
// and served over HTTP, together with per-locale overrides.
package profile

import (
	_ "embed"
	"fmt"
	"maps"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

//go:embed profile.yaml
var embedded []byte

type Experience struct {
	Company  string   `yaml:"company" json:"company"`
	Role     string   `yaml:"role" json:"role"`
	Location string   `yaml:"location" json:"location"`
	Period   string   `yaml:"period" json:"period"`
	Bullets  []string `yaml:"bullets" json:"bullets"`
}

type Education struct {
	Degree string `yaml:"degree" json:"degree"`
	School string `yaml:"school" json:"school"`
	Period string `yaml:"period" json:"period"`
}

type Project struct {
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description" json:"description"`
	Tech        []string `yaml:"tech" json:"tech"`
	Status      string   `yaml:"status" json:"status"`
	Image       string   `yaml:"image" json:"image"`
}

// Overlay carries the localized fields of a profile. Empty fields keep the
// base value.
type Overlay struct {
	Name            string       `yaml:"name" json:"name,omitempty"`
	Title           string       `yaml:"title" json:"title,omitempty"`
	Location        string       `yaml:"location" json:"location,omitempty"`
	Quote           string       `yaml:"quote" json:"quote,omitempty"`
	Experience      []Experience `yaml:"experience" json:"experience,omitempty"`
	Education       []Education  `yaml:"education" json:"education,omitempty"`
	SpokenLanguages []string     `yaml:"spoken_languages" json:"spokenLanguages,omitempty"`
	Projects        []Project    `yaml:"projects" json:"projects,omitempty"`
}

// Profile is the portfolio owner's data in the base language.
type Profile struct {
	Name            string              `yaml:"name" json:"name"`
	Title           string              `yaml:"title" json:"title"`
	Location        string              `yaml:"location" json:"location"`
	Email           string              `yaml:"email" json:"email"`
	Website         string              `yaml:"website" json:"website"`
	Links           map[string]string   `yaml:"links" json:"links"`
	Quote           string              `yaml:"quote" json:"quote"`
	Skills          map[string][]string `yaml:"skills" json:"skills"`
	Experience      []Experience        `yaml:"experience" json:"experience"`
	Education       []Education         `yaml:"education" json:"education"`
	SpokenLanguages []string            `yaml:"spoken_languages" json:"spokenLanguages"`
	Projects        []Project           `yaml:"projects" json:"projects"`
	I18n            map[string]Overlay  `yaml:"i18n" json:"-"`
}

// Default returns the embedded profile.
func Default() *Profile {
	p, err := Parse(embedded)
	if err != nil {
		panic(fmt.Sprintf("profile: embedded data: %v", err))
	}
	return p
}

// Load reads a profile from a YAML file.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}
	if p.Name == "" {
		return nil, fmt.Errorf("profile has no name")
	}
	return &p, nil
}

// Locales lists the locales that carry an overlay, sorted.
func (p *Profile) Locales() []string {
	return slices.Sorted(maps.Keys(p.I18n))
}

// Localized returns a copy of p with the overlay for locale applied. An
// unknown locale yields the base profile. The result carries no overlays.
func (p *Profile) Localized(locale string) Profile {
	out := *p
	out.I18n = nil
	ov, ok := p.I18n[locale]
	if !ok {
		return out
	}

	if ov.Name != "" {
		out.Name = ov.Name
	}
	if ov.Title != "" {
		out.Title = ov.Title
	}
	if ov.Location != "" {
		out.Location = ov.Location
	}
	if ov.Quote != "" {
		out.Quote = ov.Quote
	}
	if len(ov.Experience) > 0 {
		out.Experience = ov.Experience
	}
	if len(ov.Education) > 0 {
		out.Education = ov.Education
	}
	if len(ov.SpokenLanguages) > 0 {
		out.SpokenLanguages = ov.SpokenLanguages
	}
	if len(ov.Projects) > 0 {
		out.Projects = ov.Projects
	}
	return out
}
