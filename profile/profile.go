// Package profile loads the landing-page content of the portfolio.
package profile

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/eringen/portfolio/content"
)

//go:embed default.yaml
var defaultYAML []byte

// Profile is the owner-facing content of the landing page.
type Profile struct {
	Name     string    `yaml:"name"`
	Headline string    `yaml:"headline"`
	Bio      string    `yaml:"bio"`
	Location string    `yaml:"location"`
	Email    string    `yaml:"email"`
	Avatar   string    `yaml:"avatar"`
	Skills   []string  `yaml:"skills"`
	Services []Service `yaml:"services"`
	Projects []Project `yaml:"projects"`
	Links    []Link    `yaml:"links"`
}

// Service is an offering shown on the landing page.
type Service struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// Project is a portfolio entry.
type Project struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	URL         string   `yaml:"url"`
	Image       string   `yaml:"image"`
	Tags        []string `yaml:"tags"`
}

// Link is a social or contact link.
type Link struct {
	Label string `yaml:"label"`
	URL   string `yaml:"url"`
}

// Default returns the embedded profile.
func Default() *Profile {
	p, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("profile: embedded default is invalid: %v", err))
	}
	return p
}

// Load reads a profile from path. An empty path yields the embedded default.
func Load(path string) (*Profile, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("invalid profile %s: %w", path, err)
	}
	return p, nil
}

// Parse decodes and validates a YAML profile. Unsafe URLs are dropped.
func Parse(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return nil, errors.New("name is required")
	}
	p.Avatar = content.SafeURL(p.Avatar)
	for i := range p.Projects {
		p.Projects[i].URL = content.SafeURL(p.Projects[i].URL)
		p.Projects[i].Image = content.SafeURL(p.Projects[i].Image)
	}
	links := p.Links[:0]
	for _, l := range p.Links {
		if l.URL = content.SafeURL(l.URL); l.URL != "" && l.Label != "" {
			links = append(links, l)
		}
	}
	p.Links = links
	return &p, nil
}
