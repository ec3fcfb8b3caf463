package config

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed presentation.yaml
var presentationYAML []byte

// Theme maps design tokens (including the score color tokens) to colors.
type Theme map[string]string

// Locale is the small dictionary the service renders itself.
type Locale struct {
	Code      string            `yaml:"-" json:"code"`
	Name      string            `yaml:"name" json:"name"`
	Strings   map[string]string `yaml:"strings" json:"strings"`
	Rationale map[string]string `yaml:"rationale" json:"rationale"`
}

// Text returns the localized text for key, or the key itself.
func (l Locale) Text(key string) string {
	if s, ok := l.Strings[key]; ok {
		return s
	}
	return key
}

// Presentation holds theme token sets and locale dictionaries. It is built
// once and passed down read-only.
type Presentation struct {
	DefaultTheme  string            `yaml:"default_theme"`
	DefaultLocale string            `yaml:"default_locale"`
	Themes        map[string]Theme  `yaml:"themes"`
	Locales       map[string]Locale `yaml:"locales"`
}

// LoadPresentation parses the embedded presentation config.
func LoadPresentation() (*Presentation, error) {
	return ParsePresentation(presentationYAML)
}

func ParsePresentation(data []byte) (*Presentation, error) {
	var p Presentation
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse presentation config: %w", err)
	}
	if _, ok := p.Themes[p.DefaultTheme]; !ok {
		return nil, fmt.Errorf("default theme %q not defined", p.DefaultTheme)
	}
	if _, ok := p.Locales[p.DefaultLocale]; !ok {
		return nil, fmt.Errorf("default locale %q not defined", p.DefaultLocale)
	}
	for code, l := range p.Locales {
		l.Code = code
		p.Locales[code] = l
	}
	return &p, nil
}

// Locale resolves a language tag such as "es-MX" to a known locale, falling
// back to the default.
func (p *Presentation) Locale(tag string) Locale {
	code := strings.ToLower(strings.TrimSpace(tag))
	if i := strings.IndexAny(code, "-_"); i > 0 {
		code = code[:i]
	}
	if l, ok := p.Locales[code]; ok {
		return l
	}
	return p.Locales[p.DefaultLocale]
}

// Theme returns the named theme, or the default one.
func (p *Presentation) Theme(name string) (string, Theme) {
	if t, ok := p.Themes[name]; ok {
		return name, t
	}
	return p.DefaultTheme, p.Themes[p.DefaultTheme]
}

// LocaleCodes lists the configured locale codes.
func (p *Presentation) LocaleCodes() []string {
	codes := make([]string, 0, len(p.Locales))
	for c := range p.Locales {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}
