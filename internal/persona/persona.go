// Package persona loads the assistant's character: system prompt text, the
// whitelist of support videos, the counselor directory and the mood vocabulary.
package persona

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/AFARIMINTAH/Safehaven/internal/model"
)

//go:embed default.yaml
var defaultYAML []byte

// Persona is the parsed persona document.
type Persona struct {
	Name               string            `yaml:"name"`
	Intro              string            `yaml:"intro"`
	Duties             []string          `yaml:"duties"`
	Closing            string            `yaml:"closing"`
	VideoLinks         []string          `yaml:"video_links"`
	Moods              []string          `yaml:"moods"`
	SummaryInstruction string            `yaml:"summary_instruction"`
	Counselors         []model.Counselor `yaml:"counselors"`
}

// Default returns the embedded persona.
func Default() (*Persona, error) {
	return Parse(defaultYAML)
}

// Load reads a persona from path, or the embedded default when path is empty.
func Load(path string) (*Persona, error) {
	if path == "" {
		return Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read persona %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse decodes and validates a persona document.
func Parse(raw []byte) (*Persona, error) {
	var p Persona
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("parse persona: %w", err)
	}
	if strings.TrimSpace(p.Intro) == "" {
		return nil, fmt.Errorf("persona: intro is required")
	}
	if strings.TrimSpace(p.SummaryInstruction) == "" {
		p.SummaryInstruction = "make a summary of the conversation in less than 10 words"
	}
	for i, m := range p.Moods {
		p.Moods[i] = strings.ToLower(strings.TrimSpace(m))
	}
	return &p, nil
}

// SystemPrompt renders the leading system message seeded into every chat session.
// The video whitelist is listed under the duty that introduces it.
func (p *Persona) SystemPrompt() string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(p.Intro))
	b.WriteString("\n\nYour job is to:\n")
	for i, d := range p.Duties {
		fmt.Fprintf(&b, "%d. %s\n", i+1, strings.TrimSpace(d))
		if strings.Contains(strings.ToLower(d), "link") && strings.HasSuffix(strings.TrimSpace(d), ":") {
			for _, link := range p.VideoLinks {
				fmt.Fprintf(&b, "   - %s\n", link)
			}
		}
	}
	if c := strings.TrimSpace(p.Closing); c != "" {
		b.WriteString("\n")
		b.WriteString(c)
		b.WriteString("\n")
	}
	return b.String()
}

// AllowsMood reports whether mood is in the vocabulary. An empty vocabulary accepts anything.
func (p *Persona) AllowsMood(mood string) bool {
	if len(p.Moods) == 0 {
		return true
	}
	for _, m := range p.Moods {
		if m == mood {
			return true
		}
	}
	return false
}

// IsWhitelistedLink reports whether url is one of the curated video links.
func (p *Persona) IsWhitelistedLink(url string) bool {
	for _, l := range p.VideoLinks {
		if l == url {
			return true
		}
	}
	return false
}

// FindCounselor looks a counselor up by name, ignoring case and surrounding punctuation.
func (p *Persona) FindCounselor(name string) (model.Counselor, bool) {
	want := normalizeName(name)
	if want == "" {
		return model.Counselor{}, false
	}
	for _, c := range p.Counselors {
		if normalizeName(c.Name) == want {
			return c, true
		}
	}
	for _, c := range p.Counselors {
		if strings.Contains(normalizeName(c.Name), want) || strings.Contains(want, normalizeName(c.Name)) {
			return c, true
		}
	}
	return model.Counselor{}, false
}

func normalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Trim(s, ".,;:*\"' ")
	return strings.Join(strings.Fields(s), " ")
}
