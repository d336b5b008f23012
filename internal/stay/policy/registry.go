// Package policy is the static catalogue of per-jurisdiction stay rules.
//
// A Registry is built once at startup and never mutated, so it is safe for
// concurrent readers without locking.
package policy

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"sojourn/internal/stay/models"
	id "sojourn/pkg/domain"
	dErrors "sojourn/pkg/domain-errors"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Registry resolves the policy for a (jurisdiction, nationality) pair.
type Registry struct {
	policies map[id.JurisdictionCode]models.StayPolicy
}

type catalogFile struct {
	Policies []models.StayPolicy `yaml:"policies"`
}

// New builds a registry, validating every base policy and every
// nationality-merged variant.
func New(policies []models.StayPolicy) (*Registry, error) {
	r := &Registry{policies: make(map[id.JurisdictionCode]models.StayPolicy, len(policies))}
	for _, p := range policies {
		code, err := id.ParseJurisdictionCode(string(p.JurisdictionCode))
		if err != nil {
			return nil, err
		}
		p.JurisdictionCode = code
		if _, dup := r.policies[code]; dup {
			return nil, dErrors.New(dErrors.CodeInvariantViolation, fmt.Sprintf("duplicate policy for %s", code))
		}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		for nationality, o := range p.Overrides {
			if err := p.WithOverride(o).Validate(); err != nil {
				return nil, dErrors.Wrap(err, dErrors.CodeInvariantViolation,
					fmt.Sprintf("override for nationality %s", nationality))
			}
		}
		r.policies[code] = p
	}
	return r, nil
}

// Load parses a YAML catalogue.
func Load(src io.Reader) (*Registry, error) {
	var file catalogFile
	dec := yaml.NewDecoder(src)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode policy catalogue: %w", err)
	}
	return New(file.Policies)
}

// LoadFile parses the YAML catalogue at path.
func LoadFile(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open policy catalogue: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Default returns the catalogue compiled into the binary.
func Default() (*Registry, error) {
	return Load(bytes.NewReader(defaultCatalog))
}

// GetPolicy returns the base policy merged with the nationality override, if
// any. An unknown jurisdiction yields false, never an error.
func (r *Registry) GetPolicy(code id.JurisdictionCode, nationality id.Nationality) (models.StayPolicy, bool) {
	base, ok := r.policies[code]
	if !ok {
		return models.StayPolicy{}, false
	}
	if o, ok := base.Overrides[nationality]; ok && nationality != "" {
		return base.WithOverride(o), true
	}
	return base, true
}

// Codes lists every jurisdiction in the catalogue, sorted.
func (r *Registry) Codes() []id.JurisdictionCode {
	codes := make([]id.JurisdictionCode, 0, len(r.policies))
	for code := range r.policies {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}

// Len is the number of jurisdictions in the catalogue.
func (r *Registry) Len() int {
	return len(r.policies)
}
