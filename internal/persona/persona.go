package persona

import (
	"fmt"
	"sort"
	"strings"
)

// Profile is an immutable configuration record for one magistrate
// persona. Profiles are owned by the registry and never mutated at
// request time.
type Profile struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	Description         string `json:"description"`
	Period              string `json:"period"`
	Language            string `json:"language"`
	Persona             string `json:"-"`
	ContextInstructions string `json:"-"`
	ImageURL            string `json:"imageUrl"`
	Background          string `json:"background"`
	TalkingPoints       string `json:"talkingPoints"`
}

// SystemPrompt builds the system message for response generation:
// the persona prompt text with the optional context instructions
// appended after a newline.
func (p Profile) SystemPrompt() string {
	if p.ContextInstructions == "" {
		return p.Persona
	}
	return p.Persona + "\n" + p.ContextInstructions
}

// Registry is an immutable mapping of normalized identifiers to persona
// profiles, constructed once at startup and passed explicitly into
// request handlers.
type Registry struct {
	byID  map[string]Profile
	order []string
}

// NewRegistry builds a registry from the given profiles, deriving each
// profile's ID from its display name. It rejects profiles with missing
// required fields or duplicate identifiers at load time rather than at
// use time.
func NewRegistry(profiles []Profile) (*Registry, error) {
	r := &Registry{byID: make(map[string]Profile, len(profiles))}

	for i, p := range profiles {
		if p.Name == "" {
			return nil, fmt.Errorf("profile %d: name cannot be empty", i)
		}
		if p.Persona == "" {
			return nil, fmt.Errorf("profile %q: persona prompt cannot be empty", p.Name)
		}
		if p.Period == "" {
			return nil, fmt.Errorf("profile %q: period cannot be empty", p.Name)
		}

		p.ID = NormalizeID(p.Name)
		if _, exists := r.byID[p.ID]; exists {
			return nil, fmt.Errorf("duplicate persona identifier %q", p.ID)
		}
		if p.Language == "" {
			p.Language = "spanish"
		}

		r.byID[p.ID] = p
		r.order = append(r.order, p.ID)
	}

	if len(r.byID) == 0 {
		return nil, fmt.Errorf("registry requires at least one persona")
	}

	return r, nil
}

// NormalizeID converts a persona name or identifier into its canonical
// lookup form: lowercase with spaces replaced by hyphens.
func NormalizeID(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}

// Lookup returns the profile for the given name or identifier. Matching
// is case-insensitive and treats spaces and hyphens interchangeably.
func (r *Registry) Lookup(name string) (Profile, bool) {
	p, ok := r.byID[NormalizeID(name)]
	return p, ok
}

// All returns every profile in registration order.
func (r *Registry) All() []Profile {
	out := make([]Profile, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// IDs returns the sorted persona identifiers.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of registered personas.
func (r *Registry) Len() int {
	return len(r.byID)
}
