package persona

import (
	"strings"
	"testing"
)

func TestNewRegistryFromMagistrates(t *testing.T) {
	r, err := NewRegistry(Magistrates())
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}

	if r.Len() != 4 {
		t.Errorf("Expected 4 magistrates, got %d", r.Len())
	}

	p, ok := r.Lookup("gaspar-de-espinosa")
	if !ok {
		t.Fatal("Expected gaspar-de-espinosa to be registered")
	}

	if p.Name != "Gaspar de Espinosa" {
		t.Errorf("Expected display name to be resolved, got %q", p.Name)
	}

	if p.ID != "gaspar-de-espinosa" {
		t.Errorf("Expected normalized ID, got %q", p.ID)
	}
}

func TestLookupNormalization(t *testing.T) {
	r, err := NewRegistry(Magistrates())
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}

	// Case-insensitive, spaces and hyphens interchangeable.
	variants := []string{
		"Vasco de Quiroga",
		"vasco de quiroga",
		"VASCO-DE-QUIROGA",
		"  vasco de quiroga  ",
	}
	for _, v := range variants {
		if _, ok := r.Lookup(v); !ok {
			t.Errorf("Expected lookup to succeed for %q", v)
		}
	}

	if _, ok := r.Lookup("hernan-cortes"); ok {
		t.Error("Expected lookup to fail for unknown persona")
	}
}

func TestSystemPrompt(t *testing.T) {
	withContext := Profile{
		Persona:             "Eres un oidor.",
		ContextInstructions: "Habla en español formal.",
	}
	got := withContext.SystemPrompt()
	if got != "Eres un oidor.\nHabla en español formal." {
		t.Errorf("Unexpected system prompt: %q", got)
	}

	withoutContext := Profile{Persona: "Eres un oidor."}
	if withoutContext.SystemPrompt() != "Eres un oidor." {
		t.Errorf("Expected bare persona prompt, got %q", withoutContext.SystemPrompt())
	}
}

func TestNewRegistryValidation(t *testing.T) {
	cases := []struct {
		name     string
		profiles []Profile
	}{
		{"empty registry", nil},
		{"missing name", []Profile{{Persona: "p", Period: "16th Century"}}},
		{"missing persona", []Profile{{Name: "n", Period: "16th Century"}}},
		{"missing period", []Profile{{Name: "n", Persona: "p"}}},
		{"duplicate id", []Profile{
			{Name: "Same Name", Persona: "p", Period: "16th Century"},
			{Name: "same name", Persona: "p", Period: "16th Century"},
		}},
	}

	for _, tc := range cases {
		if _, err := NewRegistry(tc.profiles); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}

func TestAllPreservesOrder(t *testing.T) {
	r, err := NewRegistry(Magistrates())
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}

	all := r.All()
	if len(all) != 4 {
		t.Fatalf("Expected 4 profiles, got %d", len(all))
	}

	if all[0].Name != "Gaspar de Espinosa" || all[3].Name != "Antonio Porlier" {
		t.Error("Expected All to preserve registration order")
	}

	for _, p := range all {
		if !strings.Contains(p.ContextInstructions, p.Period) {
			t.Errorf("%s: era instructions missing the period label", p.Name)
		}
	}
}
