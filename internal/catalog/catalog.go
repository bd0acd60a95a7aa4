// Package catalog holds the read-only registry of agents and home-page scenarios.
package catalog

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"agentdesk/internal/models"

	"gopkg.in/yaml.v3"
)

var (
	ErrDuplicateAgent   = errors.New("duplicate agent id")
	ErrInvalidCategory  = errors.New("invalid agent category")
	ErrMissingAgentID   = errors.New("agent id is required")
	ErrEmptyCatalogFile = errors.New("catalog file defines no agents")
)

// Catalog is the immutable agent registry. Safe for concurrent reads.
type Catalog struct {
	agents    []models.Agent
	byID      map[string]models.Agent
	scenarios []models.Scenario
}

// File is the YAML layout accepted by LoadFile
type File struct {
	Agents    []models.Agent    `yaml:"agents"`
	Scenarios []models.Scenario `yaml:"scenarios"`
}

// New builds a catalog, rejecting duplicate ids and unknown categories
func New(agents []models.Agent, scenarios []models.Scenario) (*Catalog, error) {
	c := &Catalog{
		agents:    make([]models.Agent, 0, len(agents)),
		byID:      make(map[string]models.Agent, len(agents)),
		scenarios: append([]models.Scenario(nil), scenarios...),
	}
	for _, a := range agents {
		if a.ID == "" {
			return nil, ErrMissingAgentID
		}
		if !a.Category.Valid() {
			return nil, fmt.Errorf("%w: %q (agent %s)", ErrInvalidCategory, a.Category, a.ID)
		}
		if _, exists := c.byID[a.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateAgent, a.ID)
		}
		c.byID[a.ID] = a
		c.agents = append(c.agents, a)
	}
	return c, nil
}

// Default returns the built-in catalog
func Default() *Catalog {
	c, err := New(builtinAgents, builtinScenarios)
	if err != nil {
		panic(fmt.Sprintf("built-in catalog is invalid: %v", err))
	}
	return c
}

// LoadFile reads a YAML catalog. Scenarios fall back to the built-in set when omitted.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog YAML: %w", err)
	}
	if len(f.Agents) == 0 {
		return nil, ErrEmptyCatalogFile
	}
	if len(f.Scenarios) == 0 {
		f.Scenarios = builtinScenarios
	}

	c, err := New(f.Agents, f.Scenarios)
	if err != nil {
		return nil, err
	}
	log.Printf("📚 Catalog loaded from %s (%d agents, %d scenarios)", path, len(c.agents), len(c.scenarios))
	return c, nil
}

// Get looks up an agent by id
func (c *Catalog) Get(id string) (models.Agent, bool) {
	a, ok := c.byID[id]
	return a, ok
}

// All returns every agent in declaration order
func (c *Catalog) All() []models.Agent {
	return append([]models.Agent(nil), c.agents...)
}

// Resolve returns the agents for the given ids, skipping unknown ones
func (c *Catalog) Resolve(ids []string) []models.Agent {
	out := make([]models.Agent, 0, len(ids))
	for _, id := range ids {
		if a, ok := c.byID[id]; ok {
			out = append(out, a)
		}
	}
	return out
}

// Filter returns agents matching a category ("" or "All" for any) and a
// case-insensitive query against name and description.
func (c *Catalog) Filter(category, query string) []models.Agent {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]models.Agent, 0, len(c.agents))
	for _, a := range c.agents {
		if category != "" && category != "All" && string(a.Category) != category {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(a.Name), q) &&
			!strings.Contains(strings.ToLower(a.Description), q) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// ByCategory groups agents per category in sidebar order
func (c *Catalog) ByCategory() map[models.AgentCategory][]models.Agent {
	out := make(map[models.AgentCategory][]models.Agent, len(models.AllCategories))
	for _, a := range c.agents {
		out[a.Category] = append(out[a.Category], a)
	}
	return out
}

// Scenarios returns the home-page scenarios
func (c *Catalog) Scenarios() []models.Scenario {
	return append([]models.Scenario(nil), c.scenarios...)
}

// Scenario looks up a scenario by id
func (c *Catalog) Scenario(id string) (models.Scenario, bool) {
	for _, s := range c.scenarios {
		if s.ID == id {
			return s, true
		}
	}
	return models.Scenario{}, false
}

// FeaturedCases returns the sample deliverables for a category
func FeaturedCases(category models.AgentCategory) []models.FeaturedCase {
	if cases, ok := featuredCases[category]; ok {
		return append([]models.FeaturedCase(nil), cases...)
	}
	return append([]models.FeaturedCase(nil), genericCases...)
}
