package preflight

import (
	"fmt"
	"log"

	"agentdesk/internal/catalog"
	"agentdesk/internal/config"
	"agentdesk/internal/database"
	"agentdesk/internal/models"
)

// CheckResult represents the result of a preflight check
type CheckResult struct {
	Name    string
	Status  string // "pass", "fail", "warning"
	Message string
	Error   error
}

// Checker performs pre-flight checks before server starts
type Checker struct {
	db      *database.DB
	catalog *catalog.Catalog
	cfg     *config.Config
}

// NewChecker creates a new preflight checker
func NewChecker(db *database.DB, cat *catalog.Catalog, cfg *config.Config) *Checker {
	return &Checker{db: db, catalog: cat, cfg: cfg}
}

// RunAll runs all preflight checks and returns results
func (c *Checker) RunAll() []CheckResult {
	log.Println("🔍 Running pre-flight checks...")

	results := []CheckResult{
		c.checkDatabaseConnection(),
		c.checkDatabaseSchema(),
		c.checkCatalog(),
		c.checkGenerator(),
	}

	passed, failed, warnings := 0, 0, 0
	for _, result := range results {
		switch result.Status {
		case "pass":
			log.Printf("   ✅ %s: %s", result.Name, result.Message)
			passed++
		case "fail":
			log.Printf("   ❌ %s: %s", result.Name, result.Message)
			if result.Error != nil {
				log.Printf("      Error: %v", result.Error)
			}
			failed++
		case "warning":
			log.Printf("   ⚠️  %s: %s", result.Name, result.Message)
			warnings++
		}
	}

	log.Printf("📊 Pre-flight summary: %d passed, %d failed, %d warnings", passed, failed, warnings)
	return results
}

// HasFailures returns true if any check failed
func HasFailures(results []CheckResult) bool {
	for _, result := range results {
		if result.Status == "fail" {
			return true
		}
	}
	return false
}

// checkDatabaseConnection verifies database connectivity
func (c *Checker) checkDatabaseConnection() CheckResult {
	if err := c.db.Ping(); err != nil {
		return CheckResult{
			Name:    "Database Connection",
			Status:  "fail",
			Message: "Cannot connect to database",
			Error:   err,
		}
	}
	return CheckResult{
		Name:    "Database Connection",
		Status:  "pass",
		Message: fmt.Sprintf("%s database reachable", c.db.Dialect),
	}
}

// checkDatabaseSchema verifies the preferences table is readable
func (c *Checker) checkDatabaseSchema() CheckResult {
	var count int
	if err := c.db.QueryRow("SELECT COUNT(*) FROM preferences").Scan(&count); err != nil {
		return CheckResult{
			Name:    "Database Schema",
			Status:  "fail",
			Message: "Required table 'preferences' not found",
			Error:   err,
		}
	}
	return CheckResult{
		Name:    "Database Schema",
		Status:  "pass",
		Message: fmt.Sprintf("preferences table has %d rows", count),
	}
}

// checkCatalog verifies there are agents to talk to and flags empty categories
func (c *Checker) checkCatalog() CheckResult {
	agents := c.catalog.All()
	if len(agents) == 0 {
		return CheckResult{Name: "Agent Catalog", Status: "fail", Message: "Catalog has no agents"}
	}

	byCategory := c.catalog.ByCategory()
	var empty []models.AgentCategory
	for _, cat := range models.AllCategories {
		if len(byCategory[cat]) == 0 {
			empty = append(empty, cat)
		}
	}
	if len(empty) > 0 {
		return CheckResult{
			Name:    "Agent Catalog",
			Status:  "warning",
			Message: fmt.Sprintf("%d agents, no agents in categories %v", len(agents), empty),
		}
	}
	return CheckResult{
		Name:    "Agent Catalog",
		Status:  "pass",
		Message: fmt.Sprintf("%d agents across %d categories", len(agents), len(models.AllCategories)),
	}
}

// checkGenerator warns when replies will fall back to the unavailable notice
func (c *Checker) checkGenerator() CheckResult {
	if c.cfg.GeminiAPIKey == "" {
		return CheckResult{
			Name:    "Generative Model",
			Status:  "warning",
			Message: "GEMINI_API_KEY not set, replies will show the service-unavailable notice",
		}
	}
	return CheckResult{
		Name:    "Generative Model",
		Status:  "pass",
		Message: fmt.Sprintf("Using %s (temperature %.1f)", c.cfg.ModelName, c.cfg.Temperature),
	}
}
