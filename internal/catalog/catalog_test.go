package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"agentdesk/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()

	a, ok := c.Get("design-trend")
	require.True(t, ok)
	assert.Equal(t, "趋势分析 Agent", a.Name)
	assert.Equal(t, models.CategoryDesign, a.Category)

	_, ok = c.Get("nope")
	assert.False(t, ok)

	assert.Len(t, c.All(), 7)
	assert.Len(t, c.Scenarios(), 6)
}

func TestFilter(t *testing.T) {
	c := Default()

	tests := []struct {
		name     string
		category string
		query    string
		wantIDs  []string
	}{
		{"all", "All", "", []string{"design-trend", "design-style", "prod-inventory", "prod-schedule", "sales-copy", "service-smart", "mgmt-contract"}},
		{"category only", string(models.CategoryProduction), "", []string{"prod-inventory", "prod-schedule"}},
		{"query on name", "", "合同", []string{"mgmt-contract"}},
		{"query on description", "", "小红书", []string{"sales-copy"}},
		{"case insensitive", "", "rag", []string{"design-style"}},
		{"category and query mismatch", string(models.CategorySales), "合同", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Filter(tt.category, tt.query)
			ids := make([]string, 0, len(got))
			for _, a := range got {
				ids = append(ids, a.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestNewRejectsInvalidAgents(t *testing.T) {
	_, err := New([]models.Agent{{ID: "a", Category: "bogus"}}, nil)
	assert.ErrorIs(t, err, ErrInvalidCategory)

	_, err = New([]models.Agent{
		{ID: "a", Category: models.CategoryDesign},
		{ID: "a", Category: models.CategorySales},
	}, nil)
	assert.ErrorIs(t, err, ErrDuplicateAgent)

	_, err = New([]models.Agent{{Category: models.CategoryDesign}}, nil)
	assert.ErrorIs(t, err, ErrMissingAgentID)
}

func TestCategoryIcons(t *testing.T) {
	for _, c := range models.AllCategories {
		assert.NotEqual(t, models.DefaultIcon, c.Icon(), "category %s has no icon", c)
	}
	assert.Equal(t, models.DefaultIcon, models.AgentCategory("x").Icon())

	a := models.Agent{Category: models.CategoryService}
	assert.Equal(t, "Headphones", a.IconName())
}

func TestFeaturedCases(t *testing.T) {
	assert.Equal(t, "2024早秋女装趋势报告", FeaturedCases(models.CategoryDesign)[0].Title)
	assert.Equal(t, "业务流程规范文档", FeaturedCases(models.CategoryManagement)[0].Title)
	assert.Equal(t, FeaturedCases(models.CategoryService), FeaturedCases(models.CategoryManagement))
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	content := `
agents:
  - id: qa-bot
    name: 质检 Agent
    category: 生产与供应链
    description: 面料质检
    prompt_preview: 检查这批面料
    system_instruction: 你是质检专家。
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	c, err := LoadFile(path)
	require.NoError(t, err)

	a, ok := c.Get("qa-bot")
	require.True(t, ok)
	assert.Equal(t, "你是质检专家。", a.SystemInstruction)
	assert.Equal(t, "Factory", a.IconName())
	assert.Len(t, c.Scenarios(), len(builtinScenarios))

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("agents: []\n"), 0o600))
	_, err = LoadFile(empty)
	assert.ErrorIs(t, err, ErrEmptyCatalogFile)
}
