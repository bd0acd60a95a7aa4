package models

// AgentCategory is the business area an agent belongs to
type AgentCategory string

const (
	CategoryDesign     AgentCategory = "趋势与设计"
	CategoryProduction AgentCategory = "生产与供应链"
	CategorySales      AgentCategory = "营销与销售"
	CategoryService    AgentCategory = "客户服务"
	CategoryManagement AgentCategory = "内部管理与协同"
)

// AllCategories lists categories in sidebar order
var AllCategories = []AgentCategory{
	CategoryDesign,
	CategoryProduction,
	CategorySales,
	CategoryService,
	CategoryManagement,
}

// categoryIcons maps every category to the icon used when an agent names none.
var categoryIcons = map[AgentCategory]string{
	CategoryDesign:     "Palette",
	CategoryProduction: "Factory",
	CategorySales:      "Megaphone",
	CategoryService:    "Headphones",
	CategoryManagement: "Briefcase",
}

// DefaultIcon is returned for unknown categories and collaboration views
const DefaultIcon = "Bot"

// Valid reports whether c is one of the known categories
func (c AgentCategory) Valid() bool {
	_, ok := categoryIcons[c]
	return ok
}

// Icon returns the category's icon name
func (c AgentCategory) Icon() string {
	if icon, ok := categoryIcons[c]; ok {
		return icon
	}
	return DefaultIcon
}

// ParseCategory resolves a category by its display name
func ParseCategory(s string) (AgentCategory, bool) {
	c := AgentCategory(s)
	return c, c.Valid()
}

// Agent is a pre-configured persona used to condition the generative model
type Agent struct {
	ID                string        `json:"id" yaml:"id"`
	Name              string        `json:"name" yaml:"name"`
	Category          AgentCategory `json:"category" yaml:"category"`
	Description       string        `json:"description" yaml:"description"`
	Icon              string        `json:"icon" yaml:"icon"` // Lucide icon name
	PromptPreview     string        `json:"promptPreview" yaml:"prompt_preview"`
	SystemInstruction string        `json:"systemInstruction" yaml:"system_instruction"`
}

// IconName returns the agent's own icon, falling back to its category's
func (a Agent) IconName() string {
	if a.Icon != "" {
		return a.Icon
	}
	return a.Category.Icon()
}

// ScenarioTemplate is a ready-made prompt shown under a home scenario
type ScenarioTemplate struct {
	Title  string `json:"title" yaml:"title"`
	Desc   string `json:"desc" yaml:"desc"`
	Icon   string `json:"icon" yaml:"icon"`
	Prompt string `json:"prompt" yaml:"prompt"`
}

// Scenario groups templates for one home-page business scene
type Scenario struct {
	ID          string             `json:"id" yaml:"id"`
	Label       string             `json:"label" yaml:"label"`
	HeroTitle   string             `json:"heroTitle" yaml:"hero_title"`
	Icon        string             `json:"icon" yaml:"icon"`
	Placeholder string             `json:"placeholder" yaml:"placeholder"`
	Tools       []string           `json:"tools" yaml:"tools"`
	Templates   []ScenarioTemplate `json:"templates" yaml:"templates"`
}

// FeaturedCase is a sample deliverable offered on an agent's landing view
type FeaturedCase struct {
	Title string `json:"title"`
	Type  string `json:"type"`
	Icon  string `json:"icon"`
}
