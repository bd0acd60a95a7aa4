package catalog

import (
	"fmt"

	"agentdesk/internal/models"
)

// CaseTutorial is the canned exchange loaded when a featured case is opened
type CaseTutorial struct {
	UserContent  string
	ModelContent string
	Steps        []models.StepLog
}

// TutorialFor builds the tutorial exchange for a featured case title
func TutorialFor(title string) CaseTutorial {
	return CaseTutorial{
		UserContent: fmt.Sprintf("我需要处理：%s", title),
		ModelContent: fmt.Sprintf("好的，已为您加载【%s】的专业处理流程。\n\n"+
			"作为迪尚AI助手，我通过以下步骤为您生成了结果：\n\n"+
			"1. **数据提取**：已自动关联业务系统数据。\n"+
			"2. **规则匹配**：应用了集团最新的业务规范。\n"+
			"3. **智能生成**：为您草拟了初步方案。\n\n"+
			"您可以点击下方的“查看思考过程”了解详情，或直接在输入框中补充更多要求进行调整。", title),
		Steps: []models.StepLog{
			{ID: "1", Title: "场景识别", Description: fmt.Sprintf("识别为 %s 任务，加载对应Agent模型", title), Status: models.StepCompleted, Timestamp: "00:00"},
			{ID: "2", Title: "数据调取", Description: "关联 RAG 知识库与业务系统参数", Status: models.StepCompleted, Timestamp: "00:01"},
			{ID: "3", Title: "内容生成", Description: "完成结构化输出与格式校验", Status: models.StepCompleted, Timestamp: "00:02"},
		},
	}
}

// DemoHistory returns the two sample sessions shown to a first-time user
func DemoHistory(now int64) []models.ChatSession {
	return []models.ChatSession{
		{
			ID:        "h1",
			Title:     "2024秋季商务西装开发",
			AgentID:   "design-trend",
			Type:      models.SessionSingle,
			Messages:  []models.Message{},
			UpdatedAt: now - 100000,
			Status:    models.SessionActive,
		},
		{
			ID:        "h2",
			Title:     "企业团装定制方案",
			AgentID:   "sales-copy",
			Type:      models.SessionSingle,
			Messages:  []models.Message{},
			UpdatedAt: now - 500000,
			Status:    models.SessionActive,
		},
	}
}
