package catalog

import "agentdesk/internal/models"

// builtinAgents is the virtual-employee roster shipped with the server.
var builtinAgents = []models.Agent{
	// 趋势与设计
	{
		ID:                "design-trend",
		Name:              "趋势分析 Agent",
		Category:          models.CategoryDesign,
		Description:       "抓取全球秀场与电商数据，生成季度流行趋势报告，提供差异化建议。",
		Icon:              "TrendingUp",
		PromptPreview:     "生成2024秋季商务西装趋势报告，包含面料与色彩分析。",
		SystemInstruction: "你是迪尚集团的趋势分析专家。你可以访问RAG知识库中的秀场数据、电商数据和行业报告。请根据用户需求生成专业的服装流行趋势报告，包含推荐面料、色彩（如潘通色号）和版型方向。",
	},
	{
		ID:                "design-style",
		Name:              "款式创新 Agent",
		Category:          models.CategoryDesign,
		Description:       "基于RAG知识库生成新款设计方案，输出含面料推荐的设计稿。",
		Icon:              "Scissors",
		PromptPreview:     "基于复古工装风，生成3套男士夹克设计方案。",
		SystemInstruction: "你是迪尚集团的款式创新专家。基于用户输入的关键词或风格，结合迪尚核心品类数据，构思并描述服装设计方案。你需要详细描述款式细节、推荐面料和尺寸参数。",
	},

	// 生产与供应链
	{
		ID:                "prod-inventory",
		Name:              "库存预测 Agent",
		Category:          models.CategoryProduction,
		Description:       "结合历史销售与季节因素，预测原料与成品库存，生成补货建议。",
		Icon:              "PackageCheck",
		PromptPreview:     "预测下个月羊毛面料的库存消耗情况。",
		SystemInstruction: "你是生产供应链专家。利用OMS历史数据和季节因素，预测原料消耗。如果库存低于安全阈值，请给出具体的补货建议（数量、供应商、周期）。",
	},
	{
		ID:                "prod-schedule",
		Name:              "动态排产 Agent",
		Category:          models.CategoryProduction,
		Description:       "根据订单优先级和设备产能，自动生成或调整生产计划。",
		Icon:              "Factory",
		PromptPreview:     "原料延迟到货，请重新调整生产流水线排期。",
		SystemInstruction: "你是动态排产专员。根据MES设备产能和订单优先级（如VIP订单）安排生产。遇到异常（设备故障、原料延迟）时，请给出最优的调整方案。",
	},

	// 营销与销售
	{
		ID:                "sales-copy",
		Name:              "营销文案 Agent",
		Category:          models.CategorySales,
		Description:       "生成多类型营销素材，如小红书推文、电商详情页、短视频脚本。",
		Icon:              "Megaphone",
		PromptPreview:     "为新款\"轻量化户外西装\"写一篇小红书种草文案。",
		SystemInstruction: "你是首席营销官。根据目标客群（如年轻国潮、商务精英）和产品卖点，生成极具吸引力的营销文案、短视频脚本或海报标语。",
	},

	// 客户服务
	{
		ID:                "service-smart",
		Name:              "智能客服 Agent",
		Category:          models.CategoryService,
		Description:       "实时响应咨询，处理订单查询、尺码推荐及售后问题。",
		Icon:              "Headphones",
		PromptPreview:     "客户询问商务西装如何选择尺码，身高175cm体重70kg。",
		SystemInstruction: "你是迪尚智能客服。语气亲切专业，负责解答尺码推荐、订单进度和售后政策。遇到复杂纠纷，请引导转接人工。",
	},

	// 内部管理
	{
		ID:                "mgmt-contract",
		Name:              "合同审查 Agent",
		Category:          models.CategoryManagement,
		Description:       "审查供应商与客户合同，标注风险条款并提供修改建议。",
		Icon:              "FileText",
		PromptPreview:     "审查这份面料采购合同，检查付款周期是否合规。",
		SystemInstruction: "你是法务合规专家。对照迪尚合同标准模板，严格审查合同条款。重点关注付款方式、违约责任和交货期，指出风险等级（高/中/低）并给出修改建议。",
	},
}

// builtinScenarios are the home-page business scenes and their templates.
var builtinScenarios = []models.Scenario{
	{
		ID:          "new-style",
		Label:       "新款开发",
		HeroTitle:   "10 分钟，搞定一组新款设计方案",
		Icon:        "Scissors",
		Placeholder: "请补充新款需求：目标客群 / 风格 / 品类（示例：‘30-45 岁商务男性西装，复古风’）",
		Tools:       []string{"关联 PLM 历史款", "面料库快速匹配"},
		Templates: []models.ScenarioTemplate{
			{Title: "2024秋季商务装开发模板", Desc: "含趋势报告 + 3 套设计稿框架", Icon: "Shirt", Prompt: "生成一份2024秋季商务装开发方案，包含流行趋势分析及3套设计稿框架。"},
			{Title: "小单快反新款模板", Desc: "适配 100-500 件量产", Icon: "Zap", Prompt: "为100-500件量产的小单快反需求生成新款设计方案。"},
			{Title: "大码女装系列开发模板", Desc: "含版型优化建议", Icon: "Users", Prompt: "设计一套大码女装系列，重点关注版型优化建议。"},
			{Title: "运动休闲系列开发模板", Desc: "适配功能性面料推荐", Icon: "Scissors", Prompt: "开发一系列运动休闲服装，请推荐功能性面料。"},
		},
	},
	{
		ID:          "team-custom",
		Label:       "团装定制",
		HeroTitle:   "根据客户需求，一键生成团装方案",
		Icon:        "Shirt",
		Placeholder: "请补充团装需求：数量 / 品类 / 风格 / 交货周期（示例：‘100 套藏青色羊毛西装，30 天交货’）",
		Tools:       []string{"关联客户信息", "材质样卡预览"},
		Templates: []models.ScenarioTemplate{
			{Title: "国企员工团装方案模板", Desc: "含设计稿 + 成本核算表", Icon: "FileText", Prompt: "生成一份国企员工团装定制方案，包含设计稿和成本核算表。"},
			{Title: "互联网公司文化衫定制", Desc: "支持 logo 嵌入", Icon: "Shirt", Prompt: "设计一款互联网公司文化衫，支持Logo嵌入。"},
			{Title: "高端企业商务套装模板", Desc: "含多材质对比", Icon: "Briefcase", Prompt: "定制高端企业商务套装方案，提供多种材质对比。"},
			{Title: "学校校服定制模板", Desc: "含尺码标准库", Icon: "Users", Prompt: "设计一套学校校服定制方案，包含尺码标准库。"},
		},
	},
	{
		ID:          "report-center",
		Label:       "报表中心",
		HeroTitle:   "连接业务系统，自动生成分析报表",
		Icon:        "BarChart3",
		Placeholder: "请选择报表类型 + 周期：设计进度 / 生产产能 / 销售业绩 / 售后数据（示例：‘近 30 天生产车间产能报表’）",
		Tools:       []string{"导出格式 (PDF/Excel)", "自定义报表维度"},
		Templates: []models.ScenarioTemplate{
			{Title: "月度销售业绩区域对比表", Desc: "自动生成图表分析", Icon: "BarChart3", Prompt: "生成月度销售业绩区域对比表，并进行自动图表分析。"},
			{Title: "设计部款式完成率进度表", Desc: "对接 PLM 数据", Icon: "PenTool", Prompt: "对接PLM数据，生成设计部款式完成率进度表。"},
			{Title: "售后问题类型占比分析表", Desc: "质量/尺码/物流", Icon: "FileText", Prompt: "分析售后数据，生成问题类型（质量/尺码/物流）占比分析表。"},
			{Title: "原料库存周转率分析表", Desc: "预警高库存风险", Icon: "Database", Prompt: "生成原料库存周转率分析表，预警高库存风险。"},
			{Title: "各车间设备利用率统计表", Desc: "MES 数据实时抓取", Icon: "Bot", Prompt: "抓取MES数据，统计各车间设备利用率。"},
		},
	},
	{
		ID:          "smart-qa",
		Label:       "智能问答",
		HeroTitle:   "不懂就问，你的全能业务助手",
		Icon:        "MessageSquareText",
		Placeholder: "请输入疑问：流程咨询 / 系统操作 / 制度查询（示例：‘PLM 设计稿如何上传？’）",
		Tools:       []string{"语音输入", "相似问题推荐"},
		Templates: []models.ScenarioTemplate{
			{Title: "财务报销流程查询", Desc: "差旅/采购/招待费", Icon: "FileText", Prompt: "查询公司财务报销流程，特别是差旅、采购和招待费的规定。"},
			{Title: "PLM 系统基础操作指引", Desc: "新手入门必读", Icon: "Globe", Prompt: "提供PLM系统基础操作指引，适合新手入门。"},
			{Title: "生产排产异常处理流程", Desc: "应急预案查询", Icon: "AlertTriangle", Prompt: "查询生产排产异常处理流程及应急预案。"},
			{Title: "员工培训报名流程", Desc: "内部课程体系", Icon: "Users", Prompt: "查询内部课程体系及员工培训报名流程。"},
			{Title: "合同审批流程", Desc: "法务合规节点", Icon: "FileText", Prompt: "查询合同审批流程及法务合规关键节点。"},
		},
	},
	{
		ID:          "task-track",
		Label:       "任务跟踪",
		HeroTitle:   "全链路监控，实时掌握任务进度",
		Icon:        "ClipboardList",
		Placeholder: "请输入任务名称 / ID 查询进度...",
		Tools:       []string{"催办任务", "任务转交"},
		Templates: []models.ScenarioTemplate{
			{Title: "待执行任务列表", Desc: "按优先级排序", Icon: "ClipboardList", Prompt: "列出所有待执行任务，按优先级排序。"},
			{Title: "执行中任务监控", Desc: "实时日志/剩余时间", Icon: "Clock", Prompt: "监控执行中的任务，显示实时日志和剩余时间。"},
			{Title: "已完成任务归档", Desc: "结果预览及下载", Icon: "CheckCircle", Prompt: "归档已完成的任务，提供结果预览及下载。"},
			{Title: "已延期任务预警", Desc: "延期原因分析", Icon: "AlertTriangle", Prompt: "分析已延期任务，提供延期原因分析。"},
		},
	},
	{
		ID:          "asset-center",
		Label:       "素材中心",
		HeroTitle:   "海量素材，一键智能生成",
		Icon:        "Image",
		Placeholder: "请选择素材类型 + 风格：营销海报 / 短视频脚本 / 虚拟穿搭图 / 培训素材",
		Tools:       []string{"同步飞书共享空间", "素材在线编辑"},
		Templates: []models.ScenarioTemplate{
			{Title: "商务西装虚拟模特穿搭", Desc: "含多体型展示", Icon: "User", Prompt: "生成商务西装的虚拟模特穿搭图，展示多体型效果。"},
			{Title: "618 大促连衣裙短视频脚本", Desc: "含分镜建议", Icon: "Video", Prompt: "编写618大促连衣裙的短视频脚本，包含分镜建议。"},
			{Title: "团装定制效果对比图", Desc: "含材质标注", Icon: "Image", Prompt: "生成团装定制效果对比图，包含材质标注。"},
			{Title: "新员工设计规范培训包", Desc: "含案例库", Icon: "Book", Prompt: "生成新员工设计规范培训包，包含案例库。"},
			{Title: "面料特性展示图模板", Desc: "垂感/透气性说明", Icon: "FileText", Prompt: "生成面料特性展示图，说明垂感和透气性。"},
		},
	},
}

// featuredCases are the sample deliverables per category. Service and
// Management share the generic set.
var featuredCases = map[models.AgentCategory][]models.FeaturedCase{
	models.CategoryDesign: {
		{Title: "2024早秋女装趋势报告", Type: "Report", Icon: "TrendingUp"},
		{Title: "极简主义西装设计稿", Type: "Design", Icon: "Scissors"},
		{Title: "法式复古连衣裙面料方案", Type: "Material", Icon: "Palette"},
	},
	models.CategoryProduction: {
		{Title: "Q3 原料库存消耗预测", Type: "Excel", Icon: "Table"},
		{Title: "智能工厂动态排产表", Type: "Schedule", Icon: "CalendarClock"},
		{Title: "供应链成本分析报告", Type: "Report", Icon: "BarChart3"},
	},
	models.CategorySales: {
		{Title: "双11男装营销策划案", Type: "Plan", Icon: "Target"},
		{Title: "小红书种草文案 - 羊毛衫", Type: "Social", Icon: "Smartphone"},
		{Title: "VIP客户画像分析", Type: "Analysis", Icon: "Users"},
	},
}

var genericCases = []models.FeaturedCase{
	{Title: "业务流程规范文档", Type: "Doc", Icon: "FileText"},
	{Title: "员工培训考核试题", Type: "Quiz", Icon: "CheckSquare"},
	{Title: "季度部门协作报表", Type: "Report", Icon: "PieChart"},
}
