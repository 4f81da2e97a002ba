package service

// DesignDocument 实验设计文档
type DesignDocument struct {
	Domain             string   `json:"domain"`
	Title              string   `json:"title"`
	Hypothesis         string   `json:"hypothesis"`
	IndependentVars    []string `json:"independent_variables"`
	DependentVars      []string `json:"dependent_variables"`
	ControlledVars     []string `json:"controlled_variables"`
	Methodology        []string `json:"methodology"`
	Metrics            []string `json:"metrics"`
	SuggestedFramework string   `json:"suggested_framework"`
}

// 按研究领域预置的设计文档
var designCatalog = map[string]DesignDocument{
	"nlp": {
		Domain:          "nlp",
		Title:           "文本分类基线对比实验",
		Hypothesis:      "在中小规模语料上，微调预训练模型的效果显著优于传统词袋基线",
		IndependentVars: []string{"模型结构（TF-IDF+LR / BERT微调）", "训练样本量"},
		DependentVars:   []string{"accuracy", "macro_f1"},
		ControlledVars:  []string{"随机种子", "训练轮数", "评测集划分"},
		Methodology: []string{
			"固定随机种子并按8:1:1划分训练/验证/测试集",
			"先训练TF-IDF+逻辑回归基线",
			"再用相同数据微调预训练语言模型",
			"在同一测试集上对比两组指标",
		},
		Metrics:            []string{"accuracy", "macro_f1", "train_time"},
		SuggestedFramework: "pytorch",
	},
	"computer_vision": {
		Domain:          "computer_vision",
		Title:           "图像分类数据增强消融实验",
		Hypothesis:      "随机裁剪与颜色扰动的组合增强能在小数据集上降低过拟合",
		IndependentVars: []string{"数据增强策略（无/裁剪/颜色/组合）"},
		DependentVars:   []string{"top1_accuracy", "val_loss"},
		ControlledVars:  []string{"网络结构", "学习率", "训练轮数", "随机种子"},
		Methodology: []string{
			"选定一个小规模图像数据集并固定划分",
			"以同一骨干网络分别训练各增强配置",
			"记录每个配置的验证集精度曲线",
			"对比最终精度与过拟合程度",
		},
		Metrics:            []string{"top1_accuracy", "val_loss", "train_val_gap"},
		SuggestedFramework: "pytorch",
	},
	"machine_learning": {
		Domain:          "machine_learning",
		Title:           "表格数据模型对比实验",
		Hypothesis:      "梯度提升树在中等规模表格数据上优于线性模型与单棵决策树",
		IndependentVars: []string{"模型类型（线性/决策树/随机森林/梯度提升）"},
		DependentVars:   []string{"auc", "f1"},
		ControlledVars:  []string{"特征工程流程", "交叉验证折数", "随机种子"},
		Methodology: []string{
			"统一缺失值填充与类别编码流程",
			"5折交叉验证训练每个候选模型",
			"以验证集AUC为主指标比较",
			"对最优模型做特征重要性分析",
		},
		Metrics:            []string{"auc", "f1", "fit_time"},
		SuggestedFramework: "sklearn",
	},
	"reinforcement_learning": {
		Domain:          "reinforcement_learning",
		Title:           "策略梯度与价值方法对比实验",
		Hypothesis:      "在稀疏奖励环境中，带基线的策略梯度收敛更稳定",
		IndependentVars: []string{"算法（DQN / REINFORCE / A2C）", "奖励稀疏程度"},
		DependentVars:   []string{"episode_return", "收敛所需步数"},
		ControlledVars:  []string{"环境版本", "网络规模", "随机种子（多种子取均值）"},
		Methodology: []string{
			"选定统一的gym环境与评测协议",
			"每个算法跑5个随机种子",
			"记录训练曲线并取滑动平均",
			"比较最终回报与方差",
		},
		Metrics:            []string{"mean_return", "std_return", "steps_to_converge"},
		SuggestedFramework: "pytorch",
	},
}

// 领域不在目录里时的通用模板
var genericDesign = DesignDocument{
	Domain:          "general",
	Title:           "对照实验设计模板",
	Hypothesis:      "待验证的方法在目标任务上优于基线方法",
	IndependentVars: []string{"方法（基线/待验证）"},
	DependentVars:   []string{"任务主指标"},
	ControlledVars:  []string{"数据划分", "随机种子", "训练预算"},
	Methodology: []string{
		"明确任务定义与评测指标",
		"固定数据划分与随机种子",
		"分别运行基线与待验证方法",
		"对比指标并做显著性检验",
	},
	Metrics:            []string{"primary_metric", "run_time"},
	SuggestedFramework: "sklearn",
}

// GenerateDesign 按领域标签返回预置实验设计，未命中时退回通用模板
func GenerateDesign(domain string) DesignDocument {
	if doc, ok := designCatalog[domain]; ok {
		return doc
	}
	doc := genericDesign
	if domain != "" {
		doc.Domain = domain
	}
	return doc
}
