package gateway

import (
	"fmt"
	"strings"
)

// GenerationKind 创作辅助的生成类型
type GenerationKind string

const (
	KindWorldSetting     GenerationKind = "world_setting"
	KindCharacter        GenerationKind = "character"
	KindPlot             GenerationKind = "plot"
	KindContinuation     GenerationKind = "continuation"
	KindConsistencyCheck GenerationKind = "consistency_check"
)

type promptTemplate struct {
	lead   string
	points []string
	tail   string
}

var promptTemplates = map[GenerationKind]promptTemplate{
	KindWorldSetting: {
		lead:   "请根据以下要求生成小说世界设定：",
		points: []string{"世界观背景", "地理环境", "历史文化", "政治体系", "经济制度", "特殊规则或法则"},
		tail:   "请生成详细的世界设定，包括：",
	},
	KindCharacter: {
		lead:   "请根据以下要求生成小说人物：",
		points: []string{"基本信息（姓名、年龄、性别、身份）", "外貌特征", "性格特点", "能力技能", "背景故事", "人际关系", "成长轨迹"},
		tail:   "请生成详细的人物设定，包括：",
	},
	KindPlot: {
		lead:   "请根据以下要求生成小说剧情：",
		points: []string{"主要情节线", "关键转折点", "人物冲突", "情节发展", "高潮设计", "结局安排"},
		tail:   "请生成详细的剧情大纲，包括：",
	},
	KindContinuation: {
		lead:   "请根据以下内容进行续写：",
		points: []string{"保持文风一致", "情节自然流畅", "人物性格符合设定", "推进故事发展", "保持悬念和张力"},
		tail:   "续写要求：",
	},
	KindConsistencyCheck: {
		lead:   "请检查以下内容的一致性：",
		points: []string{"人物设定是否前后一致", "世界观设定是否有矛盾", "时间线是否合理", "情节逻辑是否通顺", "细节描述是否冲突"},
		tail:   "检查要点：",
	},
}

var promptClosing = map[GenerationKind]string{
	KindWorldSetting:     "请用中文回答，格式清晰，内容丰富。",
	KindCharacter:        "请用中文回答，格式清晰，人物形象生动。",
	KindPlot:             "请用中文回答，剧情逻辑清晰，富有张力。",
	KindContinuation:     "请用中文续写，文笔流畅，情节合理。",
	KindConsistencyCheck: "请指出发现的问题并提供修改建议。",
}

// GenerationKinds 支持的生成类型
func GenerationKinds() []GenerationKind {
	return []GenerationKind{KindWorldSetting, KindCharacter, KindPlot, KindContinuation, KindConsistencyCheck}
}

// BuildPrompt 用生成类型的模板包装用户输入
func BuildPrompt(kind GenerationKind, userPrompt string) (string, bool) {
	tpl, ok := promptTemplates[kind]
	if !ok {
		return "", false
	}

	var b strings.Builder
	b.WriteString(tpl.lead)
	b.WriteString("\n\n")
	b.WriteString(userPrompt)
	b.WriteString("\n\n")
	b.WriteString(tpl.tail)
	b.WriteString("\n")
	for i, p := range tpl.points {
		fmt.Fprintf(&b, "%d. %s\n", i+1, p)
	}
	b.WriteString("\n")
	b.WriteString(promptClosing[kind])
	return b.String(), true
}
