package service

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// 用户脚本通过stdout上报指标的两种格式：
//   METRICS_JSON:{"acc": 0.9, ...}   一行JSON对象
//   METRIC acc: 0.9                  每行一个指标
var (
	metricsJSONPattern = regexp.MustCompile(`METRICS_JSON:(.+)`)
	metricLinePattern  = regexp.MustCompile(`METRIC\s+([A-Za-z0-9_]+):\s*(\S+)`)
)

// ExtractMetrics 从捕获的stdout中解析结构化指标。
// 先找METRICS_JSON块，解析成功则直接返回；否则收集METRIC行，同名键后者覆盖前者。
// 两种标记都没有时返回空映射，这不算错误，本函数不会失败。
func ExtractMetrics(stdout string) map[string]interface{} {
	if m := metricsJSONPattern.FindStringSubmatch(stdout); m != nil {
		var parsed map[string]interface{}
		if err := json.Unmarshal([]byte(strings.TrimSpace(m[1])), &parsed); err == nil {
			return parsed
		}
	}

	metrics := map[string]interface{}{}
	for _, m := range metricLinePattern.FindAllStringSubmatch(stdout, -1) {
		name, raw := m[1], m[2]
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			metrics[name] = v
		} else {
			metrics[name] = raw
		}
	}
	return metrics
}
