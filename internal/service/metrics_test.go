package service

import (
	"reflect"
	"testing"
)

func TestExtractMetrics(t *testing.T) {
	cases := []struct {
		name     string
		stdout   string
		expected map[string]interface{}
	}{
		{
			name:     "单个METRIC行",
			stdout:   "training...\nMETRIC acc: 0.75\ndone\n",
			expected: map[string]interface{}{"acc": 0.75},
		},
		{
			name:     "METRICS_JSON块",
			stdout:   `METRICS_JSON:{"rmse":0.1,"r2":0.9}` + "\n",
			expected: map[string]interface{}{"rmse": 0.1, "r2": 0.9},
		},
		{
			name:     "JSON块优先于METRIC行",
			stdout:   "METRIC acc: 0.5\n" + `METRICS_JSON:{"acc":0.9}` + "\n",
			expected: map[string]interface{}{"acc": 0.9},
		},
		{
			name:     "同名METRIC后者覆盖前者",
			stdout:   "METRIC loss: 1.5\nMETRIC loss: 0.3\n",
			expected: map[string]interface{}{"loss": 0.3},
		},
		{
			name:     "多个METRIC行",
			stdout:   "METRIC acc: 0.8\nMETRIC f1: 0.76\n",
			expected: map[string]interface{}{"acc": 0.8, "f1": 0.76},
		},
		{
			name:     "无法解析为数字时保留原始字符串",
			stdout:   "METRIC device: cuda\n",
			expected: map[string]interface{}{"device": "cuda"},
		},
		{
			name:     "JSON解析失败时退回METRIC行",
			stdout:   "METRICS_JSON:{not-valid-json}\nMETRIC acc: 0.6\n",
			expected: map[string]interface{}{"acc": 0.6},
		},
		{
			name:     "没有任何标记时返回空映射",
			stdout:   "just some logs\nnothing here\n",
			expected: map[string]interface{}{},
		},
		{
			name:     "空输入",
			stdout:   "",
			expected: map[string]interface{}{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ExtractMetrics(tc.stdout)
			if !reflect.DeepEqual(got, tc.expected) {
				t.Errorf("ExtractMetrics() = %v, 期望 %v", got, tc.expected)
			}
		})
	}
}

// 提取结果必须是确定性的：同一输入反复解析得到相同映射
func TestExtractMetricsDeterministic(t *testing.T) {
	stdout := "METRIC acc: 0.8\nMETRIC loss: 0.12\nMETRIC device: cuda\n"

	first := ExtractMetrics(stdout)
	for i := 0; i < 10; i++ {
		if got := ExtractMetrics(stdout); !reflect.DeepEqual(got, first) {
			t.Fatalf("第%d次解析结果不一致: %v != %v", i, got, first)
		}
	}
}
