package service

import (
	"context"
	"strings"
	"testing"
)

func TestAnalyzeCodePython(t *testing.T) {
	cases := []struct {
		name      string
		code      string
		hasErrors bool
	}{
		{"语法错误", "def f(:", true},
		{"缺少冒号", "def f()\n    return 1\n", true},
		{"合法代码", "def f(x):\n    return x + 1\n\nprint(f(1))\n", false},
		{"空文件", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := AnalyzeCode(context.Background(), tc.code, "python")
			if result.HasErrors != tc.hasErrors {
				t.Errorf("HasErrors = %v, 期望 %v (message: %s)", result.HasErrors, tc.hasErrors, result.Message)
			}
			if tc.hasErrors && !strings.Contains(result.Message, "syntax") {
				t.Errorf("诊断信息应包含syntax, 实际 %q", result.Message)
			}
		})
	}
}

// 其他语言没有解析能力，直接放行并说明
func TestAnalyzeCodeOtherLanguages(t *testing.T) {
	for _, lang := range []string{"r", "julia"} {
		result := AnalyzeCode(context.Background(), "this is not even code (", lang)
		if result.HasErrors {
			t.Errorf("语言 %s 不应报错", lang)
		}
		if result.Message == "" {
			t.Errorf("语言 %s 应返回说明信息", lang)
		}
	}
}
