package service

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestTemplateCatalogBasic(t *testing.T) {
	catalog := NewTemplateCatalog(nil, nil)
	ctx := context.Background()

	// 所有静态模板都要能独立运行并打印指标标记
	cases := []struct {
		language  string
		framework string
	}{
		{"python", "pytorch"},
		{"python", "tensorflow"},
		{"python", "sklearn"},
		{"python", "pandas"},
		{"r", "caret"},
		{"julia", "flux"},
	}

	for _, tc := range cases {
		t.Run(tc.language+"/"+tc.framework, func(t *testing.T) {
			code, err := catalog.Generate(ctx, "u1", tc.language, tc.framework, "basic", "")
			if err != nil {
				t.Fatalf("Generate失败: %v", err)
			}
			if code == "" {
				t.Fatal("模板不能为空")
			}
			if !strings.Contains(code, "METRICS_JSON") {
				t.Error("模板应包含METRICS_JSON指标标记")
			}
			if !strings.Contains(code, "42") {
				t.Error("模板应固定随机种子")
			}
		})
	}
}

func TestTemplateCatalogValidation(t *testing.T) {
	catalog := NewTemplateCatalog(nil, nil)
	ctx := context.Background()

	_, err := catalog.Generate(ctx, "u1", "cobol", "pytorch", "basic", "")
	if !errors.Is(err, ErrValidation) {
		t.Errorf("未知语言应返回ErrValidation, 实际 %v", err)
	}
	if err != nil && !strings.Contains(err.Error(), "cobol") {
		t.Errorf("错误信息应指名非法值, 实际 %q", err.Error())
	}

	_, err = catalog.Generate(ctx, "u1", "python", "keras", "basic", "")
	if !errors.Is(err, ErrValidation) {
		t.Errorf("未知框架应返回ErrValidation, 实际 %v", err)
	}
}

// 没有静态模板也没有论文时，退回指名语言的stub注释
func TestTemplateCatalogStubFallback(t *testing.T) {
	catalog := NewTemplateCatalog(nil, nil)

	code, err := catalog.Generate(context.Background(), "u1", "julia", "mlj", "basic", "")
	if err != nil {
		t.Fatalf("Generate失败: %v", err)
	}
	if code == "" {
		t.Fatal("兜底stub不能为空")
	}
	if !strings.Contains(code, "julia") {
		t.Errorf("stub应指名语言, 实际 %q", code)
	}
}
