package service

import "testing"

func TestGenerateDesignKnownDomains(t *testing.T) {
	for _, domain := range []string{"nlp", "computer_vision", "machine_learning", "reinforcement_learning"} {
		doc := GenerateDesign(domain)
		if doc.Domain != domain {
			t.Errorf("domain = %s, 期望 %s", doc.Domain, domain)
		}
		if doc.Title == "" || doc.Hypothesis == "" || len(doc.Methodology) == 0 || len(doc.Metrics) == 0 {
			t.Errorf("领域 %s 的设计文档不完整: %+v", domain, doc)
		}
	}
}

func TestGenerateDesignFallback(t *testing.T) {
	doc := GenerateDesign("quantum_biology")
	if doc.Domain != "quantum_biology" {
		t.Errorf("兜底文档应保留请求的领域, 实际 %s", doc.Domain)
	}
	if doc.Title == "" || len(doc.Methodology) == 0 {
		t.Errorf("兜底文档不完整: %+v", doc)
	}

	empty := GenerateDesign("")
	if empty.Domain != "general" {
		t.Errorf("空领域应返回general, 实际 %s", empty.Domain)
	}
}
