package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestLLMClientChat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("请求路径 = %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("Authorization = %s", auth)
		}

		var req chatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("解析请求失败: %v", err)
		}
		if len(req.Messages) != 1 || req.Messages[0].Content != "你好" {
			t.Errorf("请求内容错误: %+v", req.Messages)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices": [{"message": {"role": "assistant", "content": "回答内容"}}]}`))
	}))
	defer server.Close()

	client := NewLLMClient(server.URL, "test-key", "test-model", 5)
	answer, err := client.Chat(context.Background(), "你好")
	if err != nil {
		t.Fatalf("Chat失败: %v", err)
	}
	if answer != "回答内容" {
		t.Errorf("answer = %q", answer)
	}
}

func TestLLMClientHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"message": "rate limited"}`))
	}))
	defer server.Close()

	client := NewLLMClient(server.URL, "test-key", "test-model", 5)
	_, err := client.Chat(context.Background(), "你好")
	if err == nil {
		t.Fatal("非200响应应返回错误")
	}
	if !strings.Contains(err.Error(), "rate limited") {
		t.Errorf("错误信息应包含服务端message, 实际 %q", err.Error())
	}
}

func TestStripCodeFence(t *testing.T) {
	cases := []struct {
		name     string
		answer   string
		expected string
	}{
		{"无围栏", "print(1)", "print(1)"},
		{"python围栏", "```python\nprint(1)\n```", "print(1)"},
		{"无语言标注围栏", "```\nprint(1)\nprint(2)\n```", "print(1)\nprint(2)"},
		{"前后空白", "  ```python\nx = 1\n```  ", "x = 1"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := stripCodeFence(tc.answer); got != tc.expected {
				t.Errorf("stripCodeFence() = %q, 期望 %q", got, tc.expected)
			}
		})
	}
}
