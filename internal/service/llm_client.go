package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// LLMAssistant 核心逻辑消费的LLM协作方接口，测试里可替换
type LLMAssistant interface {
	Chat(ctx context.Context, prompt string) (string, error)
	GenerateCodeFromPaper(ctx context.Context, paperText, language, framework string) (string, error)
}

// LLMClient 对话式LLM服务的HTTP客户端（chat-completions风格接口）
type LLMClient struct {
	BaseURL string
	APIKey  string
	Model   string
	Client  *http.Client
}

func NewLLMClient(baseURL, apiKey, model string, timeoutSeconds int) *LLMClient {
	if timeoutSeconds <= 0 {
		timeoutSeconds = 30
	}
	return &LLMClient{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Model:   model,
		Client: &http.Client{
			Timeout: time.Duration(timeoutSeconds) * time.Second,
		},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// Chat 发送单轮对话请求，返回助手的回答文本
func (c *LLMClient) Chat(ctx context.Context, prompt string) (string, error) {
	url := fmt.Sprintf("%s/chat/completions", c.BaseURL)

	reqBody := chatCompletionRequest{
		Model: c.Model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
		Stream: false,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("序列化请求失败: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("创建请求失败: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.APIKey))

	resp, err := c.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("请求失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		// 尝试解析错误信息
		var errResp map[string]interface{}
		if json.Unmarshal(body, &errResp) == nil {
			if msg, ok := errResp["message"].(string); ok {
				return "", fmt.Errorf("API返回错误: %d, %s", resp.StatusCode, msg)
			}
		}
		// 无法解析时返回原始body（截取前500字符避免过长）
		bodyStr := string(body)
		if len(bodyStr) > 500 {
			bodyStr = bodyStr[:500] + "..."
		}
		return "", fmt.Errorf("API返回错误: %d, %s", resp.StatusCode, bodyStr)
	}

	var chatResp chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("解析响应失败: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("LLM未返回任何回答")
	}
	return chatResp.Choices[0].Message.Content, nil
}

// GenerateCodeFromPaper 基于论文正文生成指定语言/框架的实验脚本
func (c *LLMClient) GenerateCodeFromPaper(ctx context.Context, paperText, language, framework string) (string, error) {
	prompt := fmt.Sprintf(`你是一名研究工程师。请根据下面的论文内容，用 %s 语言和 %s 框架写一个可以直接运行的实验脚本。
要求：
1. 固定随机种子，保证可复现
2. 用合成数据或小数据集，脚本要能独立运行
3. 最后把指标按这一行格式打印到stdout：METRICS_JSON:{"metric_name": value}
只输出代码，不要解释。

论文内容：
%s`, language, framework, truncateText(paperText, 6000))

	answer, err := c.Chat(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("生成实验代码失败: %w", err)
	}
	return stripCodeFence(answer), nil
}

// stripCodeFence 去掉回答里包裹代码的markdown围栏
func stripCodeFence(answer string) string {
	text := strings.TrimSpace(answer)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	lines := strings.Split(text, "\n")
	if len(lines) < 2 {
		return text
	}
	// 第一行是```python之类的围栏开头
	lines = lines[1:]
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.TrimSpace(lines[i]) == "```" {
			lines = lines[:i]
			break
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func truncateText(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}
