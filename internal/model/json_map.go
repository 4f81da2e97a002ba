package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONMap 以JSON列形式存储的键值映射（超参数、指标等）
type JSONMap map[string]interface{}

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("序列化JSON列失败: %w", err)
	}
	return string(b), nil
}

func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = JSONMap{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("无法扫描JSON列: 不支持的类型 %T", value)
	}

	if len(data) == 0 {
		*m = JSONMap{}
		return nil
	}

	return json.Unmarshal(data, m)
}
