package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// GetEnvOrDefault 获取环境变量，如果不存在则返回默认值
// 这是配置加载的核心函数：环境变量 > 默认值
func GetEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// GetIntOrDefault 读取整数环境变量，未设置时返回默认值；设置了但无法解析时返回错误
func GetIntOrDefault(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return defaultValue, fmt.Errorf("%s=%q is not an integer: %w", key, value, err)
	}
	return n, nil
}

// GetDurationOrDefault 读取 time.ParseDuration 格式的环境变量（如 "5s"、"15m"）。
// 不带单位的数字（如 "5"）视为错误
func GetDurationOrDefault(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return defaultValue, fmt.Errorf("%s=%q is not a duration: %w", key, value, err)
	}
	return d, nil
}

// envParser 读取带类型的环境变量并收集解析错误，便于一次报告所有问题
type envParser struct {
	errs []error
}

func (p *envParser) getInt(key string, defaultValue int) int {
	n, err := GetIntOrDefault(key, defaultValue)
	if err != nil {
		p.errs = append(p.errs, err)
	}
	return n
}

func (p *envParser) getDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := GetDurationOrDefault(key, defaultValue)
	if err != nil {
		p.errs = append(p.errs, err)
	}
	return d
}

func (p *envParser) err() error {
	return errors.Join(p.errs...)
}

// SanitizeConfigForLog 清理配置中的敏感信息，用于日志输出
func SanitizeConfigForLog(config map[string]any) map[string]any {
	sanitized := make(map[string]any, len(config))
	for k, v := range config {
		if isSensitiveKey(k) {
			sanitized[k] = "***REDACTED***"
		} else {
			sanitized[k] = v
		}
	}
	return sanitized
}

// isSensitiveKey 判断是否是敏感配置项
func isSensitiveKey(key string) bool {
	lowerKey := strings.ToLower(key)
	sensitiveKeywords := []string{
		"password", "secret", "token", "credential", "private", "api_key",
	}

	for _, keyword := range sensitiveKeywords {
		if strings.Contains(lowerKey, keyword) {
			return true
		}
	}
	// database_url 里通常带有密码
	return lowerKey == "database_url"
}
