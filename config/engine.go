package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// EngineConfig 是引擎的可调参数，从 YAML 加载。
// 零值字段由各组件在方法内部填默认值，配置文件只需写要覆盖的项。
type EngineConfig struct {
	// RecallTimeout 是混合召回单路超时（秒），0 表示不限制。
	RecallTimeoutSeconds int `yaml:"recall_timeout_seconds"`

	Collaborative struct {
		// MinRatings 是启用协同过滤所需的最少评分条数
		MinRatings int `yaml:"min_ratings"`
		// TopKSimilarUsers 参与聚合的相似用户数
		TopKSimilarUsers int `yaml:"top_k_similar_users"`
		// ScoreThreshold 是候选进入结果的最低归一化分
		ScoreThreshold float64 `yaml:"score_threshold"`
	} `yaml:"collaborative"`

	Cluster struct {
		// K 是簇数
		K int `yaml:"k"`
		// Restarts 是重启次数，取惯性最小的一次
		Restarts int `yaml:"restarts"`
		// Seed 是随机种子，固定种子保证结果可复现
		Seed int64 `yaml:"seed"`
	} `yaml:"cluster"`

	Trending struct {
		// RecentDays 是趋势召回的发售时间窗口（天）
		RecentDays int `yaml:"recent_days"`
	} `yaml:"trending"`
}

// RecallTimeout 返回 time.Duration 形式的召回超时。
func (c *EngineConfig) RecallTimeout() time.Duration {
	return time.Duration(c.RecallTimeoutSeconds) * time.Second
}

// LoadEngineConfig 从 YAML 文件加载引擎配置。
func LoadEngineConfig(path string) (*EngineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var cfg EngineConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return &cfg, nil
}
