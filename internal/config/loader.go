// Package config 提供配置加载功能
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Load 加载 configs 目录下的配置文件
func Load() (*Config, error) {
	return LoadFrom("configs")
}

// LoadFrom 从指定目录加载配置
// 按优先级加载：默认配置 -> 环境配置 -> 环境变量
func LoadFrom(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	// 1. 加载默认配置，缺失时完全依赖默认值和环境变量
	if err := loadConfigFile(v, filepath.Join(dir, "config.yaml"), true); err != nil {
		return nil, err
	}

	// 2. 加载环境特定配置
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}
	envFile := filepath.Join(dir, fmt.Sprintf("config.%s.yaml", env))
	if err := loadConfigFile(v, envFile, true); err != nil {
		return nil, err
	}

	// 3. 绑定环境变量 (直接覆盖)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 设置默认值 (兜底)
	setDefaults(v)

	// 解析配置
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	applyProviderDefaults(&cfg.LLM)

	return &cfg, nil
}

// loadConfigFile 读取文件，执行环境变量替换，并加载到 viper
func loadConfigFile(v *viper.Viper, path string, optional bool) error {
	content, err := os.ReadFile(path)
	if err != nil {
		if optional && os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	// 执行环境变量替换
	expanded := expandEnv(string(content))

	// 加载到 viper
	reader := strings.NewReader(expanded)
	if v.ConfigFileUsed() == "" {
		if err := v.ReadConfig(reader); err != nil {
			return fmt.Errorf("failed to read processed config %s: %w", path, err)
		}
		// 手动标记已加载文件，防止后续 ReadInConfig 报错
		v.SetConfigFile(path)
	} else {
		if err := v.MergeConfig(reader); err != nil {
			return fmt.Errorf("failed to merge processed config %s: %w", path, err)
		}
	}

	return nil
}

// expandEnv 替换字符串中的 ${VAR:default} 占位符
func expandEnv(s string) string {
	// 匹配 ${VAR} 或 ${VAR:default}
	// g1: 变量名, g2: 默认值部分（含冒号）, g3: 默认值内容
	re := regexp.MustCompile(`\${(\w+)(:([^}]*))?}`)
	return re.ReplaceAllStringFunc(s, func(match string) string {
		submatch := re.FindStringSubmatch(match)
		key := submatch[1]
		hasDefault := submatch[2] != ""
		defVal := submatch[3]

		val, ok := os.LookupEnv(key)
		if ok {
			return val
		}
		if hasDefault {
			return defVal
		}
		return match // 原样返回，或者返回空？保留原样以便识别未定义的变量
	})
}

// MustLoad 加载配置，失败时 panic
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

// providerDefault 单个 provider 的出厂值
type providerDefault struct {
	baseURL string
	model   string
	timeout time.Duration
}

// providerDefaults 各 provider 的默认地址与模型
var providerDefaults = map[string]providerDefault{
	"openai":      {baseURL: "https://api.openai.com/v1", model: "gpt-3.5-turbo", timeout: 60 * time.Second},
	"claude":      {baseURL: "https://api.anthropic.com", model: "claude-3-sonnet-20240229", timeout: 60 * time.Second},
	"zhipu":       {baseURL: "https://open.bigmodel.cn/api/paas/v4", model: "glm-4", timeout: 60 * time.Second},
	"siliconflow": {baseURL: "https://api.siliconflow.cn/v1", model: "deepseek-chat", timeout: 60 * time.Second},
	"google":      {baseURL: "https://generativelanguage.googleapis.com/v1beta", model: "gemini-pro", timeout: 60 * time.Second},
	"grok":        {baseURL: "https://api.x.ai/v1", model: "grok-beta", timeout: 60 * time.Second},
	"ollama":      {baseURL: "http://localhost:11434", model: "mollysama/rwkv-7-g1:0.4B", timeout: 120 * time.Second},
	"custom":      {timeout: 60 * time.Second},
}

// applyProviderDefaults 为每个已知 provider 补齐缺省字段
// 配置文件中只写了部分字段的 provider 也会被补齐
func applyProviderDefaults(cfg *LLMConfig) {
	if cfg.Providers == nil {
		cfg.Providers = make(map[string]ProviderConfig, len(providerDefaults))
	}
	if cfg.DefaultProvider == "" {
		cfg.DefaultProvider = "ollama"
	}
	for id, def := range providerDefaults {
		pc := cfg.Providers[id]
		if pc.BaseURL == "" {
			pc.BaseURL = def.baseURL
		}
		if pc.Model == "" {
			pc.Model = def.model
		}
		if pc.MaxTokens == 0 {
			pc.MaxTokens = 2000
		}
		if pc.Temperature == 0 {
			pc.Temperature = 0.7
		}
		if pc.Timeout == 0 {
			pc.Timeout = def.timeout
		}
		cfg.Providers[id] = pc
	}
}

// DefaultLLMConfig 返回仅包含默认值的 LLM 配置，供测试和 CLI 使用
func DefaultLLMConfig() LLMConfig {
	cfg := LLMConfig{}
	applyProviderDefaults(&cfg)
	return cfg
}

// setDefaults 设置配置默认值
func setDefaults(v *viper.Viper) {
	// 应用默认值
	v.SetDefault("app.name", "novel-assistant")
	v.SetDefault("app.version", "v0.0.0")
	v.SetDefault("app.env", "development")

	// HTTP 服务器默认值
	v.SetDefault("server.http.host", "0.0.0.0")
	v.SetDefault("server.http.port", 8000)
	v.SetDefault("server.http.read_timeout", "30s")
	v.SetDefault("server.http.write_timeout", "180s")
	v.SetDefault("server.http.idle_timeout", "120s")

	// 数据库默认值
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("database.sqlite.path", "data/novel_assistant.db")
	v.SetDefault("database.postgres.host", "localhost")
	v.SetDefault("database.postgres.port", 5432)
	v.SetDefault("database.postgres.user", "postgres")
	v.SetDefault("database.postgres.database", "novel_assistant")
	v.SetDefault("database.postgres.ssl_mode", "disable")
	v.SetDefault("database.postgres.max_open_conns", 50)
	v.SetDefault("database.postgres.max_idle_conns", 10)
	v.SetDefault("database.postgres.conn_max_lifetime", "30m")
	v.SetDefault("database.postgres.conn_max_idle_time", "5m")

	// Redis 默认值
	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.statistics_ttl", "5m")
	v.SetDefault("cache.redis.host", "localhost")
	v.SetDefault("cache.redis.port", 6379)
	v.SetDefault("cache.redis.db", 0)
	v.SetDefault("cache.redis.pool_size", 100)
	v.SetDefault("cache.redis.min_idle_conns", 10)
	v.SetDefault("cache.redis.dial_timeout", "5s")
	v.SetDefault("cache.redis.read_timeout", "3s")
	v.SetDefault("cache.redis.write_timeout", "3s")

	// LLM 默认值
	v.SetDefault("llm.default_provider", "ollama")
	// 为每个 provider 注册键，AutomaticEnv 才能覆盖 LLM_PROVIDERS_OPENAI_API_KEY 这类变量
	for id, def := range providerDefaults {
		prefix := "llm.providers." + id + "."
		v.SetDefault(prefix+"api_key", "")
		v.SetDefault(prefix+"base_url", def.baseURL)
		v.SetDefault(prefix+"model", def.model)
		v.SetDefault(prefix+"max_tokens", 2000)
		v.SetDefault(prefix+"temperature", 0.7)
		v.SetDefault(prefix+"timeout", def.timeout)
	}

	// 会话默认值
	v.SetDefault("session.header", "X-Session-ID")
	v.SetDefault("session.idle_ttl", "2h")

	// 可观测性默认值
	v.SetDefault("observability.logging.level", "info")
	v.SetDefault("observability.logging.format", "json")
	v.SetDefault("observability.tracing.enabled", false)
	v.SetDefault("observability.tracing.endpoint", "localhost:4317")
	v.SetDefault("observability.tracing.sample_rate", 1.0)
	v.SetDefault("observability.metrics.enabled", true)
	v.SetDefault("observability.metrics.path", "/metrics")

	// 安全默认值
	v.SetDefault("security.cors.allowed_origins", []string{"http://localhost:3000", "http://127.0.0.1:3000"})
	v.SetDefault("security.cors.allow_credentials", true)
	v.SetDefault("security.cors.max_age", "12h")
	v.SetDefault("security.rate_limit.enabled", false)
	v.SetDefault("security.rate_limit.requests_per_second", 5)
	v.SetDefault("security.rate_limit.burst", 10)
}
