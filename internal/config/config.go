package config

import (
	"context"
	"fmt"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
)

// Config 聚合整个服务的配置项。
type Config struct {
	Server  ServerConfig
	AI      AIConfig
	Session SessionConfig
	Profile ProfileConfig
}

// Load 从环境变量加载配置。
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	session, err := loadSessionConfig(server)
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:  server,
		AI:      ai,
		Session: session,
		Profile: ProfileConfig{Path: strings.TrimSpace(os.Getenv("PROFILE_PATH"))},
	}, nil
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Addr           string
	AllowedOrigins []string
	Environment    string
	AppName        string
	AppVersion     string
	LogLevel       string
	ChatRateLimit  int
	// TrustedProxies 是允许改写访客地址的对端，默认只有本机回环
	TrustedProxies []netip.Prefix
}

// Development reports whether the server runs in a developer environment.
func (c ServerConfig) Development() bool {
	return strings.EqualFold(c.Environment, "development")
}

// loadServerConfig 解析服务器监听地址及其它 HTTP 相关设置。
func loadServerConfig() (ServerConfig, error) {
	addr, err := parseAddr(os.Getenv("PORT"))
	if err != nil {
		return ServerConfig{}, err
	}

	rateLimit := 20
	if override, err := parseOptionalIntEnv("CHAT_RATE_LIMIT"); err != nil {
		return ServerConfig{}, err
	} else if override != nil {
		if *override < 1 {
			return ServerConfig{}, fmt.Errorf("invalid CHAT_RATE_LIMIT value %q: must be positive", strconv.Itoa(*override))
		}
		rateLimit = *override
	}

	trusted, err := parsePrefixListEnv("TRUSTED_PROXIES", []string{"127.0.0.0/8", "::1/128"})
	if err != nil {
		return ServerConfig{}, err
	}

	return ServerConfig{
		Addr:           addr,
		AllowedOrigins: parseListEnv("ALLOWED_ORIGINS", []string{"http://localhost:8080", "http://localhost:5173"}),
		Environment:    getEnvOrDefault("ENVIRONMENT", "development"),
		AppName:        getEnvOrDefault("APP_NAME", "ai-resume-chat"),
		AppVersion:     getEnvOrDefault("APP_VERSION", "0.1.0"),
		LogLevel:       getEnvOrDefault("LOG_LEVEL", "info"),
		ChatRateLimit:  rateLimit,
		TrustedProxies: trusted,
	}, nil
}

func parseAddr(raw string) (string, error) {
	port := strings.TrimSpace(raw)
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// 允许用户直接传入 ":8080" 或 "127.0.0.1:8080"。
		return port, nil
	}

	if strings.Contains(port, " ") {
		return "", fmt.Errorf("invalid PORT value: %q", port)
	}

	return ":" + port, nil
}

// AIConfig 描述大模型相关配置。
type AIConfig struct {
	APIKey      string
	AccessKey   string
	SecretKey   string
	Model       string
	BaseURL     string
	Region      string
	Temperature *float64
	TopP        *float64
	MaxTokens   *int
}

// Enabled 表示是否提供了必需的密钥。
func (c AIConfig) Enabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// NewChatModel 使用配置创建一个模型实例。
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("Ark 凭证或模型配置缺失，至少提供 ARK_API_KEY + Model 或 AK/SK 组合")
	}

	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
	}

	var topP *float32
	if c.TopP != nil {
		val := float32(*c.TopP)
		topP = &val
	}

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		Model:       c.Model,
		MaxTokens:   c.MaxTokens,
		Temperature: temperature,
		TopP:        topP,
	}

	return ark.NewChatModel(ctx, cfg)
}

func loadAIConfig() (AIConfig, error) {
	temperature, err := parseOptionalFloatEnv("ARK_TEMPERATURE")
	if err != nil {
		return AIConfig{}, err
	}

	topP, err := parseOptionalFloatEnv("ARK_TOP_P")
	if err != nil {
		return AIConfig{}, err
	}

	maxTokens, err := parseOptionalIntEnv("ARK_MAX_TOKENS")
	if err != nil {
		return AIConfig{}, err
	}
	if maxTokens == nil {
		// 与回答长度上限保持一致
		defaultMax := 1024
		maxTokens = &defaultMax
	}

	return AIConfig{
		APIKey:      strings.TrimSpace(os.Getenv("ARK_API_KEY")),
		AccessKey:   strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
		SecretKey:   strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
		Model:       strings.TrimSpace(os.Getenv("Model")),
		BaseURL:     getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		Region:      getEnvOrDefault("ARK_REGION", "cn-beijing"),
		Temperature: temperature,
		TopP:        topP,
		MaxTokens:   maxTokens,
	}, nil
}

// SessionConfig 描述会话控制器的节奏与超时。
type SessionConfig struct {
	AnswerServiceURL string
	RevealInterval   time.Duration
	ResponseTimeout  time.Duration
}

func loadSessionConfig(server ServerConfig) (SessionConfig, error) {
	reveal := 8 * time.Millisecond
	if ms, err := parseOptionalIntEnv("SESSION_REVEAL_INTERVAL_MS"); err != nil {
		return SessionConfig{}, err
	} else if ms != nil {
		if *ms < 0 {
			return SessionConfig{}, fmt.Errorf("invalid SESSION_REVEAL_INTERVAL_MS value %q: must not be negative", strconv.Itoa(*ms))
		}
		reveal = time.Duration(*ms) * time.Millisecond
	}

	timeout := 30 * time.Second
	if secs, err := parseOptionalIntEnv("SESSION_RESPONSE_TIMEOUT_SECONDS"); err != nil {
		return SessionConfig{}, err
	} else if secs != nil {
		// 0 关闭超时
		timeout = time.Duration(*secs) * time.Second
	}

	return SessionConfig{
		AnswerServiceURL: getEnvOrDefault("ANSWER_SERVICE_URL", localURL(server.Addr)),
		RevealInterval:   reveal,
		ResponseTimeout:  timeout,
	}, nil
}

// localURL points at this server's own listener.
func localURL(addr string) string {
	host, port, found := strings.Cut(addr, ":")
	if !found {
		return "http://127.0.0.1:" + addr
	}
	if host == "" || host == "0.0.0.0" {
		host = "127.0.0.1"
	}
	return "http://" + host + ":" + port
}

// ProfileConfig 指向可选的候选人档案 YAML 文件，为空时使用内置档案。
type ProfileConfig struct {
	Path string
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseListEnv(key string, defaultValue []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}

	var items []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}

// parsePrefixListEnv 接受 CIDR 或单个地址，单个地址按全长掩码处理。
func parsePrefixListEnv(key string, defaultValue []string) ([]netip.Prefix, error) {
	items := parseListEnv(key, defaultValue)
	prefixes := make([]netip.Prefix, 0, len(items))
	for _, item := range items {
		if prefix, err := netip.ParsePrefix(item); err == nil {
			prefixes = append(prefixes, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(item)
		if err != nil {
			return nil, fmt.Errorf("invalid %s value %q: %w", key, item, err)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
