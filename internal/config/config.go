package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Upstream UpstreamConfig `mapstructure:"upstream"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug or release
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// UpstreamConfig 指向 115 官方接口，一般不需要改，留出来方便测试时替换
type UpstreamConfig struct {
	QRCodeAPI   string `mapstructure:"qrcode_api"`
	PassportAPI string `mapstructure:"passport_api"`
	LixianAPI   string `mapstructure:"lixian_api"`
	TimeoutSec  int    `mapstructure:"timeout_sec"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

var AppConfig *Config

func LoadConfig(configPath string) error {
	v := viper.New()

	// 默认值
	v.SetDefault("server.port", 8115)
	v.SetDefault("server.mode", "release")
	v.SetDefault("database.path", "data/pan115.db")
	v.SetDefault("upstream.qrcode_api", "https://qrcodeapi.115.com")
	v.SetDefault("upstream.passport_api", "https://passportapi.115.com")
	v.SetDefault("upstream.lixian_api", "https://115.com")
	v.SetDefault("upstream.timeout_sec", 15)
	v.SetDefault("log.level", "info")

	// 配置文件路径
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if configPath != "" {
		v.AddConfigPath(configPath)
	}

	// 环境变量替换 (使用 PAN115_ 前缀)
	// 比如 PAN115_SERVER_PORT=9090
	v.SetEnvPrefix("PAN115")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is okay, use defaults
		fmt.Println("Config file not found, using defaults")
	}

	AppConfig = &Config{}
	if err := v.Unmarshal(AppConfig); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return nil
}
