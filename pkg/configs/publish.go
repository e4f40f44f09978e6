package configs

import "github.com/spf13/viper"

// PublishConfig 发布配置
type PublishConfig struct {
	S3 S3Config `mapstructure:"s3"`
}

// S3Config S3 兼容对象存储
type S3Config struct {
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	// Prefix 对象键前缀模板，支持 {{name}} {{version}}
	Prefix string `mapstructure:"prefix"`
	Public bool   `mapstructure:"public"`
}

// Configured 是否配置了可用的 S3 目标
func (c S3Config) Configured() bool {
	return c.Endpoint != "" && c.Bucket != ""
}

func setPublishConfigDefaults() {
	viper.SetDefault("publish.s3.endpoint", "")
	viper.SetDefault("publish.s3.region", "")
	viper.SetDefault("publish.s3.bucket", "")
	viper.SetDefault("publish.s3.access_key", "")
	viper.SetDefault("publish.s3.secret_key", "")
	viper.SetDefault("publish.s3.use_ssl", true)
	viper.SetDefault("publish.s3.prefix", "{{name}}/{{version}}")
	viper.SetDefault("publish.s3.public", false)
}
