package config

import (
	"github.com/spf13/viper"
)

type Config struct {
	ServerAddr string
	LogLevel   string
	LogJSON    bool

	PostgresDSN string

	AWSRegion    string
	S3Bucket     string
	ArchiveCodec string

	BloomBits   uint
	BloomHashes uint
}

func Load() (*Config, error) {
	viper.SetEnvPrefix("RKS")
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_ADDR", ":8080")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_JSON", false)
	viper.SetDefault("ARCHIVE_CODEC", "zstd")
	// 8 Mbit filter by default; roomy for documents in the tens of MB.
	viper.SetDefault("BLOOM_BITS", 1<<23)
	viper.SetDefault("BLOOM_HASHES", 4)

	cfg := &Config{
		ServerAddr: viper.GetString("SERVER_ADDR"),
		LogLevel:   viper.GetString("LOG_LEVEL"),
		LogJSON:    viper.GetBool("LOG_JSON"),

		PostgresDSN: viper.GetString("POSTGRES_DSN"),

		AWSRegion:    viper.GetString("AWS_REGION"),
		S3Bucket:     viper.GetString("S3_BUCKET"),
		ArchiveCodec: viper.GetString("ARCHIVE_CODEC"),

		BloomBits:   viper.GetUint("BLOOM_BITS"),
		BloomHashes: viper.GetUint("BLOOM_HASHES"),
	}
	return cfg, nil
}
