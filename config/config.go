package config

import (
	"log"

	"github.com/spf13/viper"
)

var config *viper.Viper

// Init loads config/default.yaml and merges the environment-specific file on
// top of it. Environment names map onto the chain profile they run against.
func Init(env string) {
	config = viper.New()
	config.SetConfigType("yaml")
	config.SetConfigName("default")
	config.AddConfigPath("config/")
	if err := config.ReadInConfig(); err != nil {
		log.Fatal("error on parsing default configuration file")
	}

	configName := env
	switch env {
	case "development":
		configName = "devnet"
	case "production":
		configName = "mainnet"
	// Other environments (e.g. "test") name their file directly.
	}

	envConfig := viper.New()
	envConfig.SetConfigType("yaml")
	envConfig.AddConfigPath("config/")
	envConfig.SetConfigName(configName)
	if err := envConfig.ReadInConfig(); err != nil {
		log.Fatalf("error on parsing %s configuration file: %v", configName, err)
	}

	config.MergeConfigMap(envConfig.AllSettings())
}

func GetConfig() *viper.Viper {
	return config
}
