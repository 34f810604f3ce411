// Package config loads binary configuration with Viper.
//
// A YAML file (config.yml) provides the base values, a .env file is loaded
// into the environment with godotenv, and OAUTH2HTTP_* environment variables
// override individual keys.
//
// # Usage
//
//	var cfg Config
//	err := config.LoadConfig("oauth2http", &cfg, config.WithConfigFile(path))
package config
