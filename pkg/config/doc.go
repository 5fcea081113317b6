// Package config loads configuration structs from environment variables
// using caarlos0/env field tags, with optional .env file support through
// godotenv. Every package in this module that exposes tunables declares its
// own Config struct and is loaded through config.Load or config.MustLoad at
// wire-up time.
package config
