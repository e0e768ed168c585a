/*
 * Copyright © 2025 ABC Retailors, All rights reserved.
 */

package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/abcretailors/retailstore/errors"
)

// EnvPrefix prefixes every environment variable read by Load, e.g.
// RETAILSTORE_ENTITY_BACKEND for entity.backend.
const EnvPrefix = "RETAILSTORE"

// Backend names.
const (
	EntityBackendDynamoDB  = "dynamodb"
	EntityBackendCassandra = "cassandra"
	QueueBackendSQS        = "sqs"
	QueueBackendRedis      = "redis"
)

// Config holds the settings of every storage backend.
type Config struct {
	Entity   EntityConfig `mapstructure:"entity"`
	Queue    QueueConfig  `mapstructure:"queue"`
	AWS      AWSConfig    `mapstructure:"aws"`
	Log      LogConfig    `mapstructure:"log"`
	Manifest string       `mapstructure:"manifest"`
}

// EntityConfig selects and configures the entity store backend.
type EntityConfig struct {
	Backend   string          `mapstructure:"backend"`
	Cassandra CassandraConfig `mapstructure:"cassandra"`
}

type CassandraConfig struct {
	Hosts    []string `mapstructure:"hosts"`
	Keyspace string   `mapstructure:"keyspace"`
}

// QueueConfig selects and configures the queue transport.
type QueueConfig struct {
	Backend         string      `mapstructure:"backend"`
	WaitTimeSeconds int32       `mapstructure:"wait_time_seconds"`
	Redis           RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// AWSConfig configures the AWS clients. Empty credentials fall back to the
// default credential chain.
type AWSConfig struct {
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	SessionToken    string `mapstructure:"session_token"`
	Endpoint        string `mapstructure:"endpoint"`
	PublicBaseURL   string `mapstructure:"public_base_url"`
	UsePathStyle    bool   `mapstructure:"use_path_style"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// setDefaults lists every key, since viper only reads environment overrides
// for keys it knows.
func setDefaults(v *viper.Viper) {
	v.SetDefault("entity.backend", EntityBackendDynamoDB)
	v.SetDefault("entity.cassandra.hosts", []string{"127.0.0.1"})
	v.SetDefault("entity.cassandra.keyspace", "retailstore")
	v.SetDefault("queue.backend", QueueBackendSQS)
	v.SetDefault("queue.wait_time_seconds", 0)
	v.SetDefault("queue.redis.addr", "127.0.0.1:6379")
	v.SetDefault("queue.redis.password", "")
	v.SetDefault("queue.redis.db", 0)
	v.SetDefault("queue.redis.prefix", "retailstore")
	v.SetDefault("aws.region", "us-east-1")
	v.SetDefault("aws.access_key_id", "")
	v.SetDefault("aws.secret_access_key", "")
	v.SetDefault("aws.session_token", "")
	v.SetDefault("aws.endpoint", "")
	v.SetDefault("aws.public_base_url", "")
	v.SetDefault("aws.use_path_style", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("manifest", "")
}

// Load reads configuration from, in increasing precedence: defaults, the
// config file at path (or retailstore.yaml in the working directory when path
// is empty), a .env file, and RETAILSTORE_* environment variables.
func Load(path string) (*Config, error) {
	// A missing .env file is normal outside development.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("retailstore")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks backend names and the settings each selected backend needs.
func (c *Config) Validate() error {
	switch c.Entity.Backend {
	case EntityBackendDynamoDB:
	case EntityBackendCassandra:
		if len(c.Entity.Cassandra.Hosts) == 0 {
			return errors.NewValidationError("entity.cassandra.hosts", "at least one host is required")
		}
		if c.Entity.Cassandra.Keyspace == "" {
			return errors.NewValidationError("entity.cassandra.keyspace", "must not be empty")
		}
	default:
		return errors.NewValidationError("entity.backend", fmt.Sprintf("unknown backend %q", c.Entity.Backend))
	}

	switch c.Queue.Backend {
	case QueueBackendSQS:
		if c.Queue.WaitTimeSeconds < 0 || c.Queue.WaitTimeSeconds > 20 {
			return errors.NewValidationError("queue.wait_time_seconds", "must be between 0 and 20")
		}
	case QueueBackendRedis:
		if c.Queue.Redis.Addr == "" {
			return errors.NewValidationError("queue.redis.addr", "must not be empty")
		}
	default:
		return errors.NewValidationError("queue.backend", fmt.Sprintf("unknown backend %q", c.Queue.Backend))
	}

	if c.AWS.Region == "" {
		return errors.NewValidationError("aws.region", "must not be empty")
	}
	if (c.AWS.AccessKeyID == "") != (c.AWS.SecretAccessKey == "") {
		return errors.NewValidationError("aws.access_key_id", "access key id and secret access key must be set together")
	}

	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return errors.NewValidationError("log.format", fmt.Sprintf("unknown format %q", c.Log.Format))
	}
	return nil
}
