package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Service      ServiceConfig      `mapstructure:"service"`
	Databases    DatabasesConfig    `mapstructure:"databases"`
	Auth         AuthConfig         `mapstructure:"auth"`
	Transactions TransactionsConfig `mapstructure:"transactions"`
	Logging      LoggingConfig      `mapstructure:"logging"`
	AWS          AWSConfig          `mapstructure:"aws"`
}

type StoreType string

const (
	PGX   StoreType = "pgx"
	GORM  StoreType = "gorm"
	MONGO StoreType = "mongo"
)

type ServiceConfig struct {
	Port           string        `mapstructure:"port"`
	Store          StoreType     `mapstructure:"store"`
	RequestTimeout time.Duration `mapstructure:"requestTimeout"`
	AllowedOrigins []string      `mapstructure:"allowedOrigins"`
}

type DatabasesConfig struct {
	SQL   SQLConfig   `mapstructure:"sql"`
	Mongo MongoConfig `mapstructure:"mongo"`
	Redis RedisConfig `mapstructure:"redis"`
}

type SQLConfig struct {
	Host             string `mapstructure:"host"`
	Port             string `mapstructure:"port"`
	Username         string `mapstructure:"username"`
	Password         string `mapstructure:"password"`
	PasswordSecretID string `mapstructure:"passwordSecretId"`
	Driver           string `mapstructure:"driver"`
	Database         string `mapstructure:"database"`
	ConnectionString string `mapstructure:"connection_string"`
	MaxConns         int32  `mapstructure:"maxConns"`
	ConnectRetries   uint64 `mapstructure:"connectRetries"`
}

type MongoConfig struct {
	URI        string `mapstructure:"uri"`
	Database   string `mapstructure:"database"`
	Collection string `mapstructure:"collection"`
}

type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Host     string        `mapstructure:"host"`
	Port     string        `mapstructure:"port"`
	Username string        `mapstructure:"username"`
	Password string        `mapstructure:"password"`
	Database int           `mapstructure:"database"`
	TLS      bool          `mapstructure:"tls"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type AuthConfig struct {
	JWTSecret string `mapstructure:"jwtSecret"`
	LoginPath string `mapstructure:"loginPath"`
}

// MissingRecordPolicy decides what soft and hard deletes do when nothing matches.
type MissingRecordPolicy string

const (
	MissingRecordIgnore MissingRecordPolicy = "ignore"
	MissingRecordError  MissingRecordPolicy = "error"
)

// UpdateScope decides whether the update endpoint filters by owner.
type UpdateScope string

const (
	UpdateScopeUnscoped UpdateScope = "unscoped"
	UpdateScopeOwner    UpdateScope = "owner"
)

type TransactionsConfig struct {
	MissingRecord MissingRecordPolicy `mapstructure:"missingRecord"`
	UpdateScope   UpdateScope         `mapstructure:"updateScope"`
}

type LoggingConfig struct {
	Level    string `mapstructure:"level"`
	ToFile   bool   `mapstructure:"toFile"`
	FilePath string `mapstructure:"filePath"`
}

type AWSConfig struct {
	Region   string `mapstructure:"region"`
	Endpoint string `mapstructure:"endpoint"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("service.port", "8000")
	v.SetDefault("service.store", string(GORM))
	v.SetDefault("service.requestTimeout", 10*time.Second)
	v.SetDefault("databases.sql.driver", "sqlite")
	v.SetDefault("databases.sql.database", "tracker.db")
	v.SetDefault("databases.sql.maxConns", 5)
	v.SetDefault("databases.sql.connectRetries", 5)
	v.SetDefault("databases.mongo.database", "tracker")
	v.SetDefault("databases.mongo.collection", "transactionitems")
	v.SetDefault("databases.redis.ttl", 5*time.Minute)
	v.SetDefault("auth.loginPath", "/login")
	v.SetDefault("transactions.missingRecord", string(MissingRecordIgnore))
	v.SetDefault("transactions.updateScope", string(UpdateScopeUnscoped))
	v.SetDefault("logging.level", "info")
}

// LoadConfig reads appsettings.yaml from path and, when env is not empty,
// merges appsettings.<env>.yaml on top. TRACKER_* environment variables win.
func LoadConfig(path string, env string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AddConfigPath(path)
	v.SetConfigName("appsettings")
	v.SetConfigType("yaml")
	v.SetEnvPrefix("TRACKER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	if env != "" {
		v.SetConfigName("appsettings." + env)
		if err := v.MergeInConfig(); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Service.Store {
	case PGX, GORM, MONGO:
	default:
		return errors.New("service.store must be one of pgx, gorm, mongo")
	}
	switch c.Transactions.MissingRecord {
	case MissingRecordIgnore, MissingRecordError:
	default:
		return errors.New("transactions.missingRecord must be ignore or error")
	}
	switch c.Transactions.UpdateScope {
	case UpdateScopeUnscoped, UpdateScopeOwner:
	default:
		return errors.New("transactions.updateScope must be unscoped or owner")
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("auth.jwtSecret is required")
	}
	return nil
}
