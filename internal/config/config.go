package config

import (
	"errors"
	"fmt"
	"github.com/ilyakaznacheev/cleanenv"
	"log"
	"os"
	"sync"
	"time"
)

type Config struct {
	Env    string `yaml:"env" env:"SMARTBUS_ENV" env-default:"local"`
	Listen struct {
		BindIP  string `yaml:"bind_ip" env:"BIND_IP" env-default:"0.0.0.0"`
		Port    string `yaml:"port" env:"PORT" env-default:"5000"`
		Timeout int    `yaml:"timeout" env:"REQUEST_TIMEOUT" env-default:"10"`
	} `yaml:"listen"`
	Mongo struct {
		Enabled  bool   `yaml:"enabled" env:"MONGO_ENABLED" env-default:"false"`
		URI      string `yaml:"uri" env:"MONGO_URI" env-default:""`
		Host     string `yaml:"host" env:"MONGO_HOST" env-default:"127.0.0.1"`
		Port     string `yaml:"port" env:"MONGO_PORT" env-default:"27017"`
		User     string `yaml:"user" env:"MONGO_USER" env-default:""`
		Password string `yaml:"password" env:"MONGO_PASSWORD" env-default:""`
		Database string `yaml:"database" env:"MONGO_DATABASE" env-default:"smartbus"`
	} `yaml:"mongo"`
	Jwt struct {
		Secret   string        `yaml:"secret" env:"JWT_SECRET" env-default:""`
		Issuer   string        `yaml:"issuer" env:"JWT_ISSUER" env-default:"smartbus"`
		AdminTTL time.Duration `yaml:"admin_ttl" env:"JWT_ADMIN_TTL" env-default:"30m"`
		// UserTTL of zero issues tokens without expiry for parents and drivers.
		UserTTL time.Duration `yaml:"user_ttl" env:"JWT_USER_TTL" env-default:"0s"`
	} `yaml:"jwt"`
	BcryptCost int `yaml:"bcrypt_cost" env:"BCRYPT_COST" env-default:"10"`
	Admin      struct {
		Username string `yaml:"username" env:"ADMIN_USERNAME" env-default:"admin"`
		Email    string `yaml:"email" env:"ADMIN_EMAIL" env-default:"admin@smartbus.local"`
		Password string `yaml:"password" env:"ADMIN_PASSWORD" env-default:""`
	} `yaml:"admin"`
	Uploads struct {
		Dir     string `yaml:"dir" env:"UPLOADS_DIR" env-default:"uploads"`
		MaxSize int64  `yaml:"max_size" env:"UPLOADS_MAX_SIZE" env-default:"5242880"`
	} `yaml:"uploads"`
	Telegram struct {
		ApiKey  string `yaml:"api_key" env:"TELEGRAM_API_KEY" env-default:""`
		BotName string `yaml:"bot_name" env-default:"SmartBusBot"`
		Enabled bool   `yaml:"enabled" env:"TELEGRAM_ENABLED" env-default:"false"`
	} `yaml:"telegram"`
}

var instance *Config
var once sync.Once

// Load reads the yaml file at path with environment overrides. A missing
// file is not an error: the configuration then comes from the environment.
func Load(path string) (*Config, error) {
	conf := &Config{}
	var err error
	if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
		err = cleanenv.ReadEnv(conf)
	} else {
		err = cleanenv.ReadConfig(path, conf)
	}
	if err != nil {
		desc, _ := cleanenv.GetDescription(conf, nil)
		return nil, fmt.Errorf("%s; %s", err, desc)
	}
	if conf.Jwt.Secret == "" {
		return nil, fmt.Errorf("jwt secret is not set (jwt.secret or JWT_SECRET)")
	}
	return conf, nil
}

func MustLoad(path string) *Config {
	once.Do(func() {
		conf, err := Load(path)
		if err != nil {
			log.Fatal(err)
		}
		instance = conf
	})
	return instance
}

// MongoURI prefers an explicit uri over host and port.
func (c *Config) MongoURI() string {
	if c.Mongo.URI != "" {
		return c.Mongo.URI
	}
	return fmt.Sprintf("mongodb://%s:%s", c.Mongo.Host, c.Mongo.Port)
}
