package config

import (
	"flag"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env       string          `yaml:"env" env-default:"local"`
	DSN       string          `yaml:"dsn" env-required:"true"`
	JWTSecret string          `yaml:"jwt_secret" env:"JWT_SECRET" env-required:"true"`
	HTTP      HTTPConfig      `yaml:"http"`
	Redis     RedisConf       `yaml:"redis"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

type HTTPConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port" env-default:"8080"`
}

type RedisConf struct {
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
}

type RateLimitConfig struct {
	Requests int           `yaml:"requests" env-default:"20"`
	Window   time.Duration `yaml:"window" env-default:"1m"`
}

// IsProd gates cookie security attributes (Secure, SameSite=Strict).
func (c *Config) IsProd() bool {
	return c.Env == "prod"
}

func MustLoad() *Config {
	path := fetchConfigPath()
	if path == "" {
		panic("config path is empty")
	}

	return MustLoadPath(path)
}

func MustLoadPath(configPath string) *Config {
	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		panic("cannot read config: " + err.Error())
	}

	return &cfg
}

func fetchConfigPath() string {
	var res string

	// --config="path/to/config.yaml"
	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	return res
}
