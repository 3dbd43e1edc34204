package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type HTTPServerConfig struct {
	Port            string        `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env-default:"5s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env-default:"60s"`
	TimeoutGraceful time.Duration `yaml:"timeout_graceful_shutdown" env-default:"15s"`
}

type MongoDBConfig struct {
	URI      string `yaml:"uri" env:"MONGO_URI" env-default:"mongodb://localhost:27017"`
	User     string `yaml:"user" env:"MONGO_USER"`
	Password string `yaml:"password" env:"MONGO_PASSWORD"`
	Database string `yaml:"database" env:"MONGO_DATABASE" env-default:"bougtob_store"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

type NATSConfig struct {
	// Empty URL disables event publishing.
	URL string `yaml:"url" env:"NATS_URL"`
}

// StorageConfig points at the image bucket. An empty endpoint disables
// uploads; submissions then keep the inline image representation.
type StorageConfig struct {
	Endpoint  string `yaml:"endpoint" env:"MINIO_ENDPOINT"`
	AccessKey string `yaml:"access_key" env:"MINIO_ACCESS_KEY"`
	SecretKey string `yaml:"secret_key" env:"MINIO_SECRET_KEY"`
	Bucket    string `yaml:"bucket" env:"MINIO_BUCKET" env-default:"product-images"`
	UseSSL    bool   `yaml:"use_ssl" env:"MINIO_USE_SSL" env-default:"false"`
}

type ModerationConfig struct {
	ImageEndpoint  string        `yaml:"image_endpoint" env:"MODERATION_IMAGE_ENDPOINT" env-default:"https://api-inference.huggingface.co/models/Falconsai/nsfw_image_detection"`
	TextEndpoint   string        `yaml:"text_endpoint" env:"MODERATION_TEXT_ENDPOINT" env-default:"https://api-inference.huggingface.co/models/facebook/bart-large-mnli"`
	APIToken       string        `yaml:"api_token" env:"MODERATION_API_TOKEN"`
	ImageThreshold float64       `yaml:"image_threshold" env:"MODERATION_IMAGE_THRESHOLD" env-default:"0.6"`
	TextThreshold  float64       `yaml:"text_threshold" env:"MODERATION_TEXT_THRESHOLD" env-default:"0.5"`
	CheckTimeout   time.Duration `yaml:"check_timeout" env:"MODERATION_CHECK_TIMEOUT" env-default:"8s"`
	MaxImageEdge   int           `yaml:"max_image_edge" env:"MODERATION_MAX_IMAGE_EDGE" env-default:"512"`
	JPEGQuality    int           `yaml:"jpeg_quality" env:"MODERATION_JPEG_QUALITY" env-default:"50"`
}

type ListingsConfig struct {
	CacheTTL time.Duration `yaml:"cache_ttl" env:"LISTINGS_CACHE_TTL" env-default:"30s"`
}

type LoggerConfig struct {
	Level      string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Encoding   string `yaml:"encoding" env:"LOG_ENCODING" env-default:"json"`
	TimeFormat string `yaml:"time_format" env:"LOG_TIME_FORMAT" env-default:"2006-01-02T15:04:05.000Z07:00"`
}

type MetricsConfig struct {
	Port string `yaml:"port" env:"METRICS_PORT"`
}

type Config struct {
	Env        string           `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer HTTPServerConfig `yaml:"http_server"`
	MongoDB    MongoDBConfig    `yaml:"mongo"`
	Redis      RedisConfig      `yaml:"redis"`
	NATS       NATSConfig       `yaml:"nats"`
	Storage    StorageConfig    `yaml:"storage"`
	Moderation ModerationConfig `yaml:"moderation"`
	Listings   ListingsConfig   `yaml:"listings"`
	Logger     LoggerConfig     `yaml:"logger"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, err
		}
		return &cfg, nil
	}

	err := cleanenv.ReadConfig(path, &cfg)
	if err != nil {
		if _, ok := err.(*os.PathError); ok {
			log.Printf("Warning: Config file not found at %s, attempting to load from environment variables only.", path)
			if errEnv := cleanenv.ReadEnv(&cfg); errEnv != nil {
				return nil, errEnv
			}
			return &cfg, nil
		}
		return nil, err
	}
	return &cfg, nil
}

func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := LoadConfig(configPath)
	if err != nil {
		log.Fatalf("cannot load config: %v", err)
	}
	return cfg
}
