package config

import (
	"errors"
	"fmt"
	"io/fs"
	"reflect"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Mongo_uri             string `mapstructure:"MONGO_URI"`
	Mongo_db              string `mapstructure:"MONGO_DB"`
	Jwt_secret            string `mapstructure:"JWT_SECRET"`
	Host                  string `mapstructure:"HOST"`
	Uploads_dir           string `mapstructure:"UPLOADS_DIR"`
	Object_store          string `mapstructure:"OBJECT_STORE"`
	Cloudinary_cloud      string `mapstructure:"CLOUDINARY_CLOUD"`
	Cloudinary_key        string `mapstructure:"CLOUDINARY_KEY"`
	Cloudinary_secret     string `mapstructure:"CLOUDINARY_SECRET"`
	S3_bucket             string `mapstructure:"S3_BUCKET"`
	S3_region             string `mapstructure:"S3_REGION"`
	Razorpay_key_id       string `mapstructure:"RAZORPAY_KEY_ID"`
	Razorpay_key_secret   string `mapstructure:"RAZORPAY_KEY_SECRET"`
	Rabbit_mq_conn        string `mapstructure:"RABBIT_MQ_CONN"`
	Cors_origins          string `mapstructure:"CORS_ORIGINS"`
	Captcha_required      bool   `mapstructure:"CAPTCHA_REQUIRED"`
	Login_rate_per_minute int    `mapstructure:"LOGIN_RATE_PER_MINUTE"`
}

var defaults = map[string]any{
	"MONGO_DB":              "bookstore",
	"HOST":                  "http://localhost:3000",
	"UPLOADS_DIR":           "uploads",
	"OBJECT_STORE":          "local",
	"S3_REGION":             "us-west-2",
	"CORS_ORIGINS":          "http://localhost:5173",
	"CAPTCHA_REQUIRED":      false,
	"LOGIN_RATE_PER_MINUTE": 10,
}

// Load reads path as an env file when it exists and lets process
// environment variables override it.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading env file: %v", err)
	}

	v := viper.New()
	v.AutomaticEnv()

	// Unmarshal only sees keys viper already knows about, so every field is
	// registered up front for AutomaticEnv to resolve.
	t := reflect.TypeOf(Config{})
	for i := 0; i < t.NumField(); i++ {
		key := t.Field(i).Tag.Get("mapstructure")
		if d, ok := defaults[key]; ok {
			v.SetDefault(key, d)
			continue
		}
		v.SetDefault(key, "")
	}

	var cfg Config

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %v", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	var missing []string

	if c.Mongo_uri == "" {
		missing = append(missing, "MONGO_URI")
	}

	if c.Jwt_secret == "" {
		missing = append(missing, "JWT_SECRET")
	}

	switch c.Object_store {
	case "local", "cloudinary", "s3":
	default:
		return fmt.Errorf("OBJECT_STORE can only be local, cloudinary or s3")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required config: %s", strings.Join(missing, ", "))
	}

	return nil
}

func (c *Config) CorsOrigins() []string {
	var origins []string

	for _, o := range strings.Split(c.Cors_origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	return origins
}
