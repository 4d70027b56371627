package config

import (
	"time"

	"github.com/caarlos0/env/v9"
)

type Config struct {
	Port                   string        `env:"PORT" envDefault:"8080"`
	DBUser                 string        `env:"DB_USER,required"`
	DBPassword             string        `env:"DB_PASSWORD,required"`
	DBHost                 string        `env:"DB_HOST,required"` // e.g. tcp(host:3306) or unix(/cloudsql/instance)
	DBName                 string        `env:"DB_NAME,required"`
	DBPort                 string        `env:"DB_PORT" envDefault:"3306"`
	DBMaxOpenConns         int           `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
	DBMaxIdleConns         int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	DBConnMaxLifetime      time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"5m"`
	InstanceConnectionName string        `env:"INSTANCE_CONNECTION_NAME"`
	StorageBucket          string        `env:"STORAGE_BUCKET,required"`
	FirebaseProjectID      string        `env:"FIREBASE_PROJECT_ID,required"`
	// Country calling code prepended when normalizing phone numbers for
	// WhatsApp contact links. Defaults to Turkey.
	WhatsAppCountryCode string `env:"WHATSAPP_COUNTRY_CODE" envDefault:"90"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
