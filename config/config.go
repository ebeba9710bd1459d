package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	JWT      JWTConfig
	AI       AIConfig
	Dispatch DispatchConfig
}

type AppConfig struct {
	Port string
	Env  string
}

type DBConfig struct {
	Host          string
	Port          string
	User          string
	Password      string
	Name          string
	MigrationsDir string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// AIConfig points the triage integration at the classifier endpoint. An
// empty APIKey disables the live classifier entirely; the deterministic
// fallback then serves every triage call.
type AIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// DispatchConfig carries the dispatch-engine tunables.
type DispatchConfig struct {
	DefaultSOSRadiusKm  float64
	DefaultSearchKm     float64
	InvitationFanoutCap int
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	accessExpiry, err := time.ParseDuration(viper.GetString("JWT_ACCESS_EXPIRY"))
	if err != nil {
		accessExpiry = 15 * time.Minute
	}

	refreshExpiry, err := time.ParseDuration(viper.GetString("JWT_REFRESH_EXPIRY"))
	if err != nil {
		refreshExpiry = 7 * 24 * time.Hour
	}

	viper.SetDefault("AI_MODEL", "gpt-4o-mini")
	viper.SetDefault("DB_MIGRATIONS_DIR", "db/migrations")
	viper.SetDefault("SOS_DEFAULT_RADIUS_KM", 5.0)
	viper.SetDefault("SEARCH_DEFAULT_RADIUS_KM", 5.0)
	viper.SetDefault("SOS_INVITATION_FANOUT_CAP", 50)

	config := &Config{
		App: AppConfig{
			Port: viper.GetString("APP_PORT"),
			Env:  viper.GetString("APP_ENV"),
		},
		DB: DBConfig{
			Host:          viper.GetString("DB_HOST"),
			Port:          viper.GetString("DB_PORT"),
			User:          viper.GetString("DB_USER"),
			Password:      viper.GetString("DB_PASSWORD"),
			Name:          viper.GetString("DB_NAME"),
			MigrationsDir: viper.GetString("DB_MIGRATIONS_DIR"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:        viper.GetString("JWT_SECRET"),
			AccessExpiry:  accessExpiry,
			RefreshExpiry: refreshExpiry,
		},
		AI: AIConfig{
			APIKey:  viper.GetString("OPENAI_API_KEY"),
			Model:   viper.GetString("AI_MODEL"),
			BaseURL: viper.GetString("AI_BASE_URL"),
		},
		Dispatch: DispatchConfig{
			DefaultSOSRadiusKm:  viper.GetFloat64("SOS_DEFAULT_RADIUS_KM"),
			DefaultSearchKm:     viper.GetFloat64("SEARCH_DEFAULT_RADIUS_KM"),
			InvitationFanoutCap: viper.GetInt("SOS_INVITATION_FANOUT_CAP"),
		},
	}

	return config, nil
}
