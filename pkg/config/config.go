package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	Admin        AdminConfig
	Cart         CartConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if !cfg.FeatureFlags.UseSQLite {
		if err := cfg.DB.ensureDSN(); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"LUKOUHUB_APP_ENV" required:"true"`
	Port         string `envconfig:"LUKOUHUB_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"LUKOUHUB_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"LUKOUHUB_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"LUKOUHUB_DB_DSN"`
	Driver string `envconfig:"LUKOUHUB_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"LUKOUHUB_DB_HOST"`
	Port     int    `envconfig:"LUKOUHUB_DB_PORT" default:"5432"`
	User     string `envconfig:"LUKOUHUB_DB_USER"`
	Password string `envconfig:"LUKOUHUB_DB_PASSWORD"`
	Name     string `envconfig:"LUKOUHUB_DB_NAME"`
	SSLMode  string `envconfig:"LUKOUHUB_DB_SSLMODE" default:"disable"`

	SQLitePath string `envconfig:"LUKOUHUB_DB_SQLITE_PATH" default:"lukouhub.db"`

	MaxOpenConns    int           `envconfig:"LUKOUHUB_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"LUKOUHUB_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"LUKOUHUB_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"LUKOUHUB_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"LUKOUHUB_REDIS_URL"`
	Address      string        `envconfig:"LUKOUHUB_REDIS_ADDR"`
	Password     string        `envconfig:"LUKOUHUB_REDIS_PASSWORD"`
	DB           int           `envconfig:"LUKOUHUB_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"LUKOUHUB_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"LUKOUHUB_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"LUKOUHUB_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"LUKOUHUB_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"LUKOUHUB_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"LUKOUHUB_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"LUKOUHUB_JWT_ISSUER" default:"lukouhub"`
	ExpirationMinutes int    `envconfig:"LUKOUHUB_JWT_EXPIRATION_MINUTES" default:"480"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"LUKOUHUB_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"LUKOUHUB_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"LUKOUHUB_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"LUKOUHUB_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"LUKOUHUB_ARGON_KEY_LEN" default:"32"`
}

// AdminConfig seeds the initial back-office account. The password is only
// consumed on first boot; once the row exists it is never overwritten.
type AdminConfig struct {
	BootstrapUsername string `envconfig:"LUKOUHUB_ADMIN_BOOTSTRAP_USERNAME" default:"admin"`
	BootstrapPassword string `envconfig:"LUKOUHUB_ADMIN_BOOTSTRAP_PASSWORD"`
}

type CartConfig struct {
	// SessionTTL bounds how long an untouched cart survives in redis.
	SessionTTL time.Duration `envconfig:"LUKOUHUB_CART_SESSION_TTL" default:"168h"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"LUKOUHUB_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"LUKOUHUB_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	discreteValues := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range discreteDBEnvVars {
		if discreteValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
