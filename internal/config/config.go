package config

import (
	"crypto"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/golang-jwt/jwt/v4"
)

const jwtSigningAlgorithmEd25519 = "EdDSA"

// Store drivers for the customer collection
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMongo    = "mongo"
)

// Notifier drivers for verification code delivery
const (
	NotifierDriverLog = "log"
	NotifierDriverSes = "ses"
)

type ServerCfg struct {
	Port  int  `env:"PORT" envDefault:"3000"`
	Https bool `env:"HTTPS" envDefault:"false"`
}

type PostgresCfg struct {
	User        string `env:"POSTGRES_USER"`
	Password    string `env:"POSTGRES_PASSWORD"`
	Host        string `env:"POSTGRES_HOST" envDefault:"localhost"`
	Database    string `env:"POSTGRES_DB"`
	SslMode     string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`
	Port        int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PoolMaxConn int    `env:"POSTGRES_POOL_MAX_CONN" envDefault:"100"`
}

type MongoCfg struct {
	User        string `env:"MONGO_USER" envDefault:""`
	Password    string `env:"MONGO_PASSWORD" envDefault:""`
	Host        string `env:"MONGO_HOST" envDefault:"localhost"`
	Port        int    `env:"MONGO_PORT" envDefault:"27017"`
	MaxPoolSize int    `env:"MONGO_MAX_POOL_SIZE" envDefault:"100"`
}

type RedisCfg struct {
	Host     string `env:"REDIS_HOST" envDefault:"localhost"`
	Port     int    `env:"REDIS_PORT" envDefault:"6379"`
	Password string `env:"REDIS_PASSWORD" envDefault:""`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

type JwtCfg struct {
	Issuer        string        `env:"AUTH_JWT_ISSUER" envDefault:"membership-api"`
	TimeToLive    time.Duration `env:"AUTH_JWT_TIME_TO_LIVE" envDefault:"10m"`
	SigningMethod jwt.SigningMethod
	PrivateKey    crypto.PrivateKey
	PublicKey     crypto.PublicKey
}

type RefreshTokenCfg struct {
	MaxCount   int           `env:"AUTH_REFRESH_TOKEN_MAX_COUNT" envDefault:"5"`
	TimeToLive time.Duration `env:"AUTH_REFRESH_TOKEN_TIME_TO_LIVE" envDefault:"720h"`
	CookieName string        `env:"AUTH_REFRESH_TOKEN_COOKIE" envDefault:"refresh-token"`
}

// OwnerCfg is the single owner identity. The password hash is bcrypt and
// comes from the environment, never from code.
type OwnerCfg struct {
	ID           string `env:"OWNER_ID" envDefault:"owner-001"`
	Email        string `env:"OWNER_EMAIL"`
	Name         string `env:"OWNER_NAME" envDefault:"Club Owner"`
	PasswordHash string `env:"OWNER_PASSWORD_HASH"`
}

// VerificationCodeCfg controls the passwordless login codes. Expose makes
// the send-code endpoint echo the code back in the response, which is only
// acceptable for local demos.
type VerificationCodeCfg struct {
	TimeToLive time.Duration `env:"AUTH_CODE_TIME_TO_LIVE" envDefault:"5m"`
	Expose     bool          `env:"AUTH_CODE_DEBUG_EXPOSE" envDefault:"false"`
}

type SesCfg struct {
	Region      string `env:"SES_AWS_REGION" envDefault:""`
	AccessKey   string `env:"SES_AWS_ACCESS_KEY_ID" envDefault:""`
	SecretKey   string `env:"SES_AWS_SECRET_ACCESS_KEY" envDefault:""`
	SenderEmail string `env:"SES_SENDER_EMAIL" envDefault:""`
}

type AuthCfg struct {
	JwtCfg          JwtCfg
	RefreshTokenCfg RefreshTokenCfg
	OwnerCfg        OwnerCfg
	CodeCfg         VerificationCodeCfg
}

type Config struct {
	StoreDriver    string `env:"STORE_DRIVER" envDefault:"postgres"`
	NotifierDriver string `env:"NOTIFIER_DRIVER" envDefault:"log"`
	ServerCfg      ServerCfg
	PostgresCfg    PostgresCfg
	MongoCfg       MongoCfg
	RedisCfg       RedisCfg
	SesCfg         SesCfg
	AuthCfg        AuthCfg
}

// Build parses environment into Config and loads the jwt keypair
func Build() (Config, error) {
	var cfg Config
	opts := env.Options{RequiredIfNoDef: true}

	if err := env.Parse(&cfg, opts); err != nil {
		return cfg, fmt.Errorf("failed to parse environment variables - %w", err)
	}

	cfg.AuthCfg.JwtCfg.SigningMethod = jwt.GetSigningMethod(jwtSigningAlgorithmEd25519)

	privateKey, err := readEdPrivateKey(os.Getenv("AUTH_JWT_PRIVATE_KEY_FILE"))
	if err != nil {
		return cfg, err
	}
	cfg.AuthCfg.JwtCfg.PrivateKey = privateKey

	publicKey, err := readEdPublicKey(os.Getenv("AUTH_JWT_PUBLIC_KEY_FILE"))
	if err != nil {
		return cfg, err
	}
	cfg.AuthCfg.JwtCfg.PublicKey = publicKey

	return cfg, nil
}

func readEdPrivateKey(file string) (crypto.PrivateKey, error) {
	keyBytes, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read private key file for jwt - %w", err)
	}

	key, err := jwt.ParseEdPrivateKeyFromPEM(keyBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key for jwt - %w", err)
	}
	return key, nil
}

func readEdPublicKey(file string) (crypto.PublicKey, error) {
	keyBytes, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read public key file for jwt - %w", err)
	}

	key, err := jwt.ParseEdPublicKeyFromPEM(keyBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key for jwt - %w", err)
	}
	return key, nil
}
