package types

type Config struct {
	Environment      string `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel         string `envconfig:"LOG_LEVEL" default:"info"`
	ServerPort       uint   `envconfig:"SERVER_PORT" default:"8080"`
	DatabaseURL      string `envconfig:"DATABASE_URL"`
	ReadTimeoutSec   uint   `envconfig:"READ_TIMEOUT_SEC" default:"10"`
	WriteTimeoutSec  uint   `envconfig:"WRITE_TIMEOUT_SEC" default:"15"`
	DatabaseMaxConns int32  `envconfig:"DATABASE_MAX_CONNS" default:"10"` // 0 keeps the pgxpool default

	// Token verification. Tokens are issued elsewhere; only the JWKS is consumed here.
	CognitoIssuerURL string `envconfig:"COGNITO_ISSUER_URL"`

	// Cookie encryption keys (base64 encoded)
	// openssl rand -base64 32
	// to generate values
	CookieHashKey  string `envconfig:"COOKIE_HASH_KEY"`  // 32 or 64 bytes
	CookieBlockKey string `envconfig:"COOKIE_BLOCK_KEY"` // 16, 24, or 32 bytes

	// Reward tier images
	TierImageBucket  string `envconfig:"TIER_IMAGE_BUCKET"`
	TierImageBaseURL string `envconfig:"TIER_IMAGE_BASE_URL"`
	MaxImageBytes    int64  `envconfig:"MAX_IMAGE_BYTES" default:"5242880"`
}
