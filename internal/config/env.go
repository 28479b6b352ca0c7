package config

import "os"

// parseEnv overlays Config fields from environment variables. Variables
// that are unset or empty leave the current value untouched. cmd/migrate
// loads a .env file (godotenv) before this runs.
func parseEnv(config *Config) {
	overlay := func(dst *string, name string) {
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}

	overlay(&config.DatabaseDSN, "DATABASE_DSN")
	overlay(&config.SecretKey, "SECRET_KEY")
	overlay(&config.S3RootUser, "S3_ROOT_USER")
	overlay(&config.S3RootPassword, "S3_ROOT_PASSWORD")
	overlay(&config.S3Bucket, "S3_BUCKET")
	overlay(&config.S3Region, "S3_REGION")
	overlay(&config.S3BaseEndpoint, "S3_BASE_ENDPOINT")
}
