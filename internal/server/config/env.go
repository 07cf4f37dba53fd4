package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config fields from environment variables. A local .env
// file, if present, is loaded first; real environment variables win over it.
//
// Recognized variables:
//
//	ADDRESS              HTTP bind address
//	DATABASE_DSN         PostgreSQL DSN
//	SECRET_KEY           JWT HMAC secret
//	ACCESS_TOKEN_TTL     token lifetime, e.g. "30m"
//	EXAMS_FILE           local exams CSV path
//	PAGE_SIZE            questions per page
//	S3_ENABLED           "true" to load the CSV from S3
//	S3_ROOT_USER / S3_ROOT_PASSWORD / S3_BUCKET / S3_REGION /
//	S3_BASE_ENDPOINT / S3_OBJECT_KEY
//	CORS_ALLOWED_ORIGINS comma-separated origin list
func parseEnv(config *Config) {
	_ = godotenv.Load(".env")

	if v := os.Getenv("ADDRESS"); v != "" {
		config.EndpointAddrHTTP = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		config.DatabaseDSN = v
	}
	if v := os.Getenv("SECRET_KEY"); v != "" {
		config.SecretKey = v
	}
	if v := os.Getenv("ACCESS_TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.AccessTokenValidityDuration = d
		}
	}
	if v := os.Getenv("EXAMS_FILE"); v != "" {
		config.ExamsFile = v
	}
	if v := os.Getenv("PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.PageSize = n
		}
	}
	if v := os.Getenv("S3_ENABLED"); v != "" {
		config.S3Enabled = v == "true" || v == "1"
	}
	if v := os.Getenv("S3_ROOT_USER"); v != "" {
		config.S3RootUser = v
	}
	if v := os.Getenv("S3_ROOT_PASSWORD"); v != "" {
		config.S3RootPassword = v
	}
	if v := os.Getenv("S3_BUCKET"); v != "" {
		config.S3Bucket = v
	}
	if v := os.Getenv("S3_REGION"); v != "" {
		config.S3Region = v
	}
	if v := os.Getenv("S3_BASE_ENDPOINT"); v != "" {
		config.S3BaseEndpoint = v
	}
	if v := os.Getenv("S3_OBJECT_KEY"); v != "" {
		config.S3ObjectKey = v
	}
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		parts := strings.Split(v, ",")
		origins := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				origins = append(origins, p)
			}
		}
		if len(origins) > 0 {
			config.CORSAllowedOrigins = origins
		}
	}
}
