package config

import (
	"log"
	"os"
	"strings"
	"time"
)

// JWTConfig defines issuer/secret pair for auth verification.
type JWTConfig struct {
	Issuer string
	Secret []byte
}

// Config holds runtime configuration shared across the application.
type Config struct {
	Addr                 string
	MongoURI             string
	MongoDatabase        string
	PingCollection       string
	DraftCollection      string
	EventCollection      string
	PostgresDSN          string
	Timeout              time.Duration
	Timezone             string
	ServerLog            *log.Logger
	JWTConfigs           []JWTConfig
	JWTAudience          string
	VerifierEndpoint     string
	VerifierTimeout      time.Duration
	DraftDebounce        time.Duration
	MessengerEndpoint    string
	MessengerDestination string
	MessengerTimeout     time.Duration
	AllowedOrigins       []string
	StorageRegion        string
	StorageBucket        string
	StorageAccessKey     string
	StorageSecretKey     string
	StorageEndpoint      string
	StoragePublicBaseURL string
	StoragePresignTTL    time.Duration
}

// Load reads environment variables and returns a fully populated Config.
func Load() Config {
	timeout := 10 * time.Second
	if v := os.Getenv("MONGO_CONNECT_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			timeout = parsed
		}
	}

	postgresDSN := strings.TrimSpace(os.Getenv("POSTGRES_DSN"))
	if postgresDSN == "" {
		log.Fatal("POSTGRES_DSN must be configured")
	}

	verifierEndpoint := strings.TrimSpace(os.Getenv("LICENSE_VERIFIER_URL"))
	if verifierEndpoint == "" {
		verifierEndpoint = "http://license-verifier:3000/verify"
	}

	verifierTimeout := 10 * time.Second
	if raw := strings.TrimSpace(os.Getenv("LICENSE_VERIFIER_TIMEOUT")); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			verifierTimeout = parsed
		}
	}

	draftDebounce := 800 * time.Millisecond
	if raw := strings.TrimSpace(os.Getenv("DRAFT_SYNC_DEBOUNCE")); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil && parsed > 0 {
			draftDebounce = parsed
		}
	}

	messengerEndpoint := strings.TrimSpace(os.Getenv("MESSENGER_GATEWAY_URL"))
	if messengerEndpoint == "" {
		messengerEndpoint = "http://messenger-gateway:3000"
	}

	messengerDestination := strings.TrimSpace(os.Getenv("MESSENGER_GATEWAY_DESTINATION"))
	if messengerDestination == "" {
		messengerDestination = "line"
	}

	messengerTimeout := 3 * time.Second
	if raw := strings.TrimSpace(os.Getenv("MESSENGER_GATEWAY_TIMEOUT")); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			messengerTimeout = parsed
		}
	}

	presignTTL := 15 * time.Minute
	if raw := strings.TrimSpace(os.Getenv("STORAGE_PRESIGN_TTL")); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil && parsed > 0 {
			presignTTL = parsed
		}
	}

	allowedOrigins := parseList("API_ALLOWED_ORIGINS", []string{"*"})

	var jwtConfigs []JWTConfig
	if secret := strings.TrimSpace(os.Getenv("AUTH_LINE_JWT_SECRET")); secret != "" {
		jwtConfigs = append(jwtConfigs, JWTConfig{
			Issuer: envOrDefault("AUTH_LINE_JWT_ISSUER", "shutten-navi-auth"),
			Secret: []byte(secret),
		})
	}
	if secret := strings.TrimSpace(os.Getenv("AUTH_GOOGLE_JWT_SECRET")); secret != "" {
		jwtConfigs = append(jwtConfigs, JWTConfig{
			Issuer: envOrDefault("AUTH_GOOGLE_JWT_ISSUER", "auth-google"),
			Secret: []byte(secret),
		})
	}

	if len(jwtConfigs) == 0 {
		log.Fatal("JWT secrets not configured. Set AUTH_LINE_JWT_SECRET or AUTH_GOOGLE_JWT_SECRET.")
	}

	jwtAudience := strings.TrimSpace(os.Getenv("AUTH_JWT_AUDIENCE"))
	if jwtAudience == "" {
		jwtAudience = strings.TrimSpace(os.Getenv("AUTH_LINE_JWT_AUDIENCE"))
	}

	cfg := Config{
		Addr:                 envOrDefault("HTTP_ADDR", ":8080"),
		MongoURI:             envOrDefault("MONGO_URI", "mongodb://mongo:27017"),
		MongoDatabase:        envOrDefault("MONGO_DB", "shutten-navi"),
		PingCollection:       envOrDefault("PING_COLLECTION", "pings"),
		DraftCollection:      envOrDefault("DRAFT_COLLECTION", "registration_drafts"),
		EventCollection:      envOrDefault("EVENT_COLLECTION", "events"),
		PostgresDSN:          postgresDSN,
		Timeout:              timeout,
		Timezone:             envOrDefault("TIMEZONE", "Asia/Tokyo"),
		ServerLog:            log.New(os.Stdout, "[shutten-navi-api] ", log.LstdFlags|log.Lshortfile),
		JWTConfigs:           jwtConfigs,
		JWTAudience:          jwtAudience,
		VerifierEndpoint:     verifierEndpoint,
		VerifierTimeout:      verifierTimeout,
		DraftDebounce:        draftDebounce,
		MessengerEndpoint:    messengerEndpoint,
		MessengerDestination: messengerDestination,
		MessengerTimeout:     messengerTimeout,
		AllowedOrigins:       allowedOrigins,
		StorageRegion:        envOrDefault("STORAGE_REGION", "ap-northeast-1"),
		StorageBucket:        envOrDefault("STORAGE_BUCKET", "shutten-navi-documents"),
		StorageAccessKey:     strings.TrimSpace(os.Getenv("STORAGE_ACCESS_KEY")),
		StorageSecretKey:     strings.TrimSpace(os.Getenv("STORAGE_SECRET_KEY")),
		StorageEndpoint:      strings.TrimSpace(os.Getenv("STORAGE_ENDPOINT")),
		StoragePublicBaseURL: envOrDefault("STORAGE_PUBLIC_BASE_URL", "https://media.shutten-navi.jp"),
		StoragePresignTTL:    presignTTL,
	}

	cfg.ServerLog.Printf("loaded config: verifierEndpoint=%q messengerEndpoint=%q destination=%q", verifierEndpoint, messengerEndpoint, messengerDestination)

	return cfg
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseList(key string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			values = append(values, part)
		}
	}

	if len(values) == 0 {
		return fallback
	}
	return values
}
