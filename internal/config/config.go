package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration

	// Feed classification. Freshness is the age of a single report;
	// confidence is driven by how many same-venue reports landed inside
	// ConfidenceWindow. The bands are policy, not schema, so they live here.
	FreshCutoff       time.Duration
	RecentCutoff      time.Duration
	ConfidenceWindow  time.Duration
	ConfidenceHighMin int
	ConfidenceMedMin  int

	// Venue status aggregation (last N reports within StatusWindow)
	StatusWindow     time.Duration
	StatusMaxReports int

	// Report submission
	ReportCooldown  time.Duration
	PointsPerReport int

	// Timeline
	DistanceBatchSize int
	PerVenueLimit     int

	// Logs
	LogRetentionDays int

	// Server
	Port        string
	CORSOrigins string
}

func Load() *Config {
	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "nachtkarte"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTAccessExpiry:  parseDuration(getEnv("JWT_ACCESS_EXPIRY", "15m"), 15*time.Minute),
		JWTRefreshExpiry: parseDuration(getEnv("JWT_REFRESH_EXPIRY", "168h"), 168*time.Hour),

		FreshCutoff:       parseDuration(getEnv("FEED_FRESH_CUTOFF", "30m"), 30*time.Minute),
		RecentCutoff:      parseDuration(getEnv("FEED_RECENT_CUTOFF", "2h"), 2*time.Hour),
		ConfidenceWindow:  parseDuration(getEnv("FEED_CONFIDENCE_WINDOW", "30m"), 30*time.Minute),
		ConfidenceHighMin: parseInt(getEnv("FEED_CONFIDENCE_HIGH_MIN", "3"), 3),
		ConfidenceMedMin:  parseInt(getEnv("FEED_CONFIDENCE_MED_MIN", "2"), 2),

		StatusWindow:     parseDuration(getEnv("VENUE_STATUS_WINDOW", "2h"), 2*time.Hour),
		StatusMaxReports: parseInt(getEnv("VENUE_STATUS_MAX_REPORTS", "5"), 5),

		ReportCooldown:  parseDuration(getEnv("REPORT_COOLDOWN", "5m"), 5*time.Minute),
		PointsPerReport: parseInt(getEnv("POINTS_PER_REPORT", "10"), 10),

		DistanceBatchSize: parseInt(getEnv("TIMELINE_DISTANCE_BATCH", "100"), 100),
		PerVenueLimit:     parseInt(getEnv("TIMELINE_PER_VENUE_LIMIT", "10"), 10),

		LogRetentionDays: parseInt(getEnv("LOG_RETENTION_DAYS", "30"), 30),

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}
