package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// const dsn = "host=localhost user=postgres password=password dbname=livevibe port=5432 sslmode=disable TimeZone=Europe/Kyiv"

func GetDSN() string {
	DATABASE_HOST := GetEnv("DATABASE_HOST", "localhost")
	DATABASE_PORT := GetEnv("DATABASE_PORT", "5432")
	DATABASE_SSLMODE := GetEnv("DATABASE_SSLMODE", "disable")
	DATABASE_TIMEZONE := GetEnv("DATABASE_TIMEZONE", "UTC")
	DATABASE_USER := os.Getenv("DATABASE_USER")
	DATABASE_PASSWORD := os.Getenv("DATABASE_PASSWORD")
	DATABASE_NAME := os.Getenv("DATABASE_NAME")
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s", DATABASE_HOST, DATABASE_USER, DATABASE_PASSWORD, DATABASE_NAME, DATABASE_PORT, DATABASE_SSLMODE, DATABASE_TIMEZONE)
	return dsn
}

func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func GetEnvAsInt(key string, fallback int) int {
	if value, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return value
	}
	return fallback
}

func GetEnvAsBool(key string, fallback bool) bool {
	if value, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return value
	}
	return fallback
}

func GetEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return value
	}
	return fallback
}

// GetPublicBaseURL is the externally reachable origin embedded in ticket QR codes.
func GetPublicBaseURL() string {
	return strings.TrimRight(GetEnv("PUBLIC_BASE_URL", "http://localhost:5000"), "/")
}

func GetAllowedOrigins() []string {
	raw := GetEnv("ALLOWED_ORIGINS", "http://localhost:3000")
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

type SMTPConfig struct {
	Host       string
	Port       int
	Username   string
	Password   string
	Sender     string
	SenderName string
	ReplyTo    string
}

func GetSMTPConfig() SMTPConfig {
	return SMTPConfig{
		Host:       os.Getenv("SMTP_HOST"),
		Port:       GetEnvAsInt("SMTP_PORT", 587),
		Username:   os.Getenv("SMTP_USERNAME"),
		Password:   os.Getenv("SMTP_PASSWORD"),
		Sender:     GetEnv("MAIL_SENDER", "no-reply@livevibe.local"),
		SenderName: GetEnv("MAIL_SENDER_NAME", "LiveVibe"),
		ReplyTo:    os.Getenv("MAIL_REPLY_TO"),
	}
}

const ROLE_ADMIN = "Admin"
