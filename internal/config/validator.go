package config

import (
	"fmt"
	"strings"
)

// Validate checks the config for required fields and obvious mistakes.
func Validate(cfg *Config) error {
	var errs []string

	if cfg.Auth.TokenSecret == "" {
		errs = append(errs, "auth.token_secret is required (or set TOKEN_SECRET)")
	}
	if cfg.Auth.TokenTTLSeconds < 0 {
		errs = append(errs, "auth.token_ttl_seconds must not be negative")
	}
	if len(trimmed(cfg.Auth.AllowedOrigins)) == 0 {
		errs = append(errs, "auth.allowed_origins must not be empty")
	}
	if cfg.SMTP.Host == "" {
		errs = append(errs, "smtp.host is required")
	}
	if cfg.SMTP.From == "" {
		errs = append(errs, "smtp.from is required")
	}
	if cfg.Recipients.PrimaryTo == "" {
		errs = append(errs, "recipients.primary_to is required")
	}
	if cfg.IssueRate.PerMin < 0 || cfg.IssueRate.Burst < 0 {
		errs = append(errs, "issue_rate values must not be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func trimmed(list []string) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
