package config

import (
	"fmt"
)

// ValidateConfig checks that the loaded configuration is usable before
// the server starts accepting requests.
func ValidateConfig(cfg *Config) error {
	if cfg.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.DBHost == "" || cfg.DBPort == "" || cfg.DBName == "" {
		return fmt.Errorf("database host, port and name are required")
	}
	if cfg.MinCookingTime < 1 {
		return fmt.Errorf("MIN_COOKING_TIME must be at least 1")
	}
	if cfg.MaxCookingTime != 0 && cfg.MaxCookingTime < cfg.MinCookingTime {
		return fmt.Errorf("MAX_COOKING_TIME must be zero or >= MIN_COOKING_TIME")
	}
	if cfg.MinIngredientAmount < 1 {
		return fmt.Errorf("MIN_INGREDIENT_AMOUNT must be at least 1")
	}
	return nil
}
