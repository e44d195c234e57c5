package pensieve

import (
	"strings"

	"go.uber.org/zap"
)

// NewLogger builds a JSON production logger for "prod"/"production" and a
// console development logger otherwise.
func NewLogger(mode string) (*zap.Logger, error) {
	var cfg zap.Config
	switch strings.ToLower(mode) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}
	return cfg.Build()
}
