package file

import (
	"fmt"

	"github.com/custodia-labs/helpsync/internal/core/domain"
)

// Environment variables that override file values.
const (
	EnvOpenAIKey     = "OPENAI_API_KEY"
	EnvOpenAIBaseURL = "OPENAI_BASE_URL"
	EnvVectorStoreID = "OPENAI_VECTOR_STORE_ID"
	EnvSubdomain     = "ZS_SUBDOMAIN"
	EnvEmail         = "ZS_EMAIL"
	EnvToken         = "ZS_TOKEN"
	EnvOAuthToken    = "ZS_OAUTH_TOKEN"
	EnvDataDir       = "HELPSYNC_DATA_DIR"
	EnvLogLevel      = "LOG_LEVEL"
	EnvLogFormat     = "LOG_FORMAT"
)

// envKeys maps environment variables to flattened config keys.
var envKeys = []struct {
	env string
	key string
}{
	{EnvOpenAIKey, "openai.api_key"},
	{EnvOpenAIBaseURL, "openai.base_url"},
	{EnvVectorStoreID, "openai.vector_store_id"},
	{EnvSubdomain, "zendesk.subdomain"},
	{EnvEmail, "zendesk.email"},
	{EnvToken, "zendesk.token"},
	{EnvOAuthToken, "zendesk.oauth_token"},
	{EnvDataDir, "state.data_dir"},
	{EnvLogLevel, "log.level"},
	{EnvLogFormat, "log.format"},
}

// applyEnv overlays non-empty environment variables onto cfg.
func applyEnv(cfg *domain.Config, getenv func(string) string) error {
	for _, e := range envKeys {
		v := getenv(e.env)
		if v == "" {
			continue
		}
		if err := apply(cfg, e.key, v); err != nil {
			return fmt.Errorf("%w: %s: %w", domain.ErrConfigInvalid, e.env, err)
		}
	}
	return nil
}
