package domain

import (
	"fmt"
	"time"
)

// Config is the explicit application configuration passed to constructors.
// No component reads ambient global state directly.
type Config struct {
	Zendesk   ZendeskConfig
	OpenAI    OpenAIConfig
	State     StateConfig
	Sync      SyncConfig
	Scheduler SchedulerConfig
	Log       LogConfig
}

// ZendeskConfig configures the help-center source feed.
type ZendeskConfig struct {
	Subdomain  string `validate:"required,hostname_rfc1123"`
	BaseURL    string `validate:"omitempty,url"`
	Email      string `validate:"omitempty,email"`
	Token      string `validate:"required_with=Email"`
	OAuthToken string
	PerPage    int `validate:"gte=1,lte=100"`
	Locale     string
}

// OpenAIConfig configures the remote file, index and agent services.
type OpenAIConfig struct {
	APIKey        string
	BaseURL       string `validate:"required,url"`
	VectorStoreID string
	IndexName     string        `validate:"required"`
	Model         string        `validate:"required"`
	Timeout       time.Duration `validate:"gt=0"`
}

// RequireCredentials returns ErrMissingCredential if no API key is set.
func (c OpenAIConfig) RequireCredentials() error {
	if c.APIKey == "" {
		return fmt.Errorf("%w: OPENAI_API_KEY", ErrMissingCredential)
	}
	return nil
}

// StateConfig configures where run state is persisted.
type StateConfig struct {
	DataDir    string `validate:"required"`
	Backend    string `validate:"oneof=file sqlite memory"`
	ArchiveDir string
}

// SyncConfig tunes detection and the remote workflow.
type SyncConfig struct {
	// Limit caps the number of articles considered; 0 means no cap.
	Limit int `validate:"gte=0"`

	// RequestDelay is the fixed pause between calls to the same endpoint.
	RequestDelay time.Duration `validate:"gte=0"`

	// PollInterval is the fixed interval between batch status polls.
	PollInterval time.Duration `validate:"gt=0"`

	// PollTimeout bounds the batch status poll loop.
	PollTimeout time.Duration `validate:"gtefield=PollInterval"`
}

// SchedulerConfig configures periodic runs.
type SchedulerConfig struct {
	Interval    time.Duration `validate:"gte=1m"`
	HistorySize int           `validate:"gte=1"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level  string `validate:"oneof=debug info warn error"`
	Format string `validate:"oneof=auto console json"`
	File   string
}

// Default configuration values.
const (
	DefaultSubdomain     = "optisignshelp"
	DefaultPerPage       = 100
	DefaultOpenAIURL     = "https://api.openai.com/v1"
	DefaultIndexName     = "helpsync-articles"
	DefaultOpenAITimeout = 60 * time.Second
	DefaultRequestDelay  = 100 * time.Millisecond
	DefaultPollInterval  = 3 * time.Second
	DefaultPollTimeout   = 300 * time.Second
	DefaultInterval      = 24 * time.Hour
	DefaultHistorySize   = 100
)

// DefaultConfig returns sensible defaults. Credentials are left empty.
func DefaultConfig() Config {
	return Config{
		Zendesk: ZendeskConfig{
			Subdomain: DefaultSubdomain,
			PerPage:   DefaultPerPage,
		},
		OpenAI: OpenAIConfig{
			BaseURL:   DefaultOpenAIURL,
			IndexName: DefaultIndexName,
			Model:     AgentModel,
			Timeout:   DefaultOpenAITimeout,
		},
		State: StateConfig{
			DataDir: ".helpsync",
			Backend: "file",
		},
		Sync: SyncConfig{
			RequestDelay: DefaultRequestDelay,
			PollInterval: DefaultPollInterval,
			PollTimeout:  DefaultPollTimeout,
		},
		Scheduler: SchedulerConfig{
			Interval:    DefaultInterval,
			HistorySize: DefaultHistorySize,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "auto",
		},
	}
}
