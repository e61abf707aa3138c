package file

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/helpsync/internal/core/domain"
)

var errUnknownKey = errors.New("unknown key")

// setter applies one raw config value.
type setter func(cfg *domain.Config, value any) error

// keys maps flattened config keys to their setters.
var keys = map[string]setter{
	"zendesk.subdomain":   str(func(c *domain.Config) *string { return &c.Zendesk.Subdomain }),
	"zendesk.base_url":    str(func(c *domain.Config) *string { return &c.Zendesk.BaseURL }),
	"zendesk.email":       str(func(c *domain.Config) *string { return &c.Zendesk.Email }),
	"zendesk.token":       str(func(c *domain.Config) *string { return &c.Zendesk.Token }),
	"zendesk.oauth_token": str(func(c *domain.Config) *string { return &c.Zendesk.OAuthToken }),
	"zendesk.per_page":    integer(func(c *domain.Config) *int { return &c.Zendesk.PerPage }),
	"zendesk.locale":      str(func(c *domain.Config) *string { return &c.Zendesk.Locale }),

	"openai.api_key":         str(func(c *domain.Config) *string { return &c.OpenAI.APIKey }),
	"openai.base_url":        str(func(c *domain.Config) *string { return &c.OpenAI.BaseURL }),
	"openai.vector_store_id": str(func(c *domain.Config) *string { return &c.OpenAI.VectorStoreID }),
	"openai.index_name":      str(func(c *domain.Config) *string { return &c.OpenAI.IndexName }),
	"openai.model":           str(func(c *domain.Config) *string { return &c.OpenAI.Model }),
	"openai.timeout":         duration(func(c *domain.Config) *time.Duration { return &c.OpenAI.Timeout }),

	"state.data_dir":    str(func(c *domain.Config) *string { return &c.State.DataDir }),
	"state.backend":     str(func(c *domain.Config) *string { return &c.State.Backend }),
	"state.archive_dir": str(func(c *domain.Config) *string { return &c.State.ArchiveDir }),

	"sync.limit":         integer(func(c *domain.Config) *int { return &c.Sync.Limit }),
	"sync.request_delay": duration(func(c *domain.Config) *time.Duration { return &c.Sync.RequestDelay }),
	"sync.poll_interval": duration(func(c *domain.Config) *time.Duration { return &c.Sync.PollInterval }),
	"sync.poll_timeout":  duration(func(c *domain.Config) *time.Duration { return &c.Sync.PollTimeout }),

	"scheduler.interval":     duration(func(c *domain.Config) *time.Duration { return &c.Scheduler.Interval }),
	"scheduler.history_size": integer(func(c *domain.Config) *int { return &c.Scheduler.HistorySize }),

	"log.level":  str(func(c *domain.Config) *string { return &c.Log.Level }),
	"log.format": str(func(c *domain.Config) *string { return &c.Log.Format }),
	"log.file":   str(func(c *domain.Config) *string { return &c.Log.File }),
}

// apply sets one flattened key on cfg.
func apply(cfg *domain.Config, key string, value any) error {
	set, ok := keys[key]
	if !ok {
		return errUnknownKey
	}
	return set(cfg, value)
}

func sortedKeys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func str(field func(*domain.Config) *string) setter {
	return func(cfg *domain.Config, value any) error {
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", value)
		}
		*field(cfg) = strings.TrimSpace(s)
		return nil
	}
}

func integer(field func(*domain.Config) *int) setter {
	return func(cfg *domain.Config, value any) error {
		n, err := toInt(value)
		if err != nil {
			return err
		}
		*field(cfg) = n
		return nil
	}
}

func duration(field func(*domain.Config) *time.Duration) setter {
	return func(cfg *domain.Config, value any) error {
		d, err := toDuration(value)
		if err != nil {
			return err
		}
		*field(cfg) = d
		return nil
	}
}

// toInt accepts the integer types produced by the TOML and YAML decoders.
func toInt(value any) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case uint64:
		if v > math.MaxInt {
			return 0, fmt.Errorf("integer %d out of range", v)
		}
		return int(v), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("expected integer, got %v", v)
		}
		return int(v), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("expected integer, got %q", v)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("expected integer, got %T", value)
	}
}

// toDuration accepts a duration string or a number of seconds.
func toDuration(value any) (time.Duration, error) {
	switch v := value.(type) {
	case string:
		s := strings.TrimSpace(v)
		if secs, err := strconv.ParseFloat(s, 64); err == nil {
			return time.Duration(secs * float64(time.Second)), nil
		}
		d, err := time.ParseDuration(s)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", v)
		}
		return d, nil
	case float64:
		return time.Duration(v * float64(time.Second)), nil
	default:
		n, err := toInt(value)
		if err != nil {
			return 0, fmt.Errorf("expected duration, got %T", value)
		}
		return time.Duration(n) * time.Second, nil
	}
}
