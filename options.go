package canvas

import (
	"context"

	"github.com/goliatone/go-canvas/pkg/activity"
)

// Option configures a Canvas.
type Option func(*canvasConfig)

type canvasConfig struct {
	config        Config
	configSet     bool
	logger        Logger
	activityHooks activity.Hooks
	actor         activity.Actor
	ctx           context.Context
}

func applyOptions(opts []Option) canvasConfig {
	cfg := canvasConfig{
		config: DefaultConfig(),
		logger: GlogLogger(),
		ctx:    context.Background(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.configSet {
		cfg.config = cfg.config.WithDefaults()
	}
	return cfg
}

// WithConfig replaces the default configuration. Unset durations and keys
// fall back to DefaultConfig, so a zero duration cannot be expressed here; use
// WithLoadedConfig for that.
func WithConfig(config Config) Option {
	return func(cfg *canvasConfig) {
		cfg.config = config
		cfg.configSet = true
	}
}

// WithLoadedConfig installs a configuration returned by LoadConfig as is.
// LoadConfig already decodes on top of DefaultConfig, so explicit zero
// durations such as "0s" are kept.
func WithLoadedConfig(config Config) Option {
	return func(cfg *canvasConfig) {
		cfg.config = config
		cfg.configSet = false
	}
}

// WithLogger attaches a diagnostic logger. A nil logger silences diagnostics.
func WithLogger(logger Logger) Option {
	return func(cfg *canvasConfig) {
		if logger == nil {
			cfg.logger = noopLogger{}
			return
		}
		cfg.logger = logger
	}
}

// WithActivityHooks attaches activity hooks. Hooks are cloned and nil entries
// dropped.
func WithActivityHooks(hooks ...activity.ActivityHook) Option {
	normalized := cloneActivityHooks(hooks)
	return func(cfg *canvasConfig) {
		cfg.activityHooks = normalized
	}
}

// WithActor identifies who drives the canvas in activity events.
func WithActor(actor activity.Actor) Option {
	return func(cfg *canvasConfig) {
		cfg.actor = actor
	}
}

// WithContext sets the context handed to activity hooks.
func WithContext(ctx context.Context) Option {
	return func(cfg *canvasConfig) {
		if ctx != nil {
			cfg.ctx = ctx
		}
	}
}

func cloneActivityHooks(hooks []activity.ActivityHook) activity.Hooks {
	if len(hooks) == 0 {
		return nil
	}
	normalized := make([]activity.ActivityHook, 0, len(hooks))
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		normalized = append(normalized, hook)
	}
	if len(normalized) == 0 {
		return nil
	}
	return activity.Hooks(normalized)
}
