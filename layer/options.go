package layer

// MissingToggle decides what ToggleVisible does when no layer matches.
type MissingToggle int

const (
	// ToggleHideAll hides every layer of the group.
	ToggleHideAll MissingToggle = iota
	// ToggleKeep leaves visibility untouched and rejects the call.
	ToggleKeep
)

func (m MissingToggle) String() string {
	switch m {
	case ToggleKeep:
		return "keep"
	default:
		return "hide_all"
	}
}

// Option configures a Group.
type Option func(*groupConfig)

type groupConfig struct {
	id        string
	position  *int
	features  bool
	exclusive bool
	missing   MissingToggle
}

func applyOptions(base groupConfig, opts []Option) groupConfig {
	cfg := base
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithGroupID overrides the default id of NewBackground and NewOverlay. Empty
// ids are ignored.
func WithGroupID(id string) Option {
	return func(cfg *groupConfig) {
		if id != "" {
			cfg.id = id
		}
	}
}

// WithPosition sets the slot of a new group among the map layers. It has no
// effect when the group already exists.
func WithPosition(position int) Option {
	return func(cfg *groupConfig) {
		cfg.position = &position
	}
}

// WithFeatures enables the feature operations.
func WithFeatures() Option {
	return func(cfg *groupConfig) {
		cfg.features = true
	}
}

// WithExclusiveVisibility enables ToggleVisible.
func WithExclusiveVisibility() Option {
	return func(cfg *groupConfig) {
		cfg.exclusive = true
	}
}

// WithMissingToggle selects the ToggleVisible behaviour for unknown ids.
func WithMissingToggle(strategy MissingToggle) Option {
	return func(cfg *groupConfig) {
		cfg.missing = strategy
	}
}
