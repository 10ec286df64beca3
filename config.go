package canvas

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/goliatone/go-canvas/internal/hydrate"
)

// ErrInvalidConfig wraps every configuration validation failure.
var ErrInvalidConfig = errors.New("canvas: invalid config")

// DefaultOrderKey is the layer property holding the stamped group position.
const DefaultOrderKey = "olcPosition"

// Config holds the tunables shared by every store attached to a canvas.
type Config struct {
	// BackgroundPosition is the default slot of the background group.
	BackgroundPosition int `json:"backgroundPosition"`
	// OverlayPosition is the default slot of the overlay group.
	OverlayPosition int `json:"overlayPosition"`
	// OrderKey is the property used to keep top-level groups ordered.
	OrderKey string `json:"orderKey"`
	// ZoomDuration is the stepped zoom animation length.
	ZoomDuration time.Duration `json:"zoomDuration"`
	// DeleteDelay defers delete-on-click side effects.
	DeleteDelay time.Duration `json:"deleteDelay"`
	// ClusterDistance is the default cluster cell size in pixels.
	ClusterDistance float64 `json:"clusterDistance"`
	// ActivityEnabled turns activity emission on when hooks are configured.
	ActivityEnabled bool `json:"activityEnabled"`
	// ActivityChannel overrides the default activity channel.
	ActivityChannel string `json:"activityChannel"`
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	return Config{
		BackgroundPosition: 0,
		OverlayPosition:    20,
		OrderKey:           DefaultOrderKey,
		ZoomDuration:       250 * time.Millisecond,
		DeleteDelay:        20 * time.Millisecond,
		ClusterDistance:    20,
		ActivityEnabled:    true,
	}
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.OrderKey) == "" {
		errs = append(errs, fmt.Errorf("%w: orderKey is empty", ErrInvalidConfig))
	}
	if c.ZoomDuration < 0 {
		errs = append(errs, fmt.Errorf("%w: zoomDuration %s is negative", ErrInvalidConfig, c.ZoomDuration))
	}
	if c.DeleteDelay < 0 {
		errs = append(errs, fmt.Errorf("%w: deleteDelay %s is negative", ErrInvalidConfig, c.DeleteDelay))
	}
	if c.ClusterDistance < 0 {
		errs = append(errs, fmt.Errorf("%w: clusterDistance %v is negative", ErrInvalidConfig, c.ClusterDistance))
	}
	return errors.Join(errs...)
}

// WithDefaults fills unset durations, order key and cluster distance from
// DefaultConfig. Positions are kept as given since zero is a valid slot.
func (c Config) WithDefaults() Config {
	defaults := DefaultConfig()
	c.OrderKey = ApplyDefaults(strings.TrimSpace(c.OrderKey), defaults.OrderKey)
	c.ZoomDuration = ApplyDefaults(c.ZoomDuration, defaults.ZoomDuration)
	c.DeleteDelay = ApplyDefaults(c.DeleteDelay, defaults.DeleteDelay)
	c.ClusterDistance = ApplyDefaults(c.ClusterDistance, defaults.ClusterDistance)
	return c
}

// ApplyDefaults returns value if it is already populated, otherwise it falls
// back to defaults.
func ApplyDefaults[T any](value T, defaults T) T {
	if reflect.ValueOf(&value).Elem().IsZero() {
		return defaults
	}
	return value
}

var durationFields = []string{"zoomDuration", "deleteDelay"}

// LoadConfig decodes payload on top of DefaultConfig and validates the
// result. Durations accept strings such as "250ms" or numbers of
// milliseconds; unknown fields are rejected. Pass the result to
// WithLoadedConfig to keep explicit zero values.
func LoadConfig(payload map[string]any) (Config, error) {
	decoder := hydrate.NewDecoder[Config](
		hydrate.WithBase(DefaultConfig()),
		hydrate.WithPreHook[Config](hydrate.Durations(durationFields...)),
		hydrate.WithDisallowUnknownFields[Config](),
		hydrate.WithPostHook[Config](func(_ hydrate.Context, cfg *Config) error {
			return cfg.Validate()
		}),
	)
	return decoder.Decode(hydrate.Context{Source: "canvas config"}, payload)
}
