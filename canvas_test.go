package canvas

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-canvas/engine"
	"github.com/goliatone/go-canvas/pkg/activity"
)

func captureLogger(out *[]Diagnostic) Logger {
	return LoggerFunc(func(d Diagnostic) {
		*out = append(*out, d)
	})
}

func TestResultErr(t *testing.T) {
	cases := []struct {
		res  Result
		want error
		str  string
	}{
		{res: Applied(), want: nil, str: "applied"},
		{res: Result{Applied: true, Reason: ReasonNotFound}, want: ErrNotFound, str: "applied (not_found)"},
		{res: Rejected(ReasonDuplicateID), want: ErrDuplicateID, str: "rejected (duplicate_id)"},
		{res: Rejected(ReasonEmptyInput), want: ErrEmptyInput, str: "rejected (empty_input)"},
	}
	for _, tc := range cases {
		if !errors.Is(tc.res.Err(), tc.want) || (tc.want == nil && tc.res.Err() != nil) {
			t.Fatalf("expected %v, got %v", tc.want, tc.res.Err())
		}
		if tc.res.String() != tc.str {
			t.Fatalf("expected %q, got %q", tc.str, tc.res.String())
		}
	}
	if err := Rejected(Reason("odd")).Err(); err == nil || !strings.Contains(err.Error(), "odd") {
		t.Fatalf("expected an error naming the reason, got %v", err)
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected default config to validate, got %v", err)
	}
	if cfg.OverlayPosition != 20 || cfg.OrderKey != DefaultOrderKey || cfg.DeleteDelay != 20*time.Millisecond {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestValidateJoinsErrors(t *testing.T) {
	err := Config{OrderKey: " ", ZoomDuration: -1, ClusterDistance: -2}.Validate()
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	for _, field := range []string{"orderKey", "zoomDuration", "clusterDistance"} {
		if !strings.Contains(err.Error(), field) {
			t.Fatalf("expected %s in %q", field, err)
		}
	}
}

func TestWithDefaultsKeepsPositions(t *testing.T) {
	cfg := Config{OverlayPosition: 0, BackgroundPosition: 3}.WithDefaults()
	if cfg.OverlayPosition != 0 || cfg.BackgroundPosition != 3 {
		t.Fatalf("expected positions to be kept, got %+v", cfg)
	}
	if cfg.OrderKey != DefaultOrderKey || cfg.ZoomDuration != 250*time.Millisecond {
		t.Fatalf("expected defaults to fill, got %+v", cfg)
	}
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(map[string]any{
		"zoomDuration": "400ms",
		"deleteDelay":  35,
		"orderKey":     "zIndexKey",
	})
	if err != nil {
		t.Fatalf("expected config to load, got %v", err)
	}
	if cfg.ZoomDuration != 400*time.Millisecond || cfg.DeleteDelay != 35*time.Millisecond {
		t.Fatalf("expected decoded durations, got %+v", cfg)
	}
	if cfg.OrderKey != "zIndexKey" || cfg.OverlayPosition != 20 {
		t.Fatalf("expected overrides on top of defaults, got %+v", cfg)
	}
}

func TestLoadConfigRejects(t *testing.T) {
	if _, err := LoadConfig(map[string]any{"zoomSpeed": 1}); err == nil || !strings.Contains(err.Error(), "unknown field") {
		t.Fatalf("expected an unknown field error, got %v", err)
	}
	if _, err := LoadConfig(map[string]any{"clusterDistance": -1}); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestRejectSeverity(t *testing.T) {
	var logged []Diagnostic
	c := NewBlank(WithLogger(captureLogger(&logged)))
	c.Reject(Diagnostic{Component: "test", Reason: ReasonEmptyInput, Severity: SeverityWarning})
	c.Reject(Diagnostic{Component: "test", Reason: ReasonNotFound})
	if len(logged) != 2 {
		t.Fatalf("expected two diagnostics, got %d", len(logged))
	}
	if logged[0].Severity != SeverityDebug || logged[1].Severity != SeverityWarning {
		t.Fatalf("expected debug then warning, got %v and %v", logged[0].Severity, logged[1].Severity)
	}
}

func TestDiagnosticString(t *testing.T) {
	d := Diagnostic{
		Component: "layer",
		Op:        "add_layer",
		Scope:     "olcOverlayLayerGroup",
		Target:    "roads",
		Reason:    ReasonDuplicateID,
		Message:   "taken",
	}
	want := `layer.add_layer scope=olcOverlayLayerGroup target="roads" reason=duplicate_id: taken`
	if d.String() != want {
		t.Fatalf("expected %q, got %q", want, d.String())
	}
}

func TestNilLoggerIsSilent(t *testing.T) {
	c := NewBlank(WithLogger(nil))
	c.Reject(Diagnostic{Reason: ReasonNotFound})
}

func TestControls(t *testing.T) {
	var logged []Diagnostic
	hook := &activity.CaptureHook{}
	c := NewBlank(WithLogger(captureLogger(&logged)), WithActivityHooks(hook))
	control := engine.NewControl("zoom")
	if res := c.AddControl("zoom", control); !res.OK() {
		t.Fatalf("expected control to be added, got %v", res)
	}
	if !c.HasControl("zoom") || c.HasControl("scale") {
		t.Fatalf("expected only zoom to be registered")
	}
	if got, _ := c.Control("zoom"); got != control {
		t.Fatalf("expected the registered control")
	}
	if res := c.AddControl("zoom", engine.NewControl("zoom")); res.Reason != ReasonDuplicateID {
		t.Fatalf("expected ReasonDuplicateID, got %v", res)
	}
	if res := c.AddControl("", control); res.Reason != ReasonEmptyID {
		t.Fatalf("expected ReasonEmptyID, got %v", res)
	}
	if res := c.AddControl("scale", nil); res.Reason != ReasonNilValue {
		t.Fatalf("expected ReasonNilValue, got %v", res)
	}
	if c.Map().Controls().Len() != 1 {
		t.Fatalf("expected one control on the map, got %d", c.Map().Controls().Len())
	}
	if hook.Count(activity.VerbControlAdded) != 1 || len(logged) != 3 {
		t.Fatalf("expected one record and three rejections, got %v and %d", hook.Verbs(), len(logged))
	}
}

func TestRecordLogsHookFailure(t *testing.T) {
	var logged []Diagnostic
	failing := activity.HookFunc(func(context.Context, activity.Event) error {
		return errors.New("sink down")
	})
	c := NewBlank(WithLogger(captureLogger(&logged)), WithActivityHooks(failing))
	c.AddControl("zoom", engine.NewControl("zoom"))
	if len(logged) != 1 || logged[0].Component != "activity" || logged[0].Severity != SeverityWarning {
		t.Fatalf("expected one activity warning, got %+v", logged)
	}
	if !c.HasControl("zoom") {
		t.Fatalf("expected the command to apply despite the hook failure")
	}
}

func TestActivityDisabledByConfig(t *testing.T) {
	hook := &activity.CaptureHook{}
	c := NewBlank(WithActivityHooks(hook), WithLogger(nil), WithConfig(Config{ActivityEnabled: false}))
	c.AddControl("zoom", engine.NewControl("zoom"))
	if len(hook.Events) != 0 {
		t.Fatalf("expected no events when activity is disabled, got %d", len(hook.Events))
	}
}

func TestAfterFuncUsesMapClock(t *testing.T) {
	c := NewBlank(WithLogger(nil))
	ran := false
	c.AfterFunc(10*time.Millisecond, func() { ran = true })
	c.Map().AdvanceBy(9 * time.Millisecond)
	if ran {
		t.Fatalf("expected the callback to wait")
	}
	c.Map().AdvanceBy(time.Millisecond)
	if !ran {
		t.Fatalf("expected the callback to run")
	}
}

func TestLoadedConfigKeepsZeroDurations(t *testing.T) {
	cfg, err := LoadConfig(map[string]any{"deleteDelay": "0s", "zoomDuration": "0s"})
	if err != nil {
		t.Fatalf("expected config to load, got %v", err)
	}
	if cfg.DeleteDelay != 0 || cfg.ZoomDuration != 0 {
		t.Fatalf("expected zero durations from LoadConfig, got %+v", cfg)
	}
	c := NewBlank(WithLogger(nil), WithLoadedConfig(cfg))
	if got := c.Config(); got.DeleteDelay != 0 || got.ZoomDuration != 0 || got.OrderKey != DefaultOrderKey {
		t.Fatalf("expected the loaded config to be kept, got %+v", got)
	}

	defaulted := NewBlank(WithLogger(nil), WithConfig(cfg))
	if defaulted.Config().DeleteDelay != 20*time.Millisecond {
		t.Fatalf("expected WithConfig to fill unset durations, got %s", defaulted.Config().DeleteDelay)
	}
}
