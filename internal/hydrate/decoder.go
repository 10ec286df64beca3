package hydrate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Context identifies the payload being decoded in error messages and hooks.
type Context struct {
	Source  string
	Section string
}

// PreHook lets callers mutate or normalise the payload before decoding.
type PreHook func(Context, map[string]any) (map[string]any, error)

// PostHook lets callers adjust or validate the hydrated struct after decoding.
type PostHook[T any] func(Context, *T) error

// DecoderOption configures a Decoder instance.
type DecoderOption[T any] func(*Decoder[T])

// Decoder converts generic payloads into strongly typed structs.
type Decoder[T any] struct {
	base         *T
	preHooks     []PreHook
	postHooks    []PostHook[T]
	configureDec []func(*json.Decoder)
}

// WithBase decodes on top of a copy of base instead of the zero value, so
// fields missing from the payload keep the base values.
func WithBase[T any](base T) DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.base = &base
	}
}

// WithPreHook applies hook prior to decoding.
func WithPreHook[T any](hook PreHook) DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.preHooks = append(d.preHooks, hook)
	}
}

// WithPostHook applies hook after decoding completes.
func WithPostHook[T any](hook PostHook[T]) DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.postHooks = append(d.postHooks, hook)
	}
}

// WithDisallowUnknownFields invokes json.Decoder.DisallowUnknownFields.
func WithDisallowUnknownFields[T any]() DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.configureDec = append(d.configureDec, func(dec *json.Decoder) {
			dec.DisallowUnknownFields()
		})
	}
}

func NewDecoder[T any](opts ...DecoderOption[T]) *Decoder[T] {
	d := &Decoder[T]{}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Decode converts payload into T applying configured hooks.
func (d *Decoder[T]) Decode(ctx Context, payload map[string]any) (T, error) {
	var zero T

	if payload == nil {
		return zero, fmt.Errorf("hydrate: payload is nil for %s", ctx)
	}

	current, err := clonePayload(payload)
	if err != nil {
		return zero, fmt.Errorf("hydrate: clone payload for %s: %w", ctx, err)
	}

	for _, hook := range d.preHooks {
		if hook == nil {
			continue
		}
		next, err := hook(ctx, current)
		if err != nil {
			return zero, fmt.Errorf("hydrate: pre-hook for %s failed: %w", ctx, err)
		}
		if next != nil {
			current = next
		}
	}

	var result T
	if d.base != nil {
		result = *d.base
	}
	buffer, err := json.Marshal(current)
	if err != nil {
		return zero, fmt.Errorf("hydrate: marshal payload for %s: %w", ctx, err)
	}
	decoder := json.NewDecoder(bytes.NewReader(buffer))
	for _, configure := range d.configureDec {
		if configure != nil {
			configure(decoder)
		}
	}
	if err := decoder.Decode(&result); err != nil {
		return zero, fmt.Errorf("hydrate: decode %s: %w", ctx, err)
	}

	for _, hook := range d.postHooks {
		if hook == nil {
			continue
		}
		if err := hook(ctx, &result); err != nil {
			return zero, fmt.Errorf("hydrate: post-hook for %s failed: %w", ctx, err)
		}
	}

	return result, nil
}

func (c Context) String() string {
	name := c.Source
	if name == "" {
		name = "<payload>"
	}
	if c.Section != "" {
		return fmt.Sprintf("%q section %q", name, c.Section)
	}
	return fmt.Sprintf("%q", name)
}

// Durations returns a pre-hook turning duration strings such as "250ms" into
// nanosecond counts for the named top-level fields. Numeric values are taken
// as milliseconds.
func Durations(fields ...string) PreHook {
	return func(_ Context, payload map[string]any) (map[string]any, error) {
		for _, field := range fields {
			raw, ok := payload[field]
			if !ok || raw == nil {
				continue
			}
			switch v := raw.(type) {
			case string:
				d, err := time.ParseDuration(strings.TrimSpace(v))
				if err != nil {
					return nil, fmt.Errorf("field %s: %w", field, err)
				}
				payload[field] = int64(d)
			case float64:
				payload[field] = int64(v * float64(time.Millisecond))
			default:
				return nil, fmt.Errorf("field %s: unsupported duration %T", field, raw)
			}
		}
		return payload, nil
	}
}

func clonePayload(payload map[string]any) (map[string]any, error) {
	buffer, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(buffer, &out); err != nil {
		return nil, err
	}
	return out, nil
}
