package activity

import (
	"strings"
	"time"
)

// Verbs emitted by the canvas stores.
const (
	VerbLayerAdded              = "layer.added"
	VerbLayerRemoved            = "layer.removed"
	VerbLayersCleared           = "layers.cleared"
	VerbLayerVisibilityToggled  = "layer.visibility_toggled"
	VerbFeaturesAdded           = "features.added"
	VerbFeaturesRemoved         = "features.removed"
	VerbFeaturesSet             = "features.set"
	VerbFeaturesPropertyChanged = "features.property_changed"
	VerbToolRegistered          = "tool.registered"
	VerbToolActivated           = "tool.activated"
	VerbToolDeactivated         = "tool.deactivated"
	VerbToolRemoved             = "tool.removed"
	VerbPopupAdded              = "popup.added"
	VerbPopupsCleared           = "popups.cleared"
	VerbControlAdded            = "control.added"
)

// Object types carried by canvas events.
const (
	ObjectLayer   = "canvas.layer"
	ObjectGroup   = "canvas.layer_group"
	ObjectTool    = "canvas.tool"
	ObjectPopup   = "canvas.popup_group"
	ObjectControl = "canvas.control"
)

// CanvasEventInput describes the common fields of canvas mutation events.
type CanvasEventInput struct {
	// Scope is the owning group id, tool group or popup group key.
	Scope string
	// Target is the layer id, tool uid or control uid acted upon.
	Target     string
	Count      int
	Key        string
	Value      any
	Channel    string
	Metadata   map[string]any
	OccurredAt time.Time
}

// BuildLayerEvent constructs a layer-level event (added, removed, toggled).
func BuildLayerEvent(verb string, input CanvasEventInput) Event {
	return buildCanvasEvent(verb, ObjectLayer, input)
}

// BuildGroupEvent constructs a group-level event such as layers.cleared or
// features.added, where Target names the layer touched if any.
func BuildGroupEvent(verb string, input CanvasEventInput) Event {
	return buildCanvasEvent(verb, ObjectGroup, input)
}

// BuildToolEvent constructs an interaction lifecycle event.
func BuildToolEvent(verb string, input CanvasEventInput) Event {
	return buildCanvasEvent(verb, ObjectTool, input)
}

// BuildPopupEvent constructs a popup store event.
func BuildPopupEvent(verb string, input CanvasEventInput) Event {
	return buildCanvasEvent(verb, ObjectPopup, input)
}

// BuildControlEvent constructs a control event.
func BuildControlEvent(verb string, input CanvasEventInput) Event {
	return buildCanvasEvent(verb, ObjectControl, input)
}

func buildCanvasEvent(verb, objectType string, input CanvasEventInput) Event {
	metadata := cloneMap(input.Metadata)
	scope := strings.TrimSpace(input.Scope)
	target := strings.TrimSpace(input.Target)
	if scope != "" {
		metadata = ensureMetadata(metadata)
		metadata["scope"] = scope
	}
	if target != "" {
		metadata = ensureMetadata(metadata)
		metadata["target"] = target
	}
	if input.Count > 0 {
		metadata = ensureMetadata(metadata)
		metadata["count"] = input.Count
	}
	if input.Key != "" {
		metadata = ensureMetadata(metadata)
		metadata["key"] = input.Key
		metadata["value"] = input.Value
	}

	objectID := scope
	if objectType == ObjectLayer || objectType == ObjectTool || objectType == ObjectControl {
		if target != "" {
			objectID = target
		}
	}
	if objectID == "" {
		objectID = target
	}
	if objectID == "" {
		objectID = objectType
	}

	return Event{
		Verb:       verb,
		ObjectType: objectType,
		ObjectID:   objectID,
		Channel:    strings.TrimSpace(input.Channel),
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}

func ensureMetadata(meta map[string]any) map[string]any {
	if meta == nil {
		return map[string]any{}
	}
	return meta
}
