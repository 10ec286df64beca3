package activity

import "testing"

func TestBuildLayerEventPrefersTarget(t *testing.T) {
	meta := map[string]any{"custom": "value"}
	event := BuildLayerEvent(VerbLayerAdded, CanvasEventInput{
		Scope:    " olcOverlayLayerGroup ",
		Target:   " roads ",
		Metadata: meta,
	})

	if event.Verb != VerbLayerAdded || event.ObjectType != ObjectLayer || event.ObjectID != "roads" {
		t.Fatalf("unexpected object fields: %+v", event)
	}
	if event.Metadata["scope"] != "olcOverlayLayerGroup" || event.Metadata["target"] != "roads" {
		t.Fatalf("expected scope and target metadata, got %+v", event.Metadata)
	}
	event.Metadata["custom"] = "changed"
	if meta["custom"] != "value" {
		t.Fatalf("expected input metadata untouched")
	}
}

func TestBuildGroupEventUsesScopeAndCount(t *testing.T) {
	event := BuildGroupEvent(VerbFeaturesPropertyChanged, CanvasEventInput{
		Scope:  "olcOverlayLayerGroup",
		Target: "roads",
		Count:  3,
		Key:    "selected",
		Value:  true,
	})

	if event.ObjectID != "olcOverlayLayerGroup" {
		t.Fatalf("expected group id as object id, got %q", event.ObjectID)
	}
	if event.Metadata["count"] != 3 || event.Metadata["key"] != "selected" || event.Metadata["value"] != true {
		t.Fatalf("unexpected metadata %+v", event.Metadata)
	}
}

func TestBuildEventFallsBackToObjectType(t *testing.T) {
	event := BuildPopupEvent(VerbPopupsCleared, CanvasEventInput{})
	if event.ObjectID != ObjectPopup {
		t.Fatalf("expected fallback object id %q, got %q", ObjectPopup, event.ObjectID)
	}
	if event.Metadata != nil {
		t.Fatalf("expected no metadata, got %+v", event.Metadata)
	}
}
