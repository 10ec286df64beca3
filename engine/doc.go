// Package engine is a headless stand-in for the scene graph that go-canvas
// orchestrates. It keeps the state a rendering engine would own (layer tree,
// sources and features, viewport, popups, interactions, controls) and
// dispatches the events the orchestration core listens to, but it never draws.
//
// Boundary:
//
//   - Collection[T] is the mutable ordered container used for layers, popups,
//     interactions and controls (indexed insert, push, remove).
//   - View exposes zoom/center/resolution, animate, cancel and zoom clamping.
//   - FeatureSource and Wrapper describe the entity-source abstraction, with
//     ClusterSource wrapping a plain VectorSource.
//   - Geometry exposes a bounding Extent and a type discriminator.
//   - Observable.On returns a ListenerKey; Unlisten disposes keys.
//
// Time is explicit: animations and deferred callbacks only progress when the
// host calls Map.Advance, and clusters only materialise on Map.RenderFrame.
package engine
