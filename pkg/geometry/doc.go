// Package geometry translates raw pointer gestures into tile rectangles that
// stay inside their parent container.
//
// # Overview
//
// The package is a set of pure functions. Nothing here touches a store, a
// renderer or a clock; callers feed in the committed rectangle, the parent's
// [Bounds] and the live gesture data, and apply what comes back.
//
// Three entry points cover the gesture phases:
//
//   - [Drag]: a move gesture. Top and left are clamped at the near edge only.
//   - [Resize]: one frame of an in-progress resize. Returns the rectangle to
//     write to the store and the [Translate] to apply to the rendered element.
//   - [CommitResize]: the resize end. Returns the resting rectangle; there is
//     no transform once the gesture is over.
//
// # Gesture-start snapshot
//
// A resize is always computed relative to the rectangle captured when the
// gesture began, never relative to the rectangle produced by the previous
// frame. [NewSnapshot] freezes that rectangle together with the parent bounds
// and the active [Handle]; the same [Snapshot] value is passed to every
// [Resize] call and to [CommitResize]. Recomputing from the live rectangle
// compounds the translate delta on every frame and makes the tile drift.
//
// # Clamping rules
//
// Resize clamps the far edges: a frame that would push the bottom or right
// edge past the parent is shortened to end exactly on it. The near edges are
// clamped at zero, and when that happens the translate along that axis
// collapses to zero so the rendered element does not fight the clamp.
//
// Drag does not clamp the far edges. A tile can be dragged partly out of the
// bottom or right of the canvas; the resize path is the only one that keeps
// the far-edge invariant.
//
// # Ratios
//
// During a resize the translate reported by the pointer is rescaled by the
// ratio between the clamped size and the element's rendered size before the
// frame. A rendered size of zero yields a ratio of 1.
//
// # Pointer translation
//
// [PointerFrame] and [DragProposal] turn a pointer displacement since the
// gesture start into the frame a resizable/draggable element would report,
// and [HitTest] finds the handle under a point. Together they let surfaces
// without a native resize widget (the terminal canvas, replay scripts) drive
// the engine.
package geometry
