// Package pkg provides the core libraries for tileboard.
//
// # Overview
//
// Tileboard places image tiles on a bounded canvas and lets a user drag and
// resize them. The pkg directory is organized by concern:
//
//  1. [geometry] - Pure drag and resize math (snapshots, handles, clamping)
//  2. [tile] - Tile records and the ordered tile store
//  3. [canvas] - Gesture lifecycle, selection and tile creation
//  4. [imagesource] - Image URL lists, fetched over HTTP or configured
//  5. [render] - SVG and JSON snapshots of a canvas
//  6. [cache], [config], [errors], [httputil], [observability] - Infrastructure
//
// # Data Flow
//
//	pointer down    → canvas.BeginResize   (freeze a geometry.Snapshot)
//	pointer moves   → canvas.Resize        (rect + visual transform per frame)
//	pointer up      → canvas.EndResize     (clamped, committed rect)
//
// Interaction layers (the terminal UI and the HTTP API under internal/) only
// translate their input into these calls.
//
// [geometry]: github.com/matzehuels/tileboard/pkg/geometry
// [tile]: github.com/matzehuels/tileboard/pkg/tile
// [canvas]: github.com/matzehuels/tileboard/pkg/canvas
// [imagesource]: github.com/matzehuels/tileboard/pkg/imagesource
// [render]: github.com/matzehuels/tileboard/pkg/render
// [cache]: github.com/matzehuels/tileboard/pkg/cache
// [config]: github.com/matzehuels/tileboard/pkg/config
// [errors]: github.com/matzehuels/tileboard/pkg/errors
// [httputil]: github.com/matzehuels/tileboard/pkg/httputil
// [observability]: github.com/matzehuels/tileboard/pkg/observability
package pkg
