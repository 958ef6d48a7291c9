// Package render defines the drawing façade network drawings are replayed on.
//
// # Overview
//
// A [Device] is a minimal vector canvas modeled on a diagramming application:
// shapes are created by DrawLine, DrawOval, DrawRectangle and DrawText, return
// an opaque [Shape] handle, and are styled afterwards through that handle.
// Shapes can be collected with Select and combined with Group.
//
// Coordinates are in drawing units (model units divided by
// [geom.DrawingUnit]); the device maps them to paper using the scale set with
// SetScale.
//
// Implementations:
//
//   - [svg] renders to SVG with github.com/ajstarks/svgo
//   - [Recorder] keeps the call sequence, for tests and inspection
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert SVG output to other formats using the external
// rsvg-convert tool (from librsvg).
//
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// [svg]: github.com/matzehuels/drainplan/pkg/render/svg
// [geom.DrawingUnit]: github.com/matzehuels/drainplan/pkg/geom#DrawingUnit
package render
