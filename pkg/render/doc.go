// Package render provides visual output for cost-prize trees and budget curves.
//
// # Overview
//
//   - Node-link diagrams of labeled trees (in the [nodelink] subpackage)
//   - Terminal tables of budget curves ([CurveTable])
//   - Generic format conversion (SVG to PDF/PNG)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg).
//
//	svg, err := nodelink.RenderSVG(dot)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
package render
