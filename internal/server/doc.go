// Package server implements the MCP (Model Context Protocol) server for
// template rendering.
//
// This package provides a JSON-RPC 2.0 server that exposes the renderer
// through the MCP protocol, so an MCP client can turn a data-bound UI
// template into a label or receipt image and inspect the result.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Rendering:
//   - template_render: Render a template with bound data at a DPI
//   - pixel_dimensions: Map a layout size to pixels at a DPI
//   - dpi_presets: List named resolutions
//
// Output Inspection:
//   - image_dimensions: Get width and height of an image file
//   - image_sample_color: Get color at pixel
//   - image_sample_colors_multi: Sample multiple points
//
// # Rendering
//
// Every template_render call is an independent render with its own
// execution thread. Nothing is cached between calls. The image is returned
// as an MCP image content item unless output_path is given, in which case
// it is written to that file and only its description is returned.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
//	srv := server.New(server.Options{Renderer: render.New()})
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
