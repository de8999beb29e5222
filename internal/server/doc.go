// Package server implements the MCP (Model Context Protocol) server for the
// text mask tools.
//
// This package provides a JSON-RPC 2.0 server that exposes the textmask
// pipeline through the MCP protocol, so MCP clients can isolate the text of
// a photographed plate or sign before reading it.
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
// Basic Image Information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//
// Text Mask:
//   - textmask_compute: Binary text mask as base64 PNG
//   - textmask_regions: Accepted glyph regions and their intensity estimates
//   - textmask_edges: The combined Canny edge map
//   - textmask_annotate: Region boxes drawn over the padded image
//   - textmask_region_crop: One region cut from the mask or the image
//
// Plate Bounds:
//   - plate_bounds: Minimum-area rotated rectangle around the dark foreground
//
// Every textmask tool accepts padding, canny_low, canny_high, blur_radius and
// traversal overrides. Omitted values come from the configuration the server
// was started with (see WithConfig). All coordinates in results are in the
// padded image.
//
// # Image Caching
//
// The server maintains an in-memory cache of loaded images. Images are cached
// by path and reused across multiple tool calls, avoiding redundant disk I/O.
// Pipeline results are not cached; each call recomputes them.
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
//	srv := server.New(server.WithConfig(cfg), server.WithLogger(log))
//	if err := srv.Run(); err != nil {
//	    log.Fatal().Err(err).Msg("server stopped")
//	}
//
// Logs must go to stderr; stdout carries the protocol.
package server
