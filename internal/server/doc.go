// Package server implements the MCP (Model Context Protocol) server for
// line-segment grouping.
//
// # Protocol
//
// The server speaks JSON-RPC 2.0, one message per line:
//   - Input: requests on stdin
//   - Output: responses on stdout
//
// Supported MCP methods are initialize, tools/list, tools/call and ping.
// Logs go to stderr through the injected zap logger.
//
// # Tools
//
// Image information:
//   - image_load: dimensions, format and file size
//   - image_dimensions: width and height
//
// Detection:
//   - image_detect_lines: Hough line segments, split at gaps
//
// Segment operations:
//   - segments_slopes: stabilized slopes and an optional slope-band mask
//   - segments_group: proximity/orientation grouping with length and count
//     filters, optionally charted
//
// Pipelines:
//   - image_group_lines: detect then group, optionally rendering an overlay
//   - frames_group_lines: the same over every n-th frame of a GIF or a frame
//     directory, optionally as a labelled montage
//
// Grouping arguments left out of a call, or given as zero, take the values
// from the server configuration. Rendered images follow the JSON text as
// MCP image content items.
//
// # Errors
//
// Tool failures return code -32000 with the Go error string in data.
// Malformed tools/call params return -32602, unknown methods -32601 and
// unparseable lines -32700.
//
// # Usage
//
//	srv := server.New(cfg, logger)
//	if err := srv.Run(ctx); err != nil {
//		logger.Fatal("server error", zap.Error(err))
//	}
package server
