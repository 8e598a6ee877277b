// Package frames reads image sequences for per-frame line grouping.
//
// A Source yields frames in order and returns io.EOF after the last one.
// Open picks a Source from a path: a directory of image files, an animated
// GIF, or a single still image. Sample walks a Source and hands every n-th
// frame to a callback.
package frames
