// Package render turns a data-bound template into an encoded raster image
// without displaying it.
//
// A render request goes through a fixed pipeline: the template is loaded
// into a visual tree, the caller's data is bound to the root, the tree is
// measured with unlimited space and arranged at its desired size, the
// result is drawn once into a premultiplied BGRA surface sized for the
// requested DPI, and the surface is encoded.
//
// # Execution
//
// Every request runs on its own dispatch.Dispatcher, so the tree is created,
// used and torn down on one dedicated OS thread that exits with the
// request. Nothing is shared between requests and nothing is cached.
//
// Renderer.RenderAsync returns a Future immediately. The number of
// requests executing at once is bounded; requests beyond the bound wait for
// a slot in their own goroutine, never in the caller's.
//
// # Errors
//
// Template problems are reported as *TemplateLoadError. Failures in later
// stages, including recovered panics in template code, are reported as
// *RenderFailure naming the stage. A pipeline that completes without bytes
// yields ErrNoResult.
//
// # Pixel size
//
// Sizes in a template are device-independent pixels (1/96 inch). The output
// is dpi.ToPixels(RenderSize, dpi) pixels in each direction, truncated.
package render
