// Package imaging provides the pixel-level pieces of the render pipeline:
// the offscreen surface templates are drawn into, the encoders that turn a
// surface into an image file, decoding of bitmaps referenced by templates,
// and pixel sampling used to inspect rendered output.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based with (0,0) at the
// top-left corner, X increasing rightward and Y increasing downward.
//
// # Surface Format
//
// Surface stores 32 bits per pixel in B, G, R, A byte order with
// premultiplied alpha. It implements draw.Image, so any drawing code that
// targets image/draw can write into it; reads return color.RGBA, which is
// also premultiplied, so no precision is lost converting between them.
//
// # Encoders
//
// Only lossless, single-frame formats are offered: PNG (the default), BMP
// and TIFF. ThresholdEncoder wraps another encoder and reduces the image to
// black and white first, which is what direct thermal printers print.
//
// # Thread Safety
//
// A Surface is not safe for concurrent mutation. Encoders hold no mutable
// state and may be shared between goroutines.
package imaging
