// Package visual defines the capabilities a template root must provide to be
// rendered, and the layout geometry shared by the renderer and the template
// engine.
//
// # Units
//
// All sizes and positions are in device-independent units (1/96 inch) with
// the origin at the top-left corner, X increasing rightward and Y increasing
// downward. Conversion to pixels happens only when a surface is allocated;
// see package dpi.
//
// # Capabilities
//
// Node is the "positionable and sizeable" capability: a node can be measured
// against an available size, arranged into a final rectangle, carries a data
// context slot, and can be told that it has been unloaded. Layout is the
// measurement half of that contract, split out so that layout helpers can
// operate on children without caring about data binding.
//
// # Thread Safety
//
// Nodes are not safe for concurrent use. All calls on a node tree must be
// made from the execution context that created it.
package visual
