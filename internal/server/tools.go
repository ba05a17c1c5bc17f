package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

var dpiProperties = map[string]interface{}{
	"dpi": map[string]interface{}{
		"type":        "number",
		"description": "Resolution for both axes. Overridden per axis by dpi_x and dpi_y. Defaults to the server's configured DPI.",
	},
	"dpi_x": map[string]interface{}{
		"type":        "number",
		"description": "Horizontal resolution in dots per inch",
	},
	"dpi_y": map[string]interface{}{
		"type":        "number",
		"description": "Vertical resolution in dots per inch",
	},
	"preset": map[string]interface{}{
		"type":        "string",
		"enum":        []string{"screen", "thermal", "print"},
		"description": "Named resolution, used when no numeric dpi is given",
	},
}

func withDPI(props map[string]interface{}) map[string]interface{} {
	for k, v := range dpiProperties {
		props[k] = v
	}
	return props
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Rendering
		{
			Name:        "template_render",
			Description: "Render an XML UI template bound to JSON data into a raster image at a given DPI. Sizes in the template are 1/96 inch units; the image is sized to the template's natural layout.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withDPI(map[string]interface{}{
					"template": map[string]interface{}{
						"type":        "string",
						"description": "Template markup, e.g. <Border Width=\"300\"><TextBlock Text=\"{Binding Name}\"/></Border>",
					},
					"data": map[string]interface{}{
						"description": "Value bound to the template root (any JSON value)",
					},
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional file to write the image to instead of returning it inline",
					},
				}),
				"required": []string{"template"},
			},
		},
		{
			Name:        "pixel_dimensions",
			Description: "Compute the pixel size a layout size (in 1/96 inch units) maps to at a given DPI. Fractional pixels are truncated.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withDPI(map[string]interface{}{
					"width": map[string]interface{}{
						"type":        "number",
						"description": "Layout width in device-independent units",
					},
					"height": map[string]interface{}{
						"type":        "number",
						"description": "Layout height in device-independent units",
					},
				}),
				"required": []string{"width", "height"},
			},
		},
		{
			Name:        "dpi_presets",
			Description: "List the named resolutions accepted by the preset argument.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},

		// Output Inspection
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_sample_color",
			Description: "Get the exact color value at a specific pixel coordinate.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file, or a data: URI",
					},
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate (0-based, from left)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate (0-based, from top)",
					},
				},
				"required": []string{"path", "x", "y"},
			},
		},
		{
			Name:        "image_sample_colors_multi",
			Description: "Sample colors at multiple points in one call.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file, or a data: URI",
					},
					"points": map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"x":     map[string]interface{}{"type": "integer"},
								"y":     map[string]interface{}{"type": "integer"},
								"label": map[string]interface{}{"type": "string"},
							},
							"required": []string{"x", "y"},
						},
						"description": "Points to sample",
					},
				},
				"required": []string{"path", "points"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
