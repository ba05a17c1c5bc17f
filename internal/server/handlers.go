package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"os"

	"github.com/ironsheep/template-render/internal/dpi"
	"github.com/ironsheep/template-render/internal/imaging"
	"github.com/ironsheep/template-render/internal/render"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "template_render").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Rendered images returned inline add a second content item of type
// "image". Tool execution errors return a JSON-RPC error response with
// code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.log.WithField("tool", params.Name).WithError(err).Info("Tool execution failed")
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	content := []map[string]interface{}{
		{
			"type": "text",
			"text": mustMarshalJSON(result),
		},
	}
	if r, ok := result.(*RenderResult); ok && r.data != nil {
		content = append(content, map[string]interface{}{
			"type":     "image",
			"data":     base64.StdEncoding.EncodeToString(r.data),
			"mimeType": r.MimeType,
		})
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": content,
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Rendering
	case "template_render":
		return s.handleTemplateRender(args)
	case "pixel_dimensions":
		return s.handlePixelDimensions(args)
	case "dpi_presets":
		return dpi.Presets(), nil

	// Output Inspection
	case "image_dimensions":
		return s.handleImageDimensions(args)
	case "image_sample_color":
		return s.handleImageSampleColor(args)
	case "image_sample_colors_multi":
		return s.handleImageSampleColorsMulti(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Resolution Arguments ===

type dpiArgs struct {
	DPI    float64 `json:"dpi"`
	DpiX   float64 `json:"dpi_x"`
	DpiY   float64 `json:"dpi_y"`
	Preset string  `json:"preset"`
}

// resolveDPI applies, in increasing precedence, the server default, the
// preset, dpi, and the per-axis values.
func (s *Server) resolveDPI(a dpiArgs) (float64, float64, error) {
	base := s.defaultDPI
	if a.Preset != "" {
		d, ok := dpi.Lookup(a.Preset)
		if !ok {
			return 0, 0, fmt.Errorf("unknown dpi preset %q", a.Preset)
		}
		base = d
	}
	if a.DPI != 0 {
		base = a.DPI
	}
	x, y := base, base
	if a.DpiX != 0 {
		x = a.DpiX
	}
	if a.DpiY != 0 {
		y = a.DpiY
	}
	if x <= 0 || y <= 0 {
		return 0, 0, fmt.Errorf("dpi must be positive, got %vx%v", x, y)
	}
	return x, y, nil
}

// === Rendering Handlers ===

type templateRenderArgs struct {
	dpiArgs
	Template   string          `json:"template"`
	Data       json.RawMessage `json:"data"`
	OutputPath string          `json:"output_path"`
}

// RenderResult describes a rendered image.
type RenderResult struct {
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	DpiX       float64 `json:"dpi_x"`
	DpiY       float64 `json:"dpi_y"`
	MimeType   string  `json:"mime_type"`
	Bytes      int     `json:"bytes"`
	OutputPath string  `json:"output_path,omitempty"`

	// data is returned as an image content item when no output path was
	// given.
	data []byte
}

func (s *Server) handleTemplateRender(args json.RawMessage) (interface{}, error) {
	var a templateRenderArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	dpiX, dpiY, err := s.resolveDPI(a.dpiArgs)
	if err != nil {
		return nil, err
	}

	var data interface{}
	if len(a.Data) > 0 {
		if err := json.Unmarshal(a.Data, &data); err != nil {
			return nil, fmt.Errorf("invalid data: %w", err)
		}
	}

	out, err := s.renderer.Render(context.Background(), render.Request{
		Template:    []byte(a.Template),
		DataContext: data,
		DpiX:        dpiX,
		DpiY:        dpiY,
	})
	if err != nil {
		return nil, err
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		return nil, fmt.Errorf("failed to read rendered image: %w", err)
	}
	result := &RenderResult{
		Width:    cfg.Width,
		Height:   cfg.Height,
		DpiX:     dpiX,
		DpiY:     dpiY,
		MimeType: s.mimeType,
		Bytes:    len(out),
	}

	if a.OutputPath == "" {
		result.data = out
		return result, nil
	}
	if err := os.WriteFile(a.OutputPath, out, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", a.OutputPath, err)
	}
	result.OutputPath = a.OutputPath
	return result, nil
}

type pixelDimensionsArgs struct {
	dpiArgs
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (s *Server) handlePixelDimensions(args json.RawMessage) (interface{}, error) {
	var a pixelDimensionsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	dpiX, dpiY, err := s.resolveDPI(a.dpiArgs)
	if err != nil {
		return nil, err
	}
	return dpi.Dimensions(a.Width, a.Height, dpiX, dpiY), nil
}

// === Output Inspection Handlers ===

type imagePathArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imagePathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(a.Path)
}

type imageSampleColorArgs struct {
	Path string `json:"path"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

func (s *Server) handleImageSampleColor(args json.RawMessage) (interface{}, error) {
	var a imageSampleColorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := imaging.LoadSource(a.Path, "")
	if err != nil {
		return nil, err
	}
	return imaging.SampleColor(img, a.X, a.Y)
}

type imageSampleColorsMultiArgs struct {
	Path   string `json:"path"`
	Points []struct {
		X     int    `json:"x"`
		Y     int    `json:"y"`
		Label string `json:"label,omitempty"`
	} `json:"points"`
}

func (s *Server) handleImageSampleColorsMulti(args json.RawMessage) (interface{}, error) {
	var a imageSampleColorsMultiArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := imaging.LoadSource(a.Path, "")
	if err != nil {
		return nil, err
	}

	points := make([]imaging.LabeledPoint, len(a.Points))
	for i, p := range a.Points {
		points[i] = imaging.LabeledPoint{X: p.X, Y: p.Y, Label: p.Label}
	}
	return imaging.SampleColors(img, points)
}
