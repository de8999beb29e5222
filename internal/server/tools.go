package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// pathProperty is the schema shared by every tool that reads an image.
var pathProperty = map[string]interface{}{
	"type":        "string",
	"description": "Absolute path to the image file",
}

// pipelineProperties returns the schema of the optional text mask overrides,
// plus any tool-specific properties.
func pipelineProperties(extra map[string]interface{}) map[string]interface{} {
	props := map[string]interface{}{
		"path": pathProperty,
		"padding": map[string]interface{}{
			"type":        "integer",
			"description": "Black border added on every side before edge detection. Default 50",
		},
		"canny_low": map[string]interface{}{
			"type":        "number",
			"description": "Canny hysteresis low threshold. Default 200",
		},
		"canny_high": map[string]interface{}{
			"type":        "number",
			"description": "Canny hysteresis high threshold. Default 250",
		},
		"blur_radius": map[string]interface{}{
			"type":        "number",
			"description": "Gaussian blur radius applied before edge detection. Default 0 (off)",
		},
		"traversal": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"strict", "compat"},
			"description": "How contour index 0 is treated in hierarchy walks. Default strict",
		},
	}
	for k, v := range extra {
		props[k] = v
	}
	return props
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions and format. The image stays cached for subsequent operations.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},

		// Text Mask
		{
			Name:        "textmask_compute",
			Description: "Compute a binary text mask for a photographed plate or sign. Returns the mask as base64 PNG together with contour and region counts. The mask is larger than the source by the padding on every side.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": pipelineProperties(nil),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "textmask_regions",
			Description: "List the contours accepted as text glyphs, with bounding boxes (in padded coordinates), descendant counts and the foreground/background estimate each was binarized with. Set all=true to also get the decision for every contour.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": pipelineProperties(map[string]interface{}{
					"all": map[string]interface{}{
						"type":        "boolean",
						"description": "Include the selector decision for every contour. Default false",
						"default":     false,
					},
				}),
				"required": []string{"path"},
			},
		},
		{
			Name:        "textmask_edges",
			Description: "Return the combined per-channel Canny edge map the text mask is built from, as base64 PNG.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": pipelineProperties(nil),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "textmask_annotate",
			Description: "Draw each accepted text region's box, numbered in selection order, over the padded image. Returns base64 PNG.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": pipelineProperties(nil),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "textmask_region_crop",
			Description: "Crop one accepted text region out of the mask (or the padded image) for closer inspection or OCR.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": pipelineProperties(map[string]interface{}{
					"region": map[string]interface{}{
						"type":        "integer",
						"description": "Position of the region in the textmask_regions list (0-based)",
					},
					"margin": map[string]interface{}{
						"type":        "integer",
						"description": "Extra pixels around the region box. Default 2",
						"default":     2,
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor (e.g., 2.0 to double size). Default 1.0",
						"default":     1.0,
					},
					"source": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"mask", "image"},
						"description": "Crop the binary mask or the padded source image. Default mask",
						"default":     "mask",
					},
				}),
				"required": []string{"path", "region"},
			},
		},

		// Plate Bounds
		{
			Name:        "plate_bounds",
			Description: "Threshold the image (Otsu, inverted), erode it, and fit the minimum-area rotated rectangle around the remaining dark foreground. Returns the rectangle and optionally the eroded image with the rectangle drawn.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"erode_radius": map[string]interface{}{
						"type":        "number",
						"description": "Erosion radius. Default 1; 0 disables erosion",
					},
					"include_image": map[string]interface{}{
						"type":        "boolean",
						"description": "Return the annotated binary image as base64 PNG. Default false",
						"default":     false,
					},
				},
				"required": []string{"path"},
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
