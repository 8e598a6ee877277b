package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty(desc string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": desc,
	}
}

func segmentsProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "array",
		"description": "Line segments as [x1, y1, x2, y2] rows",
		"items": map[string]interface{}{
			"type":     "array",
			"items":    map[string]interface{}{"type": "number"},
			"minItems": 4,
			"maxItems": 4,
		},
	}
}

func detectionProperties(props map[string]interface{}) {
	props["min_length"] = map[string]interface{}{
		"type":        "integer",
		"description": "Shortest detected segment in pixels. Default from server config (20)",
	}
	props["max_gap"] = map[string]interface{}{
		"type":        "integer",
		"description": "Largest gap in pixels bridged along a line before it is split. Default 5",
	}
}

// groupingProperties adds the grouping arguments shared by every grouping
// tool. Omitted or zero values use the server configuration.
func groupingProperties(props map[string]interface{}) {
	props["relation"] = map[string]interface{}{
		"type":        "string",
		"description": "Which relation links two segments. Default both",
		"enum":        []string{"proximity", "orientation", "both", "either"},
	}
	props["radius"] = map[string]interface{}{
		"type":        "number",
		"description": "Endpoint distance in pixels below which two segments are near. Default 5",
	}
	props["angle_threshold"] = map[string]interface{}{
		"type":        "number",
		"description": "Angle in degrees below which two segments are parallel. Default 30",
	}
	props["epsilon"] = map[string]interface{}{
		"type":        "number",
		"description": "Added to dx before dividing to keep vertical slopes finite. Default 1e-7",
	}
	props["min_count"] = map[string]interface{}{
		"type":        "integer",
		"description": "Keep groups with at least this many segments. Default 2; use 1 to keep all",
	}
	props["min_length_sq"] = map[string]interface{}{
		"type":        "number",
		"description": "Keep groups whose summed squared segment length exceeds this. Default 0 (off)",
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	segmentsGroupProps := map[string]interface{}{
		"segments": segmentsProperty(),
		"plot": map[string]interface{}{
			"type":        "boolean",
			"description": "Also return a PNG chart of the groups",
			"default":     false,
		},
	}
	groupingProperties(segmentsGroupProps)

	imageGroupProps := map[string]interface{}{
		"path": pathProperty("Absolute path to the image file"),
		"render": map[string]interface{}{
			"type":        "boolean",
			"description": "Also return the image with each group drawn in its own colour",
			"default":     false,
		},
		"line_width": map[string]interface{}{
			"type":        "number",
			"description": "Overlay stroke width in pixels. Default 3",
		},
	}
	detectionProperties(imageGroupProps)
	groupingProperties(imageGroupProps)

	framesProps := map[string]interface{}{
		"path": pathProperty("Absolute path to an animated GIF, a directory of frames, or a single image"),
		"every": map[string]interface{}{
			"type":        "integer",
			"description": "Process every n-th frame. Default from server config (1)",
		},
		"montage": map[string]interface{}{
			"type":        "boolean",
			"description": "Also return a labelled grid of the frame overlays",
			"default":     false,
		},
		"montage_columns": map[string]interface{}{
			"type":        "integer",
			"description": "Frames per montage row, at most 50. Default 4",
		},
		"tile_width": map[string]interface{}{
			"type":        "integer",
			"description": "Montage cell width in pixels. Default 320",
		},
	}
	detectionProperties(framesProps)
	groupingProperties(framesProps)

	detectProps := map[string]interface{}{
		"path": pathProperty("Absolute path to the image file"),
		"max_lines": map[string]interface{}{
			"type":        "integer",
			"description": "Maximum number of segments returned. Default 200",
		},
	}
	detectionProperties(detectProps)

	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format and file size. The image stays cached for later calls.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to the image file"),
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
					"path": pathProperty("Absolute path to the image file"),
				},
				"required": []string{"path"},
			},
		},

		// Detection
		{
			Name:        "image_detect_lines",
			Description: "Detect straight line segments with a Hough transform. Dashed lines come back as one segment per dash. Returns the lines and the same segments as [x1, y1, x2, y2] rows ready for segments_group.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": detectProps,
				"required":   []string{"path"},
			},
		},

		// Segment Operations
		{
			Name:        "segments_slopes",
			Description: "Compute dy / (dx + epsilon) for each segment. Optional bounds return a mask of segments whose slope lies strictly between them.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"segments": segmentsProperty(),
					"epsilon": map[string]interface{}{
						"type":        "number",
						"description": "Stabilizer added to dx. Default 1e-7",
					},
					"machine_epsilon": map[string]interface{}{
						"type":        "boolean",
						"description": "Use single-precision machine epsilon (2^-23) as the stabilizer",
						"default":     false,
					},
					"min_slope": map[string]interface{}{
						"type":        "number",
						"description": "Exclusive lower slope bound for the mask",
					},
					"max_slope": map[string]interface{}{
						"type":        "number",
						"description": "Exclusive upper slope bound for the mask",
					},
				},
				"required": []string{"segments"},
			},
		},
		{
			Name:        "segments_group",
			Description: "Group line segments that are near each other, parallel, or both, then drop groups that are too short or too small. Groups are lists of input indices.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": segmentsGroupProps,
				"required":   []string{"segments"},
			},
		},

		// Pipelines
		{
			Name:        "image_group_lines",
			Description: "Detect line segments in an image and group them, e.g. collect lane-marking dashes into lanes.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": imageGroupProps,
				"required":   []string{"path"},
			},
		},
		{
			Name:        "frames_group_lines",
			Description: "Run image_group_lines on every n-th frame of an animated GIF or a directory of frames and summarise the groups per frame.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": framesProps,
				"required":   []string{"path"},
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
