package server

import (
	"encoding/json"
	"fmt"

	"github.com/ironsheep/textmask/internal/detection"
	"github.com/ironsheep/textmask/internal/imaging"
	"github.com/ironsheep/textmask/internal/textmask"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "textmask_compute").
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
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.log.Warn().Err(err).Str("tool", params.Name).Msg("tool call failed")
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies per-call overrides on top of the server configuration
//  3. Loads images from cache as needed
//  4. Runs the textmask or detection pipeline
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Text Mask
	case "textmask_compute":
		return s.handleTextMaskCompute(args)
	case "textmask_regions":
		return s.handleTextMaskRegions(args)
	case "textmask_edges":
		return s.handleTextMaskEdges(args)
	case "textmask_annotate":
		return s.handleTextMaskAnnotate(args)
	case "textmask_region_crop":
		return s.handleTextMaskRegionCrop(args)

	// Plate Bounds
	case "plate_bounds":
		return s.handlePlateBounds(args)

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

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path, s.cfg.Padding)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Text Mask Handlers ===

// pipelineArgs are the arguments every textmask tool accepts. Nil and empty
// fields fall back to the server configuration.
type pipelineArgs struct {
	Path       string   `json:"path"`
	Padding    *int     `json:"padding"`
	CannyLow   *float64 `json:"canny_low"`
	CannyHigh  *float64 `json:"canny_high"`
	BlurRadius *float64 `json:"blur_radius"`
	Traversal  string   `json:"traversal"`
}

// options merges a over the server configuration.
func (s *Server) options(a pipelineArgs) (textmask.Options, error) {
	cfg := *s.cfg
	if a.Padding != nil {
		cfg.Padding = *a.Padding
	}
	if a.CannyLow != nil {
		cfg.Canny.Low = *a.CannyLow
	}
	if a.CannyHigh != nil {
		cfg.Canny.High = *a.CannyHigh
	}
	if a.BlurRadius != nil {
		cfg.Canny.BlurRadius = *a.BlurRadius
	}
	if a.Traversal != "" {
		cfg.Traversal = a.Traversal
	}
	if err := cfg.Validate(); err != nil {
		return textmask.Options{}, err
	}
	return cfg.TextMaskOptions(&s.log)
}

// computeTextMask loads a.Path through the cache and runs the pipeline on it.
func (s *Server) computeTextMask(a pipelineArgs) (*textmask.Result, error) {
	if a.Path == "" {
		return nil, fmt.Errorf("path is required")
	}
	opts, err := s.options(a)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return textmask.ComputeTextMask(img, opts)
}

// TextMaskResult is returned by textmask_compute.
type TextMaskResult struct {
	*imaging.EncodedImage
	SourceWidth  int `json:"source_width"`
	SourceHeight int `json:"source_height"`
	Padding      int `json:"padding"`
	Contours     int `json:"contours"`
	Regions      int `json:"regions"`
}

func (s *Server) handleTextMaskCompute(args json.RawMessage) (interface{}, error) {
	var a pipelineArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	res, err := s.computeTextMask(a)
	if err != nil {
		return nil, err
	}
	enc, err := imaging.EncodePNG(res.Mask)
	if err != nil {
		return nil, err
	}
	src := res.Padded.Bounds().Inset(res.Padding)
	return &TextMaskResult{
		EncodedImage: enc,
		SourceWidth:  src.Dx(),
		SourceHeight: src.Dy(),
		Padding:      res.Padding,
		Contours:     res.Contours,
		Regions:      len(res.Regions),
	}, nil
}

// RegionInfo describes one accepted region.
type RegionInfo struct {
	Index          int              `json:"index"`
	Bounds         detection.Bounds `json:"bounds"`
	Points         int              `json:"points"`
	NumChildren    int              `json:"num_children"`
	Foreground     float64          `json:"foreground"`
	Background     float64          `json:"background"`
	BrightText     bool             `json:"bright_text"`
	ForegroundFill uint8            `json:"foreground_fill"`
	BackgroundFill uint8            `json:"background_fill"`
}

// RegionsResult is returned by textmask_regions.
type RegionsResult struct {
	Padding   int                  `json:"padding"`
	Contours  int                  `json:"contours"`
	Regions   []RegionInfo         `json:"regions"`
	Decisions []detection.Decision `json:"decisions,omitempty"`
}

type textMaskRegionsArgs struct {
	pipelineArgs
	All bool `json:"all"`
}

func (s *Server) handleTextMaskRegions(args json.RawMessage) (interface{}, error) {
	var a textMaskRegionsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	res, err := s.computeTextMask(a.pipelineArgs)
	if err != nil {
		return nil, err
	}

	out := &RegionsResult{
		Padding:  res.Padding,
		Contours: res.Contours,
		Regions:  regionInfos(res),
	}
	if a.All {
		opts, err := s.options(a.pipelineArgs)
		if err != nil {
			return nil, err
		}
		out.Decisions = detection.Evaluate(res.Forest, res.Padded.Bounds().Size(), opts.Detection)
	}
	return out, nil
}

// regionInfos pairs each accepted region with the estimate it was painted
// with. Regions without points have no estimate.
func regionInfos(res *textmask.Result) []RegionInfo {
	infos := make([]RegionInfo, 0, len(res.Regions))
	e := 0
	for _, r := range res.Regions {
		info := RegionInfo{
			Index:       r.Index,
			Bounds:      detection.BoundsOf(r.Box),
			Points:      len(r.Points),
			NumChildren: r.NumChildren,
		}
		if len(r.Points) > 0 && e < len(res.Estimates) {
			est := res.Estimates[e]
			e++
			info.Foreground = est.Foreground
			info.Background = est.Background
			info.BrightText = est.BrightText()
			info.ForegroundFill = est.ForegroundFill
			info.BackgroundFill = est.BackgroundFill
		}
		infos = append(infos, info)
	}
	return infos
}

func (s *Server) handleTextMaskEdges(args json.RawMessage) (interface{}, error) {
	var a pipelineArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	res, err := s.computeTextMask(a)
	if err != nil {
		return nil, err
	}
	return imaging.EncodePNG(res.Edges)
}

// AnnotateResult is returned by textmask_annotate.
type AnnotateResult struct {
	*imaging.EncodedImage
	Regions []detection.Bounds `json:"regions"`
}

func (s *Server) handleTextMaskAnnotate(args json.RawMessage) (interface{}, error) {
	var a pipelineArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	res, err := s.computeTextMask(a)
	if err != nil {
		return nil, err
	}
	enc, err := imaging.EncodePNG(res.Annotated())
	if err != nil {
		return nil, err
	}
	bounds := make([]detection.Bounds, len(res.Regions))
	for i, r := range res.Regions {
		bounds[i] = detection.BoundsOf(r.Box)
	}
	return &AnnotateResult{EncodedImage: enc, Regions: bounds}, nil
}

type textMaskRegionCropArgs struct {
	pipelineArgs
	Region *int    `json:"region"`
	Margin *int    `json:"margin"`
	Scale  float64 `json:"scale"`
	Source string  `json:"source"`
}

// RegionCropResult is returned by textmask_region_crop.
type RegionCropResult struct {
	*imaging.EncodedImage
	Region RegionInfo `json:"region"`
}

func (s *Server) handleTextMaskRegionCrop(args json.RawMessage) (interface{}, error) {
	var a textMaskRegionCropArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Region == nil {
		return nil, fmt.Errorf("region is required")
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	margin := 2
	if a.Margin != nil {
		margin = *a.Margin
	}

	res, err := s.computeTextMask(a.pipelineArgs)
	if err != nil {
		return nil, err
	}
	n := *a.Region
	if n < 0 || n >= len(res.Regions) {
		return nil, fmt.Errorf("region %d out of range: %d regions accepted", n, len(res.Regions))
	}

	var enc *imaging.EncodedImage
	switch a.Source {
	case "", "mask":
		enc, err = imaging.CropRegion(res.Mask, res.Regions[n].Box, margin, a.Scale)
	case "image":
		enc, err = imaging.CropRegion(res.Padded, res.Regions[n].Box, margin, a.Scale)
	default:
		return nil, fmt.Errorf("invalid source: %s (use mask or image)", a.Source)
	}
	if err != nil {
		return nil, err
	}
	return &RegionCropResult{EncodedImage: enc, Region: regionInfos(res)[n]}, nil
}

// === Plate Bounds Handlers ===

type plateBoundsArgs struct {
	Path         string   `json:"path"`
	ErodeRadius  *float64 `json:"erode_radius"`
	IncludeImage bool     `json:"include_image"`
}

// PlateBoundsResult is returned by plate_bounds.
type PlateBoundsResult struct {
	*detection.PlateResult
	Image *imaging.EncodedImage `json:"image,omitempty"`
}

func (s *Server) handlePlateBounds(args json.RawMessage) (interface{}, error) {
	var a plateBoundsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	cfg := *s.cfg
	if a.ErodeRadius != nil {
		cfg.Plate.ErodeRadius = *a.ErodeRadius
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	plate, err := detection.PlateBounds(img, cfg.PlateOptions())
	if err != nil {
		return nil, err
	}

	out := &PlateBoundsResult{PlateResult: plate}
	if a.IncludeImage {
		if out.Image, err = imaging.EncodePNG(plate.Image); err != nil {
			return nil, err
		}
	}
	return out, nil
}
