package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/ironsheep/line-grouping-mcp/internal/detection"
	"github.com/ironsheep/line-grouping-mcp/internal/frames"
	"github.com/ironsheep/line-grouping-mcp/internal/imaging"
	"github.com/ironsheep/line-grouping-mcp/internal/segments"
)

// Montage and plot defaults.
const (
	defaultMontageColumns = 4
	defaultTileWidth      = 320
	defaultPlotWidth      = 640
	defaultPlotHeight     = 480
)

// errMissingPath is returned by tools that need an image path.
var errMissingPath = errors.New("path is required")

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "segments_group").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// imageContent is an MCP image content item.
type imageContent struct {
	Type     string `json:"type"`
	Data     string `json:"data"`
	MimeType string `json:"mimeType"`
}

// imageResult is implemented by tool results that carry rendered images.
// The images are sent as separate MCP image content items after the JSON
// text item.
type imageResult interface {
	images() []imageContent
}

func pngContent(data []byte) imageContent {
	return imageContent{
		Type:     "image",
		Data:     base64.StdEncoding.EncodeToString(data),
		MimeType: imaging.MimePNG,
	}
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}, {"type": "image", ...}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}
	if len(params.Arguments) == 0 {
		params.Arguments = json.RawMessage("{}")
	}

	start := time.Now()
	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		s.logger.Warn("tool failed", zap.String("tool", params.Name), zap.Error(err))
		return s.errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}

	text, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		s.logger.Error("failed to marshal tool result", zap.String("tool", params.Name), zap.Error(err))
		return s.errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}

	content := []interface{}{
		map[string]interface{}{"type": "text", "text": string(text)},
	}
	if ir, ok := result.(imageResult); ok {
		for _, img := range ir.images() {
			content = append(content, img)
		}
	}
	s.logger.Debug("tool completed",
		zap.String("tool", params.Name),
		zap.Int("content_items", len(content)),
		zap.Duration("elapsed", time.Since(start)))

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": content,
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Detection
	case "image_detect_lines":
		return s.handleImageDetectLines(args)

	// Segment Operations
	case "segments_slopes":
		return s.handleSegmentsSlopes(args)
	case "segments_group":
		return s.handleSegmentsGroup(ctx, args)

	// Pipelines
	case "image_group_lines":
		return s.handleImageGroupLines(ctx, args)
	case "frames_group_lines":
		return s.handleFramesGroupLines(ctx, args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// === Shared argument handling ===

// groupingArgs are the per-call overrides of the configured grouping
// parameters. Zero values keep the configured value.
type groupingArgs struct {
	Relation       string  `json:"relation"`
	Radius         float64 `json:"radius"`
	AngleThreshold float64 `json:"angle_threshold"`
	Epsilon        float64 `json:"epsilon"`
	MinCount       int     `json:"min_count"`
	MinLengthSq    float64 `json:"min_length_sq"`
}

// paramsView reports the effective grouping parameters of a call.
type paramsView struct {
	Relation       segments.RelationMode `json:"relation"`
	Radius         float64               `json:"radius"`
	AngleThreshold float64               `json:"angle_threshold"`
	Epsilon        float64               `json:"epsilon"`
	MinCount       int                   `json:"min_count"`
	MinLengthSq    float64               `json:"min_length_sq"`
}

func (s *Server) groupingParams(a groupingArgs) (segments.Params, error) {
	p := s.cfg.Grouping.Params()
	if a.Relation != "" {
		mode, err := segments.ParseRelationMode(a.Relation)
		if err != nil {
			return p, err
		}
		p.Relation = mode
	}
	if a.Radius != 0 {
		p.Radius = a.Radius
	}
	if a.AngleThreshold != 0 {
		p.AngleThreshold = a.AngleThreshold
	}
	if a.Epsilon != 0 {
		p.Epsilon = a.Epsilon
	}
	if a.MinCount != 0 {
		p.MinCount = a.MinCount
	}
	if a.MinLengthSq != 0 {
		p.MinLengthSq = a.MinLengthSq
	}
	return p, nil
}

func viewOf(p segments.Params) paramsView {
	eps := p.Epsilon
	if eps == 0 {
		eps = segments.DefaultEpsilon
	}
	return paramsView{
		Relation:       p.Relation,
		Radius:         p.Radius,
		AngleThreshold: p.AngleThreshold,
		Epsilon:        eps,
		MinCount:       p.MinCount,
		MinLengthSq:    p.MinLengthSq,
	}
}

// detectionArgs override the configured line detector settings.
type detectionArgs struct {
	MinLength int `json:"min_length"`
	MaxGap    int `json:"max_gap"`
	MaxLines  int `json:"max_lines"`
}

func (s *Server) detectionOptions(a detectionArgs) detection.Options {
	opts := detection.DefaultOptions()
	opts.MinLength = s.cfg.Detection.MinLength
	if a.MinLength > 0 {
		opts.MinLength = a.MinLength
	}
	if a.MaxGap > 0 {
		opts.MaxGap = a.MaxGap
	}
	if a.MaxLines > 0 {
		opts.MaxLines = a.MaxLines
	}
	return opts
}

// segmentRows converts segments back to [x1, y1, x2, y2] rows.
func segmentRows(segs []segments.Segment) [][]float64 {
	rows := make([][]float64, len(segs))
	for i, s := range segs {
		rows[i] = []float64{s.X1, s.Y1, s.X2, s.Y2}
	}
	return rows
}

// jsonFloats makes float slices with infinities JSON-safe: non-finite
// values are encoded as the strings "+Inf", "-Inf" or "NaN".
func jsonFloats(vs []float64) []interface{} {
	out := make([]interface{}, len(vs))
	for i, v := range vs {
		switch {
		case math.IsInf(v, 1):
			out[i] = "+Inf"
		case math.IsInf(v, -1):
			out[i] = "-Inf"
		case math.IsNaN(v):
			out[i] = "NaN"
		default:
			out[i] = v
		}
	}
	return out
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
	if a.Path == "" {
		return nil, errMissingPath
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errMissingPath
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Detection Handlers ===

type imageDetectLinesArgs struct {
	Path string `json:"path"`
	detectionArgs
}

type detectLinesResult struct {
	*detection.LinesResult
	Segments [][]float64 `json:"segments"`
}

func (s *Server) handleImageDetectLines(args json.RawMessage) (interface{}, error) {
	var a imageDetectLinesArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errMissingPath
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	lines, err := detection.DetectLines(img, s.detectionOptions(a.detectionArgs))
	if err != nil {
		return nil, err
	}
	return &detectLinesResult{
		LinesResult: lines,
		Segments:    segmentRows(lines.Segments()),
	}, nil
}

// === Segment Handlers ===

type segmentsSlopesArgs struct {
	Segments       [][]float64 `json:"segments"`
	Epsilon        float64     `json:"epsilon"`
	MachineEpsilon bool        `json:"machine_epsilon"`
	MinSlope       *float64    `json:"min_slope"`
	MaxSlope       *float64    `json:"max_slope"`
}

type slopesResult struct {
	Slopes  []interface{} `json:"slopes"`
	Mask    []bool        `json:"mask,omitempty"`
	Epsilon float64       `json:"epsilon"`
}

func (s *Server) handleSegmentsSlopes(args json.RawMessage) (interface{}, error) {
	var a segmentsSlopesArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	segs, err := segments.FromRows(a.Segments)
	if err != nil {
		return nil, err
	}

	eps := s.cfg.Grouping.Epsilon
	if a.Epsilon != 0 {
		eps = a.Epsilon
	}
	if a.MachineEpsilon {
		eps = segments.MachineEpsilon
	}
	opts := []segments.Option{segments.WithEpsilon(eps)}

	slopes, err := segments.Slopes(segs, opts...)
	if err != nil {
		return nil, err
	}
	res := &slopesResult{Slopes: jsonFloats(slopes), Epsilon: eps}

	if a.MinSlope != nil || a.MaxSlope != nil {
		if a.MinSlope != nil {
			opts = append(opts, segments.WithMinSlope(*a.MinSlope))
		}
		if a.MaxSlope != nil {
			opts = append(opts, segments.WithMaxSlope(*a.MaxSlope))
		}
		if res.Mask, err = segments.SlopeMask(segs, opts...); err != nil {
			return nil, err
		}
	}
	return res, nil
}

type segmentsGroupArgs struct {
	Segments [][]float64 `json:"segments"`
	Plot     bool        `json:"plot"`
	groupingArgs
}

type groupResult struct {
	*segments.Result
	SegmentCount int        `json:"segment_count"`
	Params       paramsView `json:"params"`

	plot []byte
}

func (r *groupResult) images() []imageContent {
	if len(r.plot) == 0 {
		return nil
	}
	return []imageContent{pngContent(r.plot)}
}

func (s *Server) handleSegmentsGroup(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a segmentsGroupArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	segs, err := segments.FromRows(a.Segments)
	if err != nil {
		return nil, err
	}
	p, err := s.groupingParams(a.groupingArgs)
	if err != nil {
		return nil, err
	}

	res, err := segments.Cluster(ctx, segs, p)
	if err != nil {
		return nil, err
	}
	out := &groupResult{Result: res, SegmentCount: len(segs), Params: viewOf(p)}

	if a.Plot {
		if out.plot, err = imaging.PlotGroups(segs, res.Groups, defaultPlotWidth, defaultPlotHeight); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// === Pipeline Handlers ===

type imageGroupLinesArgs struct {
	Path      string  `json:"path"`
	Render    bool    `json:"render"`
	LineWidth float64 `json:"line_width"`
	detectionArgs
	groupingArgs
}

type imageGroupResult struct {
	Width    int         `json:"width"`
	Height   int         `json:"height"`
	Segments [][]float64 `json:"segments"`
	groupResult

	overlay []byte
}

func (r *imageGroupResult) images() []imageContent {
	if len(r.overlay) == 0 {
		return nil
	}
	return []imageContent{pngContent(r.overlay)}
}

// groupImage detects and groups the lines of one image.
func (s *Server) groupImage(ctx context.Context, img image.Image, det detection.Options, p segments.Params) ([]segments.Segment, *segments.Result, error) {
	lines, err := detection.DetectLines(img, det)
	if err != nil {
		return nil, nil, err
	}
	segs := lines.Segments()
	res, err := segments.Cluster(ctx, segs, p)
	if err != nil {
		return nil, nil, err
	}
	return segs, res, nil
}

func (s *Server) handleImageGroupLines(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageGroupLinesArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errMissingPath
	}
	p, err := s.groupingParams(a.groupingArgs)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	segs, res, err := s.groupImage(ctx, img, s.detectionOptions(a.detectionArgs), p)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	out := &imageGroupResult{
		Width:       b.Dx(),
		Height:      b.Dy(),
		Segments:    segmentRows(segs),
		groupResult: groupResult{Result: res, SegmentCount: len(segs), Params: viewOf(p)},
	}

	if a.Render {
		overlay, err := imaging.DrawGroups(img, segs, res.Groups, a.LineWidth)
		if err != nil {
			return nil, err
		}
		if out.overlay, err = imaging.EncodePNG(overlay); err != nil {
			return nil, err
		}
	}
	return out, nil
}

type framesGroupLinesArgs struct {
	Path           string `json:"path"`
	Every          int    `json:"every"`
	Montage        bool   `json:"montage"`
	MontageColumns int    `json:"montage_columns"`
	TileWidth      int    `json:"tile_width"`
	detectionArgs
	groupingArgs
}

type frameSummary struct {
	Index        int              `json:"index"`
	SegmentCount int              `json:"segment_count"`
	GroupCount   int              `json:"group_count"`
	Groups       []segments.Group `json:"groups"`
	LengthSums   []float64        `json:"length_sums"`
}

type framesResult struct {
	TotalFrames   int            `json:"total_frames"`
	FramesSampled int            `json:"frames_sampled"`
	Every         int            `json:"every"`
	Params        paramsView     `json:"params"`
	Frames        []frameSummary `json:"frames"`

	montage []byte
}

func (r *framesResult) images() []imageContent {
	if len(r.montage) == 0 {
		return nil
	}
	return []imageContent{pngContent(r.montage)}
}

func (s *Server) handleFramesGroupLines(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a framesGroupLinesArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errMissingPath
	}
	p, err := s.groupingParams(a.groupingArgs)
	if err != nil {
		return nil, err
	}
	every := s.cfg.Frames.Every
	if a.Every != 0 {
		every = a.Every
	}
	cols := a.MontageColumns
	if cols <= 0 {
		cols = defaultMontageColumns
	}
	tileW := a.TileWidth
	if tileW <= 0 {
		tileW = defaultTileWidth
	}

	src, err := frames.Open(a.Path)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	if a.Montage {
		// Fail before decoding anything when the grid cannot fit.
		n := frames.Sampled(src.Len(), every)
		if rows := (n + cols - 1) / cols; rows > imaging.MaxMontageRows || cols > imaging.MaxMontageCols {
			return nil, fmt.Errorf("%d frames in %d columns: %w", n, cols, imaging.ErrMontageTooLarge)
		}
	}

	det := s.detectionOptions(a.detectionArgs)
	out := &framesResult{
		TotalFrames: src.Len(),
		Every:       every,
		Params:      viewOf(p),
		Frames:      make([]frameSummary, 0),
	}
	var tiles [][]image.Image
	var labels [][]string
	tileH := 0

	_, err = frames.Sample(ctx, src, every, func(index int, img image.Image) error {
		segs, res, err := s.groupImage(ctx, img, det, p)
		if err != nil {
			return fmt.Errorf("frame %d: %w", index, err)
		}
		out.Frames = append(out.Frames, frameSummary{
			Index:        index,
			SegmentCount: len(segs),
			GroupCount:   len(res.Groups),
			Groups:       res.Groups,
			LengthSums:   res.LengthSums,
		})
		s.logger.Debug("frame grouped",
			zap.Int("index", index),
			zap.Int("segments", len(segs)),
			zap.Int("groups", len(res.Groups)))

		if !a.Montage {
			return nil
		}
		overlay, err := imaging.DrawGroups(img, segs, res.Groups, 0)
		if err != nil {
			return fmt.Errorf("frame %d: %w", index, err)
		}
		if tileH == 0 {
			b := img.Bounds()
			tileH = int(math.Max(1, math.Round(float64(tileW)*float64(b.Dy())/float64(b.Dx()))))
		}
		if len(tiles) == 0 || len(tiles[len(tiles)-1]) == cols {
			tiles = append(tiles, nil)
			labels = append(labels, nil)
		}
		last := len(tiles) - 1
		tiles[last] = append(tiles[last], overlay)
		labels[last] = append(labels[last], fmt.Sprintf("#%d: %d groups", index, len(res.Groups)))
		return nil
	})
	if err != nil {
		return nil, err
	}
	out.FramesSampled = len(out.Frames)

	if a.Montage && len(tiles) > 0 {
		grid, err := imaging.Montage(tiles, labels, tileW, tileH)
		if err != nil {
			return nil, err
		}
		if out.montage, err = imaging.EncodePNG(grid); err != nil {
			return nil, err
		}
	}
	return out, nil
}
