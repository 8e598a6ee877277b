package detection

import (
	"errors"
	"image"
	"math"
	"sort"

	"github.com/ironsheep/line-grouping-mcp/internal/segments"
)

// Point is a pixel coordinate.
type Point struct {
	X int `json:"x"` // Horizontal position (0 = leftmost)
	Y int `json:"y"` // Vertical position (0 = topmost)
}

// Line represents a detected line segment
type Line struct {
	Start        Point   `json:"start"`
	End          Point   `json:"end"`
	Length       float64 `json:"length"`
	AngleDegrees float64 `json:"angle_degrees"`
	Votes        int     `json:"votes"`
}

// LinesResult contains detected lines
type LinesResult struct {
	Lines []Line `json:"lines"`
	Count int    `json:"count"`
}

// Segments converts the detected lines to grouping input, in detection
// order. Index i of the result is Lines[i].
func (r *LinesResult) Segments() []segments.Segment {
	out := make([]segments.Segment, len(r.Lines))
	for i, l := range r.Lines {
		out[i] = segments.Segment{
			X1: float64(l.Start.X), Y1: float64(l.Start.Y),
			X2: float64(l.End.X), Y2: float64(l.End.Y),
		}
	}
	return out
}

// Options tunes DetectLines.
type Options struct {
	// MinLength is the shortest segment kept, in pixels.
	MinLength int
	// MaxGap is the largest run of missing edge pixels bridged along a
	// Hough line before it is split into separate segments.
	MaxGap int
	// MaxLines caps the number of segments returned.
	MaxLines int
}

// DefaultOptions returns the detector defaults.
func DefaultOptions() Options {
	return Options{MinLength: 20, MaxGap: 5, MaxLines: 200}
}

const (
	numAngles     = 180
	lineTolerance = 2.0 // max pixel distance from a Hough line
	peakWindow    = 2   // local-maximum neighbourhood in rho and theta
)

// houghPeak is a local maximum of the accumulator.
type houghPeak struct {
	rho   int
	theta int
	votes int
}

// DetectLines finds line segments in an image using a Hough transform.
//
// Parameters:
//   - img: Any image. Coordinates in the result are absolute, so a
//     SubImage reports positions in its parent's space.
//   - opts: MinLength (required, >= 1) drops shorter segments. MaxGap is the
//     widest break bridged within one segment; negative values act as 0.
//     MaxLines <= 0 selects the default cap of 200.
//
// Returns:
//   - *LinesResult: Segments in detection order, strongest Hough peak first.
//     Start is the endpoint with the smaller x.
//   - error: Non-nil for a nil image or a MinLength below 1.
//
// Each accumulator peak, strongest first, collects the unclaimed edge pixels
// within lineTolerance of its line. Those pixels are ordered along the line
// and split wherever consecutive pixels are more than MaxGap apart, so a
// dashed marking yields one segment per dash. Endpoints are projected onto
// the Hough line. Each edge pixel contributes to at most one segment.
func DetectLines(img image.Image, opts Options) (*LinesResult, error) {
	if img == nil {
		return nil, errors.New("detection: nil image")
	}
	if opts.MinLength < 1 {
		return nil, errors.New("detection: min length must be >= 1")
	}
	if opts.MaxGap < 0 {
		opts.MaxGap = 0
	}
	if opts.MaxLines <= 0 {
		opts.MaxLines = DefaultOptions().MaxLines
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	edges := detectEdges(img)

	maxDist := int(math.Sqrt(float64(width*width + height*height)))
	accumulator := houghVote(edges, width, height, maxDist)

	threshold := opts.MinLength / 2
	if threshold < 1 {
		threshold = 1
	}
	peaks := findPeaks(accumulator, maxDist, threshold)

	claimed := make([][]bool, height)
	for y := range claimed {
		claimed[y] = make([]bool, width)
	}

	lines := make([]Line, 0)
	for _, peak := range peaks {
		if len(lines) >= opts.MaxLines {
			break
		}
		for _, run := range traceRuns(edges, claimed, peak, float64(opts.MaxGap)) {
			if len(lines) >= opts.MaxLines {
				break
			}
			line, ok := runToLine(run, peak, opts.MinLength)
			if !ok {
				continue
			}
			for _, p := range run.points {
				claimed[p.Y][p.X] = true
			}
			line.Start.X += bounds.Min.X
			line.Start.Y += bounds.Min.Y
			line.End.X += bounds.Min.X
			line.End.Y += bounds.Min.Y
			lines = append(lines, line)
		}
	}

	return &LinesResult{
		Lines: lines,
		Count: len(lines),
	}, nil
}

// houghVote accumulates edge pixels in (rho, theta) space. Rows are rho
// offset by maxDist; columns are whole degrees.
//
// Rho is rounded to the nearest bin. Truncating it lets a bin one degree off
// an axis-aligned band straddle both of the band's edge rows and tie with the
// exact bin.
func houghVote(edges [][]bool, width, height, maxDist int) [][]int {
	accumulator := make([][]int, maxDist*2)
	for i := range accumulator {
		accumulator[i] = make([]int, numAngles)
	}

	cosT := make([]float64, numAngles)
	sinT := make([]float64, numAngles)
	for theta := 0; theta < numAngles; theta++ {
		angle := float64(theta) * math.Pi / 180.0
		cosT[theta], sinT[theta] = math.Cos(angle), math.Sin(angle)
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !edges[y][x] {
				continue
			}
			for theta := 0; theta < numAngles; theta++ {
				rho := float64(x)*cosT[theta] + float64(y)*sinT[theta]
				rhoIdx := int(math.Round(rho)) + maxDist
				if rhoIdx >= 0 && rhoIdx < maxDist*2 {
					accumulator[rhoIdx][theta]++
				}
			}
		}
	}
	return accumulator
}

// findPeaks returns the accumulator cells with at least threshold votes that
// no neighbour within peakWindow exceeds, strongest first. Theta wraps.
func findPeaks(accumulator [][]int, maxDist, threshold int) []houghPeak {
	peaks := make([]houghPeak, 0)
	for rhoIdx := range accumulator {
		for theta := 0; theta < numAngles; theta++ {
			votes := accumulator[rhoIdx][theta]
			if votes < threshold || !isLocalMax(accumulator, rhoIdx, theta) {
				continue
			}
			peaks = append(peaks, houghPeak{rho: rhoIdx - maxDist, theta: theta, votes: votes})
		}
	}

	sort.SliceStable(peaks, func(i, j int) bool {
		return peaks[i].votes > peaks[j].votes
	})
	return peaks
}

func isLocalMax(accumulator [][]int, rhoIdx, theta int) bool {
	v := accumulator[rhoIdx][theta]
	for dr := -peakWindow; dr <= peakWindow; dr++ {
		nr := rhoIdx + dr
		if nr < 0 || nr >= len(accumulator) {
			continue
		}
		for dt := -peakWindow; dt <= peakWindow; dt++ {
			if dr == 0 && dt == 0 {
				continue
			}
			nt := (theta + dt + numAngles) % numAngles
			if accumulator[nr][nt] > v {
				return false
			}
		}
	}
	return true
}

// run is a gap-free stretch of edge pixels along one Hough line. t is the
// position along the line direction (-sin, cos).
type run struct {
	points []Point
	tMin   float64
	tMax   float64
}

// traceRuns gathers unclaimed edge pixels near the peak's line and splits
// them into runs at gaps wider than maxGap.
func traceRuns(edges, claimed [][]bool, peak houghPeak, maxGap float64) []run {
	angle := float64(peak.theta) * math.Pi / 180.0
	cosA, sinA := math.Cos(angle), math.Sin(angle)
	rho := float64(peak.rho)

	type onLine struct {
		p Point
		t float64
	}
	candidates := make([]onLine, 0)
	for y := range edges {
		for x := range edges[y] {
			if !edges[y][x] || claimed[y][x] {
				continue
			}
			if math.Abs(float64(x)*cosA+float64(y)*sinA-rho) < lineTolerance {
				candidates = append(candidates, onLine{Point{X: x, Y: y}, -float64(x)*sinA + float64(y)*cosA})
			}
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].t < candidates[j].t })

	runs := make([]run, 0)
	current := run{tMin: candidates[0].t}
	prevT := candidates[0].t
	for _, c := range candidates {
		if c.t-prevT > maxGap+1 {
			current.tMax = prevT
			runs = append(runs, current)
			current = run{tMin: c.t}
		}
		current.points = append(current.points, c.p)
		prevT = c.t
	}
	current.tMax = prevT
	return append(runs, current)
}

// runToLine projects the run's extent onto the peak's line. Start is the
// endpoint with the smaller x (smaller y for vertical lines).
func runToLine(r run, peak houghPeak, minLength int) (Line, bool) {
	if r.tMax-r.tMin < float64(minLength) {
		return Line{}, false
	}

	angle := float64(peak.theta) * math.Pi / 180.0
	cosA, sinA := math.Cos(angle), math.Sin(angle)
	rho := float64(peak.rho)
	project := func(t float64) Point {
		return Point{
			X: int(math.Round(rho*cosA - t*sinA)),
			Y: int(math.Round(rho*sinA + t*cosA)),
		}
	}

	start, end := project(r.tMin), project(r.tMax)
	if end.X < start.X || (end.X == start.X && end.Y < start.Y) {
		start, end = end, start
	}

	dx := float64(end.X - start.X)
	dy := float64(end.Y - start.Y)
	length := math.Sqrt(dx*dx + dy*dy)
	angleDeg := math.Atan2(dy, dx) * 180 / math.Pi

	return Line{
		Start:        start,
		End:          end,
		Length:       math.Round(length*10) / 10,
		AngleDegrees: math.Round(angleDeg*10) / 10,
		Votes:        peak.votes,
	}, true
}
