package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ironsheep/line-grouping-mcp/internal/segments"
)

type groupOptions struct {
	input          string
	relation       string
	radius         float64
	angleThreshold float64
	epsilon        float64
	minCount       int
	minLengthSq    float64
	pretty         bool
}

func newGroupCommand(a *app) *cobra.Command {
	opts := &groupOptions{}

	cmd := &cobra.Command{
		Use:   "group",
		Short: "Group segments read as JSON and print the groups",
		Long: "Reads segments as a JSON array of [x1, y1, x2, y2] rows, or an object\n" +
			"with a \"segments\" field holding one, from --input or stdin. Prints the\n" +
			"grouping result as JSON. Flags override the configured defaults.",
		Example: `  echo '[[0,0,10,10],[11,11,20,20]]' | linegroup-mcp group --radius 3`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGroup(cmd, a, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.input, "input", "i", "-", "segments JSON file, - for stdin")
	f.StringVar(&opts.relation, "relation", "", "proximity, orientation, both or either")
	f.Float64Var(&opts.radius, "radius", 0, "endpoint radius in pixels")
	f.Float64Var(&opts.angleThreshold, "angle", 0, "orientation threshold in degrees")
	f.Float64Var(&opts.epsilon, "epsilon", 0, "slope stabilizer added to dx")
	f.IntVar(&opts.minCount, "min-count", 0, "minimum segments per group")
	f.Float64Var(&opts.minLengthSq, "min-length-sq", 0, "summed squared length a group must exceed")
	f.BoolVar(&opts.pretty, "pretty", false, "indent the JSON output")
	return cmd
}

// readSegments accepts either a bare row array or {"segments": rows}.
func readSegments(r io.Reader) ([]segments.Segment, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read segments: %w", err)
	}

	var rows [][]float64
	if err := json.Unmarshal(data, &rows); err != nil {
		var wrapped struct {
			Segments [][]float64 `json:"segments"`
		}
		if err2 := json.Unmarshal(data, &wrapped); err2 != nil {
			return nil, fmt.Errorf("failed to parse segments JSON: %w", err)
		}
		rows = wrapped.Segments
	}
	return segments.FromRows(rows)
}

func runGroup(cmd *cobra.Command, a *app, opts *groupOptions) error {
	in := cmd.InOrStdin()
	if opts.input != "" && opts.input != "-" {
		f, err := os.Open(opts.input)
		if err != nil {
			return fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		in = f
	}

	segs, err := readSegments(in)
	if err != nil {
		return err
	}

	p := a.cfg.Grouping.Params()
	flags := cmd.Flags()
	if flags.Changed("relation") {
		mode, err := segments.ParseRelationMode(opts.relation)
		if err != nil {
			return err
		}
		p.Relation = mode
	}
	if flags.Changed("radius") {
		p.Radius = opts.radius
	}
	if flags.Changed("angle") {
		p.AngleThreshold = opts.angleThreshold
	}
	if flags.Changed("epsilon") {
		p.Epsilon = opts.epsilon
	}
	if flags.Changed("min-count") {
		p.MinCount = opts.minCount
	}
	if flags.Changed("min-length-sq") {
		p.MinLengthSq = opts.minLengthSq
	}

	res, err := segments.Cluster(cmd.Context(), segs, p)
	if err != nil {
		return err
	}
	a.logger.Debug("grouped segments",
		zap.Int("segments", len(segs)),
		zap.Int("candidates", len(res.Candidates)),
		zap.Int("groups", len(res.Groups)),
		zap.Int("edges", res.Edges))

	enc := json.NewEncoder(cmd.OutOrStdout())
	if opts.pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(res)
}
