package guide

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/pcbuild/internal/config"
	"github.com/Iron-Ham/pcbuild/internal/guide"
	"github.com/Iron-Ham/pcbuild/internal/present"
	"github.com/Iron-Ham/pcbuild/internal/scene"
	"github.com/Iron-Ham/pcbuild/internal/sequencer"
)

var checkCmd = &cobra.Command{
	Use:   "check [name]",
	Short: "Validate a guide and dry-run every step",
	Long: `Validate a guide and dry-run every step.

The guide is parsed and validated, its scenes are loaded, and then each step
is entered in turn with a recording presenter. Every presenter call is
printed so you can see exactly what a step does. The command fails if any
step's action fails.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

var (
	checkFile    string
	checkVerbose bool
)

func init() {
	checkCmd.Flags().StringVarP(&checkFile, "file", "f", "", "guide YAML file")
	checkCmd.Flags().BoolVarP(&checkVerbose, "verbose", "v", false, "print every presenter call")
}

// StepResult is the outcome of entering one step during a dry run.
type StepResult struct {
	Index int
	ID    string
	Calls []present.Call
	Err   error
}

// DryRun enters every step of g in order against a Recorder and reports what
// each one did. Steps that navigate on their own (reset) are followed.
func DryRun(ctx context.Context, g *guide.Guide, lib *scene.Library) ([]StepResult, error) {
	if err := lib.Preload(ctx, g.Scenes()); err != nil {
		return nil, fmt.Errorf("loading scenes: %w", err)
	}

	rec := present.NewRecorder()
	defs, err := guide.Compile(g, guide.Env{
		Presenter: rec,
		Library:   lib,
		Stage:     scene.NewStage(),
	})
	if err != nil {
		return nil, err
	}
	seq, err := sequencer.New(defs, sequencer.WithFloor(g.Floor))
	if err != nil {
		return nil, err
	}

	results := make([]StepResult, 0, seq.Len())
	for i := range seq.Len() {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		mark := rec.Len()
		_, err := seq.JumpTo(i)
		results = append(results, StepResult{
			Index: i,
			ID:    g.Steps[i].ID,
			Calls: rec.Since(mark),
			Err:   err,
		})
	}
	return results, nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	g, err := resolveArg(args, checkFile)
	if err != nil {
		return err
	}

	cfg := config.Get()
	lib := scene.NewDefaultLibrary(cfg.Assets.Dir, scene.WithWorkers(cfg.Assets.PreloadWorkers))

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	results, err := DryRun(ctx, g, lib)
	if err != nil {
		return err
	}

	failed := writeResults(cmd.OutOrStdout(), g, results, checkVerbose)
	if failed > 0 {
		return fmt.Errorf("%d of %d steps failed", failed, len(results))
	}
	return nil
}

func writeResults(w io.Writer, g *guide.Guide, results []StepResult, verbose bool) int {
	fmt.Fprintf(w, "%s: %d steps, %d scenes\n", titleStyle.Render(g.Name), len(g.Steps), len(g.Scenes()))
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(w, "%s %2d %s: %v\n", failStyle.Render("✗"), r.Index, r.ID, r.Err)
		} else {
			fmt.Fprintf(w, "%s %2d %s %s\n", okStyle.Render("✓"), r.Index, r.ID,
				mutedStyle.Render(fmt.Sprintf("(%d calls)", len(r.Calls))))
		}
		if verbose || r.Err != nil {
			for _, c := range r.Calls {
				fmt.Fprintf(w, "       %s\n", c)
			}
		}
	}
	return failed
}
