package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/popeye-dev/popeye/internal/artifact"
	"github.com/popeye-dev/popeye/internal/config"
	"github.com/popeye-dev/popeye/internal/consensus"
	"github.com/popeye-dev/popeye/internal/docs"
	"github.com/popeye-dev/popeye/internal/doctor"
	"github.com/popeye-dev/popeye/internal/orchestrator"
	"github.com/popeye-dev/popeye/internal/phase"
	"github.com/popeye-dev/popeye/internal/pipeline"
	"github.com/popeye-dev/popeye/internal/reviewer"
	"github.com/popeye-dev/popeye/internal/scaffold"
	"github.com/popeye-dev/popeye/internal/skill"
	"github.com/popeye-dev/popeye/internal/ux"
	cli "github.com/urfave/cli/v3"
)

func main() {
	app := &cli.Command{
		Name:        "popeye",
		Usage:       "Governance-driven multi-phase pipeline kernel",
		Description: "Run 'popeye docs' for documentation on phases, gates, consensus, and artifacts.",
		Commands: []*cli.Command{
			initCmd(),
			runCmd(),
			statusCmd(),
			doctorCmd(),
			docsCmd(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%serror:%s %v\n", ux.Red, ux.Reset, err)
		os.Exit(1)
	}
}

func runCmd() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Drive the pipeline from its current phase to DONE or STUCK",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "legacy-workflow", Usage: "not supported; setting it makes run exit with an error"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if os.Getenv("POPEYE_LEGACY_WORKFLOW") != "" || cmd.Bool("legacy-workflow") {
				return fmt.Errorf("the legacy plan/execution workflow is not implemented by this build")
			}

			projectRoot, err := findProjectRoot()
			if err != nil {
				return err
			}

			cfg, err := config.Load(config.DefaultPath(projectRoot))
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			deps := buildDeps(projectRoot, cfg)

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
			defer stop()

			o := &orchestrator.Orchestrator{ProjectDir: projectRoot, Deps: deps}
			result, err := o.Run(ctx)
			if err != nil {
				return err
			}
			if !result.Success {
				return fmt.Errorf("run ended in %s", result.FinalPhase)
			}
			return nil
		},
	}
}

func statusCmd() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show the current pipeline phase, recovery count, pending change requests, and recorded artifacts",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			projectRoot, err := findProjectRoot()
			if err != nil {
				return err
			}
			state, err := pipeline.Load(projectRoot)
			if err != nil {
				return fmt.Errorf("loading state: %w", err)
			}
			if state == nil {
				return fmt.Errorf("pipeline state is malformed; inspect .popeye/state.json")
			}
			ux.RenderStatus(state, projectRoot)
			return nil
		},
	}
}

func doctorCmd() *cli.Command {
	return &cli.Command{
		Name:  "doctor",
		Usage: "Print the latest RCA/STUCK diagnosis the pipeline recorded",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			projectRoot, err := findProjectRoot()
			if err != nil {
				return err
			}
			state, err := pipeline.Load(projectRoot)
			if err != nil {
				return fmt.Errorf("loading state: %w", err)
			}
			if state == nil {
				return fmt.Errorf("pipeline state is malformed; inspect .popeye/state.json")
			}
			return doctor.Run(ctx, artifact.New(projectRoot), state, projectRoot)
		},
	}
}

func initCmd() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Initialize a new popeye project in the current directory",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dir, err := os.Getwd()
			if err != nil {
				return err
			}
			return scaffold.Init(dir)
		},
	}
}

func docsCmd() *cli.Command {
	return &cli.Command{
		Name:      "docs",
		Usage:     "Show documentation",
		ArgsUsage: "[topic]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			name := cmd.Args().First()
			if name == "" {
				fmt.Print("\nAvailable topics:\n\n")
				for _, t := range docs.All() {
					fmt.Printf("  %-12s %s\n", t.Name, t.Summary)
				}
				fmt.Println("\nRun 'popeye docs <topic>' to read a topic.")
				return nil
			}
			t, err := docs.Get(name)
			if err != nil {
				return err
			}
			fmt.Print(t.Content)
			return nil
		},
	}
}

// findProjectRoot walks up from cwd looking for a .popeye directory.
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if info, err := os.Stat(filepath.Join(dir, ".popeye")); err == nil && info.IsDir() {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no .popeye directory found (searched from cwd to root); run 'popeye init' first")
		}
		dir = parent
	}
}

// buildDeps wires the orchestrator's collaborators from project config. The
// reviewer client and role executor are named, out-of-scope collaborators
// (no reasoning-provider SDK lives in this module); unconfiguredClient and
// unconfiguredExecutor fail fast with a clear message rather than silently
// no-opping, so wiring a real provider is the only thing left for an
// integrator to do before a run can actually execute a phase.
func buildDeps(projectRoot string, cfg *config.Config) phase.Deps {
	seats := make([]reviewer.Config, 0, len(cfg.Reviewers))
	for _, r := range cfg.Reviewers {
		seats = append(seats, reviewer.Config{
			ReviewerID:  r.ID,
			Provider:    r.Provider,
			Model:       r.Model,
			Temperature: r.Temperature,
		})
	}

	return phase.Deps{
		Store:    artifact.New(projectRoot),
		Executor: unconfiguredExecutor{},
		Skills:   skill.NewLoader(projectRoot),
		Consensus: &consensus.Runner{
			Reviewers:  seats,
			Client:     unconfiguredClient{},
			Arbitrator: unconfiguredClient{},
		},
		ProjectDir: projectRoot,
	}
}

// unconfiguredExecutor is the default phase.Executor: every call fails with
// a message naming the missing collaborator, since no reasoning provider is
// implemented in this module.
type unconfiguredExecutor struct{}

func (unconfiguredExecutor) Execute(ctx context.Context, req phase.ExecutionRequest) (phase.ExecutionResponse, error) {
	return phase.ExecutionResponse{}, fmt.Errorf("no executor configured for role %s: wire a phase.Executor implementation before running", req.Role)
}

// unconfiguredClient is the default reviewer.Client/Arbitrator.
type unconfiguredClient struct{}

func (unconfiguredClient) Review(ctx context.Context, cfg reviewer.Config, prompt string) (reviewer.Response, error) {
	return reviewer.Response{}, fmt.Errorf("no reviewer client configured for seat %s: wire a reviewer.Client implementation before running", cfg.ReviewerID)
}

func (unconfiguredClient) Arbitrate(ctx context.Context, cfg reviewer.Config, prompt string, votes []pipeline.ReviewerVote) (pipeline.ArbitratorResult, error) {
	return pipeline.ArbitratorResult{}, fmt.Errorf("no arbitrator configured: wire a reviewer.Arbitrator implementation before running")
}
