// Command gorace rolls a policy out in the track-following
// environment, recording per-episode data and optionally rendering
// frames to disk.
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/samuelfneumann/gorace/environment"
	"github.com/samuelfneumann/gorace/environment/envconfig"
	"github.com/samuelfneumann/gorace/experiment"
	"github.com/samuelfneumann/gorace/experiment/tracker"
	"github.com/samuelfneumann/gorace/policy"
	"github.com/samuelfneumann/gorace/timestep"
)

var (
	configPath string
	seed       uint64
	policyName string
	outDir     string
)

var rootCmd = &cobra.Command{
	Use:   "gorace",
	Short: "Roll policies out in a procedurally generated driving environment",
}

var rolloutCmd = &cobra.Command{
	Use:   "rollout",
	Short: "Run a policy for a fixed number of steps and record episode data",
	RunE:  runRollout,
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Run a policy and save rendered frames as PNGs",
	RunE:  runRender,
}

var (
	rolloutSteps int
	renderSteps  int
	renderEvery  int
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"path to a JSON environment config (defaults apply if empty)")
	rootCmd.PersistentFlags().Uint64Var(&seed, "seed", 1,
		"seed for the environment and policy")
	rootCmd.PersistentFlags().StringVarP(&policyName, "policy", "p",
		"centerline", "policy to run: centerline or random")
	rootCmd.PersistentFlags().StringVarP(&outDir, "out", "o", "out",
		"directory for recorded data and frames")

	rolloutCmd.Flags().IntVarP(&rolloutSteps, "steps", "n", 10000,
		"total number of environmental steps")
	renderCmd.Flags().IntVarP(&renderSteps, "steps", "n", 1000,
		"total number of environmental steps")
	renderCmd.Flags().IntVar(&renderEvery, "every", 10,
		"save every n-th frame")

	rootCmd.AddCommand(rolloutCmd)
	rootCmd.AddCommand(renderCmd)
}

func loadConfig() (envconfig.Config, error) {
	if configPath == "" {
		return envconfig.NewConfig(), nil
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		return envconfig.Config{}, fmt.Errorf("could not read config: %v",
			err)
	}
	return envconfig.FromJSON(data)
}

func makePolicy(env environment.Environment) (policy.Policy, error) {
	switch policyName {
	case "centerline":
		return policy.NewCenterline(env.ActionSpec()), nil
	case "random":
		return policy.NewRandom(env.ActionSpec(), seed), nil
	default:
		return nil, fmt.Errorf("unknown policy %q", policyName)
	}
}

func runRollout(cmd *cobra.Command, args []string) error {
	config, err := loadConfig()
	if err != nil {
		return err
	}
	env, _, err := config.CreateEnv(seed)
	if err != nil {
		return err
	}
	p, err := makePolicy(env)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("could not create output directory: %v", err)
	}

	trackers := []tracker.Tracker{
		tracker.NewReturn(filepath.Join(outDir, "returns.bin")),
		tracker.NewEpisodeLength(filepath.Join(outDir, "lengths.bin")),
	}
	if rewarder, ok := env.(tracker.TileRewarder); ok {
		trackers = append(trackers, tracker.NewRewardPerTile(
			filepath.Join(outDir, "rewardPerTile.bin"), rewarder))
	}

	exp := experiment.NewOnline(env, p, rolloutSteps, trackers, os.Stdout)
	if err := exp.Run(); err != nil {
		return err
	}

	returns, err := tracker.LoadData(filepath.Join(outDir, "returns.bin"))
	if err != nil {
		return err
	}
	log.Printf("completed %v episodes over %v steps", len(returns),
		rolloutSteps)
	return nil
}

type frameSaver interface {
	SaveFrame(path string) error
}

func runRender(cmd *cobra.Command, args []string) error {
	config, err := loadConfig()
	if err != nil {
		return err
	}
	env, first, err := config.CreateEnv(seed)
	if err != nil {
		return err
	}
	saver, ok := env.(frameSaver)
	if !ok {
		return fmt.Errorf("environment %T cannot render frames", env)
	}
	p, err := makePolicy(env)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("could not create output directory: %v", err)
	}

	step := first
	for i := 0; i < renderSteps; i++ {
		if i%renderEvery == 0 {
			path := filepath.Join(outDir, fmt.Sprintf("frame%06d.png", i))
			if err := saver.SaveFrame(path); err != nil {
				return err
			}
		}

		var last bool
		step, last = env.Step(p.SelectAction(step))
		if last {
			if step.End == timestep.TerminalStateReached {
				log.Printf("episode terminated at step %v", i+1)
			}
			step = env.Reset()
		}
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
