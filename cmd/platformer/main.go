package main

import (
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/platformer/config"
	"github.com/milk9111/platformer/game"
	"github.com/spf13/cobra"
)

var (
	configPath string
	levelName  string
	debug      bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "platformer",
		Short: "2D platformer on a Chipmunk physics bridge",
		RunE:  runWindow,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file (defaults apply when empty)")
	rootCmd.PersistentFlags().StringVar(&levelName, "level", "", "level name in levels/ or a path to a level file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log contacts and draw physics shapes")

	var opts game.SimulateOptions
	simulateCmd := &cobra.Command{
		Use:   "simulate",
		Short: "run a level headless and print rigid body state",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			lvl, err := game.LoadLevel(cfg.Level)
			if err != nil {
				return err
			}
			_, err = game.Simulate(cfg, lvl, opts, cmd.OutOrStdout())
			return err
		},
	}
	simulateCmd.Flags().IntVar(&opts.Frames, "frames", 180, "frames to simulate")
	simulateCmd.Flags().IntVar(&opts.Burst, "burst", 1, "frames elapsed per update")
	simulateCmd.Flags().IntVar(&opts.Every, "every", 30, "print state every N updates (0 = only at the end)")
	simulateCmd.Flags().Float64Var(&opts.MoveX, "move", 0, "horizontal input in [-1,1]")
	simulateCmd.Flags().BoolVar(&opts.Jump, "jump", false, "hold jump")

	rootCmd.AddCommand(simulateCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runWindow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetTPS(cfg.Physics.TargetFPS)

	g, err := game.NewGame(cfg, configPath)
	if err != nil {
		return err
	}
	defer g.Close()

	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
	return nil
}

func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if levelName != "" {
		cfg.Level = levelName
	}
	if debug {
		cfg.Debug = true
	}
	return cfg, nil
}
