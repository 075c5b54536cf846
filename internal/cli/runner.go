package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/NavuFrank/The-Quantized-Observer/engine"
	"github.com/NavuFrank/The-Quantized-Observer/internal/logging"
)

// runnerFlags mirrors the config fields an operator commonly changes per
// session. Only flags set on the command line override the config file.
type runnerFlags struct {
	results     string
	splash      string
	font        string
	dlp         string
	fontSize    int
	width       int
	height      int
	fps         int
	start       float64
	step        float64
	blindMin    float64
	blindMax    float64
	fixation    bool
	fullscreen  bool
	vsync       bool
	incremental bool
	beep        bool
	bgColor     string
	flicker     string
	textColor   string
}

func (f *runnerFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.results, "output", "o", "", "Results CSV file (appended)")
	fs.StringVar(&f.splash, "start-splash", "", "Instruction image shown before the session")
	fs.StringVar(&f.font, "font", "", "TTF font file for the HUD")
	fs.StringVar(&f.dlp, "dlp", "", "DLP-IO8-G serial device for trigger output")
	fs.IntVar(&f.fontSize, "font-size", 0, "HUD font size")
	fs.IntVar(&f.width, "width", 0, "Window width")
	fs.IntVar(&f.height, "height", 0, "Window height")
	fs.IntVar(&f.fps, "fps", 0, "Frame rate cap")
	fs.Float64Var(&f.start, "start-frequency", 0, "Initial flicker frequency (Hz)")
	fs.Float64Var(&f.step, "step", 0, "Frequency step for UP/DOWN (Hz)")
	fs.Float64Var(&f.blindMin, "blind-min", 0, "Lowest blind trial frequency (Hz)")
	fs.Float64Var(&f.blindMax, "blind-max", 0, "Highest blind trial frequency (Hz)")
	fs.BoolVar(&f.fixation, "fixation", false, "Draw a fixation cross")
	fs.BoolVar(&f.fullscreen, "fullscreen", false, "Enable fullscreen")
	fs.BoolVar(&f.vsync, "vsync", false, "Pace frames with VSync instead of the frame cap")
	fs.BoolVar(&f.incremental, "incremental-save", false, "Append each record as soon as it is logged")
	fs.BoolVar(&f.beep, "beep", false, "Play a feedback tone for each logged record")
	fs.StringVar(&f.bgColor, "bg-color", "", "Base color (R,G,B,A)")
	fs.StringVar(&f.flicker, "flicker-color", "", "Flicker color (R,G,B,A)")
	fs.StringVar(&f.textColor, "text-color", "", "HUD text color (R,G,B,A)")
}

func (f *runnerFlags) apply(fs *pflag.FlagSet, cfg *engine.Config) {
	set := func(name string, apply func()) {
		if fs.Changed(name) {
			apply()
		}
	}
	set("output", func() { cfg.ResultsFile = f.results })
	set("start-splash", func() { cfg.StartSplash = f.splash })
	set("font", func() { cfg.FontFile = f.font })
	set("dlp", func() { cfg.DLPDevice = f.dlp })
	set("font-size", func() { cfg.FontSize = f.fontSize })
	set("width", func() { cfg.ScreenWidth = f.width })
	set("height", func() { cfg.ScreenHeight = f.height })
	set("fps", func() { cfg.FPSCap = f.fps })
	set("start-frequency", func() { cfg.StartFrequency = f.start })
	set("step", func() { cfg.FrequencyStep = f.step })
	set("blind-min", func() { cfg.BlindMin = f.blindMin })
	set("blind-max", func() { cfg.BlindMax = f.blindMax })
	set("fixation", func() { cfg.UseFixation = f.fixation })
	set("fullscreen", func() { cfg.Fullscreen = f.fullscreen })
	set("vsync", func() { cfg.VSync = f.vsync })
	set("incremental-save", func() { cfg.IncrementalSave = f.incremental })
	set("beep", func() { cfg.Beep = f.beep })
	set("bg-color", func() { cfg.BGColor = f.bgColor })
	set("flicker-color", func() { cfg.FlickerColor = f.flicker })
	set("text-color", func() { cfg.TextColor = f.textColor })
}

// RunnerCommand builds the experiment runner CLI. run is called with the
// final config; main passes engine.Run.
func RunnerCommand(run func(*engine.Config) error) *cobra.Command {
	var (
		cfgFile string
		flags   runnerFlags
	)

	root := &cobra.Command{
		Use:   "flicker",
		Short: "Flicker fusion experiment with optional arithmetic load",
		Long: `Flashes the screen at a controllable frequency and records whether the
observer sees flicker.

Manual mode: UP/DOWN adjust the frequency, ENTER logs "flicker seen".
T starts blind 2AFC trials: the frequency is randomized and hidden, Y/N
answer and advance to the next trial, M returns to manual mode.
SPACE toggles the arithmetic load task (digits, BACKSPACE, TAB for a new
problem). ESC quits and appends the session's records to the results file.`,
		Example: `  # Run with defaults (uses ./flicker.yaml if present)
  flicker

  # Fullscreen, separate file per subject, trigger box attached
  flicker --fullscreen -o subject07.csv --dlp /dev/ttyUSB0`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := engine.LoadConfig(cfgFile)
			if err != nil {
				return err
			}
			flags.apply(cmd.Flags(), cfg)
			return run(cfg)
		},
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./"+engine.DefaultConfigFile+")")
	flags.register(root.Flags())

	root.AddCommand(configCommand(&cfgFile))
	return root
}

func configCommand(cfgFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the runner config file",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "init [path]",
		Short: "Write the current settings (defaults plus any config file) to path",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := engine.LoadConfig(*cfgFile)
			if err != nil {
				return err
			}
			path := engine.DefaultConfigFile
			if len(args) == 1 {
				path = args[0]
			}
			if err := cfg.Save(path); err != nil {
				return err
			}
			logging.Logger.Info("Config written", "path", path)
			return nil
		},
	})
	return cmd
}
