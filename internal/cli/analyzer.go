package cli

import (
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/spf13/cobra"

	"github.com/NavuFrank/The-Quantized-Observer/analysis"
	"github.com/NavuFrank/The-Quantized-Observer/engine"
	"github.com/NavuFrank/The-Quantized-Observer/internal/logging"
)

// Analyze loads input, writes the chart to output and returns the report.
// The operator-facing message for the two abort cases is logged here.
func Analyze(input, output string) (*analysis.Report, error) {
	logger := logging.Logger

	records, err := analysis.Load(input)
	if err != nil {
		if errors.Is(err, analysis.ErrNoResults) {
			logger.Error(input + " not found. Run the experiment first!")
		}
		return nil, err
	}

	report, err := analysis.Analyze(records)
	if err != nil {
		if errors.Is(err, analysis.ErrNoBlindData) {
			logger.Error("No blind mode data found. Run the experiment in blind (T) mode.")
		}
		return nil, err
	}

	for _, line := range analysis.Table(report) {
		logger.Info(line)
	}

	if err := analysis.RenderFile(output, report, analysis.DefaultChartOptions()); err != nil {
		return nil, err
	}
	logger.Info("Graph saved", "path", output)
	return report, nil
}

// AnalyzerCommand builds the offline analyzer CLI. show displays the saved
// chart; main passes engine.ShowImage.
func AnalyzerCommand(show func(path, title string) error) *cobra.Command {
	var (
		cfgFile string
		input   string
		output  string
		noShow  bool
	)

	cmd := &cobra.Command{
		Use:   "flicker-analyze",
		Short: "Plot detection rate against frequency from blind trials",
		Long: `Reads the results file, keeps blind-mode rows, and plots the fraction of
"saw flicker" answers per frequency for each cognitive-load condition,
with a rolling trend line and the 50% fusion threshold. Manual-mode rows
are ignored because they carry no negative responses.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := engine.LoadConfig(cfgFile)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("input") {
				input = cfg.ResultsFile
			}
			if !cmd.Flags().Changed("output") {
				output = cfg.ChartFile
			}

			if _, err := Analyze(input, output); err != nil {
				return err
			}
			if noShow {
				return nil
			}
			if err := show(output, analysis.DefaultChartOptions().Title); err != nil {
				return goerr.Wrap(err, "failed to display chart", goerr.V("path", output))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&cfgFile, "config", "", "config file (default is ./"+engine.DefaultConfigFile+")")
	cmd.Flags().StringVarP(&input, "input", "i", "", "Results CSV file")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Chart PNG file")
	cmd.Flags().BoolVar(&noShow, "no-show", false, "Only write the chart, do not open a window")
	return cmd
}
