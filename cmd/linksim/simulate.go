package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/muurk/linkframe/internal/config"
	"github.com/muurk/linkframe/internal/medium"
	"github.com/muurk/linkframe/internal/protocol"
	"github.com/muurk/linkframe/internal/simulator"
	"github.com/muurk/linkframe/internal/ui"
)

// errTransmissionFailed is returned with --strict when the data did not
// arrive intact.
var errTransmissionFailed = errors.New("transmission failed: received data differs from sent data")

// Simulate command flags
var (
	simMedium      string
	simLayer       string
	simSeed        uint64
	simNoiseRate   float64
	simMaxFragment int
	simStrict      bool
	simQuiet       bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <file>",
	Short: "Send a file from one host to another over a simulated medium",
	Long: `Send the contents of a file from a sender host to a receiver host.

The sender splits the data into chunks, frames each chunk and transmits the
frames over the selected medium. The receiver decodes whatever arrives,
drops corrupt frames and reassembles the rest. The result shows whether the
received data matches what was sent, along with frame statistics.

Media:
  perfect      every transmission arrives whole
  fragmenting  transmissions arrive split into random fragments
  lownoise     fragmenting, plus a 1e-4 chance of flipping each bit
  highnoise    fragmenting, plus a 1e-2 chance of flipping each bit

Layers:
  crc          8-bit CRC trailer (generator 0x1D5 by default)
  parity       parity sentinel trailer

Use "-" as the file to read from stdin.`,
	Example: `  # Perfect medium with CRC framing (defaults)
  linksim simulate notes.txt

  # Parity framing over a noisy medium, reproducible run
  linksim simulate notes.txt --medium highnoise --layer parity --seed 42

  # Exit non-zero when the data does not arrive intact
  linksim simulate notes.txt --medium lownoise --strict`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		applySimulateFlags(cmd, cfg)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return runSimulate(ctx, cfg, args[0], cmd.OutOrStdout())
	},
}

func init() {
	simulateCmd.Flags().StringVar(&simMedium, "medium", "", "Medium type: "+joinTypes(medium.Types()))
	simulateCmd.Flags().StringVar(&simLayer, "layer", "", "Data link layer: crc or parity")
	simulateCmd.Flags().Uint64Var(&simSeed, "seed", 0, "Seed for fragmentation and noise")
	simulateCmd.Flags().Float64Var(&simNoiseRate, "noise-rate", 0, "Per-bit flip probability (overrides the medium default)")
	simulateCmd.Flags().IntVar(&simMaxFragment, "max-fragment", 0, "Largest fragment the medium delivers")
	simulateCmd.Flags().BoolVar(&simStrict, "strict", false, "Exit with an error when the data does not arrive intact")
	simulateCmd.Flags().BoolVarP(&simQuiet, "quiet", "q", false, "Do not print the received data")

	rootCmd.AddCommand(simulateCmd)
}

// applySimulateFlags copies explicitly set flags over the configuration.
func applySimulateFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("medium") {
		cfg.Medium.Type = simMedium
	}
	if flags.Changed("layer") {
		cfg.Framing.Scheme = simLayer
	}
	if flags.Changed("seed") {
		cfg.Medium.Seed = simSeed
	}
	if flags.Changed("noise-rate") {
		cfg.Medium.NoiseRate = simNoiseRate
	}
	if flags.Changed("max-fragment") {
		cfg.Medium.MaxFragment = simMaxFragment
	}
}

func runSimulate(ctx context.Context, cfg *config.Config, path string, out io.Writer) error {
	runner := ui.NewRunner(ui.RunnerConfig{
		Title:   "Simulation",
		Command: "linksim simulate",
		Params: []ui.Param{
			{Key: "File", Value: path},
			{Key: "Medium", Value: cfg.Medium.Type},
			{Key: "Layer", Value: cfg.Framing.Scheme},
			{Key: "Seed", Value: fmt.Sprint(cfg.Medium.Seed)},
		},
		StepNames: []string{"Check configuration", "Read input", "Transmit", "Compare"},
		Troubleshooting: []string{
			"Check the file exists and is readable",
			"Run 'linksim config show' to inspect the active settings",
			"Run with --log-level debug for frame traces",
		},
		Plain:  plainOut,
		Output: out,
	})

	var report *simulator.Report
	summary, err := runner.Run(func(onStep ui.StepCallback) (ui.Summary, error) {
		onStep(1, "", ui.StepRunning, "")
		setup, err := simulationSetup(cfg)
		if err != nil {
			onStep(1, "", ui.StepFailed, "")
			return ui.Summary{}, err
		}
		onStep(1, "", ui.StepComplete, setup.Protocol.Detector.Name())

		onStep(2, "", ui.StepRunning, "")
		data, err := readInput(path)
		if err != nil {
			onStep(2, "", ui.StepFailed, "")
			return ui.Summary{}, err
		}
		onStep(2, "", ui.StepComplete, fmt.Sprintf("%d bytes", len(data)))

		onStep(3, "", ui.StepRunning, "")
		report, err = simulator.Run(ctx, setup, data)
		if err != nil {
			onStep(3, "", ui.StepFailed, "")
			return ui.Summary{}, err
		}
		onStep(3, "", ui.StepComplete, fmt.Sprintf("%d frames", report.SenderStats.FramesSent))

		if report.Succeeded {
			onStep(4, "", ui.StepComplete, "identical")
		} else {
			onStep(4, "", ui.StepFailed, "differs")
		}
		return reportSummary(report), nil
	})
	if err != nil {
		return err
	}

	if !simQuiet {
		fmt.Fprintf(out, "\nTransmission received:  %s\n", report.Received)
		fmt.Fprintf(out, "Transmission succeeded: %t\n", report.Succeeded)
	}
	if simStrict && summary.Warning {
		return errTransmissionFailed
	}
	return nil
}

func simulationSetup(cfg *config.Config) (simulator.Setup, error) {
	popts, err := cfg.ProtocolOptions()
	if err != nil {
		return simulator.Setup{}, err
	}
	mopts := cfg.MediumOptions()
	if err := mopts.Validate(); err != nil {
		return simulator.Setup{}, err
	}
	return simulator.Setup{Medium: mopts, Protocol: popts}, nil
}

func reportSummary(r *simulator.Report) ui.Summary {
	title := "Transmission succeeded"
	if !r.Succeeded {
		title = "Transmission corrupted"
	}
	return ui.Summary{
		Title:   title,
		Warning: !r.Succeeded,
		Details: []ui.Param{
			{Key: "Bytes sent", Value: fmt.Sprint(len(r.Sent))},
			{Key: "Bytes received", Value: fmt.Sprint(len(r.Received))},
			{Key: "Frames sent", Value: fmt.Sprint(r.SenderStats.FramesSent)},
			{Key: "Frames delivered", Value: fmt.Sprint(r.ReceiverStats.FramesDelivered)},
			{Key: "Frames corrupt", Value: fmt.Sprint(r.ReceiverStats.FramesCorrupt)},
			{Key: "Frames lost", Value: fmt.Sprint(r.FramesLost())},
			{Key: "Bytes discarded", Value: fmt.Sprint(r.ReceiverStats.BytesDiscarded)},
			{Key: "Bits flipped", Value: fmt.Sprint(r.MediumStats.BitsFlipped)},
			{Key: "Fragments", Value: fmt.Sprint(r.MediumStats.Fragments)},
		},
	}
}

func joinTypes(types []medium.Type) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

// codecFromConfig builds a codec for the configured framing, with the layer
// overridden when non-empty.
func codecFromConfig(cfg *config.Config, layer string) (*protocol.Codec, error) {
	if layer != "" {
		cfg.Framing.Scheme = layer
	}
	opts, err := cfg.ProtocolOptions()
	if err != nil {
		return nil, err
	}
	return protocol.NewCodec(opts)
}
