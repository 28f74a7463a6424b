package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/muurk/linkframe/internal/config"
	"github.com/muurk/linkframe/internal/logging"
	"github.com/muurk/linkframe/internal/protocol"
	"github.com/muurk/linkframe/internal/ui"
)

// Encode and decode command flags
var (
	codecLayer  string
	codecOutput string
	codecTrace  int
	codecForce  bool
)

var encodeCmd = &cobra.Command{
	Use:   "encode <file>",
	Short: "Frame a file into a byte stream",
	Long: `Split a file into chunks and frame each chunk with start and stop tags,
escape bytes and an error-detecting trailer.

The framed stream is written to --output, or to stdout when no output file is
given. The summary is written to stderr whenever the stream goes to stdout.`,
	Example: `  # Frame a file with the configured layer
  linksim encode notes.txt -o notes.frames

  # Parity framing, showing the first 5 frames
  linksim encode notes.txt --layer parity --trace 5 -o notes.frames`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return runEncode(cfg, args[0], codecIO(cmd))
	},
}

var decodeCmd = &cobra.Command{
	Use:   "decode <file>",
	Short: "Recover payloads from a framed byte stream",
	Long: `Run a framed byte stream through the receiving decoder.

Valid frames are reassembled into the output. Corrupt frames are dropped and
bytes outside any frame are discarded; both are counted in the summary. The
layer must match the one the stream was encoded with.`,
	Example: `  # Decode a stream produced by 'linksim encode'
  linksim decode notes.frames -o notes.out

  # Decode from stdin and trace each frame
  linksim encode notes.txt | linksim decode - --trace 10`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return runDecode(cfg, args[0], codecIO(cmd))
	},
}

func init() {
	for _, cmd := range []*cobra.Command{encodeCmd, decodeCmd} {
		cmd.Flags().StringVar(&codecLayer, "layer", "", "Data link layer: crc or parity (default: from config)")
		cmd.Flags().StringVarP(&codecOutput, "output", "o", "", "Output file (default: stdout)")
		cmd.Flags().IntVar(&codecTrace, "trace", 0, "Show up to N frames")
		cmd.Flags().BoolVarP(&codecForce, "force", "f", false, "Overwrite the output file without asking")
		rootCmd.AddCommand(cmd)
	}
}

// codecStreams holds the writers and reader an encode or decode run uses.
type codecStreams struct {
	in     io.Reader // for overwrite confirmation
	stdout io.Writer
	stderr io.Writer
}

func codecIO(cmd *cobra.Command) codecStreams {
	return codecStreams{in: cmd.InOrStdin(), stdout: cmd.OutOrStdout(), stderr: cmd.ErrOrStderr()}
}

// report returns where the summary goes: stderr when the data uses stdout.
func (s codecStreams) report() io.Writer {
	if codecOutput == "" {
		return s.stderr
	}
	return s.stdout
}

var codecTroubleshooting = []string{
	"Check the input file exists and is readable",
	"Use the same --layer for encode and decode",
	"Pass --force to replace an existing output file",
}

// runCodec prints the command header, runs fn and reports its failure.
func runCodec(name, path string, streams codecStreams, fn func(*ui.Printer) error) error {
	printer := ui.NewPrinter(streams.report(), plainOut)
	printer.PrintHeader(name, "linksim "+strings.ToLower(name)+" "+path, []ui.Param{
		{Key: "Input", Value: path},
		{Key: "Output", Value: outputName()},
	})
	if err := fn(printer); err != nil {
		printer.PrintError(name+" failed", err, codecTroubleshooting)
		return err
	}
	return nil
}

func runEncode(cfg *config.Config, path string, streams codecStreams) error {
	return runCodec("Encode", path, streams, func(printer *ui.Printer) error {
		return encodeFile(cfg, path, streams, printer)
	})
}

func encodeFile(cfg *config.Config, path string, streams codecStreams, printer *ui.Printer) error {
	codec, err := codecFromConfig(cfg, codecLayer)
	if err != nil {
		return err
	}
	data, err := readInput(path)
	if err != nil {
		return err
	}

	frames := codec.EncodeChunks(data)
	var stream []byte
	trace := make([]string, 0, min(len(frames), max(codecTrace, 0)))
	for i, frame := range frames {
		logging.LogFrame("encode", codec.Tags(), frame)
		stream = append(stream, frame...)
		if i < codecTrace {
			trace = append(trace, codec.Tags().Describe(frame))
		}
	}

	if err := writeOutput(streams, stream); err != nil {
		return err
	}

	if len(trace) > 0 {
		printer.PrintTrace(fmt.Sprintf("Frames (%d of %d)", len(trace), len(frames)), trace, 0)
	}
	printer.PrintSuccess("Encoded", []ui.Param{
		{Key: "Layer", Value: codec.Detector().Name()},
		{Key: "Input bytes", Value: fmt.Sprint(len(data))},
		{Key: "Frames", Value: fmt.Sprint(len(frames))},
		{Key: "Stream bytes", Value: fmt.Sprint(len(stream))},
		{Key: "Output", Value: outputName()},
	})
	return nil
}

// decodeTally counts decoder diagnostics for the decode summary.
type decodeTally struct {
	corrupt   int
	discarded int
}

func (t *decodeTally) FrameCorrupt([]byte, byte) { t.corrupt++ }

func (t *decodeTally) BytesDiscarded(n int, _ protocol.DiscardReason) { t.discarded += n }

func runDecode(cfg *config.Config, path string, streams codecStreams) error {
	return runCodec("Decode", path, streams, func(printer *ui.Printer) error {
		return decodeFile(cfg, path, streams, printer)
	})
}

func decodeFile(cfg *config.Config, path string, streams codecStreams, printer *ui.Printer) error {
	codec, err := codecFromConfig(cfg, codecLayer)
	if err != nil {
		return err
	}
	stream, err := readInput(path)
	if err != nil {
		return err
	}

	tally := &decodeTally{}
	decoder := codec.NewDecoderWithObserver(protocol.Observers(tally, logging.NewFrameObserver("decode")))

	var (
		payload   []byte
		delivered int
		trace     []string
	)
	for i, out := range decoder.Feed(stream) {
		if out.Kind == protocol.OutcomePayload {
			payload = append(payload, out.Payload...)
			delivered++
		}
		if i < codecTrace {
			trace = append(trace, fmt.Sprintf("%-7s %q  trailer 0x%02x", out.Kind, out.Payload, out.Trailer))
		}
	}
	// Whatever is left never saw a stop tag.
	incomplete := decoder.Buffered()

	if err := writeOutput(streams, payload); err != nil {
		return err
	}

	if len(trace) > 0 {
		printer.PrintTrace("Frames", trace, 0)
	}
	details := []ui.Param{
		{Key: "Layer", Value: codec.Detector().Name()},
		{Key: "Stream bytes", Value: fmt.Sprint(len(stream))},
		{Key: "Frames delivered", Value: fmt.Sprint(delivered)},
		{Key: "Frames corrupt", Value: fmt.Sprint(tally.corrupt)},
		{Key: "Bytes discarded", Value: fmt.Sprint(tally.discarded)},
		{Key: "Bytes incomplete", Value: fmt.Sprint(incomplete)},
		{Key: "Output bytes", Value: fmt.Sprint(len(payload))},
		{Key: "Output", Value: outputName()},
	}
	if tally.corrupt > 0 || tally.discarded > 0 || incomplete > 0 {
		printer.PrintWarning("Decoded with losses", details)
	} else {
		printer.PrintSuccess("Decoded", details)
	}
	return nil
}

// writeOutput writes data to --output, or stdout when unset. An existing file
// is only replaced after confirmation unless --force is given.
func writeOutput(streams codecStreams, data []byte) error {
	if codecOutput == "" {
		_, err := streams.stdout.Write(data)
		return err
	}
	if _, err := os.Stat(codecOutput); err == nil && !codecForce {
		if !ui.ConfirmOverwrite(streams.in, streams.stderr, codecOutput) {
			return fmt.Errorf("not overwriting %s", codecOutput)
		}
	}
	if err := os.WriteFile(codecOutput, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", codecOutput, err)
	}
	return nil
}

func outputName() string {
	if codecOutput == "" {
		return "stdout"
	}
	return codecOutput
}
