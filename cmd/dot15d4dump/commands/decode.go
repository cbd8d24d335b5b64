package commands

import (
	"bufio"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dantte-lp/go154/frame"
)

// errNoInput indicates neither a hex argument nor stdin produced any frame
// to decode.
var errNoInput = errors.New("no frame input given")

func decodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode [hex]",
		Short: "Decode one or more IEEE 802.15.4 MAC frames",
		Long: "decode parses hex-encoded MAC frames from the given argument, or one " +
			"per line from stdin, and prints their structure.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lines, err := readFrameLines(cmd, args)
			if err != nil {
				return err
			}
			if len(lines) == 0 {
				return errNoInput
			}

			results := decodeBatch(lines)
			collector.ObserveBatchSize(len(results))

			return printResults(results, outputFormat)
		},
	}
}

// readFrameLines returns the hex lines to decode: a single positional
// argument, or one line per frame read from stdin.
func readFrameLines(_ *cobra.Command, args []string) ([]string, error) {
	if len(args) == 1 {
		return []string{args[0]}, nil
	}

	var lines []string
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return lines, nil
}

// decodeResult is one line's decode outcome, either a decoded frame or an
// error, kept in input order.
type decodeResult struct {
	Input string `json:"input"`
	Frame *decodedFrame `json:"frame,omitempty"`
	Error string `json:"error,omitempty"`
}

// decodeBatch decodes each hex line concurrently, bounded by
// cfg.Decode.MaxConcurrentFrames, and returns results in input order.
func decodeBatch(lines []string) []decodeResult {
	results := make([]decodeResult, len(lines))

	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(cfg.Decode.MaxConcurrentFrames)

	for i, line := range lines {
		i, line := i, line
		g.Go(func() error {
			results[i] = decodeOne(line)
			return nil
		})
	}
	// decodeOne never returns an error from the goroutine itself; failures
	// are captured per-result instead so one bad frame doesn't abort the
	// batch.
	_ = g.Wait()

	return results
}

// decodeOne decodes a single hex-encoded frame and records its observed
// frame type and Information Elements against the metrics collector.
func decodeOne(hexLine string) decodeResult {
	raw, err := hex.DecodeString(strings.TrimSpace(hexLine))
	if err != nil {
		collector.IncDecodeFailures("bad_hex")
		return decodeResult{Input: hexLine, Error: fmt.Sprintf("decode hex: %v", err)}
	}

	f, err := frame.NewFrame(raw)
	if err != nil {
		collector.IncDecodeFailures(failureKind(err))
		return decodeResult{Input: hexLine, Error: err.Error()}
	}

	df, err := describeFrame(f)
	if err != nil {
		collector.IncDecodeFailures(failureKind(err))
		return decodeResult{Input: hexLine, Error: err.Error()}
	}

	collector.IncFramesDecoded(df.Variant)
	for _, h := range df.HeaderIEs {
		collector.IncIEObserved("header", h.ElementID)
	}
	for _, p := range df.PayloadIEs {
		collector.IncIEObserved("payload", p.GroupID)
	}

	return decodeResult{Input: hexLine, Frame: df}
}

// failureKind maps a codec error to a short metrics label.
func failureKind(err error) string {
	switch {
	case errors.Is(err, frame.ErrBufferTooShort):
		return "buffer_too_short"
	case errors.Is(err, frame.ErrIllFormed):
		return "ill_formed"
	case errors.Is(err, frame.ErrInvalidRepr):
		return "invalid_repr"
	default:
		return "other"
	}
}

func printResults(results []decodeResult, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		for _, r := range results {
			if err := enc.Encode(r); err != nil {
				return fmt.Errorf("encode json: %w", err)
			}
		}
	default:
		for _, r := range results {
			printResultText(r)
		}
	}
	return nil
}

func printResultText(r decodeResult) {
	if r.Error != "" {
		fmt.Printf("%s: error: %s\n", r.Input, r.Error)
		return
	}
	df := r.Frame
	fmt.Printf("%s\n", df.Summary)
	if df.SequenceNumber != nil {
		fmt.Printf("  sequence_number: %d\n", *df.SequenceNumber)
	}
	if df.DstAddress != "" {
		fmt.Printf("  dst: pan=%s addr=%s\n", df.DstPanID, df.DstAddress)
	}
	if df.SrcAddress != "" {
		fmt.Printf("  src: pan=%s addr=%s\n", df.SrcPanID, df.SrcAddress)
	}
	for _, h := range df.HeaderIEs {
		fmt.Printf("  header-ie: %s (%d octets)\n", h.ElementID, h.ContentLen)
	}
	for _, p := range df.PayloadIEs {
		fmt.Printf("  payload-ie: %s (%d octets)\n", p.GroupID, p.ContentLen)
	}
	fmt.Printf("  payload: %d octets\n", df.PayloadLen)
}
