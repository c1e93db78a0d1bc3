package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"chordserve/internal/convert"
	"chordserve/internal/logging"
)

// newConvertCommand converts a single chord sheet locally, without the HTTP
// service. It shares the request validation and engine invocation paths with
// the server so both behave identically.
func newConvertCommand(ctx *commandContext) *cobra.Command {
	var (
		format     string
		transpose  int
		metaFlags  []string
		noDiagrams bool
		presets    []string
		outputPath string
	)

	cmd := &cobra.Command{
		Use:   "convert [file]",
		Short: "Convert a chord sheet from a file or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			content, err := readInput(args)
			if err != nil {
				return err
			}

			options := map[string]any{}
			if cmd.Flags().Changed("transpose") {
				options["transpose"] = transpose
			}
			if len(metaFlags) > 0 {
				meta := make(map[string]string, len(metaFlags))
				for _, pair := range metaFlags {
					key, value, ok := strings.Cut(pair, "=")
					if !ok || strings.TrimSpace(key) == "" {
						return fmt.Errorf("invalid --meta value %q (expected key=value)", pair)
					}
					meta[key] = value
				}
				options["meta"] = meta
			}
			if noDiagrams {
				options["diagrams"] = false
			}
			if len(presets) > 0 {
				options["config"] = presets
			}

			payload := map[string]any{"content": string(content)}
			if strings.TrimSpace(format) != "" {
				payload["output_format"] = format
			}
			if len(options) > 0 {
				payload["options"] = options
			}
			body, err := json.Marshal(payload)
			if err != nil {
				return fmt.Errorf("encode request: %w", err)
			}

			req, err := convert.ParseRequest(body,
				convert.Limits{MaxContentBytes: cfg.Convert.MaxContentBytes},
				convert.NewPresetCatalog(cfg.Convert.Presets))
			if err != nil {
				return err
			}

			runCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			runner := convert.NewRunner(
				cfg.Convert.Engine,
				cfg.Convert.WorkDir,
				time.Duration(cfg.Convert.TimeoutSeconds)*time.Second,
				logging.NewNop())
			result := runner.Run(runCtx, req)
			if !result.OK {
				return fmt.Errorf("conversion failed (%s): %s", result.Kind, result.Message)
			}

			target := strings.TrimSpace(outputPath)
			if target == "" || target == "-" {
				if _, err := cmd.OutOrStdout().Write(result.Bytes); err != nil {
					return fmt.Errorf("write output: %w", err)
				}
				return nil
			}
			if err := os.WriteFile(target, result.Bytes, 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d bytes to %s\n", len(result.Bytes), target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format (pdf, text, cho, html)")
	cmd.Flags().IntVarP(&transpose, "transpose", "t", 0, "Transpose by semitones (-48 to 48)")
	cmd.Flags().StringArrayVar(&metaFlags, "meta", nil, "Metadata directive as key=value (repeatable)")
	cmd.Flags().BoolVar(&noDiagrams, "no-diagrams", false, "Suppress chord diagrams")
	cmd.Flags().StringArrayVar(&presets, "preset", nil, "Configuration preset to apply (repeatable)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file (default stdout)")
	return cmd
}

func readInput(args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return content, nil
	}
	content, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", args[0], err)
	}
	return content, nil
}
