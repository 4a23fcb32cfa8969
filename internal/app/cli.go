package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"netcalc/internal/conversion"
	"netcalc/internal/support"
)

type cliOptions struct {
	family    string
	separator string
	inputPath string
	check     bool
	summary   bool
}

// runCLI converts one rule list read from a file or stdin and writes the
// result to stdout followed by a newline.
func runCLI(ctx context.Context, svc *conversion.Service, opts cliOptions, stdin io.Reader, stdout io.Writer) error {
	input, err := readInput(opts.inputPath, stdin)
	if err != nil {
		return err
	}

	req := conversion.Request{
		Family:    opts.family,
		Separator: support.TranslateSeparator(opts.separator),
		Input:     input,
	}

	switch {
	case opts.check:
		if err := svc.Validate(ctx, req); err != nil {
			return err
		}
		log.Info("All rules are valid", "family", req.Family)
		return nil
	case opts.summary:
		summary, err := svc.Summarize(ctx, req)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(stdout, "family=%s tokens=%d blocks=%d addresses=%s\n",
			summary.Family, summary.Tokens, summary.Blocks, summary.Addresses)
		return err
	}

	out, err := svc.Convert(ctx, req)
	if err != nil {
		return err
	}
	if out == "" {
		return nil
	}
	_, err = fmt.Fprintln(stdout, out)
	return err
}

func readInput(path string, stdin io.Reader) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read rules file: %w", err)
	}
	return string(data), nil
}
