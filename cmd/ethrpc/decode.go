package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmagro/ethrpc-types/internal/output"
)

func decodeCmd(gf *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "decode <kind> [file|-]",
		Short: "Decode a value and print its canonical form",
		Long: `Reads one JSON document (from a file, or stdin when the file is "-" or omitted),
decodes it as the given kind and prints it re-encoded canonically.

Examples:
  ethrpc decode call request.json
  echo '"0x00ff"' | ethrpc decode quantity
  ethrpc decode block block.json --format json --pretty`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := "-"
			if len(args) == 2 {
				src = args[1]
			}
			return runDecode(cmd.InOrStdin(), cmd.OutOrStdout(), args[0], src, gf)
		},
	}
}

func runDecode(stdin io.Reader, w io.Writer, kindName, src string, gf *globalFlags) error {
	k, err := lookupKind(kindName)
	if err != nil {
		return err
	}

	data, err := readSource(stdin, src)
	if err != nil {
		return err
	}

	v, err := k.decode(data)
	if err != nil {
		return fmt.Errorf("decode %s: %w", kindName, err)
	}

	if gf.format == "terminal" && k.render != nil {
		k.render(w, v)
		return nil
	}

	canonical, err := k.encode(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", kindName, err)
	}
	return output.WriteRaw(w, canonical, gf.pretty)
}

func readSource(stdin io.Reader, src string) ([]byte, error) {
	if src == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", src, err)
	}
	return data, nil
}
