package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/freeeve/edaxknowledge/internal/analysis"
	"github.com/freeeve/edaxknowledge/internal/archive"
)

func newDumpCmd() *cobra.Command {
	var compress string
	cmd := &cobra.Command{
		Use:   "dump [file]",
		Short: "Print packed records as CSV (board,lower,upper)",
		Long: `dump decodes a file written by extract and prints one CSV row per record.
With no file or "-" it reads stdin. Files ending in .zst are read as zstd
unless --compress says otherwise.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			name := "-"
			if len(args) == 1 {
				name = args[0]
			}
			comp, err := dumpCompression(compress, name)
			if err != nil {
				return err
			}
			if name != "-" {
				f, err := os.Open(name)
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			return runDump(in, cmd.OutOrStdout(), comp)
		},
	}
	cmd.Flags().StringVar(&compress, "compress", "", "input compression (none, zstd); default from the .zst suffix")
	return cmd
}

// dumpCompression picks the input compression from the flag or, when the flag
// is empty, the file suffix. Packed records start with a raw board mask, so
// magic bytes cannot be trusted.
func dumpCompression(flag, name string) (archive.Compression, error) {
	if flag == "" {
		if strings.HasSuffix(name, ".zst") {
			return archive.Zstd, nil
		}
		return archive.None, nil
	}
	comp, err := archive.ParseCompression(flag)
	if err != nil || (comp != archive.None && comp != archive.Zstd) {
		return archive.None, fmt.Errorf("dump: compress must be none or zstd, got %q", flag)
	}
	return comp, nil
}

func runDump(in io.Reader, out io.Writer, comp archive.Compression) error {
	r, closer, err := comp.NewReader(in)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	writer := csv.NewWriter(out)
	if err := writer.Write([]string{"board", "lower", "upper"}); err != nil {
		return err
	}

	records := analysis.NewReader(r)
	for {
		rec, err := records.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			writer.Flush()
			return err
		}
		row := []string{
			rec.Board.String(),
			strconv.Itoa(int(rec.Bounds[0])),
			strconv.Itoa(int(rec.Bounds[1])),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
