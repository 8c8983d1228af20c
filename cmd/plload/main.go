// Command plload unpacks and indexes a PL94-171 packing list and walks a
// small set of example lookups against it.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/uscensus/plindex/plindex"
)

var (
	manifestPath string
	geoid        string
	logrecno     uint64
	tableNames   string
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "plload",
	Short: "Load a PL94-171 packing list and run example lookups",
	RunE:  run,
}

func init() {
	rootCmd.Flags().StringVar(&manifestPath, "manifest", "", "path to the packing list file (required)")
	rootCmd.Flags().StringVar(&geoid, "geoid", "", "GEOID to resolve (state+county+tract+block)")
	rootCmd.Flags().Uint64Var(&logrecno, "logrecno", 0, "logical record number to fetch directly, skipping GEOID lookup")
	rootCmd.Flags().StringVar(&tableNames, "tables", "p1", "comma-separated list of tables to project (e.g. p1,p2,h1)")
	rootCmd.Flags().BoolVar(&verbose, "verbose", false, "enable debug-level structured logging")
	_ = rootCmd.MarkFlagRequired("manifest")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		plindex.SetLogger(logger)
		defer logger.Sync()
	}

	tables, err := parseTables(tableNames)
	if err != nil {
		return err
	}

	ds := plindex.NewIndexedDataset("")
	if err := ds.Unpack(manifestPath); err != nil {
		return fmt.Errorf("unpack: %w", err)
	}
	defer ds.Close()

	if err := ds.Index(); err != nil {
		return fmt.Errorf("index: %w", err)
	}

	n := logrecno
	if geoid != "" {
		n, err = ds.GetLogicalRecordNumberForGeoid(geoid)
		if err != nil {
			return fmt.Errorf("resolve geoid %q: %w", geoid, err)
		}

		header, err := ds.GetHeaderForGeoid(geoid)
		if err != nil {
			return fmt.Errorf("fetch header for %q: %w", geoid, err)
		}
		color.New(color.FgCyan, color.Bold).Printf("GEOID %s", geoid)
		fmt.Printf(" -> logrecno %d, name %q\n", n, header.Name())
	}

	if n == 0 {
		return fmt.Errorf("nothing to fetch: pass --geoid or --logrecno")
	}

	record, err := ds.GetLogicalRecord(n, tables)
	if err != nil {
		return fmt.Errorf("fetch record %d: %w", n, err)
	}

	color.New(color.FgGreen).Printf("record %d (%s):\n", n, tableNames)
	for i, cell := range record {
		fmt.Printf("  [%d] %s\n", i, cell)
	}

	return nil
}

func parseTables(s string) ([]plindex.Table, error) {
	var out []plindex.Table
	for _, name := range strings.Split(s, ",") {
		name = strings.TrimSpace(strings.ToLower(name))
		if name == "" {
			continue
		}
		switch name {
		case "p1":
			out = append(out, plindex.TableP1)
		case "p2":
			out = append(out, plindex.TableP2)
		case "p3":
			out = append(out, plindex.TableP3)
		case "p4":
			out = append(out, plindex.TableP4)
		case "h1":
			out = append(out, plindex.TableH1)
		case "p5":
			out = append(out, plindex.TableP5)
		default:
			return nil, fmt.Errorf("unrecognized table %q", name)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no tables requested")
	}
	return out, nil
}
