// Command plserve exposes one loaded PL94-171 dataset over HTTP: a
// gin.Default() engine with one handler function per endpoint, reading
// query/path parameters and writing JSON.
package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/uscensus/plindex/plindex"
)

var dataset *plindex.IndexedDataset

var rootCmd = &cobra.Command{
	Use:   "plserve",
	Short: "Serve a PL94-171 dataset over HTTP",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Unpack, index, and serve the configured dataset",
	RunE:  runServe,
}

var reindexCheckCmd = &cobra.Command{
	Use:   "reindex-check",
	Short: "Unpack and index the configured dataset once, reporting success or failure, without serving",
	RunE:  runReindexCheck,
}

func init() {
	rootCmd.PersistentFlags().String("manifest", "", "path to the packing list file")
	rootCmd.PersistentFlags().String("host", "0.0.0.0", "bind address")
	rootCmd.PersistentFlags().String("port", "8080", "bind port")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug-level structured logging")

	_ = viper.BindPFlag("manifest", rootCmd.PersistentFlags().Lookup("manifest"))
	_ = viper.BindPFlag("host", rootCmd.PersistentFlags().Lookup("host"))
	_ = viper.BindPFlag("port", rootCmd.PersistentFlags().Lookup("port"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	viper.SetEnvPrefix("plserve")
	viper.AutomaticEnv()

	rootCmd.AddCommand(serveCmd, reindexCheckCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadDataset() error {
	if viper.GetBool("verbose") {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		plindex.SetLogger(logger)
	}

	manifest := viper.GetString("manifest")
	if manifest == "" {
		return fmt.Errorf("--manifest is required")
	}

	dataset = plindex.NewIndexedDataset("")
	if err := dataset.Unpack(manifest); err != nil {
		return fmt.Errorf("unpack: %w", err)
	}
	if err := dataset.Index(); err != nil {
		return fmt.Errorf("index: %w", err)
	}
	return nil
}

func runReindexCheck(cmd *cobra.Command, args []string) error {
	if err := loadDataset(); err != nil {
		return err
	}
	defer dataset.Close()
	fmt.Println("ok")
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := loadDataset(); err != nil {
		return err
	}
	defer dataset.Close()

	r := gin.Default()

	r.GET("/v1/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "dataset": dataset.Identifier()})
	})

	r.GET("/v1/records/:logrecno", func(c *gin.Context) {
		n, err := strconv.ParseUint(c.Param("logrecno"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "logrecno must be a non-negative integer"})
			return
		}

		tables, err := parseTables(c.Query("tables"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		record, err := dataset.GetLogicalRecord(n, tables)
		if err != nil {
			writeDatasetError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"logrecno": n, "record": record})
	})

	r.GET("/v1/geoid/:geoid", func(c *gin.Context) {
		n, err := dataset.GetLogicalRecordNumberForGeoid(c.Param("geoid"))
		if err != nil {
			writeDatasetError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"geoid": c.Param("geoid"), "logrecno": n})
	})

	r.GET("/v1/geoid/:geoid/header", func(c *gin.Context) {
		header, err := dataset.GetHeaderForGeoid(c.Param("geoid"))
		if err != nil {
			writeDatasetError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"geoid":    c.Param("geoid"),
			"logrecno": header.LogicalRecordNumber(),
			"name":     header.Name(),
			"state":    header.Field(plindex.FieldSTATE),
			"county":   header.Field(plindex.FieldCOUNTY),
			"tract":    header.Field(plindex.FieldTRACT),
			"block":    header.Field(plindex.FieldBLOCK),
		})
	})

	host := viper.GetString("host")
	port := viper.GetString("port")
	return r.Run(host + ":" + port)
}

func writeDatasetError(c *gin.Context, err error) {
	var perr *plindex.Error
	if errors.As(err, &perr) {
		switch perr.Kind {
		case plindex.ErrUnknownGeoid, plindex.ErrUnknownLogrecno, plindex.ErrUnknownTable:
			c.JSON(http.StatusNotFound, gin.H{"error": perr.Error()})
			return
		case plindex.ErrNotIndexed:
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": perr.Error()})
			return
		}
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func parseTables(s string) ([]plindex.Table, error) {
	if s == "" {
		s = "p1"
	}
	var out []plindex.Table
	for _, name := range strings.Split(s, ",") {
		name = strings.TrimSpace(strings.ToLower(name))
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
	return out, nil
}
