// Package cmd — chunk command.
// This is the main command that orchestrates the pipeline:
// read → normalize (markdown only) → split → link → render → write.
//
// It handles flag validation, renderer selection, and per-file progress.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verloop/md2chunks/core"
	"github.com/verloop/md2chunks/core/normalize"
	"github.com/verloop/md2chunks/core/output"
	"github.com/verloop/md2chunks/core/reader"
	"github.com/verloop/md2chunks/core/render"
	"github.com/verloop/md2chunks/core/split"
)

// Flag variables.
var (
	flagJSON          bool
	flagText          bool
	flagChunkSize     int
	flagOverlapBuffer float64
	flagModel         string
	flagMetadata      string
	flagOutputDir     string
)

var chunkCmd = &cobra.Command{
	Use:   "chunk <input_dir>",
	Short: "Chunk every markdown and text file in a directory",
	Long: `Chunk reads the .md and .txt files in a directory, normalizes markdown
(heading hierarchy materialized, tables flattened, code stripped), splits each
document into token-bounded chunks, and writes one output file per document.

Examples:
  md2chunks chunk ./docs --json
  md2chunks chunk ./docs --text --chunk_size 512 --output_dir ./out
  md2chunks chunk ./docs --json --model gpt-4 --metadata "source: handbook"`,
	Args: cobra.ExactArgs(1),
	RunE: runChunk,
}

func init() {
	rootCmd.AddCommand(chunkCmd)

	// Output format flags (mutually exclusive).
	chunkCmd.Flags().BoolVar(&flagJSON, "json", false, "Output linked chunk nodes as JSON")
	chunkCmd.Flags().BoolVar(&flagText, "text", false, "Output a human-readable chunk listing")

	// Splitting parameters.
	chunkCmd.Flags().IntVar(&flagChunkSize, "chunk_size", 256, "Target token count per chunk")
	chunkCmd.Flags().Float64Var(&flagOverlapBuffer, "overlap_buffer", 1.4, "Split/merge ceiling multiplier (must be above 1.0)")
	chunkCmd.Flags().StringVar(&flagModel, "model", "gpt-3.5-turbo", "Tokenizer model")
	chunkCmd.Flags().StringVar(&flagMetadata, "metadata", "", "Metadata text whose token cost is reserved out of every chunk")

	// Output directory.
	chunkCmd.Flags().StringVar(&flagOutputDir, "output_dir", "", "Output directory (default: current directory)")
}

func runChunk(cmd *cobra.Command, args []string) error {
	inputDir := args[0]

	if err := validateFlags(); err != nil {
		return err
	}

	info, err := os.Stat(inputDir)
	if err != nil {
		return fmt.Errorf("input directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("input path is not a directory: %s", inputDir)
	}

	renderer := selectRenderer()

	cfg := split.DefaultConfig()
	cfg.ChunkSize = flagChunkSize
	cfg.OverlapBuffer = flagOverlapBuffer
	cfg.Model = flagModel

	// An unsupported model fails here, before any file is touched.
	splitter, err := split.New(cfg)
	if err != nil {
		return err
	}

	rdr := reader.New(normalize.New(), splitter, flagMetadata)

	writer, err := output.New(flagOutputDir)
	if err != nil {
		return fmt.Errorf("initializing output writer: %w", err)
	}

	files, err := reader.Discover(inputDir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no .md or .txt files found in %s", inputDir)
	}

	fmt.Fprintf(os.Stdout, "Found %d documents to chunk\n", len(files))

	var errCount int
	for i, path := range files {
		fmt.Fprintf(os.Stdout, "[%d/%d] Processing %s\n", i+1, len(files), path)

		nodes, err := rdr.LoadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  ✗ Error: %v\n", err)
			errCount++
			continue
		}

		data, err := renderer.Render(docInfo(path, cfg), nodes)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  ✗ Render error: %v\n", err)
			errCount++
			continue
		}

		outPath, err := writer.Write(path, data, renderer.Extension())
		if err != nil {
			fmt.Fprintf(os.Stderr, "  ✗ Write error: %v\n", err)
			errCount++
			continue
		}
		fmt.Fprintf(os.Stdout, "  ✓ Written: %s (%d chunks)\n", outPath, len(nodes))
	}

	if errCount > 0 {
		fmt.Fprintf(os.Stderr, "\n%d/%d documents failed\n", errCount, len(files))
	}
	return nil
}

// docInfo builds the per-document metadata carried into rendered output.
func docInfo(path string, cfg split.Config) core.DocInfo {
	ext := filepath.Ext(path)
	return core.DocInfo{
		Name:      strings.TrimSuffix(filepath.Base(path), ext),
		Path:      path,
		Format:    strings.TrimPrefix(ext, "."),
		ChunkSize: cfg.ChunkSize,
		Model:     cfg.Model,
	}
}

// validateFlags checks that exactly one output format is chosen and that the
// splitting parameters are usable.
func validateFlags() error {
	if flagJSON == flagText {
		return fmt.Errorf("exactly one output format is required: --json or --text")
	}
	if flagChunkSize <= 0 {
		return fmt.Errorf("--chunk_size must be positive (got %d)", flagChunkSize)
	}
	if flagOverlapBuffer <= 1.0 {
		return fmt.Errorf("--overlap_buffer must be above 1.0 (got %g)", flagOverlapBuffer)
	}
	return nil
}

// selectRenderer creates the appropriate Renderer based on flags.
func selectRenderer() core.Renderer {
	if flagJSON {
		return render.NewJSONRenderer()
	}
	return render.NewTextRenderer()
}
