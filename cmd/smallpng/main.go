// Command smallpng recompresses raster images into size-optimized PNGs.
package main

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	_ "golang.org/x/image/bmp"

	"github.com/afdw/smallpng/png"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	var (
		interlace bool
		chunkSize int
		verbose   bool
	)
	root := &cobra.Command{
		Use:   "smallpng <input> [output]",
		Short: "Recompress a raster image into a size-optimized PNG",
		Long: "Reads a raster image (PNG or BMP), picks the most economical PNG\n" +
			"color representation for its content, and writes the result next to\n" +
			"the input or to the given output path.",
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
			in := args[0]
			out := strings.TrimSuffix(in, filepath.Ext(in)) + ".small.png"
			if len(args) == 2 {
				out = args[1]
			}
			return recompress(log, in, out, interlace, chunkSize)
		},
	}
	root.Flags().BoolVar(&interlace, "interlace", false, "emit an Adam7 interlaced image")
	root.Flags().IntVar(&chunkSize, "chunk-size", 0, "max IDAT payload size in bytes (default 1024)")
	root.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("recompression failed")
		os.Exit(1)
	}
}

func recompress(log zerolog.Logger, in, out string, interlace bool, chunkSize int) error {
	f, err := os.Open(in)
	if err != nil {
		return err
	}
	defer f.Close()

	src, format, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("decode %s: %w", in, err)
	}
	stat, err := f.Stat()
	if err != nil {
		return err
	}
	bounds := src.Bounds()
	log.Debug().
		Str("input", in).
		Str("format", format).
		Int("width", bounds.Dx()).
		Int("height", bounds.Dy()).
		Msg("decoded input")

	enc := png.Encoder{ChunkSize: chunkSize}
	if interlace {
		enc.Interlace = png.InterlaceAdam7
	}
	g, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := enc.Encode(g, src); err != nil {
		g.Close()
		os.Remove(out)
		return fmt.Errorf("encode %s: %w", out, err)
	}
	if err := g.Close(); err != nil {
		return err
	}
	outStat, err := os.Stat(out)
	if err != nil {
		return err
	}

	log.Info().
		Str("output", out).
		Int64("input_bytes", stat.Size()).
		Int64("output_bytes", outStat.Size()).
		Str("ratio", fmt.Sprintf("%.1f%%", 100*float64(outStat.Size())/float64(stat.Size()))).
		Msg("recompressed")
	return nil
}
