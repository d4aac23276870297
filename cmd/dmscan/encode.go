package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"

	"github.com/ericlevine/dmscan"
	"github.com/ericlevine/dmscan/datamatrix"
)

type encodeFlags struct {
	output string
	size   int
	margin int
	shape  string
	dmre   bool
}

func newEncodeCmd(a *app) *cobra.Command {
	var fl encodeFlags
	cmd := &cobra.Command{
		Use:   "encode <text>",
		Short: "Render text as a Data Matrix symbol image",
		Long: `Render text as a Data Matrix symbol. The image format follows the output
file extension (png, jpg, gif, tif, bmp); without --output a PNG is
written to standard output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.encode(cmd, args[0], fl)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&fl.output, "output", "o", "", "output image file")
	f.IntVarP(&fl.size, "size", "s", 0, "minimum width and height in pixels (0 uses one pixel per module)")
	f.IntVar(&fl.margin, "margin", 1, "quiet zone in modules")
	f.StringVar(&fl.shape, "shape", "", "symbol shape (square, rectangle; default either)")
	f.BoolVar(&fl.dmre, "dmre", false, "allow the rectangular extension sizes")
	return cmd
}

func parseShape(s string) (dmscan.SymbolShape, error) {
	switch strings.ToLower(s) {
	case "", "any":
		return dmscan.ShapeNone, nil
	case "square":
		return dmscan.ShapeSquare, nil
	case "rectangle", "rect":
		return dmscan.ShapeRectangle, nil
	default:
		return dmscan.ShapeNone, fmt.Errorf("unknown shape %q", s)
	}
}

func (a *app) encode(cmd *cobra.Command, text string, fl encodeFlags) error {
	shape, err := parseShape(fl.shape)
	if err != nil {
		return err
	}
	opts := &dmscan.EncodeOptions{Shape: shape, Margin: &fl.margin, AllowDMRE: fl.dmre}
	matrix, err := datamatrix.NewWriter().Encode(text, fl.size, fl.size, opts)
	if err != nil {
		return err
	}
	img := dmscan.BitMatrixToImage(matrix)

	if fl.output == "" {
		return imaging.Encode(cmd.OutOrStdout(), img, imaging.PNG)
	}
	if _, err := imaging.FormatFromFilename(fl.output); err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(fl.output), err)
	}
	if err := imaging.Save(img, fl.output); err != nil {
		return err
	}
	a.log.Info().
		Str("file", fl.output).
		Int("width", matrix.Width()).
		Int("height", matrix.Height()).
		Msg("symbol written")
	return nil
}
