package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/minebombers/internal/audio"
	"github.com/vovakirdan/minebombers/internal/spy"
)

var (
	flagScale int
	flagRate  int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Convert SPY images and VOC sounds",
	Long: `Convert game assets to common formats.

Examples:
  minebombers export spy TITLEBE.SPY title.png --scale 2
  minebombers export spy SHAPET.PPM shapes.png
  minebombers export voc EXPLOS1.VOC explosion.wav --rate 11025`,
}

var exportSpyCmd = &cobra.Command{
	Use:   "spy <input> <output.png>",
	Short: "Decode a SPY or PPM image to PNG",
	Args:  cobra.ExactArgs(2),
	Run:   runExportSpy,
}

var exportVocCmd = &cobra.Command{
	Use:   "voc <input> <output.wav>",
	Short: "Decode a VOC sample to WAV",
	Args:  cobra.ExactArgs(2),
	Run:   runExportVoc,
}

func init() {
	exportSpyCmd.Flags().IntVar(&flagScale, "scale", 1, "Integer upscaling factor")
	exportVocCmd.Flags().IntVar(&flagRate, "rate", 0, "Playback rate in Hz (0 = sample's own rate)")

	exportCmd.AddCommand(exportSpyCmd)
	exportCmd.AddCommand(exportVocCmd)
}

func runExportSpy(_ *cobra.Command, args []string) {
	if flagScale < 1 {
		fmt.Fprintln(os.Stderr, "Error: --scale must be at least 1")
		os.Exit(1)
	}
	if err := spy.ExportPNG(args[0], args[1], flagScale); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s\n", args[1])
}

func runExportVoc(_ *cobra.Command, args []string) {
	if flagRate < 0 {
		fmt.Fprintln(os.Stderr, "Error: --rate must not be negative")
		os.Exit(1)
	}
	if err := audio.ExportWAV(args[0], args[1], flagRate); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s\n", args[1])
}
