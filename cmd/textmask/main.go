// textmask is a command-line tool that isolates the text of a photographed
// plate or sign as a black and white mask.
//
// Usage:
//
//	textmask -in plate.jpg -out mask.png [options]
//
// Required flags:
//
//	-in string         Input image (png, jpeg, gif, bmp, tiff or webp)
//	-out string        Output mask path; the extension picks the encoder
//
// Optional outputs:
//
//	-edges string      Write the combined edge map
//	-annotated string  Write the padded input with region boxes drawn
//	-regions string    Write the accepted regions as JSON ("-" for stdout)
//	-plate string      Write the plate bounds image; its rectangle is logged
//
// Settings:
//
//	-config string     YAML configuration file
//	-padding int       Override the border added before edge detection
//	-traversal string  Override the hierarchy traversal (strict or compat)
//
// TEXTMASK_* environment variables override the config file, and flags
// override both.
//
// Example:
//
//	textmask -in sign.jpg -out sign_mask.png -annotated sign_boxes.png -regions -
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/ironsheep/textmask/internal/config"
	"github.com/ironsheep/textmask/internal/detection"
	"github.com/ironsheep/textmask/internal/imaging"
	"github.com/ironsheep/textmask/internal/textmask"
)

// regionRecord is one line of the -regions output.
type regionRecord struct {
	Index       int              `json:"index"`
	Bounds      detection.Bounds `json:"bounds"`
	Points      int              `json:"points"`
	NumChildren int              `json:"num_children"`
	Foreground  float64          `json:"foreground"`
	Background  float64          `json:"background"`
	BrightText  bool             `json:"bright_text"`
}

func main() {
	inPath := flag.String("in", "", "Input image path")
	outPath := flag.String("out", "", "Output mask path")
	configPath := flag.String("config", "", "YAML configuration file")
	edgesPath := flag.String("edges", "", "Write the combined edge map to this path")
	annotatedPath := flag.String("annotated", "", "Write the annotated padded image to this path")
	regionsPath := flag.String("regions", "", "Write accepted regions as JSON to this path (- for stdout)")
	platePath := flag.String("plate", "", "Write the plate bounds image to this path")
	padding := flag.Int("padding", -1, "Border added on every side (default from config)")
	traversal := flag.String("traversal", "", "Hierarchy traversal: strict or compat (default from config)")
	flag.Parse()

	if *inPath == "" || *outPath == "" {
		fmt.Fprintln(os.Stderr, "Error: Must provide -in and -out")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.FromEnv(os.LookupEnv); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *padding >= 0 {
		cfg.Padding = *padding
	}
	if *traversal != "" {
		cfg.Traversal = *traversal
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	log, err := cfg.Logger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, log, *inPath, outputs{
		mask:      *outPath,
		edges:     *edgesPath,
		annotated: *annotatedPath,
		regions:   *regionsPath,
		plate:     *platePath,
	}); err != nil {
		log.Error().Err(err).Str("input", *inPath).Msg("textmask failed")
		os.Exit(1)
	}
}

type outputs struct {
	mask, edges, annotated, regions, plate string
}

func run(cfg *config.Config, log zerolog.Logger, inPath string, out outputs) error {
	src, err := imaging.NewImageCache().Load(inPath)
	if err != nil {
		return err
	}

	opts, err := cfg.TextMaskOptions(&log)
	if err != nil {
		return err
	}
	res, err := textmask.ComputeTextMask(src, opts)
	if err != nil {
		return err
	}

	if err := imaging.Save(res.Mask, out.mask); err != nil {
		return err
	}
	if out.edges != "" {
		if err := imaging.Save(res.Edges, out.edges); err != nil {
			return err
		}
	}
	if out.annotated != "" {
		if err := imaging.Save(res.Annotated(), out.annotated); err != nil {
			return err
		}
	}
	if out.regions != "" {
		if err := writeRegions(res, out.regions); err != nil {
			return err
		}
	}

	log.Info().
		Str("input", inPath).
		Str("mask", out.mask).
		Int("contours", res.Contours).
		Int("regions", len(res.Regions)).
		Msg("text mask written")

	if out.plate != "" {
		plate, err := detection.PlateBounds(src, cfg.PlateOptions())
		if err != nil {
			return err
		}
		if err := imaging.Save(plate.Image, out.plate); err != nil {
			return err
		}
		log.Info().
			Float64("center_x", plate.Rect.Center.X).
			Float64("center_y", plate.Rect.Center.Y).
			Float64("width", plate.Rect.Width).
			Float64("height", plate.Rect.Height).
			Float64("angle", plate.Rect.Angle).
			Msg("plate bounds written")
	}
	return nil
}

func writeRegions(res *textmask.Result, path string) error {
	records := make([]regionRecord, len(res.Regions))
	for i, r := range res.Regions {
		records[i] = regionRecord{
			Index:       r.Index,
			Bounds:      detection.BoundsOf(r.Box),
			Points:      len(r.Points),
			NumChildren: r.NumChildren,
		}
		if i < len(res.Estimates) {
			e := res.Estimates[i]
			records[i].Foreground = e.Foreground
			records[i].Background = e.Background
			records[i].BrightText = e.BrightText()
		}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode regions: %w", err)
	}
	data = append(data, '\n')

	if path == "-" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write regions %s: %w", path, err)
	}
	return nil
}
