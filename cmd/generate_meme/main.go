package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/ivlev/gifmeme/internal/config"
	"github.com/ivlev/gifmeme/internal/engine"
)

// textFlags collects repeatable -t values in order of appearance.
type textFlags []string

func (t *textFlags) String() string {
	return strings.Join(*t, ", ")
}

func (t *textFlags) Set(v string) error {
	*t = append(*t, v)
	return nil
}

func main() {
	var texts textFlags
	var output, configPath, fontDir, qrContent string
	var workers, delay, qrSize int

	flag.Var(&texts, "t", "Text to fill the next template slot with (repeatable)")
	flag.StringVar(&output, "o", "", "Path to output animation (default: <input>_meme.gif)")
	flag.StringVar(&output, "output", "", "Alias for -o")
	flag.StringVar(&configPath, "config", "", "Path to YAML overrides (default: gifmeme.yaml if present)")
	flag.StringVar(&fontDir, "font-dir", "", "Directory searched for template fonts")
	flag.StringVar(&qrContent, "qr", "", "Stamp a QR code with this content on every frame")
	flag.IntVar(&qrSize, "qr-size", 0, "QR stamp edge length in pixels")
	flag.IntVar(&workers, "workers", 0, "Render workers (0 picks a host default)")
	flag.IntVar(&delay, "delay", 0, "Frame delay for still-image inputs, in 1/100s (default 10)")

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(),
			"Usage: generate_meme <gif_path> [-t TEXT]... [-o OUTPUT]\n\n"+
				"Renders the text overlays of <gif_path>'s paired .json template\n"+
				"onto the animation and writes the result.\n\n")
		flag.PrintDefaults()
	}

	// Accept the input path before the flags, argparse style.
	args := os.Args[1:]
	input := ""
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		input = args[0]
		args = args[1:]
	}
	flag.CommandLine.Parse(args)
	if input == "" {
		input = flag.Arg(0)
	}
	if input == "" {
		flag.Usage()
		os.Exit(2)
	}

	if output == "" {
		ext := filepath.Ext(input)
		output = strings.TrimSuffix(filepath.Clean(input), ext) + "_meme.gif"
	}

	cfg := &config.Config{
		InputPath:  input,
		OutputPath: output,
		Texts:      texts,
		Workers:    workers,
		Delay:      delay,
		FontDir:    fontDir,
		QRContent:  qrContent,
		QRSize:     qrSize,
	}

	if configPath == "" {
		if _, err := os.Stat("gifmeme.yaml"); err == nil {
			configPath = "gifmeme.yaml"
		}
	}
	if configPath != "" {
		fc, err := config.LoadFile(configPath)
		if err != nil {
			log.Fatalf("[-] Error: %v", err)
		}
		cfg.Apply(fc)
	}

	project := engine.NewProject(cfg)
	if err := project.Run(context.Background()); err != nil {
		log.Fatalf("[-] Error: %v", err)
	}

	fmt.Printf("[+++] Done! Output: %s\n", cfg.OutputPath)
}
