package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"fileicon/internal/constants"
	"fileicon/internal/icon_service"
	"fileicon/internal/metrics_service"

	flags "github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
)

var BuildVersion = "dev"

type Options struct {
	Size    string `long:"size" env:"FILEICON_SIZE" default:"large" choice:"small" choice:"large" description:"Icon size class"`
	Width   uint   `long:"width" description:"Exact output width in pixels (overrides size)"`
	Height  uint   `long:"height" description:"Exact output height in pixels (defaults to width)"`
	Out     string `long:"out" short:"o" description:"Write the PNG to this file instead of printing base64"`
	Raw     bool   `long:"raw" description:"Print the raw RGBA pixels base64 encoded"`
	Version bool   `long:"version" description:"Print version and exit"`

	Args struct {
		Path string `positional-arg-name:"path" description:"File to resolve the shell icon for"`
	} `positional-args:"yes"`
}

func main() {
	rootCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	_ = godotenv.Load()
	opts := Options{}
	if _, err := flags.Parse(&opts); err != nil {
		var flagErr *flags.Error
		if errors.As(err, &flagErr) && flagErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if opts.Version {
		fmt.Println(BuildVersion)
		return
	}
	if opts.Args.Path == "" {
		fmt.Fprintln(os.Stderr, "a file path is required")
		os.Exit(2)
	}

	shutdownTelemetry, err := metrics_service.Setup(rootCtx, constants.SERVICE_NAME)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize telemetry:", err)
		os.Exit(2)
	}
	defer shutdownTelemetry(context.Background())

	size := icon_service.SizeLarge
	if opts.Size == string(icon_service.SizeSmall) {
		size = icon_service.SizeSmall
	}
	width := size.PixelSize()
	height := size.PixelSize()
	if opts.Width != 0 {
		width = opts.Width
		height = opts.Width
	}
	if opts.Height != 0 {
		height = opts.Height
	}

	image, err := icon_service.TryNewFromFile(rootCtx, opts.Args.Path, width, height)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if opts.Out != "" {
		if err := image.SaveAsPNG(opts.Out); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Printf("Saved %dx%d icon to %s\n", image.Width, image.Height, opts.Out)
		return
	}

	if opts.Raw {
		fmt.Println(image.AsBase64Raw())
		return
	}

	base64Png, err := image.AsBase64PNG()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(base64Png.Base64)
	if base64Png.IsDefault {
		fmt.Fprintln(os.Stderr, "note: path resolved to the generic file icon")
	}
}
