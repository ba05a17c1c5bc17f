package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/template-render/internal/config"
	"github.com/ironsheep/template-render/internal/markup"
	"github.com/ironsheep/template-render/internal/render"
	"github.com/ironsheep/template-render/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("template-render %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printHelp()
			return
		}
	}

	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	// Logging goes to stderr (stdout is for MCP protocol)
	logger := cfg.NewLogger()

	if len(os.Args) > 1 && os.Args[1] == "render" {
		if err := runRender(cfg, logger, os.Args[2:], os.Stdout); err != nil {
			logger.WithError(err).Error("Render failed")
			os.Exit(1)
		}
		return
	}

	logger.WithFields(logrus.Fields{
		"version": Version,
		"built":   BuildTime,
		"commit":  GitCommit,
	}).Debug("Template render MCP server starting")

	renderer, mimeType, err := newRenderer(cfg, logger, "")
	if err != nil {
		logger.WithError(err).Fatal("Failed to configure renderer")
	}
	srv := server.New(server.Options{
		Renderer:   renderer,
		Logger:     logger,
		DefaultDPI: cfg.DPI,
		MimeType:   mimeType,
		Version:    Version,
	})
	if err := srv.Run(); err != nil {
		logger.WithError(err).Fatal("Server error")
	}
}

func printHelp() {
	fmt.Println("template-render - render data-bound UI templates to images")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  template-render                 Run the MCP server on stdin/stdout")
	fmt.Println("  template-render render [flags]  Render one template to a file")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Render flags:")
	fmt.Println("  -template FILE   Template markup (required)")
	fmt.Println("  -data FILE       JSON document bound to the template root")
	fmt.Println("  -dpi VALUE       Resolution or preset name (screen, thermal, print)")
	fmt.Println("  -out FILE        Output image, '-' for stdout (default: template name + .png)")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Printf("  %s=debug        Log level (default info)\n", config.EnvLogLevel)
	fmt.Printf("  %s=N       Renders allowed at once (default GOMAXPROCS)\n", config.EnvMaxConcurrent)
	fmt.Printf("  %s=203                Default resolution or preset\n", config.EnvDPI)
	fmt.Printf("  %s=png             Output format: png, bmp or tiff\n", config.EnvFormat)
	fmt.Printf("  %s=128          Convert output to black and white\n", config.EnvThreshold)
	fmt.Printf("  %s=N           Largest output in pixels (default 8192x8192)\n", config.EnvMaxPixels)
}

// newRenderer builds a renderer from configuration. Relative image sources
// in templates resolve against baseDir.
func newRenderer(cfg config.Config, logger logrus.FieldLogger, baseDir string) (*render.Renderer, string, error) {
	enc, err := cfg.Encoder()
	if err != nil {
		return nil, "", err
	}
	mimeType := "image/png"
	if m, ok := enc.(interface{ MimeType() string }); ok {
		mimeType = m.MimeType()
	}
	r := render.New(
		render.WithParser(markup.Parser{BaseDir: baseDir}),
		render.WithEncoder(enc),
		render.WithLogger(logger),
		render.WithMaxConcurrent(cfg.MaxConcurrent),
		render.WithMaxPixels(cfg.MaxPixels),
	)
	return r, mimeType, nil
}

func runRender(cfg config.Config, logger logrus.FieldLogger, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	templatePath := fs.String("template", "", "template markup file")
	dataPath := fs.String("data", "", "JSON data file")
	dpiValue := fs.String("dpi", "", "resolution or preset name")
	outPath := fs.String("out", "", "output file, '-' for stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *templatePath == "" {
		return fmt.Errorf("-template is required")
	}

	tmpl, err := os.ReadFile(*templatePath)
	if err != nil {
		return fmt.Errorf("failed to read template: %w", err)
	}

	var data interface{}
	if *dataPath != "" {
		raw, err := os.ReadFile(*dataPath)
		if err != nil {
			return fmt.Errorf("failed to read data: %w", err)
		}
		if err := json.Unmarshal(raw, &data); err != nil {
			return fmt.Errorf("failed to parse data: %w", err)
		}
	}

	resolution := cfg.DPI
	if *dpiValue != "" {
		if resolution, err = config.ParseDPI(*dpiValue); err != nil {
			return err
		}
	}

	renderer, _, err := newRenderer(cfg, logger, filepath.Dir(*templatePath))
	if err != nil {
		return err
	}
	out, err := renderer.Render(context.Background(), render.Request{
		Template:    tmpl,
		DataContext: data,
		DpiX:        resolution,
		DpiY:        resolution,
	})
	if err != nil {
		return err
	}

	dest := *outPath
	if dest == "-" {
		_, err := stdout.Write(out)
		return err
	}
	if dest == "" {
		ext := filepath.Ext(*templatePath)
		dest = (*templatePath)[:len(*templatePath)-len(ext)] + "." + cfg.Format
	}
	if err := os.WriteFile(dest, out, 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	logger.WithFields(logrus.Fields{"path": dest, "bytes": len(out), "dpi": resolution}).Info("Rendered")
	return nil
}
