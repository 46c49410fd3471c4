// Command pyjamaz is a CLI front end for the optimization engine.
//
// Usage:
//
//	pyjamaz [flags] <input> [output]
//
// Examples:
//
//	pyjamaz photo.jpg out.jpg
//	pyjamaz -max-bytes 200KB -formats webp,avif photo.png out
//	pyjamaz -max-diff 0.01 -metric ssimulacra2 photo.jpg out.avif
//	pyjamaz -cache ~/.cache/pyjamaz photo.jpg out.webp
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shamspias/pyjamaz"
	"github.com/shamspias/pyjamaz/cache"
	"github.com/shamspias/pyjamaz/engine"
	"github.com/shamspias/pyjamaz/internal/elog"
)

func main() {
	var (
		maxBytes    string
		maxDiff     float64
		metricName  string
		formatsCSV  string
		concurrency int
		cacheDir    string
		cacheSize   string
		verbose     bool
	)

	flag.StringVar(&maxBytes, "max-bytes", "", "Byte-size budget (e.g. 100KB, 2MB); empty = unbounded")
	flag.Float64Var(&maxDiff, "max-diff", 0, "Perceptual-diff ceiling (0 = unbounded)")
	flag.StringVar(&metricName, "metric", "dssim", "Perceptual metric: dssim|ssimulacra2|none")
	flag.StringVar(&formatsCSV, "formats", "jpeg,png,webp,avif", "Comma-separated candidate formats to try")
	flag.IntVar(&concurrency, "concurrency", 0, "Worker count (0 = number of CPUs)")
	flag.StringVar(&cacheDir, "cache", "", "Cache directory; empty disables caching")
	flag.StringVar(&cacheSize, "cache-size", "", "Cache size budget (e.g. 1GB); empty = default")
	flag.BoolVar(&verbose, "verbose", false, "Enable debug logging")
	flag.Parse()

	if verbose {
		elog.SetLevel(zerolog.DebugLevel)
	} else {
		elog.SetLevel(zerolog.InfoLevel)
	}

	args := flag.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: pyjamaz [flags] <input> [output]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	input := args[0]
	output := ""
	if len(args) >= 2 {
		output = args[1]
	}

	req := engine.Request{Path: input}

	if maxBytes != "" {
		n, err := parseSize(maxBytes)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid -max-bytes %q: %v\n", maxBytes, err)
			os.Exit(1)
		}
		req.MaxBytes = n
	}
	req.MaxDiff = maxDiff

	metric, err := parseMetric(metricName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	req.Metric = metric

	formats, err := parseFormats(formatsCSV)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	req.Formats = formats
	req.Concurrency = concurrency

	if cacheDir != "" {
		maxSize := cache.DefaultMaxSize
		if cacheSize != "" {
			n, err := parseSize(cacheSize)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Invalid -cache-size %q: %v\n", cacheSize, err)
				os.Exit(1)
			}
			maxSize = int64(n)
		}
		c, err := cache.Open(cacheDir, maxSize)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening cache %q: %v\n", cacheDir, err)
			os.Exit(1)
		}
		req.Cache = c
	}

	result := engine.Optimize(req)
	if result.Err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", result.Err)
		os.Exit(1)
	}
	if result.Selected == nil {
		fmt.Fprintf(os.Stderr, "No candidate satisfied the constraints (%s)\n", result.Reason)
		os.Exit(1)
	}

	if output == "" {
		ext := "." + result.Selected.Format.Extension()
		base := strings.TrimSuffix(input, filepath.Ext(input))
		output = base + "_optimized" + ext
	}

	if err := os.WriteFile(output, result.Selected.Data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %q: %v\n", output, err)
		os.Exit(1)
	}

	fmt.Printf("%s -> %s (%s, %s, diff=%.5f, cache_hit=%v)\n",
		input, output, result.Selected.Format, humanBytes(int64(result.Selected.ByteSize())), result.Selected.Diff, result.CacheHit)
}

func parseMetric(s string) (pyjamaz.Metric, error) {
	switch strings.ToLower(s) {
	case "dssim":
		return pyjamaz.DSSIM, nil
	case "ssimulacra2":
		return pyjamaz.SSIMULACRA2, nil
	case "none":
		return pyjamaz.NoMetric, nil
	default:
		return 0, fmt.Errorf("unknown metric %q", s)
	}
}

func parseFormats(csv string) ([]pyjamaz.FormatTag, error) {
	parts := strings.Split(csv, ",")
	out := make([]pyjamaz.FormatTag, 0, len(parts))
	for _, p := range parts {
		switch strings.ToLower(strings.TrimSpace(p)) {
		case "jpeg", "jpg":
			out = append(out, pyjamaz.JPEG)
		case "png":
			out = append(out, pyjamaz.PNG)
		case "webp":
			out = append(out, pyjamaz.WebP)
		case "avif":
			out = append(out, pyjamaz.AVIF)
		default:
			return nil, fmt.Errorf("unknown format %q", p)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty formats list")
	}
	return out, nil
}

func parseSize(s string) (int, error) {
	s = strings.TrimSpace(strings.ToUpper(s))
	multiplier := 1
	switch {
	case strings.HasSuffix(s, "GB"):
		multiplier = 1024 * 1024 * 1024
		s = strings.TrimSuffix(s, "GB")
	case strings.HasSuffix(s, "MB"):
		multiplier = 1024 * 1024
		s = strings.TrimSuffix(s, "MB")
	case strings.HasSuffix(s, "KB"):
		multiplier = 1024
		s = strings.TrimSuffix(s, "KB")
	case strings.HasSuffix(s, "B"):
		s = strings.TrimSuffix(s, "B")
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	return int(n * float64(multiplier)), nil
}

func humanBytes(b int64) string {
	switch {
	case b >= 1024*1024:
		return fmt.Sprintf("%.1f MB", float64(b)/(1024*1024))
	case b >= 1024:
		return fmt.Sprintf("%.1f KB", float64(b)/1024)
	default:
		return fmt.Sprintf("%d B", b)
	}
}
