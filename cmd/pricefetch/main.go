// pricefetch runs the extraction pipeline once against a single URL and
// prints the result. Useful for checking a selector before adding a
// product to the target list.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"

	"pricetracker/config"
	"pricetracker/internal/scraper"
	"pricetracker/logger"
	"pricetracker/services/cache"
)

func main() {
	selector := flag.String("selector", "", "CSS selector for the price element (overrides site detection)")
	noCache := flag.Bool("no-cache", false, "bypass the page cache and fetch live")
	retries := flag.Int("retries", 0, "max fetch attempts (0 uses the configured default)")
	detect := flag.Bool("detect", false, "only print the detected site and its selector cascade")
	asJSON := flag.Bool("json", false, "print the full result as JSON")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <url>\n\nFlags:\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	rawURL := flag.Arg(0)

	godotenv.Load()
	logger.Init()

	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration: %v", err)
	}

	if *detect {
		printDetection(os.Stdout, rawURL)
		return
	}

	opts := scraper.FetchOptions{
		MaxRetries: cfg.MaxRetries,
		BaseDelay:  cfg.RetryBaseDelay,
		UseCache:   !*noCache,
		CacheTTL:   cfg.CacheTTL,
	}
	if *retries > 0 {
		opts.MaxRetries = *retries
	}

	store, err := buildStore(&cfg)
	if err != nil {
		logger.Fatal("Failed to set up page cache: %v", err)
	}

	fetcher := scraper.NewFetcher(store, scraper.NewHostLimiter(cfg.HostMinInterval))
	pipeline := scraper.NewPipeline(fetcher, opts)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	result := pipeline.RunURL(ctx, rawURL, *selector)

	if *asJSON {
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			logger.Fatal("Failed to encode result: %v", err)
		}
		fmt.Println(string(out))
	} else {
		printResult(result)
	}

	if result.Status != scraper.StatusSuccess {
		os.Exit(1)
	}
}

func buildStore(cfg *config.Config) (cache.Store, error) {
	if cfg.CacheBackend == config.CacheBackendMemcache {
		return cache.NewMemcacheStore(cfg.MemcacheAddr), nil
	}
	return cache.NewFileStore(cfg.CacheDir)
}

func printDetection(w io.Writer, rawURL string) {
	site := scraper.DetectSite(rawURL)
	profile := site.Profile()

	fmt.Fprintf(w, "URL:  %s\n", rawURL)
	fmt.Fprintf(w, "Site: %s\n", site)

	cascades := []struct {
		field     string
		selectors []string
	}{
		{"Price", profile.Price},
		{"Title", profile.Title},
		{"Availability", profile.Availability},
		{"Image", profile.Image},
	}
	for _, c := range cascades {
		fmt.Fprintf(w, "%s selectors tried, in order:\n", c.field)
		for _, sel := range c.selectors {
			fmt.Fprintf(w, "  %s\n", sel)
		}
	}
}

func printResult(result scraper.ExtractionResult) {
	fmt.Printf("Site:         %s\n", result.Site)
	fmt.Printf("Status:       %s\n", result.Status)
	fmt.Printf("Source:       %s\n", result.Source)
	fmt.Printf("Title:        %s\n", result.Title)
	if result.NumericPrice != nil {
		fmt.Printf("Price:        %.2f %s\n", *result.NumericPrice, result.Currency)
	} else {
		fmt.Printf("Price:        (not found)\n")
	}
	if result.Availability != "" {
		fmt.Printf("Availability: %s\n", result.Availability)
	}
	if result.ImageURL != "" {
		fmt.Printf("Image:        %s\n", result.ImageURL)
	}
}
