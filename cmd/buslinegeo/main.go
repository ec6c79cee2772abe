package main

import (
	"log"
	"os"
	"strings"

	flag "github.com/spf13/pflag"

	lib "github.com/urbanmapworks/buslinegeo"
	"github.com/urbanmapworks/buslinegeo/amap"
)

func main() {
	city := flag.String("city", "", "city name or adcode (default from config: 温州)")
	keywords := flag.String("keywords", "", "comma-separated route keywords, e.g. B1路,24路")
	file := flag.String("file", "", "text file with one keyword per line")
	outdir := flag.String("outdir", "", "output directory (default from config: out_wz)")
	overwrite := flag.Bool("overwrite", false, "force re-fetch even if files exist")
	preview := flag.Bool("preview", true, "produce an OSM preview HTML")
	previewName := flag.String("preview-name", "", "filename for the preview HTML (default preview.html)")
	configPath := flag.String("config", "", "optional YAML config file")
	flag.Parse()

	lib.InitLogging()

	cfg, err := lib.LoadAppConfig(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *city != "" {
		cfg.Fetch.City = *city
	}
	if *outdir != "" {
		cfg.Output.Dir = *outdir
	}
	if *previewName != "" {
		cfg.Output.PreviewName = *previewName
	}
	if flag.CommandLine.Changed("overwrite") {
		cfg.Output.Overwrite = *overwrite
	}
	if flag.CommandLine.Changed("preview") {
		cfg.Output.Preview = *preview
	}

	kws, err := collectKeywords(*keywords, *file, cfg.Keywords)
	if err != nil {
		log.Fatalf("keywords: %v", err)
	}

	client := amap.NewClient(cfg.Key, cfg.Fetch.Timeout())
	exporter := lib.NewExporter(cfg, client)
	if err := exporter.Run(kws); err != nil {
		log.Fatalf("run: %v", err)
	}
}

// collectKeywords merges the --keywords list, the --file contents, and the
// config file list, in that order. Run falls back to the default route list
// when everything is empty.
func collectKeywords(commaList, filePath string, fromConfig []string) ([]string, error) {
	var kws []string
	if commaList != "" {
		kws = append(kws, strings.Split(commaList, ",")...)
	}
	if filePath != "" {
		data, err := os.ReadFile(filePath)
		if err != nil {
			return nil, err
		}
		kws = append(kws, strings.Split(string(data), "\n")...)
	}
	if len(kws) == 0 {
		kws = append(kws, fromConfig...)
	}
	return kws, nil
}
