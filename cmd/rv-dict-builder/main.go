// Command rv-dict-builder walks every archive under a target directory,
// re-encodes each as a block-sparse buffer, and trains a shared zstd
// dictionary over the resulting byte corpus.
package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/nimbusrv/rv/archive"
	"github.com/nimbusrv/rv/dict"
	"github.com/nimbusrv/rv/internal/fsindex"
	"github.com/nimbusrv/rv/sparse"
)

func main() {
	targetDir := pflag.StringP("target-dir", "d", os.Getenv("DWD_DOWNLOADER_TARGET_DIRECTORY"), "base directory archives are read from")
	sampleSize := pflag.IntP("sample-size", "n", 0, "if >0, train from a random sample of this many archives instead of the whole corpus")
	dictSize := pflag.IntP("dict-size", "s", 112*1024, "target dictionary size in bytes")
	pflag.Parse()

	logger := log.New(os.Stderr)

	if *targetDir == "" {
		logger.Fatal("target directory not set; pass --target-dir or set DWD_DOWNLOADER_TARGET_DIRECTORY")
	}
	if pflag.NArg() != 1 {
		logger.Fatal("usage: rv-dict-builder [flags] <output-dictionary-path>")
	}
	outPath := pflag.Arg(0)

	idx, err := fsindex.New(*targetDir)
	if err != nil {
		logger.Fatal("failed indexing target directory", "err", err)
	}

	paths := idx.All()
	if *sampleSize > 0 {
		paths = idx.Sample(*sampleSize)
	}
	logger.Info("training dictionary", "archives", len(paths))

	samples := make([][]byte, 0, len(paths))
	for _, path := range paths {
		raw, err := archive.Decode(path)
		if err != nil {
			logger.Error("failed decoding archive, skipping", "path", path, "err", err)
			continue
		}

		buf, err := sparse.Encode(raw)
		if err != nil {
			logger.Error("failed encoding archive, skipping", "path", path, "err", err)
			continue
		}

		samples = append(samples, buf.Data())
	}

	trained, err := dict.Train(samples, *dictSize)
	if err != nil {
		logger.Fatal("dictionary training failed", "err", err)
	}

	if err := os.WriteFile(outPath, trained, 0o644); err != nil {
		logger.Fatal("failed writing dictionary", "path", outPath, "err", err)
	}
	logger.Info("wrote dictionary", "path", outPath, "bytes", len(trained))
}
