// Command rv-downloader periodically crawls the DWD open-data radar
// composite archive, polling for any of the last 48 hours' 15-minute
// archives that aren't present on disk yet.
package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/nimbusrv/rv/archive"
	"github.com/nimbusrv/rv/compress"
	"github.com/nimbusrv/rv/sparse"
)

const (
	lookback     = 48 * time.Hour
	cadence      = 15 * time.Minute
	pollInterval = 10 * time.Minute
	politeDelay  = 3 * time.Second

	// bitmapsDir holds the re-encoded, compressed block-sparse companion
	// of every downloaded archive. fsindex excludes this subdirectory
	// when enumerating raw archives, since its contents are derived, not
	// source, data.
	bitmapsDir = "bitmaps"

	// The DWD open-data URL is urlPrefix, the slot time formatted with
	// urlTimeLayout, then urlSuffix. urlTimeLayout is a Go reference-time
	// layout equivalent to the upstream crawler's "%y%m%d%H%M" strftime
	// pattern; the fixed parts stay outside it because Format would also
	// rewrite digits such as the "1" and "2" in "DE1200" and ".bz2".
	urlPrefix     = "https://opendata.dwd.de/weather/radar/composit/rv/DE1200_RV"
	urlTimeLayout = "0601021504"
	urlSuffix     = ".tar.bz2"
)

func main() {
	targetDir := pflag.StringP("target-dir", "d", os.Getenv("DWD_DOWNLOADER_TARGET_DIRECTORY"),
		"base directory archives are written under (falls back to DWD_DOWNLOADER_TARGET_DIRECTORY)")
	codecName := pflag.StringP("compress", "c", "zstd",
		"codec used to archive a block-sparse copy of each download at rest (none, zstd, s2, lz4)")
	pflag.Parse()

	logger := log.New(os.Stderr)

	if *targetDir == "" {
		logger.Fatal("target directory not set; pass --target-dir or set DWD_DOWNLOADER_TARGET_DIRECTORY")
	}
	if err := os.MkdirAll(*targetDir, 0o755); err != nil {
		logger.Fatal("failed creating target directory", "dir", *targetDir, "err", err)
	}

	codecType, err := compress.ParseType(*codecName)
	if err != nil {
		logger.Fatal("invalid codec", "err", err)
	}
	codec, err := compress.New(codecType)
	if err != nil {
		logger.Fatal("failed constructing codec", "err", err)
	}

	d := &downloader{targetDir: *targetDir, logger: logger, client: http.DefaultClient, codec: codec, codecType: codecType, mayExit: true}
	d.installSignalHandler()

	for {
		logger.Info("starting crawl")
		if err := d.crawl(); err != nil {
			logger.Error("crawl failed", "err", err)
		}
		logger.Info("crawl done, sleeping", "interval", pollInterval)
		time.Sleep(pollInterval)
	}
}

// downloader holds the crawler's state. mayExit guards whether an
// in-flight signal handler is allowed to terminate the process
// immediately: a Ctrl-C that arrives mid-copy must not leave a truncated
// file on disk, so the handler defers and asks the operator to retry.
type downloader struct {
	targetDir string
	logger    *log.Logger
	client    *http.Client
	codec     compress.Codec
	codecType compress.Type

	mu      sync.Mutex
	mayExit bool
}

func (d *downloader) installSignalHandler() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		for range sigCh {
			d.mu.Lock()
			mayExit := d.mayExit
			d.mu.Unlock()

			if mayExit {
				os.Exit(0)
			}
			d.logger.Warn("received interrupt during a file copy; ignoring it so the file is not truncated, please retry")
		}
	}()
}

// crawl walks every 15-minute slot in [now-lookback, now) and fetches any
// archive not already present on disk.
func (d *downloader) crawl() error {
	now := time.Now().UTC()
	start := now.Add(-lookback).Truncate(cadence)

	for slot := start; slot.Before(now); slot = slot.Add(cadence) {
		path := d.archivePath(slot)

		if _, err := os.Stat(path); err == nil {
			continue
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("stat %s: %w", path, err)
		}

		if err := d.fetch(slot, path); err != nil {
			return err
		}

		time.Sleep(politeDelay) // avoid hammering the upstream server
	}

	return nil
}

func (d *downloader) archivePath(slot time.Time) string {
	return filepath.Join(d.targetDir, slot.Format("20060102"), slot.Format("150405")+".tar.bz2")
}

// url returns the DWD open-data URL for the given 15-minute slot.
func (d *downloader) url(slot time.Time) string {
	return urlPrefix + slot.Format(urlTimeLayout) + urlSuffix
}

// fetch downloads slot's archive to path, deleting any partial file if
// the copy fails partway through.
func (d *downloader) fetch(slot time.Time, path string) error {
	url := d.url(slot)
	d.logger.Info("fetching", "slot", slot, "url", url)

	resp, err := d.client.Get(url)
	if err != nil {
		return fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNotFound:
		d.logger.Debug("not yet published upstream", "slot", slot)
		return nil
	case http.StatusOK:
	default:
		return fmt.Errorf("GET %s: unexpected status %s", url, resp.Status)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	d.mu.Lock()
	d.mayExit = false
	d.mu.Unlock()

	_, copyErr := io.Copy(f, resp.Body)
	closeErr := f.Close()

	d.mu.Lock()
	d.mayExit = true
	d.mu.Unlock()

	if copyErr != nil || closeErr != nil {
		os.Remove(path)
		return fmt.Errorf("copying %s to %s: %w", url, path, errors.Join(copyErr, closeErr))
	}

	d.logger.Info("saved", "path", path)

	if err := d.archiveSparse(slot, path); err != nil {
		d.logger.Error("failed archiving block-sparse copy", "path", path, "err", err)
	}

	return nil
}

// archiveSparse decodes the archive just saved at path, re-encodes it as a
// block-sparse buffer, compresses it with d.codec, and writes the result
// under bitmapsDir. Failures here are logged, not propagated: the raw
// archive is the thing that must survive a crawl, the bitmap is a
// convenience derived from it and can always be rebuilt later.
func (d *downloader) archiveSparse(slot time.Time, path string) error {
	raw, err := archive.Decode(path)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}

	buf, err := sparse.Encode(raw)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}

	compressed, err := d.codec.Compress(buf.Data())
	if err != nil {
		return fmt.Errorf("compressing block-sparse buffer for %s: %w", path, err)
	}

	bitmapPath := d.bitmapPath(slot)
	if err := os.MkdirAll(filepath.Dir(bitmapPath), 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(bitmapPath), err)
	}
	if err := os.WriteFile(bitmapPath, compressed, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", bitmapPath, err)
	}

	d.logger.Debug("archived block-sparse copy", "path", bitmapPath)
	return nil
}

// bitmapPath mirrors archivePath's layout under bitmapsDir, with the
// extension swapped for the codec in use.
func (d *downloader) bitmapPath(slot time.Time) string {
	name := slot.Format("150405") + ".sparse." + strings.ToLower(d.codecType.String())
	return filepath.Join(d.targetDir, bitmapsDir, slot.Format("20060102"), name)
}
