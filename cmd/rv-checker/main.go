// Command rv-checker scans every archive under a target directory and
// reports the minimum/maximum number of present cells per frame and the
// minimum/maximum observed rain intensity, across the whole corpus.
package main

import (
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/nimbusrv/rv/archive"
	"github.com/nimbusrv/rv/grid"
	"github.com/nimbusrv/rv/internal/fsindex"
)

// stats is the associative/commutative reduction accumulator: combining
// any two partial stats (via merge) yields the same result regardless of
// order, which is what makes the fan-out below safe.
type stats struct {
	minAvailable, maxAvailable uint32
	minRain, maxRain           uint16
}

// newStats returns the identity element of merge: every min starts at its
// type's maximum and every max at zero.
func newStats() stats {
	return stats{minAvailable: 0xFFFFFFFF, maxAvailable: 0, minRain: 0xFFFF, maxRain: 0}
}

func (s stats) merge(o stats) stats {
	return stats{
		minAvailable: minU32(s.minAvailable, o.minAvailable),
		maxAvailable: maxU32(s.maxAvailable, o.maxAvailable),
		minRain:      minU16(s.minRain, o.minRain),
		maxRain:      maxU16(s.maxRain, o.maxRain),
	}
}

func minU32(a, b uint32) uint32 {
	if a < b {
		return a
	}
	return b
}
func maxU32(a, b uint32) uint32 {
	if a > b {
		return a
	}
	return b
}
func minU16(a, b uint16) uint16 {
	if a < b {
		return a
	}
	return b
}
func maxU16(a, b uint16) uint16 {
	if a > b {
		return a
	}
	return b
}

func main() {
	targetDir := pflag.StringP("target-dir", "d", os.Getenv("DWD_DOWNLOADER_TARGET_DIRECTORY"), "base directory archives are read from")
	pflag.Parse()

	logger := log.New(os.Stderr)
	if *targetDir == "" {
		logger.Fatal("target directory not set; pass --target-dir or set DWD_DOWNLOADER_TARGET_DIRECTORY")
	}

	idx, err := fsindex.New(*targetDir)
	if err != nil {
		logger.Fatal("failed indexing target directory", "err", err)
	}

	result, err := checkAll(idx.All(), logger)
	if err != nil {
		logger.Fatal("check failed", "err", err)
	}

	fmt.Printf("%+v\n", result)
}

// checkAll runs checkOne over every path using a bounded worker pool and
// folds the per-file results with the associative merge above, so the
// final answer doesn't depend on scheduling order.
func checkAll(paths []string, logger *log.Logger) (stats, error) {
	jobs := make(chan string)
	results := make(chan stats)
	errCh := make(chan error, 1)

	workers := runtime.GOMAXPROCS(0)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for path := range jobs {
				s, err := checkOne(path)
				if err != nil {
					logger.Error("failed checking archive", "path", path, "err", err)
					select {
					case errCh <- err:
					default:
					}
					continue
				}
				results <- s
			}
		}()
	}

	go func() {
		for _, p := range paths {
			jobs <- p
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	total := newStats()
	for s := range results {
		total = total.merge(s)
	}

	select {
	case err := <-errCh:
		return stats{}, err
	default:
		return total, nil
	}
}

// checkOne folds a single archive's cells into one stats value.
func checkOne(path string) (stats, error) {
	g, err := archive.Decode(path)
	if err != nil {
		return stats{}, err
	}

	total := newStats()
	xr := grid.IndexRange(0, archive.FrameWidth)
	yr := grid.IndexRange(0, archive.FrameHeight)

	for t := range g.AvailableTimes() {
		frame := stats{minRain: 0xFFFF}
		for cell := range g.ForArea(t, xr, yr) {
			if !cell.Present {
				continue
			}
			frame.minAvailable++
			frame.maxAvailable++
			frame.minRain = minU16(frame.minRain, cell.Value)
			frame.maxRain = maxU16(frame.maxRain, cell.Value)
		}
		total = total.merge(frame)
	}

	return total, nil
}
