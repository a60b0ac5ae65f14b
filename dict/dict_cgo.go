//go:build cgo

package dict

import "github.com/valyala/gozstd"

func train(samples [][]byte, targetSize int) ([]byte, error) {
	return gozstd.BuildDict(samples, targetSize), nil
}
