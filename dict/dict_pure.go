//go:build !cgo

package dict

import "github.com/nimbusrv/rv/errs"

func train(samples [][]byte, targetSize int) ([]byte, error) {
	return nil, errs.ErrDictTrainingUnavailable
}
