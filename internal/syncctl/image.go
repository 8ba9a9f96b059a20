package syncctl

import (
	"context"
	"errors"
	"fmt"

	"chartbridge/internal/chartmodel"
)

// ErrEncodeFailed wraps every image encoding failure.
var ErrEncodeFailed = errors.New("image encoding failed")

// ImageJob encodes a snapshot of the model taken when the host asked for
// the image.
type ImageJob struct {
	RequestID string
	Width     int
	Height    int

	view    chartmodel.UIModel
	surface Surface
}

// ImageResult is the outcome of an ImageJob.
type ImageResult struct {
	RequestID string
	Width     int
	Height    int
	DataURL   string
	Err       error
}

// Run encodes the image. It only reads the job's own snapshot, so it may run
// off the UI loop. A panicking encoder is reported as an error.
func (j ImageJob) Run(ctx context.Context) (result ImageResult) {
	result = ImageResult{RequestID: j.RequestID, Width: j.Width, Height: j.Height}
	defer func() {
		if r := recover(); r != nil {
			result.DataURL = ""
			result.Err = fmt.Errorf("%w: encoder panic: %v", ErrEncodeFailed, r)
		}
	}()

	url, err := j.surface.ExportImage(ctx, j.view, j.Width, j.Height)
	if err != nil {
		result.Err = fmt.Errorf("%w: %w", ErrEncodeFailed, err)
		return result
	}
	result.DataURL = url
	return result
}
