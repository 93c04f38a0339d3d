package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/let5sne/IOPaint/internal/decoder"
	apperrors "github.com/let5sne/IOPaint/internal/errors"
	"github.com/let5sne/IOPaint/internal/inference"
	"github.com/let5sne/IOPaint/internal/logger"
	"github.com/let5sne/IOPaint/internal/mask"
	"github.com/let5sne/IOPaint/internal/observer"
	"github.com/let5sne/IOPaint/internal/raster"
	"github.com/let5sne/IOPaint/internal/repository"
	"github.com/let5sne/IOPaint/internal/stats"
)

// Upload is a file part of a removal request.
type Upload = repository.Upload

// RemoveRequest carries the uploads of one watermark removal request. Mask is
// optional; without it the whole image is repainted.
type RemoveRequest struct {
	RequestID string
	Image     *Upload
	Mask      *Upload
}

// RemoveResult is the encoded output and the measurements reported to the client
type RemoveResult struct {
	PNG            []byte
	Width          int
	Height         int
	ProcessingTime time.Duration
	InferenceTime  time.Duration
	MaskCoverage   float64
}

// StatsRecorder receives one outcome per request
type StatsRecorder interface {
	Record(success bool, processingTime time.Duration)
	Snapshot() stats.Snapshot
}

// WatermarkService runs the watermark removal pipeline
type WatermarkService interface {
	RemoveWatermark(ctx context.Context, req RemoveRequest) (*RemoveResult, error)

	// Reject counts a request that failed before the pipeline could run and
	// returns the classified error.
	Reject(ctx context.Context, requestID string, err error) *apperrors.AppError

	Stats() stats.Snapshot
}

// watermarkService implements WatermarkService
type watermarkService struct {
	uploads repository.UploadRepository
	decoder decoder.ImageDecoder
	masks   mask.MaskResolver
	invoker inference.InferenceInvoker
	stats   StatsRecorder
	events  observer.Subject
}

// NewWatermarkService creates a new watermark removal service
func NewWatermarkService(
	uploads repository.UploadRepository,
	imageDecoder decoder.ImageDecoder,
	maskResolver mask.MaskResolver,
	invoker inference.InferenceInvoker,
	recorder StatsRecorder,
	events observer.Subject,
) WatermarkService {
	return &watermarkService{
		uploads: uploads,
		decoder: imageDecoder,
		masks:   maskResolver,
		invoker: invoker,
		stats:   recorder,
		events:  events,
	}
}

// RemoveWatermark runs every stage in order and stops at the first failure.
// The request context only contributes values: a client disconnect does not
// abort inference that has already started.
func (s *watermarkService) RemoveWatermark(ctx context.Context, req RemoveRequest) (result *RemoveResult, err error) {
	ctx = context.WithoutCancel(ctx)
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			err = apperrors.NewInferenceFailedError(fmt.Errorf("pipeline panicked: %v", r))
			result = nil
		}
		if err != nil {
			err = s.fail(ctx, req.RequestID, err)
		}
	}()

	s.publish(ctx, observer.PipelineEvent{EventType: observer.RequestReceived, RequestID: req.RequestID})

	img, err := s.decodeImage(ctx, req.Image)
	if err != nil {
		return nil, err
	}
	logger.WithFields(logrus.Fields{
		"request_id": req.RequestID,
		"width":      img.Width,
		"height":     img.Height,
	}).Info("Processing image")
	s.publish(ctx, observer.PipelineEvent{
		EventType: observer.ImageDecoded,
		RequestID: req.RequestID,
		ImageSize: imageSize(img),
	})

	m, err := s.decodeMask(ctx, req.Mask)
	if err != nil {
		return nil, err
	}
	if m == nil {
		logger.WithField("request_id", req.RequestID).Info("No mask provided, will process entire image")
	}
	m = s.masks.Resolve(img, m)
	coverage := mask.Coverage(m)

	res, err := s.invoker.Invoke(ctx, img, m)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := res.Image.EncodePNG(&buf); err != nil {
		return nil, apperrors.NewInferenceFailedError(fmt.Errorf("encode png: %w", err))
	}

	elapsed := time.Since(start)
	s.stats.Record(true, elapsed)

	logger.WithFields(logrus.Fields{
		"request_id":      req.RequestID,
		"engine":          s.invoker.EngineName(),
		"processing_time": elapsed.Seconds(),
		"inference_time":  res.Duration.Seconds(),
		"mask_coverage":   coverage,
	}).Info("Request completed")
	s.publish(ctx, observer.PipelineEvent{
		EventType:      observer.InpaintCompleted,
		RequestID:      req.RequestID,
		Engine:         s.invoker.EngineName(),
		ImageSize:      imageSize(img),
		ProcessingTime: elapsed,
		Success:        true,
		Metadata:       map[string]interface{}{"mask_coverage": coverage},
	})

	return &RemoveResult{
		PNG:            buf.Bytes(),
		Width:          img.Width,
		Height:         img.Height,
		ProcessingTime: elapsed,
		InferenceTime:  res.Duration,
		MaskCoverage:   coverage,
	}, nil
}

func (s *watermarkService) decodeImage(ctx context.Context, upload *Upload) (*raster.Image, error) {
	data, err := s.uploads.ReadUpload(ctx, upload)
	if err != nil {
		return nil, s.classifyReadError(err, "image")
	}
	return s.decoder.DecodeImage(data)
}

// decodeMask returns nil without error when no mask was uploaded.
func (s *watermarkService) decodeMask(ctx context.Context, upload *Upload) (*raster.Mask, error) {
	if upload == nil {
		return nil, nil
	}
	data, err := s.uploads.ReadUpload(ctx, upload)
	if err != nil {
		if errors.Is(err, repository.ErrUploadMissing) {
			return nil, nil
		}
		return nil, s.classifyReadError(err, "mask")
	}
	return s.decoder.DecodeMask(data)
}

// Reject records a failure detected before the pipeline ran
func (s *watermarkService) Reject(ctx context.Context, requestID string, err error) *apperrors.AppError {
	return s.fail(ctx, requestID, err)
}

func (s *watermarkService) fail(ctx context.Context, requestID string, err error) *apperrors.AppError {
	appErr := apperrors.Classify(err)
	s.stats.Record(false, 0)

	entry := logger.WithFields(logrus.Fields{
		"request_id": requestID,
		"error_type": appErr.Type,
	})
	if appErr.Cause != nil {
		entry = entry.WithError(appErr.Cause)
	}
	if appErr.StatusCode >= http.StatusInternalServerError {
		entry.Error("Error processing request")
	} else {
		entry.Warn(appErr.Message)
	}

	s.publish(ctx, observer.PipelineEvent{
		EventType:    observer.InpaintFailed,
		RequestID:    requestID,
		ErrorType:    string(appErr.Type),
		ErrorMessage: appErr.Message,
	})
	return appErr
}

func (s *watermarkService) Stats() stats.Snapshot {
	return s.stats.Snapshot()
}

func (s *watermarkService) publish(ctx context.Context, event observer.PipelineEvent) {
	if s.events != nil {
		s.events.NotifyObservers(ctx, event)
	}
}

// classifyReadError maps upload read failures onto client errors. A stream
// cut off by the transport body limit counts as an oversized upload.
func (s *watermarkService) classifyReadError(err error, field string) error {
	var maxErr *http.MaxBytesError
	switch {
	case errors.Is(err, repository.ErrUploadMissing):
		return apperrors.NewValidationError(field+" file is required", err)
	case errors.As(err, &maxErr):
		return apperrors.NewPayloadTooLargeError(s.uploads.Limit())
	default:
		return apperrors.NewValidationError("failed to read "+field+" upload", err)
	}
}

func imageSize(img *raster.Image) string {
	return fmt.Sprintf("%dx%d", img.Width, img.Height)
}
