package transport

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/let5sne/IOPaint/internal/auth"
	"github.com/let5sne/IOPaint/internal/config"
	apperrors "github.com/let5sne/IOPaint/internal/errors"
	"github.com/let5sne/IOPaint/internal/logger"
	"github.com/let5sne/IOPaint/internal/service"
	"github.com/let5sne/IOPaint/pkg/models"
)

const (
	ServiceName    = "IOPaint Watermark Removal API"
	ServiceVersion = "1.0.0"

	headerRequestID      = "X-Request-ID"
	headerProcessingTime = "X-Processing-Time"
	headerImageSize      = "X-Image-Size"

	requestIDKey = "request_id"
)

// Options wires the handler's collaborators
type Options struct {
	Config  *config.Config
	Service service.WatermarkService
	Gate    *auth.Gate
	// Metrics serves the Prometheus exposition; ignored when metrics are disabled
	Metrics http.Handler
}

func NewHandler(opts Options) http.Handler {
	cfg := opts.Config
	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		gin.Recovery(),
		requestID(),
		requestLogger(),
		cors.New(cors.Config{
			AllowAllOrigins: true,
			AllowMethods:    []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders:    []string{"Origin", "Content-Type", auth.HeaderName, headerRequestID},
			ExposeHeaders:   []string{headerProcessingTime, headerImageSize, headerRequestID},
			MaxAge:          12 * time.Hour,
		}),
	)

	r.GET("/", serviceInfo(cfg))

	api := r.Group("/api/v1")
	api.GET("/health", healthCheck(cfg))

	secured := api.Group("", opts.Gate.Middleware(respondError))
	secured.GET("/stats", getStats(opts.Service, cfg))
	secured.POST("/remove-watermark",
		requestSizeLimiter(maxRequestBodySize(cfg.MaxFileSize)),
		removeWatermark(opts.Service, cfg),
	)

	if cfg.MetricsEnabled && opts.Metrics != nil {
		r.GET("/metrics", opts.Gate.Middleware(respondError), gin.WrapH(opts.Metrics))
	}

	return r
}

// maxRequestBodySize admits an image and a mask at the upload limit plus
// multipart framing.
func maxRequestBodySize(maxFileSize int64) int64 {
	return 2*maxFileSize + 1<<20
}

func removeWatermark(svc service.WatermarkService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		id := c.GetString(requestIDKey)

		if err := c.Request.ParseMultipartForm(cfg.MaxFileSize); err != nil {
			respondError(c, svc.Reject(ctx, id, classifyFormError(err, cfg.MaxFileSize)))
			return
		}
		defer func() {
			_ = c.Request.MultipartForm.RemoveAll()
		}()

		img, closeImage, err := openUpload(c.Request.MultipartForm, "image")
		if err != nil {
			respondError(c, svc.Reject(ctx, id, apperrors.NewValidationError("failed to open image upload", err)))
			return
		}
		defer closeImage()

		mask, closeMask, err := openUpload(c.Request.MultipartForm, "mask")
		if err != nil {
			respondError(c, svc.Reject(ctx, id, apperrors.NewValidationError("failed to open mask upload", err)))
			return
		}
		defer closeMask()

		result, err := svc.RemoveWatermark(ctx, service.RemoveRequest{
			RequestID: id,
			Image:     img,
			Mask:      mask,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		c.Header(headerProcessingTime, fmt.Sprintf("%.3f", result.ProcessingTime.Seconds()))
		c.Header(headerImageSize, fmt.Sprintf("%dx%d", result.Width, result.Height))
		c.Data(http.StatusOK, "image/png", result.PNG)
	}
}

// openUpload returns the first file of field, or nil when the field is absent.
func openUpload(form *multipart.Form, field string) (*service.Upload, func(), error) {
	noop := func() {}
	if form == nil || len(form.File[field]) == 0 {
		return nil, noop, nil
	}

	fh := form.File[field][0]
	f, err := fh.Open()
	if err != nil {
		return nil, noop, err
	}
	return &service.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Reader:      f,
	}, func() { _ = f.Close() }, nil
}

func classifyFormError(err error, maxFileSize int64) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return apperrors.NewPayloadTooLargeError(maxFileSize)
	}
	return apperrors.NewValidationError("invalid multipart form", err)
}

func getStats(svc service.WatermarkService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cfg.MetricsEnabled {
			respondError(c, apperrors.NewMetricsDisabledError())
			return
		}

		s := svc.Stats()
		c.JSON(http.StatusOK, models.StatsResponse{
			Total:               s.TotalRequests,
			Success:             s.SuccessfulRequests,
			Failed:              s.FailedRequests,
			TotalProcessingTime: s.TotalProcessingTime.Seconds(),
			AvgProcessingTime:   s.AvgProcessingTime().Seconds(),
		})
	}
}

func serviceInfo(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, models.InfoResponse{
			Service: ServiceName,
			Version: ServiceVersion,
			Status:  "running",
			Model:   cfg.ModelName,
			Device:  cfg.Device,
		})
	}
}

func healthCheck(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, models.HealthResponse{
			Status:       "healthy",
			Model:        cfg.ModelName,
			Device:       cfg.Device,
			GPUAvailable: cfg.Device != "cpu",
		})
	}
}

// Middleware and helper functions
func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(headerRequestID, id)
		c.Next()
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.WithFields(logrus.Fields{
			"request_id": c.GetString(requestIDKey),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"duration":   time.Since(start).Seconds(),
			"ip":         c.ClientIP(),
		}).Info("HTTP request")
	}
}

func respondError(c *gin.Context, err error) {
	appErr := apperrors.Classify(err)
	code := appErr.StatusCode

	c.AbortWithStatusJSON(code, models.ErrorResponse{
		Error:   http.StatusText(code),
		Type:    string(appErr.Type),
		Message: appErr.Message,
	})
}
