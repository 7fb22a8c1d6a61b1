package httpServer

import (
	"encoding/base64"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"camrelay/config"
	"camrelay/internal/broadcaster"
	"camrelay/internal/framestore"
	"camrelay/internal/metrics"
	"camrelay/internal/multiplexer"
	"camrelay/internal/registry"
	"camrelay/pkg/models"
)

// Server wraps the HTTP server with dependencies
type Server struct {
	router      *gin.Engine
	store       *framestore.Store
	registry    *registry.Registry
	broadcaster *broadcaster.Broadcaster
	metrics     *metrics.Metrics
	cfg         *config.Config
	log         *zap.Logger
}

// New creates a new HTTP server
func New(
	store *framestore.Store,
	reg *registry.Registry,
	bc *broadcaster.Broadcaster,
	m *metrics.Metrics,
	cfg *config.Config,
	log *zap.Logger,
) *Server {
	if log == nil {
		log = zap.NewNop()
	}

	s := &Server{
		store:       store,
		registry:    reg,
		broadcaster: bc,
		metrics:     m,
		cfg:         cfg,
		log:         log,
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	if gin.Mode() == gin.DebugMode && !s.cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			s.log.Info("HTTP Request",
				zap.String("method", param.Method),
				zap.String("path", param.Path),
				zap.Int("status", param.StatusCode),
				zap.Duration("latency", param.Latency),
				zap.String("client_ip", param.ClientIP),
			)
			return ""
		},
	}))
	router.Use(gin.Recovery())

	router.GET("/", s.handleDashboard)
	router.GET("/health", s.handleHealth)

	// Camera-facing and viewer-facing endpoints, paths matching the uploaders
	// already in the field.
	router.POST("/upload/:cameraId", s.handleUpload)
	router.GET("/snapshot/:cameraId", s.handleSnapshot)
	router.GET("/stream/:cameraId", s.handleStream)
	router.GET("/timestamp/:cameraId", s.handleTimestamp)

	// Roster push channel
	router.GET("/ws/cameras", s.handleRosterSocket)

	api := router.Group("/api")
	{
		api.GET("/ping", s.handlePing)
		api.GET("/v1/cameras", s.handleListCameras)
		api.GET("/v1/cameras/:cameraId", s.handleGetCamera)
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.router = router
}

// Handler returns the root HTTP handler for mounting middleware around it
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run starts the HTTP server
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Handler implementations

func (s *Server) handlePing(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "pong",
		"time":    time.Now().Unix(),
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "camrelay",
		"cameras": s.registry.Count(),
		"time":    time.Now().Unix(),
	})
}

// handleUpload accepts one base64-encoded JPEG frame from a camera. A missing
// or undecodable frame field is rejected without touching any state. An
// accepted frame always triggers a full-roster broadcast, even when the
// camera was already known.
func (s *Server) handleUpload(c *gin.Context) {
	cameraID := c.Param("cameraId")

	if s.cfg.MaxUploadBytes > 0 && c.Request.ContentLength > s.cfg.MaxUploadBytes {
		s.metrics.RecordUploadError()
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "frame too large"})
		return
	}

	var req models.UploadRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Frame == "" {
		s.metrics.RecordUploadError()
		c.JSON(http.StatusBadRequest, gin.H{"error": "no frame"})
		return
	}

	data, err := base64.StdEncoding.DecodeString(req.Frame)
	if err != nil {
		s.metrics.RecordUploadError()
		c.JSON(http.StatusBadRequest, gin.H{"error": "no frame"})
		return
	}

	ts := time.Now().UTC()
	s.store.Put(cameraID, data, ts)
	if s.registry.Mark(cameraID) {
		s.metrics.RecordNewCamera()
		s.log.Info("new camera registered", zap.String("camera_id", cameraID))
	}
	s.broadcaster.Announce()
	s.metrics.RecordAnnounce()
	s.metrics.RecordFrame(cameraID, len(data))

	c.JSON(http.StatusOK, models.UploadResponse{
		Status:    "ok",
		CameraID:  cameraID,
		Timestamp: ts.Format(time.RFC3339Nano),
	})
}

func (s *Server) handleSnapshot(c *gin.Context) {
	cameraID := c.Param("cameraId")

	frame, exists := s.store.Get(cameraID)
	s.metrics.RecordSnapshot(exists)
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "no frame available"})
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Data(http.StatusOK, "image/jpeg", frame.Data)
}

func (s *Server) handleTimestamp(c *gin.Context) {
	cameraID := c.Param("cameraId")

	frame, exists := s.store.Get(cameraID)
	s.metrics.RecordTimestamp(exists)
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "No frame yet"})
		return
	}

	c.JSON(http.StatusOK, models.TimestampResponse{
		CameraID:  cameraID,
		Timestamp: frame.Timestamp.UTC().Format(time.RFC3339Nano),
	})
}

// handleStream serves one viewer a continuous MJPEG stream. A camera that has
// never uploaded keeps the connection open and idle; parts start flowing once
// a frame appears. The session ends when the viewer disconnects (request
// context cancellation) or a write fails.
func (s *Server) handleStream(c *gin.Context) {
	cameraID := c.Param("cameraId")

	c.Header("Content-Type", "multipart/x-mixed-replace; boundary="+s.cfg.StreamBoundary)
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("Pragma", "no-cache")
	c.Writer.WriteHeaderNow()
	c.Writer.Flush()

	s.metrics.RecordViewerStart()
	if camera, exists := s.store.Camera(cameraID); exists {
		camera.IncrementViewers()
		defer camera.DecrementViewers()
	}

	session := multiplexer.New(s.store, cameraID, multiplexer.Config{
		Interval: s.cfg.FrameInterval,
		Boundary: s.cfg.StreamBoundary,
	}, s.log)

	s.log.Info("stream viewer connected", zap.String("camera_id", cameraID))
	if err := session.Serve(c.Request.Context(), c.Writer); err != nil {
		// Viewer transport gone; an ordinary way for a stream to end.
		s.log.Debug("stream write failed",
			zap.String("camera_id", cameraID),
			zap.Error(err))
	}
	s.metrics.RecordViewerStop(session.Parts())
	s.log.Info("stream viewer disconnected",
		zap.String("camera_id", cameraID),
		zap.Int64("parts", session.Parts()))
}

func (s *Server) handleListCameras(c *gin.Context) {
	ids := s.registry.List()

	infos := make([]models.CameraInfo, 0, len(ids))
	for _, id := range ids {
		if camera, exists := s.store.Camera(id); exists {
			infos = append(infos, cameraToInfo(camera))
		}
	}

	c.JSON(http.StatusOK, models.CameraListResponse{
		Cameras: infos,
		Total:   len(infos),
	})
}

func (s *Server) handleGetCamera(c *gin.Context) {
	cameraID := c.Param("cameraId")

	camera, exists := s.store.Camera(cameraID)
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "camera not found"})
		return
	}

	c.JSON(http.StatusOK, cameraToInfo(camera))
}

// Helper functions

func cameraToInfo(camera *models.Camera) models.CameraInfo {
	stats := camera.GetStats()

	info := models.CameraInfo{
		CameraID:       camera.ID,
		FirstSeen:      camera.FirstSeen.UTC().Format(time.RFC3339),
		FramesReceived: stats.FramesReceived,
		BytesReceived:  stats.BytesReceived,
		Viewers:        stats.Viewers,
	}
	if !stats.LastFrameTime.IsZero() {
		info.LastFrameTime = stats.LastFrameTime.UTC().Format(time.RFC3339)
	}
	return info
}
