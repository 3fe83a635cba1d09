package api

import (
	"context"
	"net/http"
	"time"

	"github.com/PatxiBS/ud2-storageFork/internal/engine"
	"github.com/PatxiBS/ud2-storageFork/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

type Server struct {
	files      *engine.FileStoreService
	hub        *Hub
	upgrader   websocket.Upgrader
	router     *gin.Engine
	httpServer *http.Server
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

func NewServer(files *engine.FileStoreService, eventBufferSize int) *Server {
	router := gin.New()
	router.Use(requestLogger(), gin.Recovery())

	server := &Server{
		files: files,
		hub:   NewHub(eventBufferSize),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins for development
			},
		},
		router: router,
	}

	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	})

	filesGroup := router.Group("/files")
	filesGroup.GET("", server.handleList)
	filesGroup.POST("", server.handleCreate)
	filesGroup.GET("/:filename", server.handleRead)
	filesGroup.PUT("/:filename", server.handleUpdate)
	filesGroup.PATCH("/:filename", server.handleUpdate)
	filesGroup.DELETE("/:filename", server.handleDelete)

	router.GET("/health", server.handleHealth)
	router.GET("/ws", server.handleWebSocket)

	// Unknown paths, including names with encoded slashes, get the JSON shape too
	router.NoRoute(server.handleNoRoute)

	// Register callback to receive change events from the file store
	files.SetEventCallback(server.NotifyEvent)

	return server
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves HTTP on port until Shutdown is called.
func (s *Server) Start(port string) error {
	go s.hub.Run()

	s.httpServer = &http.Server{
		Addr:         ":" + port,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logrus.Infof("API server starting on port %s", port)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops accepting requests, waits for in-flight ones and
// disconnects websocket clients.
func (s *Server) Shutdown(ctx context.Context) error {
	defer s.hub.Close()
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// NotifyEvent queues a change event for every connected websocket client.
func (s *Server) NotifyEvent(event models.ChangeEvent) {
	s.hub.Publish(event)
}

func (s *Server) handleList(c *gin.Context) {
	respond(c, s.files.List(c.Request.Context()))
}

func (s *Server) handleCreate(c *gin.Context) {
	var req models.CreateRequest
	if err := c.ShouldBind(&req); err != nil {
		logrus.WithError(err).Debug("Create request failed binding")
		req = models.CreateRequest{}
	}
	respond(c, s.files.Create(c.Request.Context(), req))
}

func (s *Server) handleRead(c *gin.Context) {
	respond(c, s.files.Read(c.Request.Context(), c.Param("filename")))
}

func (s *Server) handleUpdate(c *gin.Context) {
	var req models.UpdateRequest
	if err := c.ShouldBind(&req); err != nil {
		logrus.WithError(err).Debug("Update request failed binding")
		req = models.UpdateRequest{}
	}
	respond(c, s.files.Update(c.Request.Context(), c.Param("filename"), req))
}

func (s *Server) handleDelete(c *gin.Context) {
	respond(c, s.files.Delete(c.Request.Context(), c.Param("filename")))
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Warn("WebSocket upgrade error")
		return
	}

	s.hub.Add(conn)
	defer s.hub.Remove(conn)

	// Keep connection alive and read messages (ping/pong)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) handleNoRoute(c *gin.Context) {
	respond(c, models.OperationResult{
		Message:    engine.MsgFileNotFound,
		StatusCode: http.StatusNotFound,
	})
}

func respond(c *gin.Context, result models.OperationResult) {
	c.JSON(result.StatusCode, result)
}
