package bot

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Server exposes the command to a chat transport as a webhook: the host chat
// process POSTs each incoming message and delivers whatever parts come back.
type Server struct {
	command string
	handler *Handler
	log     *logrus.Logger
	router  *gin.Engine
}

type inboundMessage struct {
	Session string `json:"session"`
	Content string `json:"content"`
}

// MessagePart is one outbound reply unit: a text part carries Content, an
// image part carries MIME plus base64 Data.
type MessagePart struct {
	Type    string `json:"type"`
	Content string `json:"content,omitempty"`
	MIME    string `json:"mime,omitempty"`
	Data    string `json:"data,omitempty"`
}

func NewServer(command string, handler *Handler, log *logrus.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		command: command,
		handler: handler,
		log:     log,
		router:  router,
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	router.POST("/messages", s.handleMessage)
	return s
}

// Run starts the webhook server.
func (s *Server) Run(addr string) error {
	s.log.Infof("listening on %s, command %q", addr, s.command)
	return s.router.Run(addr)
}

// Router returns the underlying gin engine.
func (s *Server) Router() http.Handler { return s.router }

func (s *Server) handleMessage(c *gin.Context) {
	var msg inboundMessage
	if err := c.ShouldBindJSON(&msg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message payload"})
		return
	}

	if strings.TrimSpace(msg.Content) != s.command {
		// Not our command; nothing to say.
		c.JSON(http.StatusOK, gin.H{"messages": []MessagePart{}})
		return
	}

	s.log.Infof("command %q invoked by session %s", s.command, msg.Session)

	reply := &replyCollector{}
	if err := s.handler.Handle(c.Request.Context(), reply); err != nil {
		s.log.Errorf("assembling reply: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "reply assembly failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": reply.parts})
}

// replyCollector buffers the reply parts for one invocation so they go back
// in a single webhook response, in send order.
type replyCollector struct {
	parts []MessagePart
}

func (r *replyCollector) SendText(_ context.Context, text string) error {
	r.parts = append(r.parts, MessagePart{Type: "text", Content: text})
	return nil
}

func (r *replyCollector) SendAttachment(_ context.Context, mime string, data []byte) error {
	r.parts = append(r.parts, MessagePart{
		Type: "image",
		MIME: mime,
		Data: base64.StdEncoding.EncodeToString(data),
	})
	return nil
}
