// Copyright 2026 Draycott Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package server exposes document ingestion over HTTP.
package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	ingestkit "github.com/draycott/ingestkit"
	"github.com/draycott/ingestkit/core"
	"github.com/draycott/ingestkit/parsers"
)

// Server wraps an Uploader with an HTTP API.
type Server struct {
	uploader *ingestkit.Uploader
	engine   *gin.Engine
	logger   *slog.Logger
}

// New creates a Server around the given uploader.
func New(uploader *ingestkit.Uploader) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		uploader: uploader,
		engine:   gin.New(),
		logger:   slog.Default().With("component", "server"),
	}

	s.engine.Use(gin.Recovery())
	s.engine.POST("/ingest", s.handleIngest)
	s.engine.GET("/healthz", s.handleHealth)

	return s
}

func (s *Server) handleIngest(c *gin.Context) {
	var input ingestkit.IngestionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	out, err := s.uploader.Ingest(c.Request.Context(), input)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, core.ErrNamespaceRequired),
			errors.Is(err, ingestkit.ErrInvalidPayload),
			errors.Is(err, parsers.ErrUnsupportedType),
			errors.Is(err, parsers.ErrNotPlainText):
			status = http.StatusBadRequest
		}
		s.logger.Error("ingestion failed", "source", input.Filename, "err", err)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, out)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Handler returns the underlying HTTP handler, useful for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run starts the HTTP server on the given address and blocks.
func (s *Server) Run(addr string) error {
	s.logger.Info("listening", "addr", addr)
	return s.engine.Run(addr)
}
