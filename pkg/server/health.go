// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
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

package server

import (
	"fmt"
	"net/http"
	"time"

	bkerrors "github.com/hamma-dev/brokkr/pkg/errors"
	"github.com/hamma-dev/brokkr/pkg/serializer"
)

const (
	statusHealthy  = "healthy"
	statusReady    = "ready"
	statusNotReady = "not_ready"
	statusStale    = "stale"
)

// HealthResponse is the body of /health and /ready.
type HealthResponse struct {
	Status    string     `json:"status" yaml:"status"`
	Timestamp time.Time  `json:"timestamp" yaml:"timestamp"`
	Session   string     `json:"session,omitempty" yaml:"session,omitempty"`
	LastTick  *time.Time `json:"lastTick,omitempty" yaml:"lastTick,omitempty"`
	Reason    string     `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// health reports the process state and, when monitoring, the last tick.
func (s *Server) health(status string) HealthResponse {
	h := HealthResponse{Status: status, Timestamp: time.Now().UTC()}
	if s.status == nil {
		return h
	}
	h.Session = s.status.Session()
	if _, at, ok := s.status.Latest(); ok {
		at = at.UTC()
		h.LastTick = &at
	}
	return h
}

// handleHealth handles GET /health. It succeeds whenever the process serves.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, r, http.StatusMethodNotAllowed, bkerrors.ErrCodeMethodNotAllowed,
			"Method not allowed", false, map[string]any{"method": r.Method})
		return
	}

	serializer.RespondJSON(w, http.StatusOK, s.health(statusHealthy))
}

// handleReady handles GET /ready. The server is not ready while starting or
// when the latest record is older than Config.StaleAfter.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, r, http.StatusMethodNotAllowed, bkerrors.ErrCodeMethodNotAllowed,
			"Method not allowed", false, map[string]any{"method": r.Method})
		return
	}

	if !s.isReady() {
		h := s.health(statusNotReady)
		h.Reason = "server is starting"
		serializer.RespondJSON(w, http.StatusServiceUnavailable, h)
		return
	}

	h := s.health(statusReady)
	if s.config.StaleAfter > 0 && h.LastTick != nil {
		if age := time.Since(*h.LastTick); age > s.config.StaleAfter {
			h.Status = statusStale
			h.Reason = fmt.Sprintf("no status recorded for %s", age.Round(time.Second))
			serializer.RespondJSON(w, http.StatusServiceUnavailable, h)
			return
		}
	}

	serializer.RespondJSON(w, http.StatusOK, h)
}
