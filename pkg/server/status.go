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
	"net/http"
	"time"

	bkerrors "github.com/hamma-dev/brokkr/pkg/errors"
	"github.com/hamma-dev/brokkr/pkg/measurement"
	"github.com/hamma-dev/brokkr/pkg/serializer"
)

// StatusResponse is the body of GET /v1/status.
type StatusResponse struct {
	Timestamp time.Time           `json:"timestamp"`
	Session   string              `json:"session,omitempty"`
	Status    *measurement.Record `json:"status"`
}

// handleStatus handles GET /v1/status. The optional fields query parameter
// limits the record to comma separated key patterns.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, r, http.StatusMethodNotAllowed, bkerrors.ErrCodeMethodNotAllowed,
			"Method not allowed", false, map[string]any{"method": r.Method})
		return
	}

	if s.status == nil {
		WriteError(w, r, http.StatusServiceUnavailable, bkerrors.ErrCodeUnavailable,
			"Monitoring is not running", false, nil)
		return
	}

	rec, at, ok := s.status.Latest()
	if !ok {
		WriteError(w, r, http.StatusServiceUnavailable, bkerrors.ErrCodeUnavailable,
			"No status collected yet", true, nil)
		return
	}

	if patterns := measurement.ParsePatterns(r.URL.Query().Get("fields")); len(patterns) > 0 {
		rec = rec.Select(patterns...)
	}

	serializer.RespondJSON(w, http.StatusOK, StatusResponse{
		Timestamp: at.UTC(),
		Session:   s.status.Session(),
		Status:    rec,
	})
}
