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

// Package server exposes the monitor's latest status record over HTTP.
//
// The server is read-only and optional. It runs next to the monitoring loop
// and shares nothing with it except a StatusProvider.
//
// # API Endpoints
//
// GET /v1/status - Latest collected record
//
//	Returns 200 with {"timestamp": "...", "session": "...", "status": {...}}
//	where status keeps the record's key order, or 503 before the first tick.
//
// GET /health - Liveness
//
//	Always returns 200 OK with {"status": "healthy", "timestamp": "...",
//	"session": "...", "lastTick": "..."}
//
// GET /ready - Readiness
//
//	Returns 200 once the server is started, 503 while starting or with
//	status "stale" when the latest record is older than Config.StaleAfter.
//
// GET /metrics - Prometheus metrics
//
// # Middleware
//
// API endpoints are wrapped, outermost first, with metrics, API version
// negotiation, request IDs (X-Request-Id, UUID), panic recovery, token bucket
// rate limiting (golang.org/x/time/rate) and request logging.
//
// # Usage
//
//	srv := server.New(server.NewConfig(), mon)
//	g.Go(func() error { return srv.Start(ctx) })
package server
