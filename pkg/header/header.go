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

package header

import (
	"time"
)

// APIVersion is the schema version of every brokkr document.
const APIVersion = "brokkr.hamma.dev/v1"

// Kind represents the type of document a header describes.
type Kind string

const (
	KindStatus Kind = "Status"
	KindConfig Kind = "Config"
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	return string(k)
}

// IsValid checks if the Kind is one of the recognized kinds.
func (k Kind) IsValid() bool {
	switch k {
	case KindStatus, KindConfig:
		return true
	default:
		return false
	}
}

// Option is a functional option for configuring Header instances.
type Option func(*Header)

// WithMetadata adds a metadata key-value pair to the Header.
func WithMetadata(key, value string) Option {
	return func(h *Header) {
		if h.Metadata == nil {
			h.Metadata = make(map[string]string)
		}
		h.Metadata[key] = value
	}
}

// WithTimestamp records t as the document's creation time.
func WithTimestamp(t time.Time) Option {
	return WithMetadata("timestamp", t.UTC().Format(time.RFC3339))
}

// WithVersion records the version of the tool that produced the document.
func WithVersion(version string) Option {
	return func(h *Header) {
		if version != "" {
			WithMetadata("version", version)(h)
		}
	}
}

// Header contains kind, schema and provenance information for brokkr output.
type Header struct {
	Kind       Kind              `json:"kind,omitempty" yaml:"kind,omitempty"`
	APIVersion string            `json:"apiVersion,omitempty" yaml:"apiVersion,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// New creates a header of the given kind stamped with the current time.
func New(kind Kind, opts ...Option) *Header {
	h := &Header{
		Kind:       kind,
		APIVersion: APIVersion,
		Metadata:   make(map[string]string),
	}
	WithTimestamp(time.Now())(h)

	for _, opt := range opts {
		opt(h)
	}
	return h
}
