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

package collector

import (
	"context"
	"fmt"

	bkerrors "github.com/hamma-dev/brokkr/pkg/errors"
	"github.com/hamma-dev/brokkr/pkg/measurement"
)

// FetchFunc produces the value of one data source.
type FetchFunc func(ctx context.Context) (any, error)

// DataSource is one named entry in the collection order.
type DataSource struct {
	// Name is the record key for plain sources and a label in errors for
	// unpacking ones.
	Name string

	// Fetch produces the value.
	Fetch FetchFunc

	// Unpack merges the returned mapping into the record instead of storing
	// it under Name. The value must be a *measurement.Record or map[string]any.
	Unpack bool
}

// Collect calls each source in order and merges the results into one record.
func Collect(ctx context.Context, sources []DataSource) (*measurement.Record, error) {
	rec := measurement.NewRecord()

	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		v, err := src.Fetch(ctx)
		if err != nil {
			return nil, bkerrors.WrapWithContext(bkerrors.ErrCodeAcquisition,
				fmt.Sprintf("data source %s failed", src.Name), err,
				map[string]any{"source": src.Name})
		}

		if !src.Unpack {
			rec.Set(src.Name, measurement.ToReading(v))
			continue
		}

		switch m := v.(type) {
		case *measurement.Record:
			rec.Merge(m)
		case map[string]any:
			rec.Merge(measurement.RecordFromMap(m))
		case nil:
		default:
			return nil, bkerrors.NewWithContext(bkerrors.ErrCodeInternal,
				fmt.Sprintf("data source %s returned %T, want a mapping", src.Name, v),
				map[string]any{"source": src.Name})
		}
	}

	return rec, nil
}
