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

package sensor

import (
	"errors"
	"runtime"
	"slices"
	"syscall"
)

// Platform families with distinct link-down errno values.
const (
	FamilyPOSIX   = "posix"
	FamilyWindows = "windows"
)

// wsaEADDRNOTAVAIL is the Winsock "cannot assign requested address" error.
const wsaEADDRNOTAVAIL syscall.Errno = 10049

// linkDownTable lists, per platform family, the bind errors that mean the
// interface toward the sensor is currently down. posixLinkDown is supplied by
// the platform-specific errno files.
var linkDownTable = map[string][]syscall.Errno{
	FamilyPOSIX:   posixLinkDown,
	FamilyWindows: {wsaEADDRNOTAVAIL},
}

// platformFamily maps a GOOS value to its family.
func platformFamily(goos string) string {
	if goos == "windows" {
		return FamilyWindows
	}
	return FamilyPOSIX
}

// LinkDownErrnos returns the link-down errno values for the running platform.
func LinkDownErrnos() []syscall.Errno {
	return slices.Clone(linkDownTable[platformFamily(runtime.GOOS)])
}

// IsLinkDown reports whether err carries one of the running platform's
// link-down errno values.
func IsLinkDown(err error) bool {
	var errno syscall.Errno
	if !errors.As(err, &errno) {
		return false
	}
	return slices.Contains(linkDownTable[platformFamily(runtime.GOOS)], errno)
}
