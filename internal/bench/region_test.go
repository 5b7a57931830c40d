// Copyright 2026 The gups Authors. All Rights Reserved.
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

package bench

import "testing"

func TestNewRegion(t *testing.T) {
	r, err := NewRegion(1 << 16)
	if err != nil {
		t.Fatalf("NewRegion returned error: %v", err)
	}
	defer r.Close()

	if r.Len() != 1<<16 {
		t.Errorf("Len() = %d, want %d", r.Len(), 1<<16)
	}
	if r.Addr() == 0 {
		t.Error("Addr() = 0, want a mapped address")
	}
	buf := r.Bytes()
	for i, b := range buf {
		if b != regionFill {
			t.Fatalf("byte %d = %#x, want %#x", i, b, regionFill)
		}
	}
}

func TestNewRegion_InvalidLength(t *testing.T) {
	for _, length := range []int64{0, -4096} {
		if _, err := NewRegion(length); err == nil {
			t.Errorf("NewRegion(%d) succeeded, want error", length)
		}
	}
}
