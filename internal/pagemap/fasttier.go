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

package pagemap

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

var log = logrus.StandardLogger()

// FrameRange is a half-open interval [Start, End) of physical frame numbers
// classified as the fast memory tier.
type FrameRange struct {
	Start uint64
	End   uint64
}

// Contains reports whether pfn belongs to the fast tier.
func (fr FrameRange) Contains(pfn uint64) bool { return pfn >= fr.Start && pfn < fr.End }

// Classifying frames requires kernel introspection, so the range comes from
// an external privileged helper that prints "start end" on stdout. The
// default invocation matches the drgn helper shipped alongside the
// benchmark; LD_PRELOAD is cleared so interposed allocators do not leak
// into the sudo environment.
var helperCommand = []string{"sudo", "-E", "dram-pfn.py"}

var fastTierOnce = sync.OnceValues(resolveFastTier)

// SetHelperCommand overrides the privileged helper invocation. It must be
// called before the first FastTierRange call; later calls have no effect
// because the resolved range is immutable for the process lifetime.
func SetHelperCommand(argv []string) {
	if len(argv) > 0 {
		helperCommand = argv
	}
}

// FastTierRange resolves the fast-tier frame range, invoking the privileged
// helper exactly once per process. Any helper failure is returned on first
// use and every use after; there is no retry and no silent default.
func FastTierRange() (FrameRange, error) {
	return fastTierOnce()
}

func resolveFastTier() (FrameRange, error) {
	cmd := exec.Command(helperCommand[0], helperCommand[1:]...)
	cmd.Env = append(os.Environ(), "LD_PRELOAD=")
	out, err := cmd.Output()
	if err != nil {
		return FrameRange{}, fmt.Errorf("pagemap: fast-tier helper %q: %w", strings.Join(helperCommand, " "), err)
	}
	fr, err := parseFrameRange(string(out))
	if err != nil {
		return FrameRange{}, err
	}
	log.Infof("fast-tier pfn range: %d..%d", fr.Start, fr.End)
	return fr, nil
}

// parseFrameRange extracts exactly two whitespace-separated integers
// (start, end) from the helper's stdout.
func parseFrameRange(output string) (FrameRange, error) {
	fields := strings.Fields(output)
	if len(fields) < 2 {
		return FrameRange{}, fmt.Errorf("pagemap: fast-tier helper output %q: want two integers", output)
	}
	start, err := strconv.ParseUint(fields[0], 10, 64)
	if err != nil {
		return FrameRange{}, fmt.Errorf("pagemap: fast-tier range start %q: %w", fields[0], err)
	}
	end, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return FrameRange{}, fmt.Errorf("pagemap: fast-tier range end %q: %w", fields[1], err)
	}
	if end < start {
		return FrameRange{}, fmt.Errorf("pagemap: fast-tier range %d..%d is inverted", start, end)
	}
	return FrameRange{Start: start, End: end}, nil
}
