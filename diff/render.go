// Copyright 2026 The Rackwise Authors
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

package diff

import (
	"fmt"
	"strings"

	"github.com/aryann/difflib"

	"github.com/rackwise/rackwise"
)

// Text renders a line-oriented diff of the two artifacts' session
// tables for human review: one line per session, sorted by session ID,
// diffed with "+"/"-" markers. Unchanged lines are elided unless
// withContext is set.
func Text(left, right *rackwise.Artifact, withContext bool) string {
	records := difflib.Diff(sessionLines(left), sessionLines(right))

	var b strings.Builder
	for _, rec := range records {
		switch rec.Delta {
		case difflib.LeftOnly:
			b.WriteString("- " + rec.Payload + "\n")
		case difflib.RightOnly:
			b.WriteString("+ " + rec.Payload + "\n")
		default:
			if withContext {
				b.WriteString("  " + rec.Payload + "\n")
			}
		}
	}
	return b.String()
}

func sessionLines(a *rackwise.Artifact) []string {
	lines := make([]string, 0, len(a.Sessions))
	for _, s := range a.Sessions {
		lines = append(lines, sessionLine(s))
	}
	return lines
}

func sessionLine(s rackwise.Session) string {
	extra := ""
	if s.SrcCore != nil && s.DstCore != nil {
		extra = fmt.Sprintf(" core %d->%d", *s.SrcCore, *s.DstCore)
	}
	if s.FiberA != nil && s.FiberB != nil {
		extra = fmt.Sprintf(" fiber %d/%d", *s.FiberA, *s.FiberB)
	}
	return fmt.Sprintf("%s %s %s <-> %s via %s%s",
		s.SessionID, s.Media, s.LabelA, s.LabelB, s.CableID, extra)
}
