/*
Copyright 2025 Carelane Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package model

import (
	"fmt"
	"strings"
	"time"
)

// Result is the artifact attached to a completed lab request. At most one
// Result exists per request; publishing twice updates the existing record in
// place.
type Result struct {
	ResultID       string    `json:"result_id"`
	RequestID      string    `json:"request_id"`
	Summary        string    `json:"summary"`
	FileName       string    `json:"file_name"`
	UploadedAt     time.Time `json:"uploaded_at"`
	Flags          []string  `json:"flags,omitempty"`
	Abnormal       bool      `json:"abnormal"`
	Recommendation string    `json:"recommendation,omitempty"`
	ReviewedBy     string    `json:"reviewed_by"`
}

// ParseFlags turns reviewer-supplied comma-separated input into a trimmed,
// de-duplicated flag list. Empty segments are dropped and the first occurrence
// of a flag wins.
func ParseFlags(raw string) []string {
	var flags []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(raw, ",") {
		flag := strings.TrimSpace(part)
		if flag == "" || seen[flag] {
			continue
		}
		seen[flag] = true
		flags = append(flags, flag)
	}
	return flags
}

// DefaultResultFileName is used when the reviewer does not supply an artifact
// filename.
func DefaultResultFileName(requestID string) string {
	return fmt.Sprintf("%s-result.pdf", requestID)
}
