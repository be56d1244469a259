package chat

import (
	"encoding/json"
	"strings"

	"github.com/garyyong/askgary/internal/core"
)

const (
	metadataMarker = "```json"
	fence          = "```"
)

type metadata struct {
	ProfileUpdates *core.ProfileUpdate `json:"profile_updates"`
	FollowUp       string              `json:"follow_up"`
}

// ParseResponse splits raw model output into the visible answer and the
// optional fenced metadata block. A missing or undecodable block never loses
// the answer: metadata is simply dropped.
func ParseResponse(raw string) (answer, followUp string, update *core.ProfileUpdate) {
	idx := strings.Index(raw, metadataMarker)
	if idx < 0 {
		return strings.TrimSpace(raw), "", nil
	}

	answer = strings.TrimSpace(raw[:idx])

	payload := raw[idx+len(metadataMarker):]
	end := strings.Index(payload, fence)
	if end < 0 {
		return answer, "", nil
	}
	payload = payload[:end]

	var meta metadata
	if err := json.Unmarshal([]byte(payload), &meta); err != nil {
		return answer, "", nil
	}
	return answer, meta.FollowUp, meta.ProfileUpdates
}
