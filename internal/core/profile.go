package core

import "strings"

// Profile holds what the assistant has learned about a visitor. Fields are
// optional; absent fields stay empty.
type Profile struct {
	Name      string   `json:"name,omitempty"`
	Role      string   `json:"role,omitempty"`
	Interests []string `json:"interests,omitempty"`
	Context   string   `json:"context,omitempty"`
}

// ProfileUpdate is the delta the model may emit in its metadata block.
type ProfileUpdate struct {
	Name      string   `json:"name,omitempty"`
	Role      string   `json:"role,omitempty"`
	Interests []string `json:"interests,omitempty"`
	Context   string   `json:"context,omitempty"`
}

func (p Profile) IsEmpty() bool {
	return p.Name == "" && p.Role == "" && len(p.Interests) == 0 && p.Context == ""
}

// Apply merges an update into the profile. Name, role and context overwrite
// when non-empty; interests are unioned case-sensitively, keeping first-seen
// order. Applying the same update twice is a no-op.
func (p *Profile) Apply(u ProfileUpdate) {
	if u.Name != "" {
		p.Name = u.Name
	}
	if u.Role != "" {
		p.Role = u.Role
	}
	if u.Context != "" {
		p.Context = u.Context
	}
	if len(u.Interests) > 0 {
		seen := make(map[string]struct{}, len(p.Interests))
		for _, it := range p.Interests {
			seen[it] = struct{}{}
		}
		for _, it := range u.Interests {
			it = strings.TrimSpace(it)
			if it == "" {
				continue
			}
			if _, ok := seen[it]; ok {
				continue
			}
			seen[it] = struct{}{}
			p.Interests = append(p.Interests, it)
		}
	}
}
