// ReelMatch - Fingerprint-Based Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import "strings"

// Attribute is one named fingerprint dimension.
type Attribute struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Pillar groups related attributes.
type Pillar struct {
	Name       string      `json:"name"`
	Attributes []Attribute `json:"attributes"`
}

var pillars = []Pillar{
	pillar("Energy", "pace", "action", "tension", "suspense", "intensity", "adrenaline", "chaos", "momentum", "violence", "thrill"),
	pillar("Heart", "romance", "warmth", "sentimentality", "heartbreak", "friendship", "family", "hope", "melancholy", "intimacy", "empathy"),
	pillar("Humor", "comedy", "wit", "satire", "slapstick", "absurdity", "dark_humor", "irony", "whimsy", "cringe", "banter"),
	pillar("World", "world_building", "fantasy", "science_fiction", "realism", "historical", "urban", "nature", "supernatural", "dystopia", "mythology"),
	pillar("Craft", "cinematography", "writing", "acting", "direction", "editing", "soundtrack", "dialogue", "complexity", "ambiguity", "twists"),
	pillar("Style", "visual_style", "stylization", "surrealism", "minimalism", "nostalgia", "darkness", "grit", "elegance", "quirkiness", "atmosphere"),
}

var attributeIndex = buildAttributeIndex()

func pillar(name string, keys ...string) Pillar {
	p := Pillar{Name: name, Attributes: make([]Attribute, len(keys))}
	for i, k := range keys {
		p.Attributes[i] = Attribute{Key: k, Label: labelFor(k)}
	}
	return p
}

func labelFor(key string) string {
	words := strings.Split(key, "_")
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func buildAttributeIndex() map[string]string {
	idx := make(map[string]string)
	for _, p := range pillars {
		for _, a := range p.Attributes {
			idx[a.Key] = p.Name
		}
	}
	return idx
}

// Pillars returns a copy of the fingerprint vocabulary.
func Pillars() []Pillar {
	out := make([]Pillar, len(pillars))
	for i, p := range pillars {
		attrs := make([]Attribute, len(p.Attributes))
		copy(attrs, p.Attributes)
		out[i] = Pillar{Name: p.Name, Attributes: attrs}
	}
	return out
}

// IsAttribute reports whether key is in the vocabulary.
func IsAttribute(key string) bool {
	_, ok := attributeIndex[key]
	return ok
}

// PillarOf returns the pillar an attribute belongs to.
func PillarOf(key string) (string, bool) {
	p, ok := attributeIndex[key]
	return p, ok
}
