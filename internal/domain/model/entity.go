// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"strings"
)

// EntityType names a corpus of entity names held by the statistics store.
type EntityType string

// Known entity types.
const (
	EntityPlayer     EntityType = "player"
	EntityTeam       EntityType = "team"
	EntityOpposition EntityType = "opposition"
	EntityLeague     EntityType = "league"
	EntityStatType   EntityType = "stat_type"
)

// EntityTypes lists every entity type in dictionary load order.
func EntityTypes() []EntityType {
	return []EntityType{EntityPlayer, EntityTeam, EntityOpposition, EntityLeague, EntityStatType}
}

// ParseEntityType maps a user supplied string to an EntityType.
func ParseEntityType(s string) (EntityType, error) {
	t := EntityType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range EntityTypes() {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown entity type %q", s)
}

// FuzzyMatch is one scored resolution candidate.
type FuzzyMatch struct {
	Candidate  string     `json:"candidate"`
	Confidence float64    `json:"confidence"` // [0,1]
	EntityType EntityType `json:"entityType"`
}

// Correction records a single token replaced by the spelling corrector.
type Correction struct {
	Original   string  `json:"original"`
	Corrected  string  `json:"corrected"`
	Confidence float64 `json:"confidence"`
}
