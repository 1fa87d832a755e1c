package app

import (
	"fmt"
	"strings"
	"time"
)

// Resource names one of the datasets the Preloader tracks.
type Resource string

const (
	ResourcePrograms Resource = "programs"
	ResourceCoaches  Resource = "coaches"
	ResourceLogbook  Resource = "logbook"
)

// AllResources is the fixed set preloaded on sign-in.
var AllResources = []Resource{ResourcePrograms, ResourceCoaches, ResourceLogbook}

// ParseResource maps a name from a URL or CLI argument to a Resource.
func ParseResource(name string) (Resource, error) {
	r := Resource(strings.ToLower(strings.TrimSpace(name)))
	switch r {
	case ResourcePrograms, ResourceCoaches, ResourceLogbook:
		return r, nil
	}
	return "", fmt.Errorf("unknown resource %q", name)
}

type Program struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Level       string    `json:"level,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	Routines    []Routine `json:"routines"`
}

type Routine struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Position    int        `json:"position"`
	Exercises   []Exercise `json:"exercises"`
}

type Exercise struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	Sets            *int   `json:"sets,omitempty"`
	Reps            *int   `json:"reps,omitempty"`
	DurationSeconds *int   `json:"durationSeconds,omitempty"`
	Position        int    `json:"position"`
}

type Coach struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Bio         string   `json:"bio"`
	AvatarURL   string   `json:"avatarUrl,omitempty"`
	Specialties []string `json:"specialties"`
	Rating      float64  `json:"rating"`
	ReviewCount int      `json:"reviewCount"`
	// PricePerHour is in dollars; nil when the coach has not published a rate.
	PricePerHour *float64 `json:"pricePerHour,omitempty"`
	Location     string   `json:"location,omitempty"`
	Verified     bool     `json:"verified"`
}

type LogbookEntry struct {
	ID              string    `json:"id"`
	Date            string    `json:"date"`
	SessionType     string    `json:"sessionType"`
	DurationMinutes int       `json:"durationMinutes"`
	TrainingFocus   []string  `json:"trainingFocus"`
	Difficulty      []string  `json:"difficulty"`
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// emptyValue is the typed empty slice stored for a resource that was
// fetched but has nothing to show.
func emptyValue(r Resource) any {
	switch r {
	case ResourcePrograms:
		return []Program{}
	case ResourceCoaches:
		return []Coach{}
	case ResourceLogbook:
		return []LogbookEntry{}
	}
	return []any{}
}

// valueLen reports the item count of a cached value.
func valueLen(v any) int {
	switch items := v.(type) {
	case []Program:
		return len(items)
	case []Coach:
		return len(items)
	case []LogbookEntry:
		return len(items)
	case []any:
		return len(items)
	}
	return 0
}
