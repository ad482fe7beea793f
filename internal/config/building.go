package config

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"unicode/utf8"
)

// MaxFloor is the largest floor number the floor column can hold.
const MaxFloor = 255

// BuildingConfig lists the floors and apartment letters residents may
// book for.
type BuildingConfig struct {
	Floors     []int
	Apartments []string
}

// LoadBuildingConfig reads TERRACE_FLOORS (a count, default 6) and
// TERRACE_APARTMENTS (comma separated letters, default A,B).
func LoadBuildingConfig() BuildingConfig {
	n := envInt("TERRACE_FLOORS", 6)
	if n < 1 {
		log.Printf("config: TERRACE_FLOORS=%d is not positive; using 1", n)
		n = 1
	}
	floors := make([]int, n)
	for i := range floors {
		floors[i] = i + 1
	}
	var apts []string
	for _, a := range envList("TERRACE_APARTMENTS", []string{"A", "B"}) {
		apts = append(apts, strings.ToUpper(a))
	}
	b := BuildingConfig{Floors: floors, Apartments: apts}
	if err := b.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}
	return b
}

// Validate checks the layout against the reservation columns: floors fit
// an unsigned byte and apartment codes are single characters.
func (b BuildingConfig) Validate() error {
	for _, f := range b.Floors {
		if f < 1 || f > MaxFloor {
			return fmt.Errorf("TERRACE_FLOORS: floor %d outside 1-%d", f, MaxFloor)
		}
	}
	seen := make(map[string]bool, len(b.Apartments))
	for _, a := range b.Apartments {
		if utf8.RuneCountInString(a) != 1 {
			return fmt.Errorf("TERRACE_APARTMENTS: %q must be a single character", a)
		}
		if seen[a] {
			return fmt.Errorf("TERRACE_APARTMENTS: %q listed twice", a)
		}
		seen[a] = true
	}
	return nil
}

// String renders the layout for startup logs, e.g. "floors=1-6 apartments=A,B".
func (b BuildingConfig) String() string {
	last := 0
	if len(b.Floors) > 0 {
		last = b.Floors[len(b.Floors)-1]
	}
	return "floors=1-" + strconv.Itoa(last) + " apartments=" + strings.Join(b.Apartments, ",")
}
