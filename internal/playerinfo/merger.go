// Package playerinfo aggregates biographical data for a player across
// multiple sources, merging by source priority and recording provenance per
// field.
package playerinfo

import (
	"fmt"
	"time"

	"github.com/nadavbarak14/hoopsync/internal/types"
)

// Merged is the consolidated result of merging player info from multiple
// sources, with a record of which source supplied each field.
type Merged struct {
	FirstName string
	LastName  string
	BirthDate *time.Time
	HeightCM  *int
	Position  string
	Sources   map[string]string
}

// SourceInfo pairs a source name with the RawPlayerInfo it returned.
type SourceInfo struct {
	Source string
	Info   types.RawPlayerInfo
}

// Merge combines player info from ordered sources (first = highest
// priority). Per field, the winning value is the first source whose value
// is non-empty/non-nil; an empty sources list is a programming error.
func Merge(sources []SourceInfo) (Merged, error) {
	if len(sources) == 0 {
		return Merged{}, fmt.Errorf("playerinfo: cannot merge empty sources list")
	}

	m := Merged{Sources: make(map[string]string, 5)}
	for _, s := range sources {
		if m.FirstName == "" && s.Info.FirstName != "" {
			m.FirstName = s.Info.FirstName
			m.Sources["first_name"] = s.Source
		}
		if m.LastName == "" && s.Info.LastName != "" {
			m.LastName = s.Info.LastName
			m.Sources["last_name"] = s.Source
		}
		if m.HeightCM == nil && s.Info.HeightCM != nil {
			m.HeightCM = s.Info.HeightCM
			m.Sources["height_cm"] = s.Source
		}
		if m.BirthDate == nil && s.Info.BirthDate != nil {
			m.BirthDate = s.Info.BirthDate
			m.Sources["birth_date"] = s.Source
		}
		if m.Position == "" && s.Info.Position != "" {
			m.Position = s.Info.Position
			m.Sources["position"] = s.Source
		}
	}
	return m, nil
}
