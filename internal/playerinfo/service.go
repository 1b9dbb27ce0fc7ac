package playerinfo

import (
	"context"

	"github.com/nadavbarak14/hoopsync/internal/adapter"
	"github.com/nadavbarak14/hoopsync/internal/types"
)

// Service aggregates player info from multiple adapter.PlayerInfoAdapter
// sources, ordered by priority (earlier = higher priority when merging).
type Service struct {
	adapters      []adapter.PlayerInfoAdapter
	adapterByName map[string]adapter.PlayerInfoAdapter
}

func NewService(adapters []adapter.PlayerInfoAdapter) *Service {
	byName := make(map[string]adapter.PlayerInfoAdapter, len(adapters))
	for _, a := range adapters {
		byName[a.SourceName()] = a
	}
	return &Service{adapters: adapters, adapterByName: byName}
}

// GetPlayerInfo fetches from every adapter that has a matching external id,
// tolerating per-adapter failures, and merges the results. Returns nil if
// no adapter produced anything.
func (s *Service) GetPlayerInfo(ctx context.Context, externalIDs map[string]string) (*Merged, error) {
	var sources []SourceInfo
	for _, a := range s.adapters {
		externalID, ok := externalIDs[a.SourceName()]
		if !ok {
			continue
		}
		info, err := a.GetPlayerInfo(ctx, externalID)
		if err != nil {
			continue
		}
		sources = append(sources, SourceInfo{Source: a.SourceName(), Info: info})
	}
	if len(sources) == 0 {
		return nil, nil
	}
	merged, err := Merge(sources)
	if err != nil {
		return nil, err
	}
	return &merged, nil
}

// GetPlayerInfoFromSource fetches from a single named adapter, returning
// nil if the source doesn't exist or the fetch fails.
func (s *Service) GetPlayerInfoFromSource(ctx context.Context, source, externalID string) *types.RawPlayerInfo {
	a, ok := s.adapterByName[source]
	if !ok {
		return nil
	}
	info, err := a.GetPlayerInfo(ctx, externalID)
	if err != nil {
		return nil
	}
	return &info
}

// SearchPlayer searches every adapter and concatenates results. Duplicates
// may occur if the same player appears across sources.
func (s *Service) SearchPlayer(ctx context.Context, name, team string) []types.RawPlayerInfo {
	var all []types.RawPlayerInfo
	for _, a := range s.adapters {
		results, err := a.SearchPlayer(ctx, name, team)
		if err != nil {
			continue
		}
		all = append(all, results...)
	}
	return all
}

// UpdateFromSources fetches every source a player carries an external id
// for, merges, and returns a field-delta map suitable for applying to a
// canonical player row — excluding fields whose merged value is empty/nil.
func (s *Service) UpdateFromSources(ctx context.Context, player types.Player) (map[string]any, error) {
	if len(player.ExternalIDs) == 0 {
		return map[string]any{}, nil
	}
	merged, err := s.GetPlayerInfo(ctx, player.ExternalIDs)
	if err != nil {
		return nil, err
	}
	if merged == nil {
		return map[string]any{}, nil
	}

	updates := map[string]any{}
	if merged.FirstName != "" {
		updates["first_name"] = merged.FirstName
	}
	if merged.LastName != "" {
		updates["last_name"] = merged.LastName
	}
	if merged.BirthDate != nil {
		updates["birth_date"] = *merged.BirthDate
	}
	if merged.HeightCM != nil {
		updates["height_cm"] = *merged.HeightCM
	}
	if merged.Position != "" {
		updates["position"] = merged.Position
	}
	return updates, nil
}

// GetAdapter returns an adapter by source name, or nil if not found.
func (s *Service) GetAdapter(source string) adapter.PlayerInfoAdapter {
	return s.adapterByName[source]
}

// SourceNames returns the adapters' source names in priority order.
func (s *Service) SourceNames() []string {
	names := make([]string, len(s.adapters))
	for i, a := range s.adapters {
		names[i] = a.SourceName()
	}
	return names
}
