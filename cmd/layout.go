package main

import (
	"fmt"

	"rdmx/internal/config"
	"rdmx/internal/universe"
)

// BuildLayout turns the configured patch into a universe layout.
// An empty patch means a single fixture over the whole universe, and a
// count of 0 fills the channels left after the rest of the patch.
func BuildLayout(cfg config.UniverseConf) (universe.Layout, error) {
	if len(cfg.Patch) == 0 {
		return nil, nil
	}
	if cfg.Profiles == "" {
		return nil, fmt.Errorf("patch needs a profile library")
	}

	profiles, err := config.LoadProfiles(cfg.Profiles)
	if err != nil {
		return nil, err
	}
	return layoutFromProfiles(cfg.Patch, profiles)
}

func layoutFromProfiles(patch []config.PatchConf, profiles map[string]config.ProfileConf) (universe.Layout, error) {
	layout := make(universe.Layout, 0, len(patch))
	fill := -1
	used := 0
	for i, p := range patch {
		pc, ok := profiles[p.Profile]
		if !ok {
			return nil, fmt.Errorf("patch %d: unknown profile %q", i, p.Profile)
		}
		profile := universe.Profile{Name: pc.Name, Channels: pc.Channels}
		if p.Count == 0 {
			if fill >= 0 {
				return nil, fmt.Errorf("patch %d: only one entry may fill the universe", i)
			}
			fill = i
		}
		switch {
		case p.Count < 0:
			return nil, fmt.Errorf("patch %d: negative count %d", i, p.Count)
		case profile.Width() > 0 && p.Count > (universe.NumChannels-used)/profile.Width():
			return nil, fmt.Errorf("patch %d: %d x %q exceeds %d channels", i, p.Count, p.Profile, universe.NumChannels)
		}
		used += profile.Width() * p.Count
		layout = append(layout, universe.Allotment{Profile: profile, Count: p.Count})
	}

	if fill >= 0 {
		width := layout[fill].Profile.Width()
		if width == 0 {
			return nil, fmt.Errorf("patch %d: profile %q has no channels", fill, layout[fill].Profile.Name)
		}
		if free := universe.NumChannels - used; free > 0 {
			layout[fill].Count = free / width
		}
	}
	return layout, nil
}
