package services

import (
	"log/slog"
	"sync/atomic"
)

// GroupDefinition is one named world group from configuration: a group
// name and the worlds that share a single balance.
type GroupDefinition struct {
	Name   string
	Worlds []string
}

// WorldGroups maps worlds to the group they belong to. The index is an
// immutable snapshot swapped atomically on Rebuild, so readers see either
// the old grouping or the fully-new one, never a mix.
type WorldGroups struct {
	logger *slog.Logger
	snap   atomic.Pointer[groupSnapshot]
}

type groupSnapshot struct {
	worldGroup map[string]string   // world -> group
	members    map[string][]string // group -> worlds, config order
}

// NewWorldGroups creates an empty index; every world is its own bucket
// until Rebuild is called.
func NewWorldGroups(logger *slog.Logger) *WorldGroups {
	g := &WorldGroups{logger: logger}
	g.snap.Store(&groupSnapshot{
		worldGroup: make(map[string]string),
		members:    make(map[string][]string),
	})
	return g
}

// Rebuild replaces the entire index from configuration. Definitions are
// processed in order; a world listed in more than one group keeps its most
// recent assignment. World names that are not in the known set are skipped
// with a warning, never an error, and stay ungrouped.
func (g *WorldGroups) Rebuild(defs []GroupDefinition, known []string) {
	knownSet := make(map[string]struct{}, len(known))
	for _, w := range known {
		knownSet[w] = struct{}{}
	}

	worldGroup := make(map[string]string)
	for _, def := range defs {
		for _, world := range def.Worlds {
			if _, ok := knownSet[world]; !ok {
				g.logger.Warn("unknown world in group config, skipping",
					"world", world, "group", def.Name)
				continue
			}
			if prev, ok := worldGroup[world]; ok && prev != def.Name {
				g.logger.Warn("world listed in multiple groups, keeping latest",
					"world", world, "previous", prev, "group", def.Name)
			}
			worldGroup[world] = def.Name
		}
	}

	members := make(map[string][]string)
	for _, def := range defs {
		for _, world := range def.Worlds {
			if worldGroup[world] != def.Name {
				continue
			}
			if !contains(members[def.Name], world) {
				members[def.Name] = append(members[def.Name], world)
			}
		}
	}

	g.snap.Store(&groupSnapshot{worldGroup: worldGroup, members: members})
}

// GroupOf returns the group a world belongs to, if any.
func (g *WorldGroups) GroupOf(world string) (string, bool) {
	group, ok := g.snap.Load().worldGroup[world]
	return group, ok
}

// Members returns the worlds sharing a balance with the given world. An
// ungrouped world is its own singleton.
func (g *WorldGroups) Members(world string) []string {
	snap := g.snap.Load()
	if group, ok := snap.worldGroup[world]; ok {
		return append([]string(nil), snap.members[group]...)
	}
	return []string{world}
}

// BucketKey returns the key a world's balance is stored under: the group
// name when grouped, the world name itself otherwise.
func (g *WorldGroups) BucketKey(world string) string {
	if group, ok := g.GroupOf(world); ok {
		return group
	}
	return world
}

// SameBucket reports whether two worlds resolve to the same stored balance.
func (g *WorldGroups) SameBucket(a, b string) bool {
	return g.BucketKey(a) == g.BucketKey(b)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
