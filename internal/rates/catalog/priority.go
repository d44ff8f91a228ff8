package catalog

import "github.com/nemo-from-greece/Mindycalc2/pkg/rates"

// Tiers returns the priority tiers of a world, tier 0 (most raw) first.
// With rates.AllWorlds each tier is the union of both worlds' tiers, Serpulo
// names first, without repeats.
func (c *Catalog) Tiers(world rates.World) [][]string {
	if world != rates.AllWorlds {
		return cloneTiers(c.priorities[world])
	}

	var out [][]string
	for _, w := range rates.Worlds() {
		for i, tier := range c.priorities[w] {
			for len(out) <= i {
				out = append(out, nil)
			}
			out[i] = append(out[i], tier...)
		}
	}
	for i, tier := range out {
		out[i] = dedupe(tier)
	}
	return out
}

// TierOf returns the tier of a resource name on a world, or -1 when the
// name is not ranked.
func (c *Catalog) TierOf(world rates.World, name string) int {
	for i, tier := range c.Tiers(world) {
		for _, n := range tier {
			if n == name {
				return i
			}
		}
	}
	return -1
}

func cloneTiers(tiers [][]string) [][]string {
	out := make([][]string, len(tiers))
	for i, t := range tiers {
		out[i] = append([]string(nil), t...)
	}
	return out
}

func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := names[:0:0]
	for _, n := range names {
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
