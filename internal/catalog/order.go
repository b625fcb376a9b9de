package catalog

import (
	"math"

	"github.com/jsvensson/base16sh/internal/color"
	"github.com/jsvensson/base16sh/internal/scheme"
)

// vectorSlots are the palette slots that make up a scheme's color vector.
var vectorSlots = scheme.Base16.Slots()

// candidate is a scheme that takes part in the perceptual ordering.
type candidate struct {
	name       string
	vector     color.Vector
	background color.Color
	greyscale  bool
}

// loaded is the outcome of reading one scheme for ordering purposes.
type loaded struct {
	name string
	def  scheme.Definition
	err  error
}

// colorOrder computes the perceptual ordering of the named schemes, which must
// already be sorted. It also returns the greyscale classification of every
// scheme that could be parsed.
//
// The ordering is a greedy nearest-neighbour tour: it starts at the scheme with
// the darkest background and repeatedly moves to the closest unvisited scheme.
// It is an approximation, not an optimal tour. Greyscale schemes are then moved
// behind all others, keeping their relative order.
func colorOrder(records map[string]SchemeRecord, names []string) ([]string, map[string]bool) {
	results := make([]loaded, 0, len(names))
	for _, name := range names {
		def, err := records[name].Load()
		results = append(results, loaded{name: name, def: def, err: err})
	}

	candidates := make([]candidate, 0, len(results))
	grey := make(map[string]bool)
	for _, r := range results {
		if r.err != nil {
			log.Warningf("excluding %q from color order: %v", r.name, r.err)
			continue
		}
		c := newCandidate(r.name, r.def)
		grey[c.name] = c.greyscale
		candidates = append(candidates, c)
	}

	tour := nearestNeighborTour(candidates)

	order := make([]string, 0, len(tour))
	for _, c := range tour {
		if !c.greyscale {
			order = append(order, c.name)
		}
	}
	for _, c := range tour {
		if c.greyscale {
			order = append(order, c.name)
		}
	}
	return order, grey
}

func newCandidate(name string, def scheme.Definition) candidate {
	colors := make([]color.Color, len(vectorSlots))
	for i, slot := range vectorSlots {
		colors[i] = color.FromHex(def.Palette[slot])
	}
	return candidate{
		name:       name,
		vector:     color.NewVector(colors...),
		background: colors[0],
		greyscale:  color.IsGreyscale(def.Palette),
	}
}

// nearestNeighborTour visits every candidate once. Ties, both for the start
// and for each step, go to the earliest candidate in the input.
func nearestNeighborTour(candidates []candidate) []candidate {
	if len(candidates) == 0 {
		return nil
	}

	current := 0
	for i, c := range candidates {
		if c.background.Sum() < candidates[current].background.Sum() {
			current = i
		}
	}

	visited := make([]bool, len(candidates))
	tour := make([]candidate, 0, len(candidates))
	for current >= 0 {
		visited[current] = true
		tour = append(tour, candidates[current])

		next, best := -1, math.Inf(1)
		for i, c := range candidates {
			if visited[i] {
				continue
			}
			if d := color.VectorDistance(candidates[current].vector, c.vector); d < best {
				next, best = i, d
			}
		}
		current = next
	}
	return tour
}
