package origin

import (
	"fmt"
	"sort"

	gocache "github.com/patrickmn/go-cache"

	"github.com/avolkov/ancestree/internal/model"
)

// Unknown is the pseudo-country absorbing unaccounted ancestry mass
const Unknown = "Unknown"

// sumFloor is the retained-weight threshold below which the shortfall is
// bucketed under Unknown
const sumFloor = 0.999

// Resolver computes probability-weighted breakdowns of ancestral origins.
// A person with a stated origin contributes that country at full weight;
// otherwise the parents' mixtures are blended at 50% each.
//
// The memo cache is owned by the Resolver and allocated per instance, so
// each run starts fresh and results never leak across runs. Not safe for
// concurrent use; the core is single-threaded by design.
type Resolver struct {
	people   model.Table
	memo     *gocache.Cache
	visiting map[string]bool
	epsilon  float64
	warnings []string
}

// NewResolver creates a resolver over the given person table. Weights below
// epsilon are dropped from computed mixtures (pass 0 for the 0.001 default).
func NewResolver(people model.Table, epsilon float64) *Resolver {
	if epsilon <= 0 {
		epsilon = 0.001
	}
	return &Resolver{
		people:   people,
		memo:     gocache.New(gocache.NoExpiration, 0),
		visiting: make(map[string]bool),
		epsilon:  epsilon,
	}
}

// Resolve returns the origin mixture for the given record id. Absent ids and
// cycles resolve to {"Unknown": 1}; everything else sums to 1.0 within
// tolerance, with any shortfall assigned to Unknown.
func (r *Resolver) Resolve(id string) map[string]float64 {
	rec, ok := r.people.Lookup(id)
	if !ok {
		return unknownMix()
	}

	// Cycle on the active call chain: degrade to Unknown for this path only,
	// without caching the stand-in under the cycling id
	if r.visiting[id] {
		r.warnings = append(r.warnings, fmt.Sprintf("circular parent reference at %q, treating ancestry as unknown", id))
		return unknownMix()
	}

	if cached, found := r.memo.Get(id); found {
		return cached.(map[string]float64)
	}

	// A stated origin is authoritative: ancestry is not blended in
	if rec.OriginCountry != "" {
		mix := map[string]float64{rec.OriginCountry: 1.0}
		r.memo.Set(id, mix, gocache.NoExpiration)
		return mix
	}

	r.visiting[id] = true
	fatherMix := r.Resolve(rec.ParentA)
	motherMix := r.Resolve(rec.ParentB)
	delete(r.visiting, id)

	mix := r.blend(fatherMix, motherMix)
	r.memo.Set(id, mix, gocache.NoExpiration)
	return mix
}

// EnrichAll computes and stores the mixture on every record, in sorted id
// order for deterministic warning output.
func (r *Resolver) EnrichAll() {
	ids := make([]string, 0, len(r.people))
	for id := range r.people {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		r.people[id].OriginMix = r.Resolve(id)
	}
}

// Warnings returns the non-fatal diagnostics accumulated so far
func (r *Resolver) Warnings() []string {
	return r.warnings
}

// blend averages two parent mixtures at 50% weight each, drops entries below
// epsilon, and assigns any shortfall to Unknown
func (r *Resolver) blend(a, b map[string]float64) map[string]float64 {
	mix := make(map[string]float64)
	for country, w := range a {
		mix[country] += w * 0.5
	}
	for country, w := range b {
		mix[country] += w * 0.5
	}

	total := 0.0
	for country, w := range mix {
		if w < r.epsilon {
			delete(mix, country)
			continue
		}
		total += w
	}

	if total < sumFloor {
		mix[Unknown] += 1.0 - total
	}

	return mix
}

func unknownMix() map[string]float64 {
	return map[string]float64{Unknown: 1.0}
}
