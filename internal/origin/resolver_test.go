package origin

import (
	"math"
	"testing"

	"github.com/avolkov/ancestree/internal/model"
)

func person(id, origin, parentA, parentB string) *model.PersonRecord {
	return &model.PersonRecord{
		ID:            id,
		Name:          id,
		OriginCountry: origin,
		ParentA:       parentA,
		ParentB:       parentB,
	}
}

func tableOf(recs ...*model.PersonRecord) model.Table {
	t := make(model.Table)
	for _, rec := range recs {
		t[rec.ID] = rec
	}
	return t
}

func assertWeight(t *testing.T, mix map[string]float64, country string, want float64) {
	t.Helper()
	if got := mix[country]; math.Abs(got-want) > 0.001 {
		t.Errorf("mix[%q] = %v, want %v (mix: %v)", country, got, want, mix)
	}
}

func assertSumsToOne(t *testing.T, mix map[string]float64) {
	t.Helper()
	total := 0.0
	for _, w := range mix {
		total += w
	}
	if math.Abs(total-1.0) > 0.001 {
		t.Errorf("Mixture sums to %v, want 1.0: %v", total, mix)
	}
}

func TestResolve_DirectOriginIsAuthoritative(t *testing.T) {
	// A stated origin wins even when parents carry different origins
	people := tableOf(
		person("child", "Ireland", "father", "mother"),
		person("father", "Germany", "", ""),
		person("mother", "Scotland", "", ""),
	)
	r := NewResolver(people, 0)

	mix := r.Resolve("child")
	if len(mix) != 1 {
		t.Fatalf("Expected single-entry mixture, got %v", mix)
	}
	assertWeight(t, mix, "Ireland", 1.0)
}

func TestResolve_BlendsParentsEqually(t *testing.T) {
	people := tableOf(
		person("child", "", "father", "mother"),
		person("father", "Ireland", "", ""),
		person("mother", "Germany", "", ""),
	)
	r := NewResolver(people, 0)

	mix := r.Resolve("child")
	assertWeight(t, mix, "Ireland", 0.5)
	assertWeight(t, mix, "Germany", 0.5)
	assertSumsToOne(t, mix)
}

func TestResolve_AbsentParentContributesUnknown(t *testing.T) {
	people := tableOf(
		person("child", "", "father", ""),
		person("father", "Ireland", "", ""),
	)
	r := NewResolver(people, 0)

	mix := r.Resolve("child")
	assertWeight(t, mix, "Ireland", 0.5)
	assertWeight(t, mix, Unknown, 0.5)
	assertSumsToOne(t, mix)
}

func TestResolve_AbsentID(t *testing.T) {
	r := NewResolver(make(model.Table), 0)
	mix := r.Resolve("nobody")
	assertWeight(t, mix, Unknown, 1.0)

	mix = r.Resolve("")
	assertWeight(t, mix, Unknown, 1.0)
}

func TestResolve_BothParentsUnknown(t *testing.T) {
	people := tableOf(person("child", "", "", ""))
	r := NewResolver(people, 0)

	mix := r.Resolve("child")
	if len(mix) != 1 {
		t.Fatalf("Expected single Unknown entry, got %v", mix)
	}
	assertWeight(t, mix, Unknown, 1.0)
}

func TestResolve_QuarterWeights(t *testing.T) {
	people := tableOf(
		person("child", "", "father", "mother"),
		person("father", "", "gfa", "gma"),
		person("gfa", "Ireland", "", ""),
		person("gma", "Germany", "", ""),
		person("mother", "Scotland", "", ""),
	)
	r := NewResolver(people, 0)

	mix := r.Resolve("child")
	assertWeight(t, mix, "Scotland", 0.5)
	assertWeight(t, mix, "Ireland", 0.25)
	assertWeight(t, mix, "Germany", 0.25)
	assertSumsToOne(t, mix)
}

func TestResolve_CycleTerminates(t *testing.T) {
	// A is B's parent and B is A's parent: data-entry error, must not loop
	people := tableOf(
		person("a", "", "b", ""),
		person("b", "", "a", ""),
	)
	r := NewResolver(people, 0)

	mix := r.Resolve("a")
	assertWeight(t, mix, Unknown, 1.0)
	assertSumsToOne(t, mix)

	if len(r.Warnings()) == 0 {
		t.Error("Expected a cycle warning")
	}
}

func TestResolve_SelfParentTerminates(t *testing.T) {
	people := tableOf(person("a", "", "a", "a"))
	r := NewResolver(people, 0)

	mix := r.Resolve("a")
	assertWeight(t, mix, Unknown, 1.0)
}

func TestResolve_Memoized(t *testing.T) {
	people := tableOf(
		person("child", "", "father", ""),
		person("father", "Ireland", "", ""),
	)
	r := NewResolver(people, 0)

	first := r.Resolve("child")
	assertWeight(t, first, "Ireland", 0.5)

	// Mutating the table after memoization must not change cached results
	people["father"].OriginCountry = "Germany"
	third := r.Resolve("child")
	assertWeight(t, third, "Ireland", 0.5)
}

func TestEnrichAll_SetsMixOnEveryRecord(t *testing.T) {
	people := tableOf(
		person("child", "", "father", "mother"),
		person("father", "Ireland", "", ""),
		person("mother", "", "", ""),
	)
	r := NewResolver(people, 0)
	r.EnrichAll()

	for id, rec := range people {
		if !rec.HasOriginMix() {
			t.Errorf("Record %q has no origin mix after EnrichAll", id)
		}
		assertSumsToOne(t, rec.OriginMix)
	}
}
