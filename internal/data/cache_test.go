package data

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"ames-casefile/internal/casefile"
	"ames-casefile/internal/model"

	"github.com/google/uuid"
	"gotest.tools/v3/assert"
)

func finishedCase(t *testing.T) *model.CaseData {
	t.Helper()
	c := model.NewCaseData(model.DefaultSimulation())
	assert.NilError(t, c.Zones.Put("Zone1", 1))
	assert.NilError(t, c.Zones.Put("Zone2", 2))
	c.Generators = []model.GenData{{Name: "G1", ID: 1, AtBus: 2, CapU: 100}}
	c.PutGenCost("G1", model.GenCost{NoLoad: 5})
	c.PutFuelType("G1", "Gas")
	c.LSEDemandSource = model.DemandFromLoadCase
	f := model.Finisher{Defaults: stubDefaults{}}
	assert.NilError(t, f.Run(c))
	return c
}

type stubDefaults struct{}

func (stubDefaults) DefaultLearning() model.LearningParams {
	return model.LearningParams{M1: 1, M2: 1, M3: 1, RIMinC: 1}
}

func TestCaseCachePutGetLookup(t *testing.T) {
	cache := NewCaseCache(time.Hour)
	raw := []byte("BASE_S 100\n")
	res := &casefile.Result{Case: finishedCase(t), Warnings: []casefile.Warning{{Message: "w"}}}

	e := cache.Put(raw, "upload", res)
	_, err := uuid.Parse(e.ID)
	assert.NilError(t, err)
	assert.Equal(t, e.ContentHash, ContentHash(raw))
	assert.Equal(t, cache.Len(), 1)

	got, ok := cache.Get(e.ID)
	assert.Assert(t, ok)
	assert.Equal(t, got.Case, res.Case)
	assert.Equal(t, len(got.Warnings), 1)

	got, ok = cache.Lookup(raw)
	assert.Assert(t, ok)
	assert.Equal(t, got.ID, e.ID)

	_, ok = cache.Lookup([]byte("BASE_S 200\n"))
	assert.Assert(t, !ok)
	_, ok = cache.Get("missing")
	assert.Assert(t, !ok)

	again := cache.Put(raw, "upload", res)
	assert.Assert(t, again.ID != e.ID)
	assert.Equal(t, cache.Len(), 1)
	_, ok = cache.Get(e.ID)
	assert.Assert(t, !ok)

	cache.Clear()
	assert.Equal(t, cache.Len(), 0)
}

func TestCaseCacheExpiry(t *testing.T) {
	cache := NewCaseCache(time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	e := cache.Put([]byte("x"), "x", &casefile.Result{Case: finishedCase(t)})
	_, ok := cache.Get(e.ID)
	assert.Assert(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok = cache.Get(e.ID)
	assert.Assert(t, !ok)
	_, ok = cache.Lookup([]byte("x"))
	assert.Assert(t, !ok)

	assert.Equal(t, cache.Prune(), 1)
	assert.Equal(t, cache.Len(), 0)
}

func TestCaseCacheWithoutTTL(t *testing.T) {
	cache := NewCaseCache(0)
	e := cache.Put([]byte("x"), "x", &casefile.Result{Case: finishedCase(t)})
	assert.Assert(t, e.ExpiresAt.IsZero())
	assert.Equal(t, cache.Prune(), 0)
}

func TestRunCleanupStopsWithContext(t *testing.T) {
	cache := NewCaseCache(time.Nanosecond)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		cache.RunCleanup(ctx, time.Millisecond)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup did not stop")
	}
}

func TestCaseDocument(t *testing.T) {
	c := finishedCase(t)
	doc := NewCaseDocument(c)

	assert.DeepEqual(t, doc.Zones, []Zone{{Name: "Zone1", Index: 1}, {Name: "Zone2", Index: 2}})
	assert.Equal(t, len(doc.SCUC), 1)
	assert.Equal(t, doc.SCUC["G1"].PowerT0, 100.0)
	assert.Equal(t, doc.FuelTypes["G1"], "Gas")
	assert.Equal(t, doc.NumLSE, 2)
	assert.Equal(t, len(doc.LSESections), model.NumSections)
	assert.Equal(t, len(doc.PriceSensitive), 2)

	var buf bytes.Buffer
	assert.NilError(t, WriteCaseJSON(&buf, c))
	var decoded map[string]any
	assert.NilError(t, json.Unmarshal(buf.Bytes(), &decoded))
	sim := decoded["simulation"].(map[string]any)
	assert.Equal(t, sim["lse_demand_source"], "LoadCase")
	gens := decoded["generators"].([]any)
	assert.Equal(t, gens[0].(map[string]any)["at_bus"], 2.0)
}

func TestSaveAndLoadCaseJSON(t *testing.T) {
	c := finishedCase(t)
	path := filepath.Join(t.TempDir(), "case.json")
	assert.NilError(t, SaveCaseJSON(path, c))

	doc, err := LoadCaseJSON(path)
	assert.NilError(t, err)
	assert.DeepEqual(t, doc.Generators, c.Generators)
	assert.DeepEqual(t, doc.Learning, c.Learning)
	assert.Equal(t, doc.Simulation.RandomSeed, c.RandomSeed)
}

func TestGroupByZone(t *testing.T) {
	c := finishedCase(t)
	groups := GroupByZone(c)
	assert.Equal(t, len(groups), 1)
	assert.Equal(t, groups["Zone2"][0].Name, "G1")
	assert.Equal(t, len(GroupByZone(nil)), 0)
}
