package domain

import (
	"testing"
)

func TestAverageScore(t *testing.T) {
	if _, ok := AverageScore(nil); ok {
		t.Fatalf("expected no average for empty ratings")
	}
	avg, ok := AverageScore([]Rating{{Score: 5}, {Score: 4}, {Score: 3}, {Score: 4}})
	if !ok || avg != 4 {
		t.Fatalf("average = %v (%v), want 4", avg, ok)
	}
}

func TestRankVets(t *testing.T) {
	ratings := []Rating{
		{VetID: "v3", Score: 4},
		{VetID: "v3", Score: 5},
		{VetID: "v1", Score: 5},
		{VetID: "v2", Score: 5},
		{VetID: "v2", Score: 4},
		{VetID: "v9", Score: 2},
	}

	got := RankVets([]string{"v5", "v1", "v2", "v3", "v4"}, ratings)

	wantOrder := []string{"v1", "v2", "v3", "v9", "v4", "v5"}
	if len(got) != len(wantOrder) {
		t.Fatalf("len = %d, want %d", len(got), len(wantOrder))
	}
	for i, id := range wantOrder {
		if got[i].VetID != id {
			t.Fatalf("rank[%d] = %s, want %s (full: %+v)", i, got[i].VetID, id, got)
		}
	}
	if got[1].Average != 4.5 || got[1].Count != 2 {
		t.Fatalf("v2 aggregate = %+v", got[1])
	}
	if got[4].Rated() || got[5].Rated() {
		t.Fatalf("unrated vets must sort last")
	}
}
