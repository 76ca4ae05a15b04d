package repository

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestBuildMatchListQuery_OrdersByScoreThenRecency(t *testing.T) {
	query, args := buildMatchListQuery(MatchListFilter{})

	if !strings.Contains(query, "ORDER BY m.match_score DESC, m.created_at DESC") {
		t.Fatalf("missing created_at tiebreak in:\n%s", query)
	}
	if len(args) != 1 || args[0] != 200 {
		t.Fatalf("default limit args = %v, want [200]", args)
	}
}

func TestBuildMatchListQuery_NumbersPlaceholdersPerFilter(t *testing.T) {
	cid := uuid.New()
	query, args := buildMatchListQuery(MatchListFilter{
		Status:     "new",
		MinScore:   60,
		CriteriaID: cid,
		Limit:      25,
	})

	for _, want := range []string{
		"m.status = $2",
		"m.match_score >= $3",
		"m.criteria_id = $4",
		"LIMIT $1",
	} {
		if !strings.Contains(query, want) {
			t.Fatalf("query missing %q:\n%s", want, query)
		}
	}
	if len(args) != 4 {
		t.Fatalf("args = %v, want 4 values", args)
	}
	if args[0] != 25 || args[1] != "new" || args[2] != 60 || args[3] != cid {
		t.Fatalf("args out of order: %v", args)
	}
}
