package leaderboard

import (
	"errors"
	"testing"
)

// =============================================================================
// SortOrder Tests
// =============================================================================

func TestSortOrder_String(t *testing.T) {
	tests := []struct {
		order SortOrder
		want  string
	}{
		{Ascending, "ascending"},
		{Descending, "descending"},
	}

	for _, tt := range tests {
		if got := tt.order.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

// =============================================================================
// Pagination Tests
// =============================================================================

func TestResult_HasNext(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{"with_token", "page2", true},
		{"no_token", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Result{ContinuationToken: tt.token}
			if got := r.HasNext(); got != tt.want {
				t.Errorf("HasNext() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResult_NextQuery(t *testing.T) {
	t.Run("last_page", func(t *testing.T) {
		r := &Result{Query: Query{StatName: "kills"}}
		if _, err := r.NextQuery(); !errors.Is(err, ErrNoNextResult) {
			t.Errorf("NextQuery() = %v, want ErrNoNextResult", err)
		}
	})

	t.Run("carries_query_and_token", func(t *testing.T) {
		r := &Result{
			Query: Query{
				StatName:         "kills",
				MaxItems:         10,
				SkipResultToMe:   true,
				SkipResultToRank: 50,
				Order:            Descending,
			},
			ContinuationToken: "page2",
		}

		next, err := r.NextQuery()
		if err != nil {
			t.Fatalf("NextQuery failed: %v", err)
		}
		if next.StatName != "kills" || next.MaxItems != 10 || next.Order != Descending {
			t.Errorf("next query = %+v, lost original parameters", next)
		}
		if next.ContinuationToken != "page2" {
			t.Errorf("ContinuationToken = %q, want page2", next.ContinuationToken)
		}
		if next.SkipResultToMe || next.SkipResultToRank != 0 {
			t.Error("skip parameters must reset on continuation pages")
		}
	})
}
