package app

import (
	"errors"
	"testing"
	"time"

	"github.com/CrestNiraj12/ourjournal/domain"
)

func TestFeedState_Transitions(t *testing.T) {
	var s FeedState
	if s.Status() != FeedLoading {
		t.Fatalf("zero state must be loading, got %s", s.Status())
	}

	now := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)
	s = s.Loaded([]domain.Post{
		makePost("old", domain.AuthorMaeko, now.Add(-time.Hour)),
		makePost("new", domain.AuthorTaiRong, now),
	})
	if s.Status() != FeedReady {
		t.Fatalf("expected ready, got %s", s.Status())
	}
	if got := ids(s.Posts()); got[0] != "new" || got[1] != "old" {
		t.Fatalf("posts must be newest first, got %v", got)
	}

	s = s.Failed(errors.New("network down"))
	if s.Status() != FeedError {
		t.Fatalf("error must take precedence, got %s", s.Status())
	}
	if len(s.Posts()) != 2 {
		t.Fatalf("failed refresh must keep previous posts")
	}

	s = s.Loaded(nil)
	if s.Status() != FeedReady || s.Err() != nil {
		t.Fatalf("successful fetch must clear the error")
	}
}

func TestFeedState_FailedBeforeFirstLoad(t *testing.T) {
	s := FeedState{}.Failed(errors.New("boom"))
	if s.Status() != FeedError {
		t.Fatalf("expected error, got %s", s.Status())
	}
}

func TestFeedState_LastResultWins(t *testing.T) {
	now := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)
	first := []domain.Post{makePost("a", domain.AuthorMaeko, now)}
	second := []domain.Post{makePost("b", domain.AuthorMaeko, now)}

	s := FeedState{}.Loaded(second).Loaded(first)
	if _, ok := s.Find("a"); !ok {
		t.Fatalf("last applied result must win")
	}
	if _, ok := s.Find("b"); ok {
		t.Fatalf("earlier result must be replaced")
	}
}
