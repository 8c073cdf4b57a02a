package table

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
)

type MemorySuite struct {
	suite.Suite
	client *Memory
	ctx    context.Context
}

func TestMemorySuite(t *testing.T) {
	suite.Run(t, new(MemorySuite))
}

func (s *MemorySuite) SetupTest() {
	s.ctx = context.Background()
	s.client = NewMemory()
	s.client.Insert("bulletin_marks",
		Row{"id": 1, "issue_no": "310", "mark_name": "Kartal", "corporate_title": "Ferko Ltd"},
		Row{"id": 2, "issue_no": 312, "mark_name": "Ferko Gold", "corporate_title": "Anka AS"},
		Row{"id": 3, "issue_no": "99", "mark_name": "Deniz", "corporate_title": "Mavi Gıda"},
		Row{"id": 4, "issue_no": nil, "mark_name": "100%_pure", "corporate_title": "Saf Su"},
	)
}

func (s *MemorySuite) TestOrderingAndRange() {
	s.Run("orders numerically across text and integer values", func() {
		rows, err := s.client.Fetch(s.ctx, From("bulletin_marks").Select("id").Order("issue_no", Descending))
		s.Require().NoError(err)
		s.Require().Len(rows, 4)
		s.Equal([]any{2, 1, 3, 4}, ids(rows))
	})

	s.Run("range bounds are inclusive", func() {
		rows, err := s.client.Fetch(s.ctx, From("bulletin_marks").Order("id", Ascending).Range(1, 2))
		s.Require().NoError(err)
		s.Equal([]any{2, 3}, ids(rows))
	})

	s.Run("range past the end is empty", func() {
		rows, err := s.client.Fetch(s.ctx, From("bulletin_marks").Range(10, 19))
		s.Require().NoError(err)
		s.Empty(rows)
	})

	s.Run("short final page", func() {
		rows, err := s.client.Fetch(s.ctx, Page{Index: 1, Size: 3}.Apply(From("bulletin_marks")))
		s.Require().NoError(err)
		s.Len(rows, 1)
	})
}

func (s *MemorySuite) TestFilters() {
	s.Run("ilike or across columns is case-insensitive", func() {
		q := From("bulletin_marks").
			Select("id").
			Or(ILike("corporate_title", ContainsPattern("ferko")), ILike("mark_name", ContainsPattern("FERKO"))).
			Order("id", Ascending)
		rows, err := s.client.Fetch(s.ctx, q)
		s.Require().NoError(err)
		s.Equal([]any{1, 2}, ids(rows))
	})

	s.Run("escaped wildcards match literally", func() {
		rows, err := s.client.Fetch(s.ctx, From("bulletin_marks").ILike("mark_name", ContainsPattern("0%_p")))
		s.Require().NoError(err)
		s.Require().Len(rows, 1)
		s.Equal(4, rows[0]["id"])

		rows, err = s.client.Fetch(s.ctx, From("bulletin_marks").ILike("mark_name", ContainsPattern("0%x")))
		s.Require().NoError(err)
		s.Empty(rows)
	})

	s.Run("eq compares text and numbers by value", func() {
		rows, err := s.client.Fetch(s.ctx, From("bulletin_marks").Eq("issue_no", "312"))
		s.Require().NoError(err)
		s.Require().Len(rows, 1)
		s.Equal(2, rows[0]["id"])
	})

	s.Run("eq and or combine with and", func() {
		q := From("bulletin_marks").
			Eq("issue_no", 310).
			Or(ILike("corporate_title", ContainsPattern("ferko")), ILike("mark_name", ContainsPattern("ferko")))
		rows, err := s.client.Fetch(s.ctx, q)
		s.Require().NoError(err)
		s.Require().Len(rows, 1)
		s.Equal(1, rows[0]["id"])
	})
}

func (s *MemorySuite) TestProjectionDoesNotLeakStorage() {
	rows, err := s.client.Fetch(s.ctx, From("bulletin_marks").Eq("id", 1))
	s.Require().NoError(err)
	s.Require().Len(rows, 1)
	rows[0]["mark_name"] = "mutated"

	again, err := s.client.Fetch(s.ctx, From("bulletin_marks").Eq("id", 1))
	s.Require().NoError(err)
	s.Equal("Kartal", again[0]["mark_name"])
}

func (s *MemorySuite) TestErrors() {
	s.Run("invalid query", func() {
		_, err := s.client.Fetch(s.ctx, From("").Range(0, 9))
		s.Error(err)
		_, err = s.client.Fetch(s.ctx, From("bulletin_marks").Range(5, 4))
		s.Error(err)
		_, err = s.client.Fetch(s.ctx, From("bulletin_marks").Or())
		s.Error(err)
	})

	s.Run("cancelled context", func() {
		ctx, cancel := context.WithCancel(s.ctx)
		cancel()
		_, err := s.client.Fetch(ctx, From("bulletin_marks"))
		s.ErrorIs(err, context.Canceled)
	})
}

func TestQueryBuilderIsImmutable(t *testing.T) {
	base := From("firms").Eq("city", "Istanbul")
	a := base.Eq("id", 1)
	b := base.Eq("id", 2)
	if len(base.Filters) != 1 || len(a.Filters) != 2 || len(b.Filters) != 2 {
		t.Fatalf("unexpected filter counts: base=%d a=%d b=%d", len(base.Filters), len(a.Filters), len(b.Filters))
	}
	if a.Filters[1].Value != 1 || b.Filters[1].Value != 2 {
		t.Fatalf("derived queries share filter storage")
	}
}

func TestPageBounds(t *testing.T) {
	start, end := Page{Index: 2, Size: 1000}.Bounds()
	if start != 2000 || end != 2999 {
		t.Fatalf("expected [2000, 2999], got [%d, %d]", start, end)
	}
}

func ids(rows []Row) []any {
	out := make([]any, 0, len(rows))
	for _, r := range rows {
		out = append(out, r["id"])
	}
	return out
}
