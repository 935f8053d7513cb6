package service

import (
	"fmt"
	"testing"

	"github.com/fathima-sithara/aichat-service/internal/domain"
)

func mkHistory(n int) []domain.Message {
	h := make([]domain.Message, 0, n)
	for i := 0; i < n; i++ {
		role := domain.RoleUser
		if i%2 == 1 {
			role = domain.RoleModel
		}
		h = append(h, domain.Message{Role: role, Parts: []domain.Part{{Text: fmt.Sprintf("m%d", i)}}})
	}
	return h
}

func TestPageHistory_InvalidArgs(t *testing.T) {
	h := mkHistory(3)
	if _, _, err := PageHistory(h, 0, 10); err != domain.ErrInvalidPage {
		t.Fatalf("page=0: expected ErrInvalidPage, got %v", err)
	}
	if _, _, err := PageHistory(h, 1, 0); err != domain.ErrInvalidPage {
		t.Fatalf("pageSize=0: expected ErrInvalidPage, got %v", err)
	}
}

func TestPageHistory_FirstPageIsNewest(t *testing.T) {
	h := mkHistory(5)
	page, pg, err := PageHistory(h, 1, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(page))
	}
	// newest two, still in chronological order
	if page[0].Parts[0].Text != "m3" || page[1].Parts[0].Text != "m4" {
		t.Fatalf("unexpected page contents: %v", page)
	}
	if pg.TotalPages != 3 || pg.TotalMessages != 5 {
		t.Fatalf("unexpected pagination: %+v", pg)
	}
	if !pg.HasMore || pg.HasPrevious {
		t.Fatalf("expected has_more=true has_previous=false, got %+v", pg)
	}
}

func TestPageHistory_LastPartialPage(t *testing.T) {
	h := mkHistory(5)
	page, pg, err := PageHistory(h, 3, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page) != 1 || page[0].Parts[0].Text != "m0" {
		t.Fatalf("expected oldest message only, got %v", page)
	}
	if pg.HasMore || !pg.HasPrevious {
		t.Fatalf("unexpected pagination: %+v", pg)
	}
}

func TestPageHistory_PageBeyondEnd(t *testing.T) {
	h := mkHistory(5)
	page, pg, err := PageHistory(h, 4, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page) != 0 {
		t.Fatalf("expected empty page, got %v", page)
	}
	if pg.HasMore {
		t.Fatalf("expected has_more=false beyond last page")
	}
}

func TestPageHistory_PageSizeLargerThanHistory(t *testing.T) {
	h := mkHistory(3)
	page, pg, err := PageHistory(h, 1, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page) != 3 {
		t.Fatalf("expected full history, got %d messages", len(page))
	}
	if pg.TotalPages != 1 || pg.HasMore || pg.HasPrevious {
		t.Fatalf("unexpected pagination: %+v", pg)
	}
}

func TestPageHistory_EmptyHistory(t *testing.T) {
	page, pg, err := PageHistory(nil, 1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page) != 0 || pg.TotalPages != 0 || pg.HasMore {
		t.Fatalf("unexpected result for empty history: %v %+v", page, pg)
	}
}

// Walking pages from the oldest (totalPages) to the newest (1) must
// reconstruct the history exactly, for any page size.
func TestPageHistory_RoundTrip(t *testing.T) {
	for _, total := range []int{1, 2, 5, 7, 10} {
		for pageSize := 1; pageSize <= total+1; pageSize++ {
			h := mkHistory(total)
			_, pg, err := PageHistory(h, 1, pageSize)
			if err != nil {
				t.Fatalf("total=%d size=%d: %v", total, pageSize, err)
			}
			var got []domain.Message
			for page := pg.TotalPages; page >= 1; page-- {
				slice, _, err := PageHistory(h, page, pageSize)
				if err != nil {
					t.Fatalf("total=%d size=%d page=%d: %v", total, pageSize, page, err)
				}
				got = append(got, slice...)
			}
			if len(got) != total {
				t.Fatalf("total=%d size=%d: reconstructed %d messages", total, pageSize, len(got))
			}
			for i := range got {
				if got[i].Parts[0].Text != h[i].Parts[0].Text {
					t.Fatalf("total=%d size=%d: order broken at %d", total, pageSize, i)
				}
			}
		}
	}
}

// Reads are pure: same arguments, same result.
func TestPageHistory_Repeatable(t *testing.T) {
	h := mkHistory(9)
	a, pa, _ := PageHistory(h, 2, 4)
	b, pb, _ := PageHistory(h, 2, 4)
	if len(a) != len(b) || pa != pb {
		t.Fatalf("repeated read differs: %v vs %v", pa, pb)
	}
	for i := range a {
		if a[i].Parts[0].Text != b[i].Parts[0].Text {
			t.Fatalf("repeated read differs at %d", i)
		}
	}
}
