package agendastatus_test

import (
	"testing"
	"time"

	"github.com/dalemusser/ukmhub/internal/app/system/agendastatus"
	"github.com/dalemusser/ukmhub/internal/domain/models"
)

func TestClassify_Yesterday(t *testing.T) {
	now := time.Now()
	yesterday := now.AddDate(0, 0, -1)

	if got := agendastatus.Classify(yesterday, now); got != models.AgendaCompleted {
		t.Errorf("Classify(yesterday) = %q, want %q", got, models.AgendaCompleted)
	}
}

func TestClassify_Tomorrow(t *testing.T) {
	now := time.Now()
	tomorrow := now.AddDate(0, 0, 1)

	if got := agendastatus.Classify(tomorrow, now); got != models.AgendaUpcoming {
		t.Errorf("Classify(tomorrow) = %q, want %q", got, models.AgendaUpcoming)
	}
}

func TestClassify_TodayMidnightIsUpcoming(t *testing.T) {
	// The boundary is start-of-day inclusive: an item dated today at 00:00
	// has not completed yet.
	now := time.Date(2025, 3, 14, 15, 30, 0, 0, time.Local)
	midnight := time.Date(2025, 3, 14, 0, 0, 0, 0, time.Local)

	if got := agendastatus.Classify(midnight, now); got != models.AgendaUpcoming {
		t.Errorf("Classify(today 00:00) = %q, want %q", got, models.AgendaUpcoming)
	}
}

func TestClassify_JustBeforeMidnightCompleted(t *testing.T) {
	now := time.Date(2025, 3, 14, 0, 0, 1, 0, time.Local)
	lateYesterday := time.Date(2025, 3, 13, 23, 59, 59, 0, time.Local)

	if got := agendastatus.Classify(lateYesterday, now); got != models.AgendaCompleted {
		t.Errorf("Classify(yesterday 23:59) = %q, want %q", got, models.AgendaCompleted)
	}
}

func TestClassify_RespectsLocation(t *testing.T) {
	jakarta, err := time.LoadLocation("Asia/Jakarta")
	if err != nil {
		t.Skipf("tz database unavailable: %v", err)
	}
	// 01:00 in Jakarta on the 14th; the item is dated the 13th in UTC,
	// which is still the 13th in Jakarta, so it has completed.
	now := time.Date(2025, 3, 14, 1, 0, 0, 0, jakarta)
	item := time.Date(2025, 3, 13, 10, 0, 0, 0, time.UTC)

	if got := agendastatus.Classify(item, now); got != models.AgendaCompleted {
		t.Errorf("Classify = %q, want %q", got, models.AgendaCompleted)
	}
}

func TestClassifyAll(t *testing.T) {
	now := time.Now()
	dates := []time.Time{now.AddDate(0, 0, -2), now.AddDate(0, 0, 2)}

	got := agendastatus.ClassifyAll(dates, now)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0] != models.AgendaCompleted || got[1] != models.AgendaUpcoming {
		t.Errorf("ClassifyAll = %v", got)
	}
}
