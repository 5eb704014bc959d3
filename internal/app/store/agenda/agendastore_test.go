package agendastore_test

import (
	"errors"
	"testing"
	"time"

	agendastore "github.com/dalemusser/ukmhub/internal/app/store/agenda"
	"github.com/dalemusser/ukmhub/internal/domain/models"
	"github.com/dalemusser/ukmhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_Insert_Validates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := agendastore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	clubID := primitive.NewObjectID()

	if _, err := store.Insert(ctx, models.AgendaItem{ClubID: clubID, Title: "  ", Date: time.Now()}); err == nil {
		t.Error("expected error for empty title")
	}
	if _, err := store.Insert(ctx, models.AgendaItem{ClubID: clubID, Title: "Meeting"}); err == nil {
		t.Error("expected error for zero date")
	}

	item, err := store.Insert(ctx, models.AgendaItem{ClubID: clubID, Title: "Weekly  Meeting", Date: time.Now()})
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if item.Title != "Weekly Meeting" {
		t.Errorf("title = %q, want collapsed whitespace", item.Title)
	}
	if item.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be stamped")
	}
}

func TestStore_ListByClub_SortedByDate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := agendastore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	clubID := primitive.NewObjectID()
	later := time.Now().Add(48 * time.Hour)
	sooner := time.Now().Add(24 * time.Hour)

	if _, err := store.Insert(ctx, models.AgendaItem{ClubID: clubID, Title: "Later", Date: later}); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if _, err := store.Insert(ctx, models.AgendaItem{ClubID: clubID, Title: "Sooner", Date: sooner}); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	items, err := store.ListByClub(ctx, clubID)
	if err != nil {
		t.Fatalf("ListByClub failed: %v", err)
	}
	if len(items) != 2 || items[0].Title != "Sooner" {
		t.Errorf("items = %+v, want Sooner first", items)
	}
}

func TestStore_UpdateAndDelete_ScopedToClub(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := agendastore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	clubID := primitive.NewObjectID()
	item, err := store.Insert(ctx, models.AgendaItem{ClubID: clubID, Title: "Original", Date: time.Now()})
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	otherClub := primitive.NewObjectID()
	err = store.Update(ctx, otherClub, item.ID, "Hijacked", "", time.Now(), "")
	if !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("expected mongo.ErrNoDocuments for wrong club, got %v", err)
	}

	if err := store.Update(ctx, clubID, item.ID, "Renamed", "desc", time.Now(), "Hall B"); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	got, err := store.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Title != "Renamed" || got.Location != "Hall B" {
		t.Errorf("got %+v after update", got)
	}

	n, err := store.Delete(ctx, otherClub, item.ID)
	if err != nil || n != 0 {
		t.Errorf("Delete wrong club = (%d, %v), want (0, nil)", n, err)
	}
	n, err = store.Delete(ctx, clubID, item.ID)
	if err != nil || n != 1 {
		t.Errorf("Delete = (%d, %v), want (1, nil)", n, err)
	}
}
