package workflow_test

import (
	"context"
	"sort"
	"time"

	attendancestore "github.com/dalemusser/ukmhub/internal/app/store/attendance"
	"github.com/dalemusser/ukmhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// In-memory stores for exercising the workflow without a database. They
// mirror the Mongo stores' contract: missing documents surface as
// mongo.ErrNoDocuments.

type fakeUsers struct {
	users map[primitive.ObjectID]models.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: make(map[primitive.ObjectID]models.User)}
}

func (f *fakeUsers) add(u models.User) models.User {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	f.users[u.ID] = u
	return u
}

func (f *fakeUsers) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &u, nil
}

type fakeClubs struct {
	clubs map[primitive.ObjectID]models.Club
}

func newFakeClubs() *fakeClubs {
	return &fakeClubs{clubs: make(map[primitive.ObjectID]models.Club)}
}

func (f *fakeClubs) add(c models.Club) models.Club {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	if c.Status == "" {
		c.Status = models.ClubActive
	}
	f.clubs[c.ID] = c
	return c
}

func (f *fakeClubs) GetByID(_ context.Context, id primitive.ObjectID) (*models.Club, error) {
	c, ok := f.clubs[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &c, nil
}

func (f *fakeClubs) ListByOfficer(_ context.Context, role string, userID primitive.ObjectID) ([]models.Club, error) {
	match := func(c models.Club) *primitive.ObjectID {
		switch role {
		case models.RoleChair:
			return c.ChairID
		case models.RoleSecretary:
			return c.SecretaryID
		case models.RoleSupervisor:
			return c.SupervisorID
		}
		return nil
	}
	var out []models.Club
	for _, c := range f.clubs {
		if ref := match(c); ref != nil && *ref == userID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID.Hex() < out[j].ID.Hex()
	})
	return out, nil
}

func (f *fakeClubs) IncMemberCount(_ context.Context, id primitive.ObjectID, delta int64) error {
	c, ok := f.clubs[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	c.MemberCount += delta
	f.clubs[id] = c
	return nil
}

func (f *fakeClubs) SetMemberCount(_ context.Context, id primitive.ObjectID, count int64) error {
	c, ok := f.clubs[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	c.MemberCount = count
	f.clubs[id] = c
	return nil
}

type fakeMemberships struct {
	memberships map[primitive.ObjectID]models.Membership
}

func newFakeMemberships() *fakeMemberships {
	return &fakeMemberships{memberships: make(map[primitive.ObjectID]models.Membership)}
}

func (f *fakeMemberships) Insert(_ context.Context, m models.Membership) (models.Membership, error) {
	m.ID = primitive.NewObjectID()
	if m.AppliedAt.IsZero() {
		m.AppliedAt = time.Now()
	}
	f.memberships[m.ID] = m
	return m, nil
}

func (f *fakeMemberships) GetByID(_ context.Context, id primitive.ObjectID) (*models.Membership, error) {
	m, ok := f.memberships[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &m, nil
}

func (f *fakeMemberships) Transition(_ context.Context, clubID, id primitive.ObjectID, fromStatus, toStatus string, verifiedAt *time.Time) (*models.Membership, error) {
	m, ok := f.memberships[id]
	if !ok || m.ClubID != clubID || m.Status != fromStatus {
		return nil, mongo.ErrNoDocuments
	}
	m.Status = toStatus
	if verifiedAt != nil {
		m.VerifiedAt = verifiedAt
	}
	f.memberships[id] = m
	return &m, nil
}

func (f *fakeMemberships) ListByClub(_ context.Context, clubID primitive.ObjectID, status string) ([]models.Membership, error) {
	var out []models.Membership
	for _, m := range f.memberships {
		if m.ClubID == clubID && (status == "" || m.Status == status) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].AppliedAt.After(out[j].AppliedAt)
	})
	return out, nil
}

func (f *fakeMemberships) ListByUser(_ context.Context, userID primitive.ObjectID, status string) ([]models.Membership, error) {
	var out []models.Membership
	for _, m := range f.memberships {
		if m.UserID == userID && (status == "" || m.Status == status) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].AppliedAt.After(out[j].AppliedAt)
	})
	return out, nil
}

func (f *fakeMemberships) CountByClub(_ context.Context, clubID primitive.ObjectID, status string) (int64, error) {
	var n int64
	for _, m := range f.memberships {
		if m.ClubID == clubID && m.Status == status {
			n++
		}
	}
	return n, nil
}

type fakeAttendance struct {
	records map[primitive.ObjectID]models.AttendanceRecord
}

func newFakeAttendance() *fakeAttendance {
	return &fakeAttendance{records: make(map[primitive.ObjectID]models.AttendanceRecord)}
}

func (f *fakeAttendance) ExistsForDay(_ context.Context, userID, clubID primitive.ObjectID, date string) (bool, error) {
	for _, rec := range f.records {
		if rec.UserID == userID && rec.ClubID == clubID && rec.Date == date {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAttendance) Insert(_ context.Context, rec models.AttendanceRecord) (models.AttendanceRecord, error) {
	for _, existing := range f.records {
		if existing.UserID == rec.UserID && existing.ClubID == rec.ClubID && existing.Date == rec.Date {
			return models.AttendanceRecord{}, attendancestore.ErrDuplicateDay
		}
	}
	rec.ID = primitive.NewObjectID()
	if rec.SubmittedAt.IsZero() {
		rec.SubmittedAt = time.Now()
	}
	f.records[rec.ID] = rec
	return rec, nil
}

func (f *fakeAttendance) ListByUser(_ context.Context, userID primitive.ObjectID, limit int64) ([]models.AttendanceRecord, error) {
	var out []models.AttendanceRecord
	for _, rec := range f.records {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date > out[j].Date
	})
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}
