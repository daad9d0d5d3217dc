package app

import (
	"context"
	"errors"
	"testing"

	"github.com/CrestNiraj12/ourjournal/domain"
)

type memoryProfiles struct {
	rows    map[string]domain.Profile
	lookErr error
	writes  int
}

func (m *memoryProfiles) ProfileByID(_ context.Context, _ domain.Session, id string) (domain.Profile, error) {
	if m.lookErr != nil {
		return domain.Profile{}, m.lookErr
	}
	p, ok := m.rows[id]
	if !ok {
		return domain.Profile{}, domain.ErrNotFound
	}
	return p, nil
}

func (m *memoryProfiles) UpsertProfile(_ context.Context, p domain.Profile) error {
	m.writes++
	m.rows[p.ID] = p
	return nil
}

func signedIn(name domain.Author) domain.Session {
	return domain.Session{User: domain.User{ID: "user-1", DisplayName: name}, AccessToken: "a"}
}

func TestRecordProfile_CreatesMissingRow(t *testing.T) {
	profiles := &memoryProfiles{rows: map[string]domain.Profile{}}

	if err := RecordProfile(context.Background(), profiles, signedIn(domain.AuthorMaeko)); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if got := profiles.rows["user-1"].DisplayName; got != domain.AuthorMaeko {
		t.Fatalf("expected Maeko row, got %q", got)
	}
}

func TestRecordProfile_KeepsExistingRow(t *testing.T) {
	profiles := &memoryProfiles{rows: map[string]domain.Profile{
		"user-1": {ID: "user-1", DisplayName: domain.AuthorTaiRong},
	}}

	if err := RecordProfile(context.Background(), profiles, signedIn(domain.AuthorMaeko)); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if profiles.writes != 0 || profiles.rows["user-1"].DisplayName != domain.AuthorTaiRong {
		t.Fatalf("existing profile must not be rewritten: %#v", profiles.rows)
	}
}

func TestRecordProfile_SkipsUnknownMetadata(t *testing.T) {
	profiles := &memoryProfiles{rows: map[string]domain.Profile{}}

	if err := RecordProfile(context.Background(), profiles, signedIn("")); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if profiles.writes != 0 {
		t.Fatalf("no row expected without a display name")
	}
}

func TestRecordProfile_ReadOnlyStoreIsNoop(t *testing.T) {
	if err := RecordProfile(context.Background(), stubProfiles{err: errors.New("boom")}, signedIn(domain.AuthorMaeko)); err != nil {
		t.Fatalf("read-only profiles must be skipped, got %v", err)
	}
	if err := RecordProfile(context.Background(), nil, signedIn(domain.AuthorMaeko)); err != nil {
		t.Fatalf("nil profiles must be skipped, got %v", err)
	}
}

func TestRecordProfile_LookupFailure(t *testing.T) {
	profiles := &memoryProfiles{rows: map[string]domain.Profile{}, lookErr: errors.New("connection refused")}

	err := RecordProfile(context.Background(), profiles, signedIn(domain.AuthorMaeko))
	if err == nil || profiles.writes != 0 {
		t.Fatalf("lookup failure must be returned without writing, got %v", err)
	}
}
