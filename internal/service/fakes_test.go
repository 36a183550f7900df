package service_test

import (
	"context"
	"fmt"
	"sort"
	"time"

	"distance-tracker/internal/domain"
)

// In-memory stand-ins for the sqlite repositories and the bucket client.

type fakePersonStore struct {
	people map[string]*domain.Person
	hashes map[string]string
}

func newFakePersonStore() *fakePersonStore {
	return &fakePersonStore{
		people: make(map[string]*domain.Person),
		hashes: make(map[string]string),
	}
}

func (f *fakePersonStore) Create(_ context.Context, person *domain.Person, hash string) error {
	for _, p := range f.people {
		if p.Email == person.Email {
			return fmt.Errorf("unique constraint: %s", person.Email)
		}
	}
	clone := *person
	f.people[person.ID] = &clone
	f.hashes[person.ID] = hash
	return nil
}

func (f *fakePersonStore) Get(_ context.Context, id string) (*domain.Person, error) {
	p, ok := f.people[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *p
	return &clone, nil
}

func (f *fakePersonStore) GetByEmail(_ context.Context, email string) (*domain.Person, string, error) {
	for id, p := range f.people {
		if p.Email == email {
			clone := *p
			return &clone, f.hashes[id], nil
		}
	}
	return nil, "", domain.ErrNotFound
}

func (f *fakePersonStore) List(_ context.Context) ([]domain.Person, error) {
	out := make([]domain.Person, 0, len(f.people))
	for _, p := range f.people {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakePersonStore) AssignTeams(_ context.Context, blueIDs, redIDs []string) error {
	for _, ids := range [][]string{blueIDs, redIDs} {
		for _, id := range ids {
			if _, ok := f.people[id]; !ok {
				return domain.ErrNotFound
			}
		}
	}
	for _, p := range f.people {
		p.Team = nil
	}
	blue, red := domain.TeamBlue, domain.TeamRed
	for _, id := range blueIDs {
		f.people[id].Team = &blue
	}
	for _, id := range redIDs {
		f.people[id].Team = &red
	}
	return nil
}

func (f *fakePersonStore) SetTeam(_ context.Context, id string, team *int) error {
	p, ok := f.people[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Team = team
	return nil
}

func (f *fakePersonStore) SetName(_ context.Context, id, name string) error {
	p, ok := f.people[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Name = name
	return nil
}

func (f *fakePersonStore) IsAdmin(_ context.Context, id string) (bool, error) {
	p, ok := f.people[id]
	if !ok {
		return false, nil
	}
	return p.IsAdmin, nil
}

type fakeLedgerStore struct {
	people  *fakePersonStore
	entries []*domain.LedgerEntry
	nextID  int

	failSetProof   bool
	failClearProof bool
	failDelete     bool

	now time.Time
}

func newFakeLedgerStore(people *fakePersonStore) *fakeLedgerStore {
	return &fakeLedgerStore{people: people, now: time.Now()}
}

func (f *fakeLedgerStore) InsertStamped(_ context.Context, personID string, km float64) (*domain.LedgerEntry, error) {
	p, ok := f.people.people[personID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if p.Team == nil {
		return nil, domain.ErrNoTeamAssigned
	}
	f.nextID++
	f.now = f.now.Add(time.Millisecond)
	entry := &domain.LedgerEntry{
		ID:        fmt.Sprintf("e%d", f.nextID),
		Person:    personID,
		Km:        km,
		Team:      *p.Team,
		CreatedAt: f.now,
	}
	f.entries = append(f.entries, entry)
	return cloneEntry(entry), nil
}

func (f *fakeLedgerStore) GetOwned(_ context.Context, entryID, ownerID string) (*domain.LedgerEntry, error) {
	for _, e := range f.entries {
		if e.ID == entryID && e.Person == ownerID {
			return cloneEntry(e), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeLedgerStore) Latest(_ context.Context, personID string) (*domain.LedgerEntry, error) {
	var latest *domain.LedgerEntry
	for _, e := range f.entries {
		if e.Person != personID {
			continue
		}
		if latest == nil || e.CreatedAt.After(latest.CreatedAt) {
			latest = e
		}
	}
	if latest == nil {
		return nil, domain.ErrNotFound
	}
	return cloneEntry(latest), nil
}

func (f *fakeLedgerStore) Delete(_ context.Context, entryID, ownerID string) error {
	if f.failDelete {
		return domain.ErrRemoteFailure
	}
	for i, e := range f.entries {
		if e.ID == entryID && e.Person == ownerID {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeLedgerStore) SetProof(_ context.Context, entryID, path, url string) error {
	if f.failSetProof {
		return domain.ErrRemoteFailure
	}
	for _, e := range f.entries {
		if e.ID == entryID {
			if e.HasProof() {
				return domain.ErrAlreadyHasProof
			}
			e.ProofPath = path
			e.ProofURL = url
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeLedgerStore) ClearProof(_ context.Context, entryID string) error {
	if f.failClearProof {
		return domain.ErrRemoteFailure
	}
	for _, e := range f.entries {
		if e.ID == entryID {
			e.ProofPath = ""
			e.ProofURL = ""
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeLedgerStore) History(_ context.Context, personID string, limit int) ([]domain.LedgerEntry, error) {
	var out []domain.LedgerEntry
	for _, e := range f.entries {
		if e.Person == personID && e.Km != 0 {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeLedgerStore) Gallery(_ context.Context, personID string) ([]domain.LedgerEntry, error) {
	var out []domain.LedgerEntry
	for _, e := range f.entries {
		if e.Person == personID && e.HasProof() {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeLedgerStore) MemberTotals(_ context.Context, team int) ([]domain.MemberTotal, error) {
	byPerson := make(map[string]float64)
	for _, e := range f.entries {
		if e.Team == team {
			byPerson[e.Person] += e.Km
		}
	}
	var out []domain.MemberTotal
	for person, total := range byPerson {
		name := ""
		if p, ok := f.people.people[person]; ok {
			name = p.Name
		}
		out = append(out, domain.MemberTotal{Person: person, Name: name, Team: team, Total: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Person < out[j].Person })
	return out, nil
}

func (f *fakeLedgerStore) TeamTotal(_ context.Context, team int) (float64, error) {
	var total float64
	for _, e := range f.entries {
		if e.Team == team {
			total += e.Km
		}
	}
	return total, nil
}

func (f *fakeLedgerStore) PersonTotal(_ context.Context, personID string) (float64, error) {
	var total float64
	for _, e := range f.entries {
		if e.Person == personID {
			total += e.Km
		}
	}
	return total, nil
}

func (f *fakeLedgerStore) ActiveDays(_ context.Context, personID string) ([]time.Time, error) {
	var out []time.Time
	for _, e := range f.entries {
		if e.Person == personID && e.Km != 0 {
			out = append(out, e.CreatedAt)
		}
	}
	return out, nil
}

func (f *fakeLedgerStore) ProofPaths(_ context.Context) (map[string]struct{}, error) {
	paths := make(map[string]struct{})
	for _, e := range f.entries {
		if e.ProofPath != "" {
			paths[e.ProofPath] = struct{}{}
		}
	}
	return paths, nil
}

func cloneEntry(e *domain.LedgerEntry) *domain.LedgerEntry {
	clone := *e
	return &clone
}

type fakeObjectStore struct {
	objects map[string][]byte
	puts    int
	deletes int

	failPut    bool
	failDelete bool
	failList   bool
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: make(map[string][]byte)}
}

func (f *fakeObjectStore) Put(_ context.Context, path string, data []byte, _ string) (string, error) {
	f.puts++
	if f.failPut {
		return "", domain.ErrRemoteFailure
	}
	f.objects[path] = data
	return "https://cdn.example/" + path, nil
}

func (f *fakeObjectStore) Delete(_ context.Context, path string) error {
	f.deletes++
	if f.failDelete {
		return domain.ErrRemoteFailure
	}
	if _, ok := f.objects[path]; !ok {
		return domain.ErrNotFound
	}
	delete(f.objects, path)
	return nil
}

func (f *fakeObjectStore) List(_ context.Context, prefix string) ([]string, error) {
	if f.failList {
		return nil, domain.ErrRemoteFailure
	}
	var out []string
	for path := range f.objects {
		if len(path) >= len(prefix) && path[:len(prefix)] == prefix {
			out = append(out, path)
		}
	}
	sort.Strings(out)
	return out, nil
}

type passthroughNormalizer struct{}

func (passthroughNormalizer) Normalize(data []byte) ([]byte, error) { return data, nil }
