package services

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/jehub/points-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// fakeUserRepo is an in-memory UserRepository honoring the same not-found and
// guard contracts as the MongoDB implementation.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User

	findByCodeErr         error
	createErr             error
	incrementReferralsErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*models.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	clone := *u
	return &clone, nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeUserRepo) FindByReferralCode(ctx context.Context, code string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findByCodeErr != nil {
		return nil, r.findByCodeErr
	}
	for _, u := range r.users {
		if u.ReferralCode == code {
			clone := *u
			return &clone, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeUserRepo) FindAll(ctx context.Context, page, limit int) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.sortedLocked()
	start := (page - 1) * limit
	if start >= len(all) {
		return nil, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], nil
}

func (r *fakeUserRepo) FindReferred(ctx context.Context) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var referred []*models.User
	for _, u := range r.sortedLocked() {
		if u.ReferredByCode != "" {
			referred = append(referred, u)
		}
	}
	return referred, nil
}

func (r *fakeUserRepo) TopReferrers(ctx context.Context, limit int) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.sortedLocked()
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].TotalReferrals != all[j].TotalReferrals {
			return all[i].TotalReferrals > all[j].TotalReferrals
		}
		return all[i].TotalPoints > all[j].TotalPoints
	})
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return mongo.ErrNoDocuments
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

func (r *fakeUserRepo) IncrementPoints(ctx context.Context, userID primitive.ObjectID, points int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	u.TotalPoints += points
	u.AvailablePoints += points
	return nil
}

func (r *fakeUserRepo) IncrementReferrals(ctx context.Context, userID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.incrementReferralsErr != nil {
		return r.incrementReferralsErr
	}
	u, ok := r.users[userID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	u.TotalReferrals++
	return nil
}

func (r *fakeUserRepo) SpendPoints(ctx context.Context, userID primitive.ObjectID, amount int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok || u.AvailablePoints < amount {
		return mongo.ErrNoDocuments
	}
	u.AvailablePoints -= amount
	u.PointsSpent += amount
	return nil
}

func (r *fakeUserRepo) IncrementNotesUploaded(ctx context.Context, userID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	u.NotesUploaded++
	return nil
}

func (r *fakeUserRepo) IncrementNotesDownloaded(ctx context.Context, userID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	u.NotesDownloaded++
	return nil
}

func (r *fakeUserRepo) SetTelegramVerified(ctx context.Context, userID primitive.ObjectID, verified bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	u.TelegramVerified = verified
	return nil
}

func (r *fakeUserRepo) sortedLocked() []*models.User {
	all := make([]*models.User, 0, len(r.users))
	for _, u := range r.users {
		clone := *u
		all = append(all, &clone)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID.Hex() < all[j].ID.Hex() })
	return all
}

// fakeLedgerRepo is an in-memory append-only LedgerRepository.
type fakeLedgerRepo struct {
	mu      sync.Mutex
	entries []*models.LedgerEntry

	createErr error
}

func newFakeLedgerRepo() *fakeLedgerRepo {
	return &fakeLedgerRepo{}
}

func (r *fakeLedgerRepo) Create(ctx context.Context, entry *models.LedgerEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	clone := *entry
	r.entries = append(r.entries, &clone)
	return nil
}

func (r *fakeLedgerRepo) FindByUserID(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]*models.LedgerEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*models.LedgerEntry
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].UserID == userID {
			clone := *r.entries[i]
			matched = append(matched, &clone)
		}
	}
	start := (page - 1) * limit
	if start >= len(matched) {
		return nil, nil
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], nil
}

func (r *fakeLedgerRepo) FindByUserIDAndType(ctx context.Context, userID primitive.ObjectID, entryType models.EntryType) ([]*models.LedgerEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*models.LedgerEntry
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].UserID == userID && r.entries[i].Type == entryType {
			clone := *r.entries[i]
			matched = append(matched, &clone)
		}
	}
	return matched, nil
}

func (r *fakeLedgerRepo) FindByEventKey(ctx context.Context, eventKey string) (*models.LedgerEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.EventKey != "" && e.EventKey == eventKey {
			clone := *e
			return &clone, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeLedgerRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.entries)), nil
}

// entriesFor returns all entries for one user, oldest first.
func (r *fakeLedgerRepo) entriesFor(userID primitive.ObjectID) []*models.LedgerEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*models.LedgerEntry
	for _, e := range r.entries {
		if e.UserID == userID {
			clone := *e
			matched = append(matched, &clone)
		}
	}
	return matched
}

var errStoreDown = errors.New("store unavailable")
