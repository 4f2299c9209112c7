package database

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/awarehq/aware-api/internal/models"
)

// MemoryStore holds all in-memory state behind the store interfaces. It backs
// unit tests and local development without Postgres. Ids come from counters
// that are never reset, so deleted ids are not reused.
type MemoryStore struct {
	mu sync.RWMutex

	users           map[int64]*models.User
	goals           map[int64]*models.Goal
	usage           []*models.AppUsage
	privacy         map[int64][]*models.PrivacyData
	recommendations map[int64]*models.Recommendation
	adPredictions   []*models.AdPrediction

	nextUserID  int64
	nextGoalID  int64
	nextUsageID int64
	nextPrivID  int64
	nextRecID   int64
	nextPredID  int64
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:           make(map[int64]*models.User),
		goals:           make(map[int64]*models.Goal),
		privacy:         make(map[int64][]*models.PrivacyData),
		recommendations: make(map[int64]*models.Recommendation),
	}
}

// NewMemoryRepositories wires every store to one shared MemoryStore.
func NewMemoryRepositories() *Repositories {
	m := NewMemoryStore()
	return &Repositories{
		Users:           m.Users(),
		Goals:           m.Goals(),
		Usage:           m.Usage(),
		Privacy:         m.Privacy(),
		Recommendations: m.Recommendations(),
		AdPredictions:   m.AdPredictions(),
	}
}

// Users returns the user store view.
func (m *MemoryStore) Users() UserStore { return memoryUsers{m} }

// Goals returns the goal store view.
func (m *MemoryStore) Goals() GoalStore { return memoryGoals{m} }

// Usage returns the usage store view.
func (m *MemoryStore) Usage() UsageStore { return memoryUsage{m} }

// Privacy returns the privacy store view.
func (m *MemoryStore) Privacy() PrivacyStore { return memoryPrivacy{m} }

// Recommendations returns the recommendation store view.
func (m *MemoryStore) Recommendations() RecommendationStore { return memoryRecommendations{m} }

// AdPredictions returns the ad prediction store view.
func (m *MemoryStore) AdPredictions() AdPredictionStore { return memoryAdPredictions{m} }

type memoryUsers struct{ m *MemoryStore }
type memoryGoals struct{ m *MemoryStore }
type memoryUsage struct{ m *MemoryStore }
type memoryPrivacy struct{ m *MemoryStore }
type memoryRecommendations struct{ m *MemoryStore }
type memoryAdPredictions struct{ m *MemoryStore }

var (
	_ UserStore           = memoryUsers{}
	_ GoalStore           = memoryGoals{}
	_ UsageStore          = memoryUsage{}
	_ PrivacyStore        = memoryPrivacy{}
	_ RecommendationStore = memoryRecommendations{}
	_ AdPredictionStore   = memoryAdPredictions{}
)

func copyGoal(g *models.Goal) *models.Goal {
	out := *g
	if g.CurrentValue != nil {
		v := *g.CurrentValue
		out.CurrentValue = &v
	}
	if g.DueDate != nil {
		d := *g.DueDate
		out.DueDate = &d
	}
	return &out
}

func copyUser(u *models.User) *models.User {
	out := *u
	if u.LastSyncDate != nil {
		t := *u.LastSyncDate
		out.LastSyncDate = &t
	}
	return &out
}

func (s memoryUsers) Create(_ context.Context, user *models.User) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	for _, existing := range s.m.users {
		if existing.Username == user.Username {
			return fmt.Errorf("username %q already taken", user.Username)
		}
	}

	s.m.nextUserID++
	user.ID = s.m.nextUserID
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	s.m.users[user.ID] = copyUser(user)
	return nil
}

func (s memoryUsers) GetByID(_ context.Context, id int64) (*models.User, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	user, ok := s.m.users[id]
	if !ok {
		return nil, fmt.Errorf("user: %w", ErrNotFound)
	}
	return copyUser(user), nil
}

func (s memoryUsers) GetByUsername(_ context.Context, username string) (*models.User, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	for _, user := range s.m.users {
		if user.Username == username {
			return copyUser(user), nil
		}
	}
	return nil, fmt.Errorf("user: %w", ErrNotFound)
}

func (s memoryUsers) List(_ context.Context) ([]*models.User, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	users := make([]*models.User, 0, len(s.m.users))
	for _, user := range s.m.users {
		users = append(users, copyUser(user))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (s memoryUsers) UpdateLastSyncDate(_ context.Context, userID int64, syncedAt time.Time) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	user, ok := s.m.users[userID]
	if !ok {
		return fmt.Errorf("user: %w", ErrNotFound)
	}
	t := syncedAt
	user.LastSyncDate = &t
	user.UpdatedAt = time.Now()
	return nil
}

func (s memoryGoals) Insert(_ context.Context, goal *models.Goal) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	s.m.nextGoalID++
	goal.ID = s.m.nextGoalID
	now := time.Now()
	goal.CreatedAt = now
	goal.UpdatedAt = now
	s.m.goals[goal.ID] = copyGoal(goal)
	return nil
}

func (s memoryGoals) SelectByID(_ context.Context, userID, id int64) (*models.Goal, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	goal, ok := s.m.goals[id]
	if !ok || goal.UserID != userID {
		return nil, fmt.Errorf("goal %d: %w", id, ErrNotFound)
	}
	return copyGoal(goal), nil
}

func (s memoryGoals) SelectByUserID(_ context.Context, userID int64) ([]*models.Goal, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	var goals []*models.Goal
	for _, goal := range s.m.goals {
		if goal.UserID == userID {
			goals = append(goals, copyGoal(goal))
		}
	}
	sort.Slice(goals, func(i, j int) bool { return goals[i].ID < goals[j].ID })
	return goals, nil
}

func (s memoryGoals) Update(_ context.Context, goal *models.Goal) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	existing, ok := s.m.goals[goal.ID]
	if !ok || existing.UserID != goal.UserID {
		return fmt.Errorf("goal %d: %w", goal.ID, ErrNotFound)
	}
	goal.CreatedAt = existing.CreatedAt
	goal.UpdatedAt = time.Now()
	s.m.goals[goal.ID] = copyGoal(goal)
	return nil
}

// Delete removes the goal. The id counter is untouched so the id is retired.
func (s memoryGoals) Delete(_ context.Context, userID, id int64) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	goal, ok := s.m.goals[id]
	if !ok || goal.UserID != userID {
		return fmt.Errorf("goal %d: %w", id, ErrNotFound)
	}
	delete(s.m.goals, id)
	return nil
}

func (s memoryGoals) CountByStatus(_ context.Context, userID int64, status models.GoalStatus) (int, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	count := 0
	for _, goal := range s.m.goals {
		if goal.UserID == userID && goal.Status == status {
			count++
		}
	}
	return count, nil
}

func dayBounds(day time.Time) (time.Time, time.Time) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return start, start.Add(24 * time.Hour)
}

func (s memoryUsage) Insert(_ context.Context, usage *models.AppUsage) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	s.m.nextUsageID++
	usage.ID = s.m.nextUsageID
	cp := *usage
	s.m.usage = append(s.m.usage, &cp)
	return nil
}

func (s memoryUsage) SelectByUserSince(_ context.Context, userID int64, since time.Time) ([]*models.AppUsage, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	var out []*models.AppUsage
	for _, u := range s.m.usage {
		if u.UserID == userID && !u.Date.Before(since) {
			cp := *u
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s memoryUsage) TotalMinutesOn(_ context.Context, userID int64, day time.Time) (int, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	start, end := dayBounds(day)
	total := 0
	for _, u := range s.m.usage {
		if u.UserID == userID && !u.Date.Before(start) && u.Date.Before(end) {
			total += u.TimeSpent
		}
	}
	return total, nil
}

func (s memoryUsage) TotalOpensOn(_ context.Context, userID int64, day time.Time) (int, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	start, end := dayBounds(day)
	total := 0
	for _, u := range s.m.usage {
		if u.UserID == userID && !u.Date.Before(start) && u.Date.Before(end) {
			total += u.OpenCount
		}
	}
	return total, nil
}

func (s memoryUsage) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	kept := s.m.usage[:0]
	var removed int64
	for _, u := range s.m.usage {
		if u.Date.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, u)
	}
	s.m.usage = kept
	return removed, nil
}

func (s memoryPrivacy) Upsert(_ context.Context, data *models.PrivacyData) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	records := s.m.privacy[data.UserID]
	for _, existing := range records {
		if existing.AppName == data.AppName {
			existing.RiskLevel = data.RiskLevel
			existing.Permissions = append([]string(nil), data.Permissions...)
			data.ID = existing.ID
			return nil
		}
	}

	s.m.nextPrivID++
	data.ID = s.m.nextPrivID
	cp := *data
	cp.Permissions = append([]string(nil), data.Permissions...)
	s.m.privacy[data.UserID] = append(records, &cp)
	return nil
}

func (s memoryPrivacy) SelectByUserID(_ context.Context, userID int64) ([]*models.PrivacyData, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	var out []*models.PrivacyData
	for _, data := range s.m.privacy[userID] {
		cp := *data
		cp.Permissions = append([]string(nil), data.Permissions...)
		out = append(out, &cp)
	}
	return out, nil
}

func (s memoryRecommendations) Insert(_ context.Context, rec *models.Recommendation) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	s.m.nextRecID++
	rec.ID = s.m.nextRecID
	rec.CreatedAt = time.Now()
	cp := *rec
	s.m.recommendations[rec.ID] = &cp
	return nil
}

func (s memoryRecommendations) SelectByUserID(_ context.Context, userID int64) ([]*models.Recommendation, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	var out []*models.Recommendation
	for _, rec := range s.m.recommendations {
		if rec.UserID == userID {
			cp := *rec
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s memoryRecommendations) UpdateStatus(_ context.Context, userID, id int64, status models.RecommendationStatus) (*models.Recommendation, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	rec, ok := s.m.recommendations[id]
	if !ok || rec.UserID != userID {
		return nil, fmt.Errorf("recommendation %d: %w", id, ErrNotFound)
	}
	rec.Status = status
	cp := *rec
	return &cp, nil
}

func (s memoryAdPredictions) Insert(_ context.Context, pred *models.AdPrediction) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	s.m.nextPredID++
	pred.ID = s.m.nextPredID
	cp := *pred
	s.m.adPredictions = append(s.m.adPredictions, &cp)
	return nil
}

func (s memoryAdPredictions) SelectByUserID(_ context.Context, userID int64) ([]*models.AdPrediction, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	var out []*models.AdPrediction
	for _, pred := range s.m.adPredictions {
		if pred.UserID == userID {
			cp := *pred
			out = append(out, &cp)
		}
	}
	return out, nil
}
