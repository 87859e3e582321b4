package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"connect-service/internal/domain"
	"connect-service/internal/events"
	xerrors "connect-service/pkg/xerrors"
)

// memStore backs the friend usecases in tests: one in-memory "database"
// implementing both UserDirectory and FriendRequestLedger, with the same
// uniqueness rules the schema enforces.
type memStore struct {
	mu       sync.Mutex
	users    map[string]*domain.User
	friends  map[string]map[string]bool
	requests map[string]*domain.FriendRequest
	order    []string // request ids in insertion order
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[string]*domain.User{},
		friends:  map[string]map[string]bool{},
		requests: map[string]*domain.FriendRequest{},
	}
}

func (s *memStore) addUser(id, name string, onboarded bool) *domain.User {
	u := &domain.User{
		ID:          id,
		FullName:    name,
		Email:       id + "@example.com",
		IsOnboarded: onboarded,
	}
	s.users[id] = u
	return u
}

func (s *memStore) CreateUser(_ context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return xerrors.ErrEmailAlreadyInUse
		}
	}
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *memStore) GetUserByID(_ context.Context, id string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, xerrors.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *memStore) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, xerrors.ErrUserNotFound
}

func (s *memStore) UpdateProfile(_ context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.users[u.ID]
	if !ok {
		return xerrors.ErrUserNotFound
	}
	existing.FullName = u.FullName
	existing.Bio = u.Bio
	existing.NativeLanguage = u.NativeLanguage
	existing.LearningLanguage = u.LearningLanguage
	existing.Location = u.Location
	existing.IsOnboarded = true
	u.IsOnboarded = true
	return nil
}

func (s *memStore) AddFriendship(_ context.Context, a, b string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.friends[a] == nil {
		s.friends[a] = map[string]bool{}
	}
	if s.friends[b] == nil {
		s.friends[b] = map[string]bool{}
	}
	s.friends[a][b] = true
	s.friends[b][a] = true
	return nil
}

func (s *memStore) AreFriends(_ context.Context, a, b string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.friends[a][b], nil
}

func (s *memStore) ListFriends(_ context.Context, userID string) ([]domain.PublicProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.friends[userID]))
	for id := range s.friends[userID] {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	profiles := []domain.PublicProfile{}
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			profiles = append(profiles, u.Public())
		}
	}
	return profiles, nil
}

func (s *memStore) RecommendUsers(_ context.Context, userID string) ([]domain.PublicProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.users))
	for id := range s.users {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	recommended := []domain.PublicProfile{}
	for _, id := range ids {
		u := s.users[id]
		if id == userID || !u.IsOnboarded || s.friends[userID][id] {
			continue
		}
		if s.pendingBetweenLocked(userID, id) {
			continue
		}
		recommended = append(recommended, u.Public())
	}
	return recommended, nil
}

func (s *memStore) pendingBetweenLocked(a, b string) bool {
	for _, fr := range s.requests {
		if fr.Status != domain.FriendRequestPending {
			continue
		}
		if (fr.SenderID == a && fr.RecipientID == b) || (fr.SenderID == b && fr.RecipientID == a) {
			return true
		}
	}
	return false
}

func (s *memStore) Create(_ context.Context, fr *domain.FriendRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.requests {
		if (existing.SenderID == fr.SenderID && existing.RecipientID == fr.RecipientID) ||
			(existing.SenderID == fr.RecipientID && existing.RecipientID == fr.SenderID) {
			return xerrors.ErrDuplicateRequest
		}
	}
	cp := *fr
	s.requests[fr.ID] = &cp
	s.order = append(s.order, fr.ID)
	return nil
}

func (s *memStore) GetByID(_ context.Context, id string) (*domain.FriendRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fr, ok := s.requests[id]
	if !ok {
		return nil, xerrors.ErrRequestNotFound
	}
	cp := *fr
	return &cp, nil
}

func (s *memStore) ExistsBetween(_ context.Context, a, b string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, fr := range s.requests {
		if (fr.SenderID == a && fr.RecipientID == b) || (fr.SenderID == b && fr.RecipientID == a) {
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) MarkAccepted(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	fr, ok := s.requests[id]
	if !ok {
		return xerrors.ErrRequestNotFound
	}
	if fr.Status != domain.FriendRequestPending {
		return xerrors.ErrAlreadyAccepted
	}
	fr.Status = domain.FriendRequestAccepted
	return nil
}

func (s *memStore) list(filter func(*domain.FriendRequest) bool, enrich func(*domain.FriendRequest)) []*domain.FriendRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*domain.FriendRequest{}
	for _, id := range s.order {
		fr := s.requests[id]
		if !filter(fr) {
			continue
		}
		cp := *fr
		enrich(&cp)
		out = append(out, &cp)
	}
	return out
}

func (s *memStore) ListIncoming(_ context.Context, userID string) ([]*domain.FriendRequest, error) {
	return s.list(
		func(fr *domain.FriendRequest) bool {
			return fr.RecipientID == userID && fr.Status == domain.FriendRequestPending
		},
		func(fr *domain.FriendRequest) {
			if u, ok := s.users[fr.SenderID]; ok {
				p := u.Public()
				fr.Sender = &p
			}
		},
	), nil
}

func (s *memStore) ListOutgoingPending(_ context.Context, userID string) ([]*domain.FriendRequest, error) {
	return s.list(
		func(fr *domain.FriendRequest) bool {
			return fr.SenderID == userID && fr.Status == domain.FriendRequestPending
		},
		func(fr *domain.FriendRequest) {
			if u, ok := s.users[fr.RecipientID]; ok {
				p := u.Public()
				fr.Recipient = &p
			}
		},
	), nil
}

func (s *memStore) ListAcceptedSent(_ context.Context, userID string) ([]*domain.FriendRequest, error) {
	return s.list(
		func(fr *domain.FriendRequest) bool {
			return fr.SenderID == userID && fr.Status == domain.FriendRequestAccepted
		},
		func(fr *domain.FriendRequest) {
			if u, ok := s.users[fr.RecipientID]; ok {
				p := u.Public()
				fr.Recipient = &p
			}
		},
	), nil
}

// memGroups implements GroupRegistry.
type memGroups struct {
	mu     sync.Mutex
	store  *memStore
	groups map[string]*domain.Group
}

func newMemGroups(store *memStore) *memGroups {
	return &memGroups{store: store, groups: map[string]*domain.Group{}}
}

func (s *memGroups) Create(_ context.Context, g *domain.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.groups {
		if existing.Name == g.Name {
			return xerrors.ErrGroupNameTaken
		}
	}
	cp := *g
	cp.Members = []domain.GroupMember{{UserID: g.CreatedBy, IsAdmin: true}}
	s.groups[g.ID] = &cp
	return nil
}

func (s *memGroups) GetByID(_ context.Context, id string) (*domain.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.groups[id]
	if !ok {
		return nil, xerrors.ErrGroupNotFound
	}
	cp := *g
	cp.Members = append([]domain.GroupMember{}, g.Members...)
	for i := range cp.Members {
		if u, ok := s.store.users[cp.Members[i].UserID]; ok {
			cp.Members[i].Profile = u.Public()
		}
	}
	return &cp, nil
}

func (s *memGroups) List(_ context.Context) ([]*domain.Group, error) {
	s.mu.Lock()
	ids := make([]string, 0, len(s.groups))
	for id := range s.groups {
		ids = append(ids, id)
	}
	s.mu.Unlock()
	sort.Strings(ids)

	out := []*domain.Group{}
	for _, id := range ids {
		g, err := s.GetByID(context.Background(), id)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, nil
}

func (s *memGroups) AddMember(_ context.Context, groupID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.groups[groupID]
	if !ok {
		return xerrors.ErrGroupNotFound
	}
	for _, m := range g.Members {
		if m.UserID == userID {
			return xerrors.ErrAlreadyMember
		}
	}
	g.Members = append(g.Members, domain.GroupMember{UserID: userID})
	return nil
}

func (s *memGroups) RemoveMember(_ context.Context, groupID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.groups[groupID]
	if !ok {
		return xerrors.ErrGroupNotFound
	}
	for i, m := range g.Members {
		if m.UserID == userID {
			g.Members = append(g.Members[:i], g.Members[i+1:]...)
			return nil
		}
	}
	return xerrors.ErrNotAMember
}

func (s *memGroups) Update(_ context.Context, g *domain.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.groups[g.ID]
	if !ok {
		return xerrors.ErrGroupNotFound
	}
	for id, other := range s.groups {
		if id != g.ID && other.Name == g.Name {
			return xerrors.ErrGroupNameTaken
		}
	}
	existing.Name = g.Name
	existing.Description = g.Description
	return nil
}

func (s *memGroups) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.groups[id]; !ok {
		return xerrors.ErrGroupNotFound
	}
	delete(s.groups, id)
	return nil
}

// seqIDGen yields deterministic ids for assertions.
type seqIDGen struct {
	mu sync.Mutex
	n  int
}

func (g *seqIDGen) Generate(prefix string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s_%04d", prefix, g.n)
}

// recordingSink counts published events.
type recordingSink struct {
	mu       sync.Mutex
	sent     []*events.FriendRequestEvent
	accepted []*events.FriendRequestEvent
	group    []*events.GroupEvent
}

func (s *recordingSink) PublishFriendRequestSent(_ context.Context, e *events.FriendRequestEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, e)
	return nil
}

func (s *recordingSink) PublishFriendRequestAccepted(_ context.Context, e *events.FriendRequestEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accepted = append(s.accepted, e)
	return nil
}

func (s *recordingSink) PublishGroupEvent(_ context.Context, e *events.GroupEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.group = append(s.group, e)
	return nil
}

// flakyProvider fails every upsert, to prove provider outages never fail
// the triggering mutation.
type flakyProvider struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (p *flakyProvider) UpsertUser(_ context.Context, _ domain.PublicProfile) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = p.calls + 1
	return p.err
}
