package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/marcosfdz/jornadabet/internal/domain/league"
)

type memberKey struct {
	leagueID string
	userID   string
}

type MemberRepository struct {
	mu    sync.RWMutex
	items map[memberKey]league.Member
}

func NewMemberRepository(members []league.Member) *MemberRepository {
	items := make(map[memberKey]league.Member, len(members))
	for _, m := range members {
		items[memberKey{leagueID: m.LeagueID, userID: m.UserID}] = cloneMember(m)
	}

	return &MemberRepository{items: items}
}

func (r *MemberRepository) ListByLeague(_ context.Context, leagueID string) ([]league.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]league.Member, 0)
	for key, m := range r.items {
		if key.leagueID != leagueID {
			continue
		}
		out = append(out, cloneMember(m))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })

	return out, nil
}

func (r *MemberRepository) Get(_ context.Context, leagueID, userID string) (league.Member, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.items[memberKey{leagueID: leagueID, userID: userID}]
	if !ok {
		return league.Member{}, false, nil
	}

	return cloneMember(m), true, nil
}

func (r *MemberRepository) Save(_ context.Context, member league.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[memberKey{leagueID: member.LeagueID, userID: member.UserID}] = cloneMember(member)
	return nil
}

func (r *MemberRepository) CreditBettingBudget(_ context.Context, leagueID, userID string, amount int) error {
	return r.adjustBettingBudget(leagueID, userID, amount)
}

func (r *MemberRepository) DebitBettingBudget(_ context.Context, leagueID, userID string, amount int) error {
	return r.adjustBettingBudget(leagueID, userID, -amount)
}

func (r *MemberRepository) adjustBettingBudget(leagueID, userID string, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := memberKey{leagueID: leagueID, userID: userID}
	m, ok := r.items[key]
	if !ok {
		return fmt.Errorf("member not found: league=%s user=%s", leagueID, userID)
	}
	m.BettingBudget += delta
	r.items[key] = m

	return nil
}

func cloneMember(m league.Member) league.Member {
	points := make(map[int]int, len(m.PointsByMatchday))
	for matchday, value := range m.PointsByMatchday {
		points[matchday] = value
	}
	m.PointsByMatchday = points
	return m
}
