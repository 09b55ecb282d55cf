package karma

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aegisix.ru/group-bot/internal/common"
	"aegisix.ru/group-bot/internal/config"
	"aegisix.ru/group-bot/internal/db/jsonstore"
)

// fixedRand всегда возвращает одно и то же значение.
type fixedRand struct{ value int }

func (r fixedRand) IntN(n int) int { return r.value }

func newTestService(t *testing.T, rng Rand) *Service {
	t.Helper()

	dir := t.TempDir()
	ledger, err := jsonstore.Open(filepath.Join(dir, "karma.json"), NewLedgerDoc)
	require.NoError(t, err)
	cooldowns, err := jsonstore.Open(filepath.Join(dir, "cooldowns.json"), func() CooldownDoc {
		return CooldownDoc{}
	})
	require.NoError(t, err)

	cfg := &config.Config{
		RewardCooldown:  24 * time.Hour,
		RewardMax:       300,
		LeaderboardSize: 10,
	}
	return NewService(NewRepository(ledger, cooldowns), cfg, rng)
}

// credit наполняет аккаунт напрямую через репозиторий.
func credit(t *testing.T, s *Service, userID jsonstore.UserID, username string, amount int) {
	t.Helper()
	require.NoError(t, s.repo.UpdateLedger(func(doc *LedgerDoc) (bool, error) {
		doc.Users[userID.Key()] = &Account{Karma: amount, Username: username}
		return true, nil
	}))
}

func TestClaimRewardFirstClaim(t *testing.T) {
	s := newTestService(t, fixedRand{value: 41})
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	res, err := s.ClaimReward(10, "alice", now)
	require.NoError(t, err)

	// IntN → 41, награда = 41 + 1
	assert.Equal(t, 42, res.Amount)
	assert.Equal(t, 42, res.Balance)

	stats, err := s.StatsOf(10)
	require.NoError(t, err)
	assert.Equal(t, 42, stats.Karma)
	assert.Equal(t, "alice", stats.Username)
}

func TestClaimRewardRespectsCooldown(t *testing.T) {
	s := newTestService(t, fixedRand{value: 41})
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	_, err := s.ClaimReward(10, "alice", now)
	require.NoError(t, err)

	_, err = s.ClaimReward(10, "alice", now.Add(1*time.Hour))
	require.ErrorIs(t, err, common.ErrCooldownActive)

	var cooldown *common.CooldownError
	require.ErrorAs(t, err, &cooldown)
	assert.Equal(t, 23*time.Hour, cooldown.Remaining)

	// Баланс не изменился
	stats, err := s.StatsOf(10)
	require.NoError(t, err)
	assert.Equal(t, 42, stats.Karma)

	// После истечения кулдауна награда снова доступна
	res, err := s.ClaimReward(10, "alice", now.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 84, res.Balance)
}

func TestClaimRewardAmountRange(t *testing.T) {
	low := newTestService(t, fixedRand{value: 0})
	res, err := low.ClaimReward(10, "alice", time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Amount)

	high := newTestService(t, fixedRand{value: 299})
	res, err = high.ClaimReward(10, "alice", time.Now())
	require.NoError(t, err)
	assert.Equal(t, 300, res.Amount)
}

func TestPurchaseHappyPath(t *testing.T) {
	s := newTestService(t, NewMathRand())
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	credit(t, s, 10, "alice", 2500)

	res, err := s.Purchase(10, "P003", now)
	require.NoError(t, err)
	assert.Equal(t, "💫 Beta Status", res.Product.Name)
	assert.Equal(t, 500, res.Balance)

	stats, err := s.StatsOf(10)
	require.NoError(t, err)
	require.Len(t, stats.Statuses, 1)
	assert.Equal(t, "P003", stats.Statuses[0].ID)

	// Повторная покупка того же статуса
	_, err = s.Purchase(10, "P003", now.Add(time.Minute))
	require.ErrorIs(t, err, common.ErrAlreadyOwned)
}

func TestPurchaseValidationOrder(t *testing.T) {
	s := newTestService(t, NewMathRand())
	now := time.Now()

	// Неизвестный товар приоритетнее отсутствия аккаунта
	_, err := s.Purchase(10, "P999", now)
	require.ErrorIs(t, err, common.ErrUnknownProduct)

	_, err = s.Purchase(10, "P001", now)
	require.ErrorIs(t, err, common.ErrNoAccount)

	credit(t, s, 10, "alice", 100)
	_, err = s.Purchase(10, "P001", now)
	require.ErrorIs(t, err, common.ErrInsufficientKarma)

	var shortfall *common.ShortfallError
	require.ErrorAs(t, err, &shortfall)
	assert.Equal(t, 4900, shortfall.Shortfall)

	// Отклонённая покупка не списала карму
	stats, err := s.StatsOf(10)
	require.NoError(t, err)
	assert.Equal(t, 100, stats.Karma)
}

func TestTransfer(t *testing.T) {
	s := newTestService(t, NewMathRand())
	credit(t, s, 10, "alice", 500)
	credit(t, s, 20, "bob", 100)

	balance, err := s.Transfer(10, "bob", 200)
	require.NoError(t, err)
	assert.Equal(t, 300, balance)

	stats, err := s.StatsOf(20)
	require.NoError(t, err)
	assert.Equal(t, 300, stats.Karma)
}

func TestTransferErrors(t *testing.T) {
	s := newTestService(t, NewMathRand())
	credit(t, s, 10, "alice", 500)
	credit(t, s, 20, "bob", 100)

	_, err := s.Transfer(10, "bob", 0)
	assert.ErrorIs(t, err, common.ErrInvalidAmount)

	_, err = s.Transfer(10, "nobody", 50)
	assert.ErrorIs(t, err, common.ErrUserNotFound)

	_, err = s.Transfer(10, "alice", 50)
	assert.ErrorIs(t, err, common.ErrSelfTransfer)

	_, err = s.Transfer(10, "bob", 9999)
	assert.ErrorIs(t, err, common.ErrInsufficientKarma)

	_, err = s.Transfer(30, "bob", 50)
	assert.ErrorIs(t, err, common.ErrNoAccount)

	// Ни одна из отклонённых операций не изменила балансы
	stats, err := s.StatsOf(10)
	require.NoError(t, err)
	assert.Equal(t, 500, stats.Karma)
}

func TestStatsByUsername(t *testing.T) {
	s := newTestService(t, NewMathRand())
	credit(t, s, 10, "alice", 500)

	stats, err := s.StatsByUsername("alice")
	require.NoError(t, err)
	assert.Equal(t, 500, stats.Karma)

	_, err = s.StatsByUsername("nobody")
	assert.ErrorIs(t, err, common.ErrUserNotFound)
}

func TestStatusLeaderboard(t *testing.T) {
	s := newTestService(t, NewMathRand())
	now := time.Now()

	credit(t, s, 10, "alice", 10000)
	credit(t, s, 20, "bob", 10000)
	credit(t, s, 30, "carol", 10000)

	// alice: Alpha(5) + Omega(2) = 7, bob: Sigma(4) = 4
	_, err := s.Purchase(10, "P001", now)
	require.NoError(t, err)
	_, err = s.Purchase(10, "P004", now)
	require.NoError(t, err)
	_, err = s.Purchase(20, "P002", now)
	require.NoError(t, err)

	rows := s.StatusLeaderboard(10)
	require.Len(t, rows, 2, "carol без покупок не участвует")

	assert.Equal(t, "alice", rows[0].Username)
	assert.Equal(t, 7, rows[0].Score)
	assert.Equal(t, []string{"⚡ Alpha Status", "✨ Omega Status"}, rows[0].Statuses)

	assert.Equal(t, "bob", rows[1].Username)
	assert.Equal(t, 4, rows[1].Score)
}

func TestPruneCooldowns(t *testing.T) {
	s := newTestService(t, fixedRand{value: 0})
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	_, err := s.ClaimReward(10, "alice", now)
	require.NoError(t, err)
	_, err = s.ClaimReward(20, "bob", now.Add(20*time.Hour))
	require.NoError(t, err)

	removed, err := s.repo.PruneCooldowns(now.Add(25*time.Hour), 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	// Отметка bob ещё активна
	_, ok := s.repo.LastClaim(20)
	assert.True(t, ok)
	_, ok = s.repo.LastClaim(10)
	assert.False(t, ok)
}
