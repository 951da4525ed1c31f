package service

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSelectWinnersEmptyInputs(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	require.Empty(t, SelectWinners(nil, nil, 3, rng))
	require.Empty(t, SelectWinners([]int64{1, 2, 3}, nil, 0, rng))
	require.Empty(t, SelectWinners([]int64{1, 2, 3}, nil, -1, rng))
}

func TestSelectWinnersEveryoneWinsWhenQuotaCoversAll(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	participants := []int64{10, 20, 30}

	winners := SelectWinners(participants, nil, 3, rng)
	require.Equal(t, participants, winners)

	winners = SelectWinners(participants, nil, 5, rng)
	require.Equal(t, participants, winners)
}

func TestSelectWinnersDistinctAndFromPool(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	participants := []int64{1, 2, 3, 4, 5, 6, 7, 8}
	counts := map[int64]int{1: 3, 4: 1}

	winners := SelectWinners(participants, counts, 4, rng)
	require.Len(t, winners, 4)

	seen := make(map[int64]bool)
	valid := make(map[int64]bool)
	for _, id := range participants {
		valid[id] = true
	}
	for _, w := range winners {
		require.True(t, valid[w], "winner %d is not a participant", w)
		require.False(t, seen[w], "winner %d drawn twice", w)
		seen[w] = true
	}
}

func TestSelectWinnersNegativeWeightFallsBackToBase(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	participants := []int64{1, 2}
	counts := map[int64]int{1: -5, 2: -5}

	winners := SelectWinners(participants, counts, 1, rng)
	require.Len(t, winners, 1)
}

func TestSelectWinnersReferralsRaiseOdds(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	participants := []int64{1, 2}
	counts := map[int64]int{1: 9, 2: 0} // user 1 has weight 10, user 2 weight 1

	wins := 0
	const trials = 2000
	for i := 0; i < trials; i++ {
		winners := SelectWinners(participants, counts, 1, rng)
		require.Len(t, winners, 1)
		if winners[0] == 1 {
			wins++
		}
	}

	// Expected share is 10/11, far above the uniform 1/2.
	require.Greater(t, wins, int(float64(trials)*0.85))
}

func TestSelectWinnersExcludesUnresolvedFromWeightedPool(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	participants := []int64{1, 2}
	counts := map[int64]int{1: 3} // user 2 has no resolved record

	// With one slot and one resolved participant, the weighted draw can only
	// ever yield user 1.
	for i := 0; i < 200; i++ {
		winners := SelectWinners(participants, counts, 1, rng)
		require.Equal(t, []int64{1}, winners)
	}
}

func TestSelectWinnersBackfillsWhenPoolDrains(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	participants := []int64{1, 2, 3, 4}
	counts := map[int64]int{1: 2} // only user 1 is resolved

	winners := SelectWinners(participants, counts, 2, rng)
	require.Len(t, winners, 2)
	require.Equal(t, int64(1), winners[0])
	require.Contains(t, []int64{2, 3, 4}, winners[1])
}

func TestSelectWinnersUniformWhenNothingResolves(t *testing.T) {
	rng := rand.New(rand.NewSource(13))
	participants := []int64{1, 2, 3, 4}

	winners := SelectWinners(participants, map[int64]int{}, 2, rng)
	require.Len(t, winners, 2)

	seen := make(map[int64]bool)
	for _, w := range winners {
		require.Contains(t, participants, w)
		require.False(t, seen[w])
		seen[w] = true
	}
}
