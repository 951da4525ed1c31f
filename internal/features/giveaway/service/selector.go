package service

import (
	"math/rand"
)

// SelectWinners picks count winners from participants, weighted by referral
// activity: each resolved participant enters the draw with weight 1 + their
// invited friends count. A drawn user is removed from the pool entirely, so
// nobody wins twice and a winner's weight stops mattering after their first
// win.
//
// Participants absent from referralCounts could not be resolved to a user
// record and stay out of the weighted pool. If the pool drains before the
// quota is met, the remainder is drawn uniformly from the leftover
// participants. A negative resolved count clamps to the base weight of 1.
//
// When count covers every participant the whole set is returned in order and
// no randomness is used.
func SelectWinners(participants []int64, referralCounts map[int64]int, count int, rng *rand.Rand) []int64 {
	if count <= 0 || len(participants) == 0 {
		return nil
	}
	if count >= len(participants) {
		winners := make([]int64, len(participants))
		copy(winners, participants)
		return winners
	}

	weightOf := func(id int64) int {
		w := 1
		if invited := referralCounts[id]; invited > 0 {
			w += invited
		}
		return w
	}

	pool := make([]int64, 0, len(participants))
	for _, id := range participants {
		if _, ok := referralCounts[id]; ok {
			pool = append(pool, id)
		}
	}

	winners := make([]int64, 0, count)
	for len(winners) < count && len(pool) > 0 {
		totalWeight := 0
		for _, id := range pool {
			totalWeight += weightOf(id)
		}

		target := rng.Intn(totalWeight) + 1
		picked := -1
		for i, id := range pool {
			target -= weightOf(id)
			if target <= 0 {
				picked = i
				break
			}
		}

		winners = append(winners, pool[picked])
		pool = append(pool[:picked], pool[picked+1:]...)
	}

	if len(winners) < count {
		winners = backfillUniform(winners, participants, count, rng)
	}
	return winners
}

// backfillUniform tops the winner list up to count with a uniform draw over
// the participants not yet selected.
func backfillUniform(winners, participants []int64, count int, rng *rand.Rand) []int64 {
	won := make(map[int64]bool, len(winners))
	for _, id := range winners {
		won[id] = true
	}
	leftover := make([]int64, 0, len(participants))
	for _, id := range participants {
		if !won[id] {
			leftover = append(leftover, id)
		}
	}
	rng.Shuffle(len(leftover), func(i, j int) {
		leftover[i], leftover[j] = leftover[j], leftover[i]
	})
	for _, id := range leftover {
		if len(winners) >= count {
			break
		}
		winners = append(winners, id)
	}
	return winners
}
