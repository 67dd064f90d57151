// Package compare reconciles the transactions of two statements. Matching
// is greedy: first-statement transactions are walked in order and each
// claims its best-scoring unclaimed counterpart, so the result is
// deterministic but not guaranteed to maximize the number of pairs.
package compare

import (
	"strings"

	"ypbank/statements/internal/models"
)

// Result holds the outcome of reconciling two statements: matched index
// pairs and the leftover transaction indexes on either side.
type Result struct {
	Matched      [][2]int
	OnlyInFirst  []int
	OnlyInSecond []int
}

// score weights for candidate ranking among exact matches.
const (
	scoreDate        = 10
	scoreAmount      = 10
	scoreDirection   = 5
	scoreReference   = 15
	scoreDescription = 5
)

// Statements reconciles first against second. Two transactions are
// candidates only when date, amount magnitude and direction all agree;
// references and descriptions then rank the candidates. Ties keep the
// earliest candidate.
func Statements(first, second *models.Statement) Result {
	used := make([]bool, len(second.Transactions))
	var matched [][2]int

	for i, tx1 := range first.Transactions {
		bestIdx, bestScore := -1, -1
		for j, tx2 := range second.Transactions {
			if used[j] || !exactMatch(tx1, tx2) {
				continue
			}
			if score := matchScore(tx1, tx2); score > bestScore {
				bestIdx, bestScore = j, score
			}
		}
		if bestIdx >= 0 {
			matched = append(matched, [2]int{i, bestIdx})
			used[bestIdx] = true
		}
	}

	matchedFirst := make([]bool, len(first.Transactions))
	for _, pair := range matched {
		matchedFirst[pair[0]] = true
	}
	var onlyInFirst []int
	for i := range first.Transactions {
		if !matchedFirst[i] {
			onlyInFirst = append(onlyInFirst, i)
		}
	}
	var onlyInSecond []int
	for j := range second.Transactions {
		if !used[j] {
			onlyInSecond = append(onlyInSecond, j)
		}
	}

	return Result{Matched: matched, OnlyInFirst: onlyInFirst, OnlyInSecond: onlyInSecond}
}

// FullyMatched reports whether no transaction was left unmatched on either
// side.
func (r Result) FullyMatched() bool {
	return len(r.OnlyInFirst) == 0 && len(r.OnlyInSecond) == 0
}

func exactMatch(tx1, tx2 models.Transaction) bool {
	return tx1.Date == tx2.Date &&
		tx1.Amount.Value == tx2.Amount.Value &&
		tx1.IsCredit == tx2.IsCredit
}

func matchScore(tx1, tx2 models.Transaction) int {
	score := 0
	if tx1.Date == tx2.Date {
		score += scoreDate
	}
	if tx1.Amount.Value == tx2.Amount.Value {
		score += scoreAmount
	}
	if tx1.IsCredit == tx2.IsCredit {
		score += scoreDirection
	}
	if tx1.Reference != "" && tx1.Reference == tx2.Reference {
		score += scoreReference
	}
	if tx1.Description != "" && tx2.Description != "" &&
		(strings.Contains(tx1.Description, tx2.Description) ||
			strings.Contains(tx2.Description, tx1.Description)) {
		score += scoreDescription
	}
	return score
}

// Percent renders part as a percentage of total; a zero total is 0%.
func Percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}
