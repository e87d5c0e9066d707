package tbgllink

import "strings"

// MatchRecord links one TB account row to its best-scoring GL section.
// Records only exist for accepted matches, so Score is always strictly above
// the configured threshold (or exactly 1.0 for case-insensitive equality).
type MatchRecord struct {
	TBRow       int
	AccountName string
	Section     GLSection
	Score       float64
}

// MatchAccounts fuzzy-matches every TB account name against all GL section
// names and keeps the single best-scoring section per TB row. A score must
// strictly exceed cfg.MatchThreshold to be accepted; exact case-insensitive
// equality overrides the computed similarity to 1.0. Ties keep the section
// evaluated first. Unmatched accounts simply produce no record.
func MatchAccounts(accounts []TBAccountRow, sections []GLSection, cfg Config) []MatchRecord {
	var records []MatchRecord

	for _, account := range accounts {
		bestScore := 0.0
		bestIndex := -1

		for i, section := range sections {
			score := SimilarityRatio(account.Name, section.AccountName)
			if strings.EqualFold(account.Name, section.AccountName) {
				score = 1.0
			}
			if score > bestScore && score > cfg.MatchThreshold {
				bestScore = score
				bestIndex = i
			}
		}

		if bestIndex >= 0 {
			records = append(records, MatchRecord{
				TBRow:       account.Row,
				AccountName: account.Name,
				Section:     sections[bestIndex],
				Score:       bestScore,
			})
		}
	}

	return records
}

// SimilarityRatio computes the case-insensitive Ratcliff/Obershelp
// similarity of two strings: twice the total length of all matching blocks
// divided by the combined length. Two empty strings score 1.0.
func SimilarityRatio(a, b string) float64 {
	ra := []rune(strings.ToLower(a))
	rb := []rune(strings.ToLower(b))

	total := len(ra) + len(rb)
	if total == 0 {
		return 1.0
	}
	matches := matchingRunes(ra, 0, len(ra), rb, 0, len(rb))
	return 2.0 * float64(matches) / float64(total)
}

// matchingRunes sums matching-block sizes by recursively splitting around
// the longest common block, mirroring the classic sequence-matcher
// behaviour: among equally long blocks the one starting earliest in a, then
// earliest in b, wins.
func matchingRunes(a []rune, alo, ahi int, b []rune, blo, bhi int) int {
	i, j, size := longestMatch(a, alo, ahi, b, blo, bhi)
	if size == 0 {
		return 0
	}
	return size +
		matchingRunes(a, alo, i, b, blo, j) +
		matchingRunes(a, i+size, ahi, b, j+size, bhi)
}

func longestMatch(a []rune, alo, ahi int, b []rune, blo, bhi int) (besti, bestj, bestsize int) {
	b2j := make(map[rune][]int, bhi-blo)
	for j := blo; j < bhi; j++ {
		b2j[b[j]] = append(b2j[b[j]], j)
	}

	besti, bestj = alo, blo
	j2len := make(map[int]int)
	for i := alo; i < ahi; i++ {
		newj2len := make(map[int]int)
		for _, j := range b2j[a[i]] {
			if j < blo {
				continue
			}
			if j >= bhi {
				break
			}
			k := j2len[j-1] + 1
			newj2len[j] = k
			if k > bestsize {
				besti, bestj, bestsize = i-k+1, j-k+1, k
			}
		}
		j2len = newj2len
	}
	return besti, bestj, bestsize
}
