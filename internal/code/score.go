package code

// Score implements two-pass peg counting between a secret and a candidate.
//
// Pass 1:
//   - Count positions where both sequences hold the same symbol (correct).
//   - Tally the candidate's remaining (non-correct) symbols per symbol.
//
// Pass 2:
//   - For each non-correct secret position, if the tally for its symbol is
//     positive, count a close match and decrement the tally.
//
// A candidate occurrence and a secret position are each credited at most
// once, so repeated symbols on either side never inflate the counts.
// The candidate is expected to have the secret's length; with a shorter
// one only the overlapping positions are compared.
func Score(secret, candidate []rune) (correct, close int) {
	n := len(secret)
	if len(candidate) < n {
		n = len(candidate)
	}

	matched := make([]bool, n)
	remaining := make(map[rune]int, n)

	for i := 0; i < n; i++ {
		if secret[i] == candidate[i] {
			correct++
			matched[i] = true
		} else {
			remaining[candidate[i]]++
		}
	}

	for i := 0; i < n; i++ {
		if matched[i] {
			continue
		}
		if remaining[secret[i]] > 0 {
			close++
			remaining[secret[i]]--
		}
	}
	return correct, close
}
