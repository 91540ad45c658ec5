package schedule

import (
	"errors"
	"fmt"

	"alcyxob/triplan/internal/domain"
)

var (
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrNotPermutation  = errors.New("sessions are not a reordering of the day's sessions")
)

// MoveSession returns a new slice with the element at from removed and
// re-inserted at to. All other sessions keep their relative order and the
// input slice is left untouched.
func MoveSession(sessions []domain.Session, from, to int) ([]domain.Session, error) {
	n := len(sessions)
	if from < 0 || from >= n {
		return nil, fmt.Errorf("move from %d of %d sessions: %w", from, n, ErrIndexOutOfRange)
	}
	if to < 0 || to >= n {
		return nil, fmt.Errorf("move to %d of %d sessions: %w", to, n, ErrIndexOutOfRange)
	}

	out := make([]domain.Session, 0, n)
	out = append(out, sessions[:from]...)
	out = append(out, sessions[from+1:]...)
	moved := sessions[from]
	out = append(out[:to], append([]domain.Session{moved}, out[to:]...)...)
	return out, nil
}

// IsPermutation reports whether next holds exactly the sessions of current,
// in any order.
func IsPermutation(current, next []domain.Session) bool {
	if len(current) != len(next) {
		return false
	}
	counts := make(map[domain.Session]int, len(current))
	for _, s := range current {
		counts[s]++
	}
	for _, s := range next {
		if counts[s] == 0 {
			return false
		}
		counts[s]--
	}
	return true
}
