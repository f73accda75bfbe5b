package store

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"strings"
)

const taskIDPrefix = "task"

// newRandomID returns prefix-<suffix> where suffix is 8 chars of base32 (lowercase, no padding).
// 8 chars base32 ~= 40 bits of space.
func newRandomID(prefix string) (string, error) {
	var b [5]byte // 40 bits -> 8 base32 chars
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	enc := base32.StdEncoding.WithPadding(base32.NoPadding)
	suffix := strings.ToLower(enc.EncodeToString(b[:]))
	return prefix + "-" + suffix, nil
}

// nextTaskID returns an id that is neither in use nor previously issued by this store.
// Must be called with s.mu held.
func (s *ProjectStore) nextTaskID() string {
	for i := 0; i < 64; i++ {
		id, err := newRandomID(taskIDPrefix)
		if err != nil {
			break
		}
		if !s.idTaken(id) {
			s.issued[id] = true
			return id
		}
	}
	// crypto/rand failing or colliding 64 times in a row: fall back to a counter.
	for {
		s.seq++
		id := fmt.Sprintf("%s-%d", taskIDPrefix, s.seq)
		if !s.idTaken(id) {
			s.issued[id] = true
			return id
		}
	}
}

func (s *ProjectStore) idTaken(id string) bool {
	if s.issued[id] {
		return true
	}
	for _, t := range s.data.Tasks {
		if t.ID == id {
			return true
		}
	}
	return false
}
