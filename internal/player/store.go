package player

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Store indexes the player records of a game directory. Only the mapping
// from identity to file path is kept in memory; records are loaded fresh
// from disk on every access so concurrent sessions never see a stale copy.
type Store struct {
	dir   string
	index map[string]string // telegram name -> record path

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewStore scans dir for player records and builds the identity index.
// Every record must parse; a malformed file is a startup error.
func NewStore(dir string) (*Store, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("could not read players directory %s: %w", dir, err)
	}

	index := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		p, err := Load(path)
		if err != nil {
			return nil, err
		}
		if other, ok := index[p.TelegramName]; ok {
			return nil, fmt.Errorf("identity %q is declared by both %s and %s", p.TelegramName, other, path)
		}
		index[p.TelegramName] = path
	}

	return &Store{
		dir:   dir,
		index: index,
		locks: make(map[string]*sync.Mutex),
	}, nil
}

// Lookup loads the record for an identity fresh from disk. A nil player
// with a nil error means no record exists for that identity.
func (s *Store) Lookup(identity string) (*Player, error) {
	path, ok := s.index[identity]
	if !ok {
		return nil, nil
	}
	return Load(path)
}

// Each runs fn over every indexed record, loaded fresh, in stable path
// order. Used by the startup consistency checker.
func (s *Store) Each(fn func(*Player) error) error {
	paths := make([]string, 0, len(s.index))
	for _, path := range s.index {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, path := range paths {
		p, err := Load(path)
		if err != nil {
			return err
		}
		if err := fn(p); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of indexed records.
func (s *Store) Len() int {
	return len(s.index)
}

// identityLock returns the mutex serializing updates for one identity.
func (s *Store) identityLock(identity string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[identity]
	if !ok {
		l = &sync.Mutex{}
		s.locks[identity] = l
	}
	return l
}

// IncreaseExperience adds amount to the experience entry for statName and
// persists the record. The read, mutation and write-back run under a
// per-identity lock so two sessions of the same player cannot interleave.
// The updated record is returned; nothing is written when the stat has no
// experience entry.
func (s *Store) IncreaseExperience(identity, statName string, amount int) (*Player, error) {
	lock := s.identityLock(identity)
	lock.Lock()
	defer lock.Unlock()

	p, err := s.Lookup(identity)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("no player record for identity %q", identity)
	}

	if _, ok := p.Stats[statName]; !ok {
		return nil, fmt.Errorf("player %s has no experience entry for stat %q", p.Name, statName)
	}
	p.Stats[statName] += amount

	if err := p.Save(); err != nil {
		return nil, err
	}
	return p, nil
}
