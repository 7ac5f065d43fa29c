// Package observation holds the cycles of one timing session while they are edited.
package observation

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"smartmethods/domain"
)

const (
	AutoNamePrefix     = "Cycle "
	MaxCycleNameLength = 64
)

type Cycle struct {
	Name         string  `json:"name"`
	Observations []int64 `json:"observations"`

	// AutoNamed marks names generated by the store; only those are renumbered.
	AutoNamed bool `json:"autoNamed,omitempty"`
}

func (c Cycle) clone() Cycle {
	obs := make([]int64, len(c.Observations))
	copy(obs, c.Observations)
	c.Observations = obs
	return c
}

// Store is the ordered list of cycles of one session. It always contains at least one cycle.
// A Store is not safe for concurrent use.
type Store struct {
	cycles []Cycle
	active int
}

func NewStore() *Store {
	s := &Store{}
	s.AddCycle()
	return s
}

// FromCycles rebuilds a store from persisted or drafted cycles.
func FromCycles(cycles []Cycle, active int) (*Store, error) {
	if len(cycles) == 0 {
		return NewStore(), nil
	}
	if err := ValidateCycles(cycles); err != nil {
		return nil, err
	}
	s := &Store{cycles: make([]Cycle, 0, len(cycles))}
	for _, c := range cycles {
		s.cycles = append(s.cycles, c.clone())
	}
	if active < 0 || active >= len(s.cycles) {
		active = 0
	}
	s.active = active
	return s, nil
}

// ValidateCycles checks names and durations without requiring a minimum number of cycles.
func ValidateCycles(cycles []Cycle) error {
	for i, c := range cycles {
		if err := validateName(c.Name); err != nil {
			return fmt.Errorf("cycle %d: %w", i, err)
		}
		for j, ms := range c.Observations {
			if ms < 0 {
				return fmt.Errorf("cycle %d observation %d: negative duration: %w", i, j, domain.ErrInvalidArgument)
			}
		}
	}
	return nil
}

func (s *Store) Len() int {
	return len(s.cycles)
}

func (s *Store) Active() int {
	return s.active
}

func (s *Store) SetActive(index int) error {
	if err := s.checkCycle(index); err != nil {
		return err
	}
	s.active = index
	return nil
}

// Cycles returns a deep copy.
func (s *Store) Cycles() []Cycle {
	r := make([]Cycle, 0, len(s.cycles))
	for _, c := range s.cycles {
		r = append(r, c.clone())
	}
	return r
}

func (s *Store) Cycle(index int) (Cycle, error) {
	if err := s.checkCycle(index); err != nil {
		return Cycle{}, err
	}
	return s.cycles[index].clone(), nil
}

// AddCycle appends an empty auto-named cycle and makes it active.
func (s *Store) AddCycle() int {
	return s.add(Cycle{Name: autoName(len(s.cycles)), Observations: []int64{}, AutoNamed: true})
}

// AddNamedCycle appends an empty cycle under name and makes it active. Names are checked
// the way RenameCycle checks them.
func (s *Store) AddNamedCycle(name string) (int, error) {
	if err := validateName(name); err != nil {
		return -1, err
	}
	return s.add(Cycle{Name: strings.TrimSpace(name), Observations: []int64{}}), nil
}

func (s *Store) add(c Cycle) int {
	s.cycles = append(s.cycles, c)
	s.active = len(s.cycles) - 1
	return s.active
}

func (s *Store) RemoveCycle(index int) error {
	if err := s.checkCycle(index); err != nil {
		return err
	}
	if len(s.cycles) == 1 {
		return fmt.Errorf("the last cycle can not be removed: %w", domain.ErrInvariantViolation)
	}

	s.cycles = append(s.cycles[:index], s.cycles[index+1:]...)
	if s.active > index || s.active >= len(s.cycles) {
		s.active--
	}
	for i := range s.cycles {
		if s.cycles[i].AutoNamed {
			s.cycles[i].Name = autoName(i)
		}
	}
	return nil
}

func (s *Store) RenameCycle(index int, name string) error {
	if err := s.checkCycle(index); err != nil {
		return err
	}
	if err := validateName(name); err != nil {
		return err
	}
	s.cycles[index].Name = strings.TrimSpace(name)
	s.cycles[index].AutoNamed = false
	return nil
}

func (s *Store) AppendObservation(cycleIndex int, ms int64) error {
	if err := s.checkCycle(cycleIndex); err != nil {
		return err
	}
	if ms < 0 {
		return fmt.Errorf("negative duration %d: %w", ms, domain.ErrInvalidArgument)
	}
	s.cycles[cycleIndex].Observations = append(s.cycles[cycleIndex].Observations, ms)
	return nil
}

func (s *Store) UpdateObservation(cycleIndex, obsIndex int, ms int64) error {
	if err := s.checkObservation(cycleIndex, obsIndex); err != nil {
		return err
	}
	if ms < 0 {
		return fmt.Errorf("negative duration %d: %w", ms, domain.ErrInvalidArgument)
	}
	s.cycles[cycleIndex].Observations[obsIndex] = ms
	return nil
}

func (s *Store) RemoveObservation(cycleIndex, obsIndex int) error {
	if err := s.checkObservation(cycleIndex, obsIndex); err != nil {
		return err
	}
	obs := s.cycles[cycleIndex].Observations
	s.cycles[cycleIndex].Observations = append(obs[:obsIndex], obs[obsIndex+1:]...)
	return nil
}

func (s *Store) checkCycle(index int) error {
	if index < 0 || index >= len(s.cycles) {
		return fmt.Errorf("cycle %d: %w", index, domain.ErrNotFound)
	}
	return nil
}

func (s *Store) checkObservation(cycleIndex, obsIndex int) error {
	if err := s.checkCycle(cycleIndex); err != nil {
		return err
	}
	if obsIndex < 0 || obsIndex >= len(s.cycles[cycleIndex].Observations) {
		return fmt.Errorf("cycle %d observation %d: %w", cycleIndex, obsIndex, domain.ErrNotFound)
	}
	return nil
}

func autoName(position int) string {
	return AutoNamePrefix + strconv.Itoa(position+1)
}

// IsAutoName reports whether name is the generated name of the cycle at position.
func IsAutoName(name string, position int) bool {
	return name == autoName(position)
}

func validateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("cycle name is empty: %w", domain.ErrInvalidArgument)
	}
	if utf8.RuneCountInString(name) > MaxCycleNameLength {
		return fmt.Errorf("cycle name longer than %d: %w", MaxCycleNameLength, domain.ErrInvalidArgument)
	}
	return nil
}
