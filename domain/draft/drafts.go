// Package draft keeps unsaved timing sessions and small UI preferences per user.
package draft

import (
	"encoding/json"
	"fmt"
	"regexp"

	"smartmethods/bizerror"
	"smartmethods/domain"
	"smartmethods/domain/observation"
	"smartmethods/session"
)

const MaxPreferenceSize = 4 * 1024

var (
	preferenceKeyPattern = regexp.MustCompile(`^[a-z0-9._-]{1,64}$`)

	SaveDraftFunc     = SaveDraft
	LoadDraftFunc     = LoadDraft
	DiscardDraftFunc  = DiscardDraft
	SetPreferenceFunc = SetPreference
	GetPreferenceFunc = GetPreference
)

type FormData struct {
	ProcessName          string  `json:"processName"`
	Description          string  `json:"description"`
	PerformanceRating    float64 `json:"performanceRating"`
	SupplementPercentage float64 `json:"supplementPercentage"`
}

type Draft struct {
	FormData    FormData            `json:"formData"`
	Cycles      []observation.Cycle `json:"cycles"`
	ActiveCycle int                 `json:"activeCycle"`
}

// Store rebuilds the editable cycle list of the draft.
func (d *Draft) Store() (*observation.Store, error) {
	return observation.FromCycles(d.Cycles, d.ActiveCycle)
}

// normalize runs the draft through a store so that it satisfies the store invariants.
func (d *Draft) normalize() error {
	store, err := d.Store()
	if err != nil {
		return err
	}
	d.Cycles = store.Cycles()
	d.ActiveCycle = store.Active()
	return nil
}

func SaveDraft(d *Draft, s *session.Session) (*Draft, error) {
	if !s.Authenticated() {
		return nil, bizerror.ErrUnauthenticated
	}
	saved := *d
	if err := saved.normalize(); err != nil {
		return nil, err
	}
	data, err := json.Marshal(&saved)
	if err != nil {
		return nil, err
	}
	DraftKV.Set(draftKey(s), string(data))
	return &saved, nil
}

func LoadDraft(s *session.Session) (*Draft, error) {
	if !s.Authenticated() {
		return nil, bizerror.ErrUnauthenticated
	}
	data, found := DraftKV.Get(draftKey(s))
	if !found {
		return nil, fmt.Errorf("draft: %w", domain.ErrNotFound)
	}
	d := Draft{}
	if err := json.Unmarshal([]byte(data), &d); err != nil {
		return nil, err
	}
	if err := d.normalize(); err != nil {
		return nil, err
	}
	return &d, nil
}

func DiscardDraft(s *session.Session) error {
	if !s.Authenticated() {
		return bizerror.ErrUnauthenticated
	}
	DraftKV.Delete(draftKey(s))
	return nil
}

// SetPreference stores an opaque JSON value.
func SetPreference(key string, value []byte, s *session.Session) error {
	if !s.Authenticated() {
		return bizerror.ErrUnauthenticated
	}
	if !preferenceKeyPattern.MatchString(key) {
		return fmt.Errorf("preference key '%s': %w", key, domain.ErrInvalidArgument)
	}
	if len(value) > MaxPreferenceSize {
		return fmt.Errorf("preference value larger than %d bytes: %w", MaxPreferenceSize, domain.ErrInvalidArgument)
	}
	if !json.Valid(value) {
		return fmt.Errorf("preference value is not json: %w", domain.ErrInvalidArgument)
	}
	PreferenceKV.Set(preferenceKey(key, s), string(value))
	return nil
}

func GetPreference(key string, s *session.Session) ([]byte, error) {
	if !s.Authenticated() {
		return nil, bizerror.ErrUnauthenticated
	}
	if !preferenceKeyPattern.MatchString(key) {
		return nil, fmt.Errorf("preference key '%s': %w", key, domain.ErrInvalidArgument)
	}
	v, found := PreferenceKV.Get(preferenceKey(key, s))
	if !found {
		return nil, fmt.Errorf("preference '%s': %w", key, domain.ErrNotFound)
	}
	return []byte(v), nil
}

func draftKey(s *session.Session) string {
	return "draft/" + s.Identity.ID.String()
}

func preferenceKey(key string, s *session.Session) string {
	return "preference/" + s.Identity.ID.String() + "/" + key
}
