package study

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"smartmethods/bizerror"
	"smartmethods/domain"
	"smartmethods/domain/observation"
	"smartmethods/domain/standard"
	"smartmethods/domain/state"
	"smartmethods/event"
	"smartmethods/idgen"
	"smartmethods/persistence"
	"smartmethods/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
)

var (
	studyIdWorker = idgen.NewWorker()

	CreateStudyFunc      = CreateStudy
	QueryStudiesFunc     = QueryStudies
	DetailStudyFunc      = DetailStudy
	UpdateStudyFunc      = UpdateStudy
	SaveObservationsFunc = SaveObservations
	CompleteStudyFunc    = CompleteStudy
	StudyStatsFunc       = StudyStats
	LoadStudiesFunc      = LoadStudies
	LoadStudyFunc        = LoadStudy
)

func CreateStudy(c *StudyCreation, s *session.Session) (*Study, error) {
	if !s.Authenticated() {
		return nil, bizerror.ErrUnauthenticated
	}
	name, err := validateProcessName(c.ProcessName)
	if err != nil {
		return nil, err
	}
	params := standard.DefaultParams()
	if c.PerformanceRating != nil {
		params.PerformanceRating = *c.PerformanceRating
	}
	if c.SupplementPercentage != nil {
		params.SupplementPercentage = *c.SupplementPercentage
	}
	if err := validateParams(params); err != nil {
		return nil, err
	}
	status := c.Status
	if status == "" {
		status = StatusDraft
	}
	if _, found := state.StudyLifecycle.FindState(status); !found {
		return nil, fmt.Errorf("unknown status '%s': %w", status, domain.ErrInvalidArgument)
	}
	observed := ObservedTimes{Cycles: []observation.Cycle{}}
	if c.ObservedTimes != nil {
		observed = NewObservedTimes(c.ObservedTimes.Cycles)
		if err := observed.Validate(); err != nil {
			return nil, err
		}
	}
	if status == StatusCompleted && observed.ObservationsCount() == 0 {
		return nil, errNoObservations
	}

	now := types.CurrentTimestamp()
	study := &Study{
		ID:                   idgen.NextID(studyIdWorker),
		UserID:               s.Identity.ID,
		ProcessName:          name,
		Description:          c.Description,
		Status:               status,
		PerformanceRating:    params.PerformanceRating,
		SupplementPercentage: params.SupplementPercentage,
		ObservedTimes:        observed,
		Conclusions:          c.Conclusions,
		Recommendations:      c.Recommendations,
		CreateTime:           now,
		UpdateTime:           now,
	}
	recompute(study)

	var ev *event.EventRecord
	err = persistence.ActiveDataSourceManager.GormDB(s.Context).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(study).Error; err != nil {
			return err
		}
		var err error
		ev, err = createStudyEvent(study, event.EventCategoryCreated,
			event.UpdatedProperties{{PropertyName: "Status", PropertyDesc: "status", NewValue: study.Status}},
			&s.Identity, now, tx)
		return err
	})
	if err != nil {
		return nil, err
	}

	dispatchEvents(ev)
	return study, nil
}

// likeEscaper quotes the LIKE wildcards of user input with '!'.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// QueryStudies lists the live studies of the session user, newest first.
func QueryStudies(query *StudyQuery, s *session.Session) ([]Study, error) {
	if !s.Authenticated() {
		return nil, bizerror.ErrUnauthenticated
	}
	studies := []Study{}
	q := persistence.ActiveDataSourceManager.GormDB(s.Context).
		Where("user_id = ? AND delete_time = ?", s.Identity.ID, types.Timestamp{})
	if query != nil && query.Status != "" {
		q = q.Where("status = ?", query.Status)
	}
	if query != nil && strings.TrimSpace(query.Name) != "" {
		q = q.Where("process_name LIKE ? ESCAPE '!'", "%"+likeEscaper.Replace(strings.TrimSpace(query.Name))+"%")
	}
	if err := q.Order("create_time DESC").Order("id DESC").Find(&studies).Error; err != nil {
		return nil, err
	}
	return studies, nil
}

func DetailStudy(id types.ID, s *session.Session) (*Study, error) {
	return findLiveStudy(persistence.ActiveDataSourceManager.GormDB(s.Context), id, s)
}

func UpdateStudy(id types.ID, u *StudyUpdating, s *session.Session) (*Study, error) {
	var study *Study
	var events []*event.EventRecord
	err := persistence.ActiveDataSourceManager.GormDB(s.Context).Transaction(func(tx *gorm.DB) error {
		var err error
		study, err = findLiveStudy(tx, id, s)
		if err != nil {
			return err
		}

		props := event.UpdatedProperties{}
		if u.ProcessName != nil {
			name, err := validateProcessName(*u.ProcessName)
			if err != nil {
				return err
			}
			if name != study.ProcessName {
				props = append(props, event.UpdatedProperty{PropertyName: "ProcessName", PropertyDesc: "process name",
					OldValue: study.ProcessName, NewValue: name})
				study.ProcessName = name
			}
		}
		if u.Description != nil && *u.Description != study.Description {
			props = append(props, event.UpdatedProperty{PropertyName: "Description", PropertyDesc: "description",
				OldValue: study.Description, NewValue: *u.Description})
			study.Description = *u.Description
		}
		if u.Conclusions != nil && *u.Conclusions != study.Conclusions {
			props = append(props, event.UpdatedProperty{PropertyName: "Conclusions", PropertyDesc: "conclusions",
				OldValue: study.Conclusions, NewValue: *u.Conclusions})
			study.Conclusions = *u.Conclusions
		}
		if u.Recommendations != nil && *u.Recommendations != study.Recommendations {
			props = append(props, event.UpdatedProperty{PropertyName: "Recommendations", PropertyDesc: "recommendations",
				OldValue: study.Recommendations, NewValue: *u.Recommendations})
			study.Recommendations = *u.Recommendations
		}
		params := study.Params()
		if u.PerformanceRating != nil {
			params.PerformanceRating = *u.PerformanceRating
		}
		if u.SupplementPercentage != nil {
			params.SupplementPercentage = *u.SupplementPercentage
		}
		if err := validateParams(params); err != nil {
			return err
		}
		staysCompleted := study.Status == StatusCompleted && (u.Status == nil || *u.Status == StatusCompleted)
		if staysCompleted && params != study.Params() {
			return fmt.Errorf("study %v is completed, reopen it before changing parameters: %w", id, domain.ErrInvalidState)
		}
		if params.PerformanceRating != study.PerformanceRating {
			props = append(props, event.UpdatedProperty{PropertyName: "PerformanceRating", PropertyDesc: "performance rating",
				OldValue: formatFloat(study.PerformanceRating), NewValue: formatFloat(params.PerformanceRating)})
			study.PerformanceRating = params.PerformanceRating
		}
		if params.SupplementPercentage != study.SupplementPercentage {
			props = append(props, event.UpdatedProperty{PropertyName: "SupplementPercentage", PropertyDesc: "supplement percentage",
				OldValue: formatFloat(study.SupplementPercentage), NewValue: formatFloat(params.SupplementPercentage)})
			study.SupplementPercentage = params.SupplementPercentage
		}

		var statusProp *event.UpdatedProperty
		if u.Status != nil {
			statusProp, err = transit(study, *u.Status)
			if err != nil {
				return err
			}
		}
		if len(props) == 0 && statusProp == nil {
			return nil
		}

		now := types.CurrentTimestamp()
		study.UpdateTime = now
		recompute(study)
		if err := tx.Save(study).Error; err != nil {
			return err
		}
		if len(props) > 0 {
			ev, err := createStudyEvent(study, event.EventCategoryPropertyUpdated, props, &s.Identity, now, tx)
			if err != nil {
				return err
			}
			events = append(events, ev)
		}
		if statusProp != nil {
			ev, err := createStudyEvent(study, event.EventCategoryStateTransited, event.UpdatedProperties{*statusProp}, &s.Identity, now, tx)
			if err != nil {
				return err
			}
			events = append(events, ev)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	dispatchEvents(events...)
	return study, nil
}

// SaveObservations replaces the cycle list of a study which is not completed.
func SaveObservations(id types.ID, observed ObservedTimes, s *session.Session) (*Study, error) {
	observed = NewObservedTimes(observed.Cycles)
	if err := observed.Validate(); err != nil {
		return nil, err
	}

	var study *Study
	var ev *event.EventRecord
	err := persistence.ActiveDataSourceManager.GormDB(s.Context).Transaction(func(tx *gorm.DB) error {
		var err error
		study, err = findLiveStudy(tx, id, s)
		if err != nil {
			return err
		}
		if study.Status == StatusCompleted {
			return fmt.Errorf("study %v is completed, reopen it before editing observations: %w", id, domain.ErrInvalidState)
		}

		props := event.UpdatedProperties{
			{PropertyName: "CyclesCount", PropertyDesc: "cycles", OldValue: strconv.Itoa(len(study.ObservedTimes.Cycles)), NewValue: strconv.Itoa(len(observed.Cycles))},
			{PropertyName: "ObservationsCount", PropertyDesc: "observations", OldValue: strconv.Itoa(study.ObservedTimes.ObservationsCount()), NewValue: strconv.Itoa(observed.ObservationsCount())},
		}
		now := types.CurrentTimestamp()
		study.ObservedTimes = observed
		study.UpdateTime = now
		recompute(study)
		if err := tx.Save(study).Error; err != nil {
			return err
		}
		ev, err = createStudyEvent(study, event.EventCategoryObservationsUpdated, props, &s.Identity, now, tx)
		return err
	})
	if err != nil {
		return nil, err
	}

	dispatchEvents(ev)
	return study, nil
}

// CompleteStudy finalizes a study, completing an already completed study changes nothing.
func CompleteStudy(id types.ID, s *session.Session) (*Study, error) {
	status := StatusCompleted
	return UpdateStudy(id, &StudyUpdating{Status: &status}, s)
}

func StudyStats(s *session.Session) (*Stats, error) {
	if !s.Authenticated() {
		return nil, bizerror.ErrUnauthenticated
	}
	type statusCount struct {
		Status string
		Total  int
	}
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)

	var live []statusCount
	if err := db.Model(&Study{}).Select("status, count(*) as total").
		Where("user_id = ? AND delete_time = ?", s.Identity.ID, types.Timestamp{}).
		Group("status").Scan(&live).Error; err != nil {
		return nil, err
	}
	stats := Stats{}
	for _, c := range live {
		stats.Total += c.Total
		switch c.Status {
		case StatusDraft:
			stats.Draft += c.Total
		case StatusInProgress:
			stats.InProgress += c.Total
		case StatusCompleted:
			stats.Completed += c.Total
		}
	}
	if err := db.Model(&Study{}).Where("user_id = ? AND delete_time != ?", s.Identity.ID, types.Timestamp{}).
		Count(&stats.Trashed).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}

// LoadStudies pages over every study regardless of owner, used by the index synchronizer.
func LoadStudies(page, size int) ([]Study, error) {
	studies := []Study{}
	offset := (page - 1) * size
	if offset < 0 {
		offset = 0
	}
	db := persistence.ActiveDataSourceManager.GormDB(context.TODO())
	if err := db.Order("id ASC").Offset(offset).Limit(size).Find(&studies).Error; err != nil {
		return nil, err
	}
	return studies, nil
}

// LoadStudy finds a study regardless of its owner and trash state.
func LoadStudy(id types.ID) (*Study, error) {
	study := Study{}
	db := persistence.ActiveDataSourceManager.GormDB(context.TODO())
	if err := db.Where(&Study{ID: id}).First(&study).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("study %v: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}
	return &study, nil
}

var errNoObservations = fmt.Errorf("study has no observations: %w", domain.ErrInvalidArgument)

func transit(study *Study, to string) (*event.UpdatedProperty, error) {
	if to == study.Status {
		return nil, nil
	}
	if _, found := state.StudyLifecycle.FindState(to); !found {
		return nil, fmt.Errorf("unknown status '%s': %w", to, domain.ErrInvalidArgument)
	}
	if !state.StudyLifecycle.CanTransit(study.Status, to) {
		return nil, fmt.Errorf("transition from %s to %s: %w", study.Status, to, domain.ErrInvalidState)
	}
	if to == StatusCompleted && study.ObservedTimes.ObservationsCount() == 0 {
		return nil, errNoObservations
	}
	prop := &event.UpdatedProperty{PropertyName: "Status", PropertyDesc: "status", OldValue: study.Status, NewValue: to}
	study.Status = to
	return prop, nil
}

func findStudy(db *gorm.DB, id types.ID, s *session.Session) (*Study, error) {
	if !s.Authenticated() {
		return nil, bizerror.ErrUnauthenticated
	}
	var study Study
	if err := db.Where(&Study{ID: id}).First(&study).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("study %v: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}
	if study.UserID != s.Identity.ID {
		return nil, bizerror.ErrForbidden
	}
	return &study, nil
}

func findLiveStudy(db *gorm.DB, id types.ID, s *session.Session) (*Study, error) {
	study, err := findStudy(db, id, s)
	if err != nil {
		return nil, err
	}
	if !study.DeleteTime.IsZero() {
		return nil, fmt.Errorf("study %v is in trash: %w", id, domain.ErrNotFound)
	}
	return study, nil
}

// recompute refreshes the derived time columns, they are never taken from clients.
func recompute(study *Study) {
	p := study.Params()
	cycles := study.ObservedTimes.Cycles
	times := standard.ComputeOverall(cycles, p)
	study.CyclesCount = len(cycles)
	study.AverageTime = times.Average
	study.NormalTime = times.Normal
	study.StandardTime = times.Standard
}

func validateProcessName(name string) (string, error) {
	name = strings.TrimSpace(name)
	n := utf8.RuneCountInString(name)
	if n < MinProcessNameLength || n > MaxProcessNameLength {
		return "", fmt.Errorf("process name must have %d to %d characters: %w",
			MinProcessNameLength, MaxProcessNameLength, domain.ErrInvalidArgument)
	}
	return name, nil
}

func validateParams(p standard.Params) error {
	if p.PerformanceRating < 0 || p.PerformanceRating > MaxPerformanceRating {
		return fmt.Errorf("performance rating must be within 0..%d: %w", MaxPerformanceRating, domain.ErrInvalidArgument)
	}
	if p.SupplementPercentage < 0 || p.SupplementPercentage > MaxSupplement {
		return fmt.Errorf("supplement percentage must be within 0..%d: %w", MaxSupplement, domain.ErrInvalidArgument)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
