package study

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"

	"smartmethods/domain"
	"smartmethods/domain/observation"
)

// ObservedTimes is the persisted cycle list, serialized as {"cycles":[{"name":..,"observations":[ms..]}]}.
// A bare array of milliseconds is accepted on input and read as a single cycle.
type ObservedTimes struct {
	Cycles []observation.Cycle
}

type persistedCycle struct {
	Name         string  `json:"name"`
	Observations []int64 `json:"observations"`
}

type persistedObservedTimes struct {
	Cycles []persistedCycle `json:"cycles"`
}

// NewObservedTimes normalizes cycles for storage. The stored document has no auto-naming flag,
// so a cycle named after its position is taken as auto-named.
func NewObservedTimes(cycles []observation.Cycle) ObservedTimes {
	r := ObservedTimes{Cycles: make([]observation.Cycle, 0, len(cycles))}
	for i, c := range cycles {
		obs := make([]int64, len(c.Observations))
		copy(obs, c.Observations)
		name := strings.TrimSpace(c.Name)
		r.Cycles = append(r.Cycles, observation.Cycle{Name: name, Observations: obs, AutoNamed: observation.IsAutoName(name, i)})
	}
	return r
}

func (o ObservedTimes) Validate() error {
	return observation.ValidateCycles(o.Cycles)
}

func (o ObservedTimes) ObservationsCount() int {
	n := 0
	for _, c := range o.Cycles {
		n += len(c.Observations)
	}
	return n
}

func (o ObservedTimes) MarshalJSON() ([]byte, error) {
	p := persistedObservedTimes{Cycles: make([]persistedCycle, 0, len(o.Cycles))}
	for _, c := range o.Cycles {
		obs := c.Observations
		if obs == nil {
			obs = []int64{}
		}
		p.Cycles = append(p.Cycles, persistedCycle{Name: c.Name, Observations: obs})
	}
	return json.Marshal(&p)
}

func (o *ObservedTimes) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*o = ObservedTimes{Cycles: []observation.Cycle{}}
		return nil
	}

	var cycles []observation.Cycle
	if data[0] == '[' {
		var legacy []int64
		if err := json.Unmarshal(data, &legacy); err != nil {
			return fmt.Errorf("observed times: %v: %w", err, domain.ErrInvalidArgument)
		}
		if len(legacy) > 0 {
			cycles = []observation.Cycle{{Name: observation.AutoNamePrefix + "1", Observations: legacy}}
		}
	} else {
		var p persistedObservedTimes
		if err := json.Unmarshal(data, &p); err != nil {
			return fmt.Errorf("observed times: %v: %w", err, domain.ErrInvalidArgument)
		}
		for _, c := range p.Cycles {
			cycles = append(cycles, observation.Cycle{Name: c.Name, Observations: c.Observations})
		}
	}

	decoded := NewObservedTimes(cycles)
	if err := decoded.Validate(); err != nil {
		return fmt.Errorf("observed times: %w", err)
	}
	*o = decoded
	return nil
}

func (o ObservedTimes) Value() (driver.Value, error) {
	jsonBytes, err := json.Marshal(o)
	if err != nil {
		return nil, err
	}
	return string(jsonBytes), nil
}

func (o *ObservedTimes) Scan(v interface{}) error {
	if v == nil {
		*o = ObservedTimes{Cycles: []observation.Cycle{}}
		return nil
	}
	jsonString, ok := v.(string)
	if !ok {
		jsonByte, ok := v.([]byte)
		if !ok {
			return fmt.Errorf("type is neither string nor []byte: %T %v", v, v)
		}
		jsonString = string(jsonByte)
	}
	return o.UnmarshalJSON([]byte(jsonString))
}
