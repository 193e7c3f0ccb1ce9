// ABOUTME: Set model and the set-type normalizer.
// ABOUTME: Resolves legacy warmup flags and coerces malformed numbers to zero.
package models

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// SetType classifies a logged set.
type SetType string

const (
	SetWarmup  SetType = "warmup"
	SetWork    SetType = "work"
	SetDrop    SetType = "drop"
	SetFailure SetType = "failure"
	SetTempo   SetType = "tempo"
	SetPause   SetType = "pause"
)

// AllSetTypes lists every valid set type.
var AllSetTypes = []SetType{SetWarmup, SetWork, SetDrop, SetFailure, SetTempo, SetPause}

// IsValid reports whether t is one of the known set types.
func (t SetType) IsValid() bool {
	for _, v := range AllSetTypes {
		if t == v {
			return true
		}
	}
	return false
}

// Set is a single logged set of an exercise.
type Set struct {
	Kg        float64 `json:"kg" yaml:"kg"`
	Reps      int     `json:"reps" yaml:"reps"`
	Completed bool    `json:"completed" yaml:"completed,omitempty"`
	SetType   SetType `json:"setType,omitempty" yaml:"set_type,omitempty"`
	// Warmup is the legacy flag used before SetType existed.
	Warmup   bool   `json:"warmup,omitempty" yaml:"warmup,omitempty"`
	RIR      *int   `json:"rir,omitempty" yaml:"rir,omitempty"`
	Tempo    string `json:"tempo,omitempty" yaml:"tempo,omitempty"`
	PauseSec int    `json:"pauseSec,omitempty" yaml:"pause_sec,omitempty"`

	IsBest1RM        bool `json:"isBest1RM,omitempty" yaml:"-"`
	IsBestSetVolume  bool `json:"isBestSetVolume,omitempty" yaml:"-"`
	IsHeaviestWeight bool `json:"isHeaviestWeight,omitempty" yaml:"-"`
}

// ResolveSetType returns the explicit set type when valid, otherwise derives
// it from the legacy warmup flag.
func ResolveSetType(s Set) SetType {
	if s.SetType.IsValid() {
		return s.SetType
	}
	if s.Warmup {
		return SetWarmup
	}
	return SetWork
}

// IsWorkSet reports whether the set counts toward analytics.
func IsWorkSet(s Set) bool {
	return s.Completed && ResolveSetType(s) != SetWarmup
}

// Volume returns kg*reps for the set.
func (s Set) Volume() float64 {
	return s.Kg * float64(s.Reps)
}

// NormalizeSetForStorage returns a self-describing copy of s. fallback is
// used when s carries neither a valid type nor the legacy warmup flag.
func NormalizeSetForStorage(s Set, fallback SetType) Set {
	typ := s.SetType
	if !typ.IsValid() {
		switch {
		case s.Warmup:
			typ = SetWarmup
		case fallback.IsValid():
			typ = fallback
		default:
			typ = SetWork
		}
	}

	out := s
	out.SetType = typ
	out.Warmup = typ == SetWarmup
	if out.RIR != nil && *out.RIR < 0 {
		out.RIR = nil
	}
	out.Tempo = strings.TrimSpace(out.Tempo)
	if out.PauseSec < 0 {
		out.PauseSec = 0
	}
	if out.Kg < 0 || math.IsNaN(out.Kg) || math.IsInf(out.Kg, 0) {
		out.Kg = 0
	}
	if out.Reps < 0 {
		out.Reps = 0
	}
	return out
}

// ClearRecordFlags returns s with all personal-record flags reset.
func (s Set) ClearRecordFlags() Set {
	s.IsBest1RM = false
	s.IsBestSetVolume = false
	s.IsHeaviestWeight = false
	return s
}

// UnmarshalJSON decodes a set, coercing non-numeric kg/reps/rir/pauseSec to 0
// so stored history never fails to load.
func (s *Set) UnmarshalJSON(data []byte) error {
	type alias Set
	aux := struct {
		*alias
		Kg       any `json:"kg"`
		Reps     any `json:"reps"`
		RIR      any `json:"rir"`
		PauseSec any `json:"pauseSec"`
	}{alias: (*alias)(s)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	s.Kg = CoerceNumber(aux.Kg)
	s.Reps = int(CoerceNumber(aux.Reps))
	s.PauseSec = int(CoerceNumber(aux.PauseSec))
	s.RIR = nil
	if aux.RIR != nil {
		rir := int(CoerceNumber(aux.RIR))
		s.RIR = &rir
	}
	return nil
}

// CoerceNumber converts an arbitrary decoded JSON value into a finite number,
// returning 0 for anything that is not numeric.
func CoerceNumber(v any) float64 {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		f = parsed
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
