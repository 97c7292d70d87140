package tzdata

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/coolbeans/chronocore/pkg/civil"
	"github.com/coolbeans/chronocore/pkg/temporal"
	"github.com/coolbeans/chronocore/pkg/zone"
)

// ZoneFile is the on-disk form of one zone. Offsets use the ZoneOffset id
// syntax ("-05:00", "Z"); local date-times use 2006-01-02T15:04[:05].
type ZoneFile struct {
	ID                  string           `yaml:"id"`
	StandardOffset      string           `yaml:"standard_offset"`
	WallOffset          string           `yaml:"wall_offset,omitempty"`
	StandardTransitions []TransitionSpec `yaml:"standard_transitions,omitempty"`
	Transitions         []TransitionSpec `yaml:"transitions,omitempty"`
	Rules               []RuleSpec       `yaml:"rules,omitempty"`
}

// TransitionSpec is a historic transition given by the local date-time
// just before it and the offsets on either side.
type TransitionSpec struct {
	Local  string `yaml:"local"`
	Before string `yaml:"before"`
	After  string `yaml:"after"`
}

// RuleSpec is a recurring yearly transition.
type RuleSpec struct {
	Month          int    `yaml:"month"`
	DayOfMonth     int    `yaml:"day_of_month"`
	DayOfWeek      string `yaml:"day_of_week,omitempty"`
	Time           string `yaml:"time"`
	EndOfDay       bool   `yaml:"end_of_day,omitempty"`
	TimeDefinition string `yaml:"time_definition,omitempty"`
	StandardOffset string `yaml:"standard_offset"`
	OffsetBefore   string `yaml:"offset_before"`
	OffsetAfter    string `yaml:"offset_after"`
}

// errMissing marks a required key that is absent or empty.
var errMissing = errors.New("required field is missing")

// FieldError is a problem with one value of a zone file, addressed by its
// YAML path such as transitions[0].local.
type FieldError struct {
	Path string
	Err  error
}

func (e *FieldError) Error() string { return e.Path + ": " + e.Err.Error() }

func (e *FieldError) Unwrap() error { return e.Err }

// ValidationError lists every problem found in one zone file. It unwraps
// to the individual field errors.
type ValidationError struct {
	File   string // empty when the document did not come from a provider
	ZoneID string
	Fields []*FieldError
}

func (e *ValidationError) Error() string {
	name := e.File
	if name == "" {
		name = e.ZoneID
	}
	if name == "" {
		name = "zone file"
	}
	problems := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		problems[i] = f.Error()
	}
	return name + ": " + strings.Join(problems, "; ")
}

func (e *ValidationError) Unwrap() []error {
	errs := make([]error, len(e.Fields))
	for i, f := range e.Fields {
		errs[i] = f
	}
	return errs
}

func (e *ValidationError) add(path string, err error) {
	e.Fields = append(e.Fields, &FieldError{Path: path, Err: err})
}

// ParseZoneFile decodes a single YAML zone document. Unknown keys are
// rejected.
func ParseZoneFile(data []byte) (*ZoneFile, error) {
	return parseZoneFile("", data)
}

// parseZoneFile is ParseZoneFile for a document read from file.
func parseZoneFile(file string, data []byte) (*ZoneFile, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var zf ZoneFile
	if err := dec.Decode(&zf); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidZoneFile)
		}
		return nil, fmt.Errorf("%w: parsing YAML: %w", ErrInvalidZoneFile, err)
	}
	if err := zf.validate(file); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidZoneFile, err)
	}
	return &zf, nil
}

// Validate checks every field that can be checked without building rules.
// The error, if any, is a *ValidationError.
func (zf *ZoneFile) Validate() error {
	return zf.validate("")
}

func (zf *ZoneFile) validate(file string) error {
	verr := &ValidationError{File: file, ZoneID: zf.ID}

	if zf.ID == "" {
		verr.add("id", errMissing)
	}
	if zf.StandardOffset == "" {
		verr.add("standard_offset", errMissing)
	} else if _, err := zone.ParseOffset(zf.StandardOffset); err != nil {
		verr.add("standard_offset", err)
	}
	if zf.WallOffset != "" {
		if _, err := zone.ParseOffset(zf.WallOffset); err != nil {
			verr.add("wall_offset", err)
		}
	}

	for i, t := range zf.StandardTransitions {
		t.validate(verr, fmt.Sprintf("standard_transitions[%d]", i))
	}
	for i, t := range zf.Transitions {
		t.validate(verr, fmt.Sprintf("transitions[%d]", i))
	}
	for i, r := range zf.Rules {
		if _, err := r.rule(); err != nil {
			verr.add(fmt.Sprintf("rules[%d]", i), err)
		}
	}
	if len(verr.Fields) == 0 {
		return nil
	}
	return verr
}

func (t TransitionSpec) validate(verr *ValidationError, path string) {
	if _, err := civil.ParseDateTime(t.Local); err != nil {
		verr.add(path+".local", err)
	}
	before, err1 := zone.ParseOffset(t.Before)
	if err1 != nil {
		verr.add(path+".before", err1)
	}
	after, err2 := zone.ParseOffset(t.After)
	if err2 != nil {
		verr.add(path+".after", err2)
	}
	if err1 == nil && err2 == nil && before == after {
		verr.add(path, fmt.Errorf("%w: before and after offsets must differ (%s)", temporal.ErrInvalidArgument, t.Before))
	}
}

func (t TransitionSpec) transition() (zone.ZoneOffsetTransition, error) {
	local, err := civil.ParseDateTime(t.Local)
	if err != nil {
		return zone.ZoneOffsetTransition{}, err
	}
	before, err := zone.ParseOffset(t.Before)
	if err != nil {
		return zone.ZoneOffsetTransition{}, err
	}
	after, err := zone.ParseOffset(t.After)
	if err != nil {
		return zone.ZoneOffsetTransition{}, err
	}
	return zone.NewTransition(local, before, after)
}

func (r RuleSpec) rule() (zone.TransitionRule, error) {
	var rule zone.TransitionRule
	var err error

	rule.Month = r.Month
	rule.DayOfMonthIndicator = r.DayOfMonth
	if r.DayOfWeek != "" {
		if rule.DayOfWeek, err = civil.ParseWeekday(r.DayOfWeek); err != nil {
			return rule, err
		}
	}
	if rule.Time, err = civil.ParseTime(r.Time); err != nil {
		return rule, err
	}
	rule.TimeEndOfDay = r.EndOfDay
	definition := r.TimeDefinition
	if definition == "" {
		definition = zone.WallTime.String()
	}
	if rule.TimeDefinition, err = zone.ParseTimeDefinition(definition); err != nil {
		return rule, err
	}
	if rule.StandardOffset, err = zone.ParseOffset(r.StandardOffset); err != nil {
		return rule, err
	}
	if rule.OffsetBefore, err = zone.ParseOffset(r.OffsetBefore); err != nil {
		return rule, err
	}
	if rule.OffsetAfter, err = zone.ParseOffset(r.OffsetAfter); err != nil {
		return rule, err
	}
	return rule, rule.Validate()
}

// BuildRules converts the file into zone rules. A zone with no
// transitions, no rules and matching offsets yields fixed rules.
func (zf *ZoneFile) BuildRules() (*zone.ZoneRules, error) {
	standard, err := zone.ParseOffset(zf.StandardOffset)
	if err != nil {
		return nil, fmt.Errorf("zone %s: standard offset: %w", zf.ID, err)
	}
	wall := standard
	if zf.WallOffset != "" {
		if wall, err = zone.ParseOffset(zf.WallOffset); err != nil {
			return nil, fmt.Errorf("zone %s: wall offset: %w", zf.ID, err)
		}
	}
	if len(zf.StandardTransitions) == 0 && len(zf.Transitions) == 0 && len(zf.Rules) == 0 && wall == standard {
		return zone.FixedRules(standard), nil
	}

	standardTransitions, err := buildTransitions(zf.StandardTransitions)
	if err != nil {
		return nil, fmt.Errorf("zone %s: standard transitions: %w", zf.ID, err)
	}
	transitions, err := buildTransitions(zf.Transitions)
	if err != nil {
		return nil, fmt.Errorf("zone %s: transitions: %w", zf.ID, err)
	}
	rules := make([]zone.TransitionRule, 0, len(zf.Rules))
	for i, spec := range zf.Rules {
		rule, err := spec.rule()
		if err != nil {
			return nil, fmt.Errorf("zone %s: rule %d: %w", zf.ID, i, err)
		}
		rules = append(rules, rule)
	}

	zr, err := zone.NewRules(standard, wall, standardTransitions, transitions, rules)
	if err != nil {
		return nil, fmt.Errorf("zone %s: %w", zf.ID, err)
	}
	return zr, nil
}

func buildTransitions(specs []TransitionSpec) ([]zone.ZoneOffsetTransition, error) {
	out := make([]zone.ZoneOffsetTransition, 0, len(specs))
	for i, spec := range specs {
		t, err := spec.transition()
		if err != nil {
			return nil, fmt.Errorf("transition %d: %w", i, err)
		}
		out = append(out, t)
	}
	return out, nil
}
