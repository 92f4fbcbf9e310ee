package core

import (
	"fmt"
	"strconv"
	"strings"
)

// RangeACL is the default ACL implementation: one PERMIT/DENY range-rule
// list applied to source IDs and a second to talkgroup IDs, grounded
// nearly verbatim on the teacher's pkg/peer/acl.go ("PERMIT:ALL",
// "DENY:1,1000-2000,4500" grammar) since DMR/P25/NXDN ACL files in the
// wild use the identical permit/deny range-list shape. This is a
// convenience default the CLI and tests use to satisfy the ACL
// capability standalone; it is not "the" ACL system spec.md's Non-goals
// exclude.
type RangeACL struct {
	srcRules *ruleSet
	tgRules  *ruleSet
}

// NewRangeACL builds a RangeACL from a source-ID rule string and a
// talkgroup-ID rule string, each in "ACTION:RULE[,RULE]..." form.
func NewRangeACL(srcRule, tgRule string) (*RangeACL, error) {
	src, err := parseRuleSet(srcRule)
	if err != nil {
		return nil, fmt.Errorf("core: parsing source ACL: %w", err)
	}
	tg, err := parseRuleSet(tgRule)
	if err != nil {
		return nil, fmt.Errorf("core: parsing talkgroup ACL: %w", err)
	}
	return &RangeACL{srcRules: src, tgRules: tg}, nil
}

// ValidateSrcID implements ACL.
func (a *RangeACL) ValidateSrcID(id uint32) bool { return a.srcRules.check(id) }

// ValidateTGID implements ACL.
func (a *RangeACL) ValidateTGID(id uint32) bool { return a.tgRules.check(id) }

type ruleAction int

const (
	rulePermit ruleAction = iota
	ruleDeny
)

type ruleKind int

const (
	ruleAll ruleKind = iota
	ruleSingle
	ruleRange
)

type rule struct {
	kind  ruleKind
	id    uint32
	start uint32
	end   uint32
}

func (r rule) matches(id uint32) bool {
	switch r.kind {
	case ruleAll:
		return true
	case ruleSingle:
		return r.id == id
	case ruleRange:
		return id >= r.start && id <= r.end
	default:
		return false
	}
}

type ruleSet struct {
	action ruleAction
	rules  []rule
}

func (s *ruleSet) check(id uint32) bool {
	matched := false
	for _, r := range s.rules {
		if r.matches(id) {
			matched = true
			break
		}
	}
	if s.action == rulePermit {
		return matched
	}
	return !matched
}

// parseRuleSet parses an "ACTION:RULE[,RULE]..." string, e.g.
// "PERMIT:ALL" or "DENY:1,1000-2000,4500".
func parseRuleSet(s string) (*ruleSet, error) {
	if s == "" {
		return nil, fmt.Errorf("empty ACL rule")
	}
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid ACL format: missing colon")
	}

	var action ruleAction
	switch strings.ToUpper(parts[0]) {
	case "PERMIT":
		action = rulePermit
	case "DENY":
		action = ruleDeny
	default:
		return nil, fmt.Errorf("invalid ACL action: %s", parts[0])
	}

	set := &ruleSet{action: action}
	for _, raw := range strings.Split(parts[1], ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if strings.ToUpper(raw) == "ALL" {
			set.rules = append(set.rules, rule{kind: ruleAll})
			continue
		}
		if strings.Contains(raw, "-") {
			rangeParts := strings.Split(raw, "-")
			if len(rangeParts) != 2 {
				return nil, fmt.Errorf("invalid range format: %s", raw)
			}
			start, err := strconv.ParseUint(strings.TrimSpace(rangeParts[0]), 10, 32)
			if err != nil {
				return nil, fmt.Errorf("invalid range start: %s", rangeParts[0])
			}
			end, err := strconv.ParseUint(strings.TrimSpace(rangeParts[1]), 10, 32)
			if err != nil {
				return nil, fmt.Errorf("invalid range end: %s", rangeParts[1])
			}
			if start > end {
				return nil, fmt.Errorf("invalid range: start (%d) > end (%d)", start, end)
			}
			set.rules = append(set.rules, rule{kind: ruleRange, start: uint32(start), end: uint32(end)})
			continue
		}
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid ID: %s", raw)
		}
		set.rules = append(set.rules, rule{kind: ruleSingle, id: uint32(id)})
	}
	if len(set.rules) == 0 {
		return nil, fmt.Errorf("no rules specified")
	}
	return set, nil
}
