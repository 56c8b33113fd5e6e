// Package filter decides which targets and levels are observable.
//
// A configuration is a comma separated list of entries, each either
// "target" or "target=level", for example "runtime=debug,net". A target is
// matched as a literal prefix. An entry without a level, or with a level
// that does not parse, observes everything up to TRACE.
package filter

import (
	"github.com/thapovan-inc/orion-trace-correlator/record"
	"strings"
)

type Rule struct {
	Prefix    string
	Threshold record.Level
}

type TargetFilter struct {
	rules []Rule
}

func Parse(config string) *TargetFilter {
	entries := strings.Split(config, ",")
	rules := make([]Rule, 0, len(entries))
	for _, entry := range entries {
		rules = append(rules, parseRule(strings.TrimSpace(entry)))
	}
	return &TargetFilter{rules: rules}
}

// Malformed levels default to TRACE without complaint.
func parseRule(entry string) Rule {
	i := strings.IndexByte(entry, '=')
	if i < 0 {
		return Rule{Prefix: entry, Threshold: record.TRACE}
	}
	level, err := record.ParseLevel(entry[i+1:])
	if err != nil {
		level = record.TRACE
	}
	return Rule{Prefix: entry[:i], Threshold: level}
}

// IsEnabled reports whether some rule's prefix matches target and admits
// level.
func (f *TargetFilter) IsEnabled(target string, level record.Level) bool {
	for _, r := range f.rules {
		if strings.HasPrefix(target, r.Prefix) && level.Enabled(r.Threshold) {
			return true
		}
	}
	return false
}

// IsObservable is IsEnabled with the proxy target always let through.
func (f *TargetFilter) IsObservable(target string, level record.Level) bool {
	return target == record.ProxyTarget || f.IsEnabled(target, level)
}

func (f *TargetFilter) Rules() []Rule {
	rules := make([]Rule, len(f.rules))
	copy(rules, f.rules)
	return rules
}

func (f *TargetFilter) String() string {
	entries := make([]string, len(f.rules))
	for i, r := range f.rules {
		entries[i] = r.Prefix + "=" + strings.ToLower(r.Threshold.String())
	}
	return strings.Join(entries, ",")
}
