package bootnav

import (
	"gopkg.in/yaml.v3"
)

// TimingPolicy selects when the initial navigation runs relative to
// application composition.
type TimingPolicy string

const (
	// PolicyDisabled performs no automatic initial navigation. The location
	// listener is still installed so back/forward changes are observed.
	PolicyDisabled TimingPolicy = "disabled"
	// PolicyBlocking holds composition until the initial navigation reaches
	// pre-activation, then holds the navigation until composition completes.
	PolicyBlocking TimingPolicy = "blocking"
	// PolicyNonBlocking composes immediately and starts navigating afterwards.
	PolicyNonBlocking TimingPolicy = "non-blocking"

	DefaultPolicy = PolicyNonBlocking
)

// policyField is the config key reported in policy errors.
const policyField = "initial_navigation"

var policyAliases = map[string]TimingPolicy{
	"":                   DefaultPolicy,
	"disabled":           PolicyDisabled,
	"blocking":           PolicyBlocking,
	"non-blocking":       PolicyNonBlocking,
	"enabledBlocking":    PolicyBlocking,
	"enabledNonBlocking": PolicyNonBlocking,
}

// Policies returns the recognized policies in documentation order.
func Policies() []TimingPolicy {
	return []TimingPolicy{PolicyDisabled, PolicyBlocking, PolicyNonBlocking}
}

// ParsePolicy resolves a configuration value to a TimingPolicy.
// An empty value resolves to DefaultPolicy. Anything unrecognized fails
// with a *ConfigError wrapping ErrInvalidPolicy; it is never defaulted.
func ParsePolicy(raw string) (TimingPolicy, error) {
	p, ok := policyAliases[raw]
	if !ok {
		return "", &ConfigError{Field: policyField, Value: raw, Err: ErrInvalidPolicy}
	}
	return p, nil
}

// Validate reports whether p is usable. The zero value is valid and means
// DefaultPolicy.
func (p TimingPolicy) Validate() error {
	_, err := ParsePolicy(string(p))
	return err
}

// Resolved returns the canonical policy for p, mapping the zero value to
// DefaultPolicy. Unrecognized values are returned unchanged.
func (p TimingPolicy) Resolved() TimingPolicy {
	if r, err := ParsePolicy(string(p)); err == nil {
		return r
	}
	return p
}

func (p TimingPolicy) String() string {
	return string(p.Resolved())
}

// MarshalText implements encoding.TextMarshaler.
func (p TimingPolicy) MarshalText() ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return []byte(p.Resolved()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *TimingPolicy) UnmarshalText(text []byte) error {
	r, err := ParsePolicy(string(text))
	if err != nil {
		return err
	}
	*p = r
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (p *TimingPolicy) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return &ConfigError{Field: policyField, Value: node.Value, Err: err}
	}
	return p.UnmarshalText([]byte(raw))
}
