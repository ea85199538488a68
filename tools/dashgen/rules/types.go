// Package rules generates Prometheus recording and alert rule files
// as Kubernetes PrometheusRule custom resources.
package rules

const (
	apiVersion = "monitoring.coreos.com/v1"
	kind       = "PrometheusRule"

	// ruleSelector is the label the Prometheus Operator instance selects
	// PrometheusRule resources by.
	ruleSelector = "system-rules-prometheus"
)

// PrometheusRule is a Kubernetes custom resource for Prometheus Operator.
type PrometheusRule struct {
	APIVersion string                 `yaml:"apiVersion"`
	Kind       string                 `yaml:"kind"`
	Metadata   PrometheusRuleMetadata `yaml:"metadata"`
	Spec       PrometheusRuleSpec     `yaml:"spec"`
}

// PrometheusRuleMetadata holds the CR metadata fields.
type PrometheusRuleMetadata struct {
	Name   string            `yaml:"name"`
	Labels map[string]string `yaml:"labels,omitempty"`
}

// PrometheusRuleSpec holds the rule groups.
type PrometheusRuleSpec struct {
	Groups []RuleGroup `yaml:"groups"`
}

// RuleGroup is a named collection of recording or alerting rules.
type RuleGroup struct {
	Name     string `yaml:"name"`
	Interval string `yaml:"interval,omitempty"`
	Rules    []Rule `yaml:"rules"`
}

// Rule is a single recording or alerting rule.
// Use Record for recording rules and Alert for alerting rules.
type Rule struct {
	Record      string            `yaml:"record,omitempty"`
	Alert       string            `yaml:"alert,omitempty"`
	Expr        string            `yaml:"expr"`
	For         string            `yaml:"for,omitempty"`
	Labels      map[string]string `yaml:"labels,omitempty"`
	Annotations map[string]string `yaml:"annotations,omitempty"`
}

// newPrometheusRule wraps groups in a CR selected by the cluster's rule
// Prometheus.
func newPrometheusRule(name string, groups ...RuleGroup) PrometheusRule {
	return PrometheusRule{
		APIVersion: apiVersion,
		Kind:       kind,
		Metadata: PrometheusRuleMetadata{
			Name:   name,
			Labels: map[string]string{"prometheus": ruleSelector},
		},
		Spec: PrometheusRuleSpec{Groups: groups},
	}
}

func record(name, expr string) Rule {
	return Rule{Record: name, Expr: expr}
}

func severity(level string) map[string]string {
	return map[string]string{"severity": level}
}
