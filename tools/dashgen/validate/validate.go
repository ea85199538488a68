// Package validate checks generated dashboards and rule files: every PromQL
// expression must parse, and every metric it selects must be one the service
// actually exports (or a recording rule we generate).
package validate

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/grafana/grafana-foundation-sdk/go/dashboard"
	"github.com/prometheus/prometheus/promql/parser"

	"github.com/donaldgifford/catalog-search/tools/dashgen/rules"
)

// Result collects problems found during validation. Errors fail generation;
// warnings are reported but do not.
type Result struct {
	Errors   []string
	Warnings []string
}

// Ok reports whether validation found no errors.
func (r Result) Ok() bool { return len(r.Errors) == 0 }

func (r *Result) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Result) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Merge appends other's findings to r.
func (r *Result) Merge(other Result) {
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
}

// Dashboard validates every query expression in dash against known.
func Dashboard(dash dashboard.Dashboard, known map[string]bool) Result {
	var res Result

	raw, err := json.Marshal(dash)
	if err != nil {
		res.errorf("marshaling dashboard: %v", err)
		return res
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		res.errorf("decoding dashboard: %v", err)
		return res
	}

	exprs := collectExprs(doc, nil)
	if len(exprs) == 0 {
		res.warnf("dashboard has no query expressions")
	}
	for _, e := range exprs {
		res.Merge(Expr(e, known))
	}
	return res
}

// Rules validates a PrometheusRule. Records defined in the same resource
// count as known for the expressions that follow them.
func Rules(pr rules.PrometheusRule, known map[string]bool) Result {
	var res Result

	for _, g := range pr.Spec.Groups {
		for _, rule := range g.Rules {
			name := rule.Record
			if name == "" {
				name = rule.Alert
			}
			if name == "" {
				res.errorf("group %s: rule has neither record nor alert", g.Name)
				continue
			}
			if rule.Record != "" && !known[rule.Record] {
				res.warnf("record %s is not listed in known metrics", rule.Record)
			}
			if rule.Alert != "" && rule.Labels["severity"] == "" {
				res.warnf("alert %s has no severity label", rule.Alert)
			}

			r := Expr(rule.Expr, known)
			for _, e := range r.Errors {
				res.errorf("%s: %s", name, e)
			}
			res.Warnings = append(res.Warnings, r.Warnings...)
		}
	}
	return res
}

// Expr parses a single PromQL expression and checks the metrics it selects.
func Expr(expr string, known map[string]bool) Result {
	var res Result

	node, err := parser.ParseExpr(expr)
	if err != nil {
		res.errorf("parsing %q: %v", expr, err)
		return res
	}

	for _, name := range Metrics(node) {
		if !known[name] && !known[histogramFamily(name)] {
			res.errorf("unknown metric %q in %q", name, expr)
		}
	}
	return res
}

// Metrics returns the distinct metric names selected by node, sorted.
func Metrics(node parser.Node) []string {
	seen := map[string]bool{}
	parser.Inspect(node, func(n parser.Node, _ []parser.Node) error {
		if vs, ok := n.(*parser.VectorSelector); ok && vs.Name != "" {
			seen[vs.Name] = true
		}
		return nil
	})

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func histogramFamily(name string) string {
	for _, suffix := range []string{"_bucket", "_sum", "_count"} {
		if base, ok := strings.CutSuffix(name, suffix); ok {
			return base
		}
	}
	return name
}

func collectExprs(v any, out []string) []string {
	switch node := v.(type) {
	case map[string]any:
		if e, ok := node["expr"].(string); ok && e != "" {
			out = append(out, e)
		}
		keys := make([]string, 0, len(node))
		for k := range node {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			out = collectExprs(node[k], out)
		}
	case []any:
		for _, child := range node {
			out = collectExprs(child, out)
		}
	}
	return out
}
