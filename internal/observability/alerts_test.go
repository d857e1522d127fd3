package observability

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type ruleFile struct {
	Groups []struct {
		Name  string `yaml:"name"`
		Rules []struct {
			Alert       string            `yaml:"alert"`
			Expr        string            `yaml:"expr"`
			For         string            `yaml:"for"`
			Labels      map[string]string `yaml:"labels"`
			Annotations map[string]string `yaml:"annotations"`
		} `yaml:"rules"`
	} `yaml:"groups"`
}

var metricName = regexp.MustCompile(`casetrail_[a-z_]+`)

func loadRules(t *testing.T) ruleFile {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "..", "deploy", "prometheus", "alerts", "casetrail.yml"))
	require.NoError(t, err)
	var rules ruleFile
	require.NoError(t, yaml.Unmarshal(data, &rules))
	require.Len(t, rules.Groups, 1)
	require.Equal(t, "casetrail", rules.Groups[0].Name)
	return rules
}

func TestAlertRulesAreComplete(t *testing.T) {
	want := map[string]string{
		"HighErrorRate":  "critical",
		"HighLatency":    "warning",
		"NoticeFailures": "warning",
	}
	group := loadRules(t).Groups[0]
	require.Len(t, group.Rules, len(want))

	runbook, err := os.ReadFile(filepath.Join("..", "..", "docs", "runbook.md"))
	require.NoError(t, err)
	anchors := map[string]bool{}
	for _, line := range strings.Split(string(runbook), "\n") {
		if heading, ok := strings.CutPrefix(line, "## "); ok {
			anchors[strings.ReplaceAll(strings.ToLower(heading), " ", "-")] = true
		}
	}

	for _, rule := range group.Rules {
		severity, ok := want[rule.Alert]
		require.True(t, ok, "unexpected rule %q", rule.Alert)
		assert.Equal(t, severity, rule.Labels["severity"], rule.Alert)
		assert.NotEmpty(t, rule.For, rule.Alert)
		assert.NotEmpty(t, rule.Annotations["summary"], rule.Alert)
		assert.NotEmpty(t, rule.Annotations["description"], rule.Alert)
		anchor, ok := strings.CutPrefix(rule.Annotations["runbook"], "docs/runbook.md#")
		assert.True(t, ok && anchors[anchor], "rule %s links a missing runbook section", rule.Alert)
	}
}

// Every series an alert queries must be one the service exports.
func TestAlertRulesQueryExportedMetrics(t *testing.T) {
	metrics := NewMetrics()
	metrics.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {})).
		ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/cases", nil))
	_ = metrics.Jobs().Start("notify:transfer").Finish(errors.New("smtp down"))

	families, err := metrics.registry.Gather()
	require.NoError(t, err)
	exported := make(map[string]bool, len(families))
	for _, f := range families {
		exported[f.GetName()] = true
	}

	for _, rule := range loadRules(t).Groups[0].Rules {
		names := metricName.FindAllString(rule.Expr, -1)
		require.NotEmpty(t, names, rule.Alert)
		for _, name := range names {
			name = strings.TrimSuffix(name, "_bucket")
			assert.True(t, exported[name], "rule %s queries unknown metric %s", rule.Alert, name)
		}
	}
}
