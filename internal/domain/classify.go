package domain

import "strings"

// Category icons stored alongside each diagnostic.
const (
	IconError    = "❌"
	IconWarning  = "⚠️"
	IconQuestion = "❓"
	IconArchive  = "📦"
	IconInfo     = "ℹ️"
	IconFix      = "🔧"
	IconEdit     = "✏️"
	IconMuted    = "⚪"
)

// CategoryOther is assigned when no rule matches.
const CategoryOther = "Other"

// Classification is the metadata derived from a diagnostic message.
type Classification struct {
	Category string `json:"category"`
	Severity string `json:"severity"`
	Icon     string `json:"icon"`
}

// Rule maps a literal keyword to a classification.
type Rule struct {
	Keyword string
	Classification
}

// Rules is the ordered classification table. The first rule whose keyword
// occurs in the message wins, so order matters.
var Rules = []Rule{
	{"is not defined", Classification{"Undefined", SeverityError, IconError}},
	{"Cannot access member", Classification{"Type", SeverityWarning, IconWarning}},
	{"has no attribute", Classification{"Attribute", SeverityError, IconQuestion}},
	{"Import", Classification{"Import", SeverityError, IconArchive}},
	{"Argument missing", Classification{"Arguments", SeverityError, IconInfo}},
	{"Too many arguments", Classification{"Arguments", SeverityError, IconInfo}},
	{"Expected", Classification{"Syntax", SeverityError, IconFix}},
	{"Indentation", Classification{"Indentation", SeverityError, IconEdit}},
	{"not used", Classification{"Unused", SeverityInfo, IconMuted}},
	{"reportUnusedImport", Classification{"Unused", SeverityInfo, IconMuted}},
}

// DefaultClassification is returned when no rule matches.
var DefaultClassification = Classification{CategoryOther, SeverityWarning, IconInfo}

// Classify returns the classification of the first matching rule.
func Classify(message string) Classification {
	return ClassifyWith(Rules, message)
}

// ClassifyWith classifies message against an explicit rule table.
func ClassifyWith(rules []Rule, message string) Classification {
	for _, r := range rules {
		if strings.Contains(message, r.Keyword) {
			return r.Classification
		}
	}
	return DefaultClassification
}

// IconFor returns the icon of the first rule declaring category.
func IconFor(category string) string {
	for _, r := range Rules {
		if r.Category == category {
			return r.Icon
		}
	}
	return IconInfo
}

// Enrich attaches category, icon and effective severity to d.
// A severity reported by the analyzer wins over the derived one.
func Enrich(d Diagnostic) Diagnostic {
	c := Classify(d.Message)
	d.Category = c.Category
	d.CategoryIcon = c.Icon
	if sev := NormalizeSeverity(d.Severity); sev != "" {
		d.Severity = sev
	} else {
		d.Severity = c.Severity
	}
	return d
}
