package jobs

import (
	"encoding/json"
	"strconv"
	"strings"
)

// FieldRule names one candidate key for a canonical field. When the value under Key is an
// object, SubKeys are tried in order; when it is an array, its first element is used.
type FieldRule struct {
	Key     string
	SubKeys []string
}

var nameKeys = []string{"name", "nome", "title"}

var (
	IDRules = []FieldRule{{Key: "id"}, {Key: "job_id"}}

	TitleRules = []FieldRule{{Key: "title"}, {Key: "titulo"}, {Key: "job_title"}}

	CompanyRules = []FieldRule{
		{Key: "company", SubKeys: nameKeys},
		{Key: "empresa", SubKeys: nameKeys},
		{Key: "company_name"},
		{Key: "companyName"},
		{Key: "empresa_nome"},
	}

	DescriptionRules = []FieldRule{
		{Key: "description"}, {Key: "descricao"}, {Key: "job_description"}, {Key: "body"},
	}

	LocationRules = []FieldRule{
		{Key: "locations", SubKeys: []string{"name", "title", "nome"}},
		{Key: "location", SubKeys: []string{"name", "title", "nome"}},
		{Key: "localizacao"},
		{Key: "localidade"},
		{Key: "city"},
		{Key: "region"},
		{Key: "zona"},
	}

	TypeRules = []FieldRule{
		{Key: "type", SubKeys: []string{"name", "title"}},
		{Key: "tipo"},
		{Key: "employment_type"},
		{Key: "contract_type"},
		{Key: "contract"},
		{Key: "types", SubKeys: []string{"name", "title"}},
	}

	DateRules = []FieldRule{
		{Key: "publishedAt"}, {Key: "date"}, {Key: "date_published"}, {Key: "published_at"}, {Key: "data"},
	}

	SalaryRules = []FieldRule{{Key: "salary"}, {Key: "salario"}, {Key: "wage"}}
)

// Resolve evaluates rules in order and returns the first non-empty value.
func Resolve(fields map[string]any, rules []FieldRule) (string, bool) {
	if fields == nil {
		return "", false
	}
	for _, rule := range rules {
		v, ok := fields[rule.Key]
		if !ok || v == nil {
			continue
		}
		if s, ok := ruleValue(v, rule.SubKeys); ok {
			return s, true
		}
	}
	return "", false
}

// ResolveOr is Resolve with a default.
func ResolveOr(fields map[string]any, rules []FieldRule, fallback string) string {
	if s, ok := Resolve(fields, rules); ok {
		return s
	}
	return fallback
}

func ruleValue(v any, subKeys []string) (string, bool) {
	if arr, ok := v.([]any); ok {
		if len(arr) == 0 {
			return "", false
		}
		v = arr[0]
	}
	if obj, ok := v.(map[string]any); ok {
		for _, key := range subKeys {
			if s, ok := scalarString(obj[key]); ok {
				return s, true
			}
		}
		return "", false
	}
	return scalarString(v)
}

func scalarString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		return s, s != ""
	case json.Number:
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	}
	return "", false
}
