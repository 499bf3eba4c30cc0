package fees

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"lendcore/native/numeric"
)

type feeQuoteJSON struct {
	Fee           string `json:"fee"`
	IntegratorKey string `json:"integratorKey"`
}

// MarshalJSON renders the fee as an exact decimal string.
func (q FeeQuote) MarshalJSON() ([]byte, error) {
	return json.Marshal(feeQuoteJSON{Fee: q.Fee.String(), IntegratorKey: q.IntegratorKey})
}

// UnmarshalJSON accepts the camelCase form produced by MarshalJSON.
func (q *FeeQuote) UnmarshalJSON(data []byte) error {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	return q.fromTable(raw)
}

// UnmarshalTOML accepts snake_case or camelCase keys from a config table.
func (q *FeeQuote) UnmarshalTOML(data interface{}) error {
	table, ok := data.(map[string]interface{})
	if !ok {
		return fmt.Errorf("fees: fee quote must decode from a table")
	}
	return q.fromTable(table)
}

// UnmarshalYAML mirrors UnmarshalTOML for YAML config files.
func (q *FeeQuote) UnmarshalYAML(node *yaml.Node) error {
	var table map[string]interface{}
	if err := node.Decode(&table); err != nil {
		return err
	}
	return q.fromTable(table)
}

func (q *FeeQuote) fromTable(table map[string]interface{}) error {
	var decoded FeeQuote
	for key, value := range table {
		switch {
		case strings.EqualFold(key, "fee"):
			fee, err := parseFeeValue(value)
			if err != nil {
				return err
			}
			decoded.Fee = fee
		case strings.EqualFold(key, "integrator_key"), strings.EqualFold(key, "integratorKey"):
			s, ok := value.(string)
			if !ok {
				return fmt.Errorf("fees: integrator key must be a string, got %T", value)
			}
			decoded.IntegratorKey = strings.TrimSpace(s)
		default:
			return fmt.Errorf("fees: unknown fee quote key %q", key)
		}
	}
	if decoded.IntegratorKey == "" {
		return fmt.Errorf("fees: fee quote missing integrator key")
	}
	*q = decoded
	return nil
}

// parseFeeValue accepts decimal strings, plain numbers, and "<n>%" strings.
func parseFeeValue(value interface{}) (numeric.Percentage, error) {
	switch v := value.(type) {
	case string:
		s := strings.TrimSpace(v)
		if strings.HasSuffix(s, "%") {
			p, err := numeric.ParsePercentage(strings.TrimSpace(strings.TrimSuffix(s, "%")))
			if err != nil {
				return numeric.Percentage{}, fmt.Errorf("fees: fee %q: %w", v, err)
			}
			return numeric.NewPercentage(p.Decimal().Shift(-2))
		}
		p, err := numeric.ParsePercentage(s)
		if err != nil {
			return numeric.Percentage{}, fmt.Errorf("fees: fee %q: %w", v, err)
		}
		return p, nil
	case float64:
		return parseFeeValue(fmt.Sprintf("%v", v))
	case int64:
		return parseFeeValue(fmt.Sprintf("%d", v))
	case int:
		return parseFeeValue(fmt.Sprintf("%d", v))
	default:
		return numeric.Percentage{}, fmt.Errorf("fees: unsupported fee type %T", value)
	}
}
