package fees

import (
	"encoding/json"
	"testing"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"lendcore/native/numeric"
)

func TestFeeQuoteJSON(t *testing.T) {
	data, err := json.Marshal(DefaultFeeQuote)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"fee":"0.002","integratorKey":"protocol_fee"}` {
		t.Fatalf("unexpected json %s", data)
	}
	var decoded FeeQuote
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !decoded.Equal(DefaultFeeQuote) {
		t.Fatalf("expected %+v, got %+v", DefaultFeeQuote, decoded)
	}
}

func TestFeeQuoteTOMLSnakeCase(t *testing.T) {
	var cfg struct {
		Quote FeeQuote `toml:"quote"`
	}
	doc := "[quote]\nfee = \"0.5%\"\nintegrator_key = \"partner\"\n"
	if _, err := toml.Decode(doc, &cfg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cfg.Quote.IntegratorKey != "partner" || !cfg.Quote.Fee.Equal(numeric.MustPercentage("0.005")) {
		t.Fatalf("unexpected quote %+v", cfg.Quote)
	}
}

func TestFeeQuoteYAML(t *testing.T) {
	var cfg struct {
		Quote FeeQuote `yaml:"quote"`
	}
	doc := "quote:\n  fee: 0.001\n  integratorKey: partner\n"
	if err := yaml.Unmarshal([]byte(doc), &cfg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cfg.Quote.IntegratorKey != "partner" || !cfg.Quote.Fee.Equal(numeric.MustPercentage("0.001")) {
		t.Fatalf("unexpected quote %+v", cfg.Quote)
	}
}

func TestFeeQuoteRejectsUnknownKeys(t *testing.T) {
	var q FeeQuote
	if err := json.Unmarshal([]byte(`{"fee":"0.1","integratorKey":"x","bps":10}`), &q); err == nil {
		t.Fatalf("expected unknown key error")
	}
	if err := json.Unmarshal([]byte(`{"fee":"0.1"}`), &q); err == nil {
		t.Fatalf("expected missing integrator key error")
	}
	if err := json.Unmarshal([]byte(`{"fee":"-0.1","integratorKey":"x"}`), &q); err == nil {
		t.Fatalf("expected negative fee error")
	}
}
