package numeric

import (
	"errors"
	"testing"
)

func TestPercentageFormat(t *testing.T) {
	cases := map[string]string{
		"0.0525":  "5.25%",
		"0":       "0.00%",
		"1":       "100.00%",
		"1.05":    "105.00%",
		"0.00001": "0.00%",
	}
	for input, want := range cases {
		if got := MustPercentage(input).Format(2); got != want {
			t.Fatalf("format %s: got %s want %s", input, got, want)
		}
	}
}

func TestPercentageRejectsNegative(t *testing.T) {
	if _, err := ParsePercentage("-0.01"); !errors.Is(err, ErrInvalidPercentage) {
		t.Fatalf("expected ErrInvalidPercentage, got %v", err)
	}
	if _, err := ParsePercentage("ten"); !errors.Is(err, ErrInvalidPercentage) {
		t.Fatalf("expected ErrInvalidPercentage, got %v", err)
	}
}

func TestPercentageFromBps(t *testing.T) {
	if got := PercentageFromBps(20); !got.Equal(MustPercentage("0.002")) {
		t.Fatalf("expected 0.002, got %s", got)
	}
}

func TestPercentageOf(t *testing.T) {
	fee := MustPercentage("0.002")
	if got := fee.Of(AmountFromInt(1_000)); !got.Equal(AmountFromInt(2)) {
		t.Fatalf("expected 2, got %s", got)
	}
	if got := fee.Of(Unbounded()); !got.IsUnbounded() {
		t.Fatalf("fee of unbounded should be unbounded, got %s", got)
	}
	if got := MustPercentage("0").Of(Unbounded()); !got.IsZero() {
		t.Fatalf("zero fee of unbounded should be zero, got %s", got)
	}
}
