package money

import "testing"

func TestFormat(t *testing.T) {
	cases := map[float64]string{
		7.463157894736842: "7.46",
		0.005:             "0.01",
		-2.5:              "-2.50",
		0:                 "0.00",
		1234.5:            "1234.50",
	}
	for in, want := range cases {
		if got := Format(in); got != want {
			t.Fatalf("Format(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestRound2(t *testing.T) {
	if got := Round2(72.53684210526316); got != 72.54 {
		t.Fatalf("Round2 = %v, want 72.54", got)
	}
}

func TestFormatCurrency(t *testing.T) {
	if got := FormatCurrency("R$", 80); got != "R$ 80.00" {
		t.Fatalf("FormatCurrency = %q", got)
	}
	if got := FormatCurrency("", 80); got != "80.00" {
		t.Fatalf("FormatCurrency without symbol = %q", got)
	}
}

func TestSumAvoidsDrift(t *testing.T) {
	values := make([]float64, 10)
	for i := range values {
		values[i] = 0.1
	}
	if got := Sum(values...); got != 1 {
		t.Fatalf("Sum = %v, want 1", got)
	}
}
