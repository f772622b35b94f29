package rational

import (
	"encoding/json"
	"errors"
	"math/big"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"3", "3", false},
		{"3/2", "3/2", false},
		{"6/4", "3/2", false},
		{"0.5", "1/2", false},
		{" 2 ", "2", false},
		{"0.1", "1/10", false},
		{"-4/6", "-2/3", false},
		{"", "", true},
		{"abc", "", true},
		{"1/0", "", true},
	}

	for _, tt := range tests {
		got, err := Parse(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("Parse(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil {
			if !errors.Is(err, ErrInvalidSyntax) {
				t.Errorf("Parse(%q) error = %v, want ErrInvalidSyntax", tt.in, err)
			}
			continue
		}
		if got.String() != tt.want {
			t.Errorf("Parse(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestZeroValue(t *testing.T) {
	var z Rational
	if !z.IsZero() {
		t.Error("zero value should be 0")
	}
	if got := z.Add(New(1, 3)); got.String() != "1/3" {
		t.Errorf("0 + 1/3 = %s", got)
	}
	if z.String() != "0" {
		t.Errorf("String() = %q, want 0", z.String())
	}
}

func TestArithmeticIsImmutable(t *testing.T) {
	a := New(1, 3)
	b := New(1, 6)

	sum := a.Add(b)
	if sum.String() != "1/2" {
		t.Errorf("1/3 + 1/6 = %s, want 1/2", sum)
	}
	if a.String() != "1/3" || b.String() != "1/6" {
		t.Errorf("operands mutated: a=%s b=%s", a, b)
	}

	if got := a.Sub(b); got.String() != "1/6" {
		t.Errorf("1/3 - 1/6 = %s", got)
	}
	if got := a.Mul(b); got.String() != "1/18" {
		t.Errorf("1/3 * 1/6 = %s", got)
	}

	q, err := a.Div(b)
	if err != nil {
		t.Fatalf("Div: %v", err)
	}
	if q.String() != "2" {
		t.Errorf("1/3 / 1/6 = %s, want 2", q)
	}

	if _, err := a.Div(Zero); !errors.Is(err, ErrDivisionByZero) {
		t.Errorf("Div by zero error = %v, want ErrDivisionByZero", err)
	}
}

func TestNumDenomAreCopies(t *testing.T) {
	x := New(3, 4)
	x.Num().SetInt64(100)
	x.Denom().SetInt64(100)
	if x.String() != "3/4" {
		t.Errorf("x mutated through accessor: %s", x)
	}
}

func TestCeil(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"0", 0},
		{"1", 1},
		{"3/2", 2},
		{"4/2", 2},
		{"1/1000000", 1},
		{"-3/2", -1},
		{"-2", -2},
		{"20/3", 7},
	}
	for _, tt := range tests {
		got := MustParse(tt.in).Ceil()
		if got.Cmp(big.NewInt(tt.want)) != 0 {
			t.Errorf("Ceil(%s) = %s, want %d", tt.in, got, tt.want)
		}
	}
}

func TestLCM(t *testing.T) {
	tests := []struct{ a, b, want int64 }{
		{4, 6, 12},
		{1, 7, 7},
		{5, 5, 5},
		{0, 3, 0},
		{-4, 6, 12},
	}
	for _, tt := range tests {
		got := LCM(big.NewInt(tt.a), big.NewInt(tt.b))
		if got.Cmp(big.NewInt(tt.want)) != 0 {
			t.Errorf("LCM(%d, %d) = %s, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestDenominatorLCM(t *testing.T) {
	got := DenominatorLCM(New(1, 2), New(2, 3), FromInt(5), New(3, 4))
	if got.Cmp(big.NewInt(12)) != 0 {
		t.Errorf("DenominatorLCM = %s, want 12", got)
	}
	if DenominatorLCM().Cmp(big.NewInt(1)) != 0 {
		t.Error("DenominatorLCM() of nothing should be 1")
	}
}

func TestMin(t *testing.T) {
	if got := Min(New(2, 3), New(3, 5)); got.String() != "3/5" {
		t.Errorf("Min = %s, want 3/5", got)
	}
	if got := Min(New(1, 2), New(2, 4)); got.String() != "1/2" {
		t.Errorf("Min of equal values = %s, want 1/2", got)
	}
}

func TestJSON(t *testing.T) {
	type wrapper struct {
		Rate Rational `json:"rate"`
	}

	data, err := json.Marshal(wrapper{Rate: New(10, 4)})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != `{"rate":"5/2"}` {
		t.Errorf("Marshal = %s", data)
	}

	var w wrapper
	if err := json.Unmarshal([]byte(`{"rate":1.25}`), &w); err != nil {
		t.Fatalf("Unmarshal number: %v", err)
	}
	if w.Rate.String() != "5/4" {
		t.Errorf("Unmarshal number = %s, want 5/4", w.Rate)
	}

	if err := json.Unmarshal([]byte(`{"rate":"bogus"}`), &w); err == nil {
		t.Error("Unmarshal of bogus string should fail")
	}
}

func TestFloat64IsDisplayOnly(t *testing.T) {
	if got := New(1, 4).Float64(); got != 0.25 {
		t.Errorf("Float64 = %v, want 0.25", got)
	}
	if got := New(2, 3).FloatString(3); got != "0.667" {
		t.Errorf("FloatString = %q, want 0.667", got)
	}
}
