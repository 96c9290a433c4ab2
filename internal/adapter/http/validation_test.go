package http

import (
	"errors"
	"testing"
)

type validationProbe struct {
	Address string `validate:"required,addr"`
	Symbol  string `validate:"required,symbol"`
	Amount  int64  `validate:"required,gt=0"`
}

func TestCustomValidator_Tags(t *testing.T) {
	v := NewValidator()

	ok := validationProbe{
		Address: "0xdddddddddddddddddddddddddddddddddddddddd",
		Symbol:  "MUSD",
		Amount:  10,
	}
	if err := v.Validate(&ok); err != nil {
		t.Fatalf("valid struct rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*validationProbe)
	}{
		{"missing address", func(p *validationProbe) { p.Address = "" }},
		{"short address", func(p *validationProbe) { p.Address = "0x123" }},
		{"uppercase address", func(p *validationProbe) { p.Address = "0xDDDDDDDDDDDDDDDDDDDDDDDDDDDDDDDDDDDDDDDD" }},
		{"no 0x prefix", func(p *validationProbe) { p.Address = "dddddddddddddddddddddddddddddddddddddddddd" }},
		{"unknown symbol", func(p *validationProbe) { p.Symbol = "DOGE" }},
		{"zero amount", func(p *validationProbe) { p.Amount = 0 }},
		{"negative amount", func(p *validationProbe) { p.Amount = -1 }},
	}
	for _, c := range cases {
		p := ok
		c.mutate(&p)
		if err := v.Validate(&p); err == nil {
			t.Errorf("%s: expected error", c.name)
		}
	}
}

func TestToFieldErrors(t *testing.T) {
	v := NewValidator()
	bad := validationProbe{Address: "0x123", Symbol: "DOGE"}
	err := v.Validate(&bad)
	if err == nil {
		t.Fatal("expected validation error")
	}

	fields := ToFieldErrors(err)
	if len(fields) != 3 {
		t.Fatalf("got %d field errors, want 3: %+v", len(fields), fields)
	}
	byField := map[string]string{}
	for _, f := range fields {
		byField[f.Field] = f.Message
	}
	if byField["Address"] != "must be a 0x-prefixed 40-char lowercase hex address" {
		t.Errorf("address message = %q", byField["Address"])
	}
	if byField["Symbol"] != "must be MUSD or MBTC" {
		t.Errorf("symbol message = %q", byField["Symbol"])
	}
	if byField["Amount"] != "is required" {
		t.Errorf("amount message = %q", byField["Amount"])
	}
}

func TestToFieldErrors_NonValidatorError(t *testing.T) {
	fields := ToFieldErrors(errors.New("boom"))
	if len(fields) != 1 || fields[0].Field != "_" || fields[0].Message != "boom" {
		t.Fatalf("fields = %+v", fields)
	}
}
