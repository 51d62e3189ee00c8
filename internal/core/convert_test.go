package core

import (
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
)

func TestToPgText(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantValid bool
		wantValue string
	}{
		{name: "value", input: "강남구", wantValid: true, wantValue: "강남구"},
		{name: "trimmed", input: "  Seoul ", wantValid: true, wantValue: "Seoul"},
		{name: "empty", input: "", wantValid: false},
		{name: "whitespace only", input: " \t ", wantValid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToPgText(tt.input)
			if got.Valid != tt.wantValid {
				t.Fatalf("ToPgText(%q).Valid = %v, want %v", tt.input, got.Valid, tt.wantValid)
			}
			if got.String != tt.wantValue {
				t.Errorf("ToPgText(%q).String = %q, want %q", tt.input, got.String, tt.wantValue)
			}
		})
	}
}

func TestToPgFloat8(t *testing.T) {
	if got := ToPgFloat8(nil); got.Valid {
		t.Errorf("ToPgFloat8(nil).Valid = true, want false")
	}

	v := 127.0276
	got := ToPgFloat8(&v)
	if !got.Valid || got.Float64 != v {
		t.Errorf("ToPgFloat8(%v) = %+v", v, got)
	}
}

func TestFromPg(t *testing.T) {
	if s := FromPgText(pgtype.Text{}); s != "" {
		t.Errorf("FromPgText(NULL) = %q, want empty", s)
	}
	if s := FromPgText(pgtype.Text{String: "06236", Valid: true}); s != "06236" {
		t.Errorf("FromPgText() = %q", s)
	}
	if f := FromPgFloat8(pgtype.Float8{}); f != nil {
		t.Errorf("FromPgFloat8(NULL) = %v, want nil", *f)
	}
	if f := FromPgFloat8(pgtype.Float8{Float64: 37.5, Valid: true}); f == nil || *f != 37.5 {
		t.Errorf("FromPgFloat8() = %v", f)
	}
}
