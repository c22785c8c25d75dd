package identity

import (
	"errors"
	"testing"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name      string
		style     string
		color     string
		wantStyle string
		wantColor string
		wantWidth Width
		wantErr   error
	}{
		{
			name:  "six digit style unchanged",
			style: "104437", color: "Black/White",
			wantStyle: "104437", wantColor: "Black/White", wantWidth: WidthRegular,
		},
		{
			name:  "five digit style left padded",
			style: "45123", color: "Navy",
			wantStyle: "045123", wantColor: "Navy", wantWidth: WidthRegular,
		},
		{
			name:  "whitespace trimmed",
			style: "  104437 ", color: " Black ",
			wantStyle: "104437", wantColor: "Black", wantWidth: WidthRegular,
		},
		{
			name:  "width marker in color",
			style: "104437", color: "Black (W)",
			wantStyle: "104437", wantColor: "Black (W)", wantWidth: WidthWide,
		},
		{
			name:  "extra wide marker in color",
			style: "104437", color: "Black (WW)",
			wantStyle: "104437", wantColor: "Black (WW)", wantWidth: WidthExtraWide,
		},
		{
			name:  "glued w suffix moves into color",
			style: "104437w", color: "Black",
			wantStyle: "104437", wantColor: "Black (w)", wantWidth: WidthWide,
		},
		{
			name:  "glued ww suffix moves into color",
			style: "45123ww", color: "Black",
			wantStyle: "045123", wantColor: "Black (ww)", wantWidth: WidthExtraWide,
		},
		{
			name:  "glued suffix ignored when color already marked",
			style: "104437w", color: "Black (W)",
			wantStyle: "104437", wantColor: "Black (W)", wantWidth: WidthWide,
		},
		{
			name:  "too short style rejected",
			style: "1234", color: "Black",
			wantErr: ErrInvalidStyle,
		},
		{
			name:  "too long style rejected",
			style: "1234567", color: "Black",
			wantErr: ErrInvalidStyle,
		},
		{
			name:  "non numeric style rejected",
			style: "10A437", color: "Black",
			wantErr: ErrInvalidStyle,
		},
		{
			name:  "empty style rejected",
			style: "", color: "Black",
			wantErr: ErrInvalidStyle,
		},
		{
			name:  "empty color rejected",
			style: "104437", color: "",
			wantErr: ErrInvalidColor,
		},
		{
			name:  "blank color rejected",
			style: "104437", color: "   ",
			wantErr: ErrInvalidColor,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			key, err := Normalize(tc.style, tc.color)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("Normalize(%q, %q) err = %v, want %v", tc.style, tc.color, err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Normalize(%q, %q) unexpected err: %v", tc.style, tc.color, err)
			}
			if key.Style != tc.wantStyle || key.Color != tc.wantColor || key.Width != tc.wantWidth {
				t.Fatalf("Normalize(%q, %q) = %+v, want style=%q color=%q width=%q",
					tc.style, tc.color, key, tc.wantStyle, tc.wantColor, tc.wantWidth)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	key, err := Normalize("45123w", "Black")
	if err != nil {
		t.Fatalf("first pass: %v", err)
	}
	again, err := Normalize(key.Style, key.Color)
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if again != key {
		t.Fatalf("normalization not idempotent: %+v vs %+v", key, again)
	}
}

func TestKeyID(t *testing.T) {
	key, err := Normalize("45123", "Black (W)")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if got, want := key.ID(), "045123_Black (W)"; got != want {
		t.Fatalf("ID() = %q, want %q", got, want)
	}
}

func TestParseWidthFromStoredColor(t *testing.T) {
	for color, want := range map[string]Width{
		"Black":          WidthRegular,
		"Black (w)":      WidthWide,
		"Black (W)":      WidthWide,
		"Black (ww)":     WidthExtraWide,
		"White/Gum (WW)": WidthExtraWide,
	} {
		if got := ParseWidth(color); got != want {
			t.Errorf("ParseWidth(%q) = %q, want %q", color, got, want)
		}
	}
}

func TestNormalizeStyle(t *testing.T) {
	got, err := NormalizeStyle("45123")
	if err != nil {
		t.Fatalf("NormalizeStyle: %v", err)
	}
	if got != "045123" {
		t.Fatalf("NormalizeStyle = %q, want 045123", got)
	}
	if _, err := NormalizeStyle("abc"); !errors.Is(err, ErrInvalidStyle) {
		t.Fatalf("NormalizeStyle(abc) err = %v, want ErrInvalidStyle", err)
	}
}
