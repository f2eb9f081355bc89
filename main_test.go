package main

import (
	"image/color"
	"testing"
)

func TestParseHexColor(t *testing.T) {
	cases := []struct {
		in      string
		want    color.RGBA
		wantErr bool
	}{
		{in: "#ff8040", want: color.RGBA{R: 255, G: 128, B: 64, A: 255}},
		{in: "FF8040", want: color.RGBA{R: 255, G: 128, B: 64, A: 255}},
		{in: "#000000", want: color.RGBA{A: 255}},
		{in: "#fff", wantErr: true},
		{in: "not-a-color", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, c := range cases {
		got, err := parseHexColor(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("parseHexColor(%q): expected error", c.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseHexColor(%q): %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("parseHexColor(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}
