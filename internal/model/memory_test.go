package model

import (
	"reflect"
	"testing"
)

func TestNormalizeTags(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"nil stays nil", nil, nil},
		{"empty stays empty", []string{}, nil},
		{"trims whitespace", []string{" focus ", "work"}, []string{"focus", "work"}},
		{"drops empties", []string{"", "  ", "work"}, []string{"work"}},
		{"dedup keeps first casing", []string{"Work", " work ", "", "Focus"}, []string{"Work", "Focus"}},
		{"order preserved", []string{"b", "a", "b", "c"}, []string{"b", "a", "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeTags(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeTags(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestTagsRoundTrip(t *testing.T) {
	tags := []string{"work", "deep-focus", "q3"}
	got := ParseTags(JoinTags(tags))
	if !reflect.DeepEqual(got, tags) {
		t.Errorf("round trip = %v, want %v", got, tags)
	}

	if ParseTags("") != nil {
		t.Error("expected nil for empty text")
	}
	if got := ParseTags("a, ,b,"); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("ParseTags dirty input = %v", got)
	}
}

func TestValidTypes(t *testing.T) {
	for _, typ := range []string{"fact", "preference", "task", "journal", "note"} {
		if !ValidTypes[typ] {
			t.Errorf("expected %q to be valid", typ)
		}
	}
	if ValidTypes["reminder"] {
		t.Error("unexpected valid type reminder")
	}
}
