package token_test

import (
	"testing"

	"interp/internal/token"
)

func TestClassifyBody(t *testing.T) {
	tests := []struct {
		body string
		want token.ClassifiedPlaceholder
	}{
		{"", token.ClassifiedPlaceholder{Kind: token.PlaceholderImplicit}},
		{"name", token.ClassifiedPlaceholder{Kind: token.PlaceholderNamed, Name: "name"}},
		{"_tmp", token.ClassifiedPlaceholder{Kind: token.PlaceholderNamed, Name: "_tmp"}},
		{"user_id", token.ClassifiedPlaceholder{Kind: token.PlaceholderNamed, Name: "user_id"}},
		{"имя", token.ClassifiedPlaceholder{Kind: token.PlaceholderNamed, Name: "имя"}},
		{"n2", token.ClassifiedPlaceholder{Kind: token.PlaceholderNamed, Name: "n2"}},
		{"0", token.ClassifiedPlaceholder{Kind: token.PlaceholderExplicit, Index: 0}},
		{"42", token.ClassifiedPlaceholder{Kind: token.PlaceholderExplicit, Index: 42}},
		{"007", token.ClassifiedPlaceholder{Kind: token.PlaceholderExplicit, Index: 7}},

		// specifiers split off at the first ':'
		{":04x", token.ClassifiedPlaceholder{Kind: token.PlaceholderImplicit, Spec: "04x"}},
		{"num:04x", token.ClassifiedPlaceholder{Kind: token.PlaceholderNamed, Name: "num", Spec: "04x"}},
		{"0:>8", token.ClassifiedPlaceholder{Kind: token.PlaceholderExplicit, Index: 0, Spec: ">8"}},
		{"x:a:b", token.ClassifiedPlaceholder{Kind: token.PlaceholderNamed, Name: "x", Spec: "a:b"}},
		{"x:", token.ClassifiedPlaceholder{Kind: token.PlaceholderNamed, Name: "x"}},
		{"n:0name", token.ClassifiedPlaceholder{Kind: token.PlaceholderNamed, Name: "n", Spec: "0name"}},

		// malformed heads demote
		{"0name", token.ClassifiedPlaceholder{Kind: token.PlaceholderMalformed}},
		{" ", token.ClassifiedPlaceholder{Kind: token.PlaceholderMalformed}},
		{"a b", token.ClassifiedPlaceholder{Kind: token.PlaceholderMalformed}},
		{"a.b", token.ClassifiedPlaceholder{Kind: token.PlaceholderMalformed}},
		{"-1", token.ClassifiedPlaceholder{Kind: token.PlaceholderMalformed}},
		{"name!", token.ClassifiedPlaceholder{Kind: token.PlaceholderMalformed}},
		{"0name:x", token.ClassifiedPlaceholder{Kind: token.PlaceholderMalformed}},
		{"99999999999999999999", token.ClassifiedPlaceholder{Kind: token.PlaceholderMalformed}},
		{"\xff", token.ClassifiedPlaceholder{Kind: token.PlaceholderMalformed}},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			got := token.ClassifyBody(tt.body)
			if got != tt.want {
				t.Errorf("ClassifyBody(%q) = %+v, want %+v", tt.body, got, tt.want)
			}
		})
	}
}

func TestHasSpec(t *testing.T) {
	if token.ClassifyBody("x:").HasSpec() {
		t.Error("empty specifier must count as absent")
	}
	if !token.ClassifyBody("x:04x").HasSpec() {
		t.Error("non-empty specifier should be kept")
	}
	if token.ClassifyBody("x").HasSpec() {
		t.Error("no specifier expected")
	}
}

func TestPlaceholderKindString(t *testing.T) {
	kinds := map[token.PlaceholderKind]string{
		token.PlaceholderMalformed: "Malformed",
		token.PlaceholderNamed:     "Named",
		token.PlaceholderExplicit:  "Explicit",
		token.PlaceholderImplicit:  "Implicit",
	}
	for k, want := range kinds {
		if got := k.String(); got != want {
			t.Errorf("PlaceholderKind(%d).String() = %q, want %q", k, got, want)
		}
	}
}
