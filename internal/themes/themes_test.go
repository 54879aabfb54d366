package themes

import "testing"

func TestExtract(t *testing.T) {
	cases := []struct {
		question string
		want     string
	}{
		{"Will I ever find true love?", Love},
		{"Is my relationship going anywhere?", Love},
		{"Should I change my job next year?", Career},
		{"How do I get ahead at work?", Career},
		{"Will my health improve this winter?", Health},
		{"Any wellness advice from the stars?", Health},
		{"When will I make real money?", Finance},
		{"Does wealth await me?", Finance},
		{"Should I travel to Japan?", Travel},
		{"What does my journey hold?", Travel},
		{"Will my family grow soon?", Family},
		{"What about my children?", Family},
		{"What does tomorrow bring?", General},
		{"", General},
	}

	for _, tc := range cases {
		if got := Extract(tc.question); got != tc.want {
			t.Errorf("Extract(%q) = %q, want %q", tc.question, got, tc.want)
		}
	}
}

func TestExtractIsCaseInsensitive(t *testing.T) {
	if got := Extract("WILL I FIND LOVE?"); got != Love {
		t.Errorf("Extract uppercase = %q, want %q", got, Love)
	}
}

func TestExtractFirstGroupWins(t *testing.T) {
	// love is checked before career, matching the original classifier order
	if got := Extract("I love my job"); got != Love {
		t.Errorf("Extract(%q) = %q, want %q", "I love my job", got, Love)
	}
}
