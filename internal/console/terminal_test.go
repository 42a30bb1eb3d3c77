package console

import "testing"

func TestSplitPrompt(t *testing.T) {
	cases := []struct {
		in   string
		head string
		last string
	}{
		{"Run it?", "", "Run it?"},
		{"", "", ""},
		{"## The model wants to run a command! ##\nCommand: `ls`\nReason: `r`\nDo you want to run this command?",
			"## The model wants to run a command! ##\nCommand: `ls`\nReason: `r`\n", "Do you want to run this command?"},
		{QuestionBanner("Which port?"), "## The model asks a question ##\n```Which port?```\n", "Answer: "},
		{"trailing\n", "trailing\n", ""},
	}
	for _, tc := range cases {
		head, last := splitPrompt(tc.in)
		if head != tc.head || last != tc.last {
			t.Fatalf("splitPrompt(%q) = (%q, %q), want (%q, %q)", tc.in, head, last, tc.head, tc.last)
		}
	}
}
