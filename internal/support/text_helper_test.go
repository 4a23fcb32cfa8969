package support

import "testing"

func TestTranslateSeparator(t *testing.T) {
	cases := map[string]string{
		`\n`:   "\n",
		`\r\n`: "\r\n",
		`\t`:   "\t",
		", ":   ", ",
		"\n":   "\n",
		`;\n`:  ";\n",
	}

	for in, want := range cases {
		if got := TranslateSeparator(in); got != want {
			t.Errorf("TranslateSeparator(%q) = %q, want %q", in, got, want)
		}
	}
}
