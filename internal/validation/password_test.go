package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type validationCase struct {
	input string
	ok    bool
}

func runValidationCases(t *testing.T, validate func(string) error, cases map[string]validationCase) {
	t.Helper()
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := validate(tc.input)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	t.Parallel()
	runValidationCases(t, ValidatePassword, map[string]validationCase{
		"strong":            {"Sup3r-Secret!!", true},
		"twelve characters": {"Writer2026!x", true},
		"128 characters":    {"W" + strings.Repeat("r", 125) + "1!", true},
		"non-ascii letters": {"Überschrift2026!", true},
		"eleven characters": {"Writer2026!", false},
		"129 characters":    {"W" + strings.Repeat("r", 126) + "1!", false},
		"missing uppercase": {"writer-2026-draft", false},
		"missing lowercase": {"WRITER-2026-DRAFT", false},
		"missing digit":     {"Writer-Draft-Post", false},
		"missing special":   {"WriterDraft2026", false},
		"no letters":        {"2026-10-18!!##", false},
	})
}

func TestValidateUsername(t *testing.T) {
	t.Parallel()
	runValidationCases(t, ValidateUsername, map[string]validationCase{
		"letters and digits":  {"ada99", true},
		"inner underscore":    {"grace_hopper", true},
		"inner hyphen":        {"linus-t", true},
		"mixed case":          {"KenThompson", true},
		"thirty characters":   {strings.Repeat("a", 30), true},
		"two characters":      {"ab", false},
		"thirty-one":          {strings.Repeat("a", 31), false},
		"space":               {"ada lovelace", false},
		"at sign":             {"ada@home", false},
		"leading hyphen":      {"-ada", false},
		"trailing underscore": {"ada_", false},
	})
}

func TestValidateEmail(t *testing.T) {
	t.Parallel()
	// 64 local + "@" + 185 label + ".com" is exactly 254 characters.
	longest := strings.Repeat("a", 64) + "@" + strings.Repeat("b", 185) + ".com"
	runValidationCases(t, ValidateEmail, map[string]validationCase{
		"plain":             {"writer@even.dev", true},
		"plus tag":          {"writer+drafts@even.dev", true},
		"subdomain":         {"ops@mail.even.dev", true},
		"254 characters":    {longest, true},
		"255 characters":    {"a" + longest, false},
		"no at":             {"writer.even.dev", false},
		"no domain":         {"writer@", false},
		"double at":         {"writer@@even.dev", false},
		"space":             {"wri ter@even.dev", false},
		"trailing dot":      {"writer@even.dev.", false},
		"single letter tld": {"writer@even.d", false},
	})
}
