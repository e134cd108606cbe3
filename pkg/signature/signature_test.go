package signature

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplit_NoSignature(t *testing.T) {
	texts := []string{
		"",
		"Just a plain message without any closing.",
		"Line one\nLine two\nLine three",
		"On Mon, Jane wrote:\n> quoted text only",
	}
	for _, text := range texts {
		content, sig := Split(text)
		assert.Equal(t, text, content)
		assert.Equal(t, "", sig)
	}
}

func TestSplit_DashDelimiter(t *testing.T) {
	text := "Hello,\nhere is the report.\n--\nJohn Doe\nACME Corp"
	content, sig := Split(text)
	assert.Equal(t, "Hello,\nhere is the report.", content)
	assert.Equal(t, "--\nJohn Doe\nACME Corp", sig)
}

func TestSplit_DelimiterOffset(t *testing.T) {
	prefix := "some body text"
	text := prefix + "\n--\nsig"
	content, _ := Split(text)
	assert.Equal(t, prefix, content)
}

func TestSplit_TrailingDashRun(t *testing.T) {
	text := "Body text.\n-----"
	content, sig := Split(text)
	assert.Equal(t, "Body text.", content)
	assert.Equal(t, "-----", sig)
}

func TestSplit_ClosingSalutation(t *testing.T) {
	content, sig := Split("Hi team,\nSee attached.\n\nBest regards,\nJohn")
	assert.Equal(t, "Hi team,\nSee attached.\n", content)
	assert.Equal(t, "Best regards,\nJohn", sig)
}

func TestSplit_MultilingualClosings(t *testing.T) {
	cases := []struct {
		name    string
		closing string
	}{
		{"french", "Cordialement"},
		{"german", "Mit freundlichen Grüßen"},
		{"italian", "Cordiali saluti"},
		{"dutch", "Met vriendelijke groet"},
		{"luxembourgish", "Mat frëndleche Gréiss"},
		{"sent from", "Sent from my iPhone"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			text := "Message body here.\n" + tc.closing + ",\nAlice"
			content, sig := Split(text)
			assert.Equal(t, "Message body here.", content)
			assert.True(t, strings.HasPrefix(sig, tc.closing))
		})
	}
}

func TestSplit_ClosingIsCaseInsensitive(t *testing.T) {
	content, sig := Split("Done.\nbest regards\nBob")
	assert.Equal(t, "Done.", content)
	assert.Equal(t, "best regards\nBob", sig)
}

func TestSplit_LastClosingWins(t *testing.T) {
	// The reply header and the quoted "Thanks," must not truncate the
	// message; only the final closing starts the signature.
	text := "On Mon, Jane wrote:\n> old text\n\nThanks,\nJane"
	content, sig := Split(text)
	assert.Equal(t, "On Mon, Jane wrote:\n> old text\n", content)
	assert.Equal(t, "Thanks,\nJane", sig)
}

func TestSplit_EarliestCandidateWins(t *testing.T) {
	// A delimiter before the closing phrase wins, and the quoted history
	// after it is dropped along with the signature.
	text := "New message.\n--\nJohn\n\nOn Tue, Bob wrote:\n> Thanks,\n> Bob"
	content, sig := Split(text)
	assert.Equal(t, "New message.", content)
	assert.True(t, strings.HasPrefix(sig, "--\nJohn"))
}

func TestSplit_MarkdownImageBlock(t *testing.T) {
	text := "Quarterly numbers attached.\n\n![logo](https://example.com/logo.png)\nACME Corp"
	content, sig := Split(text)
	assert.Equal(t, "Quarterly numbers attached.", content)
	assert.Contains(t, sig, "![logo]")
}

func TestSplit_SalutationMidLineIgnored(t *testing.T) {
	// "thanks" embedded in a sentence is not a closing line.
	text := "Many thanks for the update, it helps.\nMore details tomorrow."
	content, sig := Split(text)
	assert.Equal(t, text, content)
	assert.Equal(t, "", sig)
}
