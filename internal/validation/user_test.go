package validation

import (
	"strings"
	"testing"

	"instawinx/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestValidatePassword(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"Valid", "winx123", false},
		{"Exactly Min Length", "abcdef", false},
		{"Exactly Max Length", strings.Repeat("a", 72), false},
		{"Too Short", "abcde", true},
		{"Too Long", strings.Repeat("a", 73), true},
		{"Empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, 400, models.StatusFor(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateUsername(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"Valid", "bloom_da-luz1", false},
		{"Exactly Max Length", strings.Repeat("a", 30), false},
		{"Too Short", "bl", true},
		{"Too Long", strings.Repeat("a", 31), true},
		{"Illegal Chars", "bloom@alfea", true},
		{"Space", "bloom alfea", true},
		{"Starts Dash", "-bloom", true},
		{"Ends Underscore", "bloom_", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateFairyType(t *testing.T) {
	t.Parallel()
	for _, ft := range models.FairyTypes {
		assert.NoError(t, ValidateFairyType(ft))
	}
	assert.Error(t, ValidateFairyType("Bruxa"))
	assert.Error(t, ValidateFairyType(""))
}

func TestCleanText(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"Plain", "  que lindo  ", "que lindo"},
		{"Ampersand And Quotes", `Bloom & Stella's "party"`, `Bloom & Stella's "party"`},
		{"Less Than", " a < b ", "a < b"},
		{"Heart", `Tom & Jerry "best" <3`, `Tom & Jerry "best" <3`},
		{"Markup Kept", "<b></b>", "<b></b>"},
		{"Null Byte", "a\x00b", "ab"},
		{"Whitespace Only", " \n\t ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanText(tt.input))
		})
	}
}

func TestPreviewText(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		input string
		max   int
		want  string
	}{
		{"Script", "<script>alert(1)</script>oi", 0, "oi"},
		{"Bold", "<b>forte</b>", 0, "forte"},
		{"Escapes", "Tom & Jerry", 0, "Tom &amp; Jerry"},
		{"Only Tags", "<br/>", 0, ""},
		{"Truncated", "abcdefgh", 3, "abc…"},
		{"Short Enough", "abc", 3, "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PreviewText(tt.input, tt.max))
		})
	}
}
