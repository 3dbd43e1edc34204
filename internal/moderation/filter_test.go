package moderation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterCheck_CleanText(t *testing.T) {
	f := NewFilter()

	result := f.Check("قميص قطني جديد للبيع")
	assert.True(t, result.Clean)
	assert.Empty(t, result.MatchedWord)
}

func TestFilterCheck_FlagsBlacklistedWord(t *testing.T) {
	f := NewFilter()

	result := f.Check("للبيع سلاح قديم")
	assert.False(t, result.Clean)
	assert.Equal(t, "سلاح", result.MatchedWord)
}

func TestFilterCheck_FlagsSubstringInsideLongerWord(t *testing.T) {
	f := NewFilter()

	// Substring matching is deliberate: the banned fragment inside a
	// longer token still flags the whole token.
	result := f.Check("عرض سلاحف للبيع")
	assert.False(t, result.Clean)
	assert.Equal(t, "سلاحف", result.MatchedWord)
}

func TestFilterCheck_LowercasesLatinTokens(t *testing.T) {
	f := NewFilter("scam")

	result := f.Check("Great SCAM offer")
	assert.False(t, result.Clean)
	assert.Equal(t, "scam", result.MatchedWord)
}

func TestFilterCheck_EmptyText(t *testing.T) {
	f := NewFilter()

	assert.True(t, f.Check("").Clean)
	assert.True(t, f.Check("   ").Clean)
}

func TestFilterCheck_ExtraBlacklistEntries(t *testing.T) {
	f := NewFilter("مزيف")

	result := f.Check("منتج مزيف تماما")
	assert.False(t, result.Clean)
	assert.Equal(t, "مزيف", result.MatchedWord)
}
