package assist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNamedArg(t *testing.T) {
	assert.True(t, IsNamedArg("file = "))
	assert.True(t, IsNamedArg("y= "))
	assert.True(t, IsNamedArg("n="))
	assert.False(t, IsNamedArg("mean"))
	assert.False(t, IsNamedArg("x == y"))
}

func TestSortCandidates_NamedArgsFirst(t *testing.T) {
	candidates := []Candidate{
		{Name: "x", Source: "{a}"},
		{Name: "y= ", Source: "[f]"},
		{Name: "a", Source: "{b}"},
	}

	SortCandidates(candidates)

	assert.Equal(t, []Candidate{
		{Name: "y= ", Source: "[f]"},
		{Name: "a", Source: "{b}"},
		{Name: "x", Source: "{a}"},
	}, candidates)
}

func TestSortCandidates_CaseInsensitive(t *testing.T) {
	candidates := []Candidate{
		{Name: "Zebra", Source: "{a}"},
		{Name: "apple", Source: "{a}"},
		{Name: "Banana", Source: "{a}"},
	}

	SortCandidates(candidates)

	assert.Equal(t, "apple", candidates[0].Name)
	assert.Equal(t, "Banana", candidates[1].Name)
	assert.Equal(t, "Zebra", candidates[2].Name)
}

func TestSortCandidates_TiesBreakOnSource(t *testing.T) {
	candidates := []Candidate{
		{Name: "foo", Source: "{zpkg}"},
		{Name: "foo", Source: "{apkg}"},
	}

	SortCandidates(candidates)

	assert.Equal(t, "{apkg}", candidates[0].Source)
}

func TestDedupe_FirstOccurrenceWins(t *testing.T) {
	candidates := []Candidate{
		{Name: "foo", Source: "<variable>"},
		{Name: "foo", Source: "{pkgA}"},
		{Name: "bar", Source: "{pkgB}"},
	}

	deduped := Dedupe(candidates)

	assert.Equal(t, []Candidate{
		{Name: "foo", Source: "<variable>"},
		{Name: "bar", Source: "{pkgB}"},
	}, deduped)
}

func TestDedupe_Empty(t *testing.T) {
	assert.Equal(t, []Candidate{}, Dedupe(nil))
}

func TestCandidate_Display(t *testing.T) {
	assert.Equal(t, "mean {base}", Candidate{Name: "mean", Source: "base"}.Display())
	assert.Equal(t, "x <variable>", Candidate{Name: "x", Source: "<variable>"}.Display())
	assert.Equal(t, "a =  [foo]", Candidate{Name: "a = ", Source: "[foo]"}.Display())
	assert.Equal(t, "bare", Candidate{Name: "bare"}.Display())
}

func TestParseCandidate(t *testing.T) {
	c := ParseCandidate("mean {base}")
	assert.Equal(t, "mean", c.Name)
	assert.Equal(t, "base", c.Source)

	bare := ParseCandidate("mean")
	assert.Equal(t, "mean", bare.Name)
	assert.Equal(t, "", bare.Source)
}
