package sections

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegmentMarkdownHeaders(t *testing.T) {
	secs := Segment("# Summary\nA line.\n# Experience\nDid X.\n", MarkdownHeaders)

	require.Equal(t, 2, secs.Len())
	assert.Equal(t, []string{"summary", "experience"}, secs.Names())
	assert.Equal(t, map[string]string{"summary": "A line.", "experience": "Did X."}, secs.Map())
}

func TestSegmentBodiesAreLinesBetweenHeaders(t *testing.T) {
	text := "## Work History\n- Built a thing\n\n- Ran a team\n### Skills & Tools\nGo, SQL"
	secs := Segment(text, MarkdownHeaders)

	body, ok := secs.Get("work history")
	require.True(t, ok)
	assert.Equal(t, "- Built a thing\n\n- Ran a team", body)

	body, ok = secs.Get("skills & tools")
	require.True(t, ok)
	assert.Equal(t, "Go, SQL", body)
}

func TestSegmentNoHeaders(t *testing.T) {
	text := "Jane Doe\nEngineer\n\nLikes Go."
	secs := Segment(text, MarkdownHeaders)

	require.Equal(t, 1, secs.Len())
	body, ok := secs.Get(DefaultName)
	require.True(t, ok)
	assert.Equal(t, text, body)
}

func TestSegmentPreamble(t *testing.T) {
	secs := Segment("Jane Doe\n# Skills\nGo", MarkdownHeaders)

	assert.Equal(t, []string{"general", "skills"}, secs.Names())
	body, _ := secs.Get("general")
	assert.Equal(t, "Jane Doe", body)
}

func TestSegmentEmpty(t *testing.T) {
	secs := Segment("", MarkdownHeaders)
	assert.Equal(t, 0, secs.Len())
}

func TestSegmentRepeatedHeaderOverwrites(t *testing.T) {
	secs := Segment("# Skills\nfirst\n# Education\nBSc\n# SKILLS\nsecond", MarkdownHeaders)

	assert.Equal(t, []string{"skills", "education"}, secs.Names())
	body, _ := secs.Get("skills")
	assert.Equal(t, "second", body)
}

func TestSegmentHeaderWithoutBodyIsDropped(t *testing.T) {
	secs := Segment("# Empty\n# Skills\nGo", MarkdownHeaders)

	_, ok := secs.Get("empty")
	assert.False(t, ok)
	assert.Equal(t, []string{"skills"}, secs.Names())
}

func TestSegmentUppercaseHeaders(t *testing.T) {
	text := "Jane Doe\nSUMMARY\nBuilds systems.\nWORK EXPERIENCE\nAcme, 2020-2024\n# not a header here"
	secs := Segment(text, UppercaseHeaders)

	assert.Equal(t, []string{"general", "summary", "work experience"}, secs.Names())
	body, _ := secs.Get("work experience")
	assert.Equal(t, "Acme, 2020-2024\n# not a header here", body)
}

func TestSegmentCRLF(t *testing.T) {
	secs := Segment("SUMMARY\r\nBuilds systems.\r\nRuns teams.\r\nSKILLS\r\nGo\r\n", UppercaseHeaders)

	assert.Equal(t, []string{"summary", "skills"}, secs.Names())
	assert.Equal(t, map[string]string{"summary": "Builds systems.\nRuns teams.", "skills": "Go"}, secs.Map())
	assert.False(t, strings.Contains(Recompose(secs), "\r"))
}

func TestUppercaseModeIgnoresLinesWithoutLetters(t *testing.T) {
	secs := Segment("SKILLS\n2020 - 2024\n---", UppercaseHeaders)

	body, _ := secs.Get("skills")
	assert.Equal(t, "2020 - 2024\n---", body)
}

func TestModeForFilename(t *testing.T) {
	assert.Equal(t, MarkdownHeaders, ModeForFilename("resume.md"))
	assert.Equal(t, MarkdownHeaders, ModeForFilename("Resume.MARKDOWN"))
	assert.Equal(t, UppercaseHeaders, ModeForFilename("resume.pdf"))
	assert.Equal(t, UppercaseHeaders, ModeForFilename("resume.txt"))
}

func TestRecomposeRoundTripExample(t *testing.T) {
	secs := Segment("# Summary\nA line.\n# Experience\nDid X.\n", MarkdownHeaders)

	assert.Equal(t, "# Summary\n\nA line.\n\n# Experience\n\nDid X.\n", Recompose(secs))
}

func TestRecomposeCanonicalBeforeOthers(t *testing.T) {
	secs := New()
	secs.Set("hobbies", "Climbing")
	secs.Set("education", "BSc")
	secs.Set("general", "Jane Doe")
	secs.Set("professional summary", "Engineer")

	got := Recompose(secs)
	want := "# Professional Summary\n\nEngineer\n\n" +
		"# Education\n\nBSc\n\n" +
		"# Hobbies\n\nClimbing\n\n" +
		"# General\n\nJane Doe\n"
	assert.Equal(t, want, got)
}

func TestRecomposeSlotEmittedOnce(t *testing.T) {
	secs := New()
	secs.Set("experience", "Acme")
	secs.Set("work experience", "Globex")

	got := Recompose(secs)
	assert.Equal(t, 1, strings.Count(got, "# "))
	assert.Contains(t, got, "Acme")
	assert.NotContains(t, got, "Globex")
}

func TestRecomposeKeyMatchingTwoSlotsEmittedOnce(t *testing.T) {
	secs := New()
	secs.Set("experience summary", "Ten years")
	secs.Set("experience", "Acme")

	got := Recompose(secs)
	want := "# Experience Summary\n\nTen years\n\n# Experience\n\nAcme\n"
	assert.Equal(t, want, got)
}

func TestRecomposeSkipsEmptyBodies(t *testing.T) {
	secs := New()
	secs.Set("summary", "  \n")
	secs.Set("skills", "Go")

	assert.Equal(t, "# Skills\n\nGo\n", Recompose(secs))
}

func TestRecomposeEmpty(t *testing.T) {
	assert.Equal(t, "", Recompose(New()))
}

func TestIsCanonical(t *testing.T) {
	assert.True(t, IsCanonical("Technical Skills"))
	assert.True(t, IsCanonical("languages"))
	assert.False(t, IsCanonical("references"))
}

func TestHeaderModeString(t *testing.T) {
	assert.Equal(t, "markdown", MarkdownHeaders.String())
	assert.Equal(t, "uppercase", UppercaseHeaders.String())
	assert.Equal(t, "unknown", HeaderMode(42).String())
}
