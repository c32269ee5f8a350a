package puzzle

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

const puzzlePage = `<!DOCTYPE html>
<html lang="en-us">
<head><title>Day 1 - Advent of Code 2022</title><style>body { color: #ccc; }</style></head>
<body>
<header><h1 class="title-global"><a href="/">Advent of Code</a></h1></header>
<main>
<article class="day-desc"><h2>--- Day 1: Calorie Counting ---</h2><p>Santa's reindeer typically eat regular reindeer food, but they need a lot of
<a href="/2022/events">magical energy</a> to deliver presents.</p>
<pre><code>1000
2000

3000
</code></pre>
<p>Find the Elf carrying the <em>most Calories</em>.</p>
<ul><li>The first Elf</li><li>The second Elf</li></ul>
</article>
<p>Your puzzle answer was <code>69177</code>.</p>
<article class="day-desc"><h2 id="part2">--- Part Two ---</h2><p>Find the top <em>three</em> Elves.</p></article>
</main>
</body>
</html>`

const wrongAnswerPage = `<!DOCTYPE html>
<html><body><main>
<article><p>That's not the right answer; your answer is too low.  If you're stuck, make sure you're using the full input data; there are also some general tips on the <a href="/2022/about">about page</a>, or you can ask for hints on the <a href="https://www.reddit.com/r/adventofcode/" target="_blank">subreddit</a>.  Please wait one minute before trying again. <a href="/2022/day/1">[Return to Day 1]</a></p></article>
</main></body></html>`

const rightAnswerPage = `<!DOCTYPE html>
<html><body><main>
<article><p>That's the right answer!  You are one gold star closer to collecting enough star fruit. You have completed Day 1! You can <span class="share">[Share<span class="share-content">on <a href="https://twitter.com/">Twitter</a></span>]</span> this victory or <a href="/2022">[Return to Your Advent Calendar]</a>.</p></article>
</main></body></html>`

func TestDescriptions(t *testing.T) {
	parts, err := Descriptions(strings.NewReader(puzzlePage))
	require.NoError(t, err)
	require.Len(t, parts, 2)

	assert.Equal(t, `--- Day 1: Calorie Counting ---

Santa's reindeer typically eat regular reindeer food, but they need a lot of magical energy to deliver presents.

1000
2000

3000

Find the Elf carrying the most Calories.

  - The first Elf
  - The second Elf`, Text(parts[0], false))
	assert.Equal(t, "--- Part Two ---\n\nFind the top three Elves.", Text(parts[1], false))
}

func TestDescriptionsColour(t *testing.T) {
	parts, err := Descriptions(strings.NewReader(puzzlePage))
	require.NoError(t, err)
	assert.Equal(t, "--- Part Two ---\n\nFind the top \x1b[1mthree\x1b[0m Elves.", Text(parts[1], true))
}

func TestDescriptionsMissing(t *testing.T) {
	_, err := Descriptions(strings.NewReader(`<html><body><p>Please log in</p></body></html>`))
	assert.Error(t, err)
}

func TestPart(t *testing.T) {
	parts, err := Descriptions(strings.NewReader(puzzlePage))
	require.NoError(t, err)
	part, err := Part(parts, 2)
	assert.NoError(t, err)
	assert.Equal(t, parts[1], part)
	_, err = Part(parts, 3)
	assert.EqualError(t, err, "cannot find part 3 on page")
	_, err = Part(parts, 0)
	assert.Error(t, err)
}

func TestWrongAnswer(t *testing.T) {
	f, err := ParseFeedback(strings.NewReader(wrongAnswerPage), 1)
	require.NoError(t, err)
	assert.False(t, f.Correct)
	assert.False(t, f.Done)
	assert.Equal(t, "That's not the right answer; your answer is too low", f.Message)
	assert.Equal(t, "That's not the right answer; your answer is too low. Please wait one minute before trying again.", f.Text(false))
}

func TestRightAnswer(t *testing.T) {
	f, err := ParseFeedback(strings.NewReader(rightAnswerPage), 1)
	require.NoError(t, err)
	assert.True(t, f.Correct)
	assert.False(t, f.Done)
	assert.NotContains(t, f.Text(false), "victory")
	assert.NotContains(t, f.Text(false), "Return to")
	assert.Contains(t, f.Text(false), "You have completed Day 1!")

	f, err = ParseFeedback(strings.NewReader(rightAnswerPage), 2)
	require.NoError(t, err)
	assert.True(t, f.Done)
}

func TestFeedbackWithoutMain(t *testing.T) {
	_, err := ParseFeedback(strings.NewReader(`<html><body>Oops</body></html>`), 1)
	assert.Error(t, err)
}

func TestTextCollapsesWhitespace(t *testing.T) {
	nodes, err := html.ParseFragment(strings.NewReader("<p>  a \n\t b<em> c </em>d<br>e</p>"), nil)
	require.NoError(t, err)
	var b strings.Builder
	for _, n := range nodes {
		b.WriteString(Text(n, false))
	}
	assert.Equal(t, "a b c d\ne", b.String())
}
