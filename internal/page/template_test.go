package page

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateBothImages(t *testing.T) {
	var tmpl Templator
	html, err := tmpl.Template(context.Background(), Params{
		ID:          "round-1",
		LeftPrompt:  "ramen",
		RightPrompt: "cat",
		LeftImage:   "round-1/left.png",
		RightImage:  "round-1/right.png",
	})
	require.NoError(t, err)

	page := string(html)
	assert.Contains(t, page, `<img src="round-1/left.png" alt="ramen">`)
	assert.Contains(t, page, `<img src="round-1/right.png" alt="cat">`)
	assert.Contains(t, page, `<title>ramen + cat</title>`)
	assert.NotContains(t, page, `class="error"`)
	assert.Less(t, strings.Index(page, "left.png"), strings.Index(page, "right.png"))
}

func TestTemplateMissingImageAndError(t *testing.T) {
	var tmpl Templator
	html, err := tmpl.Template(context.Background(), Params{
		ID:          "round-2",
		LeftPrompt:  "<script>",
		RightPrompt: "dog",
		RightImage:  "round-2/right.png",
		Error:       "image: bad server response: 404 Not Found",
	})
	require.NoError(t, err)

	page := string(html)
	assert.NotContains(t, page, "left.png")
	assert.NotContains(t, page, "<script>")
	assert.Contains(t, page, "404 Not Found")
}
