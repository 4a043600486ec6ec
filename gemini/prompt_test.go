package gemini

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompositePrompt(t *testing.T) {
	desc := "Anorak: lightweight nylon, short zipper, drawstring hood"
	prompt := CompositePrompt(desc)

	// The description names the garment everywhere it is referenced.
	assert.Greater(t, strings.Count(prompt, desc), 10)

	// Preservation of the subject photo, stated positively and as
	// negative constraints.
	assert.Contains(t, prompt, "face and background of Image 2 MUST remain completely unaltered")
	assert.Contains(t, prompt, "Negative Constraints")
	assert.Contains(t, prompt, "Do not combine or fuse any features of the original garment")
	assert.Contains(t, prompt, "no modifications to the subject's face, hair, or expression")

	// Closing statement about the expected output.
	assert.Contains(t, prompt, "authentic and professional")

	// The %% escape must not leak into the rendered prompt.
	assert.NotContains(t, prompt, "%%")
	assert.Contains(t, prompt, "100% identical")
}
