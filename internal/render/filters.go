package render

import (
	"fmt"
	"strings"
)

// Output canvas — vertical 9:16 at 1080x1920
const (
	outputWidth  = 1080
	outputHeight = 1920
)

// Burned-subtitle style, fixed for every render
const (
	subtitleFontSize = 24
	subtitleColor    = "&H00FFFFFF" // white (ASS color order is AABBGGRR)
	subtitleOutline  = "&H00000000" // black
	subtitleAlign    = 2            // bottom center
	subtitleBorder   = 2            // outline width in px
)

// ---------------------------------------------------------------------------
// Filter graph builder
//
// Every stage of the video filter chain is a typed record that serializes to
// FFmpeg's filter grammar in one place, so the escaping rules live here and
// nowhere else. The chain always starts from the background stream ([0:v])
// and ends at the [vout] label the encoder maps.
// ---------------------------------------------------------------------------

// FilterStage is one named filter plus its arguments, serialized as
// name=arg1:arg2:... per the filter grammar.
type FilterStage struct {
	Name string
	Args []string
}

func (s FilterStage) String() string {
	if len(s.Args) == 0 {
		return s.Name
	}
	return s.Name + "=" + strings.Join(s.Args, ":")
}

// FilterChain is an ordered list of stages applied to one video stream.
type FilterChain struct {
	stages []FilterStage
}

// Add appends a stage to the chain.
func (c *FilterChain) Add(name string, args ...string) {
	c.stages = append(c.stages, FilterStage{Name: name, Args: args})
}

// String serializes the chain with input/output labels for -filter_complex.
func (c *FilterChain) String() string {
	parts := make([]string, len(c.stages))
	for i, s := range c.stages {
		parts[i] = s.String()
	}
	return "[0:v]" + strings.Join(parts, ",") + "[vout]"
}

// ComposeFilters builds the full video filter graph: scale-to-fill the
// vertical canvas, center-crop, square pixels, then either burn the subtitle
// track or draw a single-line text overlay when no subtitle file is usable.
// Exactly one of subtitlePath/overlayText may be non-empty; both empty means
// no captions.
func ComposeFilters(subtitlePath, overlayText string) string {
	var chain FilterChain

	chain.Add("scale",
		fmt.Sprintf("%d", outputWidth),
		fmt.Sprintf("%d", outputHeight),
		"force_original_aspect_ratio=increase")
	chain.Add("crop", fmt.Sprintf("%d", outputWidth), fmt.Sprintf("%d", outputHeight))
	chain.Add("setsar", "1")

	if subtitlePath != "" {
		style := fmt.Sprintf("FontSize=%d,PrimaryColour=%s,OutlineColour=%s,Alignment=%d,Outline=%d",
			subtitleFontSize, subtitleColor, subtitleOutline, subtitleAlign, subtitleBorder)
		chain.Add("subtitles",
			fmt.Sprintf("'%s'", EscapeFilterPath(subtitlePath)),
			fmt.Sprintf("force_style='%s'", style))
	} else if overlayText != "" {
		chain.Add("drawtext",
			fmt.Sprintf("text='%s'", EscapeFilterText(overlayText)),
			"fontsize=70",
			"fontcolor=white",
			"x=(w-text_w)/2",
			"y=(h-text_h)/2",
			"box=1",
			"boxcolor=black@0.6",
			"boxborderw=20")
	}

	return chain.String()
}

// EscapeFilterPath escapes a file path for use inside a filter argument.
// Backslashes become forward slashes (relevant on Windows) and colons are
// escaped because the filter grammar treats raw colons as argument
// separators.
func EscapeFilterPath(path string) string {
	path = strings.ReplaceAll(path, "\\", "/")
	path = strings.ReplaceAll(path, ":", "\\:")
	return path
}

// EscapeFilterText escapes literal text for the filter grammar. Order
// matters: backslashes must be doubled before quotes and colons are
// escaped, otherwise later escapes would re-escape the characters inserted
// by earlier ones.
func EscapeFilterText(text string) string {
	text = strings.ReplaceAll(text, "\\", "\\\\")
	text = strings.ReplaceAll(text, "'", "'\\''")
	text = strings.ReplaceAll(text, ":", "\\:")
	return text
}
