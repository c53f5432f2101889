//go:build maskpaintdebug

package editor

func assertNotRendering(rendering bool) {
	if rendering {
		panic("editor: Render called while already rendering")
	}
}
