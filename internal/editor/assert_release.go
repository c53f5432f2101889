//go:build !maskpaintdebug

package editor

func assertNotRendering(bool) {}
