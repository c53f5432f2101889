package main

import "image"

func (r *root) notifyExport(detail string) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Export(detail)
}

func (r *root) notifySave(path string) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Save(path)
}

func (r *root) notifyGenerated(detail string, img image.Image) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Generated(detail, img)
}

func (r *root) notifyGenerateFailed(err error) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.GenerateFailed(err)
}
