package platform

import "time"

// AppName identifies the application to notification servers.
const AppName = "maskpaint"

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// IconPath, when non-empty, points to an image file the notification center
	// should display with the notification if supported by the platform.
	IconPath string
	// Timeout is how long the notification stays up. Zero leaves it to the
	// platform.
	Timeout time.Duration
	// Urgent asks for the notification to stay until dismissed where the
	// platform supports it, for failures the user should not miss.
	Urgent bool
}

func (o Options) expireMillis() int32 {
	if o.Urgent {
		return 0
	}
	if o.Timeout <= 0 {
		return -1
	}
	return int32(o.Timeout / time.Millisecond)
}
