package wizard

const (
	MessageSubmitted    = "Survey submitted successfully!"
	MessageSubmitFailed = "Error submitting survey. Please try again."
)

// NoticeKind classifies a Notice.
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice is an acknowledgement the participant must see before continuing.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
}

// Notifier receives notices as they are raised. It is called without the
// controller lock held.
type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a function into a Notifier.
type NotifierFunc func(Notice)

func (fn NotifierFunc) Notify(n Notice) { fn(n) }

// Notices returns the notices raised so far, oldest first.
func (c *Controller) Notices() []Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Notice(nil), c.notices...)
}

// DrainNotices returns pending notices and clears them, for renderers that
// show each notice once.
func (c *Controller) DrainNotices() []Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.notices
	c.notices = nil
	return out
}
