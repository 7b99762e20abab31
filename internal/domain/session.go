package domain

// Session identifies the single live server-side conversation. The
// client holds at most one at a time: created on upload, replaced only
// after an explicit reset.
type Session struct {
	ID string `json:"id"`
}

// Live reports whether a server-side session exists.
func (s Session) Live() bool {
	return s.ID != ""
}

// ImagePair holds the displayable references for the workspace's image
// panel. Original is set once when the session is created; Result is
// overwritten whenever a chat turn returns a new result image. Both are
// cleared on reset.
type ImagePair struct {
	// Original is a local path to the uploaded image.
	Original string `json:"original"`
	// Result is a self-contained data URI returned by the service,
	// empty until the first turn that produces one.
	Result string `json:"result,omitempty"`
}
