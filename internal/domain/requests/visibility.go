package requests

// Hide adds actor to the request's hidden set. Only terminal records can be
// hidden; hiding twice by the same actor is a no-op. There is no unhide.
func Hide(req Request, actor string) (Request, error) {
	if !req.Terminal() {
		return req, ErrNotTerminal
	}
	if req.HiddenFor(actor) {
		return req, nil
	}
	out := req.clone()
	out.HiddenBy = append(out.HiddenBy, actor)
	return out, nil
}

// HiddenFor reports whether viewer has hidden the request from their own
// lists. Hiding is per-viewer: one user's hide never affects another's view.
func (r Request) HiddenFor(viewer string) bool {
	for _, name := range r.HiddenBy {
		if name == viewer {
			return true
		}
	}
	return false
}
