package feed

// Visible reports whether a meme owned by ownerID belongs in viewerID's feed.
// The feed never shows a viewer their own uploads; anonymous viewers pass the
// ownership check trivially. Policy gating for anonymous browsing happens
// before paging, not here.
func Visible(viewerID, ownerID string) bool {
	return viewerID == "" || ownerID != viewerID
}
