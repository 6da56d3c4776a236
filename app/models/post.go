package models

import "errors"

// AddComment attaches a comment to the post
func (p *Post) AddComment(comment *Comment) error {
	if comment == nil {
		return errors.New("comment cannot be nil")
	}

	comment.PostID = p.ID
	p.Comments = append(p.Comments, comment)
	return nil
}

// CanModify reports whether the actor may delete a row owned by ownerID:
// admins always can, otherwise the actor must be the signed-in owner. An
// anonymous actor never owns anything, not even anonymous rows.
func (a Actor) CanModify(ownerID *int64) bool {
	if a.IsAdmin {
		return true
	}
	return ownerID != nil && a.UserID != nil && *ownerID == *a.UserID
}

// Anonymous reports whether no user is signed in.
func (a Actor) Anonymous() bool {
	return a.UserID == nil
}
