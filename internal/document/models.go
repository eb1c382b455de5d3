package document

import "time"

// Document is the persistent document model. Content is an opaque text blob;
// rendering and formatting live entirely in the client.
type Document struct {
	ID            string    `json:"id" bson:"id"`
	Title         string    `json:"title" bson:"title"`
	Content       string    `json:"content,omitempty" bson:"content,omitempty"`
	OwnerID       string    `json:"owner_id" bson:"ownerId"`
	AccessCode    string    `json:"access_code,omitempty" bson:"accessCode,omitempty"`
	Collaborators []string  `json:"collaborators,omitempty" bson:"collaborators,omitempty"`
	CreatedAt     time.Time `json:"created_at" bson:"createdAt"`
	UpdatedAt     time.Time `json:"updated_at" bson:"updatedAt"`
}

// Update carries a partial document mutation. Nil fields are left untouched.
type Update struct {
	Title   *string
	Content *string
}

// HasCollaborator reports whether the given user id already joined the document.
func (d *Document) HasCollaborator(userID string) bool {
	for _, id := range d.Collaborators {
		if id == userID {
			return true
		}
	}
	return false
}
