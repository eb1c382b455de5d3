package comments

import "time"

// Anchor is the position range in the document text a thread is attached to.
type Anchor struct {
	From int `json:"from" bson:"from"`
	To   int `json:"to" bson:"to"`
}

// Author identifies the user who wrote a comment.
type Author struct {
	ID   string `json:"id" bson:"id"`
	Name string `json:"name" bson:"name"`
}

// Comment is one entry in a thread. ID and Timestamp are assigned by the
// store at append time, so array order and timestamp order agree.
type Comment struct {
	ID        string    `json:"id" bson:"id"`
	Author    Author    `json:"author" bson:"author"`
	Content   string    `json:"content" bson:"content"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

// Thread is an append-only, position-anchored sequence of comments.
type Thread struct {
	ID         string    `json:"id" bson:"id"`
	DocumentID string    `json:"document_id" bson:"documentId"`
	Anchor     Anchor    `json:"anchor" bson:"anchor"`
	Comments   []Comment `json:"comments" bson:"comments"`
}
