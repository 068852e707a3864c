package entity

import (
	"time"
)

const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

type Media struct {
	ID          string `json:"id" firestore:"id"`
	URL         string `json:"url" firestore:"url"`
	ObjectName  string `json:"-" firestore:"objectName"`
	OwnerID     string `json:"owner_id" firestore:"ownerId"`
	ListingID   string `json:"listing_id,omitempty" firestore:"listingId"`
	Caption     string `json:"caption,omitempty" firestore:"caption"`
	MediaType   string `json:"media_type" firestore:"mediaType"`
	ContentType string `json:"content_type" firestore:"contentType"`
	Size        int64  `json:"size" firestore:"size"`
	ACL         ACL    `json:"-" firestore:"acl"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}

func (m *Media) IsImage() bool {
	return m.MediaType == MediaTypeImage
}

func (m *Media) IsVideo() bool {
	return m.MediaType == MediaTypeVideo
}
