package content

import (
	"encoding/json"
	"time"
)

// Episode is a podcast episode.
type Episode struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Duration    string     `json:"duration"`
	PublishDate string     `json:"publishDate"`
	Thumbnail   string     `json:"thumbnail"`
	YoutubeURL  string     `json:"youtubeUrl,omitempty"`
	SpotifyURL  string     `json:"spotifyUrl,omitempty"`
	Tags        []string   `json:"tags"`
	CreatedBy   string     `json:"createdBy"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// BlogPost is a blog article. Content is markdown.
type BlogPost struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Excerpt     string     `json:"excerpt"`
	Content     string     `json:"content"`
	PublishDate string     `json:"publishDate"`
	ReadTime    string     `json:"readTime"`
	Tags        []string   `json:"tags"`
	Featured    bool       `json:"featured,omitempty"`
	Published   bool       `json:"published"`
	Thumbnail   string     `json:"thumbnail,omitempty"`
	CreatedBy   string     `json:"createdBy"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// ProfileData is the site owner's public bio. Only one exists.
type ProfileData struct {
	Name          string     `json:"name"`
	Title         string     `json:"title"`
	Bio           string     `json:"bio"`
	Photo         string     `json:"photo"`
	Email         string     `json:"email"`
	LinkedinURL   string     `json:"linkedinUrl"`
	TwitterURL    string     `json:"twitterUrl"`
	Education     string     `json:"education"`
	WorkStartDate string     `json:"workStartDate"`
	Skills        []string   `json:"skills"`
	Achievements  string     `json:"achievements"`
	UpdatedBy     string     `json:"updatedBy,omitempty"`
	UpdatedAt     *time.Time `json:"updatedAt,omitempty"`
}

// Message statuses. Only StatusNew is ever written today.
const (
	StatusNew     = "new"
	StatusRead    = "read"
	StatusReplied = "replied"
)

// ContactMessage is a submission from the public contact form.
type ContactMessage struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	Timestamp time.Time `json:"timestamp"`
	Status    string    `json:"status"`
}

// Image is the metadata of an uploaded, processed image.
type Image struct {
	Filename     string    `json:"filename"`
	OriginalName string    `json:"originalName"`
	URL          string    `json:"url"`
	Width        int       `json:"width"`
	Height       int       `json:"height"`
	Size         int       `json:"size"`
	UploadedBy   string    `json:"uploadedBy"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

// Patch is a partial record as sent by the admin UI. Keys are JSON field
// names; values replace the stored ones (shallow merge).
type Patch map[string]json.RawMessage

// Experience is the time elapsed since ProfileData.WorkStartDate.
type Experience struct {
	Years  int    `json:"years"`
	Months int    `json:"months"`
	Label  string `json:"label"`
}
