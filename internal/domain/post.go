package domain

import "time"

// PostStatus is the lifecycle state of a post.
type PostStatus string

const (
	StatusDraft     PostStatus = "draft"
	StatusScheduled PostStatus = "scheduled"
	StatusPosted    PostStatus = "posted"
)

// PublishedMarker is appended to a post's hashtags when it is published.
const PublishedMarker = "#AutoPosted"

type Post struct {
	ID            int64      `db:"id" json:"id"`
	Prompt        *string    `db:"prompt" json:"prompt,omitempty"`
	Content       string     `db:"content" json:"content"`
	Hashtags      *string    `db:"hashtags" json:"hashtags,omitempty"`
	Status        PostStatus `db:"status" json:"status"`
	ScheduledTime *time.Time `db:"scheduled_time" json:"scheduled_time,omitempty"`
	PostedAt      *time.Time `db:"posted_at" json:"posted_at,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
}

type Analytics struct {
	ID          int64     `db:"id" json:"id"`
	PostID      int64     `db:"post_id" json:"post_id"`
	Likes       int       `db:"likes" json:"likes"`
	Comments    int       `db:"comments" json:"comments"`
	Shares      int       `db:"shares" json:"shares"`
	Impressions int       `db:"impressions" json:"impressions"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// EngagementScore ranks posts for the top-performing listing.
func (a Analytics) EngagementScore() int {
	return a.Likes + a.Comments*2 + a.Shares*3
}

// RankedPost pairs a published post with its metrics for the top-performing
// listing.
type RankedPost struct {
	Post      Post      `json:"post"`
	Analytics Analytics `json:"analytics"`
}

// PostAnalyticsRow is one row of the per-post analytics overview. Metrics is
// zero-valued for posts that have not been published yet.
type PostAnalyticsRow struct {
	Post    Post      `json:"post"`
	Metrics Analytics `json:"metrics"`
}

// AnalyticsSummary aggregates engagement across all analytics records.
type AnalyticsSummary struct {
	TotalPosts       int     `json:"total_posts"`
	TotalLikes       int     `json:"total_likes"`
	TotalComments    int     `json:"total_comments"`
	TotalShares      int     `json:"total_shares"`
	TotalImpressions int     `json:"total_impressions"`
	AverageLikes     float64 `json:"average_likes"`
	AverageComments  float64 `json:"average_comments"`
	AverageShares    float64 `json:"average_shares"`
}

type Profile struct {
	ID       int64   `db:"id" json:"id"`
	Name     string  `db:"name" json:"name"`
	Headline *string `db:"headline" json:"headline,omitempty"`
	About    *string `db:"about" json:"about,omitempty"`
}

// ProfileAnalysis is the mock profile breakdown returned by the profile
// analysis endpoint.
type ProfileAnalysis struct {
	Name       string   `json:"name"`
	Headline   string   `json:"headline"`
	About      string   `json:"about"`
	Skills     []string `json:"skills"`
	Interests  []string `json:"interests"`
	Experience string   `json:"experience"`
}
