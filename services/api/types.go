package api

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/sivitasdev/sivitas/core/user"
)

// Pagination is the backend's page metadata, echoed alongside every listed
// collection.
type Pagination struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

type Community struct {
	ID          int         `json:"id"`
	Slug        string      `json:"slug"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	BannerURL   null.String `json:"banner_url"`
	OwnerID     int         `json:"owner_id"`
	MemberCount int         `json:"member_count"`
	IsJoined    bool        `json:"is_joined"`
	// membership status of the requesting user: MEMBER, INVITED, REQUESTED
	MembershipStatus null.String `json:"membership_status"`
	CreatedAt        time.Time   `json:"created_at"`
}

type CommunityList struct {
	Communities []Community `json:"communities"`
	Pagination  Pagination  `json:"pagination"`
}

// Member roles within a community (distinct from platform roles).
const (
	MemberRoleOwner     = "owner"
	MemberRoleModerator = "moderator"
	MemberRoleMember    = "member"
)

type Member struct {
	UserID    int         `json:"user_id"`
	Name      string      `json:"name"`
	Username  string      `json:"username"`
	Role      string      `json:"role"` // community role, not platform role
	AvatarURL null.String `json:"avatar_url"`
	JoinedAt  time.Time   `json:"joined_at"`
}

type MemberList struct {
	Members    []Member   `json:"members"`
	Pagination Pagination `json:"pagination"`
}

type JoinRequest struct {
	UserID      int       `json:"user_id"`
	Name        string    `json:"name"`
	Username    string    `json:"username"`
	RequestedAt time.Time `json:"requested_at"`
}

type Forum struct {
	ID            int         `json:"id"`
	CommunitySlug string      `json:"community_slug"`
	Title         string      `json:"title"`
	Body          string      `json:"body"`
	Author        Member      `json:"author"`
	Votes         int         `json:"votes"`
	RespondCount  int         `json:"respond_count"`
	AcceptedID    null.Int    `json:"accepted_respond_id"`
	AttachmentURL null.String `json:"attachment_url"`
	CreatedAt     time.Time   `json:"created_at"`
}

type ForumList struct {
	Forums     []Forum    `json:"forums"`
	Pagination Pagination `json:"pagination"`
}

// Respond is an answer on a forum topic.
type Respond struct {
	ID         int       `json:"id"`
	ForumID    int       `json:"forum_id"`
	Body       string    `json:"body"`
	Author     Member    `json:"author"`
	Votes      int       `json:"votes"`
	IsAccepted bool      `json:"is_accepted"`
	CreatedAt  time.Time `json:"created_at"`
}

type Post struct {
	ID            int         `json:"id"`
	CommunitySlug null.String `json:"community_slug"` // absent for home-feed posts
	Content       string      `json:"content"`
	ImageURL      null.String `json:"image_url"`
	Author        Member      `json:"author"`
	LikeCount     int         `json:"like_count"`
	CommentCount  int         `json:"comment_count"`
	IsLiked       bool        `json:"is_liked"`
	IsPinned      bool        `json:"is_pinned"`
	CreatedAt     time.Time   `json:"created_at"`
}

type PostList struct {
	Posts      []Post     `json:"posts"`
	Pagination Pagination `json:"pagination"`
}

type Comment struct {
	ID         int       `json:"id"`
	PostID     int       `json:"post_id"`
	ParentID   null.Int  `json:"parent_id"`
	Body       string    `json:"body"`
	Author     Member    `json:"author"`
	ReplyCount int       `json:"reply_count"`
	CreatedAt  time.Time `json:"created_at"`
}

type Notification struct {
	ID        int         `json:"id"`
	Type      string      `json:"type"`
	Message   string      `json:"message"`
	TargetURL null.String `json:"target_url"`
	IsRead    bool        `json:"is_read"`
	CreatedAt time.Time   `json:"created_at"`
}

type NotificationList struct {
	Notifications []Notification `json:"notifications"`
	UnreadCount   int            `json:"unread_count"`
}

type Profile struct {
	User       user.User   `json:"user"`
	Bio        null.String `json:"bio"`
	Faculty    null.String `json:"faculty"`
	StudyField null.String `json:"study_field"`
	Points     int         `json:"points"`
	PostCount  int         `json:"post_count"`
	ForumCount int         `json:"forum_count"`
}
