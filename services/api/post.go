package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

type PostInput struct {
	Content string `form:"content" validate:"required"`
	Image   *Upload
}

func (in PostInput) fields() url.Values {
	fields := url.Values{}
	fields.Set("content", in.Content)
	return fields
}

func (in PostInput) uploads() []Upload {
	if in.Image == nil {
		return nil
	}
	up := *in.Image
	up.Field = "image"
	return []Upload{up}
}

// HomePosts is the cross-community feed shown on the home page.
func (c *Client) HomePosts(ctx context.Context, page int, search string) (PostList, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("search", search)
	var out PostList
	err := c.get(ctx, "/posts", q, &out)
	return out, err
}

func (c *Client) CommunityPosts(ctx context.Context, slug string, page int, search string) (PostList, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("search", search)
	var out PostList
	err := c.get(ctx, "/posts/communities/"+url.PathEscape(slug), q, &out)
	return out, err
}

func (c *Client) Post(ctx context.Context, postID int) (Post, error) {
	var out Post
	err := c.get(ctx, fmt.Sprintf("/posts/%d", postID), nil, &out)
	return out, err
}

func (c *Client) CreateHomePost(ctx context.Context, in PostInput) (Post, error) {
	var out Post
	err := c.postMultipart(ctx, "/posts", in.fields(), in.uploads(), &out)
	return out, err
}

func (c *Client) CreateCommunityPost(ctx context.Context, slug string, in PostInput) (Post, error) {
	var out Post
	err := c.postMultipart(ctx, "/posts/communities/"+url.PathEscape(slug), in.fields(), in.uploads(), &out)
	return out, err
}

func (c *Client) UpdatePost(ctx context.Context, postID int, in PostInput) (Post, error) {
	var out Post
	err := c.postMultipart(ctx, fmt.Sprintf("/posts/%d/update", postID), in.fields(), in.uploads(), &out)
	return out, err
}

// TogglePostPin pins or unpins a post (community moderators only).
func (c *Client) TogglePostPin(ctx context.Context, postID int) error {
	return c.postForm(ctx, fmt.Sprintf("/posts/%d/pin", postID), nil, nil)
}

func (c *Client) DeletePost(ctx context.Context, postID int) error {
	return c.postForm(ctx, fmt.Sprintf("/posts/%d/delete", postID), nil, nil)
}

// LikePost toggles the current user's like on a post.
func (c *Client) LikePost(ctx context.Context, postID int) error {
	return c.postForm(ctx, fmt.Sprintf("/likes/posts/%d", postID), nil, nil)
}
