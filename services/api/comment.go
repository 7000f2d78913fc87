package api

import (
	"context"
	"fmt"
	"net/url"
)

func (c *Client) Comments(ctx context.Context, postID int) ([]Comment, error) {
	var out []Comment
	err := c.get(ctx, fmt.Sprintf("/posts/%d/comments", postID), nil, &out)
	return out, err
}

func (c *Client) CreateComment(ctx context.Context, postID int, body string) (Comment, error) {
	form := url.Values{}
	form.Set("body", body)
	var out Comment
	err := c.postForm(ctx, fmt.Sprintf("/posts/%d/comments", postID), form, &out)
	return out, err
}

func (c *Client) Replies(ctx context.Context, commentID int) ([]Comment, error) {
	var out []Comment
	err := c.get(ctx, fmt.Sprintf("/comments/%d/replies", commentID), nil, &out)
	return out, err
}

func (c *Client) ReplyComment(ctx context.Context, commentID int, body string) (Comment, error) {
	form := url.Values{}
	form.Set("body", body)
	var out Comment
	err := c.postForm(ctx, fmt.Sprintf("/comments/%d/replies", commentID), form, &out)
	return out, err
}

func (c *Client) DeleteComment(ctx context.Context, commentID int) error {
	return c.postForm(ctx, fmt.Sprintf("/comments/%d/delete", commentID), nil, nil)
}
