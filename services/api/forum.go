package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// Reaction values accepted by the vote endpoints.
const (
	VoteUp   = 1
	VoteDown = -1
)

type ForumInput struct {
	Title      string `form:"title" validate:"required,min=5"`
	Body       string `form:"body" validate:"required"`
	Attachment *Upload
}

func (c *Client) Forums(ctx context.Context, slug, search string, page int) (ForumList, error) {
	q := url.Values{}
	q.Set("q", search)
	q.Set("page", strconv.Itoa(page))
	var out ForumList
	err := c.get(ctx, "/communities/"+url.PathEscape(slug)+"/forums", q, &out)
	return out, err
}

func (c *Client) Forum(ctx context.Context, slug string, id int) (Forum, error) {
	var out Forum
	err := c.get(ctx, fmt.Sprintf("/communities/%s/forums/%d", url.PathEscape(slug), id), nil, &out)
	return out, err
}

func (c *Client) CreateForum(ctx context.Context, slug string, in ForumInput) (Forum, error) {
	fields := url.Values{}
	fields.Set("title", in.Title)
	fields.Set("body", in.Body)
	var uploads []Upload
	if in.Attachment != nil {
		up := *in.Attachment
		up.Field = "attachment"
		uploads = append(uploads, up)
	}
	var out Forum
	err := c.postMultipart(ctx, "/communities/"+url.PathEscape(slug)+"/forums", fields, uploads, &out)
	return out, err
}

func (c *Client) Responds(ctx context.Context, slug string, forumID int) ([]Respond, error) {
	var out []Respond
	err := c.get(ctx, fmt.Sprintf("/communities/%s/forums/%d/responds", url.PathEscape(slug), forumID), nil, &out)
	return out, err
}

func (c *Client) CreateRespond(ctx context.Context, slug string, forumID int, body string) (Respond, error) {
	form := url.Values{}
	form.Set("body", body)
	var out Respond
	err := c.postForm(ctx, fmt.Sprintf("/communities/%s/forums/%d/responds", url.PathEscape(slug), forumID), form, &out)
	return out, err
}

// MarkRespondAccepted marks an answer as the topic's solution.
func (c *Client) MarkRespondAccepted(ctx context.Context, slug string, forumID, respondID int) error {
	return c.postForm(ctx, fmt.Sprintf("/communities/%s/forums/%d/responds/%d/accept", url.PathEscape(slug), forumID, respondID), nil, nil)
}

// VoteForum up/down-votes a forum topic; reaction is VoteUp or VoteDown.
func (c *Client) VoteForum(ctx context.Context, forumID, reaction int) error {
	form := url.Values{}
	form.Set("reaction", strconv.Itoa(reaction))
	return c.postForm(ctx, fmt.Sprintf("/reactions/forums/%d", forumID), form, nil)
}

// VoteRespond up/down-votes an answer.
func (c *Client) VoteRespond(ctx context.Context, respondID, reaction int) error {
	form := url.Values{}
	form.Set("reaction", strconv.Itoa(reaction))
	return c.postForm(ctx, fmt.Sprintf("/reactions/forumrespond/%d", respondID), form, nil)
}
