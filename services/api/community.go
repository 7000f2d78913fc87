package api

import (
	"context"
	"net/url"
	"strconv"
)

// CommunityInput is the create/update payload; Banner may be nil.
type CommunityInput struct {
	Name        string `form:"name" validate:"required,min=3"`
	Description string `form:"description" validate:"required"`
	Banner      *Upload
}

func (in CommunityInput) fields() url.Values {
	fields := url.Values{}
	fields.Set("name", in.Name)
	fields.Set("description", in.Description)
	return fields
}

func (in CommunityInput) uploads() []Upload {
	if in.Banner == nil {
		return nil
	}
	up := *in.Banner
	up.Field = "banner"
	return []Upload{up}
}

// JoinedCommunities lists the communities the current user is a member of.
func (c *Client) JoinedCommunities(ctx context.Context) ([]Community, error) {
	var out []Community
	err := c.get(ctx, "/joined/communities", nil, &out)
	return out, err
}

// RecommendedCommunities lists communities suggested for the current user.
func (c *Client) RecommendedCommunities(ctx context.Context) ([]Community, error) {
	var out []Community
	err := c.get(ctx, "/communities/recommended", nil, &out)
	return out, err
}

func (c *Client) Community(ctx context.Context, slug string) (Community, error) {
	var out Community
	err := c.get(ctx, "/communities/"+url.PathEscape(slug), nil, &out)
	return out, err
}

func (c *Client) CreateCommunity(ctx context.Context, in CommunityInput) (Community, error) {
	var out Community
	err := c.postMultipart(ctx, "/communities", in.fields(), in.uploads(), &out)
	return out, err
}

func (c *Client) UpdateCommunity(ctx context.Context, slug string, in CommunityInput) (Community, error) {
	var out Community
	err := c.postMultipart(ctx, "/communities/"+url.PathEscape(slug)+"/update", in.fields(), in.uploads(), &out)
	return out, err
}

func (c *Client) SearchCommunities(ctx context.Context, keyword string) ([]Community, error) {
	q := url.Values{}
	q.Set("q", keyword)
	var out []Community
	err := c.get(ctx, "/communities/search", q, &out)
	return out, err
}

func (c *Client) CommunityMembers(ctx context.Context, slug, search string, page int) (MemberList, error) {
	q := url.Values{}
	q.Set("q", search)
	q.Set("page", strconv.Itoa(page))
	var out MemberList
	err := c.get(ctx, "/communities/"+url.PathEscape(slug)+"/members", q, &out)
	return out, err
}

func (c *Client) JoinCommunity(ctx context.Context, slug string) error {
	return c.postForm(ctx, "/join/communities/"+url.PathEscape(slug), nil, nil)
}

func (c *Client) LeaveCommunity(ctx context.Context, slug string) error {
	return c.postForm(ctx, "/leave/communities/"+url.PathEscape(slug), nil, nil)
}

func (c *Client) TransferOwnership(ctx context.Context, slug string, newOwnerID int) error {
	form := url.Values{}
	form.Set("new_owner_id", strconv.Itoa(newOwnerID))
	return c.postForm(ctx, "/communities/"+url.PathEscape(slug)+"/transfer-ownership", form, nil)
}

// InviteExternal asks the backend to create an account request for an
// outside expert/partner/alumnus and invite them into the community.
func (c *Client) InviteExternal(ctx context.Context, slug, name, email, role string) error {
	form := url.Values{}
	form.Set("name", name)
	form.Set("email", email)
	form.Set("role", role)
	return c.postForm(ctx, "/communities/"+url.PathEscape(slug)+"/invite-external", form, nil)
}

// SearchInviteCandidates finds platform users not yet in the community.
func (c *Client) SearchInviteCandidates(ctx context.Context, slug, keyword string) ([]Member, error) {
	q := url.Values{}
	q.Set("q", keyword)
	var out []Member
	err := c.get(ctx, "/communities/"+url.PathEscape(slug)+"/search-candidates", q, &out)
	return out, err
}

// InviteMember puts an internal user into INVITED state.
func (c *Client) InviteMember(ctx context.Context, slug string, userID int) error {
	form := url.Values{}
	form.Set("user_id", strconv.Itoa(userID))
	return c.postForm(ctx, "/communities/"+url.PathEscape(slug)+"/invite-internal", form, nil)
}

func (c *Client) AcceptInvitation(ctx context.Context, slug string) error {
	return c.postForm(ctx, "/communities/"+url.PathEscape(slug)+"/accept-invite", nil, nil)
}

func (c *Client) DeclineInvitation(ctx context.Context, slug string) error {
	return c.postForm(ctx, "/communities/"+url.PathEscape(slug)+"/decline-invite", nil, nil)
}
