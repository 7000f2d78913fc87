package api

import (
	"context"
	"net/url"

	"github.com/volatiletech/null/v8"
)

type ProfileInput struct {
	Name       string      `form:"name" validate:"required"`
	Bio        null.String `form:"bio"`
	Faculty    null.String `form:"faculty"`
	StudyField null.String `form:"study_field"`
	Avatar     *Upload
}

func (c *Client) Profile(ctx context.Context, username string) (Profile, error) {
	var out Profile
	err := c.get(ctx, "/profile/"+url.PathEscape(username), nil, &out)
	return out, err
}

func (c *Client) UpdateProfile(ctx context.Context, in ProfileInput) (Profile, error) {
	fields := url.Values{}
	fields.Set("name", in.Name)
	if in.Bio.Valid {
		fields.Set("bio", in.Bio.String)
	}
	if in.Faculty.Valid {
		fields.Set("faculty", in.Faculty.String)
	}
	if in.StudyField.Valid {
		fields.Set("study_field", in.StudyField.String)
	}
	var uploads []Upload
	if in.Avatar != nil {
		up := *in.Avatar
		up.Field = "avatar"
		uploads = append(uploads, up)
	}
	var out Profile
	err := c.postMultipart(ctx, "/users/profile/update", fields, uploads, &out)
	return out, err
}

// CompleteProfileData fills the mandatory fields prompted right after the
// first login.
func (c *Client) CompleteProfileData(ctx context.Context, in ProfileInput) (Profile, error) {
	fields := url.Values{}
	fields.Set("name", in.Name)
	if in.Faculty.Valid {
		fields.Set("faculty", in.Faculty.String)
	}
	if in.StudyField.Valid {
		fields.Set("study_field", in.StudyField.String)
	}
	var out Profile
	err := c.postForm(ctx, "/profile/complete-data", fields, &out)
	return out, err
}
