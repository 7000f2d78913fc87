package echoweb

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/sivitasdev/sivitas/services/api"
)

func (s *server) communitiesPage(ctx echo.Context) error {
	sess := currentSession(ctx)
	reqCtx := ctx.Request().Context()

	var (
		results []api.Community
		err     error
	)
	keyword := ctx.QueryParam("q")
	if keyword != "" {
		results, err = sess.api.SearchCommunities(reqCtx, keyword)
	} else {
		results, err = sess.api.RecommendedCommunities(reqCtx)
	}
	if err != nil {
		return errors.Wrap(err, "fetching communities")
	}
	return s.render(ctx, http.StatusOK, "communities", echo.Map{
		"Title":       "Jelajahi Komunitas",
		"Communities": results,
		"Query":       keyword,
	})
}

func (s *server) joinedCommunitiesPage(ctx echo.Context) error {
	joined, err := currentSession(ctx).api.JoinedCommunities(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "fetching joined communities")
	}
	return s.render(ctx, http.StatusOK, "communities", echo.Map{
		"Title":       "Komunitas Saya",
		"Communities": joined,
	})
}

func (s *server) communityFeedsPage(ctx echo.Context) error {
	// aggregate feed across every joined community
	posts, err := currentSession(ctx).api.HomePosts(ctx.Request().Context(), pageQuery(ctx), ctx.QueryParam("q"))
	if err != nil {
		return errors.Wrap(err, "fetching community feeds")
	}
	return s.render(ctx, http.StatusOK, "feed", echo.Map{
		"Title":         "Beranda Komunitas",
		"ComposeAction": "/posts",
		"Posts":         posts.Posts,
		"Pagination":    posts.Pagination,
		"Search":        ctx.QueryParam("q"),
	})
}

// communityPage fetches the community shared by every tab of its page and
// renders the requested tab.
func (s *server) communityPage(ctx echo.Context, tab string, data echo.Map) error {
	slug := ctx.Param("slug")
	community, err := currentSession(ctx).api.Community(ctx.Request().Context(), slug)
	if err != nil {
		return errors.Wrap(err, "fetching community")
	}
	data["Community"] = community
	data["Tab"] = tab
	return s.render(ctx, http.StatusOK, "community", data)
}

func (s *server) communityPostsPage(ctx echo.Context) error {
	posts, err := currentSession(ctx).api.CommunityPosts(
		ctx.Request().Context(), ctx.Param("slug"), pageQuery(ctx), ctx.QueryParam("q"))
	if err != nil {
		return errors.Wrap(err, "fetching community posts")
	}
	return s.communityPage(ctx, "posts", echo.Map{"Posts": posts.Posts})
}

func (s *server) communityForumsPage(ctx echo.Context) error {
	forums, err := currentSession(ctx).api.Forums(
		ctx.Request().Context(), ctx.Param("slug"), ctx.QueryParam("q"), pageQuery(ctx))
	if err != nil {
		return errors.Wrap(err, "fetching community forums")
	}
	return s.communityPage(ctx, "forums", echo.Map{"Forums": forums.Forums})
}

func (s *server) communityMembersPage(ctx echo.Context) error {
	sess := currentSession(ctx)
	reqCtx := ctx.Request().Context()
	slug := ctx.Param("slug")

	members, err := sess.api.CommunityMembers(reqCtx, slug, ctx.QueryParam("q"), pageQuery(ctx))
	if err != nil {
		return errors.Wrap(err, "fetching community members")
	}

	// ?invite_q= searches platform users not yet in the community
	var candidates []api.Member
	if keyword := ctx.QueryParam("invite_q"); keyword != "" {
		if candidates, err = sess.api.SearchInviteCandidates(reqCtx, slug, keyword); err != nil {
			return errors.Wrap(err, "searching invite candidates")
		}
	}

	return s.communityPage(ctx, "members", echo.Map{
		"Members":    members.Members,
		"Candidates": candidates,
	})
}

func (s *server) communityDashboardPage(ctx echo.Context) error {
	requests, err := currentSession(ctx).api.JoinRequests(ctx.Request().Context(), ctx.Param("slug"))
	if err != nil {
		return errors.Wrap(err, "fetching join requests")
	}
	return s.communityPage(ctx, "dashboard", echo.Map{"Requests": requests})
}

func (s *server) createCommunity(ctx echo.Context) error {
	in := api.CommunityInput{
		Name:        ctx.FormValue("name"),
		Description: ctx.FormValue("description"),
	}
	if err := s.deps.Validate.Struct(in); err != nil {
		return err
	}
	banner, err := formUpload(ctx, "banner")
	if err != nil {
		return err
	}
	in.Banner = banner
	community, err := currentSession(ctx).api.CreateCommunity(ctx.Request().Context(), in)
	if err != nil {
		return errors.Wrap(err, "creating community")
	}
	return ctx.Redirect(http.StatusFound, pathCommunities+"/"+community.Slug)
}

func (s *server) updateCommunity(ctx echo.Context) error {
	in := api.CommunityInput{
		Name:        ctx.FormValue("name"),
		Description: ctx.FormValue("description"),
	}
	if err := s.deps.Validate.Struct(in); err != nil {
		return err
	}
	banner, err := formUpload(ctx, "banner")
	if err != nil {
		return err
	}
	in.Banner = banner
	community, err := currentSession(ctx).api.UpdateCommunity(ctx.Request().Context(), ctx.Param("slug"), in)
	if err != nil {
		return errors.Wrap(err, "updating community")
	}
	return ctx.Redirect(http.StatusFound, pathCommunities+"/"+community.Slug)
}

func (s *server) joinCommunity(ctx echo.Context) error {
	slug := ctx.Param("slug")
	if err := currentSession(ctx).api.JoinCommunity(ctx.Request().Context(), slug); err != nil {
		return errors.Wrap(err, "joining community")
	}
	return redirectBack(ctx, pathCommunities+"/"+slug)
}

func (s *server) leaveCommunity(ctx echo.Context) error {
	if err := currentSession(ctx).api.LeaveCommunity(ctx.Request().Context(), ctx.Param("slug")); err != nil {
		return errors.Wrap(err, "leaving community")
	}
	return ctx.Redirect(http.StatusFound, pathJoined)
}

func (s *server) createCommunityPost(ctx echo.Context) error {
	slug := ctx.Param("slug")
	in := api.PostInput{Content: ctx.FormValue("content")}
	if err := s.deps.Validate.Struct(in); err != nil {
		return err
	}
	image, err := formUpload(ctx, "image")
	if err != nil {
		return err
	}
	in.Image = image
	if _, err := currentSession(ctx).api.CreateCommunityPost(ctx.Request().Context(), slug, in); err != nil {
		return errors.Wrap(err, "creating community post")
	}
	return redirectBack(ctx, pathCommunities+"/"+slug)
}

func (s *server) transferOwnership(ctx echo.Context) error {
	slug := ctx.Param("slug")
	newOwnerID, err := strconv.Atoi(ctx.FormValue("new_owner_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "pemilik baru tidak valid")
	}
	if err := currentSession(ctx).api.TransferOwnership(ctx.Request().Context(), slug, newOwnerID); err != nil {
		return errors.Wrap(err, "transferring ownership")
	}
	return redirectBack(ctx, pathCommunities+"/"+slug+"/dashboard")
}

func (s *server) inviteExternal(ctx echo.Context) error {
	slug := ctx.Param("slug")
	err := currentSession(ctx).api.InviteExternal(ctx.Request().Context(), slug,
		ctx.FormValue("name"), ctx.FormValue("email"), ctx.FormValue("role"))
	if err != nil {
		return errors.Wrap(err, "inviting external member")
	}
	return redirectBack(ctx, pathCommunities+"/"+slug+"/members")
}

func (s *server) inviteMember(ctx echo.Context) error {
	slug := ctx.Param("slug")
	userID, err := strconv.Atoi(ctx.FormValue("user_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "pengguna tidak valid")
	}
	if err := currentSession(ctx).api.InviteMember(ctx.Request().Context(), slug, userID); err != nil {
		return errors.Wrap(err, "inviting member")
	}
	return redirectBack(ctx, pathCommunities+"/"+slug+"/members")
}

func (s *server) acceptInvitation(ctx echo.Context) error {
	slug := ctx.Param("slug")
	if err := currentSession(ctx).api.AcceptInvitation(ctx.Request().Context(), slug); err != nil {
		return errors.Wrap(err, "accepting invitation")
	}
	return ctx.Redirect(http.StatusFound, pathCommunities+"/"+slug)
}

func (s *server) declineInvitation(ctx echo.Context) error {
	if err := currentSession(ctx).api.DeclineInvitation(ctx.Request().Context(), ctx.Param("slug")); err != nil {
		return errors.Wrap(err, "declining invitation")
	}
	return redirectBack(ctx, pathNotifications)
}

func (s *server) kickMember(ctx echo.Context) error {
	slug := ctx.Param("slug")
	userID, err := strconv.Atoi(ctx.FormValue("user_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "pengguna tidak valid")
	}
	if err := currentSession(ctx).api.KickMember(ctx.Request().Context(), slug, userID); err != nil {
		return errors.Wrap(err, "kicking member")
	}
	return redirectBack(ctx, pathCommunities+"/"+slug+"/members")
}

func (s *server) changeMemberRole(ctx echo.Context) error {
	slug := ctx.Param("slug")
	userID, err := strconv.Atoi(ctx.FormValue("user_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "pengguna tidak valid")
	}
	if err := currentSession(ctx).api.ChangeMemberRole(ctx.Request().Context(), slug, userID, ctx.FormValue("role")); err != nil {
		return errors.Wrap(err, "changing member role")
	}
	return redirectBack(ctx, pathCommunities+"/"+slug+"/members")
}

func (s *server) approveJoinRequest(ctx echo.Context) error {
	slug := ctx.Param("slug")
	userID, err := strconv.Atoi(ctx.FormValue("user_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "pengguna tidak valid")
	}
	if err := currentSession(ctx).api.ApproveJoinRequest(ctx.Request().Context(), slug, userID); err != nil {
		return errors.Wrap(err, "approving join request")
	}
	return redirectBack(ctx, pathCommunities+"/"+slug+"/dashboard")
}

func (s *server) declineJoinRequest(ctx echo.Context) error {
	slug := ctx.Param("slug")
	userID, err := strconv.Atoi(ctx.FormValue("user_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "pengguna tidak valid")
	}
	if err := currentSession(ctx).api.DeclineJoinRequest(ctx.Request().Context(), slug, userID); err != nil {
		return errors.Wrap(err, "declining join request")
	}
	return redirectBack(ctx, pathCommunities+"/"+slug+"/dashboard")
}
