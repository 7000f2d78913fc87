package echoweb

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/sivitasdev/sivitas/services/api"
)

func forumPath(slug string, forumID int) string {
	return pathCommunities + "/" + slug + "/forums/" + strconv.Itoa(forumID)
}

func (s *server) forumPage(ctx echo.Context) error {
	forumID, err := intParam(ctx, "forumId")
	if err != nil {
		return err
	}
	slug := ctx.Param("slug")
	sess := currentSession(ctx)
	reqCtx := ctx.Request().Context()

	forum, err := sess.api.Forum(reqCtx, slug, forumID)
	if err != nil {
		return errors.Wrap(err, "fetching forum")
	}
	responds, err := sess.api.Responds(reqCtx, slug, forumID)
	if err != nil {
		return errors.Wrap(err, "fetching responds")
	}
	return s.render(ctx, http.StatusOK, "forum", echo.Map{
		"Slug":     slug,
		"Forum":    forum,
		"Responds": responds,
	})
}

func (s *server) createForum(ctx echo.Context) error {
	slug := ctx.Param("slug")
	in := api.ForumInput{
		Title: ctx.FormValue("title"),
		Body:  ctx.FormValue("body"),
	}
	if err := s.deps.Validate.Struct(in); err != nil {
		return err
	}
	attachment, err := formUpload(ctx, "attachment")
	if err != nil {
		return err
	}
	in.Attachment = attachment
	forum, err := currentSession(ctx).api.CreateForum(ctx.Request().Context(), slug, in)
	if err != nil {
		return errors.Wrap(err, "creating forum")
	}
	return ctx.Redirect(http.StatusFound, forumPath(slug, forum.ID))
}

func (s *server) createRespond(ctx echo.Context) error {
	forumID, err := intParam(ctx, "forumId")
	if err != nil {
		return err
	}
	slug := ctx.Param("slug")
	body := ctx.FormValue("body")
	if body == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "jawaban tidak boleh kosong")
	}
	if _, err := currentSession(ctx).api.CreateRespond(ctx.Request().Context(), slug, forumID, body); err != nil {
		return errors.Wrap(err, "creating respond")
	}
	return redirectBack(ctx, forumPath(slug, forumID))
}

func (s *server) markRespondAccepted(ctx echo.Context) error {
	forumID, err := intParam(ctx, "forumId")
	if err != nil {
		return err
	}
	respondID, err := intParam(ctx, "respondId")
	if err != nil {
		return err
	}
	slug := ctx.Param("slug")
	if err := currentSession(ctx).api.MarkRespondAccepted(ctx.Request().Context(), slug, forumID, respondID); err != nil {
		return errors.Wrap(err, "accepting respond")
	}
	return redirectBack(ctx, forumPath(slug, forumID))
}

func voteReaction(ctx echo.Context) (int, error) {
	switch ctx.FormValue("reaction") {
	case "1":
		return api.VoteUp, nil
	case "-1":
		return api.VoteDown, nil
	}
	return 0, echo.NewHTTPError(http.StatusBadRequest, "reaksi tidak valid")
}

func (s *server) voteForum(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	reaction, err := voteReaction(ctx)
	if err != nil {
		return err
	}
	if err := currentSession(ctx).api.VoteForum(ctx.Request().Context(), id, reaction); err != nil {
		return errors.Wrap(err, "voting on forum")
	}
	return redirectBack(ctx, pathHome)
}

func (s *server) voteRespond(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	reaction, err := voteReaction(ctx)
	if err != nil {
		return err
	}
	if err := currentSession(ctx).api.VoteRespond(ctx.Request().Context(), id, reaction); err != nil {
		return errors.Wrap(err, "voting on respond")
	}
	return redirectBack(ctx, pathHome)
}
